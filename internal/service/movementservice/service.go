package movementservice

import (
	"context"
	"errors"
	"fmt"

	"estoquemobile/internal/domain"
	apperror "estoquemobile/internal/errors"
	"estoquemobile/internal/pkg/logger"
)

// Catalog define o contrato que o Serviço de Movimentação espera do
// catálogo: leitura do snapshot e invalidação após sucesso.
type Catalog interface {
	GetOrRefresh(ctx context.Context) (*domain.Snapshot, error)
	Invalidate()
}

// Webhook define o contrato da camada de submissão ao endpoint externo.
type Webhook interface {
	Submit(ctx context.Context, req domain.MovementRequest) (map[string]interface{}, error)
}

// Options agrupa as políticas de implantação do fluxo de movimentação.
type Options struct {
	CollectOperator bool     // Implantação coleta identidade do operador?
	Operators       []string // Roster fixo; vazio aceita texto livre
	ResponseFields  domain.ResponseFieldMap
}

// Service valida movimentações contra o snapshot local, monta a
// requisição, submete ao webhook e interpreta a resposta.
type Service struct {
	catalog Catalog
	webhook Webhook
	opts    Options
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Movimentação.
func NewService(catalog Catalog, webhook Webhook, opts Options, log logger.Logger) *Service {
	return &Service{catalog: catalog, webhook: webhook, opts: opts, logger: log}
}

// MovementInput é a intenção de movimentação vinda do handler.
type MovementInput struct {
	Code     string
	Quantity int
	Kind     domain.MovementKind
	Operator string
}

// SubmitMovement executa o fluxo completo de uma movimentação.
//
// Erros de validação (quantidade, estoque insuficiente, código
// desconhecido) interrompem antes de qualquer chamada de rede e são
// retornados como error. Falhas de transporte e rejeições do endpoint
// nunca viram error: resolvem para um MovementOutcome de falha que a UI
// exibe e permite repetir.
//
// A checagem de saída é otimista: usa o estoque do snapshot local, que
// pode estar defasado em relação à planilha. O arbitro final é o script
// externo — se o estoque real for insuficiente na execução, a rejeição
// dele é repassada verbatim.
func (s *Service) SubmitMovement(ctx context.Context, in MovementInput) (domain.MovementOutcome, error) {
	// 1. Validações locais, antes de tocar a rede
	if in.Quantity <= 0 {
		return domain.MovementOutcome{}, apperror.NewInvalidQuantityError(
			"A quantidade deve ser um inteiro positivo.")
	}
	if !in.Kind.Valid() {
		return domain.MovementOutcome{}, apperror.NewValidationError(
			fmt.Sprintf("Tipo de movimentação inválido: '%s' (use 'entrada' ou 'saida').", in.Kind))
	}
	if err := s.validateOperator(in.Operator); err != nil {
		return domain.MovementOutcome{}, err
	}

	// 2. Snapshot local (stale-but-available: se o refresh falhou mas há
	// snapshot anterior, a validação otimista usa o dado velho)
	snap, err := s.catalog.GetOrRefresh(ctx)
	if snap == nil {
		return domain.MovementOutcome{}, err
	}
	if err != nil {
		s.logger.Warn("Validando movimentação contra snapshot vencido.", nil)
	}

	product, ok := snap.FindByCode(in.Code)
	if !ok {
		return domain.MovementOutcome{}, apperror.NewNotFoundError(
			fmt.Sprintf("Produto com código '%s' não existe no snapshot.", in.Code))
	}

	if in.Kind == domain.MovementOutflow && in.Quantity > product.CurrentStock {
		return domain.MovementOutcome{}, apperror.NewInsufficientStockError(
			fmt.Sprintf("Saída de %d unidades excede o estoque atual (%d).",
				in.Quantity, product.CurrentStock))
	}

	// 3. Montagem da requisição (código preservado verbatim da planilha)
	req := domain.MovementRequest{
		Code:     product.Code,
		Quantity: in.Quantity,
		Kind:     in.Kind,
	}
	if s.opts.CollectOperator {
		req.Operator = in.Operator
	}

	// 4. Submissão e interpretação
	payload, err := s.webhook.Submit(ctx, req)
	if err != nil {
		return s.failureOutcome(err)
	}

	outcome := InterpretPayload(payload, s.opts.ResponseFields)

	// 5. Invalidação do cache: a planilha mudou fora do nosso controle
	if outcome.Success {
		s.catalog.Invalidate()
		s.logger.Info("Movimentação confirmada pelo webhook.", map[string]interface{}{
			"codigo":     req.Code,
			"quantidade": req.Quantity,
			"tipo":       string(req.Kind),
		})
	} else {
		s.logger.Warn("Movimentação rejeitada pelo webhook.", map[string]interface{}{
			"codigo": req.Code,
			"motivo": outcome.Reason,
		})
	}

	return outcome, nil
}

// validateOperator aplica a política de identidade do operador.
func (s *Service) validateOperator(operator string) error {
	if !s.opts.CollectOperator {
		return nil
	}
	if operator == "" {
		return apperror.NewValidationError("Selecione o colaborador responsável pela movimentação.")
	}
	if len(s.opts.Operators) == 0 {
		return nil
	}
	for _, op := range s.opts.Operators {
		if op == operator {
			return nil
		}
	}
	return apperror.NewValidationError(
		fmt.Sprintf("Colaborador '%s' não consta na lista de operadores.", operator))
}

// failureOutcome converte falhas de transporte e respostas ilegíveis em
// Outcome de falha retryable. Erros realmente inesperados sobem como error.
func (s *Service) failureOutcome(err error) (domain.MovementOutcome, error) {
	var transportErr *apperror.TransportError
	if errors.As(err, &transportErr) {
		return domain.MovementOutcome{
			Success:   false,
			Reason:    transportErr.Error(),
			Retryable: true,
		}, nil
	}

	var rejectionErr *apperror.RemoteRejectionError
	if errors.As(err, &rejectionErr) {
		return domain.MovementOutcome{
			Success:   false,
			Reason:    rejectionErr.Error(),
			Retryable: true,
		}, nil
	}

	return domain.MovementOutcome{}, err
}
