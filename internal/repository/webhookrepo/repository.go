package webhookrepo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"estoquemobile/internal/domain"
	apperror "estoquemobile/internal/errors"
	"estoquemobile/internal/pkg/logger"
)

// WebhookRepository submete movimentações ao endpoint externo (Apps
// Script) e devolve o payload bruto da resposta. A interpretação do
// payload (success/error/campos opcionais) é papel do movementservice.
type WebhookRepository struct {
	URL        string
	Timeout    time.Duration // Mais longo que o de leitura: o script processa a planilha
	httpClient *http.Client
	logger     logger.Logger
}

// NewWebhookRepository cria e retorna uma nova instância do Repositório.
func NewWebhookRepository(url string, timeout time.Duration, log logger.Logger) *WebhookRepository {
	return &WebhookRepository{
		URL:        url,
		Timeout:    timeout,
		httpClient: &http.Client{},
		logger:     log,
	}
}

// Submit envia a movimentação via POST JSON.
// Falhas de rede viram TransportError classificado (timeout, conexão ou
// status HTTP) — todas recuperáveis por nova tentativa do usuário.
// Uma resposta 2xx que não é JSON vira RemoteRejectionError.
func (r *WebhookRepository) Submit(ctx context.Context, req domain.MovementRequest) (map[string]interface{}, error) {
	r.logger.Debug("Submetendo movimentação ao webhook.", map[string]interface{}{
		"codigo":     req.Code,
		"quantidade": req.Quantity,
		"tipo":       string(req.Kind),
	})

	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperror.NewInternalError("falha ao serializar a movimentação", err)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctxTimeout, http.MethodPost, r.URL, bytes.NewReader(body))
	if err != nil {
		return nil, apperror.NewInternalError("falha ao montar a requisição do webhook", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		r.logger.Error("Falha de transporte ao submeter movimentação.", err)
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperror.NewTransportError(apperror.TransportStatus,
			fmt.Sprintf("webhook respondeu com status HTTP %d", resp.StatusCode), nil)
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperror.NewRemoteRejectionError("a resposta do webhook não é um JSON válido", err)
	}

	return payload, nil
}

// classifyTransport distingue timeout de erro de conexão. A distinção
// aparece no motivo exibido ao usuário, mas ambos são retryable.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.NewTransportError(apperror.TransportTimeout,
			"tempo esgotado aguardando o webhook", err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return apperror.NewTransportError(apperror.TransportTimeout,
			"tempo esgotado aguardando o webhook", err)
	}

	return apperror.NewTransportError(apperror.TransportConnection,
		"falha de conexão com o webhook", err)
}
