package catalogservice

import (
	"context"
	"sync"
	"time"

	"estoquemobile/internal/domain"
	"estoquemobile/internal/pkg/logger"
)

// SheetSource define o contrato que o Serviço de Catálogo espera da
// camada de acesso à planilha.
type SheetSource interface {
	FetchTable(ctx context.Context) (domain.Table, error)
}

// Service mantém o cache de snapshot (slot único) e expõe as leituras do
// catálogo. O Snapshot é reconstruído por inteiro a cada refresh — nunca
// mutado campo a campo — para não divergir da fonte de verdade externa.
type Service struct {
	source SheetSource
	ttl    time.Duration
	logger logger.Logger
	now    func() time.Time

	mu    sync.Mutex
	snap  *domain.Snapshot
	dirty bool // Invalidate() força refetch na próxima leitura
}

// NewService cria e retorna uma nova instância do Serviço de Catálogo.
func NewService(source SheetSource, ttl time.Duration, log logger.Logger) *Service {
	return &Service{
		source: source,
		ttl:    ttl,
		logger: log,
		now:    time.Now,
	}
}

// GetOrRefresh retorna o snapshot corrente enquanto fresco; quando
// vencido (ou invalidado), dispara fetch + normalização e substitui o
// slot. Em falha de fetch, o snapshot anterior é preservado e retornado
// junto com o erro: dado velho é preferível a dado nenhum.
func (s *Service) GetOrRefresh(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap != nil && !s.dirty && !s.snap.Stale(s.now(), s.ttl) {
		return s.snap, nil
	}

	table, err := s.source.FetchTable(ctx)
	if err != nil {
		s.logger.Error("Falha ao atualizar snapshot da planilha.", err)
		return s.snap, err
	}

	snap := &domain.Snapshot{
		Products:  Normalize(table),
		FetchedAt: s.now(),
	}
	s.snap = snap
	s.dirty = false

	s.logger.Info("Snapshot atualizado.", map[string]interface{}{
		"products":   len(snap.Products),
		"fetched_at": snap.FetchedAt.Format(time.RFC3339),
	})
	return snap, nil
}

// Invalidate força refetch na próxima leitura, ignorando o TTL.
// Deve ser chamado após toda movimentação bem-sucedida: o estado da
// planilha mudou fora do nosso controle.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// Refresh invalida e refaz o fetch imediatamente (botão "Atualizar").
func (s *Service) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	s.Invalidate()
	return s.GetOrRefresh(ctx)
}

// snapshot aplica a política stale-but-available das rotas de leitura:
// se o refresh falhou mas há snapshot anterior, serve o dado velho e
// apenas loga; erro só quando nunca houve carga bem-sucedida.
func (s *Service) snapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.GetOrRefresh(ctx)
	if snap == nil {
		return nil, err
	}
	if err != nil {
		s.logger.Warn("Servindo snapshot vencido: refresh falhou.", map[string]interface{}{
			"fetched_at": snap.FetchedAt.Format(time.RFC3339),
		})
	}
	return snap, nil
}

// ListProducts retorna os produtos da categoria ("" ou "Todas" = todos).
func (s *Service) ListProducts(ctx context.Context, category string) ([]domain.Product, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.FilterByCategory(category), nil
}

// LowStock retorna os produtos com estoque atual <= mínimo.
func (s *Service) LowStock(ctx context.Context) ([]domain.Product, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.LowStock(), nil
}

// Categories retorna a lista ordenada de categorias distintas.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Categories(), nil
}

// Summary retorna os totais do painel.
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return domain.Summary{}, err
	}
	return snap.Summarize(), nil
}
