package searchservice

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"estoquemobile/internal/domain"
	"estoquemobile/internal/pkg/logger"
)

// MinQueryLen é o mínimo de caracteres (após trim) para disparar a busca.
// Abaixo disso o resultado é vazio; a UI mostra "digite mais", não erro.
const MinQueryLen = 2

// TooShort informa se a consulta, após trim, não atinge MinQueryLen.
// A camada de API usa o mesmo predicado para decidir a dica ao usuário.
func TooShort(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) < MinQueryLen
}

// Catalog define o contrato que o Serviço de Busca espera do catálogo.
type Catalog interface {
	GetOrRefresh(ctx context.Context) (*domain.Snapshot, error)
}

// Service implementa a busca ranqueada sobre o snapshot corrente.
type Service struct {
	catalog Catalog
	limit   int // Teto de resultados, aplicado após o ranking
	logger  logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Busca.
func NewService(catalog Catalog, limit int, log logger.Logger) *Service {
	return &Service{catalog: catalog, limit: limit, logger: log}
}

// Search busca produtos por código ou nome dentro da categoria dada.
// Segue a política stale-but-available: se o refresh falhou mas existe
// snapshot anterior, busca no dado velho.
func (s *Service) Search(ctx context.Context, query, category string) ([]domain.Product, error) {
	snap, err := s.catalog.GetOrRefresh(ctx)
	if snap == nil {
		return nil, err
	}
	if err != nil {
		s.logger.Warn("Buscando em snapshot vencido: refresh falhou.", nil)
	}

	results := Rank(query, snap.FilterByCategory(category), s.limit)

	s.logger.Debug("Busca concluída.", map[string]interface{}{
		"query":   query,
		"results": len(results),
	})
	return results, nil
}

// Rank filtra e ordena os candidatos por relevância:
//  1. consultas com menos de MinQueryLen caracteres retornam vazio;
//  2. o predicado é substring case-insensitive sobre código OU nome;
//  3. quem casa no código vem antes de quem só casa no nome;
//  4. empate resolve por código ascendente (case-insensitive);
//  5. o teto é aplicado depois da ordenação, nunca antes.
func Rank(query string, candidates []domain.Product, limit int) []domain.Product {
	if TooShort(query) {
		return nil
	}
	q := strings.ToLower(strings.TrimSpace(query))

	type match struct {
		product domain.Product
		inCode  bool
	}

	var matches []match
	for _, p := range candidates {
		inCode := p.MatchesCode(q)
		if inCode || p.MatchesName(q) {
			matches = append(matches, match{product: p, inCode: inCode})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].inCode != matches[j].inCode {
			return matches[i].inCode
		}
		return strings.ToLower(matches[i].product.Code) < strings.ToLower(matches[j].product.Code)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]domain.Product, len(matches))
	for i, m := range matches {
		results[i] = m.product
	}
	return results
}
