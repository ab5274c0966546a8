package domain

import (
	"sort"
	"strings"
	"time"
)

// Snapshot é uma cópia imutável do conjunto completo de produtos,
// capturada em um único fetch da planilha. A ordem das linhas da fonte
// é preservada. O Snapshot nunca é mutado: movimentações são enviadas ao
// webhook externo e só aparecem aqui no próximo refresh.
type Snapshot struct {
	Products  []Product
	FetchedAt time.Time
}

// Stale informa se o snapshot ultrapassou o TTL em relação a 'now'.
func (s *Snapshot) Stale(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.FetchedAt) > ttl
}

// FindByCode localiza um produto pelo código (comparação case-insensitive,
// código preservado verbatim no retorno).
func (s *Snapshot) FindByCode(code string) (Product, bool) {
	want := strings.ToLower(strings.TrimSpace(code))
	for _, p := range s.Products {
		if strings.ToLower(p.Code) == want {
			return p, true
		}
	}
	return Product{}, false
}

// FilterByCategory retorna os produtos da categoria dada.
// Categoria vazia ou "Todas" retorna o conjunto completo.
func (s *Snapshot) FilterByCategory(category string) []Product {
	if category == "" || category == "Todas" {
		return s.Products
	}
	var out []Product
	for _, p := range s.Products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories retorna a lista ordenada de categorias distintas do snapshot.
func (s *Snapshot) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, p := range s.Products {
		if !seen[p.Category] {
			seen[p.Category] = true
			cats = append(cats, p.Category)
		}
	}
	sort.Strings(cats)
	return cats
}

// LowStock retorna os produtos com estoque atual menor ou igual ao mínimo,
// na ordem da fonte.
func (s *Snapshot) LowStock() []Product {
	var out []Product
	for _, p := range s.Products {
		if p.Metrics().IsLow {
			out = append(out, p)
		}
	}
	return out
}

// Summary agrega os totais exibidos no painel do app.
type Summary struct {
	TotalProducts int `json:"total_products"`
	TotalStock    int `json:"total_stock"`
	LowStockCount int `json:"low_stock_count"`
}

// Summarize calcula os totais do snapshot.
func (s *Snapshot) Summarize() Summary {
	sum := Summary{TotalProducts: len(s.Products)}
	for _, p := range s.Products {
		sum.TotalStock += p.CurrentStock
		if p.Metrics().IsLow {
			sum.LowStockCount++
		}
	}
	return sum
}
