package domain

import "strings"

// CategoriaPadrao é a categoria atribuída quando a planilha não possui
// a coluna 'categoria'.
const CategoriaPadrao = "Geral"

// Product representa um item de estoque normalizado a partir de uma linha
// da planilha (a Entidade central do domínio).
// Os campos de estoque são sempre inteiros não-negativos após a normalização.
type Product struct {
	Code         string `json:"code"` // Código único (coluna 'codigo'), preservado verbatim
	Name         string `json:"name"`
	Category     string `json:"category"`
	CurrentStock int    `json:"current_stock"`
	MinStock     int    `json:"min_stock"`
	MaxStock     int    `json:"max_stock"` // 0 significa "não rastreado"
}

// StockMetrics agrupa as métricas derivadas de saúde do estoque.
// São funções puras dos três campos de estoque — nunca armazenadas nem
// mutadas de forma independente.
type StockMetrics struct {
	ShortfallToMin int  `json:"shortfall_to_min"` // Quanto falta para atingir o mínimo
	HeadroomToMax  int  `json:"headroom_to_max"`  // Quanto cabe até o máximo (0 se não rastreado)
	IsLow          bool `json:"is_low"`
}

// Metrics calcula as métricas derivadas do produto.
// Total: definida para todo Product válido, inclusive MaxStock == 0.
func (p Product) Metrics() StockMetrics {
	m := StockMetrics{
		IsLow: p.CurrentStock <= p.MinStock,
	}
	if falta := p.MinStock - p.CurrentStock; falta > 0 {
		m.ShortfallToMin = falta
	}
	if sobra := p.MaxStock - p.CurrentStock; sobra > 0 {
		m.HeadroomToMax = sobra
	}
	return m
}

// MatchesCode informa se a consulta (já em minúsculas) ocorre no código.
func (p Product) MatchesCode(query string) bool {
	return strings.Contains(strings.ToLower(p.Code), query)
}

// MatchesName informa se a consulta (já em minúsculas) ocorre no nome.
func (p Product) MatchesName(query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query)
}

// --- Estruturas Auxiliares (Fonte Tabular) ---

// Table é a matriz bruta retornada pela fonte tabular (export CSV da
// planilha), antes de qualquer normalização.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex retorna o índice da coluna pelo nome, ou -1 se a coluna
// não existir na fonte. Ausência de coluna é distinta de célula vazia
// (o defaulting de 'categoria' é em nível de coluna).
func (t Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if strings.TrimSpace(col) == name {
			return i
		}
	}
	return -1
}

// Cell retorna o valor bruto da linha no índice de coluna dado
// ("" quando a linha é mais curta que o cabeçalho).
func (t Table) Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
