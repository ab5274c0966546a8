package catalogservice

import (
	"math"
	"strconv"
	"strings"

	"estoquemobile/internal/domain"
)

// Nomes das colunas da planilha. 'codigo' e 'nome' são obrigatórios;
// as demais são opcionais e recebem defaults na ausência da coluna.
const (
	colCodigo       = "codigo"
	colNome         = "nome"
	colCategoria    = "categoria"
	colEstoqueAtual = "estoque_atual"
	colEstoqueMin   = "estoque_min"
	colEstoqueMax   = "estoque_max"
)

// Normalize converte a tabela bruta da planilha em produtos validados,
// preservando a ordem das linhas. Ingestão "best effort": linhas sem
// código ou nome são descartadas silenciosamente, nunca abortam a carga.
func Normalize(table domain.Table) []domain.Product {
	idxCodigo := table.ColumnIndex(colCodigo)
	idxNome := table.ColumnIndex(colNome)
	idxCategoria := table.ColumnIndex(colCategoria)
	idxAtual := table.ColumnIndex(colEstoqueAtual)
	idxMin := table.ColumnIndex(colEstoqueMin)
	idxMax := table.ColumnIndex(colEstoqueMax)

	products := make([]domain.Product, 0, len(table.Rows))

	for _, row := range table.Rows {
		code := strings.TrimSpace(table.Cell(row, idxCodigo))
		name := strings.TrimSpace(table.Cell(row, idxNome))
		if code == "" || name == "" {
			// Linha sem identidade: descarte silencioso.
			continue
		}

		p := domain.Product{
			Code:         code,
			Name:         name,
			Category:     domain.CategoriaPadrao,
			CurrentStock: parseQuantity(table.Cell(row, idxAtual)),
			MinStock:     parseQuantity(table.Cell(row, idxMin)),
			MaxStock:     parseQuantity(table.Cell(row, idxMax)),
		}

		// Defaulting de categoria em nível de COLUNA: se a coluna existe,
		// a célula é mantida como está, mesmo vazia. O sentinela "Geral"
		// só se aplica quando a planilha não tem a coluna.
		if idxCategoria >= 0 {
			p.Category = table.Cell(row, idxCategoria)
		}

		products = append(products, p)
	}

	return products
}

// parseQuantity faz o parse permissivo de uma célula numérica da
// planilha: aceita decimais (truncados), e qualquer valor ausente,
// ilegível ou negativo vira 0.
func parseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	// Valores fora da faixa de int estourariam na conversão e virariam
	// negativos, quebrando a invariante de estoque não-negativo. Nenhuma
	// contagem de estoque real chega perto disso: trata como ilegível.
	if f < 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}
