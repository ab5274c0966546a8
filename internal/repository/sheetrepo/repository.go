package sheetrepo

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"estoquemobile/internal/domain"
	"estoquemobile/internal/errors"
	"estoquemobile/internal/pkg/logger"
)

// SheetRepository busca o export CSV da planilha (a fonte de verdade do
// estoque) e o decodifica em uma Table bruta. Nenhuma normalização
// acontece aqui — isso é papel do catalogservice.
type SheetRepository struct {
	URL          string
	FetchTimeout time.Duration
	httpClient   *http.Client
	logger       logger.Logger
}

// NewSheetRepository cria e retorna uma nova instância do Repositório.
func NewSheetRepository(url string, fetchTimeout time.Duration, log logger.Logger) *SheetRepository {
	return &SheetRepository{
		URL:          url,
		FetchTimeout: fetchTimeout,
		httpClient:   &http.Client{},
		logger:       log,
	}
}

// FetchTable faz o GET do CSV e o decodifica.
// Qualquer falha de fetch ou de decodificação é um SourceFormatError:
// a fonte inteira está ilegível, o refresh deve ser abortado preservando
// o snapshot anterior.
func (r *SheetRepository) FetchTable(ctx context.Context) (domain.Table, error) {
	r.logger.Debug("Buscando CSV da planilha.", map[string]interface{}{"url": r.URL})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctxTimeout, http.MethodGet, r.URL, nil)
	if err != nil {
		return domain.Table{}, errors.NewSourceFormatError("URL da planilha inválida", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.logger.Error("Falha ao buscar CSV da planilha.", err)
		return domain.Table{}, errors.NewSourceFormatError("falha ao buscar o CSV da planilha", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Table{}, errors.NewSourceFormatError(
			fmt.Sprintf("planilha respondeu com status HTTP %d", resp.StatusCode), nil)
	}

	// Linhas com número de campos diferente do cabeçalho são toleradas
	// (FieldsPerRecord negativo); a normalização trata células ausentes.
	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		r.logger.Error("Falha ao decodificar CSV da planilha.", err)
		return domain.Table{}, errors.NewSourceFormatError("o corpo da resposta não é um CSV válido", err)
	}

	if len(records) == 0 {
		return domain.Table{}, errors.NewSourceFormatError("CSV vazio: sem linha de cabeçalho", nil)
	}

	table := domain.Table{
		Columns: records[0],
		Rows:    records[1:],
	}

	r.logger.Debug("CSV decodificado.", map[string]interface{}{
		"columns": len(table.Columns),
		"rows":    len(table.Rows),
	})
	return table, nil
}
