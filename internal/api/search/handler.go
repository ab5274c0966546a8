package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"estoquemobile/internal/api/catalog"
	"estoquemobile/internal/domain"
	apperror "estoquemobile/internal/errors"
	"estoquemobile/internal/pkg/logger"
	"estoquemobile/internal/service/searchservice"
)

// SearchService define o contrato que o Handler espera da camada de Serviço.
type SearchService interface {
	Search(ctx context.Context, query, category string) ([]domain.Product, error)
}

// Handler agrupa os métodos de Handler da busca.
type Handler struct {
	Service SearchService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc SearchService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// SearchResponse é o corpo de resposta da busca. Hint é preenchido
// quando a consulta é curta demais — a UI mostra o aviso, não um erro.
type SearchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Results []catalog.ProductView `json:"results"`
	Hint    string                `json:"hint,omitempty"`
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// SearchHandler lida com GET /v1/search?q=&categoria=.
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("categoria")

	results, err := h.Service.Search(r.Context(), query, category)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	response := SearchResponse{
		Query:   query,
		Count:   len(results),
		Results: catalog.NewProductViews(results),
	}
	if searchservice.TooShort(query) {
		response.Hint = fmt.Sprintf("Digite pelo menos %d caracteres", searchservice.MinQueryLen)
	}

	h.handleServiceResponse(w, r, response, nil, http.StatusOK)
}
