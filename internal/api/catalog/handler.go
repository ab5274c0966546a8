package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"estoquemobile/internal/domain"
	apperror "estoquemobile/internal/errors"
	"estoquemobile/internal/pkg/logger"
)

// CatalogService define o contrato que o Handler espera da camada de Serviço.
type CatalogService interface {
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	LowStock(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)
	Summary(ctx context.Context) (domain.Summary, error)
	Refresh(ctx context.Context) (*domain.Snapshot, error)
}

// Handler agrupa os métodos de Handler do catálogo.
type Handler struct {
	Service CatalogService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc CatalogService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// ProductView é o DTO de produto com as métricas derivadas embutidas.
// As métricas são recalculadas a cada resposta — nunca armazenadas.
type ProductView struct {
	domain.Product
	Metrics domain.StockMetrics `json:"metrics"`
}

// NewProductViews monta a lista de DTOs a partir dos produtos.
func NewProductViews(products []domain.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i, p := range products {
		views[i] = ProductView{Product: p, Metrics: p.Metrics()}
	}
	return views
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

	// TRATAMENTO DE ERROS
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

// ListProductsHandler lida com GET /v1/products?categoria=.
func (h *Handler) ListProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	category := r.URL.Query().Get("categoria")
	products, err := h.Service.ListProducts(r.Context(), category)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, NewProductViews(products), nil, http.StatusOK)
}

// LowStockHandler lida com GET /v1/products/low-stock.
func (h *Handler) LowStockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	products, err := h.Service.LowStock(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, NewProductViews(products), nil, http.StatusOK)
}

// CategoriesHandler lida com GET /v1/categories.
func (h *Handler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	categories, err := h.Service.Categories(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{"categories": categories}, nil, http.StatusOK)
}

// SummaryHandler lida com GET /v1/summary.
func (h *Handler) SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	summary, err := h.Service.Summary(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	h.handleServiceResponse(w, r, summary, nil, http.StatusOK)
}

// RefreshHandler lida com POST /v1/refresh (botão "Atualizar" da UI):
// invalida o cache e refaz o fetch imediatamente.
func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	snap, err := h.Service.Refresh(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, http.StatusOK)
		return
	}

	response := map[string]interface{}{
		"fetched_at": snap.FetchedAt.Format(time.RFC3339),
		"summary":    snap.Summarize(),
	}
	h.handleServiceResponse(w, r, response, nil, http.StatusOK)
}
