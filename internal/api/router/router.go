package router

import (
	"net/http"
	"time"

	"estoquemobile/internal/api/catalog"
	"estoquemobile/internal/api/movement"
	"estoquemobile/internal/api/search"
	"estoquemobile/internal/pkg/cache"
	"estoquemobile/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(
	catalogHandler *catalog.Handler,
	searchHandler *search.Handler,
	movementHandler *movement.Handler,
	cacheClient cache.Client,
	rateLimit int,
	ratePeriod time.Duration,
) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	// --- 1. Health Check ---
	mux.HandleFunc("/ping", PingHandler)

	// --- 2. Rotas do Catálogo (v1) ---
	mux.HandleFunc("/v1/products", catalogHandler.ListProductsHandler)
	mux.HandleFunc("/v1/products/low-stock", catalogHandler.LowStockHandler)
	mux.HandleFunc("/v1/categories", catalogHandler.CategoriesHandler)
	mux.HandleFunc("/v1/summary", catalogHandler.SummaryHandler)
	mux.HandleFunc("/v1/refresh", catalogHandler.RefreshHandler)

	// --- 3. Busca ---
	mux.HandleFunc("/v1/search", searchHandler.SearchHandler)

	// --- 4. Movimentação (rate limited: o webhook é lento e sem proteção própria) ---
	limiter := middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)
	mux.Handle("/v1/movements", limiter(http.HandlerFunc(movementHandler.SubmitMovementHandler)))

	// --- 5. Middlewares globais ---
	return middleware.RequestID(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
