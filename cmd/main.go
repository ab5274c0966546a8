package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	// Nossos pacotes de infraestrutura e utilitários
	"estoquemobile/config"
	"estoquemobile/internal/pkg/cache"
	"estoquemobile/internal/pkg/logger"

	// Camadas da aplicação para Injeção de Dependências
	"estoquemobile/internal/api/catalog"
	"estoquemobile/internal/api/movement"
	"estoquemobile/internal/api/router"
	"estoquemobile/internal/api/search"
	"estoquemobile/internal/repository/sheetrepo"
	"estoquemobile/internal/repository/webhookrepo"
	"estoquemobile/internal/service/catalogservice"
	"estoquemobile/internal/service/movementservice"
	"estoquemobile/internal/service/searchservice"
)

func main() {
	// 1. Configuração e Inicialização
	log.Println("⚡ Inicializando serviço Estoque Mobile...")

	// O godotenv.Load() procura por um arquivo .env na raiz. Se o arquivo
	// não existir, seguimos em frente: as variáveis essenciais podem estar
	// no ambiente do sistema (ex: Docker).
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aviso: Arquivo .env não encontrado ou erro de leitura. Carregando configs apenas do ambiente do sistema.")
	}

	cfg := config.LoadConfig()
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("Configurações carregadas.", map[string]interface{}{
		"cache_ttl_sec": int(cfg.CacheTTL.Seconds()),
		"search_limit":  cfg.SearchLimit,
	})

	// 2. Conexão com Recursos de Infraestrutura

	// A. Cache (Redis) — usado pelo rate limiter da rota de movimentação
	cacheClient := cache.NewRedisClient(cfg.RedisAddr)
	log.Info("Cliente Redis inicializado.", nil)

	// 3. INJEÇÃO DE DEPENDÊNCIAS
	// Ordem: Repository -> Service -> Handler

	// A. Repositórios (acesso aos colaboradores externos)
	sheetRepo := sheetrepo.NewSheetRepository(cfg.SheetsURL, cfg.FetchTimeout, log)
	log.Debug("Repositório da planilha inicializado.", nil)

	webhookRepo := webhookrepo.NewWebhookRepository(cfg.WebhookURL, cfg.MovementTimeout, log)
	log.Debug("Repositório do webhook inicializado.", nil)

	// B. Serviços (lógica de negócio)
	catalogSvc := catalogservice.NewService(sheetRepo, cfg.CacheTTL, log)
	log.Debug("Serviço de Catálogo inicializado.", nil)

	searchSvc := searchservice.NewService(catalogSvc, cfg.SearchLimit, log)
	log.Debug("Serviço de Busca inicializado.", nil)

	movementSvc := movementservice.NewService(catalogSvc, webhookRepo, movementservice.Options{
		CollectOperator: cfg.CollectOperator,
		Operators:       cfg.Operators,
		ResponseFields:  cfg.ResponseFields,
	}, log)
	log.Debug("Serviço de Movimentação inicializado.", nil)

	// C. Handlers (camada de apresentação)
	catalogHandler := catalog.NewHandler(catalogSvc, log)
	searchHandler := search.NewHandler(searchSvc, log)
	movementHandler := movement.NewHandler(movementSvc, log)
	log.Debug("Handlers inicializados.", nil)

	// 4. Configuração e Início do Roteador/Servidor
	r := router.NewRouter(catalogHandler, searchHandler, movementHandler,
		cacheClient, cfg.RateLimitMaxRequests, cfg.RateLimitPeriod)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.MovementTimeout + 5*time.Second, // A rota de movimentação espera o webhook
		IdleTimeout:  60 * time.Second,
	}

	// 5. Execução e Graceful Shutdown
	go func() {
		log.Info("Servidor Estoque Mobile ouvindo na porta", map[string]interface{}{"port": cfg.Port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Servidor falhou.", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	log.Info("Sinal de encerramento recebido. Desligando servidor...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Desligamento do servidor forçado.", err)
	}

	log.Info("Servidor encerrado com sucesso.", nil)
}
