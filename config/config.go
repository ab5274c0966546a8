package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"estoquemobile/internal/domain"
)

// Config armazena todas as configurações do serviço Estoque Mobile.
// A fonte de verdade do estoque é externa (planilha + webhook); aqui
// ficam apenas os endereços, timeouts e políticas de cache/busca.
type Config struct {
	// Geral
	Port        string
	Environment string
	LogLevel    string

	// Fonte de dados (export CSV da planilha)
	SheetsURL    string
	FetchTimeout time.Duration // Timeout curto: leitura do CSV

	// Webhook de movimentação (Apps Script)
	WebhookURL      string
	MovementTimeout time.Duration // Timeout longo: o script é lento
	ResponseFields  domain.ResponseFieldMap

	// Cache de snapshot
	CacheTTL time.Duration

	// Busca
	SearchLimit int

	// Identidade do operador (algumas implantações coletam, outras não)
	CollectOperator bool
	Operators       []string // Roster fixo; vazio = texto livre

	// Cache (Redis) para o rate limiter
	RedisAddr string

	// Rate Limiting da rota de movimentação
	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
}

// LoadConfig carrega as configurações a partir das variáveis de ambiente.
func LoadConfig() *Config {
	cfg := &Config{
		// 1. Geral
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// 2. Fonte de dados
		// mustGetEnv garante que a aplicação não inicie sem os endpoints externos
		SheetsURL:    mustGetEnv("SHEETS_URL"),
		FetchTimeout: getDurationEnv("FETCH_TIMEOUT_SEC", 10) * time.Second,

		// 3. Webhook de movimentação
		WebhookURL:      mustGetEnv("WEBHOOK_URL"),
		MovementTimeout: getDurationEnv("MOVEMENT_TIMEOUT_SEC", 30) * time.Second,
		ResponseFields:  loadResponseFields(),

		// 4. Cache de snapshot
		CacheTTL: getDurationEnv("CACHE_TTL_SEC", 30) * time.Second,

		// 5. Busca
		SearchLimit: getIntEnv("SEARCH_LIMIT", 5),

		// 6. Operador
		CollectOperator: getBoolEnv("COLLECT_OPERATOR", false),
		Operators:       getListEnv("OPERATORS"),

		// 7. Redis / Rate Limiting
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RateLimitMaxRequests: getIntEnv("RATE_LIMIT_MAX_REQUESTS", 100),
		RateLimitPeriod:      getDurationEnv("RATE_LIMIT_PERIOD_MIN", 1) * time.Minute,
	}

	return cfg
}

// loadResponseFields monta o mapeamento declarativo dos campos da resposta
// do webhook. Implantações diferentes do script usam nomes diferentes para
// os mesmos conceitos, então cada campo é configurável.
func loadResponseFields() domain.ResponseFieldMap {
	def := domain.DefaultResponseFieldMap()
	return domain.ResponseFieldMap{
		Success:       getEnv("RESP_SUCCESS_FIELD", def.Success),
		Message:       getEnv("RESP_MESSAGE_FIELD", def.Message),
		Error:         getEnv("RESP_ERROR_FIELD", def.Error),
		PreviousStock: getEnv("RESP_PREV_STOCK_FIELD", def.PreviousStock),
		NewStock:      getEnv("RESP_NEW_STOCK_FIELD", def.NewStock),
	}
}

// Funções Helpers (Auxiliares)

// getEnv lê a variável de ambiente ou retorna um valor padrão.
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// mustGetEnv lê a variável de ambiente, fatal se não estiver presente.
func mustGetEnv(key string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Fatalf("❌ Erro de Configuração: A variável de ambiente %s deve ser definida.", key)
	return ""
}

// getDurationEnv lê uma variável de ambiente numérica e retorna-a como time.Duration.
func getDurationEnv(key string, defaultValue int) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return time.Duration(defaultValue)
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return time.Duration(defaultValue)
	}
	return time.Duration(value)
}

// getIntEnv lê uma variável de ambiente numérica e retorna-a como int.
func getIntEnv(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um número inteiro válido. Usando padrão (%d).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getBoolEnv lê uma variável de ambiente booleana ("true"/"1"/"false"...).
func getBoolEnv(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("⚠️ Aviso: Valor de %s ('%s') não é um booleano válido. Usando padrão (%v).", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// getListEnv lê uma lista separada por vírgulas, descartando entradas vazias.
func getListEnv(key string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return nil
	}

	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
