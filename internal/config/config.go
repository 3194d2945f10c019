package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Pipeline PipelineConfig
	Audit    AuditConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	LLMLogFilePath     string
	CorsAllowedOrigins string
	JWTSecret          string
	NatsURL            string
	RedisURL           string
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection string // application store (postgres + pgvector)

	// Target of generated queries. Empty QueryConnection reuses the application store.
	QueryDriver     string // "mysql" or "postgres"
	QueryConnection string
	QueryReadOnly   bool
}

type APIKeys struct {
	GoogleGemini string
	OpenRouter   string
	Anthropic    string
	Jina         string
}

type AIConfig struct {
	EmbeddingProvider    string // "gemini", "ollama" or "jina"
	OllamaBaseURL        string
	OllamaEmbeddingModel string

	DefaultLLMProvider string // provider used for models missing from the routing table
	ModelRoutingFile   string
	OpenRouterBaseURL  string
	OpenRouterAppName  string
	OpenRouterSiteURL  string

	SchemaTopK            int
	HistoryWindow         int // exchanges, one exchange is a user turn plus an ai turn
	HistoryPageSize       int
	ReasoningRowCharLimit int
}

type PipelineConfig struct {
	RequestTimeout      time.Duration
	LLMStageTimeout     time.Duration
	SQLExecutionTimeout time.Duration
	RoomLockTTL         time.Duration
}

type AuditConfig struct {
	MaxRetries    int
	RetryInterval time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			LLMLogFilePath:     getEnv("LLM_LOG_FILE_PATH", "logs/llm.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JWTSecret:          getEnv("JWT_SECRET_KEY", ""),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection:      getEnv("DB_CONNECTION_STRING", ""),
			QueryDriver:     strings.ToLower(getEnv("QUERY_DB_DRIVER", "mysql")),
			QueryConnection: getEnv("QUERY_DB_CONNECTION_STRING", ""),
			QueryReadOnly:   getEnvAsBool("QUERY_DB_READ_ONLY", true),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_API_KEY", ""),
			OpenRouter:   getEnv("OPENROUTER_API_KEY", ""),
			Anthropic:    getEnv("ANTHROPIC_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider:     getEnv("EMBEDDING_PROVIDER", "gemini"),
			OllamaBaseURL:         getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaEmbeddingModel:  getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			DefaultLLMProvider:    getEnv("DEFAULT_LLM_PROVIDER", "openrouter"),
			ModelRoutingFile:      getEnv("MODEL_ROUTING_FILE", "config/models.yaml"),
			OpenRouterBaseURL:     getEnv("BASE_URL_OPEN_ROUTER", "https://openrouter.ai/api/v1"),
			OpenRouterAppName:     getEnv("OPENROUTER_APP_NAME", "ChatBudgeting"),
			OpenRouterSiteURL:     getEnv("OPENROUTER_SITE_URL", "http://localhost"),
			SchemaTopK:            getEnvAsInt("SCHEMA_TOP_K", 4),
			HistoryWindow:         getEnvAsInt("HISTORY_WINDOW", 2),
			HistoryPageSize:       getEnvAsInt("HISTORY_PAGE_SIZE", 50),
			ReasoningRowCharLimit: getEnvAsInt("REASONING_ROW_CHAR_BUDGET", 2500),
		},
		Pipeline: PipelineConfig{
			RequestTimeout:      getEnvAsDuration("REQUEST_TIMEOUT", 120*time.Second),
			LLMStageTimeout:     getEnvAsDuration("LLM_STAGE_TIMEOUT", 45*time.Second),
			SQLExecutionTimeout: getEnvAsDuration("SQL_EXECUTION_TIMEOUT", 15*time.Second),
			RoomLockTTL:         getEnvAsDuration("ROOM_LOCK_TTL", 150*time.Second),
		},
		Audit: AuditConfig{
			MaxRetries:    getEnvAsInt("AUDIT_MAX_RETRIES", 3),
			RetryInterval: getEnvAsDuration("AUDIT_RETRY_INTERVAL", 500*time.Millisecond),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30").
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
