package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
	API      APIConfig
	Ai       AIConfig
	Socket   SocketConfig
	DevTools DevToolsConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	RealtimeLogPath    string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	Driver    string // "memory", "redis" or "postgres"
	KeyPrefix string
}

type AuthConfig struct {
	JWTSecret    string
	SessionTTL   time.Duration
	RefreshTTL   time.Duration
	FailureEmail string
}

type APIConfig struct {
	ContractorBaseURL string
	// Zero means no timeout.
	RequestTimeout time.Duration
}

type AIConfig struct {
	LLMProvider       string // "ollama", "huggingface" or "none"
	LLMModel          string
	OllamaBaseURL     string
	HuggingFaceAPIKey string
	ChatFallback      bool
}

type SocketConfig struct {
	URL               string
	ReconnectAttempts int
	ReconnectWait     time.Duration
}

type DevToolsConfig struct {
	Enabled bool
	Trace   bool
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	env := getEnv("GO_ENV", "development")
	natsURL := getEnv("NATS_URL", "nats://localhost:4222")

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        env,
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			RealtimeLogPath:    getEnv("REALTIME_LOG_FILE_PATH", "logs/realtime.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            natsURL,
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			Driver:    getEnv("STORAGE_DRIVER", "memory"),
			KeyPrefix: getEnv("STORAGE_KEY_PREFIX", "buildhub:"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
			SessionTTL:   getEnvAsDuration("SESSION_TTL", time.Hour),
			RefreshTTL:   getEnvAsDuration("REFRESH_TTL", 7*24*time.Hour),
			FailureEmail: getEnv("AUTH_FAILURE_EMAIL", "error@test.com"),
		},
		API: APIConfig{
			ContractorBaseURL: getEnv("API_BASE_URL", "http://localhost:3001"),
			RequestTimeout:    getEnvAsDuration("API_REQUEST_TIMEOUT", 0),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			HuggingFaceAPIKey: getEnv("HUGGINGFACE_API_KEY", ""),
			ChatFallback:      getEnvAsBool("CHAT_FALLBACK", true),
		},
		Socket: SocketConfig{
			URL:               getEnv("SOCKET_URL", natsURL),
			ReconnectAttempts: getEnvAsInt("SOCKET_RECONNECT_ATTEMPTS", 5),
			ReconnectWait:     getEnvAsDuration("SOCKET_RECONNECT_WAIT", time.Second),
		},
		DevTools: DevToolsConfig{
			Enabled: getEnvAsBool("DEVTOOLS_ENABLED", env != "production"),
			Trace:   getEnvAsBool("DEVTOOLS_TRACE", false),
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

// getEnvAsDuration accepts Go durations ("90s") or plain milliseconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if d, err := time.ParseDuration(strValue); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(strValue); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
