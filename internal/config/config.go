package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by PROFVERIFY_ENV (or .env by
// default), then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("PROFVERIFY_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL returns the Postgres connection string for the primary
// store. Empty means the primary store is not configured.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// SQLitePath returns the path of the embedded fallback store. Empty
// means no fallback store.
func SQLitePath() string {
	return os.Getenv("SQLITE_PATH")
}

func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}

func OpenAIAPIKey() string {
	return os.Getenv("OPENAI_API_KEY")
}

// LLMProvider returns the configured reasoning-service provider.
// Defaults to "gemini" if not set.
// Valid values: gemini, openai, mock
func LLMProvider() string {
	p := os.Getenv("LLM_PROVIDER")
	if p == "" {
		return "gemini"
	}
	return p
}

// LLMAPIKey returns the API key for the configured provider.
func LLMAPIKey() string {
	switch LLMProvider() {
	case "openai":
		return OpenAIAPIKey()
	case "mock":
		return ""
	default:
		return GeminiAPIKey()
	}
}

// APIKey returns the static API key protecting the /v1 routes.
// Empty disables authentication (local development).
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
