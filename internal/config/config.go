package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	GeminiAPIKey         string
	GeminiBaseURL        string
	GeminiModel          string
	GeminiTimeoutSeconds int
	RandomSeed           int64 // 0 means time-seeded
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:enghub.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		GeminiAPIKey:         os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:        envOr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:          envOr("GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiTimeoutSeconds: envIntOr("GEMINI_TIMEOUT_SECONDS", 60),
		RandomSeed:           envInt64Or("RANDOM_SEED", 0),
	}
}

// Validate checks the configuration for values the server cannot run with.
// All problems are reported at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.GeminiBaseURL == "" {
		problems = append(problems, "GEMINI_BASE_URL cannot be empty")
	}
	if c.GeminiModel == "" {
		problems = append(problems, "GEMINI_MODEL cannot be empty")
	}
	if c.GeminiTimeoutSeconds <= 0 {
		problems = append(problems, "GEMINI_TIMEOUT_SECONDS must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envInt64Or(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
