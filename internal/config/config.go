package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port           int
	LogLevel       string
	AllowedOrigins []string

	// Backend
	BackendURL    string
	BackendAPIKey string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Advisory interest-processing trigger
	AdvisoryTimeout time.Duration

	// Cache
	CacheTTL     time.Duration
	CacheBackend string // "memory" or "redis"
	RedisAddr    string

	// Observability
	OTLPEndpoint string

	// Auth
	JWTSecret string
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:           getEnvInt("PORT", 8080),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),

		BackendURL:    getEnv("BACKEND_URL", "http://localhost:8081"),
		BackendAPIKey: getEnv("BACKEND_API_KEY", ""),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 50),

		AdvisoryTimeout: getEnvDuration("ADVISORY_TIMEOUT", 3*time.Second),

		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		JWTSecret: getEnv("JWT_SECRET", "datbo-default-dev-secret-change-me"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
