package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/vaultline/dat-backoffice-go/internal/config"
	"github.com/vaultline/dat-backoffice-go/internal/domain"
	"github.com/vaultline/dat-backoffice-go/internal/handler"
	"github.com/vaultline/dat-backoffice-go/internal/infra/backend"
	"github.com/vaultline/dat-backoffice-go/internal/infra/cache"
	"github.com/vaultline/dat-backoffice-go/internal/infra/observability"
	"github.com/vaultline/dat-backoffice-go/internal/infra/resilience"
	"github.com/vaultline/dat-backoffice-go/internal/port"
	"github.com/vaultline/dat-backoffice-go/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("backend_url", cfg.BackendURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.String("cache_backend", cfg.CacheBackend),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("advisory_timeout", cfg.AdvisoryTimeout),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "dat-backoffice")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Caches ---
	var (
		depositCache port.Cache[[]domain.DepositView]
		companyCache port.Cache[[]domain.Company]
	)
	if cfg.CacheBackend == "redis" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		depositCache = cache.NewRedis[[]domain.DepositView](rdb, "datbo", cfg.CacheTTL)
		companyCache = cache.NewRedis[[]domain.Company](rdb, "datbo", cfg.CacheTTL)
		logger.Info("using redis cache", zap.String("addr", cfg.RedisAddr))
	} else {
		depositCache = cache.New[[]domain.DepositView](cfg.CacheTTL)
		companyCache = cache.New[[]domain.Company](cfg.CacheTTL)
	}

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("backend")

	// --- Backend client ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	backendClient := backend.NewClient(httpClient, cfg.BackendURL, cfg.BackendAPIKey, cb, resilienceCfg, logger)

	// --- Services ---
	depositSvc := service.NewDepositService(
		backendClient,
		backendClient,
		depositCache,
		metrics,
		logger,
		cfg.AdvisoryTimeout,
	)
	boSvc := service.NewBackofficeService(
		backendClient,
		companyCache,
		metrics,
		logger,
	)

	// --- Router ---
	router := handler.NewRouter(depositSvc, boSvc, metrics, logger, cfg.JWTSecret, cfg.AllowedOrigins)

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
