package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	postgresGateway "github.com/iho/fintrack/internal/adapter/gateway/postgres"
	restGateway "github.com/iho/fintrack/internal/adapter/gateway/rest"
	httpAdapter "github.com/iho/fintrack/internal/adapter/http"
	"github.com/iho/fintrack/internal/adapter/http/handler"
	redisRepo "github.com/iho/fintrack/internal/adapter/repository/redis"
	"github.com/iho/fintrack/internal/infrastructure/config"
	"github.com/iho/fintrack/internal/infrastructure/logger"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
	"github.com/iho/fintrack/internal/infrastructure/postgres"
	"github.com/iho/fintrack/internal/infrastructure/redis"
	"github.com/iho/fintrack/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	ctx := context.Background()
	m := metrics.New()

	// Ledger store backend
	var gateway usecase.LedgerGateway
	var pool *pgxpool.Pool

	switch cfg.StoreBackend {
	case config.StorePostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}

		pool, err = postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		defer pool.Close()
		appLogger.Info().Msg("connected to postgres")

		gateway = postgresGateway.NewGateway(pool)

	default:
		gateway = restGateway.NewClient(cfg.StoreBaseURL, cfg.StoreTimeout, m, appLogger)
		appLogger.Info().Str("base_url", cfg.StoreBaseURL).Msg("using remote ledger store")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresGateway.NewULIDGenerator()

	// Initialize use cases
	purchaseUC := usecase.NewPurchaseUseCase(gateway, idGen, cache, m, appLogger)
	entryUC := usecase.NewEntryUseCase(gateway, idGen, cache, m, appLogger)
	seriesUC := usecase.NewSeriesUseCase(gateway, cache, m, appLogger)
	summaryUC := usecase.NewSummaryUseCase(gateway, cache, m, appLogger)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PurchaseHandler:  handler.NewPurchaseHandler(purchaseUC),
		EntryHandler:     handler.NewEntryHandler(entryUC),
		SeriesHandler:    handler.NewSeriesHandler(seriesUC),
		SummaryHandler:   handler.NewSummaryHandler(summaryUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           appLogger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info().Msg("server stopped")
}
