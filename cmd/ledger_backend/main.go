package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/household_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/household_ledger/internal/core/services"
	"github.com/SscSPs/household_ledger/internal/handlers"
	"github.com/SscSPs/household_ledger/internal/middleware"
	"github.com/SscSPs/household_ledger/internal/platform/config"
	"github.com/SscSPs/household_ledger/internal/repositories/cache"
	"github.com/SscSPs/household_ledger/internal/repositories/database/memory"
	"github.com/SscSPs/household_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/household_ledger/internal/utils/validation"
	"github.com/SscSPs/household_ledger/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title Household Ledger API
// @version 1.0
// @description Double-entry household ledger: accounts, entries, checkpoints, multi-currency balances and investment lots.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("Invalid REDIS_URL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			// Redis is an optimisation; keep serving without it.
			logger.Warn("Redis not reachable, continuing without cache and shared rate limits", slog.String("error", err.Error()))
			redisClient = nil
		}
	}

	store, rates, rateWriter, cleanup, err := openStore(ctx, cfg, redisClient, logger)
	if err != nil {
		logger.Error("Failed to initialize store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	if redisClient != nil {
		rc := cache.NewRateCache(redisClient, rates, rateWriter, cfg.RateCacheTTL, logger)
		rates, rateWriter = rc, rc
	}

	serviceContainer := services.NewServiceContainer(store, rates, rateWriter)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.RegisterGin()

	rateLimiter, err := middleware.NewLimiter(cfg.RateLimit, redisClient)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RateLimit(rateLimiter),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openStore selects PostgreSQL when PGSQL_URL is set and the in-memory store otherwise.
// Migrations run under a Redis lock when Redis is available so concurrent replicas do not race.
func openStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *slog.Logger) (repositories.Store, repositories.RateProvider, repositories.ExchangeRateWriter, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("Using the in-memory store; data is lost on restart")
		st := memory.NewStore()
		return st, st, st, func() {}, nil
	}

	migrate := func(context.Context) error {
		logger.Info("Running database migrations...")
		_, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, database.MigrateUp, logger)
		return err
	}
	var err error
	if redisClient != nil {
		err = cache.WithLock(ctx, redisClient, "lock:ledger:migrations", 2*time.Minute, time.Minute, migrate)
	} else {
		err = migrate(ctx)
	}
	if err != nil {
		return nil, nil, nil, nil, err
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger.Info("Database connection pool established.")

	st := pgsql.NewStore(pool)
	return st, st, st, func() { database.ClosePgxPool(pool) }, nil
}
