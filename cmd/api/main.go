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

	"github.com/adiwinata/duitmu/internal/infra/postgres"
	infraRedis "github.com/adiwinata/duitmu/internal/infra/redis"
	"github.com/adiwinata/duitmu/internal/ledger"
	"github.com/adiwinata/duitmu/internal/platform/category"
	"github.com/adiwinata/duitmu/internal/platform/scope"
	"github.com/adiwinata/duitmu/internal/platform/user"
	"github.com/adiwinata/duitmu/internal/platform/wallet"
	"github.com/adiwinata/duitmu/internal/transport/httpapi"
	"github.com/adiwinata/duitmu/internal/transport/httpapi/handler"
	"github.com/adiwinata/duitmu/internal/transport/httpapi/middleware"
	"github.com/adiwinata/duitmu/pkg/config"
	"github.com/adiwinata/duitmu/pkg/logger"
)

// redisPinger adapts the redis client to the health handler's Pinger
type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting Duitmu API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for ghost report caching. The cache is best
	// effort: an unreachable Redis disables it instead of blocking startup.
	var reportCache ledger.ReportCache
	var cachePinger handler.Pinger
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, ghost report caching disabled", "error", err)
	} else {
		reportCache = infraRedis.NewReportCacheWithTTL(redisClient, cfg.ReportCacheTTL, log)
		cachePinger = redisPinger{client: redisClient}
		log.Info("Redis connection established")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db.Pool)
	walletRepo := postgres.NewWalletRepository(db.Pool)
	transactionRepo := postgres.NewTransactionRepository(db.Pool)
	checkpointRepo := postgres.NewCheckpointRepository(db.Pool)
	categoryRepo := postgres.NewCategoryRepository(db.Pool)
	scopeRepo := postgres.NewScopeRepository(db.Pool)

	// Initialize services
	userSvc := user.NewService(userRepo, log)
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)
	walletSvc := wallet.NewService(walletRepo)
	categorySvc := category.NewService(categoryRepo)
	scopeSvc := scope.NewService(scopeRepo)
	ledgerSvc := ledger.NewService(transactionRepo, checkpointRepo, walletRepo, reportCache, log)
	log.Info("Ledger service initialized")

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(userSvc, jwtSvc)
	walletHandler := handler.NewWalletHandler(walletSvc, ledgerSvc)
	transactionHandler := handler.NewTransactionHandler(ledgerSvc)
	checkpointHandler := handler.NewCheckpointHandler(ledgerSvc)
	reportHandler := handler.NewReportHandler(ledgerSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	scopeHandler := handler.NewScopeHandler(scopeSvc)
	healthHandler := handler.NewHealthHandler(db, cachePinger)

	// Create JWT middleware
	jwtMiddleware := middleware.JWTMiddleware(jwtSvc)

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:             log,
		AllowedOrigins:     cfg.AllowedOrigins,
		AuthHandler:        authHandler,
		WalletHandler:      walletHandler,
		TransactionHandler: transactionHandler,
		CheckpointHandler:  checkpointHandler,
		ReportHandler:      reportHandler,
		CategoryHandler:    categoryHandler,
		ScopeHandler:       scopeHandler,
		HealthHandler:      healthHandler,
		JWTMiddleware:      jwtMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
