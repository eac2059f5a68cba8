package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/adiwinata/duitmu/internal/transport/httpapi/handler"
	"github.com/adiwinata/duitmu/internal/transport/httpapi/middleware"
	"github.com/adiwinata/duitmu/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger             *logger.Logger
	AllowedOrigins     []string
	AuthHandler        *handler.AuthHandler
	WalletHandler      *handler.WalletHandler
	TransactionHandler *handler.TransactionHandler
	CheckpointHandler  *handler.CheckpointHandler
	ReportHandler      *handler.ReportHandler
	CategoryHandler    *handler.CategoryHandler
	ScopeHandler       *handler.ScopeHandler
	HealthHandler      *handler.HealthHandler
	JWTMiddleware      func(http.Handler) http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	r.Use(middleware.RateLimit()) // Rate limiting: 100 req/s with burst of 20

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Auth routes (public - no authentication required)
		if cfg.AuthHandler != nil {
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		// Protected routes (require JWT authentication)
		if cfg.JWTMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(cfg.JWTMiddleware)

				// Wallet routes
				if cfg.WalletHandler != nil {
					r.Post("/wallets", cfg.WalletHandler.CreateWallet)
					r.Get("/wallets", cfg.WalletHandler.GetWallets)
					r.Get("/wallets/{id}", cfg.WalletHandler.GetWallet)
					r.Put("/wallets/{id}", cfg.WalletHandler.UpdateWallet)
					r.Delete("/wallets/{id}", cfg.WalletHandler.DeleteWallet)
					r.Get("/wallets/{id}/balance", cfg.WalletHandler.GetWalletBalance)
				}

				// Checkpoint and ghost report routes
				if cfg.CheckpointHandler != nil {
					r.Post("/wallets/{id}/checkpoints", cfg.CheckpointHandler.CreateCheckpoint)
					r.Get("/wallets/{id}/checkpoints", cfg.CheckpointHandler.GetHistory)
					r.Get("/wallets/{id}/checkpoints/latest", cfg.CheckpointHandler.GetLatest)
					r.Get("/wallets/{id}/ghosts", cfg.CheckpointHandler.GetGhostReport)
				}

				// Transaction routes
				if cfg.TransactionHandler != nil {
					r.Post("/transactions", cfg.TransactionHandler.CreateTransaction)
					r.Get("/transactions", cfg.TransactionHandler.GetTransactions)
					r.Get("/transactions/{id}", cfg.TransactionHandler.GetTransaction)
					r.Put("/transactions/{id}", cfg.TransactionHandler.UpdateTransaction)
					r.Delete("/transactions/{id}", cfg.TransactionHandler.DeleteTransaction)
					r.Post("/transfers", cfg.TransactionHandler.Transfer)
					r.Delete("/transfers/{id}", cfg.TransactionHandler.DeleteTransfer)
					r.Post("/wallets/{id}/recalculate", cfg.TransactionHandler.Recalculate)
				}

				// Report routes
				if cfg.ReportHandler != nil {
					r.Get("/reports/summary", cfg.ReportHandler.GetSummary)
					r.Get("/reports/breakdown/{dimension}", cfg.ReportHandler.GetBreakdown)
				}

				// Category routes
				if cfg.CategoryHandler != nil {
					r.Post("/categories", cfg.CategoryHandler.CreateCategory)
					r.Get("/categories", cfg.CategoryHandler.GetCategories)
					r.Put("/categories/{id}", cfg.CategoryHandler.UpdateCategory)
					r.Delete("/categories/{id}", cfg.CategoryHandler.DeleteCategory)
				}

				// Scope routes
				if cfg.ScopeHandler != nil {
					r.Post("/scopes", cfg.ScopeHandler.CreateScope)
					r.Get("/scopes", cfg.ScopeHandler.GetScopes)
					r.Put("/scopes/{id}", cfg.ScopeHandler.UpdateScope)
					r.Delete("/scopes/{id}", cfg.ScopeHandler.DeleteScope)
				}
			})
		}
	})

	return r
}
