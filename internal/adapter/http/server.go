// Package http exposes the application over a chi-routed REST API.
// Authentication of end users happens upstream; this layer checks a
// static API bearer token and trusts the X-User-Id header set by the
// auth proxy.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/simaogato/walletfolio-backend/internal/domain"
	"github.com/simaogato/walletfolio-backend/internal/usecase/analytics"
	"github.com/simaogato/walletfolio-backend/internal/usecase/snapshot"
	"github.com/simaogato/walletfolio-backend/internal/usecase/valuation"
)

// Config holds server configuration and collaborators
type Config struct {
	Port     int
	APIToken string
	Log      zerolog.Logger

	WalletRepo      domain.WalletRepository
	AssetRepo       domain.AssetRepository
	TransactionRepo domain.TransactionRepository
	WalletAssetRepo domain.WalletAssetRepository
	SnapshotRepo    domain.SnapshotRepository

	Valuation *valuation.Service
	Snapshots *snapshot.Service
	Analytics *analytics.Service
	Prices    valuation.PriceResolver
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger

	walletRepo      domain.WalletRepository
	assetRepo       domain.AssetRepository
	transactionRepo domain.TransactionRepository
	walletAssetRepo domain.WalletAssetRepository
	snapshotRepo    domain.SnapshotRepository

	valuation *valuation.Service
	snapshots *snapshot.Service
	analytics *analytics.Service
	prices    valuation.PriceResolver
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:          chi.NewRouter(),
		log:             cfg.Log.With().Str("component", "server").Logger(),
		walletRepo:      cfg.WalletRepo,
		assetRepo:       cfg.AssetRepo,
		transactionRepo: cfg.TransactionRepo,
		walletAssetRepo: cfg.WalletAssetRepo,
		snapshotRepo:    cfg.SnapshotRepo,
		valuation:       cfg.Valuation,
		snapshots:       cfg.Snapshots,
		analytics:       cfg.Analytics,
		prices:          cfg.Prices,
	}

	s.setupMiddleware()
	s.setupRoutes(cfg.APIToken)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-User-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(apiToken string) {
	// Health check stays outside auth
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware(apiToken))
		r.Use(s.userMiddleware)

		r.Route("/wallets", func(r chi.Router) {
			r.Get("/", s.handleListWallets)
			r.Post("/", s.handleCreateWallet)

			r.Route("/{walletID}", func(r chi.Router) {
				r.Get("/", s.handleGetWallet)
				r.Put("/", s.handleUpdateWallet)
				r.Delete("/", s.handleDeleteWallet)

				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", s.handleListTransactions)
					r.Post("/", s.handleCreateTransaction)
					r.Put("/{transactionID}", s.handleUpdateTransaction)
					r.Delete("/{transactionID}", s.handleDeleteTransaction)
				})

				r.Route("/assets", func(r chi.Router) {
					r.Get("/", s.handleListWalletAssets)
					r.Post("/", s.handleCreateWalletAsset)
					r.Delete("/{walletAssetID}", s.handleDeleteWalletAsset)
				})

				r.Get("/snapshots", s.handleListSnapshots)
			})
		})

		r.Route("/assets", func(r chi.Router) {
			r.Get("/", s.handleListAssets)
			r.Post("/", s.handleCreateAsset)
		})

		r.Get("/prices", s.handleGetPrices)
		r.Get("/analytics/summary", s.handleAnalyticsSummary)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
