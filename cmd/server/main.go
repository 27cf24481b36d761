package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/simaogato/walletfolio-backend/internal/adapter/http"
	"github.com/simaogato/walletfolio-backend/internal/adapter/pricing"
	"github.com/simaogato/walletfolio-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/walletfolio-backend/internal/config"
	"github.com/simaogato/walletfolio-backend/internal/scheduler"
	"github.com/simaogato/walletfolio-backend/internal/usecase/analytics"
	"github.com/simaogato/walletfolio-backend/internal/usecase/snapshot"
	"github.com/simaogato/walletfolio-backend/internal/usecase/valuation"
	"github.com/simaogato/walletfolio-backend/pkg/logger"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info"})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting walletfolio backend")

	// 2. Database
	db, err := postgres.NewDB(cfg.DBConnStr)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// 3. Repositories
	walletRepo := postgres.NewWalletRepository(db)
	assetRepo := postgres.NewAssetRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	walletAssetRepo := postgres.NewWalletAssetRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)

	// 4. Pricing: both provider clients behind a short-lived cache
	coingecko := pricing.NewCached(pricing.NewCoinGeckoClient(log), pricing.DefaultCacheTTL)
	twelvedata := pricing.NewCached(pricing.NewTwelveDataClient(cfg.TwelveDataAPIKey, log), pricing.DefaultCacheTTL)
	if cfg.TwelveDataAPIKey == "" {
		log.Warn().Msg("TWELVEDATA_API_KEY not set, stock and ETF pricing disabled")
	}
	priceResolver := pricing.NewResolver(coingecko, twelvedata, log)

	// 5. Services
	valuationService := valuation.NewService(transactionRepo, walletAssetRepo, assetRepo, priceResolver, log)
	snapshotService := snapshot.NewService(walletRepo, snapshotRepo, valuationService, cfg.Timezone, log)
	analyticsService := analytics.NewService(walletRepo, snapshotRepo, valuationService, cfg.Timezone, cfg.AnalyticsLookbackDays, log)

	// 6. Background jobs
	sched := scheduler.New(cfg.Timezone, log)
	eodJob := scheduler.NewEODJob(walletRepo, snapshotService, log)
	if err := sched.AddJob(scheduler.EODSchedule, eodJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register EOD job")
	}
	sched.Start()
	defer sched.Stop()

	// 7. HTTP server
	srv := httpadapter.New(httpadapter.Config{
		Port:            cfg.Port,
		APIToken:        cfg.APIToken,
		Log:             log,
		WalletRepo:      walletRepo,
		AssetRepo:       assetRepo,
		TransactionRepo: transactionRepo,
		WalletAssetRepo: walletAssetRepo,
		SnapshotRepo:    snapshotRepo,
		Valuation:       valuationService,
		Snapshots:       snapshotService,
		Analytics:       analyticsService,
		Prices:          priceResolver,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Str("timezone", cfg.Timezone.String()).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
