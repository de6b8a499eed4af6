package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/marchon-locator/internal/config"
	"github.com/marchon-locator/internal/domain/repository"
	"github.com/marchon-locator/internal/infrastructure/actionnetwork"
	"github.com/marchon-locator/internal/infrastructure/mapbox"
	"github.com/marchon-locator/internal/infrastructure/sheets"
	"github.com/marchon-locator/internal/pkg/logger"
	"github.com/marchon-locator/internal/pkg/metrics"
	"github.com/marchon-locator/internal/repository/cache"
	"github.com/marchon-locator/internal/repository/postgres"
	redisRepo "github.com/marchon-locator/internal/repository/redis"
	"github.com/marchon-locator/internal/usecase"
	"github.com/marchon-locator/internal/worker"
	"github.com/marchon-locator/internal/worker/syncer"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if cfg.Mapbox.AccessToken == "" {
		fmt.Println("Sync worker needs MAPBOX_ACCESS_TOKEN.")
		os.Exit(1)
	}
	if cfg.Sheets.SheetID == "" && cfg.ActionNetwork.APIKey == "" {
		fmt.Println("Sync worker needs SHEET_ID or ACTION_NETWORK_API_KEY.")
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "locator-sync")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting upstream sync worker")
	log.Info("Configuration loaded",
		zap.String("dataset", cfg.Sync.Dataset),
		zap.String("sheet_layout", cfg.Sheets.Layout),
		zap.Bool("action_network", cfg.ActionNetwork.APIKey != ""),
		zap.Duration("interval", cfg.Sync.Interval),
		zap.Strings("countries", cfg.Mapbox.Countries))

	// 3. Connect to PostgreSQL
	db, err := postgres.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close PostgreSQL connection", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Initialize repositories and clients
	featureRepo := postgres.NewFeatureRepository(db)
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	geocoder := mapbox.NewMapboxClient(&cfg.Mapbox, log)

	// 6. Upstream feeds: sheet rows first, Action Network rows override them
	var feeds []repository.EventFeedRepository
	if cfg.Sheets.SheetID != "" {
		sheet, err := sheets.NewClient(&cfg.Sheets, log)
		if err != nil {
			log.Fatal("Failed to initialize sheet feed", zap.Error(err))
		}
		feeds = append(feeds, sheet)
	}
	if cfg.ActionNetwork.APIKey != "" {
		feeds = append(feeds, actionnetwork.NewClient(&cfg.ActionNetwork, log))
	}

	// 7. Initialize use cases
	syncUC := usecase.NewSyncUseCase(
		feeds,
		geocoder,
		featureRepo,
		cacheRepo,
		streamRepo,
		usecase.SyncOptions{Countries: cfg.Mapbox.Countries},
		metrics.New(),
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	workerManager.Register(syncer.NewSyncWorker(syncUC, cfg.Sync.Dataset, cfg.Sync.Interval, log))

	// 9. Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Info("Received shutdown signal")

	cancel()

	if err := workerManager.Stop(); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
