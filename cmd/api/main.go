package main

// @title MarchOn Locator API
// @version 1.0.0
// @description Сервис карты событий MarchOn: ближайшее событие или аффилиат к точке пользователя,
// @description классификация событий на прошедшие и будущие, разбиение на слои карты.
// @description
// @description Основные возможности:
// @description - Поиск ближайшей фичи по формуле гаверсинуса
// @description - Будущие и прошедшие события с настраиваемой отсечкой
// @description - Слои легенды карты (аффилиаты, семейные события, MarchOn Polls)
// @description - GeoJSON снимки наборов данных

// @contact.name MarchOn Tech
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/marchon-locator/docs"
	"github.com/marchon-locator/internal/calendar"
	"github.com/marchon-locator/internal/config"
	httpDelivery "github.com/marchon-locator/internal/delivery/http"
	"github.com/marchon-locator/internal/delivery/http/handler"
	"github.com/marchon-locator/internal/domain/repository"
	"github.com/marchon-locator/internal/infrastructure/geojson"
	"github.com/marchon-locator/internal/layers"
	"github.com/marchon-locator/internal/pkg/logger"
	"github.com/marchon-locator/internal/pkg/metrics"
	"github.com/marchon-locator/internal/repository/cache"
	"github.com/marchon-locator/internal/repository/postgres"
	redisrepo "github.com/marchon-locator/internal/repository/redis"
	"github.com/marchon-locator/internal/usecase"
	"github.com/marchon-locator/internal/worker"
	"github.com/marchon-locator/internal/worker/refresh"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "locator-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting MarchOn Locator API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("features_source", cfg.Features.Source),
		zap.Strings("datasets", cfg.Features.Datasets),
	)

	m := metrics.New()
	checks := make(map[string]handler.HealthChecker)

	// 3. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()
	checks["redis"] = redisClient
	log.Info("Redis connected")

	// 4. Feature source
	var source repository.FeatureSource
	switch cfg.Features.Source {
	case config.FeaturesSourcePostgres:
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Failed to close PostgreSQL connection", zap.Error(err))
			}
		}()
		checks["postgres"] = db
		source = postgres.NewFeatureRepository(db)
		log.Info("PostgreSQL feature store connected")
	default:
		source = geojson.NewClient(&cfg.Features, log)
		log.Info("Reading published datasets", zap.String("base_url", cfg.Features.BaseURL))
	}

	// 5. Layer catalogue
	catalogue := layers.Default()
	if cfg.Features.LayersFile != "" {
		catalogue, err = layers.LoadFile(cfg.Features.LayersFile)
		if err != nil {
			log.Fatal("Failed to load layer catalogue", zap.String("file", cfg.Features.LayersFile), zap.Error(err))
		}
	}

	// 6. Initialize Repositories
	cacheRepo := cache.NewCacheRepository(redisClient)
	streamRepo := redisrepo.NewStreamRepository(redisClient.Client(), log)

	// 7. Initialize Use Cases
	cal := usecase.CalendarSettings{
		Clock:         calendar.RealClock{},
		GraceDays:     cfg.Features.GraceDays,
		DisplayCutoff: cfg.Features.DisplayCutoff,
	}

	featureUC := usecase.NewFeatureSetUseCase(
		source,
		cacheRepo,
		cfg.Features.Datasets,
		cfg.Features.DefaultDataset,
		cfg.Cache.FeaturesTTL,
		m,
		log,
	)
	featureUC.SetLoadTimeout(cfg.Features.LoadTimeout)
	nearestUC := usecase.NewNearestUseCase(featureUC, catalogue, cal, m, log)
	eventUC := usecase.NewEventUseCase(featureUC, catalogue, cal, log)
	layerUC := usecase.NewLayerUseCase(featureUC, catalogue, cal, log)

	log.Info("Use cases initialized")

	// 8. Warm up snapshots
	warmCtx, warmCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := featureUC.RefreshAll(warmCtx, false); err != nil {
		log.Warn("Initial snapshot load failed, datasets will load on first request", zap.Error(err))
	}
	warmCancel()

	// 9. HTTP server
	server := httpDelivery.NewServer(cfg, log, m, httpDelivery.Handlers{
		Health:  handler.NewHealthHandler(featureUC, checks, log),
		Feature: handler.NewFeatureHandler(featureUC, eventUC, log),
		Nearest: handler.NewNearestHandler(nearestUC, log),
		Event:   handler.NewEventHandler(eventUC, log),
		Layer:   handler.NewLayerHandler(layerUC, log),
	})

	// 10. Snapshot refresh worker
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerManager := worker.NewWorkerManager(log, worker.DefaultShutdownTimeout)
	if cfg.Worker.Enabled {
		consumerName := cfg.Worker.ConsumerName
		if consumerName == "" {
			hostname, _ := os.Hostname()
			consumerName = fmt.Sprintf("%s-%d", hostname, os.Getpid())
		}
		// каждому экземпляру API своя группа: событие должен получить каждый
		workerManager.Register(refresh.NewSnapshotRefreshWorker(streamRepo, featureUC, refresh.Config{
			ConsumerGroup:     cfg.Worker.ConsumerGroup + ":" + consumerName,
			ConsumerName:      consumerName,
			BatchSize:         cfg.Worker.BatchSize,
			MaxRetries:        cfg.Worker.MaxRetries,
			IdleSleep:         cfg.Worker.StreamReadTimeout,
			DeleteGroupOnExit: true,
		}, m, log))

		if err := workerManager.Start(ctx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 11. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if cfg.Worker.Enabled {
		cancel()
		if err := workerManager.Stop(); err != nil {
			log.Error("Worker shutdown error", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
