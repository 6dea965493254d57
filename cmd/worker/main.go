package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/infrastructure/mapbox"
	"github.com/split-the-distance/internal/infrastructure/routing"
	"github.com/split-the-distance/internal/pkg/idgen"
	"github.com/split-the-distance/internal/pkg/logger"
	"github.com/split-the-distance/internal/pkg/metrics"
	"github.com/split-the-distance/internal/repository/cache"
	"github.com/split-the-distance/internal/repository/postgres"
	redisRepo "github.com/split-the-distance/internal/repository/redis"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/worker"
	"github.com/split-the-distance/internal/worker/distance"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Check if worker is enabled
	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}
	if cfg.Database.Driver == "memory" {
		fmt.Println("Worker needs shared storage; DB_DRIVER=memory refreshes distances inside the api.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Distance Worker")
	log.Info("Configuration loaded",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("read_timeout", cfg.Worker.StreamReadTimeout),
	)

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

	// 5. Initialize repositories
	store := usecase.TripStore{
		Trips:     postgres.NewTripRepository(db),
		Members:   postgres.NewMemberRepository(db),
		Dates:     postgres.NewDateRepository(db),
		Locations: postgres.NewLocationRepository(db),
		Itinerary: postgres.NewItineraryRepository(db),
		Messages:  postgres.NewMessageRepository(db),
		Live:      postgres.NewLiveStatusRepository(db),
	}
	collector := metrics.NewCollector()
	cacheRepo := cache.NewCacheRepository(redisClient)
	changes := redisRepo.NewChangeRepository(redisClient.Client(), collector, log)
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)

	mapboxClient := mapbox.NewClient(&cfg.Mapbox, log)
	routingRepo := routing.NewCachedRouting(
		routing.NewInstrumentedRouting(mapboxClient, collector),
		cacheRepo,
		cfg.Cache.RouteCacheTTL,
		collector,
		log,
	)

	seq, err := idgen.NewSequencer(2)
	if err != nil {
		log.Fatal("Failed to create id sequencer", zap.Error(err))
	}

	// 6. Initialize use cases. The worker never re-publishes to the stream
	// it consumes, so its notifier only reaches live subscribers.
	retry := usecase.RetryPolicy{MaxRetries: cfg.Mapbox.MaxRetries, Backoff: cfg.Mapbox.RetryBackoff}
	notifier := usecase.NewNotifier(changes, nil, collector, log)
	chatUC := usecase.NewChatUseCase(store, notifier, seq, log)
	midpointUC := usecase.NewMidpointUseCase(routingRepo, mapboxClient, cfg.Midpoint, retry, collector, log)
	locationUC := usecase.NewLocationUseCase(store, notifier, chatUC, midpointUC, routingRepo, mapboxClient, retry, true, log)

	// 7. Initialize workers
	distanceWorker := distance.NewWorker(
		streamRepo,
		locationUC,
		collector,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	)

	// 8. Create worker manager and register workers
	workerManager := worker.NewManager(log)
	workerManager.Register(distanceWorker)

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

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	if err := workerManager.Stop(stopCtx); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
