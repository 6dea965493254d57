package main

// @title Split The Distance API
// @version 1.0.0
// @description Plan trips with friends: vote on dates and destinations, find the fairest meeting point for the whole group, build an itinerary, chat and share live ETAs while travelling.
// @description
// @description Change notifications and live positions are streamed per trip over server-sent events.

// @contact.name API Support
// @contact.email support@split-the-distance.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"fmt"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	_ "github.com/split-the-distance/docs"
	"github.com/split-the-distance/internal/config"
	httpDelivery "github.com/split-the-distance/internal/delivery/http"
	"github.com/split-the-distance/internal/delivery/http/handler"
	"github.com/split-the-distance/internal/domain/repository"
	"github.com/split-the-distance/internal/infrastructure/mapbox"
	"github.com/split-the-distance/internal/infrastructure/natsbus"
	"github.com/split-the-distance/internal/infrastructure/routing"
	"github.com/split-the-distance/internal/pkg/idgen"
	"github.com/split-the-distance/internal/pkg/logger"
	"github.com/split-the-distance/internal/pkg/metrics"
	"github.com/split-the-distance/internal/repository/cache"
	"github.com/split-the-distance/internal/repository/memory"
	"github.com/split-the-distance/internal/repository/postgres"
	redisRepo "github.com/split-the-distance/internal/repository/redis"
	"github.com/split-the-distance/internal/usecase"
	"github.com/split-the-distance/internal/worker"
	"github.com/split-the-distance/internal/worker/tracking"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Split The Distance API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("db_driver", cfg.Database.Driver),
	)

	collector := metrics.NewCollector()
	health := make(map[string]httpDelivery.HealthCheck)

	// 3. Storage: PostgreSQL + Redis, or everything in process
	var (
		store     usecase.TripStore
		places    repository.PlacesRepository
		cacheRepo repository.CacheRepository
		changes   repository.ChangePublisher
		stream    repository.StreamRepository
		closers   []func() error
	)

	if cfg.Database.Driver == "memory" {
		s := memory.NewStore()
		store = usecase.TripStore{
			Trips:     memory.NewTripRepository(s),
			Members:   memory.NewMemberRepository(s),
			Dates:     memory.NewDateRepository(s),
			Locations: memory.NewLocationRepository(s),
			Itinerary: memory.NewItineraryRepository(s),
			Messages:  memory.NewMessageRepository(s),
			Live:      memory.NewLiveStatusRepository(s),
		}
		places = memory.NewPlacesRepository(nil)
		changes = memory.NewChangePublisher(collector)
		log.Warn("Using in-memory storage, state is lost on restart")
	} else {
		db, err := postgres.New(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to PostgreSQL", zap.Error(err))
		}
		closers = append(closers, db.Close)
		health["postgres"] = db.Health

		store = usecase.TripStore{
			Trips:     postgres.NewTripRepository(db),
			Members:   postgres.NewMemberRepository(db),
			Dates:     postgres.NewDateRepository(db),
			Locations: postgres.NewLocationRepository(db),
			Itinerary: postgres.NewItineraryRepository(db),
			Messages:  postgres.NewMessageRepository(db),
			Live:      postgres.NewLiveStatusRepository(db),
		}
		places = postgres.NewPlaceRepository(db)

		redisClient, err := cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		closers = append(closers, redisClient.Close)
		health["redis"] = redisClient.Health

		cacheRepo = cache.NewCacheRepository(redisClient)
		changes = redisRepo.NewChangeRepository(redisClient.Client(), collector, log)
		stream = redisRepo.NewStreamRepository(redisClient.Client(), cfg.Worker.StreamReadTimeout, log)
	}

	log.Info("Repositories initialized")

	// 4. Live position channel: NATS when enabled, otherwise in process
	var positions repository.PositionBroadcaster = memory.NewPositionBroadcaster()
	if cfg.NATS.Enabled {
		broadcaster, err := natsbus.Connect(cfg.NATS.URL, collector, log)
		if err != nil {
			log.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer broadcaster.Close()
		positions = broadcaster
	}

	// 5. Routing provider
	mapboxClient := mapbox.NewClient(&cfg.Mapbox, log)
	var routingRepo repository.RoutingRepository = routing.NewInstrumentedRouting(mapboxClient, collector)
	if cacheRepo != nil {
		routingRepo = routing.NewCachedRouting(routingRepo, cacheRepo, cfg.Cache.RouteCacheTTL, collector, log)
	}

	seq, err := idgen.NewSequencer(1)
	if err != nil {
		log.Fatal("Failed to create id sequencer", zap.Error(err))
	}

	// 6. Initialize Use Cases
	retry := usecase.RetryPolicy{MaxRetries: cfg.Mapbox.MaxRetries, Backoff: cfg.Mapbox.RetryBackoff}

	var invites usecase.InviteSender = usecase.NewLogInviteSender(log)
	if stream != nil {
		invites = usecase.NewStreamInviteSender(stream)
	}

	// Without the distance worker the api refreshes distances inline.
	syncRefresh := stream == nil || !cfg.Worker.Enabled

	// The session manager and the tracking use case reference each other.
	var trackingUC *usecase.TrackingUseCase
	sessions := tracking.NewSessionManager(func(ctx context.Context, tripID, memberID uuid.UUID) error {
		return trackingUC.RefreshSnapshot(ctx, tripID, memberID)
	}, cfg.Tracking.Interval, collector, log)

	notifier := usecase.NewNotifier(changes, stream, collector, log)
	midpointUC := usecase.NewMidpointUseCase(routingRepo, mapboxClient, cfg.Midpoint, retry, collector, log)
	placesUC := usecase.NewPlacesUseCase(places, mapboxClient, cacheRepo, cfg.Cache.PlacesCacheTTL, retry, log)
	chatUC := usecase.NewChatUseCase(store, notifier, seq, log)
	tripUC := usecase.NewTripUseCase(store, notifier, chatUC, sessions, log)
	locationUC := usecase.NewLocationUseCase(store, notifier, chatUC, midpointUC, routingRepo, mapboxClient, retry, syncRefresh, log)
	memberUC := usecase.NewMemberUseCase(store, notifier, chatUC, invites, locationUC.InlineRefresher(), log)
	dateUC := usecase.NewDateUseCase(store, notifier, chatUC, log)
	itineraryUC := usecase.NewItineraryUseCase(store, notifier, log)
	trackingUC = usecase.NewTrackingUseCase(store, notifier, chatUC, routingRepo, positions, sessions, collector, cfg.Tracking.StaleAfter, log)
	realtimeUC := usecase.NewRealtimeUseCase(store, changes, positions, log)

	log.Info("Use cases initialized")

	// 7. Background workers
	workerManager := worker.NewManager(log)
	workerManager.Register(sessions)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()
	if err := workerManager.Start(workerCtx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 8. Initialize HTTP Handlers
	handlers := httpDelivery.Handlers{
		Trip:      handler.NewTripHandler(tripUC, log),
		Member:    handler.NewMemberHandler(memberUC, log),
		Planning:  handler.NewPlanningHandler(tripUC, dateUC, locationUC, log),
		Itinerary: handler.NewItineraryHandler(itineraryUC, log),
		Chat:      handler.NewChatHandler(chatUC, log),
		Tracking:  handler.NewTrackingHandler(trackingUC, log),
		Midpoint:  handler.NewMidpointHandler(midpointUC, placesUC, log),
		Realtime:  handler.NewRealtimeHandler(realtimeUC, log),
	}

	log.Info("HTTP handlers initialized")

	// 9. Initialize HTTP Server
	var metricsHandler nethttp.Handler
	if cfg.Metrics.Enabled {
		metricsHandler = collector.Handler()
	}
	server := httpDelivery.NewServer(cfg, log, handlers, metricsHandler, health)

	// 10. Start server in goroutine
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	stopWorkers()
	if err := workerManager.Stop(ctx); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			log.Error("Failed to close connection", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
