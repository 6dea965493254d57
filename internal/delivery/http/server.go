package http

import (
	"context"
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"

	"github.com/split-the-distance/internal/config"
	"github.com/split-the-distance/internal/delivery/http/handler"
	"github.com/split-the-distance/internal/delivery/http/middleware"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Handlers groups every HTTP handler the server routes to.
type Handlers struct {
	Trip      *handler.TripHandler
	Member    *handler.MemberHandler
	Planning  *handler.PlanningHandler
	Itinerary *handler.ItineraryHandler
	Chat      *handler.ChatHandler
	Tracking  *handler.TrackingHandler
	Midpoint  *handler.MidpointHandler
	Realtime  *handler.RealtimeHandler
}

// Server - HTTP server on Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	handlers Handlers
	metrics  nethttp.Handler
	health   map[string]HealthCheck
}

// NewServer builds the app and its routes. metrics may be nil.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	handlers Handlers,
	metrics nethttp.Handler,
	health map[string]HealthCheck,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Split The Distance",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		logger:   logger,
		handlers: handlers,
		metrics:  metrics,
		health:   health,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		// event streams must not be buffered by the compressor
		Next: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAccept) == "text/event-stream"
		},
	}))
}

func (s *Server) setupRoutes() {
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)
	s.app.Get("/health", s.healthCheck)
	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics))
	}

	api := s.app.Group("/api/v1")
	api.Get("/health", s.healthCheck)

	// Stateless midpoint tools
	mp := s.handlers.Midpoint
	api.Post("/midpoint/pair", mp.PairMidpoint)
	api.Post("/midpoint/pair/select", mp.SelectRoute)
	api.Post("/midpoint/group", mp.GroupMidpoint)
	api.Post("/places/nearby", mp.NearbyPlaces)
	api.Get("/geocode", mp.Geocode)

	// Everything below acts on behalf of a signed-in user
	auth := middleware.Auth(s.config.Auth)

	invites := api.Group("/invites", auth)
	invites.Post("/join", s.handlers.Member.JoinTrip)
	invites.Post("/decline", s.handlers.Member.DeclineInvite)

	trips := api.Group("/trips", auth)
	trips.Post("/", s.handlers.Trip.CreateTrip)
	trips.Get("/", s.handlers.Trip.ListTrips)
	trips.Get("/:id", s.handlers.Trip.GetTrip)
	trips.Patch("/:id", s.handlers.Trip.UpdateTrip)
	trips.Put("/:id/voting", s.handlers.Trip.SetVoting)
	trips.Post("/:id/start", s.handlers.Trip.StartTrip)
	trips.Post("/:id/complete", s.handlers.Trip.CompleteTrip)
	trips.Post("/:id/cancel", s.handlers.Trip.CancelTrip)
	trips.Get("/:id/destination", s.handlers.Trip.GetDestination)

	// Members
	trips.Get("/:id/members", s.handlers.Member.ListMembers)
	trips.Post("/:id/members", s.handlers.Member.AddGuest)
	trips.Post("/:id/guests", s.handlers.Member.AddGuests)
	trips.Delete("/:id/members/:memberId", s.handlers.Member.RemoveMember)
	trips.Put("/:id/members/:memberId/origin", s.handlers.Member.UpdateOrigin)
	trips.Post("/:id/invites", s.handlers.Member.SendInvites)

	// Dates
	pl := s.handlers.Planning
	trips.Get("/:id/dates", pl.ListDates)
	trips.Post("/:id/dates", pl.ProposeDate)
	trips.Put("/:id/dates/:optionId/vote", pl.VoteDate)
	trips.Delete("/:id/dates/:optionId", pl.DeleteDate)
	trips.Post("/:id/dates/:optionId/confirm", pl.ConfirmDate)
	trips.Delete("/:id/confirmed-date", pl.UnconfirmDate)

	// Locations
	trips.Get("/:id/locations", pl.ListLocations)
	trips.Post("/:id/locations", pl.ProposeLocation)
	trips.Post("/:id/locations/midpoint", pl.FindMidpoint)
	trips.Post("/:id/locations/distances", pl.RefreshDistances)
	trips.Put("/:id/locations/:locationId/vote", pl.VoteLocation)
	trips.Delete("/:id/locations/:locationId", pl.DeleteLocation)
	trips.Post("/:id/locations/:locationId/confirm", pl.ConfirmLocation)
	trips.Delete("/:id/confirmed-location", pl.UnconfirmLocation)

	// Itinerary
	it := s.handlers.Itinerary
	trips.Get("/:id/options", it.ListOptions)
	trips.Post("/:id/options", it.AddOption)
	trips.Put("/:id/options/:optionId/vote", it.VoteOption)
	trips.Delete("/:id/options/:optionId", it.DeleteOption)
	trips.Get("/:id/stops", it.ListStops)
	trips.Post("/:id/stops", it.AddStop)
	trips.Put("/:id/stops/reorder", it.ReorderStops)
	trips.Patch("/:id/stops/:stopId", it.UpdateStop)
	trips.Delete("/:id/stops/:stopId", it.DeleteStop)

	// Chat
	trips.Get("/:id/messages", s.handlers.Chat.ListMessages)
	trips.Post("/:id/messages", s.handlers.Chat.SendMessage)

	// Live tracking
	tr := s.handlers.Tracking
	trips.Get("/:id/live", tr.ListStatuses)
	trips.Post("/:id/live/start", tr.StartSharing)
	trips.Post("/:id/live/stop", tr.StopSharing)
	trips.Post("/:id/live/arrived", tr.MarkArrived)
	trips.Put("/:id/live/position", tr.UpdatePosition)

	trips.Get("/:id/events", s.handlers.Realtime.Events)
}

func (s *Server) healthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	checks := make(fiber.Map, len(s.health))
	for name, check := range s.health {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = fiber.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "healthy"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status": state,
		"checks": checks,
		"time":   time.Now(),
	})
}

// Start - listen on the configured address
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := "INTERNAL_SERVER_ERROR"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			if code == fiber.StatusNotFound {
				errCode = "NOT_FOUND"
			}
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Int("status", code),
			zap.Error(err),
		)

		return c.Status(code).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    errCode,
				"message": err.Error(),
			},
		})
	}
}
