package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows the web and mobile clients listed in origins. Last-Event-ID is
// sent by EventSource when it reconnects to the trip event stream.
func CORS(origins string) fiber.Handler {
	cfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Accept,Authorization,Last-Event-ID",
		AllowCredentials: true,
		MaxAge:           600,
	}
	// fiber rejects credentials together with a wildcard origin
	if origins == "" || origins == "*" {
		cfg.AllowOrigins = "*"
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}
