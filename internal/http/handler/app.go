package handler

import (
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"

	"schoolapi/internal/config"
	"schoolapi/internal/http/middleware"
)

// NewApp builds the Fiber app with exact path matching and the global
// middleware chain. prom may be nil when metrics are disabled.
//
// otelfiber sits outside the access log so the span is still on the user
// context when the log line is written.
func NewApp(cfg *config.AppConfig, log zerolog.Logger, prom *middleware.PrometheusMiddleware) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          ErrorHandler(log),
		StrictRouting:         true,
		CaseSensitive:         true,
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowMethods: "GET,POST,DELETE",
		AllowHeaders: fiber.HeaderContentType,
	}))
	if prom != nil {
		app.Use(prom.Handler())
	}

	return app
}
