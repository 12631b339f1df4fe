package handler

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"schoolapi/docs"
	"schoolapi/internal/config"
	"schoolapi/internal/http/middleware"
	"schoolapi/internal/model"
	"schoolapi/internal/service"
)

// Pinger reports whether the store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Dependencies is everything the route table needs.
type Dependencies struct {
	Config  *config.AppConfig
	DB      Pinger
	Schools service.SchoolService
	Logger  zerolog.Logger
	// Metrics backs GET /metrics. Nil leaves the route unregistered.
	Metrics prometheus.Gatherer
}

type route struct {
	model.RouteDefinition
	handler fiber.Handler
}

func schoolRoutes(svc service.SchoolService, log zerolog.Logger) []route {
	return []route{
		{model.RouteDefinition{URL: "/school/", Method: fiber.MethodGet}, ListSchools(svc, log)},
		{model.RouteDefinition{URL: "/school/:id", Method: fiber.MethodGet}, GetSchool(svc, log)},
		{model.RouteDefinition{URL: "/school/", Method: fiber.MethodPost}, CreateSchool(svc, log)},
		{model.RouteDefinition{URL: "/school/:id", Method: fiber.MethodDelete}, DeleteSchool(svc, log)},
	}
}

// RegisterRoutes attaches the system routes, the resource routes, the discovery
// index and, last, the fallback for anything unmatched.
func RegisterRoutes(app *fiber.App, d Dependencies) {
	app.Get("/health", HealthCheck(d.DB))
	app.Get("/healthz", LivenessProbe())

	if d.Config.HTTP.MetricsEnabled && d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics, promhttp.HandlerOpts{})))
	}
	if d.Config.HTTP.SwaggerEnabled {
		app.Get("/swagger/*", SwaggerUI())
	}

	routes := schoolRoutes(d.Schools, d.Logger)
	index := make([]model.RouteDefinition, 0, len(routes))
	for _, r := range routes {
		if r.Method == fiber.MethodGet {
			// Get also answers HEAD.
			app.Get(r.URL, r.handler)
		} else {
			app.Add(r.Method, r.URL, r.handler)
		}
		index = append(index, r.RouteDefinition)
	}
	app.Get("/", Discovery(index))

	app.Use(RouteNotFound())
}

// Discovery godoc
// @Summary List the resource routes
// @Tags meta
// @Produce json
// @Success 200 {array} model.RouteDefinition
// @Router / [get]
func Discovery(index []model.RouteDefinition) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(index)
	}
}

// RouteNotFound answers every unmatched request with a bare JSON string.
func RouteNotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.RouteUnmatchedLocalKey, true)
		return c.Status(fiber.StatusNotFound).JSON(msgRouteNotFound)
	}
}

// HealthCheck godoc
// @Summary Store health
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} model.ErrorDetail
// @Router /health [get]
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, msgUnavailable)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 as long as the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// swaggerMu guards docs.SwaggerInfo, which is rewritten per request.
var swaggerMu sync.Mutex

// SwaggerUI serves the API docs with host and scheme taken from the request.
func SwaggerUI() fiber.Handler {
	return func(c *fiber.Ctx) error {
		swaggerMu.Lock()
		defer swaggerMu.Unlock()

		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	}
}
