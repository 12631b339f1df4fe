package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"schoolapi/internal/config"
	"schoolapi/internal/database"
	"schoolapi/internal/database/migration"
	handlers "schoolapi/internal/http/handler"
	"schoolapi/internal/http/middleware"
	"schoolapi/internal/logger"
	"schoolapi/internal/otel"
	"schoolapi/internal/repository/sqlstore"
	"schoolapi/internal/service"
)

// @title School API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	store, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer store.Close()
	log.Info().Str("dialect", string(store.Dialect)).Str("location", store.Location()).Msg("database connected")

	if err := migration.Run(ctx, store.DB, store.Dialect, log); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	schoolRepo := sqlstore.NewSchoolSQL(store.DB, store.Dialect)
	schoolSvc := service.NewSchoolService(schoolRepo)

	var (
		metrics        prometheus.Gatherer
		promMiddleware *middleware.PrometheusMiddleware
	)
	if cfg.HTTP.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		promMiddleware, err = middleware.NewPrometheusMiddleware(reg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to register metrics")
		}
		metrics = reg
	}

	app := handlers.NewApp(cfg, log, promMiddleware)

	handlers.RegisterRoutes(app, handlers.Dependencies{
		Config:  cfg,
		DB:      store.DB,
		Schools: schoolSvc,
		Logger:  log,
		Metrics: metrics,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("graceful shutdown failed")
		}
	}()

	addr := cfg.HTTP.Addr()
	log.Info().Str("addr", addr).Msg("server listening")
	if err := app.Listen(addr); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
