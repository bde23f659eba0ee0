package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/bobby-s-dev/weather-vigilance/internal/alerts"
	"github.com/bobby-s-dev/weather-vigilance/internal/api"
	"github.com/bobby-s-dev/weather-vigilance/internal/config"
	"github.com/bobby-s-dev/weather-vigilance/internal/i18n"
	"github.com/bobby-s-dev/weather-vigilance/internal/metrics"
	"github.com/bobby-s-dev/weather-vigilance/internal/regions"
	"github.com/bobby-s-dev/weather-vigilance/internal/scheduler"
	"github.com/bobby-s-dev/weather-vigilance/internal/services"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	zap.ReplaceGlobals(logger)
	logger.Info("Starting Weather Vigilance Service")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	if level, err := zap.ParseAtomicLevel(cfg.Server.LogLevel); err == nil {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = level
		if l, err := zapCfg.Build(); err == nil {
			logger = l
			defer logger.Sync()
			zap.ReplaceGlobals(logger)
		}
	}

	clock := clockwork.NewRealClock()
	defaultLocale, _ := i18n.ParseLocale(cfg.DefaultLocale)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Initialize services
	weather := services.NewWeatherService(services.WeatherServiceOptions{
		Providers:   services.NewProviders(cfg, clock, logger),
		Cache:       services.NewObservationCache(cfg.Cache.Duration, cfg.Cache.MaxSize, clock, logger),
		Regions:     regions.Default(),
		Metrics:     m,
		Clock:       clock,
		Concurrency: cfg.WeatherAPI.Concurrency,
	}, logger)
	defer weather.Close()

	vigilance := services.NewVigilanceService(weather, alerts.NewDetector(clock), m, clock, logger)

	handlerOpts := api.HandlerOptions{
		Weather:       weather,
		Vigilance:     vigilance,
		Gatherer:      registry,
		DefaultLocale: defaultLocale,
		Clock:         clock,
	}

	// Initialize scheduler
	var refreshScheduler *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		refreshScheduler, err = scheduler.NewScheduler(vigilance, scheduler.Options{
			Schedule: cfg.Scheduler.Schedule,
			Interval: cfg.Scheduler.FetchInterval,
			Timeout:  cfg.Scheduler.RefreshTimeout,
			Locale:   defaultLocale,
			Metrics:  m,
			Clock:    clock,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize scheduler", zap.Error(err))
		}
		handlerOpts.Scheduler = refreshScheduler
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: api.ErrorHandler,
	})

	handler := api.NewHandler(handlerOpts, logger)
	api.SetupRoutes(app, handler, logger)

	if refreshScheduler != nil {
		refreshScheduler.Start()
	}

	// Start server in goroutine
	go func() {
		addr := ":" + cfg.Server.Port
		logger.Info("Starting server", zap.String("address", addr))

		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if refreshScheduler != nil {
		refreshScheduler.Stop()
	}

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	logger.Info("Server stopped")
}
