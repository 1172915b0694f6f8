package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/daymark-app/milestone-scheduling/internal/config"
	"github.com/daymark-app/milestone-scheduling/internal/handler"
	"github.com/daymark-app/milestone-scheduling/internal/health"
	"github.com/daymark-app/milestone-scheduling/internal/infra/passrecorder"
	"github.com/daymark-app/milestone-scheduling/internal/infra/repository"
	"github.com/daymark-app/milestone-scheduling/internal/observability/logging"
	"github.com/daymark-app/milestone-scheduling/internal/observability/metrics"
	"github.com/daymark-app/milestone-scheduling/internal/observability/middleware"
	"github.com/daymark-app/milestone-scheduling/internal/service/dedupe"
	"github.com/daymark-app/milestone-scheduling/internal/service/event"
	"github.com/daymark-app/milestone-scheduling/internal/service/milestone"
	"github.com/daymark-app/milestone-scheduling/internal/service/schedule"
)

// Version is set via ldflags at build time
var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := initObservability(ctx)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	if err := config.ValidateForRun(cfg); err != nil {
		slog.Error("configuration validation error", slog.String("error", err.Error()))
		return 1
	}

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	scheduleMetrics, err := metrics.NewScheduleMetrics()
	if err != nil {
		slog.Error("failed to initialize schedule metrics", slog.String("error", err.Error()))
		return 1
	}

	// Initialize schedule pass recorder (InfluxDB for local, BigQuery for gcloud)
	passRecorderCfg := passrecorder.LoadConfig()
	passRecorder, err := passrecorder.NewRecorder(ctx, passRecorderCfg)
	if err != nil {
		slog.Error("failed to initialize schedule pass recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := passRecorder.Close(); err != nil {
			slog.Warn("failed to close schedule pass recorder", slog.String("error", err.Error()))
		}
	}()

	// Initialize notification backend (gateway for local, Cloud Tasks for gcloud)
	backend, cleanup, err := initNotifier(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize notification backend", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("notification backend cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		slog.Error("failed to instrument redis tracing",
			slog.String("event", "redis.otel.tracing.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisotel.InstrumentMetrics(redisClient); err != nil {
		slog.Error("failed to instrument redis metrics",
			slog.String("event", "redis.otel.metrics.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect redis",
			slog.String("event", "redis.connect.fail"),
			slog.String("error", err.Error()),
		)
		return 1
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Warn("failed to close redis client", slog.String("error", err.Error()))
		}
	}()

	slog.Info("redis connected",
		slog.String("addr", cfg.Redis.Addr),
	)

	eventRepo := repository.NewEventRepository(redisClient)
	bookingRepo := repository.NewBookingRepository(redisClient)

	scheduleService := schedule.NewService(
		backend,
		milestone.NewGenerator(),
		dedupe.NewDeduplicator(),
		bookingRepo,
		passRecorder,
		scheduleMetrics,
		cfg.Schedule.Budget,
	)
	eventService := event.NewService(eventRepo, scheduleService)

	handler.RegisterValidations()
	eventHandler := handler.NewEventHandler(eventService, cfg.Schedule.PreviewLimit)

	// Setup router with observability middleware
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready", "/metrics"},
		Module:      logging.Module("milestone-scheduling"),
		TracerName:  "github.com/daymark-app/milestone-scheduling/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.Handler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/events", eventHandler.HandleCreateEvent)
		v1.GET("/events", eventHandler.HandleListEvents)
		v1.GET("/events/:id", eventHandler.HandleGetEvent)
		v1.PUT("/events/:id", eventHandler.HandleUpdateEvent)
		v1.DELETE("/events/:id", eventHandler.HandleDeleteEvent)
		v1.GET("/events/:id/milestones", eventHandler.HandleMilestonePreview)
		v1.POST("/events/:id/reschedule", eventHandler.HandleReschedule)
	}

	// h2c lets Cloud Run and local gRPC-style proxies speak HTTP/2 without TLS
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: h2c.NewHandler(r, &http2.Server{}),
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.Int("schedule_budget", cfg.Schedule.Budget),
			slog.Int("preview_limit", cfg.Schedule.PreviewLimit),
		)
		serverErr <- srv.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
