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

	"github.com/KasumiMercury/primind-attendance-alerts/internal/config"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/handler"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/health"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/alertstore"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/deliveryrecorder"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/infra/schedulestore"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/logging"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/metrics"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/observability/middleware"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/service/dispatch"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/service/formatter"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/service/listener"
	"github.com/KasumiMercury/primind-attendance-alerts/internal/service/upcoming"
)

// Version is set via ldflags at build time
var Version = "dev"

const moduleName = logging.Module("attendance-alerts")

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

	alertMetrics, err := metrics.NewAlertMetrics()
	if err != nil {
		slog.Error("failed to initialize alert metrics", slog.String("error", err.Error()))
		return 1
	}

	// InfluxDB for local, BigQuery for gcloud
	deliveryRecorder, err := deliveryrecorder.NewRecorder(ctx, deliveryrecorder.LoadConfig())
	if err != nil {
		slog.Error("failed to initialize delivery recorder", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		if err := deliveryRecorder.Close(); err != nil {
			slog.Warn("failed to close delivery recorder", slog.String("error", err.Error()))
		}
	}()

	transport, cleanup, err := initPushTransport(ctx, cfg.Push)
	if err != nil {
		slog.Error("failed to initialize push transport", slog.String("error", err.Error()))
		return 1
	}
	if cleanup != nil {
		defer func() {
			if err := cleanup(); err != nil {
				slog.Error("push transport cleanup error", slog.String("error", err.Error()))
			}
		}()
	}

	redisClient := redis.NewClient(cfg.Redis.Options())

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

	scheduleStore, err := schedulestore.Open(cfg.Schedule.DBDriver, cfg.Schedule.DBDSN)
	if err != nil {
		slog.Error("failed to open schedule store",
			slog.String("driver", cfg.Schedule.DBDriver),
			slog.String("error", err.Error()),
		)
		return 1
	}
	defer func() {
		if err := scheduleStore.Close(); err != nil {
			slog.Warn("failed to close schedule store", slog.String("error", err.Error()))
		}
	}()

	alertStore := alertstore.NewStore(redisClient, alertstore.Options{
		RetryDelay: cfg.Listener.RetryDelay,
		NoticeTTL:  cfg.Listener.NoticeTTL,
	})

	outbox := dispatch.NewOutbox(transport, deliveryRecorder, dispatch.Config{
		Workers:   cfg.Dispatch.Workers,
		QueueSize: cfg.Dispatch.QueueSize,
	}, alertMetrics)

	listenerManager := listener.NewManager(alertStore, formatter.New(), outbox, alertStore, alertMetrics)

	aggregator := upcoming.NewAggregator(scheduleStore, upcoming.Config{
		GraceMinutes: cfg.Schedule.GraceMinutes,
		Limit:        cfg.Schedule.UpcomingLimit,
		Location:     cfg.Schedule.Location,
	}, alertMetrics)

	sessionHandler := handler.NewSessionHandler(listenerManager)
	alertHandler := handler.NewAlertHandler(alertStore)
	scheduleHandler := handler.NewScheduleHandler(aggregator, scheduleStore)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:   []string{"/health", "/health/live", "/health/ready"},
		Module:      moduleName,
		TracerName:  "github.com/KasumiMercury/primind-attendance-alerts/internal/observability/middleware",
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	// Health check endpoints
	healthChecker := health.NewChecker(redisClient, scheduleStore, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	// API routes
	v1 := r.Group("/api/v1")
	{
		v1.POST("/sessions", sessionHandler.HandleStart)
		v1.GET("/sessions/:role/:recipientID", sessionHandler.HandleGet)
		v1.DELETE("/sessions/:role/:recipientID", sessionHandler.HandleStop)

		recipients := v1.Group("/recipients/:role/:recipientID")
		recipients.GET("/alerts", alertHandler.HandleList)
		recipients.POST("/alerts", alertHandler.HandleAppend)
		recipients.POST("/alerts/read", alertHandler.HandleMarkRead)
		recipients.GET("/notice", alertHandler.HandleNotice)

		entities := v1.Group("/entities/:entityID")
		entities.GET("/upcoming", scheduleHandler.HandleUpcoming)
		entities.GET("/schedule", scheduleHandler.HandleGet)
		entities.PUT("/schedule", scheduleHandler.HandleReplace)
	}

	// gRPC health shares the port over h2c
	mux := http.NewServeMux()
	grpcHealthPath, grpcHealthHandler := healthChecker.GRPCHandler()
	mux.Handle(grpcHealthPath, grpcHealthHandler)
	mux.Handle("/", r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h2c.NewHandler(mux, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("push_transport", transport.Name()),
			slog.String("schedule_db", cfg.Schedule.DBDriver),
			slog.Int("dispatch_workers", cfg.Dispatch.Workers),
			slog.Int("grace_minutes", cfg.Schedule.GraceMinutes),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		exitCode := 0
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			exitCode = 1
		}

		listenerManager.Close()
		_ = drainOutbox(shutdownCtx, outbox)

		if exitCode == 0 {
			slog.Info("server exited properly")
		}
		return exitCode

	case err := <-serverErr:
		listenerManager.Close()

		drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer drainCancel()
		_ = drainOutbox(drainCtx, outbox)

		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
