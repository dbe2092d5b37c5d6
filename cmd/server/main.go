package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hiroki-koketsu/go-task-frontend/internal/backend"
	"github.com/hiroki-koketsu/go-task-frontend/internal/config"
	"github.com/hiroki-koketsu/go-task-frontend/internal/handler"
	"github.com/hiroki-koketsu/go-task-frontend/internal/telemetry"
	"github.com/hiroki-koketsu/go-task-frontend/internal/view"
	"go.opentelemetry.io/otel"
)

// newTelemetryConn opens the OTLP connection; replaced in tests.
var newTelemetryConn = telemetry.NewConn

func main() {
	// Create a basic logger for startup (before OTel is initialized)
	startupLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		startupLogger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	startupLogger.Info("starting application",
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("backend", cfg.BackendURL),
		slog.Bool("telemetry", cfg.TelemetryEnabled),
	)

	ctx := context.Background()

	logger, shutdownTelemetry, err := setupTelemetry(ctx, cfg, startupLogger)
	if err != nil {
		startupLogger.Error("failed to initialize telemetry", slog.Any("error", err))
		os.Exit(1)
	}
	defer shutdownTelemetry(ctx)

	// Create metrics instruments
	metrics, err := telemetry.NewMetrics(otel.Meter(cfg.ServiceName))
	if err != nil {
		logger.Error("failed to create metrics", slog.Any("error", err))
		os.Exit(1)
	}

	views, err := view.NewRenderer()
	if err != nil {
		logger.Error("failed to load templates", slog.Any("error", err))
		os.Exit(1)
	}

	tasks := backend.NewClient(cfg.BackendURL, backend.WithTimeout(cfg.BackendTimeout))

	taskHandler := handler.NewTaskHandler(tasks, views, logger, metrics)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      newRouter(taskHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}

	logger.Info("server stopped", slog.Int64("last_task_count", metrics.TaskCount()))
}

// setupTelemetry starts the tracer, meter and logger providers and returns
// the application logger. With telemetry disabled it returns a local JSON
// logger and the global no-op providers stay in place.
func setupTelemetry(ctx context.Context, cfg *config.Config, startupLogger *slog.Logger) (*slog.Logger, func(context.Context), error) {
	if !cfg.TelemetryEnabled {
		return telemetry.NewLocalLogger(os.Stdout, cfg.LogLevel), func(context.Context) {}, nil
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) {
		for i := len(shutdowns) - 1; i >= 0; i-- {
			if err := shutdowns[i](ctx); err != nil {
				startupLogger.Error("failed to shutdown telemetry provider", slog.Any("error", err))
			}
		}
	}

	conn, err := newTelemetryConn(cfg.OTLPEndpoint)
	if err != nil {
		return nil, nil, err
	}
	// Closed after every provider has flushed
	shutdowns = append(shutdowns, func(context.Context) error { return conn.Close() })

	tp, err := telemetry.InitTracerProvider(ctx, conn, cfg.ServiceName, cfg.Environment)
	if err != nil {
		shutdown(ctx)
		return nil, nil, err
	}
	shutdowns = append(shutdowns, tp.Shutdown)

	mp, err := telemetry.InitMeterProvider(ctx, conn, cfg.ServiceName, cfg.Environment)
	if err != nil {
		shutdown(ctx)
		return nil, nil, err
	}
	shutdowns = append(shutdowns, mp.Shutdown)

	// Logger provider last
	lp, logger, err := telemetry.InitLoggerProvider(ctx, conn, cfg.ServiceName, cfg.Environment)
	if err != nil {
		shutdown(ctx)
		return nil, nil, err
	}
	shutdowns = append(shutdowns, lp.Shutdown)

	return logger, shutdown, nil
}
