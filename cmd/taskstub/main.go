// Command taskstub serves an in-memory task backend for local development
// of the frontend.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/hiroki-koketsu/go-task-frontend/internal/repository"
	"github.com/hiroki-koketsu/go-task-frontend/internal/telemetry"
)

func main() {
	addr := ":4000"
	if port := os.Getenv("STUB_PORT"); port != "" {
		addr = ":" + port
	}

	logger := telemetry.NewLocalLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	repo := repository.NewTaskRepository()

	handler := middleware.RequestID(middleware.Logger(middleware.Recoverer(repo.Handler(logger))))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("task stub listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
	}
	logger.Info("task stub stopped", slog.Int64("tasks", repo.Count()))
}
