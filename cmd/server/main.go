package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chamarodfai/POS/internal/app"
	"github.com/chamarodfai/POS/internal/config"
	"github.com/chamarodfai/POS/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to build application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("starting pos service",
		slog.String("storage_backend", cfg.StorageBackend),
		slog.Int("port", cfg.HTTPPort),
	)

	if err := application.Run(ctx); err != nil {
		log.Error("service exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
