package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"realestatecrm/internal/config"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.New("info", "json").Error(context.Background(), "invalid configuration", "err", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to initialize server", "err", err)
		os.Exit(1)
	}

	runErr := app.Run(ctx)
	if err := app.Close(); err != nil {
		log.Warn(context.Background(), "error while closing resources", "err", err)
	}
	if runErr != nil {
		log.Error(context.Background(), "server stopped with error", "err", runErr)
		os.Exit(1)
	}
	log.Info(context.Background(), "server gracefully stopped")
}
