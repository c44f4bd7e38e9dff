package main

import (
	"context"
	"log/slog"
	"os"

	_ "github.com/kirinyoku/cinebook/docs"
	"github.com/kirinyoku/cinebook/internal/app"
	"github.com/kirinyoku/cinebook/internal/config"
)

// @title CineBook API
// @version 1.0
// @description Movie catalog and seat booking service.
// @host localhost:3001
// @BasePath /
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.New()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("application finished with error", "error", err)
		os.Exit(1)
	}
}
