package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	checkinreporter "github.com/magabrotheeeer/checkin-reporter/internal/app/checkin-reporter"
	"github.com/magabrotheeeer/checkin-reporter/internal/config"
)

func main() {
	// .env не обязателен: в проде значения приходят из окружения планировщика.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	logger.Info("starting checkin reporter", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := checkinreporter.New(cfg, logger)
	code := app.Run(ctx)

	stop()
	os.Exit(code)
}
