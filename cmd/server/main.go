package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/wordcrush/internal/api"
	"github.com/mcoot/wordcrush/internal/config"
	"github.com/mcoot/wordcrush/internal/factory"
)

// hubSweepInterval is how often event hubs with no listeners are dropped
const hubSweepInterval = time.Minute

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./wordcrush.{yaml,json,toml} if present)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	app, err := factory.New(factory.Config{Settings: cfg, Logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close application", slog.String("error", err.Error()))
		}
	}()

	logger.Info("application ready",
		slog.String("oracle", cfg.Oracle.Kind),
		slog.String("storage", cfg.Storage.Type),
		slog.Int("dictionary_words", app.DictionaryService.WordCount()),
		slog.Int("grid_size", cfg.Game.GridSize),
		slog.Int("duration", cfg.Game.Duration),
	)

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		GameController: app.GameController,
		BotService:     app.BotService,
		HubManager:     app.HubManager,
	})
	server := api.NewServer(router, api.NewServerConfig(cfg.Server), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutdown signal received")
		return server.Shutdown(context.Background())
	})

	g.Go(func() error {
		ticker := time.NewTicker(hubSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				app.HubManager.CleanupEmptyHubs()
			}
		}
	})

	return g.Wait()
}
