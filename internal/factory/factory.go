package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"time"

	"github.com/mcoot/wordcrush/internal/config"
	"github.com/mcoot/wordcrush/internal/dependencies/clock"
	"github.com/mcoot/wordcrush/internal/dependencies/random"
	"github.com/mcoot/wordcrush/internal/model"
	"github.com/mcoot/wordcrush/internal/services/bot"
	"github.com/mcoot/wordcrush/internal/services/dictionary"
	"github.com/mcoot/wordcrush/internal/services/game"
	"github.com/mcoot/wordcrush/internal/services/grid"
	"github.com/mcoot/wordcrush/internal/services/oracle"
	"github.com/mcoot/wordcrush/internal/services/scoring"
	"github.com/mcoot/wordcrush/internal/services/selection"
	"github.com/mcoot/wordcrush/internal/services/tile"
	"github.com/mcoot/wordcrush/internal/storage"
	"github.com/mcoot/wordcrush/internal/storage/memory"
	redisstorage "github.com/mcoot/wordcrush/internal/storage/redis"
	"github.com/mcoot/wordcrush/internal/web/sse"
)

// botMaxWordLength bounds the hint search depth
const botMaxWordLength = 10

// App contains all wired application components
type App struct {
	Settings config.Config

	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Engines and services
	TileFactory       *tile.Factory
	GridEngine        *grid.Engine
	SelectionEngine   *selection.Engine
	ScoringService    *scoring.Service
	DictionaryService *dictionary.Service
	Oracle            oracle.Oracle
	GameController    *game.Controller
	BotService        *bot.Service
	HubManager        *sse.HubManager
	Broadcaster       *sse.Broadcaster
}

// Config holds configuration for the application factory
type Config struct {
	// Settings is the loaded application configuration.
	// A zero value means config.Default().
	Settings config.Config
	// Logger is the application logger (optional).
	// If nil, a no-op logger is used.
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	settings := cfg.Settings
	if settings.Game.GridSize == 0 {
		settings = config.Default()
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	store, err := newStorage(settings.Storage)
	if err != nil {
		return nil, err
	}

	app := newWithDependencies(settings, store, clock.New(), random.New(), nil, logger)

	if err := app.loadDictionary(context.Background(), logger); err != nil {
		return nil, err
	}
	return app, nil
}

func newStorage(cfg config.StorageConfig) (storage.Storage, error) {
	switch cfg.Type {
	case "", config.StorageTypeMemory:
		return memory.New(), nil
	case config.StorageTypeRedis:
		redisCfg := redisstorage.DefaultConfig()
		if cfg.RedisURL != "" {
			redisCfg.URL = cfg.RedisURL
		}
		store, err := redisstorage.New(redisCfg)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		return store, nil
	default:
		return nil, errors.New("invalid storage type: must be 'memory' or 'redis'")
	}
}

// newWithDependencies creates an App with the given dependencies.
// A nil wordOracle selects one from settings.Oracle.
func newWithDependencies(
	settings config.Config,
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	wordOracle oracle.Oracle,
	logger *slog.Logger,
) *App {
	tileFactory := tile.NewFactory(settings.Game, rnd)
	gridEngine := grid.New(tileFactory)
	selectionEngine := selection.New(settings.Game.MinWordLength)
	scoringService := scoring.New()
	dictService := dictionary.New(store, logger)

	if wordOracle == nil {
		wordOracle = newOracle(settings.Oracle, dictService, store, logger)
	}

	hubManager := sse.NewHubManager(logger)
	broadcaster := sse.NewBroadcaster(hubManager, logger)

	gameController := game.NewController(
		store,
		gridEngine,
		selectionEngine,
		scoringService,
		wordOracle,
		broadcaster,
		settings.Game,
		clk,
		rnd,
		logger,
	)

	finder := bot.NewFinder(dictService, scoringService, settings.Game.MinWordLength, botMaxWordLength)
	botService := bot.NewService(gameController, map[string]bot.Strategy{
		bot.StrategyBest:   bot.NewBestStrategy(finder),
		bot.StrategyRandom: bot.NewRandomStrategy(finder, rnd),
	}, logger)

	return &App{
		Settings:          settings,
		Storage:           store,
		Clock:             clk,
		Random:            rnd,
		TileFactory:       tileFactory,
		GridEngine:        gridEngine,
		SelectionEngine:   selectionEngine,
		ScoringService:    scoringService,
		DictionaryService: dictService,
		Oracle:            wordOracle,
		GameController:    gameController,
		BotService:        botService,
		HubManager:        hubManager,
		Broadcaster:       broadcaster,
	}
}

func newOracle(cfg config.OracleConfig, dict *dictionary.Service, store storage.Storage, logger *slog.Logger) oracle.Oracle {
	if cfg.Kind == config.OracleKindDictionary {
		return dict
	}
	remote := oracle.NewHTTP(oracle.HTTPConfig{
		BaseURL:    cfg.URL,
		Timeout:    cfg.Timeout,
		Attempts:   cfg.Attempts,
		RetryDelay: 250 * time.Millisecond,
	}, logger)
	return oracle.NewCached(remote, store, logger)
}

// loadDictionary reads the configured word list, falling back to whatever
// storage already holds. A missing list only disables hints and the
// dictionary oracle.
func (a *App) loadDictionary(ctx context.Context, logger *slog.Logger) error {
	path := a.Settings.Dictionary.Path
	if path != "" {
		err := a.DictionaryService.LoadFromFile(ctx, path)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load dictionary %s: %w", path, err)
		}
	}

	err := a.DictionaryService.LoadFromStorage(ctx)
	switch {
	case errors.Is(err, model.ErrDictionaryNotLoaded):
		logger.Warn("no dictionary loaded; hints are disabled", slog.String("path", path))
		return nil
	case err != nil:
		return fmt.Errorf("load dictionary from storage: %w", err)
	}
	return nil
}

// Close stops every running game clock and event hub, then releases storage
func (a *App) Close() error {
	a.GameController.Close()
	a.HubManager.Close()
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
