// Package cli implements the l8nite command line: configuration, logging,
// record store, and rules engine wired behind cobra commands.
package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/l8nite/internal/config"
	"github.com/cory-johannsen/l8nite/internal/game/dice"
	"github.com/cory-johannsen/l8nite/internal/game/rules"
	"github.com/cory-johannsen/l8nite/internal/importer"
	"github.com/cory-johannsen/l8nite/internal/observability"
	"github.com/cory-johannsen/l8nite/internal/storage"
	"github.com/cory-johannsen/l8nite/internal/storage/memory"
	"github.com/cory-johannsen/l8nite/internal/storage/postgres"
	"github.com/cory-johannsen/l8nite/internal/storage/sqlite"
)

// App holds the components one command invocation uses.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Store  storage.Store
	Roller *dice.Roller
	Engine *rules.Engine
}

// openOptions tunes openApp per command.
type openOptions struct {
	// seedMemory imports the configured content into a fresh memory store.
	seedMemory bool
}

// openApp builds the logger, store, roller, and engine described by cfg.
//
// Postcondition: On success the caller must Close the App.
func openApp(ctx context.Context, cfg config.Config, opts openOptions) (*App, error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	if opts.seedMemory && cfg.Database.Driver == config.DriverMemory {
		if _, err := importer.New(importer.ConfigSource(cfg.Content), store, logger).Run(ctx); err != nil {
			_ = store.Close()
			_ = logger.Sync()
			return nil, fmt.Errorf("seeding memory store: %w", err)
		}
	}

	roller := dice.NewLoggedRoller(newSource(cfg.Dice), logger)
	logger.Debug("application opened",
		zap.String("driver", cfg.Database.Driver),
		zap.String("dice", cfg.Dice.Source),
	)
	return &App{
		Config: cfg,
		Logger: logger,
		Store:  store,
		Roller: roller,
		Engine: rules.NewEngine(store, roller, logger),
	}, nil
}

// Close releases the store and flushes the logger.
func (a *App) Close() error {
	err := a.Store.Close()
	_ = a.Logger.Sync()
	return err
}

// openStore opens the record store selected by db.Driver.
func openStore(ctx context.Context, db config.DatabaseConfig) (storage.Store, error) {
	switch db.Driver {
	case config.DriverMemory:
		return memory.New(), nil
	case config.DriverSQLite:
		s, err := sqlite.Open(db.Path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, db)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return postgres.NewStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", db.Driver)
	}
}

func newSource(cfg config.DiceConfig) dice.Source {
	if cfg.Source == config.DiceSeeded {
		return dice.NewSeededSource(cfg.Seed)
	}
	return dice.NewCryptoSource()
}
