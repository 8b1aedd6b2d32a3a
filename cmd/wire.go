package cmd

import (
	"context"
	"fmt"

	"hikvision-sync/core/config"
	"hikvision-sync/core/database"
	"hikvision-sync/core/logger"
	"hikvision-sync/core/reconcile"
	"hikvision-sync/core/state"
	"hikvision-sync/core/storage"
	"hikvision-sync/feature/hikvision"
	"hikvision-sync/feature/members"

	"go.uber.org/zap"
)

// loadRuntime loads configuration and builds the logger.
// validate is false for commands that only touch local state.
func loadRuntime(validate bool) (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if validate {
		if err := cfg.Validate(); err != nil {
			return nil, nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

// newStateStore builds the state store on the configured backend.
func newStateStore(ctx context.Context, cfg *config.Config, l *zap.Logger) (*state.Store, error) {
	var backend state.Backend

	switch cfg.State.Backend {
	case state.BackendFile:
		b, err := state.NewFileBackend(cfg.State.Path)
		if err != nil {
			return nil, err
		}
		l.Debug("Using file state", zap.String("path", b.Path()))
		backend = b

	case state.BackendObject:
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		b := state.NewObjectBackend(client, cfg.Storage.Bucket, cfg.State.ObjectKey)
		l.Debug("Using object state", zap.String("location", b.Location()))
		backend = b

	case state.BackendDatabase:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		b := state.NewDatabaseBackend(db)
		if err := b.Migrate(ctx); err != nil {
			return nil, err
		}
		l.Debug("Using database state", zap.String("driver", cfg.Database.Driver))
		backend = b

	default:
		return nil, fmt.Errorf("unsupported state backend %q", cfg.State.Backend)
	}

	return state.NewStore(backend), nil
}

// newEngine wires the directory client, the reader fleet and the state store.
func newEngine(cfg *config.Config, l *zap.Logger, store *state.Store) (*reconcile.Engine, error) {
	fleet, err := hikvision.NewFleet(cfg.Hikvision, l)
	if err != nil {
		return nil, err
	}
	source := members.NewClient(cfg.Source, l)

	opts := reconcile.DefaultOptions()
	opts.DetectDrift = cfg.Sync.DriftDetection
	if cfg.Hikvision.UserType != "" {
		opts.UserType = cfg.Hikvision.UserType
	}

	return reconcile.NewEngine(source, fleet, store, l, opts), nil
}
