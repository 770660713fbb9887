// Package cli builds the runtime pieces shared by the missionkit commands
// from a loaded configuration.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/missionkit"
	"github.com/aretw0/missionkit/internal/config"
	"github.com/aretw0/missionkit/internal/logging"
	"github.com/aretw0/missionkit/pkg/adapters/file"
	"github.com/aretw0/missionkit/pkg/adapters/memory"
	"github.com/aretw0/missionkit/pkg/adapters/postgres"
	"github.com/aretw0/missionkit/pkg/adapters/redis"
	"github.com/aretw0/missionkit/pkg/domain"
	"github.com/aretw0/missionkit/pkg/persistence/middleware"
	"github.com/aretw0/missionkit/pkg/layout"
	"github.com/aretw0/missionkit/pkg/ports"
)

// NewLogger creates the application logger. A nil writer means Stderr.
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	return logging.New(logging.ParseLevel(cfg.Level), logging.ParseFormat(cfg.Format), w)
}

// OpenStore opens the configured snapshot store, wrapped with redaction
// and encryption when configured. The locker is only non-nil for backends
// shared between processes.
func OpenStore(ctx context.Context, cfg config.StoreConfig) (ports.SnapshotStore, ports.DistributedLocker, error) {
	store, locker, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	mws, err := storeMiddlewares(cfg)
	if err != nil {
		if c, ok := store.(io.Closer); ok {
			c.Close()
		}
		return nil, nil, err
	}
	return middleware.Chain(store, mws...), locker, nil
}

func openBackend(ctx context.Context, cfg config.StoreConfig) (ports.SnapshotStore, ports.DistributedLocker, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return memory.NewStore(), nil, nil

	case config.BackendFile:
		return file.New(cfg.Path), nil, nil

	case config.BackendRedis:
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB,
			redis.WithPrefix(cfg.RedisPrefix),
			redis.WithTTL(cfg.RedisTTL),
		)
		if err := store.Client().Ping(ctx).Err(); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		return store, redis.NewLocker(store.Client(), cfg.RedisPrefix), nil

	case config.BackendPostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN, postgres.WithTable(cfg.PostgresTable))
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// storeMiddlewares orders redaction outside encryption so masked values
// are what gets sealed.
func storeMiddlewares(cfg config.StoreConfig) ([]middleware.Middleware, error) {
	var mws []middleware.Middleware
	if len(cfg.RedactKeys) > 0 {
		redact, err := middleware.NewRedactMiddleware(cfg.RedactKeys)
		if err != nil {
			return nil, fmt.Errorf("invalid store.redact_keys: %w", err)
		}
		mws = append(mws, redact)
	}

	active, fallback, err := cfg.EncryptionKeys()
	if err != nil {
		return nil, err
	}
	if active != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
			ActiveKey:    active,
			FallbackKeys: fallback,
		}))
	}
	return mws, nil
}

// NewStudio opens the store and catalog described by cfg.
// The caller owns the returned Studio and must Close it.
func NewStudio(ctx context.Context, cfg *config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) (*missionkit.Studio, error) {
	store, locker, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	opts := []missionkit.Option{
		missionkit.WithStore(store),
		missionkit.WithLogger(logger),
		missionkit.WithCanvas(layout.Canvas{Width: cfg.Canvas.Width, Height: cfg.Canvas.Height}),
		missionkit.WithPruneDangling(cfg.Graph.PruneDangling),
	}
	if locker != nil {
		opts = append(opts, missionkit.WithLocker(locker, cfg.Store.LockTTL))
	}
	if !cfg.Catalog.Builtin {
		opts = append(opts, missionkit.WithoutBuiltins())
	}
	if cfg.Catalog.Dir != "" {
		opts = append(opts, missionkit.WithTemplateDir(cfg.Catalog.Dir))
	}
	for _, h := range hooks {
		opts = append(opts, missionkit.WithLifecycleHooks(h))
	}

	studio, err := missionkit.New(ctx, opts...)
	if err != nil {
		if c, ok := store.(io.Closer); ok {
			c.Close()
		}
		return nil, err
	}
	logger.Debug("studio ready", "backend", cfg.Store.Backend, "templates", studio.Catalog().Len())
	return studio, nil
}
