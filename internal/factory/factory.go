// Package factory constructs configured dependencies for the chat service.
package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/parleyhq/parley/internal/config"
	"github.com/parleyhq/parley/internal/runtime"
	storepkg "github.com/parleyhq/parley/internal/store"
	storepg "github.com/parleyhq/parley/internal/store/postgres"
	storesqlite "github.com/parleyhq/parley/internal/store/sqlite"
)

// NewStore returns the record store selected by DB_DRIVER, with its schema ensured.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		db, err := storepg.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := storepg.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info().Str("driver", "postgres").Msg("store ready")
		return storepg.NewWithDB(db), nil
	case "sqlite":
		st, err := storesqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("driver", "sqlite").Str("path", cfg.SQLitePath).Msg("store ready")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}

// NewRuntime returns the agent runtime client. An empty RUNTIME_URL selects
// the in-process echo runtime, which keeps development zero-setup.
func NewRuntime(cfg *config.Config, log zerolog.Logger) runtime.Runtime {
	if cfg.RuntimeURL == "" {
		log.Info().Msg("runtime: in-process (echo)")
		return runtime.NewInMemory(nil)
	}
	log.Info().Str("url", cfg.RuntimeURL).Dur("timeout", cfg.RuntimeTimeout()).Msg("runtime: remote")
	return runtime.NewRemote(cfg.RuntimeURL, cfg.RuntimeTimeout())
}
