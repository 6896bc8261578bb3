// Package storage selects the definition store backend from configuration.
package storage

import (
	"context"

	"go.trai.ch/flow/internal/adapters/memstore"
	"go.trai.ch/flow/internal/adapters/postgres"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/zerr"
)

// Open returns the store configured by cfg. Postgres schemas are migrated first when
// MigrateOnStart is set.
func Open(ctx context.Context, cfg domain.StoreConfig, log ports.Logger) (ports.DefinitionStore, error) {
	switch cfg.Driver {
	case "", domain.DriverMemory:
		if cfg.Path == "" {
			log.Debug("using in-memory definition store")
			return memstore.New(), nil
		}
		log.Debug("using snapshot definition store", "path", cfg.Path)
		return memstore.Open(cfg.Path)

	case domain.DriverPostgres:
		pgCfg := postgres.NewConfig(cfg)
		if cfg.MigrateOnStart {
			version, err := postgres.Migrate(ctx, pgCfg)
			if err != nil {
				return nil, err
			}
			log.Info("database schema up to date", "version", version)
		}
		store, err := postgres.Open(ctx, pgCfg)
		if err != nil {
			return nil, err
		}
		log.Debug("using postgres definition store", "database_url", pgCfg.MaskDatabaseURL())
		return store, nil

	default:
		err := zerr.Wrap(domain.ErrInvalidConfig, "unknown store driver")
		return nil, zerr.With(err, "driver", cfg.Driver)
	}
}
