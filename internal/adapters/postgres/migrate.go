package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.trai.ch/zerr"
)

const migrationsTable = "flow_schema_migrations"

//go:embed migrations/*.sql
var migrations embed.FS

// Migrate applies every pending schema migration. It opens its own connection because the
// migration driver closes the pool it is given.
func Migrate(ctx context.Context, cfg *Config) (uint, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	db, err := sql.Open(driverName, cfg.databaseURL)
	if err != nil {
		return 0, zerr.Wrap(err, "failed to open migration connection")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return 0, zerr.With(zerr.Wrap(err, "failed to ping database"), "database_url", cfg.MaskDatabaseURL())
	}

	m, err := newMigrate(db)
	if err != nil {
		_ = db.Close()
		return 0, err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, zerr.Wrap(err, "failed to apply migrations")
	}

	version, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return 0, zerr.Wrap(err, "failed to read schema version")
	}
	return version, nil
}

func newMigrate(db *sql.DB) (*migrate.Migrate, error) {
	driver, err := migratepg.WithInstance(db, &migratepg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create postgres migration driver")
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open embedded migrations")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create migrate instance")
	}
	return m, nil
}
