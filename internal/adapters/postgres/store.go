// Package postgres implements the definition store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	driverName = "postgres"

	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

const definitionColumns = `id, process_key, name, version, tenant_id, deployment_id, resource_name, suspended`

// Store implements ports.DefinitionStore on a PostgreSQL database.
type Store struct {
	db *sql.DB
}

// Open connects to the database described by cfg and verifies the connection.
func Open(ctx context.Context, cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, cfg.databaseURL)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to open database")
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, "failed to ping database"), "database_url", cfg.MaskDatabaseURL())
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection pool. The store owns db afterwards.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// LoadDeployment returns the deployment with its resources in insertion order.
func (s *Store) LoadDeployment(ctx context.Context, id string) (*domain.Deployment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, tenant_id, category, deployed_at, digest
		FROM deployments WHERE id = $1`, id)
	return s.scanDeployment(ctx, row)
}

// FindLatestDeploymentByName returns the most recent deployment with the given name.
func (s *Store) FindLatestDeploymentByName(ctx context.Context, name, tenantID string) (*domain.Deployment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, tenant_id, category, deployed_at, digest
		FROM deployments
		WHERE name = $1 AND tenant_id = $2
		ORDER BY deployed_at DESC, id DESC
		LIMIT 1`, name, tenantID)
	return s.scanDeployment(ctx, row)
}

func (s *Store) scanDeployment(ctx context.Context, row *sql.Row) (*domain.Deployment, error) {
	var d domain.Deployment
	err := row.Scan(&d.ID, &d.Name, &d.TenantID, &d.Category, &d.DeployedAt, &d.Digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load deployment")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, bytes FROM deployment_resources
		WHERE deployment_id = $1 ORDER BY position`, d.ID)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load resources"), "deployment_id", d.ID)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var r domain.Resource
		if err := rows.Scan(&r.Name, &r.Bytes); err != nil {
			return nil, zerr.Wrap(err, "failed to scan resource")
		}
		d.Resources = append(d.Resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to iterate resources")
	}
	return &d, nil
}

// LoadDefinition returns the definition row.
func (s *Store) LoadDefinition(ctx context.Context, id string) (*domain.Definition, error) {
	return s.queryDefinition(ctx, `SELECT `+definitionColumns+` FROM definitions WHERE id = $1`, id)
}

// FindLatest returns the highest version of key within the tenant.
func (s *Store) FindLatest(ctx context.Context, key, tenantID string) (*domain.Definition, error) {
	return s.queryDefinition(ctx, `
		SELECT `+definitionColumns+` FROM definitions
		WHERE process_key = $1 AND tenant_id = $2
		ORDER BY version DESC LIMIT 1`, key, tenantID)
}

// FindByKeyVersion returns the definition with the exact key, version and tenant.
func (s *Store) FindByKeyVersion(ctx context.Context, key string, version int, tenantID string) (*domain.Definition, error) {
	return s.queryDefinition(ctx, `
		SELECT `+definitionColumns+` FROM definitions
		WHERE process_key = $1 AND version = $2 AND tenant_id = $3`, key, version, tenantID)
}

func (s *Store) queryDefinition(ctx context.Context, query string, args ...any) (*domain.Definition, error) {
	def, err := scanDefinition(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load definition")
	}
	return &def, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDefinition(row scanner) (domain.Definition, error) {
	var def domain.Definition
	err := row.Scan(&def.ID, &def.Key, &def.Name, &def.Version, &def.TenantID,
		&def.DeploymentID, &def.ResourceName, &def.Suspended)
	return def, err
}

// ListDefinitions returns the definitions of a deployment ordered by resource name, then key.
func (s *Store) ListDefinitions(ctx context.Context, deploymentID string) ([]domain.Definition, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+definitionColumns+` FROM definitions
		WHERE deployment_id = $1
		ORDER BY resource_name, process_key`, deploymentID)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list definitions"), "deployment_id", deploymentID)
	}
	defer func() { _ = rows.Close() }()

	var defs []domain.Definition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to scan definition")
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to iterate definitions")
	}
	return defs, nil
}

// LoadResource returns the bytes of a single deployment resource.
func (s *Store) LoadResource(ctx context.Context, deploymentID, resourceName string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT bytes FROM deployment_resources
		WHERE deployment_id = $1 AND name = $2`, deploymentID, resourceName).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err := zerr.With(zerr.Wrap(err, "failed to load resource"), "deployment_id", deploymentID)
		return nil, zerr.With(err, "resource", resourceName)
	}
	return data, nil
}

// SaveDeployment persists a new deployment, its resources and its definitions in one transaction.
func (s *Store) SaveDeployment(ctx context.Context, deployment *domain.Deployment, definitions []domain.Definition) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO deployments (id, name, tenant_id, category, deployed_at, digest)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			deployment.ID, deployment.Name, deployment.TenantID, deployment.Category,
			deployment.DeployedAt, deployment.Digest)
		if err != nil {
			if isViolation(err, codeUniqueViolation) {
				return zerr.With(zerr.Wrap(domain.ErrDeploymentExists, "cannot save deployment"), "deployment_id", deployment.ID)
			}
			return zerr.Wrap(err, "failed to insert deployment")
		}

		for i, r := range deployment.Resources {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO deployment_resources (deployment_id, position, name, bytes)
				VALUES ($1, $2, $3, $4)`, deployment.ID, i, r.Name, r.Bytes)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to insert resource"), "resource", r.Name)
			}
		}

		for _, def := range definitions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO definitions (`+definitionColumns+`)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				def.ID, def.Key, def.Name, def.Version, def.TenantID,
				deployment.ID, def.ResourceName, def.Suspended)
			if err != nil {
				if isViolation(err, codeUniqueViolation) {
					err := zerr.With(zerr.Wrap(domain.ErrDuplicateVersion, "cannot save deployment"), "key", def.Key)
					return zerr.With(err, "version", def.Version)
				}
				return zerr.With(zerr.Wrap(err, "failed to insert definition"), "definition_id", def.ID)
			}
		}
		return nil
	})
}

// DeleteDeployment removes the deployment. Resources and definitions follow through foreign
// key cascades; metadata rows are removed only when cascade is set.
func (s *Store) DeleteDeployment(ctx context.Context, id string, cascade bool) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if cascade {
			_, err := tx.ExecContext(ctx, `
				DELETE FROM definition_info
				WHERE definition_id IN (SELECT id FROM definitions WHERE deployment_id = $1)`, id)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to delete definition metadata"), "deployment_id", id)
			}
		}

		_, err := tx.ExecContext(ctx, `DELETE FROM deployments WHERE id = $1`, id)
		if err != nil {
			if isViolation(err, codeForeignKeyViolation) {
				return zerr.With(zerr.Wrap(domain.ErrDeploymentInUse, "deployment has definition metadata"), "deployment_id", id)
			}
			return zerr.With(zerr.Wrap(err, "failed to delete deployment"), "deployment_id", id)
		}
		return nil
	})
}

// SetSuspended updates the suspension flag of a definition.
func (s *Store) SetSuspended(ctx context.Context, definitionID string, suspended bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE definitions SET suspended = $2 WHERE id = $1`, definitionID, suspended)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to update suspension"), "definition_id", definitionID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return zerr.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return zerr.With(zerr.Wrap(domain.ErrDefinitionNotFound, "cannot change suspension"), "definition_id", definitionID)
	}
	return nil
}

// LoadDefinitionInfo returns the latest metadata revision of a definition.
func (s *Store) LoadDefinitionInfo(ctx context.Context, definitionID string) (*domain.DefinitionInfo, error) {
	var (
		info  = domain.DefinitionInfo{DefinitionID: definitionID}
		props []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT revision, properties FROM definition_info WHERE definition_id = $1`, definitionID).
		Scan(&info.Revision, &props)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load definition metadata"), "definition_id", definitionID)
	}
	if err := json.Unmarshal(props, &info.Properties); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to decode definition metadata"), "definition_id", definitionID)
	}
	return &info, nil
}

// SaveDefinitionInfo stores the next metadata revision of a definition.
func (s *Store) SaveDefinitionInfo(ctx context.Context, info domain.DefinitionInfo) error {
	props, err := json.Marshal(info.Properties)
	if err != nil {
		return zerr.Wrap(err, "failed to encode definition metadata")
	}
	if info.Properties == nil {
		props = []byte("{}")
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM definitions WHERE id = $1)`, info.DefinitionID).
			Scan(&exists)
		if err != nil {
			return zerr.Wrap(err, "failed to check definition")
		}
		if !exists {
			return zerr.With(zerr.Wrap(domain.ErrDefinitionNotFound, "cannot save metadata"), "definition_id", info.DefinitionID)
		}

		var current int
		err = tx.QueryRowContext(ctx, `
			SELECT revision FROM definition_info WHERE definition_id = $1 FOR UPDATE`, info.DefinitionID).
			Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return zerr.Wrap(err, "failed to read metadata revision")
		}
		if info.Revision != current+1 {
			return revisionConflict(info)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO definition_info (definition_id, revision, properties, updated_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (definition_id) DO UPDATE
			SET revision = EXCLUDED.revision, properties = EXCLUDED.properties, updated_at = NOW()`,
			info.DefinitionID, info.Revision, props)
		if err != nil {
			if isViolation(err, codeUniqueViolation) {
				return revisionConflict(info)
			}
			return zerr.With(zerr.Wrap(err, "failed to save definition metadata"), "definition_id", info.DefinitionID)
		}
		return nil
	})
}

// Close closes the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return zerr.Wrap(err, "failed to begin transaction")
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return zerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}

func revisionConflict(info domain.DefinitionInfo) error {
	err := zerr.Wrap(domain.ErrDuplicateVersion, "metadata revision conflict")
	err = zerr.With(err, "definition_id", info.DefinitionID)
	return zerr.With(err, "revision", info.Revision)
}

func isViolation(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
