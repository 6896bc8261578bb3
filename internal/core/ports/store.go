package ports

import (
	"context"

	"go.trai.ch/flow/internal/core/domain"
)

// DefinitionStore is the persistent source of truth for deployments, resources and definitions.
//
// Lookups return nil, nil when the entity does not exist; errors are reserved for I/O failures.
// Deletions are visible to every subsequent lookup as soon as DeleteDeployment returns.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type DefinitionStore interface {
	// LoadDeployment returns the deployment with its resources.
	LoadDeployment(ctx context.Context, id string) (*domain.Deployment, error)

	// LoadDefinition returns the definition row.
	LoadDefinition(ctx context.Context, id string) (*domain.Definition, error)

	// FindLatest returns the highest version of key within the tenant.
	FindLatest(ctx context.Context, key, tenantID string) (*domain.Definition, error)

	// FindByKeyVersion returns the definition with the exact key, version and tenant.
	FindByKeyVersion(ctx context.Context, key string, version int, tenantID string) (*domain.Definition, error)

	// ListDefinitions returns the definitions of a deployment ordered by resource name, then key.
	ListDefinitions(ctx context.Context, deploymentID string) ([]domain.Definition, error)

	// LoadResource returns the bytes of a single deployment resource.
	LoadResource(ctx context.Context, deploymentID, resourceName string) ([]byte, error)

	// FindLatestDeploymentByName returns the most recent deployment with the given name.
	FindLatestDeploymentByName(ctx context.Context, name, tenantID string) (*domain.Deployment, error)

	// SaveDeployment persists a new deployment, its resources and its definitions atomically.
	SaveDeployment(ctx context.Context, deployment *domain.Deployment, definitions []domain.Definition) error

	// DeleteDeployment removes the deployment, its resources and its definitions.
	// Dependent rows are deleted when cascade is set; otherwise their presence fails the call
	// with domain.ErrDeploymentInUse. Deleting an unknown deployment is not an error.
	DeleteDeployment(ctx context.Context, id string, cascade bool) error

	// SetSuspended updates the suspension flag of a definition.
	SetSuspended(ctx context.Context, definitionID string, suspended bool) error

	// LoadDefinitionInfo returns the latest metadata revision of a definition.
	LoadDefinitionInfo(ctx context.Context, definitionID string) (*domain.DefinitionInfo, error)

	// SaveDefinitionInfo stores a metadata revision. The revision must be exactly one more than the
	// stored one; otherwise the call fails with domain.ErrDuplicateVersion.
	SaveDefinitionInfo(ctx context.Context, info domain.DefinitionInfo) error

	// Close releases the store's resources.
	Close() error
}
