// Package app implements the application layer for flow.
package app

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/flow/internal/adapters/postgres" //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/flow/internal/engine/deployment"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	source  ports.ArtifactSource
	hasher  ports.Hasher
	store   ports.DefinitionStore
	manager *deployment.Manager
	logger  ports.Logger

	storeCfg domain.StoreConfig
	now      func() time.Time
}

// Option configures an App.
type Option func(*App)

// WithStoreConfig sets the store configuration used by Migrate.
func WithStoreConfig(cfg domain.StoreConfig) Option {
	return func(a *App) {
		a.storeCfg = cfg
	}
}

// WithClock overrides the clock used to stamp new deployments.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// New creates a new App instance.
func New(
	source ports.ArtifactSource,
	hasher ports.Hasher,
	store ports.DefinitionStore,
	manager *deployment.Manager,
	logger ports.Logger,
	opts ...Option,
) *App {
	a := &App{
		source:   source,
		hasher:   hasher,
		store:    store,
		manager:  manager,
		logger:   logger,
		storeCfg: domain.StoreConfig{Driver: domain.DriverMemory},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DeployRequest describes a deployment built from artifacts on disk.
type DeployRequest struct {
	Name     string
	Category string
	TenantID string
	// Paths are files, directories or glob patterns.
	Paths []string
	// DuplicateFiltering skips the deploy when the latest deployment with the same name and
	// tenant has identical content.
	DuplicateFiltering bool
}

// DeployResult is the outcome of a successful deploy request.
type DeployResult struct {
	Deployment  *domain.Deployment
	Definitions []domain.Definition
	// Duplicate is set when an earlier deployment was returned instead of a new one.
	Duplicate bool
}

// Deploy collects the requested artifacts and deploys them as a new deployment.
func (a *App) Deploy(ctx context.Context, req DeployRequest) (*DeployResult, error) {
	if len(req.Paths) == 0 {
		return nil, zerr.Wrap(domain.ErrInvalidArgument, "no artifact paths given")
	}
	if req.DuplicateFiltering && req.Name == "" {
		return nil, zerr.Wrap(domain.ErrInvalidArgument, "duplicate filtering requires a deployment name")
	}

	resources, err := a.source.Collect(ctx, req.Paths)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to collect artifacts")
	}
	if len(resources) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "no artifacts found"), "paths", req.Paths)
	}
	digest := a.hasher.Digest(resources)

	if req.DuplicateFiltering {
		previous, err := a.store.FindLatestDeploymentByName(ctx, req.Name, req.TenantID)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to load previous deployment"), "name", req.Name)
		}
		if previous != nil && previous.Digest == digest {
			a.logger.Info("deployment unchanged, skipping", "name", req.Name, "deployment_id", previous.ID)
			defs, err := a.manager.ListDefinitions(ctx, previous.ID)
			if err != nil {
				return nil, err
			}
			return &DeployResult{Deployment: previous, Definitions: defs, Duplicate: true}, nil
		}
	}

	d := &domain.Deployment{
		ID:         uuid.NewString(),
		Name:       req.Name,
		TenantID:   req.TenantID,
		Category:   req.Category,
		DeployedAt: a.now().UTC(),
		Digest:     digest,
		New:        true,
	}
	for _, r := range resources {
		if err := d.AddResource(r.Name, r.Bytes); err != nil {
			return nil, err
		}
	}

	if err := a.manager.Deploy(ctx, d, domain.Settings{ValidateProcess: true}); err != nil {
		return nil, err
	}

	defs, err := a.manager.ListDefinitions(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	a.logger.Info("deployed",
		"deployment_id", d.ID,
		"name", d.Name,
		"resources", len(d.Resources),
		"definitions", len(defs),
	)
	return &DeployResult{Deployment: d, Definitions: defs}, nil
}

// Definition resolves a definition by id.
func (a *App) Definition(ctx context.Context, id string) (domain.Definition, error) {
	return a.manager.FindByID(ctx, id)
}

// Latest resolves the latest version of key within the tenant.
func (a *App) Latest(ctx context.Context, key, tenantID string) (domain.Definition, error) {
	return a.manager.FindLatestByKey(ctx, key, tenantID)
}

// Version resolves an exact version of key within the tenant.
func (a *App) Version(ctx context.Context, key string, version int, tenantID string) (domain.Definition, error) {
	return a.manager.FindByKeyVersionAndTenant(ctx, key, version, tenantID)
}

// Definitions lists the definitions of a deployment.
func (a *App) Definitions(ctx context.Context, deploymentID string) ([]domain.Definition, error) {
	return a.manager.ListDefinitions(ctx, deploymentID)
}

// Executable resolves the executable form of a definition.
func (a *App) Executable(ctx context.Context, id string) (*domain.ExecutableEntry, error) {
	return a.manager.GetExecutable(ctx, id)
}

// Model returns the parsed model of a definition.
func (a *App) Model(ctx context.Context, id string) (*domain.Model, error) {
	return a.manager.GetModel(ctx, id)
}

// Metadata returns the current metadata of a definition.
func (a *App) Metadata(ctx context.Context, id string) (domain.DefinitionInfo, error) {
	return a.manager.GetMetadata(ctx, id)
}

// UpdateMetadata stores a new metadata revision.
func (a *App) UpdateMetadata(ctx context.Context, id string, properties map[string]string) (domain.DefinitionInfo, error) {
	return a.manager.UpdateMetadata(ctx, id, properties)
}

// Suspended reports the stored suspension state of a definition.
func (a *App) Suspended(ctx context.Context, id string) (bool, error) {
	return a.manager.IsSuspended(ctx, id)
}

// Suspend suspends a definition.
func (a *App) Suspend(ctx context.Context, id string) error {
	return a.manager.SetSuspended(ctx, id, true)
}

// Activate lifts the suspension of a definition.
func (a *App) Activate(ctx context.Context, id string) error {
	return a.manager.SetSuspended(ctx, id, false)
}

// Remove deletes a deployment and its definitions.
func (a *App) Remove(ctx context.Context, deploymentID string, cascade bool) error {
	return a.manager.Remove(ctx, deploymentID, cascade)
}

// Migrate applies the embedded schema migrations to the configured postgres database.
func (a *App) Migrate(ctx context.Context) (uint, error) {
	if a.storeCfg.Driver != domain.DriverPostgres {
		err := zerr.Wrap(domain.ErrInvalidArgument, "migrations require the postgres store driver")
		return 0, zerr.With(err, "driver", a.storeCfg.Driver)
	}
	version, err := postgres.Migrate(ctx, postgres.NewConfig(a.storeCfg))
	if err != nil {
		return 0, err
	}
	a.logger.Info("schema migrated", "version", version)
	return version, nil
}
