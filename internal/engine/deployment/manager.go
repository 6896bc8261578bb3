// Package deployment implements deployment and definition resolution on top of the entry caches.
package deployment

import (
	"context"
	"maps"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const defaultTombstones = 1024

// Caches groups the shared entry caches, all keyed by definition id.
type Caches struct {
	Executables ports.EntryCache[*domain.ExecutableEntry]
	Models      ports.EntryCache[*domain.Model]
	Metadata    ports.EntryCache[*domain.MetadataEntry]
}

// Manager deploys deployments and resolves definitions, redeploying the owning deployment
// whenever a definition is missing from the executable cache.
//
// Resolution takes no global lock. Concurrent misses on the same deployment may run the
// pipeline more than once; every run publishes equivalent entries.
type Manager struct {
	store    ports.DefinitionStore
	pipeline ports.Pipeline
	events   ports.EventSink
	parser   ports.ModelParser
	caches   Caches
	log      ports.Logger

	// Removed deployment ids. A resolution racing with Remove must not republish them.
	tombstones *lru.Cache[string, struct{}]
	tombstoneN int

	coalesce bool
	group    singleflight.Group
}

// Option configures a Manager.
type Option func(*Manager)

// WithResolutionCoalescing lets concurrent cache misses on the same deployment share one
// pipeline run.
func WithResolutionCoalescing() Option {
	return func(m *Manager) {
		m.coalesce = true
	}
}

// WithTombstoneCapacity sets how many removed deployment ids are remembered.
func WithTombstoneCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.tombstoneN = n
		}
	}
}

// NewManager creates a Manager. The caller owns every collaborator.
func NewManager(
	store ports.DefinitionStore,
	pipeline ports.Pipeline,
	events ports.EventSink,
	parser ports.ModelParser,
	caches Caches,
	log ports.Logger,
	opts ...Option,
) (*Manager, error) {
	m := &Manager{
		store:      store,
		pipeline:   pipeline,
		events:     events,
		parser:     parser,
		caches:     caches,
		log:        log,
		tombstoneN: defaultTombstones,
	}
	for _, opt := range opts {
		opt(m)
	}

	tombstones, err := lru.New[string, struct{}](m.tombstoneN)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create tombstone cache")
	}
	m.tombstones = tombstones
	return m, nil
}

// Deploy runs the pipeline against the deployment and publishes the produced entries.
// On failure nothing is published and the deployment keeps its New flag.
func (m *Manager) Deploy(ctx context.Context, d *domain.Deployment, settings domain.Settings) error {
	if d == nil || d.ID == "" {
		return zerr.Wrap(domain.ErrInvalidArgument, "deployment id is empty")
	}
	batch, err := m.deploy(ctx, d, settings)
	if err != nil {
		return err
	}
	m.log.Info("deployment deployed", "deployment_id", d.ID, "definitions", batch.Len())
	return nil
}

func (m *Manager) deploy(ctx context.Context, d *domain.Deployment, settings domain.Settings) (*domain.Batch, error) {
	switch {
	case d.New:
		// A new deployment may reuse the id of a removed one.
		m.tombstones.Remove(d.ID)
	case m.removed(d.ID):
		return nil, deploymentNotFound(d.ID)
	}

	batch := domain.NewBatch(d)
	for _, stage := range m.pipeline {
		if err := stage.Deploy(ctx, d, settings, batch); err != nil {
			return nil, &domain.DeployError{
				DeploymentID: d.ID,
				Stage:        stage.Name(),
				Resource:     domain.ResourceOf(err),
				Err:          err,
			}
		}
	}

	if err := m.publish(batch); err != nil {
		return nil, err
	}
	d.New = false
	return batch, nil
}

// publish copies a completed batch into the shared caches.
func (m *Manager) publish(batch *domain.Batch) error {
	depID := batch.Deployment.ID
	if m.removed(depID) {
		return deploymentNotFound(depID)
	}

	defs := batch.Definitions()
	for _, def := range defs {
		if e, ok := batch.Executable(def.ID); ok {
			m.caches.Executables.Add(def.ID, e)
		}
		if mdl, ok := batch.Model(def.ID); ok {
			m.caches.Models.Add(def.ID, mdl)
		}
		if e, ok := batch.Metadata(def.ID); ok {
			m.caches.Metadata.Add(def.ID, e)
		}
	}

	// Remove may have tombstoned the deployment while the entries were added.
	if m.removed(depID) {
		m.evict(defs)
		return deploymentNotFound(depID)
	}
	return nil
}

func (m *Manager) removed(deploymentID string) bool {
	return m.tombstones.Contains(deploymentID)
}

func (m *Manager) evict(defs []domain.Definition) {
	for _, def := range defs {
		m.caches.Executables.Remove(def.ID)
		m.caches.Models.Remove(def.ID)
		m.caches.Metadata.Remove(def.ID)
	}
}

// FindByID returns the live definition, deploying its owning deployment on a cache miss.
func (m *Manager) FindByID(ctx context.Context, id string) (domain.Definition, error) {
	e, err := m.resolve(ctx, id)
	if err != nil {
		return domain.Definition{}, err
	}
	return e.Definition, nil
}

// GetExecutable returns the cached executable entry of a definition. The entry is shared and
// must not be modified.
func (m *Manager) GetExecutable(ctx context.Context, id string) (*domain.ExecutableEntry, error) {
	return m.resolve(ctx, id)
}

func (m *Manager) resolve(ctx context.Context, id string) (*domain.ExecutableEntry, error) {
	if id == "" {
		return nil, zerr.Wrap(domain.ErrInvalidArgument, "definition id is empty")
	}
	if e, ok := m.caches.Executables.Get(id); ok {
		return e, nil
	}

	def, err := m.loadDefinition(ctx, id)
	if err != nil {
		return nil, err
	}

	m.log.Debug("executable cache miss", "definition_id", id, "deployment_id", def.DeploymentID)
	batch, err := m.redeploy(ctx, def.DeploymentID)
	if err != nil {
		return nil, err
	}

	if e, ok := m.caches.Executables.Get(id); ok {
		return e, nil
	}
	// A bounded cache may already have evicted the entry again.
	if e, ok := batch.Executable(id); ok {
		return e, nil
	}
	err = zerr.With(zerr.Wrap(domain.ErrInternalConsistency, "resolution failed"), "definition_id", id)
	return nil, zerr.With(err, "deployment_id", def.DeploymentID)
}

// redeploy loads a stored deployment and runs the pipeline on it again.
func (m *Manager) redeploy(ctx context.Context, deploymentID string) (*domain.Batch, error) {
	run := func() (*domain.Batch, error) {
		d, err := m.store.LoadDeployment(ctx, deploymentID)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to load deployment"), "deployment_id", deploymentID)
		}
		if d == nil {
			return nil, deploymentNotFound(deploymentID)
		}
		d.New = false
		return m.deploy(ctx, d, domain.Settings{})
	}

	if !m.coalesce {
		return run()
	}
	v, err, _ := m.group.Do(deploymentID, func() (any, error) {
		return run()
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Batch), nil
}

// FindByIDFromStore returns the persisted definition row without touching the caches.
func (m *Manager) FindByIDFromStore(ctx context.Context, id string) (domain.Definition, error) {
	if id == "" {
		return domain.Definition{}, zerr.Wrap(domain.ErrInvalidArgument, "definition id is empty")
	}
	def, err := m.loadDefinition(ctx, id)
	if err != nil {
		return domain.Definition{}, err
	}
	return *def, nil
}

// IsSuspended reads the suspension flag from the store. Cached definitions may carry a stale flag.
func (m *Manager) IsSuspended(ctx context.Context, id string) (bool, error) {
	def, err := m.FindByIDFromStore(ctx, id)
	if err != nil {
		return false, err
	}
	return def.Suspended, nil
}

// SetSuspended updates the suspension flag of a definition.
func (m *Manager) SetSuspended(ctx context.Context, id string, suspended bool) error {
	if id == "" {
		return zerr.Wrap(domain.ErrInvalidArgument, "definition id is empty")
	}
	if err := m.store.SetSuspended(ctx, id, suspended); err != nil {
		return err
	}
	m.log.Info("definition suspension changed", "definition_id", id, "suspended", suspended)
	return nil
}

// GetModel returns the parsed model of a definition. On a miss the resource is read from the
// store and parsed again; only this definition's model entry is populated.
func (m *Manager) GetModel(ctx context.Context, id string) (*domain.Model, error) {
	if id == "" {
		return nil, zerr.Wrap(domain.ErrInvalidArgument, "definition id is empty")
	}
	if mdl, ok := m.caches.Models.Get(id); ok {
		return mdl.Clone(), nil
	}

	def, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := m.loadResource(ctx, def)
	if err != nil {
		return nil, err
	}

	models, err := m.parser.Parse(def.ResourceName, data)
	if err != nil {
		return nil, err
	}
	var model *domain.Model
	for _, mdl := range models {
		if mdl.Key == def.Key {
			model = mdl
			break
		}
	}
	if model == nil {
		err := zerr.With(zerr.Wrap(domain.ErrInvalidArtifact, "resource does not declare the process"), "key", def.Key)
		return nil, &domain.ArtifactError{Resource: def.ResourceName, Err: err}
	}

	m.caches.Models.Add(id, model)
	if m.removed(def.DeploymentID) {
		m.caches.Models.Remove(id)
		return nil, definitionNotFound(id)
	}
	return model.Clone(), nil
}

func (m *Manager) loadResource(ctx context.Context, def domain.Definition) ([]byte, error) {
	data, err := m.store.LoadResource(ctx, def.DeploymentID, def.ResourceName)
	if err != nil {
		err := zerr.With(zerr.Wrap(err, "failed to load resource"), "deployment_id", def.DeploymentID)
		return nil, zerr.With(err, "resource", def.ResourceName)
	}
	if data != nil {
		return data, nil
	}

	d, err := m.store.LoadDeployment(ctx, def.DeploymentID)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load deployment"), "deployment_id", def.DeploymentID)
	}
	if d == nil {
		return nil, deploymentNotFound(def.DeploymentID)
	}
	err = zerr.With(zerr.Wrap(domain.ErrResourceNotFound, "deployment has no bytes for resource"), "deployment_id", def.DeploymentID)
	return nil, zerr.With(err, "resource", def.ResourceName)
}

// GetMetadata returns the metadata of a definition, deploying its owning deployment on a miss.
func (m *Manager) GetMetadata(ctx context.Context, id string) (domain.DefinitionInfo, error) {
	if id == "" {
		return domain.DefinitionInfo{}, zerr.Wrap(domain.ErrInvalidArgument, "definition id is empty")
	}
	if e, ok := m.caches.Metadata.Get(id); ok {
		return e.Info.Clone(), nil
	}

	def, err := m.loadDefinition(ctx, id)
	if err != nil {
		return domain.DefinitionInfo{}, err
	}
	batch, err := m.redeploy(ctx, def.DeploymentID)
	if err != nil {
		return domain.DefinitionInfo{}, err
	}
	if e, ok := m.caches.Metadata.Get(id); ok {
		return e.Info.Clone(), nil
	}
	if e, ok := batch.Metadata(id); ok {
		return e.Info.Clone(), nil
	}

	// The pipeline runs without a metadata stage.
	info, err := m.store.LoadDefinitionInfo(ctx, id)
	if err != nil {
		return domain.DefinitionInfo{}, zerr.With(zerr.Wrap(err, "failed to load definition metadata"), "definition_id", id)
	}
	if info == nil {
		return domain.DefinitionInfo{DefinitionID: id}, nil
	}
	return *info, nil
}

// UpdateMetadata stores the next metadata revision of a definition and evicts its cached entry.
func (m *Manager) UpdateMetadata(ctx context.Context, id string, properties map[string]string) (domain.DefinitionInfo, error) {
	if id == "" {
		return domain.DefinitionInfo{}, zerr.Wrap(domain.ErrInvalidArgument, "definition id is empty")
	}
	if _, err := m.loadDefinition(ctx, id); err != nil {
		return domain.DefinitionInfo{}, err
	}

	current, err := m.store.LoadDefinitionInfo(ctx, id)
	if err != nil {
		return domain.DefinitionInfo{}, zerr.With(zerr.Wrap(err, "failed to load definition metadata"), "definition_id", id)
	}
	info := domain.DefinitionInfo{DefinitionID: id, Revision: 1, Properties: maps.Clone(properties)}
	if current != nil {
		info.Revision = current.Revision + 1
	}

	if err := m.store.SaveDefinitionInfo(ctx, info); err != nil {
		return domain.DefinitionInfo{}, err
	}
	m.caches.Metadata.Remove(id)
	m.log.Info("definition metadata updated", "definition_id", id, "revision", info.Revision)
	return info, nil
}

// FindLatestByKey resolves the highest version of key within the tenant.
func (m *Manager) FindLatestByKey(ctx context.Context, key, tenantID string) (domain.Definition, error) {
	if key == "" {
		return domain.Definition{}, zerr.Wrap(domain.ErrInvalidArgument, "definition key is empty")
	}
	def, err := m.store.FindLatest(ctx, key, tenantID)
	if err != nil {
		return domain.Definition{}, zerr.With(zerr.Wrap(err, "failed to find latest definition"), "key", key)
	}
	if def == nil {
		err := zerr.With(zerr.Wrap(domain.ErrDefinitionNotFound, "no definition with key"), "key", key)
		return domain.Definition{}, zerr.With(err, "tenant_id", tenantID)
	}
	return m.FindByID(ctx, def.ID)
}

// FindByKeyAndVersion resolves an exact version of key without a tenant.
func (m *Manager) FindByKeyAndVersion(ctx context.Context, key string, version int) (domain.Definition, error) {
	return m.FindByKeyVersionAndTenant(ctx, key, version, "")
}

// FindByKeyVersionAndTenant resolves an exact version of key within the tenant.
func (m *Manager) FindByKeyVersionAndTenant(ctx context.Context, key string, version int, tenantID string) (domain.Definition, error) {
	if key == "" {
		return domain.Definition{}, zerr.Wrap(domain.ErrInvalidArgument, "definition key is empty")
	}
	if version <= 0 {
		return domain.Definition{}, zerr.With(zerr.Wrap(domain.ErrInvalidArgument, "definition version must be positive"), "version", version)
	}

	def, err := m.store.FindByKeyVersion(ctx, key, version, tenantID)
	if err != nil {
		return domain.Definition{}, zerr.With(zerr.Wrap(err, "failed to find definition version"), "key", key)
	}
	if def == nil {
		err := zerr.With(zerr.Wrap(domain.ErrDefinitionNotFound, "no definition with key and version"), "key", key)
		err = zerr.With(err, "version", version)
		return domain.Definition{}, zerr.With(err, "tenant_id", tenantID)
	}
	return m.FindByID(ctx, def.ID)
}

// ListDefinitions returns the stored definitions of a deployment.
func (m *Manager) ListDefinitions(ctx context.Context, deploymentID string) ([]domain.Definition, error) {
	if deploymentID == "" {
		return nil, zerr.Wrap(domain.ErrInvalidArgument, "deployment id is empty")
	}
	d, err := m.store.LoadDeployment(ctx, deploymentID)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load deployment"), "deployment_id", deploymentID)
	}
	if d == nil {
		return nil, deploymentNotFound(deploymentID)
	}
	defs, err := m.store.ListDefinitions(ctx, deploymentID)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to list definitions"), "deployment_id", deploymentID)
	}
	return defs, nil
}

// Remove deletes a deployment with its definitions.
//
// Definition deleted events are dispatched before the store delete, the deployment deleted
// event after it. Cache entries are evicted only once the store confirmed the deletion.
func (m *Manager) Remove(ctx context.Context, deploymentID string, cascade bool) error {
	if deploymentID == "" {
		return zerr.Wrap(domain.ErrInvalidArgument, "deployment id is empty")
	}

	d, err := m.store.LoadDeployment(ctx, deploymentID)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to load deployment"), "deployment_id", deploymentID)
	}
	if d == nil {
		return deploymentNotFound(deploymentID)
	}

	defs, err := m.store.ListDefinitions(ctx, deploymentID)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to list definitions"), "deployment_id", deploymentID)
	}

	enabled := m.events.Enabled()
	if enabled {
		for _, def := range defs {
			m.events.Dispatch(ctx, domain.NewDefinitionEvent(domain.EventEntityDeleted, def))
		}
	}

	if err := m.store.DeleteDeployment(ctx, deploymentID, cascade); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to delete deployment"), "deployment_id", deploymentID)
	}

	if enabled {
		m.events.Dispatch(ctx, domain.NewDeploymentEvent(domain.EventEntityDeleted, d))
	}

	m.tombstones.Add(deploymentID, struct{}{})
	m.evict(defs)

	m.log.Info("deployment removed", "deployment_id", deploymentID, "definitions", len(defs), "cascade", cascade)
	return nil
}

func (m *Manager) loadDefinition(ctx context.Context, id string) (*domain.Definition, error) {
	def, err := m.store.LoadDefinition(ctx, id)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to load definition"), "definition_id", id)
	}
	if def == nil {
		return nil, definitionNotFound(id)
	}
	return def, nil
}

func definitionNotFound(id string) error {
	return zerr.With(zerr.Wrap(domain.ErrDefinitionNotFound, "unknown definition"), "definition_id", id)
}

func deploymentNotFound(id string) error {
	return zerr.With(zerr.Wrap(domain.ErrDeploymentNotFound, "unknown deployment"), "deployment_id", id)
}
