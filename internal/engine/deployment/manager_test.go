package deployment_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flow/internal/adapters/cache"
	"go.trai.ch/flow/internal/adapters/logger"
	"go.trai.ch/flow/internal/adapters/memstore"
	"go.trai.ch/flow/internal/adapters/process"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/flow/internal/engine/deployment"
)

const invoiceYAML = `
processes:
  - key: invoice
    name: Invoice approval
    properties:
      owner: billing
    elements:
      - {id: start, type: startEvent, next: [review]}
      - {id: review, type: userTask, next: [done]}
      - {id: done, type: endEvent}
`

const shippingYAML = `
processes:
  - key: shipping
    elements:
      - {id: start, type: startEvent, next: [ship]}
      - {id: ship, type: serviceTask, next: [done]}
      - {id: done, type: endEvent}
`

// countingStage counts pipeline runs.
type countingStage struct {
	runs atomic.Int64
}

func (s *countingStage) Name() string { return "count" }

func (s *countingStage) Deploy(context.Context, *domain.Deployment, domain.Settings, *domain.Batch) error {
	s.runs.Add(1)
	return nil
}

type failingStage struct {
	err error
}

func (s *failingStage) Name() string { return "fail" }

func (s *failingStage) Deploy(context.Context, *domain.Deployment, domain.Settings, *domain.Batch) error {
	return s.err
}

// recordingSink keeps dispatched events in order.
type recordingSink struct {
	enabled bool

	mu     sync.Mutex
	events []domain.Event
}

func (s *recordingSink) Enabled() bool { return s.enabled }

func (s *recordingSink) Dispatch(_ context.Context, e domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) recorded() []domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Event(nil), s.events...)
}

func (s *recordingSink) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

type env struct {
	manager     *deployment.Manager
	store       *memstore.Store
	counter     *countingStage
	sink        *recordingSink
	executables *cache.Cache[*domain.ExecutableEntry]
	models      *cache.Cache[*domain.Model]
	metadata    *cache.Cache[*domain.MetadataEntry]
}

type envConfig struct {
	executableCapacity int
	eventsDisabled     bool
	options            []deployment.Option
	// extraStages run right before the persist stage.
	extraStages []ports.Deployer
}

func newEnv(t *testing.T, cfg envConfig) *env {
	t.Helper()

	log := logger.New(domain.LogLevelError)
	log.SetOutput(io.Discard)

	executables, err := cache.New[*domain.ExecutableEntry]("executables", cfg.executableCapacity)
	require.NoError(t, err)
	models, err := cache.New[*domain.Model]("models", 0)
	require.NoError(t, err)
	metadata, err := cache.New[*domain.MetadataEntry]("metadata", 0)
	require.NoError(t, err)

	e := &env{
		store:       memstore.New(),
		counter:     &countingStage{},
		sink:        &recordingSink{enabled: !cfg.eventsDisabled},
		executables: executables,
		models:      models,
		metadata:    metadata,
	}

	parser := process.NewParser()
	pipeline := ports.Pipeline{
		e.counter,
		process.NewParseStage(e.store, parser, log),
		process.NewCompileStage(),
		process.NewMetadataStage(e.store),
	}
	pipeline = append(pipeline, cfg.extraStages...)
	pipeline = append(pipeline, process.NewPersistStage(e.store, e.sink))

	e.manager, err = deployment.NewManager(
		e.store,
		pipeline,
		e.sink,
		parser,
		deployment.Caches{Executables: executables, Models: models, Metadata: metadata},
		log,
		cfg.options...,
	)
	require.NoError(t, err)
	return e
}

// seedDep1 stores dep-1 with pd-1 (invoice) and pd-2 (shipping) and returns it as re-loaded.
func (e *env) seedDep1(t *testing.T) *domain.Deployment {
	t.Helper()
	ctx := context.Background()

	d := &domain.Deployment{ID: "dep-1", Name: "billing", DeployedAt: time.Now().UTC(), New: true}
	require.NoError(t, d.AddResource("invoice.process.yaml", []byte(invoiceYAML)))
	require.NoError(t, d.AddResource("shipping.process.yaml", []byte(shippingYAML)))
	require.NoError(t, e.store.SaveDeployment(ctx, d, []domain.Definition{
		{ID: "pd-1", Key: "invoice", Version: 1, DeploymentID: "dep-1", ResourceName: "invoice.process.yaml"},
		{ID: "pd-2", Key: "shipping", Version: 1, DeploymentID: "dep-1", ResourceName: "shipping.process.yaml"},
	}))

	loaded, err := e.store.LoadDeployment(ctx, "dep-1")
	require.NoError(t, err)
	return loaded
}

func newDeployment(t *testing.T, id string) *domain.Deployment {
	t.Helper()
	d := &domain.Deployment{ID: id, Name: "billing", DeployedAt: time.Now().UTC(), New: true}
	require.NoError(t, d.AddResource("invoice.process.yaml", []byte(invoiceYAML)))
	require.NoError(t, d.AddResource("shipping.process.yaml", []byte(shippingYAML)))
	return d
}

func TestManager_Scenario(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	d := e.seedDep1(t)

	require.NoError(t, e.manager.Deploy(ctx, d, domain.Settings{}))
	for _, id := range []string{"pd-1", "pd-2"} {
		def, err := e.manager.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, def.ID)
	}

	latest, err := e.manager.FindLatestByKey(ctx, "invoice", "")
	require.NoError(t, err)
	assert.Equal(t, "pd-1", latest.ID)

	require.NoError(t, e.manager.Remove(ctx, "dep-1", true))
	for _, id := range []string{"pd-1", "pd-2"} {
		_, err := e.manager.FindByID(ctx, id)
		require.ErrorIs(t, err, domain.ErrDefinitionNotFound)
		assert.Equal(t, domain.OutcomeNotFound, domain.Classify(err))
	}
}

func TestManager_DeployedDefinitionsResolveWithoutPipeline(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	d := newDeployment(t, "dep-1")

	require.NoError(t, e.manager.Deploy(ctx, d, domain.Settings{ValidateProcess: true}))
	assert.False(t, d.New)
	require.EqualValues(t, 1, e.counter.runs.Load())

	defs, err := e.manager.ListDefinitions(ctx, "dep-1")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	for _, stored := range defs {
		def, err := e.manager.FindByID(ctx, stored.ID)
		require.NoError(t, err)
		assert.Equal(t, stored, def)
	}
	assert.EqualValues(t, 1, e.counter.runs.Load(), "no pipeline run for deployed definitions")

	events := e.sink.recorded()
	require.Len(t, events, 3)
	assert.Equal(t, domain.EntityDeployment, events[0].Entity)
	assert.Equal(t, domain.EventEntityCreated, events[0].Kind)
}

func TestManager_CacheMissRedeploysSiblings(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	d := newDeployment(t, "dep-1")
	require.NoError(t, e.manager.Deploy(ctx, d, domain.Settings{}))

	defs, err := e.manager.ListDefinitions(ctx, "dep-1")
	require.NoError(t, err)
	before := make(map[string]domain.Definition)
	for _, def := range defs {
		before[def.ID] = def
	}

	e.executables.Purge()
	first, err := e.manager.FindByID(ctx, defs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, before[first.ID], first)
	assert.EqualValues(t, 2, e.counter.runs.Load())

	second, err := e.manager.FindByID(ctx, defs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, before[second.ID], second)
	assert.EqualValues(t, 2, e.counter.runs.Load(), "sibling was republished by the first miss")
	assert.Equal(t, 2, e.executables.Len())
}

func TestManager_RedeployIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	d := e.seedDep1(t)

	require.NoError(t, e.manager.Deploy(ctx, d, domain.Settings{}))
	first, err := e.manager.GetExecutable(ctx, "pd-1")
	require.NoError(t, err)

	again, err := e.store.LoadDeployment(ctx, "dep-1")
	require.NoError(t, err)
	require.NoError(t, e.manager.Deploy(ctx, again, domain.Settings{}))
	second, err := e.manager.GetExecutable(ctx, "pd-1")
	require.NoError(t, err)

	assert.Equal(t, first.Definition, second.Definition)
	assert.Equal(t, first.Executable.Checksum, second.Executable.Checksum)
	assert.Empty(t, e.sink.recorded(), "stored deployments are not announced again")
}

func TestManager_FailedDeployPublishesNothing(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("compiler crashed")
	e := newEnv(t, envConfig{extraStages: []ports.Deployer{&failingStage{err: boom}}})
	d := newDeployment(t, "dep-1")

	err := e.manager.Deploy(ctx, d, domain.Settings{})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, domain.ErrDeployFailed)
	assert.Equal(t, domain.OutcomeFatal, domain.Classify(err))

	var deployErr *domain.DeployError
	require.ErrorAs(t, err, &deployErr)
	assert.Equal(t, "dep-1", deployErr.DeploymentID)
	assert.Equal(t, "fail", deployErr.Stage)

	assert.True(t, d.New, "failed deployment stays new")
	stored, err := e.store.LoadDeployment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Empty(t, e.sink.recorded())
	assert.Equal(t, 0, e.executables.Len())
	assert.Equal(t, 0, e.models.Len())
	assert.Equal(t, 0, e.metadata.Len())
}

func TestManager_DeployErrorCarriesResource(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	d := newDeployment(t, "dep-1")
	require.NoError(t, d.AddResource("broken.process.yaml", []byte("processes: [")))

	err := e.manager.Deploy(ctx, d, domain.Settings{})
	var deployErr *domain.DeployError
	require.ErrorAs(t, err, &deployErr)
	assert.Equal(t, "parse", deployErr.Stage)
	assert.Equal(t, "broken.process.yaml", deployErr.Resource)
	require.ErrorIs(t, err, domain.ErrInvalidArtifact)

	stored, err := e.store.LoadDeployment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Equal(t, 0, e.executables.Len())
}

func TestManager_InternalConsistency(t *testing.T) {
	ctx := context.Background()
	log := logger.New(domain.LogLevelError)
	log.SetOutput(io.Discard)

	store := memstore.New()
	d := &domain.Deployment{ID: "dep-1", Name: "billing", New: true}
	require.NoError(t, store.SaveDeployment(ctx, d, []domain.Definition{
		{ID: "pd-1", Key: "invoice", Version: 1, DeploymentID: "dep-1", ResourceName: "invoice.process.yaml"},
	}))

	executables, err := cache.New[*domain.ExecutableEntry]("executables", 10)
	require.NoError(t, err)
	models, err := cache.New[*domain.Model]("models", 10)
	require.NoError(t, err)
	metadata, err := cache.New[*domain.MetadataEntry]("metadata", 0)
	require.NoError(t, err)

	m, err := deployment.NewManager(store, ports.Pipeline{&countingStage{}}, &recordingSink{}, process.NewParser(),
		deployment.Caches{Executables: executables, Models: models, Metadata: metadata}, log)
	require.NoError(t, err)

	_, err = m.FindByID(ctx, "pd-1")
	require.ErrorIs(t, err, domain.ErrInternalConsistency)
	assert.Equal(t, domain.OutcomeFatal, domain.Classify(err))
}

func TestManager_SmallCacheStillResolves(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{executableCapacity: 1})
	e.seedDep1(t)

	for _, id := range []string{"pd-1", "pd-2", "pd-1"} {
		def, err := e.manager.FindByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, def.ID)
	}
	assert.Equal(t, 1, e.executables.Len())
}

func TestManager_InvalidArguments(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})

	_, err := e.manager.FindByID(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = e.manager.FindByIDFromStore(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = e.manager.GetModel(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = e.manager.GetMetadata(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = e.manager.FindLatestByKey(ctx, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	_, err = e.manager.FindByKeyAndVersion(ctx, "invoice", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.ErrorIs(t, e.manager.Remove(ctx, "", true), domain.ErrInvalidArgument)
	assert.ErrorIs(t, e.manager.Deploy(ctx, nil, domain.Settings{}), domain.ErrInvalidArgument)
	assert.Equal(t, domain.OutcomeInvalid, domain.Classify(err))
}

func TestManager_NotFound(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})

	_, err := e.manager.FindByID(ctx, "absent")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	_, err = e.manager.FindLatestByKey(ctx, "absent", "")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	_, err = e.manager.FindByKeyAndVersion(ctx, "absent", 1)
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	_, err = e.manager.IsSuspended(ctx, "absent")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	assert.ErrorIs(t, e.manager.Remove(ctx, "absent", true), domain.ErrDeploymentNotFound)
	_, err = e.manager.ListDefinitions(ctx, "absent")
	assert.ErrorIs(t, err, domain.ErrDeploymentNotFound)
}

func TestManager_VersionsAndTenants(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})

	v1 := newDeployment(t, "dep-1")
	require.NoError(t, e.manager.Deploy(ctx, v1, domain.Settings{}))
	v2 := newDeployment(t, "dep-2")
	require.NoError(t, e.manager.Deploy(ctx, v2, domain.Settings{}))
	acme := newDeployment(t, "dep-3")
	acme.TenantID = "acme"
	require.NoError(t, e.manager.Deploy(ctx, acme, domain.Settings{}))

	latest, err := e.manager.FindLatestByKey(ctx, "invoice", "")
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, "dep-2", latest.DeploymentID)

	first, err := e.manager.FindByKeyAndVersion(ctx, "invoice", 1)
	require.NoError(t, err)
	assert.Equal(t, "dep-1", first.DeploymentID)

	tenant, err := e.manager.FindByKeyVersionAndTenant(ctx, "invoice", 1, "acme")
	require.NoError(t, err)
	assert.Equal(t, "dep-3", tenant.DeploymentID)
	assert.True(t, strings.HasPrefix(tenant.ID, "invoice:1:"))

	_, err = e.manager.FindByKeyVersionAndTenant(ctx, "invoice", 2, "acme")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}

func TestManager_Suspension(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	e.seedDep1(t)

	_, err := e.manager.FindByID(ctx, "pd-1")
	require.NoError(t, err)

	require.NoError(t, e.manager.SetSuspended(ctx, "pd-1", true))
	suspended, err := e.manager.IsSuspended(ctx, "pd-1")
	require.NoError(t, err)
	assert.True(t, suspended, "suspension is read from the store")

	row, err := e.manager.FindByIDFromStore(ctx, "pd-1")
	require.NoError(t, err)
	assert.True(t, row.Suspended)

	require.ErrorIs(t, e.manager.SetSuspended(ctx, "absent", true), domain.ErrDefinitionNotFound)
}

func TestManager_GetModel(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	e.seedDep1(t)

	model, err := e.manager.GetModel(ctx, "pd-2")
	require.NoError(t, err)
	assert.Equal(t, "shipping", model.Key)
	assert.Equal(t, 3, model.Len())

	e.models.Remove("pd-1")
	e.models.Remove("pd-2")
	model, err = e.manager.GetModel(ctx, "pd-1")
	require.NoError(t, err)
	assert.Equal(t, "invoice", model.Key)
	_, ok := e.models.Get("pd-1")
	assert.True(t, ok)
	_, ok = e.models.Get("pd-2")
	assert.False(t, ok, "a model miss populates only the requested entry")
}

func TestManager_Metadata(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	e.seedDep1(t)

	info, err := e.manager.GetMetadata(ctx, "pd-1")
	require.NoError(t, err)
	assert.Equal(t, 0, info.Revision)
	assert.Equal(t, "billing", info.Properties["owner"])

	updated, err := e.manager.UpdateMetadata(ctx, "pd-1", map[string]string{"owner": "ops"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Revision)

	info, err = e.manager.GetMetadata(ctx, "pd-1")
	require.NoError(t, err)
	assert.Equal(t, 1, info.Revision)
	assert.Equal(t, "ops", info.Properties["owner"])

	updated, err = e.manager.UpdateMetadata(ctx, "pd-1", map[string]string{"owner": "finance"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Revision)

	_, err = e.manager.UpdateMetadata(ctx, "absent", nil)
	require.ErrorIs(t, err, domain.ErrDefinitionNotFound)

	assert.ErrorIs(t, e.manager.Remove(ctx, "dep-1", false), domain.ErrDeploymentInUse)
	require.NoError(t, e.manager.Remove(ctx, "dep-1", true))
}

func TestManager_RemoveEventOrdering(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	e.seedDep1(t)

	require.NoError(t, e.manager.Remove(ctx, "dep-1", true))

	events := e.sink.recorded()
	require.Len(t, events, 3)
	for _, ev := range events[:2] {
		assert.Equal(t, domain.EventEntityDeleted, ev.Kind)
		assert.Equal(t, domain.EntityDefinition, ev.Entity)
	}
	assert.Equal(t, []string{"pd-1", "pd-2"}, []string{events[0].EntityID, events[1].EntityID})
	assert.Equal(t, domain.EntityDeployment, events[2].Entity)
	assert.Equal(t, "dep-1", events[2].EntityID)
}

func TestManager_RemoveWithEventsDisabled(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{eventsDisabled: true})
	e.seedDep1(t)

	require.NoError(t, e.manager.Remove(ctx, "dep-1", true))
	assert.Empty(t, e.sink.recorded())
}

func TestManager_RemoveEvictsEveryCache(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	e.seedDep1(t)

	_, err := e.manager.FindByID(ctx, "pd-1")
	require.NoError(t, err)
	held, err := e.manager.GetExecutable(ctx, "pd-2")
	require.NoError(t, err)
	require.Equal(t, 2, e.executables.Len())
	require.Equal(t, 2, e.models.Len())
	require.Equal(t, 2, e.metadata.Len())

	e.sink.reset()
	require.NoError(t, e.manager.Remove(ctx, "dep-1", true))

	assert.Equal(t, 0, e.executables.Len())
	assert.Equal(t, 0, e.models.Len())
	assert.Equal(t, 0, e.metadata.Len())

	_, err = e.manager.FindByID(ctx, held.Definition.ID)
	require.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	_, err = e.manager.GetModel(ctx, "pd-1")
	require.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}

func TestManager_RemovedDeploymentIsNotRepublished(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	d := e.seedDep1(t)

	// A resolution that staged the deployment before it was removed.
	batch := domain.NewBatch(d)
	batch.AddDefinition(domain.Definition{ID: "pd-1", Key: "invoice", Version: 1, DeploymentID: "dep-1"}, nil)
	batch.AddExecutable(&domain.ExecutableEntry{
		Definition: domain.Definition{ID: "pd-1", Key: "invoice", Version: 1, DeploymentID: "dep-1"},
		Executable: &domain.Executable{Key: "invoice"},
	})

	require.NoError(t, e.manager.Remove(ctx, "dep-1", true))

	err := e.manager.Publish(batch)
	require.ErrorIs(t, err, domain.ErrDeploymentNotFound)
	_, ok := e.executables.Get("pd-1")
	assert.False(t, ok)
}

func TestManager_ConcurrentResolution(t *testing.T) {
	for _, tc := range []struct {
		name    string
		options []deployment.Option
	}{
		{name: "independent"},
		{name: "coalesced", options: []deployment.Option{deployment.WithResolutionCoalescing()}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			e := newEnv(t, envConfig{options: tc.options})
			e.seedDep1(t)

			const callers = 32
			results := make([]domain.Definition, callers)
			errs := make([]error, callers)
			var wg sync.WaitGroup
			for i := range callers {
				wg.Go(func() {
					id := "pd-1"
					if i%2 == 1 {
						id = "pd-2"
					}
					results[i], errs[i] = e.manager.FindByID(ctx, id)
				})
			}
			wg.Wait()

			for i := range callers {
				require.NoError(t, errs[i])
				if i%2 == 0 {
					assert.Equal(t, "pd-1", results[i].ID)
				} else {
					assert.Equal(t, "pd-2", results[i].ID)
				}
			}

			assert.Equal(t, 2, e.executables.Len())
			runs := e.counter.runs.Load()
			assert.GreaterOrEqual(t, runs, int64(1))
			assert.LessOrEqual(t, runs, int64(callers))

			one, err := e.manager.GetExecutable(ctx, "pd-1")
			require.NoError(t, err)
			two, err := e.manager.GetExecutable(ctx, "pd-2")
			require.NoError(t, err)
			assert.Equal(t, "dep-1", one.Definition.DeploymentID)
			assert.Equal(t, "dep-1", two.Definition.DeploymentID)
		})
	}
}

func TestManager_RedeploySameIDAfterRemove(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})

	first := newDeployment(t, "dep-1")
	require.NoError(t, e.manager.Deploy(ctx, first, domain.Settings{}))
	require.NoError(t, e.manager.Remove(ctx, "dep-1", true))

	second := newDeployment(t, "dep-1")
	require.NoError(t, e.manager.Deploy(ctx, second, domain.Settings{}))
	assert.False(t, second.New)

	defs, err := e.manager.ListDefinitions(ctx, "dep-1")
	require.NoError(t, err)
	require.Len(t, defs, 2)
	for _, def := range defs {
		resolved, err := e.manager.FindByID(ctx, def.ID)
		require.NoError(t, err)
		assert.Equal(t, "dep-1", resolved.DeploymentID)
	}
}

func TestManager_RemovedDeploymentIsNotRedeployed(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, envConfig{})
	d := e.seedDep1(t)
	require.NoError(t, e.manager.Remove(ctx, "dep-1", true))

	// A caller still holding the stored deployment must not write it back.
	d.New = false
	err := e.manager.Deploy(ctx, d, domain.Settings{})
	require.ErrorIs(t, err, domain.ErrDeploymentNotFound)

	stored, err := e.store.LoadDeployment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
