package deployment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports/mocks"
	"go.trai.ch/flow/internal/engine/deployment"
	"go.uber.org/mock/gomock"
)

type mockEnv struct {
	manager     *deployment.Manager
	store       *mocks.MockDefinitionStore
	sink        *mocks.MockEventSink
	parser      *mocks.MockModelParser
	executables *mocks.MockEntryCache[*domain.ExecutableEntry]
	models      *mocks.MockEntryCache[*domain.Model]
	metadata    *mocks.MockEntryCache[*domain.MetadataEntry]
}

func newMockEnv(t *testing.T) *mockEnv {
	t.Helper()
	ctrl := gomock.NewController(t)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()
	log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()

	e := &mockEnv{
		store:       mocks.NewMockDefinitionStore(ctrl),
		sink:        mocks.NewMockEventSink(ctrl),
		parser:      mocks.NewMockModelParser(ctrl),
		executables: mocks.NewMockEntryCache[*domain.ExecutableEntry](ctrl),
		models:      mocks.NewMockEntryCache[*domain.Model](ctrl),
		metadata:    mocks.NewMockEntryCache[*domain.MetadataEntry](ctrl),
	}

	m, err := deployment.NewManager(e.store, nil, e.sink, e.parser, deployment.Caches{
		Executables: e.executables,
		Models:      e.models,
		Metadata:    e.metadata,
	}, log)
	require.NoError(t, err)
	e.manager = m
	return e
}

func TestRemove_Ordering(t *testing.T) {
	ctx := context.Background()
	e := newMockEnv(t)

	dep := &domain.Deployment{ID: "dep-1"}
	defs := []domain.Definition{
		{ID: "pd-1", Key: "invoice", DeploymentID: "dep-1"},
		{ID: "pd-2", Key: "shipping", DeploymentID: "dep-1"},
	}

	isDeleted := func(entity domain.EntityType, id string) gomock.Matcher {
		return gomock.Cond(func(e domain.Event) bool {
			return e.Kind == domain.EventEntityDeleted && e.Entity == entity && e.EntityID == id
		})
	}

	gomock.InOrder(
		e.store.EXPECT().LoadDeployment(ctx, "dep-1").Return(dep, nil),
		e.store.EXPECT().ListDefinitions(ctx, "dep-1").Return(defs, nil),
		e.sink.EXPECT().Enabled().Return(true),
		e.sink.EXPECT().Dispatch(ctx, isDeleted(domain.EntityDefinition, "pd-1")),
		e.sink.EXPECT().Dispatch(ctx, isDeleted(domain.EntityDefinition, "pd-2")),
		e.store.EXPECT().DeleteDeployment(ctx, "dep-1", true).Return(nil),
		e.sink.EXPECT().Dispatch(ctx, isDeleted(domain.EntityDeployment, "dep-1")),
		e.executables.EXPECT().Remove("pd-1"),
		e.executables.EXPECT().Remove("pd-2"),
	)
	e.models.EXPECT().Remove("pd-1")
	e.models.EXPECT().Remove("pd-2")
	e.metadata.EXPECT().Remove("pd-1")
	e.metadata.EXPECT().Remove("pd-2")

	require.NoError(t, e.manager.Remove(ctx, "dep-1", true))
}

func TestRemove_FailedDeleteKeepsCaches(t *testing.T) {
	ctx := context.Background()
	e := newMockEnv(t)

	boom := errors.New("connection reset")
	e.store.EXPECT().LoadDeployment(ctx, "dep-1").Return(&domain.Deployment{ID: "dep-1"}, nil)
	e.store.EXPECT().ListDefinitions(ctx, "dep-1").Return([]domain.Definition{{ID: "pd-1", DeploymentID: "dep-1"}}, nil)
	e.sink.EXPECT().Enabled().Return(false)
	e.store.EXPECT().DeleteDeployment(ctx, "dep-1", false).Return(boom)

	err := e.manager.Remove(ctx, "dep-1", false)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.OutcomeFatal, domain.Classify(err))
}

func TestRemove_InUse(t *testing.T) {
	ctx := context.Background()
	e := newMockEnv(t)

	e.store.EXPECT().LoadDeployment(ctx, "dep-1").Return(&domain.Deployment{ID: "dep-1"}, nil)
	e.store.EXPECT().ListDefinitions(ctx, "dep-1").Return(nil, nil)
	e.sink.EXPECT().Enabled().Return(true)
	e.store.EXPECT().DeleteDeployment(ctx, "dep-1", false).Return(domain.ErrDeploymentInUse)

	err := e.manager.Remove(ctx, "dep-1", false)
	require.ErrorIs(t, err, domain.ErrDeploymentInUse)
	assert.Equal(t, domain.OutcomeInvalid, domain.Classify(err))
}

func TestFindByID_CacheHitSkipsStore(t *testing.T) {
	ctx := context.Background()
	e := newMockEnv(t)

	entry := &domain.ExecutableEntry{Definition: domain.Definition{ID: "pd-1", Key: "invoice", Version: 3}}
	e.executables.EXPECT().Get("pd-1").Return(entry, true)

	def, err := e.manager.FindByID(ctx, "pd-1")
	require.NoError(t, err)
	assert.Equal(t, entry.Definition, def)
}

func TestFindByID_StoreErrorIsFatal(t *testing.T) {
	ctx := context.Background()
	e := newMockEnv(t)

	boom := errors.New("timeout")
	e.executables.EXPECT().Get("pd-1").Return(nil, false)
	e.store.EXPECT().LoadDefinition(ctx, "pd-1").Return(nil, boom)

	_, err := e.manager.FindByID(ctx, "pd-1")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.OutcomeFatal, domain.Classify(err))
}

func TestFindByID_DeploymentVanished(t *testing.T) {
	ctx := context.Background()
	e := newMockEnv(t)

	e.executables.EXPECT().Get("pd-1").Return(nil, false)
	e.store.EXPECT().LoadDefinition(ctx, "pd-1").Return(&domain.Definition{ID: "pd-1", DeploymentID: "dep-1"}, nil)
	e.store.EXPECT().LoadDeployment(ctx, "dep-1").Return(nil, nil)

	_, err := e.manager.FindByID(ctx, "pd-1")
	require.ErrorIs(t, err, domain.ErrDeploymentNotFound)
}

func TestGetModel_MissingBytes(t *testing.T) {
	def := domain.Definition{ID: "pd-1", Key: "invoice", DeploymentID: "dep-1", ResourceName: "invoice.process.yaml"}

	tests := []struct {
		name       string
		deployment *domain.Deployment
		want       error
	}{
		{"deployment exists", &domain.Deployment{ID: "dep-1"}, domain.ErrResourceNotFound},
		{"deployment missing", nil, domain.ErrDeploymentNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			e := newMockEnv(t)

			e.models.EXPECT().Get("pd-1").Return(nil, false)
			e.executables.EXPECT().Get("pd-1").Return(&domain.ExecutableEntry{Definition: def}, true)
			e.store.EXPECT().LoadResource(ctx, "dep-1", "invoice.process.yaml").Return(nil, nil)
			e.store.EXPECT().LoadDeployment(ctx, "dep-1").Return(tt.deployment, nil)

			_, err := e.manager.GetModel(ctx, "pd-1")
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, domain.OutcomeNotFound, domain.Classify(err))
		})
	}
}

func TestGetModel_ParsesOnlyRequestedProcess(t *testing.T) {
	ctx := context.Background()
	e := newMockEnv(t)

	def := domain.Definition{ID: "pd-2", Key: "shipping", DeploymentID: "dep-1", ResourceName: "logistics.process.yaml"}
	shipping := domain.NewModel("shipping", "Shipping")
	returns := domain.NewModel("returns", "Returns")

	e.models.EXPECT().Get("pd-2").Return(nil, false)
	e.executables.EXPECT().Get("pd-2").Return(&domain.ExecutableEntry{Definition: def}, true)
	e.store.EXPECT().LoadResource(ctx, "dep-1", "logistics.process.yaml").Return([]byte("yaml"), nil)
	e.parser.EXPECT().Parse("logistics.process.yaml", []byte("yaml")).Return([]*domain.Model{returns, shipping}, nil)
	e.models.EXPECT().Add("pd-2", shipping)

	got, err := e.manager.GetModel(ctx, "pd-2")
	require.NoError(t, err)
	assert.Equal(t, "shipping", got.Key)
	assert.NotSame(t, shipping, got, "callers receive a copy")
}

func TestGetModel_ResourceWithoutProcess(t *testing.T) {
	ctx := context.Background()
	e := newMockEnv(t)

	def := domain.Definition{ID: "pd-2", Key: "shipping", DeploymentID: "dep-1", ResourceName: "logistics.process.yaml"}
	e.models.EXPECT().Get("pd-2").Return(nil, false)
	e.executables.EXPECT().Get("pd-2").Return(&domain.ExecutableEntry{Definition: def}, true)
	e.store.EXPECT().LoadResource(ctx, "dep-1", "logistics.process.yaml").Return([]byte("yaml"), nil)
	e.parser.EXPECT().Parse("logistics.process.yaml", []byte("yaml")).Return([]*domain.Model{domain.NewModel("returns", "")}, nil)

	_, err := e.manager.GetModel(ctx, "pd-2")
	require.ErrorIs(t, err, domain.ErrInvalidArtifact)
	assert.Equal(t, "logistics.process.yaml", domain.ResourceOf(err))
}
