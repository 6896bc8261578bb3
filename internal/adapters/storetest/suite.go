// Package storetest holds the behaviour every ports.DefinitionStore implementation must show.
package storetest

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

// Factory returns an empty store. The store is closed by the suite.
type Factory func(t *testing.T) ports.DefinitionStore

// Deployment builds a deployment with one resource per name.
func Deployment(t *testing.T, id, name, tenant string, resources ...string) *domain.Deployment {
	t.Helper()
	d := &domain.Deployment{
		ID:         id,
		Name:       name,
		TenantID:   tenant,
		Category:   "test",
		DeployedAt: time.Now().UTC().Truncate(time.Millisecond),
		Digest:     "digest-" + id,
		New:        true,
	}
	for _, r := range resources {
		require.NoError(t, d.AddResource(r, []byte("content of "+r)))
	}
	return d
}

// Definition builds a definition row owned by the deployment.
func Definition(d *domain.Deployment, id, key string, version int, resource string) domain.Definition {
	return domain.Definition{
		ID:           id,
		Key:          key,
		Name:         key,
		Version:      version,
		TenantID:     d.TenantID,
		DeploymentID: d.ID,
		ResourceName: resource,
	}
}

// Run executes the contract suite against stores produced by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(*testing.T, ports.DefinitionStore)
	}{
		{"SaveAndLoad", testSaveAndLoad},
		{"MissingLookups", testMissingLookups},
		{"LatestAndVersions", testLatestAndVersions},
		{"DuplicateVersion", testDuplicateVersion},
		{"DeleteCascade", testDeleteCascade},
		{"Suspension", testSuspension},
		{"DefinitionInfo", testDefinitionInfo},
		{"LatestDeploymentByName", testLatestDeploymentByName},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

func testSaveAndLoad(t *testing.T, s ports.DefinitionStore) {
	ctx := context.Background()
	d := Deployment(t, "dep-1", "billing", "", "shipping.process.yaml", "invoice.process.yaml")
	defs := []domain.Definition{
		Definition(d, "pd-2", "shipping", 1, "shipping.process.yaml"),
		Definition(d, "pd-1", "invoice", 1, "invoice.process.yaml"),
	}
	require.NoError(t, s.SaveDeployment(ctx, d, defs))

	loaded, err := s.LoadDeployment(ctx, "dep-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.False(t, loaded.New, "stored deployments are never new")
	assert.Equal(t, "billing", loaded.Name)
	assert.Equal(t, d.Digest, loaded.Digest)
	assert.True(t, d.DeployedAt.Equal(loaded.DeployedAt))
	assert.Equal(t, []string{"shipping.process.yaml", "invoice.process.yaml"}, loaded.ResourceNames())

	def, err := s.LoadDefinition(ctx, "pd-1")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, defs[1], *def)

	list, err := s.ListDefinitions(ctx, "dep-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "pd-1", list[0].ID, "ordered by resource name")
	assert.Equal(t, "pd-2", list[1].ID)

	data, err := s.LoadResource(ctx, "dep-1", "invoice.process.yaml")
	require.NoError(t, err)
	assert.Equal(t, []byte("content of invoice.process.yaml"), data)

	err = s.SaveDeployment(ctx, d, nil)
	require.ErrorIs(t, err, domain.ErrDeploymentExists)
}

func testMissingLookups(t *testing.T, s ports.DefinitionStore) {
	ctx := context.Background()

	dep, err := s.LoadDeployment(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, dep)

	def, err := s.LoadDefinition(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, def)

	def, err = s.FindLatest(ctx, "absent", "")
	require.NoError(t, err)
	assert.Nil(t, def)

	def, err = s.FindByKeyVersion(ctx, "absent", 1, "")
	require.NoError(t, err)
	assert.Nil(t, def)

	list, err := s.ListDefinitions(ctx, "absent")
	require.NoError(t, err)
	assert.Empty(t, list)

	data, err := s.LoadResource(ctx, "absent", "x")
	require.NoError(t, err)
	assert.Nil(t, data)

	info, err := s.LoadDefinitionInfo(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, info)

	require.NoError(t, s.DeleteDeployment(ctx, "absent", true))
}

func testLatestAndVersions(t *testing.T, s ports.DefinitionStore) {
	ctx := context.Background()
	for v, tenant := range map[int]string{1: "", 2: "", 3: "acme"} {
		d := Deployment(t, "dep-"+tenant+strconv.Itoa(v), "billing", tenant, "invoice.process.yaml")
		def := Definition(d, "pd-"+tenant+strconv.Itoa(v), "invoice", v, "invoice.process.yaml")
		require.NoError(t, s.SaveDeployment(ctx, d, []domain.Definition{def}))
	}

	latest, err := s.FindLatest(ctx, "invoice", "")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.Version)

	latest, err = s.FindLatest(ctx, "invoice", "acme")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 3, latest.Version)
	assert.Equal(t, "acme", latest.TenantID)

	v1, err := s.FindByKeyVersion(ctx, "invoice", 1, "")
	require.NoError(t, err)
	require.NotNil(t, v1)
	assert.Equal(t, "pd-1", v1.ID)

	none, err := s.FindByKeyVersion(ctx, "invoice", 3, "")
	require.NoError(t, err)
	assert.Nil(t, none, "versions are scoped by tenant")
}

func testDuplicateVersion(t *testing.T, s ports.DefinitionStore) {
	ctx := context.Background()
	d1 := Deployment(t, "dep-1", "billing", "", "invoice.process.yaml")
	require.NoError(t, s.SaveDeployment(ctx, d1, []domain.Definition{Definition(d1, "pd-1", "invoice", 1, "invoice.process.yaml")}))

	d2 := Deployment(t, "dep-2", "billing", "", "invoice.process.yaml")
	err := s.SaveDeployment(ctx, d2, []domain.Definition{Definition(d2, "pd-2", "invoice", 1, "invoice.process.yaml")})
	require.ErrorIs(t, err, domain.ErrDuplicateVersion)

	dep, err := s.LoadDeployment(ctx, "dep-2")
	require.NoError(t, err)
	assert.Nil(t, dep, "a failed save stores nothing")
}

func testDeleteCascade(t *testing.T, s ports.DefinitionStore) {
	ctx := context.Background()
	d := Deployment(t, "dep-1", "billing", "", "invoice.process.yaml", "shipping.process.yaml")
	require.NoError(t, s.SaveDeployment(ctx, d, []domain.Definition{
		Definition(d, "pd-1", "invoice", 1, "invoice.process.yaml"),
		Definition(d, "pd-2", "shipping", 1, "shipping.process.yaml"),
	}))
	require.NoError(t, s.SaveDefinitionInfo(ctx, domain.DefinitionInfo{
		DefinitionID: "pd-1", Revision: 1, Properties: map[string]string{"owner": "billing"},
	}))

	err := s.DeleteDeployment(ctx, "dep-1", false)
	require.ErrorIs(t, err, domain.ErrDeploymentInUse)
	def, err := s.LoadDefinition(ctx, "pd-1")
	require.NoError(t, err)
	require.NotNil(t, def, "a refused delete keeps every row")

	require.NoError(t, s.DeleteDeployment(ctx, "dep-1", true))

	dep, err := s.LoadDeployment(ctx, "dep-1")
	require.NoError(t, err)
	assert.Nil(t, dep)
	for _, id := range []string{"pd-1", "pd-2"} {
		def, err := s.LoadDefinition(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, def)
	}
	info, err := s.LoadDefinitionInfo(ctx, "pd-1")
	require.NoError(t, err)
	assert.Nil(t, info)
	data, err := s.LoadResource(ctx, "dep-1", "invoice.process.yaml")
	require.NoError(t, err)
	assert.Nil(t, data)

	d2 := Deployment(t, "dep-2", "billing", "", "invoice.process.yaml")
	require.NoError(t, s.SaveDeployment(ctx, d2, []domain.Definition{Definition(d2, "pd-3", "invoice", 1, "invoice.process.yaml")}))
	require.NoError(t, s.DeleteDeployment(ctx, "dep-2", false), "no dependent rows, no cascade needed")
}

func testSuspension(t *testing.T, s ports.DefinitionStore) {
	ctx := context.Background()
	d := Deployment(t, "dep-1", "billing", "", "invoice.process.yaml")
	require.NoError(t, s.SaveDeployment(ctx, d, []domain.Definition{Definition(d, "pd-1", "invoice", 1, "invoice.process.yaml")}))

	require.NoError(t, s.SetSuspended(ctx, "pd-1", true))
	def, err := s.LoadDefinition(ctx, "pd-1")
	require.NoError(t, err)
	assert.True(t, def.Suspended)

	require.NoError(t, s.SetSuspended(ctx, "pd-1", false))
	def, err = s.LoadDefinition(ctx, "pd-1")
	require.NoError(t, err)
	assert.False(t, def.Suspended)

	require.ErrorIs(t, s.SetSuspended(ctx, "absent", true), domain.ErrDefinitionNotFound)
}

func testDefinitionInfo(t *testing.T, s ports.DefinitionStore) {
	ctx := context.Background()
	d := Deployment(t, "dep-1", "billing", "", "invoice.process.yaml")
	require.NoError(t, s.SaveDeployment(ctx, d, []domain.Definition{Definition(d, "pd-1", "invoice", 1, "invoice.process.yaml")}))

	require.NoError(t, s.SaveDefinitionInfo(ctx, domain.DefinitionInfo{
		DefinitionID: "pd-1", Revision: 1, Properties: map[string]string{"owner": "billing"},
	}))
	require.NoError(t, s.SaveDefinitionInfo(ctx, domain.DefinitionInfo{
		DefinitionID: "pd-1", Revision: 2, Properties: map[string]string{"owner": "ops"},
	}))

	info, err := s.LoadDefinitionInfo(ctx, "pd-1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 2, info.Revision)
	assert.Equal(t, "ops", info.Properties["owner"])

	err = s.SaveDefinitionInfo(ctx, domain.DefinitionInfo{DefinitionID: "pd-1", Revision: 2})
	require.ErrorIs(t, err, domain.ErrDuplicateVersion)

	err = s.SaveDefinitionInfo(ctx, domain.DefinitionInfo{DefinitionID: "absent", Revision: 1})
	require.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}

func testLatestDeploymentByName(t *testing.T, s ports.DefinitionStore) {
	ctx := context.Background()
	older := Deployment(t, "dep-1", "billing", "", "invoice.process.yaml")
	older.DeployedAt = older.DeployedAt.Add(-time.Hour)
	newer := Deployment(t, "dep-2", "billing", "", "invoice.process.yaml")
	require.NoError(t, s.SaveDeployment(ctx, older, nil))
	require.NoError(t, s.SaveDeployment(ctx, newer, nil))

	got, err := s.FindLatestDeploymentByName(ctx, "billing", "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "dep-2", got.ID)

	got, err = s.FindLatestDeploymentByName(ctx, "billing", "acme")
	require.NoError(t, err)
	assert.Nil(t, got)
}
