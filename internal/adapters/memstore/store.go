// Package memstore implements an in-memory definition store with optional JSON snapshots.
package memstore

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.DefinitionStore on maps guarded by a RWMutex.
// When a path is set, every write is persisted to a JSON snapshot.
type Store struct {
	path string

	mu          sync.RWMutex
	deployments map[string]*domain.Deployment
	definitions map[string]domain.Definition
	infos       map[string]domain.DefinitionInfo
}

type snapshot struct {
	Deployments []*domain.Deployment    `json:"deployments"`
	Definitions []domain.Definition     `json:"definitions"`
	Infos       []domain.DefinitionInfo `json:"infos"`
}

// New creates an empty store that is never persisted.
func New() *Store {
	return &Store{
		deployments: make(map[string]*domain.Deployment),
		definitions: make(map[string]domain.Definition),
		infos:       make(map[string]domain.DefinitionInfo),
	}
}

// Open creates a store backed by the snapshot file at path, loading it if present.
func Open(path string) (*Store, error) {
	s := New()
	s.path = filepath.Clean(path)
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read store snapshot"), "path", s.path)
	}
	if len(data) == 0 {
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal store snapshot"), "path", s.path)
	}
	for _, d := range snap.Deployments {
		d.New = false
		s.deployments[d.ID] = d
	}
	for _, def := range snap.Definitions {
		s.definitions[def.ID] = def
	}
	for _, info := range snap.Infos {
		s.infos[info.DefinitionID] = info
	}
	return nil
}

// commitLocked applies mutate and persists the result. The maps are restored when the
// snapshot cannot be written. Callers hold the write lock.
func (s *Store) commitLocked(mutate func()) error {
	deployments := maps.Clone(s.deployments)
	definitions := maps.Clone(s.definitions)
	infos := maps.Clone(s.infos)

	mutate()
	if err := s.persistLocked(); err != nil {
		s.deployments = deployments
		s.definitions = definitions
		s.infos = infos
		return err
	}
	return nil
}

// persistLocked writes the snapshot. Callers hold the write lock.
func (s *Store) persistLocked() error {
	if s.path == "" {
		return nil
	}

	snap := snapshot{
		Deployments: slices.SortedFunc(maps.Values(s.deployments), func(a, b *domain.Deployment) int {
			return cmp.Compare(a.ID, b.ID)
		}),
		Definitions: slices.SortedFunc(maps.Values(s.definitions), func(a, b domain.Definition) int {
			return cmp.Compare(a.ID, b.ID)
		}),
		Infos: slices.SortedFunc(maps.Values(s.infos), func(a, b domain.DefinitionInfo) int {
			return cmp.Compare(a.DefinitionID, b.DefinitionID)
		}),
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal store snapshot")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for store snapshot")
	}

	tmp := s.path + ".tmp"
	//nolint:gosec // Path is cleaned and provided by trusted caller
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return zerr.Wrap(err, "failed to write store snapshot")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return zerr.Wrap(err, "failed to replace store snapshot")
	}
	return nil
}

// LoadDeployment returns a copy of the deployment with its resources.
func (s *Store) LoadDeployment(_ context.Context, id string) (*domain.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.deployments[id]
	if !ok {
		return nil, nil
	}
	c := d.Clone()
	c.New = false
	return c, nil
}

// LoadDefinition returns the definition row.
func (s *Store) LoadDefinition(_ context.Context, id string) (*domain.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.definitions[id]
	if !ok {
		return nil, nil
	}
	return &def, nil
}

// FindLatest returns the highest version of key within the tenant.
func (s *Store) FindLatest(_ context.Context, key, tenantID string) (*domain.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Definition
	for _, def := range s.definitions {
		if def.Key != key || def.TenantID != tenantID {
			continue
		}
		if latest == nil || def.Version > latest.Version {
			latest = &def
		}
	}
	return latest, nil
}

// FindByKeyVersion returns the definition with the exact key, version and tenant.
func (s *Store) FindByKeyVersion(_ context.Context, key string, version int, tenantID string) (*domain.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, def := range s.definitions {
		if def.Key == key && def.Version == version && def.TenantID == tenantID {
			return &def, nil
		}
	}
	return nil, nil
}

// ListDefinitions returns the definitions of a deployment ordered by resource name, then key.
func (s *Store) ListDefinitions(_ context.Context, deploymentID string) ([]domain.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Definition
	for _, def := range s.definitions {
		if def.DeploymentID == deploymentID {
			out = append(out, def)
		}
	}
	slices.SortFunc(out, compareDefinitions)
	return out, nil
}

// LoadResource returns a copy of a single resource's bytes.
func (s *Store) LoadResource(_ context.Context, deploymentID, resourceName string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.deployments[deploymentID]
	if !ok {
		return nil, nil
	}
	r, ok := d.Resource(resourceName)
	if !ok {
		return nil, nil
	}
	return slices.Clone(r.Bytes), nil
}

// FindLatestDeploymentByName returns the most recently deployed deployment with the given name.
func (s *Store) FindLatestDeploymentByName(_ context.Context, name, tenantID string) (*domain.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.Deployment
	for _, d := range s.deployments {
		if d.Name != name || d.TenantID != tenantID {
			continue
		}
		if latest == nil || d.DeployedAt.After(latest.DeployedAt) {
			latest = d
		}
	}
	if latest == nil {
		return nil, nil
	}
	c := latest.Clone()
	c.New = false
	return c, nil
}

// SaveDeployment persists a new deployment with its definitions. Nothing is stored if any
// definition collides with an existing key, version and tenant.
func (s *Store) SaveDeployment(_ context.Context, deployment *domain.Deployment, definitions []domain.Definition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.deployments[deployment.ID]; exists {
		return zerr.With(zerr.Wrap(domain.ErrDeploymentExists, "cannot save deployment"), "deployment_id", deployment.ID)
	}
	for i, def := range definitions {
		for _, other := range definitions[:i] {
			if sameVersion(def, other) {
				return duplicateVersion(def)
			}
		}
		for _, existing := range s.definitions {
			if sameVersion(def, existing) || def.ID == existing.ID {
				return duplicateVersion(def)
			}
		}
	}

	stored := deployment.Clone()
	stored.New = false
	return s.commitLocked(func() {
		s.deployments[stored.ID] = stored
		for _, def := range definitions {
			def.DeploymentID = stored.ID
			s.definitions[def.ID] = def
		}
	})
}

// DeleteDeployment removes the deployment with its resources and definitions.
// Metadata rows are dependent rows and require cascade.
func (s *Store) DeleteDeployment(_ context.Context, id string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.deployments[id]; !ok {
		return nil
	}

	var owned []string
	for defID, def := range s.definitions {
		if def.DeploymentID == id {
			owned = append(owned, defID)
		}
	}

	if !cascade {
		for _, defID := range owned {
			if _, ok := s.infos[defID]; ok {
				return zerr.With(zerr.Wrap(domain.ErrDeploymentInUse, "deployment has definition metadata"),
					"deployment_id", id)
			}
		}
	}

	return s.commitLocked(func() {
		for _, defID := range owned {
			delete(s.definitions, defID)
			delete(s.infos, defID)
		}
		delete(s.deployments, id)
	})
}

// SetSuspended updates the suspension flag of a definition.
func (s *Store) SetSuspended(_ context.Context, definitionID string, suspended bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.definitions[definitionID]
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrDefinitionNotFound, "cannot change suspension"), "definition_id", definitionID)
	}
	def.Suspended = suspended
	return s.commitLocked(func() {
		s.definitions[definitionID] = def
	})
}

// LoadDefinitionInfo returns the latest metadata revision of a definition.
func (s *Store) LoadDefinitionInfo(_ context.Context, definitionID string) (*domain.DefinitionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.infos[definitionID]
	if !ok {
		return nil, nil
	}
	c := info.Clone()
	return &c, nil
}

// SaveDefinitionInfo stores the next metadata revision of a definition.
func (s *Store) SaveDefinitionInfo(_ context.Context, info domain.DefinitionInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.definitions[info.DefinitionID]; !ok {
		return zerr.With(zerr.Wrap(domain.ErrDefinitionNotFound, "cannot save metadata"), "definition_id", info.DefinitionID)
	}
	if current := s.infos[info.DefinitionID].Revision; info.Revision != current+1 {
		err := zerr.Wrap(domain.ErrDuplicateVersion, "metadata revision conflict")
		err = zerr.With(err, "definition_id", info.DefinitionID)
		return zerr.With(err, "revision", info.Revision)
	}
	stored := info.Clone()
	return s.commitLocked(func() {
		s.infos[info.DefinitionID] = stored
	})
}

// Close is a no-op; snapshots are written on every change.
func (s *Store) Close() error {
	return nil
}

func sameVersion(a, b domain.Definition) bool {
	return a.Key == b.Key && a.Version == b.Version && a.TenantID == b.TenantID
}

func duplicateVersion(def domain.Definition) error {
	err := zerr.Wrap(domain.ErrDuplicateVersion, "cannot save deployment")
	err = zerr.With(err, "key", def.Key)
	return zerr.With(err, "version", def.Version)
}

func compareDefinitions(a, b domain.Definition) int {
	return cmp.Or(cmp.Compare(a.ResourceName, b.ResourceName), cmp.Compare(a.Key, b.Key))
}
