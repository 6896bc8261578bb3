package process

import (
	"context"
	"maps"
	"strconv"

	"github.com/google/uuid"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/zerr"
)

// Stage names.
const (
	StageParse    = "parse"
	StageCompile  = "compile"
	StageMetadata = "metadata"
	StagePersist  = "persist"
)

// NewPipeline returns the deploy stages in execution order. The metadata stage is included
// when cfg enables it.
func NewPipeline(
	store ports.DefinitionStore,
	parser ports.ModelParser,
	sink ports.EventSink,
	log ports.Logger,
	cfg domain.PipelineConfig,
) ports.Pipeline {
	p := ports.Pipeline{
		NewParseStage(store, parser, log),
		NewCompileStage(),
	}
	if cfg.Metadata {
		p = append(p, NewMetadataStage(store))
	}
	return append(p, NewPersistStage(store, sink))
}

// ParseStage parses process resources and stages one definition per process.
type ParseStage struct {
	store  ports.DefinitionStore
	parser ports.ModelParser
	log    ports.Logger
}

// NewParseStage creates a ParseStage.
func NewParseStage(store ports.DefinitionStore, parser ports.ModelParser, log ports.Logger) *ParseStage {
	return &ParseStage{store: store, parser: parser, log: log}
}

// Name returns the stage name.
func (s *ParseStage) Name() string { return StageParse }

// Deploy parses every accepted resource. New deployments get fresh definition ids and versions;
// stored deployments reuse their persisted rows.
func (s *ParseStage) Deploy(ctx context.Context, d *domain.Deployment, settings domain.Settings, batch *domain.Batch) error {
	var stored map[string]domain.Definition
	if !d.New {
		defs, err := s.store.ListDefinitions(ctx, d.ID)
		if err != nil {
			return err
		}
		stored = make(map[string]domain.Definition, len(defs))
		for _, def := range defs {
			stored[rowKey(def.ResourceName, def.Key)] = def
		}
	}

	seen := make(map[string]string)
	for _, r := range d.Resources {
		if !s.parser.Accepts(r.Name) {
			continue
		}
		models, err := s.parser.Parse(r.Name, r.Bytes)
		if err != nil {
			return err
		}

		for _, m := range models {
			if other, dup := seen[m.Key]; dup {
				err := zerr.With(zerr.Wrap(domain.ErrDuplicateProcess, "process declared twice"), "key", m.Key)
				return &domain.ArtifactError{Resource: r.Name, Err: zerr.With(err, "first_resource", other)}
			}
			seen[m.Key] = r.Name

			if settings.ValidateProcess {
				if err := m.Lint(); err != nil {
					return &domain.ArtifactError{Resource: r.Name, Err: err}
				}
			}

			if !d.New {
				def, ok := stored[rowKey(r.Name, m.Key)]
				if !ok {
					s.log.Debug("skipping process without stored definition",
						"deployment_id", d.ID, "resource", r.Name, "key", m.Key)
					continue
				}
				batch.AddDefinition(def, m)
				continue
			}

			def, err := s.newDefinition(ctx, d, r.Name, m)
			if err != nil {
				return err
			}
			batch.AddDefinition(def, m)
		}
	}
	return nil
}

func (s *ParseStage) newDefinition(ctx context.Context, d *domain.Deployment, resource string, m *domain.Model) (domain.Definition, error) {
	version := 1
	latest, err := s.store.FindLatest(ctx, m.Key, d.TenantID)
	if err != nil {
		return domain.Definition{}, err
	}
	if latest != nil {
		version = latest.Version + 1
	}

	return domain.Definition{
		ID:           m.Key + ":" + strconv.Itoa(version) + ":" + uuid.NewString(),
		Key:          m.Key,
		Name:         m.Name,
		Version:      version,
		TenantID:     d.TenantID,
		DeploymentID: d.ID,
		ResourceName: resource,
	}, nil
}

func rowKey(resource, key string) string {
	return resource + "\x00" + key
}

// CompileStage compiles every staged model into an executable entry.
type CompileStage struct{}

// NewCompileStage creates a CompileStage.
func NewCompileStage() *CompileStage {
	return &CompileStage{}
}

// Name returns the stage name.
func (s *CompileStage) Name() string { return StageCompile }

// Deploy compiles the staged models.
func (s *CompileStage) Deploy(_ context.Context, _ *domain.Deployment, _ domain.Settings, batch *domain.Batch) error {
	for _, def := range batch.Definitions() {
		m, ok := batch.Model(def.ID)
		if !ok {
			return zerr.With(zerr.Wrap(domain.ErrInternalConsistency, "no model staged for definition"), "definition_id", def.ID)
		}
		exe, err := Compile(m)
		if err != nil {
			return &domain.ArtifactError{Resource: def.ResourceName, Err: err}
		}
		batch.AddExecutable(&domain.ExecutableEntry{Definition: def, Executable: exe})
	}
	return nil
}

// MetadataStage stages the versioned metadata of every definition.
type MetadataStage struct {
	store ports.DefinitionStore
}

// NewMetadataStage creates a MetadataStage.
func NewMetadataStage(store ports.DefinitionStore) *MetadataStage {
	return &MetadataStage{store: store}
}

// Name returns the stage name.
func (s *MetadataStage) Name() string { return StageMetadata }

// Deploy stages the stored metadata row of each definition. Definitions without a row get
// revision 0 derived from the artifact properties.
func (s *MetadataStage) Deploy(ctx context.Context, d *domain.Deployment, _ domain.Settings, batch *domain.Batch) error {
	for _, def := range batch.Definitions() {
		var info *domain.DefinitionInfo
		if !d.New {
			var err error
			info, err = s.store.LoadDefinitionInfo(ctx, def.ID)
			if err != nil {
				return err
			}
		}
		if info == nil {
			info = &domain.DefinitionInfo{DefinitionID: def.ID}
			if m, ok := batch.Model(def.ID); ok {
				info.Properties = maps.Clone(m.Properties)
			}
		}
		batch.AddMetadata(&domain.MetadataEntry{Definition: def, Info: *info})
	}
	return nil
}

// PersistStage saves new deployments and announces the created entities.
type PersistStage struct {
	store ports.DefinitionStore
	sink  ports.EventSink
}

// NewPersistStage creates a PersistStage.
func NewPersistStage(store ports.DefinitionStore, sink ports.EventSink) *PersistStage {
	return &PersistStage{store: store, sink: sink}
}

// Name returns the stage name.
func (s *PersistStage) Name() string { return StagePersist }

// Deploy saves the deployment with its staged definitions. Stored deployments are left untouched.
func (s *PersistStage) Deploy(ctx context.Context, d *domain.Deployment, _ domain.Settings, batch *domain.Batch) error {
	if !d.New {
		return nil
	}

	defs := batch.Definitions()
	if err := s.store.SaveDeployment(ctx, d, defs); err != nil {
		return err
	}

	if !s.sink.Enabled() {
		return nil
	}
	s.sink.Dispatch(ctx, domain.NewDeploymentEvent(domain.EventEntityCreated, d))
	for _, def := range defs {
		s.sink.Dispatch(ctx, domain.NewDefinitionEvent(domain.EventEntityCreated, def))
	}
	return nil
}
