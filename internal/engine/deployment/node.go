package deployment

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flow/internal/adapters/cache"
	"go.trai.ch/flow/internal/adapters/config"
	"go.trai.ch/flow/internal/adapters/events"
	"go.trai.ch/flow/internal/adapters/logger"
	"go.trai.ch/flow/internal/adapters/process"
	"go.trai.ch/flow/internal/adapters/storage"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

// NodeID is the unique identifier for the manager Graft node.
const NodeID graft.ID = "engine.deployment"

func init() {
	graft.Register(graft.Node[*Manager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.EngineConfigNodeID,
			storage.NodeID,
			process.PipelineNodeID,
			process.ParserNodeID,
			events.NodeID,
			cache.ExecutablesNodeID,
			cache.ModelsNodeID,
			cache.MetadataNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Manager, error) {
			cfg, err := graft.Dep[*domain.EngineConfig](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.DefinitionStore](ctx)
			if err != nil {
				return nil, err
			}

			pipeline, err := graft.Dep[ports.Pipeline](ctx)
			if err != nil {
				return nil, err
			}

			parser, err := graft.Dep[ports.ModelParser](ctx)
			if err != nil {
				return nil, err
			}

			sink, err := graft.Dep[*events.Dispatcher](ctx)
			if err != nil {
				return nil, err
			}

			executables, err := graft.Dep[ports.EntryCache[*domain.ExecutableEntry]](ctx)
			if err != nil {
				return nil, err
			}

			models, err := graft.Dep[ports.EntryCache[*domain.Model]](ctx)
			if err != nil {
				return nil, err
			}

			metadata, err := graft.Dep[ports.EntryCache[*domain.MetadataEntry]](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			var opts []Option
			if cfg.Cache.CoalesceResolution {
				opts = append(opts, WithResolutionCoalescing())
			}

			return NewManager(
				store,
				pipeline,
				sink,
				parser,
				Caches{Executables: executables, Models: models, Metadata: metadata},
				log,
				opts...,
			)
		},
	})
}
