package process

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flow/internal/adapters/config"
	"go.trai.ch/flow/internal/adapters/events"
	"go.trai.ch/flow/internal/adapters/logger"
	"go.trai.ch/flow/internal/adapters/storage"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

const (
	ParserNodeID   graft.ID = "adapter.process.parser"
	PipelineNodeID graft.ID = "adapter.process.pipeline"
)

func init() {
	graft.Register(graft.Node[ports.ModelParser]{
		ID:        ParserNodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.ModelParser, error) {
			return NewParser(), nil
		},
	})

	graft.Register(graft.Node[ports.Pipeline]{
		ID:        PipelineNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.EngineConfigNodeID,
			storage.NodeID,
			ParserNodeID,
			events.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.Pipeline, error) {
			cfg, err := graft.Dep[*domain.EngineConfig](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.DefinitionStore](ctx)
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
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewPipeline(store, parser, sink, log, cfg.Pipeline), nil
		},
	})
}
