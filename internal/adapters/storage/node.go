package storage

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flow/internal/adapters/config"
	"go.trai.ch/flow/internal/adapters/logger"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

const NodeID graft.ID = "adapter.storage"

func init() {
	graft.Register(graft.Node[ports.DefinitionStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.EngineConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.DefinitionStore, error) {
			cfg, err := graft.Dep[*domain.EngineConfig](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return Open(ctx, cfg.Store, log)
		},
	})
}
