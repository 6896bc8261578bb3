package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

const (
	NodeID             graft.ID = "adapter.config_loader"
	EngineConfigNodeID graft.ID = "adapter.engine_config"
)

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(context.Context) (ports.ConfigLoader, error) {
			return NewLoader(), nil
		},
	})

	// The application patches this node with the configuration loaded from --config.
	graft.Register(graft.Node[*domain.EngineConfig]{
		ID:        EngineConfigNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (*domain.EngineConfig, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			return loader.Load(DefaultPath)
		},
	})
}
