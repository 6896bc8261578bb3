package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/flow/internal/adapters/cache"   //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/adapters/events"  //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/adapters/storage" //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/flow/internal/engine/deployment"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.EngineConfigNodeID,
			fs.SourceNodeID,
			fs.HasherNodeID,
			storage.NodeID,
			deployment.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			cache.RegistryNodeID,
			events.NodeID,
			storage.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	cfg, err := graft.Dep[*domain.EngineConfig](ctx)
	if err != nil {
		return nil, err
	}

	source, err := graft.Dep[ports.ArtifactSource](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.DefinitionStore](ctx)
	if err != nil {
		return nil, err
	}

	manager, err := graft.Dep[*deployment.Manager](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(source, hasher, store, manager, log, WithStoreConfig(cfg.Store)), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	registry, err := graft.Dep[*prometheus.Registry](ctx)
	if err != nil {
		return nil, err
	}

	dispatcher, err := graft.Dep[*events.Dispatcher](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.DefinitionStore](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:      a,
		Logger:   log,
		Registry: registry,
		closers:  []func() error{dispatcher.Close, store.Close},
	}, nil
}
