package cache

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/flow/internal/adapters/config"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

const (
	RegistryNodeID    graft.ID = "adapter.cache.registry"
	MetricsNodeID     graft.ID = "adapter.cache.metrics"
	ExecutablesNodeID graft.ID = "adapter.cache.executables"
	ModelsNodeID      graft.ID = "adapter.cache.models"
	MetadataNodeID    graft.ID = "adapter.cache.metadata"
)

// Cache names, used as metric labels.
const (
	ExecutablesName = "executables"
	ModelsName      = "models"
	MetadataName    = "metadata"
)

func init() {
	graft.Register(graft.Node[*prometheus.Registry]{
		ID:        RegistryNodeID,
		Cacheable: true,
		Run: func(context.Context) (*prometheus.Registry, error) {
			return prometheus.NewRegistry(), nil
		},
	})

	graft.Register(graft.Node[*Metrics]{
		ID:        MetricsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{RegistryNodeID},
		Run: func(ctx context.Context) (*Metrics, error) {
			reg, err := graft.Dep[*prometheus.Registry](ctx)
			if err != nil {
				return nil, err
			}
			return NewMetrics(reg)
		},
	})

	registerEntryCache[*domain.ExecutableEntry](ExecutablesNodeID, ExecutablesName,
		func(c *domain.EngineConfig) int { return c.Cache.Executables })
	registerEntryCache[*domain.Model](ModelsNodeID, ModelsName,
		func(c *domain.EngineConfig) int { return c.Cache.Models })
	registerEntryCache[*domain.MetadataEntry](MetadataNodeID, MetadataName,
		func(c *domain.EngineConfig) int { return c.Cache.Metadata })
}

func registerEntryCache[V any](id graft.ID, name string, capacity func(*domain.EngineConfig) int) {
	graft.Register(graft.Node[ports.EntryCache[V]]{
		ID:        id,
		Cacheable: true,
		DependsOn: []graft.ID{config.EngineConfigNodeID, MetricsNodeID},
		Run: func(ctx context.Context) (ports.EntryCache[V], error) {
			cfg, err := graft.Dep[*domain.EngineConfig](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[*Metrics](ctx)
			if err != nil {
				return nil, err
			}
			return New[V](name, capacity(cfg), WithMetrics(m))
		},
	})
}
