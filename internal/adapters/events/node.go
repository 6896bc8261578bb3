package events

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/flow/internal/adapters/config"
	"go.trai.ch/flow/internal/adapters/kafka"
	"go.trai.ch/flow/internal/adapters/logger"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

const NodeID graft.ID = "adapter.events"

func init() {
	graft.Register(graft.Node[*Dispatcher]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.EngineConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Dispatcher, error) {
			cfg, err := graft.Dep[*domain.EngineConfig](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(cfg.Events, log)
		},
	})
}

// New builds a dispatcher from configuration. A Kafka publisher is attached when brokers
// are configured.
func New(cfg domain.EventsConfig, log ports.Logger) (*Dispatcher, error) {
	opts := []Option{
		WithQueueSize(cfg.QueueSize),
		WithListeners(NewLogListener(log)),
	}
	if !cfg.Enabled {
		opts = append(opts, Disabled())
	}
	if cfg.Enabled && len(cfg.Kafka.Brokers) > 0 {
		p, err := kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithListeners(p))
	}
	return NewDispatcher(log, opts...), nil
}
