package events

import (
	"context"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

// LogListener writes every event to the logger at debug level.
type LogListener struct {
	log ports.Logger
}

// NewLogListener creates a LogListener.
func NewLogListener(log ports.Logger) *LogListener {
	return &LogListener{log: log}
}

// Handle logs the event.
func (l *LogListener) Handle(_ context.Context, event domain.Event) error {
	l.log.Debug("entity event",
		"kind", event.Kind,
		"entity", event.Entity,
		"entity_id", event.EntityID,
		"deployment_id", event.DeploymentID,
	)
	return nil
}
