package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventKind is the kind of an entity notification.
type EventKind string

const (
	// EventEntityCreated is dispatched after an entity was persisted for the first time.
	EventEntityCreated EventKind = "entity_created"
	// EventEntityDeleted is dispatched when an entity is removed from the store.
	EventEntityDeleted EventKind = "entity_deleted"
)

// EntityType names the entity an event refers to.
type EntityType string

const (
	EntityDeployment EntityType = "deployment"
	EntityDefinition EntityType = "definition"
)

// Event is an entity notification handed to the event sink.
type Event struct {
	ID           uuid.UUID  `json:"id"`
	Kind         EventKind  `json:"kind"`
	Entity       EntityType `json:"entity"`
	EntityID     string     `json:"entity_id"`
	DeploymentID string     `json:"deployment_id"`
	TenantID     string     `json:"tenant_id,omitempty"`
	At           time.Time  `json:"at"`
}

// NewDefinitionEvent builds an event for a definition.
func NewDefinitionEvent(kind EventKind, def Definition) Event {
	return Event{
		ID:           uuid.New(),
		Kind:         kind,
		Entity:       EntityDefinition,
		EntityID:     def.ID,
		DeploymentID: def.DeploymentID,
		TenantID:     def.TenantID,
		At:           time.Now().UTC(),
	}
}

// NewDeploymentEvent builds an event for a deployment.
func NewDeploymentEvent(kind EventKind, d *Deployment) Event {
	return Event{
		ID:           uuid.New(),
		Kind:         kind,
		Entity:       EntityDeployment,
		EntityID:     d.ID,
		DeploymentID: d.ID,
		TenantID:     d.TenantID,
		At:           time.Now().UTC(),
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLogLevel converts a level name to a LogLevel, defaulting to info if unknown.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}
