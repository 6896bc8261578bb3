package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// EngineConfig is the runtime configuration of one engine instance.
type EngineConfig struct {
	LogLevel string         `yaml:"log_level"`
	Store    StoreConfig    `yaml:"store"`
	Cache    CacheConfig    `yaml:"cache"`
	Events   EventsConfig   `yaml:"events"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

// StoreConfig selects and tunes the definition store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path is the optional snapshot file of the memory driver.
	Path            string        `yaml:"path"`
	DatabaseURL     string        `yaml:"database_url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"`
}

// CacheConfig holds cache capacities. Zero or negative means unbounded.
type CacheConfig struct {
	Executables int `yaml:"executables"`
	Models      int `yaml:"models"`
	Metadata    int `yaml:"metadata"`
	// CoalesceResolution collapses concurrent redeploys of the same deployment.
	CoalesceResolution bool `yaml:"coalesce_resolution"`
}

// EventsConfig configures the event sink.
type EventsConfig struct {
	Enabled   bool        `yaml:"enabled"`
	QueueSize int         `yaml:"queue_size"`
	Kafka     KafkaConfig `yaml:"kafka"`
}

// KafkaConfig configures the optional kafka event publisher. Empty brokers disable it.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// PipelineConfig toggles optional deployer stages.
type PipelineConfig struct {
	Metadata bool `yaml:"metadata"`
}

// DefaultEngineConfig returns the configuration used when no file is present.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		LogLevel: "info",
		Store: StoreConfig{
			Driver:          DriverMemory,
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 10 * time.Minute,
		},
		Cache: CacheConfig{
			Executables: 1000,
			Models:      250,
			Metadata:    0,
		},
		Events: EventsConfig{
			Enabled:   true,
			QueueSize: 256,
			Kafka:     KafkaConfig{Topic: "flow.entities"},
		},
		Pipeline: PipelineConfig{Metadata: true},
	}
}

// Validate checks the configuration for unusable values.
func (c *EngineConfig) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Store.DatabaseURL == "" {
			return zerr.With(zerr.Wrap(ErrInvalidConfig, "postgres driver requires a database url"),
				"field", "store.database_url")
		}
	default:
		return zerr.With(zerr.With(zerr.Wrap(ErrInvalidConfig, "unknown store driver"),
			"field", "store.driver"), "driver", c.Store.Driver)
	}
	if c.Store.MaxOpenConns < 0 || c.Store.MaxIdleConns < 0 {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "connection pool sizes must not be negative"),
			"field", "store.max_open_conns")
	}
	if c.Events.QueueSize < 0 {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "event queue size must not be negative"),
			"field", "events.queue_size")
	}
	if len(c.Events.Kafka.Brokers) > 0 && c.Events.Kafka.Topic == "" {
		return zerr.With(zerr.Wrap(ErrInvalidConfig, "kafka publisher requires a topic"),
			"field", "events.kafka.topic")
	}
	return nil
}
