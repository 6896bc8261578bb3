package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.trai.ch/flow/internal/core/domain"
)

// Environment variables that override file settings.
const (
	EnvDatabaseURL     = "FLOW_DATABASE_URL"
	EnvLogLevel        = "FLOW_LOG_LEVEL"
	EnvStoreDriver     = "FLOW_STORE_DRIVER"
	EnvStorePath       = "FLOW_STORE_PATH"
	EnvMaxOpenConns    = "FLOW_DB_MAX_OPEN_CONNS"
	EnvConnMaxLifetime = "FLOW_DB_CONN_MAX_LIFETIME"
	EnvEventsEnabled   = "FLOW_EVENTS_ENABLED"
	EnvKafkaBrokers    = "FLOW_KAFKA_BROKERS"
	EnvKafkaTopic      = "FLOW_KAFKA_TOPIC"
)

// GetEnvStr returns a string environment variable value or a default if not set.
func GetEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt returns an int environment variable value or a default if not set or malformed.
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvDuration returns a duration environment variable value or a default if not set or malformed.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetEnvBool returns a bool environment variable value or a default if not set or malformed.
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvList returns a comma separated environment variable as a list or a default if not set.
func GetEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func applyEnv(cfg *domain.EngineConfig) {
	cfg.LogLevel = GetEnvStr(EnvLogLevel, cfg.LogLevel)
	cfg.Store.Driver = GetEnvStr(EnvStoreDriver, cfg.Store.Driver)
	cfg.Store.Path = GetEnvStr(EnvStorePath, cfg.Store.Path)
	cfg.Store.DatabaseURL = GetEnvStr(EnvDatabaseURL, cfg.Store.DatabaseURL)
	cfg.Store.MaxOpenConns = GetEnvInt(EnvMaxOpenConns, cfg.Store.MaxOpenConns)
	cfg.Store.ConnMaxLifetime = GetEnvDuration(EnvConnMaxLifetime, cfg.Store.ConnMaxLifetime)
	cfg.Events.Enabled = GetEnvBool(EnvEventsEnabled, cfg.Events.Enabled)
	cfg.Events.Kafka.Brokers = GetEnvList(EnvKafkaBrokers, cfg.Events.Kafka.Brokers)
	cfg.Events.Kafka.Topic = GetEnvStr(EnvKafkaTopic, cfg.Events.Kafka.Topic)
}
