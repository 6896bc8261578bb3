package config

import "go.trai.ch/flow/internal/core/domain"

// DefaultPath is the configuration file looked up when no path is given.
const DefaultPath = "flow.yaml"

// Flowfile represents the structure of the flow.yaml configuration file.
type Flowfile struct {
	Version             string `yaml:"version"`
	domain.EngineConfig `yaml:",inline"`
}
