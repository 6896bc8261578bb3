// Package config provides the configuration loader for flow.
package config

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct{}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the configuration at path. A missing file yields the defaults.
// Environment overrides are applied after the file and before validation.
func (l *Loader) Load(path string) (*domain.EngineConfig, error) {
	if path == "" {
		path = DefaultPath
	}

	file := Flowfile{EngineConfig: *domain.DefaultEngineConfig()}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
		}
		if file.Version != "" && file.Version != "1" {
			return nil, zerr.With(zerr.Wrap(domain.ErrInvalidConfig, "unsupported config version"),
				"version", file.Version)
		}
	}

	cfg := file.EngineConfig
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return &cfg, nil
}
