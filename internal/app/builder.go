package app

import (
	"context"
	"errors"

	"github.com/grindlemire/graft"
	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/flow/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
	"go.trai.ch/zerr"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App      *App
	Logger   ports.Logger
	Registry *prometheus.Registry

	closers []func() error
}

// Close releases the event dispatcher and the definition store, in that order.
func (c *Components) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

// NewApp loads the configuration at configPath and builds the application graph with it.
// An empty path uses the default configuration file.
func NewApp(ctx context.Context, configPath string) (*Components, error) {
	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return nil, err
	}
	return Build(ctx, cfg)
}

// Build executes the application graph for an already loaded configuration.
func Build(ctx context.Context, cfg *domain.EngineConfig) (*Components, error) {
	components, _, err := graft.ExecuteFor[*Components](ctx,
		graft.DisableCache(),
		graft.PatchValue[*domain.EngineConfig](cfg),
	)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to initialize application")
	}
	return components, nil
}
