package ports

import (
	"context"

	"go.trai.ch/flow/internal/core/domain"
)

// Deployer is one stage of the deploy pipeline.
//
// A stage reads the deployment and writes the entries it produces into the batch.
// It may rely on every earlier stage having completed.
//
//go:generate go run go.uber.org/mock/mockgen -source=deployer.go -destination=mocks/mock_deployer.go -package=mocks
type Deployer interface {
	// Name identifies the stage in errors and logs.
	Name() string

	// Deploy runs the stage.
	Deploy(ctx context.Context, deployment *domain.Deployment, settings domain.Settings, batch *domain.Batch) error
}

// Pipeline is the ordered list of deployer stages.
type Pipeline []Deployer
