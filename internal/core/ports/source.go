package ports

import (
	"context"

	"go.trai.ch/flow/internal/core/domain"
)

// ArtifactSource defines the interface for collecting deployment resources.
//
//go:generate go run go.uber.org/mock/mockgen -source=source.go -destination=mocks/mock_source.go -package=mocks
type ArtifactSource interface {
	// Collect expands the given paths (files or directories) into resources.
	// Resource names are relative to the path they were found under and sorted by name.
	Collect(ctx context.Context, paths []string) ([]domain.Resource, error)
}
