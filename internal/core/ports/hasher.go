package ports

import "go.trai.ch/flow/internal/core/domain"

// Hasher defines the interface for computing content digests.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// Digest computes a stable digest over the resources, independent of their order.
	Digest(resources []domain.Resource) string
}
