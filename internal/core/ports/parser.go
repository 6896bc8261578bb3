package ports

import "go.trai.ch/flow/internal/core/domain"

// ModelParser turns artifact bytes into process models.
//
//go:generate mockgen -source=parser.go -destination=mocks/mock_parser.go -package=mocks
type ModelParser interface {
	// Accepts reports whether the parser handles resources with the given name.
	Accepts(resourceName string) bool

	// Parse returns the process models declared in the resource, in declaration order.
	Parse(resourceName string, data []byte) ([]*domain.Model, error)
}
