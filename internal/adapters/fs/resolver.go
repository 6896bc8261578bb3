package fs

import (
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Resolver expands deploy arguments into existing paths.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve expands glob patterns and checks that plain paths exist. The result is sorted and
// free of duplicates.
func (r *Resolver) Resolve(patterns []string) ([]string, error) {
	unique := make(map[string]struct{})

	for _, pattern := range patterns {
		if pattern == "" {
			return nil, zerr.Wrap(domain.ErrInvalidArgument, "empty artifact path")
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to glob path"), "path", pattern)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err != nil {
				return nil, zerr.With(zerr.Wrap(err, "artifact path not found"), "path", pattern)
			}
			matches = []string{pattern}
		}

		for _, m := range matches {
			unique[filepath.Clean(m)] = struct{}{}
		}
	}

	out := make([]string, 0, len(unique))
	for p := range unique {
		out = append(out, p)
	}
	slices.Sort(out)
	return out, nil
}
