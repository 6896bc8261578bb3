package fs

import (
	"cmp"
	"context"
	"os"
	"path/filepath"
	"slices"

	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

const maxConcurrentReads = 16

// Collector implements ports.ArtifactSource on the local file system.
type Collector struct {
	walker   *Walker
	resolver *Resolver
	ignores  []string
}

// NewCollector creates a Collector. Entries matching an ignore pattern are never collected.
func NewCollector(walker *Walker, resolver *Resolver, ignores ...string) *Collector {
	return &Collector{walker: walker, resolver: resolver, ignores: ignores}
}

type pending struct {
	name string
	path string
}

// Collect reads the files named by paths. A file argument becomes a resource named after its
// base name; files below a directory argument are named by their slash-separated path relative
// to it. Resources are returned sorted by name.
func (c *Collector) Collect(ctx context.Context, paths []string) ([]domain.Resource, error) {
	resolved, err := c.resolver.Resolve(paths)
	if err != nil {
		return nil, err
	}

	var files []pending
	owners := make(map[string]string)
	add := func(name, path string) error {
		if other, dup := owners[name]; dup {
			err := zerr.With(zerr.Wrap(domain.ErrDuplicateResource, "resource collected twice"), "resource", name)
			err = zerr.With(err, "path", path)
			return zerr.With(err, "other_path", other)
		}
		owners[name] = path
		files = append(files, pending{name: name, path: path})
		return nil
	}

	for _, root := range resolved {
		info, err := os.Stat(root)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to stat artifact path"), "path", root)
		}
		if !info.IsDir() {
			if err := add(filepath.Base(root), root); err != nil {
				return nil, err
			}
			continue
		}
		for path := range c.walker.WalkFiles(root, c.ignores) {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, "failed to relativize path"), "path", path)
			}
			if err := add(filepath.ToSlash(rel), path); err != nil {
				return nil, err
			}
		}
	}

	resources := make([]domain.Resource, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(f.path) //nolint:gosec // Paths come from the deploy arguments
			if err != nil {
				return zerr.With(zerr.Wrap(err, "failed to read artifact"), "path", f.path)
			}
			resources[i] = domain.Resource{Name: f.name, Bytes: data}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(resources, func(a, b domain.Resource) int { return cmp.Compare(a.Name, b.Name) })
	return resources, nil
}
