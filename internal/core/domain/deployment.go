package domain

import (
	"slices"
	"time"

	"go.trai.ch/zerr"
)

// Resource is a named raw artifact blob inside a deployment.
type Resource struct {
	Name  string
	Bytes []byte
}

// Deployment is a versioned bundle of process artifacts.
// It is immutable once persisted, except for the New flag.
type Deployment struct {
	ID         string
	Name       string
	TenantID   string
	Category   string
	DeployedAt time.Time
	// Digest identifies the resource content; used for duplicate filtering.
	Digest string
	// New is true while the deployment has not been parsed and persisted yet.
	// Deployments loaded back from a store are re-deployed with New set to false.
	New bool
	// Resources keeps insertion order.
	Resources []Resource
}

// AddResource appends a resource. Resource names are unique within a deployment.
func (d *Deployment) AddResource(name string, data []byte) error {
	if name == "" {
		return zerr.Wrap(ErrInvalidArgument, "resource name is empty")
	}
	if _, ok := d.Resource(name); ok {
		return zerr.With(zerr.Wrap(ErrDuplicateResource, "resource already added"), "resource", name)
	}
	d.Resources = append(d.Resources, Resource{Name: name, Bytes: slices.Clone(data)})
	return nil
}

// Resource returns the resource with the given name.
func (d *Deployment) Resource(name string) (Resource, bool) {
	for _, r := range d.Resources {
		if r.Name == name {
			return r, true
		}
	}
	return Resource{}, false
}

// ResourceNames returns the resource names in insertion order.
func (d *Deployment) ResourceNames() []string {
	names := make([]string, len(d.Resources))
	for i, r := range d.Resources {
		names[i] = r.Name
	}
	return names
}

// Clone returns a deep copy of the deployment.
func (d *Deployment) Clone() *Deployment {
	if d == nil {
		return nil
	}
	c := *d
	c.Resources = make([]Resource, len(d.Resources))
	for i, r := range d.Resources {
		c.Resources[i] = Resource{Name: r.Name, Bytes: slices.Clone(r.Bytes)}
	}
	return &c
}

// Settings tune a single deploy call.
type Settings struct {
	// ValidateProcess enables structural linting of parsed models.
	// Re-deploys of stored deployments run without it.
	ValidateProcess bool
}
