// Package cache implements the bounded entry caches used by the deployment manager.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Cache is a concurrency-safe string-keyed cache. With a positive capacity it evicts the least
// recently used entry; otherwise it grows without bound.
type Cache[V any] struct {
	name    string
	bounded *lru.Cache[string, V]

	mu      sync.RWMutex
	entries map[string]V

	metrics *Metrics
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	metrics *Metrics
}

// WithMetrics records hits, misses, evictions and size on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// New creates a cache. The name labels its metrics and log lines.
func New[V any](name string, capacity int, opts ...Option) (*Cache[V], error) {
	if name == "" {
		return nil, zerr.Wrap(domain.ErrInvalidArgument, "cache name is empty")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[V]{name: name, metrics: o.metrics}
	if capacity > 0 {
		l, err := lru.New[string, V](capacity)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to create lru cache"), "cache", name)
		}
		c.bounded = l
	} else {
		c.entries = make(map[string]V)
	}
	return c, nil
}

// Name returns the cache name.
func (c *Cache[V]) Name() string {
	return c.name
}

// Get returns the entry for key.
func (c *Cache[V]) Get(key string) (V, bool) {
	var (
		v  V
		ok bool
	)
	if c.bounded != nil {
		v, ok = c.bounded.Get(key)
	} else {
		c.mu.RLock()
		v, ok = c.entries[key]
		c.mu.RUnlock()
	}
	if ok {
		c.metrics.hit(c.name)
	} else {
		c.metrics.miss(c.name)
	}
	return v, ok
}

// Add stores value under key, replacing any previous entry.
func (c *Cache[V]) Add(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bounded != nil {
		if evicted := c.bounded.Add(key, value); evicted {
			c.metrics.evict(c.name)
		}
	} else {
		c.entries[key] = value
	}
	c.metrics.size(c.name, c.lenLocked())
}

// Remove deletes the entry for key. Removing an absent key is a no-op.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bounded != nil {
		c.bounded.Remove(key)
	} else {
		delete(c.entries, key)
	}
	c.metrics.size(c.name, c.lenLocked())
}

// lenLocked returns the entry count. Writers hold c.mu so the size gauge follows mutation order.
func (c *Cache[V]) lenLocked() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	return len(c.entries)
}

// Len returns the number of entries.
func (c *Cache[V]) Len() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge removes every entry.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bounded != nil {
		c.bounded.Purge()
	} else {
		clear(c.entries)
	}
	c.metrics.size(c.name, 0)
}
