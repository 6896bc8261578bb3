package ports

// EntryCache is a concurrency-safe key to entry cache keyed by definition id.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type EntryCache[V any] interface {
	// Get returns the entry for key.
	Get(key string) (V, bool)

	// Add stores the entry, replacing any previous one.
	Add(key string, value V)

	// Remove deletes the entry. Removing an absent key is a no-op.
	Remove(key string)
}
