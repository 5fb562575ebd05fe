// Package cache holds small in-process caches for values that are slow to
// fetch and cheap to keep, such as stored monthly budgets.
package cache

// Cache defines a generic cache interface
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, data T)
	Delete(key string)
	Size() int
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits   int64
	Misses int64
}
