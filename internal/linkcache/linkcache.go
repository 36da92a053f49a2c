// Package linkcache is the in-memory TTL cache for aggregated purchase
// link results, keyed on normalized book identity. There is no
// background eviction; stale entries are dropped lazily on read.
package linkcache

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

type entry[T any] struct {
	value    T
	storedAt time.Time
}

// Cache maps normalized (title, author, isbn) keys to previously
// computed values. Safe for concurrent use; concurrent writes to the
// same key resolve to last writer wins.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]entry[T]
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache whose entries expire after ttl.
func New[T any](ttl time.Duration) *Cache[T] {
	return &Cache[T]{
		entries: make(map[string]entry[T]),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Key normalizes book identity into a cache key: title and author are
// lower-cased and trimmed, the ISBN only trimmed.
func Key(title, author, isbn string) string {
	return fmt.Sprintf("%s|%s|%s",
		strings.ToLower(strings.TrimSpace(title)),
		strings.ToLower(strings.TrimSpace(author)),
		strings.TrimSpace(isbn),
	)
}

// Get returns the cached value for the book identity. A stale hit is
// treated as a miss and evicted.
func (c *Cache[T]) Get(title, author, isbn string) (T, bool) {
	var zero T
	key := Key(title, author, isbn)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}

	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		slog.Debug("Evicted expired cache entry", "key", key)
		return zero, false
	}

	return e.value, true
}

// Set stores a value for the book identity, overwriting any existing
// entry with a fresh timestamp.
func (c *Cache[T]) Set(title, author, isbn string, value T) {
	key := Key(title, author, isbn)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry[T]{value: value, storedAt: c.now()}
}

// Clear drops all entries.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry[T])
}

// Size returns the current entry count, counting stale entries that
// have not yet been evicted.
func (c *Cache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// TTL returns the configured entry lifetime.
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}
