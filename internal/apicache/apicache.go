// Package apicache persists remote API responses in SQLite so repeated
// book queries do not hammer the Google Books API across process
// restarts. Expiry is checked lazily on read.
package apicache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS googlebooks_cache (
	cache_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_googlebooks_cached_at ON googlebooks_cache(cached_at);
`

// DB manages the SQLite database holding cached API responses.
type DB struct {
	db   *sql.DB
	mu   sync.RWMutex
	path string
	ttl  time.Duration
}

// Open creates the cache database at path with the given TTL, creating
// the schema if needed.
func Open(path string, ttl time.Duration) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open response cache: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to response cache: %w", err), closeErr)
	}

	if _, err := db.Exec(schema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create cache table: %w", err), closeErr)
	}

	return &DB{db: db, path: path, ttl: ttl}, nil
}

// Close closes the database connection.
func (c *DB) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Get retrieves a cached response body. The second return is false on a
// miss or when the entry has outlived the TTL.
func (c *DB) Get(key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var data string
	var cachedAt time.Time
	err := c.db.QueryRow(
		`SELECT data, cached_at FROM googlebooks_cache WHERE cache_key = ?`, key,
	).Scan(&data, &cachedAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query response cache: %w", err)
	}

	age := time.Now().UTC().Sub(cachedAt)
	if age > c.ttl {
		slog.Debug("Response cache entry expired", "key", key, "age", age)
		return "", false, nil
	}

	return data, true, nil
}

// Set stores a response body, replacing any existing entry for the key.
func (c *DB) Set(key, data string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.db.Exec(
		`INSERT OR REPLACE INTO googlebooks_cache (cache_key, data, cached_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
		key, data,
	)
	if err != nil {
		return fmt.Errorf("failed to store response: %w", err)
	}
	return nil
}

// ClearExpired removes entries older than the TTL.
func (c *DB) ClearExpired() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().UTC().Add(-c.ttl)
	result, err := c.db.Exec(`DELETE FROM googlebooks_cache WHERE cached_at < ?`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to clear expired responses: %w", err)
	}

	if rows, _ := result.RowsAffected(); rows > 0 {
		slog.Info("Cleared expired response cache entries", "count", rows)
	}
	return nil
}

// ClearAll removes every cached response.
func (c *DB) ClearAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.db.Exec(`DELETE FROM googlebooks_cache`); err != nil {
		return fmt.Errorf("failed to clear response cache: %w", err)
	}
	slog.Info("Response cache cleared")
	return nil
}

// Size returns the current number of cached responses.
func (c *DB) Size() (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM googlebooks_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count cached responses: %w", err)
	}
	return n, nil
}

// FetchFunc fetches a value from the remote source on a cache miss.
type FetchFunc[T any] func() (T, error)

// GetOrFetch returns the cached value for key, or invokes fetch and
// caches the JSON-encoded result. The bool return reports whether the
// value came from cache. Caching failures never fail the fetch.
func GetOrFetch[T any](c *DB, key string, fetch FetchFunc[T]) (T, bool, error) {
	var zero T

	if c != nil {
		cached, ok, err := c.Get(key)
		if err == nil && ok {
			var result T
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				slog.Debug("Response cache hit", "key", key)
				return result, true, nil
			}
			slog.Warn("Failed to unmarshal cached response, refetching", "key", key, "error", err)
		}
	}

	data, err := fetch()
	if err != nil {
		return zero, false, err
	}

	if c != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			slog.Warn("Failed to marshal response for caching", "key", key, "error", err)
		} else if err := c.Set(key, string(encoded)); err != nil {
			slog.Warn("Failed to cache response", "key", key, "error", err)
		}
	}

	return data, false, nil
}
