// Package cache stores transform results and rendered artifacts.
//
// Entries are opaque byte slices addressed by keys from a [Keyer]. Keys
// are content-addressed: a table key hashes the input document together
// with every option that changes the table, and an artifact key hashes the
// table together with the rendering options. Identical requests therefore
// hit the cache no matter which entry point (CLI or HTTP service) made them.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP service
//
// # Usage
//
//	c, _ := cache.NewFileCache(cache.DefaultDir())
//	defer c.Close()
//	key := cache.NewDefaultKeyer().TableKey(cache.Hash(input), cache.TableKeyOpts{MaxDepth: 5})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    // use data
//	}
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry TTLs.
type Cache interface {
	// Get returns the entry for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs.
const (
	TTLTable    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// DefaultDir returns $XDG_CACHE_HOME/gridshape, falling back to
// ~/.cache/gridshape.
func DefaultDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "gridshape")
	}
	return filepath.Join(os.TempDir(), "gridshape-cache")
}
