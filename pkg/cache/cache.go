// Package cache stores computed layouts and rendered artifacts.
//
// Three backends implement [Cache]:
//   - [NullCache] never stores anything (caching disabled)
//   - [FileCache] keeps entries as files, for the CLI
//   - [RedisCache] keeps entries in Redis, for the HTTP server
//
// Keys are produced by a [Keyer] so that every component derives the same
// key from the same document and options. Documents are hashed with
// [Hash]; layouts are keyed by document hash, artifacts by layout hash.
package cache

import (
	"context"
	"time"
)

// Default lifetimes of cached entries.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as ok == false
	// with a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Clearer is implemented by caches that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}
