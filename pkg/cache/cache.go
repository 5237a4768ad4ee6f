// Package cache stores packed layouts and rendered artifacts.
//
// # Backends
//
// All backends implement [Cache]:
//
//   - [NullCache]: stores nothing (caching disabled)
//   - [FileCache]: JSON entry files under a local directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//   - [MongoCache]: a MongoDB collection with a TTL index, for servers that
//     want layouts kept as documents
//
// Use [Open] to build a backend from a [Config], as the CLI and the server do.
//
// # Keys
//
// Keys are produced by a [Keyer]. [DefaultKeyer] hashes the content hash of
// the input together with every option that changes the output, so two
// requests share an entry only when they would produce identical bytes.
// [ScopedKeyer] prefixes keys to keep callers apart in a shared backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Entry lifetimes. Layouts are pure functions of their inputs, so they only
// expire to bound storage.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// NullCache is a Cache that never stores anything.
type NullCache struct{}

// NewNullCache returns a cache with caching disabled.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error { return nil }
func (NullCache) Close() error { return nil }
