// Package cache stores rendered chart artifacts.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for servers sharing a cache, and [NullCache] when caching is disabled.
// Keys come from a [Keyer] so callers never build them by hand:
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().ArtifactKey(cache.Hash(doc), cache.ArtifactKeyOpts{Format: "svg"})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered artifacts stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
//
// A miss is reported as hit == false with a nil error; errors are reserved
// for backend failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// NullCache stores nothing; every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache that disables caching.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
