// Package cache stores solved layouts, size hints and rendered artifacts.
//
// The CLI uses [FileCache] under the XDG cache directory, the API server a
// shared [RedisCache], and tests or --no-cache runs the [NullCache]. Keys
// come from a [Keyer] so that every entry point derives identical keys for
// identical documents.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().LayoutKey(docHash, cache.LayoutKeyOpts{Width: 800, Height: 600})
//	_ = cache.SetJSON(ctx, c, key, layout, cache.TTLLayout)
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the data stored under key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Entry lifetimes. Layouts are deterministic for a given document and
// size, so they live long; artifacts depend on the renderer version too.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLHints    = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// GetJSON decodes the entry under key into v. It returns [ErrCacheMiss]
// when the key is absent or the entry no longer decodes.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}

// NullCache misses every read and drops every write. Runners fall back to
// it when no cache is configured.
type NullCache struct{}

// NewNullCache returns a [NullCache].
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)         { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
