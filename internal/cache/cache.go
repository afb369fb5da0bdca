// SPDX-License-Identifier: MIT

// Package cache memoises rendered board images by key with a TTL.
package cache

import (
	"sync/atomic"
	"time"
)

// Cache is a concurrency-safe byte cache with per-entry expiry.
type Cache interface {
	// Get reports false for absent and expired keys alike.
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Clear()
	Stats() CacheStats
	// Close stops background work. It is safe to call more than once.
	Close() error
}

// CacheStats is a point-in-time view of a cache. Evictions counts entries
// dropped for expiry or capacity, never explicit deletes.
type CacheStats struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Evictions   int64
	CurrentSize int
}

type counters struct {
	hits, misses, sets, evictions atomic.Int64
}

func (c *counters) lookup(hit bool) {
	if hit {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
}

func (c *counters) stats(size int) CacheStats {
	return CacheStats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		CurrentSize: size,
	}
}

// NewNoOpCache returns a Cache that stores nothing.
func NewNoOpCache() Cache { return noOpCache{} }

type noOpCache struct{}

func (noOpCache) Get(string) ([]byte, bool)         { return nil, false }
func (noOpCache) Set(string, []byte, time.Duration) {}
func (noOpCache) Delete(string)                     {}
func (noOpCache) Clear()                            {}
func (noOpCache) Stats() CacheStats                 { return CacheStats{} }
func (noOpCache) Close() error                      { return nil }
