// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"sync"
	"time"
)

type item struct {
	value   []byte
	expires time.Time
}

type memoryCache struct {
	now   func() time.Time
	limit int
	count counters

	mu    sync.RWMutex
	items map[string]item

	stopSweep context.CancelFunc
	sweeping  sync.WaitGroup
}

// NewMemoryCache keeps at most limit entries, 0 meaning no limit. When
// full, Set drops the entry closest to expiry. A positive sweep interval
// starts a goroutine that purges expired entries until Close.
func NewMemoryCache(sweep time.Duration, limit int) Cache {
	c := &memoryCache{
		now:       time.Now,
		limit:     limit,
		items:     make(map[string]item),
		stopSweep: func() {},
	}
	if sweep > 0 {
		ctx, cancel := context.WithCancel(context.Background())
		c.stopSweep = cancel
		c.sweeping.Add(1)
		go c.sweepEvery(ctx, sweep)
	}
	return c
}

func (c *memoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	ok = ok && !c.now().After(it.expires)
	c.count.lookup(ok)
	if !ok {
		return nil, false
	}
	return it.value, true
}

func (c *memoryCache) Set(key string, value []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, replacing := c.items[key]; !replacing && c.limit > 0 && len(c.items) >= c.limit {
		c.evictSoonestLocked()
	}
	c.items[key] = item{value: value, expires: c.now().Add(ttl)}
	c.count.sets.Add(1)
}

func (c *memoryCache) evictSoonestLocked() {
	first := true
	var victim string
	var soonest time.Time
	for k, it := range c.items {
		if first || it.expires.Before(soonest) {
			victim, soonest, first = k, it.expires, false
		}
	}
	if !first {
		delete(c.items, victim)
		c.count.evictions.Add(1)
	}
}

func (c *memoryCache) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *memoryCache) Clear() {
	c.mu.Lock()
	clear(c.items)
	c.mu.Unlock()
}

func (c *memoryCache) Stats() CacheStats {
	c.mu.RLock()
	n := len(c.items)
	c.mu.RUnlock()
	return c.count.stats(n)
}

// purge drops every expired entry and reports how many went.
func (c *memoryCache) purge() int {
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, it := range c.items {
		if now.After(it.expires) {
			delete(c.items, k)
			n++
		}
	}
	c.count.evictions.Add(int64(n))
	return n
}

func (c *memoryCache) sweepEvery(ctx context.Context, interval time.Duration) {
	defer c.sweeping.Done()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.purge()
		}
	}
}

func (c *memoryCache) Close() error {
	c.stopSweep()
	c.sweeping.Wait()
	return nil
}
