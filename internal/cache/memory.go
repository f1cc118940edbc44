package cache

import (
	"bytes"
	"context"
	"sync"
	"time"
)

// DefaultSweepInterval is how often MemoryCache drops expired entries.
const DefaultSweepInterval = time.Minute

type memoryEntry struct {
	value    []byte
	deadline time.Time
}

func (e memoryEntry) live(now time.Time) bool {
	return now.Before(e.deadline)
}

// MemoryCache keeps entries in process. Expired entries are invisible to
// Get at once and reclaimed by a background sweep.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time

	done     chan struct{}
	doneOnce sync.Once
}

// NewMemoryCache starts a cache sweeping every DefaultSweepInterval.
func NewMemoryCache() *MemoryCache {
	return NewMemoryCacheWithInterval(DefaultSweepInterval)
}

// NewMemoryCacheWithInterval starts a cache with its own sweep interval.
// A non-positive interval disables the sweep.
func NewMemoryCacheWithInterval(interval time.Duration) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	if interval > 0 {
		go c.sweepEvery(interval)
	}
	return c
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || !e.live(c.now()) {
		return nil, ErrCacheMiss
	}
	return bytes.Clone(e.value), nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: bytes.Clone(value), deadline: c.now().Add(ttl)}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, error) {
	return getOrSet(ctx, c, key, ttl, fn)
}

// Close stops the sweep. It is safe to call more than once.
func (c *MemoryCache) Close() error {
	c.doneOnce.Do(func() { close(c.done) })
	return nil
}

func (c *MemoryCache) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.done:
			return
		}
	}
}

// sweep removes expired entries and returns how many it dropped.
func (c *MemoryCache) sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := 0
	for key, e := range c.entries {
		if !e.live(now) {
			delete(c.entries, key)
			dropped++
		}
	}
	return dropped
}
