// Package bloom provides a Bloom-filter guard in front of a cache so that
// lookups for keys that were never stored skip the backing store.
package bloom

import (
	"context"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/fwojciec/coursenotes"
)

// Ensure Cache implements coursenotes.Cache at compile time.
var _ coursenotes.Cache = (*Cache)(nil)

// Cache wraps a coursenotes.Cache with a Bloom filter of stored keys.
// A key the filter has never seen is reported as a miss without asking
// the wrapped cache. False positives fall through to the wrapped cache.
//
// The filter only knows keys added through Seed or Set on this value.
// Keys written by other processes after seeding read as misses.
type Cache struct {
	next coursenotes.Cache

	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewCache creates a Cache sized for n expected keys with the given
// false positive rate.
func NewCache(next coursenotes.Cache, n uint, fpRate float64) *Cache {
	return &Cache{
		next:   next,
		filter: bloom.NewWithEstimates(n, fpRate),
	}
}

// Seed adds keys already present in the wrapped cache.
func (c *Cache) Seed(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		c.filter.AddString(k)
	}
}

// mayContain returns true if key might be in the wrapped cache.
func (c *Cache) mayContain(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter.TestString(key)
}

// EstimatedCount returns the approximate number of keys in the filter.
func (c *Cache) EstimatedCount() uint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return uint(c.filter.ApproximatedSize())
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	if !c.mayContain(key) {
		return "", false, nil
	}
	return c.next.Get(ctx, key)
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	c.filter.AddString(key)
	c.mu.Unlock()
	return c.next.Set(ctx, key, value, ttl)
}

func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	if !c.mayContain(key) {
		return false, nil
	}
	return c.next.Delete(ctx, key)
}

func (c *Cache) Has(ctx context.Context, key string) (bool, error) {
	if !c.mayContain(key) {
		return false, nil
	}
	return c.next.Has(ctx, key)
}

// Clear empties the wrapped cache and resets the filter.
func (c *Cache) Clear(ctx context.Context) error {
	if err := c.next.Clear(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.filter.ClearAll()
	c.mu.Unlock()
	return nil
}
