// Package inmem provides an in-memory Cache for single-process use.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/coursenotes"
)

// Ensure Cache implements coursenotes.Cache at compile time.
var _ coursenotes.Cache = (*Cache)(nil)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Cache is a map guarded by a read/write lock. Expired entries are evicted
// lazily when they are read.
type Cache struct {
	// Now returns the current time. Tests replace it to control expiry.
	Now func() time.Time

	mu      sync.RWMutex
	entries map[string]entry
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{
		Now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	now := c.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expired(now) {
		return e.value, true, nil
	}

	c.mu.Lock()
	// Another writer may have replaced the entry since the read.
	if e, ok := c.entries[key]; ok && e.expired(now) {
		delete(c.entries, key)
	}
	c.mu.Unlock()
	return "", false, nil
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.Now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok, nil
}

func (c *Cache) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := c.Get(ctx, key)
	return ok, err
}

func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, including expired entries
// that have not been evicted yet.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
