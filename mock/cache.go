package mock

import (
	"context"
	"time"

	"github.com/fwojciec/coursenotes"
)

var _ coursenotes.Cache = (*Cache)(nil)

// Cache is a mock implementation of coursenotes.Cache.
type Cache struct {
	GetFn    func(ctx context.Context, key string) (string, bool, error)
	SetFn    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFn func(ctx context.Context, key string) (bool, error)
	HasFn    func(ctx context.Context, key string) (bool, error)
	ClearFn  func(ctx context.Context) error
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	return c.GetFn(ctx, key)
}

func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.SetFn(ctx, key, value, ttl)
}

func (c *Cache) Delete(ctx context.Context, key string) (bool, error) {
	return c.DeleteFn(ctx, key)
}

func (c *Cache) Has(ctx context.Context, key string) (bool, error) {
	return c.HasFn(ctx, key)
}

func (c *Cache) Clear(ctx context.Context) error {
	return c.ClearFn(ctx)
}
