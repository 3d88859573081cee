package bloom_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/coursenotes"
	"github.com/fwojciec/coursenotes/bloom"
	"github.com/fwojciec/coursenotes/inmem"
	"github.com/fwojciec/coursenotes/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Cache implements coursenotes.Cache at compile time.
var _ coursenotes.Cache = (*bloom.Cache)(nil)

func TestCache(t *testing.T) {
	t.Parallel()

	t.Run("skips wrapped cache for unseen keys", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.Cache{
			GetFn: func(ctx context.Context, key string) (string, bool, error) {
				calls++
				return "", false, nil
			},
			HasFn: func(ctx context.Context, key string) (bool, error) {
				calls++
				return false, nil
			},
		}
		c := bloom.NewCache(next, 1000, 0.01)

		_, ok, err := c.Get(context.Background(), "activity:1")
		require.NoError(t, err)
		assert.False(t, ok)

		has, err := c.Has(context.Background(), "activity:1")
		require.NoError(t, err)
		assert.False(t, has)

		assert.Zero(t, calls)
	})

	t.Run("reads through after set", func(t *testing.T) {
		t.Parallel()

		c := bloom.NewCache(inmem.NewCache(), 1000, 0.01)

		require.NoError(t, c.Set(context.Background(), "activity:1", "<p>a</p>", time.Hour))
		v, ok, err := c.Get(context.Background(), "activity:1")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "<p>a</p>", v)
	})

	t.Run("reads through seeded keys", func(t *testing.T) {
		t.Parallel()

		next := inmem.NewCache()
		require.NoError(t, next.Set(context.Background(), "activity:1", "cached", 0))

		c := bloom.NewCache(next, 1000, 0.01)
		c.Seed("activity:1")

		v, ok, err := c.Get(context.Background(), "activity:1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "cached", v)
	})

	t.Run("clear resets filter", func(t *testing.T) {
		t.Parallel()

		calls := 0
		next := &mock.Cache{
			SetFn: func(ctx context.Context, key, value string, ttl time.Duration) error { return nil },
			ClearFn: func(ctx context.Context) error { return nil },
			GetFn: func(ctx context.Context, key string) (string, bool, error) {
				calls++
				return "", false, nil
			},
		}
		c := bloom.NewCache(next, 1000, 0.01)

		require.NoError(t, c.Set(context.Background(), "k", "v", 0))
		require.NoError(t, c.Clear(context.Background()))
		_, _, err := c.Get(context.Background(), "k")

		require.NoError(t, err)
		assert.Zero(t, calls)
		assert.Zero(t, c.EstimatedCount())
	})

	t.Run("keeps filter when clear fails", func(t *testing.T) {
		t.Parallel()

		next := &mock.Cache{
			SetFn:   func(ctx context.Context, key, value string, ttl time.Duration) error { return nil },
			ClearFn: func(ctx context.Context) error { return errors.New("locked") },
			HasFn:   func(ctx context.Context, key string) (bool, error) { return true, nil },
		}
		c := bloom.NewCache(next, 1000, 0.01)
		require.NoError(t, c.Set(context.Background(), "k", "v", 0))

		require.Error(t, c.Clear(context.Background()))
		has, err := c.Has(context.Background(), "k")

		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("delete of unseen key reports not existed", func(t *testing.T) {
		t.Parallel()

		c := bloom.NewCache(&mock.Cache{}, 1000, 0.01)

		existed, err := c.Delete(context.Background(), "missing")

		require.NoError(t, err)
		assert.False(t, existed)
	})

	t.Run("estimates count", func(t *testing.T) {
		t.Parallel()

		c := bloom.NewCache(inmem.NewCache(), 10000, 0.01)
		for i := range 100 {
			c.Seed(fmt.Sprintf("activity:%d", i))
		}

		count := c.EstimatedCount()
		assert.InDelta(t, 100, count, 10)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		t.Parallel()

		c := bloom.NewCache(inmem.NewCache(), 1000, 0.01)
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				key := fmt.Sprintf("activity:%d", i)
				_ = c.Set(context.Background(), key, "v", 0)
				_, _, _ = c.Get(context.Background(), key)
			}()
		}
		wg.Wait()

		for i := range 50 {
			ok, err := c.Has(context.Background(), fmt.Sprintf("activity:%d", i))
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})
}
