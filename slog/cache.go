package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/coursenotes"
)

// Ensure LoggingCache implements coursenotes.Cache.
var _ coursenotes.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with debug logging.
type LoggingCache struct {
	next   coursenotes.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next coursenotes.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Get delegates to the wrapped cache and logs hit or miss.
func (c *LoggingCache) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache get",
			"key", key,
			"hit", ok,
			"bytes", len(value),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Get(ctx, key)
}

// Set delegates to the wrapped cache and logs the write.
func (c *LoggingCache) Set(ctx context.Context, key, value string, ttl time.Duration) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache set",
			"key", key,
			"bytes", len(value),
			"ttl", ttl,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Set(ctx, key, value, ttl)
}

// Delete delegates to the wrapped cache.
func (c *LoggingCache) Delete(ctx context.Context, key string) (existed bool, err error) {
	defer func() {
		c.logger.Debug("cache delete", "key", key, "existed", existed, "err", err)
	}()
	return c.next.Delete(ctx, key)
}

// Has delegates to the wrapped cache.
func (c *LoggingCache) Has(ctx context.Context, key string) (bool, error) {
	return c.next.Has(ctx, key)
}

// Clear delegates to the wrapped cache and logs at info level.
func (c *LoggingCache) Clear(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		c.logger.Info("cache clear",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Clear(ctx)
}
