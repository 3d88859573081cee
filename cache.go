package coursenotes

import (
	"context"
	"time"
)

// Cache is a string-keyed, string-valued store with optional expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key. An expired entry is a miss
	// and is evicted.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key and reports whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Has reports whether a live entry exists for key.
	Has(ctx context.Context, key string) (bool, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
