package prefetch_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/coursenotes"
	"github.com/fwojciec/coursenotes/prefetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ coursenotes.DomainLimiter = (*prefetch.DomainLimiter)(nil)

// elapsed returns how long a Wait on host took.
func elapsed(t *testing.T, l *prefetch.DomainLimiter, host string) time.Duration {
	t.Helper()
	start := time.Now()
	require.NoError(t, l.Wait(context.Background(), host))
	return time.Since(start)
}

func TestDomainLimiter_Wait(t *testing.T) {
	t.Parallel()

	t.Run("first request to a host is immediate", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(10)

		assert.Less(t, elapsed(t, l, "lms.example"), 50*time.Millisecond)
	})

	t.Run("spaces requests to one host", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(10)
		elapsed(t, l, "lms.example")

		assert.GreaterOrEqual(t, elapsed(t, l, "lms.example"), 80*time.Millisecond)
	})

	t.Run("hosts are independent", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(10)
		elapsed(t, l, "lms.example")

		assert.Less(t, elapsed(t, l, "cdn.example"), 50*time.Millisecond)
	})

	t.Run("case and default port share a bucket", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(10)
		elapsed(t, l, "LMS.example:443")

		assert.GreaterOrEqual(t, elapsed(t, l, "lms.example"), 80*time.Millisecond)
	})

	t.Run("non-default ports are separate hosts", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(10)
		elapsed(t, l, "lms.example:8443")

		assert.Less(t, elapsed(t, l, "lms.example"), 50*time.Millisecond)
	})

	t.Run("host override replaces the default rate", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(1, prefetch.WithHostRate("lms.example", 100))
		elapsed(t, l, "lms.example")

		assert.Less(t, elapsed(t, l, "lms.example"), 50*time.Millisecond)
	})

	t.Run("zero rate disables limiting", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(0)
		for range 5 {
			assert.Less(t, elapsed(t, l, "lms.example"), 50*time.Millisecond)
		}
	})

	t.Run("burst allows back to back requests", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(1, prefetch.WithBurst(3))
		for range 3 {
			assert.Less(t, elapsed(t, l, "lms.example"), 50*time.Millisecond)
		}
	})

	t.Run("returns when the context ends", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(1)
		elapsed(t, l, "lms.example")

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, l.Wait(ctx, "lms.example"))
	})

	t.Run("concurrent waits all complete", func(t *testing.T) {
		t.Parallel()

		l := prefetch.NewDomainLimiter(100)

		var wg sync.WaitGroup
		var completed atomic.Int32
		for range 5 {
			wg.Go(func() {
				if l.Wait(context.Background(), "lms.example") == nil {
					completed.Add(1)
				}
			})
		}
		wg.Wait()

		assert.Equal(t, int32(5), completed.Load())
	})
}
