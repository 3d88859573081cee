// Package prefetch loads sanitized content for LMS pages, going upstream
// only on a cache miss, and loads batches with bounded concurrency.
package prefetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/coursenotes"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency bounds the number of pages loaded at once.
	DefaultConcurrency = 10

	// DefaultTTL is how long sanitized content stays cached.
	DefaultTTL = time.Hour
)

// CacheKey returns the cache key for a source URL. Identical URLs always
// map to the same key.
func CacheKey(url string) string {
	return fmt.Sprintf("activity:%016x", xxhash.Sum64String(url))
}

// Ensure Loader implements coursenotes.ContentLoader at compile time.
var _ coursenotes.ContentLoader = (*Loader)(nil)

// Loader fetches, sanitizes and caches LMS content.
type Loader struct {
	Fetcher     coursenotes.Fetcher
	Sanitizer   coursenotes.Sanitizer
	Cache       coursenotes.Cache
	RateLimiter coursenotes.DomainLimiter // optional

	// Extractor, if set, narrows fetched pages to their main content
	// before sanitizing. Pages it cannot narrow are sanitized whole.
	Extractor coursenotes.Extractor

	// Token is passed to the sanitizer for image URL rewriting.
	Token string

	// TTL of cached content. Zero uses DefaultTTL.
	TTL time.Duration

	// Concurrency bounds LoadAll. Zero uses DefaultConcurrency.
	Concurrency int

	// RetryDelays are the waits between fetch attempts. Nil uses
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Logf, if set, receives retry notices.
	Logf LogFunc
}

// NewLoader returns a Loader with default settings.
func NewLoader(fetcher coursenotes.Fetcher, sanitizer coursenotes.Sanitizer, cache coursenotes.Cache) *Loader {
	return &Loader{
		Fetcher:   fetcher,
		Sanitizer: sanitizer,
		Cache:     cache,
	}
}

// Load returns sanitized content for rawURL, from the cache when present.
func (l *Loader) Load(ctx context.Context, rawURL string) (*coursenotes.Content, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, coursenotes.Errorf(coursenotes.EINVALID, "invalid url %q", rawURL)
	}

	key := CacheKey(rawURL)
	cached, ok, err := l.Cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	if ok {
		return &coursenotes.Content{URL: rawURL, HTML: cached, Cached: true}, nil
	}

	if l.RateLimiter != nil {
		if err := l.RateLimiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	delays := l.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, rawURL, l.Fetcher.Fetch, l.Logf, delays)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	html = l.extract(rawURL, html)
	result := l.Sanitizer.Sanitize(html, l.Token)

	ttl := l.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if err := l.Cache.Set(ctx, key, result.HTML, ttl); err != nil {
		return nil, fmt.Errorf("write cache: %w", err)
	}

	return &coursenotes.Content{URL: rawURL, HTML: result.HTML}, nil
}

func (l *Loader) extract(rawURL, html string) string {
	if l.Extractor == nil {
		return html
	}
	result, err := l.Extractor.Extract(html)
	if err != nil || result == nil || strings.TrimSpace(result.ContentHTML) == "" {
		if l.Logf != nil {
			l.Logf("extract %s: falling back to full page: %v", rawURL, err)
		}
		return html
	}
	return result.ContentHTML
}

// LoadAll loads every URL with bounded concurrency. Each URL is loaded
// independently: a failure is recorded on its item and does not stop the
// others. Items are returned in input order.
func (l *Loader) LoadAll(ctx context.Context, urls []string) *coursenotes.Batch {
	batch := &coursenotes.Batch{
		Total: len(urls),
		Items: make([]*coursenotes.BatchItem, len(urls)),
	}

	concurrency := l.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			content, err := l.Load(ctx, u)
			batch.Items[i] = &coursenotes.BatchItem{URL: u, Content: content, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	for _, item := range batch.Items {
		if item.OK() {
			batch.Loaded++
		}
	}
	return batch
}
