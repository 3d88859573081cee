package coursenotes

import "context"

// Fetcher retrieves raw HTML from the upstream learning-management system.
type Fetcher interface {
	// Fetch downloads the document at url and returns its body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	Close() error
}

// DomainLimiter provides per-domain rate limiting for upstream requests.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
