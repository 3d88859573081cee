package prefetch

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/fwojciec/coursenotes"
	"golang.org/x/time/rate"
)

var _ coursenotes.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces upstream requests per host with token buckets.
// Hosts are independent; a host without an override gets the default rate.
// A rate of zero or less disables limiting for that host.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
	hosts    map[string]float64
}

// LimiterOption configures a DomainLimiter.
type LimiterOption func(*DomainLimiter)

// WithHostRate overrides the rate for one host. The LMS origin usually
// tolerates more than the third-party hosts its pages link to.
func WithHostRate(host string, rps float64) LimiterOption {
	return func(d *DomainLimiter) {
		d.hosts[hostKey(host)] = rps
	}
}

// WithBurst lets up to n requests to a host go out back to back.
func WithBurst(n int) LimiterOption {
	return func(d *DomainLimiter) {
		if n > 0 {
			d.burst = n
		}
	}
}

// NewDomainLimiter returns a limiter allowing rps requests per second to
// each host, with no bursting unless WithBurst is given.
func NewDomainLimiter(rps float64, opts ...LimiterOption) *DomainLimiter {
	d := &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    1,
		hosts:    make(map[string]float64),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until a request to domain is allowed or ctx is done.
// "LMS.example:443" and "lms.example" share a bucket.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	key := hostKey(domain)

	d.mu.Lock()
	limiter, ok := d.limiters[key]
	if !ok {
		rps, ok := d.hosts[key]
		if !ok {
			rps = d.rps
		}
		limit := rate.Limit(rps)
		if rps <= 0 {
			limit = rate.Inf
		}
		limiter = rate.NewLimiter(limit, d.burst)
		d.limiters[key] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// hostKey lowercases host and drops a default HTTP or HTTPS port.
func hostKey(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, port, err := net.SplitHostPort(host); err == nil && (port == "443" || port == "80") {
		return h
	}
	return host
}
