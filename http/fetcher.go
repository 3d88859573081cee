// Package http provides an HTTP implementation of coursenotes.Fetcher for
// retrieving pages from the upstream LMS.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fwojciec/coursenotes"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodyBytes caps the size of a fetched page.
const DefaultMaxBodyBytes = 20 << 20

// Ensure Fetcher implements coursenotes.Fetcher at compile time.
var _ coursenotes.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP GET requests.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	token        string
	userAgent    string
	maxBodyBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithToken sets a token that is sent as the "token" query parameter,
// the way the LMS authenticates file and web-service requests.
func WithToken(token string) Option {
	return func(f *Fetcher) {
		f.token = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodyBytes limits how much of a response body is read.
func WithMaxBodyBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodyBytes = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		userAgent:    "coursenotes",
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	target, err := f.withToken(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", coursenotes.Errorf(coursenotes.EUNAUTHORIZED, "HTTP %d for %s", resp.StatusCode, rawURL)
	case http.StatusNotFound, http.StatusGone:
		return "", coursenotes.Errorf(coursenotes.ENOTFOUND, "HTTP %d for %s", resp.StatusCode, rawURL)
	default:
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return "", err
	}
	if int64(len(body)) > f.maxBodyBytes {
		return "", coursenotes.Errorf(coursenotes.EINVALID, "response from %s exceeds %d bytes", rawURL, f.maxBodyBytes)
	}

	return string(body), nil
}

// withToken adds the token query parameter unless the URL already has one.
func (f *Fetcher) withToken(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", coursenotes.Errorf(coursenotes.EINVALID, "invalid url %q", rawURL)
	}
	if f.token == "" {
		return rawURL, nil
	}
	q := u.Query()
	if q.Has("token") {
		return rawURL, nil
	}
	q.Set("token", f.token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
