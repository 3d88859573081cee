// Package rod provides a coursenotes.Fetcher that renders LMS pages in
// headless Chrome, for activities whose content is built by JavaScript.
package rod

import (
	"context"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/coursenotes"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// DefaultSessionCookie is the cookie name the LMS uses for logged-in sessions.
const DefaultSessionCookie = "MoodleSession"

// Ensure Fetcher implements coursenotes.Fetcher at compile time.
var _ coursenotes.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	closed  atomic.Bool

	timeout     time.Duration
	token       string
	cookieName  string
	cookieValue string
	maxPages    int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for a single page render.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithToken appends a "token" query parameter to every fetched URL.
func WithToken(token string) Option {
	return func(f *Fetcher) {
		f.token = token
	}
}

// WithSession sends the LMS session cookie with every page load.
func WithSession(value string) Option {
	return func(f *Fetcher) {
		f.cookieName = DefaultSessionCookie
		f.cookieValue = value
	}
}

// WithMaxPages sets how many pages are rendered before the browser is recycled.
func WithMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser and returns a Fetcher.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(WithMaxBrowserPages(f.maxPages))
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.closed.Load() {
		return "", coursenotes.Errorf(coursenotes.EINVALID, "fetcher closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	target, err := withToken(rawURL, f.token)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if f.cookieValue != "" {
		if err := page.SetCookies([]*proto.NetworkCookieParam{{
			Name:  f.cookieName,
			Value: f.cookieValue,
			URL:   target,
		}}); err != nil {
			return "", err
		}
	}

	if err := page.Navigate(target); err != nil {
		return "", ctxErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", ctxErr(ctx, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", ctxErr(ctx, err)
	}

	f.manager.IncrementPageCount()
	return html, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}

// ctxErr prefers the context's error so callers can match on
// context.DeadlineExceeded and context.Canceled.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func withToken(rawURL, token string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", coursenotes.Errorf(coursenotes.EINVALID, "invalid url %q", rawURL)
	}
	if token == "" {
		return rawURL, nil
	}
	q := u.Query()
	if q.Has("token") {
		return rawURL, nil
	}
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
