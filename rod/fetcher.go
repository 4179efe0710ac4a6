// Package rod provides a browser-rendered gbinews.Fetcher using Chrome
// automation. It is used when the site serves pages through a bot check
// that a plain HTTP client cannot pass.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/gbinews"
)

// DefaultFetchTimeout is the default time allowed for a page to load.
const DefaultFetchTimeout = 20 * time.Second

// Headers presented by the browser, matching the HTTP fetcher.
const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; GBI-Pipeline/1.0)"
	AcceptLanguage   = "zh-TW,zh;q=0.9,en;q=0.8"
)

// Ensure Fetcher implements gbinews.Fetcher at compile time.
var _ gbinews.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML through a managed headless browser.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager   *Manager
	timeout   time.Duration
	userAgent string
	closed    atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the page load timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the browser's User-Agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher launches a headless browser and returns a Fetcher using it.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	manager, err := NewManager()
	if err != nil {
		return nil, err
	}
	return NewFetcherWithManager(manager, opts...), nil
}

// NewFetcherWithManager creates a Fetcher on an existing Manager.
// The Fetcher takes ownership of the manager and closes it on Close.
func NewFetcherWithManager(manager *Manager, opts ...Option) *Fetcher {
	f := &Fetcher{
		manager:   manager,
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch loads url in a fresh tab and returns the HTML after scripts ran.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", gbinews.Errorf(gbinews.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, release, err := f.manager.Page(ctx, f.userAgent)
	if err != nil {
		return "", err
	}
	defer release()

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}
