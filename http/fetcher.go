// Package http provides HTTP implementations of gbinews.Fetcher and
// gbinews.LinkSource for the news site, which serves static HTML.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/gbinews"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout bounds a single page request.
const DefaultFetchTimeout = 20 * time.Second

// Request headers sent to the news site.
const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; GBI-Pipeline/1.0)"
	AcceptLanguage   = "zh-TW,zh;q=0.9,en;q=0.8"
)

// maxPageSize caps how much of a response body is read.
const maxPageSize = 8 << 20

var _ gbinews.Fetcher = (*Fetcher)(nil)

// Fetcher downloads pages over plain HTTP and decodes them to UTF-8 using
// the declared or sniffed charset.
//
// Missing pages (404, 410) are reported as ENOTFOUND and other client
// errors as EINVALID, so callers can tell them from failures worth retrying.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout of each request. Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithClient sends requests through c. Options applied after it modify c.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher returns a Fetcher with its own http.Client.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    &http.Client{Timeout: DefaultFetchTimeout},
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the page at url as UTF-8 HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", gbinews.Errorf(gbinews.EINVALID, "invalid URL %q", url)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept-Language", AcceptLanguage)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, url); err != nil {
		return "", err
	}

	r, err := charset.NewReader(io.LimitReader(resp.Body, maxPageSize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", url, err)
	}
	return string(body), nil
}

// Close is a no-op; the client holds no resources that need releasing.
func (f *Fetcher) Close() error {
	return nil
}

func checkStatus(resp *http.Response, url string) error {
	code := resp.StatusCode
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound || code == http.StatusGone:
		return gbinews.Errorf(gbinews.ENOTFOUND, "HTTP %d for %s", code, url)
	case code >= 400 && code < 500 && code != http.StatusTooManyRequests && code != http.StatusRequestTimeout:
		return gbinews.Errorf(gbinews.EINVALID, "HTTP %d for %s", code, url)
	default:
		return fmt.Errorf("HTTP %d for %s", code, url)
	}
}
