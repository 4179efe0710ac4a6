package gbinews

import "context"

// LinkSource discovers article URLs from the news index.
type LinkSource interface {
	// Discover walks index pages and returns normalized, deduplicated
	// article URLs in the order they were found. When all is false at most
	// maxPages index pages are visited.
	Discover(ctx context.Context, maxPages int, all bool) ([]string, error)
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
