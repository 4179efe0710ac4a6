package mock

import (
	"context"

	"github.com/fwojciec/gbinews"
)

var _ gbinews.LinkSource = (*LinkSource)(nil)

// LinkSource is a mock implementation of gbinews.LinkSource.
type LinkSource struct {
	DiscoverFn func(ctx context.Context, maxPages int, all bool) ([]string, error)
}

func (s *LinkSource) Discover(ctx context.Context, maxPages int, all bool) ([]string, error) {
	return s.DiscoverFn(ctx, maxPages, all)
}

var _ gbinews.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of gbinews.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}

var _ gbinews.IndexParser = (*IndexParser)(nil)

// IndexParser is a mock implementation of gbinews.IndexParser.
type IndexParser struct {
	ParseArticleLinksFn func(html string, baseURL string) ([]string, error)
	ParsePagerFn        func(html string) (*gbinews.Pager, error)
}

func (p *IndexParser) ParseArticleLinks(html string, baseURL string) ([]string, error) {
	return p.ParseArticleLinksFn(html, baseURL)
}

func (p *IndexParser) ParsePager(html string) (*gbinews.Pager, error) {
	return p.ParsePagerFn(html)
}
