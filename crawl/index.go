package crawl

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/gbinews"
)

// DefaultIndexURL is the first page of the news index.
const DefaultIndexURL = "https://news.gbimonthly.com/tw/article/index.php"

var _ gbinews.LinkSource = (*IndexCrawler)(nil)

// IndexCrawler discovers article URLs by following the index pagination.
type IndexCrawler struct {
	Fetcher     gbinews.Fetcher
	Parser      gbinews.IndexParser
	RateLimiter gbinews.DomainLimiter // optional
	IndexURL    string                // defaults to DefaultIndexURL
	RetryDelays []time.Duration       // nil means DefaultBackoff
	OnRetry     RetryFunc             // optional
}

// Discover fetches index pages starting at page 1 and follows the pager's
// next link. Unless all is set it stops after maxPages pages; with all set
// it stops at the last page advertised by the first pager seen.
func (c *IndexCrawler) Discover(ctx context.Context, maxPages int, all bool) ([]string, error) {
	indexURL := c.IndexURL
	if indexURL == "" {
		indexURL = DefaultIndexURL
	}
	base, err := url.Parse(indexURL)
	if err != nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "invalid index URL: %v", err)
	}

	var links []string
	seen := make(map[string]bool)
	visited := make(map[int]bool)
	lastPage := 0

	for page, crawled := 1, 0; ; crawled++ {
		if !all && crawled >= maxPages {
			break
		}
		visited[page] = true

		pageURL := indexPageURL(base, page)
		html, err := c.fetch(ctx, base.Host, pageURL)
		if err != nil {
			return nil, fmt.Errorf("index page %d: %w", page, err)
		}

		found, err := c.Parser.ParseArticleLinks(html, pageURL)
		if err != nil {
			return nil, fmt.Errorf("index page %d: %w", page, err)
		}
		for _, link := range found {
			if !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}

		pager, err := c.Parser.ParsePager(html)
		if err != nil {
			return nil, fmt.Errorf("index page %d: %w", page, err)
		}
		if all && lastPage == 0 && pager.LastPage > 0 {
			lastPage = pager.LastPage
		}

		next := pager.NextPage
		if next == 0 || visited[next] {
			break
		}
		if all && lastPage > 0 && page >= lastPage {
			break
		}
		page = next
	}

	return links, nil
}

func (c *IndexCrawler) fetch(ctx context.Context, host, pageURL string) (string, error) {
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, host); err != nil {
			return "", err
		}
	}
	return Retrier{Delays: c.RetryDelays, OnRetry: c.OnRetry}.Fetch(ctx, pageURL, c.Fetcher.Fetch)
}

// indexPageURL returns the URL of index page n; page 1 is the bare index URL.
func indexPageURL(base *url.URL, n int) string {
	if n <= 1 {
		return base.String()
	}
	u := *base
	q := u.Query()
	q.Set("page", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String()
}
