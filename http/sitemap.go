package http

import (
	"context"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/gbinews"
)

var _ gbinews.LinkSource = (*SitemapSource)(nil)

// robotsSitemap matches Sitemap directives in robots.txt.
var robotsSitemap = regexp.MustCompile(`(?im)^\s*sitemap:\s*(\S+)`)

// SitemapSource discovers article URLs from the site's sitemaps instead of
// the paginated index. Sitemaps are located through robots.txt, falling
// back to /sitemap.xml. Sitemap indexes are followed breadth-first.
type SitemapSource struct {
	fetcher gbinews.Fetcher
	siteURL string
}

// NewSitemapSource creates a SitemapSource for the site at siteURL that
// downloads through fetcher. A nil fetcher means a default HTTP Fetcher.
func NewSitemapSource(fetcher gbinews.Fetcher, siteURL string) *SitemapSource {
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	return &SitemapSource{fetcher: fetcher, siteURL: siteURL}
}

// Discover returns the article URLs listed in the site's sitemaps,
// normalized and deduplicated in the order they are listed. Unless all is
// set, at most maxPages urlset documents are read. A site without
// sitemaps yields an empty slice.
func (s *SitemapSource) Discover(ctx context.Context, maxPages int, all bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	site, err := url.Parse(s.siteURL)
	if err != nil || site.Host == "" {
		return nil, gbinews.Errorf(gbinews.EINVALID, "invalid site URL %q", s.siteURL)
	}
	root := &url.URL{Scheme: site.Scheme, Host: site.Host, Path: "/"}

	queue, err := s.entryPoints(ctx, root)
	if err != nil {
		return nil, err
	}

	limit := 0
	if !all {
		limit = max(maxPages, 1)
	}

	links := []string{}
	seen := make(map[string]bool)
	visited := make(map[string]bool)
	urlsets := 0
	for len(queue) > 0 && (limit == 0 || urlsets < limit) {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true

		doc, err := s.load(ctx, next)
		if gbinews.ErrorCode(err) == gbinews.ENOTFOUND {
			// robots.txt may name sitemaps that no longer exist.
			continue
		} else if err != nil {
			return nil, err
		}

		if doc.Tag == "sitemapindex" {
			queue = append(queue, locs(doc, "sitemap")...)
			continue
		}
		urlsets++
		for _, loc := range locs(doc, "url") {
			link, ok := gbinews.ResolveArticleURL(root, loc)
			if ok && !seen[link] {
				seen[link] = true
				links = append(links, link)
			}
		}
	}
	return links, nil
}

// entryPoints returns the sitemaps named in robots.txt, or /sitemap.xml
// if robots.txt names none.
func (s *SitemapSource) entryPoints(ctx context.Context, root *url.URL) ([]string, error) {
	robots, err := s.fetcher.Fetch(ctx, root.JoinPath("robots.txt").String())
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err == nil {
		var sitemaps []string
		for _, m := range robotsSitemap.FindAllStringSubmatch(robots, -1) {
			sitemaps = append(sitemaps, m[1])
		}
		if len(sitemaps) > 0 {
			return sitemaps, nil
		}
	}
	return []string{root.JoinPath("sitemap.xml").String()}, nil
}

// load downloads and parses the sitemap at sitemapURL, returning its root element.
func (s *SitemapSource) load(ctx context.Context, sitemapURL string) (*etree.Element, error) {
	body, err := s.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	// The fetcher has already decoded the body to UTF-8.
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := doc.ReadFromString(body); err != nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "parsing sitemap %s: %v", sitemapURL, err)
	}
	if doc.Root() == nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "empty sitemap %s", sitemapURL)
	}
	return doc.Root(), nil
}

// locs returns the trimmed <loc> text of every child element named tag.
func locs(parent *etree.Element, tag string) []string {
	var out []string
	for _, el := range parent.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if text := strings.TrimSpace(loc.Text()); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}
