package goquery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/gbinews"
)

// Ensure IndexParser implements gbinews.IndexParser at compile time.
var _ gbinews.IndexParser = IndexParser{}

// IndexParser parses the news index with ParseArticleLinks and ParsePager.
type IndexParser struct{}

// ParseArticleLinks implements gbinews.IndexParser.
func (IndexParser) ParseArticleLinks(rawHTML string, baseURL string) ([]string, error) {
	return ParseArticleLinks(rawHTML, baseURL)
}

// ParsePager implements gbinews.IndexParser.
func (IndexParser) ParsePager(rawHTML string) (*gbinews.Pager, error) {
	return ParsePager(rawHTML)
}

// ParseArticleLinks returns the article URLs linked from an index page,
// normalized and deduplicated in document order. Relative links are
// resolved against baseURL.
func ParseArticleLinks(rawHTML string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]struct{})
	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || isNonHTTPLink(href) {
			return
		}

		resolved, ok := gbinews.ResolveArticleURL(base, href)
		if !ok {
			return
		}
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, nil
}

// ParsePager reads the "ul.pager" block of an index page.
// A page without a pager yields an empty Pager.
func ParsePager(rawHTML string) (*gbinews.Pager, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "failed to parse HTML: %v", err)
	}

	pager := &gbinews.Pager{}
	nav := doc.Find("ul.pager").First()
	if nav.Length() == 0 {
		return pager, nil
	}

	nav.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !isDigits(strings.TrimSpace(a.Text())) {
			return
		}
		if n, ok := pageNumber(href); ok {
			pager.PagesInNav = append(pager.PagesInNav, n)
		}
	})

	if href, ok := nav.Find("a.next").First().Attr("href"); ok {
		pager.NextPage, _ = pageNumber(href)
	}
	if href, ok := nav.Find("a.last").First().Attr("href"); ok {
		pager.LastPage, _ = pageNumber(href)
	}

	return pager, nil
}

// pageNumber parses the number following the last "page=" in href.
func pageNumber(href string) (int, bool) {
	idx := strings.LastIndex(href, "page=")
	if idx == -1 {
		return 0, false
	}
	n, err := strconv.Atoi(href[idx+len("page="):])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// isNonHTTPLink checks if a href is an in-page anchor or a non-HTTP link.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
