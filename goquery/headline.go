package goquery

import "github.com/PuerkitoBio/goquery"

// minHeadlineLen is the shortest text accepted from a generic heading.
const minHeadlineLen = 6

// headlineSelectors are probed in order when the site's title box is absent.
var headlineSelectors = []string{"article h1", "main h1", "h1", "h2"}

// extractHeadline returns the most likely headline, or "" if none qualifies.
func extractHeadline(doc *goquery.Document) string {
	if t := normalizedText(doc.Find("div.titleBox > h1").First()); t != "" {
		return t
	}

	for _, selector := range headlineSelectors {
		el := doc.Find(selector).First()
		if el.Length() == 0 {
			continue
		}
		if t := normalizedText(el); runeLen(t) >= minHeadlineLen {
			return t
		}
	}

	// The real headline is rarely shorter than secondary bold text.
	var best string
	doc.Find("h1, h2, h3, strong, b").Each(func(_ int, s *goquery.Selection) {
		t := normalizedText(s)
		if runeLen(t) >= minHeadlineLen && runeLen(t) > runeLen(best) {
			best = t
		}
	})
	return best
}
