package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	dateLabelRe = regexp.MustCompile(`(?i)(?:發佈日期|發布日期|日期)\s*[:：]?\s*`)
	dateValueRe = regexp.MustCompile(`\b(\d{4}[/-]\d{2}[/-]\d{2})\b`)
)

// dateMetaSelectors are metadata tags commonly carrying the publish date.
var dateMetaSelectors = []string{
	`meta[property="article:published_time"]`,
	`meta[name="pubdate"]`,
	`meta[itemprop="datePublished"]`,
	`meta[name="date"]`,
}

// findDate returns the first date in s as YYYY-MM-DD, or "".
func findDate(s string) string {
	m := dateValueRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.ReplaceAll(m[1], "/", "-")
}

// extractDate returns the publish date as YYYY-MM-DD, or "" if none is found.
func extractDate(doc *goquery.Document) string {
	if d := findDate(normalizedText(doc.Find("div.reporter div.date").First())); d != "" {
		return d
	}

	if d := dateNearLabel(doc); d != "" {
		return d
	}

	for _, selector := range dateMetaSelectors {
		content, ok := doc.Find(selector).First().Attr("content")
		if !ok || content == "" {
			continue
		}
		if d := findDate(content); d != "" {
			return d
		}
	}

	var date string
	doc.Find("h1, h2, .title, .post-meta, .meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		date = findDate(normalizedText(s))
		return date == ""
	})
	return date
}

// dateNearLabel finds a text node carrying a date label and searches the
// full text of its parent element.
func dateNearLabel(doc *goquery.Document) string {
	var date string
	for _, root := range doc.Nodes {
		walk(root, func(n *html.Node) {
			if date != "" || n.Type != html.TextNode || n.Parent == nil {
				return
			}
			if !dateLabelRe.MatchString(n.Data) {
				return
			}
			date = findDate(normalize(joinedText([]*html.Node{n.Parent}, " ")))
		})
	}
	return date
}
