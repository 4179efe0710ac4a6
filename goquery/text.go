package goquery

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// normalize collapses runs of Unicode whitespace to a single space and trims.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// runeLen returns the length of s in characters.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// alnumCount counts letters and digits, CJK ideographs included.
func alnumCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			n++
		}
	}
	return n
}

// nonContent reports elements whose text is never article content.
func nonContent(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template:
		return true
	}
	return false
}

// walk visits n and its descendants in document order, skipping
// non-content subtrees.
func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode && nonContent(n) {
		return
	}
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

// joinedText returns the raw text of every text node under nodes joined by sep.
func joinedText(nodes []*html.Node, sep string) string {
	var parts []string
	for _, root := range nodes {
		walk(root, func(n *html.Node) {
			if n.Type == html.TextNode {
				parts = append(parts, n.Data)
			}
		})
	}
	return strings.Join(parts, sep)
}

// normalizedText is the whitespace-normalized text of sel.
func normalizedText(sel *goquery.Selection) string {
	return normalize(joinedText(sel.Nodes, " "))
}

// cloneDocument returns a deep copy of doc that can be modified freely.
func cloneDocument(doc *goquery.Document) *goquery.Document {
	clone := goquery.NewDocumentFromNode(doc.Selection.Clone().Nodes[0])
	clone.Url = doc.Url
	return clone
}
