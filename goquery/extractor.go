// Package goquery implements article extraction and index-page parsing
// for the news site using goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/gbinews"
)

// Ensure Extractor implements gbinews.Extractor at compile time.
var _ gbinews.Extractor = (*Extractor)(nil)

// Extractor extracts headline, publish date, and body from article pages.
//
// Body extraction tries the site's known container first, then scored
// candidate blocks, then the whole page, accepting the first result that
// passes the stage's quality gate.
//
// Extractor holds no mutable state and is safe for concurrent use.
type Extractor struct {
	// ParagraphFallback is the collected paragraph length below which
	// candidate collection walks every text node instead.
	// Zero means DefaultParagraphFallback.
	ParagraphFallback int
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{ParagraphFallback: DefaultParagraphFallback}
}

// Extract parses raw HTML fetched from pageURL. Empty input yields a result
// with only the ID and URL set, which callers skip as too short.
func (e *Extractor) Extract(rawHTML string, pageURL string) (*gbinews.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return &gbinews.ExtractResult{
			ArticleID: gbinews.ArticleIDFromURL(pageURL),
			URL:       pageURL,
			Strategy:  gbinews.StrategyDocument,
		}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "failed to parse HTML: %v", err)
	}

	return e.ExtractDocument(doc, pageURL), nil
}

// ExtractDocument extracts from an already parsed document.
// doc is not modified; body extraction removes nodes from a private copy.
func (e *Extractor) ExtractDocument(doc *goquery.Document, pageURL string) *gbinews.ExtractResult {
	body, strategy := e.extractBody(cloneDocument(doc))

	return &gbinews.ExtractResult{
		ArticleID:   gbinews.ArticleIDFromURL(pageURL),
		URL:         pageURL,
		Headline:    extractHeadline(doc),
		PublishDate: extractDate(doc),
		Body:        body,
		Strategy:    strategy,
	}
}

func (e *Extractor) paragraphFallback() int {
	if e.ParagraphFallback > 0 {
		return e.ParagraphFallback
	}
	return DefaultParagraphFallback
}
