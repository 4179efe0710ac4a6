package gbinews

import "context"

// Enricher derives structured fields from an article using a language model.
type Enricher interface {
	// Enrich analyses the article text. Missing fields in the model's answer
	// are filled with DefaultEnrichment values.
	Enrich(ctx context.Context, headline, publishDate, body string) (*Enrichment, error)
}
