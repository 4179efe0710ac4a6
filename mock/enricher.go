package mock

import (
	"context"

	"github.com/fwojciec/gbinews"
)

var _ gbinews.Enricher = (*Enricher)(nil)

// Enricher is a mock implementation of gbinews.Enricher.
type Enricher struct {
	EnrichFn func(ctx context.Context, headline, publishDate, body string) (*gbinews.Enrichment, error)
}

func (e *Enricher) Enrich(ctx context.Context, headline, publishDate, body string) (*gbinews.Enrichment, error) {
	return e.EnrichFn(ctx, headline, publishDate, body)
}
