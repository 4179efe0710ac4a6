package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/gbinews"
)

// Ensure LoggingEnricher implements gbinews.Enricher.
var _ gbinews.Enricher = (*LoggingEnricher)(nil)

// LoggingEnricher wraps an Enricher with logging.
type LoggingEnricher struct {
	next   gbinews.Enricher
	logger *slog.Logger
}

// NewLoggingEnricher creates a new LoggingEnricher.
func NewLoggingEnricher(next gbinews.Enricher, logger *slog.Logger) *LoggingEnricher {
	return &LoggingEnricher{next: next, logger: logger}
}

// Enrich delegates to the wrapped enricher and logs the primary company found.
func (e *LoggingEnricher) Enrich(ctx context.Context, headline, publishDate, body string) (enrichment *gbinews.Enrichment, err error) {
	defer func(begin time.Time) {
		attrs := []any{"headline", headline}
		if enrichment != nil {
			attrs = append(attrs,
				"primary", enrichment.PrimaryCompany,
				"companies", len(enrichment.CompaniesRanked),
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		e.logger.Info("enrich", attrs...)
	}(time.Now())
	return e.next.Enrich(ctx, headline, publishDate, body)
}
