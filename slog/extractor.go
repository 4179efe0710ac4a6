package slog

import (
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/gbinews"
)

// Ensure LoggingExtractor implements gbinews.Extractor.
var _ gbinews.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor and logs which body stage won.
type LoggingExtractor struct {
	next   gbinews.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next gbinews.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the result.
func (e *LoggingExtractor) Extract(html string, pageURL string) (result *gbinews.ExtractResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", pageURL}
		if result != nil {
			attrs = append(attrs,
				"id", result.ArticleID,
				"strategy", string(result.Strategy),
				"chars", utf8.RuneCountInString(result.Body),
				"date", result.PublishDate,
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		e.logger.Info("extract", attrs...)
	}(time.Now())
	return e.next.Extract(html, pageURL)
}
