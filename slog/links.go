package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/gbinews"
)

// Ensure LoggingLinkSource implements gbinews.LinkSource.
var _ gbinews.LinkSource = (*LoggingLinkSource)(nil)

// LoggingLinkSource wraps a LinkSource with logging.
type LoggingLinkSource struct {
	next   gbinews.LinkSource
	logger *slog.Logger
}

// NewLoggingLinkSource creates a new LoggingLinkSource.
func NewLoggingLinkSource(next gbinews.LinkSource, logger *slog.Logger) *LoggingLinkSource {
	return &LoggingLinkSource{next: next, logger: logger}
}

// Discover delegates to the wrapped source and logs the operation.
func (s *LoggingLinkSource) Discover(ctx context.Context, maxPages int, all bool) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("discover",
			"max_pages", maxPages,
			"all", all,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Discover(ctx, maxPages, all)
}
