// Package slog provides logging decorators for the pipeline's collaborators.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/gbinews"
)

var _ gbinews.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every page download. Failed downloads are logged
// at warning level with their error code.
type LoggingFetcher struct {
	next   gbinews.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher returns next wrapped with logging to logger.
func NewLoggingFetcher(next gbinews.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	begin := time.Now()
	html, err = f.next.Fetch(ctx, url)

	attrs := []any{"url", url}
	if id := gbinews.ArticleIDFromURL(url); id != "" {
		attrs = append(attrs, "id", id)
	}
	attrs = append(attrs, "duration", time.Since(begin))
	if err != nil {
		attrs = append(attrs, "code", gbinews.ErrorCode(err), "err", err)
		f.logger.WarnContext(ctx, "fetch failed", attrs...)
		return "", err
	}
	f.logger.InfoContext(ctx, "fetch", append(attrs, "bytes", len(html))...)
	return html, nil
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
