package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/mock"
	gbislog "github.com/fwojciec/gbinews/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingFetcher(t *testing.T) {
	t.Parallel()

	newLogger := func() (*slog.Logger, *bytes.Buffer) {
		var buf bytes.Buffer
		return slog.New(slog.NewTextHandler(&buf, nil)), &buf
	}

	t.Run("logs article pages with ID and size", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		f := gbislog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "<p>新聞</p>", nil
			},
		}, logger)

		html, err := f.Fetch(context.Background(), "https://news.gbimonthly.com/tw/article/show.php?num=31")

		require.NoError(t, err)
		assert.Equal(t, "<p>新聞</p>", html)
		out := buf.String()
		assert.Contains(t, out, "level=INFO msg=fetch")
		assert.Contains(t, out, "id=31")
		assert.Contains(t, out, "bytes=13")
		assert.Contains(t, out, "duration=")
	})

	t.Run("omits ID for index pages", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		f := gbislog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) { return "", nil },
		}, logger)

		_, err := f.Fetch(context.Background(), "https://news.gbimonthly.com/tw/article/index.php?page=2")

		require.NoError(t, err)
		assert.NotContains(t, buf.String(), " id=")
	})

	t.Run("warns with error code on failure", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		f := gbislog.NewLoggingFetcher(&mock.Fetcher{
			FetchFn: func(context.Context, string) (string, error) {
				return "", gbinews.Errorf(gbinews.ENOTFOUND, "HTTP 404")
			},
		}, logger)

		_, err := f.Fetch(context.Background(), "https://news.gbimonthly.com/tw/article/show.php?num=5")

		require.Error(t, err)
		out := buf.String()
		assert.Contains(t, out, `level=WARN msg="fetch failed"`)
		assert.Contains(t, out, "code=not_found")
	})

	t.Run("close delegates", func(t *testing.T) {
		t.Parallel()

		logger, _ := newLogger()
		closeErr := errors.New("busy")
		f := gbislog.NewLoggingFetcher(&mock.Fetcher{
			CloseFn: func() error { return closeErr },
		}, logger)

		assert.ErrorIs(t, f.Close(), closeErr)
	})
}
