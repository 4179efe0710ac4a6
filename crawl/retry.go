package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/gbinews"
)

// FetchFunc fetches the HTML of a URL.
type FetchFunc func(ctx context.Context, url string) (string, error)

// RetryFunc is called before each retry with the 1-based number of the
// attempt about to be made and the error that caused it.
type RetryFunc func(url string, attempt int, err error)

// DefaultBackoff is the wait before each retry of a failed fetch.
var DefaultBackoff = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

// Retrier retries failed fetches on a fixed backoff schedule. Pages that do
// not exist and requests the site rejects are not retried.
type Retrier struct {
	Delays  []time.Duration // nil means DefaultBackoff; empty disables retries
	OnRetry RetryFunc       // optional
}

// Fetch calls fetch for url until it succeeds, fails permanently, or the
// backoff schedule runs out. The last error is returned.
func (r Retrier) Fetch(ctx context.Context, url string, fetch FetchFunc) (string, error) {
	delays := r.Delays
	if delays == nil {
		delays = DefaultBackoff
	}

	for attempt := 1; ; attempt++ {
		html, err := fetch(ctx, url)
		switch {
		case err == nil:
			return html, nil
		case ctx.Err() != nil:
			return "", ctx.Err()
		case attempt > len(delays) || permanent(err):
			return "", err
		}

		if r.OnRetry != nil {
			r.OnRetry(url, attempt+1, err)
		}

		timer := time.NewTimer(delays[attempt-1])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
}

func permanent(err error) bool {
	switch gbinews.ErrorCode(err) {
	case gbinews.ENOTFOUND, gbinews.EINVALID:
		return true
	}
	return false
}
