package mock

import (
	"context"

	"github.com/fwojciec/gbinews"
)

var _ gbinews.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of gbinews.Fetcher.
// A nil CloseFn makes Close a no-op.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

// Fetch calls FetchFn.
func (m *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return m.FetchFn(ctx, url)
}

// Close calls CloseFn if set.
func (m *Fetcher) Close() error {
	if m.CloseFn == nil {
		return nil
	}
	return m.CloseFn()
}
