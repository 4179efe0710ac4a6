package mock

import (
	"context"

	"github.com/fwojciec/gbinews"
)

var _ gbinews.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of gbinews.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

// CountTokens calls CountTokensFn.
func (m *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return m.CountTokensFn(ctx, text)
}
