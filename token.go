package gbinews

import "context"

// TokenCounter counts model tokens in article text.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
