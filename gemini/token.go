package gemini

import (
	"context"

	"github.com/fwojciec/gbinews"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ gbinews.TokenCounter = (*TokenCounter)(nil)

// TokenCounter estimates the input tokens of an enrichment request offline.
// Counts include the system instruction sent with every article.
type TokenCounter struct {
	local  *tokenizer.LocalTokenizer
	config *genai.CountTokensConfig
}

// NewTokenCounter loads the tokenizer for model. Only models the local
// tokenizer knows are supported.
func NewTokenCounter(model string) (*TokenCounter, error) {
	local, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "no local tokenizer for model %q: %v", model, err)
	}
	return &TokenCounter{
		local: local,
		config: &genai.CountTokensConfig{
			SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		},
	}, nil
}

// CountTokens returns the token count of a request carrying text.
// Empty text counts as zero since nothing is sent.
func (tc *TokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	res, err := tc.local.CountTokens([]*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}, tc.config)
	if err != nil {
		return 0, err
	}
	return int(res.TotalTokens), nil
}
