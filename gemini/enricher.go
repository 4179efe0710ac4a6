// Package gemini implements article enrichment and token counting on
// Google Gemini.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/fwojciec/gbinews"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for enrichment.
const DefaultModel = "gemini-2.5-flash"

// Retry defaults for enrichment calls.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	maxDelay           = 8 * time.Second
)

// GenerateFunc sends a prompt to the model and returns the response text.
type GenerateFunc func(ctx context.Context, model, prompt string, config *genai.GenerateContentConfig) (string, error)

var _ gbinews.Enricher = (*Enricher)(nil)

// Enricher implements gbinews.Enricher using Google Gemini.
type Enricher struct {
	model       string
	generate    GenerateFunc
	maxAttempts int
	baseDelay   time.Duration
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(e *Enricher) {
		e.model = model
	}
}

// WithRetry sets the number of attempts and the first backoff delay.
// The delay doubles after each failed attempt, up to 8s.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(e *Enricher) {
		e.maxAttempts = max(maxAttempts, 1)
		e.baseDelay = baseDelay
	}
}

// WithGenerateFunc replaces the call to the Gemini API.
func WithGenerateFunc(fn GenerateFunc) Option {
	return func(e *Enricher) {
		e.generate = fn
	}
}

// NewEnricher creates an Enricher backed by client.
func NewEnricher(client *genai.Client, opts ...Option) *Enricher {
	e := &Enricher{
		model:       DefaultModel,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
	}
	if client != nil {
		e.generate = clientGenerate(client)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func clientGenerate(client *genai.Client) GenerateFunc {
	return func(ctx context.Context, model, prompt string, config *genai.GenerateContentConfig) (string, error) {
		result, err := client.Models.GenerateContent(ctx, model,
			[]*genai.Content{{
				Role:  "user",
				Parts: []*genai.Part{{Text: prompt}},
			}},
			config,
		)
		if err != nil {
			return "", err
		}
		if result == nil {
			return "", gbinews.Errorf(gbinews.EINTERNAL, "gemini returned nil result")
		}
		return result.Text(), nil
	}
}

// Enrich asks the model for companies, keywords, and summaries of the
// article. Failed calls and unparseable answers are retried with
// exponential backoff.
func (e *Enricher) Enrich(ctx context.Context, headline, publishDate, body string) (*gbinews.Enrichment, error) {
	if body == "" {
		return nil, gbinews.Errorf(gbinews.EINVALID, "article body required")
	}
	if e.generate == nil {
		return nil, gbinews.Errorf(gbinews.EINTERNAL, "gemini client not configured")
	}

	prompt := BuildUserPrompt(headline, publishDate, body)
	config := BuildConfig()

	var lastErr error
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(e.delay(attempt)):
			}
		}

		enrichment, err := e.enrichOnce(ctx, prompt, config)
		if err == nil {
			return enrichment, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("enrich after %d attempts: %w", e.maxAttempts, lastErr)
}

func (e *Enricher) enrichOnce(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (*gbinews.Enrichment, error) {
	text, err := e.generate(ctx, e.model, prompt, config)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, gbinews.Errorf(gbinews.EINTERNAL, "gemini returned no text content")
	}
	return ParseEnrichment(text)
}

// delay returns the wait before the given retry attempt (1-based).
func (e *Enricher) delay(attempt int) time.Duration {
	d := e.baseDelay << (attempt - 1)
	return min(d, maxDelay)
}

var objectRe = regexp.MustCompile(`\{[\s\S]*\}`)

// ParseEnrichment decodes a model answer into an Enrichment. Answers wrapped
// in code fences or surrounded by prose are salvaged. Missing fields get
// DefaultEnrichment values.
func ParseEnrichment(text string) (*gbinews.Enrichment, error) {
	data, err := decodeObject(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}

	e := gbinews.DefaultEnrichment()
	if v, ok := data["companies_ranked"]; ok {
		e.CompaniesRanked = names(v)
	}
	if v, ok := data["keywords"]; ok {
		e.Keywords = names(v)
	}
	if v, ok := data["primary_company"]; ok && v != nil {
		e.PrimaryCompany = strings.TrimSpace(stringify(v))
	}
	if v, ok := data["company_one_liner"]; ok && v != nil {
		e.CompanyOneLiner = strings.TrimSpace(stringify(v))
	}
	if v, ok := data["summary_zh_tw"]; ok && v != nil {
		e.SummaryZhTW = strings.TrimSpace(stringify(v))
	}
	if v, ok := data["summary_en"]; ok && v != nil {
		e.SummaryEN = strings.TrimSpace(stringify(v))
	}
	return &e, nil
}

func decodeObject(raw string) (map[string]any, error) {
	var data map[string]any
	err := json.Unmarshal([]byte(raw), &data)
	if err == nil && data != nil {
		return data, nil
	}
	if err == nil {
		return nil, gbinews.Errorf(gbinews.EINTERNAL, "gemini response is not a JSON object")
	}

	fenced := strings.Trim(raw, "` \n\r\t")
	fenced = strings.TrimSpace(strings.TrimPrefix(fenced, "json"))
	if json.Unmarshal([]byte(fenced), &data) == nil {
		return data, nil
	}

	m := objectRe.FindString(raw)
	if m == "" {
		return nil, gbinews.Errorf(gbinews.EINTERNAL, "gemini response is not JSON: %v", err)
	}
	if err := json.Unmarshal([]byte(m), &data); err != nil {
		return nil, gbinews.Errorf(gbinews.EINTERNAL, "gemini response is not JSON: %v", err)
	}
	return data, nil
}

// nameKeys are the fields checked, in order, when a list item is an object.
var nameKeys = []string{"name", "company", "org", "value", "text", "title"}

// names flattens a JSON list of strings or objects into trimmed, unique,
// non-empty names in their original order.
func names(v any) []string {
	out := []string{}
	items, ok := v.([]any)
	if !ok {
		if v == nil {
			return out
		}
		items = []any{v}
	}

	seen := make(map[string]bool)
	for _, item := range items {
		var s string
		switch item := item.(type) {
		case string:
			s = strings.TrimSpace(item)
		case map[string]any:
			s = objectName(item)
		case nil:
		default:
			s = strings.TrimSpace(stringify(item))
		}
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func objectName(obj map[string]any) string {
	for _, k := range nameKeys {
		if v, ok := obj[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return stringify(obj)
}

func stringify(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64, bool:
		return fmt.Sprint(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}
