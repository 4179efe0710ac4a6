package mock

import "github.com/fwojciec/gbinews"

var _ gbinews.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of gbinews.Extractor.
type Extractor struct {
	ExtractFn func(html string, pageURL string) (*gbinews.ExtractResult, error)
}

func (e *Extractor) Extract(html string, pageURL string) (*gbinews.ExtractResult, error) {
	return e.ExtractFn(html, pageURL)
}
