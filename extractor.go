package gbinews

// BodyStrategy identifies which body extraction stage produced the text.
type BodyStrategy string

// Body extraction stages, in the order they are attempted.
const (
	StrategyContainer BodyStrategy = "container"
	StrategyCandidate BodyStrategy = "candidate"
	StrategyDocument  BodyStrategy = "document"
)

// ExtractResult holds the normalized record extracted from an article page.
// Empty strings mean the value could not be determined.
type ExtractResult struct {
	ArticleID   string
	URL         string
	Headline    string
	PublishDate string // YYYY-MM-DD
	Body        string

	// Strategy is the body stage whose output was accepted.
	Strategy BodyStrategy
}

// Extractor turns a raw article page into an ExtractResult.
type Extractor interface {
	// Extract parses raw HTML fetched from pageURL.
	// Poorly structured or empty pages degrade to an emptier result
	// rather than an error.
	Extract(html string, pageURL string) (*ExtractResult, error)
}
