package gbinews

import (
	"context"
	"time"
)

// UnknownCompany is the placeholder primary company used when enrichment
// could not identify one.
const UnknownCompany = "Unknown"

// Enrichment holds the structured fields produced by the language model.
type Enrichment struct {
	CompaniesRanked []string `json:"companies_ranked"`
	Keywords        []string `json:"keywords"`
	PrimaryCompany  string   `json:"primary_company"`
	CompanyOneLiner string   `json:"company_one_liner"`
	SummaryZhTW     string   `json:"summary_zh_tw"`
	SummaryEN       string   `json:"summary_en"`
}

// DefaultEnrichment returns the enrichment stored when enrichment is
// disabled or fails.
func DefaultEnrichment() Enrichment {
	return Enrichment{
		CompaniesRanked: []string{},
		Keywords:        []string{},
		PrimaryCompany:  UnknownCompany,
	}
}

// Article represents an extracted and optionally enriched news article.
type Article struct {
	ID          string    `json:"article_id"`
	URL         string    `json:"url"`
	Headline    string    `json:"headline"`
	PublishDate string    `json:"publish_date"` // YYYY-MM-DD, empty if unknown
	Body        string    `json:"body"`
	BodyHash    string    `json:"body_hash"`
	FetchedAt   time.Time `json:"fetched_at"`

	Enrichment
}

// Validate returns an error if the article contains invalid fields.
func (a *Article) Validate() error {
	if a.ID == "" {
		return Errorf(EINVALID, "article ID required")
	}
	if a.URL == "" {
		return Errorf(EINVALID, "article URL required")
	}
	return nil
}

// ArticleService represents a service for managing articles.
type ArticleService interface {
	// UpsertArticle inserts the article or replaces the stored fields of an
	// existing article with the same ID. FetchedAt is set on first insert only.
	UpsertArticle(ctx context.Context, article *Article) error

	// FindArticleByID retrieves an article by ID.
	// Returns ENOTFOUND if article does not exist.
	FindArticleByID(ctx context.Context, id string) (*Article, error)

	// FindArticles retrieves articles matching the filter, newest publish date first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*Article, error)

	// ListArticleIDs returns the IDs of all stored articles.
	ListArticleIDs(ctx context.Context) ([]string, error)

	// DeleteArticles permanently removes the given articles.
	// Returns the number of articles deleted; unknown IDs are ignored.
	DeleteArticles(ctx context.Context, ids []string) (int, error)
}

// ArticleFilter represents a filter for FindArticles.
type ArticleFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
