package crawl

import (
	"context"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/bloom"
)

// Seen-set sizing.
const (
	seenExpectedIDs       = 10000
	seenFalsePositiveRate = 0.01
)

// seenSet answers whether an article is already stored. The Bloom filter
// rules out new IDs without a query; positives are confirmed in the store.
type seenSet struct {
	filter   *bloom.Filter
	articles gbinews.ArticleService
}

// newSeenSet seeds a seenSet with every stored article ID.
func newSeenSet(ctx context.Context, articles gbinews.ArticleService) (*seenSet, error) {
	ids, err := articles.ListArticleIDs(ctx)
	if err != nil {
		return nil, err
	}

	filter := bloom.NewFilterWithIDs(ids, seenExpectedIDs, seenFalsePositiveRate)
	return &seenSet{filter: filter, articles: articles}, nil
}

// Has reports whether the article is stored.
func (s *seenSet) Has(ctx context.Context, id string) (bool, error) {
	if !s.filter.Test(id) {
		return false, nil
	}
	_, err := s.articles.FindArticleByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case gbinews.ErrorCode(err) == gbinews.ENOTFOUND:
		return false, nil
	default:
		return false, err
	}
}

// Add records a newly stored article.
func (s *seenSet) Add(id string) {
	s.filter.Add(id)
}
