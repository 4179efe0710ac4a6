package mock

import (
	"context"

	"github.com/fwojciec/gbinews"
)

var _ gbinews.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of gbinews.ArticleService.
type ArticleService struct {
	UpsertArticleFn   func(ctx context.Context, article *gbinews.Article) error
	FindArticleByIDFn func(ctx context.Context, id string) (*gbinews.Article, error)
	FindArticlesFn    func(ctx context.Context, filter gbinews.ArticleFilter) ([]*gbinews.Article, error)
	ListArticleIDsFn  func(ctx context.Context) ([]string, error)
	DeleteArticlesFn  func(ctx context.Context, ids []string) (int, error)
}

func (s *ArticleService) UpsertArticle(ctx context.Context, article *gbinews.Article) error {
	return s.UpsertArticleFn(ctx, article)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*gbinews.Article, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) FindArticles(ctx context.Context, filter gbinews.ArticleFilter) ([]*gbinews.Article, error) {
	return s.FindArticlesFn(ctx, filter)
}

func (s *ArticleService) ListArticleIDs(ctx context.Context) ([]string, error) {
	return s.ListArticleIDsFn(ctx)
}

func (s *ArticleService) DeleteArticles(ctx context.Context, ids []string) (int, error) {
	return s.DeleteArticlesFn(ctx, ids)
}
