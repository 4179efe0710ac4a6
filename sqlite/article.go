package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/gbinews"
)

// Compile-time interface verification.
var _ gbinews.ArticleService = (*ArticleService)(nil)

// ArticleService implements gbinews.ArticleService using SQLite.
type ArticleService struct {
	db *DB
}

// NewArticleService creates a new ArticleService.
func NewArticleService(db *DB) *ArticleService {
	return &ArticleService{db: db}
}

// hashBody returns the xxHash of body as 16 hex digits.
func hashBody(body string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(body))
}

const articleColumns = `article_id, url, headline, publish_date, body, body_hash,
	companies_ranked, keywords, primary_company, company_one_liner,
	summary_zh_tw, summary_en, fetched_at`

// UpsertArticle inserts the article or updates every stored field except
// fetched_at, which keeps the time the article was first seen.
func (s *ArticleService) UpsertArticle(ctx context.Context, article *gbinews.Article) error {
	if err := article.Validate(); err != nil {
		return err
	}

	article.BodyHash = hashBody(article.Body)
	if article.FetchedAt.IsZero() {
		article.FetchedAt = time.Now().UTC()
	}

	companies, err := encodeList(article.CompaniesRanked)
	if err != nil {
		return err
	}
	keywords, err := encodeList(article.Keywords)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(article_id) DO UPDATE SET
			url = excluded.url,
			headline = excluded.headline,
			publish_date = excluded.publish_date,
			body = excluded.body,
			body_hash = excluded.body_hash,
			companies_ranked = excluded.companies_ranked,
			keywords = excluded.keywords,
			primary_company = excluded.primary_company,
			company_one_liner = excluded.company_one_liner,
			summary_zh_tw = excluded.summary_zh_tw,
			summary_en = excluded.summary_en
	`, article.ID, article.URL, article.Headline, article.PublishDate, article.Body, article.BodyHash,
		companies, keywords, article.PrimaryCompany, article.CompanyOneLiner,
		article.SummaryZhTW, article.SummaryEN, formatTime(article.FetchedAt))

	return err
}

// FindArticleByID retrieves an article by ID.
func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*gbinews.Article, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE article_id = ?`, id)

	article, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, gbinews.Errorf(gbinews.ENOTFOUND, "article not found")
	}
	if err != nil {
		return nil, err
	}
	return article, nil
}

// FindArticles retrieves articles matching the filter. Articles are ordered
// by publish date, newest first with undated articles last, then by fetch time.
func (s *ArticleService) FindArticles(ctx context.Context, filter gbinews.ArticleFilter) ([]*gbinews.Article, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + articleColumns + " FROM articles WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND article_id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY publish_date = '' ASC, publish_date DESC, fetched_at DESC, article_id DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []*gbinews.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}

	return articles, rows.Err()
}

// ListArticleIDs returns the IDs of all stored articles.
func (s *ArticleService) ListArticleIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT article_id FROM articles ORDER BY article_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// DeleteArticles permanently removes the given articles. Blank IDs are
// ignored. Returns the number of rows deleted.
func (s *ArticleService) DeleteArticles(ctx context.Context, ids []string) (int, error) {
	var args []any
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			args = append(args, id)
		}
	}
	if len(args) == 0 {
		return 0, nil
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM articles WHERE article_id IN ("+placeholders(len(args))+")", args...)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*gbinews.Article, error) {
	var article gbinews.Article
	var companies, keywords, fetchedAt string

	if err := row.Scan(&article.ID, &article.URL, &article.Headline, &article.PublishDate,
		&article.Body, &article.BodyHash, &companies, &keywords, &article.PrimaryCompany,
		&article.CompanyOneLiner, &article.SummaryZhTW, &article.SummaryEN, &fetchedAt); err != nil {
		return nil, err
	}

	var err error
	if article.CompaniesRanked, err = decodeList(companies, "companies_ranked"); err != nil {
		return nil, err
	}
	if article.Keywords, err = decodeList(keywords, "keywords"); err != nil {
		return nil, err
	}
	if article.FetchedAt, err = parseTime(fetchedAt, "fetched_at"); err != nil {
		return nil, err
	}

	return &article, nil
}
