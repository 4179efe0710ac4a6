package csv

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/gbinews"
	"github.com/spf13/afero"
)

// ReadArticles parses a snapshot written by Exporter. Columns are matched
// by header name, so snapshots with extra or reordered columns are accepted.
// The body is not part of a snapshot and is left empty.
func ReadArticles(r io.Reader) ([]*gbinews.Article, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, bom))
		index[name] = i
	}
	if _, ok := index["article_id"]; !ok {
		return nil, gbinews.Errorf(gbinews.EINVALID, "snapshot has no article_id column")
	}

	var articles []*gbinews.Article
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		a := &gbinews.Article{
			ID:          field("article_id"),
			URL:         field("url"),
			Headline:    field("headline"),
			PublishDate: field("publish_date"),
			Enrichment: gbinews.Enrichment{
				Keywords:        splitList(field("keywords")),
				CompaniesRanked: splitList(field("companies_ranked")),
				PrimaryCompany:  field("primary_company"),
				CompanyOneLiner: field("company_one_liner"),
				SummaryZhTW:     field("summary_zh_tw"),
				SummaryEN:       field("summary_en"),
			},
		}
		if t, err := time.Parse(time.RFC3339, field("fetched_at")); err == nil {
			a.FetchedAt = t
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// ReadFile reads a snapshot from path on fs.
func ReadFile(fs afero.Fs, path string) ([]*gbinews.Article, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadArticles(f)
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
