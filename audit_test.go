package gbinews_test

import (
	"testing"

	"github.com/fwojciec/gbinews"
	"github.com/stretchr/testify/assert"
)

func completeArticle(id string) *gbinews.Article {
	return &gbinews.Article{
		ID:  id,
		URL: "https://news.gbimonthly.com/tw/article/show.php?num=" + id,
		Enrichment: gbinews.Enrichment{
			CompaniesRanked: []string{"台積電"},
			Keywords:        []string{"半導體", "晶圓", "先進製程"},
			PrimaryCompany:  "台積電",
			CompanyOneLiner: "全球最大的晶圓代工廠。",
			SummaryZhTW:     "摘要。",
			SummaryEN:       "Summary.",
		},
	}
}

func TestFailedEnrichments(t *testing.T) {
	t.Parallel()

	t.Run("returns nothing for complete enrichments", func(t *testing.T) {
		t.Parallel()

		ids := gbinews.FailedEnrichments([]*gbinews.Article{completeArticle("1"), completeArticle("2")})

		assert.Empty(t, ids)
	})

	t.Run("flags unknown primary company case-insensitively", func(t *testing.T) {
		t.Parallel()

		a := completeArticle("1")
		a.PrimaryCompany = " unknown "

		assert.Equal(t, []string{"1"}, gbinews.FailedEnrichments([]*gbinews.Article{a}))
	})

	t.Run("flags empty summaries", func(t *testing.T) {
		t.Parallel()

		zh := completeArticle("1")
		zh.SummaryZhTW = "  "
		en := completeArticle("2")
		en.SummaryEN = "[]"

		assert.Equal(t, []string{"1", "2"}, gbinews.FailedEnrichments([]*gbinews.Article{zh, en}))
	})

	t.Run("flags lists without meaningful entries", func(t *testing.T) {
		t.Parallel()

		kw := completeArticle("1")
		kw.Keywords = []string{"", " '' "}
		co := completeArticle("2")
		co.CompaniesRanked = nil

		assert.Equal(t, []string{"1", "2"}, gbinews.FailedEnrichments([]*gbinews.Article{kw, co}))
	})

	t.Run("flags default enrichment", func(t *testing.T) {
		t.Parallel()

		a := &gbinews.Article{ID: "9", Enrichment: gbinews.DefaultEnrichment()}

		assert.Equal(t, []string{"9"}, gbinews.FailedEnrichments([]*gbinews.Article{a}))
	})

	t.Run("deduplicates and skips articles without ID", func(t *testing.T) {
		t.Parallel()

		a := &gbinews.Article{ID: "5"}
		b := &gbinews.Article{ID: "5"}
		noID := &gbinews.Article{}

		assert.Equal(t, []string{"5"}, gbinews.FailedEnrichments([]*gbinews.Article{a, noID, b, nil}))
	})
}
