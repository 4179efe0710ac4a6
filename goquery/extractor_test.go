package goquery_test

import (
	"strings"
	"testing"

	gq "github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleURL = "https://news.gbimonthly.com/tw/article/show.php?num=12345"

func page(body string) string {
	return "<!DOCTYPE html><html><head><title>GBI</title></head><body>" + body + "</body></html>"
}

func editor(inner string) string {
	return `<div class="editor fsize_area" itemprop="articleBody">` + inner + `</div>`
}

// sentence returns n characters of CJK text ending in a full stop.
func sentence(r string, n int) string {
	return strings.Repeat(r, n-1) + "。"
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("returns an empty result for empty HTML", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract("  \n", articleURL)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "12345", result.ArticleID)
		assert.Equal(t, articleURL, result.URL)
		assert.Empty(t, result.Headline)
		assert.Empty(t, result.PublishDate)
		assert.Empty(t, result.Body)
		assert.Equal(t, gbinews.StrategyDocument, result.Strategy)
	})

	t.Run("carries article ID and URL", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(page("<p>內容</p>"), articleURL)

		require.NoError(t, err)
		assert.Equal(t, "12345", result.ArticleID)
		assert.Equal(t, articleURL, result.URL)
	})

	t.Run("leaves article ID empty for non-numeric num", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract(page("<p>內容</p>"), "https://news.gbimonthly.com/tw/article/show.php?num=abc")

		require.NoError(t, err)
		assert.Empty(t, result.ArticleID)
	})

	t.Run("end to end with copyright block inside the container", func(t *testing.T) {
		t.Parallel()

		html := page(editor(`<p>第一段。</p><div class="copyright">版權</div><p>第二段！</p>`))

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, "第一段。\n\n第二段！", result.Body)
		assert.Equal(t, gbinews.StrategyDocument, result.Strategy)
	})
}

func TestExtractor_Body_Container(t *testing.T) {
	t.Parallel()

	t.Run("returns cleaned container text", func(t *testing.T) {
		t.Parallel()

		first := sentence("甲", 151)
		second := strings.Repeat("乙", 100) + "！"
		html := page(`<div class="titleBox"><h1>台灣生技公司發表新藥</h1></div>` +
			editor(first+`<br>`+second+
				`<div class="font">A+ A-</div>`+
				`<div class="copyright">版權所有 翻印必究</div>`+
				`<div class="adBox">廣告內容在這裡</div>`) +
			`<footer>頁尾</footer>`)

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, first+"\n"+second, result.Body)
		assert.Equal(t, gbinews.StrategyContainer, result.Strategy)
	})

	t.Run("ignores script text", func(t *testing.T) {
		t.Parallel()

		body := sentence("甲", 250)
		html := page(editor(body + `<script>var x = "不該出現";</script>`))

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, body, result.Body)
	})

	t.Run("truncates at copyright mark past offset 300", func(t *testing.T) {
		t.Parallel()

		body := sentence("甲", 351)
		html := page(editor(body + "©2024 GBI Monthly All rights reserved"))

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, body, result.Body)
		assert.Equal(t, gbinews.StrategyContainer, result.Strategy)
	})

	t.Run("keeps copyright mark before offset 300", func(t *testing.T) {
		t.Parallel()

		body := sentence("甲", 101) + "©GBI" + sentence("乙", 201)
		html := page(editor(body))

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, body, result.Body)
		assert.Equal(t, gbinews.StrategyContainer, result.Strategy)
	})

	t.Run("rejects container text of 199 characters", func(t *testing.T) {
		t.Parallel()

		html := page(editor(sentence("甲", 199)))

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.NotEqual(t, gbinews.StrategyContainer, result.Strategy)
	})

	t.Run("accepts container text of 200 characters", func(t *testing.T) {
		t.Parallel()

		html := page(editor(sentence("甲", 200)))

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, gbinews.StrategyContainer, result.Strategy)
	})

	t.Run("rejects container text without terminal punctuation", func(t *testing.T) {
		t.Parallel()

		html := page(editor(strings.Repeat("甲", 250)))

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.NotEqual(t, gbinews.StrategyContainer, result.Strategy)
	})
}

func TestExtractor_Body_Candidate(t *testing.T) {
	t.Parallel()

	t.Run("falls back when the container is absent", func(t *testing.T) {
		t.Parallel()

		html := page(`<div class="story"><p>一段不長的內容。</p></div>`)

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "一段不長的內容。", result.Body)
		assert.Equal(t, gbinews.StrategyDocument, result.Strategy)
	})

	t.Run("returns empty body for an empty page", func(t *testing.T) {
		t.Parallel()

		result, err := goquery.NewExtractor().Extract("<html><body></body></html>", articleURL)

		require.NoError(t, err)
		assert.Empty(t, result.Body)
		assert.Equal(t, gbinews.StrategyDocument, result.Strategy)
	})

	t.Run("rejects candidate text of 399 characters", func(t *testing.T) {
		t.Parallel()

		body := sentence("字", 399)

		result, err := goquery.NewExtractor().Extract(page(`<div class="story">`+body+`</div>`), articleURL)

		require.NoError(t, err)
		assert.Equal(t, gbinews.StrategyDocument, result.Strategy)
		assert.Equal(t, body, result.Body)
	})

	t.Run("accepts candidate text of 400 characters", func(t *testing.T) {
		t.Parallel()

		body := sentence("字", 400)

		result, err := goquery.NewExtractor().Extract(page(`<div class="story">`+body+`</div>`), articleURL)

		require.NoError(t, err)
		assert.Equal(t, gbinews.StrategyCandidate, result.Strategy)
		assert.Equal(t, body, result.Body)
	})

	t.Run("accepts candidate text of 401 characters", func(t *testing.T) {
		t.Parallel()

		body := sentence("字", 401)

		result, err := goquery.NewExtractor().Extract(page(`<div class="story">`+body+`</div>`), articleURL)

		require.NoError(t, err)
		assert.Equal(t, gbinews.StrategyCandidate, result.Strategy)
	})

	t.Run("joins qualifying paragraphs", func(t *testing.T) {
		t.Parallel()

		first := sentence("甲", 200)
		second := strings.Repeat("乙", 199) + "！"
		html := page(`<article>` +
			`<p>` + first + `</p>` +
			`<p>短句</p>` +
			`<p>延伸閱讀：其他文章標題在這裡</p>` +
			`<p>` + second + `</p>` +
			`</article>`)

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, first+"\n\n"+second, result.Body)
		assert.Equal(t, gbinews.StrategyCandidate, result.Strategy)
	})

	t.Run("walks all text when paragraphs are sparse", func(t *testing.T) {
		t.Parallel()

		lead := sentence("甲", 21)
		loose := sentence("乙", 401)
		html := page(`<div class="story"><p>` + lead + `</p>` + loose + `</div>`)

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, lead+"\n\n"+loose, result.Body)
		assert.Equal(t, gbinews.StrategyCandidate, result.Strategy)
	})

	t.Run("honors a custom paragraph fallback threshold", func(t *testing.T) {
		t.Parallel()

		lead := sentence("甲", 21)
		loose := sentence("乙", 401)
		html := page(`<div class="story"><p>` + lead + `</p>` + loose + `</div>`)

		extractor := &goquery.Extractor{ParagraphFallback: 10}
		result, err := extractor.Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, lead, result.Body)
		assert.Equal(t, gbinews.StrategyDocument, result.Strategy)
	})

	t.Run("never returns sidebar text as candidate", func(t *testing.T) {
		t.Parallel()

		html := page(`<div class="sidebar">` + sentence("側", 600) + `</div>`)

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, gbinews.StrategyDocument, result.Strategy)
		assert.NotContains(t, result.Body, "側")
	})

	t.Run("container noise removal carries into later stages", func(t *testing.T) {
		t.Parallel()

		tail := sentence("文", 50)
		html := page(editor(`<p>短。</p><div class="recommend">推薦文章標題</div>`) +
			`<div class="story">` + tail + `</div>`)

		result, err := goquery.NewExtractor().Extract(html, articleURL)

		require.NoError(t, err)
		assert.Equal(t, gbinews.StrategyDocument, result.Strategy)
		assert.Equal(t, "短。\n\n"+tail, result.Body)
	})
}

func TestExtractor_Candidates(t *testing.T) {
	t.Parallel()

	t.Run("rejects blocks of 199 characters", func(t *testing.T) {
		t.Parallel()

		candidates, err := goquery.NewExtractor().Candidates(page(`<div class="story">` + sentence("字", 199) + `</div>`))

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("accepts blocks of 200 characters", func(t *testing.T) {
		t.Parallel()

		candidates, err := goquery.NewExtractor().Candidates(page(`<div class="story">` + sentence("字", 200) + `</div>`))

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "div", candidates[0].Tag)
		assert.Equal(t, "story", candidates[0].Class)
		assert.Equal(t, 200, candidates[0].Length)
		assert.Equal(t, 200, candidates[0].Score)
	})

	t.Run("accepts blocks of 201 characters", func(t *testing.T) {
		t.Parallel()

		candidates, err := goquery.NewExtractor().Candidates(page(`<div class="story">` + sentence("字", 201) + `</div>`))

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, 201, candidates[0].Length)
	})

	t.Run("lists nothing for empty HTML", func(t *testing.T) {
		t.Parallel()

		candidates, err := goquery.NewExtractor().Candidates(" ")

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("ranks the container without its widgets", func(t *testing.T) {
		t.Parallel()

		// The container text has no terminal punctuation, so the container
		// stage rejects it and the candidate stage sees it without widgets.
		text := strings.Repeat("文", 250)
		html := page(`<div class="wrap">` + editor(text+`<div class="recommend">`+sentence("推", 300)+`</div>`) + `</div>`)

		candidates, err := goquery.NewExtractor().Candidates(html)

		require.NoError(t, err)
		require.NotEmpty(t, candidates)
		for _, c := range candidates {
			assert.NotContains(t, c.Text, "推")
		}

		result, err := goquery.NewExtractor().Extract(html, articleURL)
		require.NoError(t, err)
		assert.NotContains(t, result.Body, "推")
	})

	t.Run("rejects blocks with few letters or digits", func(t *testing.T) {
		t.Parallel()

		candidates, err := goquery.NewExtractor().Candidates(page(`<div class="story">` + strings.Repeat("字 。", 70) + `</div>`))

		require.NoError(t, err)
		assert.Empty(t, candidates)
	})

	t.Run("excludes chrome by class and id", func(t *testing.T) {
		t.Parallel()

		html := page(
			`<div class="right-sidebar-box">` + sentence("側", 500) + `</div>` +
				`<div id="memberLogin">` + sentence("會", 500) + `</div>` +
				`<section class="related">` + sentence("關", 500) + `</section>` +
				`<div class="story">` + sentence("文", 300) + `</div>`)

		candidates, err := goquery.NewExtractor().Candidates(html)

		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, "story", candidates[0].Class)
		for _, c := range candidates {
			assert.NotContains(t, strings.ToLower(c.Class), "sidebar")
		}
	})

	t.Run("scores paragraphs above raw length", func(t *testing.T) {
		t.Parallel()

		html := page(
			`<div class="long">` + sentence("長", 300) + `</div>` +
				`<div class="paras"><p>` + sentence("甲", 125) + `</p><p>` + sentence("乙", 125) + `</p></div>`)

		candidates, err := goquery.NewExtractor().Candidates(html)

		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, "paras", candidates[0].Class)
		assert.Equal(t, 2, candidates[0].Paragraphs)
		assert.Equal(t, 251+100, candidates[0].Score)
		assert.Equal(t, "long", candidates[1].Class)
	})

	t.Run("breaks score ties by document order", func(t *testing.T) {
		t.Parallel()

		html := page(
			`<div class="first">` + sentence("甲", 250) + `</div>` +
				`<div class="second">` + sentence("乙", 250) + `</div>`)

		candidates, err := goquery.NewExtractor().Candidates(html)

		require.NoError(t, err)
		require.Len(t, candidates, 2)
		assert.Equal(t, "first", candidates[0].Class)
		assert.Equal(t, "second", candidates[1].Class)
	})

	t.Run("keeps at most six blocks", func(t *testing.T) {
		t.Parallel()

		var b strings.Builder
		for range 8 {
			b.WriteString(`<div class="story">` + sentence("字", 250) + `</div>`)
		}

		candidates, err := goquery.NewExtractor().Candidates(page(b.String()))

		require.NoError(t, err)
		assert.Len(t, candidates, 6)
	})
}

func TestExtractor_ExtractDocument(t *testing.T) {
	t.Parallel()

	t.Run("is idempotent and leaves the document untouched", func(t *testing.T) {
		t.Parallel()

		html := page(`<nav>選單</nav>` + editor(`<p>第一段。</p><div class="copyright">版權</div><p>第二段！</p>`))
		doc, err := gq.NewDocumentFromReader(strings.NewReader(html))
		require.NoError(t, err)
		before, err := doc.Html()
		require.NoError(t, err)

		extractor := goquery.NewExtractor()
		first := extractor.ExtractDocument(doc, articleURL)
		second := extractor.ExtractDocument(doc, articleURL)

		after, err := doc.Html()
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, before, after)
		assert.Contains(t, after, "版權")
		assert.Contains(t, after, "選單")
	})
}

func TestExtractor_Headline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "title box",
			body: `<div class="titleBox"><h1>  台灣   生技 </h1></div><h1>其他更長的標題文字在這裡</h1>`,
			want: "台灣 生技",
		},
		{
			name: "short h1 falls through to h2",
			body: `<h1>短標題</h1><h2>這是一個比較長的副標題</h2>`,
			want: "這是一個比較長的副標題",
		},
		{
			name: "article h1 before page h1",
			body: `<h1>網站名稱標題文字</h1><article><h1>文章本身的標題文字</h1></article>`,
			want: "文章本身的標題文字",
		},
		{
			name: "strong text fallback",
			body: `<p>短</p><strong>內容足夠長的標題文字</strong>`,
			want: "內容足夠長的標題文字",
		},
		{
			name: "longest emphasis wins",
			body: `<b>六個字的標題</b><strong>比較長一點的標題文字</strong>`,
			want: "比較長一點的標題文字",
		},
		{
			name: "first wins ties",
			body: `<h3>第一個七字標題</h3><b>第二個七字標題</b>`,
			want: "第一個七字標題",
		},
		{
			name: "absent",
			body: `<p>內容</p><b>短</b>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := goquery.NewExtractor().Extract(page(tt.body), articleURL)

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.Headline)
		})
	}
}

func TestExtractor_PublishDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "reporter block",
			html: page(`<div class="reporter"><div class="date">2024/03/05 10:00</div></div>`),
			want: "2024-03-05",
		},
		{
			name: "labelled text",
			html: page(`<p>發佈日期：2023-12-01</p>`),
			want: "2023-12-01",
		},
		{
			name: "label with date in a child element",
			html: page(`<div class="info">發布日期: <b>2023/01/02</b></div>`),
			want: "2023-01-02",
		},
		{
			name: "meta tag",
			html: `<html><head><meta name="pubdate" content="2022-07-08"></head><body></body></html>`,
			want: "2022-07-08",
		},
		{
			name: "post meta block",
			html: page(`<div class="post-meta">Posted 2021/05/06 by staff</div>`),
			want: "2021-05-06",
		},
		{
			name: "reporter block before meta tag",
			html: `<html><head><meta name="date" content="2020-01-01"></head><body>` +
				`<div class="reporter"><div class="date">2024-02-03</div></div></body></html>`,
			want: "2024-02-03",
		},
		{
			name: "requires word boundaries",
			html: page(`<div class="meta">ref12024-02-031</div>`),
			want: "",
		},
		{
			name: "absent",
			html: page(`<p>沒有日期</p>`),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := goquery.NewExtractor().Extract(tt.html, articleURL)

			require.NoError(t, err)
			assert.Equal(t, tt.want, result.PublishDate)
		})
	}
}
