package goquery

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/gbinews"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Quality gates. The more generic the stage, the higher the bar.
const (
	// containerMinLen is the minimum body length accepted from the known container.
	containerMinLen = 200

	// candidateMinLen is the minimum normalized text length for a block to
	// enter the candidate pool.
	candidateMinLen = 200

	// candidateMinAlnum is the alphanumeric count a candidate block must exceed.
	candidateMinAlnum = 80

	// candidateAcceptLen is the minimum collected text length accepted from a candidate.
	candidateAcceptLen = 400

	// maxCandidates is the number of top-scored blocks tried.
	maxCandidates = 6

	// paragraphScore is the score added per paragraph inside a candidate.
	paragraphScore = 50

	// minParagraphLen is the shortest paragraph kept during collection.
	minParagraphLen = 10

	// markerMinOffset is the character offset a trailing boilerplate marker
	// must lie beyond before the body is truncated at it.
	markerMinOffset = 300
)

// DefaultParagraphFallback is the collected paragraph length below which
// collection falls back to a walk over every text node.
const DefaultParagraphFallback = 300

// containerSelectors locate the site's article body, most specific first.
var containerSelectors = []string{
	`div.editor.fsize_area[itemprop="articleBody"]`,
	`.editor.fsize_area[itemprop="articleBody"]`,
}

// containerNoise are widgets nested inside the article body container.
var containerNoise = []string{
	"div.copyright",
	"div.tagBox",
	"div.recommend",
	"div.reporter-con",
	"div.nextBox",
	"div.read",
	"div.sub-btn",
	"div.adBox",
}

// chromeSelectors match page furniture that never holds the article body.
var chromeSelectors = []string{
	"header", "nav", "footer", "aside",
	"ul.pager", "div.pager",
	"div#footer", "div.footer",
	"div.share", "div.social",
	"div.breadcrumb", "ol.breadcrumb",
	"div.related", "section.related",
	"div#sidebar", ".sidebar",
}

// chromeKeywords disqualify a candidate whose tag, class, or id contains them.
var chromeKeywords = []string{
	"header", "nav", "footer", "aside", "sidebar", "breadcrumb", "pager", "login", "member",
}

// trailingMarkers start the boilerplate that follows the article text.
var trailingMarkers = []string{"參考資料：", "(編譯", "©", "All rights reserved"}

var (
	stopTokenRe     = regexp.MustCompile(`(?i)(編輯推薦|延伸閱讀|當期雜誌|影音專區|參考資料|回列表頁|TOP|©)`)
	uiArtifactRe    = regexp.MustCompile(`(?:A\+|A-|加入收藏|Select Language)[\s\p{Zs}]*`)
	terminalRe      = regexp.MustCompile(`[。！？.!?]`)
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	blankLinesRe    = regexp.MustCompile(`\n{3,}`)
)

// bodyStage produces a body candidate and reports whether it passed its gate.
type bodyStage func(doc *goquery.Document) (string, bool)

// extractBody runs the body stages in order on doc, which it modifies.
// The last stage has no gate, so a string is always returned.
func (e *Extractor) extractBody(doc *goquery.Document) (string, gbinews.BodyStrategy) {
	stages := []struct {
		strategy gbinews.BodyStrategy
		run      bodyStage
	}{
		{gbinews.StrategyContainer, e.containerBody},
		{gbinews.StrategyCandidate, e.candidateBody},
	}
	for _, stage := range stages {
		if body, ok := stage.run(doc); ok {
			return body, stage.strategy
		}
	}
	return e.documentBody(doc), gbinews.StrategyDocument
}

// articleContainer returns the site's known article container with its
// nested widgets removed, or nil if doc has none.
func articleContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range containerSelectors {
		if s := doc.Find(selector).First(); s.Length() > 0 {
			for _, noise := range containerNoise {
				s.Find(noise).Remove()
			}
			return s
		}
	}
	return nil
}

// containerBody extracts text from the site's known article container.
func (e *Extractor) containerBody(doc *goquery.Document) (string, bool) {
	container := articleContainer(doc)
	if container == nil {
		return "", false
	}

	// Body text is not always wrapped in <p>, so keep <br> as line breaks.
	var b strings.Builder
	for _, root := range container.Nodes {
		for c := root.FirstChild; c != nil; c = c.NextSibling {
			walk(c, func(n *html.Node) {
				switch {
				case n.Type == html.TextNode:
					b.WriteString(normalize(n.Data))
				case n.Type == html.ElementNode && n.DataAtom == atom.Br:
					b.WriteString("\n")
				}
			})
		}
	}

	text := b.String()
	text = trailingSpaceRe.ReplaceAllString(text, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	text = uiArtifactRe.ReplaceAllString(text, "")
	text = truncateAtMarker(text)
	text = strings.TrimSpace(text)

	return text, runeLen(text) >= containerMinLen && terminalRe.MatchString(text)
}

// truncateAtMarker cuts text at the first trailing marker found beyond
// markerMinOffset. Markers are tried in order; earlier occurrences are
// treated as part of the article.
func truncateAtMarker(text string) string {
	for _, marker := range trailingMarkers {
		idx := strings.Index(text, marker)
		if idx == -1 || runeLen(text[:idx]) <= markerMinOffset {
			continue
		}
		return strings.TrimRightFunc(text[:idx], unicode.IsSpace)
	}
	return text
}

// candidate is a block provisionally considered as the article body.
type candidate struct {
	sel    *goquery.Selection
	text   string
	score  int
	pcount int
	order  int
}

// Candidate describes a ranked block, for diagnostics.
type Candidate struct {
	Tag        string
	Class      string
	ID         string
	Score      int
	Length     int
	Paragraphs int
	Text       string
}

// Candidates returns the blocks the candidate stage would try for rawHTML,
// best first. The page goes through the container stage's widget removal
// and the chrome stripping before ranking. Empty input has no candidates.
func (e *Extractor) Candidates(rawHTML string) ([]Candidate, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return []Candidate{}, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "failed to parse HTML: %v", err)
	}

	articleContainer(doc)
	ranked := rankCandidates(doc)
	out := make([]Candidate, 0, len(ranked))
	for _, c := range ranked {
		class, _ := c.sel.Attr("class")
		id, _ := c.sel.Attr("id")
		out = append(out, Candidate{
			Tag:        goquery.NodeName(c.sel),
			Class:      class,
			ID:         id,
			Score:      c.score,
			Length:     runeLen(c.text),
			Paragraphs: c.pcount,
			Text:       c.text,
		})
	}
	return out, nil
}

// candidateBody searches scored blocks for the article body.
func (e *Extractor) candidateBody(doc *goquery.Document) (string, bool) {
	for _, c := range rankCandidates(doc) {
		text := e.collectText(c.sel)
		if runeLen(text) >= candidateAcceptLen && terminalRe.MatchString(text) {
			return text, true
		}
	}
	return "", false
}

// rankCandidates strips chrome from doc and returns the best-scored blocks.
func rankCandidates(doc *goquery.Document) []candidate {
	for _, selector := range chromeSelectors {
		doc.Find(selector).Remove()
	}

	var candidates []candidate
	doc.Find("article, section, div").Each(func(i int, s *goquery.Selection) {
		if looksLikeChrome(s) {
			return
		}
		text := normalizedText(s)
		length := runeLen(text)
		if length < candidateMinLen || alnumCount(text) <= candidateMinAlnum {
			return
		}
		pcount := s.Find("p").Length()
		candidates = append(candidates, candidate{
			sel:    s,
			text:   text,
			score:  length + paragraphScore*pcount,
			pcount: pcount,
			order:  i,
		})
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].order < candidates[j].order
	})

	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}

// looksLikeChrome reports whether the element's tag, class, or id marks it
// as page furniture.
func looksLikeChrome(s *goquery.Selection) bool {
	switch goquery.NodeName(s) {
	case "header", "nav", "footer", "aside":
		return true
	}
	class, _ := s.Attr("class")
	id, _ := s.Attr("id")
	classID := strings.ToLower(class + " " + id)
	for _, kw := range chromeKeywords {
		if strings.Contains(classID, kw) {
			return true
		}
	}
	return false
}

// documentBody collects whatever text the page body holds.
func (e *Extractor) documentBody(doc *goquery.Document) string {
	body := doc.Find("body").First()
	if body.Length() == 0 {
		body = doc.Selection
	}
	return e.collectText(body)
}

// collectText gathers paragraph text from s, falling back to every text
// node when the paragraphs are too sparse to be the real content.
func (e *Extractor) collectText(s *goquery.Selection) string {
	var parts []string
	total := 0
	s.Find("p").Each(func(_ int, p *goquery.Selection) {
		t := normalizedText(p)
		if runeLen(t) < minParagraphLen || stopTokenRe.MatchString(t) {
			return
		}
		parts = append(parts, t)
		total += runeLen(t)
	})

	if total < e.paragraphFallback() {
		parts = textFragments(s)
	}

	text := strings.Join(parts, "\n\n")
	text = uiArtifactRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// textFragments returns every non-empty text node under s that carries no
// stop token. Fragments are later joined by blank lines, so <br> adds nothing.
func textFragments(s *goquery.Selection) []string {
	var parts []string
	for _, root := range s.Nodes {
		walk(root, func(n *html.Node) {
			if n.Type != html.TextNode {
				return
			}
			t := normalize(n.Data)
			if t == "" || stopTokenRe.MatchString(t) {
				return
			}
			parts = append(parts, t)
		})
	}
	return parts
}
