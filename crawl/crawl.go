// Package crawl provides the news crawling pipeline. It coordinates index
// discovery, fetching, extraction, enrichment, storage, and CSV export of
// articles.
package crawl

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/gbinews"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of articles processed in parallel.
const DefaultConcurrency = 4

// MinBodyLen is the shortest body, in characters, worth storing.
const MinBodyLen = 10

// Pipeline orchestrates a crawl of the news index.
type Pipeline struct {
	Links        gbinews.LinkSource
	Fetcher      gbinews.Fetcher
	Extractor    gbinews.Extractor
	Enricher     gbinews.Enricher // nil disables enrichment
	Articles     gbinews.ArticleService
	Runs         gbinews.RunService    // optional
	Exporter     gbinews.Exporter      // optional
	TokenCounter gbinews.TokenCounter  // optional
	RateLimiter  gbinews.DomainLimiter // optional
	Concurrency  int
	RetryDelays  []time.Duration // nil means DefaultBackoff

	// Now returns the fetch time recorded on new articles. Defaults to time.Now.
	Now func() time.Time
}

// Options controls a single pipeline run.
type Options struct {
	MaxPages int
	All      bool
	Enrich   bool

	// Source labels the run record, e.g. "index" or "sitemap".
	Source string
}

// Result holds the outcome of a pipeline run.
type Result struct {
	RunID    string
	Found    int
	Skipped  int
	Saved    int
	Failed   int
	Exported int
	Tokens   int
}

// ProgressEvent reports progress during a pipeline run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	ArticleID string
	Headline  string
	Reason    string // why an article was skipped
	Count     int    // rows written by an export
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressRetry
	ProgressSkipped
	ProgressEnrichFailed
	ProgressFailed
	ProgressSaved
	ProgressExported
	ProgressFinished
)

// Skip reasons reported in ProgressEvent.Reason.
const (
	SkipNoArticleID = "no article ID in URL"
	SkipStored      = "already stored"
	SkipShortBody   = "body too short"
)

// ProgressFunc is a callback for reporting pipeline progress.
// It is always called from the goroutine running Run.
type ProgressFunc func(event ProgressEvent)

// job is an article URL scheduled for processing.
type job struct {
	index int
	url   string
	id    string
}

// jobResult holds the outcome of processing a single article.
type jobResult struct {
	index     int
	url       string
	id        string
	article   *gbinews.Article
	skip      string
	enrichErr error
	err       error
	tokens    int
}

// Run discovers article URLs and stores every article not seen before.
// Articles are saved in discovery order; after each save the CSV snapshot
// is refreshed, and a final export is written at the end. Export failures
// are reported through progress but do not stop the run.
func (p *Pipeline) Run(ctx context.Context, opts Options, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	result := &Result{}

	run := &gbinews.Run{Source: opts.Source}
	if run.Source == "" {
		run.Source = "index"
	}
	if p.Runs != nil {
		if err := p.Runs.CreateRun(ctx, run); err != nil {
			return nil, err
		}
		result.RunID = run.ID
	}

	urls, err := p.Links.Discover(ctx, opts.MaxPages, opts.All)
	if err != nil {
		return nil, err
	}
	result.Found = len(urls)
	total := len(urls)

	progress(ProgressEvent{Type: ProgressStarted, Total: total})

	seen, err := newSeenSet(ctx, p.Articles)
	if err != nil {
		return nil, err
	}

	completed := 0
	skip := func(u, id, reason string) {
		completed++
		result.Skipped++
		progress(ProgressEvent{
			Type:      ProgressSkipped,
			Completed: completed,
			Total:     total,
			URL:       u,
			ArticleID: id,
			Reason:    reason,
		})
	}

	var jobs []job
	for i, u := range urls {
		id := gbinews.ArticleIDFromURL(u)
		if id == "" {
			skip(u, "", SkipNoArticleID)
			continue
		}
		stored, err := seen.Has(ctx, id)
		if err != nil {
			return nil, err
		}
		if stored {
			skip(u, id, SkipStored)
			continue
		}
		jobs = append(jobs, job{index: i, url: u, id: id})
	}

	retries := make(chan ProgressEvent, 16)
	results := p.process(ctx, jobs, opts.Enrich, retries)

	// Results arrive in completion order; hold them until every earlier
	// article has been handled so saves follow discovery order.
	pending := make(map[int]jobResult)
	next := 0
	for results != nil || retries != nil {
		select {
		case ev, ok := <-retries:
			if !ok {
				retries = nil
				continue
			}
			ev.Completed, ev.Total = completed, total
			progress(ev)
		case r, ok := <-results:
			if !ok {
				results = nil
				continue
			}
			pending[r.index] = r
			for next < len(jobs) {
				ready, ok := pending[jobs[next].index]
				if !ok {
					break
				}
				delete(pending, ready.index)
				next++
				completed++
				p.handle(ctx, ready, seen, result, func(ev ProgressEvent) {
					ev.Completed, ev.Total = completed, total
					progress(ev)
				})
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if p.Exporter != nil {
		n, err := Export(ctx, p.Articles, p.Exporter)
		result.Exported = n
		progress(ProgressEvent{Type: ProgressExported, Completed: completed, Total: total, Count: n, Error: err})
	}

	if p.Runs != nil {
		run.Found, run.Skipped, run.Saved, run.Failed = result.Found, result.Skipped, result.Saved, result.Failed
		if err := p.Runs.FinishRun(ctx, run); err != nil {
			return result, err
		}
	}

	progress(ProgressEvent{Type: ProgressFinished, Completed: completed, Total: total})

	return result, nil
}

// process runs jobs on a bounded worker pool. Both returned channels are
// closed once every job has finished.
func (p *Pipeline) process(ctx context.Context, jobs []job, enrich bool, retries chan<- ProgressEvent) <-chan jobResult {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	out := make(chan jobResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, j := range jobs {
			g.Go(func() error {
				out <- p.processArticle(gctx, j, enrich, retries)
				return nil
			})
		}
		_ = g.Wait()
		close(out)
		close(retries)
	}()

	return out
}

// processArticle fetches, extracts, and enriches a single article.
func (p *Pipeline) processArticle(ctx context.Context, j job, enrich bool, retries chan<- ProgressEvent) jobResult {
	r := jobResult{index: j.index, url: j.url, id: j.id}

	if p.RateLimiter != nil {
		if u, err := url.Parse(j.url); err == nil {
			if err := p.RateLimiter.Wait(ctx, u.Host); err != nil {
				r.err = err
				return r
			}
		}
	}

	onRetry := func(u string, attempt int, err error) {
		select {
		case retries <- ProgressEvent{Type: ProgressRetry, URL: u, ArticleID: j.id, Count: attempt, Error: err}:
		case <-ctx.Done():
		}
	}
	html, err := Retrier{Delays: p.RetryDelays, OnRetry: onRetry}.Fetch(ctx, j.url, p.Fetcher.Fetch)
	if err != nil {
		r.err = err
		return r
	}

	extracted, err := p.Extractor.Extract(html, j.url)
	if err != nil {
		r.err = err
		return r
	}

	body := strings.TrimSpace(extracted.Body)
	if utf8.RuneCountInString(body) < MinBodyLen {
		r.skip = SkipShortBody
		return r
	}

	enrichment := gbinews.DefaultEnrichment()
	if enrich && p.Enricher != nil {
		e, err := p.Enricher.Enrich(ctx, extracted.Headline, extracted.PublishDate, body)
		if err != nil {
			r.enrichErr = err
		} else {
			enrichment = *e
		}
		if p.TokenCounter != nil {
			if tokens, err := p.TokenCounter.CountTokens(ctx, body); err == nil {
				r.tokens = tokens
			}
		}
	}

	r.article = &gbinews.Article{
		ID:          j.id,
		URL:         j.url,
		Headline:    extracted.Headline,
		PublishDate: extracted.PublishDate,
		Body:        body,
		FetchedAt:   p.now(),
		Enrichment:  enrichment,
	}
	return r
}

// handle stores a processed article and reports the outcome.
func (p *Pipeline) handle(ctx context.Context, r jobResult, seen *seenSet, result *Result, progress ProgressFunc) {
	switch {
	case r.err != nil:
		result.Failed++
		progress(ProgressEvent{Type: ProgressFailed, URL: r.url, ArticleID: r.id, Error: r.err})
		return
	case r.skip != "":
		result.Skipped++
		progress(ProgressEvent{Type: ProgressSkipped, URL: r.url, ArticleID: r.id, Reason: r.skip})
		return
	}

	if r.enrichErr != nil {
		progress(ProgressEvent{Type: ProgressEnrichFailed, URL: r.url, ArticleID: r.id, Error: r.enrichErr})
	}

	if err := p.Articles.UpsertArticle(ctx, r.article); err != nil {
		result.Failed++
		progress(ProgressEvent{Type: ProgressFailed, URL: r.url, ArticleID: r.id, Error: err})
		return
	}
	seen.Add(r.id)
	result.Saved++
	result.Tokens += r.tokens
	progress(ProgressEvent{Type: ProgressSaved, URL: r.url, ArticleID: r.id, Headline: r.article.Headline})

	if p.Exporter != nil {
		n, err := Export(ctx, p.Articles, p.Exporter)
		progress(ProgressEvent{Type: ProgressExported, URL: r.url, ArticleID: r.id, Count: n, Error: err})
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now().UTC()
}

// Export writes every stored article through exporter and returns the number
// of rows written.
func Export(ctx context.Context, articles gbinews.ArticleService, exporter gbinews.Exporter) (int, error) {
	all, err := articles.FindArticles(ctx, gbinews.ArticleFilter{})
	if err != nil {
		return 0, err
	}
	return exporter.Export(ctx, all)
}
