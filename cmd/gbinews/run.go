package main

import (
	"fmt"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/crawl"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	pages := fmt.Sprintf("%d", c.MaxPages)
	if c.All {
		pages = "ALL"
	}
	source := "index"
	if c.Sitemap {
		source = "sitemap"
	}
	fmt.Fprintf(deps.Stdout, "[Crawl] %s pages = %s, delay=%gs\n", source, pages, c.Delay)

	enrich := !c.NoEnrich && deps.Pipeline.Enricher != nil
	if enrich {
		fmt.Fprintf(deps.Stdout, "[Gemini] model ready: %s\n", c.Model)
	} else {
		fmt.Fprintln(deps.Stdout, "[Gemini] enrichment disabled (--no-enrich)")
	}

	opts := crawl.Options{
		MaxPages: c.MaxPages,
		All:      c.All,
		Enrich:   enrich,
		Source:   source,
	}
	result, err := deps.Pipeline.Run(deps.Ctx, opts, func(ev crawl.ProgressEvent) {
		printProgress(deps, ev)
	})
	if err != nil {
		if result != nil && deps.Ctx.Err() != nil {
			fmt.Fprintf(deps.Stderr, "[Abort] interrupted after %d new row(s)\n", result.Saved)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "[Done] New rows this run: %d (skipped %d, failed %d)", result.Saved, result.Skipped, result.Failed)
	if enrich && result.Tokens > 0 {
		fmt.Fprintf(deps.Stdout, ", %s", crawl.FormatTokens(result.Tokens))
	}
	fmt.Fprintln(deps.Stdout)

	return nil
}

func printProgress(deps *Dependencies, ev crawl.ProgressEvent) {
	switch ev.Type {
	case crawl.ProgressStarted:
		fmt.Fprintf(deps.Stdout, "[Crawl] found %d article URLs\n", ev.Total)
	case crawl.ProgressRetry:
		fmt.Fprintf(deps.Stderr, "  retry %s (attempt %d): %v\n", crawl.ShortURL(ev.URL, 60), ev.Count, ev.Error)
	case crawl.ProgressSkipped:
		if ev.Reason != crawl.SkipStored {
			fmt.Fprintf(deps.Stdout, "[%03d] Skip (%s): %s\n", ev.Completed, ev.Reason, crawl.ShortURL(ev.URL, 60))
		}
	case crawl.ProgressEnrichFailed:
		fmt.Fprintf(deps.Stderr, "[%03d] Enrichment failed for %s, stored with defaults: %v\n", ev.Completed, ev.ArticleID, ev.Error)
	case crawl.ProgressFailed:
		fmt.Fprintf(deps.Stderr, "[%03d] Failed %s: %v\n", ev.Completed, crawl.ShortURL(ev.URL, 60), ev.Error)
	case crawl.ProgressSaved:
		fmt.Fprintf(deps.Stdout, "[%03d] Added: %s | %s\n", ev.Completed, ev.ArticleID, crawl.TruncateText(ev.Headline, 60))
	case crawl.ProgressExported:
		switch {
		case ev.Error != nil:
			fmt.Fprintf(deps.Stderr, "[Export] CSV export failed: %v\n", ev.Error)
		case ev.Count == 0:
			fmt.Fprintln(deps.Stdout, "[Export] No rows in DB yet. Skipping CSV.")
		case ev.ArticleID != "":
			fmt.Fprintf(deps.Stdout, "[Export] Checkpoint CSV (%d rows)%s\n", ev.Count, exportTarget(deps))
		default:
			fmt.Fprintf(deps.Stdout, "[Export] Final CSV (%d rows)%s\n", ev.Count, exportTarget(deps))
		}
	}
}

// exportTarget names the snapshot file for progress messages.
func exportTarget(deps *Dependencies) string {
	if deps.CSVPath == "" {
		return ""
	}
	return " -> " + deps.CSVPath
}
