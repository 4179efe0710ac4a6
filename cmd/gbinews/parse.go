package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/crawl"
)

// parseOutput is the JSON shape printed by the parse command.
type parseOutput struct {
	ArticleID   string `json:"article_id"`
	URL         string `json:"url"`
	Headline    string `json:"headline"`
	PublishDate string `json:"publish_date"`
	Strategy    string `json:"strategy"`
	Body        string `json:"body"`
}

// Run executes the parse command.
func (c *ParseCmd) Run(deps *Dependencies) error {
	html, err := c.load(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}

	if c.Candidates {
		return c.printCandidates(deps, html)
	}

	result, err := deps.Extractor.Extract(html, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(parseOutput{
		ArticleID:   result.ArticleID,
		URL:         result.URL,
		Headline:    result.Headline,
		PublishDate: result.PublishDate,
		Strategy:    string(result.Strategy),
		Body:        result.Body,
	})
}

func (c *ParseCmd) load(deps *Dependencies) (string, error) {
	if c.File != "" {
		b, err := os.ReadFile(c.File)
		if err != nil {
			return "", gbinews.Errorf(gbinews.EINVALID, "cannot read %s: %v", c.File, err)
		}
		return string(b), nil
	}

	html, err := deps.Fetcher.Fetch(deps.Ctx, c.URL)
	if err != nil {
		return "", gbinews.Errorf(gbinews.EINTERNAL, "fetch %s: %v", c.URL, err)
	}
	fmt.Fprintf(deps.Stderr, "fetched %s (%s)\n", crawl.ShortURL(c.URL, 60), crawl.FormatSize(len(html)))
	return html, nil
}

func (c *ParseCmd) printCandidates(deps *Dependencies, html string) error {
	if deps.Candidates == nil {
		err := gbinews.Errorf(gbinews.EINTERNAL, "candidate listing not available")
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}

	candidates, err := deps.Candidates.Candidates(html)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}
	if len(candidates) == 0 {
		fmt.Fprintln(deps.Stdout, "No candidate blocks found.")
		return nil
	}

	for i, cand := range candidates {
		label := cand.Tag
		if cand.ID != "" {
			label += "#" + cand.ID
		}
		for _, class := range strings.Fields(cand.Class) {
			label += "." + class
		}
		fmt.Fprintf(deps.Stdout, "%2d  score=%-5d chars=%-5d p=%-3d %s\n", i+1, cand.Score, cand.Length, cand.Paragraphs, label)
		fmt.Fprintf(deps.Stdout, "    %s\n", crawl.TruncateText(cand.Text, 80))
	}
	return nil
}
