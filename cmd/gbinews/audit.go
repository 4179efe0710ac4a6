package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/csv"
	"github.com/spf13/afero"
)

// Run executes the audit command.
func (c *AuditCmd) Run(deps *Dependencies) error {
	articles, err := c.load(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}

	ids := gbinews.FailedEnrichments(articles)

	if c.Out == "" {
		if len(ids) == 0 {
			fmt.Fprintln(deps.Stdout, "No failed rows detected.")
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(deps.Stdout, id)
		}
		return nil
	}

	var content string
	if len(ids) > 0 {
		content = strings.Join(ids, "\n") + "\n"
	}
	if err := afero.WriteFile(deps.FS, c.Out, []byte(content), 0644); err != nil {
		fmt.Fprintf(deps.Stderr, "error: cannot write %s: %v\n", c.Out, err)
		return err
	}

	if len(ids) == 0 {
		fmt.Fprintln(deps.Stdout, "No failed rows detected.")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "Wrote %d article_id(s) -> %s\n", len(ids), c.Out)
	return nil
}

func (c *AuditCmd) load(deps *Dependencies) ([]*gbinews.Article, error) {
	if c.Snapshot {
		articles, err := csv.ReadFile(deps.FS, deps.CSVPath)
		if err != nil {
			return nil, gbinews.Errorf(gbinews.EINVALID, "cannot read snapshot %s: %v", deps.CSVPath, err)
		}
		return articles, nil
	}
	return deps.Articles.FindArticles(deps.Ctx, gbinews.ArticleFilter{})
}
