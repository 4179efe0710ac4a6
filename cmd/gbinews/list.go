package main

import (
	"fmt"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/crawl"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	if c.ID != "" {
		article, err := deps.Articles.FindArticleByID(deps.Ctx, c.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
			return err
		}
		fmt.Fprint(deps.Stdout, gbinews.FormatArticle(article))
		return nil
	}

	articles, err := deps.Articles.FindArticles(deps.Ctx, gbinews.ArticleFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}

	if len(articles) == 0 {
		fmt.Fprintln(deps.Stdout, "No articles found. Use 'gbinews run' to crawl the news index.")
		return nil
	}

	for i, a := range articles {
		if c.Full {
			if i > 0 {
				fmt.Fprintln(deps.Stdout)
			}
			fmt.Fprint(deps.Stdout, gbinews.FormatArticle(a))
			continue
		}
		date := a.PublishDate
		if date == "" {
			date = "----------"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %-20s  %s\n", a.ID, date, crawl.TruncateText(a.PrimaryCompany, 20), crawl.TruncateText(a.Headline, 50))
	}

	return nil
}
