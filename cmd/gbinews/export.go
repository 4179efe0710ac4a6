package main

import (
	"fmt"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/crawl"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	return exportSnapshot(deps)
}

// exportSnapshot rewrites the CSV snapshot from the database.
func exportSnapshot(deps *Dependencies) error {
	n, err := crawl.Export(deps.Ctx, deps.Articles, deps.Exporter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}
	if n == 0 {
		fmt.Fprintln(deps.Stdout, "[Export] No rows in DB yet. Skipping CSV.")
		return nil
	}
	fmt.Fprintf(deps.Stdout, "[Export] Wrote %d rows%s\n", n, exportTarget(deps))
	return nil
}
