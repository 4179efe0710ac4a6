package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/gbinews"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, gbinews.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs recorded yet.")
		return nil
	}

	for _, r := range runs {
		status := "unfinished"
		if !r.FinishedAt.IsZero() {
			status = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %-7s  found=%d saved=%d skipped=%d failed=%d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Source,
			r.Found, r.Saved, r.Skipped, r.Failed, status)
	}
	return nil
}
