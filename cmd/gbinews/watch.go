package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/cron"
)

// Run executes the watch command.
func (c *WatchCmd) Run(deps *Dependencies) error {
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		err = gbinews.Errorf(gbinews.EINVALID, "unknown time zone %q", c.TZ)
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}

	opts := []cron.Option{cron.WithLocation(loc), cron.WithRunOnStart(c.Now)}
	if deps.Logger != nil {
		opts = append(opts, cron.WithLogger(deps.Logger))
	}

	s, err := cron.NewScheduler(c.Schedule, func(ctx context.Context) error {
		runDeps := *deps
		runDeps.Ctx = ctx
		return c.RunCmd.Run(&runDeps)
	}, opts...)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "[Watch] schedule %q (%s), next run %s\n",
		c.Schedule, loc, s.Next(time.Now()).Format("2006-01-02 15:04 MST"))

	if err := s.Run(deps.Ctx); err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, "[Watch] stopped")
	return nil
}
