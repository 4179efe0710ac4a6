// Package cron runs jobs on a cron schedule using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/gbinews"
	"github.com/robfig/cron/v3"
)

// Job is a unit of scheduled work. Its context is canceled when the
// scheduler stops.
type Job func(ctx context.Context) error

// Scheduler runs a Job on a cron schedule. A run that is still in
// progress when the next one is due causes that next run to be skipped.
type Scheduler struct {
	expr       string
	schedule   cron.Schedule
	job        Job
	location   *time.Location
	runOnStart bool
	logger     *slog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocation interprets the schedule in loc. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		s.location = loc
	}
}

// WithRunOnStart also runs the job as soon as the scheduler starts.
func WithRunOnStart(v bool) Option {
	return func(s *Scheduler) {
		s.runOnStart = v
	}
}

// WithLogger sets the logger for job start and completion.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler parses expr, a standard five-field cron expression or a
// descriptor such as "@daily" or "@every 6h".
// Returns EINVALID if expr cannot be parsed.
func NewScheduler(expr string, job Job, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		expr:     expr,
		job:      job,
		location: time.Local,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, gbinews.Errorf(gbinews.EINVALID, "invalid schedule %q: %v", expr, err)
	}
	s.schedule = schedule

	return s, nil
}

// Next returns the first scheduled time after t.
func (s *Scheduler) Next(t time.Time) time.Time {
	return s.schedule.Next(t.In(s.location))
}

// Run starts the schedule and blocks until ctx is canceled. It waits for a
// job in progress to return before returning itself.
func (s *Scheduler) Run(ctx context.Context) error {
	job := cron.NewChain(cron.SkipIfStillRunning(cron.DiscardLogger)).Then(cron.FuncJob(func() {
		s.runJob(ctx)
	}))

	c := cron.New(cron.WithLocation(s.location))
	c.Schedule(s.schedule, job)
	c.Start()

	var wg sync.WaitGroup
	if s.runOnStart {
		wg.Add(1)
		go func() {
			defer wg.Done()
			job.Run()
		}()
	}

	<-ctx.Done()
	<-c.Stop().Done()
	wg.Wait()

	return nil
}

func (s *Scheduler) runJob(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	s.logger.Info("job started", "schedule", s.expr)
	err := s.job(ctx)
	attrs := []any{"schedule", s.expr, "duration", time.Since(start)}
	if err != nil {
		s.logger.Error("job failed", append(attrs, "error", err)...)
		return
	}
	s.logger.Info("job finished", attrs...)
}
