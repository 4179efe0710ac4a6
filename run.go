package gbinews

import (
	"context"
	"time"
)

// Run records one execution of the crawl pipeline.
type Run struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"` // zero while running or if aborted

	Found   int `json:"found"`
	Skipped int `json:"skipped"`
	Saved   int `json:"saved"`
	Failed  int `json:"failed"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Source == "" {
		return Errorf(EINVALID, "run source required")
	}
	return nil
}

// RunService represents a service for recording pipeline runs.
type RunService interface {
	// CreateRun records the start of a run and assigns its ID.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the run's counters and marks it finished.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindRuns retrieves runs matching the filter, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID *string `json:"id"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
