package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/gbinews"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ gbinews.RunService = (*RunService)(nil)

// RunService implements gbinews.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun records a new run with a generated ID and start time.
func (s *RunService) CreateRun(ctx context.Context, run *gbinews.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	run.StartedAt = time.Now().UTC()
	run.FinishedAt = time.Time{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at)
		VALUES (?, ?, ?)
	`, run.ID, run.Source, formatTime(run.StartedAt))

	return err
}

// FinishRun stores the run's counters and sets its finish time.
func (s *RunService) FinishRun(ctx context.Context, run *gbinews.Run) error {
	run.FinishedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, found = ?, skipped = ?, saved = ?, failed = ?
		WHERE id = ?
	`, formatTime(run.FinishedAt), run.Found, run.Skipped, run.Saved, run.Failed, run.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return gbinews.Errorf(gbinews.ENOTFOUND, "run not found")
	}

	return nil
}

// FindRuns retrieves runs matching the filter, most recent first.
func (s *RunService) FindRuns(ctx context.Context, filter gbinews.RunFilter) ([]*gbinews.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, source, started_at, finished_at, found, skipped, saved, failed FROM runs WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}

	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*gbinews.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func scanRun(rows *sql.Rows) (*gbinews.Run, error) {
	var run gbinews.Run
	var startedAt, finishedAt string

	if err := rows.Scan(&run.ID, &run.Source, &startedAt, &finishedAt,
		&run.Found, &run.Skipped, &run.Saved, &run.Failed); err != nil {
		return nil, err
	}

	var err error
	if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}

	return &run, nil
}
