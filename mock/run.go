package mock

import (
	"context"

	"github.com/fwojciec/gbinews"
)

var _ gbinews.RunService = (*RunService)(nil)

// RunService is a mock implementation of gbinews.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *gbinews.Run) error
	FinishRunFn func(ctx context.Context, run *gbinews.Run) error
	FindRunsFn  func(ctx context.Context, filter gbinews.RunFilter) ([]*gbinews.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *gbinews.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *gbinews.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, filter gbinews.RunFilter) ([]*gbinews.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
