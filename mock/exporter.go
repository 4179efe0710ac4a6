package mock

import (
	"context"

	"github.com/fwojciec/gbinews"
)

var _ gbinews.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of gbinews.Exporter.
type Exporter struct {
	ExportFn func(ctx context.Context, articles []*gbinews.Article) (int, error)
}

func (e *Exporter) Export(ctx context.Context, articles []*gbinews.Article) (int, error) {
	return e.ExportFn(ctx, articles)
}
