package gbinews

import "context"

// Exporter writes a snapshot of articles to an external format.
type Exporter interface {
	// Export replaces the snapshot with the given articles and returns the
	// number of rows written. An empty slice writes nothing and returns 0.
	Export(ctx context.Context, articles []*Article) (int, error)
}
