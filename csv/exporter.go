// Package csv writes and reads CSV snapshots of stored articles.
package csv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fwojciec/gbinews"
	"github.com/spf13/afero"
)

// Columns is the header row of an article snapshot.
var Columns = []string{
	"article_id",
	"url",
	"headline",
	"publish_date",
	"keywords",
	"companies_ranked",
	"primary_company",
	"company_one_liner",
	"summary_zh_tw",
	"summary_en",
	"fetched_at",
}

// listSep joins list fields into a single cell.
const listSep = ", "

// bom marks the file as UTF-8 for spreadsheet applications.
const bom = "\ufeff"

var _ gbinews.Exporter = (*Exporter)(nil)

// Exporter writes article snapshots to a CSV file. The file is replaced
// atomically: rows go to "<path>.tmp" first, which is then renamed.
type Exporter struct {
	fs   afero.Fs
	path string
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithFs sets the filesystem the snapshot is written to.
func WithFs(fs afero.Fs) Option {
	return func(e *Exporter) {
		e.fs = fs
	}
}

// NewExporter creates an Exporter writing to path.
func NewExporter(path string, opts ...Option) *Exporter {
	e := &Exporter{fs: afero.NewOsFs(), path: path}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Path returns the snapshot location.
func (e *Exporter) Path() string {
	return e.path
}

// Export replaces the snapshot with articles and returns the number of
// rows written. With no articles the existing snapshot is left untouched.
func (e *Exporter) Export(ctx context.Context, articles []*gbinews.Article) (int, error) {
	if len(articles) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	data, err := Encode(articles)
	if err != nil {
		return 0, err
	}

	if err := e.fs.MkdirAll(filepath.Dir(e.path), 0755); err != nil {
		return 0, fmt.Errorf("create export directory: %w", err)
	}

	tmp := e.path + ".tmp"
	if err := afero.WriteFile(e.fs, tmp, data, 0644); err != nil {
		_ = e.fs.Remove(tmp)
		return 0, fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := e.fs.Rename(tmp, e.path); err != nil {
		_ = e.fs.Remove(tmp)
		return 0, fmt.Errorf("replace %s: %w", e.path, err)
	}

	return len(articles), nil
}

// Encode renders articles as BOM-prefixed CSV with a header row.
func Encode(articles []*gbinews.Article) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(bom)

	w := csv.NewWriter(&buf)
	if err := w.Write(Columns); err != nil {
		return nil, err
	}
	for _, a := range articles {
		if err := w.Write(record(a)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func record(a *gbinews.Article) []string {
	fetchedAt := ""
	if !a.FetchedAt.IsZero() {
		fetchedAt = a.FetchedAt.UTC().Format(time.RFC3339)
	}
	return []string{
		a.ID,
		a.URL,
		a.Headline,
		a.PublishDate,
		strings.Join(a.Keywords, listSep),
		strings.Join(a.CompaniesRanked, listSep),
		a.PrimaryCompany,
		a.CompanyOneLiner,
		a.SummaryZhTW,
		a.SummaryEN,
		fetchedAt,
	}
}
