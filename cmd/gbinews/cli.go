package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/crawl"
	"github.com/fwojciec/gbinews/goquery"
	"github.com/spf13/afero"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger // nil unless --verbose

	Articles gbinews.ArticleService
	Runs     gbinews.RunService
	Exporter gbinews.Exporter
	Pipeline *crawl.Pipeline

	// FS and CSVPath locate the CSV snapshot and audit output files.
	FS      afero.Fs
	CSVPath string

	// Used by the parse command.
	Fetcher    gbinews.Fetcher
	Extractor  gbinews.Extractor
	Candidates CandidateLister
}

// CandidateLister ranks the candidate body blocks of a page.
type CandidateLister interface {
	Candidates(html string) ([]goquery.Candidate, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB      string `name:"db" env:"GBINEWS_DB" help:"SQLite database path (default ~/.gbinews/news.db)"`
	CSV     string `name:"csv" env:"GBINEWS_CSV" help:"CSV snapshot path (default ~/.gbinews/articles.csv)"`
	Verbose bool   `short:"v" help:"Log fetches, extraction, and enrichment to stderr"`

	Run    RunCmd    `cmd:"" help:"Crawl the news index, enrich new articles, and export CSV"`
	Watch  WatchCmd  `cmd:"" help:"Run the crawl on a cron schedule until interrupted"`
	Parse  ParseCmd  `cmd:"" help:"Extract a single article page and print the result"`
	List   ListCmd   `cmd:"" help:"List stored articles"`
	Export ExportCmd `cmd:"" help:"Write the CSV snapshot of all stored articles"`
	Delete DeleteCmd `cmd:"" help:"Delete articles by ID"`
	Audit  AuditCmd  `cmd:"" help:"Find articles with failed or incomplete enrichment"`
	Runs   RunsCmd   `cmd:"" help:"Show recent pipeline runs"`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	MaxPages    int           `name:"max-pages" env:"PAGES_TO_SCAN" default:"2" help:"Index pages to scan unless --all"`
	All         bool          `help:"Crawl every index page"`
	NoEnrich    bool          `name:"no-enrich" help:"Skip Gemini enrichment (crawl and parse only)"`
	Sitemap     bool          `help:"Discover articles from the sitemap instead of the index"`
	Browser     bool          `help:"Render pages in a headless browser"`
	ChromeBin   string        `name:"chrome-bin" env:"GBINEWS_CHROME" help:"Chrome binary used with --browser"`
	Delay       float64       `env:"REQUEST_DELAY" default:"1.5" help:"Seconds between requests to the same host"`
	Concurrency int           `short:"c" default:"4" help:"Articles processed in parallel"`
	Timeout     time.Duration `short:"t" default:"20s" help:"Fetch timeout per page"`
	IndexURL    string        `name:"index-url" env:"GBINEWS_INDEX_URL" default:"https://news.gbimonthly.com/tw/article/index.php" help:"First page of the news index"`
	Model       string        `env:"GEMINI_MODEL" default:"gemini-2.5-flash" help:"Gemini model for enrichment"`
	APIKey      string        `name:"api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
}

// WatchCmd is the "watch" subcommand. It takes every run flag.
type WatchCmd struct {
	RunCmd `embed:""`

	Schedule string `env:"GBINEWS_SCHEDULE" default:"0 8 * * *" help:"Cron expression or descriptor such as @every 6h"`
	TZ       string `name:"tz" env:"GBINEWS_TZ" default:"Local" help:"Time zone the schedule is read in, e.g. Asia/Taipei"`
	Now      bool   `help:"Also run once at startup"`
}

// ParseCmd is the "parse" subcommand.
type ParseCmd struct {
	URL        string        `arg:"" help:"Article URL"`
	File       string        `short:"f" type:"existingfile" help:"Read HTML from a file instead of fetching the URL"`
	Browser    bool          `help:"Render the page in a headless browser"`
	ChromeBin  string        `name:"chrome-bin" env:"GBINEWS_CHROME" help:"Chrome binary used with --browser"`
	Candidates bool          `help:"Show ranked candidate blocks instead of the result"`
	Timeout    time.Duration `short:"t" default:"20s" help:"Fetch timeout"`
}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	ID    string `help:"Show a single article"`
	Limit int    `short:"n" default:"20" help:"Maximum articles to show (0 for all)"`
	Full  bool   `help:"Show summaries and body"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct{}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	IDs      string `name:"ids" help:"Comma-separated IDs, e.g. 80098,80123"`
	FromFile string `name:"from-file" type:"existingfile" help:"Text file with one ID per line"`
	NoExport bool   `name:"no-export" help:"Do not rewrite the CSV snapshot"`
}

// AuditCmd is the "audit" subcommand.
type AuditCmd struct {
	Out      string `arg:"" optional:"" help:"Write IDs to this file, one per line"`
	Snapshot bool   `help:"Audit the CSV snapshot instead of the database"`
}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Limit int `short:"n" default:"10" help:"Maximum runs to show"`
}
