package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/gbinews"
	"github.com/fwojciec/gbinews/crawl"
	"github.com/fwojciec/gbinews/csv"
	"github.com/fwojciec/gbinews/gemini"
	"github.com/fwojciec/gbinews/goquery"
	gbihttp "github.com/fwojciec/gbinews/http"
	"github.com/fwojciec/gbinews/rod"
	gbislog "github.com/fwojciec/gbinews/slog"
	"github.com/fwojciec/gbinews/sqlite"
	"github.com/spf13/afero"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database and CSV paths used when no flag or environment variable
	// overrides them. Set before calling Run().
	DBPath  string
	CSVPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	ArticleService gbinews.ArticleService
	RunService     gbinews.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	dir := defaultDataDir()
	return &Main{
		DBPath:  filepath.Join(dir, "news.db"),
		CSVPath: filepath.Join(dir, "articles.csv"),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("gbinews"),
		kong.Description("Crawl GBI Monthly news, enrich articles with Gemini, and keep a CSV snapshot."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'gbinews --help' to see available commands")
	}

	switch args[0] {
	case "help", "--help", "-h":
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	var logger *slog.Logger
	if cli.Verbose {
		logger = slog.New(slog.NewTextHandler(stderr, nil))
	}
	deps.Logger = logger

	csvPath := cli.CSV
	if csvPath == "" {
		csvPath = m.CSVPath
	}
	deps.FS = afero.NewOsFs()
	deps.CSVPath = csvPath
	deps.Exporter = csv.NewExporter(csvPath, csv.WithFs(deps.FS))

	if cmd == "parse" {
		fetcher, err := newFetcher(cli.Parse.Browser, cli.Parse.ChromeBin, cli.Parse.Timeout, stderr)
		if err != nil {
			return err
		}
		defer fetcher.Close()

		extractor := goquery.NewExtractor()
		deps.Fetcher = fetcher
		deps.Extractor = extractor
		deps.Candidates = extractor
		if logger != nil {
			deps.Fetcher = gbislog.NewLoggingFetcher(fetcher, logger)
			deps.Extractor = gbislog.NewLoggingExtractor(extractor, logger)
		}
		return kongCtx.Run(deps)
	}

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set GBINEWS_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	m.ArticleService = sqlite.NewArticleService(m.DB)
	m.RunService = sqlite.NewRunService(m.DB)
	deps.Articles = m.ArticleService
	deps.Runs = m.RunService

	if cmd == "run" || cmd == "watch" {
		runCmd := &cli.Run
		if cmd == "watch" {
			runCmd = &cli.Watch.RunCmd
		}
		pipeline, closeFn, err := m.newPipeline(ctx, runCmd, logger, stderr)
		if err != nil {
			return err
		}
		defer closeFn()
		pipeline.Exporter = deps.Exporter
		deps.Pipeline = pipeline
	}

	return kongCtx.Run(deps)
}

// newPipeline wires the crawl pipeline for the run command. The returned
// function releases the fetcher.
func (m *Main) newPipeline(ctx context.Context, c *RunCmd, logger *slog.Logger, stderr io.Writer) (*crawl.Pipeline, func(), error) {
	var enricher gbinews.Enricher
	var tokenCounter gbinews.TokenCounter
	if !c.NoEnrich {
		if c.APIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey or pass --no-enrich")
			return nil, nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  c.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		enricher = gemini.NewEnricher(client, gemini.WithModel(c.Model))

		// The local tokenizer does not know every model.
		if tc, err := gemini.NewTokenCounter(c.Model); err == nil {
			tokenCounter = tc
		} else {
			fmt.Fprintf(stderr, "warning: token counting disabled: %v\n", err)
		}
	}

	fetcher, err := newFetcher(c.Browser, c.ChromeBin, c.Timeout, stderr)
	if err != nil {
		return nil, nil, err
	}

	var f gbinews.Fetcher = fetcher
	if logger != nil {
		f = gbislog.NewLoggingFetcher(fetcher, logger)
	}

	limiter := crawl.NewDomainLimiter(time.Duration(c.Delay * float64(time.Second)))
	extractor := goquery.NewExtractor()

	var links gbinews.LinkSource
	if c.Sitemap {
		links = gbihttp.NewSitemapSource(f, c.IndexURL)
	} else {
		links = &crawl.IndexCrawler{
			Fetcher:     f,
			Parser:      goquery.IndexParser{},
			RateLimiter: limiter,
			IndexURL:    c.IndexURL,
			OnRetry: func(url string, attempt int, err error) {
				fmt.Fprintf(stderr, "  retry %s (attempt %d): %v\n", crawl.ShortURL(url, 60), attempt, err)
			},
		}
	}

	p := &crawl.Pipeline{
		Links:        links,
		Fetcher:      f,
		Extractor:    extractor,
		Enricher:     enricher,
		Articles:     m.ArticleService,
		Runs:         m.RunService,
		TokenCounter: tokenCounter,
		RateLimiter:  limiter,
		Concurrency:  c.Concurrency,
	}
	if logger != nil {
		p.Links = gbislog.NewLoggingLinkSource(p.Links, logger)
		p.Extractor = gbislog.NewLoggingExtractor(extractor, logger)
		if p.Enricher != nil {
			p.Enricher = gbislog.NewLoggingEnricher(p.Enricher, logger)
		}
	}

	return p, func() { _ = fetcher.Close() }, nil
}

// newFetcher returns the browser fetcher when browser is set and the plain
// HTTP fetcher otherwise.
func newFetcher(browser bool, chromeBin string, timeout time.Duration, stderr io.Writer) (gbinews.Fetcher, error) {
	if !browser {
		return gbihttp.NewFetcher(gbihttp.WithTimeout(timeout)), nil
	}

	var opts []rod.ManagerOption
	if chromeBin != "" {
		opts = append(opts, rod.WithBrowserBin(chromeBin))
	}
	manager, err := rod.NewManager(opts...)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or set GBINEWS_CHROME")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return rod.NewFetcherWithManager(manager,
		rod.WithFetchTimeout(timeout),
		rod.WithUserAgent(gbihttp.DefaultUserAgent),
	), nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".gbinews")
}
