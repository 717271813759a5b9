package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	betterbing "github.com/huyouare/better-bing"
	"github.com/huyouare/better-bing/crawl"
	"github.com/huyouare/better-bing/fs"
	"github.com/huyouare/better-bing/goquery"
	"github.com/huyouare/better-bing/htmltomarkdown"
	bbhttp "github.com/huyouare/better-bing/http"
	"github.com/huyouare/better-bing/readability"
	"github.com/huyouare/better-bing/rod"
	bbslog "github.com/huyouare/better-bing/slog"
	"github.com/huyouare/better-bing/sqlite"
	"github.com/huyouare/better-bing/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct{}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bbcrawl"),
		kong.Description("Crawl the pages a seed page links to and save their text"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Vars(cfg.Vars()),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle no arguments
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	_, err = parser.Parse(args)
	if err != nil {
		return err
	}

	if cli.Output == "" {
		cli.Output = DefaultOutputRoot(cli.URL)
	}

	var logger *slog.Logger
	if cli.Debug {
		logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	extractor, err := newExtractor(cli.Extractor)
	if err != nil {
		return err
	}

	var fetcher betterbing.Fetcher = bbhttp.NewFetcher(
		bbhttp.WithTimeout(cli.Timeout),
		bbhttp.WithUserAgent(cli.UserAgent),
	)
	if cli.Render != "off" {
		opts := []rod.Option{
			rod.WithFetchTimeout(cli.Timeout),
			rod.WithUserAgent(cli.UserAgent),
		}
		if cli.Browser != "" {
			opts = append(opts, rod.WithBrowser(cli.Browser))
		}
		rodFetcher, err := rod.NewFetcher(opts...)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed for --render")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		defer rodFetcher.Close()

		if cli.Render == "auto" {
			fetcher = crawl.ChooseFetcher(ctx, cli.URL, fetcher, rodFetcher, extractor)
		} else {
			fetcher = rodFetcher
		}
	}

	var selector betterbing.LinkSelector = goquery.NewLinkSelector()
	var storeOpts []fs.StoreOption
	if logger != nil {
		storeOpts = append(storeOpts, fs.WithLogger(logger))
	}
	var store betterbing.PageStore = fs.NewStore(storeOpts...)
	var onRetry crawl.RetryFunc
	if logger != nil {
		fetcher = bbslog.NewLoggingFetcher(fetcher, logger)
		extractor = bbslog.NewLoggingTextExtractor(extractor, logger)
		selector = bbslog.NewLoggingLinkSelector(selector, logger)
		store = bbslog.NewLoggingPageStore(store, logger)
		onRetry = func(url string, attempt int, wait time.Duration, err error) {
			logger.Warn("retry", "url", url, "attempt", attempt, "wait", wait, "err", err)
		}
	}

	pages := &crawl.PageFetcher{
		Fetcher:   fetcher,
		Extractor: extractor,
		Timeout:   cli.Timeout,
		OnRetry:   onRetry,
	}
	if cli.RPS > 0 {
		pages.RateLimiter = crawl.NewDomainLimiter(cli.RPS)
	}

	links := &crawl.LinkExtractor{Pages: pages, Selector: selector}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Links:  links,
		Crawler: &crawl.Crawler{
			Links:       links,
			Pages:       pages,
			Store:       store,
			Concurrency: cli.Concurrency,
		},
	}

	if cli.History != "" {
		db := sqlite.NewDB(cli.History)
		if err := db.Open(); err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer db.Close()
		deps.Reports = sqlite.NewReportService(db)
	}

	cmd := &CrawlCmd{
		SeedURL:    cli.URL,
		OutputRoot: cli.Output,
		Limit:      cli.Limit,
		Preview:    cli.Preview,
		Single:     cli.Single,
		JSON:       cli.JSON,
	}

	return cmd.Run(deps)
}

// CLI defines the command-line interface structure for Kong.
// Defaults are interpolated from the configuration file, if any.
type CLI struct {
	URL    string `arg:"" required:"" help:"Seed page whose links are crawled"`
	Output string `arg:"" optional:"" help:"Output directory (default: seed host with dots replaced by dashes)"`

	Limit       int           `short:"n" default:"${limit}" env:"BBCRAWL_LIMIT" help:"Maximum pages to fetch (0 discovers only)"`
	Concurrency int           `short:"c" default:"${concurrency}" env:"BBCRAWL_CONCURRENCY" help:"Concurrent fetch limit"`
	Timeout     time.Duration `short:"t" default:"${timeout}" env:"BBCRAWL_TIMEOUT" help:"Fetch timeout per attempt"`
	RPS         float64       `default:"${rps}" env:"BBCRAWL_RPS" help:"Requests per second per domain (0 is unlimited)"`
	Extractor   string        `short:"e" default:"${extractor}" enum:"text,trafilatura,readability,markdown" env:"BBCRAWL_EXTRACTOR" help:"Text extractor: ${enum}"`
	Render      string        `default:"${render}" enum:"off,on,auto" env:"BBCRAWL_RENDER" help:"Render pages in a headless browser: ${enum}"`
	UserAgent   string        `default:"${user_agent}" env:"BBCRAWL_USER_AGENT" help:"User-Agent header for HTTP requests"`
	Browser     string        `default:"${browser}" env:"BBCRAWL_BROWSER" help:"Chrome or Chromium binary used with --render"`
	History     string        `default:"${history}" env:"BBCRAWL_HISTORY" help:"SQLite database that records every crawl"`

	Preview bool   `short:"p" help:"List the URLs that would be fetched without saving"`
	Single  bool   `help:"Save only the seed page"`
	JSON    bool   `help:"Print the crawl report as JSON"`
	Debug   bool   `short:"d" env:"BBCRAWL_DEBUG" help:"Log every fetch and write to stderr"`
	Config  string `env:"BBCRAWL_CONFIG" help:"Configuration file (default: ./${config_file} or ~/${config_file})"`
}

func defaultVars() map[string]string {
	return map[string]string{
		"limit":       "1000",
		"concurrency": fmt.Sprint(crawl.DefaultConcurrency),
		"timeout":     crawl.DefaultFetchTimeout.String(),
		"rps":         "0",
		"extractor":   "text",
		"render":      "off",
		"user_agent":  bbhttp.DefaultUserAgent,
		"browser":     "",
		"history":     "",
		"config_file": DefaultConfigFile,
	}
}

// loadConfig reads the configuration file named by --config or
// BBCRAWL_CONFIG, falling back to the default locations.
func loadConfig(args []string) (*File, error) {
	path := configFlag(args)
	if path == "" {
		path = os.Getenv("BBCRAWL_CONFIG")
	}

	found := FindConfigFile(path)
	if found == "" {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, nil
	}

	cf, err := LoadConfigFile(found)
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return nil, fmt.Errorf("%s: %w", found, err)
	}
	return cf, nil
}

func newExtractor(name string) (betterbing.TextExtractor, error) {
	switch name {
	case "", "text":
		return goquery.NewTextExtractor(), nil
	case "trafilatura":
		return trafilatura.NewExtractor(), nil
	case "readability":
		return readability.NewExtractor(), nil
	case "markdown":
		return htmltomarkdown.NewExtractor(), nil
	default:
		return nil, betterbing.Errorf(betterbing.EINVALID, "unknown extractor %q", name)
	}
}
