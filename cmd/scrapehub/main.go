package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/scrapehub"
	"github.com/fwojciec/scrapehub/crawl"
	"github.com/fwojciec/scrapehub/goquery"
	shttp "github.com/fwojciec/scrapehub/http"
	"github.com/fwojciec/scrapehub/nethtml"
	shslog "github.com/fwojciec/scrapehub/slog"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Scraper replaces the wired crawler when set. Used for end-to-end testing.
	Scraper scrapehub.Scraper
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("scrapehub"),
		kong.Description("Scrape article text from news index pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'scrapehub --help' to see available commands")
	}

	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cli.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", cli.LogLevel, err)
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	scraper := m.Scraper
	if scraper == nil {
		scraper = newCrawler(cli, deps.Logger)
	}
	deps.Scraper = shslog.NewLoggingScraper(scraper, deps.Logger)

	return kongCtx.Run(deps)
}

// newCrawler wires the production scraping pipeline.
func newCrawler(cli *CLI, logger *slog.Logger) *crawl.Crawler {
	sessions := shttp.NewSessions(
		shttp.WithTimeout(cli.Timeout),
		shttp.WithImpersonation(cli.Impersonate),
	)
	return &crawl.Crawler{
		Sessions:    shslog.NewLoggingSessionOpener(sessions, logger),
		Classifier:  shslog.NewLoggingClassifier(goquery.NewClassifier(), logger),
		Reducer:     shslog.NewLoggingReducer(nethtml.NewReducer(), logger),
		Concurrency: cli.Concurrency,
		RetryDelays: crawl.RetryDelays(cli.Retries, time.Second),
		Logger:      logger,
	}
}
