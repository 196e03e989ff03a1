package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
	"github.com/marksuguitan/beautrafil-scrape/fs"
	"github.com/marksuguitan/beautrafil-scrape/goquery"
	"github.com/marksuguitan/beautrafil-scrape/htmlmarkdown"
	apphttp "github.com/marksuguitan/beautrafil-scrape/http"
	"github.com/marksuguitan/beautrafil-scrape/rod"
	"github.com/marksuguitan/beautrafil-scrape/scrape"
	appslog "github.com/marksuguitan/beautrafil-scrape/slog"
	"github.com/marksuguitan/beautrafil-scrape/sqlite"
	"github.com/marksuguitan/beautrafil-scrape/trafilatura"
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
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// DocumentService for end-to-end testing.
	DocumentService beautrafil.DocumentService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
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
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("beautrafil"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'beautrafil --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags.
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(stderr, nil))

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set BEAUTRAFIL_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	m.DocumentService = sqlite.NewDocumentService(m.DB)
	documents := m.DocumentService
	if cli.Verbose {
		documents = appslog.NewLoggingDocumentService(documents, logger)
	}
	deps.DB = m.DB
	deps.Documents = documents

	// Wire command-specific dependencies based on command.
	if cmd == "fetch" || cmd == "scrape" {
		static := cli.Fetch.Static
		if cmd == "scrape" {
			static = cli.Scrape.Static
		}

		var fetcher beautrafil.Fetcher
		if static {
			fetcher, err = apphttp.NewFetcher()
			if err != nil {
				return fmt.Errorf("failed to create fetcher: %w", err)
			}
		} else {
			fetcher, err = rod.NewFetcher(rod.WithLogger(logger))
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
		}
		defer fetcher.Close()

		if cli.Verbose {
			fetcher = rod.NewLoggingFetcher(fetcher, logger)
		}
		deps.Fetcher = fetcher
	}

	if cmd == "fetch" && cli.Fetch.Out != "" {
		deps.Pages = fs.NewPageStore(cli.Fetch.Out)
	}

	if cmd == "scrape" {
		deps.Scraper = &scrape.Scraper{
			Fetcher:     deps.Fetcher,
			Extractor:   trafilatura.NewExtractor(),
			MetaParser:  goquery.NewMetaParser(),
			Documents:   documents,
			RateLimiter: scrape.NewDomainLimiter(cli.Scrape.RPS),
			Concurrency: cli.Scrape.Concurrency,
			IngestedBy:  "beautrafil",
		}
		if cli.Scrape.Markdown {
			deps.Scraper.Converter = htmlmarkdown.NewConverter()
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	if path := os.Getenv("BEAUTRAFIL_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "beautrafil.db"
	}
	dir := filepath.Join(home, ".beautrafil")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "beautrafil.db")
}
