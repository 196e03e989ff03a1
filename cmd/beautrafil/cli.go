package main

import (
	"context"
	"io"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
	"github.com/marksuguitan/beautrafil-scrape/fs"
	"github.com/marksuguitan/beautrafil-scrape/scrape"
	"github.com/marksuguitan/beautrafil-scrape/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	DB        *sqlite.DB
	Documents beautrafil.DocumentService
	Fetcher   beautrafil.Fetcher
	Pages     *fs.PageStore
	Scraper   *scrape.Scraper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Fetch  FetchCmd  `cmd:"" help:"Fetch a single rendered page"`
	Scrape ScrapeCmd `cmd:"" help:"Scrape pages and store extracted documents"`
	Docs   DocsCmd   `cmd:"" help:"List stored documents"`
	Delete DeleteCmd `cmd:"" help:"Delete a document and its raw snapshots"`

	Verbose bool `short:"v" help:"Log fetch and storage activity"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL        string `arg:"" help:"Page URL"`
	Wait       string `default:"networkidle" enum:"networkidle,load,domready" help:"Readiness condition"`
	Stealth    bool   `short:"s" help:"Apply a randomized browsing identity"`
	BlockMedia bool   `short:"b" help:"Abort image, video and font requests"`
	Scroll     bool   `help:"Auto-scroll to trigger lazy-loaded content"`
	Retry403   bool   `name:"retry-403" help:"Retry with a rotated identity on HTTP 403"`
	MaxRetries int    `default:"0" help:"Cap on 403-driven retries (0 uses the default)"`
	Static     bool   `help:"Use plain HTTP instead of a browser"`
	Out        string `short:"o" help:"Save HTML to this directory instead of stdout"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URLs        []string `arg:"" help:"Page URLs"`
	Wait        string   `default:"networkidle" enum:"networkidle,load,domready" help:"Readiness condition"`
	Stealth     bool     `short:"s" help:"Apply a randomized browsing identity"`
	BlockMedia  bool     `short:"b" help:"Abort image, video and font requests"`
	Scroll      bool     `help:"Auto-scroll to trigger lazy-loaded content"`
	Retry403    bool     `name:"retry-403" help:"Retry with a rotated identity on HTTP 403"`
	MaxRetries  int      `default:"0" help:"Cap on 403-driven retries (0 uses the default)"`
	Static      bool     `help:"Use plain HTTP instead of a browser"`
	Markdown    bool     `short:"m" help:"Store body content as Markdown"`
	Concurrency int      `short:"c" default:"5" help:"Concurrent fetch limit"`
	RPS         float64  `default:"1" help:"Requests per second per domain"`
}

// DocsCmd is the "docs" subcommand.
type DocsCmd struct {
	Status string `help:"Filter by status (new, blocked)"`
	URL    string `help:"Filter by source URL"`
	Limit  int    `default:"0" help:"Maximum number of documents to list"`
	Full   bool   `help:"Show full document content"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Document ID"`
	Force bool   `help:"Confirm deletion"`
}
