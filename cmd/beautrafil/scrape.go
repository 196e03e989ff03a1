package main

import (
	"fmt"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
	"github.com/marksuguitan/beautrafil-scrape/scrape"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	tmpl := beautrafil.FetchRequest{
		Wait:       beautrafil.WaitCondition(c.Wait),
		Scroll:     c.Scroll,
		Stealth:    c.Stealth,
		BlockMedia: c.BlockMedia,
		RetryOn403: c.Retry403,
		MaxRetries: c.MaxRetries,
	}

	progress := func(event scrape.ProgressEvent) {
		switch event.Type {
		case scrape.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "Scraping %d URLs\n", event.Total)
		case scrape.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %s\n", event.Completed, event.Total, event.URL)
		case scrape.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", event.URL, event.Error)
		}
	}

	result, err := deps.Scraper.ScrapeURLs(deps.Ctx, c.URLs, tmpl, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beautrafil.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Saved %d documents (%d bytes)\n", result.Saved, result.Bytes)
	if result.Blocked > 0 {
		fmt.Fprintf(deps.Stdout, "  %d stored as blocked anti-bot pages\n", result.Blocked)
	}
	if result.Failed > 0 {
		fmt.Fprintf(deps.Stdout, "  %d failed\n", result.Failed)
	}
	if result.Skipped > 0 {
		fmt.Fprintf(deps.Stdout, "  %d duplicate URLs skipped\n", result.Skipped)
	}

	return nil
}
