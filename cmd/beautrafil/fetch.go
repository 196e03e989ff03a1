package main

import (
	"fmt"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	req := &beautrafil.FetchRequest{
		URL:        c.URL,
		Wait:       beautrafil.WaitCondition(c.Wait),
		Scroll:     c.Scroll,
		Stealth:    c.Stealth,
		BlockMedia: c.BlockMedia,
		RetryOn403: c.Retry403,
		MaxRetries: c.MaxRetries,
	}

	doc, err := deps.Fetcher.Fetch(deps.Ctx, req)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beautrafil.ErrorMessage(err))
		return err
	}

	if doc.Blocked {
		fmt.Fprintf(deps.Stderr, "warning: every attempt was rejected with 403 after %d retries; output is the last rendered page\n", doc.Attempts)
	}

	if deps.Pages != nil {
		path, err := deps.Pages.SaveHTML(c.URL, doc.HTML)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", beautrafil.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved %s (%d bytes)\n", path, len(doc.HTML))
		return nil
	}

	fmt.Fprintln(deps.Stdout, doc.HTML)
	return nil
}
