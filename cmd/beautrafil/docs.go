package main

import (
	"fmt"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// Run executes the docs command.
func (c *DocsCmd) Run(deps *Dependencies) error {
	filter := beautrafil.DocumentFilter{
		Limit:  c.Limit,
		SortBy: beautrafil.SortByFetchedAt,
	}
	if c.Status != "" {
		filter.Status = &c.Status
	}
	if c.URL != "" {
		filter.SourceURL = &c.URL
	}

	docs, err := deps.Documents.FindDocuments(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", beautrafil.ErrorMessage(err))
		return err
	}

	if len(docs) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents found.")
		return nil
	}

	if c.Full {
		for _, doc := range docs {
			fmt.Fprintf(deps.Stdout, "=== %s ===\n%s\n\n%s\n\n", doc.SourceURL, doc.Metadata, doc.Content)
		}
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Documents (%d total):\n\n", len(docs))
	for i, doc := range docs {
		title := doc.Title
		if title == "" {
			title = doc.SourceURL
		}
		fmt.Fprintf(deps.Stdout, "  %d. %s [%s]\n     %s\n     %s\n", i+1, title, doc.Status, doc.ID, doc.SourceURL)
	}

	return nil
}
