package rod

import (
	"context"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// FetchHTML performs a one-shot fetch: it launches a browser, fetches the
// requested page, and tears the browser down before returning. Callers
// fetching more than one page should construct a Fetcher instead so the
// browser process is reused.
func FetchHTML(ctx context.Context, req *beautrafil.FetchRequest, opts ...Option) (*beautrafil.RenderedDocument, error) {
	f, err := NewFetcher(opts...)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.Fetch(ctx, req)
}
