package mock

import (
	"context"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

var _ beautrafil.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of beautrafil.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, req *beautrafil.FetchRequest) (*beautrafil.RenderedDocument, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, req *beautrafil.FetchRequest) (*beautrafil.RenderedDocument, error) {
	return f.FetchFn(ctx, req)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
