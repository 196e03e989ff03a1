package rod

import (
	"context"
	"log/slog"
	"time"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// Ensure LoggingFetcher implements beautrafil.Fetcher.
var _ beautrafil.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with per-fetch logging.
type LoggingFetcher struct {
	next   beautrafil.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next beautrafil.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the outcome of the fetch and delegates to the wrapped fetcher.
func (f *LoggingFetcher) Fetch(ctx context.Context, req *beautrafil.FetchRequest) (doc *beautrafil.RenderedDocument, err error) {
	defer func(begin time.Time) {
		var bytes, attempts int
		var blocked bool
		if doc != nil {
			bytes = len(doc.HTML)
			blocked = doc.Blocked
			attempts = doc.Attempts
		}
		f.logger.Info("fetch",
			"url", req.URL,
			"bytes", bytes,
			"blocked", blocked,
			"attempts", attempts,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, req)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
