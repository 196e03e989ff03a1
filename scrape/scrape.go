// Package scrape provides batch scraping orchestration. It coordinates
// fetching, content extraction, metadata collection, and storage of pages.
package scrape

import (
	"context"
	"encoding/json"
	"net/url"
	"sync/atomic"

	"github.com/bits-and-blooms/bloom/v3"
	"golang.org/x/sync/errgroup"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// DefaultConcurrency is the number of pages processed in parallel.
const DefaultConcurrency = 5

// Scraper orchestrates the scraping of a batch of URLs.
type Scraper struct {
	Fetcher     beautrafil.Fetcher
	Extractor   beautrafil.Extractor
	MetaParser  beautrafil.MetaParser
	Converter   beautrafil.Converter // optional: store body as Markdown
	Documents   beautrafil.DocumentService
	RateLimiter beautrafil.DomainLimiter // optional
	Concurrency int
	IngestedBy  string // recorded on raw snapshots
}

// Result holds the outcome of a scrape operation.
type Result struct {
	Saved   int
	Failed  int
	Blocked int
	Skipped int
	Bytes   int
}

// ProgressType indicates the type of progress event.
type ProgressType int

// Progress event types.
const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressEvent reports progress during a scrape operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Error     error
}

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// scrapeResult holds the outcome of processing a single URL.
type scrapeResult struct {
	position int
	url      string
	html     string
	content  string
	metadata string
	title    string
	blocked  bool
	err      error
}

// ScrapeURLs fetches, extracts, and stores every URL in the batch. The
// request template carries the fetch options (stealth, media blocking,
// scroll, 403 retry); its URL field is replaced per page. Duplicate URLs
// within the batch are processed once.
//
// The progress callback, if provided, receives events as scraping proceeds.
func (s *Scraper) ScrapeURLs(ctx context.Context, urls []string, tmpl beautrafil.FetchRequest, progress ProgressFunc) (*Result, error) {
	urls, skipped := dedupe(urls)

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan scrapeResult, len(urls))

	var completed atomic.Int64
	total := len(urls)

	if progress != nil {
		progress(ProgressEvent{
			Type:  ProgressStarted,
			Total: total,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, pageURL := range urls {
			i, pageURL := i, pageURL
			g.Go(func() error {
				resultCh <- s.processURL(gctx, i, pageURL, tmpl)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in submission order.
	results := make([]scrapeResult, len(urls))
	var failedCount int
	for result := range resultCh {
		completed.Add(1)
		results[result.position] = result

		if progress != nil {
			event := ProgressEvent{
				Type:      ProgressCompleted,
				Completed: int(completed.Load()),
				Total:     total,
				URL:       result.url,
			}
			if result.err != nil {
				event.Type = ProgressFailed
				event.Error = result.err
			}
			progress(event)
		}
		if result.err != nil {
			failedCount++
		}
	}

	var savedCount, blockedCount, totalBytes int
	for _, result := range results {
		if result.err != nil {
			continue
		}

		status := beautrafil.StatusNew
		if result.blocked {
			status = beautrafil.StatusBlocked
		}

		doc := &beautrafil.Document{
			Title:     result.title,
			Content:   result.content,
			Metadata:  result.metadata,
			SourceURL: result.url,
			Source:    "browser",
			Status:    status,
		}
		if err := s.Documents.CreateDocument(ctx, doc); err != nil {
			failedCount++
			continue
		}

		raw := &beautrafil.RawDocument{
			DocumentID: doc.ID,
			RawData:    result.html,
			Format:     "html",
			IngestedBy: s.IngestedBy,
		}
		if err := s.Documents.CreateRawDocument(ctx, raw); err != nil {
			failedCount++
			continue
		}

		savedCount++
		totalBytes += len(result.content)
		if result.blocked {
			blockedCount++
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
		})
	}

	return &Result{
		Saved:   savedCount,
		Failed:  failedCount,
		Blocked: blockedCount,
		Skipped: skipped,
		Bytes:   totalBytes,
	}, nil
}

// processURL fetches and processes a single URL.
func (s *Scraper) processURL(ctx context.Context, position int, pageURL string, tmpl beautrafil.FetchRequest) scrapeResult {
	result := scrapeResult{
		position: position,
		url:      pageURL,
	}

	if s.RateLimiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			result.err = beautrafil.Errorf(beautrafil.EINVALID, "invalid URL %q: %v", pageURL, err)
			return result
		}
		if err := s.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			result.err = err
			return result
		}
	}

	req := tmpl
	req.URL = pageURL
	doc, err := s.Fetcher.Fetch(ctx, &req)
	if err != nil {
		result.err = err
		return result
	}
	result.html = doc.HTML
	result.blocked = doc.Blocked

	extracted, err := s.Extractor.Extract(doc.HTML)
	if err != nil {
		result.err = err
		return result
	}

	tags, err := s.MetaParser.Parse(doc.HTML)
	if err != nil {
		result.err = err
		return result
	}

	combined := beautrafil.Metadata{
		Title:    tags["title"],
		MetaTags: tags,
		Article:  extracted.Article,
	}
	if combined.Title == "" {
		combined.Title = extracted.Article.Title
	}
	metadata, err := json.Marshal(combined)
	if err != nil {
		result.err = err
		return result
	}
	result.metadata = string(metadata)
	result.title = combined.Title

	result.content = extracted.BodyText
	if s.Converter != nil && extracted.ContentHTML != "" {
		markdown, err := s.Converter.Convert(extracted.ContentHTML)
		if err != nil {
			result.err = err
			return result
		}
		result.content = markdown
	}

	return result
}

// dedupe removes duplicate URLs while preserving the order of first
// occurrence. The second return value is the number of duplicates dropped.
func dedupe(urls []string) ([]string, int) {
	if len(urls) == 0 {
		return urls, 0
	}

	seen := bloom.NewWithEstimates(uint(len(urls)), 0.001)
	unique := make([]string, 0, len(urls))
	// The filter can report false positives, so confirm against an exact
	// set before dropping a URL.
	exact := make(map[string]struct{}, len(urls))

	for _, u := range urls {
		if seen.TestOrAddString(u) {
			if _, dup := exact[u]; dup {
				continue
			}
		}
		exact[u] = struct{}{}
		unique = append(unique, u)
	}

	return unique, len(urls) - len(unique)
}
