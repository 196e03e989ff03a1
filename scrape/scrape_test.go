package scrape_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
	"github.com/marksuguitan/beautrafil-scrape/mock"
	"github.com/marksuguitan/beautrafil-scrape/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryDocuments collects created documents and snapshots in memory.
type memoryDocuments struct {
	mu   sync.Mutex
	docs []*beautrafil.Document
	raws []*beautrafil.RawDocument
	mock.DocumentService
}

func newMemoryDocuments() *memoryDocuments {
	m := &memoryDocuments{}
	m.CreateDocumentFn = func(_ context.Context, doc *beautrafil.Document) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		doc.ID = doc.SourceURL
		m.docs = append(m.docs, doc)
		return nil
	}
	m.CreateRawDocumentFn = func(_ context.Context, raw *beautrafil.RawDocument) error {
		m.mu.Lock()
		defer m.mu.Unlock()
		raw.Version = 1
		m.raws = append(m.raws, raw)
		return nil
	}
	return m
}

func testScraper(docs *memoryDocuments) *scrape.Scraper {
	return &scrape.Scraper{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, req *beautrafil.FetchRequest) (*beautrafil.RenderedDocument, error) {
				return &beautrafil.RenderedDocument{HTML: "<html>" + req.URL + "</html>"}, nil
			},
		},
		Extractor: &mock.Extractor{
			ExtractFn: func(html string) (*beautrafil.Extraction, error) {
				return &beautrafil.Extraction{
					BodyText:    "body of " + html,
					ContentHTML: "<p>body</p>",
					Article:     beautrafil.ArticleMetadata{Title: "Article Title", Author: "Jane"},
				}, nil
			},
		},
		MetaParser: &mock.MetaParser{
			ParseFn: func(string) (map[string]string, error) {
				return map[string]string{"title": "Page Title", "og:type": "article"}, nil
			},
		},
		Documents:  docs,
		IngestedBy: "scrape-test",
	}
}

func TestScraper_ScrapeURLs(t *testing.T) {
	t.Parallel()

	t.Run("saves document and raw snapshot per URL", func(t *testing.T) {
		t.Parallel()

		docs := newMemoryDocuments()
		s := testScraper(docs)

		result, err := s.ScrapeURLs(context.Background(),
			[]string{"https://example.com/a", "https://example.com/b"},
			beautrafil.FetchRequest{}, nil)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 0, result.Failed)
		require.Len(t, docs.docs, 2)
		require.Len(t, docs.raws, 2)
		assert.Equal(t, "scrape-test", docs.raws[0].IngestedBy)
		assert.Equal(t, "html", docs.raws[0].Format)
	})

	t.Run("combines extractor and meta tag metadata", func(t *testing.T) {
		t.Parallel()

		docs := newMemoryDocuments()
		s := testScraper(docs)

		_, err := s.ScrapeURLs(context.Background(),
			[]string{"https://example.com/meta"},
			beautrafil.FetchRequest{}, nil)
		require.NoError(t, err)
		require.Len(t, docs.docs, 1)

		var meta beautrafil.Metadata
		require.NoError(t, json.Unmarshal([]byte(docs.docs[0].Metadata), &meta))
		assert.Equal(t, "Page Title", meta.Title)
		assert.Equal(t, "article", meta.MetaTags["og:type"])
		assert.Equal(t, "Jane", meta.Article.Author)
		assert.Equal(t, "Page Title", docs.docs[0].Title)
	})

	t.Run("marks exhausted fetches as blocked", func(t *testing.T) {
		t.Parallel()

		docs := newMemoryDocuments()
		s := testScraper(docs)
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, req *beautrafil.FetchRequest) (*beautrafil.RenderedDocument, error) {
				return &beautrafil.RenderedDocument{HTML: "<html>challenge</html>", Blocked: true, Attempts: 2}, nil
			},
		}

		result, err := s.ScrapeURLs(context.Background(),
			[]string{"https://example.com/denied"},
			beautrafil.FetchRequest{RetryOn403: true}, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Blocked)
		require.Len(t, docs.docs, 1)
		assert.Equal(t, beautrafil.StatusBlocked, docs.docs[0].Status)
	})

	t.Run("counts fetch failures without saving", func(t *testing.T) {
		t.Parallel()

		docs := newMemoryDocuments()
		s := testScraper(docs)
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, req *beautrafil.FetchRequest) (*beautrafil.RenderedDocument, error) {
				if req.URL == "https://example.com/bad" {
					return nil, beautrafil.Errorf(beautrafil.ENAVIGATION, "unreachable")
				}
				return &beautrafil.RenderedDocument{HTML: "<html>ok</html>"}, nil
			},
		}

		result, err := s.ScrapeURLs(context.Background(),
			[]string{"https://example.com/good", "https://example.com/bad"},
			beautrafil.FetchRequest{}, nil)
		require.NoError(t, err)

		assert.Equal(t, 1, result.Saved)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, docs.docs, 1)
		assert.Equal(t, "https://example.com/good", docs.docs[0].SourceURL)
	})

	t.Run("skips duplicate URLs", func(t *testing.T) {
		t.Parallel()

		docs := newMemoryDocuments()
		s := testScraper(docs)

		result, err := s.ScrapeURLs(context.Background(),
			[]string{"https://example.com/a", "https://example.com/a", "https://example.com/b"},
			beautrafil.FetchRequest{}, nil)
		require.NoError(t, err)

		assert.Equal(t, 2, result.Saved)
		assert.Equal(t, 1, result.Skipped)
	})

	t.Run("converts body to markdown when converter is set", func(t *testing.T) {
		t.Parallel()

		docs := newMemoryDocuments()
		s := testScraper(docs)
		s.Converter = &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "# converted", nil
			},
		}

		_, err := s.ScrapeURLs(context.Background(),
			[]string{"https://example.com/md"},
			beautrafil.FetchRequest{}, nil)
		require.NoError(t, err)
		require.Len(t, docs.docs, 1)
		assert.Equal(t, "# converted", docs.docs[0].Content)
	})

	t.Run("reports progress events", func(t *testing.T) {
		t.Parallel()

		docs := newMemoryDocuments()
		s := testScraper(docs)
		s.Concurrency = 1

		var events []scrape.ProgressEvent
		_, err := s.ScrapeURLs(context.Background(),
			[]string{"https://example.com/a", "https://example.com/b"},
			beautrafil.FetchRequest{},
			func(e scrape.ProgressEvent) { events = append(events, e) })
		require.NoError(t, err)

		require.GreaterOrEqual(t, len(events), 4)
		assert.Equal(t, scrape.ProgressStarted, events[0].Type)
		assert.Equal(t, 2, events[0].Total)
		assert.Equal(t, scrape.ProgressFinished, events[len(events)-1].Type)
	})

	t.Run("passes fetch options through the template", func(t *testing.T) {
		t.Parallel()

		docs := newMemoryDocuments()
		s := testScraper(docs)
		var got beautrafil.FetchRequest
		s.Fetcher = &mock.Fetcher{
			FetchFn: func(_ context.Context, req *beautrafil.FetchRequest) (*beautrafil.RenderedDocument, error) {
				got = *req
				return &beautrafil.RenderedDocument{HTML: "<html></html>"}, nil
			},
		}

		_, err := s.ScrapeURLs(context.Background(),
			[]string{"https://example.com/opts"},
			beautrafil.FetchRequest{Stealth: true, BlockMedia: true, Scroll: true, RetryOn403: true},
			nil)
		require.NoError(t, err)

		assert.Equal(t, "https://example.com/opts", got.URL)
		assert.True(t, got.Stealth)
		assert.True(t, got.BlockMedia)
		assert.True(t, got.Scroll)
		assert.True(t, got.RetryOn403)
	})
}
