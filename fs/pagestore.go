// Package fs provides filesystem storage for fetched pages.
package fs

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// PageStore writes rendered HTML snapshots to a directory, one file per
// fetch, named after the source host and the fetch time.
type PageStore struct {
	dir string
	now func() time.Time
}

// StoreOption configures a PageStore.
type StoreOption func(*PageStore)

// WithClock replaces the time source. Used by tests for stable filenames.
func WithClock(now func() time.Time) StoreOption {
	return func(s *PageStore) {
		s.now = now
	}
}

// NewPageStore creates a PageStore writing into dir.
func NewPageStore(dir string, opts ...StoreOption) *PageStore {
	s := &PageStore{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveHTML writes the rendered HTML of sourceURL to a timestamped file and
// returns the file's path. The filename is the source host with dots
// replaced by underscores, so snapshots of the same site sort together.
func (s *PageStore) SaveHTML(sourceURL, html string) (string, error) {
	u, err := url.Parse(sourceURL)
	if err != nil || u.Host == "" {
		return "", beautrafil.Errorf(beautrafil.EINVALID, "invalid source URL %q", sourceURL)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", err
	}

	host := strings.ReplaceAll(u.Host, ".", "_")
	name := host + "-" + s.now().Format("20060102-150405") + ".html"
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", err
	}

	return path, nil
}
