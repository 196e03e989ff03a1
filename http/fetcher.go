// Package http provides a plain HTTP implementation of beautrafil.Fetcher
// for fetching static pages that don't require JavaScript rendering.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
	"github.com/marksuguitan/beautrafil-scrape/fetch"
	"github.com/marksuguitan/beautrafil-scrape/identity"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 15 * time.Second

// Ensure Fetcher implements beautrafil.Fetcher at compile time.
var _ beautrafil.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs with plain HTTP requests. It
// does not execute JavaScript, so it is suitable for static pages only;
// scroll requests are ignored and media blocking is moot since subresources
// are never fetched.
//
// Identity spoofing and 403 retry carry the same semantics as the browser
// fetcher: a stealth request sends a pooled user agent, and a 403 response
// rotates it before retrying.
type Fetcher struct {
	client      *http.Client
	identities  beautrafil.IdentityGenerator
	backoffBase time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithIdentityGenerator replaces the source of user agents.
func WithIdentityGenerator(g beautrafil.IdentityGenerator) Option {
	return func(f *Fetcher) {
		f.identities = g
	}
}

// WithBackoffBase overrides the base delay between 403 retries.
func WithBackoffBase(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoffBase = d
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		client:      &http.Client{Timeout: DefaultFetchTimeout},
		backoffBase: fetch.DefaultBackoffBase,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.identities == nil {
		gen, err := identity.NewGenerator()
		if err != nil {
			return nil, err
		}
		f.identities = gen
	}

	return f, nil
}

// Fetch retrieves the HTML content from the requested URL.
func (f *Fetcher) Fetch(ctx context.Context, req *beautrafil.FetchRequest) (*beautrafil.RenderedDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var userAgent, cacheControl string
	if req.Stealth {
		userAgent = f.identities.UserAgent()
	}

	co := fetch.NewRetryCoordinator(req.RetryOn403, req.RetryBudget(),
		fetch.WithBackoffBase(f.backoffBase),
	)

	rotate := func(context.Context) error {
		userAgent = f.identities.UserAgent()
		cacheControl = "no-cache"
		return nil
	}

	target := req.URL
	var lastBody string
	for {
		co.BeginNavigation()

		body, status, err := f.get(ctx, target, userAgent, cacheControl)
		if err != nil {
			return nil, err
		}
		lastBody = body
		co.ObserveResponse(status, target)

		dec, err := co.Decide(ctx, rotate)
		if err != nil {
			return nil, err
		}
		if !dec.Retry {
			break
		}
		target = dec.URL
	}

	return &beautrafil.RenderedDocument{
		HTML:     lastBody,
		Blocked:  co.Exhausted(),
		Attempts: co.Attempts(),
	}, nil
}

// get performs one request and returns the body and status code. Non-2xx
// responses other than 403 are errors; 403 is reported through the status
// so the retry path can decide what to do with it.
func (f *Fetcher) get(ctx context.Context, url, userAgent, cacheControl string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, beautrafil.Errorf(beautrafil.EINVALID, "building request: %v", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	if cacheControl != "" {
		req.Header.Set("Cache-Control", cacheControl)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, beautrafil.Errorf(beautrafil.ENAVIGATION, "fetching %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusForbidden {
		return "", resp.StatusCode, beautrafil.Errorf(beautrafil.ENAVIGATION, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", resp.StatusCode, err
	}

	return string(body), resp.StatusCode, nil
}

// Close releases resources. For the HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
