package beautrafil

import "context"

// WaitCondition selects the navigation-completion criterion that gates when
// a page is considered ready for extraction.
type WaitCondition string

// Supported wait conditions.
const (
	// WaitNetworkIdle waits until the page has stopped issuing network
	// requests for a short window. Best for JavaScript-heavy pages.
	WaitNetworkIdle WaitCondition = "networkidle"

	// WaitLoad waits for the window load event.
	WaitLoad WaitCondition = "load"

	// WaitDOMReady waits until the DOM has stopped mutating.
	WaitDOMReady WaitCondition = "domready"
)

// DefaultMaxRetries is the number of additional navigations attempted when
// a fetch keeps being rejected with HTTP 403.
const DefaultMaxRetries = 2

// FetchRequest describes a single page fetch. It is immutable for the
// lifetime of the fetch call.
type FetchRequest struct {
	// URL is the page to fetch.
	URL string

	// Wait is the navigation-completion criterion.
	// Defaults to WaitNetworkIdle when empty.
	Wait WaitCondition

	// Scroll triggers a bounded auto-scroll after navigation to force
	// lazily-loaded content to render.
	Scroll bool

	// Stealth applies a randomized but internally-consistent browsing
	// identity (user agent, locale, timezone, viewport, color scheme)
	// to the session before navigation.
	Stealth bool

	// BlockMedia aborts requests for images, video and fonts before they
	// reach the network.
	BlockMedia bool

	// RetryOn403 retries the navigation with a rotated user agent and
	// no-cache headers when a response carries HTTP 403.
	RetryOn403 bool

	// MaxRetries bounds the number of 403-driven retries.
	// Defaults to DefaultMaxRetries when zero.
	MaxRetries int
}

// Validate returns an error if the request contains invalid fields.
func (r *FetchRequest) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "fetch URL required")
	}
	switch r.Wait {
	case "", WaitNetworkIdle, WaitLoad, WaitDOMReady:
	default:
		return Errorf(EINVALID, "unknown wait condition %q", r.Wait)
	}
	if r.MaxRetries < 0 {
		return Errorf(EINVALID, "max retries must not be negative")
	}
	return nil
}

// WaitOrDefault returns the wait condition, defaulting to WaitNetworkIdle.
func (r *FetchRequest) WaitOrDefault() WaitCondition {
	if r.Wait == "" {
		return WaitNetworkIdle
	}
	return r.Wait
}

// RetryBudget returns the maximum number of 403-driven retries for this
// request, applying the default when unset.
func (r *FetchRequest) RetryBudget() int {
	if r.MaxRetries == 0 {
		return DefaultMaxRetries
	}
	return r.MaxRetries
}

// RenderedDocument is the final serialized state of a fetched page.
type RenderedDocument struct {
	// HTML is the serialized document at the moment of extraction.
	HTML string

	// Blocked reports that every navigation attempt was rejected with
	// HTTP 403 and the retry budget is exhausted. HTML then holds the
	// last rendered (likely anti-bot challenge) page, not real content.
	Blocked bool

	// Attempts is the number of 403-driven retries that were performed.
	Attempts int
}

// Fetcher retrieves rendered HTML from URLs.
// Implementations may use browser automation to handle JavaScript-rendered
// content and anti-bot defenses.
type Fetcher interface {
	// Fetch navigates to the requested URL, waits for the page to settle,
	// and returns the rendered document. The context controls timeout and
	// cancellation.
	Fetch(ctx context.Context, req *FetchRequest) (*RenderedDocument, error)

	// Close releases browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
