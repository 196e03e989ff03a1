// Package rod implements the rendering fetcher on top of Chrome browser
// automation. It binds the browser-independent fetch logic (interception,
// 403 retry, auto-scroll) to a live Chrome session via the DevTools
// protocol.
package rod

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
	"github.com/marksuguitan/beautrafil-scrape/fetch"
	"github.com/marksuguitan/beautrafil-scrape/identity"
)

// Ensure Fetcher implements beautrafil.Fetcher at compile time.
var _ beautrafil.Fetcher = (*Fetcher)(nil)

// DefaultFetchTimeout bounds a single Fetch call, navigation retries and
// auto-scroll included.
const DefaultFetchTimeout = 45 * time.Second

// networkIdleWindow is how long the network must stay quiet before a
// networkidle wait (or a DOM-stability check) considers the page settled.
const networkIdleWindow = 300 * time.Millisecond

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Each Fetch call gets its own page; the underlying browser process is
// shared and recycled by a BrowserManager.
//
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager     *BrowserManager
	identities  beautrafil.IdentityGenerator
	blockedExts []string
	backoffBase time.Duration
	timeout     time.Duration
	maxPages    int64
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-fetch deadline. Defaults to
// DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithIdentityGenerator replaces the source of browsing identities.
func WithIdentityGenerator(g beautrafil.IdentityGenerator) Option {
	return func(f *Fetcher) {
		f.identities = g
	}
}

// WithBlockedExtensions overrides the extensions aborted when a request
// asks for media blocking. Defaults to fetch.DefaultBlockedExtensions.
func WithBlockedExtensions(exts []string) Option {
	return func(f *Fetcher) {
		f.blockedExts = exts
	}
}

// WithBackoffBase overrides the base delay between 403 retries.
func WithBackoffBase(d time.Duration) Option {
	return func(f *Fetcher) {
		f.backoffBase = d
	}
}

// WithLogger sets the logger for retry and stealth diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// WithBrowserMaxPages sets how many pages the browser serves before it is
// recycled.
func WithBrowserMaxPages(n int64) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher launches a headless Chrome browser. Close must be called when
// the Fetcher is no longer needed.
//
// Returns an error with code ELAUNCH if Chrome/Chromium cannot be found or
// launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		blockedExts: fetch.DefaultBlockedExtensions,
		backoffBase: fetch.DefaultBackoffBase,
		timeout:     DefaultFetchTimeout,
		maxPages:    DefaultMaxPages,
		logger:      slog.Default(),
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

	manager, err := NewBrowserManager(WithMaxPages(f.maxPages))
	if err != nil {
		return nil, beautrafil.Errorf(beautrafil.ELAUNCH, "launching browser: %v", err)
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the requested URL and returns the rendered document.
//
// The session is prepared before the first navigation: stealth script and
// identity profile when requested, then the media interceptor, then the 403
// listener. All three only take effect for navigations that happen after
// they are installed.
func (f *Fetcher) Fetch(ctx context.Context, req *beautrafil.FetchRequest) (*beautrafil.RenderedDocument, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, beautrafil.Errorf(beautrafil.ELAUNCH, "creating page: %v", err)
	}
	// Close on the original page reference so cleanup succeeds even after
	// the request context has expired.
	defer func() {
		_ = page.Close()
		f.manager.IncrementPageCount()
	}()

	if req.Stealth {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			f.logger.Warn("stealth injection failed, proceeding without it",
				"error", err,
			)
		}
		if err := applyProfile(page, f.identities.Profile()); err != nil {
			return nil, beautrafil.Errorf(beautrafil.ENAVIGATION, "applying identity profile: %v", err)
		}
	}

	if req.BlockMedia {
		router := mountInterceptor(page, fetch.NewDenylist(f.blockedExts))
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)

	co := fetch.NewRetryCoordinator(req.RetryOn403, req.RetryBudget(),
		fetch.WithBackoffBase(f.backoffBase),
		fetch.WithLogger(f.logger),
	)
	if req.RetryOn403 {
		// The listener must be armed before the first navigation or the
		// blocking response's status is never observed. It exits when the
		// fetch context is done.
		go p.EachEvent(func(e *proto.NetworkResponseReceived) {
			co.ObserveResponse(e.Response.Status, e.Response.URL)
		})()
	}

	rotate := func(context.Context) error {
		return f.rotateIdentity(p)
	}

	target := req.URL
	for {
		co.BeginNavigation()

		// WaitRequestIdle registers its listener through the Fetch domain,
		// which conflicts with an active hijack router on recent Chromium.
		// With media blocking on, a DOM-stability wait stands in for
		// networkidle.
		var waitIdle func()
		if req.WaitOrDefault() == beautrafil.WaitNetworkIdle && !req.BlockMedia {
			waitIdle = p.WaitRequestIdle(networkIdleWindow, nil, nil, nil)
		}

		if err := p.Navigate(target); err != nil {
			return nil, categorizeError(err, "navigating to "+target)
		}

		switch {
		case waitIdle != nil:
			waitIdle()
		case req.WaitOrDefault() == beautrafil.WaitLoad:
			if err := p.WaitLoad(); err != nil {
				return nil, categorizeError(err, "waiting for load event")
			}
		default:
			if err := p.WaitDOMStable(networkIdleWindow, 0.1); err != nil {
				if isContextErr(err) {
					return nil, categorizeError(err, "waiting for DOM to settle")
				}
				f.logger.Debug("DOM did not converge, proceeding with current state",
					"url", target,
					"error", err,
				)
			}
		}

		dec, err := co.Decide(ctx, rotate)
		if err != nil {
			return nil, categorizeError(err, "resolving blocked navigation")
		}
		if !dec.Retry {
			break
		}
		target = dec.URL
	}

	if req.Scroll {
		if err := fetch.NewScroller().Run(ctx, &pageScroller{page: p}); err != nil {
			return nil, categorizeError(err, "auto-scrolling page")
		}
	}

	html, err := p.HTML()
	if err != nil {
		return nil, categorizeError(err, "serializing page HTML")
	}

	return &beautrafil.RenderedDocument{
		HTML:     html,
		Blocked:  co.Exhausted(),
		Attempts: co.Attempts(),
	}, nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

// rotateIdentity swaps the session's user agent for a fresh draw from the
// pool and forces cache-bypassing request headers. Locale, timezone and
// viewport stay fixed for the session.
func (f *Fetcher) rotateIdentity(page *rod.Page) error {
	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent: f.identities.UserAgent(),
	}).Call(page); err != nil {
		return err
	}
	return proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{
			"Cache-Control": gson.New("no-cache"),
		},
	}.Call(page)
}

// applyProfile emulates the identity profile on the page: user agent with a
// matching Accept-Language, timezone, locale, viewport and preferred color
// scheme.
func applyProfile(page *rod.Page, profile beautrafil.IdentityProfile) error {
	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent:      profile.UserAgent,
		AcceptLanguage: profile.Locale,
	}).Call(page); err != nil {
		return err
	}
	if err := (proto.EmulationSetTimezoneOverride{
		TimezoneID: profile.TimezoneID,
	}).Call(page); err != nil {
		return err
	}
	if err := (proto.EmulationSetLocaleOverride{
		Locale: profile.Locale,
	}).Call(page); err != nil {
		return err
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             profile.Viewport.Width,
		Height:            profile.Viewport.Height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}); err != nil {
		return err
	}
	return proto.EmulationSetEmulatedMedia{
		Features: []*proto.EmulationMediaFeature{
			{Name: "prefers-color-scheme", Value: profile.ColorScheme},
		},
	}.Call(page)
}

// mountInterceptor installs a request interceptor that aborts requests whose
// URL path matches the denylist and passes everything else through.
//
// Returns the running HijackRouter so the caller can defer router.Stop().
func mountInterceptor(page *rod.Page, denylist *fetch.Denylist) *rod.HijackRouter {
	router := page.HijackRequests()

	// Pattern "*" with an empty resource type intercepts every request;
	// the block decision is made per URL.
	_ = router.Add("*", "", func(h *rod.Hijack) {
		if denylist.Blocks(h.Request.URL().String()) {
			h.Response.Fail(proto.NetworkErrorReasonBlockedByClient)
			return
		}
		h.ContinueRequest(&proto.FetchContinueRequest{})
	})

	// router.Run() blocks until router.Stop() is called.
	go router.Run()

	return router
}

// pageScroller adapts a rod page to the scroller's page surface.
type pageScroller struct {
	page *rod.Page
}

func (s *pageScroller) ScrollBy(_ context.Context, pixels int) error {
	_, err := s.page.Eval(`(step) => { window.scrollBy(0, step); }`, pixels)
	return err
}

func (s *pageScroller) DocumentHeight(_ context.Context) (int, error) {
	res, err := s.page.Eval(`() => document.body.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return res.Value.Int(), nil
}

// categorizeError wraps raw browser errors into application errors so
// callers can distinguish timeouts from navigation failures.
func categorizeError(err error, msg string) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return beautrafil.Errorf(beautrafil.ETIMEOUT, "%s: deadline exceeded", msg)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return beautrafil.Errorf(beautrafil.ENAVIGATION, "%s: %v", msg, err)
	}
}

func isContextErr(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}
