// Package identity generates randomized but internally-consistent browsing
// identities from a fixed pool of user-agent strings.
package identity

import (
	"math/rand/v2"

	beautrafil "github.com/marksuguitan/beautrafil-scrape"
)

// DefaultUserAgentPool spans desktop and mobile Chrome. Callers with their
// own pool supply it via WithPool.
var DefaultUserAgentPool = []string{
	// Chrome desktop
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	// Chrome mobile
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/124.0.0.0 Mobile Safari/537.36",
}

// Fixed plausible values for the non-UA identity fields. Keeping these
// constant within a session matters more than varying them across sessions:
// an inconsistent locale/timezone pair is itself a fingerprinting signal.
const (
	defaultLocale      = "en-US"
	defaultTimezoneID  = "America/New_York"
	defaultColorScheme = "light"
)

var defaultViewport = beautrafil.Viewport{Width: 1366, Height: 768}

// Ensure Generator implements beautrafil.IdentityGenerator at compile time.
var _ beautrafil.IdentityGenerator = (*Generator)(nil)

// Generator draws identities from a read-only user-agent pool.
// Generator is safe for concurrent use.
type Generator struct {
	pool []string
	intN func(n int) int
}

// Option configures a Generator.
type Option func(*Generator)

// WithPool replaces the default user-agent pool. The pool must contain at
// least one entry.
func WithPool(pool []string) Option {
	return func(g *Generator) {
		g.pool = pool
	}
}

// WithIntN replaces the random source. Used by tests to make the draw
// deterministic.
func WithIntN(intN func(n int) int) Option {
	return func(g *Generator) {
		g.intN = intN
	}
}

// NewGenerator creates a Generator backed by the default pool unless
// overridden with WithPool.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		pool: DefaultUserAgentPool,
		intN: rand.IntN,
	}
	for _, opt := range opts {
		opt(g)
	}
	if len(g.pool) == 0 {
		return nil, beautrafil.Errorf(beautrafil.EINVALID, "user-agent pool must not be empty")
	}
	return g, nil
}

// Profile returns a complete identity with a uniformly drawn user agent.
func (g *Generator) Profile() beautrafil.IdentityProfile {
	return beautrafil.IdentityProfile{
		UserAgent:   g.UserAgent(),
		Locale:      defaultLocale,
		TimezoneID:  defaultTimezoneID,
		Viewport:    defaultViewport,
		ColorScheme: defaultColorScheme,
	}
}

// UserAgent draws a fresh user agent from the pool.
func (g *Generator) UserAgent() string {
	return g.pool[g.intN(len(g.pool))]
}
