package beautrafil

// Viewport is a browser viewport size in CSS pixels.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// IdentityProfile is a synthetic browsing identity applied to a browser
// session to reduce fingerprinting signals. A profile is generated once per
// session and owned exclusively by that session; only the user agent is
// replaced when a blocked navigation rotates identity.
type IdentityProfile struct {
	UserAgent   string   `json:"userAgent"`
	Locale      string   `json:"locale"`
	TimezoneID  string   `json:"timezoneId"`
	Viewport    Viewport `json:"viewport"`
	ColorScheme string   `json:"colorScheme"`
}

// IdentityGenerator produces browsing identities from a candidate pool of
// user-agent strings. Implementations must be safe for concurrent use; the
// pool itself is read-only.
type IdentityGenerator interface {
	// Profile returns a complete identity with a user agent drawn uniformly
	// at random from the pool.
	Profile() IdentityProfile

	// UserAgent draws a fresh user agent from the pool, used when a retry
	// rotates the session identity.
	UserAgent() string
}
