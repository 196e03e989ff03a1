package beautrafil

import "context"

// DomainLimiter rate-limits outgoing requests per domain so batch scrapes
// don't hammer a single host.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled before the wait completes.
	Wait(ctx context.Context, domain string) error
}
