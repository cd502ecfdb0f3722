// Package fetcher owns the page-loading side of the scraper: a headless
// browser session (or a plain HTTP client for static snapshots) that turns a
// target URL into fully rendered markup.
package fetcher

import "context"

// PageRequest describes a single page load.
type PageRequest struct {
	// URL is the target to navigate to.
	URL string

	// WaitSelector is the content-ready signal: a selector whose presence
	// means the page has rendered. Empty skips the wait; a timeout waiting
	// for it is a warning, not a failure (the fixed settle delay is the
	// fallback).
	WaitSelector string

	// Scrolls is the number of scroll-and-wait cycles performed after load
	// to force lazy-loaded results to materialize. More scrolls means more
	// complete results at the cost of latency.
	Scrolls int

	// Screenshot, when non-empty, is a file path to write a diagnostic PNG
	// to after rendering. This is an out-of-band side channel; failures are
	// logged, never returned.
	Screenshot string
}

// Fetcher turns a PageRequest into rendered page markup. Implementations do
// not retry; navigation and session failures propagate to the caller.
type Fetcher interface {
	Fetch(ctx context.Context, req *PageRequest) (string, error)
	Close() error
}
