package scraper

import (
	"context"
	"time"
)

// Navigator abstracts a single browser session. A Navigator holds one
// document's worth of navigation state and must not be shared across
// concurrent workers.
type Navigator interface {
	// Navigate loads a URL and returns the rendered HTML once waitSelector is
	// ready, failing after timeout. settle adds a fixed pause before the
	// snapshot for pages that keep rendering after readiness.
	Navigate(ctx context.Context, url, waitSelector string, timeout, settle time.Duration) (string, error)
	// HTML snapshots the current document without navigating.
	HTML(ctx context.Context) (string, error)
	// ClickNext locates and activates a control within timeout.
	ClickNext(ctx context.Context, selector string, timeout, settle time.Duration) error
	Close() error
}

// SessionFactory produces a private Navigator per pool worker.
type SessionFactory interface {
	NewSession(ctx context.Context) (Navigator, error)
}

// StaticFetcher retrieves a page over plain HTTP, without a browser.
type StaticFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// RenderDetector decides whether statically fetched HTML is a JS shell that
// needs a real browser render.
type RenderDetector interface {
	NeedsBrowser(html string) bool
}
