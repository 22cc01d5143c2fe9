package scrapehub

import "context"

// Fetcher retrieves raw HTML from URLs.
// A Fetcher carries one connection and cookie context, so cookies set while
// fetching one page are sent with every later request made through it.
type Fetcher interface {
	// Fetch performs a GET and returns the response body as text.
	// Non-2xx responses and network failures are returned as errors.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases the connection and cookie context.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// SessionOpener hands out a fresh Fetcher for each crawl.
// Fetchers from separate Open calls share no cookies or connections.
type SessionOpener interface {
	Open(ctx context.Context) (Fetcher, error)
}
