package mock

import (
	"context"

	"github.com/fwojciec/scrapehub"
)

var _ scrapehub.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of scrapehub.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ scrapehub.SessionOpener = (*SessionOpener)(nil)

// SessionOpener is a mock implementation of scrapehub.SessionOpener.
type SessionOpener struct {
	OpenFn func(ctx context.Context) (scrapehub.Fetcher, error)
}

func (o *SessionOpener) Open(ctx context.Context) (scrapehub.Fetcher, error) {
	return o.OpenFn(ctx)
}
