package mock

import (
	"context"

	"github.com/fwojciec/scrapehub"
)

var _ scrapehub.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of scrapehub.Scraper.
type Scraper struct {
	ScrapeFn  func(ctx context.Context, url string) ([]*scrapehub.ArticleResult, error)
	InspectFn func(ctx context.Context, url string) (*scrapehub.DebugReport, error)
}

func (s *Scraper) Scrape(ctx context.Context, url string) ([]*scrapehub.ArticleResult, error) {
	return s.ScrapeFn(ctx, url)
}

func (s *Scraper) Inspect(ctx context.Context, url string) (*scrapehub.DebugReport, error) {
	return s.InspectFn(ctx, url)
}
