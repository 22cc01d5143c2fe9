package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scrapehub"
)

// Ensure LoggingScraper implements scrapehub.Scraper.
var _ scrapehub.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper with logging.
type LoggingScraper struct {
	next   scrapehub.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next scrapehub.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape delegates to the wrapped scraper and logs a summary of the results.
func (s *LoggingScraper) Scrape(ctx context.Context, url string) (results []*scrapehub.ArticleResult, err error) {
	defer func(begin time.Time) {
		failed := 0
		for _, r := range results {
			if r.Failed() {
				failed++
				s.logger.WarnContext(ctx, "article failed", "url", r.URL, "err", r.Error)
			}
		}
		s.logger.InfoContext(ctx, "scrape",
			"url", url,
			"articles", len(results)-failed,
			"failed", failed,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scrape(ctx, url)
}

// Inspect delegates to the wrapped scraper and logs the link counts.
func (s *LoggingScraper) Inspect(ctx context.Context, url string) (report *scrapehub.DebugReport, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url, "duration", time.Since(begin), "err", err}
		if report != nil {
			attrs = append(attrs,
				"base_path", report.BasePathUsed,
				"filtered", len(report.FilteredArticleLinks),
				"same_domain", len(report.AllSameDomainLinks),
			)
		}
		s.logger.InfoContext(ctx, "inspect", attrs...)
	}(time.Now())
	return s.next.Inspect(ctx, url)
}
