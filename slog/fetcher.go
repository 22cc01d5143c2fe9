// Package slog provides log/slog decorators for the scrapehub interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/scrapehub"
)

// Ensure LoggingFetcher implements scrapehub.Fetcher.
var _ scrapehub.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging.
type LoggingFetcher struct {
	next   scrapehub.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next scrapehub.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelWarn
		}
		f.logger.Log(ctx, level, "fetch",
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}

// Ensure LoggingSessionOpener implements scrapehub.SessionOpener.
var _ scrapehub.SessionOpener = (*LoggingSessionOpener)(nil)

// LoggingSessionOpener wraps a SessionOpener so that every Fetcher it opens
// logs its fetches.
type LoggingSessionOpener struct {
	next   scrapehub.SessionOpener
	logger *slog.Logger
}

// NewLoggingSessionOpener creates a new LoggingSessionOpener.
func NewLoggingSessionOpener(next scrapehub.SessionOpener, logger *slog.Logger) *LoggingSessionOpener {
	return &LoggingSessionOpener{next: next, logger: logger}
}

// Open delegates to the wrapped opener and wraps the returned Fetcher.
func (o *LoggingSessionOpener) Open(ctx context.Context) (scrapehub.Fetcher, error) {
	fetcher, err := o.next.Open(ctx)
	if err != nil {
		o.logger.Error("open session", "err", err)
		return nil, err
	}
	return NewLoggingFetcher(fetcher, o.logger), nil
}
