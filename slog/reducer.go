package slog

import (
	"fmt"
	"log/slog"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/scrapehub"
)

// Ensure LoggingReducer implements scrapehub.Reducer.
var _ scrapehub.Reducer = (*LoggingReducer)(nil)

// LoggingReducer wraps a Reducer with debug logging. Each reduction is
// logged with a digest of its text so pages that reduce to the same
// boilerplate stand out.
type LoggingReducer struct {
	next   scrapehub.Reducer
	logger *slog.Logger
}

// NewLoggingReducer creates a new LoggingReducer.
func NewLoggingReducer(next scrapehub.Reducer, logger *slog.Logger) *LoggingReducer {
	return &LoggingReducer{next: next, logger: logger}
}

// Reduce delegates to the wrapped reducer and logs input and output sizes.
func (r *LoggingReducer) Reduce(html string) string {
	text := r.next.Reduce(html)
	r.logger.Debug("reduce",
		"html_bytes", len(html),
		"text_bytes", len(text),
		"digest", Digest(text),
	)
	return text
}

// Digest returns a short hex digest of text.
func Digest(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}
