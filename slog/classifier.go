package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/scrapehub"
)

// Ensure LoggingClassifier implements scrapehub.LinkClassifier.
var _ scrapehub.LinkClassifier = (*LoggingClassifier)(nil)

// LoggingClassifier wraps a LinkClassifier with logging.
type LoggingClassifier struct {
	next   scrapehub.LinkClassifier
	logger *slog.Logger
}

// NewLoggingClassifier creates a new LoggingClassifier.
func NewLoggingClassifier(next scrapehub.LinkClassifier, logger *slog.Logger) *LoggingClassifier {
	return &LoggingClassifier{next: next, logger: logger}
}

// Classify delegates to the wrapped classifier and logs the link count.
func (c *LoggingClassifier) Classify(html string, scope scrapehub.Scope) (links []string, err error) {
	defer func(begin time.Time) {
		c.logger.Info("classify links",
			"domain", scope.Domain,
			"base_path", scope.BasePath,
			"count", len(links),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Classify(html, scope)
}
