package crawl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/scrapehub"
)

// MaxRetryDelay caps a single backoff wait.
const MaxRetryDelay = 30 * time.Second

// RetryDelays returns n exponential backoff delays starting at base:
// base, 2*base, 4*base and so on, each capped at MaxRetryDelay.
func RetryDelays(n int, base time.Duration) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	d := min(base, MaxRetryDelay)
	for i := range delays {
		delays[i] = d
		d = min(2*d, MaxRetryDelay)
	}
	return delays
}

// FetchWithRetry fetches url, retrying after each of delays while the fetch
// keeps failing. Invalid requests and cancellation are never retried.
// The last fetch error is returned once the delays are used up.
// Each retry is logged to logger when it is non-nil.
func FetchWithRetry(ctx context.Context, fetcher scrapehub.Fetcher, url string, delays []time.Duration, logger *slog.Logger) (string, error) {
	for attempt := 0; ; attempt++ {
		html, err := fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		if attempt >= len(delays) || !retryable(err) {
			return "", err
		}

		if logger != nil {
			logger.WarnContext(ctx, "retry fetch",
				"url", url,
				"attempt", attempt+2,
				"delay", delays[attempt],
				"err", err,
			)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return scrapehub.ErrorCode(err) != scrapehub.EINVALID
}
