// Package crawl orchestrates a single scrape: fetch the index page, classify
// its links, then fetch and reduce every candidate article.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/scrapehub"
	"golang.org/x/sync/errgroup"
)

// Ensure Crawler implements scrapehub.Scraper at compile time.
var _ scrapehub.Scraper = (*Crawler)(nil)

// Crawler orchestrates the scraping of an index page and its articles.
// Every call opens its own session so cookies picked up from the index page
// are carried to the article fetches and never leak into another call.
type Crawler struct {
	Sessions   scrapehub.SessionOpener
	Classifier scrapehub.LinkClassifier
	Reducer    scrapehub.Reducer

	// Concurrency bounds parallel article fetches. Values below 2 fetch
	// candidates one at a time in document order. Output order always follows
	// candidate order.
	Concurrency int

	// RetryDelays are the waits between attempts of a failed fetch.
	// Nil fetches every page once.
	RetryDelays []time.Duration

	// Logger receives retry attempts. Nil disables them.
	Logger *slog.Logger
}

// Scrape fetches the index page at rawURL and every article it links to.
// Articles that fail to fetch are reported with an error message; articles
// with no visible text are left out. Only an index page failure is returned
// as an error.
func (c *Crawler) Scrape(ctx context.Context, rawURL string) ([]*scrapehub.ArticleResult, error) {
	var results []*scrapehub.ArticleResult
	err := c.withSession(ctx, func(fetcher scrapehub.Fetcher) error {
		html, scope, err := c.fetchIndex(ctx, fetcher, rawURL)
		if err != nil {
			return err
		}

		links, err := c.Classifier.Classify(html, scope)
		if err != nil {
			return fmt.Errorf("classify links: %w", err)
		}

		results, err = c.scrapeArticles(ctx, fetcher, links)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Inspect fetches the index page at rawURL and reports the scoped article
// links next to every same-domain article-shaped link. No article is fetched.
func (c *Crawler) Inspect(ctx context.Context, rawURL string) (*scrapehub.DebugReport, error) {
	var report *scrapehub.DebugReport
	err := c.withSession(ctx, func(fetcher scrapehub.Fetcher) error {
		html, scope, err := c.fetchIndex(ctx, fetcher, rawURL)
		if err != nil {
			return err
		}

		filtered, err := c.Classifier.Classify(html, scope)
		if err != nil {
			return fmt.Errorf("classify links: %w", err)
		}
		all, err := c.Classifier.Classify(html, scope.Unbounded())
		if err != nil {
			return fmt.Errorf("classify links: %w", err)
		}

		report = &scrapehub.DebugReport{
			Debug:                true,
			HTMLLength:           utf8.RuneCountInString(html),
			BasePathUsed:         scope.BasePath,
			FilteredArticleLinks: filtered,
			AllSameDomainLinks:   all,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// withSession opens a session, runs fn with it and closes it on every path.
func (c *Crawler) withSession(ctx context.Context, fn func(scrapehub.Fetcher) error) error {
	fetcher, err := c.Sessions.Open(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() { _ = fetcher.Close() }()

	return fn(fetcher)
}

// fetchIndex retrieves the index page and derives the classification scope.
func (c *Crawler) fetchIndex(ctx context.Context, fetcher scrapehub.Fetcher, rawURL string) (string, scrapehub.Scope, error) {
	html, err := FetchWithRetry(ctx, fetcher, rawURL, c.RetryDelays, c.Logger)
	if err != nil {
		return "", scrapehub.Scope{}, fmt.Errorf("fetch index page: %w", err)
	}

	scope, err := scrapehub.NewScope(rawURL)
	if err != nil {
		return "", scrapehub.Scope{}, err
	}
	return html, scope, nil
}

// scrapeArticles fetches every link and returns the non-empty results in
// link order.
func (c *Crawler) scrapeArticles(ctx context.Context, fetcher scrapehub.Fetcher, links []string) ([]*scrapehub.ArticleResult, error) {
	slots := make([]*scrapehub.ArticleResult, len(links))

	if c.Concurrency < 2 {
		for i, link := range links {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			slots[i] = c.scrapeArticle(ctx, fetcher, link)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.Concurrency)
		for i, link := range links {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				slots[i] = c.scrapeArticle(gctx, fetcher, link)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	// A fetch cut short by cancellation is not an article failure.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]*scrapehub.ArticleResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, r)
		}
	}
	return results, nil
}

// scrapeArticle fetches and reduces one candidate.
// It returns nil when the page has no visible text.
func (c *Crawler) scrapeArticle(ctx context.Context, fetcher scrapehub.Fetcher, link string) *scrapehub.ArticleResult {
	html, err := FetchWithRetry(ctx, fetcher, link, c.RetryDelays, c.Logger)
	if err != nil {
		msg := scrapehub.ErrorMessage(err)
		if msg == "" {
			msg = "fetch failed"
		}
		return &scrapehub.ArticleResult{URL: link, Error: msg}
	}

	content := c.Reducer.Reduce(html)
	if content == "" {
		return nil
	}
	return &scrapehub.ArticleResult{URL: link, Content: content}
}
