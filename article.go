package scrapehub

import "context"

// ArticleResult is the outcome of scraping one candidate link.
// Exactly one of Content and Error is set.
type ArticleResult struct {
	URL     string `json:"url"`
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Failed reports whether the candidate could not be fetched.
func (r *ArticleResult) Failed() bool {
	return r.Error != ""
}

// DebugReport describes how an index page was classified, without fetching
// any of the candidates.
type DebugReport struct {
	Debug                bool     `json:"debug"`
	HTMLLength           int      `json:"html_length"`
	BasePathUsed         string   `json:"base_path_used"`
	FilteredArticleLinks []string `json:"filtered_article_links"`
	AllSameDomainLinks   []string `json:"all_same_domain_links"`
}

// Scraper crawls an index page and its article links.
type Scraper interface {
	// Scrape fetches the index page at url, classifies its links and returns
	// one result per candidate whose text is non-empty or whose fetch failed.
	// A failure to fetch the index page is returned as the error.
	Scrape(ctx context.Context, url string) ([]*ArticleResult, error)

	// Inspect fetches the index page at url and reports the classification
	// with both the scoped and domain-wide link sets.
	Inspect(ctx context.Context, url string) (*DebugReport, error)
}
