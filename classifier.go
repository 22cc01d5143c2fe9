package scrapehub

// LinkClassifier picks the article links out of a page.
type LinkClassifier interface {
	// Classify parses HTML and returns the canonical (fragment-free) URLs of
	// links judged to be articles within scope, deduplicated, in the order
	// they first appear in the markup.
	Classify(html string, scope Scope) ([]string, error)
}
