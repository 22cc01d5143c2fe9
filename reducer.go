package scrapehub

// Reducer converts HTML to visible plain text.
type Reducer interface {
	// Reduce strips markup and non-visible elements and returns
	// whitespace-normalized text. Malformed markup never fails; whatever text
	// was recovered is returned.
	Reduce(html string) string
}
