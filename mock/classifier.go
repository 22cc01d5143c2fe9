package mock

import "github.com/fwojciec/scrapehub"

var _ scrapehub.LinkClassifier = (*LinkClassifier)(nil)

// LinkClassifier is a mock implementation of scrapehub.LinkClassifier.
type LinkClassifier struct {
	ClassifyFn func(html string, scope scrapehub.Scope) ([]string, error)
}

func (c *LinkClassifier) Classify(html string, scope scrapehub.Scope) ([]string, error) {
	return c.ClassifyFn(html, scope)
}

var _ scrapehub.Reducer = (*Reducer)(nil)

// Reducer is a mock implementation of scrapehub.Reducer.
type Reducer struct {
	ReduceFn func(html string) string
}

func (r *Reducer) Reduce(html string) string {
	return r.ReduceFn(html)
}
