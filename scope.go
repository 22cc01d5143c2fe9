package scrapehub

import (
	"net/url"
	"strings"
)

// Scope bounds which links on a page may be classified as articles.
// It is derived from the index page URL and is built fresh for every
// classification.
type Scope struct {
	// Base is the parsed index page URL; hrefs resolve against it.
	Base *url.URL

	// Domain is the lower-cased host of Base.
	Domain string

	// BasePath is the parent directory of the index page path.
	// It always begins and ends with a slash.
	BasePath string
}

// NewScope parses baseURL and derives its domain and path prefix.
func NewScope(baseURL string) (Scope, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return Scope{}, Errorf(EINVALID, "invalid base URL: %v", err)
	}
	return Scope{
		Base:     u,
		Domain:   strings.ToLower(u.Host),
		BasePath: ParentPath(u.Path),
	}, nil
}

// Unbounded returns a copy of the scope that admits every path on the domain.
func (s Scope) Unbounded() Scope {
	s.BasePath = "/"
	return s
}

// ParentPath returns the directory containing the last segment of p.
// A single-segment path is its own prefix so that /news and /news/ scope
// the same tree.
//
//	/media-centre/news-releases/ -> /media-centre/
//	/news                        -> /news/
//	/                            -> /
func ParentPath(p string) string {
	segments := PathSegments(p)
	switch len(segments) {
	case 0:
		return "/"
	case 1:
		return "/" + segments[0] + "/"
	default:
		return "/" + strings.Join(segments[:len(segments)-1], "/") + "/"
	}
}

// PathSegments splits p on slashes and drops empty segments.
func PathSegments(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
