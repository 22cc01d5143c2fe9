// Package goquery implements scrapehub.LinkClassifier using goquery to walk
// the anchors of a page.
package goquery

import (
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/scrapehub"
)

// Ensure Classifier implements scrapehub.LinkClassifier at compile time.
var _ scrapehub.LinkClassifier = (*Classifier)(nil)

// MinArticleDepth is the fewest non-empty path segments an article URL has.
// Section pages sit higher in the tree.
const MinArticleDepth = 3

// ignoredPrefixes mark hrefs that never navigate to another document.
var ignoredPrefixes = []string{"mailto:", "tel:", "javascript:", "#"}

// ignoredExtensions mark assets, documents and feeds rather than articles.
var ignoredExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true,
	".css": true, ".js": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
	".pdf": true, ".zip": true, ".xml": true,
}

// ignoredSegments mark pagination, taxonomy and syndication endpoints.
var ignoredSegments = map[string]bool{
	"rss":      true,
	"feed":     true,
	"cdn-cgi":  true,
	"tag":      true,
	"category": true,
	"page":     true,
	"author":   true,
}

// stripNewlines removes the tab and line break characters that browsers
// drop from URLs before resolving them.
var stripNewlines = strings.NewReplacer("\t", "", "\r", "", "\n", "")

// Classifier selects article links from news and blog style pages whose
// articles live at /section/.../slug. It favors precision: a missed article
// costs less than fetching a page of navigation.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the article links in html that fall within scope.
func (c *Classifier) Classify(html string, scope scrapehub.Scope) ([]string, error) {
	if scope.Base == nil {
		return nil, scrapehub.Errorf(scrapehub.EINVALID, "scope has no base URL")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, scrapehub.Errorf(scrapehub.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	links := []string{}

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link, ok := ArticleURL(scope, href)
		if !ok || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	return links, nil
}

// Classify is a convenience wrapper that derives the scope from baseURL.
func Classify(html string, baseURL string) ([]string, error) {
	scope, err := scrapehub.NewScope(baseURL)
	if err != nil {
		return nil, err
	}
	return NewClassifier().Classify(html, scope)
}

// ArticleURL resolves href against the scope's base and returns its
// canonical form if it looks like an in-scope article.
func ArticleURL(scope scrapehub.Scope, href string) (string, bool) {
	href = strings.TrimSpace(stripNewlines.Replace(href))
	if href == "" || hasIgnoredPrefix(href) {
		return "", false
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := scope.Base.ResolveReference(ref)

	if ignoredExtensions[strings.ToLower(path.Ext(u.Path))] {
		return "", false
	}

	u.Fragment = ""
	u.RawFragment = ""

	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if strings.ToLower(u.Host) != scope.Domain {
		return "", false
	}

	p := strings.TrimRight(u.Path, "/") + "/"
	if !strings.HasPrefix(p, scope.BasePath) || p == scope.BasePath {
		return "", false
	}

	segments := scrapehub.PathSegments(u.Path)
	if len(segments) < MinArticleDepth {
		return "", false
	}
	for _, s := range segments {
		if ignoredSegments[strings.ToLower(s)] {
			return "", false
		}
	}

	return u.String(), true
}

// hasIgnoredPrefix reports whether href is an in-page fragment or uses a
// scheme that does not load a document.
func hasIgnoredPrefix(href string) bool {
	lower := strings.ToLower(href)
	for _, p := range ignoredPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}
