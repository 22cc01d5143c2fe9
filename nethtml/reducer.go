// Package nethtml implements scrapehub.Reducer on top of the
// golang.org/x/net/html streaming tokenizer.
package nethtml

import (
	"strings"

	"github.com/fwojciec/scrapehub"
	"golang.org/x/net/html"
)

// Ensure Reducer implements scrapehub.Reducer at compile time.
var _ scrapehub.Reducer = (*Reducer)(nil)

// suppressed lists the paired elements whose bodies are never visible.
// Void elements carry no body and are not tracked.
var suppressed = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
}

// Reducer reduces HTML to the text a reader would see.
type Reducer struct{}

// NewReducer creates a new Reducer.
func NewReducer() *Reducer {
	return &Reducer{}
}

// Reduce tokenizes markup and returns its visible text with whitespace
// collapsed. Tokenizer errors end the scan; text gathered so far is kept.
func (r *Reducer) Reduce(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var s Scanner
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a buffer error, either way flush what we have.
			return s.String()
		case html.StartTagToken:
			name, _ := z.TagName()
			s.Open(string(name))
		case html.EndTagToken:
			name, _ := z.TagName()
			s.Close(string(name))
		case html.SelfClosingTagToken:
			// <script/> opens and closes in one event; keep the tokenizer
			// from swallowing what follows as script body.
			z.NextIsNotRawText()
		case html.TextToken:
			s.Text(string(z.Text()))
		}
	}
}

// Scanner accumulates visible text from a stream of open, close and text
// events. The zero value is ready to use.
type Scanner struct {
	depth  int
	pieces []string
}

// Open records an opening tag.
func (s *Scanner) Open(tag string) {
	if suppressed[strings.ToLower(tag)] {
		s.depth++
	}
}

// Close records a closing tag. Unmatched closes leave the depth at zero.
func (s *Scanner) Close(tag string) {
	if suppressed[strings.ToLower(tag)] && s.depth > 0 {
		s.depth--
	}
}

// Text records a run of character data.
func (s *Scanner) Text(data string) {
	if s.depth == 0 {
		s.pieces = append(s.pieces, data)
	}
}

// Depth returns the current suppression depth.
func (s *Scanner) Depth() int {
	return s.depth
}

// String joins the collected pieces and collapses whitespace.
func (s *Scanner) String() string {
	return Collapse(strings.Join(s.pieces, " "))
}

// Collapse replaces every run of whitespace with one space and trims both ends.
func Collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
