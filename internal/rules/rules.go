// Package rules enumerates the rules of a style sheet with their resolved
// selectors, and looks them up exactly or by fuzzy match.
package rules

import (
	"strings"

	"github.com/jasonmoo/scssexpand/internal/document"
	"github.com/jasonmoo/scssexpand/internal/errors"
	"github.com/jasonmoo/scssexpand/internal/expand"
)

// Source is a document that can map offsets to line and column.
type Source interface {
	document.Document
	Position(offset int) (line, col int, err error)
}

// Rule is one block opening in a style sheet.
type Rule struct {
	File         string   `json:"file,omitempty"`
	Selector     string   `json:"selector"`
	Alternatives []string `json:"alternatives"`
	Offset       int      `json:"offset"`
	Line         int      `json:"line"`
	Column       int      `json:"column"`
	Depth        int      `json:"depth"`
}

// Enumerate resolves every block-opening brace in doc, in document order.
// Braces in comments and interpolation braces are skipped, as are blocks
// whose selector resolves to nothing.
func Enumerate(file string, doc Source, exp *expand.Expander) []Rule {
	comments := expand.BuildCommentIndex(doc, doc.Len())

	var rules []Rule
	for i := 0; i < doc.Len(); i++ {
		if r, ok := comments.Containing(i); ok {
			i = r.End
			continue
		}
		if doc.CharAt(i) != '{' || (i > 0 && doc.CharAt(i-1) == '#') {
			continue
		}
		res := exp.TraceIndexed(doc, comments, i)
		if res.Selector == "" {
			continue
		}
		line, col, _ := doc.Position(i)
		rules = append(rules, Rule{
			File:         file,
			Selector:     res.Selector,
			Alternatives: res.Alternatives,
			Offset:       i,
			Line:         line,
			Column:       col,
			Depth:        len(res.Frames),
		})
	}
	return rules
}

// normalize collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Lookup returns the rules with an alternative equal to selector, ignoring
// whitespace differences. When none match, the error suggests the closest
// alternatives.
func Lookup(rules []Rule, selector string) ([]Rule, error) {
	want := normalize(selector)

	var (
		found      []Rule
		candidates []string
	)
	for _, r := range rules {
		for _, alt := range r.Alternatives {
			alt = normalize(alt)
			if alt == want {
				found = append(found, r)
				break
			}
			candidates = append(candidates, alt)
		}
	}
	if len(found) == 0 {
		return nil, errors.NewSelectorNotFound(selector, errors.SuggestSimilar(want, candidates, 5))
	}
	return found, nil
}
