// Package fuzzy scores how alike two strings are.
package fuzzy

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Ratio returns the similarity of a and b on a [0,1] scale: twice the number of
// runes the two strings share in a minimal diff, over their combined length.
// Identical strings score 1, two empty strings included. Case is ignored.
func Ratio(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)

	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 1
	}
	if a == b {
		return 1
	}

	dmp := diffmatchpatch.New()
	matched := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			matched += utf8.RuneCountInString(d.Text)
		}
	}
	return 2 * float64(matched) / float64(total)
}

// Matcher tests strings against a fixed similarity threshold
type Matcher struct {
	threshold float64
}

// NewMatcher creates a matcher. A candidate matches when its ratio to the query
// is strictly greater than threshold.
func NewMatcher(threshold float64) Matcher {
	return Matcher{threshold: threshold}
}

// Threshold returns the configured threshold
func (m Matcher) Threshold() float64 {
	return m.threshold
}

// Match reports whether candidate is similar enough to query
func (m Matcher) Match(query, candidate string) bool {
	return Ratio(query, candidate) > m.threshold
}
