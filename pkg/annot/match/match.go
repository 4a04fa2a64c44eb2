// Package match implements the substring matchers behind tag columns:
// literal value sets and caller-supplied regular expressions.
package match

import (
	"fmt"
	"regexp"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/cognicore/annot/pkg/annot/internalerr"
)

// Matcher reports whether a text contains a match.
type Matcher interface {
	Match(text string) bool
}

// NewLiteral builds a matcher over a set of literal values. Matching is
// case-sensitive substring containment; metacharacters in values carry no
// special meaning. An empty value set is rejected rather than matching
// every row.
func NewLiteral(values []string) (Matcher, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no literal values given", internalerr.ErrInvalidConfig)
	}
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,
		MatchOnlyWholeWords:  false,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	return &literalMatcher{ac: builder.Build(values)}, nil
}

type literalMatcher struct {
	ac ahocorasick.AhoCorasick
}

func (m *literalMatcher) Match(text string) bool {
	return len(m.ac.FindAll(text)) > 0
}

// NewRegex builds a matcher from a regular expression used verbatim,
// including its own case sensitivity.
func NewRegex(expr string) (Matcher, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	return &regexMatcher{re: re}, nil
}

type regexMatcher struct {
	re *regexp.Regexp
}

func (m *regexMatcher) Match(text string) bool {
	return m.re.MatchString(text)
}
