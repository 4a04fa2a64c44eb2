package models

import (
	"strings"
	"unicode"

	"github.com/cognicore/annot/pkg/annot/count"
)

// wordTokenizer splits on letter/number runs (hyphen kept inside words).
// It backs the "words" tokenizer name for curators who want word counts
// without a subword vocabulary.
type wordTokenizer struct{}

// NewWordTokenizer returns the word-level tokenizer.
func NewWordTokenizer() count.Tokenizer {
	return wordTokenizer{}
}

func (wordTokenizer) Tokenize(text string) ([]string, error) {
	var tokens []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
			current.WriteRune(r)
			continue
		}
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens, nil
}
