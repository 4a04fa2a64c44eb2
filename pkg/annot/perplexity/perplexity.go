// Package perplexity scores documents with one of two interchangeable
// backends: a statistical n-gram language model keyed by (language, domain),
// or a neural scorer over one fixed pretrained checkpoint. Both produce a
// perplexity normalized by the byte length of the original text.
package perplexity

import (
	"math"

	"github.com/cognicore/annot/pkg/annot/textutil"
)

// DefaultCheckpoint is the pretrained checkpoint the neural backend uses.
const DefaultCheckpoint = "p70"

// Backend selects a scoring strategy. Exactly one variant per strategy,
// each carrying only its own required fields.
type Backend interface {
	backend()
}

// Statistical scores with an n-gram language model. Language and Domain
// must both be supplied; the pair selects the pretrained model.
type Statistical struct {
	Language string
	Domain   string
}

func (Statistical) backend() {}

// Neural scores with the fixed pretrained checkpoint. It carries no
// language or domain parameters; a zero Checkpoint means DefaultCheckpoint.
type Neural struct {
	Checkpoint string
}

func (Neural) backend() {}

// LanguageModel is a statistical model that returns a perplexity already
// normalized by the text's byte length.
type LanguageModel interface {
	Perplexity(text string) (float64, error)
}

// TokenScorer is a neural model that tokenizes text into subwords and
// produces one log-probability per token in a single scoring pass.
type TokenScorer interface {
	Tokenize(text string) ([]string, error)
	LogProbs(tokens []string) ([]float64, error)
}

// ScoreNeural computes exp(-sum(log_probs) / byte_length(text)). The
// denominator is the byte length of the original untokenized text, not the
// token count; downstream consumers depend on this cross-unit
// normalization.
func ScoreNeural(sc TokenScorer, text string) (float64, error) {
	tokens, err := sc.Tokenize(text)
	if err != nil {
		return 0, err
	}
	logProbs, err := sc.LogProbs(tokens)
	if err != nil {
		return 0, err
	}
	var sum float64
	for _, lp := range logProbs {
		sum += lp
	}
	n := textutil.ByteLen(text)
	if n == 0 {
		return 1, nil
	}
	return math.Exp(-sum / float64(n)), nil
}
