package models

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/annot/pkg/annot/textutil"
)

// backoffWeight is the stupid-backoff penalty applied when a bigram is
// unseen and scoring falls back to the unigram estimate.
const backoffWeight = 0.4

// ngramFile is the on-disk model format: raw counts from a reference
// corpus, one file per (language, domain).
type ngramFile struct {
	Language string             `yaml:"language"`
	Domain   string             `yaml:"domain"`
	Unigrams map[string]float64 `yaml:"unigrams"`
	Bigrams  map[string]float64 `yaml:"bigrams"`
}

// NGramModel scores text with a bigram model under stupid backoff and
// reports perplexity normalized by the text's byte length.
type NGramModel struct {
	unigrams map[string]float64
	bigrams  map[string]float64
	total    float64
}

// LoadNGramModel reads a yaml count file.
func LoadNGramModel(path string) (*NGramModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ngram model %s: %w", path, err)
	}
	var f ngramFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse ngram model %s: %w", path, err)
	}
	return NewNGramModel(f.Unigrams, f.Bigrams), nil
}

// NewNGramModel builds a model from unigram and bigram counts.
func NewNGramModel(unigrams, bigrams map[string]float64) *NGramModel {
	m := &NGramModel{
		unigrams: make(map[string]float64, len(unigrams)),
		bigrams:  make(map[string]float64, len(bigrams)),
	}
	for tok, c := range unigrams {
		m.unigrams[strings.ToLower(tok)] = c
		m.total += c
	}
	for pair, c := range bigrams {
		m.bigrams[strings.ToLower(pair)] = c
	}
	return m
}

// Perplexity scores the text and normalizes by its byte length, matching
// the neural backend's cross-unit normalization.
func (m *NGramModel) Perplexity(text string) (float64, error) {
	tokens, _ := NewWordTokenizer().Tokenize(strings.ToLower(text))
	n := textutil.ByteLen(text)
	if len(tokens) == 0 || n == 0 {
		return 1, nil
	}

	var sum float64
	prev := ""
	for _, tok := range tokens {
		sum += m.logProb(prev, tok)
		prev = tok
	}
	return math.Exp(-sum / float64(n)), nil
}

// logProb is the stupid-backoff estimate of P(tok | prev).
func (m *NGramModel) logProb(prev, tok string) float64 {
	if prev != "" {
		if c, ok := m.bigrams[prev+" "+tok]; ok {
			if pc := m.unigrams[prev]; pc > 0 {
				return math.Log(c / pc)
			}
		}
	}
	uni := m.unigrams[tok]
	// Unseen tokens get one pseudo-count against the corpus total.
	p := (uni + 1) / (m.total + float64(len(m.unigrams)) + 1)
	if prev != "" {
		p *= backoffWeight
	}
	return math.Log(p)
}
