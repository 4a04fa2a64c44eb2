package models

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/cognicore/annot/pkg/annot/spam"
)

// BayesClassifier is a naive Bayes spam classifier trained from spam and
// ham samples, with an excluded-token list for words too common to carry
// signal.
type BayesClassifier struct {
	spamLog     map[string]float64
	hamLog      map[string]float64
	spamUnknown float64
	hamUnknown  float64
	spamPrior   float64
	hamPrior    float64
	excluded    map[string]struct{}
}

// TrainBayes builds a classifier from raw sample texts.
func TrainBayes(spamSamples, hamSamples, excluded []string) *BayesClassifier {
	c := &BayesClassifier{
		spamLog:  make(map[string]float64),
		hamLog:   make(map[string]float64),
		excluded: make(map[string]struct{}, len(excluded)),
	}
	for _, tok := range excluded {
		c.excluded[strings.ToLower(tok)] = struct{}{}
	}

	spamCounts, spamTotal := c.countTokens(spamSamples)
	hamCounts, hamTotal := c.countTokens(hamSamples)

	vocab := make(map[string]struct{}, len(spamCounts)+len(hamCounts))
	for tok := range spamCounts {
		vocab[tok] = struct{}{}
	}
	for tok := range hamCounts {
		vocab[tok] = struct{}{}
	}
	v := float64(len(vocab)) + 1

	// Laplace-smoothed log likelihoods.
	for tok, n := range spamCounts {
		c.spamLog[tok] = math.Log((n + 1) / (spamTotal + v))
	}
	for tok, n := range hamCounts {
		c.hamLog[tok] = math.Log((n + 1) / (hamTotal + v))
	}
	c.spamUnknown = math.Log(1 / (spamTotal + v))
	c.hamUnknown = math.Log(1 / (hamTotal + v))

	nSpam := float64(len(spamSamples))
	nHam := float64(len(hamSamples))
	c.spamPrior = math.Log((nSpam + 1) / (nSpam + nHam + 2))
	c.hamPrior = math.Log((nHam + 1) / (nSpam + nHam + 2))
	return c
}

// LoadBayesFromFiles trains from line-per-sample files. excludedPath may be
// empty.
func LoadBayesFromFiles(spamPath, hamPath, excludedPath string) (*BayesClassifier, error) {
	spamSamples, err := readLines(spamPath)
	if err != nil {
		return nil, fmt.Errorf("load spam samples: %w", err)
	}
	hamSamples, err := readLines(hamPath)
	if err != nil {
		return nil, fmt.Errorf("load ham samples: %w", err)
	}
	var excluded []string
	if excludedPath != "" {
		excluded, err = readLines(excludedPath)
		if err != nil {
			return nil, fmt.Errorf("load excluded tokens: %w", err)
		}
	}
	return TrainBayes(spamSamples, hamSamples, excluded), nil
}

// Predict returns the predicted label and the probability of that label.
func (c *BayesClassifier) Predict(text string) (spam.Prediction, error) {
	spamScore := c.spamPrior
	hamScore := c.hamPrior
	for _, tok := range c.tokenize(text) {
		if lp, ok := c.spamLog[tok]; ok {
			spamScore += lp
		} else {
			spamScore += c.spamUnknown
		}
		if lp, ok := c.hamLog[tok]; ok {
			hamScore += lp
		} else {
			hamScore += c.hamUnknown
		}
	}

	// Posterior via the two-class logistic form, stable for large gaps.
	pSpam := 1 / (1 + math.Exp(hamScore-spamScore))
	if pSpam >= 0.5 {
		return spam.Prediction{Label: spam.LabelDiscard, Probability: pSpam}, nil
	}
	return spam.Prediction{Label: spam.LabelKeep, Probability: 1 - pSpam}, nil
}

func (c *BayesClassifier) countTokens(samples []string) (map[string]float64, float64) {
	counts := make(map[string]float64)
	var total float64
	for _, s := range samples {
		for _, tok := range c.tokenize(s) {
			counts[tok]++
			total++
		}
	}
	return counts, total
}

func (c *BayesClassifier) tokenize(text string) []string {
	raw, _ := NewWordTokenizer().Tokenize(strings.ToLower(text))
	tokens := raw[:0]
	for _, tok := range raw {
		if _, drop := c.excluded[tok]; !drop {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
