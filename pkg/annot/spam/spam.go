// Package spam defines the binary spam-classification capability and the
// probability calibration applied to its output.
package spam

import "strings"

// Labels the classifier may predict. The two are mutually exclusive.
const (
	LabelDiscard = "discard"
	LabelKeep    = "keep"
)

// Prediction is the classifier's output: the predicted label and the
// probability of that predicted label.
type Prediction struct {
	Label       string
	Probability float64
}

// Classifier predicts whether a preprocessed document is spam.
type Classifier interface {
	Predict(text string) (Prediction, error)
}

// Preprocess lowercases and flattens newlines; applied to every document
// before classification.
func Preprocess(text string) string {
	return strings.ReplaceAll(strings.ToLower(text), "\n", " ")
}

// Calibrate converts a prediction into the spam flag and the probability of
// spam. A "discard" prediction passes its probability through; anything
// else reports probability 1-p, converting the probability of keeping into
// the probability of spam.
func Calibrate(p Prediction) (bool, float64) {
	if p.Label == LabelDiscard {
		return true, p.Probability
	}
	return false, 1 - p.Probability
}
