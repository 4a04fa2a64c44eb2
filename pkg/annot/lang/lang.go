// Package lang defines the language-identification capability consumed by
// the pipeline. Concrete identifiers live behind the model resolver.
package lang

// Prediction is one ranked language guess.
type Prediction struct {
	Code       string
	Confidence float64
}

// Identifier classifies a text's language, returning predictions ranked by
// confidence, best first.
type Identifier interface {
	Predict(text string) ([]Prediction, error)
}

// Top returns the code of the best-ranked prediction, or "" when the
// identifier produced none.
func Top(preds []Prediction) string {
	if len(preds) == 0 {
		return ""
	}
	return preds[0].Code
}
