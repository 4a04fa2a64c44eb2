package models

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/cognicore/annot/pkg/annot/lang"
)

// linguaIdentifier adapts the lingua detector to the lang.Identifier
// capability. Confidence values arrive sorted best-first, which is exactly
// the ranked prediction list the contract wants.
type linguaIdentifier struct {
	detector lingua.LanguageDetector
}

// NewLinguaIdentifier builds a detector over all supported languages.
func NewLinguaIdentifier() lang.Identifier {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		Build()
	return &linguaIdentifier{detector: detector}
}

func (l *linguaIdentifier) Predict(text string) ([]lang.Prediction, error) {
	values := l.detector.ComputeLanguageConfidenceValues(text)
	preds := make([]lang.Prediction, 0, len(values))
	for _, cv := range values {
		preds = append(preds, lang.Prediction{
			Code:       strings.ToLower(cv.Language().IsoCode639_1().String()),
			Confidence: cv.Value(),
		})
	}
	return preds, nil
}
