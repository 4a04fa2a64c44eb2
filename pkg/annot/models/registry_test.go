package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/annot/pkg/annot/internalerr"
	"github.com/cognicore/annot/pkg/annot/lang"
	"github.com/cognicore/annot/pkg/annot/perplexity"
)

type staticIdentifier struct{ code string }

func (s staticIdentifier) Predict(string) ([]lang.Prediction, error) {
	return []lang.Prediction{{Code: s.code, Confidence: 1}}, nil
}

func TestRegistryUnknownNames(t *testing.T) {
	r := NewRegistry()

	_, err := r.LanguageIdentifier("nope")
	assert.ErrorIs(t, err, internalerr.ErrModelNotFound)

	_, err = r.SpamClassifier("nope")
	assert.ErrorIs(t, err, internalerr.ErrModelNotFound)

	_, err = r.Tokenizer("nope")
	assert.ErrorIs(t, err, internalerr.ErrModelNotFound)

	_, err = r.EntityScanner("nope")
	assert.ErrorIs(t, err, internalerr.ErrModelNotFound)

	_, err = r.TokenScorer("nope")
	assert.ErrorIs(t, err, internalerr.ErrModelNotFound)

	_, err = r.LanguageModel("en", "wikipedia")
	assert.ErrorIs(t, err, internalerr.ErrModelNotFound)
}

func TestRegistryCustomRegistration(t *testing.T) {
	r := NewRegistry()
	r.RegisterLanguageIdentifier("static", func() (lang.Identifier, error) {
		return staticIdentifier{code: "eo"}, nil
	})

	ident, err := r.LanguageIdentifier("static")
	require.NoError(t, err)
	preds, err := ident.Predict("saluton")
	require.NoError(t, err)
	assert.Equal(t, "eo", lang.Top(preds))
}

func TestRegistryLanguageModelKeyedByPair(t *testing.T) {
	r := NewRegistry()
	r.RegisterLanguageModel("en", "wikipedia", func() (perplexity.LanguageModel, error) {
		return NewNGramModel(map[string]float64{"the": 10}, nil), nil
	})

	_, err := r.LanguageModel("en", "wikipedia")
	require.NoError(t, err)

	// Same language, different domain: distinct model.
	_, err = r.LanguageModel("en", "news")
	assert.ErrorIs(t, err, internalerr.ErrModelNotFound)
}

func TestDefaultRegistryBuiltins(t *testing.T) {
	r := DefaultRegistry()

	sc, err := r.EntityScanner(EntityScannerName)
	require.NoError(t, err)
	findings, err := sc.Scan("mail me: a@b.io")
	require.NoError(t, err)
	assert.Len(t, findings, 1)

	tok, err := r.Tokenizer(WordTokenizerName)
	require.NoError(t, err)
	tokens, err := tok.Tokenize("two words")
	require.NoError(t, err)
	assert.Len(t, tokens, 2)

	// No spam classifier is built in; it needs trained artifacts.
	_, err = r.SpamClassifier(SpamClassifierName)
	assert.ErrorIs(t, err, internalerr.ErrModelNotFound)
}

func TestWordTokenizer(t *testing.T) {
	tok := NewWordTokenizer()
	tokens, err := tok.Tokenize("re-run the test, twice!")
	require.NoError(t, err)
	assert.Equal(t, []string{"re-run", "the", "test", "twice"}, tokens)

	tokens, err = tok.Tokenize("")
	require.NoError(t, err)
	assert.Empty(t, tokens)
}
