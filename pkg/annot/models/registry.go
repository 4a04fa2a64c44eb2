// Package models is the model resolver: it turns model identifiers into
// ready-to-use predictors, scanners and tokenizers. Resolution failures are
// fatal to the calling operation; there is no retry. The registry may cache
// artifacts, the pipeline itself never holds on to a resolved model.
package models

import (
	"fmt"

	"github.com/cognicore/annot/pkg/annot/count"
	"github.com/cognicore/annot/pkg/annot/internalerr"
	"github.com/cognicore/annot/pkg/annot/lang"
	"github.com/cognicore/annot/pkg/annot/perplexity"
	"github.com/cognicore/annot/pkg/annot/pii"
	"github.com/cognicore/annot/pkg/annot/spam"
)

// Well-known model names the pipeline resolves by default.
const (
	LanguageIdentifierName = "lid"
	EntityScannerName      = "pii"
	SpamClassifierName     = "seo_spam"
	WordTokenizerName      = "words"
)

// Registry maps model names to constructors. A constructor runs on every
// resolve; whether it reloads or reuses artifacts is its own business.
type Registry struct {
	identifiers map[string]func() (lang.Identifier, error)
	classifiers map[string]func() (spam.Classifier, error)
	tokenizers  map[string]func() (count.Tokenizer, error)
	scanners    map[string]func() (pii.Scanner, error)
	scorers     map[string]func() (perplexity.TokenScorer, error)
	langModels  map[string]func() (perplexity.LanguageModel, error)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		identifiers: make(map[string]func() (lang.Identifier, error)),
		classifiers: make(map[string]func() (spam.Classifier, error)),
		tokenizers:  make(map[string]func() (count.Tokenizer, error)),
		scanners:    make(map[string]func() (pii.Scanner, error)),
		scorers:     make(map[string]func() (perplexity.TokenScorer, error)),
		langModels:  make(map[string]func() (perplexity.LanguageModel, error)),
	}
}

// DefaultRegistry returns a registry with the built-in capabilities wired:
// lingua language identification, the regex entity scanner, the word
// tokenizer and the tiktoken subword encodings. Spam classifiers, token
// scorers and statistical language models need artifacts and are registered
// from configuration.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.RegisterLanguageIdentifier(LanguageIdentifierName, func() (lang.Identifier, error) {
		return NewLinguaIdentifier(), nil
	})
	r.RegisterEntityScanner(EntityScannerName, func() (pii.Scanner, error) {
		return pii.NewRegexScanner(), nil
	})
	r.RegisterTokenizer(WordTokenizerName, func() (count.Tokenizer, error) {
		return NewWordTokenizer(), nil
	})
	for _, name := range TiktokenEncodings() {
		r.RegisterTokenizer(name, func() (count.Tokenizer, error) {
			return NewTiktoken(name)
		})
	}
	return r
}

// RegisterLanguageIdentifier registers a language identifier constructor.
func (r *Registry) RegisterLanguageIdentifier(name string, fn func() (lang.Identifier, error)) {
	r.identifiers[name] = fn
}

// RegisterSpamClassifier registers a spam classifier constructor.
func (r *Registry) RegisterSpamClassifier(name string, fn func() (spam.Classifier, error)) {
	r.classifiers[name] = fn
}

// RegisterTokenizer registers a tokenizer constructor.
func (r *Registry) RegisterTokenizer(name string, fn func() (count.Tokenizer, error)) {
	r.tokenizers[name] = fn
}

// RegisterEntityScanner registers an entity scanner constructor.
func (r *Registry) RegisterEntityScanner(name string, fn func() (pii.Scanner, error)) {
	r.scanners[name] = fn
}

// RegisterTokenScorer registers a neural token scorer constructor.
func (r *Registry) RegisterTokenScorer(checkpoint string, fn func() (perplexity.TokenScorer, error)) {
	r.scorers[checkpoint] = fn
}

// RegisterLanguageModel registers a statistical language model constructor
// for a (language, domain) pair.
func (r *Registry) RegisterLanguageModel(language, domain string, fn func() (perplexity.LanguageModel, error)) {
	r.langModels[langModelKey(language, domain)] = fn
}

// LanguageIdentifier resolves a language identifier by name.
func (r *Registry) LanguageIdentifier(name string) (lang.Identifier, error) {
	fn, ok := r.identifiers[name]
	if !ok {
		return nil, fmt.Errorf("%w: language identifier %q", internalerr.ErrModelNotFound, name)
	}
	return fn()
}

// SpamClassifier resolves a spam classifier by name.
func (r *Registry) SpamClassifier(name string) (spam.Classifier, error) {
	fn, ok := r.classifiers[name]
	if !ok {
		return nil, fmt.Errorf("%w: spam classifier %q", internalerr.ErrModelNotFound, name)
	}
	return fn()
}

// Tokenizer resolves a tokenizer by name.
func (r *Registry) Tokenizer(name string) (count.Tokenizer, error) {
	fn, ok := r.tokenizers[name]
	if !ok {
		return nil, fmt.Errorf("%w: tokenizer %q", internalerr.ErrModelNotFound, name)
	}
	return fn()
}

// EntityScanner resolves an entity scanner by name.
func (r *Registry) EntityScanner(name string) (pii.Scanner, error) {
	fn, ok := r.scanners[name]
	if !ok {
		return nil, fmt.Errorf("%w: entity scanner %q", internalerr.ErrModelNotFound, name)
	}
	return fn()
}

// TokenScorer resolves a neural token scorer by checkpoint name.
func (r *Registry) TokenScorer(checkpoint string) (perplexity.TokenScorer, error) {
	fn, ok := r.scorers[checkpoint]
	if !ok {
		return nil, fmt.Errorf("%w: token scorer %q", internalerr.ErrModelNotFound, checkpoint)
	}
	return fn()
}

// LanguageModel resolves a statistical language model by (language, domain).
func (r *Registry) LanguageModel(language, domain string) (perplexity.LanguageModel, error) {
	fn, ok := r.langModels[langModelKey(language, domain)]
	if !ok {
		return nil, fmt.Errorf("%w: language model %s/%s", internalerr.ErrModelNotFound, domain, language)
	}
	return fn()
}

func langModelKey(language, domain string) string {
	return domain + "/" + language
}
