// Package annot is a dataset annotation pipeline: it attaches derived
// metadata columns (tags, language codes, perplexity scores, PII flags,
// spam likelihood, token and byte counts) to a tabular collection of text
// records. Operations chain fluently, mutate the pipeline's dataset in
// place and write only into reserved __-prefixed column namespaces.
package annot

import (
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/annot/pkg/annot/count"
	"github.com/cognicore/annot/pkg/annot/dataset"
	"github.com/cognicore/annot/pkg/annot/internalerr"
	"github.com/cognicore/annot/pkg/annot/lang"
	"github.com/cognicore/annot/pkg/annot/match"
	"github.com/cognicore/annot/pkg/annot/models"
	"github.com/cognicore/annot/pkg/annot/perplexity"
	"github.com/cognicore/annot/pkg/annot/pii"
	"github.com/cognicore/annot/pkg/annot/spam"
	"github.com/cognicore/annot/pkg/annot/textutil"
)

// Reserved single-name output columns.
const (
	LanguageColumn   = "__language"
	PerplexityColumn = "__perplexity"
	PIIAnyColumn     = "__pii__any"
)

// Reserved output namespace prefixes.
const (
	tagPrefix         = "__tag__"
	piiPrefix         = "__pii__"
	seoSpamPrefix     = "__seo_spam__"
	seoSpamProbPrefix = "__seo_spam_prob__"
	byteCountPrefix   = "__byte_count__"
	tokenCountPrefix  = "__token_count__"
)

// TagColumn returns the boolean column name for a tag.
func TagColumn(tag string) string { return tagPrefix + tag }

// PIIColumn returns the boolean column name for a tracked PII category.
func PIIColumn(category string) string { return piiPrefix + category }

// SEOSpamColumn returns the boolean spam column name for a field.
func SEOSpamColumn(field string) string { return seoSpamPrefix + field }

// SEOSpamProbColumn returns the spam probability column name for a field.
func SEOSpamProbColumn(field string) string { return seoSpamProbPrefix + field }

// ByteCountColumn returns the byte count column name for a field.
func ByteCountColumn(field string) string { return byteCountPrefix + field }

// TokenCountColumn returns the token count column name for a field.
func TokenCountColumn(field string) string { return tokenCountPrefix + field }

// Resolver supplies ready-to-use analyzer backends by identifier. It is
// assumed to cache artifacts itself and to fail outright (no retry) when an
// identifier is unknown or a model cannot be loaded.
type Resolver interface {
	LanguageIdentifier(name string) (lang.Identifier, error)
	SpamClassifier(name string) (spam.Classifier, error)
	Tokenizer(name string) (count.Tokenizer, error)
	EntityScanner(name string) (pii.Scanner, error)
	TokenScorer(checkpoint string) (perplexity.TokenScorer, error)
	LanguageModel(language, domain string) (perplexity.LanguageModel, error)
}

// Options configures a Pipeline.
type Options struct {
	Resolver Resolver    // nil: models.DefaultRegistry()
	Logger   *zap.Logger // nil: zap.NewNop()
}

// Pipeline owns the dataset under annotation. Every operation validates its
// inputs, builds the needed analyzer fresh, derives one result per row and
// replaces the dataset with the merged result, returning the pipeline for
// chaining. The first failing operation sticks: later operations are
// no-ops and Err surfaces the failure. A failed operation never mutates
// the dataset.
//
// Operations are invoked sequentially by the caller; two operations
// mutating the same pipeline concurrently is unsupported.
type Pipeline struct {
	ds       *dataset.Dataset
	resolver Resolver
	logger   *zap.Logger
	err      error
}

// New creates a pipeline over the given dataset.
func New(ds *dataset.Dataset, opts Options) *Pipeline {
	if opts.Resolver == nil {
		opts.Resolver = models.DefaultRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Pipeline{ds: ds, resolver: opts.Resolver, logger: opts.Logger}
}

// Dataset returns the current dataset.
func (p *Pipeline) Dataset() *dataset.Dataset { return p.ds }

// Err returns the first operation failure, if any.
func (p *Pipeline) Err() error { return p.err }

// TagString tags rows where any of the fields contains any of the literal
// values (case-sensitive substring containment). Fields missing from a row
// are skipped. Writes __tag__<tag>; re-tagging an existing tag warns and
// overwrites.
func (p *Pipeline) TagString(fields, values []string, tag string) *Pipeline {
	if p.err != nil {
		return p
	}
	m, err := match.NewLiteral(values)
	if err != nil {
		return p.fail("tag_string", err)
	}
	return p.tag("tag_string", fields, tag, m)
}

// TagRegex tags rows where any of the fields matches the regular
// expression, used verbatim. Writes __tag__<tag>.
func (p *Pipeline) TagRegex(fields []string, expr, tag string) *Pipeline {
	if p.err != nil {
		return p
	}
	m, err := match.NewRegex(expr)
	if err != nil {
		return p.fail("tag_regex", err)
	}
	return p.tag("tag_regex", fields, tag, m)
}

func (p *Pipeline) tag(op string, fields []string, tag string, m match.Matcher) *Pipeline {
	col := TagColumn(tag)
	if p.ds.HasColumn(col) {
		p.logger.Warn("tag already exists and will be overwritten",
			zap.String("op", op), zap.String("column", col))
	}
	return p.apply(op, []string{col}, func(row dataset.Row) (map[string]any, error) {
		for _, field := range fields {
			v, ok := row[field]
			if !ok {
				continue
			}
			if m.Match(textutil.Stringify(v)) {
				return map[string]any{col: true}, nil
			}
		}
		return map[string]any{col: false}, nil
	})
}

// DetectLanguage classifies the language of one field, which must exist in
// the dataset schema. Writes the top-ranked code to __language.
func (p *Pipeline) DetectLanguage(field string) *Pipeline {
	if p.err != nil {
		return p
	}
	const op = "detect_language"
	if !p.ds.HasColumn(field) {
		return p.fail(op, fmt.Errorf("%w: %s", internalerr.ErrMissingField, field))
	}
	ident, err := p.resolver.LanguageIdentifier(models.LanguageIdentifierName)
	if err != nil {
		return p.fail(op, err)
	}
	return p.apply(op, []string{LanguageColumn}, func(row dataset.Row) (map[string]any, error) {
		text := textutil.FlattenNewlines(textutil.Stringify(row[field]))
		preds, err := ident.Predict(text)
		if err != nil {
			return nil, err
		}
		return map[string]any{LanguageColumn: lang.Top(preds)}, nil
	})
}

// CalcPerplexity scores one string field with the selected backend and
// writes __perplexity. Both backends share the column; re-invocation with a
// different backend silently overwrites.
func (p *Pipeline) CalcPerplexity(field string, backend perplexity.Backend) *Pipeline {
	if p.err != nil {
		return p
	}
	const op = "calc_perplexity"
	if err := p.requireStringField(field); err != nil {
		return p.fail(op, err)
	}

	var score func(text string) (float64, error)
	switch b := backend.(type) {
	case perplexity.Statistical:
		if b.Language == "" || b.Domain == "" {
			return p.fail(op, fmt.Errorf(
				"%w: statistical backend requires both language and domain",
				internalerr.ErrInvalidConfig))
		}
		lm, err := p.resolver.LanguageModel(b.Language, b.Domain)
		if err != nil {
			return p.fail(op, err)
		}
		score = lm.Perplexity
	case perplexity.Neural:
		checkpoint := b.Checkpoint
		if checkpoint == "" {
			checkpoint = perplexity.DefaultCheckpoint
		}
		sc, err := p.resolver.TokenScorer(checkpoint)
		if err != nil {
			return p.fail(op, err)
		}
		score = func(text string) (float64, error) {
			return perplexity.ScoreNeural(sc, text)
		}
	default:
		return p.fail(op, fmt.Errorf(
			"%w: unsupported perplexity backend %T", internalerr.ErrInvalidConfig, backend))
	}

	return p.apply(op, []string{PerplexityColumn}, func(row dataset.Row) (map[string]any, error) {
		ppl, err := score(textutil.Stringify(row[field]))
		if err != nil {
			return nil, err
		}
		return map[string]any{PerplexityColumn: ppl}, nil
	})
}

// DetectPII scans the fields for sensitive content. Fields missing from a
// row are skipped. Writes one boolean per tracked category plus
// __pii__any, which any finding of any category sets.
func (p *Pipeline) DetectPII(fields []string) *Pipeline {
	if p.err != nil {
		return p
	}
	const op = "detect_pii"
	scanner, err := p.resolver.EntityScanner(models.EntityScannerName)
	if err != nil {
		return p.fail(op, err)
	}
	cols := make([]string, 0, len(pii.Tracked)+1)
	for _, cat := range pii.Tracked {
		cols = append(cols, PIIColumn(cat))
	}
	cols = append(cols, PIIAnyColumn)
	return p.apply(op, cols, func(row dataset.Row) (map[string]any, error) {
		var findings []pii.Finding
		for _, field := range fields {
			v, ok := row[field]
			if !ok {
				continue
			}
			fs, err := scanner.Scan(textutil.Stringify(v))
			if err != nil {
				return nil, err
			}
			findings = append(findings, fs...)
		}
		out := make(map[string]any, len(pii.Tracked)+1)
		for _, cat := range pii.Tracked {
			found := false
			for _, f := range findings {
				if f.Category == cat {
					found = true
					break
				}
			}
			out[PIIColumn(cat)] = found
		}
		out[PIIAnyColumn] = len(findings) > 0
		return out, nil
	})
}

// DetectSEOSpam scores one string field with the pretrained spam
// classifier. Writes __seo_spam__<field> and __seo_spam_prob__<field>, the
// latter always the probability of spam.
func (p *Pipeline) DetectSEOSpam(field string) *Pipeline {
	if p.err != nil {
		return p
	}
	const op = "detect_seo_spam"
	if err := p.requireStringField(field); err != nil {
		return p.fail(op, err)
	}
	cls, err := p.resolver.SpamClassifier(models.SpamClassifierName)
	if err != nil {
		return p.fail(op, err)
	}
	boolCol, probCol := SEOSpamColumn(field), SEOSpamProbColumn(field)
	return p.apply(op, []string{boolCol, probCol}, func(row dataset.Row) (map[string]any, error) {
		pred, err := cls.Predict(spam.Preprocess(textutil.Stringify(row[field])))
		if err != nil {
			return nil, err
		}
		isSpam, prob := spam.Calibrate(pred)
		return map[string]any{boolCol: isSpam, probCol: prob}, nil
	})
}

// CountTokens writes one length column per field: byte length of the
// stringified value when tokenizerName is empty (__byte_count__<field>),
// subword token count otherwise (__token_count__<field>). All fields must
// exist in the dataset schema.
func (p *Pipeline) CountTokens(fields []string, tokenizerName string) *Pipeline {
	if p.err != nil {
		return p
	}
	const op = "count_tokens"
	for _, field := range fields {
		if !p.ds.HasColumn(field) {
			return p.fail(op, fmt.Errorf("%w: %s", internalerr.ErrMissingField, field))
		}
	}

	var tok count.Tokenizer
	prefix := byteCountPrefix
	if tokenizerName != "" {
		var err error
		tok, err = p.resolver.Tokenizer(tokenizerName)
		if err != nil {
			return p.fail(op, err)
		}
		prefix = tokenCountPrefix
	}

	cols := make([]string, len(fields))
	for i, field := range fields {
		cols[i] = prefix + field
	}
	return p.apply(op, cols, func(row dataset.Row) (map[string]any, error) {
		out := make(map[string]any, len(fields))
		for i, field := range fields {
			text := textutil.Stringify(row[field])
			if tok == nil {
				out[cols[i]] = textutil.ByteLen(text)
				continue
			}
			tokens, err := tok.Tokenize(text)
			if err != nil {
				return nil, err
			}
			out[cols[i]] = len(tokens)
		}
		return out, nil
	})
}

// apply runs the row function over the dataset and swaps in the merged
// result. On failure the current dataset stays as it was.
func (p *Pipeline) apply(op string, cols []string, fn dataset.RowFunc) *Pipeline {
	start := time.Now()
	next, err := p.ds.Map(fn)
	if err != nil {
		return p.fail(op, err)
	}
	p.ds = next
	p.logger.Info("annotated dataset in-place",
		zap.String("op", op),
		zap.String("op_id", ulid.Make().String()),
		zap.Strings("columns", cols),
		zap.Int("rows", next.NumRows()),
		zap.Duration("elapsed", time.Since(start)))
	return p
}

func (p *Pipeline) fail(op string, err error) *Pipeline {
	p.err = fmt.Errorf("%s: %w", op, err)
	p.logger.Error("operation aborted", zap.String("op", op), zap.Error(err))
	return p
}

func (p *Pipeline) requireStringField(field string) error {
	t, ok := p.ds.ColumnType(field)
	if !ok {
		return fmt.Errorf("%w: %s", internalerr.ErrMissingField, field)
	}
	if t != dataset.TypeString {
		return fmt.Errorf("%w: %s is %s", internalerr.ErrTypeMismatch, field, t)
	}
	return nil
}
