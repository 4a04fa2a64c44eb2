package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/annot/pkg/annot"
	"github.com/cognicore/annot/pkg/annot/internalerr"
	"github.com/cognicore/annot/pkg/annot/models"
	"github.com/cognicore/annot/pkg/annot/perplexity"
	"github.com/cognicore/annot/pkg/annot/pii"
	"github.com/cognicore/annot/pkg/annot/spam"
)

// Loader loads configuration files and constructs components
type Loader struct {
	JobPath    string
	ModelsPath string
}

// Components holds the loaded job and the registry backing it
type Components struct {
	Job      *Job
	Registry *models.Registry
}

// Load reads the configuration files and returns initialized components.
// The registry starts from the built-in defaults; the models config adds
// artifact-backed capabilities on top.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{Registry: models.DefaultRegistry()}

	if l.JobPath != "" {
		job, err := LoadJob(l.JobPath)
		if err != nil {
			return nil, fmt.Errorf("load job: %w", err)
		}
		comp.Job = job
	}

	if l.ModelsPath != "" {
		cfg, err := LoadModels(l.ModelsPath)
		if err != nil {
			return nil, fmt.Errorf("load models config: %w", err)
		}
		if err := registerModels(comp.Registry, cfg); err != nil {
			return nil, fmt.Errorf("register models: %w", err)
		}
	}

	return comp, nil
}

func registerModels(reg *models.Registry, cfg *ModelsConfig) error {
	for name, sc := range cfg.Spam {
		reg.RegisterSpamClassifier(name, func() (spam.Classifier, error) {
			return models.LoadBayesFromFiles(sc.SpamSamples, sc.HamSamples, sc.ExcludedTokens)
		})
	}
	for name, nc := range cfg.NER {
		reg.RegisterEntityScanner(name, func() (pii.Scanner, error) {
			return models.NewNERScanner(nc.ModelPath, nc.OnnxFilename)
		})
	}
	if cfg.NGramDir != "" {
		if err := registerNGramDir(reg, cfg.NGramDir); err != nil {
			return err
		}
	}
	return nil
}

// registerNGramDir registers one statistical language model per
// <domain>.<language>.yaml file in the directory.
func registerNGramDir(reg *models.Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read ngram dir %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base, ok := strings.CutSuffix(e.Name(), ".yaml")
		if !ok {
			continue
		}
		parts := strings.Split(base, ".")
		if len(parts) != 2 {
			continue
		}
		domain, language := parts[0], parts[1]
		path := filepath.Join(dir, e.Name())
		reg.RegisterLanguageModel(language, domain, func() (perplexity.LanguageModel, error) {
			return models.LoadNGramModel(path)
		})
	}
	return nil
}

// Apply runs the job's operations against the pipeline in order, stopping
// at the first failure. Backend and parameter defaults mirror the
// pipeline's: an omitted perplexity backend means statistical over
// en/wikipedia.
func Apply(p *annot.Pipeline, job *Job) error {
	for _, op := range job.Operations {
		switch op.Op {
		case "tag_string":
			p.TagString(op.Fields, op.Values, op.Tag)
		case "tag_regex":
			p.TagRegex(op.Fields, op.Regex, op.Tag)
		case "detect_language":
			p.DetectLanguage(op.Field)
		case "calc_perplexity":
			backend, err := perplexityBackend(op)
			if err != nil {
				return err
			}
			p.CalcPerplexity(op.Field, backend)
		case "detect_pii":
			p.DetectPII(op.Fields)
		case "detect_seo_spam":
			p.DetectSEOSpam(op.Field)
		case "count_tokens":
			p.CountTokens(op.Fields, op.Tokenizer)
		default:
			return fmt.Errorf("%w: unknown operation %q", internalerr.ErrInvalidConfig, op.Op)
		}
		if err := p.Err(); err != nil {
			return err
		}
	}
	return nil
}

func perplexityBackend(op Operation) (perplexity.Backend, error) {
	switch op.Backend {
	case "statistical", "":
		language, domain := op.Language, op.Domain
		if language == "" {
			language = "en"
		}
		if domain == "" {
			domain = "wikipedia"
		}
		return perplexity.Statistical{Language: language, Domain: domain}, nil
	case "neural":
		return perplexity.Neural{Checkpoint: op.Checkpoint}, nil
	default:
		return nil, fmt.Errorf("%w: perplexity backend %q", internalerr.ErrInvalidConfig, op.Backend)
	}
}
