package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/annot/pkg/annot/internalerr"
	"github.com/cognicore/annot/pkg/annot/perplexity"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadJob(t *testing.T) {
	path := writeFile(t, t.TempDir(), "job.yaml", `
operations:
  - op: tag_string
    fields: [title, body]
    values: [scam, fraud]
    tag: junk
  - op: detect_language
    field: body
  - op: calc_perplexity
    field: body
    backend: statistical
    language: en
    domain: wikipedia
  - op: count_tokens
    fields: [body]
    tokenizer: cl100k_base
`)

	job, err := LoadJob(path)
	require.NoError(t, err)
	require.Len(t, job.Operations, 4)

	assert.Equal(t, "tag_string", job.Operations[0].Op)
	assert.Equal(t, []string{"title", "body"}, job.Operations[0].Fields)
	assert.Equal(t, "junk", job.Operations[0].Tag)
	assert.Equal(t, "statistical", job.Operations[2].Backend)
	assert.Equal(t, "cl100k_base", job.Operations[3].Tokenizer)
}

func TestLoadJobMissingFile(t *testing.T) {
	_, err := LoadJob(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadModels(t *testing.T) {
	path := writeFile(t, t.TempDir(), "models.yaml", `
ngram_dir: /models/ngram
spam:
  seo_spam:
    spam_samples: /models/spam.txt
    ham_samples: /models/ham.txt
ner:
  pii-ner:
    model_path: /models/pii-ner
`)

	cfg, err := LoadModels(path)
	require.NoError(t, err)
	assert.Equal(t, "/models/ngram", cfg.NGramDir)
	assert.Equal(t, "/models/spam.txt", cfg.Spam["seo_spam"].SpamSamples)
	assert.Equal(t, "/models/pii-ner", cfg.NER["pii-ner"].ModelPath)
}

func TestPerplexityBackendDefaults(t *testing.T) {
	b, err := perplexityBackend(Operation{Op: "calc_perplexity"})
	require.NoError(t, err)

	st, ok := b.(perplexity.Statistical)
	require.True(t, ok)
	assert.Equal(t, "en", st.Language)
	assert.Equal(t, "wikipedia", st.Domain)
}

func TestPerplexityBackendNeural(t *testing.T) {
	b, err := perplexityBackend(Operation{Op: "calc_perplexity", Backend: "neural", Checkpoint: "p70"})
	require.NoError(t, err)

	n, ok := b.(perplexity.Neural)
	require.True(t, ok)
	assert.Equal(t, "p70", n.Checkpoint)
}

func TestPerplexityBackendUnknown(t *testing.T) {
	_, err := perplexityBackend(Operation{Op: "calc_perplexity", Backend: "quantum"})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}
