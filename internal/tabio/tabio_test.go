package tabio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/annot/pkg/annot/dataset"
)

func TestDetectFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"docs.csv":     FormatCSV,
		"docs.jsonl":   FormatJSONL,
		"docs.ndjson":  FormatJSONL,
		"docs.db":      FormatSQLite,
		"docs.sqlite3": FormatSQLite,
	} {
		got, err := DetectFormat(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := DetectFormat("docs.parquet")
	assert.Error(t, err)
}

func TestCSVRoundtrip(t *testing.T) {
	ds := dataset.FromRows([]dataset.Row{
		{"title": "first", "text": "hello, world"},
		{"title": "second", "text": "line with \"quotes\""},
	})

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, ds))

	back, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, ds.ColumnNames(), back.ColumnNames())
	assert.Equal(t, 2, back.NumRows())
	assert.Equal(t, []any{"hello, world", "line with \"quotes\""}, back.ColumnValues("text"))
}

func TestReadCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := ReadCSV(path)
	assert.Error(t, err)
}

func TestJSONLRoundtrip(t *testing.T) {
	ds := dataset.FromRows([]dataset.Row{
		{"text": "alpha", "__byte_count__text": 5, "__perplexity": 1.5},
		{"text": "beta", "__byte_count__text": 4, "__perplexity": 2.25},
	})

	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, WriteJSONL(path, ds))

	back, err := ReadJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, 2, back.NumRows())
	assert.Equal(t, []any{5, 4}, back.ColumnValues("__byte_count__text"))
	assert.Equal(t, []any{1.5, 2.25}, back.ColumnValues("__perplexity"))
}

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.jsonl")
	content := `{"text": "good"}
not json at all
{"text": "also good"}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	ds, err := ReadJSONL(path)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.NumRows())
	assert.Equal(t, []any{"good", "also good"}, ds.ColumnValues("text"))
}

func TestReadJSONLAllMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("nope\n"), 0o644))

	_, err := ReadJSONL(path)
	assert.Error(t, err)
}

func TestSQLiteRoundtrip(t *testing.T) {
	ds := dataset.FromRows([]dataset.Row{
		{"text": "alpha", "count": 5, "score": 1.5, "flagged": true},
		{"text": "beta", "count": 4, "score": 2.0, "flagged": false},
	})

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.db")
	require.NoError(t, WriteSQLite(ctx, path, "docs", ds))

	back, err := ReadSQLite(ctx, path, "docs")
	require.NoError(t, err)
	assert.Equal(t, 2, back.NumRows())
	assert.Equal(t, []any{"alpha", "beta"}, back.ColumnValues("text"))
	assert.Equal(t, []any{5, 4}, back.ColumnValues("count"))
	assert.Equal(t, []any{1.5, 2.0}, back.ColumnValues("score"))
	// Booleans come back as INTEGER 0/1.
	assert.Equal(t, []any{1, 0}, back.ColumnValues("flagged"))
}

func TestWriteSQLiteReplacesTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.db")

	first := dataset.FromRows([]dataset.Row{{"text": "old"}})
	require.NoError(t, WriteSQLite(ctx, path, "docs", first))

	second := dataset.FromRows([]dataset.Row{{"text": "new", "extra": 1}})
	require.NoError(t, WriteSQLite(ctx, path, "docs", second))

	back, err := ReadSQLite(ctx, path, "docs")
	require.NoError(t, err)
	assert.Equal(t, 1, back.NumRows())
	assert.True(t, back.HasColumn("extra"))
	assert.Equal(t, []any{"new"}, back.ColumnValues("text"))
}

func TestReadHTMLDir(t *testing.T) {
	dir := t.TempDir()
	page := `<html><head><style>p { color: red }</style></head>` +
		`<body><p>Visible text.</p><script>var hidden = 1;</script></body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte(page), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644))

	ds, err := ReadHTMLDir(dir, "text")
	require.NoError(t, err)
	require.Equal(t, 1, ds.NumRows())
	assert.Equal(t, []any{"a.html"}, ds.ColumnValues("source"))
	assert.Equal(t, []any{"Visible text."}, ds.ColumnValues("text"))
}

func TestStripHTMLFallsBackOnPlainText(t *testing.T) {
	assert.Equal(t, "just words", StripHTML("just words"))
}
