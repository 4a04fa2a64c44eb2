// Command annotate runs a declarative annotation job over a tabular
// dataset: load, apply the configured operations in order, write back out.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/annot/internal/tabio"
	"github.com/cognicore/annot/pkg/annot"
	"github.com/cognicore/annot/pkg/annot/config"
	"github.com/cognicore/annot/pkg/annot/dataset"
)

func main() {
	var (
		input       = flag.String("input", "", "Input dataset: .csv, .jsonl, .db, or a directory of HTML files (required)")
		table       = flag.String("table", "docs", "Table name for SQLite input")
		htmlField   = flag.String("html-field", "text", "Column to place extracted text in for HTML input")
		output      = flag.String("output", "", "Output dataset: .csv, .jsonl, or .db (required)")
		outputTable = flag.String("output-table", "docs", "Table name for SQLite output")
		jobPath     = flag.String("job", "", "Job YAML with the operations to run (required)")
		modelsPath  = flag.String("models", "", "Optional models YAML registering artifact-backed models")
	)
	flag.Parse()

	if *input == "" {
		log.Fatal("--input required")
	}
	if *output == "" {
		log.Fatal("--output required")
	}
	if *jobPath == "" {
		log.Fatal("--job required")
	}

	ctx := context.Background()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("run_id", ulid.Make().String()))

	// Load configuration components
	loader := config.Loader{JobPath: *jobPath, ModelsPath: *modelsPath}
	components, err := loader.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ds, err := readInput(ctx, *input, *table, *htmlField)
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}
	logger.Info("Loaded dataset",
		zap.String("input", *input),
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", len(ds.Columns())))

	pipeline := annot.New(ds, annot.Options{
		Resolver: components.Registry,
		Logger:   logger,
	})
	if err := config.Apply(pipeline, components.Job); err != nil {
		logger.Fatal("Annotation job failed", zap.Error(err))
	}

	result := pipeline.Dataset()
	if err := writeOutput(ctx, *output, *outputTable, result); err != nil {
		logger.Fatal("Failed to write output", zap.Error(err))
	}
	logger.Info("Wrote dataset",
		zap.String("output", *output),
		zap.Int("rows", result.NumRows()),
		zap.Int("columns", len(result.Columns())))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func readInput(ctx context.Context, path, table, htmlField string) (*dataset.Dataset, error) {
	if isDir(path) {
		return tabio.ReadHTMLDir(path, htmlField)
	}
	format, err := tabio.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case tabio.FormatCSV:
		return tabio.ReadCSV(path)
	case tabio.FormatJSONL:
		return tabio.ReadJSONL(path)
	default:
		return tabio.ReadSQLite(ctx, path, table)
	}
}

func writeOutput(ctx context.Context, path, table string, ds *dataset.Dataset) error {
	format, err := tabio.DetectFormat(path)
	if err != nil {
		return err
	}
	switch format {
	case tabio.FormatCSV:
		return tabio.WriteCSV(path, ds)
	case tabio.FormatJSONL:
		return tabio.WriteJSONL(path, ds)
	default:
		return tabio.WriteSQLite(ctx, path, table, ds)
	}
}
