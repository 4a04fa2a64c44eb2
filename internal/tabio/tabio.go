// Package tabio reads and writes datasets in tabular interchange formats:
// CSV, JSONL, SQLite tables, and directories of HTML documents.
package tabio

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a dataset interchange format.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSONL  Format = "jsonl"
	FormatSQLite Format = "sqlite"
)

// DetectFormat infers the format from a file path extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("unrecognized dataset extension in %s", path)
	}
}
