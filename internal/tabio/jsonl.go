package tabio

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cognicore/annot/pkg/annot/dataset"
)

// ReadJSONL loads a dataset from a JSONL file, one object per line.
// Malformed lines are skipped with a warning rather than failing the load.
func ReadJSONL(path string) (*dataset.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var rows []dataset.Row
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var row dataset.Row
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", i+1, path, err)
			continue
		}
		rows = append(rows, normalizeJSONRow(row))
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no valid rows found in %s", path)
	}

	return dataset.FromRows(rows), nil
}

// WriteJSONL writes a dataset to a JSONL file, one object per line.
func WriteJSONL(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create jsonl %s: %w", path, err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for i := 0; i < ds.NumRows(); i++ {
		if err := encoder.Encode(ds.Row(i)); err != nil {
			return fmt.Errorf("encode jsonl row %d: %w", i, err)
		}
	}
	return nil
}

// normalizeJSONRow turns json.Unmarshal's float64 numbers back into ints
// where the value is integral, so byte and token counts survive a
// write/read cycle with their column type intact.
func normalizeJSONRow(row dataset.Row) dataset.Row {
	for k, v := range row {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if f == float64(int(f)) {
			row[k] = int(f)
		}
	}
	return row
}
