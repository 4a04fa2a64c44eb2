package tabio

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/cognicore/annot/pkg/annot/dataset"
	"github.com/cognicore/annot/pkg/annot/textutil"
)

// ReadCSV loads a dataset from a CSV file. The first record is the header;
// all values come in as strings.
func ReadCSV(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv %s has no header record", path)
	}

	header := records[0]
	cols := make([]dataset.Column, len(header))
	for i, name := range header {
		cols[i] = dataset.Column{Name: name, Type: dataset.TypeString}
	}

	ds := dataset.New(cols)
	for _, rec := range records[1:] {
		row := make(dataset.Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		ds.AppendRow(row)
	}
	return ds, nil
}

// WriteCSV writes a dataset to a CSV file, header first. Values are
// rendered in their printed form.
func WriteCSV(path string, ds *dataset.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := ds.ColumnNames()
	if err := w.Write(names); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	rec := make([]string, len(names))
	for i := 0; i < ds.NumRows(); i++ {
		row := ds.Row(i)
		for j, name := range names {
			rec[j] = textutil.Stringify(row[name])
		}
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv %s: %w", path, err)
	}
	return nil
}
