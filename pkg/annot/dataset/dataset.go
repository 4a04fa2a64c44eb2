// Package dataset implements the tabular engine the annotation pipeline
// runs against: an ordered collection of named, typed columns over a fixed
// set of positionally addressed rows, plus the order-preserving row mapper
// that merges derived columns back in.
package dataset

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Type is the declared type of a column.
type Type int

const (
	TypeAny Type = iota
	TypeString
	TypeBool
	TypeInt
	TypeFloat
)

// String returns a readable name for the type.
func (t Type) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	default:
		return "any"
	}
}

// Column is a named, typed column of the dataset schema.
type Column struct {
	Name string
	Type Type
}

// Row maps field names to values. A field may be absent from a given row;
// the schema tolerates sparse rows.
type Row map[string]any

// RowFunc derives a set of new or updated columns from one row. It must be
// a pure function of the row's current values: rows are handed over as
// copies and the function may be invoked from multiple goroutines.
type RowFunc func(Row) (map[string]any, error)

// Dataset is an ordered set of named, typed columns over a fixed row count.
type Dataset struct {
	cols  []Column
	index map[string]int
	rows  []Row
}

// New creates an empty dataset with the given schema.
func New(cols []Column) *Dataset {
	d := &Dataset{cols: append([]Column(nil), cols...)}
	d.reindex()
	return d
}

// FromRows builds a dataset from rows, inferring the schema as the union of
// fields in first-seen order with types inferred from the values.
func FromRows(rows []Row) *Dataset {
	d := &Dataset{}
	for _, r := range rows {
		d.rows = append(d.rows, cloneRow(r))
	}
	var names []string
	seen := make(map[string]struct{})
	for _, r := range d.rows {
		keys := make([]string, 0, len(r))
		for k := range r {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				names = append(names, k)
			}
		}
	}
	for _, name := range names {
		d.cols = append(d.cols, Column{Name: name, Type: d.inferType(name)})
	}
	d.reindex()
	return d
}

// AppendRow adds one row to the dataset. Fields outside the schema are
// appended as new columns.
func (d *Dataset) AppendRow(r Row) {
	d.rows = append(d.rows, cloneRow(r))
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if _, ok := d.index[k]; !ok {
			d.cols = append(d.cols, Column{Name: k, Type: inferValueType(r[k])})
			d.index[k] = len(d.cols) - 1
		}
	}
}

// Columns returns the schema in column order.
func (d *Dataset) Columns() []Column {
	return append([]Column(nil), d.cols...)
}

// ColumnNames returns the column names in column order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether the schema declares the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnType returns the declared type of the named column.
func (d *Dataset) ColumnType(name string) (Type, bool) {
	i, ok := d.index[name]
	if !ok {
		return TypeAny, false
	}
	return d.cols[i].Type, true
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	return len(d.rows)
}

// Row returns a copy of the i-th row.
func (d *Dataset) Row(i int) Row {
	return cloneRow(d.rows[i])
}

// Value returns the value of the named field in the i-th row; ok is false
// when the field is absent from that row.
func (d *Dataset) Value(i int, name string) (any, bool) {
	v, ok := d.rows[i][name]
	return v, ok
}

// ColumnValues returns all values of the named column in row order; rows
// lacking the field contribute nil.
func (d *Dataset) ColumnValues(name string) []any {
	out := make([]any, len(d.rows))
	for i, r := range d.rows {
		out[i] = r[name]
	}
	return out
}

// Map applies fn to every row and returns a new dataset with the produced
// columns merged in. Row order and count are preserved regardless of
// evaluation order; evaluation runs on a bounded worker pool. If fn fails
// for any row the whole call fails and the receiver is left untouched, so
// no partial column state ever becomes visible.
func (d *Dataset) Map(fn RowFunc) (*Dataset, error) {
	outs := make([]map[string]any, len(d.rows))

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i := range d.rows {
		g.Go(func() error {
			out, err := fn(cloneRow(d.rows[i]))
			if err != nil {
				return fmt.Errorf("row %d: %w", i, err)
			}
			outs[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	next := &Dataset{
		cols: append([]Column(nil), d.cols...),
		rows: make([]Row, len(d.rows)),
	}
	next.reindex()
	for i, r := range d.rows {
		nr := cloneRow(r)
		for k, v := range outs[i] {
			nr[k] = v
		}
		next.rows[i] = nr
	}

	// Produced columns join the schema in first-seen order; an existing
	// column keeps its position and is replaced wholesale.
	var produced []string
	seen := make(map[string]struct{})
	for _, out := range outs {
		keys := make([]string, 0, len(out))
		for k := range out {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				produced = append(produced, k)
			}
		}
	}
	for _, name := range produced {
		if i, ok := next.index[name]; ok {
			next.cols[i].Type = next.inferType(name)
			continue
		}
		next.cols = append(next.cols, Column{Name: name, Type: next.inferType(name)})
		next.index[name] = len(next.cols) - 1
	}
	return next, nil
}

func (d *Dataset) reindex() {
	d.index = make(map[string]int, len(d.cols))
	for i, c := range d.cols {
		d.index[c.Name] = i
	}
}

// inferType derives a column type from the column's current values.
// Mixed int/float narrows to float; any other mix widens to any.
func (d *Dataset) inferType(name string) Type {
	t := TypeAny
	first := true
	for _, r := range d.rows {
		v, ok := r[name]
		if !ok || v == nil {
			continue
		}
		vt := inferValueType(v)
		if first {
			t = vt
			first = false
			continue
		}
		if vt == t {
			continue
		}
		if (t == TypeInt && vt == TypeFloat) || (t == TypeFloat && vt == TypeInt) {
			t = TypeFloat
			continue
		}
		return TypeAny
	}
	return t
}

func inferValueType(v any) Type {
	switch v.(type) {
	case string:
		return TypeString
	case bool:
		return TypeBool
	case int, int32, int64:
		return TypeInt
	case float32, float64:
		return TypeFloat
	default:
		return TypeAny
	}
}

func cloneRow(r Row) Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
