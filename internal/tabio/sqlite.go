package tabio

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cognicore/annot/pkg/annot/dataset"
)

// openSQLite opens a SQLite database with WAL mode enabled.
func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ReadSQLite loads a dataset from one table of a SQLite database. Column
// order follows the table definition.
func ReadSQLite(ctx context.Context, path, table string) (*dataset.Dataset, error) {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return nil, fmt.Errorf("query table %s: %w", table, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns of %s: %w", table, err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("read column types of %s: %w", table, err)
	}

	cols := make([]dataset.Column, len(names))
	for i, name := range names {
		cols[i] = dataset.Column{Name: name, Type: datasetType(types[i].DatabaseTypeName())}
	}
	ds := dataset.New(cols)

	scan := make([]any, len(names))
	for i := range scan {
		scan[i] = new(any)
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scan row of %s: %w", table, err)
		}
		row := make(dataset.Row, len(names))
		for i, name := range names {
			row[name] = normalizeSQLValue(*scan[i].(*any))
		}
		ds.AppendRow(row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table %s: %w", table, err)
	}

	return ds, nil
}

// WriteSQLite writes a dataset into one table of a SQLite database,
// replacing the table if it already exists.
func WriteSQLite(ctx context.Context, path, table string, ds *dataset.Dataset) error {
	db, err := openSQLite(ctx, path)
	if err != nil {
		return fmt.Errorf("open sqlite %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %q", table)); err != nil {
		return fmt.Errorf("drop table %s: %w", table, err)
	}

	cols := ds.Columns()
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%q %s", c.Name, sqlType(c.Type))
	}
	ddl := fmt.Sprintf("CREATE TABLE %q (%s)", table, strings.Join(defs, ", "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert tx: %w", err)
	}
	defer tx.Rollback()

	names := ds.ColumnNames()
	quoted := make([]string, len(names))
	marks := make([]string, len(names))
	for i, name := range names {
		quoted[i] = fmt.Sprintf("%q", name)
		marks[i] = "?"
	}
	insert := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		table, strings.Join(quoted, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(names))
	for i := 0; i < ds.NumRows(); i++ {
		row := ds.Row(i)
		for j, name := range names {
			args[j] = row[name]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d into %s: %w", i, table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert tx: %w", err)
	}
	return nil
}

// sqlType maps a dataset column type to SQLite storage. Booleans ride as
// INTEGER 0/1.
func sqlType(t dataset.Type) string {
	switch t {
	case dataset.TypeBool, dataset.TypeInt:
		return "INTEGER"
	case dataset.TypeFloat:
		return "REAL"
	default:
		return "TEXT"
	}
}

// datasetType maps a SQLite declared type back to a dataset column type.
// Booleans were stored as INTEGER and stay integers on the way back.
func datasetType(decl string) dataset.Type {
	switch strings.ToUpper(decl) {
	case "TEXT":
		return dataset.TypeString
	case "INTEGER":
		return dataset.TypeInt
	case "REAL":
		return dataset.TypeFloat
	default:
		return dataset.TypeAny
	}
}

// normalizeSQLValue maps driver values onto dataset value conventions:
// int64 narrows to int and TEXT blobs come back as strings.
func normalizeSQLValue(v any) any {
	switch x := v.(type) {
	case int64:
		return int(x)
	case []byte:
		return string(x)
	default:
		return v
	}
}
