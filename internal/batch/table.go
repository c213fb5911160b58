// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch reads and writes the columnar article tables that the
// command-line tools transform, and fans row work out to a bounded pool.
package batch

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/parquet-go/parquet-go"
)

var (
	// ErrColumnNotFound is returned when a required column is absent.
	ErrColumnNotFound = errors.New("column not found")

	// ErrColumnType is returned when a column does not hold scalar strings.
	ErrColumnType = errors.New("column is not a string column")
)

// readBatchSize is the number of rows pulled from the reader per call.
const readBatchSize = 1024

// Table is a parquet file held fully in memory.
type Table struct {
	schema *parquet.Schema
	rows   []parquet.Row
}

// ReadTable loads every row of the parquet file at path.
func ReadTable(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := parquet.NewReader(f)
	defer r.Close()

	t := &Table{schema: r.Schema()}
	buf := make([]parquet.Row, readBatchSize)
	for {
		n, err := r.ReadRows(buf)
		for _, row := range buf[:n] {
			t.rows = append(t.rows, row.Clone())
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if n == 0 {
			break
		}
	}
	return t, nil
}

// Schema returns the table's parquet schema.
func (t *Table) Schema() *parquet.Schema { return t.schema }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Columns returns the top-level field names in schema order.
func (t *Table) Columns() []string {
	fields := t.schema.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name()
	}
	return names
}

// Has reports whether the table has a top-level column called name.
func (t *Table) Has(name string) bool {
	for _, c := range t.Columns() {
		if c == name {
			return true
		}
	}
	return false
}

// Strings returns the values of a string column, nil for null cells.
func (t *Table) Strings(name string) ([]*string, error) {
	col, err := t.scalarColumn(name)
	if err != nil {
		return nil, err
	}
	if col.Node.Type().Kind() != parquet.ByteArray {
		return nil, fmt.Errorf("%s: %w", name, ErrColumnType)
	}
	return t.collect(col.ColumnIndex, func(v parquet.Value) string {
		return string(v.ByteArray())
	}), nil
}

// Labels returns the values of a string or integer column as text, nil for
// null cells. It suits identifier columns whose physical type varies
// between dumps.
func (t *Table) Labels(name string) ([]*string, error) {
	col, err := t.scalarColumn(name)
	if err != nil {
		return nil, err
	}
	switch col.Node.Type().Kind() {
	case parquet.ByteArray:
		return t.collect(col.ColumnIndex, func(v parquet.Value) string {
			return string(v.ByteArray())
		}), nil
	case parquet.Int32:
		return t.collect(col.ColumnIndex, func(v parquet.Value) string {
			return strconv.FormatInt(int64(v.Int32()), 10)
		}), nil
	case parquet.Int64:
		return t.collect(col.ColumnIndex, func(v parquet.Value) string {
			return strconv.FormatInt(v.Int64(), 10)
		}), nil
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrColumnType)
	}
}

func (t *Table) scalarColumn(name string) (parquet.LeafColumn, error) {
	col, ok := t.schema.Lookup(name)
	if !ok {
		return col, fmt.Errorf("%s: %w", name, ErrColumnNotFound)
	}
	if col.MaxRepetitionLevel > 0 {
		return col, fmt.Errorf("%s: repeated column: %w", name, ErrColumnType)
	}
	return col, nil
}

func (t *Table) collect(column int, format func(parquet.Value) string) []*string {
	out := make([]*string, len(t.rows))
	for i, row := range t.rows {
		v, ok := valueAt(row, column)
		if !ok || v.IsNull() {
			continue
		}
		s := format(v)
		out[i] = &s
	}
	return out
}

// valueAt returns the first value of row stored in column.
func valueAt(row parquet.Row, column int) (parquet.Value, bool) {
	for _, v := range row {
		if v.Column() == column {
			return v, true
		}
	}
	return parquet.Value{}, false
}
