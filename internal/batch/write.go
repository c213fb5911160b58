// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"cmp"
	"fmt"
	"os"
	"slices"

	"github.com/parquet-go/parquet-go"
)

// Replacement swaps the contents of column From for Values, writing them
// under the name To. An empty To keeps the original name.
type Replacement struct {
	From   string
	To     string
	Values []*string
}

func (r Replacement) target() string {
	if r.To == "" {
		return r.From
	}
	return r.To
}

// WriteTable writes src to path with each replacement applied. Replaced
// columns become optional UTF-8 strings in the position of the column they
// replace; every other column is copied as is.
func WriteTable(path string, src *Table, replacements []Replacement) error {
	schema, err := replacedSchema(src, replacements)
	if err != nil {
		return err
	}

	// New column index for every source leaf that is carried over, and for
	// every replacement. Replacement values are appended to each row, so rows
	// are re-sorted by column below.
	oldToNew := make(map[int]int)
	replCol := make([]int, len(replacements))
	for j, col := range schema.Columns() {
		if k := slices.IndexFunc(replacements, func(r Replacement) bool { return r.target() == col[0] }); k >= 0 {
			replCol[k] = j
			continue
		}
		old, ok := src.schema.Lookup(col...)
		if !ok {
			return fmt.Errorf("column %v missing from source schema", col)
		}
		oldToNew[old.ColumnIndex] = j
	}

	rows := make([]parquet.Row, len(src.rows))
	for i, row := range src.rows {
		out := make(parquet.Row, 0, len(row)+len(replacements))
		for _, v := range row {
			j, ok := oldToNew[v.Column()]
			if !ok {
				continue
			}
			out = append(out, v.Level(v.RepetitionLevel(), v.DefinitionLevel(), j))
		}
		for k, r := range replacements {
			out = append(out, stringValue(r.Values[i], replCol[k]))
		}
		slices.SortStableFunc(out, func(a, b parquet.Value) int {
			return cmp.Compare(a.Column(), b.Column())
		})
		rows[i] = out
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := parquet.NewWriter(f, schema)
	if _, err := w.WriteRows(rows); err != nil {
		f.Close()
		return fmt.Errorf("writing rows to %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalising %s: %w", path, err)
	}
	return f.Close()
}

func replacedSchema(src *Table, replacements []Replacement) (*parquet.Schema, error) {
	byFrom := make(map[string]Replacement, len(replacements))
	for _, r := range replacements {
		if !src.Has(r.From) {
			return nil, fmt.Errorf("%s: %w", r.From, ErrColumnNotFound)
		}
		if len(r.Values) != src.Len() {
			return nil, fmt.Errorf("%s: %d values for %d rows", r.From, len(r.Values), src.Len())
		}
		byFrom[r.From] = r
	}

	fields := src.schema.Fields()
	root := columnGroup{Group: make(parquet.Group, len(fields))}
	for _, f := range fields {
		if r, ok := byFrom[f.Name()]; ok {
			f = namedField(r.target(), parquet.Optional(parquet.String()))
		}
		if _, dup := root.Group[f.Name()]; dup {
			return nil, fmt.Errorf("replacement names collide with existing columns")
		}
		root.Group[f.Name()] = f
		root.fields = append(root.fields, f)
	}
	return parquet.NewSchema(src.schema.Name(), root), nil
}

// columnGroup is a root group that keeps its fields in source order rather
// than sorting them by name.
type columnGroup struct {
	parquet.Group
	fields []parquet.Field
}

func (g columnGroup) Fields() []parquet.Field { return g.fields }

func namedField(name string, node parquet.Node) parquet.Field {
	return parquet.Group{name: node}.Fields()[0]
}

func stringValue(s *string, column int) parquet.Value {
	if s == nil {
		return parquet.NullValue().Level(0, 0, column)
	}
	return parquet.ValueOf(*s).Level(0, 1, column)
}
