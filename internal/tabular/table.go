// Package tabular holds the uniform row-set structure shared by every data
// source: named string columns, fixed schema per source, immutable once
// loaded within a render cycle. Shaping operations return new tables.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is an ordered sequence of named-field records. Rows carry no
// identity beyond their order.
type Table struct {
	headers []string
	rows    [][]string
}

// New builds a table after checking that every row matches the header width.
func New(headers []string, rows [][]string) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(headers) {
			return nil, &FormatError{
				Source: "table",
				Err:    fmt.Errorf("row %d has %d fields, expected %d", i+1, len(row), len(headers)),
			}
		}
	}
	return &Table{headers: headers, rows: rows}, nil
}

// Read parses delimited text from r. The first record is the header; an
// inconsistent column count on any later record is a FormatError.
func Read(r io.Reader, delimiter rune) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &FormatError{Source: "table", Err: err}
	}
	if len(records) == 0 {
		return &Table{}, nil
	}
	return &Table{headers: records[0], rows: records[1:]}, nil
}

// ReadFile parses a delimited file from disk.
func ReadFile(path string, delimiter rune) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f, delimiter)
}

// Headers returns the column names in order.
func (t *Table) Headers() []string { return t.headers }

// Rows returns the data records in source order.
func (t *Table) Rows() [][]string { return t.rows }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	return t.index(name) >= 0
}

// Column projects a single column; a missing name is a SchemaError.
func (t *Table) Column(name string) ([]string, error) {
	idx := t.index(name)
	if idx < 0 {
		return nil, &SchemaError{Source: "table", Missing: []string{name}}
	}
	values := make([]string, len(t.rows))
	for i, row := range t.rows {
		values[i] = row[idx]
	}
	return values, nil
}

// Drop returns a copy without the named column. Absent columns are ignored
// so that a policy drop holds whether or not the upstream still sends it.
func (t *Table) Drop(name string) *Table {
	idx := t.index(name)
	if idx < 0 {
		return t
	}

	headers := make([]string, 0, len(t.headers)-1)
	headers = append(headers, t.headers[:idx]...)
	headers = append(headers, t.headers[idx+1:]...)

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		next := make([]string, 0, len(row)-1)
		next = append(next, row[:idx]...)
		next = append(next, row[idx+1:]...)
		rows[i] = next
	}
	return &Table{headers: headers, rows: rows}
}

// InsertConst returns a copy with an extra column appended, holding the same
// value in every row.
func (t *Table) InsertConst(name, value string) *Table {
	headers := append(append([]string(nil), t.headers...), name)
	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		rows[i] = append(append([]string(nil), row...), value)
	}
	return &Table{headers: headers, rows: rows}
}

// Select projects and reorders columns to exactly the given names. Any
// absent name makes the whole call a SchemaError listing every gap.
func (t *Table) Select(names ...string) (*Table, error) {
	indexes := make([]int, len(names))
	var missing []string
	for i, name := range names {
		idx := t.index(name)
		if idx < 0 {
			missing = append(missing, name)
			continue
		}
		indexes[i] = idx
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Source: "table", Missing: missing}
	}

	rows := make([][]string, len(t.rows))
	for i, row := range t.rows {
		next := make([]string, len(indexes))
		for j, idx := range indexes {
			next[j] = row[idx]
		}
		rows[i] = next
	}
	return &Table{headers: append([]string(nil), names...), rows: rows}, nil
}

// Filter returns a copy holding only the rows for which keep returns true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	rows := make([][]string, 0, len(t.rows))
	for i, row := range t.rows {
		if keep(i) {
			rows = append(rows, row)
		}
	}
	return &Table{headers: t.headers, rows: rows}
}

// CSV serializes the table as comma-delimited text, header first. The
// output reparses via Read into an equal table.
func (t *Table) CSV() string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if len(t.headers) > 0 {
		_ = w.Write(t.headers)
	}
	for _, row := range t.rows {
		_ = w.Write(row)
	}
	w.Flush()
	return b.String()
}

func (t *Table) index(name string) int {
	for i, h := range t.headers {
		if h == name {
			return i
		}
	}
	return -1
}
