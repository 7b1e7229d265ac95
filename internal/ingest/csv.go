// Package ingest reads the raw semicolon-delimited input files. It makes no
// attempt to interpret values; normalization happens downstream.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Table is a raw tabular input: the header row plus one string map per row.
// Cells absent from a row are absent from its map.
type Table struct {
	Columns []string
	Rows    []map[string]string
}

// Empty reports whether the table has no data rows.
func (t Table) Empty() bool {
	return len(t.Rows) == 0
}

// ReadFile reads a semicolon-delimited CSV file into a Table.
func ReadFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return Table{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return t, nil
}

// ReadTable reads a semicolon-delimited CSV with a header row. Rows may have
// fewer fields than the header; trailing columns are simply absent. An empty
// input yields an empty Table, not an error.
func ReadTable(r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return Table{}, nil
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	t := Table{Columns: header}
	for _, rec := range records[1:] {
		row := make(map[string]string, len(header))
		for i, cell := range rec {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				row[header[i]] = cell
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
