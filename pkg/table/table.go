// Package table is the tabular payload type for downloaded data, along with
// parsers for the formats tabdl knows how to fetch.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Table is a parsed tabular payload.
type Table struct {
	// Columns are the header names, in order.  May be empty if the source
	// had no header row.
	Columns []string
	// Rows are the data rows.  Each row has the same length as Columns
	// when a header was present.
	Rows [][]string
}

// NumRows returns the number of data rows (the header is not counted).
func (t *Table) NumRows() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int {
	if t == nil {
		return 0
	}
	if len(t.Columns) > 0 {
		return len(t.Columns)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// ReadCSV parses CSV data into a Table.  The first record is treated as the
// header row.
func ReadCSV(reader io.Reader) (*Table, error) {
	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing csv: %w", err)
	}

	table := &Table{}
	if len(records) > 0 {
		table.Columns = records[0]
		table.Rows = records[1:]
	}

	return table, nil
}
