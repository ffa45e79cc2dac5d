package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cast"
)

// ReadCSV parses a CSV stream whose first record is the header row. Empty
// cells become missing values; cells that parse as numbers become numeric.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	cells := make([][]Value, len(header))

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		for i := range header {
			cells[i] = append(cells[i], parseCell(record[i]))
		}
	}

	columns := make([]*Column, 0, len(header))
	for i, name := range header {
		columns = append(columns, NewColumn(name, cells[i]))
	}

	return New(columns...), nil
}

// WriteCSV writes the table with a header row. Missing values become empty cells.
func WriteCSV(w io.Writer, t *Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, t.NumColumns())

	for row := 0; row < t.NumRows(); row++ {
		for i, col := range t.Columns() {
			record[i] = col.Values[row].Text()
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// LoadCSV reads a table from a CSV file.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// SaveCSV writes a table to a CSV file.
func SaveCSV(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, t); err != nil {
		return err
	}

	return f.Close()
}

func parseCell(cell string) Value {
	if cell == "" {
		return Missing()
	}

	if f, err := cast.ToFloat64E(cell); err == nil {
		// Keep the lexical form so wide digit identifiers survive the
		// float64 round-trip exactly.
		return Value{Kind: KindNumber, Num: f, Str: cell}
	}

	return NewString(cell)
}
