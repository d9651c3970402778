package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

type CSVReader struct {
	filename string
}

func NewCSVReader(filename string) *CSVReader {
	return &CSVReader{filename: filename}
}

// Load reads the whole file into a table. The first row names the columns,
// the last column is the class. A column is continuous when every non-missing
// cell parses as a number; "?" and empty cells are missing.
func (cr *CSVReader) Load() (*Table, error) {
	file, err := os.Open(cr.filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read records: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("insufficient data in file")
	}

	headers := records[0]
	rows := records[1:]
	nCols := len(headers)

	for i, record := range rows {
		if len(record) != nCols {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i+1, len(record), nCols)
		}
	}

	variables := make([]*Variable, nCols)
	for j, name := range headers {
		if columnIsNumeric(rows, j) {
			variables[j] = NewContinuousVariable(name)
		} else {
			variables[j] = NewDiscreteVariable(name, nil)
		}
	}

	domain := NewDomain(variables[:nCols-1], variables[nCols-1])
	table := NewTable(domain)

	for _, record := range rows {
		ex := NewExample(domain)
		for j, cell := range record {
			v, err := parseCell(variables[j], cell)
			if err != nil {
				return nil, err
			}
			if j == nCols-1 {
				ex.Class = v
			} else {
				ex.Values[j] = v
			}
		}
		table.Append(ex)
	}

	return table, nil
}

func columnIsNumeric(rows [][]string, col int) bool {
	seen := false
	for _, record := range rows {
		cell := strings.TrimSpace(record[col])
		if cell == "" || cell == "?" {
			continue
		}
		if _, err := decimal.NewFromString(cell); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func parseCell(variable *Variable, cell string) (Value, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" || cell == "?" {
		return MissingValue(variable.Type, DontKnow), nil
	}
	if variable.Type == Continuous {
		d, err := decimal.NewFromString(cell)
		if err != nil {
			return Value{}, fmt.Errorf("invalid numeric value %q in column %s", cell, variable.Name)
		}
		variable.Observe(d)
		return DecimalValue(d), nil
	}
	return IntValue(variable.AddValue(cell)), nil
}
