package engine

import (
	"fmt"
	"strings"
)

// Project narrows rows to the requested columns. A requested name matches
// its key exactly, or, for the qualified keys a join produces, any key of
// the form "table.name", so join output can be projected by bare column
// name. Output keys are the names exactly as requested.
func Project(rows []Row, columns []string) ([]Row, error) {
	result := make([]Row, 0, len(rows))
	for _, row := range rows {
		out := make(Row, len(columns))
		for _, name := range columns {
			val, err := resolveColumn(row, name)
			if err != nil {
				return nil, err
			}
			out[name] = val
		}
		result = append(result, out)
	}
	return result, nil
}

// resolveColumn finds name in row: exact key first, then a qualified suffix
// match. A bare name carried by several tables is ambiguous and refused.
func resolveColumn(row Row, name string) (Value, error) {
	if val, ok := row[name]; ok {
		return val, nil
	}

	var found Value
	matches := 0
	for key, val := range row {
		if strings.HasSuffix(key, "."+name) {
			found = val
			matches++
		}
	}

	switch matches {
	case 0:
		return Null, &ColumnNotFoundError{ColumnName: name}
	case 1:
		return found, nil
	default:
		return Null, fmt.Errorf("column %s is ambiguous", name)
	}
}
