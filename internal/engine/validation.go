package engine

// normalizeValue coerces val to the column's declared type.
// INT columns take integers only. FLOAT columns also accept integers and
// widen them, mirroring how numeric comparison treats the two types. NULL
// passes through untouched, the required check happens separately.
func (t *Table) normalizeValue(col *Column, val Value) (Value, error) {
	if val.IsNull() {
		return Null, nil
	}

	switch col.Type {
	case ColumnTypeInt:
		if val.Type == ColumnTypeInt {
			return val, nil
		}
	case ColumnTypeFloat:
		switch val.Type {
		case ColumnTypeFloat:
			return val, nil
		case ColumnTypeInt:
			return NewFloat(float64(val.Int)), nil
		}
	case ColumnTypeText:
		if val.Type == ColumnTypeText {
			return val, nil
		}
	case ColumnTypeBool:
		if val.Type == ColumnTypeBool {
			return val, nil
		}
	}

	return Null, NewTypeMismatch(t.Name, col.Name, val, col.Type)
}

// validateRow checks row against the schema and returns the normalized row
// the table will store:
//   - undeclared columns are rejected
//   - required columns (primary key or NOT NULL) must hold a non-null value
//   - every cell is coerced to its column's declared type
//   - missing nullable columns are materialized as NULL
//
// rowIndex is the row's position within a batch, used in error reports.
func (t *Table) validateRow(row Row, rowIndex int) (Row, error) {
	for name := range row {
		if t.Schema.Column(name) == nil {
			return nil, &ColumnNotFoundError{TableName: t.Name, ColumnName: name}
		}
	}

	normalized := make(Row, len(t.Schema.Columns))
	for i := range t.Schema.Columns {
		col := &t.Schema.Columns[i]
		val, exists := row[col.Name]

		// Handle missing or explicit NULL
		if !exists || val.IsNull() {
			if col.Required() {
				return nil, NewNotNullViolation(t.Name, col.Name, rowIndex)
			}
			normalized[col.Name] = Null
			continue
		}

		coerced, err := t.normalizeValue(col, val)
		if err != nil {
			return nil, err
		}
		normalized[col.Name] = coerced
	}

	return normalized, nil
}
