package engine

// Row represents a single table row, keyed by column name.
// Until validation a row may omit nullable columns; validation materializes
// every declared column, so stored rows always carry the full key set.
type Row map[string]Value

// Copy creates a copy of the row. Cells are immutable value structs, so the
// copy is fully independent of the original.
func (r Row) Copy() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}
