package engine

// SelectAll returns a copy of every row in insertion order.
func (t *Table) SelectAll() []Row {
	t.RLock()
	defer t.RUnlock()

	rows := make([]Row, 0, t.store.len())
	t.store.iterate(func(_ RowID, row Row) bool {
		rows = append(rows, row.Copy())
		return true
	})
	return rows
}

// Select returns copies of the rows matching cond, in insertion order.
// A nil condition matches every row.
func (t *Table) Select(cond Condition) []Row {
	t.RLock()
	defer t.RUnlock()

	var result []Row
	t.store.iterate(func(_ RowID, row Row) bool {
		if cond == nil || cond.Matches(row) {
			result = append(result, row.Copy())
		}
		return true
	})
	return result
}

// SelectByIndex retrieves a single row through a unique index.
// Returns the row and true if found, nil and false otherwise.
// The probe value is coerced to the column's type when that loses nothing,
// so an INT primary key can be probed with a whole FLOAT.
func (t *Table) SelectByIndex(colName string, value Value) (Row, bool) {
	t.RLock()
	defer t.RUnlock()

	idx, exists := t.Indexes[colName]
	if !exists || !idx.Unique {
		return nil, false
	}

	if col := t.Schema.Column(colName); col != nil {
		value = indexKey(col.Type, value)
	}

	id, found := idx.lookupOne(value)
	if !found {
		return nil, false
	}

	row, ok := t.store.byID(id)
	if !ok {
		return nil, false
	}
	return row.Copy(), true
}
