package engine

// Update applies the updates map to every row matching cond and returns the
// number of rows changed. A nil condition matches every row. The column set
// and value types are validated before anything mutates; a uniqueness
// conflict mid-batch stops the scan, leaving earlier rows updated, and
// reports how many were already changed alongside the error.
func (t *Table) Update(cond Condition, updates Row) (int, error) {
	t.Lock()
	defer t.Unlock()

	// 1. Validate the delta once up front. After this, only uniqueness can
	// fail, and only against the specific rows it touches.
	delta, err := t.normalizeDelta(updates)
	if err != nil {
		return 0, err
	}

	// 2. Single pass: overwriting keeps row positions stable, so iterating
	// while replacing matched rows is safe.
	count := 0
	var failure error
	t.store.iterate(func(id RowID, row Row) bool {
		if cond != nil && !cond.Matches(row) {
			return true
		}

		updated := row.Copy()
		for name, val := range delta {
			updated[name] = val
		}

		// 3. The row being replaced may keep its own unique values.
		if err := t.checkUnique(updated, id); err != nil {
			failure = err
			return false
		}

		// 4. Move index entries, then swap the row in.
		t.swapIndexEntries(id, row, updated)
		t.store.overwrite(id, updated)
		count++
		return true
	})

	if count > 0 {
		t.MarkDirtyUnsafe()
	}
	return count, failure
}

// normalizeDelta validates an updates map against the schema: every column
// must be declared, values are coerced to the column type, and required
// columns cannot be set to NULL.
func (t *Table) normalizeDelta(updates Row) (Row, error) {
	delta := make(Row, len(updates))
	for name, val := range updates {
		col := t.Schema.Column(name)
		if col == nil {
			return nil, &ColumnNotFoundError{TableName: t.Name, ColumnName: name}
		}

		if val.IsNull() {
			if col.Required() {
				return nil, NewNotNullViolation(t.Name, name, -1)
			}
			delta[name] = Null
			continue
		}

		coerced, err := t.normalizeValue(col, val)
		if err != nil {
			return nil, err
		}
		delta[name] = coerced
	}
	return delta, nil
}

// swapIndexEntries moves a row's index entries from its old cells to the new
// ones, skipping columns whose value did not change.
// IMPORTANT: Must be called while holding the write lock!
func (t *Table) swapIndexEntries(id RowID, oldRow, newRow Row) {
	for colName, idx := range t.Indexes {
		oldVal, newVal := oldRow[colName], newRow[colName]
		if oldVal == newVal {
			continue
		}
		idx.remove(oldVal, id)
		idx.add(newVal, id)
	}
}
