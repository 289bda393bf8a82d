package engine

// Insert adds a new row to the table with full validation.
// Validation completes before any state changes, so a failed insert leaves
// rows and indexes exactly as they were.
func (t *Table) Insert(row Row) error {
	t.Lock()
	defer t.Unlock()
	return t.insertLocked(row, -1)
}

// insertLocked runs the insert protocol for a single row. rowIndex is the
// row's position within a batch (-1 outside one) and only feeds error
// reports. Must be called while holding the write lock.
func (t *Table) insertLocked(row Row, rowIndex int) error {
	// 1. Validate against the schema (declared columns, NOT NULL, types).
	// Validation returns the normalized form the table will store.
	normalized, err := t.validateRow(row, rowIndex)
	if err != nil {
		return err
	}

	// 2. Check unique/primary key constraints using current indexes.
	if err := t.checkUnique(normalized, 0); err != nil {
		return err
	}

	// 3. Everything passed → safe to append.
	id := t.store.append(normalized)

	// 4. Update all indexes.
	t.addToIndexes(id, normalized)

	// 5. Mark table as dirty (has unsaved changes).
	t.MarkDirtyUnsafe()

	return nil
}
