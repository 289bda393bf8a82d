package engine

// Delete removes every row matching cond and returns how many went away.
// A nil condition deletes every row. Deleting with a condition nothing
// matches is not an error, the count is simply 0.
func (t *Table) Delete(cond Condition) (int, error) {
	t.Lock()
	defer t.Unlock()

	// Collect matches first, then drop their index entries, then compact the
	// store in one pass.
	doomed := make(map[RowID]bool)
	t.store.iterate(func(id RowID, row Row) bool {
		if cond == nil || cond.Matches(row) {
			doomed[id] = true
			t.removeFromIndexes(id, row)
		}
		return true
	})

	deleted := t.store.removeMany(doomed)
	if deleted > 0 {
		t.MarkDirtyUnsafe()
	}
	return deleted, nil
}

// deleteByID removes a single row by its stable identifier.
// IMPORTANT: Must be called while holding the write lock!
func (t *Table) deleteByID(id RowID) bool {
	row, ok := t.store.byID(id)
	if !ok {
		return false
	}
	t.removeFromIndexes(id, row)
	t.store.remove(id)
	t.MarkDirtyUnsafe()
	return true
}
