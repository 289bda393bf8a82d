package engine

import "sync"

// Table represents a database table with its schema, row data, and indexes.
type Table struct {
	mu      sync.RWMutex
	Name    string
	Schema  *TableSchema
	store   *rowStore
	Indexes map[string]*Index
	Dirty   bool // tracks if table has unsaved changes
}

// newTable builds an empty table for a validated schema. Primary key and
// UNIQUE columns get a hash index up front.
func newTable(schema *TableSchema) *Table {
	t := &Table{
		Name:    schema.TableName,
		Schema:  schema,
		store:   newRowStore(),
		Indexes: make(map[string]*Index),
	}
	for _, col := range schema.Columns {
		if col.Indexed() {
			t.Indexes[col.Name] = newIndex(col.Name, true)
		}
	}
	return t
}

// MarkDirty marks the table as having unsaved changes
// This should be called after any mutation operation (INSERT, UPDATE, DELETE)
func (t *Table) MarkDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.MarkDirtyUnsafe()
}

// MarkDirtyUnsafe sets the dirty flag without acquiring the lock
// IMPORTANT: Only call this when you already hold the table lock!
// Use MarkDirty() if you don't hold the lock.
func (t *Table) MarkDirtyUnsafe() {
	t.Dirty = true
}

// Lock acquires an exclusive lock on the table for write operations
func (t *Table) Lock() {
	t.mu.Lock()
}

// Unlock releases the exclusive lock
func (t *Table) Unlock() {
	t.mu.Unlock()
}

// RLock acquires a read lock on the table for read operations
func (t *Table) RLock() {
	t.mu.RLock()
}

// RUnlock releases the read lock
func (t *Table) RUnlock() {
	t.mu.RUnlock()
}

// RowCount returns the number of live rows.
func (t *Table) RowCount() int {
	t.RLock()
	defer t.RUnlock()
	return t.store.len()
}

// TableDescription is the metadata DESCRIBE reports.
type TableDescription struct {
	Name     string   `json:"name"`
	Columns  []Column `json:"columns"`
	RowCount int      `json:"row_count"`
}

// Describe returns a copy of the table's metadata.
func (t *Table) Describe() TableDescription {
	t.RLock()
	defer t.RUnlock()

	schema := copySchema(*t.Schema)
	return TableDescription{
		Name:     t.Name,
		Columns:  schema.Columns,
		RowCount: t.store.len(),
	}
}

// addToIndexes registers a stored row in every index
// IMPORTANT: Must be called while holding the write lock!
func (t *Table) addToIndexes(id RowID, row Row) {
	for colName, idx := range t.Indexes {
		idx.add(row[colName], id)
	}
}

// removeFromIndexes drops a stored row from every index
// IMPORTANT: Must be called while holding the write lock!
func (t *Table) removeFromIndexes(id RowID, row Row) {
	for colName, idx := range t.Indexes {
		idx.remove(row[colName], id)
	}
}

// checkUnique verifies that no indexed column of row collides with a row
// other than exclude. Pass exclude = 0 on insert; on update it is the row
// being replaced, so a row may keep its own unique values. Columns are
// checked in schema order, which makes the reported violation deterministic.
// Must be called while holding at least a read lock.
func (t *Table) checkUnique(row Row, exclude RowID) error {
	for i := range t.Schema.Columns {
		col := &t.Schema.Columns[i]
		idx, ok := t.Indexes[col.Name]
		if !ok {
			continue
		}

		val := row[col.Name]
		if val.IsNull() {
			continue
		}

		existing, found := idx.lookupOne(val)
		if !found || existing == exclude {
			continue
		}

		if col.PrimaryKey {
			return NewPrimaryKeyViolation(t.Name, col.Name, val)
		}
		return NewUniqueViolation(t.Name, col.Name, val, []RowID{existing})
	}
	return nil
}
