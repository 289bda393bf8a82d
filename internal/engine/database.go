package engine

import (
	"fmt"
	"sort"
	"sync"
)

// Database is an in-memory collection of named tables. It is safe for
// concurrent use: the database lock guards the table map, and each table
// guards its own rows. There is no package-level instance; callers create
// databases with New and pass them around explicitly.
type Database struct {
	mu          sync.RWMutex
	Name        string
	tables      map[string]*Table
	observers   []Observer
	schemaDirty bool // set when tables are created or dropped
}

// New creates an empty database.
func New(name string) *Database {
	return &Database{
		Name:   name,
		tables: make(map[string]*Table),
	}
}

// CreateTable registers a new table for the given schema.
func (db *Database) CreateTable(schema TableSchema) error {
	if err := schema.Validate(); err != nil {
		return err
	}

	db.mu.Lock()
	if _, exists := db.tables[schema.TableName]; exists {
		db.mu.Unlock()
		return &TableExistsError{TableName: schema.TableName}
	}
	owned := copySchema(schema)
	db.tables[schema.TableName] = newTable(&owned)
	db.schemaDirty = true
	db.mu.Unlock()

	db.notify(newEvent(EventTableCreated, schema.TableName, map[string]interface{}{
		"columns": len(schema.Columns),
	}))
	return nil
}

// DropTable removes a table and all its rows.
func (db *Database) DropTable(name string) error {
	db.mu.Lock()
	if _, exists := db.tables[name]; !exists {
		db.mu.Unlock()
		return &TableNotFoundError{TableName: name}
	}
	delete(db.tables, name)
	db.schemaDirty = true
	db.mu.Unlock()

	db.notify(newEvent(EventTableDropped, name, nil))
	return nil
}

// SchemaDirty reports whether tables were created or dropped since the flag
// was last cleared. Row-level changes are tracked per table; a save needs to
// consult both.
func (db *Database) SchemaDirty() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.schemaDirty
}

// ClearSchemaDirty resets the structural change flag after a save.
func (db *Database) ClearSchemaDirty() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.schemaDirty = false
}

// Table returns the named table.
func (db *Database) Table(name string) (*Table, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	t, ok := db.tables[name]
	if !ok {
		return nil, &TableNotFoundError{TableName: name}
	}
	return t, nil
}

// ListTables returns all table names in sorted order.
func (db *Database) ListTables() []string {
	db.mu.RLock()
	defer db.mu.RUnlock()

	names := make([]string, 0, len(db.tables))
	for name := range db.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the named table's metadata.
func (db *Database) Describe(name string) (TableDescription, error) {
	t, err := db.Table(name)
	if err != nil {
		return TableDescription{}, err
	}
	return t.Describe(), nil
}

// Insert adds one row to the named table.
func (db *Database) Insert(table string, row Row) error {
	t, err := db.Table(table)
	if err != nil {
		return err
	}
	if err := t.Insert(row); err != nil {
		return err
	}

	db.notify(newEvent(EventRowInserted, table, row.Copy()))
	return nil
}

// SelectAll returns a copy of every row in the named table.
func (db *Database) SelectAll(table string) ([]Row, error) {
	t, err := db.Table(table)
	if err != nil {
		return nil, err
	}
	return t.SelectAll(), nil
}

// Select returns copies of the rows in the named table matching cond.
func (db *Database) Select(table string, cond Condition) ([]Row, error) {
	t, err := db.Table(table)
	if err != nil {
		return nil, err
	}
	return t.Select(cond), nil
}

// Update applies updates to every row matching cond and returns the number
// of rows changed. A constraint failure mid-batch leaves earlier rows
// updated; the count reports them.
func (db *Database) Update(table string, cond Condition, updates Row) (int, error) {
	t, err := db.Table(table)
	if err != nil {
		return 0, err
	}

	count, err := t.Update(cond, updates)
	if count > 0 {
		db.notify(newEvent(EventRowsUpdated, table, map[string]interface{}{
			"rows_affected": count,
		}))
	}
	return count, err
}

// Delete removes every row matching cond and returns the count. A condition
// matching nothing deletes nothing and is not an error.
func (db *Database) Delete(table string, cond Condition) (int, error) {
	t, err := db.Table(table)
	if err != nil {
		return 0, err
	}

	count, err := t.Delete(cond)
	if count > 0 {
		db.notify(newEvent(EventRowsDeleted, table, map[string]interface{}{
			"rows_affected": count,
		}))
	}
	return count, err
}

// Join inner-joins two tables on equality between leftCol and rightCol,
// picking the execution strategy automatically.
func (db *Database) Join(leftTable, leftCol, rightTable, rightCol string) ([]Row, error) {
	return db.JoinWith(leftTable, leftCol, rightTable, rightCol, StrategyAuto)
}

// JoinWith is Join with the execution strategy pinned down.
func (db *Database) JoinWith(leftTable, leftCol, rightTable, rightCol string, strategy JoinStrategy) ([]Row, error) {
	left, err := db.Table(leftTable)
	if err != nil {
		return nil, err
	}
	right, err := db.Table(rightTable)
	if err != nil {
		return nil, err
	}
	return innerJoin(left, leftCol, right, rightCol, strategy)
}

// GetByPrimaryKey fetches the single row whose primary key equals key.
func (db *Database) GetByPrimaryKey(table string, key Value) (Row, error) {
	t, err := db.Table(table)
	if err != nil {
		return nil, err
	}

	pk := t.Schema.PrimaryKey()
	if pk == nil {
		return nil, fmt.Errorf("table %s has no primary key", table)
	}

	row, found := t.SelectByIndex(pk.Name, key)
	if !found {
		return nil, &RowNotFoundError{TableName: table, Key: key}
	}
	return row, nil
}

// DeleteByPrimaryKey removes the single row whose primary key equals key.
func (db *Database) DeleteByPrimaryKey(table string, key Value) error {
	t, err := db.Table(table)
	if err != nil {
		return err
	}

	pk := t.Schema.PrimaryKey()
	if pk == nil {
		return fmt.Errorf("table %s has no primary key", table)
	}

	t.Lock()
	idx := t.Indexes[pk.Name]
	id, found := idx.lookupOne(indexKey(pk.Type, key))
	if !found {
		t.Unlock()
		return &RowNotFoundError{TableName: table, Key: key}
	}
	t.deleteByID(id)
	t.Unlock()

	db.notify(newEvent(EventRowsDeleted, table, map[string]interface{}{
		"rows_affected": 1,
	}))
	return nil
}

// AddObserver registers an observer to receive mutation events
func (db *Database) AddObserver(observer Observer) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.observers = append(db.observers, observer)
}

// RemoveObserver unregisters an observer
func (db *Database) RemoveObserver(observer Observer) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for i, o := range db.observers {
		if o == observer {
			db.observers = append(db.observers[:i], db.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (db *Database) notify(event Event) {
	db.mu.RLock()
	observers := make([]Observer, len(db.observers))
	copy(observers, db.observers)
	db.mu.RUnlock()

	for _, observer := range observers {
		observer.OnEvent(event)
	}
}
