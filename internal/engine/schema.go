package engine

import "fmt"

// TableSchema represents table metadata: an ordered list of column
// definitions. Column order is preserved for DESCRIBE and printed results.
type TableSchema struct {
	TableName string   `json:"table_name"`
	Columns   []Column `json:"columns"`
}

// Column returns the definition for name, or nil if the schema does not
// declare it.
func (s *TableSchema) Column(name string) *Column {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i]
		}
	}
	return nil
}

// PrimaryKey returns the primary key column, or nil if the schema has none.
func (s *TableSchema) PrimaryKey() *Column {
	for i := range s.Columns {
		if s.Columns[i].PrimaryKey {
			return &s.Columns[i]
		}
	}
	return nil
}

// ColumnNames returns the declared column names in schema order.
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		names[i] = col.Name
	}
	return names
}

// Validate checks the schema is well formed: at least one column, no
// duplicate names, only declarable types, at most one primary key.
func (s *TableSchema) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("table %s: schema must declare at least one column", s.TableName)
	}

	seen := make(map[string]bool, len(s.Columns))
	pkCount := 0

	for _, col := range s.Columns {
		if col.Name == "" {
			return fmt.Errorf("table %s: column name cannot be empty", s.TableName)
		}
		if seen[col.Name] {
			return fmt.Errorf("table %s: duplicate column %s", s.TableName, col.Name)
		}
		seen[col.Name] = true

		if !col.Type.Valid() {
			return fmt.Errorf("table %s: column %s has unknown type %q", s.TableName, col.Name, col.Type)
		}
		if col.PrimaryKey {
			pkCount++
		}
	}

	if pkCount > 1 {
		return fmt.Errorf("table %s: at most one primary key column is allowed, got %d", s.TableName, pkCount)
	}
	return nil
}

// copySchema returns an independent copy so callers cannot mutate a live
// table's metadata.
func copySchema(s TableSchema) TableSchema {
	cols := make([]Column, len(s.Columns))
	copy(cols, s.Columns)
	return TableSchema{TableName: s.TableName, Columns: cols}
}
