package engine

import (
	"fmt"
	"strings"
)

// Represents a violation of a database constraint
// (unique, primary key, not null, foreign key later, etc.)
type ConstraintError struct {
	Table      string  // table name
	Column     string  // column name (empty if table-level constraint)
	Value      Value   // offending value (may be NULL)
	Constraint string  // "unique", "primary_key", "not_null"
	Reason     string  // human-readable explanation (optional)
	RowIndex   int     // row number (0-based) within a batch (-1 if unknown)
	Rows       []RowID // for unique violations: the conflicting row identifiers
}

func (e *ConstraintError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("constraint violation in %s.%s", e.Table, e.Column))

	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}

	if !e.Value.IsNull() {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	if e.RowIndex >= 0 {
		parts = append(parts, fmt.Sprintf("at row %d", e.RowIndex))
	}

	return strings.Join(parts, " - ")
}

func NewUniqueViolation(table, column string, value Value, rows []RowID) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Constraint: "unique",
		Reason:     "duplicate value",
		RowIndex:   -1,
		Rows:       rows,
	}
}

func NewNotNullViolation(table, column string, rowIndex int) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      Null,
		Constraint: "not_null",
		Reason:     "missing required value",
		RowIndex:   rowIndex,
	}
}

func NewPrimaryKeyViolation(table, column string, value Value) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Constraint: "primary_key",
		Reason:     "duplicate primary key",
		RowIndex:   -1,
	}
}

// TypeMismatchError reports a cell whose type does not match the column's
// declared type.
type TypeMismatchError struct {
	Table    string
	Column   string
	Value    Value
	Expected ColumnType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in %s.%s - expected %s, got %s (value=%v)",
		e.Table, e.Column, e.Expected, e.Value.Type, e.Value)
}

func NewTypeMismatch(table, column string, value Value, expected ColumnType) *TypeMismatchError {
	return &TypeMismatchError{
		Table:    table,
		Column:   column,
		Value:    value,
		Expected: expected,
	}
}

type TableExistsError struct {
	TableName string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table %s already exists", e.TableName)
}

type TableNotFoundError struct {
	TableName string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %s not found", e.TableName)
}

type ColumnNotFoundError struct {
	TableName  string
	ColumnName string
}

func (e *ColumnNotFoundError) Error() string {
	if e.TableName == "" {
		return fmt.Sprintf("column %s not found", e.ColumnName)
	}
	return fmt.Sprintf("column %s not found in table %s", e.ColumnName, e.TableName)
}

// RowNotFoundError reports a primary-key lookup that matched nothing.
type RowNotFoundError struct {
	TableName string
	Key       Value
}

func (e *RowNotFoundError) Error() string {
	return fmt.Sprintf("row with primary key %v not found in %s", e.Key, e.TableName)
}
