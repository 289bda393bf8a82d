package testutil

import (
	"testing"

	"github.com/leengari/jumanji/internal/engine"
)

// AssertRowCount checks if the result has the expected number of rows
func AssertRowCount(t *testing.T, actual, expected int, context string) {
	t.Helper()
	if actual != expected {
		t.Errorf("%s: expected %d rows, got %d", context, expected, actual)
	}
}

// AssertColumnExists checks if a column exists in a row
func AssertColumnExists(t *testing.T, row engine.Row, column, context string) {
	t.Helper()
	if _, exists := row[column]; !exists {
		t.Errorf("%s: expected column '%s' to exist", context, column)
	}
}

// AssertColumnNotExists checks if a column does not exist in a row
func AssertColumnNotExists(t *testing.T, row engine.Row, column, context string) {
	t.Helper()
	if _, exists := row[column]; exists {
		t.Errorf("%s: did not expect column '%s' to exist", context, column)
	}
}

// AssertCell checks one cell of a row against an expected value
func AssertCell(t *testing.T, row engine.Row, column string, expected engine.Value, context string) {
	t.Helper()
	actual, exists := row[column]
	if !exists {
		t.Errorf("%s: expected column '%s' to exist", context, column)
		return
	}
	if actual != expected {
		t.Errorf("%s: expected %s=%v, got %v", context, column, expected, actual)
	}
}

// AssertNoError checks that an error is nil
func AssertNoError(t *testing.T, err error, context string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: expected no error, got: %v", context, err)
	}
}

// AssertError checks that an error is not nil
func AssertError(t *testing.T, err error, context string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected an error, got nil", context)
	}
}

// AssertNullValue checks if a value is NULL
func AssertNullValue(t *testing.T, value engine.Value, context string) {
	t.Helper()
	if !value.IsNull() {
		t.Errorf("%s: expected NULL value, got: %v", context, value)
	}
}

// AssertNotNullValue checks if a value is not NULL
func AssertNotNullValue(t *testing.T, value engine.Value, context string) {
	t.Helper()
	if value.IsNull() {
		t.Errorf("%s: expected non-NULL value, got NULL", context)
	}
}
