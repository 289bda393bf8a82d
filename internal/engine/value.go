package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a single cell: a tagged variant over the four column types plus
// NULL. Only the field matching Type is meaningful, the rest stay at their
// zero values. The zero Value is NULL.
//
// Value is comparable, so equal cells of the same type compare equal with ==
// and a Value can key a map directly.
type Value struct {
	Type  ColumnType
	Int   int64
	Float float64
	Text  string
	Bool  bool
}

// Null is the SQL NULL value.
var Null = Value{}

func NewInt(v int64) Value     { return Value{Type: ColumnTypeInt, Int: v} }
func NewFloat(v float64) Value { return Value{Type: ColumnTypeFloat, Float: v} }
func NewText(v string) Value   { return Value{Type: ColumnTypeText, Text: v} }
func NewBool(v bool) Value     { return Value{Type: ColumnTypeBool, Bool: v} }

// IsNull reports whether the value is NULL.
func (v Value) IsNull() bool {
	return v.Type == ""
}

// Numeric reports whether the value holds an INT or FLOAT.
func (v Value) Numeric() bool {
	return v.Type == ColumnTypeInt || v.Type == ColumnTypeFloat
}

// Native returns the cell as its natural Go type, nil for NULL.
func (v Value) Native() interface{} {
	switch v.Type {
	case ColumnTypeInt:
		return v.Int
	case ColumnTypeFloat:
		return v.Float
	case ColumnTypeText:
		return v.Text
	case ColumnTypeBool:
		return v.Bool
	default:
		return nil
	}
}

// AsFloat widens a numeric value to float64. Non-numeric values yield 0.
func (v Value) AsFloat() float64 {
	switch v.Type {
	case ColumnTypeInt:
		return float64(v.Int)
	case ColumnTypeFloat:
		return v.Float
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.Type {
	case ColumnTypeInt:
		return strconv.FormatInt(v.Int, 10)
	case ColumnTypeFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case ColumnTypeText:
		return v.Text
	case ColumnTypeBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "NULL"
	}
}

// MarshalJSON encodes the bare native value, so rows serialize as plain JSON
// objects: 1, 2.5, "alice", true, null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Native())
}

// UnmarshalJSON tags incoming JSON by its syntax: number literals that parse
// as int64 become INT, all other numbers FLOAT. Schema validation reconciles
// the guess with the column's declared type afterwards.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty JSON value")
	}
	if bytes.Equal(data, []byte("null")) {
		*v = Null
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = NewText(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = NewBool(b)
	case '{', '[':
		return fmt.Errorf("unsupported JSON value %s for a table cell", data)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		if i, err := n.Int64(); err == nil {
			*v = NewInt(i)
			return nil
		}
		f, err := n.Float64()
		if err != nil {
			return err
		}
		*v = NewFloat(f)
	}
	return nil
}
