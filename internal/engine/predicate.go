package engine

import "cmp"

// CompareOp is a comparison operator usable in a condition.
type CompareOp string

const (
	OpEq CompareOp = "="
	OpNe CompareOp = "!="
	OpLt CompareOp = "<"
	OpGt CompareOp = ">"
	OpLe CompareOp = "<="
	OpGe CompareOp = ">="
)

// Condition is a predicate over a single row. Implementations are plain data
// (Compare, And, Or), so a condition can be built programmatically, nested,
// and inspected, rather than hiding inside a closure.
type Condition interface {
	Matches(Row) bool
}

// Compare matches rows whose named column relates to Value under Op.
// Evaluation is total: an unknown column, a NULL cell, or an incomparable
// type pairing makes the comparison false instead of failing.
type Compare struct {
	Column string
	Op     CompareOp
	Value  Value
}

func (c *Compare) Matches(row Row) bool {
	val, ok := row[c.Column]
	if !ok {
		return false
	}
	return compareValues(val, c.Op, c.Value)
}

// And matches rows satisfying every child condition. An empty And matches
// everything. Children evaluate left to right and short-circuit.
type And struct {
	Conditions []Condition
}

func (a *And) Matches(row Row) bool {
	for _, cond := range a.Conditions {
		if !cond.Matches(row) {
			return false
		}
	}
	return true
}

// Or matches rows satisfying at least one child condition. An empty Or
// matches nothing.
type Or struct {
	Conditions []Condition
}

func (o *Or) Matches(row Row) bool {
	for _, cond := range o.Conditions {
		if cond.Matches(row) {
			return true
		}
	}
	return false
}

// compareValues implements the engine's comparison rules:
//   - NULL compares false against everything, NULL included, under every
//     operator
//   - two INTs compare exactly; INT/FLOAT pairings widen to float64
//   - TEXT compares lexicographically, against TEXT only
//   - BOOL orders false before true, against BOOL only
//   - every other pairing is false
func compareValues(val Value, op CompareOp, target Value) bool {
	if val.IsNull() || target.IsNull() {
		return false
	}

	if val.Type == ColumnTypeInt && target.Type == ColumnTypeInt {
		return compareOrdered(val.Int, target.Int, op)
	}
	if val.Numeric() && target.Numeric() {
		return compareOrdered(val.AsFloat(), target.AsFloat(), op)
	}
	if val.Type != target.Type {
		return false
	}

	switch val.Type {
	case ColumnTypeText:
		return compareOrdered(val.Text, target.Text, op)
	case ColumnTypeBool:
		return compareBool(val.Bool, target.Bool, op)
	}
	return false
}

func compareOrdered[T cmp.Ordered](a, b T, op CompareOp) bool {
	switch op {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpGt:
		return a > b
	case OpLe:
		return a <= b
	case OpGe:
		return a >= b
	}
	return false
}

func compareBool(a, b bool, op CompareOp) bool {
	ai, bi := 0, 0
	if a {
		ai = 1
	}
	if b {
		bi = 1
	}
	return compareOrdered(ai, bi, op)
}
