package engine

import "testing"

func TestCompareOperators(t *testing.T) {
	row := Row{"v": NewInt(20)}

	cases := []struct {
		op     CompareOp
		target Value
		want   bool
	}{
		{OpEq, NewInt(20), true},
		{OpEq, NewInt(21), false},
		{OpNe, NewInt(21), true},
		{OpNe, NewInt(20), false},
		{OpLt, NewInt(21), true},
		{OpLt, NewInt(20), false},
		{OpGt, NewInt(19), true},
		{OpGt, NewInt(20), false},
		{OpLe, NewInt(20), true},
		{OpLe, NewInt(19), false},
		{OpGe, NewInt(20), true},
		{OpGe, NewInt(21), false},
	}

	for _, tc := range cases {
		cond := &Compare{Column: "v", Op: tc.op, Value: tc.target}
		if got := cond.Matches(row); got != tc.want {
			t.Errorf("v %s %v: expected %v, got %v", tc.op, tc.target, tc.want, got)
		}
	}
}

func TestCompareNullNeverMatches(t *testing.T) {
	row := Row{"v": Null}

	ops := []CompareOp{OpEq, OpNe, OpLt, OpGt, OpLe, OpGe}
	for _, op := range ops {
		cond := &Compare{Column: "v", Op: op, Value: NewInt(1)}
		if cond.Matches(row) {
			t.Errorf("NULL %s 1: expected false", op)
		}
	}

	// NULL does not even equal NULL
	cond := &Compare{Column: "v", Op: OpEq, Value: Null}
	if cond.Matches(row) {
		t.Error("NULL = NULL: expected false")
	}
}

func TestCompareUnknownColumnIsFalse(t *testing.T) {
	row := Row{"v": NewInt(1)}
	cond := &Compare{Column: "missing", Op: OpEq, Value: NewInt(1)}
	if cond.Matches(row) {
		t.Error("Expected comparison on unknown column to be false")
	}
}

func TestCompareNumericCrossType(t *testing.T) {
	cases := []struct {
		name string
		cell Value
		op   CompareOp
		tgt  Value
		want bool
	}{
		{"int equals whole float", NewInt(3), OpEq, NewFloat(3.0), true},
		{"float equals int", NewFloat(3.0), OpEq, NewInt(3), true},
		{"int less than float", NewInt(3), OpLt, NewFloat(3.5), true},
		{"float not equal int", NewFloat(3.5), OpNe, NewInt(3), true},
		{"large ints compare exactly", NewInt(9007199254740993), OpEq, NewInt(9007199254740993), true},
		{"adjacent large ints differ", NewInt(9007199254740993), OpEq, NewInt(9007199254740992), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := Row{"v": tc.cell}
			cond := &Compare{Column: "v", Op: tc.op, Value: tc.tgt}
			if got := cond.Matches(row); got != tc.want {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestCompareMismatchedTypesAreFalse(t *testing.T) {
	cases := []struct {
		name string
		cell Value
		tgt  Value
	}{
		{"text vs int", NewText("5"), NewInt(5)},
		{"int vs text", NewInt(5), NewText("5")},
		{"bool vs int", NewBool(true), NewInt(1)},
		{"text vs bool", NewText("true"), NewBool(true)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := Row{"v": tc.cell}
			for _, op := range []CompareOp{OpEq, OpNe, OpLt, OpGt} {
				cond := &Compare{Column: "v", Op: op, Value: tc.tgt}
				if cond.Matches(row) {
					t.Errorf("%v %s %v: expected false", tc.cell, op, tc.tgt)
				}
			}
		})
	}
}

func TestCompareText(t *testing.T) {
	row := Row{"name": NewText("bob")}

	if !(&Compare{Column: "name", Op: OpEq, Value: NewText("bob")}).Matches(row) {
		t.Error("Expected bob = bob")
	}
	if !(&Compare{Column: "name", Op: OpLt, Value: NewText("carol")}).Matches(row) {
		t.Error("Expected bob < carol lexicographically")
	}
	if (&Compare{Column: "name", Op: OpGt, Value: NewText("carol")}).Matches(row) {
		t.Error("Expected bob > carol to be false")
	}
}

func TestCompareBoolOrdersFalseBeforeTrue(t *testing.T) {
	rowFalse := Row{"b": NewBool(false)}
	rowTrue := Row{"b": NewBool(true)}

	if !(&Compare{Column: "b", Op: OpLt, Value: NewBool(true)}).Matches(rowFalse) {
		t.Error("Expected false < true")
	}
	if (&Compare{Column: "b", Op: OpLt, Value: NewBool(false)}).Matches(rowTrue) {
		t.Error("Expected true < false to be false")
	}
	if !(&Compare{Column: "b", Op: OpEq, Value: NewBool(true)}).Matches(rowTrue) {
		t.Error("Expected true = true")
	}
}

func TestAndShortCircuitsLeftToRight(t *testing.T) {
	row := Row{"v": NewInt(20)}

	evaluated := 0
	counting := condFunc(func(r Row) bool {
		evaluated++
		return false
	})
	never := condFunc(func(r Row) bool {
		t.Error("Expected short circuit to skip this condition")
		return true
	})

	cond := &And{Conditions: []Condition{counting, never}}
	if cond.Matches(row) {
		t.Error("Expected false")
	}
	if evaluated != 1 {
		t.Errorf("Expected 1 evaluation, got %d", evaluated)
	}
}

func TestOrShortCircuitsLeftToRight(t *testing.T) {
	row := Row{"v": NewInt(20)}

	never := condFunc(func(r Row) bool {
		t.Error("Expected short circuit to skip this condition")
		return false
	})

	cond := &Or{Conditions: []Condition{
		&Compare{Column: "v", Op: OpEq, Value: NewInt(20)},
		never,
	}}
	if !cond.Matches(row) {
		t.Error("Expected true")
	}
}

func TestEmptyConjunctions(t *testing.T) {
	row := Row{"v": NewInt(1)}

	if !(&And{}).Matches(row) {
		t.Error("Expected empty And to match everything")
	}
	if (&Or{}).Matches(row) {
		t.Error("Expected empty Or to match nothing")
	}
}

func TestNestedConditions(t *testing.T) {
	// (v > 15 AND v < 30) OR name = "admin"
	cond := &Or{Conditions: []Condition{
		&And{Conditions: []Condition{
			&Compare{Column: "v", Op: OpGt, Value: NewInt(15)},
			&Compare{Column: "v", Op: OpLt, Value: NewInt(30)},
		}},
		&Compare{Column: "name", Op: OpEq, Value: NewText("admin")},
	}}

	cases := []struct {
		row  Row
		want bool
	}{
		{Row{"v": NewInt(20), "name": NewText("bob")}, true},
		{Row{"v": NewInt(30), "name": NewText("bob")}, false},
		{Row{"v": NewInt(30), "name": NewText("admin")}, true},
		{Row{"v": Null, "name": Null}, false},
	}
	for i, tc := range cases {
		if got := cond.Matches(tc.row); got != tc.want {
			t.Errorf("Case %d: expected %v, got %v", i, tc.want, got)
		}
	}
}

// condFunc adapts a function to the Condition interface for tests.
type condFunc func(Row) bool

func (f condFunc) Matches(row Row) bool { return f(row) }
