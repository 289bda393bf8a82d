package engine

import (
	"strings"
	"testing"
)

func joinFixture(t *testing.T) *Database {
	t.Helper()
	db := New("testdb")

	if err := db.CreateTable(usersSchema()); err != nil {
		t.Fatalf("CreateTable users: %v", err)
	}
	txSchema := TableSchema{
		TableName: "transactions",
		Columns: []Column{
			{Name: "id", Type: ColumnTypeInt, PrimaryKey: true},
			{Name: "user_id", Type: ColumnTypeInt},
			{Name: "amount", Type: ColumnTypeFloat},
		},
	}
	if err := db.CreateTable(txSchema); err != nil {
		t.Fatalf("CreateTable transactions: %v", err)
	}

	seed := []struct {
		table string
		row   Row
	}{
		{"users", Row{"id": NewInt(1), "name": NewText("alice"), "email": NewText("a@example.com")}},
		{"users", Row{"id": NewInt(2), "name": NewText("bob"), "email": NewText("b@example.com")}},
		{"transactions", Row{"id": NewInt(1), "user_id": NewInt(1), "amount": NewFloat(100)}},
		{"transactions", Row{"id": NewInt(2), "user_id": NewInt(2), "amount": NewFloat(250)}},
		{"transactions", Row{"id": NewInt(3), "user_id": NewInt(1), "amount": NewFloat(75)}},
	}
	for _, s := range seed {
		if err := db.Insert(s.table, s.row); err != nil {
			t.Fatalf("Insert into %s: %v", s.table, err)
		}
	}
	return db
}

func TestJoinCombinesMatchingPairs(t *testing.T) {
	db := joinFixture(t)

	rows, err := db.Join("transactions", "user_id", "users", "id")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 joined rows, got %d", len(rows))
	}

	first := rows[0]
	if first["transactions.id"] != NewInt(1) {
		t.Errorf("Expected transactions.id=1 first, got %v", first["transactions.id"])
	}
	if first["users.name"] != NewText("alice") {
		t.Errorf("Expected users.name=alice, got %v", first["users.name"])
	}

	// every key is table-qualified
	for key := range first {
		if !strings.Contains(key, ".") {
			t.Errorf("Expected qualified key, got %q", key)
		}
	}
}

func TestJoinSkipsUnmatchedRows(t *testing.T) {
	db := joinFixture(t)

	// a transaction pointing at a user that does not exist
	if err := db.Insert("transactions", Row{"id": NewInt(4), "user_id": NewInt(99), "amount": NewFloat(10)}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rows, err := db.Join("transactions", "user_id", "users", "id")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected 3 joined rows, got %d", len(rows))
	}
	for _, row := range rows {
		if row["transactions.id"] == NewInt(4) {
			t.Error("Expected the unmatched transaction to produce no output row")
		}
	}
}

func TestJoinNullKeysMatchNothing(t *testing.T) {
	db := joinFixture(t)

	// NULL on the left side
	if err := db.Insert("transactions", Row{"id": NewInt(4), "user_id": Null, "amount": NewFloat(10)}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	// NULL on the right side of a different join column
	if err := db.Insert("users", Row{"id": NewInt(3), "name": NewText("carol"), "email": Null}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	rows, err := db.Join("transactions", "user_id", "users", "id")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("Expected NULL user_id to join nothing, got %d rows", len(rows))
	}

	// two NULLs do not match each other either
	rows, err = db.Join("transactions", "user_id", "users", "email")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no NULL-NULL matches, got %d rows", len(rows))
	}
}

func TestJoinStrategiesAgree(t *testing.T) {
	db := joinFixture(t)

	nested, err := db.JoinWith("transactions", "user_id", "users", "id", StrategyNestedLoop)
	if err != nil {
		t.Fatalf("Nested loop join failed: %v", err)
	}
	indexed, err := db.JoinWith("transactions", "user_id", "users", "id", StrategyIndexLookup)
	if err != nil {
		t.Fatalf("Index lookup join failed: %v", err)
	}

	if len(nested) != len(indexed) {
		t.Fatalf("Expected equal row counts, got %d vs %d", len(nested), len(indexed))
	}
	for i := range nested {
		if len(nested[i]) != len(indexed[i]) {
			t.Fatalf("Row %d: expected equal widths, got %d vs %d", i, len(nested[i]), len(indexed[i]))
		}
		for k, v := range nested[i] {
			if indexed[i][k] != v {
				t.Errorf("Row %d, column %s: expected %v, got %v", i, k, v, indexed[i][k])
			}
		}
	}
}

func TestJoinAutoPrefersIndexButFallsBack(t *testing.T) {
	db := joinFixture(t)

	// users.id carries a unique index and both columns are INT
	if s := pickStrategy(t, db, "transactions", "user_id", "users", "id"); s != StrategyIndexLookup {
		t.Errorf("Expected index lookup, got %s", s)
	}
	// transactions.user_id carries no index
	if s := pickStrategy(t, db, "users", "id", "transactions", "user_id"); s != StrategyNestedLoop {
		t.Errorf("Expected nested loop, got %s", s)
	}
	// amount is FLOAT while users.id is INT, so the index cannot serve
	if s := pickStrategy(t, db, "transactions", "amount", "users", "id"); s != StrategyNestedLoop {
		t.Errorf("Expected nested loop for mixed types, got %s", s)
	}
}

func pickStrategy(t *testing.T, db *Database, lt, lc, rt, rc string) JoinStrategy {
	t.Helper()
	left, err := db.Table(lt)
	if err != nil {
		t.Fatalf("Table %s: %v", lt, err)
	}
	right, err := db.Table(rt)
	if err != nil {
		t.Fatalf("Table %s: %v", rt, err)
	}
	return pickJoinStrategy(left, lc, right, rc)
}

func TestJoinExplicitIndexLookupNeedsAnIndex(t *testing.T) {
	db := joinFixture(t)

	_, err := db.JoinWith("users", "id", "transactions", "user_id", StrategyIndexLookup)
	if err == nil {
		t.Fatal("Expected an error for index lookup without an index")
	}
}

func TestJoinMixedNumericTypes(t *testing.T) {
	db := New("testdb")

	left := TableSchema{
		TableName: "left",
		Columns: []Column{
			{Name: "id", Type: ColumnTypeInt, PrimaryKey: true},
			{Name: "k", Type: ColumnTypeFloat},
		},
	}
	right := TableSchema{
		TableName: "right",
		Columns: []Column{
			{Name: "k", Type: ColumnTypeInt, PrimaryKey: true},
		},
	}
	if err := db.CreateTable(left); err != nil {
		t.Fatal(err)
	}
	if err := db.CreateTable(right); err != nil {
		t.Fatal(err)
	}

	mustInsertDB(t, db, "left", Row{"id": NewInt(1), "k": NewFloat(2.0)})
	mustInsertDB(t, db, "left", Row{"id": NewInt(2), "k": NewFloat(2.5)})
	mustInsertDB(t, db, "right", Row{"k": NewInt(2)})

	rows, err := db.Join("left", "k", "right", "k")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 joined row, got %d", len(rows))
	}
	if rows[0]["left.id"] != NewInt(1) {
		t.Errorf("Expected the whole float 2.0 to match INT 2, got %v", rows[0])
	}
}

func TestJoinUnknownColumn(t *testing.T) {
	db := joinFixture(t)

	_, err := db.Join("transactions", "nope", "users", "id")
	if err == nil {
		t.Fatal("Expected an error for unknown join column")
	}
}

func TestSelfJoin(t *testing.T) {
	db := joinFixture(t)

	rows, err := db.Join("users", "id", "users", "id")
	if err != nil {
		t.Fatalf("Self join failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("Expected each user to match itself, got %d rows", len(rows))
	}
}

func mustInsertDB(t *testing.T, db *Database, table string, row Row) {
	t.Helper()
	if err := db.Insert(table, row); err != nil {
		t.Fatalf("Insert into %s: %v", table, err)
	}
}
