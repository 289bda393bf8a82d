package integration

import (
	"path/filepath"
	"testing"

	"github.com/leengari/jumanji/internal/engine"
	"github.com/leengari/jumanji/internal/repl"
	"github.com/leengari/jumanji/internal/store"
	"github.com/leengari/jumanji/internal/testutil"
)

// exec parses and executes one command line, failing the test on any error.
func exec(t *testing.T, r *repl.REPL, line string) *repl.Result {
	t.Helper()
	stmt, err := repl.Parse(line)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", line, err)
	}
	res, err := r.Execute(stmt)
	if err != nil {
		t.Fatalf("Execute(%q) failed: %v", line, err)
	}
	return res
}

// TestReplSessionFlow drives a whole session through the command layer and
// confirms SAVE leaves a loadable file behind.
func TestReplSessionFlow(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "session.json"))
	db := engine.New("session")
	r := repl.New(db, st, "")

	exec(t, r, "CREATE TABLE accounts (id INT PRIMARY KEY, owner TEXT NOT NULL, balance FLOAT, frozen BOOL)")
	exec(t, r, "INSERT INTO accounts VALUES (1, 'alice', 120.5, FALSE)")
	exec(t, r, "INSERT INTO accounts VALUES (2, 'bob', 0.0, FALSE)")
	exec(t, r, "INSERT INTO accounts VALUES (3, 'carol', NULL, TRUE)")

	res := exec(t, r, "SELECT * FROM accounts")
	testutil.AssertRowCount(t, len(res.Rows), 3, "accounts")

	res = exec(t, r, "SELECT owner FROM accounts WHERE balance >= 0.0 AND frozen = FALSE")
	testutil.AssertRowCount(t, len(res.Rows), 2, "active accounts")
	for _, row := range res.Rows {
		testutil.AssertColumnExists(t, row, "owner", "projected account")
		testutil.AssertColumnNotExists(t, row, "balance", "projected account")
	}

	res = exec(t, r, "UPDATE accounts SET frozen = TRUE WHERE id = 2")
	if res.Message != "1 row(s) updated" {
		t.Errorf("Expected update message, got %q", res.Message)
	}

	res = exec(t, r, "SELECT * FROM accounts WHERE frozen = TRUE")
	testutil.AssertRowCount(t, len(res.Rows), 2, "frozen accounts")

	res = exec(t, r, "DELETE FROM accounts WHERE balance = 0.0")
	if res.Message != "1 row(s) deleted" {
		t.Errorf("Expected delete message, got %q", res.Message)
	}

	exec(t, r, "SAVE")

	loaded, err := st.Load()
	if err != nil {
		t.Fatalf("Load after SAVE failed: %v", err)
	}
	rows, err := loaded.SelectAll("accounts")
	testutil.AssertNoError(t, err, "SelectAll on loaded database")
	testutil.AssertRowCount(t, len(rows), 2, "persisted accounts")
	testutil.AssertCell(t, rows[0], "owner", engine.NewText("alice"), "first persisted account")
	testutil.AssertNullValue(t, rows[1]["balance"], "carol's balance survives as NULL")
}

// TestReplSurfacesEngineErrors checks that constraint and lookup failures
// come back as errors, not panics or silent drops.
func TestReplSurfacesEngineErrors(t *testing.T) {
	r := repl.New(engine.New("session"), nil, "")

	exec(t, r, "CREATE TABLE accounts (id INT PRIMARY KEY, owner TEXT NOT NULL)")
	exec(t, r, "INSERT INTO accounts VALUES (1, 'alice')")

	cases := []string{
		"INSERT INTO accounts VALUES (1, 'duplicate')",
		"INSERT INTO accounts VALUES (2, NULL)",
		"INSERT INTO accounts VALUES (2, 'bob', 'extra')",
		"SELECT * FROM missing",
		"CREATE TABLE accounts (id INT PRIMARY KEY)",
		"DROP TABLE missing",
	}
	for _, line := range cases {
		stmt, err := repl.Parse(line)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", line, err)
		}
		if _, err := r.Execute(stmt); err == nil {
			t.Errorf("Execute(%q): expected an error, got none", line)
		}
	}

	// The failed statements must not have left partial state behind.
	res := exec(t, r, "SELECT * FROM accounts")
	testutil.AssertRowCount(t, len(res.Rows), 1, "accounts after failed statements")
}
