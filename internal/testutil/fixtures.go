package testutil

import (
	"testing"

	"github.com/leengari/jumanji/internal/engine"
)

// UsersSchema is the account table used across the integration suite.
func UsersSchema() engine.TableSchema {
	return engine.TableSchema{
		TableName: "users",
		Columns: []engine.Column{
			{Name: "id", Type: engine.ColumnTypeInt, PrimaryKey: true},
			{Name: "username", Type: engine.ColumnTypeText, NotNull: true},
			{Name: "email", Type: engine.ColumnTypeText, Unique: true},
			{Name: "balance", Type: engine.ColumnTypeFloat},
		},
	}
}

// TransactionsSchema references users by user_id, without any enforced
// foreign key, so orphan rows are possible on purpose.
func TransactionsSchema() engine.TableSchema {
	return engine.TableSchema{
		TableName: "transactions",
		Columns: []engine.Column{
			{Name: "id", Type: engine.ColumnTypeInt, PrimaryKey: true},
			{Name: "user_id", Type: engine.ColumnTypeInt, NotNull: true},
			{Name: "amount", Type: engine.ColumnTypeFloat, NotNull: true},
			{Name: "flagged", Type: engine.ColumnTypeBool, NotNull: true},
		},
	}
}

// User builds one users row.
func User(id int64, username, email string, balance float64) engine.Row {
	row := engine.Row{
		"id":       engine.NewInt(id),
		"username": engine.NewText(username),
		"balance":  engine.NewFloat(balance),
	}
	if email != "" {
		row["email"] = engine.NewText(email)
	}
	return row
}

// Transaction builds one transactions row.
func Transaction(id, userID int64, amount float64, flagged bool) engine.Row {
	return engine.Row{
		"id":      engine.NewInt(id),
		"user_id": engine.NewInt(userID),
		"amount":  engine.NewFloat(amount),
		"flagged": engine.NewBool(flagged),
	}
}

// NewSeededDB builds a database with three users and four transactions,
// one of which points at a user that does not exist.
func NewSeededDB(t *testing.T) *engine.Database {
	t.Helper()

	db := engine.New("testdb")
	MustCreateTable(t, db, UsersSchema())
	MustCreateTable(t, db, TransactionsSchema())

	MustInsert(t, db, "users", User(1, "admin", "admin@example.com", 1000))
	MustInsert(t, db, "users", User(2, "guest", "guest@example.com", 50))
	MustInsert(t, db, "users", User(3, "nomail", "", 0))

	MustInsert(t, db, "transactions", Transaction(1, 1, 250.0, false))
	MustInsert(t, db, "transactions", Transaction(2, 1, 4000.0, true))
	MustInsert(t, db, "transactions", Transaction(3, 2, 15.5, false))
	MustInsert(t, db, "transactions", Transaction(4, 99, 1.0, false))

	return db
}

// MustCreateTable creates a table or fails the test.
func MustCreateTable(t *testing.T, db *engine.Database, schema engine.TableSchema) {
	t.Helper()
	if err := db.CreateTable(schema); err != nil {
		t.Fatalf("failed to create table %s: %v", schema.TableName, err)
	}
}

// MustInsert inserts a row or fails the test.
func MustInsert(t *testing.T, db *engine.Database, table string, row engine.Row) {
	t.Helper()
	if err := db.Insert(table, row); err != nil {
		t.Fatalf("failed to insert into %s: %v", table, err)
	}
}
