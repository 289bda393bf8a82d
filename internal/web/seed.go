package web

import (
	"github.com/leengari/jumanji/internal/engine"
)

// usersSchema and transactionsSchema are the two tables the demo API
// serves. Emails are unique per user; transactions carry a precomputed
// fraud flag so the engine itself stays free of business rules.
func usersSchema() engine.TableSchema {
	return engine.TableSchema{
		TableName: "users",
		Columns: []engine.Column{
			{Name: "id", Type: engine.ColumnTypeInt, PrimaryKey: true},
			{Name: "first_name", Type: engine.ColumnTypeText, NotNull: true},
			{Name: "last_name", Type: engine.ColumnTypeText, NotNull: true},
			{Name: "email", Type: engine.ColumnTypeText, NotNull: true, Unique: true},
			{Name: "created_at", Type: engine.ColumnTypeText, NotNull: true},
		},
	}
}

func transactionsSchema() engine.TableSchema {
	return engine.TableSchema{
		TableName: "transactions",
		Columns: []engine.Column{
			{Name: "id", Type: engine.ColumnTypeInt, PrimaryKey: true},
			{Name: "user_id", Type: engine.ColumnTypeInt, NotNull: true},
			{Name: "amount", Type: engine.ColumnTypeFloat, NotNull: true},
			{Name: "timestamp", Type: engine.ColumnTypeText, NotNull: true},
			{Name: "is_fraud", Type: engine.ColumnTypeBool, NotNull: true},
		},
	}
}

// Initialize creates the demo tables and sample rows unless they already
// exist, so a restarted server keeps whatever data was loaded from disk.
func (s *Server) Initialize() error {
	if _, err := s.db.Table("users"); err == nil {
		return nil
	}

	if err := s.db.CreateTable(usersSchema()); err != nil {
		return err
	}
	if err := s.db.CreateTable(transactionsSchema()); err != nil {
		return err
	}

	seedUsers := []engine.Row{
		{
			"id":         engine.NewInt(1),
			"first_name": engine.NewText("james"),
			"last_name":  engine.NewText("kamotho"),
			"email":      engine.NewText("kamothojames@example.com"),
			"created_at": engine.NewText("2026-01-15"),
		},
		{
			"id":         engine.NewInt(2),
			"first_name": engine.NewText("mary"),
			"last_name":  engine.NewText("wambui"),
			"email":      engine.NewText("marywambo@example.com"),
			"created_at": engine.NewText("2026-01-15"),
		},
	}
	for _, row := range seedUsers {
		if err := s.db.Insert("users", row); err != nil {
			return err
		}
	}

	seedTransactions := []engine.Row{
		{
			"id":        engine.NewInt(1),
			"user_id":   engine.NewInt(1),
			"amount":    engine.NewFloat(100.0),
			"timestamp": engine.NewText("2026-01-15"),
			"is_fraud":  engine.NewBool(false),
		},
		{
			"id":        engine.NewInt(2),
			"user_id":   engine.NewInt(2),
			"amount":    engine.NewFloat(2500.0),
			"timestamp": engine.NewText("2026-01-15"),
			"is_fraud":  engine.NewBool(true),
		},
	}
	for _, row := range seedTransactions {
		if err := s.db.Insert("transactions", row); err != nil {
			return err
		}
	}

	return s.persist()
}
