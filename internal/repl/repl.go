package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leengari/jumanji/internal/engine"
	"github.com/leengari/jumanji/internal/store"
)

// REPL reads statements line by line and runs them against a database.
type REPL struct {
	db          *engine.Database
	store       *store.Store
	historyFile string
	out         io.Writer
}

// New builds a REPL for db. st may be nil, which disables SAVE and the
// save-on-exit pass.
func New(db *engine.Database, st *store.Store, historyFile string) *REPL {
	return &REPL{
		db:          db,
		store:       st,
		historyFile: historyFile,
		out:         os.Stdout,
	}
}

// Run reads from the terminal until EXIT or EOF, then saves any unsaved
// changes.
func (r *REPL) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "jumanji> ",
		HistoryFile:     r.historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to start line reader: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(r.out, "Jumanji in-memory RDBMS")
	fmt.Fprintln(r.out, "Type HELP for the command list, EXIT to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		stmt, err := Parse(line)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			continue
		}
		if _, ok := stmt.(*ExitStmt); ok {
			fmt.Fprintln(r.out, "Goodbye!")
			break
		}

		res, err := r.Execute(stmt)
		if err != nil {
			fmt.Fprintf(r.out, "Error: %v\n", err)
			continue
		}
		PrintResult(r.out, res)
	}

	if r.store == nil {
		return nil
	}
	return r.store.SaveIfDirty(r.db)
}

// Execute runs one parsed statement and returns a printable result.
func (r *REPL) Execute(stmt Statement) (*Result, error) {
	switch s := stmt.(type) {
	case *CreateTableStmt:
		if err := r.db.CreateTable(s.Schema); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Table %s created", s.Schema.TableName)}, nil

	case *InsertStmt:
		row, err := r.positionalRow(s.Table, s.Values)
		if err != nil {
			return nil, err
		}
		if err := r.db.Insert(s.Table, row); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("1 row inserted into %s", s.Table)}, nil

	case *SelectStmt:
		return r.runSelect(s)

	case *UpdateStmt:
		count, err := r.db.Update(s.Table, s.Where, s.Set)
		if err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("%d row(s) updated", count)}, nil

	case *DeleteStmt:
		count, err := r.db.Delete(s.Table, s.Where)
		if err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("%d row(s) deleted", count)}, nil

	case *DropTableStmt:
		if err := r.db.DropTable(s.Table); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Table %s dropped", s.Table)}, nil

	case *ShowTablesStmt:
		names := r.db.ListTables()
		rows := make([]engine.Row, 0, len(names))
		for _, name := range names {
			rows = append(rows, engine.Row{"table": engine.NewText(name)})
		}
		return &Result{Columns: []string{"table"}, Rows: rows}, nil

	case *DescribeStmt:
		desc, err := r.db.Describe(s.Table)
		if err != nil {
			return nil, err
		}
		rows := make([]engine.Row, 0, len(desc.Columns))
		for _, col := range desc.Columns {
			rows = append(rows, engine.Row{
				"column":      engine.NewText(col.Name),
				"type":        engine.NewText(string(col.Type)),
				"primary_key": engine.NewBool(col.PrimaryKey),
				"unique":      engine.NewBool(col.Unique),
				"not_null":    engine.NewBool(col.NotNull),
			})
		}
		return &Result{
			Columns: []string{"column", "type", "primary_key", "unique", "not_null"},
			Rows:    rows,
		}, nil

	case *SaveStmt:
		if r.store == nil {
			return nil, fmt.Errorf("no database file configured")
		}
		if err := r.store.Save(r.db); err != nil {
			return nil, err
		}
		return &Result{Message: fmt.Sprintf("Database saved to %s", r.store.Path())}, nil

	case *HelpStmt:
		return &Result{Message: helpText}, nil

	case *ExitStmt:
		return &Result{Message: "Goodbye!"}, nil
	}

	return nil, fmt.Errorf("unsupported statement %T", stmt)
}

// positionalRow pairs positional INSERT values with the table's column
// order.
func (r *REPL) positionalRow(table string, values []engine.Value) (engine.Row, error) {
	desc, err := r.db.Describe(table)
	if err != nil {
		return nil, err
	}
	if len(values) != len(desc.Columns) {
		return nil, fmt.Errorf("table %s has %d columns but %d values were given",
			table, len(desc.Columns), len(values))
	}

	row := engine.Row{}
	for i, col := range desc.Columns {
		row[col.Name] = values[i]
	}
	return row, nil
}

func (r *REPL) runSelect(s *SelectStmt) (*Result, error) {
	rows, err := r.db.Select(s.Table, s.Where)
	if err != nil {
		return nil, err
	}

	columns := s.Columns
	if columns == nil {
		desc, err := r.db.Describe(s.Table)
		if err != nil {
			return nil, err
		}
		for _, col := range desc.Columns {
			columns = append(columns, col.Name)
		}
	} else {
		rows, err = engine.Project(rows, columns)
		if err != nil {
			return nil, err
		}
	}

	return &Result{Columns: columns, Rows: rows}, nil
}

const helpText = `Available commands:
  CREATE TABLE <name> (<col> <type> [PRIMARY KEY|UNIQUE|NOT NULL], ...)
      CREATE TABLE users (id INT PRIMARY KEY, name TEXT NOT NULL, email TEXT UNIQUE)
  INSERT INTO <table> VALUES (<value>, ...)
      INSERT INTO users VALUES (1, 'Alice', 'alice@example.com')
  SELECT <columns|*> FROM <table> [WHERE <condition>]
      SELECT name, email FROM users WHERE id > 1
  UPDATE <table> SET <col> = <value>, ... [WHERE <condition>]
      UPDATE users SET name = 'Bob' WHERE id = 2
  DELETE FROM <table> [WHERE <condition>]
      DELETE FROM users WHERE id = 2
  DROP TABLE <table>
  SHOW TABLES
  DESCRIBE <table>
  SAVE               write the database to its file
  HELP               show this message
  EXIT               save unsaved changes and quit

Types: INT, FLOAT, TEXT, BOOL. Conditions compare one column against one
value with =, !=, <, >, <=, >= and may be joined with AND or with OR.`
