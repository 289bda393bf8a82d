package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leengari/jumanji/internal/engine"
)

// Statement is a parsed REPL command.
type Statement interface{}

type CreateTableStmt struct {
	Schema engine.TableSchema
}

type InsertStmt struct {
	Table  string
	Values []engine.Value // positional, in schema column order
}

type SelectStmt struct {
	Table   string
	Columns []string // nil means *
	Where   engine.Condition
}

type UpdateStmt struct {
	Table string
	Set   engine.Row
	Where engine.Condition
}

type DeleteStmt struct {
	Table string
	Where engine.Condition
}

type DropTableStmt struct {
	Table string
}

type ShowTablesStmt struct{}

type DescribeStmt struct {
	Table string
}

type SaveStmt struct{}

type HelpStmt struct{}

type ExitStmt struct{}

// Parse turns one input line into a statement. Keywords are matched case
// insensitively; table and column names are taken verbatim. A trailing
// semicolon is tolerated but not required.
func Parse(input string) (Statement, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimSuffix(input, ";")
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty statement")
	}

	upper := strings.ToUpper(input)
	switch {
	case upper == "EXIT" || upper == "QUIT":
		return &ExitStmt{}, nil
	case upper == "HELP":
		return &HelpStmt{}, nil
	case upper == "SAVE":
		return &SaveStmt{}, nil
	case upper == "SHOW TABLES":
		return &ShowTablesStmt{}, nil
	case strings.HasPrefix(upper, "DESCRIBE "):
		return parseDescribe(input[len("DESCRIBE"):])
	case strings.HasPrefix(upper, "DESC "):
		return parseDescribe(input[len("DESC"):])
	case strings.HasPrefix(upper, "CREATE TABLE "):
		return parseCreateTable(input)
	case strings.HasPrefix(upper, "INSERT INTO "):
		return parseInsert(input)
	case strings.HasPrefix(upper, "SELECT "):
		return parseSelect(input)
	case strings.HasPrefix(upper, "UPDATE "):
		return parseUpdate(input)
	case strings.HasPrefix(upper, "DELETE FROM "):
		return parseDelete(input)
	case strings.HasPrefix(upper, "DROP TABLE "):
		return parseDrop(input)
	}
	return nil, fmt.Errorf("unrecognized statement %q", firstWord(input))
}

// parseCreateTable handles
//
//	CREATE TABLE users (id INT PRIMARY KEY, name TEXT NOT NULL, email TEXT UNIQUE)
func parseCreateTable(input string) (Statement, error) {
	rest := strings.TrimSpace(input[len("CREATE TABLE"):])

	open := strings.Index(rest, "(")
	if open < 0 || !strings.HasSuffix(rest, ")") {
		return nil, fmt.Errorf("CREATE TABLE needs a parenthesized column list")
	}

	name := strings.TrimSpace(rest[:open])
	if err := checkIdentifier(name); err != nil {
		return nil, err
	}

	schema := engine.TableSchema{TableName: name}
	for _, def := range splitOutsideQuotes(rest[open+1:len(rest)-1], ',') {
		col, err := parseColumnDef(def)
		if err != nil {
			return nil, err
		}
		schema.Columns = append(schema.Columns, col)
	}

	return &CreateTableStmt{Schema: schema}, nil
}

// parseColumnDef handles one "name TYPE [PRIMARY KEY] [UNIQUE] [NOT NULL]".
func parseColumnDef(def string) (engine.Column, error) {
	fields := strings.Fields(def)
	if len(fields) < 2 {
		return engine.Column{}, fmt.Errorf("column definition %q needs a name and a type", strings.TrimSpace(def))
	}

	col := engine.Column{
		Name: fields[0],
		Type: engine.ColumnType(strings.ToUpper(fields[1])),
	}
	if err := checkIdentifier(col.Name); err != nil {
		return engine.Column{}, err
	}

	flags := strings.ToUpper(strings.Join(fields[2:], " "))
	switch {
	case flags == "":
	case flags == "PRIMARY KEY":
		col.PrimaryKey = true
	case flags == "UNIQUE":
		col.Unique = true
	case flags == "NOT NULL":
		col.NotNull = true
	case flags == "UNIQUE NOT NULL" || flags == "NOT NULL UNIQUE":
		col.Unique = true
		col.NotNull = true
	default:
		return engine.Column{}, fmt.Errorf("unknown column constraint %q", flags)
	}

	return col, nil
}

// parseInsert handles
//
//	INSERT INTO users VALUES (1, 'alice', 'a@example.com')
//
// Values are positional, following the schema's column order.
func parseInsert(input string) (Statement, error) {
	rest := strings.TrimSpace(input[len("INSERT INTO"):])

	idx := indexKeyword(rest, "VALUES")
	if idx < 0 {
		return nil, fmt.Errorf("INSERT needs a VALUES clause")
	}

	table := strings.TrimSpace(rest[:idx])
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}

	list := strings.TrimSpace(rest[idx+len("VALUES"):])
	if !strings.HasPrefix(list, "(") || !strings.HasSuffix(list, ")") {
		return nil, fmt.Errorf("VALUES needs a parenthesized list")
	}

	var values []engine.Value
	for _, tok := range splitOutsideQuotes(list[1:len(list)-1], ',') {
		val, err := parseLiteral(tok)
		if err != nil {
			return nil, err
		}
		values = append(values, val)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("VALUES list cannot be empty")
	}

	return &InsertStmt{Table: table, Values: values}, nil
}

// parseSelect handles
//
//	SELECT * FROM users WHERE id > 1
//	SELECT name, email FROM users
func parseSelect(input string) (Statement, error) {
	rest := strings.TrimSpace(input[len("SELECT"):])

	idx := indexKeyword(rest, "FROM")
	if idx < 0 {
		return nil, fmt.Errorf("SELECT needs a FROM clause")
	}

	colPart := strings.TrimSpace(rest[:idx])
	var columns []string
	if colPart != "*" {
		for _, c := range splitOutsideQuotes(colPart, ',') {
			c = strings.TrimSpace(c)
			if err := checkColumnRef(c); err != nil {
				return nil, err
			}
			columns = append(columns, c)
		}
		if len(columns) == 0 {
			return nil, fmt.Errorf("SELECT needs at least one column or *")
		}
	}

	table, where, err := parseTableAndWhere(rest[idx+len("FROM"):])
	if err != nil {
		return nil, err
	}

	return &SelectStmt{Table: table, Columns: columns, Where: where}, nil
}

// parseUpdate handles
//
//	UPDATE users SET name = 'bob', email = NULL WHERE id = 2
func parseUpdate(input string) (Statement, error) {
	rest := strings.TrimSpace(input[len("UPDATE"):])

	setIdx := indexKeyword(rest, "SET")
	if setIdx < 0 {
		return nil, fmt.Errorf("UPDATE needs a SET clause")
	}

	table := strings.TrimSpace(rest[:setIdx])
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}

	assignPart := rest[setIdx+len("SET"):]
	var where engine.Condition
	if whereIdx := indexKeyword(assignPart, "WHERE"); whereIdx >= 0 {
		cond, err := parseCondition(assignPart[whereIdx+len("WHERE"):])
		if err != nil {
			return nil, err
		}
		where = cond
		assignPart = assignPart[:whereIdx]
	}

	set := engine.Row{}
	for _, assign := range splitOutsideQuotes(assignPart, ',') {
		eq := indexOutsideQuotes(assign, '=')
		if eq < 0 {
			return nil, fmt.Errorf("assignment %q needs the form column = value", strings.TrimSpace(assign))
		}
		col := strings.TrimSpace(assign[:eq])
		if err := checkIdentifier(col); err != nil {
			return nil, err
		}
		val, err := parseLiteral(assign[eq+1:])
		if err != nil {
			return nil, err
		}
		set[col] = val
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("SET clause cannot be empty")
	}

	return &UpdateStmt{Table: table, Set: set, Where: where}, nil
}

// parseDelete handles
//
//	DELETE FROM users WHERE id = 2
func parseDelete(input string) (Statement, error) {
	table, where, err := parseTableAndWhere(input[len("DELETE FROM"):])
	if err != nil {
		return nil, err
	}
	return &DeleteStmt{Table: table, Where: where}, nil
}

func parseDrop(input string) (Statement, error) {
	table := strings.TrimSpace(input[len("DROP TABLE"):])
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}
	return &DropTableStmt{Table: table}, nil
}

func parseDescribe(rest string) (Statement, error) {
	table := strings.TrimSpace(rest)
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}
	return &DescribeStmt{Table: table}, nil
}

// parseTableAndWhere splits "table [WHERE condition]".
func parseTableAndWhere(rest string) (string, engine.Condition, error) {
	rest = strings.TrimSpace(rest)

	var where engine.Condition
	if idx := indexKeyword(rest, "WHERE"); idx >= 0 {
		cond, err := parseCondition(rest[idx+len("WHERE"):])
		if err != nil {
			return "", nil, err
		}
		where = cond
		rest = strings.TrimSpace(rest[:idx])
	}

	if err := checkIdentifier(rest); err != nil {
		return "", nil, err
	}
	return rest, where, nil
}

// parseCondition parses a WHERE clause: comparisons joined entirely by AND
// or entirely by OR. Mixing the two or nesting with parentheses is not part
// of the command language.
func parseCondition(s string) (engine.Condition, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("WHERE clause cannot be empty")
	}

	if parts := splitKeyword(s, "AND"); len(parts) > 1 {
		if containsKeyword(s, "OR") {
			return nil, fmt.Errorf("WHERE cannot mix AND with OR")
		}
		conds, err := parseComparisons(parts)
		if err != nil {
			return nil, err
		}
		return &engine.And{Conditions: conds}, nil
	}

	if parts := splitKeyword(s, "OR"); len(parts) > 1 {
		conds, err := parseComparisons(parts)
		if err != nil {
			return nil, err
		}
		return &engine.Or{Conditions: conds}, nil
	}

	return parseComparison(s)
}

func parseComparisons(parts []string) ([]engine.Condition, error) {
	conds := make([]engine.Condition, 0, len(parts))
	for _, part := range parts {
		cond, err := parseComparison(part)
		if err != nil {
			return nil, err
		}
		conds = append(conds, cond)
	}
	return conds, nil
}

// compareOps is ordered so two-character operators match before their
// one-character prefixes.
var compareOps = []engine.CompareOp{
	engine.OpLe, engine.OpGe, engine.OpNe, engine.OpEq, engine.OpLt, engine.OpGt,
}

// parseComparison parses one "column OP literal".
func parseComparison(s string) (engine.Condition, error) {
	s = strings.TrimSpace(s)

	for _, op := range compareOps {
		idx := indexStrOutsideQuotes(s, string(op))
		if idx < 0 {
			continue
		}

		col := strings.TrimSpace(s[:idx])
		if err := checkColumnRef(col); err != nil {
			return nil, err
		}
		val, err := parseLiteral(s[idx+len(op):])
		if err != nil {
			return nil, err
		}
		return &engine.Compare{Column: col, Op: op, Value: val}, nil
	}

	return nil, fmt.Errorf("comparison %q needs the form column OP value", s)
}

// parseLiteral converts one token: 'quoted' text, TRUE/FALSE, NULL, or a
// number. Integer-looking numbers become INT, the rest FLOAT. A doubled
// quote inside text stands for a literal quote.
func parseLiteral(tok string) (engine.Value, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return engine.Null, fmt.Errorf("missing value")
	}

	if tok[0] == '\'' {
		if len(tok) < 2 || tok[len(tok)-1] != '\'' {
			return engine.Null, fmt.Errorf("unterminated string %s", tok)
		}
		return engine.NewText(strings.ReplaceAll(tok[1:len(tok)-1], "''", "'")), nil
	}

	switch strings.ToUpper(tok) {
	case "TRUE":
		return engine.NewBool(true), nil
	case "FALSE":
		return engine.NewBool(false), nil
	case "NULL":
		return engine.Null, nil
	}

	if i, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return engine.NewInt(i), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return engine.NewFloat(f), nil
	}

	return engine.Null, fmt.Errorf("cannot parse value %q", tok)
}

// splitOutsideQuotes splits s on sep, ignoring separators inside single
// quotes. Empty pieces are dropped.
func splitOutsideQuotes(s string, sep byte) []string {
	var parts []string
	inQuote := false
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case sep:
			if !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])

	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// indexOutsideQuotes returns the position of the first unquoted occurrence
// of c, or -1.
func indexOutsideQuotes(s string, c byte) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\'':
			inQuote = !inQuote
		case s[i] == c && !inQuote:
			return i
		}
	}
	return -1
}

// indexStrOutsideQuotes returns the position of the first unquoted
// occurrence of sub, or -1.
func indexStrOutsideQuotes(s, sub string) int {
	inQuote := false
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i] == '\'' {
			inQuote = !inQuote
			continue
		}
		if !inQuote && s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

// indexKeyword finds a whole-word, case-insensitive, unquoted keyword and
// returns its byte position, or -1.
func indexKeyword(s, keyword string) int {
	upper := strings.ToUpper(s)
	keyword = strings.ToUpper(keyword)
	inQuote := false

	for i := 0; i+len(keyword) <= len(s); i++ {
		if s[i] == '\'' {
			inQuote = !inQuote
			continue
		}
		if inQuote || upper[i:i+len(keyword)] != keyword {
			continue
		}
		beforeOK := i == 0 || upper[i-1] == ' ' || upper[i-1] == ')'
		afterEnd := i + len(keyword)
		afterOK := afterEnd == len(s) || upper[afterEnd] == ' ' || upper[afterEnd] == '('
		if beforeOK && afterOK {
			return i
		}
	}
	return -1
}

func containsKeyword(s, keyword string) bool {
	return indexKeyword(s, keyword) >= 0
}

// splitKeyword splits s on every unquoted whole-word occurrence of keyword.
func splitKeyword(s, keyword string) []string {
	var parts []string
	for {
		idx := indexKeyword(s, keyword)
		if idx < 0 {
			parts = append(parts, s)
			return parts
		}
		parts = append(parts, s[:idx])
		s = s[idx+len(keyword):]
	}
}

func checkIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("missing identifier")
	}
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

// checkColumnRef allows plain identifiers plus the dotted "table.column"
// form that join output carries.
func checkColumnRef(name string) error {
	if name == "" {
		return fmt.Errorf("missing column name")
	}
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return fmt.Errorf("invalid column reference %q", name)
	}
	for _, p := range parts {
		if err := checkIdentifier(p); err != nil {
			return fmt.Errorf("invalid column reference %q", name)
		}
	}
	return nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return s
	}
	return fields[0]
}
