package engine

type ColumnType string

const (
	ColumnTypeInt   ColumnType = "INT"
	ColumnTypeFloat ColumnType = "FLOAT"
	ColumnTypeText  ColumnType = "TEXT"
	ColumnTypeBool  ColumnType = "BOOL"
)

// Valid reports whether t is a declarable column type.
func (t ColumnType) Valid() bool {
	switch t {
	case ColumnTypeInt, ColumnTypeFloat, ColumnTypeText, ColumnTypeBool:
		return true
	}
	return false
}

type Column struct {
	Name       string     `json:"name"`
	Type       ColumnType `json:"type"`
	PrimaryKey bool       `json:"primary_key"`
	Unique     bool       `json:"unique"`
	NotNull    bool       `json:"not_null"`
}

// Indexed reports whether the column carries a unique hash index.
// Primary keys are always indexed.
func (c *Column) Indexed() bool {
	return c.PrimaryKey || c.Unique
}

// Required reports whether a row must hold a non-null value for the column.
// Primary keys are implicitly NOT NULL.
func (c *Column) Required() bool {
	return c.PrimaryKey || c.NotNull
}
