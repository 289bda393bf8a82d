package engine

// Index is an in-memory hash index on a single column.
// Entries map cell values to stable row identifiers, so they survive the
// positional shifts a delete causes. NULL cells are never indexed.
type Index struct {
	Column string
	Data   map[Value][]RowID // value → row identifiers
	Unique bool
}

func newIndex(column string, unique bool) *Index {
	return &Index{
		Column: column,
		Data:   make(map[Value][]RowID),
		Unique: unique,
	}
}

func (ix *Index) add(val Value, id RowID) {
	if val.IsNull() {
		return
	}
	ix.Data[val] = append(ix.Data[val], id)
}

func (ix *Index) remove(val Value, id RowID) {
	if val.IsNull() {
		return
	}
	ids := ix.Data[val]
	for i, existing := range ids {
		if existing == id {
			ids = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(ix.Data, val)
		return
	}
	ix.Data[val] = ids
}

// lookup returns the identifiers of all rows whose indexed cell equals val.
func (ix *Index) lookup(val Value) []RowID {
	if val.IsNull() {
		return nil
	}
	return ix.Data[val]
}

// lookupOne returns the single matching row identifier for a unique index.
func (ix *Index) lookupOne(val Value) (RowID, bool) {
	ids := ix.lookup(val)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// indexKey coerces a probe value to the canonical key form for a column of
// colType. Only lossless conversions apply: a fractional FLOAT probing an INT
// index is returned unchanged and simply misses, which matches what a full
// scan with numeric comparison would find.
func indexKey(colType ColumnType, val Value) Value {
	switch colType {
	case ColumnTypeInt:
		if val.Type == ColumnTypeFloat && val.Float == float64(int64(val.Float)) {
			return NewInt(int64(val.Float))
		}
	case ColumnTypeFloat:
		if val.Type == ColumnTypeInt {
			return NewFloat(float64(val.Int))
		}
	}
	return val
}
