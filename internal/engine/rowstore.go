package engine

// RowID is a stable row identifier. IDs are assigned once at insert time and
// never reused within a table, so index entries stay valid across deletes of
// other rows.
type RowID uint64

// rowStore holds a table's rows in insertion order and resolves stable row
// identifiers to their current position. Deleting compacts the dense slices
// and only touches the positions of rows that moved.
type rowStore struct {
	rows []Row
	ids  []RowID
	pos  map[RowID]int
	next RowID
}

func newRowStore() *rowStore {
	return &rowStore{
		pos:  make(map[RowID]int),
		next: 1,
	}
}

func (s *rowStore) len() int {
	return len(s.rows)
}

// append stores a validated row and returns its newly assigned identifier.
func (s *rowStore) append(row Row) RowID {
	id := s.next
	s.next++

	s.pos[id] = len(s.rows)
	s.rows = append(s.rows, row)
	s.ids = append(s.ids, id)
	return id
}

// byID returns the stored row for id. The second result is false when the
// identifier is unknown or already deleted.
func (s *rowStore) byID(id RowID) (Row, bool) {
	p, ok := s.pos[id]
	if !ok {
		return nil, false
	}
	return s.rows[p], true
}

// overwrite replaces the row stored under id in place.
func (s *rowStore) overwrite(id RowID, row Row) bool {
	p, ok := s.pos[id]
	if !ok {
		return false
	}
	s.rows[p] = row
	return true
}

// remove deletes the row stored under id, compacting the slices. Removing an
// unknown identifier is a no-op.
func (s *rowStore) remove(id RowID) bool {
	p, ok := s.pos[id]
	if !ok {
		return false
	}
	delete(s.pos, id)

	// Shift everything after p down one slot and fix the moved positions.
	copy(s.rows[p:], s.rows[p+1:])
	copy(s.ids[p:], s.ids[p+1:])
	s.rows = s.rows[:len(s.rows)-1]
	s.ids = s.ids[:len(s.ids)-1]
	for i := p; i < len(s.ids); i++ {
		s.pos[s.ids[i]] = i
	}
	return true
}

// removeMany deletes a set of rows in one compaction pass, which keeps bulk
// DELETE linear instead of quadratic.
func (s *rowStore) removeMany(ids map[RowID]bool) int {
	if len(ids) == 0 {
		return 0
	}

	removed := 0
	w := 0
	for r := 0; r < len(s.ids); r++ {
		id := s.ids[r]
		if ids[id] {
			delete(s.pos, id)
			removed++
			continue
		}
		s.rows[w] = s.rows[r]
		s.ids[w] = id
		s.pos[id] = w
		w++
	}
	s.rows = s.rows[:w]
	s.ids = s.ids[:w]
	return removed
}

// iterate visits every live row in insertion order. Returning false from fn
// stops the walk early.
func (s *rowStore) iterate(fn func(id RowID, row Row) bool) {
	for i, row := range s.rows {
		if !fn(s.ids[i], row) {
			return
		}
	}
}
