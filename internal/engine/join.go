package engine

import "fmt"

// JoinStrategy selects how an inner join is executed. The two strategies
// produce identical output for any pair of tables; the seam exists so tests
// and callers can pin one down.
type JoinStrategy string

const (
	StrategyAuto        JoinStrategy = "auto"
	StrategyNestedLoop  JoinStrategy = "nested_loop"
	StrategyIndexLookup JoinStrategy = "index_lookup"
)

// innerJoin equi-joins left.leftCol against right.rightCol and returns one
// combined row per matching pair. Output follows the left table's insertion
// order. NULL join cells match nothing, other NULLs included.
func innerJoin(left *Table, leftCol string, right *Table, rightCol string, strategy JoinStrategy) ([]Row, error) {
	if left.Schema.Column(leftCol) == nil {
		return nil, &ColumnNotFoundError{TableName: left.Name, ColumnName: leftCol}
	}
	if right.Schema.Column(rightCol) == nil {
		return nil, &ColumnNotFoundError{TableName: right.Name, ColumnName: rightCol}
	}

	unlock := lockForJoin(left, right)
	defer unlock()

	switch strategy {
	case StrategyAuto:
		strategy = pickJoinStrategy(left, leftCol, right, rightCol)
	case StrategyNestedLoop:
	case StrategyIndexLookup:
		if !indexJoinable(left, leftCol, right, rightCol) {
			return nil, fmt.Errorf("index lookup join needs a unique index on %s.%s and matching column types",
				right.Name, rightCol)
		}
	default:
		return nil, fmt.Errorf("unknown join strategy %q", strategy)
	}

	if strategy == StrategyIndexLookup {
		return indexLookupJoin(left, leftCol, right, rightCol), nil
	}
	return nestedLoopJoin(left, leftCol, right, rightCol), nil
}

// lockForJoin read-locks both tables in name order so two concurrent joins
// over the same pair cannot deadlock. A self join takes a single lock.
func lockForJoin(left, right *Table) func() {
	if left == right {
		left.RLock()
		return left.RUnlock
	}

	first, second := left, right
	if second.Name < first.Name {
		first, second = second, first
	}
	first.RLock()
	second.RLock()
	return func() {
		second.RUnlock()
		first.RUnlock()
	}
}

// indexJoinable reports whether the index-lookup strategy can serve a join:
// the right column needs a unique index, and the two columns must share a
// type so that probing by map key finds exactly the rows a scan with the
// engine's equality rules would. Mixed INT/FLOAT joins always take the
// nested loop.
func indexJoinable(left *Table, leftCol string, right *Table, rightCol string) bool {
	idx, ok := right.Indexes[rightCol]
	if !ok || !idx.Unique {
		return false
	}
	return left.Schema.Column(leftCol).Type == right.Schema.Column(rightCol).Type
}

func pickJoinStrategy(left *Table, leftCol string, right *Table, rightCol string) JoinStrategy {
	if indexJoinable(left, leftCol, right, rightCol) {
		return StrategyIndexLookup
	}
	return StrategyNestedLoop
}

// nestedLoopJoin compares every left/right pair.
// Runs under the locks taken by innerJoin.
func nestedLoopJoin(left *Table, leftCol string, right *Table, rightCol string) []Row {
	var results []Row
	left.store.iterate(func(_ RowID, lrow Row) bool {
		lval := lrow[leftCol]
		if lval.IsNull() {
			return true
		}
		right.store.iterate(func(_ RowID, rrow Row) bool {
			if compareValues(lval, OpEq, rrow[rightCol]) {
				results = append(results, combineRows(left.Name, lrow, right.Name, rrow))
			}
			return true
		})
		return true
	})
	return results
}

// indexLookupJoin probes the right table's index once per left row.
// Runs under the locks taken by innerJoin.
func indexLookupJoin(left *Table, leftCol string, right *Table, rightCol string) []Row {
	idx := right.Indexes[rightCol]

	var results []Row
	left.store.iterate(func(_ RowID, lrow Row) bool {
		lval := lrow[leftCol]
		if lval.IsNull() {
			return true
		}
		for _, id := range idx.lookup(lval) {
			rrow, ok := right.store.byID(id)
			if !ok {
				continue
			}
			results = append(results, combineRows(left.Name, lrow, right.Name, rrow))
		}
		return true
	})
	return results
}

// combineRows merges a matched pair into one output row, qualifying every
// key as "table.column" so the two sides cannot collide.
func combineRows(leftTable string, leftRow Row, rightTable string, rightRow Row) Row {
	combined := make(Row, len(leftRow)+len(rightRow))
	for col, val := range leftRow {
		combined[leftTable+"."+col] = val
	}
	for col, val := range rightRow {
		combined[rightTable+"."+col] = val
	}
	return combined
}
