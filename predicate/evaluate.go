package predicate

// Stats holds the statistics of one column within one block: value bounds
// and null count. HasBounds is false when the writer recorded no min/max
// for the chunk (typically an all-null chunk, but possibly just missing
// statistics).
type Stats struct {
	Min       Value `json:"min"`
	Max       Value `json:"max"`
	HasBounds bool  `json:"has_bounds"`
	NullCount int64 `json:"null_count"`
}

// allNull reports whether the chunk provably contains only nulls.
func (st Stats) allNull(rowCount int64) bool {
	return rowCount > 0 && st.NullCount == rowCount
}

// CanExclude reports whether the block holding these column statistics
// provably contains no row matching the bound predicate. rowCount is the
// block's total row count.
//
// The decision is conservative in both directions of uncertainty: any
// case the statistics cannot settle returns false, so the block is read.
func (b Bound) CanExclude(st Stats, rowCount int64) bool {
	if rowCount == 0 {
		// An empty block matches nothing.
		return true
	}

	switch b.Op {
	case OpIsNull:
		return st.NullCount == 0
	case OpNotNull:
		return st.allNull(rowCount)
	}

	// Comparisons never match null, so a provably all-null chunk cannot
	// contain a matching row regardless of the operand.
	if st.allNull(rowCount) {
		return true
	}
	if !st.HasBounds {
		return false
	}

	cmpMin, okMin := Compare(b.Value, st.Min)
	cmpMax, okMax := Compare(b.Value, st.Max)

	switch b.Op {
	case OpEq:
		return okMin && okMax && (cmpMin < 0 || cmpMax > 0)
	case OpNe:
		// Only excludable when every value in the block equals the
		// operand and no nulls dilute it.
		minEqMax, ok := Compare(st.Min, st.Max)
		if !ok || minEqMax != 0 {
			return false
		}
		return okMin && cmpMin == 0 && st.NullCount == 0
	case OpLt:
		// No value < v when min >= v.
		return okMin && cmpMin <= 0
	case OpLe:
		// No value <= v when min > v.
		return okMin && cmpMin < 0
	case OpGt:
		// No value > v when max <= v.
		return okMax && cmpMax >= 0
	case OpGe:
		// No value >= v when max < v.
		return okMax && cmpMax > 0
	default:
		return false
	}
}
