// Package testutil provides catalog and statistics builders shared by
// tests.
package testutil

import (
	"github.com/hpx7/splitplan/catalog"
	"github.com/hpx7/splitplan/predicate"
)

// IntStats builds integer column statistics with bounds.
func IntStats(min, max, nullCount int64) predicate.Stats {
	return predicate.Stats{
		Min:       predicate.Int64(min),
		Max:       predicate.Int64(max),
		HasBounds: true,
		NullCount: nullCount,
	}
}

// FloatStats builds floating-point column statistics with bounds.
func FloatStats(min, max float64, nullCount int64) predicate.Stats {
	return predicate.Stats{
		Min:       predicate.Float64(min),
		Max:       predicate.Float64(max),
		HasBounds: true,
		NullCount: nullCount,
	}
}

// StringStats builds string column statistics with bounds.
func StringStats(min, max string, nullCount int64) predicate.Stats {
	return predicate.Stats{
		Min:       predicate.String(min),
		Max:       predicate.String(max),
		HasBounds: true,
		NullCount: nullCount,
	}
}

// AllNullStats builds statistics for a chunk with no recorded bounds and
// the given null count.
func AllNullStats(nullCount int64) predicate.Stats {
	return predicate.Stats{NullCount: nullCount}
}

// Block builds a catalog block. Ordinals are assigned by catalog.New.
func Block(path string, offset, size, rows int64, columns map[string]predicate.Stats) catalog.Block {
	return catalog.Block{
		Path:           path,
		Offset:         offset,
		CompressedSize: size,
		RowCount:       rows,
		Columns:        columns,
	}
}
