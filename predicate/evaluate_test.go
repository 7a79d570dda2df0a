package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundCanExclude(t *testing.T) {
	bounded := Stats{Min: Int64(10), Max: Int64(100), HasBounds: true}
	withNulls := Stats{Min: Int64(10), Max: Int64(100), HasBounds: true, NullCount: 5}
	single := Stats{Min: Int64(7), Max: Int64(7), HasBounds: true}
	allNull := Stats{NullCount: 50}
	noBounds := Stats{} // stats present but no min/max recorded

	const rows = 50

	tests := []struct {
		name   string
		pred   Predicate
		stats  Stats
		expect bool
	}{
		// eq: exclude when operand falls outside [min, max]
		{"eq_below_min", Eq("c", Int64(5)), bounded, true},
		{"eq_above_max", Eq("c", Int64(150)), bounded, true},
		{"eq_at_min", Eq("c", Int64(10)), bounded, false},
		{"eq_inside", Eq("c", Int64(50)), bounded, false},

		// ne: exclude only a single-valued, null-free block
		{"ne_single_value", Ne("c", Int64(7)), single, true},
		{"ne_single_other_value", Ne("c", Int64(8)), single, false},
		{"ne_range", Ne("c", Int64(50)), bounded, false},
		{"ne_single_with_nulls", Ne("c", Int64(7)), Stats{Min: Int64(7), Max: Int64(7), HasBounds: true, NullCount: 1}, false},

		// ordered comparisons against the bounds
		{"lt_at_min", Lt("c", Int64(10)), bounded, true},
		{"lt_above_min", Lt("c", Int64(11)), bounded, false},
		{"le_below_min", Le("c", Int64(9)), bounded, true},
		{"le_at_min", Le("c", Int64(10)), bounded, false},
		{"gt_at_max", Gt("c", Int64(100)), bounded, true},
		{"gt_below_max", Gt("c", Int64(99)), bounded, false},
		{"ge_above_max", Ge("c", Int64(101)), bounded, true},
		{"ge_at_max", Ge("c", Int64(100)), bounded, false},

		// cross-kind operands compare numerically
		{"gt_float_operand", Gt("c", Float64(99.5)), bounded, false},
		{"gt_float_operand_above", Gt("c", Float64(100.0)), bounded, true},

		// null handling
		{"is_null_no_nulls", IsNull("c"), bounded, true},
		{"is_null_with_nulls", IsNull("c"), withNulls, false},
		{"not_null_mixed", NotNull("c"), withNulls, false},
		{"not_null_all_null", NotNull("c"), allNull, true},
		{"eq_all_null_chunk", Eq("c", Int64(50)), allNull, true},
		{"lt_all_null_chunk", Lt("c", Int64(50)), allNull, true},

		// missing bounds without proof of all-null: cannot exclude
		{"eq_no_bounds", Eq("c", Int64(50)), noBounds, false},
		{"gt_no_bounds", Gt("c", Int64(50)), noBounds, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bound, ok := Translate(tt.pred, Schema{"c": KindInt})
			assert.True(t, ok)
			assert.Equal(t, tt.expect, bound.CanExclude(tt.stats, rows))
		})
	}
}

func TestBoundCanExcludeEmptyBlock(t *testing.T) {
	bound, ok := Translate(Eq("c", Int64(1)), Schema{"c": KindInt})
	assert.True(t, ok)
	assert.True(t, bound.CanExclude(Stats{}, 0), "an empty block matches nothing")
}
