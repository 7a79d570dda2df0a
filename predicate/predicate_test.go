package predicate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Value
		expect int
		ok     bool
	}{
		{"int_lt", Int64(1), Int64(2), -1, true},
		{"int_gt", Int64(3), Int64(2), 1, true},
		{"int_eq", Int64(2), Int64(2), 0, true},
		{"int_vs_float", Int64(2), Float64(2.5), -1, true},
		{"float_vs_int", Float64(3.5), Int64(3), 1, true},
		{"float_eq_int", Float64(3), Int64(3), 0, true},
		{"string_lt", String("a"), String("b"), -1, true},
		{"string_eq", String("a"), String("a"), 0, true},
		{"null_left", Null(), Int64(1), 0, false},
		{"null_right", Int64(1), Null(), 0, false},
		{"bool_unordered", Bool(true), Bool(false), 0, false},
		{"string_vs_int", String("1"), Int64(1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compare(tt.a, tt.b)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expect, got)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int64(3), Float64(3)))
	assert.True(t, Equal(Bool(true), Bool(true)))
	assert.False(t, Equal(Bool(true), Bool(false)))
	assert.False(t, Equal(Null(), Null()), "null never equals null")
	assert.False(t, Equal(String("x"), Int64(1)))
}

func TestPredicateIsComparable(t *testing.T) {
	// Predicates key the bitmap cache, so identical predicates must be
	// identical map keys.
	m := map[Predicate]int{}
	m[Gt("price", Int64(100))] = 1
	m[Gt("price", Int64(100))] = 2
	m[Gt("price", Int64(101))] = 3

	assert.Len(t, m, 2)
	assert.Equal(t, 2, m[Gt("price", Int64(100))])
}

func TestPredicateString(t *testing.T) {
	assert.Equal(t, `price > 100`, Gt("price", Int64(100)).String())
	assert.Equal(t, `name IS NULL`, IsNull("name").String())
	assert.Equal(t, `name = "bob"`, Eq("name", String("bob")).String())
}
