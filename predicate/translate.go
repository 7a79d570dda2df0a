package predicate

import "math"

// Schema maps column names to their value kinds.
type Schema map[string]Kind

// Bound is a predicate that has been bound to a schema and is known to be
// checkable against column statistics.
type Bound struct {
	Column string
	Op     Operator
	Value  Value
}

// Translate binds p to the schema. It returns false when the predicate
// cannot be turned into a statistics-level check: unknown column, operand
// kinds with no ordering (bool ranges, string vs numeric), a null operand
// on a comparison, or a NaN operand. Untranslatable predicates are simply
// ignored by statistics filtering; they are never an error.
func Translate(p Predicate, s Schema) (Bound, bool) {
	kind, ok := s[p.Column]
	if !ok {
		return Bound{}, false
	}

	switch p.Op {
	case OpIsNull, OpNotNull:
		return Bound{Column: p.Column, Op: p.Op}, true
	case OpEq, OpNe:
		if !comparableKinds(kind, p.Value.Kind, false) {
			return Bound{}, false
		}
	case OpLt, OpLe, OpGt, OpGe:
		if !comparableKinds(kind, p.Value.Kind, true) {
			return Bound{}, false
		}
	default:
		return Bound{}, false
	}

	if p.Value.Kind == KindFloat && math.IsNaN(p.Value.F64) {
		return Bound{}, false
	}

	return Bound{Column: p.Column, Op: p.Op, Value: p.Value}, true
}

// comparableKinds reports whether a column of kind ck can be checked
// against a constant of kind vk. Ordered comparisons additionally exclude
// booleans.
func comparableKinds(ck, vk Kind, ordered bool) bool {
	numeric := func(k Kind) bool { return k == KindInt || k == KindFloat }

	switch {
	case numeric(ck) && numeric(vk):
		return true
	case ck == KindString && vk == KindString:
		return true
	case ck == KindBool && vk == KindBool:
		return !ordered
	default:
		return false
	}
}
