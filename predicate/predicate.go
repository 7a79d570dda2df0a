package predicate

import "fmt"

// Kind identifies the type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a typed scalar constant. The zero value is null.
//
// Value is deliberately flat (no slices, no pointers) so that Value, and
// any Predicate built from it, is comparable and hashable.
type Value struct {
	Kind Kind    `json:"kind"`
	I64  int64   `json:"i64,omitempty"`
	F64  float64 `json:"f64,omitempty"`
	Str  string  `json:"str,omitempty"`
	B    bool    `json:"b,omitempty"`
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Int64 returns an integer value.
func Int64(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float64 returns a floating-point value.
func Float64(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string value.
func String(v string) Value { return Value{Kind: KindString, Str: v} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.Kind == KindNull }

func (v Value) isNumeric() bool { return v.Kind == KindInt || v.Kind == KindFloat }

func (v Value) asFloat64() float64 {
	if v.Kind == KindInt {
		return float64(v.I64)
	}
	return v.F64
}

// GoString returns a readable representation, mainly for logs and tests.
func (v Value) GoString() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.B)
	case KindInt:
		return fmt.Sprintf("%d", v.I64)
	case KindFloat:
		return fmt.Sprintf("%g", v.F64)
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	default:
		return "invalid"
	}
}

// Compare orders a relative to b. It returns -1, 0 or +1, and false when
// the two kinds have no defined ordering (null operands, bool operands,
// or string vs numeric).
func Compare(a, b Value) (int, bool) {
	if a.IsNull() || b.IsNull() {
		return 0, false
	}

	if a.isNumeric() && b.isNumeric() {
		// Exact integer compare when both sides are ints.
		if a.Kind == KindInt && b.Kind == KindInt {
			switch {
			case a.I64 < b.I64:
				return -1, true
			case a.I64 > b.I64:
				return 1, true
			default:
				return 0, true
			}
		}
		af, bf := a.asFloat64(), b.asFloat64()
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}

	if a.Kind == KindString && b.Kind == KindString {
		switch {
		case a.Str < b.Str:
			return -1, true
		case a.Str > b.Str:
			return 1, true
		default:
			return 0, true
		}
	}

	return 0, false
}

// Equal reports whether a and b are equal under comparison semantics
// (int 3 equals float 3.0). Null never equals anything, including null.
func Equal(a, b Value) bool {
	if a.Kind == KindBool && b.Kind == KindBool {
		return a.B == b.B
	}
	c, ok := Compare(a, b)
	return ok && c == 0
}

// Operator is a pushdown comparison operator.
type Operator uint8

const (
	OpEq Operator = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpIsNull
	OpNotNull
)

// String returns the operator symbol.
func (op Operator) String() string {
	switch op {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpIsNull:
		return "IS NULL"
	case OpNotNull:
		return "IS NOT NULL"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// Predicate is one pushdown filter over a single column.
//
// Predicate is comparable, so it serves directly as the bitmap cache key:
// two predicates with the same column, operator and value are the same
// cache entry.
type Predicate struct {
	Column string
	Op     Operator
	Value  Value
}

// Eq builds column = v.
func Eq(column string, v Value) Predicate { return Predicate{Column: column, Op: OpEq, Value: v} }

// Ne builds column != v.
func Ne(column string, v Value) Predicate { return Predicate{Column: column, Op: OpNe, Value: v} }

// Lt builds column < v.
func Lt(column string, v Value) Predicate { return Predicate{Column: column, Op: OpLt, Value: v} }

// Le builds column <= v.
func Le(column string, v Value) Predicate { return Predicate{Column: column, Op: OpLe, Value: v} }

// Gt builds column > v.
func Gt(column string, v Value) Predicate { return Predicate{Column: column, Op: OpGt, Value: v} }

// Ge builds column >= v.
func Ge(column string, v Value) Predicate { return Predicate{Column: column, Op: OpGe, Value: v} }

// IsNull builds column IS NULL.
func IsNull(column string) Predicate { return Predicate{Column: column, Op: OpIsNull} }

// NotNull builds column IS NOT NULL.
func NotNull(column string) Predicate { return Predicate{Column: column, Op: OpNotNull} }

// String returns a readable representation, mainly for logs.
func (p Predicate) String() string {
	switch p.Op {
	case OpIsNull, OpNotNull:
		return fmt.Sprintf("%s %s", p.Column, p.Op)
	default:
		return fmt.Sprintf("%s %s %s", p.Column, p.Op, p.Value.GoString())
	}
}
