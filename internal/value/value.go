package value

import (
	"fmt"

	"github.com/careweather/oneil/internal/number"
	"github.com/careweather/oneil/internal/ounit"
)

// Kind tags which variant of the Value lattice a Value holds.
type Kind int

const (
	KindBoolean Kind = iota
	KindString
	KindNumber
	KindMeasured
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindMeasured:
		return "measured number"
	default:
		return "unknown"
	}
}

// Value is the tagged union {Boolean, String, Number, MeasuredNumber}
// from spec section 3/4.4.
type Value struct {
	kind     Kind
	boolean  bool
	str      string
	num      number.Number
	measured Measured
}

func Boolean(b bool) Value    { return Value{kind: KindBoolean, boolean: b} }
func String(s string) Value   { return Value{kind: KindString, str: s} }
func Num(n number.Number) Value { return Value{kind: KindNumber, num: n} }
func MeasuredValue(m Measured) Value { return Value{kind: KindMeasured, measured: m} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) AsBoolean() (bool, bool) {
	return v.boolean, v.kind == KindBoolean
}

func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) AsNumber() (number.Number, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) AsMeasured() (Measured, bool) {
	return v.measured, v.kind == KindMeasured
}

// normalizedNumber returns v's numeric content as a dimensionless
// Measured if v is a Number, or the Measured itself if v already is
// one. Used to implement the "units don't matter when either side is
// an unmeasured number" comparison rule from value_impl.rs.
func (v Value) normalizedNumber() (Measured, bool) {
	switch v.kind {
	case KindNumber:
		return Dimensionless(v.num), true
	case KindMeasured:
		return v.measured, true
	default:
		return Measured{}, false
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBoolean:
		return fmt.Sprintf("<%t>", v.boolean)
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindNumber:
		return fmt.Sprintf("<%s>", v.num)
	case KindMeasured:
		return fmt.Sprintf("<%s>", v.measured)
	default:
		return "<invalid>"
	}
}

// TypeMismatchError reports a binary operation between incompatible
// value kinds. Unequal units on numeric operands are reported by
// UnitMismatchError instead.
type TypeMismatchError struct {
	Op       string
	LhsKind  Kind
	RhsKind  Kind
	LhsUnit  *ounit.Composite
	RhsUnit  *ounit.Composite
}

func (e *TypeMismatchError) Error() string {
	lhs := e.LhsKind.String()
	if e.LhsUnit != nil {
		lhs = fmt.Sprintf("%s (%s)", lhs, e.LhsUnit)
	}
	rhs := e.RhsKind.String()
	if e.RhsUnit != nil {
		rhs = fmt.Sprintf("%s (%s)", rhs, e.RhsUnit)
	}
	return fmt.Sprintf("type mismatch in %q: %s vs %s", e.Op, lhs, rhs)
}

// InvalidOperationError reports an operator applied to a value kind
// that never supports it, independent of the other operand.
type InvalidOperationError struct {
	Op   string
	Kind Kind
}

func (e *InvalidOperationError) Error() string {
	return fmt.Sprintf("%q is not a valid operation on a %s", e.Op, e.Kind)
}

// CheckedEq compares two values for equality. Booleans and strings
// compare directly; numbers compare ignoring units when either operand
// is unmeasured.
func (v Value) CheckedEq(rhs Value) (bool, error) {
	switch {
	case v.kind == KindBoolean && rhs.kind == KindBoolean:
		return v.boolean == rhs.boolean, nil
	case v.kind == KindString && rhs.kind == KindString:
		return v.str == rhs.str, nil
	case (v.kind == KindNumber || v.kind == KindMeasured) && (rhs.kind == KindNumber || rhs.kind == KindMeasured):
		lm, _ := v.normalizedNumber()
		rm, _ := rhs.normalizedNumber()
		if v.kind == KindNumber || rhs.kind == KindNumber {
			return lm.Num.Equal(rm.Num), nil
		}
		ord, err := lm.CheckedPartialCmp(rm)
		if err != nil {
			return false, err
		}
		return ord == number.OrderEqual, nil
	default:
		return false, &TypeMismatchError{Op: "==", LhsKind: v.kind, RhsKind: rhs.kind}
	}
}

// CheckedNe is the negation of CheckedEq.
func (v Value) CheckedNe(rhs Value) (bool, error) {
	eq, err := v.CheckedEq(rhs)
	return !eq, err
}

// ComparePartial computes the partial order between two numeric
// values (Number or Measured), for callers that need to distinguish
// an Undefined ordering from a definite one — notably chained
// comparison evaluation, which must raise UndefinedComparison rather
// than silently treating an incomparable pair as false.
func (v Value) ComparePartial(rhs Value) (number.Ordering, error) {
	lm, lok := v.normalizedNumber()
	if !lok {
		return 0, &InvalidOperationError{Op: "compare", Kind: v.kind}
	}
	rm, rok := rhs.normalizedNumber()
	if !rok {
		return 0, &TypeMismatchError{Op: "compare", LhsKind: v.kind, RhsKind: rhs.kind}
	}
	if v.kind == KindNumber || rhs.kind == KindNumber {
		return lm.Num.Compare(rm.Num), nil
	}
	return lm.CheckedPartialCmp(rm)
}

func (v Value) checkedCompare(rhs Value, op string, want func(number.Ordering) bool) (bool, error) {
	ord, err := v.ComparePartial(rhs)
	if err != nil {
		return false, err
	}
	return want(ord), nil
}

func (v Value) CheckedLt(rhs Value) (bool, error) {
	return v.checkedCompare(rhs, "<", func(o number.Ordering) bool { return o == number.OrderLess })
}

func (v Value) CheckedLte(rhs Value) (bool, error) {
	return v.checkedCompare(rhs, "<=", func(o number.Ordering) bool {
		return o == number.OrderLess || o == number.OrderEqual
	})
}

func (v Value) CheckedGt(rhs Value) (bool, error) {
	return v.checkedCompare(rhs, ">", func(o number.Ordering) bool { return o == number.OrderGreater })
}

func (v Value) CheckedGte(rhs Value) (bool, error) {
	return v.checkedCompare(rhs, ">=", func(o number.Ordering) bool {
		return o == number.OrderGreater || o == number.OrderEqual
	})
}

// binaryNumeric implements the common coercion pattern for +, -, --,
// *, /, //, % : Number+Number stays a Number; mixing Number and
// Measured coerces the Number operand (to the other's unit for
// additive ops, to dimensionless for multiplicative ops); anything
// else is a type error.
func binaryNumeric(
	op string,
	v, rhs Value,
	numFn func(a, b number.Number) number.Number,
	measuredFn func(a, b Measured) (Measured, error),
	additive bool,
) (Value, error) {
	switch {
	case v.kind == KindNumber && rhs.kind == KindNumber:
		return Num(numFn(v.num, rhs.num)), nil
	case v.kind == KindNumber && rhs.kind == KindMeasured:
		var lm Measured
		if additive {
			lm = CoerceTo(v.num, rhs.measured.Unit)
		} else {
			lm = Dimensionless(v.num)
		}
		m, err := measuredFn(lm, rhs.measured)
		if err != nil {
			return Value{}, err
		}
		return MeasuredValue(m), nil
	case v.kind == KindMeasured && rhs.kind == KindNumber:
		var rm Measured
		if additive {
			rm = CoerceTo(rhs.num, v.measured.Unit)
		} else {
			rm = Dimensionless(rhs.num)
		}
		m, err := measuredFn(v.measured, rm)
		if err != nil {
			return Value{}, err
		}
		return MeasuredValue(m), nil
	case v.kind == KindMeasured && rhs.kind == KindMeasured:
		m, err := measuredFn(v.measured, rhs.measured)
		if err != nil {
			return Value{}, err
		}
		return MeasuredValue(m), nil
	case v.kind == KindMeasured:
		return Value{}, &TypeMismatchError{Op: op, LhsKind: v.kind, RhsKind: rhs.kind}
	case v.kind == KindNumber:
		return Value{}, &TypeMismatchError{Op: op, LhsKind: v.kind, RhsKind: rhs.kind}
	default:
		return Value{}, &InvalidOperationError{Op: op, Kind: v.kind}
	}
}

func (v Value) CheckedAdd(rhs Value) (Value, error) {
	return binaryNumeric("+", v, rhs,
		func(a, b number.Number) number.Number { return a.Add(b) },
		func(a, b Measured) (Measured, error) { return a.CheckedAdd(b) },
		true)
}

func (v Value) CheckedSub(rhs Value) (Value, error) {
	return binaryNumeric("-", v, rhs,
		func(a, b number.Number) number.Number { return a.Sub(b) },
		func(a, b Measured) (Measured, error) { return a.CheckedSub(b) },
		true)
}

func (v Value) CheckedEscapedSub(rhs Value) (Value, error) {
	return binaryNumeric("--", v, rhs,
		func(a, b number.Number) number.Number { return a.EscapedSub(b) },
		func(a, b Measured) (Measured, error) { return a.CheckedEscapedSub(b) },
		true)
}

func (v Value) CheckedMul(rhs Value) (Value, error) {
	return binaryNumeric("*", v, rhs,
		func(a, b number.Number) number.Number { return a.Mul(b) },
		func(a, b Measured) (Measured, error) { return a.Mul(b), nil },
		false)
}

func (v Value) CheckedDiv(rhs Value) (Value, error) {
	return binaryNumeric("/", v, rhs,
		func(a, b number.Number) number.Number { return a.Div(b) },
		func(a, b Measured) (Measured, error) { return a.Div(b), nil },
		false)
}

func (v Value) CheckedEscapedDiv(rhs Value) (Value, error) {
	return binaryNumeric("//", v, rhs,
		func(a, b number.Number) number.Number { return a.EscapedDiv(b) },
		func(a, b Measured) (Measured, error) { return a.EscapedDiv(b), nil },
		false)
}

func (v Value) CheckedRem(rhs Value) (Value, error) {
	return binaryNumeric("%", v, rhs,
		func(a, b number.Number) number.Number { return a.Rem(b) },
		func(a, b Measured) (Measured, error) { return a.Rem(b), nil },
		false)
}

// CheckedPow raises v to the power of exponent. The exponent must be
// dimensionless; a Measured exponent is always an error.
func (v Value) CheckedPow(exponent Value) (Value, error) {
	switch {
	case v.kind == KindNumber && exponent.kind == KindNumber:
		return Num(v.num.Pow(exponent.num)), nil
	case v.kind == KindMeasured && exponent.kind == KindNumber:
		m, err := v.measured.CheckedPow(exponent.num)
		if err != nil {
			return Value{}, err
		}
		return MeasuredValue(m), nil
	case (v.kind == KindNumber || v.kind == KindMeasured) && exponent.kind == KindMeasured:
		return Value{}, &ExponentHasUnitsError{Unit: exponent.measured.Unit}
	case v.kind == KindNumber || v.kind == KindMeasured:
		return Value{}, &InvalidExponentTypeError{Kind: exponent.kind}
	default:
		return Value{}, &InvalidOperationError{Op: "^", Kind: v.kind}
	}
}

// CheckedAnd implements logical AND; both operands must be Boolean.
func (v Value) CheckedAnd(rhs Value) (Value, error) {
	if v.kind != KindBoolean {
		return Value{}, &InvalidOperationError{Op: "and", Kind: v.kind}
	}
	if rhs.kind != KindBoolean {
		return Value{}, &TypeMismatchError{Op: "and", LhsKind: v.kind, RhsKind: rhs.kind}
	}
	return Boolean(v.boolean && rhs.boolean), nil
}

// CheckedOr implements logical OR; both operands must be Boolean.
func (v Value) CheckedOr(rhs Value) (Value, error) {
	if v.kind != KindBoolean {
		return Value{}, &InvalidOperationError{Op: "or", Kind: v.kind}
	}
	if rhs.kind != KindBoolean {
		return Value{}, &TypeMismatchError{Op: "or", LhsKind: v.kind, RhsKind: rhs.kind}
	}
	return Boolean(v.boolean || rhs.boolean), nil
}

// CheckedMinMax implements the `|` operator: the tightest interval
// enclosing both operands.
func (v Value) CheckedMinMax(rhs Value) (Value, error) {
	switch {
	case v.kind == KindNumber && rhs.kind == KindNumber:
		return Num(v.num.MinMax(rhs.num)), nil
	case v.kind == KindNumber && rhs.kind == KindMeasured:
		return MeasuredValue(rhs.measured.MinMaxNumber(v.num)), nil
	case v.kind == KindMeasured && rhs.kind == KindNumber:
		return MeasuredValue(v.measured.MinMaxNumber(rhs.num)), nil
	case v.kind == KindMeasured && rhs.kind == KindMeasured:
		m, err := v.measured.CheckedMinMax(rhs.measured)
		if err != nil {
			return Value{}, err
		}
		return MeasuredValue(m), nil
	case v.kind == KindNumber || v.kind == KindMeasured:
		return Value{}, &TypeMismatchError{Op: "|", LhsKind: v.kind, RhsKind: rhs.kind}
	default:
		return Value{}, &InvalidOperationError{Op: "|", Kind: v.kind}
	}
}

// CheckedNeg negates a numeric value.
func (v Value) CheckedNeg() (Value, error) {
	switch v.kind {
	case KindNumber:
		return Num(v.num.Neg()), nil
	case KindMeasured:
		return MeasuredValue(v.measured.Neg()), nil
	default:
		return Value{}, &InvalidOperationError{Op: "-", Kind: v.kind}
	}
}

// CheckedNot negates a boolean value.
func (v Value) CheckedNot() (Value, error) {
	if v.kind != KindBoolean {
		return Value{}, &InvalidOperationError{Op: "not", Kind: v.kind}
	}
	return Boolean(!v.boolean), nil
}

// ExponentHasUnitsError reports `base ^ exponent` where exponent
// carries a unit: exponents must be dimensionless scalars.
type ExponentHasUnitsError struct {
	Unit ounit.Composite
}

func (e *ExponentHasUnitsError) Error() string {
	return fmt.Sprintf("exponent must be dimensionless, has unit %s", e.Unit)
}

// InvalidExponentTypeError reports `base ^ exponent` where exponent is
// not a number at all.
type InvalidExponentTypeError struct {
	Kind Kind
}

func (e *InvalidExponentTypeError) Error() string {
	return fmt.Sprintf("exponent must be a number, got %s", e.Kind)
}
