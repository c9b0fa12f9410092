// Package value implements the Value lattice from spec section 4.4/4.5:
// Boolean, String, Number, and MeasuredNumber (a Number paired with a
// composite unit), plus the unit-aware arithmetic and coercion rules
// that bind them together.
package value

import (
	"fmt"

	"github.com/careweather/oneil/internal/number"
	"github.com/careweather/oneil/internal/ounit"
)

// Measured is a Number carrying a composite unit. Addition and
// subtraction require unit equality; multiplication and division
// combine units; power requires a dimensionless exponent.
type Measured struct {
	Num  number.Number
	Unit ounit.Composite
}

// NewMeasured builds a measured number.
func NewMeasured(n number.Number, u ounit.Composite) Measured {
	return Measured{Num: n, Unit: u}
}

// Dimensionless wraps a bare Number as a unitless Measured value. This
// is how a Number implicitly coerces into measured arithmetic: for
// multiplicative operators an unmeasured operand becomes a
// dimensionless measured number (spec section 4.6).
func Dimensionless(n number.Number) Measured {
	return Measured{Num: n, Unit: ounit.One()}
}

// CoerceTo coerces a bare Number into a Measured with the given unit.
// This is how a Number implicitly coerces into measured arithmetic for
// additive operators: an unmeasured operand takes on its counterpart's
// unit without checking.
func CoerceTo(n number.Number, u ounit.Composite) Measured {
	return Measured{Num: n, Unit: u}
}

// Neg negates the numeric part, keeping the unit.
func (m Measured) Neg() Measured {
	return Measured{Num: m.Num.Neg(), Unit: m.Unit}
}

// CheckedAdd adds two measured numbers; the units must be equal.
func (m Measured) CheckedAdd(rhs Measured) (Measured, error) {
	if !m.Unit.Equal(rhs.Unit) {
		return Measured{}, &UnitMismatchError{Op: "+", Lhs: m.Unit, Rhs: rhs.Unit}
	}
	return Measured{Num: m.Num.Add(rhs.Num), Unit: m.Unit}, nil
}

// CheckedSub subtracts rhs from m; the units must be equal.
func (m Measured) CheckedSub(rhs Measured) (Measured, error) {
	if !m.Unit.Equal(rhs.Unit) {
		return Measured{}, &UnitMismatchError{Op: "-", Lhs: m.Unit, Rhs: rhs.Unit}
	}
	return Measured{Num: m.Num.Sub(rhs.Num), Unit: m.Unit}, nil
}

// CheckedEscapedSub is CheckedSub using componentwise (min-min,
// max-max) arithmetic rather than interval subtraction.
func (m Measured) CheckedEscapedSub(rhs Measured) (Measured, error) {
	if !m.Unit.Equal(rhs.Unit) {
		return Measured{}, &UnitMismatchError{Op: "--", Lhs: m.Unit, Rhs: rhs.Unit}
	}
	return Measured{Num: m.Num.EscapedSub(rhs.Num), Unit: m.Unit}, nil
}

// Mul multiplies two measured numbers; the units multiply too.
func (m Measured) Mul(rhs Measured) Measured {
	return Measured{Num: m.Num.Mul(rhs.Num), Unit: m.Unit.Mul(rhs.Unit)}
}

// Div divides m by rhs; the units divide too.
func (m Measured) Div(rhs Measured) Measured {
	return Measured{Num: m.Num.Div(rhs.Num), Unit: m.Unit.Div(rhs.Unit)}
}

// EscapedDiv is Div using componentwise (min/min, max/max) arithmetic.
func (m Measured) EscapedDiv(rhs Measured) Measured {
	return Measured{Num: m.Num.EscapedDiv(rhs.Num), Unit: m.Unit.Div(rhs.Unit)}
}

// Rem computes the remainder; the result keeps the dividend's unit
// (matching the original implementation's treatment of modulo as a
// dividend-scaled operation).
func (m Measured) Rem(rhs Measured) Measured {
	return Measured{Num: m.Num.Rem(rhs.Num), Unit: m.Unit}
}

// CheckedPow raises m to a dimensionless scalar exponent, scaling the
// unit's exponents by the scalar.
func (m Measured) CheckedPow(exponent number.Number) (Measured, error) {
	if !exponent.IsScalar() {
		return Measured{}, &NonScalarExponentError{}
	}
	scalar := exponent.ScalarValue()
	intScalar := int(scalar)
	if float64(intScalar) != scalar {
		return Measured{}, &NonIntegerExponentError{Value: scalar}
	}
	return Measured{Num: m.Num.Pow(exponent), Unit: m.Unit.Pow(intScalar)}, nil
}

// MinMaxNumber computes min_max (the `|` operator) between a measured
// number and a bare Number, taking the bare side to be in m's unit;
// the result keeps m's unit.
func (m Measured) MinMaxNumber(rhs number.Number) Measured {
	return Measured{Num: m.Num.MinMax(rhs), Unit: m.Unit}
}

// CheckedMinMax computes min_max between two measured numbers; the
// units must be equal.
func (m Measured) CheckedMinMax(rhs Measured) (Measured, error) {
	if !m.Unit.Equal(rhs.Unit) {
		return Measured{}, &UnitMismatchError{Op: "|", Lhs: m.Unit, Rhs: rhs.Unit}
	}
	return Measured{Num: m.Num.MinMax(rhs.Num), Unit: m.Unit}, nil
}

// CheckedPartialCmp compares two measured numbers; the units must be
// equal.
func (m Measured) CheckedPartialCmp(rhs Measured) (number.Ordering, error) {
	if !m.Unit.Equal(rhs.Unit) {
		return 0, &UnitMismatchError{Op: "compare", Lhs: m.Unit, Rhs: rhs.Unit}
	}
	return m.Num.Compare(rhs.Num), nil
}

func (m Measured) String() string {
	return fmt.Sprintf("%s %s", m.Num, m.Unit)
}

// UnitMismatchError reports an operation between measured numbers whose
// units don't match.
type UnitMismatchError struct {
	Op       string
	Lhs, Rhs ounit.Composite
}

func (e *UnitMismatchError) Error() string {
	return fmt.Sprintf("unit mismatch in %q: %s vs %s", e.Op, e.Lhs, e.Rhs)
}

// NonScalarExponentError reports `base ^ exponent` where exponent is an
// interval rather than a point value.
type NonScalarExponentError struct{}

func (e *NonScalarExponentError) Error() string {
	return "exponent of a measured number must be a scalar"
}

// NonIntegerExponentError reports `base ^ exponent` where exponent is a
// non-integer scalar; the unit algebra only defines integer powers.
type NonIntegerExponentError struct {
	Value float64
}

func (e *NonIntegerExponentError) Error() string {
	return fmt.Sprintf("exponent %g of a measured number must be an integer", e.Value)
}
