package number

import "fmt"

// Number is the value-lattice numeric type from spec section 4.4:
// either a point scalar or a genuine interval. Arithmetic always
// happens through interval operations (a scalar is a degenerate
// [v,v] interval), but the scalar/interval tag is preserved across an
// operation whenever both operands were scalars, so `2 + 3` prints as
// a plain number rather than a one-point interval.
type Number struct {
	scalar   bool
	interval Interval
}

// NewScalar builds a scalar number.
func NewScalar(v float64) Number {
	return Number{scalar: true, interval: Scalar(v)}
}

// NewIntervalNumber builds a genuine interval number from endpoints.
func NewIntervalNumber(min, max float64) Number {
	return Number{scalar: false, interval: NewInterval(min, max)}
}

// FromInterval wraps an already-computed Interval as a non-scalar Number.
func FromInterval(iv Interval) Number {
	return Number{scalar: false, interval: iv}
}

// IsScalar reports whether this Number is a point value.
func (n Number) IsScalar() bool {
	return n.scalar
}

// IsEmpty reports whether the underlying interval is empty.
func (n Number) IsEmpty() bool {
	return n.interval.IsEmpty()
}

// Interval returns the underlying interval, degenerate for scalars.
func (n Number) Interval() Interval {
	return n.interval
}

// ScalarValue returns the point value of a scalar Number. Only
// meaningful when IsScalar is true.
func (n Number) ScalarValue() float64 {
	return n.interval.Min
}

func bothScalar(a, b Number) bool {
	return a.scalar && b.scalar
}

// Neg negates a number.
func (n Number) Neg() Number {
	return Number{scalar: n.scalar, interval: n.interval.Neg()}
}

// Add adds two numbers.
func (n Number) Add(rhs Number) Number {
	return Number{scalar: bothScalar(n, rhs), interval: n.interval.Add(rhs.interval)}
}

// Sub subtracts rhs from n.
func (n Number) Sub(rhs Number) Number {
	return Number{scalar: bothScalar(n, rhs), interval: n.interval.Sub(rhs.interval)}
}

// EscapedSub subtracts componentwise (min-min, max-max) rather than via
// interval subtraction rules.
func (n Number) EscapedSub(rhs Number) Number {
	return Number{scalar: bothScalar(n, rhs), interval: n.interval.EscapedSub(rhs.interval)}
}

// Mul multiplies two numbers.
func (n Number) Mul(rhs Number) Number {
	return Number{scalar: bothScalar(n, rhs), interval: n.interval.Mul(rhs.interval)}
}

// Div divides n by rhs.
func (n Number) Div(rhs Number) Number {
	return Number{scalar: bothScalar(n, rhs), interval: n.interval.Div(rhs.interval)}
}

// EscapedDiv divides componentwise (min/min, max/max) rather than via
// interval division rules.
func (n Number) EscapedDiv(rhs Number) Number {
	return Number{
		scalar:   bothScalar(n, rhs),
		interval: NewInterval(n.interval.Min/rhs.interval.Min, n.interval.Max/rhs.interval.Max),
	}
}

// Rem computes n % rhs.
func (n Number) Rem(rhs Number) Number {
	if rhs.scalar {
		return Number{scalar: bothScalar(n, rhs), interval: n.interval.RemScalar(rhs.interval.Min)}
	}
	return Number{scalar: bothScalar(n, rhs), interval: n.interval.Rem(rhs.interval)}
}

// Pow raises n to the power of exponent.
func (n Number) Pow(exponent Number) Number {
	return Number{scalar: bothScalar(n, exponent), interval: n.interval.Pow(exponent.interval)}
}

// MinMax returns the tightest interval enclosing both operands. The
// result is never scalar, even when both operands are, since the
// operator's purpose is to build a range from two points.
func (n Number) MinMax(rhs Number) Number {
	return Number{scalar: false, interval: n.interval.TightestEnclosing(rhs.interval)}
}

// Equal reports value equality (interval endpoint equality, ignoring
// the scalar/interval tag).
func (n Number) Equal(rhs Number) bool {
	return n.interval.Equal(rhs.interval)
}

// Compare implements the partial order from spec section 4.4.
func (n Number) Compare(rhs Number) Ordering {
	return n.interval.Compare(rhs.interval)
}

func (n Number) String() string {
	if n.scalar {
		return fmt.Sprintf("%g", n.interval.Min)
	}
	return fmt.Sprintf("[%g, %g]", n.interval.Min, n.interval.Max)
}
