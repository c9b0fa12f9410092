// Package number implements the value lattice described in spec section
// 4.4: scalar and interval numbers with IEEE-interval-flavored arithmetic,
// plus the measured-number layer in 4.5. The interval arithmetic here is
// pragmatic rather than IEEE 1788 conformant, by design (spec section 1,
// Non-goals, and section 9, Open Question (a)).
package number

import "math"

// Interval is a closed range [Min, Max]. The empty interval is
// represented as [NaN, NaN]; it absorbs every binary operation.
type Interval struct {
	Min float64
	Max float64
}

// NewInterval builds an interval, normalizing zero endpoints so that a
// zero lower bound is always +0 and a zero upper bound is always -0.
// This lets the sign-classification table below distinguish an interval
// whose zero boundary is "included from the positive side" from one
// "included from the negative side" without extra bookkeeping.
func NewInterval(min, max float64) Interval {
	if min == 0 {
		min = 0
	}
	if max == 0 {
		max = math.Copysign(0, -1)
	}
	return Interval{Min: min, Max: max}
}

// Scalar builds a degenerate interval [v, v].
func Scalar(v float64) Interval {
	return NewInterval(v, v)
}

// Empty returns the empty interval.
func Empty() Interval {
	return Interval{Min: math.NaN(), Max: math.NaN()}
}

// Zero returns the degenerate interval [0, 0].
func Zero() Interval {
	return NewInterval(0, 0)
}

// IsEmpty reports whether both endpoints are NaN.
func (iv Interval) IsEmpty() bool {
	return math.IsNaN(iv.Min) && math.IsNaN(iv.Max)
}

// class is the sign classification from spec section 4.4, used to pick
// the right cell of the multiplication/division tables.
type class int

const (
	classEmpty class = iota
	classZero
	classNegative1 // max < 0
	classNegative0 // min < 0 <= max == 0
	classMixed     // min < 0 < max
	classPositive0 // 0 == min < max
	classPositive1 // 0 < min
)

func classify(iv Interval) class {
	switch {
	case iv.IsEmpty():
		return classEmpty
	case iv.Min == 0 && iv.Max == 0:
		return classZero
	case iv.Max < 0:
		return classNegative1
	case iv.Min < 0 && iv.Max == 0:
		return classNegative0
	case iv.Min < 0 && iv.Max > 0:
		return classMixed
	case iv.Min == 0 && iv.Max > 0:
		return classPositive0
	default: // iv.Min > 0
		return classPositive1
	}
}

// Neg negates an interval: [a,b] -> [-b,-a].
func (iv Interval) Neg() Interval {
	return NewInterval(-iv.Max, -iv.Min)
}

// Add adds two intervals componentwise.
func (iv Interval) Add(rhs Interval) Interval {
	return NewInterval(iv.Min+rhs.Min, iv.Max+rhs.Max)
}

// Sub subtracts rhs from iv componentwise.
func (iv Interval) Sub(rhs Interval) Interval {
	return NewInterval(iv.Min-rhs.Max, iv.Max-rhs.Min)
}

// EscapedSub subtracts min-from-min and max-from-max, bypassing the
// standard interval subtraction rule. See spec section 4.5 and
// SPEC_FULL.md for the modeling idiom this supports.
func (iv Interval) EscapedSub(rhs Interval) Interval {
	return NewInterval(iv.Min-rhs.Min, iv.Max-rhs.Max)
}

// Mul multiplies two intervals using the 7x7 sign-class table from spec
// section 4.4: Empty absorbs, Zero times anything is Zero, and the
// remaining 25 cells are grouped by which endpoints dominate the
// product.
func (iv Interval) Mul(rhs Interval) Interval {
	lc, rc := classify(iv), classify(rhs)

	switch {
	case lc == classEmpty || rc == classEmpty:
		return Empty()
	case rc == classZero:
		return Zero()
	case lc == classZero:
		return Zero()
	}

	lhsPos := lc == classPositive1 || lc == classPositive0
	lhsNeg := lc == classNegative1 || lc == classNegative0
	rhsPos := rc == classPositive1 || rc == classPositive0
	rhsNeg := rc == classNegative1 || rc == classNegative0

	switch {
	case lhsPos && rhsPos:
		return NewInterval(iv.Min*rhs.Min, iv.Max*rhs.Max)
	case lhsPos && rc == classMixed:
		return NewInterval(iv.Max*rhs.Min, iv.Max*rhs.Max)
	case lhsPos && rhsNeg:
		return NewInterval(iv.Max*rhs.Min, iv.Min*rhs.Max)
	case lc == classMixed && rhsPos:
		return NewInterval(iv.Min*rhs.Max, iv.Max*rhs.Max)
	case lc == classMixed && rc == classMixed:
		return NewInterval(
			math.Min(iv.Min*rhs.Max, iv.Max*rhs.Min),
			math.Max(iv.Min*rhs.Min, iv.Max*rhs.Max),
		)
	case lc == classMixed && rhsNeg:
		return NewInterval(iv.Max*rhs.Min, iv.Min*rhs.Min)
	case lhsNeg && rhsPos:
		return NewInterval(iv.Min*rhs.Max, iv.Max*rhs.Min)
	case lhsNeg && rc == classMixed:
		return NewInterval(iv.Min*rhs.Max, iv.Min*rhs.Min)
	case lhsNeg && rhsNeg:
		return NewInterval(iv.Max*rhs.Max, iv.Min*rhs.Min)
	default:
		return Empty()
	}
}

// Div divides iv by rhs using the tabulated rules from spec section
// 4.4: division by Zero yields Empty, and division by an interval
// straddling zero yields an unbounded (Mixed -> all reals) or
// half-bounded result depending on which side of zero the dividend
// sits on.
func (iv Interval) Div(rhs Interval) Interval {
	lc, rc := classify(iv), classify(rhs)

	if lc == classEmpty || rc == classEmpty {
		return Empty()
	}
	if rc == classZero {
		return Empty()
	}
	if lc == classZero {
		return Zero()
	}

	inf, ninf := math.Inf(1), math.Inf(-1)

	switch {
	case lc == classPositive1 && rc == classPositive1:
		return NewInterval(iv.Min/rhs.Max, iv.Max/rhs.Min)
	case lc == classPositive1 && rc == classPositive0:
		return NewInterval(iv.Min/rhs.Max, inf)
	case lc == classPositive0 && rc == classPositive1:
		return NewInterval(0, iv.Max/rhs.Min)
	case lc == classPositive0 && rc == classPositive0:
		return NewInterval(0, inf)
	case lc == classMixed && rc == classPositive1:
		return NewInterval(iv.Min/rhs.Min, iv.Max/rhs.Min)
	case lc == classMixed && rc == classPositive0:
		return NewInterval(ninf, inf)
	case lc == classNegative0 && rc == classPositive1:
		return NewInterval(iv.Min/rhs.Min, 0)
	case lc == classNegative0 && rc == classPositive0:
		return NewInterval(ninf, 0)
	case lc == classNegative1 && rc == classPositive1:
		return NewInterval(iv.Min/rhs.Min, iv.Max/rhs.Max)
	case lc == classNegative1 && rc == classPositive0:
		return NewInterval(ninf, iv.Max/rhs.Max)
	case rc == classMixed:
		return NewInterval(ninf, inf)
	case lc == classPositive1 && rc == classNegative1:
		return NewInterval(iv.Max/rhs.Max, iv.Min/rhs.Min)
	case lc == classPositive1 && rc == classNegative0:
		return NewInterval(ninf, iv.Min/rhs.Min)
	case lc == classPositive0 && rc == classNegative1:
		return NewInterval(iv.Max/rhs.Max, 0)
	case lc == classPositive0 && rc == classNegative0:
		return NewInterval(ninf, 0)
	case lc == classMixed && rc == classNegative1:
		return NewInterval(iv.Max/rhs.Max, iv.Min/rhs.Max)
	case lc == classMixed && rc == classNegative0:
		return NewInterval(ninf, inf)
	case lc == classNegative0 && rc == classNegative1:
		return NewInterval(0, iv.Min/rhs.Max)
	case lc == classNegative0 && rc == classNegative0:
		return NewInterval(0, inf)
	case lc == classNegative1 && rc == classNegative1:
		return NewInterval(iv.Max/rhs.Min, iv.Min/rhs.Max)
	case lc == classNegative1 && rc == classNegative0:
		return NewInterval(iv.Max/rhs.Min, inf)
	default:
		return Empty()
	}
}

// Rem computes the interval remainder of iv % rhs. This is the
// pragmatic, non-IEEE-1788 definition from spec section 4.4: it is
// documented there as possibly imprecise but is kept because it is what
// the original implementation ships (see SPEC_FULL.md, Open Question a).
func (iv Interval) Rem(rhs Interval) Interval {
	if rhs.IsEmpty() {
		return Empty()
	}

	absRhs := NewInterval(
		math.Min(math.Abs(rhs.Min), math.Abs(rhs.Max)),
		math.Max(math.Abs(rhs.Min), math.Abs(rhs.Max)),
	)
	rhsIncludesZero := rhs.Min <= 0 && rhs.Max >= 0

	switch classify(iv) {
	case classEmpty:
		return Empty()
	case classZero:
		return Zero()
	case classPositive0, classPositive1:
		if iv.Max < absRhs.Min {
			if rhsIncludesZero {
				return NewInterval(0, iv.Max)
			}
			return iv
		}
		return NewInterval(0, absRhs.Max)
	case classMixed:
		max := absRhs.Max
		if iv.Max < absRhs.Min {
			max = iv.Max
		}
		min := -absRhs.Max
		if iv.Min > -absRhs.Min {
			min = iv.Min
		}
		return NewInterval(min, max)
	default: // classNegative0, classNegative1
		if iv.Min > -absRhs.Min {
			if rhsIncludesZero {
				return NewInterval(iv.Min, 0)
			}
			return iv
		}
		return NewInterval(-absRhs.Max, 0)
	}
}

// RemScalar computes iv % r for a scalar divisor r != 0, using the
// tighter form available when the divisor has no width.
func (iv Interval) RemScalar(r float64) Interval {
	if math.IsNaN(r) || r == 0 {
		return Empty()
	}
	r = math.Abs(r)

	dist := iv.Max - iv.Min
	minMod := math.Mod(iv.Min, r)
	maxMod := math.Mod(iv.Max, r)

	switch classify(iv) {
	case classEmpty:
		return Empty()
	case classZero:
		return Zero()
	case classPositive0, classPositive1:
		if dist < r && minMod <= maxMod {
			return NewInterval(minMod, maxMod)
		}
		return NewInterval(0, r)
	case classMixed:
		max := r
		if iv.Max < r {
			max = iv.Max
		}
		min := -r
		if iv.Min > -r {
			min = iv.Min
		}
		return NewInterval(min, max)
	default: // classNegative0, classNegative1
		if dist < r && minMod <= maxMod {
			return NewInterval(minMod, maxMod)
		}
		return NewInterval(-r, 0)
	}
}

// Pow raises iv to the power of exponent. The base is first intersected
// with [0, +Inf) (negative bases are out of domain for non-integer
// exponents, which this implementation does not special-case); the
// result is then picked from one of four corner-product cases depending
// on the sign of exponent's endpoints.
func (iv Interval) Pow(exponent Interval) Interval {
	domain := Interval{Min: 0, Max: math.Inf(1)}
	base := iv.Intersection(domain)

	if base.IsEmpty() || exponent.IsEmpty() {
		return Empty()
	}

	baseMin, baseMax := base.Min, base.Max
	expMin, expMax := exponent.Min, exponent.Max

	switch {
	case expMax <= 0:
		switch {
		case baseMax == 0:
			return Empty()
		case baseMax < 1:
			return NewInterval(math.Pow(baseMax, expMax), math.Pow(baseMin, expMin))
		case baseMin > 1:
			return NewInterval(math.Pow(baseMax, expMin), math.Pow(baseMin, expMax))
		default:
			return NewInterval(math.Pow(baseMax, expMin), math.Pow(baseMin, expMin))
		}
	case expMin > 0:
		switch {
		case baseMax < 1:
			return NewInterval(math.Pow(baseMin, expMax), math.Pow(baseMax, expMin))
		case baseMin > 1:
			return NewInterval(math.Pow(baseMin, expMin), math.Pow(baseMax, expMax))
		default:
			return NewInterval(math.Pow(baseMin, expMax), math.Pow(baseMax, expMax))
		}
	case baseMax == 0:
		return NewInterval(0, 0)
	default:
		minMin := math.Pow(baseMin, expMin)
		minMax := math.Pow(baseMin, expMax)
		maxMin := math.Pow(baseMax, expMin)
		maxMax := math.Pow(baseMax, expMax)
		return NewInterval(math.Min(minMax, maxMin), math.Max(minMin, maxMax))
	}
}

// Intersection returns the componentwise intersection of two intervals,
// or Empty if they are disjoint.
func (iv Interval) Intersection(rhs Interval) Interval {
	if iv.IsEmpty() || rhs.IsEmpty() {
		return Empty()
	}
	if iv.Min > rhs.Max || rhs.Min > iv.Max {
		return Empty()
	}
	return NewInterval(math.Max(iv.Min, rhs.Min), math.Min(iv.Max, rhs.Max))
}

// TightestEnclosing returns the smallest interval containing both iv and
// rhs. This implements the `|` (min_max) operator over two intervals.
func (iv Interval) TightestEnclosing(rhs Interval) Interval {
	if iv.IsEmpty() {
		return rhs
	}
	if rhs.IsEmpty() {
		return iv
	}
	return NewInterval(math.Min(iv.Min, rhs.Min), math.Max(iv.Max, rhs.Max))
}

// Equal reports whether two intervals have identical endpoints, treating
// both empty intervals as equal regardless of their NaN bit patterns.
func (iv Interval) Equal(rhs Interval) bool {
	if iv.IsEmpty() && rhs.IsEmpty() {
		return true
	}
	return iv.Min == rhs.Min && iv.Max == rhs.Max
}

// Ordering mirrors cmp.Ordering but allows "no definite order" for
// partially-overlapping intervals.
type Ordering int

const (
	OrderLess Ordering = iota
	OrderEqual
	OrderGreater
	OrderUndefined
)

// Compare implements the partial order from spec section 4.4: Equal iff
// all endpoints are equal; Less iff iv.Max < rhs.Min; Greater iff
// iv.Min > rhs.Max; otherwise Undefined.
func (iv Interval) Compare(rhs Interval) Ordering {
	if iv.Equal(rhs) {
		return OrderEqual
	}
	if iv.Max < rhs.Min {
		return OrderLess
	}
	if iv.Min > rhs.Max {
		return OrderGreater
	}
	return OrderUndefined
}
