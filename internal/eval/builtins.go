package eval

import (
	"fmt"
	"math"

	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/number"
	"github.com/careweather/oneil/internal/value"
)

// ArityError reports a builtin called with the wrong number of arguments.
type ArityError struct {
	Name string
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s expects %d argument(s), got %d", e.Name, e.Want, e.Got)
}

// callBuiltin dispatches the closed set of builtins from spec section
// 4.6. Most operate on the numeric part of a Value and return a bare
// Number, dropping any unit; only range and minmax (mnmx) keep a unit,
// by going through Value.CheckedMinMax.
func callBuiltin(fn ir.BuiltinFunction, args []value.Value) (value.Value, error) {
	switch fn {
	case ir.BuiltinMin, ir.BuiltinMax:
		return minMaxBuiltin(fn, args)
	case ir.BuiltinSin, ir.BuiltinCos, ir.BuiltinTan, ir.BuiltinAsin, ir.BuiltinAcos, ir.BuiltinAtan,
		ir.BuiltinSqrt, ir.BuiltinLn, ir.BuiltinLog, ir.BuiltinLog10, ir.BuiltinFloor, ir.BuiltinCeiling, ir.BuiltinAbs:
		return unaryMathBuiltin(fn, args)
	case ir.BuiltinSign:
		return signBuiltin(args)
	case ir.BuiltinExtent:
		return extentBuiltin(args)
	case ir.BuiltinMid:
		return midBuiltin(args)
	case ir.BuiltinStrip:
		return stripBuiltin(args)
	case ir.BuiltinRange, ir.BuiltinMinMax:
		return minMaxIntervalBuiltin(args)
	default:
		return value.Value{}, &value.InvalidOperationError{Op: "builtin", Kind: value.KindNumber}
	}
}

func builtinName(fn ir.BuiltinFunction) string {
	switch fn {
	case ir.BuiltinMin:
		return "min"
	case ir.BuiltinMax:
		return "max"
	case ir.BuiltinSin:
		return "sin"
	case ir.BuiltinCos:
		return "cos"
	case ir.BuiltinTan:
		return "tan"
	case ir.BuiltinAsin:
		return "asin"
	case ir.BuiltinAcos:
		return "acos"
	case ir.BuiltinAtan:
		return "atan"
	case ir.BuiltinSqrt:
		return "sqrt"
	case ir.BuiltinLn:
		return "ln"
	case ir.BuiltinLog:
		return "log"
	case ir.BuiltinLog10:
		return "log10"
	case ir.BuiltinFloor:
		return "floor"
	case ir.BuiltinCeiling:
		return "ceiling"
	case ir.BuiltinExtent:
		return "extent"
	case ir.BuiltinRange:
		return "range"
	case ir.BuiltinAbs:
		return "abs"
	case ir.BuiltinSign:
		return "sign"
	case ir.BuiltinMid:
		return "mid"
	case ir.BuiltinStrip:
		return "strip"
	default:
		return "minmax"
	}
}

// scalarArg extracts a scalar float64 from a Number or Measured
// argument (any unit is ignored), by evaluating its interval midpoint
// when given a genuine interval (spec section 4.6 treats
// transcendental builtins as pointwise functions).
func scalarArg(v value.Value) (float64, bool) {
	var n number.Number
	switch v.Kind() {
	case value.KindNumber:
		n, _ = v.AsNumber()
	case value.KindMeasured:
		m, _ := v.AsMeasured()
		n = m.Num
	default:
		return 0, false
	}
	if n.IsScalar() {
		return n.ScalarValue(), true
	}
	iv := n.Interval()
	return (iv.Min + iv.Max) / 2, true
}

func unaryMathBuiltin(fn ir.BuiltinFunction, args []value.Value) (value.Value, error) {
	name := builtinName(fn)
	if len(args) != 1 {
		return value.Value{}, &ArityError{Name: name, Want: 1, Got: len(args)}
	}
	x, ok := scalarArg(args[0])
	if !ok {
		return value.Value{}, &value.InvalidOperationError{Op: name, Kind: args[0].Kind()}
	}
	var r float64
	switch fn {
	case ir.BuiltinSin:
		r = math.Sin(x)
	case ir.BuiltinCos:
		r = math.Cos(x)
	case ir.BuiltinTan:
		r = math.Tan(x)
	case ir.BuiltinAsin:
		r = math.Asin(x)
	case ir.BuiltinAcos:
		r = math.Acos(x)
	case ir.BuiltinAtan:
		r = math.Atan(x)
	case ir.BuiltinSqrt:
		r = math.Sqrt(x)
	case ir.BuiltinLn:
		r = math.Log(x)
	case ir.BuiltinLog:
		r = math.Log(x)
	case ir.BuiltinLog10:
		r = math.Log10(x)
	case ir.BuiltinFloor:
		r = math.Floor(x)
	case ir.BuiltinCeiling:
		r = math.Ceil(x)
	default:
		r = math.Abs(x)
	}
	return value.Num(number.NewScalar(r)), nil
}

func signBuiltin(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, &ArityError{Name: "sign", Want: 1, Got: len(args)}
	}
	x, ok := scalarArg(args[0])
	if !ok {
		return value.Value{}, &value.InvalidOperationError{Op: "sign", Kind: args[0].Kind()}
	}
	switch {
	case x > 0:
		return value.Num(number.NewScalar(1)), nil
	case x < 0:
		return value.Num(number.NewScalar(-1)), nil
	default:
		return value.Num(number.NewScalar(0)), nil
	}
}

// minMaxBuiltin implements the n-ary min/max builtins, which operate
// pointwise over every argument's scalar projection and return a bare
// scalar Number (spec section 4.6, Open Question (b)).
func minMaxBuiltin(fn ir.BuiltinFunction, args []value.Value) (value.Value, error) {
	name := builtinName(fn)
	if len(args) == 0 {
		return value.Value{}, &ArityError{Name: name, Want: 1, Got: 0}
	}
	best, ok := scalarArg(args[0])
	if !ok {
		return value.Value{}, &value.InvalidOperationError{Op: name, Kind: args[0].Kind()}
	}
	for _, a := range args[1:] {
		x, ok := scalarArg(a)
		if !ok {
			return value.Value{}, &value.InvalidOperationError{Op: name, Kind: a.Kind()}
		}
		if fn == ir.BuiltinMin && x < best || fn == ir.BuiltinMax && x > best {
			best = x
		}
	}
	return value.Num(number.NewScalar(best)), nil
}

// extentBuiltin returns the width of an interval argument as a bare
// scalar, preserving the interpretation that extent measures spread
// rather than position.
func extentBuiltin(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, &ArityError{Name: "extent", Want: 1, Got: len(args)}
	}
	iv, err := numberArg(args[0], "extent")
	if err != nil {
		return value.Value{}, err
	}
	width := iv.Interval().Max - iv.Interval().Min
	return value.Num(number.NewScalar(width)), nil
}

// midBuiltin returns the midpoint of an interval argument as a bare
// scalar.
func midBuiltin(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, &ArityError{Name: "mid", Want: 1, Got: len(args)}
	}
	iv, err := numberArg(args[0], "mid")
	if err != nil {
		return value.Value{}, err
	}
	mid := (iv.Interval().Min + iv.Interval().Max) / 2
	return value.Num(number.NewScalar(mid)), nil
}

// stripBuiltin drops a MeasuredNumber's unit, keeping its numeric part.
// A bare Number passes through unchanged.
func stripBuiltin(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, &ArityError{Name: "strip", Want: 1, Got: len(args)}
	}
	switch args[0].Kind() {
	case value.KindNumber:
		return args[0], nil
	case value.KindMeasured:
		m, _ := args[0].AsMeasured()
		return value.Num(m.Num), nil
	default:
		return value.Value{}, &value.InvalidOperationError{Op: "strip", Kind: args[0].Kind()}
	}
}

// minMaxIntervalBuiltin implements `range`/`minmax`/`mnmx`: the
// tightest interval enclosing two operands, same semantics as the `|`
// operator (spec section 4.6, Open Question (b)).
func minMaxIntervalBuiltin(args []value.Value) (value.Value, error) {
	if len(args) != 2 {
		return value.Value{}, &ArityError{Name: "minmax", Want: 2, Got: len(args)}
	}
	return args[0].CheckedMinMax(args[1])
}

func numberArg(v value.Value, op string) (number.Number, error) {
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.AsNumber()
		return n, nil
	case value.KindMeasured:
		m, _ := v.AsMeasured()
		return m.Num, nil
	default:
		return number.Number{}, &value.InvalidOperationError{Op: op, Kind: v.Kind()}
	}
}
