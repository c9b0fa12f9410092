package eval

import (
	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/number"
	"github.com/careweather/oneil/internal/value"
)

func (s *Session) evalExpr(path ir.ModelPath, e ir.Expr) (value.Value, error) {
	switch n := e.(type) {
	case *ir.Literal:
		return evalLiteral(n), nil
	case *ir.Variable:
		return s.evalVariable(path, n)
	case *ir.UnaryExpr:
		return s.evalUnary(path, n)
	case *ir.BinaryExpr:
		return s.evalBinary(path, n)
	case *ir.ComparisonExpr:
		return s.evalComparison(path, n)
	case *ir.FunctionCall:
		return s.evalCall(path, n)
	default:
		return value.Value{}, newErr("InvalidOperationType", "unsupported expression node", path, "")
	}
}

func evalLiteral(n *ir.Literal) value.Value {
	switch n.Kind {
	case ir.LitString:
		return value.String(n.Str)
	case ir.LitBoolean:
		return value.Boolean(n.Boolean)
	default:
		return value.Num(number.NewScalar(n.Number))
	}
}

func (s *Session) evalVariable(path ir.ModelPath, n *ir.Variable) (value.Value, error) {
	switch n.Kind {
	case ir.VarBuiltin:
		return s.builtins.BuiltinValue(n.Name)
	case ir.VarParameter:
		return s.EvalParameter(path, n.ParameterName)
	case ir.VarExternal:
		return s.EvalParameter(n.ExternalModel, n.ParameterName)
	default:
		return value.Value{}, newErr("InvalidOperationType", "unknown variable kind", path, "")
	}
}

func (s *Session) evalUnary(path ir.ModelPath, n *ir.UnaryExpr) (value.Value, error) {
	operand, err := s.evalExpr(path, n.Operand)
	if err != nil {
		return value.Value{}, err
	}
	var result value.Value
	var opErr error
	switch n.Op {
	case ir.OpNeg:
		result, opErr = operand.CheckedNeg()
	default:
		result, opErr = operand.CheckedNot()
	}
	if opErr != nil {
		return value.Value{}, wrapValueError(opErr, path, "")
	}
	return result, nil
}

func (s *Session) evalBinary(path ir.ModelPath, n *ir.BinaryExpr) (value.Value, error) {
	left, err := s.evalExpr(path, n.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := s.evalExpr(path, n.Right)
	if err != nil {
		return value.Value{}, err
	}

	var result value.Value
	var opErr error
	switch n.Op {
	case ir.OpAdd:
		result, opErr = left.CheckedAdd(right)
	case ir.OpSub:
		result, opErr = left.CheckedSub(right)
	case ir.OpEscapedSub:
		result, opErr = left.CheckedEscapedSub(right)
	case ir.OpMul:
		result, opErr = left.CheckedMul(right)
	case ir.OpDiv:
		result, opErr = checkedDivGuarded(left, right)
	case ir.OpEscapedDiv:
		result, opErr = left.CheckedEscapedDiv(right)
	case ir.OpRem:
		result, opErr = left.CheckedRem(right)
	case ir.OpPow:
		result, opErr = left.CheckedPow(right)
	case ir.OpMinMax:
		result, opErr = left.CheckedMinMax(right)
	case ir.OpAnd:
		result, opErr = left.CheckedAnd(right)
	default:
		result, opErr = left.CheckedOr(right)
	}
	if opErr != nil {
		return value.Value{}, wrapValueError(opErr, path, "")
	}
	return result, nil
}

// checkedDivGuarded adds the DivisionByZero check from spec section 7
// on top of Value.CheckedDiv, which (like the original arithmetic it
// is grounded on) otherwise produces the empty interval for an exact
// zero divisor rather than failing outright.
func checkedDivGuarded(left, right value.Value) (value.Value, error) {
	if n, ok := right.AsNumber(); ok && n.IsScalar() && n.ScalarValue() == 0 {
		return value.Value{}, &DivisionByZeroError{}
	}
	if m, ok := right.AsMeasured(); ok && m.Num.IsScalar() && m.Num.ScalarValue() == 0 {
		return value.Value{}, &DivisionByZeroError{}
	}
	return left.CheckedDiv(right)
}

// DivisionByZeroError reports division by an exact scalar zero.
type DivisionByZeroError struct{}

func (e *DivisionByZeroError) Error() string { return "division by zero" }

func compareValues(left, right value.Value, op ir.CompareOp) (bool, error) {
	switch op {
	case ir.CmpEq:
		return left.CheckedEq(right)
	case ir.CmpNe:
		return left.CheckedNe(right)
	}

	ord, err := left.ComparePartial(right)
	if err != nil {
		return false, err
	}
	if ord == number.OrderUndefined {
		return false, &UndefinedComparisonError{}
	}
	switch op {
	case ir.CmpLt:
		return ord == number.OrderLess, nil
	case ir.CmpLe:
		return ord == number.OrderLess || ord == number.OrderEqual, nil
	case ir.CmpGt:
		return ord == number.OrderGreater, nil
	default:
		return ord == number.OrderGreater || ord == number.OrderEqual, nil
	}
}

// UndefinedComparisonError reports a comparison whose operands have
// no definite partial order (spec section 4.4/4.6).
type UndefinedComparisonError struct{}

func (e *UndefinedComparisonError) Error() string { return "comparison is undefined for these operands" }

// evalComparison implements chained comparison evaluation from spec
// section 4.6: each consecutive pair must hold, short-circuiting on
// the first false pair.
func (s *Session) evalComparison(path ir.ModelPath, n *ir.ComparisonExpr) (value.Value, error) {
	left, err := s.evalExpr(path, n.Left)
	if err != nil {
		return value.Value{}, err
	}
	right, err := s.evalExpr(path, n.Right)
	if err != nil {
		return value.Value{}, err
	}
	ok, err := compareValues(left, right, n.Op)
	if err != nil {
		return value.Value{}, wrapValueError(err, path, "")
	}
	if !ok {
		return value.Boolean(false), nil
	}

	prev := right
	for _, t := range n.Tail {
		rhs, err := s.evalExpr(path, t.Rhs)
		if err != nil {
			return value.Value{}, err
		}
		ok, err := compareValues(prev, rhs, t.Op)
		if err != nil {
			return value.Value{}, wrapValueError(err, path, "")
		}
		if !ok {
			return value.Boolean(false), nil
		}
		prev = rhs
	}
	return value.Boolean(true), nil
}

func (s *Session) evalCall(path ir.ModelPath, n *ir.FunctionCall) (value.Value, error) {
	args := make([]value.Value, 0, len(n.Args))
	for _, a := range n.Args {
		v, err := s.evalExpr(path, a)
		if err != nil {
			return value.Value{}, err
		}
		args = append(args, v)
	}
	if n.Name.IsImport {
		v, err := s.invoker.CallImported(n.Name.Import, args)
		if err != nil {
			return value.Value{}, newErr("ImportedCallFailed", err.Error(), path, "")
		}
		return v, nil
	}
	v, err := callBuiltin(n.Name.Builtin, args)
	if err != nil {
		return value.Value{}, wrapValueError(err, path, "")
	}
	return v, nil
}

// wrapValueError adapts a value-package operator error into an
// evaluator Error, preserving its message while tagging the
// provoking model path per spec section 7's propagation policy.
func wrapValueError(err error, path ir.ModelPath, param string) error {
	switch err.(type) {
	case *ArityError:
		return newErr("ArityMismatch", err.Error(), path, param)
	case *DivisionByZeroError:
		return newErr("DivisionByZero", err.Error(), path, param)
	case *UndefinedComparisonError:
		return newErr("UndefinedComparison", err.Error(), path, param)
	case *value.ExponentHasUnitsError:
		return newErr("ExponentHasUnits", err.Error(), path, param)
	case *value.InvalidExponentTypeError, *value.NonScalarExponentError, *value.NonIntegerExponentError:
		return newErr("InvalidExponentType", err.Error(), path, param)
	case *value.TypeMismatchError, *value.UnitMismatchError:
		return newErr("TypeMismatch", err.Error(), path, param)
	case *value.InvalidOperationError:
		return newErr("InvalidOperationType", err.Error(), path, param)
	default:
		return newErr("InvalidOperationType", err.Error(), path, param)
	}
}
