// Package eval evaluates a resolved ModelCollection: it walks IR
// expressions to compute Values, memoizing per (ModelPath,
// ParameterName) and implementing the operator, builtin, piecewise,
// and chained-comparison semantics from spec section 4.6.
package eval

import (
	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/ounit"
	"github.com/careweather/oneil/internal/value"
)

// Invoker is the evaluator-to-host capability from spec section 6.3:
// imported (non-builtin) function calls defer to it.
type Invoker interface {
	CallImported(name string, args []value.Value) (value.Value, error)
}

// BuiltinValues supplies the concrete value of a host-provided
// Builtin variable on demand.
type BuiltinValues interface {
	BuiltinValue(name string) (value.Value, error)
}

// Option configures a Session at construction time, following the
// functional-options pattern used throughout this module.
type Option func(*Session)

// WithLimitChecking enables the optional post-evaluation limit check
// from spec section 4.6; it is a session policy, not mandatory.
func WithLimitChecking(enabled bool) Option {
	return func(s *Session) { s.checkLimits = enabled }
}

type cacheKey struct {
	path  ir.ModelPath
	param string
}

// Session evaluates parameters against one frozen ModelCollection.
// Its memoization cache is private to the session; evaluation is
// single-threaded and cooperative (spec section 5).
type Session struct {
	collection  *ir.ModelCollection
	invoker     Invoker
	builtins    BuiltinValues
	checkLimits bool
	cache       map[cacheKey]value.Value
}

// NewSession builds an evaluation session over collection.
func NewSession(collection *ir.ModelCollection, invoker Invoker, builtins BuiltinValues, opts ...Option) *Session {
	s := &Session{
		collection: collection,
		invoker:    invoker,
		builtins:   builtins,
		cache:      map[cacheKey]value.Value{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EvalParameter computes the value of one parameter, memoized per
// (ModelPath, ParameterName) for the lifetime of the session.
func (s *Session) EvalParameter(path ir.ModelPath, name string) (value.Value, error) {
	key := cacheKey{path, name}
	if v, ok := s.cache[key]; ok {
		return v, nil
	}

	model, ok := s.collection.Models[path]
	if !ok {
		return value.Value{}, newErr("ModelHasError", "model not found", path, name)
	}
	param, ok := model.Parameters[name]
	if !ok {
		return value.Value{}, newErr("VariableResolution.UndefinedParameter", name, path, name)
	}

	v, err := s.evalParamValue(path, param)
	if err != nil {
		return value.Value{}, err
	}

	if s.checkLimits && param.Limits != nil {
		if err := s.checkParamLimits(path, param, v); err != nil {
			return value.Value{}, err
		}
	}

	s.cache[key] = v
	return v, nil
}

func (s *Session) evalParamValue(path ir.ModelPath, param *ir.Parameter) (value.Value, error) {
	pv := param.Value
	if !pv.Piecewise {
		v, err := s.evalExpr(path, pv.Expr)
		if err != nil {
			return value.Value{}, err
		}
		return s.applyUnit(v, pv.Unit, path, param.Identifier)
	}

	for _, c := range pv.Cases {
		condVal, err := s.evalExpr(path, c.Condition)
		if err != nil {
			return value.Value{}, err
		}
		b, ok := condVal.AsBoolean()
		if !ok {
			return value.Value{}, newErr("InvalidOperationType", "piecewise condition is not boolean", path, param.Identifier)
		}
		if b {
			v, err := s.evalExpr(path, c.Value)
			if err != nil {
				return value.Value{}, err
			}
			return s.applyUnit(v, pv.Unit, path, param.Identifier)
		}
	}
	return value.Value{}, newErr("PiecewiseNoMatch", "", path, param.Identifier)
}

// applyUnit tags an evaluated bare Number with the parameter's
// declared unit, when one is present. A value that already carries a
// unit (the expression itself produced a MeasuredNumber through unit
// arithmetic) is left as-is.
func (s *Session) applyUnit(v value.Value, unit *ounit.Composite, path ir.ModelPath, param string) (value.Value, error) {
	if unit == nil {
		return v, nil
	}
	switch v.Kind() {
	case value.KindNumber:
		n, _ := v.AsNumber()
		return value.MeasuredValue(value.NewMeasured(n, *unit)), nil
	case value.KindMeasured:
		return v, nil
	default:
		return value.Value{}, newErr("TypeMismatch", "a unit was declared on a non-numeric value", path, param)
	}
}
