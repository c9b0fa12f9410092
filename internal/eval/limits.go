package eval

import (
	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/value"
)

// checkParamLimits enforces an optional declared limit (spec section
// 4.6): a continuous parameter's computed value must fall within
// [min, max]; a discrete parameter's value must equal one of the
// declared choices. Limit checking is opt-in (WithLimitChecking) since
// spec section 4.6 treats it as a session policy, not a mandatory
// evaluation step.
func (s *Session) checkParamLimits(path ir.ModelPath, param *ir.Parameter, v value.Value) error {
	limits := param.Limits
	if limits.Continuous {
		if limits.Min != nil {
			min, err := s.evalExpr(path, limits.Min)
			if err != nil {
				return err
			}
			ok, err := v.CheckedGte(min)
			if err != nil {
				return wrapValueError(err, path, param.Identifier)
			}
			if !ok {
				return newErr("LimitViolation", "value is below the declared minimum", path, param.Identifier)
			}
		}
		if limits.Max != nil {
			max, err := s.evalExpr(path, limits.Max)
			if err != nil {
				return err
			}
			ok, err := v.CheckedLte(max)
			if err != nil {
				return wrapValueError(err, path, param.Identifier)
			}
			if !ok {
				return newErr("LimitViolation", "value is above the declared maximum", path, param.Identifier)
			}
		}
		return nil
	}

	for _, choice := range limits.Discrete {
		cv, err := s.evalExpr(path, choice)
		if err != nil {
			return err
		}
		ok, err := v.CheckedEq(cv)
		if err != nil {
			return wrapValueError(err, path, param.Identifier)
		}
		if ok {
			return nil
		}
	}
	return newErr("LimitViolation", "value does not match any declared discrete choice", path, param.Identifier)
}
