package eval

import (
	"fmt"
	"testing"

	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/number"
	"github.com/careweather/oneil/internal/ounit"
	"github.com/careweather/oneil/internal/value"
)

type stubInvoker struct{}

func (stubInvoker) CallImported(name string, args []value.Value) (value.Value, error) {
	if name == "double" && len(args) == 1 {
		n, _ := args[0].AsNumber()
		return value.Num(n.Mul(number.NewScalar(2))), nil
	}
	return value.Value{}, fmt.Errorf("no such import %q", name)
}

type stubBuiltins struct{}

func (stubBuiltins) BuiltinValue(name string) (value.Value, error) {
	switch name {
	case "pi":
		return value.Num(number.NewScalar(3.14159)), nil
	case "g":
		return value.Num(number.NewScalar(9.8)), nil
	default:
		return value.Value{}, fmt.Errorf("no such builtin %q", name)
	}
}

func numLit(v float64) *ir.Literal {
	return &ir.Literal{Kind: ir.LitNumber, Number: v}
}

func paramExpr(e ir.Expr) ir.ParamValue {
	return ir.ParamValue{Expr: e}
}

func buildSession(coll *ir.ModelCollection) *Session {
	return NewSession(coll, stubInvoker{}, stubBuiltins{})
}

func TestEvalParameterLiteral(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	m.Parameters["x"] = &ir.Parameter{Identifier: "x", Value: paramExpr(numLit(5))}
	coll.Models["main"] = m

	s := buildSession(coll)
	v, err := s.EvalParameter("main", "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := v.AsNumber()
	if !ok || n.ScalarValue() != 5 {
		t.Errorf("got %v, want 5", v)
	}
}

func TestEvalParameterMemoizes(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	m.Parameters["x"] = &ir.Parameter{Identifier: "x", Value: paramExpr(numLit(5))}
	m.Parameters["y"] = &ir.Parameter{Identifier: "y", Value: paramExpr(&ir.Variable{Kind: ir.VarParameter, ParameterName: "x"})}
	coll.Models["main"] = m

	s := buildSession(coll)
	if _, err := s.EvalParameter("main", "x"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.EvalParameter("main", "y"); err != nil {
		t.Fatal(err)
	}
	if len(s.cache) != 2 {
		t.Errorf("expected 2 cached entries, got %d", len(s.cache))
	}
}

func TestEvalBinaryWithUnitCoercion(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	kg := ounit.NewAtom("kg", 1)
	m.Parameters["mass"] = &ir.Parameter{
		Identifier: "mass",
		Value:      ir.ParamValue{Expr: numLit(3), Unit: &kg},
	}
	m.Parameters["total"] = &ir.Parameter{
		Identifier: "total",
		Value: ir.ParamValue{Expr: &ir.BinaryExpr{
			Op:   ir.OpAdd,
			Left: &ir.Variable{Kind: ir.VarParameter, ParameterName: "mass"},
			Right: numLit(2),
		}},
	}
	coll.Models["main"] = m

	s := buildSession(coll)
	v, err := s.EvalParameter("main", "total")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mv, ok := v.AsMeasured()
	if !ok {
		t.Fatalf("expected a measured result, got %v", v)
	}
	if mv.Num.ScalarValue() != 5 {
		t.Errorf("got %v, want 5 kg", mv)
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	m.Parameters["x"] = &ir.Parameter{Identifier: "x", Value: paramExpr(&ir.BinaryExpr{
		Op:    ir.OpDiv,
		Left:  numLit(1),
		Right: numLit(0),
	})}
	coll.Models["main"] = m

	s := buildSession(coll)
	_, err := s.EvalParameter("main", "x")
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
	evalErr, ok := err.(*Error)
	if !ok || evalErr.Kind != "DivisionByZero" {
		t.Errorf("got %v, want DivisionByZero", err)
	}
}

func TestEvalChainedComparisonShortCircuits(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	// 1 < 2 < 0  -- second pair false, should short circuit without error
	m.Parameters["ok"] = &ir.Parameter{Identifier: "ok", Value: paramExpr(&ir.ComparisonExpr{
		Left:  numLit(1),
		Right: numLit(2),
		Op:    ir.CmpLt,
		Tail:  []ir.ComparisonTail{{Op: ir.CmpLt, Rhs: numLit(0)}},
	})}
	coll.Models["main"] = m

	s := buildSession(coll)
	v, err := s.EvalParameter("main", "ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := v.AsBoolean()
	if !ok || b {
		t.Errorf("got %v, want false", v)
	}
}

func TestEvalChainedComparisonHolds(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	m.Parameters["ok"] = &ir.Parameter{Identifier: "ok", Value: paramExpr(&ir.ComparisonExpr{
		Left:  numLit(1),
		Right: numLit(2),
		Op:    ir.CmpLt,
		Tail:  []ir.ComparisonTail{{Op: ir.CmpLe, Rhs: numLit(3)}},
	})}
	coll.Models["main"] = m

	s := buildSession(coll)
	v, err := s.EvalParameter("main", "ok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := v.AsBoolean()
	if !ok || !b {
		t.Errorf("got %v, want true", v)
	}
}

func TestEvalPiecewise(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	m.Parameters["speed"] = &ir.Parameter{Identifier: "speed", Value: ir.ParamValue{
		Piecewise: true,
		Cases: []ir.PiecewiseCase{
			{Condition: &ir.Literal{Kind: ir.LitBoolean, Boolean: false}, Value: numLit(1)},
			{Condition: &ir.Literal{Kind: ir.LitBoolean, Boolean: true}, Value: numLit(2)},
		},
	}}
	coll.Models["main"] = m

	s := buildSession(coll)
	v, err := s.EvalParameter("main", "speed")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := v.AsNumber()
	if n.ScalarValue() != 2 {
		t.Errorf("got %v, want 2", v)
	}
}

func TestEvalBuiltinCall(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	m.Parameters["s"] = &ir.Parameter{Identifier: "s", Value: paramExpr(&ir.FunctionCall{
		Name: ir.FunctionName{Builtin: ir.BuiltinSqrt},
		Args: []ir.Expr{numLit(9)},
	})}
	coll.Models["main"] = m

	s := buildSession(coll)
	v, err := s.EvalParameter("main", "s")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := v.AsNumber()
	if n.ScalarValue() != 3 {
		t.Errorf("got %v, want 3", v)
	}
}

func TestEvalImportedCall(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	m.Parameters["d"] = &ir.Parameter{Identifier: "d", Value: paramExpr(&ir.FunctionCall{
		Name: ir.FunctionName{IsImport: true, Import: "double"},
		Args: []ir.Expr{numLit(4)},
	})}
	coll.Models["main"] = m

	s := buildSession(coll)
	v, err := s.EvalParameter("main", "d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := v.AsNumber()
	if n.ScalarValue() != 8 {
		t.Errorf("got %v, want 8", v)
	}
}

func TestEvalBuiltinVariable(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	m.Parameters["p"] = &ir.Parameter{Identifier: "p", Value: paramExpr(&ir.Variable{Kind: ir.VarBuiltin, Name: "pi"})}
	coll.Models["main"] = m

	s := buildSession(coll)
	v, err := s.EvalParameter("main", "p")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := v.AsNumber()
	if n.ScalarValue() != 3.14159 {
		t.Errorf("got %v, want pi", v)
	}
}

func TestEvalLimitViolation(t *testing.T) {
	coll := ir.NewModelCollection()
	m := ir.NewModel("main")
	m.Parameters["x"] = &ir.Parameter{
		Identifier: "x",
		Value:      paramExpr(numLit(10)),
		Limits:     &ir.Limits{Continuous: true, Max: numLit(5)},
	}
	coll.Models["main"] = m

	s := NewSession(coll, stubInvoker{}, stubBuiltins{}, WithLimitChecking(true))
	_, err := s.EvalParameter("main", "x")
	if err == nil {
		t.Fatal("expected a limit violation")
	}
	evalErr, ok := err.(*Error)
	if !ok || evalErr.Kind != "LimitViolation" {
		t.Errorf("got %v, want LimitViolation", err)
	}
}

func TestEvalExternalParameter(t *testing.T) {
	coll := ir.NewModelCollection()
	engine := ir.NewModel("engine")
	engine.Parameters["thrust"] = &ir.Parameter{Identifier: "thrust", Value: paramExpr(numLit(100))}
	coll.Models["engine"] = engine

	main := ir.NewModel("main")
	main.Parameters["t"] = &ir.Parameter{Identifier: "t", Value: paramExpr(&ir.Variable{
		Kind: ir.VarExternal, ExternalModel: "engine", ParameterName: "thrust",
	})}
	coll.Models["main"] = main

	s := buildSession(coll)
	v, err := s.EvalParameter("main", "t")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, _ := v.AsNumber()
	if n.ScalarValue() != 100 {
		t.Errorf("got %v, want 100", v)
	}
}
