package parser

import (
	"testing"

	"github.com/careweather/oneil/internal/ast"
)

func TestParseSimpleParameter(t *testing.T) {
	src := "`mass`: m = 3.5 : kg\n"
	model, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(model.TopDecls) != 1 {
		t.Fatalf("got %d top decls, want 1", len(model.TopDecls))
	}
	param, ok := model.TopDecls[0].(*ast.Parameter)
	if !ok {
		t.Fatalf("decl is %T, want *ast.Parameter", model.TopDecls[0])
	}
	if param.Identifier != "m" {
		t.Errorf("identifier = %q, want m", param.Identifier)
	}
	if param.Label != "mass" {
		t.Errorf("label = %q, want mass", param.Label)
	}
	simple, ok := param.Value.(*ast.Simple)
	if !ok {
		t.Fatalf("value is %T, want *ast.Simple", param.Value)
	}
	if simple.Unit == nil {
		t.Fatal("expected a unit")
	}
}

func TestParsePiecewiseParameter(t *testing.T) {
	src := "`speed`: v = {1 if x < 0}\n{2 if x >= 0} : m/s\n"
	model, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	param := model.TopDecls[0].(*ast.Parameter)
	pw, ok := param.Value.(*ast.Piecewise)
	if !ok {
		t.Fatalf("value is %T, want *ast.Piecewise", param.Value)
	}
	if len(pw.Parts) != 2 {
		t.Fatalf("got %d parts, want 2", len(pw.Parts))
	}
	if pw.Unit == nil {
		t.Fatal("expected a trailing unit")
	}
}

func TestParseImportAndUse(t *testing.T) {
	src := "import math\nuse vehicle.engine as eng\n"
	model, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(model.TopDecls) != 2 {
		t.Fatalf("got %d decls, want 2", len(model.TopDecls))
	}
	if _, ok := model.TopDecls[0].(*ast.Import); !ok {
		t.Errorf("decl 0 is %T, want *ast.Import", model.TopDecls[0])
	}
	use, ok := model.TopDecls[1].(*ast.UseModel)
	if !ok {
		t.Fatalf("decl 1 is %T, want *ast.UseModel", model.TopDecls[1])
	}
	if use.Alias == nil || *use.Alias != "eng" {
		t.Errorf("alias = %v, want eng", use.Alias)
	}
}

func TestParseChainedComparison(t *testing.T) {
	src := "test: a < b <= c\n"
	model, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	test := model.TopDecls[0].(*ast.Test)
	cmp, ok := test.Expr.(*ast.Comparison)
	if !ok {
		t.Fatalf("expr is %T, want *ast.Comparison", test.Expr)
	}
	if len(cmp.Tail) != 1 {
		t.Fatalf("got %d tail entries, want 1", len(cmp.Tail))
	}
	if cmp.Tail[0].Op != ast.CmpLe {
		t.Errorf("tail op = %v, want CmpLe", cmp.Tail[0].Op)
	}
}

func TestParseSectionRecovery(t *testing.T) {
	src := "section\n`a`: a = 1\n"
	_, errs := Parse(src)
	if len(errs) == 0 {
		t.Fatal("expected an error for a section missing its label")
	}
}

func TestParseRecoversFromBadDeclAndContinues(t *testing.T) {
	src := "@\n`a`: a = 1\n"
	model, errs := Parse(src)
	if len(errs) == 0 {
		t.Fatal("expected at least one error for the illegal character")
	}
	if len(model.TopDecls) != 1 {
		t.Fatalf("got %d decls, want the recovered parameter to still parse", len(model.TopDecls))
	}
}

func TestParseUnitExpr(t *testing.T) {
	src := "`force`: f = 1 : kg*m/s^2\n"
	model, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	param := model.TopDecls[0].(*ast.Parameter)
	simple := param.Value.(*ast.Simple)
	quot, ok := simple.Unit.(*ast.UnitQuotient)
	if !ok {
		t.Fatalf("unit is %T, want *ast.UnitQuotient", simple.Unit)
	}
	rhs, ok := quot.Right.(*ast.UnitIdentifier)
	if !ok || rhs.Name != "s" || rhs.Exponent != 2 {
		t.Errorf("quotient rhs = %+v, want s^2", quot.Right)
	}
}
