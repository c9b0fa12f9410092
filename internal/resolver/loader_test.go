package resolver

import (
	"fmt"
	"testing"

	"github.com/careweather/oneil/internal/ast"
	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/ozerr"
	"github.com/careweather/oneil/internal/parser"
)

// mapFileLoader is an in-memory FileLoader over a fixed set of model
// sources, used to drive the resolver in tests without touching a
// filesystem.
type mapFileLoader struct {
	sources map[ir.ModelPath]string
	badPy   map[string]bool
}

func (m *mapFileLoader) ParseAST(path ir.ModelPath) (*ast.Model, []ozerr.SourceError) {
	src, ok := m.sources[path]
	if !ok {
		return nil, []ozerr.SourceError{&parserStubError{msg: fmt.Sprintf("no such model %q", path)}}
	}
	return parser.Parse(src)
}

func (m *mapFileLoader) ValidatePythonImport(path string) error {
	if m.badPy[path] {
		return fmt.Errorf("no such python module %q", path)
	}
	return nil
}

type parserStubError struct{ msg string }

func (e *parserStubError) Error() string          { return e.msg }
func (e *parserStubError) ErrorSpan() ozerr.Span { return ozerr.Span{} }

type noBuiltins struct{}

func (noBuiltins) HasBuiltinValue(name string) bool { return name == "pi" || name == "g" }

func TestLoadSimpleModel(t *testing.T) {
	files := &mapFileLoader{sources: map[ir.ModelPath]string{
		"main": "`mass`: m = 3 : kg\n`weight`: w = m * g\n",
	}}
	loader := NewLoader(files, noBuiltins{})
	coll, err := loader.Load("main")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	m := coll.Models["main"]
	if m.HasError {
		t.Fatalf("unexpected errors: %v", m.Errors)
	}
	w := m.Parameters["w"]
	if !w.Dependencies["m"] {
		t.Errorf("expected w to depend on m, got %v", w.Dependencies)
	}
}

func TestLoadDetectsUndefinedParameter(t *testing.T) {
	files := &mapFileLoader{sources: map[ir.ModelPath]string{
		"main": "`x`: x = y + 1\n",
	}}
	loader := NewLoader(files, noBuiltins{})
	coll, _ := loader.Load("main")
	m := coll.Models["main"]
	if !m.HasError {
		t.Fatal("expected an undefined-parameter error")
	}
}

func TestLoadDetectsCircularDependency(t *testing.T) {
	files := &mapFileLoader{sources: map[ir.ModelPath]string{
		"main": "`a`: a = b + 1\n`b`: b = a + 1\n",
	}}
	loader := NewLoader(files, noBuiltins{})
	coll, _ := loader.Load("main")
	m := coll.Models["main"]
	if !m.HasError {
		t.Fatal("expected a circular dependency error")
	}
	found := false
	for _, e := range m.Errors {
		if re, ok := e.(*Error); ok && re.Kind == "ParameterResolution.CircularDependency" {
			found = true
		}
	}
	if !found {
		t.Errorf("errors did not include CircularDependency: %v", m.Errors)
	}
}

func TestLoadResolvesSubmodel(t *testing.T) {
	files := &mapFileLoader{sources: map[ir.ModelPath]string{
		"main":   "use engine as eng\n`thrust`: t = eng.thrust_n\n",
		"engine": "`thrust`: thrust_n = 100\n",
	}}
	loader := NewLoader(files, noBuiltins{})
	coll, err := loader.Load("main")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	m := coll.Models["main"]
	if m.HasError {
		t.Fatalf("unexpected errors: %v", m.Errors)
	}
	param := m.Parameters["t"]
	variable, ok := param.Value.Expr.(*ir.Variable)
	if !ok {
		t.Fatalf("expr is %T, want *ir.Variable", param.Value.Expr)
	}
	if variable.Kind != ir.VarExternal || variable.ExternalModel != "engine" || variable.ParameterName != "thrust_n" {
		t.Errorf("variable = %+v, want external engine.thrust_n", variable)
	}
}

func TestLoadDetectsDuplicateImport(t *testing.T) {
	files := &mapFileLoader{sources: map[ir.ModelPath]string{
		"main": "import math\nimport math\n`x`: x = 1\n",
	}}
	loader := NewLoader(files, noBuiltins{})
	coll, _ := loader.Load("main")
	m := coll.Models["main"]
	if !m.HasError {
		t.Fatal("expected a duplicate-import error")
	}
}
