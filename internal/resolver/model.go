package resolver

import (
	"strings"

	"github.com/careweather/oneil/internal/ast"
	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/ounit"
	"github.com/careweather/oneil/internal/ozerr"
)

// modelResolver resolves a single model's AST into its IR Model,
// given a Loader to recurse into `use`/`from` targets.
type modelResolver struct {
	loader *Loader
	model  *ir.Model
	ast    *ast.Model
}

func (r *modelResolver) addErr(kind, detail string, span ozerr.Span) {
	r.model.Errors = append(r.model.Errors, newErr(kind, detail, span))
	r.model.HasError = true
}

func (r *modelResolver) allDecls() []ast.Decl {
	decls := append([]ast.Decl{}, r.ast.TopDecls...)
	for _, sec := range r.ast.Sections {
		decls = append(decls, sec.Decls...)
	}
	return decls
}

func (r *modelResolver) resolve() {
	decls := r.allDecls()

	// Pass 1: imports, submodels, references, and parameter/test
	// identifier registration (so forward references within one
	// model resolve regardless of declaration order).
	var paramDecls []*ast.Parameter
	var testDecls []*ast.Test
	testIndex := 0

	for _, d := range decls {
		switch decl := d.(type) {
		case *ast.Import:
			r.resolveImport(decl)
		case *ast.UseModel:
			r.resolveUseModel(decl)
		case *ast.FromUse:
			r.resolveFromUse(decl)
		case *ast.Parameter:
			if _, dup := r.model.Parameters[decl.Identifier]; dup {
				r.addErr("ParameterResolution.DuplicateParameter", decl.Identifier, decl.Span())
				continue
			}
			r.model.Parameters[decl.Identifier] = &ir.Parameter{
				Identifier:   decl.Identifier,
				Label:        decl.Label,
				Dependencies: map[string]bool{},
				Performance:  decl.Performance,
				Trace:        traceLevel(decl.Trace),
			}
			paramDecls = append(paramDecls, decl)
		case *ast.Test:
			idx := testIndex
			testIndex++
			if _, dup := r.model.Tests[idx]; dup {
				r.addErr("TestResolution", "duplicate test index", decl.Span())
				continue
			}
			testDecls = append(testDecls, decl)
			_ = idx
		}
	}

	// Pass 2: resolve bodies now that every parameter name in this
	// model is known.
	for _, decl := range paramDecls {
		r.resolveParameterBody(decl)
	}
	for i, decl := range testDecls {
		r.resolveTest(i, decl)
	}

	r.checkParameterCycles()
}

func traceLevel(t ast.TraceLevel) ir.TraceLevel {
	switch t {
	case ast.TraceTrace:
		return ir.TraceTrace
	case ast.TraceDebug:
		return ir.TraceDebug
	default:
		return ir.TraceNone
	}
}

func (r *modelResolver) resolveImport(decl *ast.Import) {
	if r.model.HostImports[decl.Path] {
		r.addErr("ImportResolution.DuplicateImport", decl.Path, decl.Span())
		return
	}
	if err := r.loader.files.ValidatePythonImport(decl.Path); err != nil {
		r.addErr("ImportResolution.FailedValidation", decl.Path+": "+err.Error(), decl.Span())
		return
	}
	r.model.HostImports[decl.Path] = true
	r.loader.collection.HostImports[decl.Path] = true
}

func modelPath(parts []string) ir.ModelPath {
	return ir.ModelPath(strings.Join(parts, "."))
}

func aliasOrLast(alias *string, parts []string) string {
	if alias != nil {
		return *alias
	}
	return parts[len(parts)-1]
}

func (r *modelResolver) resolveUseModel(decl *ast.UseModel) {
	name := aliasOrLast(decl.Alias, decl.ModelPath)
	if _, dup := r.model.Submodels[name]; dup {
		r.addErr("ModelImportResolution.DuplicateSubmodelName", name, decl.Span())
		return
	}
	target := modelPath(decl.ModelPath)
	sub := r.loader.loadModel(target)
	if sub.HasError {
		r.addErr("ModelImportResolution.ModelHasError", string(target), decl.Span())
	}
	r.model.Submodels[name] = ir.SubmodelRef{Target: target}
}

func (r *modelResolver) resolveFromUse(decl *ast.FromUse) {
	if _, dup := r.model.References[decl.Alias]; dup {
		r.addErr("ModelImportResolution.DuplicateReferenceName", decl.Alias, decl.Span())
		return
	}
	target := modelPath(decl.ModelPath)
	ref := r.loader.loadModel(target)
	if ref.HasError {
		r.addErr("ModelImportResolution.ModelHasError", string(target), decl.Span())
	}
	r.model.References[decl.Alias] = ir.ReferenceRef{Target: target}
}

func (r *modelResolver) resolveParameterBody(decl *ast.Parameter) {
	param := r.model.Parameters[decl.Identifier]

	value, err := r.resolveParamValue(decl.Value)
	if err != nil {
		r.addErr("ParameterResolution.VariableResolution", err.Error(), decl.Span())
	}
	param.Value = value

	if decl.Limits != nil {
		param.Limits = r.resolveLimits(decl.Limits)
	}

	collectDependencies(value, param.Dependencies)
}

func (r *modelResolver) resolveParamValue(v ast.ParamValue) (ir.ParamValue, *Error) {
	switch val := v.(type) {
	case *ast.Simple:
		expr, err := r.resolveExpr(val.Expr)
		if err != nil {
			return ir.ParamValue{}, err
		}
		var unit *ounit.Composite
		if val.Unit != nil {
			u := r.resolveUnitExpr(val.Unit)
			unit = &u
		}
		return ir.ParamValue{Expr: expr, Unit: unit}, nil
	case *ast.Piecewise:
		var cases []ir.PiecewiseCase
		for _, part := range val.Parts {
			value, err := r.resolveExpr(part.Value)
			if err != nil {
				return ir.ParamValue{}, err
			}
			cond, err := r.resolveExpr(part.Condition)
			if err != nil {
				return ir.ParamValue{}, err
			}
			cases = append(cases, ir.PiecewiseCase{Value: value, Condition: cond})
		}
		var unit *ounit.Composite
		if val.Unit != nil {
			u := r.resolveUnitExpr(val.Unit)
			unit = &u
		}
		return ir.ParamValue{Piecewise: true, Cases: cases, Unit: unit}, nil
	default:
		return ir.ParamValue{}, newErr("ParameterResolution.VariableResolution", "unknown value form", ozerr.Span{})
	}
}

func (r *modelResolver) resolveLimits(l ast.Limits) *ir.Limits {
	switch lim := l.(type) {
	case *ast.ContinuousLimits:
		min, _ := r.resolveExpr(lim.Min)
		max, _ := r.resolveExpr(lim.Max)
		return &ir.Limits{Continuous: true, Min: min, Max: max}
	case *ast.DiscreteLimits:
		var values []ir.Expr
		for _, v := range lim.Values {
			e, _ := r.resolveExpr(v)
			values = append(values, e)
		}
		return &ir.Limits{Discrete: values}
	default:
		return nil
	}
}

func (r *modelResolver) resolveTest(idx int, decl *ast.Test) {
	expr, err := r.resolveExpr(decl.Expr)
	if err != nil {
		r.addErr("TestResolution", err.Error(), decl.Span())
	}
	r.model.Tests[idx] = &ir.Test{Expr: expr, Trace: traceLevel(decl.Trace)}
}

// collectDependencies walks a resolved expression, recording every
// in-model Parameter variable it mentions (invariant 3 from spec
// section 3): External/Builtin variables never count.
func collectDependencies(v ir.ParamValue, deps map[string]bool) {
	if v.Piecewise {
		for _, c := range v.Cases {
			walkDeps(c.Value, deps)
			walkDeps(c.Condition, deps)
		}
		return
	}
	walkDeps(v.Expr, deps)
}

func walkDeps(e ir.Expr, deps map[string]bool) {
	switch n := e.(type) {
	case nil:
		return
	case *ir.Variable:
		if n.Kind == ir.VarParameter {
			deps[n.ParameterName] = true
		}
	case *ir.BinaryExpr:
		walkDeps(n.Left, deps)
		walkDeps(n.Right, deps)
	case *ir.UnaryExpr:
		walkDeps(n.Operand, deps)
	case *ir.FunctionCall:
		for _, a := range n.Args {
			walkDeps(a, deps)
		}
	case *ir.ComparisonExpr:
		walkDeps(n.Left, deps)
		walkDeps(n.Right, deps)
		for _, t := range n.Tail {
			walkDeps(t.Rhs, deps)
		}
	}
}
