package resolver

import (
	"strings"

	"github.com/careweather/oneil/internal/ast"
	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/ounit"
)

func (r *modelResolver) resolveExpr(e ast.Expr) (ir.Expr, *Error) {
	switch n := e.(type) {
	case *ast.Literal:
		return r.resolveLiteral(n), nil
	case *ast.Identifier:
		return r.resolveIdentifier(n)
	case *ast.Accessor:
		return r.resolveAccessor(n)
	case *ast.Call:
		return r.resolveCall(n)
	case *ast.Unary:
		operand, err := r.resolveExpr(n.Operand)
		if err != nil {
			return nil, err
		}
		op := ir.OpNeg
		if n.Op == ast.UnaryNot {
			op = ir.OpNot
		}
		return &ir.UnaryExpr{Op: op, Operand: operand}, nil
	case *ast.Binary:
		left, err := r.resolveExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := r.resolveExpr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ir.BinaryExpr{Op: binaryOp(n.Op), Left: left, Right: right}, nil
	case *ast.Comparison:
		left, err := r.resolveExpr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := r.resolveExpr(n.Right)
		if err != nil {
			return nil, err
		}
		var tail []ir.ComparisonTail
		for _, t := range n.Tail {
			rhs, err := r.resolveExpr(t.Rhs)
			if err != nil {
				return nil, err
			}
			tail = append(tail, ir.ComparisonTail{Op: compareOp(t.Op), Rhs: rhs})
		}
		return &ir.ComparisonExpr{Left: left, Op: compareOp(n.Op), Right: right, Tail: tail}, nil
	default:
		return nil, newErr("ParameterResolution.VariableResolution", "unsupported expression form", e.Span())
	}
}

func (r *modelResolver) resolveLiteral(n *ast.Literal) ir.Expr {
	switch n.Kind {
	case ast.LiteralString:
		return &ir.Literal{Kind: ir.LitString, Str: n.Str}
	case ast.LiteralBoolean:
		return &ir.Literal{Kind: ir.LitBoolean, Boolean: n.Boolean}
	default:
		return &ir.Literal{Kind: ir.LitNumber, Number: n.Number}
	}
}

func (r *modelResolver) resolveIdentifier(n *ast.Identifier) (ir.Expr, *Error) {
	if _, ok := r.model.Parameters[n.Name]; ok {
		return &ir.Variable{Kind: ir.VarParameter, ParameterName: n.Name}, nil
	}
	if r.loader.builtins.HasBuiltinValue(n.Name) {
		return &ir.Variable{Kind: ir.VarBuiltin, Name: n.Name}, nil
	}
	err := newErr("VariableResolution.UndefinedParameter", n.Name, n.Span())
	return &ir.Variable{Kind: ir.VarBuiltin, Name: n.Name}, err
}

// flattenChain unrolls an Accessor chain `a.b.c` into ["a","b","c"].
func flattenChain(e ast.Expr) []string {
	switch n := e.(type) {
	case *ast.Identifier:
		return []string{n.Name}
	case *ast.Accessor:
		return append(flattenChain(n.Base), n.Field)
	default:
		return nil
	}
}

func (r *modelResolver) resolveAccessor(n *ast.Accessor) (ir.Expr, *Error) {
	parts := flattenChain(n)
	if len(parts) < 2 {
		return nil, newErr("VariableResolution.ReferenceResolutionFailed", strings.Join(parts, "."), n.Span())
	}
	first := parts[0]
	middle := parts[1 : len(parts)-1]
	last := parts[len(parts)-1]

	var target ir.ModelPath
	if sub, ok := r.model.Submodels[first]; ok {
		target = sub.Target
	} else if ref, ok := r.model.References[first]; ok {
		target = ref.Target
	} else {
		err := newErr("VariableResolution.UndefinedReference", first, n.Span())
		return &ir.Variable{Kind: ir.VarExternal, ExternalModel: target, ParameterName: last}, err
	}

	for _, seg := range middle {
		tm, ok := r.loader.collection.Models[target]
		if !ok {
			err := newErr("VariableResolution.UndefinedSubmodelInReference", seg, n.Span())
			return &ir.Variable{Kind: ir.VarExternal, ExternalModel: target, ParameterName: last}, err
		}
		next, ok := tm.Submodels[seg]
		if !ok {
			err := newErr("VariableResolution.UndefinedSubmodelInReference", seg, n.Span())
			return &ir.Variable{Kind: ir.VarExternal, ExternalModel: target, ParameterName: last}, err
		}
		target = next.Target
	}

	tm, ok := r.loader.collection.Models[target]
	if !ok {
		err := newErr("VariableResolution.ModelHasError", string(target), n.Span())
		return &ir.Variable{Kind: ir.VarExternal, ExternalModel: target, ParameterName: last}, err
	}
	if tm.HasError {
		err := newErr("VariableResolution.ModelHasError", string(target), n.Span())
		return &ir.Variable{Kind: ir.VarExternal, ExternalModel: target, ParameterName: last}, err
	}
	if _, ok := tm.Parameters[last]; !ok {
		err := newErr("VariableResolution.UndefinedParameterInReference", last, n.Span())
		return &ir.Variable{Kind: ir.VarExternal, ExternalModel: target, ParameterName: last}, err
	}

	return &ir.Variable{Kind: ir.VarExternal, ExternalModel: target, ParameterName: last}, nil
}

func (r *modelResolver) resolveCall(n *ast.Call) (ir.Expr, *Error) {
	var args []ir.Expr
	for _, a := range n.Args {
		arg, err := r.resolveExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if b, ok := ir.LookupBuiltin(n.Name); ok {
		return &ir.FunctionCall{Name: ir.FunctionName{Builtin: b}, Args: args}, nil
	}
	return &ir.FunctionCall{Name: ir.FunctionName{IsImport: true, Import: n.Name}, Args: args}, nil
}

func binaryOp(op ast.BinaryOp) ir.BinaryOp {
	switch op {
	case ast.BinAdd:
		return ir.OpAdd
	case ast.BinSub:
		return ir.OpSub
	case ast.BinEscapedSub:
		return ir.OpEscapedSub
	case ast.BinMul:
		return ir.OpMul
	case ast.BinDiv:
		return ir.OpDiv
	case ast.BinEscapedDiv:
		return ir.OpEscapedDiv
	case ast.BinRem:
		return ir.OpRem
	case ast.BinPow:
		return ir.OpPow
	case ast.BinMinMax:
		return ir.OpMinMax
	case ast.BinAnd:
		return ir.OpAnd
	default:
		return ir.OpOr
	}
}

func compareOp(op ast.CompareOp) ir.CompareOp {
	switch op {
	case ast.CmpEq:
		return ir.CmpEq
	case ast.CmpNe:
		return ir.CmpNe
	case ast.CmpLt:
		return ir.CmpLt
	case ast.CmpLe:
		return ir.CmpLe
	case ast.CmpGt:
		return ir.CmpGt
	default:
		return ir.CmpGe
	}
}

// resolveUnitExpr implements the recursive descent from spec section
// 4.3: a product descends both sides preserving the inverse flag, a
// quotient flips the flag on the right side, a leaf emits (name,
// ±exponent).
func (r *modelResolver) resolveUnitExpr(u ast.UnitExpr) ounit.Composite {
	return resolveUnit(u, false)
}

func resolveUnit(u ast.UnitExpr, invert bool) ounit.Composite {
	switch n := u.(type) {
	case *ast.UnitIdentifier:
		if n.Name == "one" {
			return ounit.One()
		}
		exp := n.Exponent
		if invert {
			exp = -exp
		}
		return ounit.NewAtom(n.Name, exp)
	case *ast.UnitProduct:
		return resolveUnit(n.Left, invert).Mul(resolveUnit(n.Right, invert))
	case *ast.UnitQuotient:
		return resolveUnit(n.Left, invert).Mul(resolveUnit(n.Right, !invert))
	case *ast.UnitParen:
		return resolveUnit(n.Inner, invert)
	default:
		return ounit.One()
	}
}
