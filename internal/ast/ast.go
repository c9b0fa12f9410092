// Package ast defines the parser's output tree for an Oneil model
// file: the Model, its declarations, and the expression/unit grammars
// described in spec section 3.
package ast

import "github.com/careweather/oneil/internal/ozerr"

// Node is implemented by every AST node; it exposes the node's
// combined source span.
type Node interface {
	Span() ozerr.Span
}

// BaseNode carries the span shared by every concrete node type.
type BaseNode struct {
	span ozerr.Span
}

func NewBase(span ozerr.Span) BaseNode { return BaseNode{span: span} }

func (b BaseNode) Span() ozerr.Span { return b.span }

// Note is a `~`-introduced free-text annotation attached to a model,
// section, parameter, or test.
type Note struct {
	BaseNode
	Text string
}

// Model is the root of a parsed source file.
type Model struct {
	BaseNode
	Note     *Note
	TopDecls []Decl
	Sections []Section
}

// Section groups declarations under a labeled heading.
type Section struct {
	BaseNode
	Label string
	Note  *Note
	Decls []Decl
}

// Decl is implemented by every top-level/section-level declaration:
// Import, UseModel, FromUse, Parameter, Test.
type Decl interface {
	Node
	declNode()
}

// Import declares that the model uses a host (Python-like) module.
type Import struct {
	BaseNode
	Path string
}

func (*Import) declNode() {}

// InputBinding is one `name = expr` pair inside a model_inputs list.
type InputBinding struct {
	Name string
	Expr Expr
}

// UseModel declares a submodel: `use a.b.c(...) as alias`.
type UseModel struct {
	BaseNode
	ModelPath []string
	Inputs    []InputBinding
	Alias     *string
}

func (*UseModel) declNode() {}

// FromUse declares a reference: `from a.b use c(...) as alias`.
type FromUse struct {
	BaseNode
	ModelPath  []string
	Identifier string
	Inputs     []InputBinding
	Alias      string
}

func (*FromUse) declNode() {}

// TraceLevel is the optional `*`/`**` marker on a parameter or test.
type TraceLevel int

const (
	TraceNone TraceLevel = iota
	TraceTrace
	TraceDebug
)

// ParamValue is either a Simple value or a Piecewise value.
type ParamValue interface {
	Node
	paramValueNode()
}

// Simple is `expr [: unit]`.
type Simple struct {
	BaseNode
	Expr Expr
	Unit UnitExpr // nil if absent
}

func (*Simple) paramValueNode() {}

// PiecewisePart is one `{ expr if cond }` case.
type PiecewisePart struct {
	BaseNode
	Value     Expr
	Condition Expr
}

// Piecewise is one or more PiecewiseParts with an optional trailing unit.
type Piecewise struct {
	BaseNode
	Parts []PiecewisePart
	Unit  UnitExpr
}

func (*Piecewise) paramValueNode() {}

// Limits is either ContinuousLimits or DiscreteLimits.
type Limits interface {
	Node
	limitsNode()
}

// ContinuousLimits is `(min, max)`.
type ContinuousLimits struct {
	BaseNode
	Min, Max Expr
}

func (*ContinuousLimits) limitsNode() {}

// DiscreteLimits is `[v1, v2, ...]`.
type DiscreteLimits struct {
	BaseNode
	Values []Expr
}

func (*DiscreteLimits) limitsNode() {}

// Parameter is a declared model parameter.
type Parameter struct {
	BaseNode
	Performance bool // leading "$" marker
	Trace       TraceLevel
	Label       string
	Identifier  string
	Value       ParamValue
	Limits      Limits // nil if absent
	Note        *Note
}

func (*Parameter) declNode() {}

// Test is a boolean assertion.
type Test struct {
	BaseNode
	Trace TraceLevel
	Expr  Expr
	Note  *Note
}

func (*Test) declNode() {}
