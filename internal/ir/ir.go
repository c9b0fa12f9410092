// Package ir defines the resolver's output representation: a
// ModelCollection of fully name-resolved Models, their Parameters and
// Tests lowered to IR expressions, as described in spec section 3.
package ir

import "github.com/careweather/oneil/internal/ounit"

// ModelPath identifies a model by its dotted import path, e.g.
// "vehicle.engine".
type ModelPath string

// ModelCollection owns every model loaded in one resolution session,
// plus the set of host (Python-like) import paths any model in it
// uses. It is built once by a loader and is read-only once frozen.
type ModelCollection struct {
	HostImports map[string]bool
	Models      map[ModelPath]*Model
}

func NewModelCollection() *ModelCollection {
	return &ModelCollection{
		HostImports: map[string]bool{},
		Models:      map[ModelPath]*Model{},
	}
}

// SubmodelRef is a resolved `use` target: the model path it points at.
// The span of the declaration that introduced it is not kept.
type SubmodelRef struct {
	Target ModelPath
}

// ReferenceRef is a resolved `from ... use` target.
type ReferenceRef struct {
	Target ModelPath
}

// Model is one resolved model file.
type Model struct {
	Path         ModelPath
	Submodels    map[string]SubmodelRef
	References   map[string]ReferenceRef
	Parameters   map[string]*Parameter
	Tests        map[int]*Test
	HostImports  map[string]bool
	HasError     bool
	Errors       []error
}

// NewModel builds an empty Model ready for a resolver to populate.
func NewModel(path ModelPath) *Model {
	return &Model{
		Path:        path,
		Submodels:   map[string]SubmodelRef{},
		References:  map[string]ReferenceRef{},
		Parameters:  map[string]*Parameter{},
		Tests:       map[int]*Test{},
		HostImports: map[string]bool{},
	}
}

// TraceLevel mirrors ast.TraceLevel at the IR layer.
type TraceLevel int

const (
	TraceNone TraceLevel = iota
	TraceTrace
	TraceDebug
)

// Limits is the resolved form of a parameter's optional limit
// declaration.
type Limits struct {
	Continuous bool
	Min, Max   Expr     // valid when Continuous
	Discrete   []Expr   // valid when !Continuous
}

// ParamValue is the resolved form of a parameter's value: either a
// single expression or a piecewise list, each with an optional unit.
type ParamValue struct {
	Piecewise bool
	Expr      Expr            // valid when !Piecewise
	Cases     []PiecewiseCase // valid when Piecewise
	Unit      *ounit.Composite
}

// PiecewiseCase is one (value, condition) pair of a piecewise value.
type PiecewiseCase struct {
	Value     Expr
	Condition Expr
}

// Parameter is a fully resolved model parameter.
type Parameter struct {
	Identifier   string
	Label        string
	Value        ParamValue
	Limits       *Limits
	Dependencies map[string]bool
	Performance  bool
	Trace        TraceLevel
}

// Test is a fully resolved test assertion.
type Test struct {
	Expr  Expr
	Trace TraceLevel
}
