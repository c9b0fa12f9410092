package ir

// Expr is implemented by every resolved expression node.
type Expr interface {
	exprNode()
}

// BinaryOp mirrors ast.BinaryOp at the IR layer.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpEscapedSub
	OpMul
	OpDiv
	OpEscapedDiv
	OpRem
	OpPow
	OpMinMax
	OpAnd
	OpOr
)

// BinaryExpr is a resolved two-operand operator expression.
type BinaryExpr struct {
	Op          BinaryOp
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryOp mirrors ast.UnaryOp at the IR layer.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpNot
)

// UnaryExpr is a resolved prefix operator expression.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// FunctionName identifies the callee of a FunctionCall: either an
// internal builtin or a name deferred to the host's Invoker.
type FunctionName struct {
	Builtin  BuiltinFunction
	IsImport bool
	Import   string
}

// BuiltinFunction enumerates the closed set of builtins from spec
// section 4.6.
type BuiltinFunction int

const (
	BuiltinMin BuiltinFunction = iota
	BuiltinMax
	BuiltinSin
	BuiltinCos
	BuiltinTan
	BuiltinAsin
	BuiltinAcos
	BuiltinAtan
	BuiltinSqrt
	BuiltinLn
	BuiltinLog
	BuiltinLog10
	BuiltinFloor
	BuiltinCeiling
	BuiltinExtent
	BuiltinRange
	BuiltinAbs
	BuiltinSign
	BuiltinMid
	BuiltinStrip
	BuiltinMinMax // a.k.a. mnmx
)

var builtinNames = map[string]BuiltinFunction{
	"min":      BuiltinMin,
	"max":      BuiltinMax,
	"sin":      BuiltinSin,
	"cos":      BuiltinCos,
	"tan":      BuiltinTan,
	"asin":     BuiltinAsin,
	"acos":     BuiltinAcos,
	"atan":     BuiltinAtan,
	"sqrt":     BuiltinSqrt,
	"ln":       BuiltinLn,
	"log":      BuiltinLog,
	"log10":    BuiltinLog10,
	"floor":    BuiltinFloor,
	"ceiling":  BuiltinCeiling,
	"extent":   BuiltinExtent,
	"range":    BuiltinRange,
	"abs":      BuiltinAbs,
	"sign":     BuiltinSign,
	"mid":      BuiltinMid,
	"strip":    BuiltinStrip,
	"minmax":   BuiltinMinMax,
	"mnmx":     BuiltinMinMax,
}

// LookupBuiltin resolves a call name to a BuiltinFunction.
func LookupBuiltin(name string) (BuiltinFunction, bool) {
	b, ok := builtinNames[name]
	return b, ok
}

// FunctionCall is a resolved call to a builtin or an imported name.
type FunctionCall struct {
	Name FunctionName
	Args []Expr
}

func (*FunctionCall) exprNode() {}

// VariableKind tags which of the three variable forms a Variable is.
type VariableKind int

const (
	VarBuiltin VariableKind = iota
	VarParameter
	VarExternal
)

// Variable is a resolved name reference: a host-provided Builtin
// constant, a Parameter in the current model, or an External
// parameter reached through a submodel/reference path.
type Variable struct {
	Kind           VariableKind
	Name           string // valid when Kind == VarBuiltin
	ParameterName  string // valid when Kind == VarParameter or VarExternal
	ExternalModel  ModelPath
}

func (*Variable) exprNode() {}

// LiteralKind mirrors ast.LiteralKind at the IR layer.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitBoolean
)

// Literal is a resolved constant.
type Literal struct {
	Kind    LiteralKind
	Number  float64
	Str     string
	Boolean bool
}

func (*Literal) exprNode() {}

// CompareOp mirrors ast.CompareOp at the IR layer.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// ComparisonTail is one `(op, rhs)` link of a chained comparison.
type ComparisonTail struct {
	Op  CompareOp
	Rhs Expr
}

// ComparisonExpr is a resolved (possibly chained) comparison.
type ComparisonExpr struct {
	Left, Right Expr
	Op          CompareOp
	Tail        []ComparisonTail
}

func (*ComparisonExpr) exprNode() {}
