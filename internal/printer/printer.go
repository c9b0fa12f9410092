// Package printer renders a resolved Model as an indented debug tree:
// submodels, references, parameters (with their dependency set and
// unit), and tests. It exists for the `oneil resolve` CLI command
// and for snapshot-testing the resolver's output shape,
// mirroring the teacher's ast.Program.String() debug rendering.
package printer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/careweather/oneil/internal/ir"
)

// Model renders one resolved Model as an indented tree.
func Model(m *ir.Model) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "model %s\n", m.Path)
	if m.HasError {
		fmt.Fprintf(&sb, "  (has %d error(s))\n", len(m.Errors))
	}

	for _, name := range sortedKeys(m.Submodels) {
		fmt.Fprintf(&sb, "  use %s -> %s\n", name, m.Submodels[name].Target)
	}
	for _, name := range sortedKeys(m.References) {
		fmt.Fprintf(&sb, "  from %s -> %s\n", name, m.References[name].Target)
	}
	for _, imp := range sortedSet(m.HostImports) {
		fmt.Fprintf(&sb, "  import %s\n", imp)
	}

	for _, name := range sortedParamKeys(m.Parameters) {
		printParameter(&sb, m.Parameters[name])
	}

	for _, idx := range sortedTestKeys(m.Tests) {
		fmt.Fprintf(&sb, "  test #%d: %s\n", idx, exprKind(m.Tests[idx].Expr))
	}

	return sb.String()
}

func printParameter(sb *strings.Builder, p *ir.Parameter) {
	label := p.Identifier
	if p.Label != "" {
		label = fmt.Sprintf("%s (%s)", p.Identifier, p.Label)
	}
	fmt.Fprintf(sb, "  parameter %s\n", label)

	if p.Value.Piecewise {
		fmt.Fprintf(sb, "    piecewise (%d case(s))\n", len(p.Value.Cases))
	} else {
		fmt.Fprintf(sb, "    value: %s\n", exprKind(p.Value.Expr))
	}
	if p.Value.Unit != nil {
		fmt.Fprintf(sb, "    unit: %s\n", p.Value.Unit)
	}
	if p.Limits != nil {
		if p.Limits.Continuous {
			fmt.Fprintf(sb, "    limits: continuous\n")
		} else {
			fmt.Fprintf(sb, "    limits: discrete (%d choice(s))\n", len(p.Limits.Discrete))
		}
	}
	if len(p.Dependencies) > 0 {
		fmt.Fprintf(sb, "    depends on: %s\n", strings.Join(sortedSet(p.Dependencies), ", "))
	}
}

// exprKind describes an expression node's shape without fully
// rendering it, which is all the debug tree needs.
func exprKind(e ir.Expr) string {
	switch n := e.(type) {
	case *ir.Literal:
		return "literal"
	case *ir.Variable:
		switch n.Kind {
		case ir.VarBuiltin:
			return fmt.Sprintf("builtin(%s)", n.Name)
		case ir.VarExternal:
			return fmt.Sprintf("external(%s.%s)", n.ExternalModel, n.ParameterName)
		default:
			return fmt.Sprintf("parameter(%s)", n.ParameterName)
		}
	case *ir.UnaryExpr:
		return fmt.Sprintf("unary(%s)", exprKind(n.Operand))
	case *ir.BinaryExpr:
		return fmt.Sprintf("binary(%s, %s)", exprKind(n.Left), exprKind(n.Right))
	case *ir.ComparisonExpr:
		return fmt.Sprintf("comparison(%d link(s))", len(n.Tail)+1)
	case *ir.FunctionCall:
		if n.Name.IsImport {
			return fmt.Sprintf("call(import %s)", n.Name.Import)
		}
		return "call(builtin)"
	default:
		return "?"
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedSet(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedParamKeys(m map[string]*ir.Parameter) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTestKeys(m map[int]*ir.Test) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
