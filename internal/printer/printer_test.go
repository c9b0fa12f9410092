package printer

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/ounit"
)

func TestMainModel(t *testing.T) {
	m := ir.NewModel("vehicle")
	m.Submodels["eng"] = ir.SubmodelRef{Target: "vehicle.engine"}
	m.HostImports["aero"] = true

	kg := ounit.NewAtom("kg", 1)
	m.Parameters["mass"] = &ir.Parameter{
		Identifier:   "mass",
		Label:        "total mass",
		Value:        ir.ParamValue{Expr: &ir.Literal{Kind: ir.LitNumber, Number: 1200}, Unit: &kg},
		Dependencies: map[string]bool{},
	}
	m.Parameters["thrust_to_weight"] = &ir.Parameter{
		Identifier: "thrust_to_weight",
		Value: ir.ParamValue{Expr: &ir.BinaryExpr{
			Op:   ir.OpDiv,
			Left: &ir.Variable{Kind: ir.VarExternal, ExternalModel: "vehicle.engine", ParameterName: "thrust"},
			Right: &ir.Variable{Kind: ir.VarParameter, ParameterName: "mass"},
		}},
		Dependencies: map[string]bool{"mass": true},
	}
	m.Tests[0] = &ir.Test{Expr: &ir.ComparisonExpr{
		Left:  &ir.Variable{Kind: ir.VarParameter, ParameterName: "thrust_to_weight"},
		Right: &ir.Literal{Kind: ir.LitNumber, Number: 1},
		Op:    ir.CmpGt,
	}}

	snaps.MatchSnapshot(t, Model(m))
}

func TestMainModelWithErrors(t *testing.T) {
	m := ir.NewModel("broken")
	m.HasError = true
	m.Errors = append(m.Errors, errPlaceholder{})

	snaps.MatchSnapshot(t, Model(m))
}

type errPlaceholder struct{}

func (errPlaceholder) Error() string { return "placeholder" }
