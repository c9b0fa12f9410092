package eval

import (
	"fmt"

	"github.com/careweather/oneil/internal/ir"
	"github.com/careweather/oneil/internal/ozerr"
)

// Error is a single evaluation failure. Evaluation halts at the
// first error along the current path (spec section 7), so unlike the
// parser/resolver there is no accumulation — EvalParameter returns the
// first Error it hits, annotated with the model path and parameter
// name. Span is left zero by this package.
type Error struct {
	Kind   string
	Detail string
	Path   ir.ModelPath
	Param  string
	Span   ozerr.Span
}

func (e *Error) Error() string {
	loc := string(e.Path)
	if e.Param != "" {
		loc += "." + e.Param
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, loc, e.Detail)
	}
	return fmt.Sprintf("%s (%s)", e.Kind, loc)
}

func (e *Error) ErrorSpan() ozerr.Span { return e.Span }

var _ ozerr.SourceError = (*Error)(nil)

func newErr(kind, detail string, path ir.ModelPath, param string) *Error {
	return &Error{Kind: kind, Detail: detail, Path: path, Param: param}
}
