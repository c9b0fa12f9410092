package resolver

import (
	"fmt"
	"strings"

	"github.com/careweather/oneil/internal/ozerr"
)

// Error is a single resolution failure. Kind is a dotted taxonomy
// string matching spec section 7
// (e.g. "ImportResolution.DuplicateImport",
// "VariableResolution.UndefinedParameter",
// "ParameterResolution.CircularDependency"). Detail carries any
// human-readable payload (the undefined name, the cycle chain, ...).
type Error struct {
	Kind   string
	Detail string
	Span   ozerr.Span
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return e.Kind
}

func (e *Error) ErrorSpan() ozerr.Span { return e.Span }

var _ ozerr.SourceError = (*Error)(nil)

func newErr(kind, detail string, span ozerr.Span) *Error {
	return &Error{Kind: kind, Detail: detail, Span: span}
}

func cycleChain(chain []string) string {
	return strings.Join(chain, " -> ")
}
