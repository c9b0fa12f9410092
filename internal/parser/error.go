package parser

import (
	"fmt"

	"github.com/careweather/oneil/internal/ozerr"
)

// Error is a single parser failure. Kind is a dotted taxonomy string
// matching spec section 4.2 (e.g. "Expect.Decl",
// "Incomplete.Decl.Import.MissingPath", "UnexpectedToken",
// "UnclosedParen"). Cause, when non-zero, points at the token that
// committed the parse for an Incomplete error — the construct that
// can no longer recover by backtracking.
type Error struct {
	Kind   string
	Detail string
	Span   ozerr.Span
	Cause  ozerr.Span
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return e.Kind
}

func (e *Error) ErrorSpan() ozerr.Span { return e.Span }

var _ ozerr.SourceError = (*Error)(nil)

func expectErr(what string, span ozerr.Span) *Error {
	return &Error{Kind: "Expect." + what, Span: span}
}

func incompleteErr(kind string, span, cause ozerr.Span) *Error {
	return &Error{Kind: "Incomplete." + kind, Span: span, Cause: cause}
}

func unexpectedTokenErr(got string, span ozerr.Span) *Error {
	return &Error{Kind: "UnexpectedToken", Detail: got, Span: span}
}

func unclosedErr(kind string, span ozerr.Span) *Error {
	return &Error{Kind: kind, Span: span}
}
