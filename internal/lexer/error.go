package lexer

import (
	"fmt"

	"github.com/careweather/oneil/internal/ozerr"
)

// ErrorKind classifies a scanner failure (spec section 4.1).
type ErrorKind int

const (
	ExpectedKeyword ErrorKind = iota
	ExpectedSymbol
	ExpectedNumber
	ExpectedString
	ExpectedIdentifier
	ExpectedLabel
	ExpectedEndOfLine
	UnterminatedString
)

// Error is a scanner-level failure, carrying the span where scanning
// went wrong so the parser's error translation layer (section 4.2) can
// render it without re-deriving position information.
type Error struct {
	Kind ErrorKind
	Want string // the keyword/symbol that was expected, when applicable
	Got  string
	Span ozerr.Span
}

func (e *Error) Error() string {
	switch e.Kind {
	case ExpectedKeyword:
		return fmt.Sprintf("expected keyword %q, found %q", e.Want, e.Got)
	case ExpectedSymbol:
		return fmt.Sprintf("expected %q, found %q", e.Want, e.Got)
	case ExpectedNumber:
		return fmt.Sprintf("expected a number, found %q", e.Got)
	case ExpectedString:
		return fmt.Sprintf("expected a string, found %q", e.Got)
	case ExpectedIdentifier:
		return fmt.Sprintf("expected an identifier, found %q", e.Got)
	case ExpectedLabel:
		return fmt.Sprintf("expected a label, found %q", e.Got)
	case ExpectedEndOfLine:
		return fmt.Sprintf("expected end of line, found %q", e.Got)
	case UnterminatedString:
		return "unterminated string literal"
	default:
		return "scanner error"
	}
}

func (e *Error) ErrorSpan() ozerr.Span { return e.Span }

var _ ozerr.SourceError = (*Error)(nil)
