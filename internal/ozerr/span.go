// Package ozerr provides span tracking and source-aware error rendering
// shared by the lexer, parser, resolver, and evaluator.
package ozerr

// Span is a byte-accurate location in a source file: the offset of the
// first byte of the lexeme, the lexeme's length, and the length of any
// trailing whitespace (spaces, comments, line endings) that was consumed
// along with it. Combined spans are used to report diagnostics that cover
// more than one token.
type Span struct {
	Offset     int
	Length     int
	TrailingWS int
}

// End returns the offset one past the last byte of the lexeme itself,
// not counting trailing whitespace.
func (s Span) End() int {
	return s.Offset + s.Length
}

// EndWithTrailing returns the offset one past the lexeme and any
// trailing whitespace absorbed with it.
func (s Span) EndWithTrailing() int {
	return s.End() + s.TrailingWS
}

// Combine returns the smallest span that covers both a and b, including
// any source that lies between them. Used to build spans for composite
// AST nodes (e.g. a binary expression spans its left and right operands).
func Combine(a, b Span) Span {
	start := a.Offset
	if b.Offset < start {
		start = b.Offset
	}
	end := a.End()
	if b.End() > end {
		end = b.End()
	}
	trailing := a.TrailingWS
	if b.Offset >= a.Offset {
		trailing = b.TrailingWS
	}
	return Span{Offset: start, Length: end - start, TrailingWS: trailing}
}

// Location is a human-facing line/column derived from a Span and the
// source text it indexes.
type Location struct {
	Line   int
	Column int
}

// Locate converts a byte offset into a 1-indexed line/column pair.
// Columns are counted in runes; the lexer keeps no line or column
// bookkeeping, so this is computed from the source on demand.
func Locate(source string, offset int) Location {
	line := 1
	col := 1
	for i, r := range source {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return Location{Line: line, Column: col}
}
