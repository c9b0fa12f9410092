package ozerr

import (
	"fmt"
	"strings"
)

// SourceError is any error that can point at a span in a named source file.
type SourceError interface {
	error
	ErrorSpan() Span
}

// Render formats err with a source-line excerpt and a caret pointing at
// the offending span, in the style of a compiler diagnostic.
func Render(err SourceError, file, source string) string {
	var sb strings.Builder

	loc := Locate(source, err.ErrorSpan().Offset)
	if file != "" {
		fmt.Fprintf(&sb, "error in %s:%d:%d: %s\n", file, loc.Line, loc.Column, err.Error())
	} else {
		fmt.Fprintf(&sb, "error at %d:%d: %s\n", loc.Line, loc.Column, err.Error())
	}

	line := sourceLine(source, loc.Line)
	if line == "" {
		return sb.String()
	}

	prefix := fmt.Sprintf("%4d | ", loc.Line)
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", len(prefix)+loc.Column-1))
	sb.WriteString("^")

	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	lines := strings.Split(source, "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// RenderAll formats a batch of errors, one per paragraph, prefixed with a
// running count when there is more than one.
func RenderAll(errs []SourceError, file, source string) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return Render(errs[0], file, source)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[%d/%d]\n", i+1, len(errs))
		sb.WriteString(Render(e, file, source))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// PartialResult pairs a best-effort value with a list of errors collected
// while producing it. A non-empty Errors slice does not necessarily mean
// Value is useless: parsing and resolution both keep going past errors and
// return whatever they could build alongside the errors they hit.
type PartialResult[T any] struct {
	Value  T
	Errors []SourceError
}

// OK reports whether the result was produced without error.
func (p PartialResult[T]) OK() bool {
	return len(p.Errors) == 0
}
