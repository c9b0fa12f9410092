// Package parser implements the recursive-descent, partial-result
// parser described in spec section 4.2: it turns a token stream into
// a Model, recovering from malformed declarations by skipping to the
// next end-of-line and continuing, rather than aborting the whole
// file on the first mistake.
package parser

import (
	"strconv"
	"strings"

	"github.com/careweather/oneil/internal/ast"
	"github.com/careweather/oneil/internal/lexer"
	"github.com/careweather/oneil/internal/ozerr"
	"github.com/careweather/oneil/internal/token"
)

// Parser holds a pre-scanned token stream and the accumulated error
// list for one file.
type Parser struct {
	source string
	toks   []token.Token
	pos    int
	errors []ozerr.SourceError

	// suppressContinuation mutes repeated "Expect.Decl" errors on
	// consecutive lines that are continuations of an already-broken
	// construct (e.g. the next `{...if...}` case of a piecewise).
	suppressContinuation bool
}

// New tokenizes source in full. A scanner error (e.g. an illegal
// character, an unterminated string) is recorded as a parser error
// but does not stop tokenization: the lexer has already advanced past
// the offending byte, so scanning resumes from there, keeping every
// good token on both sides of the failure available to the parser.
func New(source string) *Parser {
	p := &Parser{source: source}
	l := lexer.New(source)
	for {
		tok, err := l.Next()
		if err != nil {
			p.errors = append(p.errors, &Error{Kind: "TokenError", Detail: err.Error(), Span: err.ErrorSpan()})
			continue
		}
		p.toks = append(p.toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return p
}

func (p *Parser) cur() token.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(t token.Type) bool {
	return p.cur().Type == t
}

func (p *Parser) accept(t token.Type) (token.Token, bool) {
	if p.at(t) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) addError(err *Error) {
	p.errors = append(p.errors, err)
}

func combine(a, b ozerr.Span) ozerr.Span { return ozerr.Combine(a, b) }

// recoverToEndOfLine skips tokens until (and including) the next
// end-of-line token, or EOF. Used after a declaration-level failure.
func (p *Parser) recoverToEndOfLine() {
	for !p.at(token.EOF) && !p.at(token.EndOfLine) {
		p.advance()
	}
	if p.at(token.EndOfLine) {
		p.advance()
	}
}

// Parse parses a whole model file, returning a best-effort Model and
// every error encountered.
func Parse(source string) (*ast.Model, []ozerr.SourceError) {
	p := New(source)
	return p.parseModel()
}

func (p *Parser) parseModel() (*ast.Model, []ozerr.SourceError) {
	start := p.cur().Span

	for p.at(token.EndOfLine) {
		p.advance()
	}

	var note *ast.Note
	if p.at(token.Tilde) {
		note = p.parseNote()
	}

	var topDecls []ast.Decl
	for !p.at(token.EOF) && !p.at(token.Section) {
		decl, err := p.parseDecl()
		if err != nil {
			if !p.suppressContinuation {
				p.addError(err)
			}
			p.suppressContinuation = isContinuationFailure(err)
			p.recoverToEndOfLine()
			continue
		}
		p.suppressContinuation = false
		if decl != nil {
			topDecls = append(topDecls, decl)
		}
	}

	var sections []ast.Section
	for !p.at(token.EOF) {
		sec, promoted := p.parseSection()
		if sec == nil {
			topDecls = append(topDecls, promoted...)
			continue
		}
		sections = append(sections, *sec)
	}

	end := p.cur().Span
	model := &ast.Model{
		BaseNode: ast.NewBase(combine(start, end)),
		Note:     note,
		TopDecls: topDecls,
		Sections: sections,
	}
	return model, p.errors
}

func isContinuationFailure(err *Error) bool {
	return err.Kind == "Incomplete.Parameter.PiecewiseMissingExpr" ||
		err.Kind == "Incomplete.Parameter.PiecewiseMissingIf" ||
		err.Kind == "Incomplete.Parameter.PiecewiseMissingIfExpr"
}

// parseSection parses one `section label end-of-line [note] decls`
// block. If the header itself fails (missing label or end-of-line),
// any declarations that were nonetheless parsed under it are promoted
// back to the caller as top-level declarations, matching the
// recovery rule in spec section 4.2.
func (p *Parser) parseSection() (*ast.Section, []ast.Decl) {
	start := p.advance().Span // consume "section"

	labelTok, ok := p.accept(token.Label)
	if !ok {
		if idTok, ok2 := p.accept(token.Identifier); ok2 {
			labelTok = idTok
		} else {
			p.addError(incompleteErr("Section.MissingLabel", p.cur().Span, start))
			decls := p.parseSectionBody()
			return nil, decls
		}
	}

	eol, ok := p.accept(token.EndOfLine)
	if !ok {
		p.addError(incompleteErr("Section.MissingEndOfLine", p.cur().Span, start))
		decls := p.parseSectionBody()
		return nil, decls
	}

	var note *ast.Note
	if p.at(token.Tilde) {
		note = p.parseNote()
	}

	decls := p.parseSectionBody()
	end := eol.Span
	if len(decls) > 0 {
		end = decls[len(decls)-1].Span()
	}
	return &ast.Section{
		BaseNode: ast.NewBase(combine(start, end)),
		Label:    labelTok.Literal,
		Note:     note,
		Decls:    decls,
	}, nil
}

func (p *Parser) parseSectionBody() []ast.Decl {
	var decls []ast.Decl
	for !p.at(token.EOF) && !p.at(token.Section) {
		decl, err := p.parseDecl()
		if err != nil {
			if !p.suppressContinuation {
				p.addError(err)
			}
			p.suppressContinuation = isContinuationFailure(err)
			p.recoverToEndOfLine()
			continue
		}
		p.suppressContinuation = false
		if decl != nil {
			decls = append(decls, decl)
		}
	}
	return decls
}

// parseNote consumes a `~ free text` note, extending to end of line.
// The lexer has no concept of free-text notes, so the parser reads
// the raw source between the `~` and the next newline directly, then
// fast-forwards the token cursor past whatever the lexer made of that
// text.
func (p *Parser) parseNote() *ast.Note {
	tilde := p.advance()
	textStart := tilde.Span.Offset + tilde.Span.Length
	nl := strings.IndexByte(p.source[textStart:], '\n')
	var textEnd int
	if nl < 0 {
		textEnd = len(p.source)
	} else {
		textEnd = textStart + nl
	}
	text := strings.TrimSpace(p.source[textStart:textEnd])

	for !p.at(token.EOF) && p.cur().Span.Offset < textEnd {
		p.advance()
	}
	if p.at(token.EndOfLine) {
		p.advance()
	}

	return &ast.Note{
		BaseNode: ast.NewBase(ozerr.Span{Offset: tilde.Span.Offset, Length: textEnd - tilde.Span.Offset}),
		Text:     text,
	}
}

func (p *Parser) parseDecl() (ast.Decl, *Error) {
	switch p.cur().Type {
	case token.Import:
		return p.parseImport()
	case token.Use:
		return p.parseUseModel()
	case token.From:
		return p.parseFromUse()
	case token.Test:
		return p.parseTest()
	case token.Dollar, token.Star, token.StarStar, token.Label:
		return p.parseParameter()
	default:
		return nil, expectErr("Decl", p.cur().Span)
	}
}

func (p *Parser) parseImport() (ast.Decl, *Error) {
	kw := p.advance() // "import"
	ident, ok := p.accept(token.Identifier)
	if !ok {
		return nil, incompleteErr("Decl.Import.MissingPath", p.cur().Span, kw.Span)
	}
	eol, ok := p.accept(token.EndOfLine)
	if !ok {
		return nil, incompleteErr("Decl.Import.MissingEndOfLine", p.cur().Span, kw.Span)
	}
	return &ast.Import{
		BaseNode: ast.NewBase(combine(kw.Span, eol.Span)),
		Path:     ident.Literal,
	}, nil
}

func (p *Parser) parseModelPath(cause ozerr.Span) ([]string, *Error) {
	first, ok := p.accept(token.Identifier)
	if !ok {
		return nil, unexpectedTokenErr(p.cur().Type.String(), p.cur().Span)
	}
	path := []string{first.Literal}
	for p.at(token.Dot) {
		p.advance()
		id, ok := p.accept(token.Identifier)
		if !ok {
			return nil, unexpectedTokenErr(p.cur().Type.String(), p.cur().Span)
		}
		path = append(path, id.Literal)
	}
	return path, nil
}

func (p *Parser) parseModelInputs() ([]ast.InputBinding, *Error) {
	if !p.at(token.LParen) {
		return nil, nil
	}
	p.advance()
	var inputs []ast.InputBinding
	for !p.at(token.RParen) {
		name, ok := p.accept(token.Identifier)
		if !ok {
			return nil, unexpectedTokenErr(p.cur().Type.String(), p.cur().Span)
		}
		if _, ok := p.accept(token.Assign); !ok {
			return nil, unexpectedTokenErr(p.cur().Type.String(), p.cur().Span)
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, ast.InputBinding{Name: name.Literal, Expr: expr})
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	if !p.at(token.RParen) {
		return nil, unclosedErr("UnclosedParen", p.cur().Span)
	}
	p.advance()
	return inputs, nil
}

func (p *Parser) parseUseModel() (ast.Decl, *Error) {
	kw := p.advance() // "use"
	path, err := p.parseModelPath(kw.Span)
	if err != nil {
		return nil, err
	}
	inputs, err := p.parseModelInputs()
	if err != nil {
		return nil, err
	}
	var alias *string
	if p.at(token.As) {
		p.advance()
		id, ok := p.accept(token.Identifier)
		if !ok {
			return nil, incompleteErr("Decl.AsMissingAlias", p.cur().Span, kw.Span)
		}
		alias = &id.Literal
	}
	eol, ok := p.accept(token.EndOfLine)
	if !ok {
		return nil, incompleteErr("Decl.Use.MissingEndOfLine", p.cur().Span, kw.Span)
	}
	return &ast.UseModel{
		BaseNode:  ast.NewBase(combine(kw.Span, eol.Span)),
		ModelPath: path,
		Inputs:    inputs,
		Alias:     alias,
	}, nil
}

func (p *Parser) parseFromUse() (ast.Decl, *Error) {
	kw := p.advance() // "from"
	path, err := p.parseModelPath(kw.Span)
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(token.Use); !ok {
		return nil, incompleteErr("Decl.Use.MissingModelInfo", p.cur().Span, kw.Span)
	}
	ident, ok := p.accept(token.Identifier)
	if !ok {
		return nil, incompleteErr("Decl.Use.MissingModelInfo", p.cur().Span, kw.Span)
	}
	inputs, err := p.parseModelInputs()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(token.As); !ok {
		return nil, incompleteErr("Decl.AsMissingAlias", p.cur().Span, kw.Span)
	}
	alias, ok := p.accept(token.Identifier)
	if !ok {
		return nil, incompleteErr("Decl.AsMissingAlias", p.cur().Span, kw.Span)
	}
	eol, ok := p.accept(token.EndOfLine)
	if !ok {
		return nil, incompleteErr("Decl.Use.MissingEndOfLine", p.cur().Span, kw.Span)
	}
	return &ast.FromUse{
		BaseNode:   ast.NewBase(combine(kw.Span, eol.Span)),
		ModelPath:  path,
		Identifier: ident.Literal,
		Inputs:     inputs,
		Alias:      alias.Literal,
	}, nil
}

func (p *Parser) parseTest() (ast.Decl, *Error) {
	kw := p.advance() // "test"
	trace := p.parseLeadingTraceAfterKeyword()
	if _, ok := p.accept(token.Colon); !ok {
		return nil, incompleteErr("Test.MissingColon", p.cur().Span, kw.Span)
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, incompleteErr("Test.MissingExpr", p.cur().Span, kw.Span)
	}
	var note *ast.Note
	if p.at(token.Tilde) {
		note = p.parseNote()
	}
	eol, ok := p.accept(token.EndOfLine)
	if !ok && note == nil {
		return nil, incompleteErr("Test.MissingEndOfLine", p.cur().Span, kw.Span)
	}
	end := eol.Span
	if note != nil {
		end = note.Span()
	}
	return &ast.Test{
		BaseNode: ast.NewBase(combine(kw.Span, end)),
		Trace:    trace,
		Expr:     expr,
		Note:     note,
	}, nil
}

// parseLeadingTraceAfterKeyword consumes an optional "*"/"**" marker
// that follows "test" (the grammar places it before the label on a
// parameter, but allows it on test lines directly after the keyword).
func (p *Parser) parseLeadingTraceAfterKeyword() ast.TraceLevel {
	switch p.cur().Type {
	case token.Star:
		p.advance()
		return ast.TraceTrace
	case token.StarStar:
		p.advance()
		return ast.TraceDebug
	default:
		return ast.TraceNone
	}
}

func (p *Parser) parseParameter() (ast.Decl, *Error) {
	start := p.cur().Span

	performance := false
	if p.at(token.Dollar) {
		p.advance()
		performance = true
	}

	trace := p.parseLeadingTraceAfterKeyword()

	labelTok, ok := p.accept(token.Label)
	if !ok {
		return nil, incompleteErr("Parameter.MissingIdentifier", p.cur().Span, start)
	}

	var limits ast.Limits
	if p.at(token.LParen) || p.at(token.LBracket) {
		var err *Error
		limits, err = p.parseLimits()
		if err != nil {
			return nil, err
		}
	}

	if _, ok := p.accept(token.Colon); !ok {
		return nil, incompleteErr("Parameter.MissingUnit", p.cur().Span, start)
	}
	ident, ok := p.accept(token.Identifier)
	if !ok {
		return nil, incompleteErr("Parameter.MissingIdentifier", p.cur().Span, start)
	}
	if _, ok := p.accept(token.Assign); !ok {
		return nil, incompleteErr("Parameter.MissingEqualsSign", p.cur().Span, start)
	}

	value, err := p.parseParamValue(start)
	if err != nil {
		return nil, err
	}

	var note *ast.Note
	if p.at(token.Tilde) {
		note = p.parseNote()
	}
	eol, ok := p.accept(token.EndOfLine)
	if !ok && note == nil {
		return nil, incompleteErr("Parameter.MissingEndOfLine", p.cur().Span, start)
	}
	end := eol.Span
	if note != nil {
		end = note.Span()
	}

	return &ast.Parameter{
		BaseNode:    ast.NewBase(combine(start, end)),
		Performance: performance,
		Trace:       trace,
		Label:       labelTok.Literal,
		Identifier:  ident.Literal,
		Value:       value,
		Limits:      limits,
		Note:        note,
	}, nil
}

func (p *Parser) parseLimits() (ast.Limits, *Error) {
	if p.at(token.LParen) {
		start := p.advance()
		min, err := p.parseExpr()
		if err != nil {
			return nil, incompleteErr("Parameter.LimitMissingMin", p.cur().Span, start.Span)
		}
		if _, ok := p.accept(token.Comma); !ok {
			return nil, incompleteErr("Parameter.LimitMissingComma", p.cur().Span, start.Span)
		}
		max, err := p.parseExpr()
		if err != nil {
			return nil, incompleteErr("Parameter.LimitMissingMax", p.cur().Span, start.Span)
		}
		end, ok := p.accept(token.RParen)
		if !ok {
			return nil, unclosedErr("UnclosedParen", p.cur().Span)
		}
		return &ast.ContinuousLimits{
			BaseNode: ast.NewBase(combine(start.Span, end.Span)),
			Min:      min,
			Max:      max,
		}, nil
	}

	start := p.advance() // "["
	var values []ast.Expr
	for !p.at(token.RBracket) {
		v, err := p.parseExpr()
		if err != nil {
			return nil, incompleteErr("Parameter.LimitMissingValues", p.cur().Span, start.Span)
		}
		values = append(values, v)
		if p.at(token.Comma) {
			p.advance()
			continue
		}
		break
	}
	end, ok := p.accept(token.RBracket)
	if !ok {
		return nil, unclosedErr("UnclosedBracket", p.cur().Span)
	}
	return &ast.DiscreteLimits{
		BaseNode: ast.NewBase(combine(start.Span, end.Span)),
		Values:   values,
	}, nil
}

// parseParamValue implements the disambiguation rule from spec
// section 4.2: a value beginning with `{` is piecewise, else simple.
func (p *Parser) parseParamValue(cause ozerr.Span) (ast.ParamValue, *Error) {
	if p.at(token.LBrace) {
		return p.parsePiecewise(cause)
	}
	return p.parseSimpleValue(cause)
}

func (p *Parser) parsePiecewise(cause ozerr.Span) (ast.ParamValue, *Error) {
	var parts []ast.PiecewisePart
	for p.at(token.LBrace) {
		part, err := p.parsePiecewisePart(cause)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
		if p.at(token.EndOfLine) && p.peekAt(1).Type == token.LBrace {
			p.advance()
			continue
		}
		break
	}
	if len(parts) == 0 {
		return nil, incompleteErr("Parameter.PiecewiseMissingExpr", p.cur().Span, cause)
	}

	var unit ast.UnitExpr
	if p.at(token.Colon) {
		p.advance()
		u, err := p.parseUnitExpr()
		if err != nil {
			return nil, incompleteErr("Parameter.MissingUnit", p.cur().Span, cause)
		}
		unit = u
	}

	start := parts[0].Span()
	end := parts[len(parts)-1].Span()
	return &ast.Piecewise{
		BaseNode: ast.NewBase(combine(start, end)),
		Parts:    parts,
		Unit:     unit,
	}, nil
}

// parsePiecewisePart consumes `{ expr if cond }`.
func (p *Parser) parsePiecewisePart(cause ozerr.Span) (ast.PiecewisePart, *Error) {
	open := p.advance() // "{"

	value, err := p.parseExpr()
	if err != nil {
		return ast.PiecewisePart{}, incompleteErr("Parameter.PiecewiseMissingExpr", p.cur().Span, cause)
	}

	if !p.at(token.If) {
		return ast.PiecewisePart{}, incompleteErr("Parameter.PiecewiseMissingIf", p.cur().Span, cause)
	}
	p.advance()

	cond, err := p.parseExpr()
	if err != nil {
		return ast.PiecewisePart{}, incompleteErr("Parameter.PiecewiseMissingIfExpr", p.cur().Span, cause)
	}

	closeTok, ok := p.accept(token.RBrace)
	if !ok {
		return ast.PiecewisePart{}, incompleteErr("Parameter.PiecewiseMissingExpr", p.cur().Span, cause)
	}

	return ast.PiecewisePart{
		BaseNode:  ast.NewBase(combine(open.Span, closeTok.Span)),
		Value:     value,
		Condition: cond,
	}, nil
}

func (p *Parser) parseSimpleValue(cause ozerr.Span) (ast.ParamValue, *Error) {
	start := p.cur().Span
	expr, err := p.parseExpr()
	if err != nil {
		return nil, incompleteErr("Parameter.MissingValue", p.cur().Span, cause)
	}
	var unit ast.UnitExpr
	end := expr.Span()
	if p.at(token.Colon) {
		p.advance()
		u, err := p.parseUnitExpr()
		if err != nil {
			return nil, incompleteErr("Parameter.MissingUnit", p.cur().Span, cause)
		}
		unit = u
		end = u.Span()
	}
	return &ast.Simple{
		BaseNode: ast.NewBase(combine(start, end)),
		Expr:     expr,
		Unit:     unit,
	}, nil
}

// --- expressions ---

func (p *Parser) parseExpr() (ast.Expr, *Error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (ast.Expr, *Error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.Or) {
		opTok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, incompleteErr("Expr.BinaryOpMissingSecondOperand", p.cur().Span, opTok.Span)
		}
		left = &ast.Binary{BaseNode: ast.NewBase(combine(left.Span(), right.Span())), Op: ast.BinOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, *Error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.at(token.And) {
		opTok := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, incompleteErr("Expr.BinaryOpMissingSecondOperand", p.cur().Span, opTok.Span)
		}
		left = &ast.Binary{BaseNode: ast.NewBase(combine(left.Span(), right.Span())), Op: ast.BinAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, *Error) {
	if p.at(token.Not) {
		opTok := p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, incompleteErr("Expr.UnaryOpMissingOperand", p.cur().Span, opTok.Span)
		}
		return &ast.Unary{BaseNode: ast.NewBase(combine(opTok.Span, operand.Span())), Op: ast.UnaryNot, Operand: operand}, nil
	}
	return p.parseComparison()
}

var compareOps = map[token.Type]ast.CompareOp{
	token.Eq:    ast.CmpEq,
	token.NotEq: ast.CmpNe,
	token.Lt:    ast.CmpLt,
	token.LtEq:  ast.CmpLe,
	token.Gt:    ast.CmpGt,
	token.GtEq:  ast.CmpGe,
}

func (p *Parser) parseComparison() (ast.Expr, *Error) {
	left, err := p.parseMinMax()
	if err != nil {
		return nil, err
	}
	op, ok := compareOps[p.cur().Type]
	if !ok {
		return left, nil
	}
	opTok := p.advance()
	right, err := p.parseMinMax()
	if err != nil {
		return nil, incompleteErr("Expr.ComparisonOpMissingSecondOperand", p.cur().Span, opTok.Span)
	}

	var tail []ast.ComparisonTail
	end := right.Span()
	for {
		nextOp, ok := compareOps[p.cur().Type]
		if !ok {
			break
		}
		nextTok := p.advance()
		rhs, err := p.parseMinMax()
		if err != nil {
			return nil, incompleteErr("Expr.ComparisonOpMissingSecondOperand", p.cur().Span, nextTok.Span)
		}
		tail = append(tail, ast.ComparisonTail{Op: nextOp, Rhs: rhs})
		end = rhs.Span()
	}

	return &ast.Comparison{
		BaseNode: ast.NewBase(combine(left.Span(), end)),
		Left:     left,
		Op:       op,
		Right:    right,
		Tail:     tail,
	}, nil
}

func (p *Parser) parseMinMax() (ast.Expr, *Error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(token.Pipe) {
		opTok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, incompleteErr("Expr.BinaryOpMissingSecondOperand", p.cur().Span, opTok.Span)
		}
		left = &ast.Binary{BaseNode: ast.NewBase(combine(left.Span(), right.Span())), Op: ast.BinMinMax, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, *Error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.Plus) || p.at(token.Minus) || p.at(token.MinusMinus) {
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, incompleteErr("Expr.BinaryOpMissingSecondOperand", p.cur().Span, opTok.Span)
		}
		var op ast.BinaryOp
		switch opTok.Type {
		case token.Plus:
			op = ast.BinAdd
		case token.Minus:
			op = ast.BinSub
		case token.MinusMinus:
			op = ast.BinEscapedSub
		}
		left = &ast.Binary{BaseNode: ast.NewBase(combine(left.Span(), right.Span())), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, *Error) {
	left, err := p.parseExponent()
	if err != nil {
		return nil, err
	}
	for p.at(token.Star) || p.at(token.Slash) || p.at(token.SlashSlash) || p.at(token.Percent) {
		opTok := p.advance()
		right, err := p.parseExponent()
		if err != nil {
			return nil, incompleteErr("Expr.BinaryOpMissingSecondOperand", p.cur().Span, opTok.Span)
		}
		var op ast.BinaryOp
		switch opTok.Type {
		case token.Star:
			op = ast.BinMul
		case token.Slash:
			op = ast.BinDiv
		case token.SlashSlash:
			op = ast.BinEscapedDiv
		case token.Percent:
			op = ast.BinRem
		}
		left = &ast.Binary{BaseNode: ast.NewBase(combine(left.Span(), right.Span())), Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseExponent() (ast.Expr, *Error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.at(token.Caret) {
		opTok := p.advance()
		right, err := p.parseExponent() // right-associative
		if err != nil {
			return nil, incompleteErr("Expr.BinaryOpMissingSecondOperand", p.cur().Span, opTok.Span)
		}
		return &ast.Binary{BaseNode: ast.NewBase(combine(left.Span(), right.Span())), Op: ast.BinPow, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *Parser) parseUnary() (ast.Expr, *Error) {
	if p.at(token.Minus) {
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, incompleteErr("Expr.UnaryOpMissingOperand", p.cur().Span, opTok.Span)
		}
		return &ast.Unary{BaseNode: ast.NewBase(combine(opTok.Span, operand.Span())), Op: ast.UnaryNeg, Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() (ast.Expr, *Error) {
	switch p.cur().Type {
	case token.Number:
		tok := p.advance()
		v, convErr := strconv.ParseFloat(tok.Literal, 64)
		if convErr != nil {
			v = 0
		}
		return &ast.Literal{BaseNode: ast.NewBase(tok.Span), Kind: ast.LiteralNumber, Number: v}, nil
	case token.String:
		tok := p.advance()
		return &ast.Literal{BaseNode: ast.NewBase(tok.Span), Kind: ast.LiteralString, Str: tok.Literal}, nil
	case token.True:
		tok := p.advance()
		return &ast.Literal{BaseNode: ast.NewBase(tok.Span), Kind: ast.LiteralBoolean, Boolean: true}, nil
	case token.False:
		tok := p.advance()
		return &ast.Literal{BaseNode: ast.NewBase(tok.Span), Kind: ast.LiteralBoolean, Boolean: false}, nil
	case token.LParen:
		openTok := p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, incompleteErr("Expr.ParenMissingExpr", p.cur().Span, openTok.Span)
		}
		if !p.at(token.RParen) {
			return nil, unclosedErr("UnclosedParen", p.cur().Span)
		}
		p.advance()
		return inner, nil
	case token.Identifier:
		return p.parseIdentifierExpr()
	default:
		return nil, expectErr("Expr", p.cur().Span)
	}
}

func (p *Parser) parseIdentifierExpr() (ast.Expr, *Error) {
	nameTok := p.advance()

	if p.at(token.LParen) {
		p.advance()
		var args []ast.Expr
		for !p.at(token.RParen) {
			arg, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.at(token.Comma) {
				p.advance()
				continue
			}
			break
		}
		if !p.at(token.RParen) {
			return nil, unclosedErr("UnclosedParen", p.cur().Span)
		}
		closeTok := p.advance()
		return &ast.Call{BaseNode: ast.NewBase(combine(nameTok.Span, closeTok.Span)), Name: nameTok.Literal, Args: args}, nil
	}

	var expr ast.Expr = &ast.Identifier{BaseNode: ast.NewBase(nameTok.Span), Name: nameTok.Literal}
	for p.at(token.Dot) {
		p.advance()
		field, ok := p.accept(token.Identifier)
		if !ok {
			return nil, incompleteErr("Expr.VariableMissingReferenceModel", p.cur().Span, nameTok.Span)
		}
		expr = &ast.Accessor{BaseNode: ast.NewBase(combine(expr.Span(), field.Span)), Base: expr, Field: field.Literal}
	}
	return expr, nil
}

// --- unit expressions ---

func (p *Parser) parseUnitExpr() (ast.UnitExpr, *Error) {
	return p.parseUnitQuotient()
}

func (p *Parser) parseUnitQuotient() (ast.UnitExpr, *Error) {
	left, err := p.parseUnitProduct()
	if err != nil {
		return nil, err
	}
	for p.at(token.Slash) {
		opTok := p.advance()
		right, err := p.parseUnitProduct()
		if err != nil {
			return nil, incompleteErr("Unit.MissingSecondTerm", p.cur().Span, opTok.Span)
		}
		left = &ast.UnitQuotient{BaseNode: ast.NewBase(combine(left.Span(), right.Span())), Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnitProduct() (ast.UnitExpr, *Error) {
	left, err := p.parseUnitAtom()
	if err != nil {
		return nil, err
	}
	for p.at(token.Star) || p.unitAtomFollows() {
		var opTok token.Token
		explicit := p.at(token.Star)
		if explicit {
			opTok = p.advance()
		}
		right, err := p.parseUnitAtom()
		if err != nil {
			if explicit {
				return nil, incompleteErr("Unit.MissingSecondTerm", p.cur().Span, opTok.Span)
			}
			return nil, err
		}
		left = &ast.UnitProduct{BaseNode: ast.NewBase(combine(left.Span(), right.Span())), Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) unitAtomFollows() bool {
	return p.at(token.Identifier) || p.at(token.LParen)
}

func (p *Parser) parseUnitAtom() (ast.UnitExpr, *Error) {
	if p.at(token.LParen) {
		openTok := p.advance()
		inner, err := p.parseUnitExpr()
		if err != nil {
			return nil, incompleteErr("Unit.ParenMissingExpr", p.cur().Span, openTok.Span)
		}
		closeTok, ok := p.accept(token.RParen)
		if !ok {
			return nil, unclosedErr("UnclosedParen", p.cur().Span)
		}
		return &ast.UnitParen{BaseNode: ast.NewBase(combine(openTok.Span, closeTok.Span)), Inner: inner}, nil
	}

	ident, ok := p.accept(token.Identifier)
	if !ok {
		return nil, expectErr("Unit", p.cur().Span)
	}
	exponent := 1
	end := ident.Span
	if p.at(token.Caret) {
		opTok := p.advance()
		sign := 1
		if p.at(token.Minus) {
			p.advance()
			sign = -1
		}
		numTok, ok := p.accept(token.Number)
		if !ok {
			return nil, incompleteErr("Unit.MissingExponent", p.cur().Span, opTok.Span)
		}
		n, convErr := strconv.Atoi(numTok.Literal)
		if convErr != nil {
			n = 1
		}
		exponent = sign * n
		end = numTok.Span
	}
	return &ast.UnitIdentifier{BaseNode: ast.NewBase(combine(ident.Span, end)), Name: ident.Literal, Exponent: exponent}, nil
}
