// Package lexer scans Oneil source text into a token stream, tracking
// exact byte spans for every lexeme as described in spec section 4.1.
//
// Unlike a line/column scanner, Lexer works entirely in byte offsets;
// line and column are derived on demand from an offset via
// ozerr.Locate, so the lexer itself never maintains that bookkeeping.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/careweather/oneil/internal/ozerr"
	"github.com/careweather/oneil/internal/token"
)

// Lexer scans a single source buffer into tokens.
type Lexer struct {
	input        string
	position     int // offset of ch
	readPosition int // offset after ch
	ch           rune
	chWidth      int
	tracing      bool
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithTracing sets the lexer's tracing flag. No code in this package
// reads the flag, so it currently produces no output.
func WithTracing(trace bool) Option {
	return func(l *Lexer) { l.tracing = trace }
}

// New builds a Lexer over input. A leading UTF-8 BOM is stripped.
func New(input string, opts ...Option) *Lexer {
	if strings.HasPrefix(input, "﻿") {
		input = input[len("﻿"):]
	}
	l := &Lexer{input: input}
	for _, opt := range opts {
		opt(l)
	}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.chWidth = 0
		l.position = l.readPosition
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.chWidth = w
	l.position = l.readPosition
	l.readPosition += w
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentPart(ch rune) bool {
	return isLetter(ch) || isDigit(ch)
}

// Next scans and returns the next token, or a scanner Error.
func (l *Lexer) Next() (token.Token, *Error) {
	l.skipHorizontalSpace()

	start := l.position

	switch {
	case l.ch == 0:
		return l.finish(token.EOF, "", start)
	case l.ch == '\n':
		return l.scanEndOfLine(start)
	case l.ch == '\r' && l.peekChar() == '\n':
		return l.scanEndOfLine(start)
	case l.ch == '#':
		return l.scanEndOfLine(start)
	case l.ch == '"':
		return l.scanString(start)
	case l.ch == '`':
		return l.scanLabel(start)
	case isDigit(l.ch):
		return l.scanNumber(start)
	case isLetter(l.ch):
		return l.scanIdentifier(start)
	default:
		return l.scanSymbol(start)
	}
}

func (l *Lexer) skipHorizontalSpace() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

func (l *Lexer) finish(t token.Type, lit string, start int) (token.Token, *Error) {
	trailing := l.consumeTrailingWhitespace()
	span := ozerr.Span{Offset: start, Length: l.position - start - trailing, TrailingWS: trailing}
	if span.Length < 0 {
		span.Length = 0
	}
	return token.New(t, lit, span), nil
}

// consumeTrailingWhitespace eats spaces/tabs after a token so the
// caller's span reflects only the lexeme itself; it does not cross a
// newline (that belongs to end-of-line's own absorption).
func (l *Lexer) consumeTrailingWhitespace() int {
	before := l.position
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
	return l.position - before
}

// scanEndOfLine implements the greedy end-of-line token: it consumes
// the triggering newline/comment/EOF and then absorbs any subsequent
// blank lines and comment-only lines into its trailing whitespace.
func (l *Lexer) scanEndOfLine(start int) (token.Token, *Error) {
	for {
		switch {
		case l.ch == '#':
			for l.ch != '\n' && l.ch != 0 && !(l.ch == '\r' && l.peekChar() == '\n') {
				l.readChar()
			}
		case l.ch == '\r' && l.peekChar() == '\n':
			l.readChar()
			l.readChar()
		case l.ch == '\n':
			l.readChar()
		case l.ch == ' ' || l.ch == '\t':
			l.readChar()
			continue
		case l.ch == 0:
			span := ozerr.Span{Offset: start, Length: l.position - start, TrailingWS: 0}
			return token.New(token.EndOfLine, "", span), nil
		default:
			span := ozerr.Span{Offset: start, Length: l.position - start, TrailingWS: 0}
			return token.New(token.EndOfLine, "", span), nil
		}

		if !l.moreBlankAhead() {
			span := ozerr.Span{Offset: start, Length: l.position - start, TrailingWS: 0}
			return token.New(token.EndOfLine, "", span), nil
		}
	}
}

// moreBlankAhead reports whether, from the current position, only
// horizontal whitespace remains before another newline, comment, or
// EOF — i.e. whether the line just consumed was blank or comment-only
// and absorption should continue.
func (l *Lexer) moreBlankAhead() bool {
	save := l.save()
	defer l.restore(save)

	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
	return l.ch == '\n' || l.ch == '#' || l.ch == 0 || (l.ch == '\r' && l.peekChar() == '\n')
}

type lexerState struct {
	position     int
	readPosition int
	ch           rune
	chWidth      int
}

func (l *Lexer) save() lexerState {
	return lexerState{l.position, l.readPosition, l.ch, l.chWidth}
}

func (l *Lexer) restore(s lexerState) {
	l.position, l.readPosition, l.ch, l.chWidth = s.position, s.readPosition, s.ch, s.chWidth
}

func (l *Lexer) scanString(start int) (token.Token, *Error) {
	l.readChar() // consume opening quote
	var sb strings.Builder
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{}, &Error{
				Kind: UnterminatedString,
				Span: ozerr.Span{Offset: start, Length: l.position - start},
			}
		}
		if l.ch == '\\' {
			l.readChar()
			sb.WriteRune(unescape(l.ch))
			l.readChar()
			continue
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing quote
	tok, _ := l.finish(token.String, norm.NFC.String(sb.String()), start)
	return tok, nil
}

func unescape(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return ch
	}
}

// scanLabel scans a backtick-quoted display label, e.g. `thrust-to-weight ratio`.
func (l *Lexer) scanLabel(start int) (token.Token, *Error) {
	l.readChar() // consume opening backtick
	var sb strings.Builder
	for l.ch != '`' {
		if l.ch == 0 || l.ch == '\n' {
			return token.Token{}, &Error{
				Kind: ExpectedLabel,
				Got:  "end of line",
				Span: ozerr.Span{Offset: start, Length: l.position - start},
			}
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
	l.readChar() // consume closing backtick
	tok, _ := l.finish(token.Label, norm.NFC.String(sb.String()), start)
	return tok, nil
}

func (l *Lexer) scanNumber(start int) (token.Token, *Error) {
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		save := l.save()
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if isDigit(l.ch) {
			for isDigit(l.ch) {
				l.readChar()
			}
		} else {
			l.restore(save)
		}
	}
	lit := l.input[start:l.position]
	tok, _ := l.finish(token.Number, lit, start)
	return tok, nil
}

func (l *Lexer) scanIdentifier(start int) (token.Token, *Error) {
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lit := norm.NFC.String(l.input[start:l.position])
	tok, _ := l.finish(token.LookupIdentifier(lit), lit, start)
	return tok, nil
}

// twoCharSymbols lists the maximal-munch two-character operators; each
// takes precedence over its one-character prefix.
var twoCharSymbols = map[rune]map[rune]token.Type{
	'=': {'=': token.Eq},
	'!': {'=': token.NotEq},
	'<': {'=': token.LtEq},
	'>': {'=': token.GtEq},
	'*': {'*': token.StarStar}, // parameter/test trace marker, not an exponent operator
	'-': {'-': token.MinusMinus},
	'/': {'/': token.SlashSlash},
}

var oneCharSymbols = map[rune]token.Type{
	'+': token.Plus,
	'-': token.Minus,
	'*': token.Star,
	'/': token.Slash,
	'%': token.Percent,
	'^': token.Caret,
	'|': token.Pipe,
	'!': token.Bang,
	'=': token.Assign,
	'<': token.Lt,
	'>': token.Gt,
	'(': token.LParen,
	')': token.RParen,
	'[': token.LBracket,
	']': token.RBracket,
	'{': token.LBrace,
	'}': token.RBrace,
	',': token.Comma,
	':': token.Colon,
	'.': token.Dot,
	'~': token.Tilde,
	'$': token.Dollar,
}

func (l *Lexer) scanSymbol(start int) (token.Token, *Error) {
	ch := l.ch
	if two, ok := twoCharSymbols[ch]; ok {
		if tt, ok := two[l.peekChar()]; ok {
			l.readChar()
			l.readChar()
			tok, _ := l.finish(tt, l.input[start:l.position], start)
			return tok, nil
		}
	}
	if tt, ok := oneCharSymbols[ch]; ok {
		l.readChar()
		tok, _ := l.finish(tt, l.input[start:l.position], start)
		return tok, nil
	}
	l.readChar()
	return token.Token{}, &Error{
		Kind: ExpectedSymbol,
		Got:  string(ch),
		Span: ozerr.Span{Offset: start, Length: l.position - start},
	}
}

// All scans the entire input into a token slice, stopping after the
// token that reports EOF. A scanner error aborts the scan; callers
// that need partial-result recovery should drive Next themselves.
func (l *Lexer) All() ([]token.Token, *Error) {
	var out []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Type == token.EOF {
			return out, nil
		}
	}
}
