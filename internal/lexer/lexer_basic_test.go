package lexer

import (
	"testing"

	"github.com/careweather/oneil/internal/token"
)

func TestNextTokenSymbols(t *testing.T) {
	tests := []struct {
		input string
		want  []token.Type
	}{
		{"+", []token.Type{token.Plus, token.EOF}},
		{"--", []token.Type{token.MinusMinus, token.EOF}},
		{"-", []token.Type{token.Minus, token.EOF}},
		{"//", []token.Type{token.SlashSlash, token.EOF}},
		{"/", []token.Type{token.Slash, token.EOF}},
		{"==", []token.Type{token.Eq, token.EOF}},
		{"=", []token.Type{token.Assign, token.EOF}},
		{"<=", []token.Type{token.LtEq, token.EOF}},
		{"<", []token.Type{token.Lt, token.EOF}},
		{"**", []token.Type{token.StarStar, token.EOF}},
		{"^", []token.Type{token.Caret, token.EOF}},
	}

	for _, tt := range tests {
		l := New(tt.input)
		for i, want := range tt.want {
			tok, err := l.Next()
			if err != nil {
				t.Fatalf("input %q: unexpected error at token %d: %v", tt.input, i, err)
			}
			if tok.Type != want {
				t.Errorf("input %q: token %d = %v, want %v", tt.input, i, tok.Type, want)
			}
		}
	}
}

func TestNextTokenKeywordsVsIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		want  token.Type
	}{
		{"and", token.And},
		{"andx", token.Identifier},
		{"section", token.Section},
		{"sectional", token.Identifier},
		{"true", token.True},
		{"false", token.False},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tt.input, err)
		}
		if tok.Type != tt.want {
			t.Errorf("input %q: got %v, want %v", tt.input, tok.Type, tt.want)
		}
	}
}

func TestScanNumber(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{"1e10", "1e10"},
		{"1.5e-3", "1.5e-3"},
		{"2.", "2"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tt.input, err)
		}
		if tok.Type != token.Number {
			t.Errorf("input %q: got type %v, want Number", tt.input, tok.Type)
		}
		if tok.Literal != tt.want {
			t.Errorf("input %q: literal = %q, want %q", tt.input, tok.Literal, tt.want)
		}
	}
}

func TestScanString(t *testing.T) {
	l := New(`"hello world"`)
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != token.String {
		t.Fatalf("got type %v, want String", tok.Type)
	}
	if tok.Literal != "hello world" {
		t.Errorf("literal = %q, want %q", tok.Literal, "hello world")
	}
}

func TestScanUnterminatedString(t *testing.T) {
	l := New(`"hello`)
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected an error for unterminated string")
	}
	if err.Kind != UnterminatedString {
		t.Errorf("kind = %v, want UnterminatedString", err.Kind)
	}
}

func TestScanLabel(t *testing.T) {
	l := New("`thrust-to-weight ratio`")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != token.Label {
		t.Fatalf("got type %v, want Label", tok.Type)
	}
	if tok.Literal != "thrust-to-weight ratio" {
		t.Errorf("literal = %q", tok.Literal)
	}
}

func TestEndOfLineAbsorbsBlankAndCommentLines(t *testing.T) {
	input := "a\n\n# a comment\n\nb"
	l := New(input)

	first, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Type != token.Identifier || first.Literal != "a" {
		t.Fatalf("first token = %+v, want identifier a", first)
	}

	eol, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eol.Type != token.EndOfLine {
		t.Fatalf("second token = %v, want EndOfLine", eol.Type)
	}

	next, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Type != token.Identifier || next.Literal != "b" {
		t.Fatalf("token after absorbed blank/comment lines = %+v, want identifier b", next)
	}
}

func TestScanStringNormalizesToNFC(t *testing.T) {
	// "é" as e + combining acute accent (U+0065 U+0301), decomposed form.
	decomposed := "é"
	precomposed := "é"

	l := New(`"caf` + decomposed + `"`)
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != token.String {
		t.Fatalf("got type %v, want String", tok.Type)
	}
	want := "caf" + precomposed
	if tok.Literal != want {
		t.Errorf("literal = %q, want %q (NFC-normalized)", tok.Literal, want)
	}
}

func TestAllReachesEOF(t *testing.T) {
	l := New("x = 1 + 2\n")
	toks, err := l.All()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) == 0 || toks[len(toks)-1].Type != token.EOF {
		t.Fatalf("last token = %+v, want EOF", toks[len(toks)-1])
	}
}
