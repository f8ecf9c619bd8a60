package lexer_test

import (
	"testing"

	"macrofront/internal/diag"
	"macrofront/internal/lexer"
	"macrofront/internal/source"
	"macrofront/internal/token"
)

func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mf", []byte(input))
	bag := diag.NewBag(16)
	return lexer.New(fs.Get(id), lexer.Options{Reporter: &diag.BagReporter{Bag: bag}}), bag
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestLexerTokenKinds(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{
			name:  "attribute",
			input: "#[oracle(assert_message)]",
			want: []token.Kind{
				token.Hash, token.LBracket, token.Ident, token.LParen, token.Ident,
				token.RParen, token.RBracket, token.EOF,
			},
		},
		{
			name:  "fn header",
			input: "unconstrained pub fn f<T>(x: T) -> bool",
			want: []token.Kind{
				token.KwUnconstrained, token.KwPub, token.KwFn, token.Ident, token.Lt,
				token.Ident, token.Gt, token.LParen, token.Ident, token.Colon,
				token.Ident, token.RParen, token.Arrow, token.Ident, token.EOF,
			},
		},
		{
			name:  "paths and globs",
			input: "use dep::std::{a as b, *};",
			want: []token.Kind{
				token.KwUse, token.KwDep, token.ColonColon, token.Ident, token.ColonColon,
				token.LBrace, token.Ident, token.KwAs, token.Ident, token.Comma,
				token.Star, token.RBrace, token.Semicolon, token.EOF,
			},
		},
		{
			name:  "operators",
			input: "a == b != c <= d >= e && f || !g << 1 >> 2",
			want: []token.Kind{
				token.Ident, token.EqEq, token.Ident, token.BangEq, token.Ident,
				token.LtEq, token.Ident, token.GtEq, token.Ident, token.AndAnd,
				token.Ident, token.OrOr, token.Bang, token.Ident, token.Shl,
				token.IntLit, token.Shr, token.IntLit, token.EOF,
			},
		},
		{
			name:  "range is not a number",
			input: "for i in 0..10 {}",
			want: []token.Kind{
				token.KwFor, token.Ident, token.KwIn, token.IntLit, token.DotDot,
				token.IntLit, token.LBrace, token.RBrace, token.EOF,
			},
		},
		{
			name:  "underscore",
			input: "_ _input",
			want:  []token.Kind{token.Underscore, token.Ident, token.EOF},
		},
		{
			name:  "literals",
			input: `0x1f 1_000 "hi\"there" true false`,
			want: []token.Kind{
				token.IntLit, token.IntLit, token.StringLit, token.KwTrue, token.KwFalse, token.EOF,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.input)
			got := kinds(lx.All())
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("token %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
			if bag.Len() != 0 {
				t.Fatalf("unexpected diagnostics: %+v", bag.Items())
			}
		})
	}
}

func TestLexerTriviaAttachesToNextToken(t *testing.T) {
	lx, _ := makeTestLexer("/// doc\n// plain\n/* block /* nested */ */ fn")
	tok := lx.Next()
	if tok.Kind != token.KwFn {
		t.Fatalf("expected fn, got %s", tok.Kind)
	}
	docs := token.DocLines(tok.Leading)
	if len(docs) != 1 || docs[0] != "doc" {
		t.Fatalf("unexpected doc lines %q", docs)
	}
	var sawBlock bool
	for _, tv := range tok.Leading {
		if tv.Kind == token.TriviaBlockComment {
			sawBlock = true
			if tv.Text != "/* block /* nested */ */" {
				t.Fatalf("unexpected block comment %q", tv.Text)
			}
		}
	}
	if !sawBlock {
		t.Fatalf("block comment not collected")
	}
}

func TestLexerPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("fn main")
	if p := lx.Peek(); p.Kind != token.KwFn {
		t.Fatalf("peek: got %s", p.Kind)
	}
	if p := lx.Peek(); p.Kind != token.KwFn {
		t.Fatalf("second peek: got %s", p.Kind)
	}
	if n := lx.Next(); n.Kind != token.KwFn {
		t.Fatalf("next: got %s", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.Ident || n.Text != "main" {
		t.Fatalf("next: got %s %q", n.Kind, n.Text)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("expected EOF, got %s", n.Kind)
	}
	if n := lx.Next(); n.Kind != token.EOF {
		t.Fatalf("EOF must be sticky, got %s", n.Kind)
	}
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"unknown char", "$", diag.LexUnknownChar},
		{"unterminated string", `"abc`, diag.LexUnterminatedString},
		{"newline in string", "\"ab\ncd\"", diag.LexUnterminatedString},
		{"unterminated comment", "/* open", diag.LexUnterminatedBlockComment},
		{"bad digit", "12ab", diag.LexBadNumber},
		{"empty hex", "0x", diag.LexBadNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.input)
			lx.All()
			if !bag.HasErrors() {
				t.Fatalf("expected an error")
			}
			if got := bag.Items()[0].Code; got != tt.code {
				t.Fatalf("got %s, want %s", got.ID(), tt.code.ID())
			}
		})
	}
}

func TestLexerSpans(t *testing.T) {
	lx, _ := makeTestLexer("  let x")
	let := lx.Next()
	if let.Span.Start != 2 || let.Span.End != 5 {
		t.Fatalf("unexpected span %v", let.Span)
	}
	x := lx.Next()
	if x.Text != "x" || x.Span.Start != 6 {
		t.Fatalf("unexpected token %+v", x)
	}
}
