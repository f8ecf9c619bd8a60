package parser

import (
	"testing"

	"macrofront/internal/diag"
)

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diag.Code
	}{
		{"missing semicolon", "fn f() { let x = 1 }", diag.SynExpectSemicolon},
		{"top level junk", "42", diag.SynUnexpectedTopLevel},
		{"duplicate pub", "pub pub fn f() {}", diag.SynDuplicateModifier},
		{"duplicate unconstrained", "unconstrained unconstrained fn f() {}", diag.SynDuplicateModifier},
		{"unconstrained use", "unconstrained use a::b;", diag.SynModifierNotAllowed},
		{"unclosed block", "fn f() { let x = 1;", diag.SynUnclosedDelimiter},
		{"missing type", "fn f(x: ) {}", diag.SynExpectType},
		{"missing colon", "fn f(x T) {}", diag.SynExpectColon},
		{"missing ident", "fn (x: T) {}", diag.SynExpectIdentifier},
		{"bad expression", "fn f() { let x = ; }", diag.SynExpectExpression},
		{"bad attribute", "#(oracle) fn f() {}", diag.SynBadAttribute},
		{"empty use group", "use a::{};", diag.SynEmptyUseGroup},
		{"lexer error", "fn f() { $ }", diag.LexUnknownChar},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, diags := ParseProgram(tt.src)
			if len(diags) == 0 {
				t.Fatalf("expected diagnostics")
			}
			if diags[0].Code != tt.code {
				t.Fatalf("got %s, want %s (all: %s)", diags[0].Code.ID(), tt.code.ID(), diagnosticsSummary(diags))
			}
		})
	}
}

func TestRecoveryContinuesWithNextItem(t *testing.T) {
	pm, diags := ParseProgram("fn broken( { }\nfn ok() {}\nstruct S { a: u8 }")
	if len(diags) == 0 {
		t.Fatalf("expected an error for the broken function")
	}
	m := pm.IntoSorted()
	if _, ok := m.Function("ok"); !ok {
		t.Fatalf("parser did not recover to the next function: %v", m.FunctionNames())
	}
	if len(m.Types) != 1 {
		t.Fatalf("struct after the error was lost")
	}
}

func TestRecoveryInsideBlock(t *testing.T) {
	pm, diags := ParseProgram("fn f() { ) ; let a = 1; }\nfn g() {}")
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics")
	}
	m := pm.IntoSorted()
	if len(m.Functions) != 2 {
		t.Fatalf("expected both functions, got %v", m.FunctionNames())
	}
}

func TestMaxErrorsStopsParsing(t *testing.T) {
	const src = "fn a( {}\nfn b( {}\nfn c( {}\nfn d( {}"
	tests := []struct {
		maxErrors uint
		want      int
	}{
		{0, 4},
		{2, 2},
	}
	for _, tt := range tests {
		res, _ := parseFileWithBag(t, src, tt.maxErrors)
		if res.Bag.Len() != tt.want {
			t.Fatalf("max=%d: expected %d errors, got %d", tt.maxErrors, tt.want, res.Bag.Len())
		}
	}
}

func TestMaxErrorsCountsLexerErrors(t *testing.T) {
	src := "fn a() { let s = \"open; }\nfn b() { let t = \"open; }\nfn c() { let u = \"open; }\n"
	res, _ := parseFileWithBag(t, src, 2)
	if res.Bag.Len() > 2 {
		t.Fatalf("lexer errors must respect the cap, got %d:\n%v", res.Bag.Len(), res.Bag.Items())
	}
	if res.Errors < 2 {
		t.Fatalf("expected the parser to count lexer errors, got %d", res.Errors)
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.LexUnterminatedString {
			return
		}
	}
	t.Fatalf("expected an unterminated string diagnostic, got %v", res.Bag.Items())
}

func TestParseFileResolvesSpans(t *testing.T) {
	res, fs := parseFileWithBag(t, "fn a() {}\nfn b() { x }", 0)
	if res.Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics")
	}
	m := res.Module.IntoSorted()
	b, ok := m.Function("b")
	if !ok {
		t.Fatalf("function b missing")
	}
	start, _, ok := fs.Resolve(b.Span)
	if !ok || start.Line != 2 || start.Col != 1 {
		t.Fatalf("unexpected position %+v", start)
	}
	if m.File != res.Module.File || b.Span.File != m.File {
		t.Fatalf("file id mismatch")
	}
}

func TestParseEmptyFile(t *testing.T) {
	res, _ := parseFileWithBag(t, "", 0)
	if res.Bag.Len() != 0 {
		t.Fatalf("empty file must parse cleanly")
	}
	if len(res.Module.Items) != 0 {
		t.Fatalf("expected no items")
	}
}
