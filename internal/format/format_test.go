package format

import (
	"strings"
	"testing"

	"macrofront/internal/ast"
	"macrofront/internal/macros/assertmsg"
	"macrofront/internal/parser"
)

func parseSorted(t *testing.T, src string) *ast.Module {
	t.Helper()
	pm, diags := parser.ParseProgram(src)
	if len(diags) > 0 {
		t.Fatalf("unexpected diagnostics for %q: %+v", src, diags)
	}
	return pm.IntoSorted()
}

func TestModuleCanonicalLayout(t *testing.T) {
	src := "fn  main(x:Field)->Field{let mut y=x+1;y=y*2;if y==0{return 0;}else{y}}\n" +
		"use  crate::a::{b,c as d};\nmod a;\nglobal N:Field=3;\nstruct P<T>{pub x:T,y:[Field;2]}\n"
	got := string(Module(parseSorted(t, src), Options{}))
	want := `mod a;

use crate::a::{b, c as d};

struct P<T> {
    pub x: T,
    y: [Field; 2],
}

global N: Field = 3;

fn main(x: Field) -> Field {
    let mut y = x + 1;
    y = y * 2;
    if y == 0 {
        return 0;
    } else {
        y
    }
}
`
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestModuleAssertMessageFragment(t *testing.T) {
	got := string(Module(parseSorted(t, assertmsg.Source), Options{}))
	want := `#[oracle(assert_message)]
unconstrained fn assert_message_oracle<T>(_input: T) {}

pub unconstrained fn resolve_assert_message<T>(input: T, condition: bool) {
    if !condition {
        assert_message_oracle(input);
    }
}
`
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestModuleIdempotent(t *testing.T) {
	sources := []string{
		assertmsg.Source,
		"/// Adds.\n///\n/// Twice.\npub fn add(a: Field, b: Field) -> Field { a + b }\n",
		"fn f(xs: [Field; 3]) -> (Field, bool) { let mut s = 0; for i in 0..3 { s = s + xs[i]; } (s, -s == 0) }\n",
		"fn g() { let t = (1,); let u = (); let v = { 1 }; if true {} else if false { ; } }\n",
		"use dep::std::hash::{pedersen, field::*};\npub use crate::util::helper;\nfn h(p: dep::std::Point<Field>) -> Field { p.x + \"s\".len() }\n",
	}
	for _, src := range sources {
		first := Module(parseSorted(t, src), Options{})
		second := Module(parseSorted(t, string(first)), Options{})
		if string(first) != string(second) {
			t.Fatalf("format is not idempotent for %q:\nfirst:\n%s\nsecond:\n%s", src, first, second)
		}
	}
}

func TestOptions(t *testing.T) {
	m := parseSorted(t, "/// doc\nfn f() { let x = 1; }\n")

	tabs := string(Module(m, Options{UseTabs: true}))
	if !strings.Contains(tabs, "\n\tlet x = 1;\n") {
		t.Fatalf("expected tab indentation:\n%s", tabs)
	}
	two := string(Module(m, Options{IndentWidth: 2, DropDocs: true}))
	if two != "fn f() {\n  let x = 1;\n}\n" {
		t.Fatalf("unexpected output:\n%q", two)
	}
}

func TestItemsNil(t *testing.T) {
	if out := Module(nil, Options{}); out != nil {
		t.Fatalf("expected nil output, got %q", out)
	}
	if out := Items([]ast.Item{nil}, Options{}); len(out) != 0 {
		t.Fatalf("expected empty output, got %q", out)
	}
}
