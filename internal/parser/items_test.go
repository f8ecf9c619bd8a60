package parser

import (
	"testing"

	"macrofront/internal/ast"
)

func TestParseUseTrees(t *testing.T) {
	m := parseOK(t, `
use dep::std::hash::{pedersen, poseidon as p2, field::*};
pub use crate::util::helper;
use foo::*;
`)
	if len(m.Imports) != 3 {
		t.Fatalf("expected 3 imports, got %d", len(m.Imports))
	}

	leaves := m.Imports[0].Leaves()
	want := []struct {
		path, alias string
		glob        bool
	}{
		{"dep::std::hash::pedersen", "", false},
		{"dep::std::hash::poseidon", "p2", false},
		{"dep::std::hash::field", "", true},
	}
	if len(leaves) != len(want) {
		t.Fatalf("got %d leaves", len(leaves))
	}
	for i, w := range want {
		if leaves[i].Path.String() != w.path || leaves[i].Alias != w.alias || leaves[i].Glob != w.glob {
			t.Fatalf("leaf %d: %s %q %v", i, leaves[i].Path, leaves[i].Alias, leaves[i].Glob)
		}
	}

	if m.Imports[1].Visibility != ast.VisPublic || m.Imports[1].Leaves()[0].Path.Kind != ast.PathCrate {
		t.Fatalf("unexpected second import %+v", m.Imports[1])
	}
	if l := m.Imports[2].Leaves(); len(l) != 1 || !l[0].Glob || l[0].Path.String() != "foo" {
		t.Fatalf("unexpected glob import %+v", l)
	}
}

func TestParseStructGlobalMod(t *testing.T) {
	m := parseOK(t, `
pub struct Pair<T> { pub a: T, b: Field }
global LIMIT: u32 = 1 << 4;
pub mod hash;
mod util;
`)
	if len(m.Types) != 1 || len(m.Globals) != 1 || len(m.Submodules) != 2 {
		t.Fatalf("unexpected module shape: %d types, %d globals, %d mods", len(m.Types), len(m.Globals), len(m.Submodules))
	}
	st := m.Types[0]
	if st.Name.Name != "Pair" || len(st.Fields) != 2 || st.Fields[0].Visibility != ast.VisPublic {
		t.Fatalf("unexpected struct %+v", st)
	}
	g := m.Globals[0]
	if bin, ok := g.Value.(*ast.BinaryExpr); !ok || bin.Left.(*ast.IntLit).Text != "1" {
		t.Fatalf("unexpected global value %T", g.Value)
	}
	if m.Submodules[0].Name.Name != "hash" || m.Submodules[0].Visibility != ast.VisPublic {
		t.Fatalf("unexpected mod %+v", m.Submodules[0])
	}
}

func TestParseKeepsSourceOrderPerKind(t *testing.T) {
	pm, diags := ParseProgram("fn a() {} use x::y; fn b() {} struct S {} fn c() {}")
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(diags))
	}
	if len(pm.Items) != 5 {
		t.Fatalf("expected 5 items in source order, got %d", len(pm.Items))
	}
	names := pm.IntoSorted().FunctionNames()
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Fatalf("unexpected order %v", names)
	}
}
