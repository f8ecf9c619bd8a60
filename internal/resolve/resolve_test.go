package resolve

import (
	"context"
	"strings"
	"testing"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/hir"
	"macrofront/internal/macros"
	"macrofront/internal/macros/assertmsg"
	"macrofront/internal/source"
)

func TestCollectReportsDefinitionErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"duplicate fn", "fn a() {}\nfn a() {}", "SEM3001"},
		{"fn and global clash", "fn a() {}\nglobal a = 1;", "SEM3001"},
		{"duplicate param", "fn f(x: Field, x: Field) {}", "SEM3005"},
		{"underscore params", "fn f(_: Field, _: Field) {}", ""},
		{"oracle without name", "#[oracle]\nfn o() {}", "SEM3006"},
		{"duplicate oracle", "#[oracle(x)]\nfn o1() {}\n#[oracle(x)]\nfn o2() {}", "SEM3001"},
		{"missing module file", "mod gone;", "IO4002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorkspace(map[string]string{"main.mf": tt.src})
			_, bag, _ := w.crate(t, "app", hir.CrateRoot, "main.mf", nil, nil)
			if got := codes(bag); got != tt.want {
				t.Fatalf("got %q, want %q\n%s", got, tt.want, messages(bag))
			}
		})
	}
}

func TestCollectBuildsModuleTree(t *testing.T) {
	w := newWorkspace(map[string]string{
		"lib.mf":   "pub mod hash;\nmod util;\n#[oracle(print)]\nunconstrained fn print_oracle<T>(x: T) {}",
		"hash.mf":  "pub fn hash(x: Field) -> Field { x }\npub mod inner;",
		"util.mf":  "fn helper() {}",
		"inner.mf": "pub struct Point { x: Field }",
	})
	hctx, bag, _ := w.crate(t, "std", hir.CrateStdlib, "lib.mf", nil, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(bag))
	}
	dm := hctx.DefMap
	if len(dm.Modules) != 4 {
		t.Fatalf("expected 4 modules, got %d", len(dm.Modules))
	}
	var paths []string
	for _, md := range dm.Modules {
		paths = append(paths, dm.ModulePath(md.ID))
	}
	if got := strings.Join(paths, " "); got != "std std::hash std::hash::inner std::util" {
		t.Fatalf("unexpected module paths %q", got)
	}
	hash, ok := dm.Root().Def(hctx.Name("hash"))
	if !ok || hash.Kind != hir.SymModule || !hash.IsPublic() {
		t.Fatalf("hash module symbol missing: %+v", hash)
	}
	if o, ok := hctx.Oracle("print"); !ok || o.Fn.Name.Name != "print_oracle" || o.Module != hir.RootModule {
		t.Fatalf("oracle not registered")
	}
}

func stdFiles() map[string]string {
	return map[string]string{
		"std/lib.mf":     "pub mod hash;\npub mod prelude;\nfn internal() {}",
		"std/hash.mf":    "pub fn hash(x: Field) -> Field { x }\nfn secret() {}",
		"std/prelude.mf": "pub use crate::hash::hash;",
	}
}

func withFiles(base map[string]string, extra map[string]string) map[string]string {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

func TestResolveImportsAcrossCrates(t *testing.T) {
	w := newWorkspace(withFiles(stdFiles(), map[string]string{
		"app/main.mf": `use dep::std::hash::hash as h;
use std::hash::secret;
use std::internal;
use crate::nope;
fn main() {
    h(1);
}`,
	}))
	if _, bag, _ := w.crate(t, "std", hir.CrateStdlib, "std/lib.mf", nil, nil); bag.Len() != 0 {
		t.Fatalf("std diagnostics:\n%s", messages(bag))
	}
	hctx, bag, res := w.crate(t, "app", hir.CrateRoot, "app/main.mf", []string{"std"}, nil)
	if got := codes(bag); got != "SEM3003,SEM3004,SEM3004" {
		t.Fatalf("got %q\n%s", got, messages(bag))
	}
	if res.Imports != 1 || res.Globs != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	main, _ := hctx.DefMap.Root().AST.Function("main")
	call := main.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	sym, ok := hctx.Binding(call.Callee.(*ast.PathExpr))
	if !ok || sym.Kind != hir.SymFn || sym.Fn.Name.Name != "hash" {
		t.Fatalf("callee not bound to std::hash::hash: %+v", sym)
	}
	if std, _ := w.graph.Lookup("std"); sym.Crate != std {
		t.Fatalf("binding must point into the std crate")
	}
}

func TestPreludeMakesStdNamesVisible(t *testing.T) {
	w := newWorkspace(withFiles(stdFiles(), map[string]string{
		"app/main.mf": "fn main() { let y = hash(1); y; }",
	}))
	w.crate(t, "std", hir.CrateStdlib, "std/lib.mf", nil, nil)
	_, bag, res := w.crate(t, "app", hir.CrateRoot, "app/main.mf", []string{"std"}, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(bag))
	}
	if res.Bindings != 1 {
		t.Fatalf("expected 1 binding, got %+v", res)
	}
}

func TestBodiesRespectLocalScopes(t *testing.T) {
	src := `global LIMIT = 3;
fn helper(a: Field) -> Field { a }
fn f(x: Field) -> Field {
    let y = helper(x);
    for i in 0..LIMIT {
        y = y + i;
    }
    {
        let z = y;
        z;
    }
    z;
    if y == 0 { crate::helper(y) } else { missing(y) }
}`
	w := newWorkspace(map[string]string{"main.mf": src})
	_, bag, res := w.crate(t, "app", hir.CrateRoot, "main.mf", nil, nil)
	if got := codes(bag); got != "SEM3002,SEM3002" {
		t.Fatalf("got %q\n%s", got, messages(bag))
	}
	for _, want := range []string{"`z`", "`missing`"} {
		if !strings.Contains(messages(bag), want) {
			t.Fatalf("expected a diagnostic about %s\n%s", want, messages(bag))
		}
	}
	if res.Bindings != 3 || res.Unresolved != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestReexportChainsResolve(t *testing.T) {
	w := newWorkspace(map[string]string{
		"main.mf": "mod a;\nmod b;\nuse b::f;\nfn main() { f(); }",
		"a.mf":    "pub fn f() {}",
		"b.mf":    "pub use crate::a::f;",
	})
	_, bag, res := w.crate(t, "app", hir.CrateRoot, "main.mf", nil, nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(bag))
	}
	if res.Imports != 2 || res.Bindings != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestInjectedNameCollisionIsDuplicate(t *testing.T) {
	w := newWorkspace(map[string]string{
		"lib.mf": "pub fn assert_message_oracle() {}",
	})
	inject := func(hctx *hir.Context, mod *ast.Module) {
		s := macros.NewHost(assertmsg.New()).Begin(hctx.Crate, mod.File)
		if _, err := s.UntypedAST(context.Background(), mod, hctx); err != nil {
			t.Fatal(err)
		}
	}
	_, bag, _ := w.crate(t, "std", hir.CrateStdlib, "lib.mf", nil, inject)
	if got := codes(bag); got != "SEM3001" {
		t.Fatalf("got %q\n%s", got, messages(bag))
	}
	d := bag.Items()[0]
	if d.Primary.File.IsSnippet() {
		t.Fatalf("duplicate must be attributed to the module file, got %v", d.Primary)
	}
	if len(d.Notes) != 2 {
		t.Fatalf("expected notes about both definitions, got %+v", d.Notes)
	}
}

func TestInjectedFunctionsResolveInStdlib(t *testing.T) {
	w := newWorkspace(map[string]string{"lib.mf": "pub fn id(x: Field) -> Field { x }"})
	var root *ast.Module
	inject := func(hctx *hir.Context, mod *ast.Module) {
		out, err := assertmsg.New().ProcessUntypedAST(mod, hctx.Crate, hctx)
		if err != nil {
			t.Fatal(err)
		}
		root = out
	}
	hctx, bag, res := w.crate(t, "std", hir.CrateStdlib, "lib.mf", nil, inject)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(bag))
	}
	if _, ok := hctx.Oracle(assertmsg.OracleName); !ok {
		t.Fatalf("injected oracle not registered")
	}
	// вызов оракула внутри обёртки
	if res.Bindings != 1 {
		t.Fatalf("expected the wrapper's oracle call to resolve, got %+v", res)
	}
	if got, _ := hctx.Annotation(fnNamed(t, root, assertmsg.WrapperFn), hir.AnnotOracle); got != assertmsg.OracleName {
		t.Fatalf("wrapper oracle note = %q", got)
	}
}

func TestResolveNotesOracleReferences(t *testing.T) {
	w := newWorkspace(map[string]string{"lib.mf": `#[oracle(a)]
unconstrained fn oa(_x: Field) {}
#[oracle(b)]
unconstrained fn ob(_x: Field) {}
fn both(x: Field) { oa(x); ob(x); oa(x); }
fn plain(x: Field) { both(x); }
`})
	var root *ast.Module
	hctx, bag, _ := w.crate(t, "std", hir.CrateStdlib, "lib.mf", nil, func(_ *hir.Context, m *ast.Module) { root = m })
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(bag))
	}
	tests := []struct {
		fn   string
		want string
	}{
		{"both", "a,b"},
		{"plain", ""},
		{"oa", ""},
	}
	for _, tt := range tests {
		if got, _ := hctx.Annotation(fnNamed(t, root, tt.fn), hir.AnnotOracle); got != tt.want {
			t.Fatalf("%s: oracle note = %q, want %q", tt.fn, got, tt.want)
		}
	}
}

func TestImplicitImportFailureUsesModuleFile(t *testing.T) {
	w := newWorkspace(map[string]string{"main.mf": "fn main() {}"})
	var file source.FileID
	hctx, _, _ := w.crate(t, "app", hir.CrateRoot, "main.mf", nil, func(h *hir.Context, m *ast.Module) { file = m.File })

	bag := diag.NewBag(0)
	ctx := hir.NewContext(w.in, w.fs, w.graph, hctx.Crate)
	ctx.DefMap = hctx.DefMap
	_, err := Resolve(context.Background(), ctx, []hir.ImportDirective{hir.PreludeImport("std")}, &diag.BagReporter{Bag: bag})
	if err != nil {
		t.Fatal(err)
	}
	if got := codes(bag); got != "SEM3003" {
		t.Fatalf("got %q", got)
	}
	if d := bag.Items()[0]; d.Primary.File != file || !strings.Contains(d.Message, "implicit") {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}
