package resolve

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"testing"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/hir"
	"macrofront/internal/parser"
	"macrofront/internal/source"
)

// workspace builds crates from in-memory files keyed by path.
type workspace struct {
	files  map[string]string
	fs     *source.FileSet
	in     *source.Interner
	graph  *hir.CrateGraph
	crates map[string]*hir.Context
}

func newWorkspace(files map[string]string) *workspace {
	return &workspace{
		files:  files,
		fs:     source.NewFileSet(),
		in:     source.NewInterner(),
		graph:  hir.NewCrateGraph(),
		crates: make(map[string]*hir.Context),
	}
}

func (w *workspace) parse(t *testing.T, p string) (*ast.Module, source.FileID, error) {
	t.Helper()
	src, ok := w.files[p]
	if !ok {
		return nil, 0, fmt.Errorf("%s: no such file", p)
	}
	id := w.fs.AddVirtual(p, []byte(src))
	bag := diag.NewBag(0)
	res := parser.ParseFile(context.Background(), w.fs, id, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	if bag.Len() != 0 {
		t.Fatalf("%s: parse diagnostics: %s", p, codes(bag))
	}
	return res.Module.IntoSorted(), id, nil
}

func (w *workspace) loader(t *testing.T) ModuleLoader {
	return LoaderFunc(func(_ context.Context, parent source.FileID, name string) (*ast.Module, source.FileID, error) {
		dir := path.Dir(w.fs.Get(parent).Path)
		return w.parse(t, path.Join(dir, name+".mf"))
	})
}

// crate collects and resolves a crate; deps must be built first.
// mutate runs on the root module before collection.
func (w *workspace) crate(t *testing.T, name string, kind hir.CrateKind, root string, deps []string, mutate func(*hir.Context, *ast.Module)) (*hir.Context, *diag.Bag, Result) {
	t.Helper()
	mod, file, err := w.parse(t, root)
	if err != nil {
		t.Fatal(err)
	}
	id, err := w.graph.AddCrate(name, kind, file)
	if err != nil {
		t.Fatal(err)
	}
	hctx := hir.NewContext(w.in, w.fs, w.graph, id)
	for _, dep := range deps {
		dctx := w.crates[dep]
		if err := w.graph.AddDependency(id, dep, dctx.Crate); err != nil {
			t.Fatal(err)
		}
		if err := hctx.AddDependency(dctx.DefMap); err != nil {
			t.Fatal(err)
		}
	}
	if mutate != nil {
		mutate(hctx, mod)
	}

	bag := diag.NewBag(0)
	rep := &diag.BagReporter{Bag: bag}
	if err := Collect(context.Background(), hctx, mod, w.loader(t), rep); err != nil {
		t.Fatal(err)
	}
	var imports []hir.ImportDirective
	for _, md := range hctx.DefMap.Modules {
		imports = append(imports, hir.DirectivesFromModule(md.ID, md.AST)...)
	}
	if std, ok := w.graph.DependsOnStdlib(id); ok {
		if sdm, ok := hctx.DefMapOf(std.Crate); ok {
			if _, has := sdm.Root().Def(w.in.Intern("prelude")); has {
				imports = append(imports, hir.PreludeImport(std.Name))
			}
		}
	}
	res, err := Resolve(context.Background(), hctx, imports, rep)
	if err != nil {
		t.Fatal(err)
	}
	hctx.DefMap.Freeze()
	w.crates[name] = hctx
	return hctx, bag, res
}

// codes renders diagnostic codes sorted, e.g. "SEM3001,SEM3002".
func codes(bag *diag.Bag) string {
	ids := make([]string, 0, bag.Len())
	for _, d := range bag.Items() {
		ids = append(ids, d.Code.ID())
	}
	slices.Sort(ids)
	return strings.Join(ids, ",")
}

func messages(bag *diag.Bag) string {
	var b strings.Builder
	for _, d := range bag.Items() {
		fmt.Fprintf(&b, "%s %s\n", d.Code.ID(), d.Message)
	}
	return b.String()
}

func fnNamed(t *testing.T, m *ast.Module, name string) *ast.FnDecl {
	t.Helper()
	for _, fn := range m.Functions {
		if fn.Name.Name == name {
			return fn
		}
	}
	t.Fatalf("function %s not found", name)
	return nil
}
