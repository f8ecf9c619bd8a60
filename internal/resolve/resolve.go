package resolve

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/hir"
	"macrofront/internal/source"
)

// Result counts what Resolve bound and what it could not.
type Result struct {
	Imports    int // bound import directives
	Globs      int // glob directives expanded
	Bindings   int // resolved paths in bodies
	Unresolved int // failed imports and paths
}

type resolver struct {
	hctx     *hir.Context
	reporter diag.Reporter
	res      Result
}

// Resolve binds imports and body paths of the crate in hctx. The def map must
// already be collected. Dependency def maps must be registered on hctx.
func Resolve(ctx context.Context, hctx *hir.Context, imports []hir.ImportDirective, reporter diag.Reporter) (Result, error) {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	r := &resolver{hctx: hctx, reporter: reporter}
	r.imports(imports)
	if err := r.bodies(ctx); err != nil {
		return r.res, err
	}
	return r.res, nil
}

// imports: сначала явные импорты до неподвижной точки, затем глобы,
// затем ещё раз явные: им могли понадобиться имена из глобов.
func (r *resolver) imports(dirs []hir.ImportDirective) {
	var explicit, globs []hir.ImportDirective
	for _, d := range dirs {
		if r.hctx.DefMap.Module(d.Module) == nil {
			continue
		}
		if d.Glob {
			globs = append(globs, d)
		} else {
			explicit = append(explicit, d)
		}
	}
	explicit = r.fixpoint(explicit)
	for _, d := range globs {
		r.glob(d)
	}
	explicit = r.fixpoint(explicit)
	for _, d := range explicit {
		md := r.hctx.DefMap.Module(d.Module)
		if _, fail := r.lookupPath(md, d.Path); fail != nil {
			r.importFailed(md, d, fail)
		}
	}
}

// fixpoint binds directives until a round makes no progress; it returns the rest.
func (r *resolver) fixpoint(pending []hir.ImportDirective) []hir.ImportDirective {
	for len(pending) > 0 {
		var next []hir.ImportDirective
		progress := false
		for _, d := range pending {
			md := r.hctx.DefMap.Module(d.Module)
			sym, fail := r.lookupPath(md, d.Path)
			switch {
			case fail == nil:
				r.bind(md, d, sym)
				progress = true
			case fail.private:
				r.importFailed(md, d, fail)
				progress = true
			default:
				next = append(next, d)
			}
		}
		pending = next
		if !progress {
			break
		}
	}
	return pending
}

func (r *resolver) bind(md *hir.ModuleData, d hir.ImportDirective, sym *hir.Symbol) {
	name := d.Name()
	id := r.hctx.Name(name)
	if prev, ok := md.Import(id, sym); !ok {
		diag.ReportError(r.reporter, diag.SemaDuplicateSymbol, r.span(md, d.Span),
			fmt.Sprintf("`%s` is imported but the name is already taken in `%s`", name, r.hctx.DefMap.ModulePath(md.ID))).
			WithNote(prev.Span, fmt.Sprintf("`%s` bound here", name)).
			Emit()
		return
	}
	if d.Public {
		md.Export(id, sym)
	}
	r.res.Imports++
}

func (r *resolver) glob(d hir.ImportDirective) {
	md := r.hctx.DefMap.Module(d.Module)
	sym, fail := r.lookupPath(md, d.Path)
	if fail != nil {
		r.importFailed(md, d, fail)
		return
	}
	if sym.Kind != hir.SymModule {
		r.importFailed(md, d, &failure{msg: fmt.Sprintf("cannot glob-import from %s `%s`", sym.Kind, d.Path)})
		return
	}
	target := r.moduleData(sym)
	if target == nil {
		r.importFailed(md, d, &failure{msg: fmt.Sprintf("module `%s` is not available", d.Path)})
		return
	}
	same := sym.Crate == r.hctx.Crate
	for _, def := range target.Defs() {
		if same || def.IsPublic() {
			md.ImportGlob(def.Name, def)
			if d.Public {
				md.Export(def.Name, def)
			}
		}
	}
	exports := target.Exports()
	for _, name := range slices.Sorted(maps.Keys(exports)) {
		md.ImportGlob(name, exports[name])
		if d.Public {
			md.Export(name, exports[name])
		}
	}
	r.res.Globs++
}

func (r *resolver) importFailed(md *hir.ModuleData, d hir.ImportDirective, fail *failure) {
	r.res.Unresolved++
	code := diag.SemaUnresolvedImport
	if fail.private {
		code = diag.SemaPrivateItem
	}
	msg := fmt.Sprintf("unresolved import `%s`: %s", d.Path, fail.msg)
	if d.Implicit {
		msg = fmt.Sprintf("unresolved implicit import `%s`: %s", d.Path, fail.msg)
	}
	diag.ReportError(r.reporter, code, r.span(md, d.Span), msg).Emit()
}

// span подменяет пустые и snippet-спаны на начало файла модуля.
func (r *resolver) span(md *hir.ModuleData, sp source.Span) source.Span {
	if sp.File.IsSnippet() || sp == (source.Span{}) {
		return source.Span{File: md.File}
	}
	return sp
}

func (r *resolver) bodies(ctx context.Context) error {
	for _, md := range r.hctx.DefMap.Modules {
		if err := ctx.Err(); err != nil {
			return err
		}
		if md.AST == nil {
			continue
		}
		w := &walker{r: r, md: md}
		for _, fn := range md.AST.Functions {
			w.fn(fn)
		}
		for _, g := range md.AST.Globals {
			w.expr(g.Value)
		}
	}
	return nil
}

type walker struct {
	r      *resolver
	md     *hir.ModuleData
	cur    *ast.FnDecl // nil inside global initializers
	scopes []map[string]struct{}
}

func (w *walker) push(names ...string) {
	scope := make(map[string]struct{}, len(names))
	for _, n := range names {
		scope[n] = struct{}{}
	}
	w.scopes = append(w.scopes, scope)
}

func (w *walker) pop() { w.scopes = w.scopes[:len(w.scopes)-1] }

func (w *walker) declare(name string) {
	if len(w.scopes) == 0 {
		w.push()
	}
	w.scopes[len(w.scopes)-1][name] = struct{}{}
}

func (w *walker) local(name string) bool {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if _, ok := w.scopes[i][name]; ok {
			return true
		}
	}
	return false
}

func (w *walker) fn(fn *ast.FnDecl) {
	if fn.Body == nil {
		return
	}
	names := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		names = append(names, p.Name.Name)
	}
	w.cur = fn
	w.push(names...)
	w.block(fn.Body)
	w.pop()
	w.cur = nil
}

func (w *walker) block(b *ast.Block) {
	if b == nil {
		return
	}
	w.push()
	for _, st := range b.Stmts {
		w.stmt(st)
	}
	w.pop()
}

func (w *walker) stmt(st ast.Stmt) {
	switch st := st.(type) {
	case *ast.LetStmt:
		w.expr(st.Value)
		w.declare(st.Name.Name)
	case *ast.ReturnStmt:
		w.expr(st.Value)
	case *ast.ForStmt:
		w.expr(st.Start)
		w.expr(st.End)
		w.push(st.Var.Name)
		w.block(st.Body)
		w.pop()
	case *ast.AssignStmt:
		w.expr(st.Target)
		w.expr(st.Value)
	case *ast.ExprStmt:
		w.expr(st.X)
	}
}

func (w *walker) expr(e ast.Expr) {
	switch e := e.(type) {
	case nil:
	case *ast.PathExpr:
		w.path(e)
	case *ast.UnaryExpr:
		w.expr(e.X)
	case *ast.BinaryExpr:
		w.expr(e.Left)
		w.expr(e.Right)
	case *ast.CallExpr:
		w.expr(e.Callee)
		for _, a := range e.Args {
			w.expr(a)
		}
	case *ast.IndexExpr:
		w.expr(e.X)
		w.expr(e.Index)
	case *ast.MemberExpr:
		w.expr(e.X)
	case *ast.ParenExpr:
		w.expr(e.X)
	case *ast.TupleExpr:
		for _, x := range e.Elems {
			w.expr(x)
		}
	case *ast.ArrayExpr:
		for _, x := range e.Elems {
			w.expr(x)
		}
	case *ast.BlockExpr:
		w.block(e.Block)
	case *ast.IfExpr:
		w.expr(e.Cond)
		w.block(e.Then)
		w.expr(e.Else)
	}
}

func (w *walker) path(e *ast.PathExpr) {
	if e.Path.IsIdent() && w.local(e.Path.Segments[0].Name) {
		return
	}
	sym, fail := w.r.lookupPath(w.md, e.Path)
	if fail != nil {
		w.r.res.Unresolved++
		code := diag.SemaUnresolvedSymbol
		if fail.private {
			code = diag.SemaPrivateItem
		}
		diag.ReportError(w.r.reporter, code, w.r.span(w.md, e.Path.Span), fail.msg).Emit()
		return
	}
	w.r.hctx.Bind(e, sym)
	w.r.res.Bindings++
	w.noteOracle(sym)
}

// noteOracle помечает текущую функцию именем оракула, на который она ссылается.
func (w *walker) noteOracle(sym *hir.Symbol) {
	if w.cur == nil || sym.Kind != hir.SymFn || sym.Fn == nil {
		return
	}
	name, ok := sym.Fn.Oracle()
	if !ok {
		return
	}
	prev, _ := w.r.hctx.Annotation(w.cur, hir.AnnotOracle)
	if prev == "" {
		w.r.hctx.Annotate(w.cur, hir.AnnotOracle, name)
		return
	}
	if slices.Contains(strings.Split(prev, ","), name) {
		return
	}
	w.r.hctx.Annotate(w.cur, hir.AnnotOracle, prev+","+name)
}
