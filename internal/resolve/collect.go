package resolve

import (
	"context"
	"fmt"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/hir"
	"macrofront/internal/source"
)

// ModuleLoader returns the parsed file behind `mod name;` declared in parent.
type ModuleLoader interface {
	LoadSubmodule(ctx context.Context, parent source.FileID, name string) (*ast.Module, source.FileID, error)
}

// LoaderFunc adapts a function to ModuleLoader.
type LoaderFunc func(ctx context.Context, parent source.FileID, name string) (*ast.Module, source.FileID, error)

func (f LoaderFunc) LoadSubmodule(ctx context.Context, parent source.FileID, name string) (*ast.Module, source.FileID, error) {
	return f(ctx, parent, name)
}

type collector struct {
	hctx     *hir.Context
	loader   ModuleLoader
	reporter diag.Reporter
	files    map[source.FileID]hir.LocalModuleID
}

// Collect fills hctx.DefMap starting from root. Sub-files are requested from
// loader; a nil loader makes every `mod` declaration a missing file.
func Collect(ctx context.Context, hctx *hir.Context, root *ast.Module, loader ModuleLoader, reporter diag.Reporter) error {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	c := &collector{
		hctx:     hctx,
		loader:   loader,
		reporter: reporter,
		files:    make(map[source.FileID]hir.LocalModuleID),
	}
	md := hctx.DefMap.AddModule("", hir.RootModule, root.File, root)
	c.files[root.File] = md.ID
	return c.module(ctx, md)
}

func (c *collector) module(ctx context.Context, md *hir.ModuleData) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mod := md.AST
	for _, fn := range mod.Functions {
		c.checkParams(fn)
		c.define(md, &hir.Symbol{Kind: hir.SymFn, Vis: fn.Visibility, Span: fn.Name.Span, Fn: fn}, fn.Name.Name)
		c.oracle(md, fn)
	}
	for _, st := range mod.Types {
		c.define(md, &hir.Symbol{Kind: hir.SymStruct, Vis: st.Visibility, Span: st.Name.Span, Struct: st}, st.Name.Name)
	}
	for _, g := range mod.Globals {
		c.define(md, &hir.Symbol{Kind: hir.SymGlobal, Vis: g.Visibility, Span: g.Name.Span, Global: g}, g.Name.Name)
	}
	for _, decl := range mod.Submodules {
		if err := c.submodule(ctx, md, decl); err != nil {
			return err
		}
	}
	return nil
}

func (c *collector) submodule(ctx context.Context, parent *hir.ModuleData, decl *ast.ModDecl) error {
	name := decl.Name.Name
	if c.loader == nil {
		c.missing(decl, fmt.Errorf("no module loader"))
		return nil
	}
	child, file, err := c.loader.LoadSubmodule(ctx, parent.File, name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.missing(decl, err)
		return nil
	}
	if prev, seen := c.files[file]; seen {
		diag.ReportError(c.reporter, diag.IOLoadFileError, decl.Span,
			fmt.Sprintf("file of module `%s` is already loaded as `%s`", name, c.hctx.DefMap.ModulePath(prev))).Emit()
		return nil
	}
	if child.File != file {
		child.File = file
	}
	md := c.hctx.DefMap.AddModule(name, parent.ID, file, child)
	c.files[file] = md.ID
	if !c.define(parent, &hir.Symbol{Kind: hir.SymModule, Vis: decl.Visibility, Span: decl.Name.Span, Target: md.ID}, name) {
		return nil
	}
	return c.module(ctx, md)
}

func (c *collector) missing(decl *ast.ModDecl, err error) {
	diag.ReportError(c.reporter, diag.IOMissingModFile, decl.Span,
		fmt.Sprintf("cannot load module `%s`: %v", decl.Name.Name, err)).Emit()
}

// define регистрирует символ в модуле; при конфликте: SEM3001 с заметкой на первое определение.
func (c *collector) define(md *hir.ModuleData, sym *hir.Symbol, name string) bool {
	sym.Name = c.hctx.Name(name)
	sym.Crate = c.hctx.Crate
	sym.Module = md.ID
	prev, ok := md.Define(sym)
	if ok {
		return true
	}
	primary := sym.Span
	if primary.File.IsSnippet() {
		// объявление пришло из макро-процессора: привязываем к файлу модуля
		primary = source.Span{File: md.File}
	}
	b := diag.ReportError(c.reporter, diag.SemaDuplicateSymbol, primary,
		fmt.Sprintf("`%s` is defined more than once in `%s`", name, c.hctx.DefMap.ModulePath(md.ID))).
		WithNote(prev.Span, fmt.Sprintf("previous %s `%s` defined here", prev.Kind, name))
	if sym.Span.File.IsSnippet() {
		b.WithNote(primary, "the second definition was injected by a macro processor")
	}
	b.Emit()
	return false
}

func (c *collector) checkParams(fn *ast.FnDecl) {
	seen := make(map[string]source.Span, len(fn.Params))
	for _, p := range fn.Params {
		if p.Name.Name == "_" {
			continue
		}
		if first, dup := seen[p.Name.Name]; dup {
			diag.ReportError(c.reporter, diag.SemaDuplicateParam, p.Name.Span,
				fmt.Sprintf("parameter `%s` is bound more than once in `%s`", p.Name.Name, fn.Name.Name)).
				WithNote(first, "first binding").
				Emit()
			continue
		}
		seen[p.Name.Name] = p.Name.Span
	}
}

func (c *collector) oracle(md *hir.ModuleData, fn *ast.FnDecl) {
	attr, tagged := ast.FindAttr(fn.Attrs, "oracle")
	if !tagged {
		return
	}
	name, ok := fn.Oracle()
	if !ok {
		diag.ReportError(c.reporter, diag.SemaUnknownOracleTarget, attr.Span,
			fmt.Sprintf("`#[oracle]` on `%s` must name exactly one capability", fn.Name.Name)).Emit()
		return
	}
	info := &hir.OracleInfo{Name: name, Fn: fn, Crate: c.hctx.Crate, Module: md.ID}
	if prev, ok := c.hctx.RegisterOracle(info); !ok {
		diag.ReportError(c.reporter, diag.SemaDuplicateSymbol, fn.Name.Span,
			fmt.Sprintf("oracle `%s` is declared more than once", name)).
			WithNote(prev.Fn.Name.Span, fmt.Sprintf("`%s` declared here", prev.Fn.Name.Name)).
			Emit()
	}
}
