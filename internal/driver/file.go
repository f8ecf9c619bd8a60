package driver

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/hir"
	"macrofront/internal/observ"
	"macrofront/internal/parser"
	"macrofront/internal/project"
	"macrofront/internal/source"
	"macrofront/internal/trace"
)

// FileCrateName derives a crate name from a file path: "lib.mf" -> "lib".
func FileCrateName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), project.SourceExt)
	if !project.IsValidCrateName(name) {
		return "main"
	}
	return name
}

// ParseResult is the output of the parse command.
type ParseResult struct {
	FileSet *source.FileSet
	File    source.FileID
	Module  *ast.ParsedModule
	Bag     *diag.Bag
}

// Parse parses a single file without running any macro processor.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := parser.ParseFile(ctx, fs, id, parser.Options{Reporter: &diag.BagReporter{Bag: bag}})
	bag.Sort()
	return &ParseResult{FileSet: fs, File: id, Module: res.Module, Bag: bag}, nil
}

// ExpandResult is the root module of a file after the untyped macro phase.
type ExpandResult struct {
	FileSet *source.FileSet
	File    source.FileID
	Crate   hir.CrateID
	Module  *ast.Module
	Bag     *diag.Bag
	Timer   *observ.Timer
}

// Expand parses path as the root of a lone crate and runs only the untyped
// macro phase. stdlib marks the crate as the standard library.
func Expand(ctx context.Context, path string, stdlib bool, opts Options) (*ExpandResult, error) {
	fs := source.NewFileSetWithBase(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	graph := hir.NewCrateGraph()
	crate, err := graph.AddCrate(FileCrateName(path), fileCrateKind(stdlib), id)
	if err != nil {
		return nil, err
	}
	hctx := hir.NewContext(source.NewInterner(), fs, graph, crate)

	out := &ExpandResult{FileSet: fs, File: id, Crate: crate, Bag: diag.NewBag(opts.MaxDiagnostics), Timer: observ.NewTimer()}
	idx := out.Timer.Begin("parse")
	pr := parser.ParseFile(ctx, fs, id, parser.Options{Reporter: &diag.BagReporter{Bag: out.Bag}})
	mod := pr.Module.IntoSorted()
	out.Timer.End(idx, "")

	session := opts.host().Begin(crate, id)
	idx = out.Timer.Begin("macros.untyped")
	expanded, err := session.UntypedAST(ctx, mod, hctx)
	out.Timer.End(idx, "")
	res := &CrateResult{Bag: out.Bag}
	if err := macroFailure(res, err); err != nil {
		return nil, err
	}
	if expanded != nil {
		mod = expanded
	}
	out.Module = mod
	out.Bag.Sort()
	return out, nil
}

// CheckFile runs the full pipeline on a lone file with no dependencies.
func CheckFile(ctx context.Context, path string, stdlib bool, opts Options) (*WorkspaceResult, error) {
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "check_file")
	span.WithExtra("file", path)
	defer span.End("")

	fs := source.NewFileSetWithBase(filepath.Dir(path))
	id, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	ws := &WorkspaceResult{
		FileSet:  fs,
		Interner: source.NewInterner(),
		Graph:    hir.NewCrateGraph(),
		Bag:      diag.NewBag(opts.MaxDiagnostics),
		Timer:    observ.NewTimer(),
	}
	name := FileCrateName(path)
	crate, err := ws.Graph.AddCrate(name, fileCrateKind(stdlib), id)
	if err != nil {
		return nil, err
	}
	pipe := &pipeline{fs: fs, interner: ws.Interner, graph: ws.Graph, host: opts.host(), opts: opts}
	res, err := pipe.compile(ctx, crateJob{name: name, id: crate, root: id})
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", path, err)
	}
	res.Bag.Sort()
	ws.Crates = []*CrateResult{res}
	ws.Timer.Merge(name, res.Timer)
	return ws, nil
}

func fileCrateKind(stdlib bool) hir.CrateKind {
	if stdlib {
		return hir.CrateStdlib
	}
	return hir.CrateRoot
}
