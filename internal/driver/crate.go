package driver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"macrofront/internal/ast"
	"macrofront/internal/buildpipeline"
	"macrofront/internal/diag"
	"macrofront/internal/hir"
	"macrofront/internal/macros"
	"macrofront/internal/observ"
	"macrofront/internal/parser"
	"macrofront/internal/project"
	"macrofront/internal/resolve"
	"macrofront/internal/source"
	"macrofront/internal/trace"
)

// CrateResult is everything the pipeline produced for one crate.
type CrateResult struct {
	Name    string
	Crate   hir.CrateID
	Root    source.FileID
	Files   []source.FileID // root first, then `mod` files in load order
	Module  *ast.Module     // root module after the untyped macro phase
	Context *hir.Context
	Resolve resolve.Result
	Bag     *diag.Bag
	Timer   *observ.Timer
	// MacroErr is the error that aborted macro processing, if any.
	MacroErr *macros.Error
	// Cached is set when the crate was not compiled because an identical
	// clean run is on disk; Context and Module are nil then.
	Cached bool
	// Digest identifies the crate's inputs; dependents fold it into their key.
	Digest project.Digest
}

// Broken reports whether the crate produced errors.
func (r *CrateResult) Broken() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// crateJob describes one crate to compile. deps must be frozen.
type crateJob struct {
	name string
	id   hir.CrateID
	root source.FileID
	deps []*hir.DefMap
}

type pipeline struct {
	fs       *source.FileSet
	interner *source.Interner
	graph    *hir.CrateGraph
	host     *macros.Host
	opts     Options
}

func (p *pipeline) stage(job crateJob, st buildpipeline.Stage, status buildpipeline.Status, elapsed time.Duration) {
	buildpipeline.Emit(p.opts.Progress, buildpipeline.Event{Crate: job.name, Stage: st, Status: status, Elapsed: elapsed})
}

// compile runs parse, the three macro phases, collection and resolution on
// one crate. Source problems end up in the result bag; the returned error is
// reserved for cancellation and broken invariants.
func (p *pipeline) compile(ctx context.Context, job crateJob) (*CrateResult, error) {
	span, ctx := trace.Start(ctx, trace.ScopeCrate, "crate")
	span.WithExtra("crate", job.name)

	bag := diag.NewBag(p.opts.MaxDiagnostics)
	rep := &diag.BagReporter{Bag: bag}
	res := &CrateResult{
		Name:  job.name,
		Crate: job.id,
		Root:  job.root,
		Files: []source.FileID{job.root},
		Bag:   bag,
		Timer: observ.NewTimer(),
	}

	hctx := hir.NewContext(p.interner, p.fs, p.graph, job.id)
	for _, dm := range job.deps {
		if err := hctx.AddDependency(dm); err != nil {
			span.End("error")
			return nil, fmt.Errorf("crate %s: %w", job.name, err)
		}
	}
	res.Context = hctx

	err := p.run(ctx, job, hctx, rep, res)
	hctx.DefMap.Freeze()
	if err != nil {
		span.End("error")
		return nil, err
	}
	span.End(fmt.Sprintf("%d diagnostics", bag.Len()))
	return res, nil
}

func (p *pipeline) run(ctx context.Context, job crateJob, hctx *hir.Context, rep diag.Reporter, res *CrateResult) error {
	maxErrs := uint(0)
	if p.opts.MaxDiagnostics > 0 {
		maxErrs = uint(p.opts.MaxDiagnostics)
	}
	loader := &fileLoader{fs: p.fs, reporter: rep, maxErrs: maxErrs}

	step := func(st buildpipeline.Stage, name string, fn func() (string, error)) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.stage(job, st, buildpipeline.StatusWorking, 0)
		idx := res.Timer.Begin(name)
		note, err := fn()
		elapsed := res.Timer.End(idx, note)
		if err != nil {
			p.stage(job, st, buildpipeline.StatusError, elapsed)
			return err
		}
		p.stage(job, st, buildpipeline.StatusDone, elapsed)
		return nil
	}

	var mod *ast.Module
	err := step(buildpipeline.StageParse, "parse", func() (string, error) {
		pr := parser.ParseFile(ctx, p.fs, job.root, parser.Options{Reporter: rep, MaxErrors: maxErrs})
		mod = pr.Module.IntoSorted()
		return fmt.Sprintf("%d items", mod.ItemCount()), nil
	})
	if err != nil {
		return err
	}

	session := p.host.Begin(job.id, job.root)
	err = step(buildpipeline.StageExpand, macros.PhaseUntyped.String(), func() (string, error) {
		out, err := session.UntypedAST(ctx, mod, hctx)
		if out != nil {
			mod = out
		}
		return fmt.Sprintf("%d functions", len(mod.Functions)), macroFailure(res, err)
	})
	if err != nil {
		return err
	}
	res.Module = mod

	err = step(buildpipeline.StageCollect, "collect", func() (string, error) {
		if err := resolve.Collect(ctx, hctx, mod, loader, rep); err != nil {
			return "", err
		}
		res.Files = append(res.Files, loader.files()...)
		return fmt.Sprintf("%d modules", len(hctx.DefMap.Modules)), nil
	})
	if err != nil {
		return err
	}

	imports := p.imports(hctx)
	err = step(buildpipeline.StagePrelude, macros.PhasePrelude.String(), func() (string, error) {
		err := session.CratePrelude(ctx, hctx, &imports, hctx.DefMap.Submodules())
		return fmt.Sprintf("%d imports", len(imports)), macroFailure(res, err)
	})
	if err != nil {
		return err
	}

	err = step(buildpipeline.StageResolve, "resolve", func() (string, error) {
		r, err := resolve.Resolve(ctx, hctx, imports, rep)
		res.Resolve = r
		return fmt.Sprintf("%d bindings", r.Bindings), err
	})
	if err != nil {
		return err
	}

	return step(buildpipeline.StageTyped, macros.PhaseTyped.String(), func() (string, error) {
		return "", macroFailure(res, session.TypedAST(ctx, hctx))
	})
}

// imports gathers the crate's own `use` directives and, when the crate
// depends on a stdlib that has a `prelude` module, the implicit prelude glob.
func (p *pipeline) imports(hctx *hir.Context) []hir.ImportDirective {
	var out []hir.ImportDirective
	for _, md := range hctx.DefMap.Modules {
		out = append(out, hir.DirectivesFromModule(md.ID, md.AST)...)
	}
	std, ok := p.graph.DependsOnStdlib(hctx.Crate)
	if !ok {
		return out
	}
	sdm, ok := hctx.DefMapOf(std.Crate)
	if !ok {
		return out
	}
	if sym, has := sdm.Root().Def(p.interner.Intern("prelude")); has && sym.Kind == hir.SymModule {
		out = append(out, hir.PreludeImport(std.Name))
	}
	return out
}

// macroFailure turns a macro error into a diagnostic. A session that was
// already aborted is silent; anything else is a driver bug.
func macroFailure(res *CrateResult, err error) error {
	if err == nil || errors.Is(err, macros.ErrAborted) {
		return nil
	}
	var me *macros.Error
	if errors.As(err, &me) {
		res.MacroErr = me
		res.Bag.Add(me.Diagnostic())
		return nil
	}
	return err
}
