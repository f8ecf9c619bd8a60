package driver

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"macrofront/internal/buildpipeline"
	"macrofront/internal/diag"
	"macrofront/internal/hir"
	"macrofront/internal/macros"
	"macrofront/internal/observ"
	"macrofront/internal/project"
	"macrofront/internal/project/dag"
	"macrofront/internal/source"
	"macrofront/internal/trace"
)

// WorkspaceResult collects the outcome of a check run.
type WorkspaceResult struct {
	Manifest *project.Manifest // nil for single-file runs
	FileSet  *source.FileSet
	Interner *source.Interner
	Graph    *hir.CrateGraph
	// Bag holds workspace-level diagnostics: manifest, DAG, dependency failures.
	Bag *diag.Bag
	// Crates are the compiled or cached crates in dependency order.
	Crates []*CrateResult
	// Skipped lists crates that were never compiled (cycles, unreadable roots,
	// failed dependencies).
	Skipped []string
	Timer   *observ.Timer
}

// Crate finds a crate result by name.
func (r *WorkspaceResult) Crate(name string) (*CrateResult, bool) {
	for _, c := range r.Crates {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Diagnostics returns workspace diagnostics followed by every crate's, in
// dependency order.
func (r *WorkspaceResult) Diagnostics() []diag.Diagnostic {
	var out []diag.Diagnostic
	if r.Bag != nil {
		out = append(out, r.Bag.Items()...)
	}
	for _, c := range r.Crates {
		if c.Bag != nil {
			out = append(out, c.Bag.Items()...)
		}
	}
	return out
}

func (r *WorkspaceResult) HasErrors() bool {
	if r.Bag != nil && r.Bag.HasErrors() {
		return true
	}
	for _, c := range r.Crates {
		if c.Broken() {
			return true
		}
	}
	return false
}

// CheckWorkspace runs the pipeline over every crate of the manifest at
// manifestPath. Crates of one dependency wave run concurrently. A returned
// error means the run itself failed (unreadable manifest, cancellation or
// *macros.InternalError); source problems are diagnostics in the result.
func CheckWorkspace(ctx context.Context, manifestPath string, opts Options) (*WorkspaceResult, error) {
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "check_workspace")
	span.WithExtra("manifest", manifestPath)
	defer span.End("")

	m, err := project.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}
	fs := source.NewFileSetWithBase(m.Root)
	manifestID, err := fs.Load(m.Path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	ws := &WorkspaceResult{
		Manifest: m,
		FileSet:  fs,
		Interner: source.NewInterner(),
		Graph:    hir.NewCrateGraph(),
		Bag:      diag.NewBag(opts.MaxDiagnostics),
		Timer:    observ.NewTimer(),
	}
	rep := &diag.BagReporter{Bag: ws.Bag}

	idx := ws.Timer.Begin("graph")
	metas := m.CrateMetas(manifestID, fs.Get(manifestID).Content)
	index := dag.BuildIndex(metas)
	nodes := make([]dag.CrateNode, len(metas))
	for i, meta := range metas {
		nodes[i] = dag.CrateNode{Meta: meta, Reporter: rep}
	}
	g, slots := dag.BuildGraph(index, nodes)
	topo := dag.ToposortKahn(g)
	dag.ReportCycles(index, slots, topo)
	ws.Timer.End(idx, fmt.Sprintf("%d crates, %d waves", len(topo.Order), len(topo.Batches)))

	names := make([]string, 0, len(topo.Order))
	for _, id := range topo.Order {
		names = append(names, index.IDToName[int(id)])
	}
	buildpipeline.EmitQueued(opts.Progress, names)

	r := &runner{
		ws:      ws,
		index:   index,
		g:       g,
		slots:   slots,
		ids:     make([]hir.CrateID, len(slots)),
		roots:   make([]source.FileID, len(slots)),
		loaded:  make([]bool, len(slots)),
		results: make([]*CrateResult, len(slots)),
		opts:    opts,
		rep:     rep,
	}
	if err := r.register(topo); err != nil {
		return nil, err
	}
	r.pipe = &pipeline{fs: fs, interner: ws.Interner, graph: ws.Graph, host: opts.host(), opts: opts}
	r.procDigest = processorsDigest(r.pipe.host.Processors())

	for wave, batch := range topo.Batches {
		if err := r.wave(ctx, wave, batch); err != nil {
			return ws, err
		}
	}
	r.finish(topo)
	return ws, nil
}

type runner struct {
	ws         *WorkspaceResult
	index      dag.Index
	g          dag.Graph
	slots      []dag.CrateSlot
	ids        []hir.CrateID
	roots      []source.FileID
	loaded     []bool
	results    []*CrateResult // индекс уникален для горутины, мьютекс не нужен
	pipe       *pipeline
	procDigest project.Digest
	opts       Options
	rep        diag.Reporter
}

// register loads root files and mirrors the DAG into the crate graph.
func (r *runner) register(topo *dag.Topo) error {
	for _, id := range topo.Order {
		slot := &r.slots[int(id)]
		root, err := r.ws.FileSet.Load(slot.Meta.Root)
		if err != nil {
			diag.ReportError(r.rep, diag.IOLoadFileError, slot.Meta.Span,
				fmt.Sprintf("cannot read root of crate %q: %v", slot.Meta.Name, err)).Emit()
			continue
		}
		kind := hir.CrateRoot
		switch {
		case slot.Meta.Stdlib:
			kind = hir.CrateStdlib
		case len(r.g.Edges[int(id)]) > 0:
			kind = hir.CrateDep
		}
		hid, err := r.ws.Graph.AddCrate(slot.Meta.Name, kind, root)
		if err != nil {
			return err
		}
		r.ids[int(id)] = hid
		r.roots[int(id)] = root
		r.loaded[int(id)] = true
	}
	for _, id := range topo.Order {
		if !r.loaded[int(id)] {
			continue
		}
		for _, dep := range r.slots[int(id)].Meta.Deps {
			to, ok := r.index.NameToID[dep.Name]
			if !ok || !r.loaded[int(to)] || to == id {
				continue
			}
			if _, dup := r.ws.Graph.Dependency(r.ids[int(id)], dep.Name); dup {
				continue
			}
			if err := r.ws.Graph.AddDependency(r.ids[int(id)], dep.Name, r.ids[int(to)]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *runner) wave(ctx context.Context, wave int, batch []dag.NodeID) error {
	span, ctx := trace.Start(ctx, trace.ScopeDriver, "wave")
	span.WithExtra("wave", fmt.Sprint(wave))
	defer span.End(fmt.Sprintf("%d crates", len(batch)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(r.opts.jobs(), max(len(batch), 1)))
	for _, id := range batch {
		job, ok := r.job(id)
		if !ok {
			buildpipeline.Emit(r.opts.Progress, buildpipeline.Event{Crate: r.slots[int(id)].Meta.Name, Status: buildpipeline.StatusSkipped})
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					ie, ok := macros.AsInternal(rec)
					if !ok {
						panic(rec)
					}
					err = ie
				}
			}()
			res, err := r.crate(gctx, id, job)
			if err != nil {
				buildpipeline.Emit(r.opts.Progress, buildpipeline.Event{Crate: job.name, Status: buildpipeline.StatusError, Err: err})
				return err
			}
			r.results[int(id)] = res
			return nil
		})
	}
	return g.Wait()
}

// job prepares a crate whose dependencies all compiled; ok is false otherwise.
func (r *runner) job(id dag.NodeID) (crateJob, bool) {
	if !r.loaded[int(id)] {
		return crateJob{}, false
	}
	job := crateJob{name: r.slots[int(id)].Meta.Name, id: r.ids[int(id)], root: r.roots[int(id)]}
	seen := make(map[dag.NodeID]bool)
	var walk func(dag.NodeID) bool
	walk = func(n dag.NodeID) bool {
		for _, dep := range r.slots[int(n)].Meta.Deps {
			to, ok := r.index.NameToID[dep.Name]
			if !ok || to == n || !r.g.Present[int(to)] || seen[to] {
				continue
			}
			seen[to] = true
			res := r.results[int(to)]
			if res == nil {
				return false
			}
			// cached crates are leaves, so a dependency always has a context
			job.deps = append(job.deps, res.Context.DefMap)
			if !walk(to) {
				return false
			}
		}
		return true
	}
	if !walk(id) {
		return crateJob{}, false
	}
	return job, true
}

// crate compiles one crate or takes a clean leaf crate from the disk cache.
func (r *runner) crate(ctx context.Context, id dag.NodeID, job crateJob) (*CrateResult, error) {
	start := time.Now()
	key := r.key(id, job)
	cache := r.opts.DiskCache
	leaf := len(r.g.Edges[int(id)]) == 0

	var warn *diag.Diagnostic
	if cache != nil && leaf {
		var sum CrateSummary
		hit, err := cache.Get(key, &sum)
		switch {
		case err != nil:
			d := diag.New(diag.SevWarning, diag.IOCacheReadFailed, source.Span{File: job.root},
				fmt.Sprintf("ignoring cache entry %s of crate %q: %v", key.Short(), job.name, err))
			warn = &d
		case hit && !sum.Broken && sum.Errors == 0 && sum.Warnings == 0 && sum.fresh():
			res := &CrateResult{
				Name:   job.name,
				Crate:  job.id,
				Root:   job.root,
				Files:  []source.FileID{job.root},
				Bag:    diag.NewBag(r.opts.MaxDiagnostics),
				Timer:  observ.NewTimer(),
				Cached: true,
				Digest: sum.Digest,
			}
			buildpipeline.Emit(r.opts.Progress, buildpipeline.Event{Crate: job.name, Status: buildpipeline.StatusCached, Elapsed: time.Since(start)})
			return res, nil
		}
	}

	res, err := r.pipe.compile(ctx, job)
	if err != nil {
		return nil, err
	}
	if warn != nil {
		res.Bag.Add(*warn)
	}
	sum := summarize(r.ws.FileSet, res, key)
	res.Digest = sum.Digest
	if cache != nil && leaf && !sum.Broken && sum.Errors == 0 && sum.Warnings == 0 {
		if err := cache.Put(key, sum); err != nil {
			res.Bag.Add(diag.New(diag.SevWarning, diag.IOCacheReadFailed, source.Span{File: job.root},
				fmt.Sprintf("cannot store cache entry of crate %q: %v", job.name, err)))
		}
	}

	status := buildpipeline.StatusDone
	if res.Broken() {
		status = buildpipeline.StatusError
	}
	buildpipeline.Emit(r.opts.Progress, buildpipeline.Event{Crate: job.name, Status: status, Elapsed: time.Since(start)})
	return res, nil
}

// key: H(root || deps... || processors). Dependencies fold in their own
// digests, so any upstream change invalidates the entry.
func (r *runner) key(id dag.NodeID, job crateJob) project.Digest {
	root := project.Digest(r.ws.FileSet.Get(job.root).Hash)
	parts := make([]project.Digest, 0, len(r.slots[int(id)].Meta.Deps)+1)
	for _, dep := range r.slots[int(id)].Meta.Deps {
		if to, ok := r.index.NameToID[dep.Name]; ok && r.results[int(to)] != nil {
			parts = append(parts, r.results[int(to)].Digest)
		}
	}
	parts = append(parts, r.procDigest)
	return project.Combine(root, parts...)
}

// finish collects results in dependency order and reports failed dependencies.
func (r *runner) finish(topo *dag.Topo) {
	for i := range r.slots {
		slot := &r.slots[i]
		if !slot.Present {
			continue
		}
		res := r.results[i]
		if res == nil {
			slot.Broken = true
			continue
		}
		if first, ok := res.Bag.FirstError(); ok {
			slot.Broken = true
			slot.FirstErr = first
		}
	}
	dag.ReportBrokenDeps(r.index, r.slots)

	for _, id := range topo.Order {
		res := r.results[int(id)]
		if res == nil {
			r.ws.Skipped = append(r.ws.Skipped, r.slots[int(id)].Meta.Name)
			continue
		}
		res.Bag.Sort()
		r.ws.Crates = append(r.ws.Crates, res)
		r.ws.Timer.Merge(res.Name, res.Timer)
	}
	for _, id := range topo.Cycles {
		r.ws.Skipped = append(r.ws.Skipped, r.slots[int(id)].Meta.Name)
	}
}
