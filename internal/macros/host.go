package macros

import (
	"context"
	"fmt"
	"slices"

	"macrofront/internal/ast"
	"macrofront/internal/hir"
	"macrofront/internal/source"
	"macrofront/internal/trace"
)

// Host is the ordered processor registry. Registration order is invocation order.
type Host struct {
	procs []Processor
}

func NewHost(ps ...Processor) *Host {
	h := &Host{}
	for _, p := range ps {
		h.Register(p)
	}
	return h
}

// Register appends p; nil processors are ignored.
func (h *Host) Register(p Processor) {
	if p == nil {
		return
	}
	h.procs = append(h.procs, p)
}

// Processors returns a copy of the registry in invocation order.
func (h *Host) Processors() []Processor {
	return slices.Clone(h.procs)
}

// Begin opens the macro session of one crate. root is the file macro errors
// without their own attribution are charged to.
func (h *Host) Begin(crate hir.CrateID, root source.FileID) *Session {
	procs := slices.Clone(h.procs)
	return &Session{
		procs:  procs,
		crate:  crate,
		root:   root,
		states: make([]State, len(procs)),
	}
}

// Session tracks the phase progress of every processor on one crate.
// Phases must be called in order and exactly once; a Session is not safe for
// concurrent use.
type Session struct {
	procs  []Processor
	crate  hir.CrateID
	root   source.FileID
	states []State
	abort  *Error
}

func (s *Session) Crate() hir.CrateID { return s.crate }

// State reports the progress of the i-th registered processor.
func (s *Session) State(i int) State {
	if i < 0 || i >= len(s.states) {
		return NotStarted
	}
	return s.states[i]
}

// Err returns the macro error that aborted the session, if any.
func (s *Session) Err() *Error {
	return s.abort
}

// UntypedAST runs phase 1 on mod and returns the module produced by the last processor.
func (s *Session) UntypedAST(ctx context.Context, mod *ast.Module, hctx *hir.Context) (*ast.Module, error) {
	err := s.run(ctx, PhaseUntyped, func(p Processor) error {
		out, err := p.ProcessUntypedAST(mod, s.crate, hctx)
		if err != nil {
			return err
		}
		if out == nil {
			return Errorf(s.root, "processor returned no module")
		}
		mod = out
		return nil
	})
	return mod, err
}

// CratePrelude runs phase 2; processors may append to *imports.
func (s *Session) CratePrelude(ctx context.Context, hctx *hir.Context, imports *[]hir.ImportDirective, submodules []hir.LocalModuleID) error {
	if imports == nil {
		imports = new([]hir.ImportDirective)
	}
	return s.run(ctx, PhasePrelude, func(p Processor) error {
		return p.ProcessCratePrelude(s.crate, hctx, imports, submodules)
	})
}

// TypedAST runs phase 3.
func (s *Session) TypedAST(ctx context.Context, hctx *hir.Context) error {
	return s.run(ctx, PhaseTyped, func(p Processor) error {
		return p.ProcessTypedAST(s.crate, hctx)
	})
}

func (s *Session) run(ctx context.Context, ph Phase, call func(Processor) error) error {
	if s.abort != nil {
		return fmt.Errorf("%w: %s for %s after %q", ErrAborted, ph, s.crate, s.abort.Message)
	}
	want := ph.requires()
	for i, st := range s.states {
		if st != want {
			return fmt.Errorf("%w: %s for %s: processor %s is %s", ErrPhaseOrder, ph, s.crate, s.procs[i].Name(), st)
		}
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, ph.String(), trace.CurrentSpan(ctx).SpanID).
		WithExtra("crate", s.crate.String())

	for i, p := range s.procs {
		ps := trace.Begin(tracer, trace.ScopeProcessor, p.Name(), span.ID())
		err := call(p)
		if err != nil {
			merr := attribute(p, s.root, err)
			s.states[i] = Aborted
			s.abort = merr
			ps.End("error")
			trace.Point(tracer, trace.ScopePass, "macros.abort", span.ID(), merr.Error())
			span.WithExtra("aborted_by", p.Name()).End("error")
			return merr
		}
		s.states[i] = ph.done()
		ps.End("")
	}
	span.End("")
	return nil
}
