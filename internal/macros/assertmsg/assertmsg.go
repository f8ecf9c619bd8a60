// Package assertmsg injects assert-message support into the standard library.
//
// For the stdlib crate the processor appends an oracle declaration and a
// wrapper that calls it when a condition is false. Other crates are untouched.
package assertmsg

import (
	"sync"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/hir"
	"macrofront/internal/macros"
	"macrofront/internal/parser"
)

const (
	// Name is the processor name used in traces and macro errors.
	Name = "assert_message"
	// OracleName is the capability the oracle declaration is tagged with.
	OracleName = "assert_message"
	OracleFn   = "assert_message_oracle"
	WrapperFn  = "resolve_assert_message"
)

// Source is the embedded fragment. It must parse without diagnostics.
const Source = `
#[oracle(assert_message)]
unconstrained fn assert_message_oracle<T>(_input: T) {}
unconstrained pub fn resolve_assert_message<T>(input: T, condition: bool) {
    if !condition {
        assert_message_oracle(input);
    }
}
`

type fragment struct {
	once  sync.Once
	src   string
	fns   []*ast.FnDecl
	diags []diag.Diagnostic
}

// decls parses src once and returns fresh clones of its functions.
// A fragment with diagnostics is a compiler defect and panics every time.
func (f *fragment) decls() []*ast.FnDecl {
	f.once.Do(func() {
		parsed, diags := parser.ParseProgram(f.src)
		f.diags = diags
		f.fns = parsed.IntoSorted().Functions
	})
	if len(f.diags) > 0 {
		panic(&macros.InternalError{
			Processor:   Name,
			Message:     "embedded fragment failed to parse",
			Diagnostics: f.diags,
		})
	}
	out := make([]*ast.FnDecl, len(f.fns))
	for i, fn := range f.fns {
		out[i] = ast.CloneFn(fn)
	}
	return out
}

var builtin = &fragment{src: Source}

// Declarations returns fresh copies of the oracle and the wrapper, in that order.
func Declarations() []*ast.FnDecl {
	return builtin.decls()
}

// Processor is the assert-message macro processor. It has no configuration.
type Processor struct {
	frag *fragment
}

var _ macros.Processor = (*Processor)(nil)

func New() *Processor {
	return &Processor{frag: builtin}
}

func (p *Processor) Name() string { return Name }

// ProcessUntypedAST appends the fragment's functions to the stdlib module.
// Each call appends again: invoking it twice on one module yields two pairs.
func (p *Processor) ProcessUntypedAST(mod *ast.Module, crate hir.CrateID, _ *hir.Context) (*ast.Module, error) {
	if !crate.IsStdlib() {
		return mod, nil
	}
	if mod == nil {
		mod = &ast.Module{}
	}
	mod.Functions = append(mod.Functions, p.frag.decls()...)
	return mod, nil
}

func (p *Processor) ProcessCratePrelude(hir.CrateID, *hir.Context, *[]hir.ImportDirective, []hir.LocalModuleID) error {
	return nil
}

func (p *Processor) ProcessTypedAST(hir.CrateID, *hir.Context) error {
	return nil
}
