package macros

import (
	"macrofront/internal/ast"
	"macrofront/internal/hir"
)

// Processor is a pluggable pass invoked once per crate per phase.
//
// Errors returned from any phase should be *Error; anything else is wrapped
// and attributed to the crate root file.
type Processor interface {
	// Name identifies the processor in traces and diagnostics.
	Name() string

	// ProcessUntypedAST may add, remove or rewrite declarations of mod.
	// Nothing is resolved yet.
	ProcessUntypedAST(mod *ast.Module, crate hir.CrateID, ctx *hir.Context) (*ast.Module, error)

	// ProcessCratePrelude may append to imports. It has no access to the module.
	ProcessCratePrelude(crate hir.CrateID, ctx *hir.Context, imports *[]hir.ImportDirective, submodules []hir.LocalModuleID) error

	// ProcessTypedAST may read and annotate ctx but must not reshape the tree.
	ProcessTypedAST(crate hir.CrateID, ctx *hir.Context) error
}
