package driver

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/hir"
	"macrofront/internal/macros"
)

const stdManifest = `[workspace]
name = "demo"

[[crate]]
name = "std"
root = "std/lib.mf"
stdlib = true

[[crate]]
name = "app"
root = "app/main.mf"
deps = ["std"]
`

// writeTree writes files under a fresh temp dir and returns the dir.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// codes renders diagnostic codes sorted, e.g. "PRJ5005,SEM3002".
func codes(diags []diag.Diagnostic) string {
	ids := make([]string, 0, len(diags))
	for _, d := range diags {
		ids = append(ids, d.Code.ID())
	}
	slices.Sort(ids)
	return strings.Join(ids, ",")
}

func messages(diags []diag.Diagnostic) string {
	var b strings.Builder
	for _, d := range diags {
		b.WriteString(d.Code.ID() + " " + d.Message + "\n")
	}
	return b.String()
}

// stubProcessor fails or panics in a chosen phase.
type stubProcessor struct {
	name     string
	fail     map[macros.Phase]bool
	panics   map[macros.Phase]bool
	typedRun *int
}

func (p *stubProcessor) Name() string { return p.name }

func (p *stubProcessor) ProcessUntypedAST(mod *ast.Module, crate hir.CrateID, _ *hir.Context) (*ast.Module, error) {
	if err := p.hit(macros.PhaseUntyped, crate); err != nil {
		return nil, err
	}
	return mod, nil
}

func (p *stubProcessor) ProcessCratePrelude(crate hir.CrateID, _ *hir.Context, _ *[]hir.ImportDirective, _ []hir.LocalModuleID) error {
	return p.hit(macros.PhasePrelude, crate)
}

func (p *stubProcessor) ProcessTypedAST(crate hir.CrateID, _ *hir.Context) error {
	if p.typedRun != nil {
		*p.typedRun++
	}
	return p.hit(macros.PhaseTyped, crate)
}

func (p *stubProcessor) hit(ph macros.Phase, crate hir.CrateID) error {
	if p.panics[ph] {
		panic(&macros.InternalError{Processor: p.name, Message: "broken invariant in " + crate.String()})
	}
	if p.fail[ph] {
		return fmt.Errorf("stub failure in %s", ph)
	}
	return nil
}
