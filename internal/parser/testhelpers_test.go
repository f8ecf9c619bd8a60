package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/source"
)

func diagnosticsSummary(diags []diag.Diagnostic) string {
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// parseOK parses src and fails the test on any diagnostic.
func parseOK(t *testing.T, src string) *ast.Module {
	t.Helper()
	pm, diags := ParseProgram(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(diags))
	}
	return pm.IntoSorted()
}

// parseFileWithBag parses src as a real file of a fresh FileSet.
func parseFileWithBag(t *testing.T, src string, maxErrors uint) (Result, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.mf", []byte(src))
	bag := diag.NewBag(0)
	res := ParseFile(context.Background(), fs, id, Options{
		MaxErrors: maxErrors,
		Reporter:  &diag.BagReporter{Bag: bag},
	})
	return res, fs
}

// onlyFn returns the single function of a module.
func onlyFn(t *testing.T, m *ast.Module) *ast.FnDecl {
	t.Helper()
	if len(m.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(m.Functions))
	}
	return m.Functions[0]
}

// bodyExpr returns the expression of the first statement of fn's body.
func bodyExpr(t *testing.T, fn *ast.FnDecl) ast.Expr {
	t.Helper()
	if fn.Body == nil || len(fn.Body.Stmts) == 0 {
		t.Fatalf("function %s has no statements", fn.Name.Name)
	}
	st, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected expression statement, got %T", fn.Body.Stmts[0])
	}
	return st.X
}
