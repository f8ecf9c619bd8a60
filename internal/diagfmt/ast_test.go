package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"macrofront/internal/ast"
	"macrofront/internal/parser"
	"macrofront/internal/source"
)

func sortedModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	pm, diags := parser.ParseProgram(src)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	return pm.IntoSorted()
}

func TestModuleItemsGrouping(t *testing.T) {
	m := sortedModule(t, `
fn main() {}
use crate::util::helper;
pub struct Pair { a: Field }
global LIMIT: u32 = 4;
mod util;
`)
	items := ModuleItems(m)
	var kinds []string
	for _, it := range items {
		kinds = append(kinds, formatItemKind(it))
	}
	if got := strings.Join(kinds, ","); got != "Mod,Use,Struct,Global,Fn" {
		t.Fatalf("unexpected item order %s", got)
	}
	if ModuleItems(nil) != nil {
		t.Fatalf("nil module must give no items")
	}
}

func TestFormatASTPretty(t *testing.T) {
	m := sortedModule(t, "fn main() {\n    let x = 1 + 2;\n}\n")
	var buf bytes.Buffer
	if err := FormatASTPretty(&buf, "main.mf", ModuleItems(m), nil); err != nil {
		t.Fatalf("FormatASTPretty: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "main.mf\n") {
		t.Fatalf("header missing:\n%s", out)
	}
	for _, want := range []string{
		"└─ Item[0]: Fn",
		"   ├─ Name: main",
		"   ├─ Visibility: private",
		"   ├─ Params: ()",
		"   └─ Body",
		"Stmt[0]: Let let x = 1 + 2",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestFormatASTTree(t *testing.T) {
	m := sortedModule(t, "fn a() {}\nfn b() {}\n")
	var buf bytes.Buffer
	if err := FormatASTTree(&buf, "", ModuleItems(m), nil); err != nil {
		t.Fatalf("FormatASTTree: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if strings.TrimSpace(lines[0]) != "File" {
		t.Fatalf("expected default header, got %q", lines[0])
	}
	if !strings.ContainsAny(lines[1], "/\\") {
		t.Fatalf("expected connectors under the root, got %q", lines[1])
	}
	for _, line := range lines {
		if line != strings.TrimRight(line, " ") {
			t.Fatalf("trailing spaces in %q", line)
		}
	}
	if !strings.Contains(buf.String(), "Item[1]: Fn") {
		t.Fatalf("second item missing:\n%s", buf.String())
	}
}

func TestFormatASTJSON(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("lib.mf", []byte("pub fn f(x: Field) -> Field {\n    return x;\n}\n"))
	res := parser.ParseFile(t.Context(), fs, id, parser.Options{})
	m := res.Module.IntoSorted()

	var buf bytes.Buffer
	if err := FormatASTJSON(&buf, "lib.mf", ModuleItems(m), fs); err != nil {
		t.Fatalf("FormatASTJSON: %v", err)
	}
	var root ASTNodeOutput
	if err := json.Unmarshal(buf.Bytes(), &root); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if root.Type != "File" || root.Text != "lib.mf" || len(root.Children) != 1 {
		t.Fatalf("unexpected root %+v", root)
	}
	fn := root.Children[0]
	if fn.Type != "Fn" || !strings.Contains(fn.Text, "span: 1:1-3:2") {
		t.Fatalf("unexpected fn node %+v", fn)
	}
	var body *ASTNodeOutput
	for i := range fn.Children {
		if fn.Children[i].Type == "Block" {
			body = &fn.Children[i]
		}
	}
	if body == nil || len(body.Children) != 1 || body.Children[0].Type != "Return" {
		t.Fatalf("unexpected body %+v", body)
	}
	if fn.Children[0].Type != "Property" || fn.Children[0].Text != "Name: f" {
		t.Fatalf("unexpected first child %+v", fn.Children[0])
	}
}

func TestFnSignature(t *testing.T) {
	m := sortedModule(t, `
#[oracle(assert_message)]
unconstrained fn assert_message_oracle<T>(_input: T) {}
unconstrained pub fn resolve_assert_message<T>(input: T, condition: bool) {}
pub fn sum(xs: [Field; 3]) -> Field { return 0; }
`)
	tests := []struct {
		name string
		want string
	}{
		{"assert_message_oracle", "unconstrained fn assert_message_oracle<T>(_input: T)"},
		{"resolve_assert_message", "pub unconstrained fn resolve_assert_message<T>(input: T, condition: bool)"},
		{"sum", "pub fn sum(xs: [Field; 3]) -> Field"},
	}
	for _, tt := range tests {
		fn, ok := m.Function(tt.name)
		if !ok {
			t.Fatalf("function %s not parsed", tt.name)
		}
		if got := FnSignature(fn); got != tt.want {
			t.Fatalf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}
