package driver

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"macrofront/internal/macros/assertmsg"
)

func TestExpandOnlyTouchesStdlib(t *testing.T) {
	dir := writeTree(t, map[string]string{"lib.mf": "pub fn first() {}"})
	path := filepath.Join(dir, "lib.mf")

	plain, err := Expand(context.Background(), path, false, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := plain.Module.FunctionNames(); !slices.Equal(got, []string{"first"}) {
		t.Fatalf("non-stdlib functions = %v", got)
	}

	std, err := Expand(context.Background(), path, true, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first", assertmsg.OracleFn, assertmsg.WrapperFn}
	if got := std.Module.FunctionNames(); !slices.Equal(got, want) {
		t.Fatalf("stdlib functions = %v, want %v", got, want)
	}
	if !std.Crate.IsStdlib() || std.Bag.Len() != 0 {
		t.Fatalf("crate %s, %d diagnostics", std.Crate, std.Bag.Len())
	}
}

func TestCheckFileLoadsModules(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"main.mf":         "mod util;\nmod nested;\nfn main() { util::help(); nested::deep(); }",
		"util.mf":         "pub fn help() {}",
		"nested/mod.mf":   "pub fn deep() {}",
		"unrelated.mf":    "fn never() {",
		"nested/extra.mf": "fn never() {",
	})
	ws, err := CheckFile(context.Background(), filepath.Join(dir, "main.mf"), false, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diags := ws.Diagnostics(); len(diags) != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", messages(diags))
	}
	c, ok := ws.Crate("main")
	if !ok || len(c.Files) != 3 || c.Resolve.Bindings != 2 {
		t.Fatalf("crate result %+v", c)
	}
	if c.Crate.IsStdlib() {
		t.Fatalf("lone files are not the stdlib unless asked")
	}
}

func TestCheckFileReportsSyntaxErrors(t *testing.T) {
	dir := writeTree(t, map[string]string{"bad.mf": "fn main( {"})
	ws, err := CheckFile(context.Background(), filepath.Join(dir, "bad.mf"), false, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !ws.HasErrors() {
		t.Fatalf("expected syntax errors")
	}
	if got := FileCrateName("x/bad.mf"); got != "bad" {
		t.Fatalf("FileCrateName = %q", got)
	}
	if got := FileCrateName("x/1bad.mf"); got != "main" {
		t.Fatalf("FileCrateName of an invalid name = %q", got)
	}
}

func TestParseKeepsSourceOrder(t *testing.T) {
	dir := writeTree(t, map[string]string{"p.mf": "fn b() {}\nstruct S { x: Field }\nfn a() {}"})
	res, err := Parse(context.Background(), filepath.Join(dir, "p.mf"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Module.Items) != 3 || res.Bag.Len() != 0 {
		t.Fatalf("items %d, diagnostics %d", len(res.Module.Items), res.Bag.Len())
	}
	if _, err := Parse(context.Background(), filepath.Join(dir, "missing.mf"), Options{}); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
