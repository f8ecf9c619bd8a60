package assertmsg

import (
	"context"
	"slices"
	"strings"
	"testing"

	"macrofront/internal/ast"
	"macrofront/internal/hir"
	"macrofront/internal/macros"
	"macrofront/internal/parser"
	"macrofront/internal/source"
	"macrofront/internal/token"
)

var (
	stdlibCrate = hir.NewCrateID(0, hir.CrateStdlib)
	userCrate   = hir.NewCrateID(1, hir.CrateRoot)
)

func testContext(crate hir.CrateID) *hir.Context {
	return hir.NewContext(source.NewInterner(), source.NewFileSet(), hir.NewCrateGraph(), crate)
}

func moduleWith(names ...string) *ast.Module {
	m := &ast.Module{File: 1}
	for _, n := range names {
		m.Functions = append(m.Functions, &ast.FnDecl{Name: ast.Ident{Name: n}})
	}
	return m
}

func TestSourceParsesCleanly(t *testing.T) {
	pm, diags := parser.ParseProgram(Source)
	if len(diags) != 0 {
		t.Fatalf("fragment must parse without diagnostics, got %d: %s", len(diags), diags[0].Message)
	}
	if got := len(pm.IntoSorted().Functions); got != 2 {
		t.Fatalf("fragment must declare exactly 2 functions, got %d", got)
	}
}

func TestNonStdlibModuleUnchanged(t *testing.T) {
	for _, crate := range []hir.CrateID{userCrate, hir.NewCrateID(2, hir.CrateDep), hir.DummyCrate()} {
		in := moduleWith("g1")
		before := slices.Clone(in.Functions)
		out, err := New().ProcessUntypedAST(in, crate, testContext(crate))
		if err != nil {
			t.Fatalf("%s: %v", crate, err)
		}
		if out != in {
			t.Fatalf("%s: module must be returned as is", crate)
		}
		if !slices.Equal(out.Functions, before) {
			t.Fatalf("%s: functions changed: %v", crate, out.FunctionNames())
		}
	}
}

func TestStdlibAppendsOracleAndWrapper(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want string
	}{
		{"empty", nil, "assert_message_oracle,resolve_assert_message"},
		{"existing", []string{"f1", "f2"}, "f1,f2,assert_message_oracle,resolve_assert_message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := moduleWith(tt.in...)
			originals := slices.Clone(in.Functions)
			out, err := New().ProcessUntypedAST(in, stdlibCrate, testContext(stdlibCrate))
			if err != nil {
				t.Fatal(err)
			}
			if got := strings.Join(out.FunctionNames(), ","); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
			for i, fn := range originals {
				if out.Functions[i] != fn {
					t.Fatalf("original function %d was replaced", i)
				}
			}
		})
	}
}

func TestOracleDeclarationShape(t *testing.T) {
	decls := Declarations()
	oracle := decls[0]
	if oracle.Name.Name != OracleFn {
		t.Fatalf("unexpected oracle name %q", oracle.Name.Name)
	}
	if name, ok := oracle.Oracle(); !ok || name != OracleName {
		t.Fatalf("oracle tag = %q, %v", name, ok)
	}
	if len(oracle.Generics) != 1 {
		t.Fatalf("oracle must have one type parameter, got %d", len(oracle.Generics))
	}
	if len(oracle.Params) != 1 {
		t.Fatalf("oracle takes only the generic input, got %d params", len(oracle.Params))
	}
	if named, ok := oracle.Params[0].Type.(*ast.NamedType); !ok || named.Path.String() != oracle.Generics[0].Name {
		t.Fatalf("oracle input must have the generic type")
	}
	if oracle.Body == nil || len(oracle.Body.Stmts) != 0 {
		t.Fatalf("oracle body must be empty")
	}
}

func TestWrapperCallsOracleWhenConditionFalse(t *testing.T) {
	wrapper := Declarations()[1]
	if wrapper.Name.Name != WrapperFn || !wrapper.IsPublic() {
		t.Fatalf("unexpected wrapper header %+v", wrapper)
	}
	if len(wrapper.Generics) != 1 || len(wrapper.Params) != 2 {
		t.Fatalf("wrapper must take a generic input and a bool")
	}
	cond, ok := wrapper.Params[1].Type.(*ast.NamedType)
	if !ok || cond.Path.String() != "bool" {
		t.Fatalf("second parameter must be bool")
	}

	stmt, ok := wrapper.Body.Stmts[0].(*ast.ExprStmt)
	if !ok || len(wrapper.Body.Stmts) != 1 {
		t.Fatalf("wrapper body must be a single if")
	}
	ifx, ok := stmt.X.(*ast.IfExpr)
	if !ok || ifx.Else != nil {
		t.Fatalf("expected if without else, got %T", stmt.X)
	}
	neg, ok := ifx.Cond.(*ast.UnaryExpr)
	if !ok || neg.Op != token.Bang {
		t.Fatalf("oracle must be called when the condition is false")
	}
	if p, ok := neg.X.(*ast.PathExpr); !ok || p.Path.String() != wrapper.Params[1].Name.Name {
		t.Fatalf("condition must negate the bool parameter")
	}
	call := ifx.Then.Stmts[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	if call.Callee.(*ast.PathExpr).Path.String() != OracleFn {
		t.Fatalf("wrapper must call %s", OracleFn)
	}
	if arg, ok := call.Args[0].(*ast.PathExpr); !ok || arg.Path.String() != wrapper.Params[0].Name.Name {
		t.Fatalf("oracle must receive the input")
	}
}

func TestDoubleInvocationInjectsTwice(t *testing.T) {
	p := New()
	mod := moduleWith()
	for range 2 {
		var err error
		if mod, err = p.ProcessUntypedAST(mod, stdlibCrate, testContext(stdlibCrate)); err != nil {
			t.Fatal(err)
		}
	}
	want := "assert_message_oracle,resolve_assert_message,assert_message_oracle,resolve_assert_message"
	if got := strings.Join(mod.FunctionNames(), ","); got != want {
		t.Fatalf("got %s", got)
	}
	if mod.Functions[0] == mod.Functions[2] {
		t.Fatalf("each injection must splice fresh declarations")
	}
}

func TestInjectionsDoNotShareNodes(t *testing.T) {
	a, b := Declarations(), Declarations()
	a[1].Params[0].Name.Name = "changed"
	if b[1].Params[0].Name.Name != "input" {
		t.Fatalf("clones share parameter storage")
	}
	if c := Declarations(); c[1].Params[0].Name.Name != "input" {
		t.Fatalf("cached fragment was mutated through a clone")
	}
}

func TestPreludeAndTypedAreNoOps(t *testing.T) {
	p := New()
	hctx := testContext(stdlibCrate)
	imports := []hir.ImportDirective{{Path: ast.SimplePath("x")}}
	if err := p.ProcessCratePrelude(stdlibCrate, hctx, &imports, []hir.LocalModuleID{1, 2}); err != nil {
		t.Fatal(err)
	}
	if len(imports) != 1 || imports[0].Path.String() != "x" {
		t.Fatalf("imports changed: %+v", imports)
	}
	if err := p.ProcessTypedAST(stdlibCrate, hctx); err != nil {
		t.Fatal(err)
	}
	if len(hctx.Oracles()) != 0 {
		t.Fatalf("context changed")
	}
}

func TestBrokenFragmentPanicsWithInternalError(t *testing.T) {
	p := &Processor{frag: &fragment{src: "unconstrained fn broken<T>(x: T {"}}
	for range 2 {
		func() {
			defer func() {
				ie, ok := macros.AsInternal(recover())
				if !ok {
					t.Fatalf("expected InternalError panic")
				}
				if ie.Processor != Name || len(ie.Diagnostics) == 0 {
					t.Fatalf("unexpected internal error %+v", ie)
				}
			}()
			_, _ = p.ProcessUntypedAST(moduleWith(), stdlibCrate, testContext(stdlibCrate))
		}()
	}
}

func TestBrokenFragmentIgnoredOutsideStdlib(t *testing.T) {
	p := &Processor{frag: &fragment{src: "fn ("}}
	if _, err := p.ProcessUntypedAST(moduleWith("g1"), userCrate, testContext(userCrate)); err != nil {
		t.Fatal(err)
	}
}

func TestThroughHost(t *testing.T) {
	hctx := testContext(stdlibCrate)
	s := macros.NewHost(New()).Begin(stdlibCrate, 1)
	mod, err := s.UntypedAST(context.Background(), moduleWith("f1"), hctx)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Join(mod.FunctionNames(), ","); got != "f1,assert_message_oracle,resolve_assert_message" {
		t.Fatalf("got %s", got)
	}
	if err := s.CratePrelude(context.Background(), hctx, new([]hir.ImportDirective), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.TypedAST(context.Background(), hctx); err != nil {
		t.Fatal(err)
	}
}
