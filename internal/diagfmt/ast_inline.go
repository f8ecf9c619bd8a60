package diagfmt

import (
	"strings"

	"macrofront/internal/ast"
)

// formatExprInline renders an expression on one line in source syntax.
// Blocks are elided to keep tree labels short.
func formatExprInline(e ast.Expr) string {
	switch x := e.(type) {
	case nil:
		return "<none>"
	case *ast.PathExpr:
		return x.Path.String()
	case *ast.IntLit:
		return x.Text
	case *ast.StringLit:
		return x.Raw
	case *ast.BoolLit:
		if x.Value {
			return "true"
		}
		return "false"
	case *ast.UnaryExpr:
		return x.Op.String() + formatExprInline(x.X)
	case *ast.BinaryExpr:
		return formatExprInline(x.Left) + " " + x.Op.String() + " " + formatExprInline(x.Right)
	case *ast.CallExpr:
		return formatExprInline(x.Callee) + "(" + formatExprList(x.Args) + ")"
	case *ast.IndexExpr:
		return formatExprInline(x.X) + "[" + formatExprInline(x.Index) + "]"
	case *ast.MemberExpr:
		return formatExprInline(x.X) + "." + x.Name.Name
	case *ast.ParenExpr:
		return "(" + formatExprInline(x.X) + ")"
	case *ast.TupleExpr:
		if len(x.Elems) == 1 {
			return "(" + formatExprInline(x.Elems[0]) + ",)"
		}
		return "(" + formatExprList(x.Elems) + ")"
	case *ast.ArrayExpr:
		return "[" + formatExprList(x.Elems) + "]"
	case *ast.BlockExpr:
		return "{ ... }"
	case *ast.IfExpr:
		s := "if " + formatExprInline(x.Cond) + " { ... }"
		if x.Else != nil {
			s += " else { ... }"
		}
		return s
	}
	return "<expr>"
}

func formatExprList(list []ast.Expr) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = formatExprInline(e)
	}
	return strings.Join(parts, ", ")
}

func formatTypeInline(t ast.TypeExpr) string {
	switch x := t.(type) {
	case nil:
		return "()"
	case *ast.NamedType:
		if len(x.Args) == 0 {
			return x.Path.String()
		}
		args := make([]string, len(x.Args))
		for i, a := range x.Args {
			args[i] = formatTypeInline(a)
		}
		return x.Path.String() + "<" + strings.Join(args, ", ") + ">"
	case *ast.ArrayType:
		return "[" + formatTypeInline(x.Elem) + "; " + formatExprInline(x.Len) + "]"
	case *ast.TupleType:
		elems := make([]string, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = formatTypeInline(e)
		}
		return "(" + strings.Join(elems, ", ") + ")"
	}
	return "<type>"
}

func formatParamsInline(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name.Name + ": " + formatTypeInline(p.Type)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func formatGenerics(gs []ast.Ident) string {
	if len(gs) == 0 {
		return ""
	}
	names := make([]string, len(gs))
	for i, g := range gs {
		names[i] = g.Name
	}
	return "<" + strings.Join(names, ", ") + ">"
}

func formatAttrs(attrs []*ast.Attr) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " ")
}

// FnSignature renders a function header: "pub unconstrained fn name<T>(x: T) -> R".
func FnSignature(fn *ast.FnDecl) string {
	var b strings.Builder
	if fn.IsPublic() {
		b.WriteString("pub ")
	}
	if fn.Unconstrained {
		b.WriteString("unconstrained ")
	}
	b.WriteString("fn " + fn.Name.Name + formatGenerics(fn.Generics) + formatParamsInline(fn.Params))
	if fn.Return != nil {
		b.WriteString(" -> " + formatTypeInline(fn.Return))
	}
	return b.String()
}

func formatUseTree(t *ast.UseTree) string {
	if t == nil {
		return ""
	}
	prefix := t.Prefix.String()
	join := func(rest string) string {
		if prefix == "" {
			return rest
		}
		return prefix + "::" + rest
	}
	switch t.Kind {
	case ast.UseGlob:
		return join("*")
	case ast.UseGroup:
		kids := make([]string, len(t.Children))
		for i, c := range t.Children {
			kids[i] = formatUseTree(c)
		}
		return join("{" + strings.Join(kids, ", ") + "}")
	}
	if t.Alias != nil {
		return prefix + " as " + t.Alias.Name
	}
	return prefix
}
