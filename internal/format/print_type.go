package format

import (
	"strings"

	"macrofront/internal/ast"
)

func (p *printer) printType(t ast.TypeExpr) {
	switch x := t.(type) {
	case nil:
		p.w.WriteString("()")
	case *ast.NamedType:
		p.w.WriteString(x.Path.String())
		if len(x.Args) == 0 {
			return
		}
		p.w.WriteString("<")
		for i, a := range x.Args {
			if i > 0 {
				p.w.WriteString(", ")
			}
			p.printType(a)
		}
		p.w.WriteString(">")
	case *ast.ArrayType:
		p.w.WriteString("[")
		p.printType(x.Elem)
		p.w.WriteString("; ")
		p.printExpr(x.Len)
		p.w.WriteString("]")
	case *ast.TupleType:
		p.w.WriteString("(")
		for i, e := range x.Elems {
			if i > 0 {
				p.w.WriteString(", ")
			}
			p.printType(e)
		}
		p.w.WriteString(")")
	}
}

// useTree renders `a::{b, c::*, d as e}` on one line.
func useTree(t *ast.UseTree) string {
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
			kids[i] = useTree(c)
		}
		return join("{" + strings.Join(kids, ", ") + "}")
	}
	if t.Alias != nil {
		return prefix + " as " + t.Alias.Name
	}
	return prefix
}
