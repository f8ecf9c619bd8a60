package format

import (
	"macrofront/internal/ast"
)

// printExpr печатает выражение как есть: скобки в ast сохранены через ParenExpr,
// поэтому приоритеты здесь не пересчитываются.
func (p *printer) printExpr(e ast.Expr) {
	switch x := e.(type) {
	case nil:
		p.w.WriteString("()")
	case *ast.PathExpr:
		p.w.WriteString(x.Path.String())
	case *ast.IntLit:
		p.w.WriteString(x.Text)
	case *ast.StringLit:
		p.w.WriteString(x.Raw)
	case *ast.BoolLit:
		if x.Value {
			p.w.WriteString("true")
		} else {
			p.w.WriteString("false")
		}
	case *ast.UnaryExpr:
		p.w.WriteString(x.Op.String())
		p.printExpr(x.X)
	case *ast.BinaryExpr:
		p.printExpr(x.Left)
		p.w.WriteString(" " + x.Op.String() + " ")
		p.printExpr(x.Right)
	case *ast.CallExpr:
		p.printExpr(x.Callee)
		p.w.WriteString("(")
		p.printList(x.Args)
		p.w.WriteString(")")
	case *ast.IndexExpr:
		p.printExpr(x.X)
		p.w.WriteString("[")
		p.printExpr(x.Index)
		p.w.WriteString("]")
	case *ast.MemberExpr:
		p.printExpr(x.X)
		p.w.WriteString("." + x.Name.Name)
	case *ast.ParenExpr:
		p.w.WriteString("(")
		p.printExpr(x.X)
		p.w.WriteString(")")
	case *ast.TupleExpr:
		p.w.WriteString("(")
		p.printList(x.Elems)
		if len(x.Elems) == 1 {
			p.w.WriteString(",")
		}
		p.w.WriteString(")")
	case *ast.ArrayExpr:
		p.w.WriteString("[")
		p.printList(x.Elems)
		p.w.WriteString("]")
	case *ast.BlockExpr:
		p.printBlock(x.Block)
	case *ast.IfExpr:
		p.printIf(x)
	}
}

func (p *printer) printIf(x *ast.IfExpr) {
	p.w.WriteString("if ")
	p.printExpr(x.Cond)
	p.w.Space()
	p.printBlock(x.Then)
	switch e := x.Else.(type) {
	case nil:
	case *ast.IfExpr:
		p.w.WriteString(" else ")
		p.printIf(e)
	default:
		p.w.WriteString(" else ")
		p.printExpr(e)
	}
}

func (p *printer) printList(list []ast.Expr) {
	for i, e := range list {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.printExpr(e)
	}
}
