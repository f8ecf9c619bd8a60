package format

import (
	"macrofront/internal/ast"
)

// printBlock leaves the writer right after the closing brace.
func (p *printer) printBlock(b *ast.Block) {
	if b == nil || len(b.Stmts) == 0 {
		p.w.WriteString("{}")
		return
	}
	p.w.WriteString("{")
	p.w.Newline()
	p.w.IndentPush()
	for _, st := range b.Stmts {
		p.printStmt(st)
		p.w.Newline()
	}
	p.w.IndentPop()
	p.w.WriteString("}")
}

func (p *printer) printStmt(st ast.Stmt) {
	switch s := st.(type) {
	case *ast.LetStmt:
		p.w.WriteString("let ")
		if s.Mutable {
			p.w.WriteString("mut ")
		}
		p.w.WriteString(s.Name.Name)
		if s.Type != nil {
			p.w.WriteString(": ")
			p.printType(s.Type)
		}
		p.w.WriteString(" = ")
		p.printExpr(s.Value)
		p.w.WriteString(";")
	case *ast.ReturnStmt:
		if s.Value == nil {
			p.w.WriteString("return;")
			return
		}
		p.w.WriteString("return ")
		p.printExpr(s.Value)
		p.w.WriteString(";")
	case *ast.ForStmt:
		p.w.WriteString("for " + s.Var.Name + " in ")
		p.printExpr(s.Start)
		p.w.WriteString("..")
		p.printExpr(s.End)
		p.w.Space()
		p.printBlock(s.Body)
	case *ast.AssignStmt:
		p.printExpr(s.Target)
		p.w.WriteString(" = ")
		p.printExpr(s.Value)
		p.w.WriteString(";")
	case *ast.ExprStmt:
		p.printExpr(s.X)
		if s.Semi {
			p.w.WriteString(";")
		}
	}
}
