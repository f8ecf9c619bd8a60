package format

import (
	"macrofront/internal/ast"
)

func (p *printer) printFn(fn *ast.FnDecl) {
	p.printDoc(fn.Doc)
	p.printAttrs(fn.Attrs)
	p.printVisibility(fn.Visibility)
	if fn.Unconstrained {
		p.w.WriteString("unconstrained ")
	}
	p.w.WriteString("fn " + fn.Name.Name)
	p.printGenerics(fn.Generics)
	p.w.WriteString("(")
	for i, param := range fn.Params {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.w.WriteString(param.Name.Name + ": ")
		p.printType(param.Type)
	}
	p.w.WriteString(")")
	if fn.Return != nil {
		p.w.WriteString(" -> ")
		p.printType(fn.Return)
	}
	if fn.Body == nil {
		p.w.WriteString(";")
		p.w.Newline()
		return
	}
	p.w.Space()
	p.printBlock(fn.Body)
	p.w.Newline()
}

func (p *printer) printStruct(st *ast.StructDecl) {
	p.printDoc(st.Doc)
	p.printAttrs(st.Attrs)
	p.printVisibility(st.Visibility)
	p.w.WriteString("struct " + st.Name.Name)
	p.printGenerics(st.Generics)
	if len(st.Fields) == 0 {
		p.w.WriteString(" {}")
		p.w.Newline()
		return
	}
	p.w.WriteString(" {")
	p.w.Newline()
	p.w.IndentPush()
	for _, f := range st.Fields {
		p.printVisibility(f.Visibility)
		p.w.WriteString(f.Name.Name + ": ")
		p.printType(f.Type)
		p.w.WriteString(",")
		p.w.Newline()
	}
	p.w.IndentPop()
	p.w.WriteString("}")
	p.w.Newline()
}
