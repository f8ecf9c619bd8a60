package format

import (
	"macrofront/internal/ast"
)

type Options struct {
	IndentWidth int
	UseTabs     bool
	// DropDocs skips `///` comments.
	DropDocs bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 4
	}
	return o
}

type printer struct {
	w   *Writer
	opt Options
}

// Module prints a sorted module: submodules, imports, structs, globals, then functions.
func Module(m *ast.Module, opt Options) []byte {
	if m == nil {
		return nil
	}
	items := make([]ast.Item, 0, m.ItemCount())
	for _, d := range m.Submodules {
		items = append(items, d)
	}
	for _, d := range m.Imports {
		items = append(items, d)
	}
	for _, d := range m.Types {
		items = append(items, d)
	}
	for _, d := range m.Globals {
		items = append(items, d)
	}
	for _, d := range m.Functions {
		items = append(items, d)
	}
	return Items(items, opt)
}

// Items prints items in the given order. Consecutive `mod` and `use`
// declarations stay grouped; everything else is separated by a blank line.
func Items(items []ast.Item, opt Options) []byte {
	opt = opt.withDefaults()
	p := &printer{w: NewWriter(opt), opt: opt}
	var prev ast.Item
	for _, it := range items {
		if it == nil {
			continue
		}
		if prev != nil && !sameGroup(prev, it) {
			p.w.BlankLine()
		}
		p.printItem(it)
		prev = it
	}
	return p.w.Bytes()
}

func sameGroup(a, b ast.Item) bool {
	switch a.(type) {
	case *ast.ModDecl:
		_, ok := b.(*ast.ModDecl)
		return ok
	case *ast.UseDecl:
		_, ok := b.(*ast.UseDecl)
		return ok
	case *ast.GlobalDecl:
		_, ok := b.(*ast.GlobalDecl)
		return ok
	}
	return false
}

func (p *printer) printItem(it ast.Item) {
	switch x := it.(type) {
	case *ast.FnDecl:
		p.printFn(x)
	case *ast.UseDecl:
		p.printAttrs(x.Attrs)
		p.printVisibility(x.Visibility)
		p.w.WriteString("use ")
		p.w.WriteString(useTree(x.Tree))
		p.w.WriteString(";")
		p.w.Newline()
	case *ast.StructDecl:
		p.printStruct(x)
	case *ast.GlobalDecl:
		p.printAttrs(x.Attrs)
		p.printVisibility(x.Visibility)
		p.w.WriteString("global " + x.Name.Name)
		if x.Type != nil {
			p.w.WriteString(": ")
			p.printType(x.Type)
		}
		p.w.WriteString(" = ")
		p.printExpr(x.Value)
		p.w.WriteString(";")
		p.w.Newline()
	case *ast.ModDecl:
		p.printAttrs(x.Attrs)
		p.printVisibility(x.Visibility)
		p.w.WriteString("mod " + x.Name.Name + ";")
		p.w.Newline()
	}
}

func (p *printer) printDoc(lines []string) {
	if p.opt.DropDocs {
		return
	}
	for _, line := range lines {
		if line == "" {
			p.w.WriteString("///")
		} else {
			p.w.WriteString("/// " + line)
		}
		p.w.Newline()
	}
}

// атрибуты печатаются по одному на строку
func (p *printer) printAttrs(attrs []*ast.Attr) {
	for _, a := range attrs {
		if a == nil {
			continue
		}
		p.w.WriteString(a.String())
		p.w.Newline()
	}
}

func (p *printer) printVisibility(v ast.Visibility) {
	if v == ast.VisPublic {
		p.w.WriteString("pub ")
	}
}

func (p *printer) printGenerics(gs []ast.Ident) {
	if len(gs) == 0 {
		return
	}
	p.w.WriteString("<")
	for i, g := range gs {
		if i > 0 {
			p.w.WriteString(", ")
		}
		p.w.WriteString(g.Name)
	}
	p.w.WriteString(">")
}
