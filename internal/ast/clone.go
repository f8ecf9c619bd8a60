package ast

import "slices"

// CloneFn returns a deep copy of fn; no node of the result is shared with fn.
func CloneFn(fn *FnDecl) *FnDecl {
	if fn == nil {
		return nil
	}
	out := &FnDecl{
		Attrs:         cloneAttrs(fn.Attrs),
		Doc:           slices.Clone(fn.Doc),
		Visibility:    fn.Visibility,
		Unconstrained: fn.Unconstrained,
		Name:          fn.Name,
		Generics:      slices.Clone(fn.Generics),
		Return:        cloneType(fn.Return),
		Body:          cloneBlock(fn.Body),
		Span:          fn.Span,
	}
	for _, p := range fn.Params {
		out.Params = append(out.Params, &Param{Name: p.Name, Type: cloneType(p.Type), Span: p.Span})
	}
	return out
}

// CloneModule deep-copies functions and shallow-copies the remaining lists.
// Only functions are ever rewritten in place by passes.
func CloneModule(m *Module) *Module {
	if m == nil {
		return nil
	}
	out := &Module{
		File:       m.File,
		Imports:    slices.Clone(m.Imports),
		Types:      slices.Clone(m.Types),
		Globals:    slices.Clone(m.Globals),
		Submodules: slices.Clone(m.Submodules),
	}
	for _, fn := range m.Functions {
		out.Functions = append(out.Functions, CloneFn(fn))
	}
	return out
}

func cloneAttrs(in []*Attr) []*Attr {
	if in == nil {
		return nil
	}
	out := make([]*Attr, len(in))
	for i, a := range in {
		out[i] = &Attr{Name: clonePath(a.Name), Args: slices.Clone(a.Args), Span: a.Span}
	}
	return out
}

func clonePath(p Path) Path {
	p.Segments = slices.Clone(p.Segments)
	return p
}

func cloneType(t TypeExpr) TypeExpr {
	switch t := t.(type) {
	case nil:
		return nil
	case *NamedType:
		out := &NamedType{Path: clonePath(t.Path), Span: t.Span}
		for _, a := range t.Args {
			out.Args = append(out.Args, cloneType(a))
		}
		return out
	case *ArrayType:
		return &ArrayType{Elem: cloneType(t.Elem), Len: cloneExpr(t.Len), Span: t.Span}
	case *TupleType:
		out := &TupleType{Span: t.Span}
		for _, e := range t.Elems {
			out.Elems = append(out.Elems, cloneType(e))
		}
		return out
	}
	return t
}

func cloneBlock(b *Block) *Block {
	if b == nil {
		return nil
	}
	out := &Block{Span: b.Span, Stmts: make([]Stmt, 0, len(b.Stmts))}
	for _, s := range b.Stmts {
		out.Stmts = append(out.Stmts, cloneStmt(s))
	}
	return out
}

func cloneStmt(s Stmt) Stmt {
	switch s := s.(type) {
	case *LetStmt:
		return &LetStmt{Mutable: s.Mutable, Name: s.Name, Type: cloneType(s.Type), Value: cloneExpr(s.Value), Span: s.Span}
	case *ReturnStmt:
		return &ReturnStmt{Value: cloneExpr(s.Value), Span: s.Span}
	case *ForStmt:
		return &ForStmt{Var: s.Var, Start: cloneExpr(s.Start), End: cloneExpr(s.End), Body: cloneBlock(s.Body), Span: s.Span}
	case *AssignStmt:
		return &AssignStmt{Target: cloneExpr(s.Target), Value: cloneExpr(s.Value), Span: s.Span}
	case *ExprStmt:
		return &ExprStmt{X: cloneExpr(s.X), Semi: s.Semi, Span: s.Span}
	}
	return s
}

func cloneExprs(in []Expr) []Expr {
	if in == nil {
		return nil
	}
	out := make([]Expr, len(in))
	for i, e := range in {
		out[i] = cloneExpr(e)
	}
	return out
}

func cloneExpr(e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *PathExpr:
		return &PathExpr{Path: clonePath(e.Path)}
	case *IntLit:
		c := *e
		return &c
	case *StringLit:
		c := *e
		return &c
	case *BoolLit:
		c := *e
		return &c
	case *UnaryExpr:
		return &UnaryExpr{Op: e.Op, X: cloneExpr(e.X), Span: e.Span}
	case *BinaryExpr:
		return &BinaryExpr{Op: e.Op, Left: cloneExpr(e.Left), Right: cloneExpr(e.Right), Span: e.Span}
	case *CallExpr:
		return &CallExpr{Callee: cloneExpr(e.Callee), Args: cloneExprs(e.Args), Span: e.Span}
	case *IndexExpr:
		return &IndexExpr{X: cloneExpr(e.X), Index: cloneExpr(e.Index), Span: e.Span}
	case *MemberExpr:
		return &MemberExpr{X: cloneExpr(e.X), Name: e.Name, Span: e.Span}
	case *ParenExpr:
		return &ParenExpr{X: cloneExpr(e.X), Span: e.Span}
	case *TupleExpr:
		return &TupleExpr{Elems: cloneExprs(e.Elems), Span: e.Span}
	case *ArrayExpr:
		return &ArrayExpr{Elems: cloneExprs(e.Elems), Span: e.Span}
	case *BlockExpr:
		return &BlockExpr{Block: cloneBlock(e.Block)}
	case *IfExpr:
		return &IfExpr{Cond: cloneExpr(e.Cond), Then: cloneBlock(e.Then), Else: cloneExpr(e.Else), Span: e.Span}
	}
	return e
}
