package ast

import "macrofront/internal/source"

// NamedType is `path` or `path<args>`.
type NamedType struct {
	Path Path
	Args []TypeExpr
	Span source.Span
}

func (t *NamedType) Pos() source.Span { return t.Span }
func (*NamedType) typeNode()          {}

// ArrayType is `[Elem; Len]`.
type ArrayType struct {
	Elem TypeExpr
	Len  Expr
	Span source.Span
}

func (t *ArrayType) Pos() source.Span { return t.Span }
func (*ArrayType) typeNode()          {}

// TupleType is `(A, B)`; `()` is unit.
type TupleType struct {
	Elems []TypeExpr
	Span  source.Span
}

func (t *TupleType) Pos() source.Span { return t.Span }
func (*TupleType) typeNode()          {}
