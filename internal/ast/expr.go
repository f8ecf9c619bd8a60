package ast

import (
	"macrofront/internal/source"
	"macrofront/internal/token"
)

type PathExpr struct {
	Path Path
}

func (e *PathExpr) Pos() source.Span { return e.Path.Span }
func (*PathExpr) exprNode()          {}

type IntLit struct {
	Text string
	Span source.Span
}

func (e *IntLit) Pos() source.Span { return e.Span }
func (*IntLit) exprNode()          {}

// StringLit keeps the literal exactly as written, quotes included.
type StringLit struct {
	Raw  string
	Span source.Span
}

func (e *StringLit) Pos() source.Span { return e.Span }
func (*StringLit) exprNode()          {}

type BoolLit struct {
	Value bool
	Span  source.Span
}

func (e *BoolLit) Pos() source.Span { return e.Span }
func (*BoolLit) exprNode()          {}

// UnaryExpr: Op is token.Bang or token.Minus.
type UnaryExpr struct {
	Op   token.Kind
	X    Expr
	Span source.Span
}

func (e *UnaryExpr) Pos() source.Span { return e.Span }
func (*UnaryExpr) exprNode()          {}

type BinaryExpr struct {
	Op    token.Kind
	Left  Expr
	Right Expr
	Span  source.Span
}

func (e *BinaryExpr) Pos() source.Span { return e.Span }
func (*BinaryExpr) exprNode()          {}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Span   source.Span
}

func (e *CallExpr) Pos() source.Span { return e.Span }
func (*CallExpr) exprNode()          {}

type IndexExpr struct {
	X     Expr
	Index Expr
	Span  source.Span
}

func (e *IndexExpr) Pos() source.Span { return e.Span }
func (*IndexExpr) exprNode()          {}

type MemberExpr struct {
	X    Expr
	Name Ident
	Span source.Span
}

func (e *MemberExpr) Pos() source.Span { return e.Span }
func (*MemberExpr) exprNode()          {}

type ParenExpr struct {
	X    Expr
	Span source.Span
}

func (e *ParenExpr) Pos() source.Span { return e.Span }
func (*ParenExpr) exprNode()          {}

// TupleExpr: `()` is the unit value.
type TupleExpr struct {
	Elems []Expr
	Span  source.Span
}

func (e *TupleExpr) Pos() source.Span { return e.Span }
func (*TupleExpr) exprNode()          {}

type ArrayExpr struct {
	Elems []Expr
	Span  source.Span
}

func (e *ArrayExpr) Pos() source.Span { return e.Span }
func (*ArrayExpr) exprNode()          {}

type BlockExpr struct {
	Block *Block
}

func (e *BlockExpr) Pos() source.Span { return e.Block.Span }
func (*BlockExpr) exprNode()          {}

// IfExpr: Else is nil, *IfExpr or *BlockExpr.
type IfExpr struct {
	Cond Expr
	Then *Block
	Else Expr
	Span source.Span
}

func (e *IfExpr) Pos() source.Span { return e.Span }
func (*IfExpr) exprNode()          {}
