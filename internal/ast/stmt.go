package ast

import "macrofront/internal/source"

type Block struct {
	Stmts []Stmt
	Span  source.Span
}

type LetStmt struct {
	Mutable bool
	Name    Ident
	Type    TypeExpr // nil: выводится
	Value   Expr
	Span    source.Span
}

func (s *LetStmt) Pos() source.Span { return s.Span }
func (*LetStmt) stmtNode()          {}

type ReturnStmt struct {
	Value Expr // nil для `return;`
	Span  source.Span
}

func (s *ReturnStmt) Pos() source.Span { return s.Span }
func (*ReturnStmt) stmtNode()          {}

// ForStmt is `for Var in Start..End { Body }`.
type ForStmt struct {
	Var   Ident
	Start Expr
	End   Expr
	Body  *Block
	Span  source.Span
}

func (s *ForStmt) Pos() source.Span { return s.Span }
func (*ForStmt) stmtNode()          {}

type AssignStmt struct {
	Target Expr
	Value  Expr
	Span   source.Span
}

func (s *AssignStmt) Pos() source.Span { return s.Span }
func (*AssignStmt) stmtNode()          {}

// ExprStmt wraps an expression; Semi is false for a block's tail expression.
type ExprStmt struct {
	X    Expr
	Semi bool
	Span source.Span
}

func (s *ExprStmt) Pos() source.Span { return s.Span }
func (*ExprStmt) stmtNode()          {}
