package ast

import "macrofront/internal/source"

// Node is anything with a source position.
type Node interface {
	Pos() source.Span
}

// Item is a top-level declaration.
type Item interface {
	Node
	itemNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement inside a block.
type Stmt interface {
	Node
	stmtNode()
}

// TypeExpr is a written type.
type TypeExpr interface {
	Node
	typeNode()
}
