package ast

// Inspect traverses the expressions and statements under n in depth-first
// order, calling f for each node. If f returns false the children of that
// node are skipped. Types are not visited except for array lengths.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *FnDecl:
		if n.Body != nil {
			inspectBlock(n.Body, f)
		}
	case *GlobalDecl:
		inspectExpr(n.Value, f)

	case *LetStmt:
		inspectExpr(n.Value, f)
	case *ReturnStmt:
		inspectExpr(n.Value, f)
	case *ForStmt:
		inspectExpr(n.Start, f)
		inspectExpr(n.End, f)
		inspectBlock(n.Body, f)
	case *AssignStmt:
		inspectExpr(n.Target, f)
		inspectExpr(n.Value, f)
	case *ExprStmt:
		inspectExpr(n.X, f)

	case *UnaryExpr:
		inspectExpr(n.X, f)
	case *BinaryExpr:
		inspectExpr(n.Left, f)
		inspectExpr(n.Right, f)
	case *CallExpr:
		inspectExpr(n.Callee, f)
		for _, a := range n.Args {
			inspectExpr(a, f)
		}
	case *IndexExpr:
		inspectExpr(n.X, f)
		inspectExpr(n.Index, f)
	case *MemberExpr:
		inspectExpr(n.X, f)
	case *ParenExpr:
		inspectExpr(n.X, f)
	case *TupleExpr:
		for _, e := range n.Elems {
			inspectExpr(e, f)
		}
	case *ArrayExpr:
		for _, e := range n.Elems {
			inspectExpr(e, f)
		}
	case *BlockExpr:
		inspectBlock(n.Block, f)
	case *IfExpr:
		inspectExpr(n.Cond, f)
		inspectBlock(n.Then, f)
		inspectExpr(n.Else, f)
	case *ArrayType:
		inspectExpr(n.Len, f)
	}
}

func inspectExpr(e Expr, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectBlock(b *Block, f func(Node) bool) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		Inspect(s, f)
	}
}
