package parser

import (
	"fmt"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/token"
)

func (p *Parser) parseExpr() (ast.Expr, bool) {
	return p.parseBinary(0)
}

// parseBinary: Pratt: сворачиваем операторы с приоритетом выше minPrec.
func (p *Parser) parseBinary(minPrec int) (ast.Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for {
		op := p.peek().Kind
		prec := binaryPrec(op)
		if prec < 0 || prec <= minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec)
		if !ok {
			return nil, false
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: left.Pos().Cover(right.Pos())}
	}
}

func (p *Parser) parseUnary() (ast.Expr, bool) {
	if p.atOr(token.Bang, token.Minus) {
		opTok := p.advance()
		x, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &ast.UnaryExpr{Op: opTok.Kind, X: x, Span: opTok.Span.Cover(x.Pos())}, true
	}
	x, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	return p.parsePostfix(x)
}

// parsePostfix: вызовы, индексация, доступ к полю.
func (p *Parser) parsePostfix(x ast.Expr) (ast.Expr, bool) {
	for {
		start := x.Pos()
		switch p.peek().Kind {
		case token.LParen:
			p.advance()
			args, ok := p.parseExprList(token.RParen, "expected ')' to close call arguments")
			if !ok {
				return nil, false
			}
			x = &ast.CallExpr{Callee: x, Args: args, Span: p.spanFrom(start)}
		case token.LBracket:
			p.advance()
			idx, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			if _, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' after index"); !ok {
				return nil, false
			}
			x = &ast.IndexExpr{X: x, Index: idx, Span: p.spanFrom(start)}
		case token.Dot:
			p.advance()
			var name ast.Ident
			if p.at(token.IntLit) {
				tok := p.advance()
				name = ast.Ident{Name: tok.Text, Span: tok.Span}
			} else {
				var ok bool
				if name, ok = p.parseIdent(); !ok {
					return nil, false
				}
			}
			x = &ast.MemberExpr{X: x, Name: name, Span: p.spanFrom(start)}
		default:
			return x, true
		}
	}
}

// parseExprList разбирает `expr, expr, ...` до закрывающего токена (съедает его).
func (p *Parser) parseExprList(closer token.Kind, msg string) ([]ast.Expr, bool) {
	var out []ast.Expr
	for !p.at(closer) && !p.at(token.EOF) {
		e, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		out = append(out, e)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(closer, diag.SynUnexpectedToken, msg); !ok {
		return nil, false
	}
	return out, true
}

func (p *Parser) parsePrimary() (ast.Expr, bool) {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		return &ast.IntLit{Text: tok.Text, Span: tok.Span}, true
	case token.StringLit:
		p.advance()
		return &ast.StringLit{Raw: tok.Text, Span: tok.Span}, true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return &ast.BoolLit{Value: tok.Kind == token.KwTrue, Span: tok.Span}, true
	case token.Ident, token.KwCrate, token.KwDep:
		path, ok := p.parsePath()
		if !ok {
			return nil, false
		}
		return &ast.PathExpr{Path: path}, true
	case token.LParen:
		return p.parseParenOrTuple()
	case token.LBracket:
		p.advance()
		elems, ok := p.parseExprList(token.RBracket, "expected ']' to close array literal")
		if !ok {
			return nil, false
		}
		return &ast.ArrayExpr{Elems: elems, Span: p.spanFrom(tok.Span)}, true
	case token.LBrace:
		b, ok := p.parseBlock()
		if !ok {
			return nil, false
		}
		return &ast.BlockExpr{Block: b}, true
	case token.KwIf:
		return p.parseIf()
	}
	p.err(diag.SynExpectExpression, fmt.Sprintf("expected expression, got %q", tok.Text))
	return nil, false
}

func (p *Parser) parseParenOrTuple() (ast.Expr, bool) {
	start := p.advance().Span // '('
	if p.eat(token.RParen) {
		return &ast.TupleExpr{Span: p.spanFrom(start)}, true
	}
	first, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if !p.at(token.Comma) {
		if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')'"); !ok {
			return nil, false
		}
		return &ast.ParenExpr{X: first, Span: p.spanFrom(start)}, true
	}
	p.advance()
	rest, ok := p.parseExprList(token.RParen, "expected ')' to close tuple")
	if !ok {
		return nil, false
	}
	return &ast.TupleExpr{Elems: append([]ast.Expr{first}, rest...), Span: p.spanFrom(start)}, true
}

// if := 'if' expr block ('else' (if | block))?
func (p *Parser) parseIf() (ast.Expr, bool) {
	start := p.advance().Span // 'if'
	cond, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	then, ok := p.parseBlock()
	if !ok {
		return nil, false
	}
	ifx := &ast.IfExpr{Cond: cond, Then: then}
	if p.eat(token.KwElse) {
		if p.at(token.KwIf) {
			if ifx.Else, ok = p.parseIf(); !ok {
				return nil, false
			}
		} else {
			b, ok := p.parseBlock()
			if !ok {
				return nil, false
			}
			ifx.Else = &ast.BlockExpr{Block: b}
		}
	}
	ifx.Span = p.spanFrom(start)
	return ifx, true
}
