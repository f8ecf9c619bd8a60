package parser

import (
	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/token"
)

// parseBlock разбирает `{ stmt* }`. Ошибки внутри блока восстанавливаются
// до ближайшей ';' или '}', так что блок почти всегда возвращается.
func (p *Parser) parseBlock() (*ast.Block, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return nil, false
	}
	block := &ast.Block{}
	for !p.at(token.RBrace) && !p.at(token.EOF) && !p.opts.Enough() {
		before := p.peek().Span
		st, ok := p.parseStmt()
		if !ok {
			p.resyncUntil(token.Semicolon, token.KwLet, token.KwReturn, token.KwFor)
			p.eat(token.Semicolon)
			if p.peek().Span == before && !p.at(token.RBrace) && !p.at(token.EOF) {
				p.advance()
			}
			continue
		}
		block.Stmts = append(block.Stmts, st)
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedDelimiter, "expected '}' to close block"); !ok {
		return nil, false
	}
	block.Span = open.Span.Cover(p.lastSpan)
	return block, true
}

func (p *Parser) parseStmt() (ast.Stmt, bool) {
	start := p.peek().Span
	switch p.peek().Kind {
	case token.KwLet:
		return p.parseLet()
	case token.KwReturn:
		p.advance()
		ret := &ast.ReturnStmt{}
		if !p.at(token.Semicolon) && !p.at(token.RBrace) {
			v, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			ret.Value = v
		}
		if !p.at(token.RBrace) {
			if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after return"); !ok {
				return nil, false
			}
		}
		ret.Span = p.spanFrom(start)
		return ret, true
	case token.KwFor:
		return p.parseFor()
	case token.Semicolon:
		p.advance()
		return &ast.ExprStmt{X: &ast.TupleExpr{Span: start}, Semi: true, Span: start}, true
	}

	x, ok := p.parseExpr()
	if !ok {
		return nil, false
	}
	if p.eat(token.Assign) {
		v, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after assignment"); !ok {
			return nil, false
		}
		return &ast.AssignStmt{Target: x, Value: v, Span: p.spanFrom(start)}, true
	}
	switch {
	case p.eat(token.Semicolon):
		return &ast.ExprStmt{X: x, Semi: true, Span: p.spanFrom(start)}, true
	case p.at(token.RBrace):
		return &ast.ExprStmt{X: x, Span: p.spanFrom(start)}, true
	case isBlockLike(x):
		return &ast.ExprStmt{X: x, Span: p.spanFrom(start)}, true
	}
	p.err(diag.SynExpectSemicolon, "expected ';' after expression")
	return nil, false
}

func isBlockLike(x ast.Expr) bool {
	switch x.(type) {
	case *ast.IfExpr, *ast.BlockExpr:
		return true
	}
	return false
}

// let := 'let' 'mut'? IDENT (':' type)? '=' expr ';'
func (p *Parser) parseLet() (ast.Stmt, bool) {
	start := p.advance().Span // 'let'
	let := &ast.LetStmt{}
	let.Mutable = p.eat(token.KwMut)
	var ok bool
	if let.Name, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if p.eat(token.Colon) {
		if let.Type, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in let statement"); !ok {
		return nil, false
	}
	if let.Value, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after let statement"); !ok {
		return nil, false
	}
	let.Span = p.spanFrom(start)
	return let, true
}

// for := 'for' IDENT 'in' expr '..' expr block
func (p *Parser) parseFor() (ast.Stmt, bool) {
	start := p.advance().Span // 'for'
	f := &ast.ForStmt{}
	var ok bool
	if f.Var, ok = p.parseIdent(); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' after loop variable"); !ok {
		return nil, false
	}
	if f.Start, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.DotDot, diag.SynUnexpectedToken, "expected '..' in range"); !ok {
		return nil, false
	}
	if f.End, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if f.Body, ok = p.parseBlock(); !ok {
		return nil, false
	}
	f.Span = p.spanFrom(start)
	return f, true
}
