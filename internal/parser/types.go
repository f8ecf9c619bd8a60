package parser

import (
	"fmt"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/token"
)

// type := path ('<' type,* '>')? | '[' type ';' expr ']' | '(' type,* ')'
func (p *Parser) parseType() (ast.TypeExpr, bool) {
	start := p.peek().Span
	switch p.peek().Kind {
	case token.LBracket:
		p.advance()
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' in array type"); !ok {
			return nil, false
		}
		n, ok := p.parseExpr()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.RBracket, diag.SynUnexpectedToken, "expected ']' to close array type"); !ok {
			return nil, false
		}
		return &ast.ArrayType{Elem: elem, Len: n, Span: p.spanFrom(start)}, true

	case token.LParen:
		p.advance()
		var elems []ast.TypeExpr
		trailingComma := false
		for !p.at(token.RParen) && !p.at(token.EOF) {
			t, ok := p.parseType()
			if !ok {
				return nil, false
			}
			elems = append(elems, t)
			trailingComma = p.eat(token.Comma)
			if !trailingComma {
				break
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' to close tuple type"); !ok {
			return nil, false
		}
		if len(elems) == 1 && !trailingComma {
			return elems[0], true
		}
		return &ast.TupleType{Elems: elems, Span: p.spanFrom(start)}, true

	case token.Ident, token.KwCrate, token.KwDep:
		path, ok := p.parsePath()
		if !ok {
			return nil, false
		}
		named := &ast.NamedType{Path: path}
		if p.eat(token.Lt) {
			for !p.at(token.Gt) && !p.at(token.Shr) && !p.at(token.EOF) {
				arg, ok := p.parseType()
				if !ok {
					return nil, false
				}
				named.Args = append(named.Args, arg)
				if !p.eat(token.Comma) {
					break
				}
			}
			if !p.expectGt() {
				return nil, false
			}
		}
		named.Span = p.spanFrom(start)
		return named, true
	}

	p.err(diag.SynExpectType, fmt.Sprintf("expected type, got %q", p.peek().Text))
	return nil, false
}
