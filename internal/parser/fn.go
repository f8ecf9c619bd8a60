package parser

import (
	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/source"
	"macrofront/internal/token"
)

// fn := 'fn' IDENT generics? '(' params ')' ('->' type)? (block | ';')
func (p *Parser) parseFn(attrs []*ast.Attr, mods itemMods, start source.Span) (*ast.FnDecl, bool) {
	p.advance() // 'fn'
	fn := &ast.FnDecl{
		Attrs:         attrs,
		Visibility:    mods.vis,
		Unconstrained: mods.unconstrained,
	}

	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	fn.Name = name

	if p.at(token.Lt) {
		if fn.Generics, ok = p.parseGenericParams(); !ok {
			return nil, false
		}
	}

	if fn.Params, ok = p.parseParams(); !ok {
		return nil, false
	}

	if p.eat(token.Arrow) {
		if fn.Return, ok = p.parseType(); !ok {
			return nil, false
		}
	}

	switch {
	case p.at(token.LBrace):
		if fn.Body, ok = p.parseBlock(); !ok {
			return nil, false
		}
	case p.eat(token.Semicolon):
	default:
		p.err(diag.SynUnexpectedToken, "expected function body or ';'")
		return nil, false
	}

	fn.Span = p.spanFrom(start)
	return fn, true
}

// generics := '<' IDENT (',' IDENT)* ','? '>'
func (p *Parser) parseGenericParams() ([]ast.Ident, bool) {
	p.advance() // '<'
	var out []ast.Ident
	for !p.at(token.Gt) {
		id, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		out = append(out, id)
		if !p.eat(token.Comma) {
			break
		}
	}
	if !p.expectGt() {
		return nil, false
	}
	return out, true
}

// params := '(' (IDENT ':' type),* ')'
func (p *Parser) parseParams() ([]*ast.Param, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' to start parameter list"); !ok {
		return nil, false
	}
	var params []*ast.Param
	for !p.at(token.RParen) && !p.at(token.EOF) {
		name, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after parameter name"); !ok {
			return nil, false
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		params = append(params, &ast.Param{Name: name, Type: typ, Span: name.Span.Cover(typ.Pos())})
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnexpectedToken, "expected ')' to close parameter list"); !ok {
		return nil, false
	}
	return params, true
}
