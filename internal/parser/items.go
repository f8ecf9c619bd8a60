package parser

import (
	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/source"
	"macrofront/internal/token"
)

// struct := 'struct' IDENT generics? '{' ('pub'? IDENT ':' type),* '}'
func (p *Parser) parseStruct(attrs []*ast.Attr, mods itemMods, start source.Span) (*ast.StructDecl, bool) {
	p.advance() // 'struct'
	st := &ast.StructDecl{Attrs: attrs, Visibility: mods.vis}

	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	st.Name = name

	if p.at(token.Lt) {
		if st.Generics, ok = p.parseGenericParams(); !ok {
			return nil, false
		}
	}

	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after struct name"); !ok {
		return nil, false
	}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		fieldStart := p.peek().Span
		field := &ast.Field{}
		if p.eat(token.KwPub) {
			field.Visibility = ast.VisPublic
		}
		if field.Name, ok = p.parseIdent(); !ok {
			return nil, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after field name"); !ok {
			return nil, false
		}
		if field.Type, ok = p.parseType(); !ok {
			return nil, false
		}
		field.Span = p.spanFrom(fieldStart)
		st.Fields = append(st.Fields, field)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close struct"); !ok {
		return nil, false
	}
	st.Span = p.spanFrom(start)
	return st, true
}

// global := 'global' IDENT (':' type)? '=' expr ';'
func (p *Parser) parseGlobal(attrs []*ast.Attr, mods itemMods, start source.Span) (*ast.GlobalDecl, bool) {
	p.advance() // 'global'
	g := &ast.GlobalDecl{Attrs: attrs, Visibility: mods.vis}

	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	g.Name = name

	if p.eat(token.Colon) {
		if g.Type, ok = p.parseType(); !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in global declaration"); !ok {
		return nil, false
	}
	if g.Value, ok = p.parseExpr(); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after global"); !ok {
		return nil, false
	}
	g.Span = p.spanFrom(start)
	return g, true
}

// mod := 'mod' IDENT ';'
func (p *Parser) parseMod(attrs []*ast.Attr, mods itemMods, start source.Span) (*ast.ModDecl, bool) {
	p.advance() // 'mod'
	name, ok := p.parseIdent()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after module declaration"); !ok {
		return nil, false
	}
	return &ast.ModDecl{Attrs: attrs, Visibility: mods.vis, Name: name, Span: p.spanFrom(start)}, true
}
