package parser

import (
	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/source"
	"macrofront/internal/token"
)

// use := 'use' usetree ';'
func (p *Parser) parseUse(attrs []*ast.Attr, mods itemMods, start source.Span) (*ast.UseDecl, bool) {
	p.advance() // 'use'
	tree, ok := p.parseUseTree(true)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after use declaration"); !ok {
		return nil, false
	}
	return &ast.UseDecl{Attrs: attrs, Visibility: mods.vis, Tree: tree, Span: p.spanFrom(start)}, true
}

// usetree := path ('::' ('*' | '{' usetree,* '}'))? ('as' IDENT)?
//
//	| '*' | '{' usetree,* '}'   (только внутри группы)
func (p *Parser) parseUseTree(top bool) (*ast.UseTree, bool) {
	start := p.peek().Span

	if !top {
		switch {
		case p.eat(token.Star):
			return &ast.UseTree{Kind: ast.UseGlob, Span: p.spanFrom(start)}, true
		case p.at(token.LBrace):
			return p.parseUseGroup(ast.Path{}, start)
		}
	}

	kind, ok := p.parsePathRoot()
	if !ok {
		return nil, false
	}
	prefix := ast.Path{Kind: kind}
	for {
		seg, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		prefix.Segments = append(prefix.Segments, seg)
		prefix.Span = p.spanFrom(start)
		if !p.at(token.ColonColon) {
			break
		}
		p.advance()
		switch {
		case p.eat(token.Star):
			return &ast.UseTree{Kind: ast.UseGlob, Prefix: prefix, Span: p.spanFrom(start)}, true
		case p.at(token.LBrace):
			return p.parseUseGroup(prefix, start)
		}
	}

	tree := &ast.UseTree{Kind: ast.UseSimple, Prefix: prefix}
	if p.eat(token.KwAs) {
		alias, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		tree.Alias = &alias
	}
	tree.Span = p.spanFrom(start)
	return tree, true
}

func (p *Parser) parseUseGroup(prefix ast.Path, start source.Span) (*ast.UseTree, bool) {
	open := p.advance() // '{'
	tree := &ast.UseTree{Kind: ast.UseGroup, Prefix: prefix}
	for !p.at(token.RBrace) && !p.at(token.EOF) {
		child, ok := p.parseUseTree(false)
		if !ok {
			return nil, false
		}
		tree.Children = append(tree.Children, child)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnexpectedToken, "expected '}' to close use group"); !ok {
		return nil, false
	}
	tree.Span = p.spanFrom(start)
	if len(tree.Children) == 0 {
		p.report(diag.SynEmptyUseGroup, diag.SevWarning, open.Span.Cover(p.lastSpan), "empty use group imports nothing")
	}
	return tree, true
}
