package parser

import (
	"fmt"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/token"
)

// parsePathRoot разбирает необязательный корень `crate::` / `dep::`.
func (p *Parser) parsePathRoot() (ast.PathKind, bool) {
	var kind ast.PathKind
	switch p.peek().Kind {
	case token.KwCrate:
		kind = ast.PathCrate
	case token.KwDep:
		kind = ast.PathDep
	default:
		return ast.PathPlain, true
	}
	kw := p.advance()
	if _, ok := p.expect(token.ColonColon, diag.SynUnexpectedToken, fmt.Sprintf("expected '::' after '%s'", kw.Text)); !ok {
		return kind, false
	}
	return kind, true
}

// parsePath разбирает `(crate|dep)? IDENT ('::' IDENT)*`.
func (p *Parser) parsePath() (ast.Path, bool) {
	start := p.peek().Span
	kind, ok := p.parsePathRoot()
	if !ok {
		return ast.Path{}, false
	}
	first, ok := p.parseIdent()
	if !ok {
		return ast.Path{}, false
	}
	path := ast.Path{Kind: kind, Segments: []ast.Ident{first}}
	for p.at(token.ColonColon) {
		p.advance()
		seg, ok := p.parseIdent()
		if !ok {
			return ast.Path{}, false
		}
		path.Segments = append(path.Segments, seg)
	}
	path.Span = p.spanFrom(start)
	return path, true
}
