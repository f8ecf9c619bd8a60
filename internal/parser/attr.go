package parser

import (
	"strings"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/token"
)

// parseAttrs разбирает `#[path]` и `#[path(arg, ...)]` перед item.
// Аргументы сохраняются как исходный текст между запятыми верхнего уровня.
func (p *Parser) parseAttrs() ([]*ast.Attr, bool) {
	var attrs []*ast.Attr
	for p.at(token.Hash) {
		start := p.advance().Span
		if _, ok := p.expect(token.LBracket, diag.SynBadAttribute, "expected '[' after '#'"); !ok {
			return attrs, false
		}
		path, ok := p.parsePath()
		if !ok {
			p.resyncUntil(token.RBracket)
			p.eat(token.RBracket)
			return attrs, false
		}
		attr := &ast.Attr{Name: path}
		if p.eat(token.LParen) {
			args, ok := p.parseAttrArgs()
			if !ok {
				return attrs, false
			}
			attr.Args = args
		}
		if _, ok := p.expect(token.RBracket, diag.SynBadAttribute, "expected ']' to close attribute"); !ok {
			return attrs, false
		}
		attr.Span = p.spanFrom(start)
		attrs = append(attrs, attr)
	}
	return attrs, true
}

func (p *Parser) parseAttrArgs() ([]string, bool) {
	var args []string
	depth := 0
	argStart, argEnd := uint32(0), uint32(0)
	empty := true
	flush := func() {
		if !empty {
			args = append(args, strings.TrimSpace(string(p.src[argStart:argEnd])))
		}
		empty = true
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case token.EOF:
			p.err(diag.SynUnclosedDelimiter, "unclosed attribute arguments")
			return nil, false
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			if depth == 0 {
				if tok.Kind != token.RParen {
					p.err(diag.SynBadAttribute, "expected ')' to close attribute arguments")
					return nil, false
				}
				p.advance()
				flush()
				return args, true
			}
			depth--
		case token.Comma:
			if depth == 0 {
				p.advance()
				flush()
				continue
			}
		}
		p.advance()
		if empty {
			argStart = tok.Span.Start
			empty = false
		}
		argEnd = tok.Span.End
	}
}
