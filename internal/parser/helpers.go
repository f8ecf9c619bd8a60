package parser

import (
	"fmt"
	"slices"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/source"
	"macrofront/internal/token"
)

func (p *Parser) peek() token.Token {
	if p.split != nil {
		return *p.split
	}
	return p.lx.Peek()
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// advance: съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	var tok token.Token
	if p.split != nil {
		tok = *p.split
		p.split = nil
	} else {
		tok = p.lx.Next()
	}
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat съедает токен k, если он следующий.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// getDiagnosticSpan: на EOF указываем сразу за последним съеденным токеном.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return p.lastSpan.AtEnd()
	}
	return peek.Span
}

// expect: ожидаем конкретный токен. Иначе репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	if p.at(token.EOF) && isCloser(k) {
		code = diag.SynUnclosedDelimiter
	}
	sp := p.getDiagnosticSpan()
	p.report(code, diag.SevError, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: p.peek().Text}, false
}

func isCloser(k token.Kind) bool {
	return k == token.RParen || k == token.RBrace || k == token.RBracket || k == token.Gt
}

// expectGt closes a generic list, splitting '>>' and '>=' when needed.
func (p *Parser) expectGt() bool {
	tok := p.peek()
	switch tok.Kind {
	case token.Gt:
		p.advance()
		return true
	case token.Shr, token.GtEq:
		p.advance()
		rest := token.Token{
			Kind: token.Gt,
			Span: source.Span{File: tok.Span.File, Start: tok.Span.Start + 1, End: tok.Span.End},
			Text: tok.Text[1:],
		}
		if tok.Kind == token.GtEq {
			rest.Kind = token.Assign
		}
		p.lastSpan = source.Span{File: tok.Span.File, Start: tok.Span.Start, End: tok.Span.Start + 1}
		p.split = &rest
		return true
	}
	_, ok := p.expect(token.Gt, diag.SynUnexpectedToken, "expected '>'")
	return ok
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	return p.reportNotes(code, sev, sp, msg, nil)
}

func (p *Parser) reportNotes(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) bool {
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil {
		return false
	}
	if sev == diag.SevError && p.opts.MaxErrors > 0 && p.opts.CurrentErrors > p.opts.MaxErrors {
		return false // достигли максимального количества ошибок
	}
	p.opts.Reporter.Report(code, sev, sp, msg, notes)
	return true
}

// lexReporter пропускает ошибки лексера через тот же счётчик MaxErrors.
type lexReporter struct {
	p *Parser
}

func (r lexReporter) Report(code diag.Code, sev diag.Severity, sp source.Span, msg string, notes []diag.Note) {
	r.p.reportNotes(code, sev, sp, msg, notes)
}

// resyncUntil прокручивает токены до одного из stop (не съедая его) или EOF.
// Сбалансированные скобки пропускаются целиком.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	depth := 0
	for !p.at(token.EOF) {
		k := p.peek().Kind
		if depth == 0 && slices.Contains(stop, k) {
			return
		}
		switch k {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			if depth == 0 {
				return
			}
			depth--
		}
		p.advance()
	}
}

// parseIdent ожидает Ident (или '_'); на ошибке: SynExpectIdentifier.
func (p *Parser) parseIdent() (ast.Ident, bool) {
	if p.atOr(token.Ident, token.Underscore) {
		tok := p.advance()
		return ast.Ident{Name: tok.Text, Span: tok.Span}, true
	}
	p.err(diag.SynExpectIdentifier, fmt.Sprintf("expected identifier, got %q", p.peek().Text))
	return ast.Ident{}, false
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}
