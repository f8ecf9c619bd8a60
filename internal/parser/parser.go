package parser

import (
	"context"
	"fmt"

	"macrofront/internal/ast"
	"macrofront/internal/diag"
	"macrofront/internal/lexer"
	"macrofront/internal/source"
	"macrofront/internal/token"
	"macrofront/internal/trace"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	Module *ast.ParsedModule
	Bag    *diag.Bag
	Errors uint
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer
	src      []byte
	file     source.FileID
	opts     Options
	lastSpan source.Span  // span последнего съеденного токена для лучшей диагностики
	split    *token.Token // вторая половина '>>', разрезанного при закрытии generic-аргументов
}

func newParser(f *source.File, opts Options) *Parser {
	p := &Parser{
		src:      f.Content,
		file:     f.ID,
		opts:     opts,
		lastSpan: source.Span{File: f.ID},
	}
	p.lx = lexer.New(f, lexer.Options{Reporter: lexReporter{p: p}})
	return p
}

// ParseFile: входная точка для разбора одного файла из FileSet.
func ParseFile(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options) Result {
	f := fs.Get(id)
	if f == nil {
		if opts.Reporter != nil {
			opts.Reporter.Report(diag.IOLoadFileError, diag.SevError, source.Span{File: id},
				fmt.Sprintf("file %d is not loaded", id), nil)
		}
		return Result{Module: &ast.ParsedModule{File: id}, Bag: bagOf(opts.Reporter), Errors: 1}
	}

	span, _ := trace.Start(ctx, trace.ScopePass, "parse")
	span.WithExtra("file", f.Path)

	p := newParser(f, opts)
	mod := p.parseItems()

	span.End(fmt.Sprintf("%d items", len(mod.Items)))
	return Result{Module: mod, Bag: bagOf(opts.Reporter), Errors: p.opts.CurrentErrors}
}

// ParseProgram parses an in-memory snippet as an anonymous module.
// Spans carry source.SnippetFileID.
func ParseProgram(src string) (*ast.ParsedModule, []diag.Diagnostic) {
	f := &source.File{
		ID:      source.SnippetFileID,
		Path:    "<snippet>",
		Content: []byte(src),
		Flags:   source.FileVirtual,
	}
	bag := diag.NewBag(0)
	p := newParser(f, Options{Reporter: &diag.BagReporter{Bag: bag}})
	mod := p.parseItems()
	return mod, bag.Items()
}

func bagOf(r diag.Reporter) *diag.Bag {
	if br, ok := r.(*diag.BagReporter); ok {
		return br.Bag
	}
	return nil
}

// parseItems: основной цикл верхнего уровня, parseItem до EOF.
func (p *Parser) parseItems() *ast.ParsedModule {
	mod := &ast.ParsedModule{File: p.file}
	for !p.at(token.EOF) && !p.opts.Enough() {
		before := p.peek().Span
		item, ok := p.parseItem()
		if ok {
			mod.Items = append(mod.Items, item)
			continue
		}
		p.resyncTop()
		if p.peek().Span == before && !p.at(token.EOF) {
			p.advance()
		}
	}
	return mod
}

type itemMods struct {
	vis           ast.Visibility
	unconstrained bool
	span          source.Span
	hasSpan       bool
}

func (m *itemMods) extend(sp source.Span) {
	if !m.hasSpan {
		m.span = sp
		m.hasSpan = true
		return
	}
	m.span = m.span.Cover(sp)
}

// parseItem выбирает по первому токену нужный распознаватель top-level конструкции.
func (p *Parser) parseItem() (ast.Item, bool) {
	first := p.peek()
	doc := token.DocLines(first.Leading)
	attrs, ok := p.parseAttrs()
	if !ok {
		return nil, false
	}
	mods := p.parseModifiers()
	start := first.Span

	switch p.peek().Kind {
	case token.KwFn:
		fn, ok := p.parseFn(attrs, mods, start)
		if ok {
			fn.Doc = doc
		}
		return fn, ok
	case token.KwUse:
		p.rejectUnconstrained(mods, "use")
		return p.parseUse(attrs, mods, start)
	case token.KwStruct:
		p.rejectUnconstrained(mods, "struct")
		st, ok := p.parseStruct(attrs, mods, start)
		if ok {
			st.Doc = doc
		}
		return st, ok
	case token.KwGlobal:
		p.rejectUnconstrained(mods, "global")
		return p.parseGlobal(attrs, mods, start)
	case token.KwMod:
		p.rejectUnconstrained(mods, "mod")
		return p.parseMod(attrs, mods, start)
	default:
		if mods.hasSpan || len(attrs) > 0 {
			p.err(diag.SynUnexpectedToken, fmt.Sprintf("expected item after attributes or modifiers, got %q", p.peek().Text))
		} else {
			p.report(diag.SynUnexpectedTopLevel, diag.SevError, p.peek().Span, "unexpected top-level construct")
		}
		return nil, false
	}
}

// parseModifiers accepts `pub` and `unconstrained` in any order, each at most once.
func (p *Parser) parseModifiers() itemMods {
	var mods itemMods
	for {
		switch p.peek().Kind {
		case token.KwPub:
			tok := p.advance()
			if mods.vis == ast.VisPublic {
				p.report(diag.SynDuplicateModifier, diag.SevError, tok.Span, "duplicate 'pub' modifier")
			}
			mods.vis = ast.VisPublic
			mods.extend(tok.Span)
		case token.KwUnconstrained:
			tok := p.advance()
			if mods.unconstrained {
				p.report(diag.SynDuplicateModifier, diag.SevError, tok.Span, "duplicate 'unconstrained' modifier")
			}
			mods.unconstrained = true
			mods.extend(tok.Span)
		default:
			return mods
		}
	}
}

func (p *Parser) rejectUnconstrained(mods itemMods, what string) {
	if mods.unconstrained {
		p.report(diag.SynModifierNotAllowed, diag.SevError, mods.span,
			fmt.Sprintf("'unconstrained' is not allowed on %s", what))
	}
}

// resyncTop: восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' ИЛИ до стартового токена следующего item ИЛИ EOF.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.Semicolon, token.Hash, token.KwFn, token.KwPub, token.KwUnconstrained,
		token.KwUse, token.KwStruct, token.KwGlobal, token.KwMod)
	if p.at(token.Semicolon) {
		p.advance()
	}
}
