package ast

import (
	"macrofront/internal/source"
)

type Param struct {
	Name Ident
	Type TypeExpr
	Span source.Span
}

type FnDecl struct {
	Attrs         []*Attr
	Doc           []string
	Visibility    Visibility
	Unconstrained bool
	Name          Ident
	Generics      []Ident
	Params        []*Param
	Return        TypeExpr // nil: unit
	Body          *Block   // nil: только объявление (`;`)
	Span          source.Span
}

func (f *FnDecl) Pos() source.Span { return f.Span }
func (*FnDecl) itemNode()          {}

// Oracle reports the oracle name declared with #[oracle(name)].
func (f *FnDecl) Oracle() (string, bool) {
	a, ok := FindAttr(f.Attrs, "oracle")
	if !ok || len(a.Args) != 1 || a.Args[0] == "" {
		return "", false
	}
	return a.Args[0], true
}

func (f *FnDecl) IsPublic() bool { return f.Visibility == VisPublic }

// UseKind distinguishes the shapes of a use tree node.
type UseKind uint8

const (
	UseSimple UseKind = iota // a::b [as c]
	UseGlob                  // a::b::*
	UseGroup                 // a::{...}
)

// UseTree is one node of `use a::{b, c::*, d as e}`.
// Prefix is relative to the enclosing tree.
type UseTree struct {
	Kind     UseKind
	Prefix   Path
	Alias    *Ident
	Children []*UseTree
	Span     source.Span
}

type UseDecl struct {
	Attrs      []*Attr
	Visibility Visibility
	Tree       *UseTree
	Span       source.Span
}

func (u *UseDecl) Pos() source.Span { return u.Span }
func (*UseDecl) itemNode()          {}

// UseLeaf is one imported name after flattening a use tree.
type UseLeaf struct {
	Path  Path
	Alias string
	Glob  bool
	Span  source.Span
}

// Leaves flattens the tree into full paths, left to right.
func (u *UseDecl) Leaves() []UseLeaf {
	if u == nil || u.Tree == nil {
		return nil
	}
	var out []UseLeaf
	var walk func(prefix Path, t *UseTree)
	walk = func(prefix Path, t *UseTree) {
		full := joinPath(prefix, t.Prefix)
		switch t.Kind {
		case UseSimple:
			leaf := UseLeaf{Path: full, Span: t.Span}
			if t.Alias != nil {
				leaf.Alias = t.Alias.Name
			}
			out = append(out, leaf)
		case UseGlob:
			out = append(out, UseLeaf{Path: full, Glob: true, Span: t.Span})
		case UseGroup:
			for _, c := range t.Children {
				walk(full, c)
			}
		}
	}
	walk(Path{}, u.Tree)
	return out
}

func joinPath(prefix, rest Path) Path {
	if len(prefix.Segments) == 0 && prefix.Kind == PathPlain {
		return rest
	}
	segs := make([]Ident, 0, len(prefix.Segments)+len(rest.Segments))
	segs = append(segs, prefix.Segments...)
	segs = append(segs, rest.Segments...)
	return Path{Kind: prefix.Kind, Segments: segs, Span: prefix.Span.Cover(rest.Span)}
}

type Field struct {
	Visibility Visibility
	Name       Ident
	Type       TypeExpr
	Span       source.Span
}

type StructDecl struct {
	Attrs      []*Attr
	Doc        []string
	Visibility Visibility
	Name       Ident
	Generics   []Ident
	Fields     []*Field
	Span       source.Span
}

func (s *StructDecl) Pos() source.Span { return s.Span }
func (*StructDecl) itemNode()          {}

type GlobalDecl struct {
	Attrs      []*Attr
	Visibility Visibility
	Name       Ident
	Type       TypeExpr
	Value      Expr
	Span       source.Span
}

func (g *GlobalDecl) Pos() source.Span { return g.Span }
func (*GlobalDecl) itemNode()          {}

// ModDecl is `mod name;`; the body lives in a sibling file.
type ModDecl struct {
	Attrs      []*Attr
	Visibility Visibility
	Name       Ident
	Span       source.Span
}

func (m *ModDecl) Pos() source.Span { return m.Span }
func (*ModDecl) itemNode()          {}
