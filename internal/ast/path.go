package ast

import (
	"strings"

	"macrofront/internal/source"
)

// Ident is a name together with the span it was written at.
type Ident struct {
	Name string
	Span source.Span
}

// PathKind tells where path resolution starts.
type PathKind uint8

const (
	PathPlain PathKind = iota // a::b: относительно текущего модуля
	PathCrate                 // crate::a::b
	PathDep                   // dep::name::b: корень зависимости
)

// Path is a `::`-separated name. For PathDep the first segment names the dependency.
type Path struct {
	Kind     PathKind
	Segments []Ident
	Span     source.Span
}

// Last returns the final segment; zero Ident for an empty path.
func (p Path) Last() Ident {
	if len(p.Segments) == 0 {
		return Ident{}
	}
	return p.Segments[len(p.Segments)-1]
}

func (p Path) IsIdent() bool {
	return p.Kind == PathPlain && len(p.Segments) == 1
}

func (p Path) String() string {
	var b strings.Builder
	switch p.Kind {
	case PathCrate:
		b.WriteString("crate")
	case PathDep:
		b.WriteString("dep")
	}
	for i, seg := range p.Segments {
		if i > 0 || p.Kind != PathPlain {
			b.WriteString("::")
		}
		b.WriteString(seg.Name)
	}
	return b.String()
}

// SimplePath builds a plain path from bare names; spans are left empty.
func SimplePath(names ...string) Path {
	segs := make([]Ident, len(names))
	for i, n := range names {
		segs[i] = Ident{Name: n}
	}
	return Path{Kind: PathPlain, Segments: segs}
}
