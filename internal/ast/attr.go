package ast

import (
	"strings"

	"macrofront/internal/source"
)

// Attr is `#[name]` or `#[name(arg, ...)]`. Arguments are kept as raw token text.
type Attr struct {
	Name Path
	Args []string
	Span source.Span
}

func (a *Attr) String() string {
	if len(a.Args) == 0 {
		return "#[" + a.Name.String() + "]"
	}
	return "#[" + a.Name.String() + "(" + strings.Join(a.Args, ", ") + ")]"
}

// FindAttr returns the first attribute with the given single-segment name.
func FindAttr(attrs []*Attr, name string) (*Attr, bool) {
	for _, a := range attrs {
		if a != nil && a.Name.IsIdent() && a.Name.Segments[0].Name == name {
			return a, true
		}
	}
	return nil, false
}
