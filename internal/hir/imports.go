package hir

import (
	"macrofront/internal/ast"
	"macrofront/internal/source"
)

// ImportDirective is a `use` waiting to be resolved.
type ImportDirective struct {
	Module   LocalModuleID // importing module
	Path     ast.Path
	Alias    string
	Glob     bool
	Public   bool // re-export
	Span     source.Span
	Implicit bool // added by the host or a processor, not written in source
}

// Name is the local name the import binds (alias or last segment).
// Glob imports bind no single name.
func (d ImportDirective) Name() string {
	if d.Glob {
		return ""
	}
	if d.Alias != "" {
		return d.Alias
	}
	return d.Path.Last().Name
}

// DirectivesFromModule flattens the module's use declarations into directives.
func DirectivesFromModule(id LocalModuleID, mod *ast.Module) []ImportDirective {
	if mod == nil {
		return nil
	}
	var out []ImportDirective
	for _, u := range mod.Imports {
		for _, leaf := range u.Leaves() {
			out = append(out, ImportDirective{
				Module: id,
				Path:   leaf.Path,
				Alias:  leaf.Alias,
				Glob:   leaf.Glob,
				Public: u.Visibility == ast.VisPublic,
				Span:   leaf.Span,
			})
		}
	}
	return out
}

// PreludeImport builds the implicit `use dep::<stdlib>::prelude::*` for the crate root.
func PreludeImport(stdlibName string) ImportDirective {
	p := ast.Path{Kind: ast.PathDep, Segments: []ast.Ident{{Name: stdlibName}, {Name: "prelude"}}}
	return ImportDirective{Module: RootModule, Path: p, Glob: true, Implicit: true}
}
