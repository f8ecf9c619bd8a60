package ast

import "macrofront/internal/source"

// ParsedModule is a module as written: items in source order.
type ParsedModule struct {
	File  source.FileID
	Items []Item
}

// Module is a module with declarations grouped by kind.
// Relative order within each list is source order (or append order).
type Module struct {
	File       source.FileID
	Functions  []*FnDecl
	Imports    []*UseDecl
	Types      []*StructDecl
	Globals    []*GlobalDecl
	Submodules []*ModDecl
}

// IntoSorted groups items by kind, preserving relative order per kind.
func (p *ParsedModule) IntoSorted() *Module {
	m := &Module{}
	if p == nil {
		return m
	}
	m.File = p.File
	for _, it := range p.Items {
		switch it := it.(type) {
		case *FnDecl:
			m.Functions = append(m.Functions, it)
		case *UseDecl:
			m.Imports = append(m.Imports, it)
		case *StructDecl:
			m.Types = append(m.Types, it)
		case *GlobalDecl:
			m.Globals = append(m.Globals, it)
		case *ModDecl:
			m.Submodules = append(m.Submodules, it)
		}
	}
	return m
}

// Function returns the first function with the given name.
func (m *Module) Function(name string) (*FnDecl, bool) {
	for _, fn := range m.Functions {
		if fn.Name.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// FunctionNames lists function names in declaration order.
func (m *Module) FunctionNames() []string {
	out := make([]string, 0, len(m.Functions))
	for _, fn := range m.Functions {
		out = append(out, fn.Name.Name)
	}
	return out
}

// ItemCount is the total number of declarations of all kinds.
func (m *Module) ItemCount() int {
	return len(m.Functions) + len(m.Imports) + len(m.Types) + len(m.Globals) + len(m.Submodules)
}
