package hir

import (
	"fmt"

	"fortio.org/safecast"

	"macrofront/internal/ast"
	"macrofront/internal/source"
)

// LocalModuleID indexes a module inside one crate's DefMap.
type LocalModuleID uint32

// RootModule is the id of every crate's root module.
const RootModule LocalModuleID = 0

type SymbolKind uint8

const (
	SymFn SymbolKind = iota + 1
	SymStruct
	SymGlobal
	SymModule
)

func (k SymbolKind) String() string {
	switch k {
	case SymFn:
		return "function"
	case SymStruct:
		return "struct"
	case SymGlobal:
		return "global"
	case SymModule:
		return "module"
	}
	return "symbol"
}

// Symbol is a named definition. Exactly one of Fn, Struct, Global is set
// for the corresponding kind; for SymModule Target names the module.
type Symbol struct {
	Name   source.StringID
	Kind   SymbolKind
	Vis    ast.Visibility
	Crate  CrateID
	Module LocalModuleID // defining module
	Target LocalModuleID // SymModule only
	Span   source.Span
	Fn     *ast.FnDecl
	Struct *ast.StructDecl
	Global *ast.GlobalDecl
}

func (s *Symbol) IsPublic() bool { return s.Vis == ast.VisPublic }

// ModuleData is one module of a crate.
type ModuleData struct {
	ID        LocalModuleID
	Name      string
	Parent    LocalModuleID
	HasParent bool
	File      source.FileID
	AST       *ast.Module

	defs    map[source.StringID]*Symbol
	order   []*Symbol
	imports map[source.StringID]*Symbol
	globs   map[source.StringID]*Symbol
	exports map[source.StringID]*Symbol
}

// Define adds a definition; on a name clash it returns the previous symbol and false.
func (m *ModuleData) Define(sym *Symbol) (*Symbol, bool) {
	if prev, ok := m.defs[sym.Name]; ok {
		return prev, false
	}
	m.defs[sym.Name] = sym
	m.order = append(m.order, sym)
	return sym, true
}

// Import binds name to sym as an explicit import. Explicit imports clash
// with definitions and other explicit imports.
func (m *ModuleData) Import(name source.StringID, sym *Symbol) (*Symbol, bool) {
	if prev, ok := m.defs[name]; ok {
		return prev, false
	}
	if prev, ok := m.imports[name]; ok {
		if prev == sym {
			return prev, true
		}
		return prev, false
	}
	m.imports[name] = sym
	return sym, true
}

// ImportGlob binds name with glob priority; the first glob binding wins.
func (m *ModuleData) ImportGlob(name source.StringID, sym *Symbol) {
	if _, ok := m.globs[name]; !ok {
		m.globs[name] = sym
	}
}

// Lookup searches definitions, explicit imports, then glob imports.
func (m *ModuleData) Lookup(name source.StringID) (*Symbol, bool) {
	if s, ok := m.defs[name]; ok {
		return s, true
	}
	if s, ok := m.imports[name]; ok {
		return s, true
	}
	s, ok := m.globs[name]
	return s, ok
}

// Export records a `pub use` binding visible to other modules.
func (m *ModuleData) Export(name source.StringID, sym *Symbol) {
	if _, ok := m.exports[name]; !ok {
		m.exports[name] = sym
	}
}

// Member is what other modules see through a path: definitions, then re-exports.
func (m *ModuleData) Member(name source.StringID) (*Symbol, bool) {
	if s, ok := m.defs[name]; ok {
		return s, true
	}
	s, ok := m.exports[name]
	return s, ok
}

// Exports lists re-exported names in no particular order.
func (m *ModuleData) Exports() map[source.StringID]*Symbol {
	return m.exports
}

// Def looks up a definition of this module only.
func (m *ModuleData) Def(name source.StringID) (*Symbol, bool) {
	s, ok := m.defs[name]
	return s, ok
}

// Defs lists definitions in definition order.
func (m *ModuleData) Defs() []*Symbol {
	return m.order
}

// DefMap is the module tree and definitions of a single crate.
type DefMap struct {
	Crate   CrateID
	Name    string
	Modules []*ModuleData
	frozen  bool
}

func NewDefMap(crate CrateID, name string) *DefMap {
	return &DefMap{Crate: crate, Name: name}
}

// AddModule appends a module. The first module added is the root.
func (d *DefMap) AddModule(name string, parent LocalModuleID, file source.FileID, mod *ast.Module) *ModuleData {
	if d.frozen {
		panic(fmt.Sprintf("hir: AddModule on frozen def map of %s", d.Name))
	}
	idx, err := safecast.Conv[uint32](len(d.Modules))
	if err != nil {
		panic(fmt.Errorf("hir: module table overflow: %w", err))
	}
	id := LocalModuleID(idx)
	md := &ModuleData{
		ID:        id,
		Name:      name,
		Parent:    parent,
		HasParent: len(d.Modules) > 0,
		File:      file,
		AST:       mod,
		defs:      make(map[source.StringID]*Symbol),
		imports:   make(map[source.StringID]*Symbol),
		globs:     make(map[source.StringID]*Symbol),
		exports:   make(map[source.StringID]*Symbol),
	}
	d.Modules = append(d.Modules, md)
	return md
}

func (d *DefMap) Root() *ModuleData {
	if len(d.Modules) == 0 {
		return nil
	}
	return d.Modules[RootModule]
}

func (d *DefMap) Module(id LocalModuleID) *ModuleData {
	if int(id) >= len(d.Modules) {
		return nil
	}
	return d.Modules[id]
}

// Submodules lists all module ids except the root, in creation order.
func (d *DefMap) Submodules() []LocalModuleID {
	out := make([]LocalModuleID, 0, len(d.Modules))
	for _, m := range d.Modules[min(1, len(d.Modules)):] {
		out = append(out, m.ID)
	}
	return out
}

// Freeze marks the def map read-only; dependents may then share it across goroutines.
func (d *DefMap) Freeze() { d.frozen = true }

func (d *DefMap) Frozen() bool { return d.frozen }

// ModulePath renders the path of a module from the crate root, e.g. "std::hash".
func (d *DefMap) ModulePath(id LocalModuleID) string {
	var parts []string
	for m := d.Module(id); m != nil && m.HasParent; m = d.Module(m.Parent) {
		parts = append([]string{m.Name}, parts...)
	}
	out := d.Name
	for _, p := range parts {
		out += "::" + p
	}
	return out
}
