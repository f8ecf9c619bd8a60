package hir

import (
	"fmt"

	"fortio.org/safecast"

	"macrofront/internal/source"
)

// Dependency is an edge of the crate graph under the name the dependent uses.
type Dependency struct {
	Name  string
	Crate CrateID
}

type CrateInfo struct {
	ID   CrateID
	Name string
	Root source.FileID
	Deps []Dependency
}

// CrateGraph lists all crates of a workspace. It is built before any crate
// is compiled and is read-only afterwards.
type CrateGraph struct {
	crates []*CrateInfo
	byName map[string]CrateID
	stdlib CrateID
}

func NewCrateGraph() *CrateGraph {
	return &CrateGraph{byName: make(map[string]CrateID)}
}

// AddCrate registers a crate; names must be unique and at most one crate is the stdlib.
func (g *CrateGraph) AddCrate(name string, kind CrateKind, root source.FileID) (CrateID, error) {
	if _, dup := g.byName[name]; dup {
		return NoCrateID, fmt.Errorf("crate %q already registered", name)
	}
	if kind == CrateStdlib && g.stdlib.IsValid() {
		return NoCrateID, fmt.Errorf("crate %q: stdlib already registered as %q", name, g.crates[g.stdlib.Index()].Name)
	}
	idx, err := safecast.Conv[uint32](len(g.crates))
	if err != nil {
		return NoCrateID, fmt.Errorf("crate graph overflow: %w", err)
	}
	id := NewCrateID(idx, kind)
	g.crates = append(g.crates, &CrateInfo{ID: id, Name: name, Root: root})
	g.byName[name] = id
	if kind == CrateStdlib {
		g.stdlib = id
	}
	return id, nil
}

// AddDependency records that from depends on to under alias name.
func (g *CrateGraph) AddDependency(from CrateID, name string, to CrateID) error {
	info := g.Crate(from)
	if info == nil || g.Crate(to) == nil {
		return fmt.Errorf("unknown crate in dependency %s -> %s", from, to)
	}
	for _, d := range info.Deps {
		if d.Name == name {
			return fmt.Errorf("crate %q already has a dependency named %q", info.Name, name)
		}
	}
	info.Deps = append(info.Deps, Dependency{Name: name, Crate: to})
	return nil
}

func (g *CrateGraph) Crate(id CrateID) *CrateInfo {
	i := id.Index()
	if !id.IsValid() || i < 0 || i >= len(g.crates) {
		return nil
	}
	return g.crates[i]
}

func (g *CrateGraph) Lookup(name string) (CrateID, bool) {
	id, ok := g.byName[name]
	return id, ok
}

// Stdlib returns the stdlib crate, if the workspace has one.
func (g *CrateGraph) Stdlib() (CrateID, bool) {
	return g.stdlib, g.stdlib.IsValid()
}

// DependsOnStdlib reports whether id lists the stdlib among its direct deps.
func (g *CrateGraph) DependsOnStdlib(id CrateID) (Dependency, bool) {
	info := g.Crate(id)
	if info == nil {
		return Dependency{}, false
	}
	for _, d := range info.Deps {
		if d.Crate.IsStdlib() {
			return d, true
		}
	}
	return Dependency{}, false
}

// Dependency looks up a direct dependency of id by the name id uses for it.
func (g *CrateGraph) Dependency(id CrateID, name string) (CrateID, bool) {
	info := g.Crate(id)
	if info == nil {
		return NoCrateID, false
	}
	for _, d := range info.Deps {
		if d.Name == name {
			return d.Crate, true
		}
	}
	return NoCrateID, false
}

func (g *CrateGraph) Crates() []*CrateInfo {
	return g.crates
}

func (g *CrateGraph) Len() int { return len(g.crates) }
