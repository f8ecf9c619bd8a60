package hir

import (
	"fmt"
	"slices"
	"sync"

	"macrofront/internal/ast"
	"macrofront/internal/source"
)

// OracleInfo records a function tagged with #[oracle(name)].
type OracleInfo struct {
	Name   string
	Fn     *ast.FnDecl
	Crate  CrateID
	Module LocalModuleID
}

// Context is the compilation state of one crate, passed to every macro phase.
//
// Interner and Files are shared by the whole workspace and synchronized
// internally. Dependency def maps are frozen before this crate starts and are
// only read. Everything else belongs to this crate alone.
type Context struct {
	Interner *source.Interner
	Files    *source.FileSet
	Graph    *CrateGraph
	Crate    CrateID
	DefMap   *DefMap

	deps        map[CrateID]*DefMap
	oracles     map[string]*OracleInfo
	bindings    map[*ast.PathExpr]*Symbol
	annotations map[*ast.FnDecl]map[string]string
	mu          sync.Mutex // guards annotations
}

func NewContext(interner *source.Interner, files *source.FileSet, graph *CrateGraph, crate CrateID) *Context {
	name := crate.String()
	if info := graph.Crate(crate); info != nil {
		name = info.Name
	}
	return &Context{
		Interner:    interner,
		Files:       files,
		Graph:       graph,
		Crate:       crate,
		DefMap:      NewDefMap(crate, name),
		deps:        make(map[CrateID]*DefMap),
		oracles:     make(map[string]*OracleInfo),
		bindings:    make(map[*ast.PathExpr]*Symbol),
		annotations: make(map[*ast.FnDecl]map[string]string),
	}
}

// AddDependency makes a frozen dependency def map visible to this crate.
func (c *Context) AddDependency(dm *DefMap) error {
	if dm == nil {
		return fmt.Errorf("nil def map")
	}
	if !dm.Frozen() {
		return fmt.Errorf("def map of %s is still being built", dm.Name)
	}
	c.deps[dm.Crate] = dm
	return nil
}

// DefMapOf returns this crate's def map or a dependency's.
func (c *Context) DefMapOf(crate CrateID) (*DefMap, bool) {
	if crate == c.Crate {
		return c.DefMap, true
	}
	dm, ok := c.deps[crate]
	return dm, ok
}

// RegisterOracle records an oracle declaration. A second declaration of the
// same oracle name returns the first one and false.
func (c *Context) RegisterOracle(info *OracleInfo) (*OracleInfo, bool) {
	if prev, ok := c.oracles[info.Name]; ok {
		return prev, false
	}
	c.oracles[info.Name] = info
	return info, true
}

// Oracle finds an oracle declared in this crate.
func (c *Context) Oracle(name string) (*OracleInfo, bool) {
	o, ok := c.oracles[name]
	return o, ok
}

// Oracles lists oracle names declared in this crate, sorted.
func (c *Context) Oracles() []string {
	out := make([]string, 0, len(c.oracles))
	for name := range c.oracles {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

// Bind records what a path expression resolved to.
func (c *Context) Bind(e *ast.PathExpr, sym *Symbol) {
	c.bindings[e] = sym
}

func (c *Context) Binding(e *ast.PathExpr) (*Symbol, bool) {
	s, ok := c.bindings[e]
	return s, ok
}

// AnnotOracle lists, comma-separated, the oracles a function body refers to
// directly. Resolve fills it before the typed macro phase.
const AnnotOracle = "oracle"

// Annotate attaches a key/value note to a function without reshaping the tree.
// Typed-phase processors read notes left by resolution and may add their own.
func (c *Context) Annotate(fn *ast.FnDecl, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := c.annotations[fn]
	if m == nil {
		m = make(map[string]string)
		c.annotations[fn] = m
	}
	m[key] = value
}

func (c *Context) Annotation(fn *ast.FnDecl, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.annotations[fn][key]
	return v, ok
}

// Name interns s in the workspace interner.
func (c *Context) Name(s string) source.StringID {
	return c.Interner.Intern(s)
}
