package resolve

import (
	"fmt"

	"macrofront/internal/ast"
	"macrofront/internal/hir"
)

// failure describes why a path did not resolve.
type failure struct {
	private bool
	msg     string
}

// moduleSym is the implicit symbol of a module reached by a path prefix
// (`crate`, `dep::name` or a bare dependency name).
func moduleSym(crate hir.CrateID, id hir.LocalModuleID) *hir.Symbol {
	return &hir.Symbol{Kind: hir.SymModule, Vis: ast.VisPublic, Crate: crate, Module: id, Target: id}
}

// lookupPath resolves p as seen from module from.
func (r *resolver) lookupPath(from *hir.ModuleData, p ast.Path) (*hir.Symbol, *failure) {
	segs := p.Segments
	var cur *hir.Symbol
	switch p.Kind {
	case ast.PathCrate:
		cur = moduleSym(r.hctx.Crate, hir.RootModule)
	case ast.PathDep:
		if len(segs) == 0 {
			return nil, &failure{msg: "`dep` must be followed by a crate name"}
		}
		dep, ok := r.hctx.Graph.Dependency(r.hctx.Crate, segs[0].Name)
		if !ok {
			return nil, &failure{msg: fmt.Sprintf("no dependency named `%s`", segs[0].Name)}
		}
		cur = moduleSym(dep, hir.RootModule)
		segs = segs[1:]
	default:
		if len(segs) == 0 {
			return nil, &failure{msg: "empty path"}
		}
		first := segs[0].Name
		if s, ok := from.Lookup(r.hctx.Name(first)); ok {
			cur = s
		} else if dep, ok := r.hctx.Graph.Dependency(r.hctx.Crate, first); ok {
			cur = moduleSym(dep, hir.RootModule)
		} else {
			return nil, &failure{msg: fmt.Sprintf("cannot find `%s` in `%s`", first, r.hctx.DefMap.ModulePath(from.ID))}
		}
		segs = segs[1:]
	}

	for i, seg := range segs {
		if cur.Kind != hir.SymModule {
			return nil, &failure{msg: fmt.Sprintf("`%s` is a %s, not a module", prefix(p, i), cur.Kind)}
		}
		md := r.moduleData(cur)
		if md == nil {
			return nil, &failure{msg: fmt.Sprintf("module `%s` is not available", prefix(p, i))}
		}
		s, ok := md.Member(r.hctx.Name(seg.Name))
		if !ok {
			return nil, &failure{msg: fmt.Sprintf("cannot find `%s` in `%s`", seg.Name, r.modulePath(cur))}
		}
		if s.Crate != r.hctx.Crate && !s.IsPublic() {
			return nil, &failure{private: true, msg: fmt.Sprintf("%s `%s` is private to `%s`", s.Kind, seg.Name, r.modulePath(cur))}
		}
		cur = s
	}
	return cur, nil
}

func (r *resolver) moduleData(sym *hir.Symbol) *hir.ModuleData {
	dm, ok := r.hctx.DefMapOf(sym.Crate)
	if !ok {
		return nil
	}
	return dm.Module(sym.Target)
}

func (r *resolver) modulePath(sym *hir.Symbol) string {
	dm, ok := r.hctx.DefMapOf(sym.Crate)
	if !ok {
		return sym.Crate.String()
	}
	return dm.ModulePath(sym.Target)
}

// prefix renders the path up to (excluding) the n-th segment after the head.
func prefix(p ast.Path, n int) string {
	keep := n
	if p.Kind != ast.PathCrate {
		keep++
	}
	head := ast.Path{Kind: p.Kind, Segments: p.Segments[:min(keep, len(p.Segments))]}
	return head.String()
}
