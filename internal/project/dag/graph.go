package dag

import (
	"fmt"
	"slices"
	"strings"

	"macrofront/internal/diag"
	"macrofront/internal/project"
	"macrofront/internal/source"
)

// Graph хранит рёбра от зависимости к зависимым: волна i+1 стартует после волны i.
type Graph struct {
	Edges   [][]NodeID // Edges[dep] = []dependents
	Indeg   []int      // число зависимостей крейта (учитывает только присутствующие)
	Present []bool     // крейт объявлен в манифесте, а не только упомянут в deps
}

type CrateNode struct {
	Meta     project.CrateMeta
	Reporter diag.Reporter
}

type CrateSlot struct {
	Meta     project.CrateMeta
	Reporter diag.Reporter
	Present  bool
	Broken   bool
	FirstErr *diag.Diagnostic
}

func BuildGraph(idx Index, nodes []CrateNode) (Graph, []CrateSlot) {
	nodeCount := len(idx.IDToName)
	g := Graph{
		Edges:   make([][]NodeID, nodeCount),
		Indeg:   make([]int, nodeCount),
		Present: make([]bool, nodeCount),
	}
	slots := make([]CrateSlot, nodeCount)
	for i, name := range idx.IDToName {
		slots[i].Meta.Name = name
	}

	for _, node := range nodes {
		meta := node.Meta
		id, ok := idx.NameToID[meta.Name]
		if !ok {
			// индекс строится на тех же метаданных
			continue
		}
		slot := &slots[int(id)]
		if slot.Present {
			if node.Reporter != nil {
				notes := make([]diag.Note, 0, 1)
				if slot.Meta.Span != (source.Span{}) {
					notes = append(notes, diag.Note{
						Span: slot.Meta.Span,
						Msg:  fmt.Sprintf("previous declaration of %q", slot.Meta.Name),
					})
				}
				node.Reporter.Report(diag.ProjDuplicateCrate, diag.SevError, meta.Span,
					fmt.Sprintf("duplicate crate %q", meta.Name), notes)
			}
			continue
		}
		slot.Meta = meta
		slot.Reporter = node.Reporter
		slot.Present = true
		g.Present[int(id)] = true
	}

	for to := range slots {
		slot := &slots[to]
		if !slot.Present || len(slot.Meta.Deps) == 0 {
			continue
		}
		seen := make(map[NodeID]struct{}, len(slot.Meta.Deps))
		for _, dep := range slot.Meta.Deps {
			fromID, ok := idx.NameToID[dep.Name]
			if !ok {
				continue
			}
			if NodeID(to) == fromID {
				if slot.Reporter != nil {
					slot.Reporter.Report(diag.ProjSelfDependency, diag.SevError, dep.Span,
						fmt.Sprintf("crate %q depends on itself", slot.Meta.Name), nil)
				}
				continue
			}
			if _, dup := seen[fromID]; dup {
				continue
			}
			seen[fromID] = struct{}{}
			if !g.Present[int(fromID)] {
				if slot.Reporter != nil {
					slot.Reporter.Report(diag.ProjMissingCrate, diag.SevError, dep.Span,
						fmt.Sprintf("crate %q depends on unknown crate %q", slot.Meta.Name, dep.Name), nil)
				}
				continue
			}
			g.Edges[int(fromID)] = append(g.Edges[int(fromID)], NodeID(to))
			g.Indeg[to]++
		}
	}
	for from := range g.Edges {
		if len(g.Edges[from]) > 1 {
			slices.Sort(g.Edges[from])
		}
	}

	return g, slots
}

func ReportCycles(idx Index, slots []CrateSlot, topo *Topo) {
	if !topo.Cyclic || len(topo.Cycles) == 0 {
		return
	}
	names := make([]string, 0, len(topo.Cycles))
	for _, id := range topo.Cycles {
		names = append(names, idx.IDToName[int(id)])
	}
	summary := strings.Join(names, " -> ")

	for _, id := range topo.Cycles {
		slot := slots[int(id)]
		if !slot.Present || slot.Reporter == nil {
			continue
		}
		msg := fmt.Sprintf("crate %q participates in a dependency cycle: %s", slot.Meta.Name, summary)
		slot.Reporter.Report(diag.ProjDependencyCycle, diag.SevError, slot.Meta.Span, msg, nil)
	}
}

// ReportBrokenDeps сообщает зависимым крейтам, что их зависимость завершилась с ошибками.
func ReportBrokenDeps(idx Index, slots []CrateSlot) {
	for i := range slots {
		from := &slots[i]
		if !from.Present || from.Reporter == nil || len(from.Meta.Deps) == 0 {
			continue
		}
		emitted := make(map[string]struct{}, len(from.Meta.Deps))
		for _, dep := range from.Meta.Deps {
			toID, ok := idx.NameToID[dep.Name]
			if !ok {
				continue
			}
			depSlot := slots[int(toID)]
			if !depSlot.Broken {
				continue
			}
			if _, seen := emitted[dep.Name]; seen {
				continue
			}
			emitted[dep.Name] = struct{}{}

			var notes []diag.Note
			if depSlot.FirstErr != nil {
				notes = append(notes, diag.Note{
					Span: depSlot.FirstErr.Primary,
					Msg:  fmt.Sprintf("first error in dependency: %s", depSlot.FirstErr.Message),
				})
			}
			from.Reporter.Report(diag.ProjDependencyFailed, diag.SevError, dep.Span,
				fmt.Sprintf("dependency crate %q has errors", dep.Name), notes)
		}
	}
}
