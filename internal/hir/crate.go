package hir

import "fmt"

// CrateKind classifies a crate. It is fixed when the CrateID is created.
type CrateKind uint8

const (
	CrateRoot   CrateKind = iota // crate being built
	CrateDep                     // ordinary dependency
	CrateStdlib                  // the standard library
	CrateDummy                   // placeholder used by tests and tooling
)

func (k CrateKind) String() string {
	switch k {
	case CrateRoot:
		return "root"
	case CrateDep:
		return "dep"
	case CrateStdlib:
		return "stdlib"
	case CrateDummy:
		return "dummy"
	}
	return "unknown"
}

// CrateID identifies a crate in a CrateGraph. The zero value is not valid.
type CrateID struct {
	index uint32 // 1-based
	kind  CrateKind
}

// NoCrateID is the zero CrateID.
var NoCrateID CrateID

func NewCrateID(index uint32, kind CrateKind) CrateID {
	return CrateID{index: index + 1, kind: kind}
}

// DummyCrate returns a crate id that belongs to no graph.
func DummyCrate() CrateID {
	return CrateID{index: ^uint32(0), kind: CrateDummy}
}

// Index is the position in the owning CrateGraph.
func (c CrateID) Index() int      { return int(c.index) - 1 }
func (c CrateID) Kind() CrateKind { return c.kind }
func (c CrateID) IsValid() bool   { return c.index != 0 }

// IsStdlib reports whether the crate is the standard library.
func (c CrateID) IsStdlib() bool { return c.kind == CrateStdlib }

func (c CrateID) String() string {
	if c.kind == CrateDummy {
		return "crate#dummy"
	}
	return fmt.Sprintf("crate#%d(%s)", c.Index(), c.kind)
}
