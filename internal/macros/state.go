package macros

import "fmt"

// Phase is one of the three macro phases of a crate.
type Phase uint8

const (
	PhaseUntyped Phase = iota
	PhasePrelude
	PhaseTyped
)

func (p Phase) String() string {
	switch p {
	case PhaseUntyped:
		return "macros.untyped"
	case PhasePrelude:
		return "macros.prelude"
	case PhaseTyped:
		return "macros.typed"
	default:
		return fmt.Sprintf("macros.Phase(%d)", uint8(p))
	}
}

// State is the progress of one processor on one crate.
type State uint8

const (
	NotStarted State = iota
	UntypedProcessed
	PreludeProcessed
	TypedProcessed
	Aborted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case UntypedProcessed:
		return "untyped-processed"
	case PreludeProcessed:
		return "prelude-processed"
	case TypedProcessed:
		return "typed-processed"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// requires: состояние, из которого фаза может стартовать.
func (p Phase) requires() State {
	switch p {
	case PhasePrelude:
		return UntypedProcessed
	case PhaseTyped:
		return PreludeProcessed
	default:
		return NotStarted
	}
}

func (p Phase) done() State {
	return p.requires() + 1
}
