package driver

import (
	"macrofront/internal/macros"
	"macrofront/internal/macros/assertmsg"
)

// DefaultProcessors returns the processors every build registers, in
// invocation order.
func DefaultProcessors() []macros.Processor {
	return []macros.Processor{assertmsg.New()}
}
