package macros

import (
	"errors"
	"fmt"
	"strings"

	"macrofront/internal/diag"
	"macrofront/internal/source"
)

var (
	// ErrPhaseOrder is returned when a phase is invoked out of order or twice.
	ErrPhaseOrder = errors.New("macro phase invoked out of order")
	// ErrAborted is returned for any phase after a macro error aborted the session.
	ErrAborted = errors.New("macro processing aborted")
)

// Error is a user-facing macro failure attributed to a source file.
type Error struct {
	Message   string
	Secondary string
	Span      source.Span
	HasSpan   bool
	File      source.FileID
	Processor string

	cause error
}

// Errorf builds an Error attributed to the whole file.
func Errorf(file source.FileID, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), File: file}
}

// ErrorAt builds an Error pointing at sp.
func ErrorAt(sp source.Span, msg, secondary string) *Error {
	return &Error{Message: msg, Secondary: secondary, Span: sp, HasSpan: true, File: sp.File}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Processor != "" {
		b.WriteString(e.Processor)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Secondary != "" {
		b.WriteString(" (")
		b.WriteString(e.Secondary)
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.cause }

// Diagnostic converts the error into a MAC7001 diagnostic. Without a span the
// diagnostic points at the start of the attributed file.
func (e *Error) Diagnostic() diag.Diagnostic {
	primary := source.Span{File: e.File}
	if e.HasSpan {
		primary = e.Span
	}
	msg := e.Message
	if e.Processor != "" {
		msg = fmt.Sprintf("%s: %s", e.Processor, e.Message)
	}
	d := diag.NewError(diag.MacError, primary, msg)
	if e.Secondary != "" {
		d = d.WithNote(primary, e.Secondary)
	}
	return d
}

// attribute turns any processor error into *Error.
func attribute(p Processor, root source.FileID, err error) *Error {
	var me *Error
	if errors.As(err, &me) {
		if me.Processor == "" {
			me.Processor = p.Name()
		}
		return me
	}
	return &Error{Message: err.Error(), File: root, Processor: p.Name(), cause: err}
}

// InternalError signals a compiler defect, not a mistake in user code.
// It is raised with panic and never returned as a macro error.
type InternalError struct {
	Processor   string
	Message     string
	Diagnostics []diag.Diagnostic
}

func (e *InternalError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Processor, e.Message)
	for _, d := range e.Diagnostics {
		fmt.Fprintf(&b, "\n  %s %s: %s", d.Code.ID(), d.Primary, d.Message)
	}
	return b.String()
}

// AsInternal extracts an InternalError from a recovered panic value.
func AsInternal(r any) (*InternalError, bool) {
	err, ok := r.(error)
	if !ok {
		return nil, false
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}
