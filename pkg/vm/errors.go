// Package vm - error handling with stack traces
package vm

import (
	"fmt"
	"strings"
)

// StackFrame captures one call frame's contribution to a runtime error's
// backtrace: which function was executing and at what source line.
type StackFrame struct {
	Name       string // function name, or "script" for the top-level frame
	SourceLine int    // source line active when the error was raised
}

// RuntimeError is what the dispatch loop returns when execution fails after
// compilation succeeds — a Lox-level error, not a Go one. VM.Interpret prints
// it to Stderr and returns InterpretRuntimeError. Error() renders it
// the way the reference implementation does: the message followed by a
// "[line L] in NAME" trace for every frame, innermost first.
type RuntimeError struct {
	Message    string
	StackTrace []StackFrame
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		frame := e.StackTrace[i]
		b.WriteString(fmt.Sprintf("\n[line %d] in %s", frame.SourceLine, frame.Name))
	}
	return b.String()
}

func newRuntimeError(message string, stack []StackFrame) *RuntimeError {
	return &RuntimeError{
		Message:    message,
		StackTrace: stack,
	}
}
