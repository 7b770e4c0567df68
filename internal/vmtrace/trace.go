// Package vmtrace wraps zerolog for the VM's dispatch loop and collector,
// gating the hottest logging calls behind Enabled() so a release build pays
// nothing beyond a single bool check per instruction when tracing is off.
package vmtrace

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package-wide structured logger. It defaults to a no-op level
// (zerolog.Disabled) so embedding programs don't see instruction-level spam
// unless they opt in with SetLevel.
var Logger = zerolog.New(io.Writer(os.Stderr)).
	Level(zerolog.Disabled).
	With().Timestamp().Logger()

// SetLevel adjusts the minimum severity Logger emits. Callers typically wire
// this to a -trace or -debug CLI flag.
func SetLevel(level zerolog.Level) {
	Logger = Logger.Level(level)
}

// Enabled reports whether a Debug-level event would actually be emitted,
// letting the dispatch loop skip building a trace message entirely on the
// common path where tracing is off.
func Enabled() bool {
	return Logger.GetLevel() <= zerolog.DebugLevel
}

// Instruction logs one decoded opcode at the current instruction pointer.
// Callers should guard this with Enabled() to avoid the fmt work in
// disassembly when tracing is off.
func Instruction(ip int, name string, stackDepth int) {
	Logger.Debug().
		Int("ip", ip).
		Str("op", name).
		Int("stack", stackDepth).
		Msg("dispatch")
}

// GCBegin logs the start of a collection cycle.
func GCBegin(bytesAllocated, nextGC int) {
	Logger.Debug().
		Int("bytesAllocated", bytesAllocated).
		Int("nextGC", nextGC).
		Msg("gc begin")
}

// GCEnd logs the result of a completed collection cycle.
func GCEnd(freed, bytesAllocated, nextGC int) {
	Logger.Debug().
		Int("freed", freed).
		Int("bytesAllocated", bytesAllocated).
		Int("nextGC", nextGC).
		Msg("gc end")
}
