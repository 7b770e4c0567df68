package object

import "github.com/kristofer/loxvm/pkg/value"

// ObjString is an immutable byte sequence with a precomputed hash. Strings
// are always reached through the VM's interner, which guarantees exactly
// one ObjString per distinct byte sequence among reachable strings — so
// string equality reduces to the pointer-identity comparison value.Equal
// already performs on any Object.
type ObjString struct {
	Header
	Chars string
	Hash  uint32
}

// HashString computes the FNV-1a 32-bit hash the spec calls for. It is a
// free function (rather than a method) so the interner can hash raw bytes
// before deciding whether an ObjString needs to be allocated at all.
func HashString(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}

// NewString allocates a new ObjString. Callers outside the interner should
// not call this directly — use the VM's string interning entry points so
// that string identity invariants hold.
func NewString(chars string) *ObjString {
	return &ObjString{
		Header: newHeader(value.ObjString),
		Chars:  chars,
		Hash:   HashString(chars),
	}
}

func (s *ObjString) String() string { return s.Chars }

// KeyHash satisfies table.Key, letting an interned *ObjString be used
// directly as a table key without table needing to import this package.
func (s *ObjString) KeyHash() uint32 { return s.Hash }

// Blacken is a no-op: strings have no outgoing references to trace.
func (s *ObjString) Blacken(mark func(value.Value)) {}

// Size approximates the bytes this string accounts for under GC pressure.
func (s *ObjString) Size() uintptr {
	return 32 + uintptr(len(s.Chars))
}
