// Package object implements loxvm's heap object variants: String, Function,
// Native, Closure, Upvalue, Class, Instance and BoundMethod. Every variant
// embeds Header, which carries the three things the spec requires every
// heap object to have — a type tag, a GC mark bit, and a forward link into
// the VM's process-wide object list used by sweep.
//
// Object construction here never touches the VM's allocation accounting or
// object list; that's deliberately the VM's job (see pkg/vm's allocator),
// so that this package stays a pure data-layout package with no knowledge
// of garbage collection policy.
package object

import "github.com/kristofer/loxvm/pkg/value"

// Header is embedded by every concrete object type. Because each type
// embeds it by value and is always handled through a pointer, Header's
// pointer-receiver methods are promoted directly onto *ObjString,
// *ObjFunction, and so on — satisfying value.Object without any type
// needing to redeclare Marked/SetMarked/Next/SetNext itself.
type Header struct {
	typ    value.ObjType
	marked bool
	next   value.Object
}

func newHeader(t value.ObjType) Header {
	return Header{typ: t}
}

func (h *Header) ObjType() value.ObjType   { return h.typ }
func (h *Header) Marked() bool             { return h.marked }
func (h *Header) SetMarked(m bool)         { h.marked = m }
func (h *Header) Next() value.Object       { return h.next }
func (h *Header) SetNext(n value.Object)   { h.next = n }
