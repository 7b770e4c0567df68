// Package value defines the tagged-value model shared by every layer of
// loxvm: the compiler (which emits constants), the chunk's constant pool,
// and the VM's stack and heap.
//
// A Value holds one of four kinds of data: nil, a bool, a float64 number,
// or a heap Object reference. Go's interface{} already is a tagged union of
// exactly this shape, so Value is defined as an alias for it rather than as
// a hand-rolled struct — the dynamic type IS the tag, and comparing two
// interface values holding the same pointer is already pointer-identity
// comparison, which is exactly what the spec requires for interned strings.
//
// Object itself is an interface rather than a concrete struct so that this
// package never needs to import the concrete heap object types in pkg/object
// (which in turn need pkg/bytecode for ObjFunction's Chunk) — that would
// create an import cycle. Every concern that needs to know about a specific
// object variant (GC tracing, printing) is expressed here as a method on the
// interface instead, implemented per-type in pkg/object. Object equality
// needs no such method: it is pointer identity.
package value

// Value is anything that can live on the VM's stack, in a local slot, in a
// chunk's constant pool, or in a heap object's fields: nil, bool, float64,
// or an Object.
type Value = interface{}

// ObjType tags which heap object variant an Object is, so code can branch
// on "what kind of object is this" without needing a full type switch
// everywhere a tag check suffices.
type ObjType byte

const (
	ObjString ObjType = iota
	ObjFunction
	ObjNative
	ObjClosure
	ObjUpvalue
	ObjClass
	ObjInstance
	ObjBoundMethod
)

func (t ObjType) String() string {
	switch t {
	case ObjString:
		return "string"
	case ObjFunction:
		return "function"
	case ObjNative:
		return "native"
	case ObjClosure:
		return "closure"
	case ObjUpvalue:
		return "upvalue"
	case ObjClass:
		return "class"
	case ObjInstance:
		return "instance"
	case ObjBoundMethod:
		return "bound method"
	default:
		return "unknown"
	}
}

// Object is the common interface every heap-allocated value implements.
// It bundles three distinct concerns that the spec requires every heap
// object to carry:
//
//   - identity/printing: ObjType and String (Go's fmt.Stringer)
//   - GC bookkeeping: Marked/SetMarked and Next/SetNext form the mark bit
//     and the intrusive forward link into the VM's object list
//   - GC tracing: Blacken lets the collector discover an object's children
//     without needing a type switch over every concrete object type in the
//     collector itself — each type knows how to blacken itself
//
// Size reports an approximate byte cost used for the bytesAllocated/nextGC
// accounting that drives when a collection cycle runs; it does not need to
// be exact, only stable and representative.
type Object interface {
	ObjType() ObjType
	String() string

	Marked() bool
	SetMarked(bool)
	Next() Object
	SetNext(Object)

	Blacken(mark func(Value))
	Size() uintptr
}

// IsObject reports whether v holds a heap object reference.
func IsObject(v Value) bool {
	_, ok := v.(Object)
	return ok
}

// AsObject returns v's Object, or nil, false if v is not a heap reference.
func AsObject(v Value) (Object, bool) {
	obj, ok := v.(Object)
	return obj, ok
}

// Truthy implements Lox truthiness: nil and false are falsey, everything
// else — including 0 and the empty string — is truthy.
func Truthy(v Value) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// Falsey is the complement of Truthy, matching the spec's own vocabulary
// (isFalsey in the reference implementation).
func Falsey(v Value) bool {
	return !Truthy(v)
}

// Equal implements Value equality: nil equals nil, bools and numbers
// compare by value (NaN != NaN is permitted, matching IEEE-754 and the
// spec), and object references compare by pointer identity — which, because
// strings are interned, makes string equality pointer equality for free.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case Object:
		bv, ok := b.(Object)
		return ok && av == bv
	default:
		return false
	}
}

// Stringify renders v the way OP_PRINT and string concatenation do.
func Stringify(v Value) string {
	if v == nil {
		return "nil"
	}
	switch vv := v.(type) {
	case bool:
		if vv {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(vv)
	case Object:
		return vv.String()
	default:
		return "?"
	}
}
