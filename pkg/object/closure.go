package object

import "github.com/kristofer/loxvm/pkg/value"

// ObjUpvalue is the indirection that lets a closure capture a variable that
// outlives the stack frame that declared it. While open, Location points at
// a live stack slot shared with the frame that owns it; closeUpvalues
// retargets Location at Closed and copies the value in, after which the
// upvalue is severed from the stack forever. Next links open upvalues into
// the VM's sorted-by-descending-address list; it is unused once closed.
//
// An upvalue is never copied — two closures that captured the same local
// share the exact same *ObjUpvalue, which is what makes writes through one
// visible through the other.
type ObjUpvalue struct {
	Header
	Location *value.Value
	Closed   value.Value
	Next     *ObjUpvalue
}

// NewUpvalue allocates an open upvalue pointing at slot.
func NewUpvalue(slot *value.Value) *ObjUpvalue {
	return &ObjUpvalue{
		Header:   newHeader(value.ObjUpvalue),
		Location: slot,
	}
}

// Close copies the captured value into the upvalue's own cell and retargets
// Location at it, severing the upvalue from the stack.
func (u *ObjUpvalue) Close() {
	u.Closed = *u.Location
	u.Location = &u.Closed
}

func (u *ObjUpvalue) String() string { return "<upvalue>" }

func (u *ObjUpvalue) Blacken(mark func(value.Value)) {
	mark(*u.Location)
}

func (u *ObjUpvalue) Size() uintptr { return 40 }

// ObjClosure pairs an ObjFunction with the upvalue references its body
// needs. Closures, not bare functions, are what the VM ever pushes on the
// stack or calls.
type ObjClosure struct {
	Header
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

// NewClosure allocates a closure over fn with an upvalue slice sized to
// fn.UpvalueCount, all initially nil. OP_CLOSURE fills every slot before the
// instruction completes — invariant 4 of the spec's data model.
func NewClosure(fn *ObjFunction) *ObjClosure {
	return &ObjClosure{
		Header:   newHeader(value.ObjClosure),
		Function: fn,
		Upvalues: make([]*ObjUpvalue, fn.UpvalueCount),
	}
}

func (c *ObjClosure) String() string { return c.Function.String() }

func (c *ObjClosure) Blacken(mark func(value.Value)) {
	mark(c.Function)
	for _, uv := range c.Upvalues {
		if uv != nil {
			mark(uv)
		}
	}
}

func (c *ObjClosure) Size() uintptr {
	return 32 + uintptr(len(c.Upvalues))*8
}
