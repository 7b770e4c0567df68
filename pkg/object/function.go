package object

import (
	"fmt"

	"github.com/kristofer/loxvm/pkg/bytecode"
	"github.com/kristofer/loxvm/pkg/value"
)

// ObjFunction is a compiled function body: its arity, how many upvalues its
// closures need, an optional name (nil for the implicit top-level script),
// and the Chunk of bytecode the VM executes. Functions are always wrapped in
// an ObjClosure before being called — bare ObjFunctions never appear as
// callable stack values.
type ObjFunction struct {
	Header
	Arity        int
	UpvalueCount int
	Name         *ObjString
	Chunk        *bytecode.Chunk
}

// NewFunction allocates an ObjFunction with a fresh, empty Chunk ready for
// the compiler to populate.
func NewFunction() *ObjFunction {
	return &ObjFunction{
		Header: newHeader(value.ObjFunction),
		Chunk:  &bytecode.Chunk{},
	}
}

func (f *ObjFunction) String() string {
	if f.Name == nil {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name.Chars)
}

func (f *ObjFunction) Blacken(mark func(value.Value)) {
	if f.Name != nil {
		mark(f.Name)
	}
	for _, c := range f.Chunk.Constants {
		mark(c)
	}
}

func (f *ObjFunction) Size() uintptr { return 64 }

// NativeFn is the host-function calling convention described in the spec:
// the arguments slice, with hasError/errorMsg as the native's error-signaling
// channel in place of C's out-parameters.
type NativeFn func(args []value.Value) (result value.Value, hasError bool, errorMsg string)

// ObjNative wraps a host-provided Go function so it can be called from Lox
// code exactly like a Closure: arity-checked, then invoked with the pushed
// arguments.
type ObjNative struct {
	Header
	Name  string
	Arity int
	Fn    NativeFn
}

func NewNative(name string, arity int, fn NativeFn) *ObjNative {
	return &ObjNative{
		Header: newHeader(value.ObjNative),
		Name:   name,
		Arity:  arity,
		Fn:     fn,
	}
}

func (n *ObjNative) String() string { return fmt.Sprintf("<native fn %s>", n.Name) }

func (n *ObjNative) Blacken(mark func(value.Value)) {}

func (n *ObjNative) Size() uintptr { return 48 }
