package vm

import "github.com/kristofer/loxvm/pkg/object"

// internString returns the canonical *ObjString for chars, allocating and
// tracking a new one only if this exact byte sequence hasn't been seen
// before. Every string value the VM ever produces — literals, concatenation
// results, property names read off the stack — passes through here, which
// is what makes value.Equal's pointer comparison correct for strings.
func (vm *VM) internString(chars string) *object.ObjString {
	if s, ok := vm.strings[chars]; ok {
		return s
	}
	s := object.NewString(chars)
	vm.strings[chars] = s
	vm.trackObject(s)
	return s
}

// CopyString interns a string copied from compiler- or host-owned memory.
// It is the entry point the compiler uses for string literals.
func (vm *VM) CopyString(chars string) *object.ObjString {
	return vm.internString(chars)
}

// TrackFunction links a function the compiler just allocated into the VM's
// heap-object list, the entry point the compiler uses so every ObjFunction
// it produces is reachable for garbage collection like any other object.
func (vm *VM) TrackFunction(fn *object.ObjFunction) {
	vm.trackObject(fn)
}
