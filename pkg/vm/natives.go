package vm

import (
	"time"

	"github.com/kristofer/loxvm/pkg/object"
	"github.com/kristofer/loxvm/pkg/value"
)

// defineNative installs a native function as a global under name.
func (vm *VM) defineNative(name string, arity int, fn object.NativeFn) {
	nameStr := vm.internString(name)
	native := object.NewNative(name, arity, fn)
	vm.trackObject(native)
	vm.globals.Set(nameStr, native)
}

// defineNatives installs the VM's native function surface. clock() is the
// one native the reference implementation ships; it's what every timing
// benchmark script in the test corpus calls.
func (vm *VM) defineNatives() {
	vm.defineNative("clock", 0, func(args []value.Value) (value.Value, bool, string) {
		return float64(time.Now().UnixNano()) / float64(time.Second), false, ""
	})
}
