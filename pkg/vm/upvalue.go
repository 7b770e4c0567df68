package vm

import (
	"unsafe"

	"github.com/kristofer/loxvm/pkg/object"
	"github.com/kristofer/loxvm/pkg/value"
)

// slotIndex recovers a stack slot index from a pointer into vm.stack's
// backing array. Valid only while that pointer still points into the live
// array — i.e. while an upvalue is open; Close() retargets Location at the
// upvalue's own Closed field, taking it out of range of this calculation.
func (vm *VM) slotIndex(loc *value.Value) int {
	base := unsafe.Pointer(&vm.stack[0])
	return int((uintptr(unsafe.Pointer(loc)) - uintptr(base)) / unsafe.Sizeof(vm.stack[0]))
}

func (vm *VM) isOpen(uv *object.ObjUpvalue) bool {
	if len(vm.stack) == 0 {
		return false
	}
	base := uintptr(unsafe.Pointer(&vm.stack[0]))
	end := base + uintptr(len(vm.stack))*unsafe.Sizeof(vm.stack[0])
	p := uintptr(unsafe.Pointer(uv.Location))
	return p >= base && p < end
}

// captureUpvalue returns the open upvalue for stack slot index, reusing one
// already captured by an earlier closure over the same local rather than
// allocating a duplicate — this is what lets two closures that captured the
// same variable observe each other's writes to it.
//
// The VM's open-upvalue list is kept sorted by descending stack index so
// this walk can stop as soon as it passes where index would sit.
func (vm *VM) captureUpvalue(index int) *object.ObjUpvalue {
	var prev *object.ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && vm.slotIndex(cur.Location) > index {
		prev = cur
		cur = cur.Next
	}
	if cur != nil && vm.slotIndex(cur.Location) == index {
		return cur
	}

	created := object.NewUpvalue(&vm.stack[index])
	vm.trackObject(created)
	created.Next = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.Next = created
	}
	return created
}

// closeUpvalues closes every open upvalue at or above stack index from,
// copying each captured value into the upvalue's own storage and detaching
// it from the stack. Called on OP_CLOSE_UPVALUE and when a frame returns.
func (vm *VM) closeUpvalues(from int) {
	for vm.openUpvalues != nil && vm.isOpen(vm.openUpvalues) && vm.slotIndex(vm.openUpvalues.Location) >= from {
		uv := vm.openUpvalues
		uv.Close()
		vm.openUpvalues = uv.Next
	}
}
