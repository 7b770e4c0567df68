package vm

import (
	"github.com/kristofer/loxvm/internal/vmtrace"
	"github.com/kristofer/loxvm/pkg/value"
)

const gcGrowthFactor = 2

// trackObject links a freshly allocated heap object into the VM's object
// list and charges its size against bytesAllocated, triggering a collection
// if that pushes allocation past nextGC. Every constructor in pkg/object
// that returns a heap value must be passed through this before it is
// reachable from the stack, or the sweep phase will never see it.
func (vm *VM) trackObject(obj value.Object) {
	obj.SetNext(vm.objects)
	vm.objects = obj
	vm.bytesAllocated += int(obj.Size())

	if vm.bytesAllocated > vm.nextGC {
		vm.collectGarbage()
	}
}

// collectGarbage runs one full mark-sweep cycle: mark every root-reachable
// object, trace outward from the gray worklist, drop interned strings that
// nothing still references, sweep the unmarked remainder, and grow nextGC
// for the next cycle.
func (vm *VM) collectGarbage() {
	vmtrace.GCBegin(vm.bytesAllocated, vm.nextGC)
	before := vm.bytesAllocated

	var gray []value.Object
	mark := func(v value.Value) {
		obj, ok := value.AsObject(v)
		if !ok || obj == nil || obj.Marked() {
			return
		}
		obj.SetMarked(true)
		gray = append(gray, obj)
	}

	vm.markRoots(mark)
	for len(gray) > 0 {
		obj := gray[len(gray)-1]
		gray = gray[:len(gray)-1]
		obj.Blacken(mark)
	}

	vm.clearUnmarkedStrings()
	vm.sweep()

	vm.nextGC = vm.bytesAllocated * gcGrowthFactor
	if vm.nextGC < 1024*1024 {
		vm.nextGC = 1024 * 1024
	}
	vmtrace.GCEnd(before-vm.bytesAllocated, vm.bytesAllocated, vm.nextGC)
}

// markRoots marks everything directly reachable without tracing through
// another object first: the value stack, every call frame's closure, every
// still-open upvalue, the globals table, and the init-method sentinel
// string.
func (vm *VM) markRoots(mark func(value.Value)) {
	for _, v := range vm.stack {
		mark(v)
	}
	for _, fr := range vm.frames {
		mark(fr.closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.Next {
		mark(uv)
	}
	for _, k := range vm.globals.Keys() {
		if sk, ok := k.(value.Object); ok {
			mark(sk)
		}
		if v, ok := vm.globals.Get(k); ok {
			mark(v)
		}
	}
	if vm.initStr != nil {
		mark(vm.initStr)
	}
}

// clearUnmarkedStrings drops intern-set entries for strings the mark phase
// didn't reach, so the string table holds only weak references — it must
// never be the reason a string survives collection.
func (vm *VM) clearUnmarkedStrings() {
	for chars, s := range vm.strings {
		if !s.Marked() {
			delete(vm.strings, chars)
		}
	}
}

// sweep walks the intrusive object list, freeing (unlinking) every unmarked
// object and clearing the mark bit on everything that survives for the next
// cycle.
func (vm *VM) sweep() {
	var prev value.Object
	obj := vm.objects
	for obj != nil {
		if obj.Marked() {
			obj.SetMarked(false)
			prev = obj
			obj = obj.Next()
			continue
		}
		unreached := obj
		obj = obj.Next()
		if prev == nil {
			vm.objects = obj
		} else {
			prev.SetNext(obj)
		}
		vm.bytesAllocated -= int(unreached.Size())
	}
}
