package vm

import (
	"github.com/kristofer/loxvm/pkg/object"
	"github.com/kristofer/loxvm/pkg/value"
)

// callValue dispatches a call instruction over the callee sitting just below
// its argCount arguments on the stack: a Closure, a Class (construction), a
// BoundMethod, or a Native. Anything else is a runtime error.
func (vm *VM) callValue(callee value.Value, argCount int) error {
	obj, ok := value.AsObject(callee)
	if !ok {
		return vm.runtimeError("Can only call functions and classes.")
	}

	switch c := obj.(type) {
	case *object.ObjClosure:
		return vm.call(c, argCount)

	case *object.ObjNative:
		if argCount != c.Arity {
			return vm.runtimeError("Expected %d arguments but got %d.", c.Arity, argCount)
		}
		args := vm.stack[len(vm.stack)-argCount:]
		result, hasErr, msg := c.Fn(args)
		vm.stack = vm.stack[:len(vm.stack)-argCount-1]
		if hasErr {
			return vm.runtimeError("%s", msg)
		}
		vm.push(result)
		return nil

	case *object.ObjClass:
		instance := object.NewInstance(c)
		vm.trackObject(instance)
		vm.stack[len(vm.stack)-argCount-1] = instance
		if initializer, ok := c.Methods.Get(vm.initStr); ok {
			closure, _ := value.AsObject(initializer)
			return vm.call(closure.(*object.ObjClosure), argCount)
		}
		if argCount != 0 {
			return vm.runtimeError("Expected 0 arguments but got %d.", argCount)
		}
		return nil

	case *object.ObjBoundMethod:
		vm.stack[len(vm.stack)-argCount-1] = c.Receiver
		return vm.call(c.Method, argCount)

	default:
		return vm.runtimeError("Can only call functions and classes.")
	}
}

// call pushes a new CallFrame for closure, checking arity and the
// framesMax depth limit. Arguments (and the callee itself, at slot 0)
// are already in place on the value stack above slots.
func (vm *VM) call(closure *object.ObjClosure, argCount int) error {
	if argCount != closure.Function.Arity {
		return vm.runtimeError("Expected %d arguments but got %d.", closure.Function.Arity, argCount)
	}
	if len(vm.frames) == framesMax {
		return vm.runtimeError("Stack overflow.")
	}
	vm.frames = append(vm.frames, CallFrame{
		closure: closure,
		ip:      0,
		slots:   len(vm.stack) - argCount - 1,
	})
	return nil
}

// bindMethod looks up name on class's method table, wraps it with receiver
// into a BoundMethod, and pushes it in place of whatever the caller already
// popped the receiver/superclass off the stack for.
func (vm *VM) bindMethod(class *object.ObjClass, name *object.ObjString, receiver value.Value) error {
	methodVal, ok := class.Methods.Get(name)
	if !ok {
		return vm.runtimeError("Undefined property '%s'.", name.Chars)
	}
	closureObj, _ := value.AsObject(methodVal)
	bound := object.NewBoundMethod(receiver, closureObj.(*object.ObjClosure))
	vm.trackObject(bound)
	vm.pop() // receiver
	vm.push(bound)
	return nil
}

// defineMethod expects [class, closure] on the stack (closure on top);
// installs closure under name on class's method table, then pops closure,
// leaving class on the stack for the next OP_METHOD; the compiler pops the
// class with OP_POP after the class body.
func (vm *VM) defineMethod(name *object.ObjString) {
	method := vm.peek(0)
	classObj, _ := value.AsObject(vm.peek(1))
	classObj.(*object.ObjClass).Methods.Set(name, method)
	vm.pop()
}

// popPropertyName pops the computed property-name operand OP_GET_PROPERTY_VAR
// / OP_SET_PROPERTY_VAR read off the stack and checks it is actually a
// string, since unlike the constant-pool form this name comes from an
// arbitrary evaluated expression and could be any object.
func (vm *VM) popPropertyName() (*object.ObjString, error) {
	obj, ok := value.AsObject(vm.pop())
	if !ok {
		return nil, vm.runtimeError("Property name must be a string.")
	}
	name, isStr := obj.(*object.ObjString)
	if !isStr {
		return nil, vm.runtimeError("Property name must be a string.")
	}
	return name, nil
}

// getProperty implements OP_GET_PROPERTY: instance fields shadow methods, so
// a field is tried first, then the method table with binding.
func (vm *VM) getProperty(name *object.ObjString) error {
	recv := vm.peek(0)
	obj, ok := value.AsObject(recv)
	instance, isInstance := obj.(*object.ObjInstance)
	if !ok || !isInstance {
		return vm.runtimeError("Only instances have properties.")
	}
	if v, found := instance.Fields.Get(name); found {
		vm.pop()
		vm.push(v)
		return nil
	}
	return vm.bindMethod(instance.Class, name, recv)
}

// getPropertyVar implements OP_GET_PROPERTY_VAR: field-only, unlike
// OP_GET_PROPERTY it never falls through to the method table, so
// obj[someMethodName] raises "Undefined property" rather than returning a
// bound method.
func (vm *VM) getPropertyVar(name *object.ObjString) error {
	recv := vm.peek(0)
	obj, ok := value.AsObject(recv)
	instance, isInstance := obj.(*object.ObjInstance)
	if !ok || !isInstance {
		return vm.runtimeError("Only instances have properties.")
	}
	v, found := instance.Fields.Get(name)
	if !found {
		return vm.runtimeError("Undefined property '%s'.", name.Chars)
	}
	vm.pop()
	vm.push(v)
	return nil
}

// setProperty implements OP_SET_PROPERTY / OP_SET_PROPERTY_VAR: fields only,
// always written regardless of whether a method of the same name exists.
func (vm *VM) setProperty(name *object.ObjString) error {
	obj, ok := value.AsObject(vm.peek(1))
	instance, isInstance := obj.(*object.ObjInstance)
	if !ok || !isInstance {
		return vm.runtimeError("Only instances have fields.")
	}
	instance.Fields.Set(name, vm.peek(0))
	v := vm.pop()
	vm.pop()
	vm.push(v)
	return nil
}
