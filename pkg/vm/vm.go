// Package vm implements loxvm's execution core: the value stack, call-frame
// stack, opcode dispatch loop, and the runtime state (globals, open upvalues,
// interned strings, heap object list) the rest of the VM's files operate on.
//
// A VM is a handle, not a singleton — callers construct one with New and
// every method hangs off it, so multiple independent interpreters can run in
// the same process without sharing state.
package vm

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/kristofer/loxvm/internal/vmtrace"
	"github.com/kristofer/loxvm/pkg/bytecode"
	"github.com/kristofer/loxvm/pkg/object"
	"github.com/kristofer/loxvm/pkg/table"
	"github.com/kristofer/loxvm/pkg/value"
)

const (
	framesMax = 64
	stackMax  = framesMax * 256
)

// InterpretResult is the outcome of running a chunk of source, mirroring the
// three-way result the reference implementation returns from interpret().
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	InterpretCompileError
	InterpretRuntimeError
)

// CallFrame is one live call's bookkeeping: which closure is executing,
// where its instruction pointer sits, and where its locals begin on the
// shared value stack.
type CallFrame struct {
	closure *object.ObjClosure
	ip      int
	slots   int // base index into vm.stack for this frame's locals
}

// VM is one loxvm interpreter instance: its value stack, call frames,
// globals table, string intern set, open-upvalue list, and GC bookkeeping.
type VM struct {
	stack  []value.Value
	frames []CallFrame

	globals  *table.Table
	strings  map[string]*object.ObjString // intern set, keyed by byte content
	initStr  *object.ObjString
	openUpvalues *object.ObjUpvalue

	objects        value.Object // head of the intrusive heap-object list
	bytesAllocated int
	nextGC         int

	Stdout io.Writer
	Stderr io.Writer
}

// New constructs a VM ready to Interpret source. Stdout/Stderr default to
// os.Stdout/os.Stderr and can be swapped by the caller (the tests do this).
func New() *VM {
	vm := &VM{
		stack:   make([]value.Value, 0, stackMax),
		frames:  make([]CallFrame, 0, framesMax),
		globals: table.NewTable(),
		strings: make(map[string]*object.ObjString),
		nextGC:  1024 * 1024,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	vm.initStr = vm.internString("init")
	vm.defineNatives()
	return vm
}

// Interpret compiles source and, if compilation succeeds, runs it to
// completion on this VM. The compile step is supplied by the caller (the
// compiler package) as a closure so this package never imports compiler,
// keeping the dependency arrow pointing from compiler to vm/object, not back.
func (vm *VM) Interpret(compile func(vm *VM) (*object.ObjFunction, error)) InterpretResult {
	fn, err := compile(vm)
	if err != nil {
		fmt.Fprintln(vm.Stderr, err)
		return InterpretCompileError
	}

	closure := object.NewClosure(fn)
	vm.push(closure)
	vm.callValue(closure, 0)

	if err := vm.run(); err != nil {
		fmt.Fprintln(vm.Stderr, err)
		return InterpretRuntimeError
	}
	return InterpretOK
}

func (vm *VM) push(v value.Value) {
	vm.stack = append(vm.stack, v)
}

func (vm *VM) pop() value.Value {
	n := len(vm.stack) - 1
	v := vm.stack[n]
	vm.stack = vm.stack[:n]
	return v
}

func (vm *VM) peek(distance int) value.Value {
	return vm.stack[len(vm.stack)-1-distance]
}

func (vm *VM) currentFrame() *CallFrame {
	return &vm.frames[len(vm.frames)-1]
}

func (vm *VM) readByte(f *CallFrame) byte {
	b := f.closure.Function.Chunk.Code[f.ip]
	f.ip++
	return b
}

func (vm *VM) readShort(f *CallFrame) uint16 {
	hi := vm.readByte(f)
	lo := vm.readByte(f)
	return uint16(hi)<<8 | uint16(lo)
}

func (vm *VM) readLong(f *CallFrame) int {
	b0 := vm.readByte(f)
	b1 := vm.readByte(f)
	b2 := vm.readByte(f)
	return int(b0) | int(b1)<<8 | int(b2)<<16
}

func (vm *VM) readConstant(f *CallFrame) value.Value {
	idx := vm.readByte(f)
	return f.closure.Function.Chunk.Constants[idx]
}

func (vm *VM) readString(f *CallFrame) *object.ObjString {
	s, _ := value.AsObject(vm.readConstant(f))
	return s.(*object.ObjString)
}

// run is the dispatch loop: it decodes and executes instructions from the
// top call frame until the outermost frame returns or a runtime error is
// raised.
func (vm *VM) run() error {
	f := vm.currentFrame()

	for {
		if vmtrace.Enabled() {
			op := bytecode.OpCode(f.closure.Function.Chunk.Code[f.ip])
			vmtrace.Instruction(f.ip, op.String(), len(vm.stack))
		}

		instr := bytecode.OpCode(vm.readByte(f))
		switch instr {
		case bytecode.OpConstant:
			vm.push(vm.readConstant(f))

		case bytecode.OpConstantLong:
			idx := vm.readLong(f)
			vm.push(f.closure.Function.Chunk.Constants[idx])

		case bytecode.OpNil:
			vm.push(nil)
		case bytecode.OpTrue:
			vm.push(true)
		case bytecode.OpFalse:
			vm.push(false)

		case bytecode.OpPop:
			vm.pop()

		case bytecode.OpGetLocal:
			slot := vm.readByte(f)
			vm.push(vm.stack[f.slots+int(slot)])

		case bytecode.OpSetLocal:
			slot := vm.readByte(f)
			vm.stack[f.slots+int(slot)] = vm.peek(0)

		case bytecode.OpGetGlobal:
			name := vm.readString(f)
			v, ok := vm.globals.Get(name)
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}
			vm.push(v)

		case bytecode.OpDefineGlobal:
			name := vm.readString(f)
			vm.globals.Set(name, vm.peek(0))
			vm.pop()

		case bytecode.OpSetGlobal:
			name := vm.readString(f)
			if vm.globals.Set(name, vm.peek(0)) {
				vm.globals.Delete(name)
				return vm.runtimeError("Undefined variable '%s'.", name.Chars)
			}

		case bytecode.OpGetUpvalue:
			slot := vm.readByte(f)
			vm.push(*f.closure.Upvalues[slot].Location)

		case bytecode.OpSetUpvalue:
			slot := vm.readByte(f)
			*f.closure.Upvalues[slot].Location = vm.peek(0)

		case bytecode.OpGetProperty:
			name := vm.readString(f)
			if err := vm.getProperty(name); err != nil {
				return err
			}

		case bytecode.OpSetProperty:
			name := vm.readString(f)
			if err := vm.setProperty(name); err != nil {
				return err
			}

		case bytecode.OpGetPropertyVar:
			name, err := vm.popPropertyName()
			if err != nil {
				return err
			}
			if err := vm.getPropertyVar(name); err != nil {
				return err
			}

		case bytecode.OpSetPropertyVar:
			// Stack is [instance, name, value] with value on top; setProperty
			// expects [instance, value], so the name is popped out from the
			// middle and the value pushed back in its place.
			val := vm.pop()
			name, err := vm.popPropertyName()
			if err != nil {
				return err
			}
			vm.push(val)
			if err := vm.setProperty(name); err != nil {
				return err
			}

		case bytecode.OpEqual:
			b := vm.pop()
			a := vm.pop()
			vm.push(value.Equal(a, b))

		case bytecode.OpGreater:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return a > b }); err != nil {
				return err
			}
		case bytecode.OpLess:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return a < b }); err != nil {
				return err
			}

		case bytecode.OpAdd:
			if err := vm.add(); err != nil {
				return err
			}
		case bytecode.OpSubtract:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return a - b }); err != nil {
				return err
			}
		case bytecode.OpMultiply:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return a * b }); err != nil {
				return err
			}
		case bytecode.OpDivide:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return a / b }); err != nil {
				return err
			}
		case bytecode.OpModulo:
			if err := vm.binaryNumberOp(func(a, b float64) value.Value { return float64(int64(a) % int64(b)) }); err != nil {
				return err
			}

		case bytecode.OpNegate:
			n, ok := vm.peek(0).(float64)
			if !ok {
				return vm.runtimeError("Operand must be a number.")
			}
			vm.stack[len(vm.stack)-1] = -n

		case bytecode.OpNot:
			vm.push(value.Falsey(vm.pop()))

		case bytecode.OpPrint:
			fmt.Fprintln(vm.Stdout, value.Stringify(vm.pop()))

		case bytecode.OpJump:
			offset := vm.readShort(f)
			f.ip += int(offset)

		case bytecode.OpJumpIfFalse:
			offset := vm.readShort(f)
			if value.Falsey(vm.peek(0)) {
				f.ip += int(offset)
			}

		case bytecode.OpLoop:
			offset := vm.readShort(f)
			f.ip -= int(offset)

		case bytecode.OpCall:
			argCount := int(vm.readByte(f))
			callee := vm.peek(argCount)
			if err := vm.callValue(callee, argCount); err != nil {
				return err
			}
			f = vm.currentFrame()

		case bytecode.OpClosure:
			fnObj, _ := value.AsObject(vm.readConstant(f))
			fn := fnObj.(*object.ObjFunction)
			closure := object.NewClosure(fn)
			vm.trackObject(closure)
			for i := 0; i < fn.UpvalueCount; i++ {
				isLocal := vm.readByte(f)
				index := vm.readByte(f)
				if isLocal != 0 {
					closure.Upvalues[i] = vm.captureUpvalue(f.slots + int(index))
				} else {
					closure.Upvalues[i] = f.closure.Upvalues[index]
				}
			}
			vm.push(closure)

		case bytecode.OpCloseUpvalue:
			vm.closeUpvalues(len(vm.stack) - 1)
			vm.pop()

		case bytecode.OpReturn:
			result := vm.pop()
			vm.closeUpvalues(f.slots)
			vm.frames = vm.frames[:len(vm.frames)-1]
			if len(vm.frames) == 0 {
				vm.pop()
				return nil
			}
			vm.stack = vm.stack[:f.slots]
			vm.push(result)
			f = vm.currentFrame()

		case bytecode.OpClass:
			name := vm.readString(f)
			class := object.NewClass(name)
			vm.trackObject(class)
			vm.push(class)

		case bytecode.OpInherit:
			superVal := vm.peek(1)
			superObj, ok := value.AsObject(superVal)
			super, isClass := superObj.(*object.ObjClass)
			if !ok || !isClass {
				return vm.runtimeError("Superclass must be a class.")
			}
			subObj, _ := value.AsObject(vm.peek(0))
			sub := subObj.(*object.ObjClass)
			table.AddAll(super.Methods, sub.Methods)
			vm.pop() // subclass

		case bytecode.OpMethod:
			name := vm.readString(f)
			vm.defineMethod(name)

		case bytecode.OpGetSuper:
			name := vm.readString(f)
			superObj, _ := value.AsObject(vm.pop())
			super := superObj.(*object.ObjClass)
			receiver := vm.peek(0)
			if err := vm.bindMethod(super, name, receiver); err != nil {
				return err
			}

		default:
			return vm.runtimeError("Unknown opcode %d.", instr)
		}
	}
}

func (vm *VM) binaryNumberOp(op func(a, b float64) value.Value) error {
	bn, bok := vm.peek(0).(float64)
	an, aok := vm.peek(1).(float64)
	if !aok || !bok {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.pop()
	vm.pop()
	vm.push(op(an, bn))
	return nil
}

func (vm *VM) add() error {
	b := vm.peek(0)
	a := vm.peek(1)

	if an, aok := a.(float64); aok {
		if bn, bok := b.(float64); bok {
			vm.pop()
			vm.pop()
			vm.push(an + bn)
			return nil
		}
	}

	aObj, aIsObj := value.AsObject(a)
	bObj, bIsObj := value.AsObject(b)
	if aIsObj && bIsObj {
		aStr, aOK := aObj.(*object.ObjString)
		bStr, bOK := bObj.(*object.ObjString)
		if aOK && bOK {
			vm.pop()
			vm.pop()
			vm.push(vm.internString(aStr.Chars + bStr.Chars))
			return nil
		}
	}

	return vm.runtimeError("Operands must be two numbers or two strings.")
}

// runtimeError formats message, attaches the current call-stack backtrace,
// and resets the VM's stacks so a subsequent Interpret call starts clean.
func (vm *VM) runtimeError(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)

	trace := make([]StackFrame, 0, len(vm.frames))
	for _, fr := range vm.frames {
		fn := fr.closure.Function
		name := "script"
		if fn.Name != nil {
			name = fn.Name.Chars + "()"
		}
		line := fn.Chunk.GetLine(fr.ip - 1)
		trace = append(trace, StackFrame{Name: name, SourceLine: line})
	}

	vm.stack = vm.stack[:0]
	vm.frames = vm.frames[:0]
	vm.openUpvalues = nil

	return errors.WithStack(newRuntimeError(msg, trace))
}
