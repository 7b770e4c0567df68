// Package bytecode defines the instruction set and chunk format executed by
// the loxvm virtual machine.
//
// A Chunk is the unit of compiled code: a flat byte array of opcodes and
// their operands, a constant pool holding the literal values those operands
// index into, and a line table mapping instruction offsets back to source
// lines for error reporting. Chunks are produced by the compiler and never
// mutated by the VM — the VM only reads them.
//
// Instruction encoding is fixed per opcode and documented on each OpXxx
// constant below: single-byte operands for locals/upvalues/fields/constants,
// a 3-byte little-endian operand for OP_CONSTANT_LONG, and 2-byte
// big-endian operands for the jump family. This matches the contract the
// compiler and VM share (see the execution core's dispatch loop).
package bytecode

// OpCode identifies a single VM instruction. It is one byte on the wire.
type OpCode byte

const (
	// OpConstant pushes constants[operand] (1-byte index, 0-255).
	OpConstant OpCode = iota

	// OpConstantLong pushes constants[operand] using a 3-byte little-endian
	// index, for constant pools larger than 256 entries.
	OpConstantLong

	// OpNil, OpTrue, OpFalse push their literal value. No operand.
	OpNil
	OpTrue
	OpFalse

	// OpPop discards the top of the stack. No operand.
	OpPop

	// OpGetLocal pushes slots[operand]. OpSetLocal peeks the top of stack and
	// assigns it to slots[operand] without popping (assignment is an
	// expression). 1-byte operand.
	OpGetLocal
	OpSetLocal

	// OpGetGlobal, OpSetGlobal, OpDefineGlobal take a 1-byte operand indexing
	// a String constant naming the global. OpSetGlobal errors if the global
	// was never defined; OpDefineGlobal always (re)defines and pops.
	OpGetGlobal
	OpSetGlobal
	OpDefineGlobal

	// OpGetUpvalue / OpSetUpvalue access the current closure's upvalue
	// slots[operand]. 1-byte operand.
	OpGetUpvalue
	OpSetUpvalue

	// OpGetProperty / OpSetProperty access a field or method on an instance
	// using a constant-pool String name (1-byte operand). Get tries the
	// field table first, then binds a method; set only ever touches fields.
	OpGetProperty
	OpSetProperty

	// OpGetPropertyVar / OpSetPropertyVar are the computed-property forms:
	// the name comes off the stack instead of the constant pool. No operand.
	OpGetPropertyVar
	OpSetPropertyVar

	// OpEqual, OpGreater, OpLess pop two values and push a bool. No operand.
	OpEqual
	OpGreater
	OpLess

	// OpAdd concatenates two strings or adds two numbers. OpSubtract,
	// OpMultiply, OpDivide, OpModulo require two numbers; OpModulo truncates
	// both operands to an integer before applying Go's %. No operand.
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo

	// OpNegate negates a number in place at the top of stack. OpNot inverts
	// truthiness. No operand.
	OpNegate
	OpNot

	// OpPrint pops and writes the value followed by a newline. No operand.
	OpPrint

	// OpJump and OpJumpIfFalse take a 2-byte big-endian forward offset added
	// to ip. OpJumpIfFalse peeks (does not pop) its condition; the compiler
	// emits a trailing OpPop for the discarded branch.
	OpJump
	OpJumpIfFalse

	// OpLoop takes a 2-byte big-endian offset subtracted from ip.
	OpLoop

	// OpCall invokes the callable at stackTop[-operand-1] with operand
	// arguments already pushed above it. 1-byte operand (arg count).
	OpCall

	// OpReturn pops the result, closes upvalues at or above the current
	// frame's base, pops the frame, and pushes the result into the caller's
	// stack. No operand.
	OpReturn

	// OpClass pushes a freshly allocated, empty Class named by the 1-byte
	// constant-pool operand.
	OpClass

	// OpMethod expects [class, closure] on the stack; it installs closure
	// under the 1-byte constant-pool name on class's method table and pops
	// closure, leaving class.
	OpMethod

	// OpInherit expects [superclass, subclass]; copies every method from
	// superclass into subclass and pops subclass. No operand.
	OpInherit

	// OpGetSuper expects [instance, superclass] and binds the method named
	// by the 1-byte constant-pool operand on superclass, with instance as
	// receiver, popping both and pushing the BoundMethod.
	OpGetSuper

	// OpClosure's operand is a 1-byte index of a Function constant. It is
	// followed by one (isLocal byte, index byte) pair per upvalue the
	// function captures (function.UpvalueCount pairs total) — these trailing
	// bytes are not part of the fixed operand width and are consumed by the
	// VM in a loop, not decoded generically.
	OpClosure

	// OpCloseUpvalue closes the open upvalue (if any) pointing at the
	// current stack top, then pops it. No operand.
	OpCloseUpvalue
)

var opcodeNames = [...]string{
	OpConstant:       "OP_CONSTANT",
	OpConstantLong:   "OP_CONSTANT_LONG",
	OpNil:            "OP_NIL",
	OpTrue:           "OP_TRUE",
	OpFalse:          "OP_FALSE",
	OpPop:            "OP_POP",
	OpGetLocal:       "OP_GET_LOCAL",
	OpSetLocal:       "OP_SET_LOCAL",
	OpGetGlobal:      "OP_GET_GLOBAL",
	OpSetGlobal:      "OP_SET_GLOBAL",
	OpDefineGlobal:   "OP_DEFINE_GLOBAL",
	OpGetUpvalue:     "OP_GET_UPVALUE",
	OpSetUpvalue:     "OP_SET_UPVALUE",
	OpGetProperty:    "OP_GET_PROPERTY",
	OpSetProperty:    "OP_SET_PROPERTY",
	OpGetPropertyVar: "OP_GET_PROPERTY_VAR",
	OpSetPropertyVar: "OP_SET_PROPERTY_VAR",
	OpEqual:          "OP_EQUAL",
	OpGreater:        "OP_GREATER",
	OpLess:           "OP_LESS",
	OpAdd:            "OP_ADD",
	OpSubtract:       "OP_SUBTRACT",
	OpMultiply:       "OP_MULTIPLY",
	OpDivide:         "OP_DIVIDE",
	OpModulo:         "OP_MODULO",
	OpNegate:         "OP_NEGATE",
	OpNot:            "OP_NOT",
	OpPrint:          "OP_PRINT",
	OpJump:           "OP_JUMP",
	OpJumpIfFalse:    "OP_JUMP_IF_FALSE",
	OpLoop:           "OP_LOOP",
	OpCall:           "OP_CALL",
	OpReturn:         "OP_RETURN",
	OpClass:          "OP_CLASS",
	OpMethod:         "OP_METHOD",
	OpInherit:        "OP_INHERIT",
	OpGetSuper:       "OP_GET_SUPER",
	OpClosure:        "OP_CLOSURE",
	OpCloseUpvalue:   "OP_CLOSE_UPVALUE",
}

// String returns the canonical mnemonic for op, or "OP_UNKNOWN" if op is not
// a defined instruction. Used by trace logging and diagnostic messages.
func (op OpCode) String() string {
	if int(op) < len(opcodeNames) && opcodeNames[op] != "" {
		return opcodeNames[op]
	}
	return "OP_UNKNOWN"
}
