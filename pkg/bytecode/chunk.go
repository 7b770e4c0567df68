package bytecode

import "github.com/kristofer/loxvm/pkg/value"

// longConstantThreshold is the highest constant-pool index encodable with
// the single-byte OP_CONSTANT operand. Indices past it require
// OP_CONSTANT_LONG's 3-byte operand. The reference C implementation this
// spec was distilled from used `> 256` here, which is an off-by-one: it
// encodes the constant at index 256 with the short form even though 256
// doesn't fit in a byte. loxvm uses the principled `> 255` instead.
const longConstantThreshold = 255

// Chunk is an append-only unit of compiled bytecode: the raw instruction
// bytes, the constant pool those instructions index into, and a line table
// that maps instruction offsets back to source lines for error reporting.
//
// Chunks are built once by the compiler and never mutated by the VM.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	lines     lineTable
}

// Write appends a single raw byte (an opcode or an operand byte) to the
// chunk, recording that it originated on the given source line.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.lines.record(line)
}

// WriteOp appends an opcode byte, recording its source line.
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.Write(byte(op), line)
}

// AddConstant appends v to the constant pool and returns its index. The
// append is a plain slice append that does not go through the VM's
// allocator, so it never starts a garbage-collection cycle itself.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// WriteConstant emits the correct load instruction for v: OP_CONSTANT with
// a 1-byte index when the new constant's index is at most
// longConstantThreshold, or OP_CONSTANT_LONG with a 3-byte little-endian
// index once the index exceeds it.
func (c *Chunk) WriteConstant(v value.Value, line int) {
	idx := c.AddConstant(v)
	if idx <= longConstantThreshold {
		c.WriteOp(OpConstant, line)
		c.Write(byte(idx), line)
		return
	}
	c.WriteOp(OpConstantLong, line)
	c.Write(byte(idx&0xFF), line)
	c.Write(byte((idx>>8)&0xFF), line)
	c.Write(byte((idx>>16)&0xFF), line)
}

// GetLine returns the source line that produced the instruction byte at the
// given offset into Code.
func (c *Chunk) GetLine(offset int) int {
	return c.lines.get(offset)
}
