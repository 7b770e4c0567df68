package bytecode

import "testing"

func TestWriteConstantUsesShortFormBelowThreshold(t *testing.T) {
	c := &Chunk{}
	c.WriteConstant(1.0, 1)

	if len(c.Code) != 2 {
		t.Fatalf("expected a 2-byte OP_CONSTANT instruction, got %d bytes", len(c.Code))
	}
	if OpCode(c.Code[0]) != OpConstant {
		t.Fatalf("expected OP_CONSTANT, got %s", OpCode(c.Code[0]))
	}
	if c.Code[1] != 0 {
		t.Fatalf("expected constant index 0, got %d", c.Code[1])
	}
}

func TestWriteConstantUsesLongFormAboveThreshold(t *testing.T) {
	c := &Chunk{}
	for i := 0; i <= longConstantThreshold; i++ {
		c.AddConstant(float64(i))
	}
	c.WriteConstant(float64(longConstantThreshold+1), 1)

	if OpCode(c.Code[len(c.Code)-4]) != OpConstantLong {
		t.Fatalf("expected OP_CONSTANT_LONG for constant index %d", longConstantThreshold+1)
	}
}

func TestGetLineCollapsesRuns(t *testing.T) {
	c := &Chunk{}
	c.WriteOp(OpNil, 1)
	c.WriteOp(OpTrue, 1)
	c.WriteOp(OpFalse, 2)

	if got := c.GetLine(0); got != 1 {
		t.Errorf("offset 0: got line %d, want 1", got)
	}
	if got := c.GetLine(1); got != 1 {
		t.Errorf("offset 1: got line %d, want 1", got)
	}
	if got := c.GetLine(2); got != 2 {
		t.Errorf("offset 2: got line %d, want 2", got)
	}
}

func TestOpCodeStringUnknown(t *testing.T) {
	var op OpCode = 255
	if got := op.String(); got != "OP_UNKNOWN" {
		t.Errorf("got %q, want OP_UNKNOWN", got)
	}
}
