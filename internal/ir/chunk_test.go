package ir

import "testing"

func TestWriteConstantAndRead(t *testing.T) {
	c := NewChunk("test.hct")
	c.WriteConstant(NumberValue(42), 1, 1)
	if Opcode(c.Code[0]) != OpConst {
		t.Fatalf("expected OP_CONST at offset 0")
	}
	idx := c.ReadU16(1)
	if c.Constants[idx].Number != 42 {
		t.Fatalf("unexpected constant value %+v", c.Constants[idx])
	}
}

func TestPatchU16(t *testing.T) {
	c := NewChunk("test.hct")
	pos := c.WriteOp(OpJump, 1, 1)
	c.WriteU16(0, 1, 1)
	c.PatchU16(pos+1, 123)
	if got := c.ReadU16(pos + 1); got != 123 {
		t.Fatalf("PatchU16 didn't take effect: got %d", got)
	}
}

func TestOptimizeFoldsConstantArithmetic(t *testing.T) {
	c := NewChunk("test.hct")
	c.WriteConstant(NumberValue(2), 1, 1)
	c.WriteConstant(NumberValue(3), 1, 1)
	c.WriteOp(OpAdd, 1, 1)
	c.WriteOp(OpHalt, 1, 1)

	Optimize(c)

	if Opcode(c.Code[0]) != OpConst {
		t.Fatalf("expected folded CONST at offset 0")
	}
	idx := c.ReadU16(1)
	if c.Constants[idx].Number != 5 {
		t.Fatalf("expected folded value 5, got %+v", c.Constants[idx])
	}
	for i := 3; i < 7; i++ {
		if Opcode(c.Code[i]) != OpNop {
			t.Fatalf("expected NOP padding at offset %d, got %v", i, Opcode(c.Code[i]))
		}
	}
	if Opcode(c.Code[7]) != OpHalt {
		t.Fatalf("expected HALT to remain at its original offset")
	}
}

func TestOptimizePreservesJumpTargets(t *testing.T) {
	c := NewChunk("test.hct")
	c.WriteConstant(NumberValue(1), 1, 1)
	c.WriteConstant(NumberValue(2), 1, 1)
	c.WriteOp(OpAdd, 1, 1)
	jumpPos := c.WriteOp(OpJump, 1, 1)
	c.WriteU16(uint16(c.Len()+2), 1, 1) // jump to just past itself
	target := c.Len()
	c.WriteOp(OpHalt, 1, 1)

	Optimize(c)

	if got := c.ReadU16(jumpPos + 1); int(got) != target {
		t.Fatalf("jump target shifted after optimize: got %d, want %d", got, target)
	}
}
