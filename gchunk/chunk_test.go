package gchunk

import (
	"strings"
	"testing"

	"glint/gvalue"
)

func TestWriteTracksLines(t *testing.T) {
	c := New()
	c.Write(byte(OpNil), 1)
	c.Write(byte(OpTrue), 2)

	if len(c.Code) != len(c.Lines) {
		t.Fatalf("Code and Lines must stay the same length: %d vs %d", len(c.Code), len(c.Lines))
	}
	if c.Lines[0] != 1 || c.Lines[1] != 2 {
		t.Errorf("got lines %v, want [1 2]", c.Lines)
	}
}

func TestAddConstantNoDedup(t *testing.T) {
	c := New()
	i1 := c.AddConstant(gvalue.Number(1))
	i2 := c.AddConstant(gvalue.Number(1))
	if i1 == i2 {
		t.Error("AddConstant should not deduplicate equal values")
	}
	if len(c.Constants) != 2 {
		t.Errorf("got %d constants, want 2", len(c.Constants))
	}
}

func TestWriteInstructionEncodesOperand(t *testing.T) {
	c := New()
	idx := c.AddConstant(gvalue.Number(7))
	c.WriteInstruction(OpConstant, 1, idx)

	if len(c.Code) != 2 || OpCode(c.Code[0]) != OpConstant || int(c.Code[1]) != idx {
		t.Errorf("got code %v, want [OpConstant %d]", c.Code, idx)
	}
}

func TestGetUnknownOpcode(t *testing.T) {
	if _, err := Get(OpCode(255)); err == nil {
		t.Error("Get on an undefined opcode should return an error")
	}
}

func TestDisassembleSimpleInstruction(t *testing.T) {
	c := New()
	c.Write(byte(OpReturn), 1)
	out := Disassemble(c, "test")
	if !strings.Contains(out, "== test ==") {
		t.Errorf("missing header: %q", out)
	}
	if !strings.Contains(out, "OP_RETURN") {
		t.Errorf("missing opcode name: %q", out)
	}
}

func TestDisassembleConstantIncludesValue(t *testing.T) {
	c := New()
	idx := c.AddConstant(gvalue.Number(42))
	c.WriteInstruction(OpConstant, 3, idx)

	out := Disassemble(c, "code")
	if !strings.Contains(out, "OP_CONSTANT") || !strings.Contains(out, "'42'") {
		t.Errorf("got %q", out)
	}
}

func TestDisassembleRepeatedLineUsesPipe(t *testing.T) {
	c := New()
	c.Write(byte(OpNil), 5)
	c.Write(byte(OpTrue), 5)
	out := Disassemble(c, "code")
	if !strings.Contains(out, "   | ") {
		t.Errorf("expected a repeated-line marker, got %q", out)
	}
}

func TestEncodeInstructionUnknownOpcode(t *testing.T) {
	if got := EncodeInstruction(OpCode(255)); got != nil {
		t.Errorf("EncodeInstruction on unknown opcode should return nil, got %v", got)
	}
}
