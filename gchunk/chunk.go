// Package gchunk defines Chunk, Glint's compiled-code container, and the
// opcode table that both the compiler (to emit) and the VM/disassembler (to
// decode) drive off of.
//
// The opcode table itself — OpCodeDefinition keyed by OpCode, looked up
// through Get — is carried over from the teacher's compiler/code.go, which
// already expresses opcodes as data (name + operand widths) rather than a
// hand-written switch in each consumer. Operand widths here are capped at
// one byte, per spec.md §3's single-byte constant-index constraint.
package gchunk

import (
	"fmt"

	"glint/gvalue"
)

// OpCode is a single byte.
type OpCode byte

const (
	OpConstant OpCode = iota
	OpNil
	OpTrue
	OpFalse
	OpEqual
	OpGreater
	OpLess
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpNot
	OpNegate
	OpPrint
	OpPop
	OpReturn
)

// OpCodeDefinition names an opcode and lists the byte-width of each of its
// operands (for this instruction set, always zero or one operand of width
// 1).
type OpCodeDefinition struct {
	Name          string
	OperandWidths []int
}

var definitions = map[OpCode]*OpCodeDefinition{
	OpConstant: {Name: "OP_CONSTANT", OperandWidths: []int{1}},
	OpNil:      {Name: "OP_NIL", OperandWidths: nil},
	OpTrue:     {Name: "OP_TRUE", OperandWidths: nil},
	OpFalse:    {Name: "OP_FALSE", OperandWidths: nil},
	OpEqual:    {Name: "OP_EQUAL", OperandWidths: nil},
	OpGreater:  {Name: "OP_GREATER", OperandWidths: nil},
	OpLess:     {Name: "OP_LESS", OperandWidths: nil},
	OpAdd:      {Name: "OP_ADD", OperandWidths: nil},
	OpSubtract: {Name: "OP_SUBTRACT", OperandWidths: nil},
	OpMultiply: {Name: "OP_MULTIPLY", OperandWidths: nil},
	OpDivide:   {Name: "OP_DIVIDE", OperandWidths: nil},
	OpNot:      {Name: "OP_NOT", OperandWidths: nil},
	OpNegate:   {Name: "OP_NEGATE", OperandWidths: nil},
	OpPrint:    {Name: "OP_PRINT", OperandWidths: nil},
	OpPop:      {Name: "OP_POP", OperandWidths: nil},
	OpReturn:   {Name: "OP_RETURN", OperandWidths: nil},
}

// Get looks up an opcode's definition, or an error if op is not a known
// opcode — reaching that error path at runtime is a compiler/VM bug, not a
// user-facing error (spec.md §7).
func Get(op OpCode) (*OpCodeDefinition, error) {
	def, ok := definitions[op]
	if !ok {
		return nil, fmt.Errorf("gchunk: opcode %d undefined", op)
	}
	return def, nil
}

// EncodeInstruction assembles one opcode and its operands (each assumed to
// fit the single byte spec.md requires) into the bytes the compiler appends
// to a Chunk.
func EncodeInstruction(op OpCode, operands ...int) []byte {
	def, err := Get(op)
	if err != nil {
		return nil
	}

	instruction := make([]byte, 1+len(def.OperandWidths))
	instruction[0] = byte(op)
	for i, operand := range operands {
		instruction[1+i] = byte(operand)
	}
	return instruction
}

// Chunk is a compiled unit: an append-only byte sequence, a parallel
// per-byte source-line map, and a constant pool. len(Lines) == len(Code) is
// an invariant maintained by Write.
type Chunk struct {
	Code      []byte
	Lines     []int
	Constants []gvalue.Value
}

// New returns an empty Chunk ready to receive bytes.
func New() *Chunk {
	return &Chunk{}
}

// Write appends one byte, recording the source line that produced it.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
}

// WriteInstruction appends an assembled instruction, attributing every byte
// of it to line.
func (c *Chunk) WriteInstruction(op OpCode, line int, operands ...int) {
	for _, b := range EncodeInstruction(op, operands...) {
		c.Write(b, line)
	}
}

// MaxConstants is the largest number of constants a Chunk may hold — a
// single-byte operand can address indices 0..=255.
const MaxConstants = 256

// AddConstant appends v to the constant pool and returns its index. It does
// not deduplicate; two equal literals in the same chunk get two slots.
func (c *Chunk) AddConstant(v gvalue.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}
