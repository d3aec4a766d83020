package gchunk

import "fmt"

// Disassemble renders every instruction in c as human-readable text, headed
// by "== name ==", in the exact OFFSET LINE OPNAME [OPERAND ['VALUE']]
// format spec.md §6 specifies as the external contract for debug consumers.
func Disassemble(c *Chunk, name string) string {
	out := fmt.Sprintf("== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		var line string
		line, offset = DisassembleInstruction(c, offset)
		out += line + "\n"
	}
	return out
}

// DisassembleInstruction renders the single instruction at offset and
// returns the offset of the instruction that follows it.
func DisassembleInstruction(c *Chunk, offset int) (string, int) {
	prefix := fmt.Sprintf("%04d ", offset)
	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		prefix += "   | "
	} else {
		prefix += fmt.Sprintf("%4d ", c.Lines[offset])
	}

	op := OpCode(c.Code[offset])
	def, err := Get(op)
	if err != nil {
		return prefix + fmt.Sprintf("Unknown opcode %d", op), offset + 1
	}

	switch len(def.OperandWidths) {
	case 0:
		return prefix + def.Name, offset + 1
	case 1:
		idx := int(c.Code[offset+1])
		if op == OpConstant {
			return prefix + fmt.Sprintf("%-14s %4d '%s'", def.Name, idx, c.Constants[idx]), offset + 2
		}
		return prefix + fmt.Sprintf("%-14s %4d", def.Name, idx), offset + 2
	default:
		return prefix + fmt.Sprintf("unsupported operand width for %s", def.Name), offset + 1 + len(def.OperandWidths)
	}
}
