// Disassembly support, adapted from the teacher's pkg/bytecode/format.go.
//
// The teacher's format.go defines a binary .sg file format for persisting
// compiled bytecode to disk (magic number, version, a constants section,
// an instructions section). Bytecode persistence is explicitly out of
// scope for this spec ("ahead-of-time serialization of bytecode" is a
// listed Non-goal), so none of that binary encode/decode machinery is
// kept. What survives is the opcode-to-operand-width knowledge the format
// needed to walk a chunk correctly — repurposed here into a pure,
// in-memory, human-readable dump used only when a debug trace flag is
// set, matching spec.md §4.2/§4.4's "debug flag" requirement.
package chunk

import (
	"fmt"
	"io"
)

// Disassemble writes a human-readable dump of every instruction in the
// chunk to w, labeled with name (e.g. the enclosing function's name).
func (c *Chunk) Disassemble(w io.Writer, name string) {
	fmt.Fprintf(w, "== %s ==\n", name)
	for offset := 0; offset < len(c.Code); {
		offset = c.DisassembleInstruction(w, offset)
	}
}

// DisassembleInstruction writes one instruction's disassembly at offset
// and returns the offset of the next instruction.
func (c *Chunk) DisassembleInstruction(w io.Writer, offset int) int {
	fmt.Fprintf(w, "%04d ", offset)

	line := c.GetLine(offset)
	if offset > 0 && line == c.GetLine(offset-1) {
		fmt.Fprint(w, "   | ")
	} else {
		fmt.Fprintf(w, "%4d ", line)
	}

	op := OpCode(c.Code[offset])
	if op > MaxOpCode {
		fmt.Fprintf(w, "Unknown opcode %d\n", op)
		return offset + 1
	}

	switch op {
	case OpConstant, OpGetGlobal, OpDefineGlobal, OpSetGlobal, OpClosure:
		return c.constantInstruction(w, op, offset)
	case OpGetLocal, OpSetLocal, OpCall:
		return c.byteInstruction(w, op, offset)
	case OpJump, OpJumpIfFalse:
		return c.jumpInstruction(w, op, 1, offset)
	case OpLoop:
		return c.jumpInstruction(w, op, -1, offset)
	default:
		return c.simpleInstruction(w, op, offset)
	}
}

func (c *Chunk) simpleInstruction(w io.Writer, op OpCode, offset int) int {
	fmt.Fprintf(w, "%s\n", op)
	return offset + 1
}

func (c *Chunk) byteInstruction(w io.Writer, op OpCode, offset int) int {
	slot := c.Code[offset+1]
	fmt.Fprintf(w, "%-16s %4d\n", op, slot)
	return offset + 2
}

func (c *Chunk) constantInstruction(w io.Writer, op OpCode, offset int) int {
	idx := c.Code[offset+1]
	var display string
	if int(idx) < len(c.Constants) {
		display = c.Constants[idx].Display()
	}
	fmt.Fprintf(w, "%-16s %4d '%s'\n", op, idx, display)
	return offset + 2
}

func (c *Chunk) jumpInstruction(w io.Writer, op OpCode, sign int, offset int) int {
	jump := int(c.Code[offset+1])<<8 | int(c.Code[offset+2])
	target := offset + 3 + sign*jump
	fmt.Fprintf(w, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}
