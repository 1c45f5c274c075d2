// Package chunk holds the compiled bytecode for a single function: the
// emitted instruction stream, its constant pool, and a run-length line
// table mapping instruction offsets back to source lines.
//
// A Chunk is produced once by pkg/compiler and is immutable thereafter —
// multiple VM call frames may reference the same Chunk's bytes without
// any coordination.
package chunk

import "github.com/aolsen/lumen/pkg/value"

// OpCode identifies a single bytecode instruction. Each is one byte wide;
// some carry a fixed-width immediate operand that follows in the code
// stream (see the comment on each constant below for which).
type OpCode byte

// The full instruction set. Operand widths and stack effects are exactly
// as spec.md §4.2 defines them.
const (
	OpConstant     OpCode = iota // const-idx (1)   [· -> v]
	OpNil                        //                 [· -> v]
	OpTrue                       //                 [· -> v]
	OpFalse                      //                 [· -> v]
	OpPop                        //                 [v -> ·]
	OpGetLocal                   // slot (1)        [· -> v]
	OpSetLocal                   // slot (1)        [v -> v]
	OpGetGlobal                  // const-idx (1)   [· -> v]
	OpDefineGlobal               // const-idx (1)   [v -> ·]
	OpSetGlobal                  // const-idx (1)   [v -> v]
	OpEqual                      //                 [a b -> bool]
	OpGreater                    //                 [a b -> bool]
	OpLess                       //                 [a b -> bool]
	OpAdd                        //                 [a b -> c]
	OpSubtract                   //                 [a b -> c]
	OpMultiply                   //                 [a b -> c]
	OpDivide                     //                 [a b -> c]
	OpNot                        //                 [v -> bool]
	OpNegate                     //                 [n -> -n]
	OpPrint                      //                 [v -> ·]
	OpJump                       // offset (2)      no change
	OpJumpIfFalse                // offset (2)      [v -> v]
	OpLoop                       // offset (2)      no change
	OpCall                       // arg-count (1)   [f a1..aN -> r]
	OpClosure                    // const-idx (1)   [· -> cl]
	OpReturn                     //                 [v -> v-at-caller]

	// MaxOpCode is the highest valid opcode value; decoding a byte greater
	// than this is always a bug (the compiler never emits it), and a
	// defensive decoder should trap rather than silently proceed — per the
	// "value <= MaxOpcode" validity check spec.md §9 calls out.
	MaxOpCode = OpReturn
)

var opNames = [...]string{
	"OP_CONSTANT", "OP_NIL", "OP_TRUE", "OP_FALSE", "OP_POP",
	"OP_GET_LOCAL", "OP_SET_LOCAL", "OP_GET_GLOBAL", "OP_DEFINE_GLOBAL", "OP_SET_GLOBAL",
	"OP_EQUAL", "OP_GREATER", "OP_LESS",
	"OP_ADD", "OP_SUBTRACT", "OP_MULTIPLY", "OP_DIVIDE",
	"OP_NOT", "OP_NEGATE", "OP_PRINT",
	"OP_JUMP", "OP_JUMP_IF_FALSE", "OP_LOOP",
	"OP_CALL", "OP_CLOSURE", "OP_RETURN",
}

// String renders the opcode's mnemonic, used by the disassembler.
func (op OpCode) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}
	return "OP_UNKNOWN"
}

// lineRun is one entry of the run-length-encoded line table: Count
// consecutive code bytes all produced by source Line.
type lineRun struct {
	Line  int
	Count int
}

// Chunk is an emitted byte stream plus its constant pool and line table.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	lines     []lineRun
}

// New creates an empty Chunk.
func New() *Chunk {
	return &Chunk{}
}

// Write appends a byte to the instruction stream and records that it was
// produced by source line. Consecutive writes on the same line extend
// the last run instead of starting a new one.
func (c *Chunk) Write(b byte, line int) {
	c.Code = append(c.Code, b)
	if n := len(c.lines); n > 0 && c.lines[n-1].Line == line {
		c.lines[n-1].Count++
		return
	}
	c.lines = append(c.lines, lineRun{Line: line, Count: 1})
}

// WriteOp is a convenience wrapper for Write(byte(op), line).
func (c *Chunk) WriteOp(op OpCode, line int) {
	c.Write(byte(op), line)
}

// AddConstant appends v to the constant pool and returns its index. There
// is no deduplication — callers that want sharing (e.g. the compiler
// reusing a name constant) must track it themselves. Exceeding 256
// constants is a compile-time error the caller is responsible for
// raising; AddConstant itself never fails.
func (c *Chunk) AddConstant(v value.Value) int {
	c.Constants = append(c.Constants, v)
	return len(c.Constants) - 1
}

// GetLine walks the run-length line table to find the source line whose
// run covers byte offset. It is monotonically non-decreasing in offset.
func (c *Chunk) GetLine(offset int) int {
	pos := 0
	for _, run := range c.lines {
		pos += run.Count
		if offset < pos {
			return run.Line
		}
	}
	if len(c.lines) == 0 {
		return 0
	}
	return c.lines[len(c.lines)-1].Line
}
