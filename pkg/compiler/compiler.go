// Package compiler implements lumen's single-pass Pratt-parser compiler.
//
// Unlike a conventional two-pass pipeline (parse to an AST, then lower
// the AST to bytecode), this compiler never builds a tree: it consumes
// tokens directly from a pkg/scanner.Scanner and emits bytecode straight
// into the current pkg/chunk.Chunk as it recognizes each construct.
// Variable scope is resolved on the fly against a locals stack that
// mirrors what the VM's value stack will look like at runtime, and
// forward jumps are emitted as placeholder bytes that get patched once
// their target is known.
//
// The compiler is a table-driven Pratt parser: for every token kind,
// rules[kind] holds a (prefix rule, infix rule, precedence) triple.
// parsePrecedence(p) drives expression parsing by repeatedly consuming
// infix operators at or above precedence p — see that function's doc
// comment for the core loop.
package compiler

import (
	"fmt"
	"io"
	"os"

	"github.com/aolsen/lumen/pkg/chunk"
	"github.com/aolsen/lumen/pkg/object"
	"github.com/aolsen/lumen/pkg/scanner"
	"github.com/aolsen/lumen/pkg/token"
	"github.com/aolsen/lumen/pkg/value"
)

// Precedence orders the binding strength of expression operators, lowest
// to highest. parsePrecedence(p) consumes infix operators whose own
// precedence is >= p.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < > <= >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

// parseFn is either a prefix or an infix parsing rule. canAssign is true
// only in contexts where `=` may legally follow (precedence <=
// PrecAssignment); rules that recognize trailing `=` consult it.
type parseFn func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFn
	infix      parseFn
	precedence Precedence
}

// maxLocals bounds the per-function locals stack (spec.md §4.3).
const maxLocals = 256

// maxConstants bounds a chunk's constant pool: constants are addressed
// by a single byte operand (spec.md §3).
const maxConstants = 256

// local records one declared local variable: the token that named it,
// and its scope depth. depthUninitialized is a sentinel meaning "this
// local's initializer is still being compiled" — reading it is the
// "Can't read local variable in its own initializer." error.
type local struct {
	name  token.Token
	depth int
}

const depthUninitialized = -1

// funcKind distinguishes the implicit top-level script function from a
// user-declared `fun`: both end with an implicit Nil,Return, but a
// `return` statement is only legal inside the latter.
type funcKind int

const (
	funcScript funcKind = iota
	funcFunction
)

// funcState is the per-function compiler frame: its own locals stack,
// scope depth, and the Function object/Chunk being assembled. Compiling
// a nested `fun` pushes a new funcState and pops it back to the
// enclosing one when the function body is done — this is how the
// compiler's locals mirror the call frames the VM will create at
// runtime, entirely at compile time, without any AST.
type funcState struct {
	enclosing *funcState
	function  *object.Function
	kind      funcKind

	locals     []local
	scopeDepth int
}

// Compiler is a single-pass Pratt parser + bytecode emitter. Create one
// with New and call Compile exactly once.
type Compiler struct {
	scanner *scanner.Scanner

	current  token.Token
	previous token.Token

	hadError  bool
	panicMode bool
	errOut    io.Writer

	fs *funcState
}

// New creates a Compiler over source. Diagnostics are written to errOut
// if non-nil, else os.Stderr.
func New(source string, errOut io.Writer) *Compiler {
	if errOut == nil {
		errOut = os.Stderr
	}
	c := &Compiler{scanner: scanner.New(source), errOut: errOut}
	c.pushFunc(funcScript, "")
	return c
}

// Compile runs the compiler to completion and returns the top-level
// Function (the implicit script function whose Chunk is the whole
// program), or an error if any compile-time diagnostic was raised. On
// error, the returned Function is nil: the VM must never execute a
// chunk that had a compile error (spec.md §7).
func (c *Compiler) Compile() (*object.Function, error) {
	c.advance()
	for !c.match(token.EOF) {
		c.declaration()
	}
	fn := c.endFunc()
	if c.hadError {
		return nil, fmt.Errorf("compile error")
	}
	return fn, nil
}

func (c *Compiler) pushFunc(kind funcKind, name string) {
	fn := object.NewFunction()
	if name != "" {
		fn.Name = value.NewString(name)
	}
	fs := &funcState{enclosing: c.fs, function: fn, kind: kind}
	// Slot 0 of every function's locals is reserved for the function
	// value itself (or, for the top level, the synthetic script closure).
	fs.locals = append(fs.locals, local{name: token.Token{Lexeme: ""}, depth: 0})
	c.fs = fs
}

func (c *Compiler) endFunc() *object.Function {
	c.emitReturn()
	fn := c.fs.function
	c.fs = c.fs.enclosing
	return fn
}

func (c *Compiler) currentChunk() *chunk.Chunk {
	return c.fs.function.Chunk
}

// ---- token stream plumbing ----

func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.scanner.NextToken()
		if c.current.Kind != token.Error {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

func (c *Compiler) check(k token.Kind) bool {
	return c.current.Kind == k
}

func (c *Compiler) match(k token.Kind) bool {
	if !c.check(k) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(k token.Kind, message string) {
	if c.current.Kind == k {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// ---- diagnostics ----

func (c *Compiler) errorAtCurrent(message string) { c.errorAt(c.current, message) }
func (c *Compiler) error(message string)          { c.errorAt(c.previous, message) }

func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true

	fmt.Fprintf(c.errOut, "[line %d] Error", tok.Line)
	switch tok.Kind {
	case token.EOF:
		fmt.Fprint(c.errOut, " at end")
	case token.Error:
		// no "at ..." fragment: the lexeme IS the message
	default:
		fmt.Fprintf(c.errOut, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(c.errOut, ": %s\n", message)
}

// synchronize recovers from a syntax error at the next statement
// boundary, so one bad token doesn't cascade into an explosion of
// diagnostics.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for c.current.Kind != token.EOF {
		if c.previous.Kind == token.Semicolon {
			return
		}
		switch c.current.Kind {
		case token.Class, token.Fun, token.Var, token.For,
			token.If, token.While, token.Print, token.Return:
			return
		}
		c.advance()
	}
}

// ---- emission helpers ----

func (c *Compiler) emitByte(b byte)          { c.currentChunk().Write(b, c.previous.Line) }
func (c *Compiler) emitOp(op chunk.OpCode)   { c.currentChunk().WriteOp(op, c.previous.Line) }
func (c *Compiler) emitOps(a, b chunk.OpCode) {
	c.emitOp(a)
	c.emitOp(b)
}

func (c *Compiler) emitReturn() {
	c.emitOp(chunk.OpNil)
	c.emitOp(chunk.OpReturn)
}

func (c *Compiler) makeConstant(v value.Value) byte {
	idx := c.currentChunk().AddConstant(v)
	if idx >= maxConstants {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

func (c *Compiler) emitConstant(v value.Value) {
	c.emitOp(chunk.OpConstant)
	c.emitByte(c.makeConstant(v))
}

// emitJump writes op followed by a two-byte placeholder, returning the
// offset of the placeholder's first byte to be patched later.
func (c *Compiler) emitJump(op chunk.OpCode) int {
	c.emitOp(op)
	c.emitByte(0xff)
	c.emitByte(0xff)
	return len(c.currentChunk().Code) - 2
}

// patchJump back-patches the jump at offset so it lands on the chunk's
// current end: displacement = code.len() - (offset + 2).
func (c *Compiler) patchJump(offset int) {
	jump := len(c.currentChunk().Code) - offset - 2
	if jump > 0xffff {
		c.error("Too much code to jump over.")
	}
	c.currentChunk().Code[offset] = byte(jump >> 8)
	c.currentChunk().Code[offset+1] = byte(jump & 0xff)
}

// emitLoop emits a Loop instruction back to loopStart: displacement =
// code.len() + 3 - loopStart, since the 3-byte Loop instruction is
// counted in the post-immediate ip the VM subtracts from.
func (c *Compiler) emitLoop(loopStart int) {
	c.emitOp(chunk.OpLoop)
	offset := len(c.currentChunk().Code) - loopStart + 2
	if offset > 0xffff {
		c.error("Loop body too large.")
	}
	c.emitByte(byte(offset >> 8))
	c.emitByte(byte(offset & 0xff))
}
