package compiler

import (
	"github.com/aolsen/lumen/pkg/chunk"
	"github.com/aolsen/lumen/pkg/token"
	"github.com/aolsen/lumen/pkg/value"
)

// resolveLocal scans the current function's locals from the top down,
// returning the slot index of the first name match, or -1 if none. A
// match whose depth is still depthUninitialized means the name is being
// read from inside its own initializer.
func (c *Compiler) resolveLocal(name token.Token) int {
	for i := len(c.fs.locals) - 1; i >= 0; i-- {
		l := c.fs.locals[i]
		if l.name.Lexeme == name.Lexeme {
			if l.depth == depthUninitialized {
				c.error("Can't read local variable in its own initializer.")
			}
			return i
		}
	}
	return -1
}

func (c *Compiler) addLocal(name token.Token) {
	if len(c.fs.locals) >= maxLocals {
		c.error("Too many local variables in function.")
		return
	}
	c.fs.locals = append(c.fs.locals, local{name: name, depth: depthUninitialized})
}

// declareVariable registers the just-parsed identifier (c.previous) as a
// local in the current scope. It is a no-op at the top level: globals
// aren't tracked by name until DefineGlobal runs at runtime. Declaring a
// name already bound at the exact same depth is an error — locals must
// not shadow a sibling in their own scope (shadowing an outer scope is
// fine).
func (c *Compiler) declareVariable() {
	if c.fs.scopeDepth == 0 {
		return
	}
	name := c.previous
	for i := len(c.fs.locals) - 1; i >= 0; i-- {
		l := c.fs.locals[i]
		if l.depth != depthUninitialized && l.depth < c.fs.scopeDepth {
			break
		}
		if l.name.Lexeme == name.Lexeme {
			c.error("Already a variable with this name in this scope.")
		}
	}
	c.addLocal(name)
}

// parseVariableName consumes an identifier, declares it if local, and
// returns the constant-pool index of its name (used only for globals).
func (c *Compiler) parseVariableName(errMessage string) byte {
	c.consume(token.Identifier, errMessage)

	c.declareVariable()
	if c.fs.scopeDepth > 0 {
		return 0
	}
	return c.identifierConstant(c.previous)
}

func (c *Compiler) identifierConstant(name token.Token) byte {
	return c.makeConstant(value.NewString(name.Lexeme))
}

func (c *Compiler) markInitialized() {
	if c.fs.scopeDepth == 0 {
		return
	}
	c.fs.locals[len(c.fs.locals)-1].depth = c.fs.scopeDepth
}

// defineVariable emits the binding for a just-declared variable: for a
// global, DefineGlobal; for a local, nothing — the initializer's value
// is already sitting in the local's slot on the stack, so marking it
// initialized is the only bookkeeping needed.
func (c *Compiler) defineVariable(global byte) {
	if c.fs.scopeDepth > 0 {
		c.markInitialized()
		return
	}
	c.emitOp(chunk.OpDefineGlobal)
	c.emitByte(global)
}

// namedVariable compiles a reference to name, resolving it to a local
// slot if possible and otherwise treating it as a global. If `=` follows
// and canAssign is true, it compiles the assignment's RHS and emits the
// matching set-op instead of the get-op.
func (c *Compiler) namedVariable(name token.Token, canAssign bool) {
	var getOp, setOp chunk.OpCode
	arg := c.resolveLocal(name)
	if arg != -1 {
		getOp, setOp = chunk.OpGetLocal, chunk.OpSetLocal
	} else {
		arg = int(c.identifierConstant(name))
		getOp, setOp = chunk.OpGetGlobal, chunk.OpSetGlobal
	}

	if canAssign && c.match(token.Equal) {
		c.expression()
		c.emitOp(setOp)
		c.emitByte(byte(arg))
		return
	}
	c.emitOp(getOp)
	c.emitByte(byte(arg))
}

func (c *Compiler) beginScope() {
	c.fs.scopeDepth++
}

// endScope pops every local declared in the scope just closed — one Pop
// per local whose depth exceeds the new (lower) scope depth — and drops
// them from the compiler's locals list.
func (c *Compiler) endScope() {
	c.fs.scopeDepth--
	for len(c.fs.locals) > 0 && c.fs.locals[len(c.fs.locals)-1].depth > c.fs.scopeDepth {
		c.emitOp(chunk.OpPop)
		c.fs.locals = c.fs.locals[:len(c.fs.locals)-1]
	}
}
