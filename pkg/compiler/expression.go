package compiler

import (
	"strconv"

	"github.com/aolsen/lumen/pkg/chunk"
	"github.com/aolsen/lumen/pkg/token"
	"github.com/aolsen/lumen/pkg/value"
)

// expression compiles one expression at PrecAssignment, the lowest
// precedence that still excludes bare statement separators.
func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the Pratt parser's core loop: advance, invoke the
// just-consumed token's prefix rule (a compile error if it has none),
// then keep consuming infix operators whose precedence is >= p, invoking
// each one's infix rule in turn. canAssign is threaded through so that
// only an expression parsed at precedence <= PrecAssignment accepts a
// trailing `=`.
func (c *Compiler) parsePrecedence(p Precedence) {
	c.advance()
	prefixRule := rules[c.previous.Kind].prefix
	if prefixRule == nil {
		c.error("Expect expression.")
		return
	}
	canAssign := p <= PrecAssignment
	prefixRule(c, canAssign)

	for p <= rules[c.current.Kind].precedence {
		c.advance()
		infixRule := rules[c.previous.Kind].infix
		infixRule(c, canAssign)
	}

	if canAssign && c.match(token.Equal) {
		c.error("Invalid assignment target.")
	}
}

func parseNumber(c *Compiler, _ bool) {
	n, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number literal.")
		return
	}
	c.emitConstant(value.Number(n))
}

func parseString(c *Compiler, _ bool) {
	// Trim the surrounding quote characters.
	lexeme := c.previous.Lexeme
	s := lexeme[1 : len(lexeme)-1]
	c.emitConstant(value.NewString(s))
}

func parseLiteral(c *Compiler, _ bool) {
	switch c.previous.Kind {
	case token.False:
		c.emitOp(chunk.OpFalse)
	case token.True:
		c.emitOp(chunk.OpTrue)
	case token.Nil:
		c.emitOp(chunk.OpNil)
	}
}

func parseGrouping(c *Compiler, _ bool) {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func parseUnary(c *Compiler, _ bool) {
	opKind := c.previous.Kind
	c.parsePrecedence(PrecUnary)
	switch opKind {
	case token.Bang:
		c.emitOp(chunk.OpNot)
	case token.Minus:
		c.emitOp(chunk.OpNegate)
	}
}

// binary compiles a left-associative infix operator: its right operand
// parses at one precedence level higher than its own, so that e.g.
// `1 - 2 - 3` groups as `(1 - 2) - 3`.
func parseBinary(c *Compiler, _ bool) {
	opKind := c.previous.Kind
	rule := rules[opKind]
	c.parsePrecedence(rule.precedence + 1)

	switch opKind {
	case token.BangEqual:
		c.emitOps(chunk.OpEqual, chunk.OpNot)
	case token.EqualEqual:
		c.emitOp(chunk.OpEqual)
	case token.Greater:
		c.emitOp(chunk.OpGreater)
	case token.GreaterEqual:
		c.emitOps(chunk.OpLess, chunk.OpNot)
	case token.Less:
		c.emitOp(chunk.OpLess)
	case token.LessEqual:
		c.emitOps(chunk.OpGreater, chunk.OpNot)
	case token.Plus:
		c.emitOp(chunk.OpAdd)
	case token.Minus:
		c.emitOp(chunk.OpSubtract)
	case token.Star:
		c.emitOp(chunk.OpMultiply)
	case token.Slash:
		c.emitOp(chunk.OpDivide)
	}
}

// parseAnd short-circuits: if the left operand (already on the stack) is
// falsey, the JumpIfFalse jumps over the right operand entirely, leaving
// the falsey left value as the expression's result. Otherwise the left
// is popped and the right operand becomes the result.
func parseAnd(c *Compiler, _ bool) {
	endJump := c.emitJump(chunk.OpJumpIfFalse)
	c.emitOp(chunk.OpPop)
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
}

// parseOr short-circuits the opposite way: if the left is truthy, skip
// straight past the right operand.
func parseOr(c *Compiler, _ bool) {
	elseJump := c.emitJump(chunk.OpJumpIfFalse)
	endJump := c.emitJump(chunk.OpJump)

	c.patchJump(elseJump)
	c.emitOp(chunk.OpPop)

	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
}

func parseVariable(c *Compiler, canAssign bool) {
	c.namedVariable(c.previous, canAssign)
}

// parseCall compiles a call expression's argument list (the `(` has
// already been consumed as the infix trigger) and emits Call.
func parseCall(c *Compiler, _ bool) {
	argCount := c.argumentList()
	c.emitOp(chunk.OpCall)
	c.emitByte(argCount)
}

func (c *Compiler) argumentList() byte {
	count := 0
	if !c.check(token.RightParen) {
		for {
			c.expression()
			if count == 255 {
				c.error("Can't have more than 255 arguments.")
			}
			count++
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.consume(token.RightParen, "Expect ')' after arguments.")
	return byte(count)
}
