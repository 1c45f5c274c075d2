package compiler

import "github.com/aolsen/lumen/pkg/token"

// rules is the Pratt parser's table: for each token kind, the rule to
// invoke when it starts an expression (prefix), the rule to invoke when
// it appears after a parsed expression (infix), and the precedence to
// use for that infix position. It is filled from ruleTable in init,
// because the rule functions themselves read rules and a direct
// initializer would be an initialization cycle.
var rules map[token.Kind]parseRule

func init() { rules = ruleTable }

var ruleTable = map[token.Kind]parseRule{
	token.LeftParen:    {prefix: parseGrouping, infix: parseCall, precedence: PrecCall},
	token.RightParen:   {},
	token.LeftBrace:    {},
	token.RightBrace:   {},
	token.Comma:        {},
	token.Dot:          {},
	token.Minus:        {prefix: parseUnary, infix: parseBinary, precedence: PrecTerm},
	token.Plus:         {infix: parseBinary, precedence: PrecTerm},
	token.Semicolon:    {},
	token.Slash:        {infix: parseBinary, precedence: PrecFactor},
	token.Star:         {infix: parseBinary, precedence: PrecFactor},
	token.Bang:         {prefix: parseUnary},
	token.BangEqual:    {infix: parseBinary, precedence: PrecEquality},
	token.Equal:        {},
	token.EqualEqual:   {infix: parseBinary, precedence: PrecEquality},
	token.Greater:      {infix: parseBinary, precedence: PrecComparison},
	token.GreaterEqual: {infix: parseBinary, precedence: PrecComparison},
	token.Less:         {infix: parseBinary, precedence: PrecComparison},
	token.LessEqual:    {infix: parseBinary, precedence: PrecComparison},
	token.Identifier:   {prefix: parseVariable},
	token.String:       {prefix: parseString},
	token.Number:       {prefix: parseNumber},
	token.And:          {infix: parseAnd, precedence: PrecAnd},
	token.Class:        {},
	token.Else:         {},
	token.False:        {prefix: parseLiteral},
	token.For:          {},
	token.Fun:          {},
	token.If:           {},
	token.Nil:          {prefix: parseLiteral},
	token.Or:           {infix: parseOr, precedence: PrecOr},
	token.Print:        {},
	token.Return:       {},
	token.Super:        {},
	token.This:         {},
	token.True:         {prefix: parseLiteral},
	token.Var:          {},
	token.While:        {},
	token.Error:        {},
	token.EOF:          {},
}
