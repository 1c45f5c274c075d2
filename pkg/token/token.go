// Package token defines the lexical token kinds produced by pkg/scanner and
// consumed by pkg/compiler.
package token

// Kind identifies the category of a Token.
type Kind int

// Token kinds. Punctuation and operators come first, then literals,
// identifiers, keywords, and the two sentinel kinds (Error, EOF).
const (
	// Single-character punctuation.
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One or two character operators.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	// Sentinels.
	Error
	EOF
)

var names = map[Kind]string{
	LeftParen: "LeftParen", RightParen: "RightParen",
	LeftBrace: "LeftBrace", RightBrace: "RightBrace",
	Comma: "Comma", Dot: "Dot", Minus: "Minus", Plus: "Plus",
	Semicolon: "Semicolon", Slash: "Slash", Star: "Star",
	Bang: "Bang", BangEqual: "BangEqual",
	Equal: "Equal", EqualEqual: "EqualEqual",
	Greater: "Greater", GreaterEqual: "GreaterEqual",
	Less: "Less", LessEqual: "LessEqual",
	Identifier: "Identifier", String: "String", Number: "Number",
	And: "And", Class: "Class", Else: "Else", False: "False",
	For: "For", Fun: "Fun", If: "If", Nil: "Nil", Or: "Or",
	Print: "Print", Return: "Return", Super: "Super", This: "This",
	True: "True", Var: "Var", While: "While",
	Error: "Error", EOF: "EOF",
}

// String renders the kind's name, for diagnostics and disassembly.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "Unknown"
}

// Keywords maps exact-match lexemes to their keyword kind. Identifiers
// that don't appear here lex as Identifier.
var Keywords = map[string]Kind{
	"and": And, "class": Class, "else": Else, "false": False,
	"for": For, "fun": Fun, "if": If, "nil": Nil, "or": Or,
	"print": Print, "return": Return, "super": Super, "this": This,
	"true": True, "var": Var, "while": While,
}

// Token is a single lexeme produced by the scanner: its kind, the raw
// source text that produced it, and the 1-based source line it appeared
// on. Error tokens carry their diagnostic message in Lexeme.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}
