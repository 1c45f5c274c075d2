// Package scanner implements the lexical analyzer for lumen.
//
// The scanner produces a lazy sequence of tokens from source text: each
// call to NextToken advances an internal cursor and returns the next
// Token, tracking line numbers as it goes. It never reports errors
// itself — unterminated strings and unrecognized characters come back
// as Error-kind tokens, and it is the compiler's job to turn those into
// diagnostics.
package scanner

import "github.com/aolsen/lumen/pkg/token"

// Scanner holds the lexical analyzer's cursor state over a source string.
type Scanner struct {
	source  string
	start   int // start of the current lexeme
	current int // scanner's read position
	line    int
}

// New creates a Scanner over the given source text.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// NextToken returns the next token from the input, advancing the cursor.
// At end of input it returns an EOF token on every subsequent call.
func (s *Scanner) NextToken() token.Token {
	s.skipWhitespaceAndComments()
	s.start = s.current

	if s.atEnd() {
		return s.make(token.EOF)
	}

	c := s.advance()

	if isAlpha(c) {
		return s.identifier()
	}
	if isDigit(c) {
		return s.number()
	}

	switch c {
	case '(':
		return s.make(token.LeftParen)
	case ')':
		return s.make(token.RightParen)
	case '{':
		return s.make(token.LeftBrace)
	case '}':
		return s.make(token.RightBrace)
	case ';':
		return s.make(token.Semicolon)
	case ',':
		return s.make(token.Comma)
	case '.':
		return s.make(token.Dot)
	case '-':
		return s.make(token.Minus)
	case '+':
		return s.make(token.Plus)
	case '/':
		return s.make(token.Slash)
	case '*':
		return s.make(token.Star)
	case '!':
		if s.matchAdvance('=') {
			return s.make(token.BangEqual)
		}
		return s.make(token.Bang)
	case '=':
		if s.matchAdvance('=') {
			return s.make(token.EqualEqual)
		}
		return s.make(token.Equal)
	case '<':
		if s.matchAdvance('=') {
			return s.make(token.LessEqual)
		}
		return s.make(token.Less)
	case '>':
		if s.matchAdvance('=') {
			return s.make(token.GreaterEqual)
		}
		return s.make(token.Greater)
	case '"':
		return s.string()
	}

	return s.errorToken("Unexpected character.")
}

func (s *Scanner) atEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.atEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) matchAdvance(expected byte) bool {
	if s.atEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

// skipWhitespaceAndComments skips spaces, tabs, newlines, line comments
// (// to end of line), and block comments (/* ... */, which may nest).
func (s *Scanner) skipWhitespaceAndComments() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t':
			s.advance()
		case '\n':
			s.line++
			s.advance()
		case '/':
			if s.peekNext() == '/' {
				for s.peek() != '\n' && !s.atEnd() {
					s.advance()
				}
			} else if s.peekNext() == '*' {
				s.skipBlockComment()
			} else {
				return
			}
		default:
			return
		}
	}
}

func (s *Scanner) skipBlockComment() {
	s.advance() // '/'
	s.advance() // '*'
	depth := 1
	for depth > 0 && !s.atEnd() {
		if s.peek() == '/' && s.peekNext() == '*' {
			s.advance()
			s.advance()
			depth++
			continue
		}
		if s.peek() == '*' && s.peekNext() == '/' {
			s.advance()
			s.advance()
			depth--
			continue
		}
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
}

func (s *Scanner) string() token.Token {
	for s.peek() != '"' && !s.atEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.atEnd() {
		return s.errorToken("Unterminated string.")
	}
	s.advance() // closing quote
	return s.make(token.String)
}

func (s *Scanner) number() token.Token {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // consume '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	return s.make(token.Number)
}

func (s *Scanner) identifier() token.Token {
	for isAlpha(s.peek()) || isDigit(s.peek()) {
		s.advance()
	}
	lexeme := s.source[s.start:s.current]
	kind, ok := token.Keywords[lexeme]
	if !ok {
		kind = token.Identifier
	}
	return token.Token{Kind: kind, Lexeme: lexeme, Line: s.line}
}

func (s *Scanner) make(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Lexeme: s.source[s.start:s.current], Line: s.line}
}

func (s *Scanner) errorToken(message string) token.Token {
	return token.Token{Kind: token.Error, Lexeme: message, Line: s.line}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
