package scanner

import (
	"testing"

	"github.com/aolsen/lumen/pkg/token"
)

func TestNextToken_BasicTokens(t *testing.T) {
	input := `( ) { } , . - + ; / *`

	tests := []struct {
		expectedKind   token.Kind
		expectedLexeme string
	}{
		{token.LeftParen, "("},
		{token.RightParen, ")"},
		{token.LeftBrace, "{"},
		{token.RightBrace, "}"},
		{token.Comma, ","},
		{token.Dot, "."},
		{token.Minus, "-"},
		{token.Plus, "+"},
		{token.Semicolon, ";"},
		{token.Slash, "/"},
		{token.Star, "*"},
		{token.EOF, ""},
	}

	s := New(input)
	for i, tt := range tests {
		tok := s.NextToken()
		if tok.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong. expected=%v, got=%v", i, tt.expectedKind, tok.Kind)
		}
		if tok.Lexeme != tt.expectedLexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.expectedLexeme, tok.Lexeme)
		}
	}
}

func TestNextToken_Operators(t *testing.T) {
	input := `! != = == < <= > >=`

	tests := []struct {
		expectedKind token.Kind
	}{
		{token.Bang}, {token.BangEqual},
		{token.Equal}, {token.EqualEqual},
		{token.Less}, {token.LessEqual},
		{token.Greater}, {token.GreaterEqual},
	}

	s := New(input)
	for i, tt := range tests {
		tok := s.NextToken()
		if tok.Kind != tt.expectedKind {
			t.Fatalf("tests[%d] - kind wrong. expected=%v, got=%v", i, tt.expectedKind, tok.Kind)
		}
	}
}

func TestNextToken_KeywordsAndIdentifiers(t *testing.T) {
	input := `and class else false for fun if nil or print return super this true var while myVar _x1`

	expected := []token.Kind{
		token.And, token.Class, token.Else, token.False, token.For, token.Fun,
		token.If, token.Nil, token.Or, token.Print, token.Return, token.Super,
		token.This, token.True, token.Var, token.While,
		token.Identifier, token.Identifier,
	}

	s := New(input)
	for i, k := range expected {
		tok := s.NextToken()
		if tok.Kind != k {
			t.Fatalf("tests[%d] - kind wrong. expected=%v, got=%v (%q)", i, k, tok.Kind, tok.Lexeme)
		}
	}
}

func TestNextToken_NumbersAndStrings(t *testing.T) {
	input := `123 45.67 "hello world"`

	s := New(input)

	tok := s.NextToken()
	if tok.Kind != token.Number || tok.Lexeme != "123" {
		t.Fatalf("expected Number 123, got %v %q", tok.Kind, tok.Lexeme)
	}

	tok = s.NextToken()
	if tok.Kind != token.Number || tok.Lexeme != "45.67" {
		t.Fatalf("expected Number 45.67, got %v %q", tok.Kind, tok.Lexeme)
	}

	tok = s.NextToken()
	if tok.Kind != token.String || tok.Lexeme != `"hello world"` {
		t.Fatalf("expected String literal, got %v %q", tok.Kind, tok.Lexeme)
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	s := New(`"no closing quote`)
	tok := s.NextToken()
	if tok.Kind != token.Error || tok.Lexeme != "Unterminated string." {
		t.Fatalf("expected Error Unterminated string., got %v %q", tok.Kind, tok.Lexeme)
	}
}

func TestNextToken_UnexpectedCharacter(t *testing.T) {
	s := New(`@`)
	tok := s.NextToken()
	if tok.Kind != token.Error || tok.Lexeme != "Unexpected character." {
		t.Fatalf("expected Error Unexpected character., got %v %q", tok.Kind, tok.Lexeme)
	}
}

func TestNextToken_LineTracking(t *testing.T) {
	input := "var a = 1;\nvar b = 2;\n// comment\nvar c = 3;"
	s := New(input)

	var last token.Token
	for {
		tok := s.NextToken()
		if tok.Kind == token.EOF {
			break
		}
		last = tok
	}
	if last.Line != 4 {
		t.Fatalf("expected last token on line 4, got %d", last.Line)
	}
}

func TestNextToken_NestedBlockComment(t *testing.T) {
	input := "/* outer /* inner */ still in outer */ var x = 1;"
	s := New(input)
	tok := s.NextToken()
	if tok.Kind != token.Var {
		t.Fatalf("expected Var after nested block comment, got %v %q", tok.Kind, tok.Lexeme)
	}
}

func TestNextToken_NegativeMinusIsSeparateFromNumber(t *testing.T) {
	// Unlike the Smalltalk-ish lexer this one descends from, '-' is always
	// its own token: negative numbers are unary minus applied to a Number.
	s := New("-5")
	tok := s.NextToken()
	if tok.Kind != token.Minus {
		t.Fatalf("expected Minus, got %v", tok.Kind)
	}
	tok = s.NextToken()
	if tok.Kind != token.Number || tok.Lexeme != "5" {
		t.Fatalf("expected Number 5, got %v %q", tok.Kind, tok.Lexeme)
	}
}

func TestNextToken_EOFRepeats(t *testing.T) {
	s := New("")
	first := s.NextToken()
	second := s.NextToken()
	if first.Kind != token.EOF || second.Kind != token.EOF {
		t.Fatalf("expected repeated EOF tokens, got %v then %v", first.Kind, second.Kind)
	}
}
