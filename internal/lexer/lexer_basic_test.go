package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `let x = 5;
	x = x + 10;
	`

	tests := []struct {
		literal string
		typ     TokenType
	}{
		{"let", KW_LET},
		{"x", IDENT},
		{"=", ASSIGN},
		{"5", NUMBER},
		{";", SEMICOLON},
		{"x", IDENT},
		{"=", ASSIGN},
		{"x", IDENT},
		{"+", PLUS},
		{"10", NUMBER},
		{";", SEMICOLON},
		{"", EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken(false)
		if tok.Type != tt.typ {
			t.Fatalf("tests[%d] - type wrong. expected=%v, got=%v (literal=%q)", i, tt.typ, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.literal {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.literal, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := "const let var function class if else for while do return try catch finally throw typeof instanceof new delete void in of yield await static get set async from as super this null true false"

	expected := []TokenType{
		KW_CONST, KW_LET, KW_VAR, KW_FUNCTION, KW_CLASS, KW_IF, KW_ELSE, KW_FOR, KW_WHILE, KW_DO,
		KW_RETURN, KW_TRY, KW_CATCH, KW_FINALLY, KW_THROW, KW_TYPEOF, KW_INSTANCEOF, KW_NEW, KW_DELETE, KW_VOID,
		KW_IN, KW_OF, KW_YIELD, KW_AWAIT, KW_STATIC, KW_GET, KW_SET, KW_ASYNC, KW_FROM, KW_AS,
		KW_SUPER, KW_THIS, KW_NULL, KW_TRUE, KW_FALSE, EOF,
	}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken(false)
		if tok.Type != want {
			t.Fatalf("token[%d]: expected=%v, got=%v (literal=%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestASINewlineTracking(t *testing.T) {
	input := "a\nb"
	l := New(input)
	first := l.NextToken(false)
	if first.NewlineBefore {
		t.Fatalf("first token should not report a preceding newline")
	}
	second := l.NextToken(false)
	if !second.NewlineBefore {
		t.Fatalf("second token should report a preceding newline")
	}
}
