package lexer

import "testing"

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input   string
		literal string
		typ     TokenType
	}{
		{"0", "0", NUMBER},
		{"123", "123", NUMBER},
		{"3.14", "3.14", NUMBER},
		{".5", ".5", NUMBER},
		{"1e10", "1e10", NUMBER},
		{"1E-10", "1E-10", NUMBER},
		{"1_000_000", "1_000_000", NUMBER},
		{"0x1F", "0x1F", NUMBER},
		{"0o17", "0o17", NUMBER},
		{"0b101", "0b101", NUMBER},
		{"123n", "123", BIGINT},
		{"0xFFn", "0xFF", BIGINT},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken(false)
		if tok.Type != tt.typ {
			t.Errorf("input %q: expected type %v, got %v", tt.input, tt.typ, tok.Type)
		}
		if tok.Literal != tt.literal {
			t.Errorf("input %q: expected literal %q, got %q", tt.input, tt.literal, tok.Literal)
		}
	}
}

func TestLegacyOctalLiteral(t *testing.T) {
	l := New("0755")
	tok := l.NextToken(false)
	if tok.Type != NUMBER || tok.Literal != "0755" {
		t.Fatalf("expected legacy octal NUMBER 0755, got %v %q", tok.Type, tok.Literal)
	}
}

func TestNumberThenIdentifierIsError(t *testing.T) {
	l := New("3x")
	l.NextToken(false)
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an error for an identifier directly after a numeric literal")
	}
}
