package lexer

import "testing"

func TestOperatorsMaximalMunch(t *testing.T) {
	tests := []struct {
		input   string
		literal string
		typ     TokenType
	}{
		{">>>=", ">>>=", USHR_ASSIGN},
		{">>>", ">>>", USHR},
		{">>=", ">>=", SHR_ASSIGN},
		{">>", ">>", SHR},
		{">=", ">=", GTE},
		{">", ">", GT},
		{"===", "===", STRICT_EQ},
		{"==", "==", EQ},
		{"=>", "=>", ARROW},
		{"=", "=", ASSIGN},
		{"??=", "??=", QUESTION_QUESTION_ASSIGN},
		{"??", "??", QUESTION_QUESTION},
		{"?.", "?.", QUESTION_DOT},
		{"?", "?", QUESTION},
		{"...", "...", ELLIPSIS},
		{".", ".", DOT},
		{"&&=", "&&=", LOGICAL_AND_ASSIGN},
		{"&&", "&&", LOGICAL_AND},
		{"&=", "&=", AND_ASSIGN},
		{"&", "&", BIT_AND},
		{"**=", "**=", STAR_STAR_ASSIGN},
		{"**", "**", STAR_STAR},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken(false)
		if tok.Type != tt.typ || tok.Literal != tt.literal {
			t.Errorf("input %q: expected (%v,%q), got (%v,%q)", tt.input, tt.typ, tt.literal, tok.Type, tok.Literal)
		}
		eof := l.NextToken(false)
		if eof.Type != EOF {
			t.Errorf("input %q: expected single token then EOF, got trailing %v %q", tt.input, eof.Type, eof.Literal)
		}
	}
}

func TestQuestionDotNotConfusedWithTernaryBeforeDigit(t *testing.T) {
	l := New("a?.5:1")
	// `?.5` must not lex as QUESTION_DOT since a digit follows the dot;
	// it's the ternary `a ? .5 : 1`.
	toks := []TokenType{IDENT, QUESTION, NUMBER, COLON, NUMBER, EOF}
	for i, want := range toks {
		tok := l.NextToken(false)
		if tok.Type != want {
			t.Fatalf("token[%d]: expected=%v, got=%v (literal=%q)", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestDivideVsRegex(t *testing.T) {
	l := New("/abc/g")
	tok := l.NextToken(true)
	if tok.Type != REGEX {
		t.Fatalf("expected REGEX, got %v", tok.Type)
	}

	l2 := New("a/b")
	l2.NextToken(false)
	tok2 := l2.NextToken(false)
	if tok2.Type != SLASH {
		t.Fatalf("expected SLASH, got %v", tok2.Type)
	}
}
