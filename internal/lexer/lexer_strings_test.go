package lexer

import "testing"

func unitsEqual(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStringLiteralEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  []uint16
	}{
		{`"abc"`, []uint16{'a', 'b', 'c'}},
		{`'a\nb'`, []uint16{'a', '\n', 'b'}},
		{`"\x41"`, []uint16{'A'}},
		{`"A"`, []uint16{'A'}},
		{`"\u{1F600}"`, []uint16{0xD83D, 0xDE00}},
		{"\"a\\\nb\"", []uint16{'a', 'b'}}, // line continuation drops the newline
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken(false)
		if tok.Type != STRING {
			t.Fatalf("input %q: expected STRING, got %v", tt.input, tok.Type)
		}
		if !unitsEqual(tok.StringUnits, tt.want) {
			t.Errorf("input %q: expected units %v, got %v", tt.input, tt.want, tok.StringUnits)
		}
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	l := New(`"abc`)
	l.NextToken(false)
	if len(l.Errors()) == 0 {
		t.Fatalf("expected an unterminated-string error")
	}
}

func TestLoneSurrogateEscapePreserved(t *testing.T) {
	l := New(`"\uD800"`)
	tok := l.NextToken(false)
	if len(tok.StringUnits) != 1 || tok.StringUnits[0] != 0xD800 {
		t.Fatalf("expected a preserved lone surrogate, got %v", tok.StringUnits)
	}
}

func TestTemplateLiteralNoSubstitution(t *testing.T) {
	l := New("`hello`")
	tok := l.NextToken(false)
	if tok.Type != TEMPLATE_STRING || !tok.TemplateHead || !tok.TemplateTail {
		t.Fatalf("expected a no-substitution template token, got %+v", tok)
	}
	if !unitsEqual(tok.StringUnits, []uint16{'h', 'e', 'l', 'l', 'o'}) {
		t.Fatalf("unexpected template units: %v", tok.StringUnits)
	}
}

func TestTemplateLiteralWithSubstitution(t *testing.T) {
	l := New("`a${1}b`")
	head := l.NextToken(false)
	if head.Type != TEMPLATE_STRING || !head.TemplateHead || head.TemplateTail {
		t.Fatalf("expected TemplateHead, got %+v", head)
	}
	if !unitsEqual(head.StringUnits, []uint16{'a'}) {
		t.Fatalf("unexpected head units: %v", head.StringUnits)
	}

	numTok := l.NextToken(false)
	if numTok.Type != NUMBER || numTok.Literal != "1" {
		t.Fatalf("expected NUMBER 1 inside substitution, got %v %q", numTok.Type, numTok.Literal)
	}

	rbrace := l.NextToken(false)
	if rbrace.Type != RBRACE {
		t.Fatalf("expected RBRACE closing the substitution, got %v %q", rbrace.Type, rbrace.Literal)
	}

	tail := l.ReadTemplateContinuation()
	if tail.Type != TEMPLATE_STRING || tail.TemplateHead || !tail.TemplateTail {
		t.Fatalf("expected TemplateTail, got %+v", tail)
	}
	if !unitsEqual(tail.StringUnits, []uint16{'b'}) {
		t.Fatalf("unexpected tail units: %v", tail.StringUnits)
	}
}

func TestRegexLiteralWithCharacterClass(t *testing.T) {
	l := New("/[a-z/]+/gi")
	tok := l.NextToken(true)
	if tok.Type != REGEX {
		t.Fatalf("expected REGEX, got %v", tok.Type)
	}
	if tok.Literal != "[a-z/]+\x00gi" {
		t.Fatalf("unexpected regex literal encoding: %q", tok.Literal)
	}
}
