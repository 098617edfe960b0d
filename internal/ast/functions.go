package ast

import (
	"bytes"
	"strings"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/lexer"
)

// FunctionDeclaration is `function name(params) { body }`, with the
// generator/async flags controlling which opcodes the compiler emits
// for `yield`/`await` inside Body. Id is nil only for a default-export
// anonymous function declaration (`export default function () {}`).
type FunctionDeclaration struct {
	Token       lexer.Token
	Id          *Identifier
	Params      []Pattern
	Body        *BlockStatement
	IsGenerator bool
	IsAsync     bool
}

func (f *FunctionDeclaration) statementNode()       {}
func (f *FunctionDeclaration) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDeclaration) Pos() errors.Span     { return f.Token.Span() }
func (f *FunctionDeclaration) String() string {
	var out bytes.Buffer
	if f.IsAsync {
		out.WriteString("async ")
	}
	out.WriteString("function")
	if f.IsGenerator {
		out.WriteString("*")
	}
	out.WriteString(" ")
	if f.Id != nil {
		out.WriteString(f.Id.String())
	}
	out.WriteString("(")
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}

// FunctionExpression is the expression-position counterpart of
// FunctionDeclaration (`const f = function name?(params) { body }`).
type FunctionExpression struct {
	Token       lexer.Token
	Id          *Identifier // nil for an anonymous function expression
	Params      []Pattern
	Body        *BlockStatement
	IsGenerator bool
	IsAsync     bool
}

func (f *FunctionExpression) expressionNode()      {}
func (f *FunctionExpression) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionExpression) Pos() errors.Span     { return f.Token.Span() }
func (f *FunctionExpression) String() string {
	var out bytes.Buffer
	if f.IsAsync {
		out.WriteString("async ")
	}
	out.WriteString("function")
	if f.IsGenerator {
		out.WriteString("*")
	}
	out.WriteString(" ")
	if f.Id != nil {
		out.WriteString(f.Id.String())
	}
	out.WriteString("(")
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}
