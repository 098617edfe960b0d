package ast

import (
	"bytes"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/lexer"
)

// MethodKind distinguishes a plain method from a getter/setter or the
// class constructor.
type MethodKind int

const (
	MethodNormal MethodKind = iota
	MethodGetter
	MethodSetter
	MethodConstructor
)

// ClassMethod is one method/accessor entry of a class body. Key is an
// Identifier, StringLiteral, NumericLiteral, PrivateIdentifier, or (if
// Computed) an arbitrary Expression.
type ClassMethod struct {
	Key      Expression
	Value    *FunctionExpression
	Kind     MethodKind
	Static   bool
	Computed bool
}

// ClassField is a class field declaration (`name = init;` or `#name;`),
// including static fields and private fields.
type ClassField struct {
	Key      Expression
	Value    Expression // nil if uninitialized
	Static   bool
	Computed bool
}

// StaticBlock is a `static { ... }` class initialization block.
type StaticBlock struct {
	Body *BlockStatement
}

// ClassBody holds the ordered member list of a class; order matters
// because field initializers and static blocks run in source order.
type ClassBody struct {
	Methods      []ClassMethod
	Fields       []ClassField
	StaticBlocks []StaticBlock
}

// ClassDeclaration is `class Name [extends Super] { body }`. Id is nil
// only for `export default class {}`.
type ClassDeclaration struct {
	Token      lexer.Token
	Id         *Identifier
	SuperClass Expression
	Body       ClassBody
}

func (c *ClassDeclaration) statementNode()       {}
func (c *ClassDeclaration) TokenLiteral() string { return c.Token.Literal }
func (c *ClassDeclaration) Pos() errors.Span     { return c.Token.Span() }
func (c *ClassDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("class ")
	if c.Id != nil {
		out.WriteString(c.Id.String() + " ")
	}
	if c.SuperClass != nil {
		out.WriteString("extends " + c.SuperClass.String() + " ")
	}
	out.WriteString("{ ... }")
	return out.String()
}

// ClassExpression is the expression-position counterpart of
// ClassDeclaration (`const C = class Name? extends Super {}`).
type ClassExpression struct {
	Token      lexer.Token
	Id         *Identifier
	SuperClass Expression
	Body       ClassBody
}

func (c *ClassExpression) expressionNode()      {}
func (c *ClassExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ClassExpression) Pos() errors.Span     { return c.Token.Span() }
func (c *ClassExpression) String() string {
	var out bytes.Buffer
	out.WriteString("class ")
	if c.Id != nil {
		out.WriteString(c.Id.String() + " ")
	}
	if c.SuperClass != nil {
		out.WriteString("extends " + c.SuperClass.String() + " ")
	}
	out.WriteString("{ ... }")
	return out.String()
}
