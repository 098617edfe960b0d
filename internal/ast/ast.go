// Package ast defines the Abstract Syntax Tree node types produced by
// the parser: tagged structs implementing a small family of marker
// interfaces (Node, Expression, Statement, Pattern), one file per
// grammar concern.
package ast

import (
	"bytes"
	"strings"
	"unicode/utf16"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/lexer"
)

// Node is the base interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() errors.Span
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node that performs an action without itself
// producing a value (though it may contain expression statements).
type Statement interface {
	Node
	statementNode()
}

// Pattern is a binding target: an Identifier, or a destructuring
// ArrayPattern/ObjectPattern/AssignmentPattern/RestElement. Every
// Expression that is also a valid binding target (bare Identifier,
// MemberExpression as an assignment target) implements Pattern too.
type Pattern interface {
	Node
	patternNode()
}

// Program is the parse root for a Script or Module goal.
type Program struct {
	Body       []Statement
	IsModule   bool
	HasUseStrict bool
}

func (p *Program) TokenLiteral() string {
	if len(p.Body) > 0 {
		return p.Body[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, stmt := range p.Body {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() errors.Span {
	if len(p.Body) > 0 {
		return p.Body[0].Pos()
	}
	return errors.Span{}
}

// Identifier is an interned name reference. Name is the per-parse
// interned string handle (small integer) the spec calls for; Text
// keeps the original spelling for printing and diagnostics.
type Identifier struct {
	Token lexer.Token
	Text  string
	Name  uint32
}

func (i *Identifier) expressionNode()    {}
func (i *Identifier) patternNode()       {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Text }
func (i *Identifier) Pos() errors.Span     { return i.Token.Span() }

// PrivateIdentifier is a `#name` reference, valid only inside a class
// body (as a field/method name or in `#x in obj`).
type PrivateIdentifier struct {
	Token lexer.Token
	Text  string // without the leading '#'
}

func (i *PrivateIdentifier) expressionNode()      {}
func (i *PrivateIdentifier) TokenLiteral() string { return i.Token.Literal }
func (i *PrivateIdentifier) String() string       { return "#" + i.Text }
func (i *PrivateIdentifier) Pos() errors.Span     { return i.Token.Span() }

// NumericLiteral is a Number-typed literal (not BigInt).
type NumericLiteral struct {
	Token lexer.Token
	Value float64
}

func (n *NumericLiteral) expressionNode()      {}
func (n *NumericLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NumericLiteral) String() string       { return n.Token.Literal }
func (n *NumericLiteral) Pos() errors.Span     { return n.Token.Span() }

// BigIntLiteral is a BigInt-typed literal (`123n`).
type BigIntLiteral struct {
	Token lexer.Token
	Raw   string // digits without the trailing 'n'
}

func (b *BigIntLiteral) expressionNode()      {}
func (b *BigIntLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BigIntLiteral) String() string       { return b.Raw + "n" }
func (b *BigIntLiteral) Pos() errors.Span     { return b.Token.Span() }

// StringLiteral is a quoted string literal, decoded to UTF-16 units.
type StringLiteral struct {
	Token lexer.Token
	Units []uint16
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string       { return "\"" + s.Token.Literal + "\"" }
func (s *StringLiteral) Pos() errors.Span     { return s.Token.Span() }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }
func (b *BooleanLiteral) Pos() errors.Span     { return b.Token.Span() }

// NullLiteral is `null`.
type NullLiteral struct {
	Token lexer.Token
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }
func (n *NullLiteral) Pos() errors.Span     { return n.Token.Span() }

// RegExpLiteral is a `/pattern/flags` literal.
type RegExpLiteral struct {
	Token   lexer.Token
	Pattern string
	Flags   string
}

func (r *RegExpLiteral) expressionNode()      {}
func (r *RegExpLiteral) TokenLiteral() string { return r.Token.Literal }
func (r *RegExpLiteral) String() string       { return "/" + r.Pattern + "/" + r.Flags }
func (r *RegExpLiteral) Pos() errors.Span     { return r.Token.Span() }

// ThisExpression is the `this` keyword used as an expression.
type ThisExpression struct {
	Token lexer.Token
}

func (t *ThisExpression) expressionNode()      {}
func (t *ThisExpression) TokenLiteral() string { return t.Token.Literal }
func (t *ThisExpression) String() string       { return "this" }
func (t *ThisExpression) Pos() errors.Span     { return t.Token.Span() }

// SuperExpression is `super` used as the target of a call or member
// access (`super(...)`, `super.method()`).
type SuperExpression struct {
	Token lexer.Token
}

func (s *SuperExpression) expressionNode()      {}
func (s *SuperExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SuperExpression) String() string       { return "super" }
func (s *SuperExpression) Pos() errors.Span     { return s.Token.Span() }

// ArrayLiteral is `[a, b, ...c]`; nil elements represent elisions
// (array holes, e.g. `[1, , 3]`).
type ArrayLiteral struct {
	Token    lexer.Token
	Elements []Expression
}

func (a *ArrayLiteral) expressionNode()      {}
func (a *ArrayLiteral) patternNode()         {} // reparsed as ArrayPattern when used as an assignment target
func (a *ArrayLiteral) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayLiteral) Pos() errors.Span     { return a.Token.Span() }
func (a *ArrayLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("[")
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e != nil {
			parts[i] = e.String()
		}
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("]")
	return out.String()
}

// ObjectProperty is one entry of an ObjectLiteral: a data property, a
// shorthand `{x}`, a computed `[expr]: value`, a method, or a spread.
type ObjectProperty struct {
	Key       Expression // Identifier, StringLiteral, NumericLiteral, or a computed Expression
	Value     Expression
	Computed  bool
	Shorthand bool
	Spread    bool
	Kind      PropertyKind
}

type PropertyKind int

const (
	PropertyInit PropertyKind = iota
	PropertyGet
	PropertySet
	PropertyMethod
)

// ObjectLiteral is `{ ...properties }`.
type ObjectLiteral struct {
	Token      lexer.Token
	Properties []ObjectProperty
}

func (o *ObjectLiteral) expressionNode()      {}
func (o *ObjectLiteral) patternNode()         {} // reparsed as ObjectPattern when used as an assignment target
func (o *ObjectLiteral) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectLiteral) Pos() errors.Span     { return o.Token.Span() }
func (o *ObjectLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("{")
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		if p.Spread {
			parts[i] = "..." + p.Value.String()
			continue
		}
		if p.Shorthand {
			parts[i] = p.Key.String()
			continue
		}
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString("}")
	return out.String()
}

// TemplateLiteral is a backtick template with zero or more
// substitutions: Quasis has len(Expressions)+1 entries.
type TemplateLiteral struct {
	Token       lexer.Token
	Quasis      [][]uint16
	Expressions []Expression
}

func (t *TemplateLiteral) expressionNode()      {}
func (t *TemplateLiteral) TokenLiteral() string { return t.Token.Literal }
func (t *TemplateLiteral) Pos() errors.Span     { return t.Token.Span() }
func (t *TemplateLiteral) String() string {
	var out bytes.Buffer
	out.WriteString("`")
	for i, q := range t.Quasis {
		out.WriteString(string(utf16.Decode(q)))
		if i < len(t.Expressions) {
			out.WriteString("${")
			out.WriteString(t.Expressions[i].String())
			out.WriteString("}")
		}
	}
	out.WriteString("`")
	return out.String()
}

// TaggedTemplateExpression is `tag` applied to a TemplateLiteral.
type TaggedTemplateExpression struct {
	Token    lexer.Token
	Tag      Expression
	Quasi    *TemplateLiteral
}

func (t *TaggedTemplateExpression) expressionNode()      {}
func (t *TaggedTemplateExpression) TokenLiteral() string { return t.Token.Literal }
func (t *TaggedTemplateExpression) Pos() errors.Span     { return t.Tag.Pos() }
func (t *TaggedTemplateExpression) String() string       { return t.Tag.String() + t.Quasi.String() }
