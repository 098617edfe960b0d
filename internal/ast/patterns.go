package ast

import (
	"strings"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/lexer"
)

// ArrayPattern is a destructuring target `[a, , b, ...rest]`; nil
// entries are elisions, a trailing *RestElement is the rest target.
type ArrayPattern struct {
	Token    lexer.Token
	Elements []Pattern
}

func (a *ArrayPattern) expressionNode()      {}
func (a *ArrayPattern) patternNode()         {}
func (a *ArrayPattern) TokenLiteral() string { return a.Token.Literal }
func (a *ArrayPattern) Pos() errors.Span     { return a.Token.Span() }
func (a *ArrayPattern) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		if e != nil {
			parts[i] = e.String()
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectPatternProperty is one destructured binding: `{ key: value }`,
// `{ key }` (shorthand), or `{ [computed]: value }`.
type ObjectPatternProperty struct {
	Key      Expression
	Value    Pattern
	Computed bool
	Shorthand bool
}

// ObjectPattern is a destructuring target `{ a, b: c, ...rest }`.
type ObjectPattern struct {
	Token      lexer.Token
	Properties []ObjectPatternProperty
	Rest       *RestElement // nil if no trailing `...rest`
}

func (o *ObjectPattern) expressionNode()      {}
func (o *ObjectPattern) patternNode()         {}
func (o *ObjectPattern) TokenLiteral() string { return o.Token.Literal }
func (o *ObjectPattern) Pos() errors.Span     { return o.Token.Span() }
func (o *ObjectPattern) String() string {
	parts := make([]string, 0, len(o.Properties)+1)
	for _, p := range o.Properties {
		if p.Shorthand {
			parts = append(parts, p.Key.String())
			continue
		}
		parts = append(parts, p.Key.String()+": "+p.Value.String())
	}
	if o.Rest != nil {
		parts = append(parts, o.Rest.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// RestElement is the trailing `...name` of a destructuring pattern or
// a function's rest parameter.
type RestElement struct {
	Token    lexer.Token
	Argument Pattern
}

func (r *RestElement) expressionNode()      {}
func (r *RestElement) patternNode()         {}
func (r *RestElement) TokenLiteral() string { return r.Token.Literal }
func (r *RestElement) Pos() errors.Span     { return r.Token.Span() }
func (r *RestElement) String() string       { return "..." + r.Argument.String() }

// AssignmentPattern is a destructuring default `name = defaultValue`,
// valid in array elements, object values, and parameter lists.
type AssignmentPattern struct {
	Token   lexer.Token
	Target  Pattern
	Default Expression
}

func (a *AssignmentPattern) expressionNode()      {}
func (a *AssignmentPattern) patternNode()         {}
func (a *AssignmentPattern) TokenLiteral() string { return a.Token.Literal }
func (a *AssignmentPattern) Pos() errors.Span     { return a.Target.Pos() }
func (a *AssignmentPattern) String() string {
	return a.Target.String() + " = " + a.Default.String()
}
