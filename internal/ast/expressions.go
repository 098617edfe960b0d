package ast

import (
	"bytes"
	"strings"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/lexer"
)

// BinaryExpression covers every two-operand operator except the
// short-circuiting logical ones (see LogicalExpression). `in` and
// `instanceof` are included: Operator holds their token spelling, with
// no dedicated node.
type BinaryExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) Pos() errors.Span     { return b.Left.Pos() }
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// LogicalExpression covers `&&`, `||`, and `??`, kept distinct from
// BinaryExpression because they short-circuit and the compiler must
// emit conditional jumps rather than always evaluating both operands.
type LogicalExpression struct {
	Token    lexer.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (l *LogicalExpression) expressionNode()      {}
func (l *LogicalExpression) TokenLiteral() string { return l.Token.Literal }
func (l *LogicalExpression) Pos() errors.Span     { return l.Left.Pos() }
func (l *LogicalExpression) String() string {
	return "(" + l.Left.String() + " " + l.Operator + " " + l.Right.String() + ")"
}

// UnaryExpression is a prefix operator: `-`, `+`, `!`, `~`, `typeof`,
// `void`, `delete`.
type UnaryExpression struct {
	Token    lexer.Token
	Operator string
	Argument Expression
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) Pos() errors.Span     { return u.Token.Span() }
func (u *UnaryExpression) String() string {
	sep := ""
	if len(u.Operator) > 0 && (u.Operator[0] >= 'a' && u.Operator[0] <= 'z') {
		sep = " "
	}
	return "(" + u.Operator + sep + u.Argument.String() + ")"
}

// UpdateExpression is `++`/`--`, prefix or postfix.
type UpdateExpression struct {
	Token    lexer.Token
	Operator string
	Argument Expression
	Prefix   bool
}

func (u *UpdateExpression) expressionNode()      {}
func (u *UpdateExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UpdateExpression) Pos() errors.Span     { return u.Token.Span() }
func (u *UpdateExpression) String() string {
	if u.Prefix {
		return u.Operator + u.Argument.String()
	}
	return u.Argument.String() + u.Operator
}

// ConditionalExpression is `test ? consequent : alternate`.
type ConditionalExpression struct {
	Token       lexer.Token
	Test        Expression
	Consequent  Expression
	Alternate   Expression
}

func (c *ConditionalExpression) expressionNode()      {}
func (c *ConditionalExpression) TokenLiteral() string { return c.Token.Literal }
func (c *ConditionalExpression) Pos() errors.Span     { return c.Test.Pos() }
func (c *ConditionalExpression) String() string {
	return "(" + c.Test.String() + " ? " + c.Consequent.String() + " : " + c.Alternate.String() + ")"
}

// AssignmentExpression is `target op= value`; Target may be an
// Identifier, MemberExpression, ArrayPattern, or ObjectPattern
// (destructuring assignment reparsed from an array/object literal).
type AssignmentExpression struct {
	Token    lexer.Token
	Target   Node // Pattern or Expression assignment target
	Operator string
	Value    Expression
}

func (a *AssignmentExpression) expressionNode()      {}
func (a *AssignmentExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AssignmentExpression) Pos() errors.Span     { return a.Target.Pos() }
func (a *AssignmentExpression) String() string {
	return "(" + a.Target.String() + " " + a.Operator + " " + a.Value.String() + ")"
}

// SequenceExpression is the comma operator `a, b, c`.
type SequenceExpression struct {
	Token       lexer.Token
	Expressions []Expression
}

func (s *SequenceExpression) expressionNode()      {}
func (s *SequenceExpression) TokenLiteral() string { return s.Token.Literal }
func (s *SequenceExpression) Pos() errors.Span     { return s.Expressions[0].Pos() }
func (s *SequenceExpression) String() string {
	parts := make([]string, len(s.Expressions))
	for i, e := range s.Expressions {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

// MemberExpression is `object.property` or `object[property]`, with
// Optional set for `?.` chaining links.
type MemberExpression struct {
	Token    lexer.Token
	Object   Expression
	Property Expression // Identifier for dotted access, any Expression when Computed
	Computed bool
	Optional bool
}

func (m *MemberExpression) expressionNode()      {}
func (m *MemberExpression) patternNode()         {} // valid assignment target
func (m *MemberExpression) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpression) Pos() errors.Span     { return m.Object.Pos() }
func (m *MemberExpression) String() string {
	op := "."
	if m.Optional {
		op = "?."
	}
	if m.Computed {
		return m.Object.String() + op + "[" + m.Property.String() + "]"
	}
	return m.Object.String() + op + m.Property.String()
}

// CallExpression is `callee(...arguments)`. Arguments may include a
// SpreadElement entry for `f(...args)`.
type CallExpression struct {
	Token     lexer.Token
	Callee    Expression
	Arguments []Expression
	Optional  bool
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() errors.Span     { return c.Callee.Pos() }
func (c *CallExpression) String() string {
	var out bytes.Buffer
	out.WriteString(c.Callee.String())
	if c.Optional {
		out.WriteString("?.")
	}
	out.WriteString("(")
	parts := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = a.String()
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(")")
	return out.String()
}

// NewExpression is `new callee(...arguments)`.
type NewExpression struct {
	Token     lexer.Token
	Callee    Expression
	Arguments []Expression
}

func (n *NewExpression) expressionNode()      {}
func (n *NewExpression) TokenLiteral() string { return n.Token.Literal }
func (n *NewExpression) Pos() errors.Span     { return n.Token.Span() }
func (n *NewExpression) String() string {
	parts := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		parts[i] = a.String()
	}
	return "new " + n.Callee.String() + "(" + strings.Join(parts, ", ") + ")"
}

// SpreadElement is `...expr`, valid inside array literals, call
// arguments, and new-expression arguments.
type SpreadElement struct {
	Token    lexer.Token
	Argument Expression
}

func (s *SpreadElement) expressionNode()      {}
func (s *SpreadElement) TokenLiteral() string { return s.Token.Literal }
func (s *SpreadElement) Pos() errors.Span     { return s.Token.Span() }
func (s *SpreadElement) String() string       { return "..." + s.Argument.String() }

// YieldExpression is `yield` / `yield expr` / `yield* expr`, valid
// only inside a generator function body.
type YieldExpression struct {
	Token    lexer.Token
	Argument Expression // nil for a bare `yield`
	Delegate bool        // true for `yield*`
}

func (y *YieldExpression) expressionNode()      {}
func (y *YieldExpression) TokenLiteral() string { return y.Token.Literal }
func (y *YieldExpression) Pos() errors.Span     { return y.Token.Span() }
func (y *YieldExpression) String() string {
	star := ""
	if y.Delegate {
		star = "*"
	}
	if y.Argument == nil {
		return "yield" + star
	}
	return "yield" + star + " " + y.Argument.String()
}

// AwaitExpression is `await expr`, valid only inside an async function
// body or a module's top level.
type AwaitExpression struct {
	Token    lexer.Token
	Argument Expression
}

func (a *AwaitExpression) expressionNode()      {}
func (a *AwaitExpression) TokenLiteral() string { return a.Token.Literal }
func (a *AwaitExpression) Pos() errors.Span     { return a.Token.Span() }
func (a *AwaitExpression) String() string       { return "await " + a.Argument.String() }

// ArrowFunctionExpression is `(params) => body`, where Body is either
// an Expression (concise body) or a *BlockStatement.
type ArrowFunctionExpression struct {
	Token   lexer.Token
	Params  []Pattern
	Body    Node
	IsAsync bool
	ExpressionBody bool
}

func (a *ArrowFunctionExpression) expressionNode()      {}
func (a *ArrowFunctionExpression) TokenLiteral() string { return a.Token.Literal }
func (a *ArrowFunctionExpression) Pos() errors.Span     { return a.Token.Span() }
func (a *ArrowFunctionExpression) String() string {
	parts := make([]string, len(a.Params))
	for i, p := range a.Params {
		parts[i] = p.String()
	}
	prefix := ""
	if a.IsAsync {
		prefix = "async "
	}
	return prefix + "(" + strings.Join(parts, ", ") + ") => " + a.Body.String()
}
