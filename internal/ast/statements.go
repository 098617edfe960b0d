package ast

import (
	"bytes"
	"strings"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/lexer"
)

// ExpressionStatement wraps an expression used for its side effect.
type ExpressionStatement struct {
	Token      lexer.Token
	Expression Expression
}

func (e *ExpressionStatement) statementNode()       {}
func (e *ExpressionStatement) TokenLiteral() string { return e.Token.Literal }
func (e *ExpressionStatement) Pos() errors.Span     { return e.Token.Span() }
func (e *ExpressionStatement) String() string {
	if e.Expression != nil {
		return e.Expression.String() + ";"
	}
	return ";"
}

// BlockStatement is a `{ ...statements }` braced block, introducing a
// new declarative lexical scope for any `let`/`const`/`class` it
// directly contains.
type BlockStatement struct {
	Token lexer.Token
	Body  []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() errors.Span     { return b.Token.Span() }
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range b.Body {
		out.WriteString("  ")
		out.WriteString(strings.ReplaceAll(s.String(), "\n", "\n  "))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// DeclarationKind distinguishes `var`/`let`/`const`.
type DeclarationKind int

const (
	DeclVar DeclarationKind = iota
	DeclLet
	DeclConst
)

func (k DeclarationKind) String() string {
	switch k {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	default:
		return "var"
	}
}

// VariableDeclarator is one `name = init` entry of a VariableDeclaration.
type VariableDeclarator struct {
	Target Pattern
	Init   Expression // nil if uninitialized
}

// VariableDeclaration is `var|let|const a = 1, b, c = 2;`.
type VariableDeclaration struct {
	Token        lexer.Token
	Kind         DeclarationKind
	Declarations []VariableDeclarator
}

func (v *VariableDeclaration) statementNode()       {}
func (v *VariableDeclaration) TokenLiteral() string { return v.Token.Literal }
func (v *VariableDeclaration) Pos() errors.Span     { return v.Token.Span() }
func (v *VariableDeclaration) String() string {
	parts := make([]string, len(v.Declarations))
	for i, d := range v.Declarations {
		if d.Init != nil {
			parts[i] = d.Target.String() + " = " + d.Init.String()
		} else {
			parts[i] = d.Target.String()
		}
	}
	return v.Kind.String() + " " + strings.Join(parts, ", ") + ";"
}

// IfStatement is `if (test) consequent [else alternate]`.
type IfStatement struct {
	Token       lexer.Token
	Test        Expression
	Consequent  Statement
	Alternate   Statement // nil if no else clause
}

func (i *IfStatement) statementNode()       {}
func (i *IfStatement) TokenLiteral() string { return i.Token.Literal }
func (i *IfStatement) Pos() errors.Span     { return i.Token.Span() }
func (i *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(i.Test.String())
	out.WriteString(") ")
	out.WriteString(i.Consequent.String())
	if i.Alternate != nil {
		out.WriteString(" else ")
		out.WriteString(i.Alternate.String())
	}
	return out.String()
}

// ForStatement is the classic C-style `for (init; test; update) body`.
// Init may be nil, a VariableDeclaration, or an ExpressionStatement.
type ForStatement struct {
	Token  lexer.Token
	Init   Node
	Test   Expression
	Update Expression
	Body   Statement
}

func (f *ForStatement) statementNode()       {}
func (f *ForStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForStatement) Pos() errors.Span     { return f.Token.Span() }
func (f *ForStatement) String() string {
	init := ""
	if f.Init != nil {
		init = f.Init.String()
	}
	test := ""
	if f.Test != nil {
		test = f.Test.String()
	}
	update := ""
	if f.Update != nil {
		update = f.Update.String()
	}
	return "for (" + init + "; " + test + "; " + update + ") " + f.Body.String()
}

// ForInStatement is `for (left in right) body`.
type ForInStatement struct {
	Token lexer.Token
	Left  Node // VariableDeclaration (single declarator) or an assignment-target Pattern
	Right Expression
	Body  Statement
}

func (f *ForInStatement) statementNode()       {}
func (f *ForInStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForInStatement) Pos() errors.Span     { return f.Token.Span() }
func (f *ForInStatement) String() string {
	return "for (" + f.Left.String() + " in " + f.Right.String() + ") " + f.Body.String()
}

// ForOfStatement is `for [await] (left of right) body`.
type ForOfStatement struct {
	Token   lexer.Token
	Left    Node
	Right   Expression
	Body    Statement
	IsAwait bool
}

func (f *ForOfStatement) statementNode()       {}
func (f *ForOfStatement) TokenLiteral() string { return f.Token.Literal }
func (f *ForOfStatement) Pos() errors.Span     { return f.Token.Span() }
func (f *ForOfStatement) String() string {
	kw := "for ("
	if f.IsAwait {
		kw = "for await ("
	}
	return kw + f.Left.String() + " of " + f.Right.String() + ") " + f.Body.String()
}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Token lexer.Token
	Test  Expression
	Body  Statement
}

func (w *WhileStatement) statementNode()       {}
func (w *WhileStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WhileStatement) Pos() errors.Span     { return w.Token.Span() }
func (w *WhileStatement) String() string {
	return "while (" + w.Test.String() + ") " + w.Body.String()
}

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	Token lexer.Token
	Body  Statement
	Test  Expression
}

func (d *DoWhileStatement) statementNode()       {}
func (d *DoWhileStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DoWhileStatement) Pos() errors.Span     { return d.Token.Span() }
func (d *DoWhileStatement) String() string {
	return "do " + d.Body.String() + " while (" + d.Test.String() + ");"
}

// SwitchCase is one `case test:`/`default:` arm of a SwitchStatement.
// Test is nil for the default case.
type SwitchCase struct {
	Test        Expression
	Consequent  []Statement
}

// SwitchStatement is `switch (discriminant) { cases }`.
type SwitchStatement struct {
	Token         lexer.Token
	Discriminant  Expression
	Cases         []SwitchCase
}

func (s *SwitchStatement) statementNode()       {}
func (s *SwitchStatement) TokenLiteral() string { return s.Token.Literal }
func (s *SwitchStatement) Pos() errors.Span     { return s.Token.Span() }
func (s *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString("switch (")
	out.WriteString(s.Discriminant.String())
	out.WriteString(") {\n")
	for _, c := range s.Cases {
		if c.Test != nil {
			out.WriteString("case " + c.Test.String() + ":\n")
		} else {
			out.WriteString("default:\n")
		}
		for _, st := range c.Consequent {
			out.WriteString("  " + st.String() + "\n")
		}
	}
	out.WriteString("}")
	return out.String()
}

// BreakStatement is `break [label];`.
type BreakStatement struct {
	Token lexer.Token
	Label *Identifier // nil if unlabeled
}

func (b *BreakStatement) statementNode()       {}
func (b *BreakStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BreakStatement) Pos() errors.Span     { return b.Token.Span() }
func (b *BreakStatement) String() string {
	if b.Label != nil {
		return "break " + b.Label.String() + ";"
	}
	return "break;"
}

// ContinueStatement is `continue [label];`.
type ContinueStatement struct {
	Token lexer.Token
	Label *Identifier
}

func (c *ContinueStatement) statementNode()       {}
func (c *ContinueStatement) TokenLiteral() string { return c.Token.Literal }
func (c *ContinueStatement) Pos() errors.Span     { return c.Token.Span() }
func (c *ContinueStatement) String() string {
	if c.Label != nil {
		return "continue " + c.Label.String() + ";"
	}
	return "continue;"
}

// ReturnStatement is `return [argument];`, valid only inside a
// function body.
type ReturnStatement struct {
	Token    lexer.Token
	Argument Expression // nil for bare `return;`
}

func (r *ReturnStatement) statementNode()       {}
func (r *ReturnStatement) TokenLiteral() string { return r.Token.Literal }
func (r *ReturnStatement) Pos() errors.Span     { return r.Token.Span() }
func (r *ReturnStatement) String() string {
	if r.Argument != nil {
		return "return " + r.Argument.String() + ";"
	}
	return "return;"
}

// ThrowStatement is `throw argument;`.
type ThrowStatement struct {
	Token    lexer.Token
	Argument Expression
}

func (t *ThrowStatement) statementNode()       {}
func (t *ThrowStatement) TokenLiteral() string { return t.Token.Literal }
func (t *ThrowStatement) Pos() errors.Span     { return t.Token.Span() }
func (t *ThrowStatement) String() string       { return "throw " + t.Argument.String() + ";" }

// CatchClause is the `catch (param) { body }` part of a TryStatement;
// Param is nil for a parameter-less `catch { ... }`.
type CatchClause struct {
	Token lexer.Token
	Param Pattern
	Body  *BlockStatement
}

// TryStatement is `try { block } [catch (e) { ... }] [finally { ... }]`.
type TryStatement struct {
	Token     lexer.Token
	Block     *BlockStatement
	Handler   *CatchClause // nil if no catch
	Finalizer *BlockStatement // nil if no finally
}

func (t *TryStatement) statementNode()       {}
func (t *TryStatement) TokenLiteral() string { return t.Token.Literal }
func (t *TryStatement) Pos() errors.Span     { return t.Token.Span() }
func (t *TryStatement) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(t.Block.String())
	if t.Handler != nil {
		out.WriteString(" catch ")
		if t.Handler.Param != nil {
			out.WriteString("(" + t.Handler.Param.String() + ") ")
		}
		out.WriteString(t.Handler.Body.String())
	}
	if t.Finalizer != nil {
		out.WriteString(" finally ")
		out.WriteString(t.Finalizer.String())
	}
	return out.String()
}

// LabeledStatement is `label: body`.
type LabeledStatement struct {
	Token lexer.Token
	Label *Identifier
	Body  Statement
}

func (l *LabeledStatement) statementNode()       {}
func (l *LabeledStatement) TokenLiteral() string { return l.Token.Literal }
func (l *LabeledStatement) Pos() errors.Span     { return l.Token.Span() }
func (l *LabeledStatement) String() string {
	return l.Label.String() + ": " + l.Body.String()
}

// WithStatement is `with (object) body`, a sloppy-mode-only construct
// that pushes an object environment record onto the scope chain.
type WithStatement struct {
	Token  lexer.Token
	Object Expression
	Body   Statement
}

func (w *WithStatement) statementNode()       {}
func (w *WithStatement) TokenLiteral() string { return w.Token.Literal }
func (w *WithStatement) Pos() errors.Span     { return w.Token.Span() }
func (w *WithStatement) String() string {
	return "with (" + w.Object.String() + ") " + w.Body.String()
}

// DebuggerStatement is the `debugger;` statement.
type DebuggerStatement struct {
	Token lexer.Token
}

func (d *DebuggerStatement) statementNode()       {}
func (d *DebuggerStatement) TokenLiteral() string { return d.Token.Literal }
func (d *DebuggerStatement) Pos() errors.Span     { return d.Token.Span() }
func (d *DebuggerStatement) String() string       { return "debugger;" }

// EmptyStatement is a bare `;`.
type EmptyStatement struct {
	Token lexer.Token
}

func (e *EmptyStatement) statementNode()       {}
func (e *EmptyStatement) TokenLiteral() string { return e.Token.Literal }
func (e *EmptyStatement) Pos() errors.Span     { return e.Token.Span() }
func (e *EmptyStatement) String() string       { return ";" }
