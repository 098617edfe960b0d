// Package parser implements the ECMAScript parser: a recursive-descent
// parser for statements, and a Pratt (precedence-climbing) parser for
// expressions, following the same prefix/infix-function-table shape as
// a classic Pratt parser. Cover-grammar ambiguities (arrow-function
// parameter lists vs. parenthesized expressions, destructuring
// patterns vs. array/object literals) are resolved by reparsing rather
// than a dedicated cover grammar: an expression is parsed once as an
// Expression and converted in place when the surrounding grammar
// demands a Pattern.
package parser

import (
	"fmt"

	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/lexer"
)

// Precedence levels, lowest to highest. Matches the operator-precedence
// table of the ECMAScript grammar's AssignmentExpression chain.
const (
	_ int = iota
	LOWEST
	COMMA
	ASSIGN
	CONDITIONAL
	NULLISH
	LOGICAL_OR
	LOGICAL_AND
	BIT_OR
	BIT_XOR
	BIT_AND
	EQUALITY
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	EXPONENT
	UNARY
	POSTFIX
	CALL
	MEMBER
)

var precedences = map[lexer.TokenType]int{
	lexer.COMMA: COMMA,

	lexer.ASSIGN: ASSIGN, lexer.PLUS_ASSIGN: ASSIGN, lexer.MINUS_ASSIGN: ASSIGN,
	lexer.STAR_ASSIGN: ASSIGN, lexer.SLASH_ASSIGN: ASSIGN, lexer.PERCENT_ASSIGN: ASSIGN,
	lexer.STAR_STAR_ASSIGN: ASSIGN, lexer.SHL_ASSIGN: ASSIGN, lexer.SHR_ASSIGN: ASSIGN,
	lexer.USHR_ASSIGN: ASSIGN, lexer.AND_ASSIGN: ASSIGN, lexer.OR_ASSIGN: ASSIGN,
	lexer.XOR_ASSIGN: ASSIGN, lexer.LOGICAL_AND_ASSIGN: ASSIGN, lexer.LOGICAL_OR_ASSIGN: ASSIGN,
	lexer.QUESTION_QUESTION_ASSIGN: ASSIGN,

	lexer.QUESTION: CONDITIONAL,

	lexer.QUESTION_QUESTION: NULLISH,
	lexer.LOGICAL_OR:        LOGICAL_OR,
	lexer.LOGICAL_AND:       LOGICAL_AND,
	lexer.BIT_OR:            BIT_OR,
	lexer.BIT_XOR:           BIT_XOR,
	lexer.BIT_AND:           BIT_AND,

	lexer.EQ: EQUALITY, lexer.NOT_EQ: EQUALITY, lexer.STRICT_EQ: EQUALITY, lexer.STRICT_NOT_EQ: EQUALITY,

	lexer.LT: RELATIONAL, lexer.GT: RELATIONAL, lexer.LTE: RELATIONAL, lexer.GTE: RELATIONAL,
	lexer.KW_INSTANCEOF: RELATIONAL, lexer.KW_IN: RELATIONAL,

	lexer.SHL: SHIFT, lexer.SHR: SHIFT, lexer.USHR: SHIFT,

	lexer.PLUS: ADDITIVE, lexer.MINUS: ADDITIVE,

	lexer.STAR: MULTIPLICATIVE, lexer.SLASH: MULTIPLICATIVE, lexer.PERCENT: MULTIPLICATIVE,

	lexer.STAR_STAR: EXPONENT,

	lexer.LPAREN: CALL, lexer.QUESTION_DOT: CALL,
	lexer.LBRACKET: MEMBER, lexer.DOT: MEMBER,

	lexer.INCREMENT: POSTFIX, lexer.DECREMENT: POSTFIX,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Parser scans lexer.Token via a two-token window (current + peek) and
// builds the ast.Program. Each function-body parse tracks [Yield] and
// [Await] grammar parameters via inGenerator/inAsync so that `yield`/
// `await` are treated as keywords only where the grammar allows.
type Parser struct {
	l      *lexer.Lexer
	source string

	cur  lexer.Token
	peek lexer.Token

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	interner *Interner
	errs     errors.ErrorList

	inGenerator bool
	inAsync     bool
	inFunction  bool
	inLoop      int
	inSwitch    int
	strict      bool
	noIn        bool // [~In] grammar parameter while parsing a for-statement's init clause

	regexAllowed bool

	// templateResumePending makes the next nextToken() fetch peek via
	// the lexer's template-continuation entry point instead of an
	// ordinary scan. Set right before advancing onto the `}` token that
	// closes a `${...}` substitution.
	templateResumePending bool
}

func New(source string) *Parser {
	p := &Parser{l: lexer.New(source), source: source, interner: NewInterner()}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:           p.parseIdentifierExpr,
		lexer.PRIVATE_IDENT:   p.parsePrivateIdentifierExpr,
		lexer.NUMBER:          p.parseNumericLiteral,
		lexer.BIGINT:          p.parseBigIntLiteral,
		lexer.STRING:          p.parseStringLiteral,
		lexer.TEMPLATE_STRING: p.parseTemplateLiteral,
		lexer.REGEX:           p.parseRegExpLiteral,
		lexer.KW_TRUE:         p.parseBooleanLiteral,
		lexer.KW_FALSE:        p.parseBooleanLiteral,
		lexer.KW_NULL:         p.parseNullLiteral,
		lexer.KW_THIS:         p.parseThisExpr,
		lexer.KW_SUPER:        p.parseSuperExpr,
		lexer.KW_FUNCTION:     p.parseFunctionExpr,
		lexer.KW_CLASS:        p.parseClassExpr,
		lexer.KW_NEW:          p.parseNewExpr,
		lexer.KW_YIELD:        p.parseYieldExpr,
		lexer.KW_AWAIT:        p.parseAwaitExpr,
		lexer.KW_TYPEOF:       p.parseUnaryExpr,
		lexer.KW_VOID:         p.parseUnaryExpr,
		lexer.KW_DELETE:       p.parseUnaryExpr,
		lexer.PLUS:            p.parseUnaryExpr,
		lexer.MINUS:           p.parseUnaryExpr,
		lexer.BIT_NOT:         p.parseUnaryExpr,
		lexer.LOGICAL_NOT:     p.parseUnaryExpr,
		lexer.INCREMENT:       p.parseUpdatePrefix,
		lexer.DECREMENT:       p.parseUpdatePrefix,
		lexer.LPAREN:          p.parseParenOrArrow,
		lexer.LBRACKET:        p.parseArrayLiteral,
		lexer.LBRACE:          p.parseObjectLiteral,
		lexer.KW_ASYNC:        p.parseAsyncExpr,
	}

	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.COMMA: p.parseSequenceExpr,

		lexer.ASSIGN: p.parseAssignmentExpr, lexer.PLUS_ASSIGN: p.parseAssignmentExpr,
		lexer.MINUS_ASSIGN: p.parseAssignmentExpr, lexer.STAR_ASSIGN: p.parseAssignmentExpr,
		lexer.SLASH_ASSIGN: p.parseAssignmentExpr, lexer.PERCENT_ASSIGN: p.parseAssignmentExpr,
		lexer.STAR_STAR_ASSIGN: p.parseAssignmentExpr, lexer.SHL_ASSIGN: p.parseAssignmentExpr,
		lexer.SHR_ASSIGN: p.parseAssignmentExpr, lexer.USHR_ASSIGN: p.parseAssignmentExpr,
		lexer.AND_ASSIGN: p.parseAssignmentExpr, lexer.OR_ASSIGN: p.parseAssignmentExpr,
		lexer.XOR_ASSIGN: p.parseAssignmentExpr, lexer.LOGICAL_AND_ASSIGN: p.parseAssignmentExpr,
		lexer.LOGICAL_OR_ASSIGN: p.parseAssignmentExpr, lexer.QUESTION_QUESTION_ASSIGN: p.parseAssignmentExpr,

		lexer.QUESTION: p.parseConditionalExpr,

		lexer.QUESTION_QUESTION: p.parseLogicalExpr,
		lexer.LOGICAL_OR:        p.parseLogicalExpr,
		lexer.LOGICAL_AND:       p.parseLogicalExpr,

		lexer.BIT_OR: p.parseBinaryExpr, lexer.BIT_XOR: p.parseBinaryExpr, lexer.BIT_AND: p.parseBinaryExpr,
		lexer.EQ: p.parseBinaryExpr, lexer.NOT_EQ: p.parseBinaryExpr,
		lexer.STRICT_EQ: p.parseBinaryExpr, lexer.STRICT_NOT_EQ: p.parseBinaryExpr,
		lexer.LT: p.parseBinaryExpr, lexer.GT: p.parseBinaryExpr, lexer.LTE: p.parseBinaryExpr, lexer.GTE: p.parseBinaryExpr,
		lexer.KW_INSTANCEOF: p.parseBinaryExpr, lexer.KW_IN: p.parseBinaryExpr,
		lexer.SHL: p.parseBinaryExpr, lexer.SHR: p.parseBinaryExpr, lexer.USHR: p.parseBinaryExpr,
		lexer.PLUS: p.parseBinaryExpr, lexer.MINUS: p.parseBinaryExpr,
		lexer.STAR: p.parseBinaryExpr, lexer.SLASH: p.parseBinaryExpr, lexer.PERCENT: p.parseBinaryExpr,
		lexer.STAR_STAR: p.parseBinaryExpr,

		lexer.LPAREN:       p.parseCallExpr,
		lexer.QUESTION_DOT: p.parseOptionalChain,
		lexer.LBRACKET:     p.parseMemberExprComputed,
		lexer.DOT:          p.parseMemberExprDotted,

		lexer.INCREMENT: p.parseUpdatePostfix,
		lexer.DECREMENT: p.parseUpdatePostfix,
	}

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) Errors() []*errors.CompilerError { return p.errs.Errors }

func (p *Parser) addError(span errors.Span, format string, args ...any) {
	p.errs.Add(errors.NewCompilerError(errors.PhaseParse, span, fmt.Sprintf(format, args...), p.source, ""))
}

// regexContextAllowed reports whether a `/` at the current scan
// position should be read as a regex literal: true unless the previous
// token can end an expression (identifier, literal, `)`, `]`, or a
// postfix `++`/`--`).
func (p *Parser) regexContextAllowed() bool {
	switch p.cur.Type {
	case lexer.IDENT, lexer.NUMBER, lexer.BIGINT, lexer.STRING, lexer.TEMPLATE_STRING,
		lexer.RPAREN, lexer.RBRACKET, lexer.KW_THIS, lexer.KW_SUPER, lexer.KW_TRUE, lexer.KW_FALSE, lexer.KW_NULL,
		lexer.INCREMENT, lexer.DECREMENT:
		return false
	default:
		return true
	}
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	if p.templateResumePending {
		p.templateResumePending = false
		p.peek = p.l.ReadTemplateContinuation()
		return
	}
	p.peek = p.l.NextToken(p.regexContextAllowed())
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.addError(p.peek.Span(), "unexpected token %q, expected %v", p.peek.Literal, t)
	return false
}

// expectSemicolon implements automatic semicolon insertion:
// `;` is consumed literally if present; otherwise ASI applies when the
// next token starts on a new line, is `}`, or is EOF.
func (p *Parser) expectSemicolon() {
	if p.curIs(lexer.SEMICOLON) {
		p.nextToken()
		return
	}
	if p.cur.NewlineBefore || p.curIs(lexer.RBRACE) || p.curIs(lexer.EOF) {
		return
	}
	p.addError(p.cur.Span(), "unexpected token %q, expected ';'", p.cur.Literal)
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if p.noIn && p.peek.Type == lexer.KW_IN {
		return LOWEST
	}
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses an entire Script. For a Module goal, callers use
// ParseModule instead. Both parse import/export declarations wherever a
// statement may appear; neither goal rejects them.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Body = append(prog.Body, stmt)
		} else {
			p.nextToken()
		}
	}
	prog.HasUseStrict = hasUseStrictDirective(prog.Body)
	if prog.HasUseStrict {
		p.strict = true
	}
	return prog
}

// hasUseStrictDirective reports whether the directive prologue (the
// leading run of plain string-literal expression statements) contains
// exactly "use strict".
func hasUseStrictDirective(body []ast.Statement) bool {
	for _, stmt := range body {
		es, ok := stmt.(*ast.ExpressionStatement)
		if !ok {
			return false
		}
		str, ok := es.Expression.(*ast.StringLiteral)
		if !ok {
			return false
		}
		if str.Token.Literal == "use strict" {
			return true
		}
	}
	return false
}

// ParseModule parses a Module goal: the same statement grammar as
// ParseProgram, with the result marked IsModule. A Module's top level is
// always strict, regardless of directive.
func (p *Parser) ParseModule() *ast.Program {
	p.strict = true
	prog := p.ParseProgram()
	prog.IsModule = true
	return prog
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.cur.Type]
	if !ok {
		p.addError(p.cur.Span(), "unexpected token %q in expression", p.cur.Literal)
		return nil
	}
	left := prefix()

	for !p.peekIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		if (p.peek.Type == lexer.INCREMENT || p.peek.Type == lexer.DECREMENT) && p.peek.NewlineBefore {
			break
		}
		infix, ok := p.infixFns[p.peek.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// parseExpressionList parses a comma-separated list of AssignmentExpressions
// (with optional `...spread` elements), up to and consuming the closing
// token end (`)` or `]`). A trailing comma before end is permitted.
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	savedNoIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = savedNoIn }()

	var list []ast.Expression
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseAssignOrSpread())
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		if p.curIs(end) {
			return list
		}
		list = append(list, p.parseAssignOrSpread())
	}
	p.expect(end)
	return list
}

func (p *Parser) parseAssignOrSpread() ast.Expression {
	if p.curIs(lexer.ELLIPSIS) {
		tok := p.cur
		p.nextToken()
		return &ast.SpreadElement{Token: tok, Argument: p.parseExpression(ASSIGN)}
	}
	return p.parseExpression(ASSIGN)
}
