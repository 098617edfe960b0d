package parser

import (
	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/lexer"
)

// parseParamList parses a parenthesized parameter list. p.cur must be
// LPAREN on entry; p.cur is RPAREN on return.
func (p *Parser) parseParamList() []ast.Pattern {
	var params []ast.Pattern
	if p.peekIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		params = append(params, p.parseParam())
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	return params
}

func (p *Parser) parseParam() ast.Pattern {
	if p.curIs(lexer.ELLIPSIS) {
		tok := p.cur
		p.nextToken()
		return &ast.RestElement{Token: tok, Argument: p.parseBindingTarget()}
	}
	target := p.parseBindingTarget()
	if p.peekIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		return &ast.AssignmentPattern{Target: target, Default: p.parseExpression(ASSIGN)}
	}
	return target
}

// parseBindingTarget reads an Identifier or a destructuring
// array/object pattern at a binding position (parameter, declarator,
// catch clause).
func (p *Parser) parseBindingTarget() ast.Pattern {
	switch p.cur.Type {
	case lexer.LBRACKET:
		return arrayLiteralToPattern(p.parseArrayLiteral().(*ast.ArrayLiteral))
	case lexer.LBRACE:
		return objectLiteralToPattern(p.parseObjectLiteral().(*ast.ObjectLiteral))
	default:
		tok := p.cur
		return &ast.Identifier{Token: tok, Text: tok.Literal, Name: p.interner.Intern(tok.Literal)}
	}
}

// parseFunctionBody expects p.cur positioned on the RPAREN closing a
// parameter list, consumes the `{ ... }` body, and restores the
// surrounding [Yield]/[Await]/[Return] grammar parameters afterward.
func (p *Parser) parseFunctionBody(isGenerator, isAsync bool) *ast.BlockStatement {
	if !p.expect(lexer.LBRACE) {
		return &ast.BlockStatement{}
	}
	savedGen, savedAsync, savedFn := p.inGenerator, p.inAsync, p.inFunction
	p.inGenerator, p.inAsync, p.inFunction = isGenerator, isAsync, true
	body := p.parseBlockStatement()
	p.inGenerator, p.inAsync, p.inFunction = savedGen, savedAsync, savedFn
	return body
}

// parseBlockStatement expects p.cur on LBRACE and leaves p.cur on the
// matching RBRACE.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{Token: p.cur}
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Body = append(block.Body, stmt)
		} else {
			p.nextToken()
		}
	}
	return block
}

// parseFunctionDeclaration expects p.cur on `function` (IsAsync having
// already been consumed by the caller when present).
func (p *Parser) parseFunctionDeclaration(isAsync bool) *ast.FunctionDeclaration {
	tok := p.cur
	isGenerator := false
	if p.peekIs(lexer.STAR) {
		p.nextToken()
		isGenerator = true
	}
	var id *ast.Identifier
	if p.peekIs(lexer.IDENT) || p.peek.Type.IsKeyword() {
		p.nextToken()
		id = &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
	}
	p.expect(lexer.LPAREN)
	params := p.parseParamList()
	body := p.parseFunctionBody(isGenerator, isAsync)
	return &ast.FunctionDeclaration{Token: tok, Id: id, Params: params, Body: body, IsGenerator: isGenerator, IsAsync: isAsync}
}

func (p *Parser) parseFunctionExpr() ast.Expression {
	tok := p.cur
	isGenerator := false
	if p.peekIs(lexer.STAR) {
		p.nextToken()
		isGenerator = true
	}
	var id *ast.Identifier
	if p.peekIs(lexer.IDENT) {
		p.nextToken()
		id = &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
	}
	p.expect(lexer.LPAREN)
	params := p.parseParamList()
	body := p.parseFunctionBody(isGenerator, false)
	return &ast.FunctionExpression{Token: tok, Id: id, Params: params, Body: body, IsGenerator: isGenerator}
}

// parseAsyncExpr handles `async` in expression position: an async
// function expression, an async arrow, or (falling back) a plain
// identifier named "async".
func (p *Parser) parseAsyncExpr() ast.Expression {
	tok := p.cur
	if p.peekIs(lexer.KW_FUNCTION) && !p.peek.NewlineBefore {
		p.nextToken()
		fn := p.parseFunctionExpr().(*ast.FunctionExpression)
		fn.IsAsync = true
		return fn
	}
	if !p.peek.NewlineBefore && (p.peekIs(lexer.IDENT) || p.peekIs(lexer.LPAREN)) {
		if arrow, ok := p.tryParseArrowFrom(tok, true); ok {
			return arrow
		}
	}
	return &ast.Identifier{Token: tok, Text: tok.Literal, Name: p.interner.Intern(tok.Literal)}
}

// tryParseArrowFrom attempts to parse an (async) arrow function whose
// parameter list starts at p.peek. headTok is the `async` token when
// isAsync, otherwise unused.
func (p *Parser) tryParseArrowFrom(headTok lexer.Token, isAsync bool) (ast.Expression, bool) {
	p.nextToken() // onto identifier or `(`
	if p.curIs(lexer.IDENT) {
		if !p.peekIs(lexer.ARROW) {
			return nil, false
		}
		param := &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
		p.nextToken() // =>
		return p.finishArrow(headTok, []ast.Pattern{param}, isAsync), true
	}
	// p.cur is LPAREN; parseParenOrArrow already handles the plain
	// (non-async) case, so for async we parse the param list directly.
	params := p.parseParamList()
	if !p.peekIs(lexer.ARROW) {
		return nil, false
	}
	p.nextToken()
	return p.finishArrow(headTok, params, isAsync), true
}

// finishArrow expects p.cur on `=>` and parses the concise or block
// body that follows.
func (p *Parser) finishArrow(tok lexer.Token, params []ast.Pattern, isAsync bool) *ast.ArrowFunctionExpression {
	savedAsync, savedFn := p.inAsync, p.inFunction
	p.inAsync, p.inFunction = isAsync, true
	defer func() { p.inAsync, p.inFunction = savedAsync, savedFn }()

	p.nextToken() // onto body's first token
	if p.curIs(lexer.LBRACE) {
		body := p.parseBlockStatement()
		return &ast.ArrowFunctionExpression{Token: tok, Params: params, Body: body, IsAsync: isAsync}
	}
	body := p.parseExpression(ASSIGN)
	return &ast.ArrowFunctionExpression{Token: tok, Params: params, Body: body, IsAsync: isAsync, ExpressionBody: true}
}

// parseParenOrArrow resolves the classic cover grammar: `(...)` is
// either a parenthesized expression or an arrow function's parameter
// list, disambiguated by whether `=>` follows the closing `)`. Since
// the parameter list and a parenthesized expression share almost all
// of their grammar (identifiers, defaults-as-assignments, array/object
// literals later reparsed as patterns), the parenthesized contents are
// parsed once as an expression list and converted to patterns only if
// `=>` actually follows.
func (p *Parser) parseParenOrArrow() ast.Expression {
	tok := p.cur
	if p.peekIs(lexer.RPAREN) {
		// `()` must be an arrow parameter list; `()` alone is not a
		// valid parenthesized expression.
		p.nextToken()
		if !p.expect(lexer.ARROW) {
			return nil
		}
		return p.finishArrow(tok, nil, false)
	}

	savedNoIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = savedNoIn }()

	p.nextToken()
	var items []ast.Expression
	var restParam ast.Pattern
	for {
		if p.curIs(lexer.ELLIPSIS) {
			restTok := p.cur
			p.nextToken()
			restParam = &ast.RestElement{Token: restTok, Argument: p.parseBindingTarget()}
			break
		}
		items = append(items, p.parseExpression(ASSIGN))
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)

	if p.peekIs(lexer.ARROW) && restParam == nil {
		p.nextToken()
		params := make([]ast.Pattern, len(items))
		for i, it := range items {
			params[i], _ = toAssignmentTarget(it).(ast.Pattern)
		}
		return p.finishArrow(tok, params, false)
	}
	if p.peekIs(lexer.ARROW) && restParam != nil {
		p.nextToken()
		params := make([]ast.Pattern, len(items)+1)
		for i, it := range items {
			params[i], _ = toAssignmentTarget(it).(ast.Pattern)
		}
		params[len(items)] = restParam
		return p.finishArrow(tok, params, false)
	}

	if restParam != nil {
		p.addError(tok.Span(), "rest element is only valid in an arrow function parameter list")
	}
	if len(items) == 0 {
		return nil
	}
	if len(items) == 1 {
		return items[0]
	}
	return &ast.SequenceExpression{Token: tok, Expressions: items}
}
