package parser

import (
	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/lexer"
)

// parseClassTail expects p.cur on the `class` keyword and parses
// everything through the closing `}` of the body, leaving p.cur on
// that `}`.
func (p *Parser) parseClassTail() (*ast.Identifier, ast.Expression, ast.ClassBody) {
	var id *ast.Identifier
	if p.peekIs(lexer.IDENT) {
		p.nextToken()
		id = &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
	}
	var super ast.Expression
	if p.peekIs(lexer.KW_EXTENDS) {
		p.nextToken()
		p.nextToken()
		super = p.parseExpression(CALL)
	}
	p.expect(lexer.LBRACE)
	return id, super, p.parseClassBody()
}

func (p *Parser) parseClassExpr() ast.Expression {
	tok := p.cur
	id, super, body := p.parseClassTail()
	return &ast.ClassExpression{Token: tok, Id: id, SuperClass: super, Body: body}
}

func (p *Parser) parseClassDeclaration() *ast.ClassDeclaration {
	tok := p.cur
	id, super, body := p.parseClassTail()
	return &ast.ClassDeclaration{Token: tok, Id: id, SuperClass: super, Body: body}
}

// parseClassBody expects p.cur on LBRACE and leaves p.cur on the
// matching RBRACE.
func (p *Parser) parseClassBody() ast.ClassBody {
	var body ast.ClassBody
	p.nextToken()
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		if p.curIs(lexer.SEMICOLON) {
			p.nextToken()
			continue
		}
		if p.curIs(lexer.KW_STATIC) && p.peekIs(lexer.LBRACE) {
			p.nextToken()
			block := p.parseBlockStatement()
			body.StaticBlocks = append(body.StaticBlocks, ast.StaticBlock{Body: block})
			p.nextToken()
			continue
		}
		p.parseClassMember(&body)
		p.nextToken()
	}
	return body
}

// peekIsMemberTerminator reports whether the peek token means the
// current contextual keyword (`static`/`get`/`set`/`async`) is itself
// the member name rather than a modifier.
func (p *Parser) peekIsMemberTerminator() bool {
	switch p.peek.Type {
	case lexer.LPAREN, lexer.ASSIGN, lexer.SEMICOLON, lexer.RBRACE:
		return true
	default:
		return false
	}
}

// parseClassMember parses one method, accessor, field, or constructor
// and appends it to body. p.cur enters on the member's first token and
// exits on its last.
func (p *Parser) parseClassMember(body *ast.ClassBody) {
	static := false
	if p.curIs(lexer.KW_STATIC) && !p.peekIsMemberTerminator() {
		static = true
		p.nextToken()
	}

	kind := ast.MethodNormal
	isAsync, isGenerator := false, false
	switch {
	case (p.curIs(lexer.KW_GET) || p.curIs(lexer.KW_SET)) && !p.peekIsMemberTerminator():
		if p.curIs(lexer.KW_GET) {
			kind = ast.MethodGetter
		} else {
			kind = ast.MethodSetter
		}
		p.nextToken()
	default:
		if p.curIs(lexer.KW_ASYNC) && !p.peek.NewlineBefore && !p.peekIsMemberTerminator() {
			isAsync = true
			p.nextToken()
		}
		if p.curIs(lexer.STAR) {
			isGenerator = true
			p.nextToken()
		}
	}

	key, computed := p.parsePropertyKey()

	if p.peekIs(lexer.LPAREN) {
		if ident, ok := key.(*ast.Identifier); ok && ident.Text == "constructor" && !static && kind == ast.MethodNormal {
			kind = ast.MethodConstructor
		}
		fn := p.parseMethodTail(isGenerator, isAsync)
		body.Methods = append(body.Methods, ast.ClassMethod{Key: key, Value: fn, Kind: kind, Static: static, Computed: computed})
		return
	}

	var value ast.Expression
	if p.peekIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		value = p.parseExpression(ASSIGN)
	}
	body.Fields = append(body.Fields, ast.ClassField{Key: key, Value: value, Static: static, Computed: computed})
	if p.peekIs(lexer.SEMICOLON) {
		p.nextToken()
	}
}
