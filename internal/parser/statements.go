package parser

import (
	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/lexer"
)

// parseStatement dispatches on p.cur's token type and, like every
// statement parser it calls into, leaves p.cur positioned on the first
// token of whatever follows (the next statement, or the block's
// closing `}`/EOF).
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.LBRACE:
		stmt := p.parseBlockStatement()
		p.nextToken()
		return stmt
	case lexer.SEMICOLON:
		stmt := &ast.EmptyStatement{Token: p.cur}
		p.nextToken()
		return stmt
	case lexer.KW_VAR, lexer.KW_LET, lexer.KW_CONST:
		return p.parseVariableStatement()
	case lexer.KW_IF:
		return p.parseIfStatement()
	case lexer.KW_FOR:
		return p.parseForStatement()
	case lexer.KW_WHILE:
		return p.parseWhileStatement()
	case lexer.KW_DO:
		return p.parseDoWhileStatement()
	case lexer.KW_SWITCH:
		return p.parseSwitchStatement()
	case lexer.KW_BREAK:
		return p.parseBreakStatement()
	case lexer.KW_CONTINUE:
		return p.parseContinueStatement()
	case lexer.KW_RETURN:
		return p.parseReturnStatement()
	case lexer.KW_THROW:
		return p.parseThrowStatement()
	case lexer.KW_TRY:
		return p.parseTryStatement()
	case lexer.KW_WITH:
		return p.parseWithStatement()
	case lexer.KW_DEBUGGER:
		stmt := &ast.DebuggerStatement{Token: p.cur}
		p.nextToken()
		p.expectSemicolon()
		return stmt
	case lexer.KW_FUNCTION:
		decl := p.parseFunctionDeclaration(false)
		p.nextToken()
		return decl
	case lexer.KW_CLASS:
		decl := p.parseClassDeclaration()
		p.nextToken()
		return decl
	case lexer.KW_ASYNC:
		if p.peekIs(lexer.KW_FUNCTION) && !p.peek.NewlineBefore {
			p.nextToken()
			decl := p.parseFunctionDeclaration(true)
			p.nextToken()
			return decl
		}
		return p.parseExpressionOrLabeledStatement()
	case lexer.KW_IMPORT:
		return p.parseImportDeclaration()
	case lexer.KW_EXPORT:
		return p.parseExportDeclaration()
	case lexer.EOF:
		return nil
	default:
		return p.parseExpressionOrLabeledStatement()
	}
}

func (p *Parser) parseForBody() ast.Statement {
	p.inLoop++
	body := p.parseStatement()
	p.inLoop--
	return body
}

// parseExpressionOrLabeledStatement disambiguates `label: stmt` from a
// plain expression statement: both start with an identifier-headed
// token, and the distinguishing `:` only appears in peek.
func (p *Parser) parseExpressionOrLabeledStatement() ast.Statement {
	if p.cur.Type == lexer.IDENT && p.peekIs(lexer.COLON) {
		tok := p.cur
		label := &ast.Identifier{Token: tok, Text: tok.Literal, Name: p.interner.Intern(tok.Literal)}
		p.nextToken() // onto ':'
		p.nextToken() // onto body's first token
		body := p.parseStatement()
		return &ast.LabeledStatement{Token: tok, Label: label, Body: body}
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(LOWEST)
	stmt := &ast.ExpressionStatement{Token: tok, Expression: expr}
	p.nextToken()
	p.expectSemicolon()
	return stmt
}

// parseVariableDeclaration expects p.cur on `var`/`let`/`const` and
// leaves p.cur on the last token of the last declarator.
func (p *Parser) parseVariableDeclaration() *ast.VariableDeclaration {
	tok := p.cur
	kind := ast.DeclVar
	switch tok.Type {
	case lexer.KW_LET:
		kind = ast.DeclLet
	case lexer.KW_CONST:
		kind = ast.DeclConst
	}
	decl := &ast.VariableDeclaration{Token: tok, Kind: kind}
	p.nextToken()
	for {
		target := p.parseBindingTarget()
		var init ast.Expression
		if p.peekIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			init = p.parseExpression(ASSIGN)
		}
		decl.Declarations = append(decl.Declarations, ast.VariableDeclarator{Target: target, Init: init})
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	return decl
}

func (p *Parser) parseVariableStatement() ast.Statement {
	decl := p.parseVariableDeclaration()
	p.nextToken()
	p.expectSemicolon()
	return decl
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	test := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	p.nextToken()
	consequent := p.parseStatement()
	stmt := &ast.IfStatement{Token: tok, Test: test, Consequent: consequent}
	if p.curIs(lexer.KW_ELSE) {
		p.nextToken()
		stmt.Alternate = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.cur
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	test := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	p.nextToken()
	body := p.parseForBody()
	return &ast.WhileStatement{Token: tok, Test: test, Body: body}
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	tok := p.cur
	p.nextToken()
	body := p.parseForBody()
	if !p.curIs(lexer.KW_WHILE) {
		p.addError(p.cur.Span(), "expected 'while' after do-statement body")
		return &ast.DoWhileStatement{Token: tok, Body: body}
	}
	p.expect(lexer.LPAREN)
	p.nextToken()
	test := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	stmt := &ast.DoWhileStatement{Token: tok, Body: body, Test: test}
	p.nextToken()
	p.expectSemicolon()
	return stmt
}

// parseForStatement covers the classic C-style for, for-in, and for-of
// (including for-await-of) forms, disambiguated after parsing the
// init clause by checking for a following `in`/`of`.
func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur
	isAwait := false
	if p.peekIs(lexer.KW_AWAIT) {
		p.nextToken()
		isAwait = true
	}
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	p.nextToken()

	if p.curIs(lexer.KW_VAR) || p.curIs(lexer.KW_LET) || p.curIs(lexer.KW_CONST) {
		return p.parseForWithDeclaration(tok, isAwait)
	}
	if p.curIs(lexer.SEMICOLON) {
		return p.finishForClassic(tok, nil)
	}

	p.noIn = true
	expr := p.parseExpression(LOWEST)
	p.noIn = false

	if p.peekIs(lexer.KW_IN) || p.peekIs(lexer.KW_OF) {
		isOf := p.peekIs(lexer.KW_OF)
		p.nextToken()
		p.nextToken()
		var right ast.Expression
		if isOf {
			right = p.parseExpression(ASSIGN)
		} else {
			right = p.parseExpression(LOWEST)
		}
		p.expect(lexer.RPAREN)
		p.nextToken()
		body := p.parseForBody()
		left, _ := toAssignmentTarget(expr).(ast.Node)
		if isOf {
			return &ast.ForOfStatement{Token: tok, Left: left, Right: right, Body: body, IsAwait: isAwait}
		}
		return &ast.ForInStatement{Token: tok, Left: left, Right: right, Body: body}
	}

	init := &ast.ExpressionStatement{Token: tok, Expression: expr}
	return p.finishForClassic(tok, init)
}

func (p *Parser) parseForWithDeclaration(tok lexer.Token, isAwait bool) ast.Statement {
	declTok := p.cur
	kind := ast.DeclVar
	switch declTok.Type {
	case lexer.KW_LET:
		kind = ast.DeclLet
	case lexer.KW_CONST:
		kind = ast.DeclConst
	}
	p.nextToken()
	target := p.parseBindingTarget()

	if p.peekIs(lexer.KW_IN) || p.peekIs(lexer.KW_OF) {
		isOf := p.peekIs(lexer.KW_OF)
		p.nextToken()
		p.nextToken()
		var right ast.Expression
		if isOf {
			right = p.parseExpression(ASSIGN)
		} else {
			right = p.parseExpression(LOWEST)
		}
		p.expect(lexer.RPAREN)
		p.nextToken()
		body := p.parseForBody()
		decl := &ast.VariableDeclaration{Token: declTok, Kind: kind, Declarations: []ast.VariableDeclarator{{Target: target}}}
		if isOf {
			return &ast.ForOfStatement{Token: tok, Left: decl, Right: right, Body: body, IsAwait: isAwait}
		}
		return &ast.ForInStatement{Token: tok, Left: decl, Right: right, Body: body}
	}

	var init ast.Expression
	if p.peekIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		p.noIn = true
		init = p.parseExpression(ASSIGN)
		p.noIn = false
	}
	decl := &ast.VariableDeclaration{Token: declTok, Kind: kind}
	decl.Declarations = append(decl.Declarations, ast.VariableDeclarator{Target: target, Init: init})
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		t2 := p.parseBindingTarget()
		var i2 ast.Expression
		if p.peekIs(lexer.ASSIGN) {
			p.nextToken()
			p.nextToken()
			p.noIn = true
			i2 = p.parseExpression(ASSIGN)
			p.noIn = false
		}
		decl.Declarations = append(decl.Declarations, ast.VariableDeclarator{Target: t2, Init: i2})
	}
	return p.finishForClassic(tok, decl)
}

// finishForClassic parses the `; test ; update )` tail of a C-style for
// loop. init's last token (or, for an empty init, the leading `;`
// itself) must already be p.cur.
func (p *Parser) finishForClassic(tok lexer.Token, init ast.Node) ast.Statement {
	if !p.curIs(lexer.SEMICOLON) {
		p.nextToken()
	}
	if !p.curIs(lexer.SEMICOLON) {
		p.addError(p.cur.Span(), "expected ';' in for statement")
	}

	p.nextToken()
	var test ast.Expression
	if !p.curIs(lexer.SEMICOLON) {
		test = p.parseExpression(LOWEST)
		p.nextToken()
	}
	if !p.curIs(lexer.SEMICOLON) {
		p.addError(p.cur.Span(), "expected ';' in for statement")
	}

	p.nextToken()
	var update ast.Expression
	if !p.curIs(lexer.RPAREN) {
		update = p.parseExpression(LOWEST)
		p.nextToken()
	}
	if !p.curIs(lexer.RPAREN) {
		p.addError(p.cur.Span(), "expected ')' in for statement")
	}

	p.nextToken()
	body := p.parseForBody()
	return &ast.ForStatement{Token: tok, Init: init, Test: test, Update: update, Body: body}
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	tok := p.cur
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	discriminant := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	p.expect(lexer.LBRACE)
	p.nextToken()

	p.inSwitch++
	defer func() { p.inSwitch-- }()

	stmt := &ast.SwitchStatement{Token: tok, Discriminant: discriminant}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		var c ast.SwitchCase
		if p.curIs(lexer.KW_CASE) {
			p.nextToken()
			c.Test = p.parseExpression(LOWEST)
			p.expect(lexer.COLON)
		} else if p.curIs(lexer.KW_DEFAULT) {
			p.expect(lexer.COLON)
		} else {
			p.addError(p.cur.Span(), "expected 'case' or 'default' in switch body")
			p.nextToken()
			continue
		}
		p.nextToken()
		for !p.curIs(lexer.KW_CASE) && !p.curIs(lexer.KW_DEFAULT) && !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			s := p.parseStatement()
			if s != nil {
				c.Consequent = append(c.Consequent, s)
			} else {
				p.nextToken()
			}
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.nextToken()
	return stmt
}

func (p *Parser) parseBreakStatement() ast.Statement {
	tok := p.cur
	stmt := &ast.BreakStatement{Token: tok}
	if p.peekIs(lexer.IDENT) && !p.peek.NewlineBefore {
		p.nextToken()
		stmt.Label = &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
	}
	p.nextToken()
	p.expectSemicolon()
	return stmt
}

func (p *Parser) parseContinueStatement() ast.Statement {
	tok := p.cur
	stmt := &ast.ContinueStatement{Token: tok}
	if p.peekIs(lexer.IDENT) && !p.peek.NewlineBefore {
		p.nextToken()
		stmt.Label = &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
	}
	p.nextToken()
	p.expectSemicolon()
	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	stmt := &ast.ReturnStatement{Token: tok}
	if !p.peek.NewlineBefore && !p.peekIs(lexer.SEMICOLON) && !p.peekIs(lexer.RBRACE) && !p.peekIs(lexer.EOF) {
		p.nextToken()
		stmt.Argument = p.parseExpression(LOWEST)
	}
	p.nextToken()
	p.expectSemicolon()
	return stmt
}

func (p *Parser) parseThrowStatement() ast.Statement {
	tok := p.cur
	if p.peek.NewlineBefore {
		p.addError(p.peek.Span(), "line terminator not allowed after 'throw'")
	}
	p.nextToken()
	arg := p.parseExpression(LOWEST)
	stmt := &ast.ThrowStatement{Token: tok, Argument: arg}
	p.nextToken()
	p.expectSemicolon()
	return stmt
}

func (p *Parser) parseTryStatement() ast.Statement {
	tok := p.cur
	if !p.expect(lexer.LBRACE) {
		return nil
	}
	block := p.parseBlockStatement()
	p.nextToken()

	stmt := &ast.TryStatement{Token: tok, Block: block}
	if p.curIs(lexer.KW_CATCH) {
		handler := &ast.CatchClause{Token: p.cur}
		if p.peekIs(lexer.LPAREN) {
			p.nextToken()
			p.nextToken()
			handler.Param = p.parseBindingTarget()
			p.expect(lexer.RPAREN)
		}
		p.expect(lexer.LBRACE)
		handler.Body = p.parseBlockStatement()
		p.nextToken()
		stmt.Handler = handler
	}
	if p.curIs(lexer.KW_FINALLY) {
		p.expect(lexer.LBRACE)
		stmt.Finalizer = p.parseBlockStatement()
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseWithStatement() ast.Statement {
	tok := p.cur
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	p.nextToken()
	obj := p.parseExpression(LOWEST)
	p.expect(lexer.RPAREN)
	p.nextToken()
	body := p.parseStatement()
	return &ast.WithStatement{Token: tok, Object: obj, Body: body}
}

// parseImportDeclaration covers named/default/namespace import clauses
// and a bare `import "module";` side-effect import.
func (p *Parser) parseImportDeclaration() ast.Statement {
	tok := p.cur
	if p.peekIs(lexer.STRING) {
		p.nextToken()
		src := p.parseStringLiteral().(*ast.StringLiteral)
		stmt := &ast.ImportDeclaration{Token: tok, Source: src}
		p.nextToken()
		p.expectSemicolon()
		return stmt
	}

	var specs []ast.ImportSpecifier
	p.nextToken()
	if p.curIs(lexer.IDENT) {
		local := &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
		specs = append(specs, ast.ImportSpecifier{Kind: ast.ImportDefault, Local: local})
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
		}
	}
	if p.curIs(lexer.STAR) {
		p.nextToken() // as
		p.nextToken()
		local := &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
		specs = append(specs, ast.ImportSpecifier{Kind: ast.ImportNamespace, Local: local})
	} else if p.curIs(lexer.LBRACE) {
		p.nextToken()
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			name := &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
			local := name
			if p.peekIs(lexer.KW_AS) {
				p.nextToken()
				p.nextToken()
				local = &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
			}
			specs = append(specs, ast.ImportSpecifier{Kind: ast.ImportNamed, Name: name, Local: local})
			if p.peekIs(lexer.COMMA) {
				p.nextToken()
			}
			p.nextToken()
		}
	}
	p.expect(lexer.KW_FROM)
	p.nextToken()
	src := p.parseStringLiteral().(*ast.StringLiteral)
	stmt := &ast.ImportDeclaration{Token: tok, Specifiers: specs, Source: src}
	p.nextToken()
	p.expectSemicolon()
	return stmt
}

// parseExportDeclaration covers `export <declaration>`, `export
// default <expr|declaration>`, the named re-export list (with optional
// `from`), and `export * [as ns] from "mod"`.
func (p *Parser) parseExportDeclaration() ast.Statement {
	tok := p.cur

	if p.peekIs(lexer.KW_DEFAULT) {
		p.nextToken()
		p.nextToken()
		var def ast.Node
		switch p.cur.Type {
		case lexer.KW_FUNCTION:
			def = p.parseFunctionDeclaration(false)
			p.nextToken()
			return &ast.ExportDeclaration{Token: tok, IsDefault: true, Default: def}
		case lexer.KW_CLASS:
			def = p.parseClassDeclaration()
			p.nextToken()
			return &ast.ExportDeclaration{Token: tok, IsDefault: true, Default: def}
		default:
			expr := p.parseExpression(ASSIGN)
			stmt := &ast.ExportDeclaration{Token: tok, IsDefault: true, Default: expr}
			p.nextToken()
			p.expectSemicolon()
			return stmt
		}
	}

	if p.peekIs(lexer.STAR) {
		p.nextToken()
		exp := &ast.ExportDeclaration{Token: tok, IsAllExport: true}
		if p.peekIs(lexer.KW_AS) {
			p.nextToken()
			p.nextToken()
			exp.AllAs = &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
		}
		p.expect(lexer.KW_FROM)
		p.nextToken()
		exp.Source = p.parseStringLiteral().(*ast.StringLiteral)
		p.nextToken()
		p.expectSemicolon()
		return exp
	}

	if p.peekIs(lexer.LBRACE) {
		p.nextToken()
		p.nextToken()
		var specs []ast.ExportSpecifier
		for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
			local := &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
			exported := local
			if p.peekIs(lexer.KW_AS) {
				p.nextToken()
				p.nextToken()
				exported = &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}
			}
			specs = append(specs, ast.ExportSpecifier{Local: local, Exported: exported})
			if p.peekIs(lexer.COMMA) {
				p.nextToken()
			}
			p.nextToken()
		}
		exp := &ast.ExportDeclaration{Token: tok, Specifiers: specs}
		if p.peekIs(lexer.KW_FROM) {
			p.nextToken()
			p.nextToken()
			exp.Source = p.parseStringLiteral().(*ast.StringLiteral)
		}
		p.nextToken()
		p.expectSemicolon()
		return exp
	}

	p.nextToken()
	decl := p.parseStatement()
	return &ast.ExportDeclaration{Token: tok, Declaration: decl}
}
