package parser

import (
	"strconv"
	"strings"

	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/lexer"
)

// --- literal and identifier prefix parsers ---
// Each of these reads p.cur without advancing past it; the surrounding
// parseExpression loop (or the caller, for a lone prefix parse) is the
// one that decides when to call nextToken.

func (p *Parser) parseIdentifierExpr() ast.Expression {
	tok := p.cur
	return &ast.Identifier{Token: tok, Text: tok.Literal, Name: p.interner.Intern(tok.Literal)}
}

func (p *Parser) parsePrivateIdentifierExpr() ast.Expression {
	tok := p.cur
	return &ast.PrivateIdentifier{Token: tok, Text: strings.TrimPrefix(tok.Literal, "#")}
}

func (p *Parser) parseNumericLiteral() ast.Expression {
	tok := p.cur
	val, err := parseNumericValue(tok.Literal)
	if err != nil {
		p.addError(tok.Span(), "invalid number literal %q: %v", tok.Literal, err)
	}
	return &ast.NumericLiteral{Token: tok, Value: val}
}

// parseNumericValue computes the float64 value of a Number literal's
// source spelling: decimal, 0x/0o/0b radix-prefixed, or legacy octal,
// with numeric separators stripped first.
func parseNumericValue(lit string) (float64, error) {
	s := strings.ReplaceAll(lit, "_", "")
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		n, err := strconv.ParseUint(s[2:], 16, 64)
		return float64(n), err
	case strings.HasPrefix(s, "0o") || strings.HasPrefix(s, "0O"):
		n, err := strconv.ParseUint(s[2:], 8, 64)
		return float64(n), err
	case strings.HasPrefix(s, "0b") || strings.HasPrefix(s, "0B"):
		n, err := strconv.ParseUint(s[2:], 2, 64)
		return float64(n), err
	case len(s) > 1 && s[0] == '0' && isAllOctalDigits(s[1:]):
		n, err := strconv.ParseUint(s[1:], 8, 64)
		return float64(n), err
	default:
		return strconv.ParseFloat(s, 64)
	}
}

func isAllOctalDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '7' {
			return false
		}
	}
	return true
}

func (p *Parser) parseBigIntLiteral() ast.Expression {
	tok := p.cur
	raw := strings.ReplaceAll(strings.TrimSuffix(tok.Literal, "n"), "_", "")
	return &ast.BigIntLiteral{Token: tok, Raw: raw}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur
	return &ast.StringLiteral{Token: tok, Units: tok.StringUnits}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.cur
	return &ast.BooleanLiteral{Token: tok, Value: tok.Type == lexer.KW_TRUE}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.NullLiteral{Token: p.cur}
}

func (p *Parser) parseThisExpr() ast.Expression {
	return &ast.ThisExpression{Token: p.cur}
}

func (p *Parser) parseSuperExpr() ast.Expression {
	return &ast.SuperExpression{Token: p.cur}
}

// parseRegExpLiteral splits the lexer's "pattern\x00flags" encoding
// back into the two fields the AST node keeps separate.
func (p *Parser) parseRegExpLiteral() ast.Expression {
	tok := p.cur
	pattern, flags, _ := strings.Cut(tok.Literal, "\x00")
	return &ast.RegExpLiteral{Token: tok, Pattern: pattern, Flags: flags}
}

// parseTemplateLiteral drives the lexer's quasi/substitution resumption
// protocol: the head chunk is already in p.cur, and each `${...}`
// substitution is parsed as a full expression before the parser asks
// the lexer to resume scanning literal text from the closing `}`.
func (p *Parser) parseTemplateLiteral() ast.Expression {
	tok := p.cur
	lit := &ast.TemplateLiteral{Token: tok}
	chunk := p.cur
	lit.Quasis = append(lit.Quasis, chunk.StringUnits)

	for !chunk.TemplateTail {
		p.nextToken() // move onto the substitution's first token
		lit.Expressions = append(lit.Expressions, p.parseExpression(LOWEST))
		if !p.peekIs(lexer.RBRACE) {
			p.expect(lexer.RBRACE) // reports the missing `}`
			break
		}
		// p.peek is the `}` that closes the substitution; advancing onto it
		// fetches the token after it in template-text mode, and advancing
		// once more makes that chunk p.cur.
		p.templateResumePending = true
		p.nextToken()
		p.nextToken()
		chunk = p.cur
		lit.Quasis = append(lit.Quasis, chunk.StringUnits)
	}
	return lit
}

func (p *Parser) parseTaggedTemplate(tag ast.Expression) ast.Expression {
	quasi := p.parseTemplateLiteral().(*ast.TemplateLiteral)
	return &ast.TaggedTemplateExpression{Token: quasi.Token, Tag: tag, Quasi: quasi}
}

// --- operator prefix parsers ---

func (p *Parser) parseUnaryExpr() ast.Expression {
	tok := p.cur
	p.nextToken()
	return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Argument: p.parseExpression(UNARY)}
}

func (p *Parser) parseUpdatePrefix() ast.Expression {
	tok := p.cur
	p.nextToken()
	return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Argument: p.parseExpression(UNARY), Prefix: true}
}

func (p *Parser) parseYieldExpr() ast.Expression {
	tok := p.cur
	if !p.inGenerator {
		return &ast.Identifier{Token: tok, Text: tok.Literal, Name: p.interner.Intern(tok.Literal)}
	}
	delegate := false
	if p.peekIs(lexer.STAR) {
		p.nextToken()
		delegate = true
	}
	if yieldExprEndsHere(p.peek) {
		return &ast.YieldExpression{Token: tok, Delegate: delegate}
	}
	p.nextToken()
	return &ast.YieldExpression{Token: tok, Argument: p.parseExpression(ASSIGN), Delegate: delegate}
}

// yieldExprEndsHere reports whether a bare `yield` (no argument) should
// stop here given the next token, per the restricted-production rule:
// a newline, or a token that cannot start an AssignmentExpression.
func yieldExprEndsHere(next lexer.Token) bool {
	if next.NewlineBefore {
		return true
	}
	switch next.Type {
	case lexer.SEMICOLON, lexer.RBRACE, lexer.RPAREN, lexer.RBRACKET, lexer.COMMA, lexer.COLON, lexer.EOF:
		return true
	default:
		return false
	}
}

func (p *Parser) parseAwaitExpr() ast.Expression {
	tok := p.cur
	if !p.inAsync {
		return &ast.Identifier{Token: tok, Text: tok.Literal, Name: p.interner.Intern(tok.Literal)}
	}
	p.nextToken()
	return &ast.AwaitExpression{Token: tok, Argument: p.parseExpression(UNARY)}
}

// --- operator infix parsers ---

func (p *Parser) parseBinaryExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(rightOperandPrecedence(tok.Type, precedence))
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

// rightOperandPrecedence returns precedence-1 for right-associative
// operators (`**` is the only right-associative BinaryExpression) so
// that `2 ** 3 ** 2` parses as `2 ** (3 ** 2)`.
func rightOperandPrecedence(t lexer.TokenType, precedence int) int {
	if t == lexer.STAR_STAR {
		return precedence - 1
	}
	return precedence
}

func (p *Parser) parseLogicalExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	return &ast.LogicalExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
}

func (p *Parser) parseConditionalExpr(test ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	// The consequent branch is always parsed with `in` allowed, even
	// inside a for-statement's init clause.
	savedNoIn := p.noIn
	p.noIn = false
	consequent := p.parseExpression(ASSIGN)
	p.noIn = savedNoIn
	if !p.expect(lexer.COLON) {
		return &ast.ConditionalExpression{Token: tok, Test: test, Consequent: consequent}
	}
	p.nextToken()
	alternate := p.parseExpression(ASSIGN)
	return &ast.ConditionalExpression{Token: tok, Test: test, Consequent: consequent, Alternate: alternate}
}

// parseAssignmentExpr is right-associative: `a = b = c` parses as
// `a = (b = c)`. left is reparsed into a Pattern when the target is a
// destructuring literal (array/object), since the same grammar position
// covers both plain and destructuring assignment.
func (p *Parser) parseAssignmentExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence - 1)
	return &ast.AssignmentExpression{Token: tok, Target: toAssignmentTarget(left), Operator: tok.Literal, Value: right}
}

func (p *Parser) parseSequenceExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	exprs := []ast.Expression{left}
	p.nextToken()
	exprs = append(exprs, p.parseExpression(ASSIGN))
	for p.peekIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		exprs = append(exprs, p.parseExpression(ASSIGN))
	}
	return &ast.SequenceExpression{Token: tok, Expressions: exprs}
}

func (p *Parser) parseMemberExprDotted(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	prop := p.parsePropertyNameExpr()
	return &ast.MemberExpression{Token: tok, Object: left, Property: prop}
}

func (p *Parser) parseMemberExprComputed(left ast.Expression) ast.Expression {
	tok := p.cur
	p.nextToken()
	savedNoIn := p.noIn
	p.noIn = false
	prop := p.parseExpression(LOWEST)
	p.noIn = savedNoIn
	if !p.expect(lexer.RBRACKET) {
		return left
	}
	return &ast.MemberExpression{Token: tok, Object: left, Property: prop, Computed: true}
}

// parsePropertyNameExpr reads a dotted member name or class member key:
// an identifier, a private name, or any keyword used as a property name
// (`obj.class`, `obj.default`).
func (p *Parser) parsePropertyNameExpr() ast.Expression {
	tok := p.cur
	if tok.Type == lexer.PRIVATE_IDENT {
		return &ast.PrivateIdentifier{Token: tok, Text: strings.TrimPrefix(tok.Literal, "#")}
	}
	return &ast.Identifier{Token: tok, Text: tok.Literal, Name: p.interner.Intern(tok.Literal)}
}

func (p *Parser) parseCallExpr(left ast.Expression) ast.Expression {
	tok := p.cur
	args := p.parseExpressionList(lexer.RPAREN)
	return &ast.CallExpression{Token: tok, Callee: left, Arguments: args}
}

// parseOptionalChain handles the three things `?.` can introduce:
// an optional call, an optional computed member, or an optional dotted
// member.
func (p *Parser) parseOptionalChain(left ast.Expression) ast.Expression {
	tok := p.cur
	switch p.peek.Type {
	case lexer.LPAREN:
		p.nextToken()
		args := p.parseExpressionList(lexer.RPAREN)
		return &ast.CallExpression{Token: tok, Callee: left, Arguments: args, Optional: true}
	case lexer.LBRACKET:
		p.nextToken()
		p.nextToken()
		prop := p.parseExpression(LOWEST)
		if !p.expect(lexer.RBRACKET) {
			return left
		}
		return &ast.MemberExpression{Token: tok, Object: left, Property: prop, Computed: true, Optional: true}
	default:
		p.nextToken()
		prop := p.parsePropertyNameExpr()
		return &ast.MemberExpression{Token: tok, Object: left, Property: prop, Optional: true}
	}
}

func (p *Parser) parseUpdatePostfix(left ast.Expression) ast.Expression {
	tok := p.cur
	return &ast.UpdateExpression{Token: tok, Operator: tok.Literal, Argument: left, Prefix: false}
}

func (p *Parser) parseNewExpr() ast.Expression {
	tok := p.cur
	if p.peekIs(lexer.DOT) {
		// new.target
		p.nextToken()
		p.nextToken()
		return &ast.MemberExpression{Token: tok, Object: &ast.Identifier{Token: tok, Text: "new"}, Property: p.parsePropertyNameExpr()}
	}
	p.nextToken()
	callee := p.parseExpression(CALL)
	var args []ast.Expression
	if p.peekIs(lexer.LPAREN) {
		p.nextToken()
		args = p.parseExpressionList(lexer.RPAREN)
	}
	return &ast.NewExpression{Token: tok, Callee: callee, Arguments: args}
}

// --- array / object literal prefix parsers ---

func (p *Parser) parseArrayLiteral() ast.Expression {
	savedNoIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = savedNoIn }()

	tok := p.cur
	lit := &ast.ArrayLiteral{Token: tok}
	if p.peekIs(lexer.RBRACKET) {
		p.nextToken()
		return lit
	}
	p.nextToken()
	for {
		if p.curIs(lexer.COMMA) {
			lit.Elements = append(lit.Elements, nil) // elision
			p.nextToken()
			continue
		}
		if p.curIs(lexer.RBRACKET) {
			break
		}
		lit.Elements = append(lit.Elements, p.parseAssignOrSpread())
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.RBRACKET)
	return lit
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	savedNoIn := p.noIn
	p.noIn = false
	defer func() { p.noIn = savedNoIn }()

	tok := p.cur
	lit := &ast.ObjectLiteral{Token: tok}
	if p.peekIs(lexer.RBRACE) {
		p.nextToken()
		return lit
	}
	p.nextToken()
	for {
		lit.Properties = append(lit.Properties, p.parseObjectProperty())
		if p.peekIs(lexer.COMMA) {
			p.nextToken()
			if p.peekIs(lexer.RBRACE) {
				p.nextToken()
				return lit
			}
			p.nextToken()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE)
	return lit
}

func (p *Parser) parseObjectProperty() ast.ObjectProperty {
	if p.curIs(lexer.ELLIPSIS) {
		p.nextToken()
		return ast.ObjectProperty{Spread: true, Value: p.parseExpression(ASSIGN)}
	}

	if (p.curIs(lexer.KW_GET) || p.curIs(lexer.KW_SET)) && !p.peekIs(lexer.COLON) &&
		!p.peekIs(lexer.COMMA) && !p.peekIs(lexer.RBRACE) && !p.peekIs(lexer.LPAREN) {
		kind := ast.PropertyGet
		if p.curIs(lexer.KW_SET) {
			kind = ast.PropertySet
		}
		p.nextToken()
		key, computed := p.parsePropertyKey()
		fn := p.parseMethodTail(false, false)
		return ast.ObjectProperty{Key: key, Value: fn, Computed: computed, Kind: kind}
	}

	isAsync := false
	isGenerator := false
	if p.curIs(lexer.KW_ASYNC) && !p.peekIs(lexer.COLON) && !p.peekIs(lexer.COMMA) &&
		!p.peekIs(lexer.RBRACE) && !p.peekIs(lexer.LPAREN) && !p.peek.NewlineBefore {
		isAsync = true
		p.nextToken()
	}
	if p.curIs(lexer.STAR) {
		isGenerator = true
		p.nextToken()
	}

	key, computed := p.parsePropertyKey()

	if p.peekIs(lexer.LPAREN) {
		fn := p.parseMethodTail(isGenerator, isAsync)
		return ast.ObjectProperty{Key: key, Value: fn, Computed: computed, Kind: ast.PropertyMethod}
	}
	if p.peekIs(lexer.COLON) {
		p.nextToken()
		p.nextToken()
		return ast.ObjectProperty{Key: key, Value: p.parseExpression(ASSIGN), Computed: computed}
	}
	if p.peekIs(lexer.ASSIGN) {
		// Shorthand property with a default, only valid when the object
		// literal is later reparsed as a destructuring pattern.
		p.nextToken()
		p.nextToken()
		def := p.parseExpression(ASSIGN)
		ident, _ := key.(*ast.Identifier)
		value := &ast.AssignmentPattern{Token: p.cur, Target: ident, Default: def}
		return ast.ObjectProperty{Key: key, Value: value, Shorthand: true}
	}
	// Shorthand: `{ x }`.
	return ast.ObjectProperty{Key: key, Value: key, Shorthand: true}
}

// parsePropertyKey reads an object/class member key: an identifier, a
// keyword-as-name, a string, a number, or `[computed]`.
func (p *Parser) parsePropertyKey() (key ast.Expression, computed bool) {
	switch p.cur.Type {
	case lexer.LBRACKET:
		p.nextToken()
		key = p.parseExpression(ASSIGN)
		p.expect(lexer.RBRACKET)
		return key, true
	case lexer.STRING:
		return p.parseStringLiteral(), false
	case lexer.NUMBER:
		return p.parseNumericLiteral(), false
	case lexer.PRIVATE_IDENT:
		return &ast.PrivateIdentifier{Token: p.cur, Text: strings.TrimPrefix(p.cur.Literal, "#")}, false
	default:
		return &ast.Identifier{Token: p.cur, Text: p.cur.Literal, Name: p.interner.Intern(p.cur.Literal)}, false
	}
}

// parseMethodTail parses `(params) { body }` once the method name has
// already been consumed; p.cur sits on the name token, p.peek on `(`.
func (p *Parser) parseMethodTail(isGenerator, isAsync bool) *ast.FunctionExpression {
	tok := p.cur
	p.nextToken() // onto `(`
	params := p.parseParamList()
	body := p.parseFunctionBody(isGenerator, isAsync)
	return &ast.FunctionExpression{Token: tok, Params: params, Body: body, IsGenerator: isGenerator, IsAsync: isAsync}
}

// --- assignment-target / cover-grammar reparsing ---

// toAssignmentTarget converts an Expression used on the left side of
// `=` into the Pattern the grammar actually wants there, so the
// compiler never has to special-case ArrayLiteral/ObjectLiteral nodes
// reached through an AssignmentExpression.
func toAssignmentTarget(expr ast.Expression) ast.Node {
	switch e := expr.(type) {
	case *ast.ArrayLiteral:
		return arrayLiteralToPattern(e)
	case *ast.ObjectLiteral:
		return objectLiteralToPattern(e)
	default:
		return expr
	}
}

func arrayLiteralToPattern(lit *ast.ArrayLiteral) *ast.ArrayPattern {
	pat := &ast.ArrayPattern{Token: lit.Token}
	for _, el := range lit.Elements {
		pat.Elements = append(pat.Elements, elementToPattern(el))
	}
	return pat
}

func elementToPattern(el ast.Expression) ast.Pattern {
	switch e := el.(type) {
	case nil:
		return nil
	case *ast.SpreadElement:
		return &ast.RestElement{Token: e.Token, Argument: elementToPattern(e.Argument)}
	case *ast.AssignmentExpression:
		lhs, _ := e.Target.(ast.Pattern)
		return &ast.AssignmentPattern{Token: e.Token, Target: lhs, Default: e.Value}
	case *ast.ArrayLiteral:
		return arrayLiteralToPattern(e)
	case *ast.ObjectLiteral:
		return objectLiteralToPattern(e)
	case ast.Pattern:
		return e
	default:
		return nil
	}
}

func objectLiteralToPattern(lit *ast.ObjectLiteral) *ast.ObjectPattern {
	pat := &ast.ObjectPattern{Token: lit.Token}
	for _, prop := range lit.Properties {
		if prop.Spread {
			rest, _ := toAssignmentTarget(prop.Value).(ast.Pattern)
			pat.Rest = &ast.RestElement{Argument: rest}
			continue
		}
		var value ast.Pattern
		switch v := prop.Value.(type) {
		case *ast.AssignmentPattern:
			value = v
		default:
			value = elementToPattern(prop.Value)
		}
		pat.Properties = append(pat.Properties, ast.ObjectPatternProperty{
			Key: prop.Key, Value: value, Computed: prop.Computed, Shorthand: prop.Shorthand,
		})
	}
	return pat
}
