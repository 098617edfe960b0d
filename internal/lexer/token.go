package lexer

import "github.com/ecmago/ecma/internal/errors"

// TokenType tags the lexical category of a Token.
type TokenType int

const (
	EOF TokenType = iota
	ILLEGAL

	IDENT
	PRIVATE_IDENT // #name, class private field/method names

	NUMBER
	BIGINT
	STRING
	TEMPLATE_STRING // a single NoSubstitutionTemplate or template middle/tail/head chunk
	REGEX

	// Keywords
	KW_AWAIT
	KW_BREAK
	KW_CASE
	KW_CATCH
	KW_CLASS
	KW_CONST
	KW_CONTINUE
	KW_DEBUGGER
	KW_DEFAULT
	KW_DELETE
	KW_DO
	KW_ELSE
	KW_EXPORT
	KW_EXTENDS
	KW_FINALLY
	KW_FOR
	KW_FUNCTION
	KW_IF
	KW_IMPORT
	KW_IN
	KW_INSTANCEOF
	KW_LET
	KW_NEW
	KW_OF
	KW_RETURN
	KW_STATIC
	KW_SUPER
	KW_SWITCH
	KW_THIS
	KW_THROW
	KW_TRY
	KW_TYPEOF
	KW_VAR
	KW_VOID
	KW_WHILE
	KW_WITH
	KW_YIELD
	KW_NULL
	KW_TRUE
	KW_FALSE
	KW_GET
	KW_SET
	KW_ASYNC
	KW_FROM
	KW_AS

	// Punctuators
	LBRACE
	RBRACE
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	SEMICOLON
	COMMA
	DOT
	ELLIPSIS // ...
	QUESTION
	QUESTION_DOT // ?.
	QUESTION_QUESTION
	COLON
	ARROW // =>

	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	STAR_STAR_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
	USHR_ASSIGN
	AND_ASSIGN
	OR_ASSIGN
	XOR_ASSIGN
	LOGICAL_AND_ASSIGN
	LOGICAL_OR_ASSIGN
	QUESTION_QUESTION_ASSIGN

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	STAR_STAR

	INCREMENT
	DECREMENT

	EQ
	NOT_EQ
	STRICT_EQ
	STRICT_NOT_EQ
	LT
	GT
	LTE
	GTE

	LOGICAL_AND
	LOGICAL_OR
	LOGICAL_NOT

	BIT_AND
	BIT_OR
	BIT_XOR
	BIT_NOT
	SHL
	SHR
	USHR
)

// Position is a 1-based line/column pair plus byte offset into the source.
type Position struct {
	Line   int
	Column int // in UTF-16 code units
	Offset int
}

// Token is one lexical unit: its type, the literal source text (for
// idents/numbers this is the exact spelling), and the span it occupies.
// NewlineBefore records whether a line terminator appeared between this
// token and the previous one, the signal automatic semicolon insertion
// and `yield`/`await`-adjacent restricted-production rules need.
type Token struct {
	Type          TokenType
	Literal       string
	StringUnits   []uint16 // decoded UTF-16 units, valid for STRING/TEMPLATE_STRING
	TemplateHead  bool
	TemplateTail  bool
	Start, End    Position
	NewlineBefore bool
}

func (t Token) Span() errors.Span {
	return errors.Span{
		StartLine: t.Start.Line, StartCol: t.Start.Column,
		EndLine: t.End.Line, EndCol: t.End.Column,
		StartOffset: t.Start.Offset, EndOffset: t.End.Offset,
	}
}

// IsKeyword reports whether t's type is one of the reserved-word tokens.
func (t TokenType) IsKeyword() bool { return t >= KW_AWAIT && t <= KW_AS }
