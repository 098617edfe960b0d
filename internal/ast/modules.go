package ast

import (
	"bytes"
	"strings"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/lexer"
)

// ImportSpecifierKind distinguishes the three import-clause forms.
type ImportSpecifierKind int

const (
	ImportNamed ImportSpecifierKind = iota
	ImportDefault
	ImportNamespace
)

// ImportSpecifier is one binding of an ImportDeclaration: `{ name }`,
// `{ name as local }`, `default as local`, or `* as local`.
type ImportSpecifier struct {
	Kind  ImportSpecifierKind
	Name  *Identifier // the imported name; nil for ImportDefault/ImportNamespace
	Local *Identifier
}

// ImportDeclaration is `import ... from "module-specifier";`.
type ImportDeclaration struct {
	Token      lexer.Token
	Specifiers []ImportSpecifier
	Source     *StringLiteral
}

func (i *ImportDeclaration) statementNode()       {}
func (i *ImportDeclaration) TokenLiteral() string { return i.Token.Literal }
func (i *ImportDeclaration) Pos() errors.Span     { return i.Token.Span() }
func (i *ImportDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("import ")
	parts := make([]string, len(i.Specifiers))
	for idx, s := range i.Specifiers {
		switch s.Kind {
		case ImportDefault:
			parts[idx] = s.Local.String()
		case ImportNamespace:
			parts[idx] = "* as " + s.Local.String()
		default:
			if s.Name.Text == s.Local.Text {
				parts[idx] = "{ " + s.Name.String() + " }"
			} else {
				parts[idx] = "{ " + s.Name.String() + " as " + s.Local.String() + " }"
			}
		}
	}
	out.WriteString(strings.Join(parts, ", "))
	out.WriteString(" from ")
	out.WriteString(i.Source.String())
	out.WriteString(";")
	return out.String()
}

// ExportSpecifier is one `{ local as exported }` entry of a named
// ExportDeclaration.
type ExportSpecifier struct {
	Local    *Identifier
	Exported *Identifier
}

// ExportDeclaration covers all four export forms: a named re-export
// list (`export { a, b as c } [from "mod"];`), a declaration export
// (`export const x = 1;` / `export function f() {}` / `export class
// C {}`), a default export (`export default expr;`), and a
// re-export-all (`export * [as ns] from "mod";`).
type ExportDeclaration struct {
	Token       lexer.Token
	Declaration Statement // non-nil for `export <declaration>`
	Specifiers  []ExportSpecifier
	Source      *StringLiteral // non-nil for a re-export form
	IsDefault   bool
	Default     Node // Expression or Statement, set when IsDefault
	IsAllExport bool
	AllAs       *Identifier // non-nil for `export * as ns from "mod"`
}

func (e *ExportDeclaration) statementNode()       {}
func (e *ExportDeclaration) TokenLiteral() string { return e.Token.Literal }
func (e *ExportDeclaration) Pos() errors.Span     { return e.Token.Span() }
func (e *ExportDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("export ")
	switch {
	case e.IsDefault:
		out.WriteString("default " + e.Default.String())
	case e.IsAllExport:
		out.WriteString("*")
		if e.AllAs != nil {
			out.WriteString(" as " + e.AllAs.String())
		}
		out.WriteString(" from " + e.Source.String())
	case e.Declaration != nil:
		out.WriteString(e.Declaration.String())
	default:
		parts := make([]string, len(e.Specifiers))
		for i, s := range e.Specifiers {
			if s.Local.Text == s.Exported.Text {
				parts[i] = s.Local.String()
			} else {
				parts[i] = s.Local.String() + " as " + s.Exported.String()
			}
		}
		out.WriteString("{ " + strings.Join(parts, ", ") + " }")
		if e.Source != nil {
			out.WriteString(" from " + e.Source.String())
		}
	}
	out.WriteString(";")
	return out.String()
}
