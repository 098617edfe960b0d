package bytecode

import (
	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/value"
)

// DefaultLocalName is the synthetic binding name a module's default export
// is recorded under in its own environment, mirroring how named exports are
// recorded under their own declared name. Never visible to user code; no
// identifier token can ever lex to it.
const DefaultLocalName = "*default*"

// ImportBindingKind distinguishes the three import-clause forms a
// ModuleLoader's linker must wire up differently: a named import resolves
// against the source module's export of the same name, a default import
// always resolves against DefaultLocalName, and a namespace import gets a
// Module Namespace exotic object rather than an indirect binding.
type ImportBindingKind int

const (
	ImportBindingNamed ImportBindingKind = iota
	ImportBindingDefault
	ImportBindingNamespace
)

// ImportBinding is one local name a module's `import` declarations
// introduce into its own top-level environment.
type ImportBinding struct {
	Kind         ImportBindingKind
	ImportedName string // source module's export name; unused for Default/Namespace
	LocalName    string
}

// ImportRequest groups every binding a module imports from a single
// specifier, so a linker only needs to resolve each specifier once.
type ImportRequest struct {
	Specifier string
	Bindings  []ImportBinding
}

// ExportBinding maps a locally-declared name to the external name this
// module exports it under.
type ExportBinding struct {
	ExportedName string
	LocalName    string
}

// ReExport is `export { a as b } from "mod"`: re-exports another module's
// named export without introducing any binding into this module's own
// environment.
type ReExport struct {
	Specifier    string
	ImportedName string
	ExportedName string
}

// StarExport is `export * from "mod"` (bare re-export of every name, As
// == "") or `export * as ns from "mod"` (a single namespace-object export
// named As).
type StarExport struct {
	Specifier string
	As        string
}

// ModuleInfo is CompileModule's result: the module body's CodeBlock plus
// its static import/export surface. Collected in one syntactic pass before
// compilation, because a module linker must know every module's export
// names up front to resolve import cycles (a module A importing from B
// while B imports from A is valid as long as neither reads the other's
// binding before it is initialized).
type ModuleInfo struct {
	Code        *CodeBlock
	Imports     []ImportRequest
	Exports     []ExportBinding
	ReExports   []ReExport
	StarExports []StarExport
}

// CompileModule compiles a Module goal Program, always in strict mode per
// the language's module semantics.
func CompileModule(prog *ast.Program, source string) (*ModuleInfo, []error) {
	info := &ModuleInfo{}
	for _, stmt := range prog.Body {
		switch s := stmt.(type) {
		case *ast.ImportDeclaration:
			req := ImportRequest{Specifier: value.NewStringFromUnits(s.Source.Units).GoString()}
			for _, spec := range s.Specifiers {
				switch spec.Kind {
				case ast.ImportDefault:
					req.Bindings = append(req.Bindings, ImportBinding{Kind: ImportBindingDefault, LocalName: spec.Local.Text})
				case ast.ImportNamespace:
					req.Bindings = append(req.Bindings, ImportBinding{Kind: ImportBindingNamespace, LocalName: spec.Local.Text})
				default:
					req.Bindings = append(req.Bindings, ImportBinding{Kind: ImportBindingNamed, ImportedName: spec.Name.Text, LocalName: spec.Local.Text})
				}
			}
			info.Imports = append(info.Imports, req)
		case *ast.ExportDeclaration:
			switch {
			case s.IsAllExport:
				as := ""
				if s.AllAs != nil {
					as = s.AllAs.Text
				}
				info.StarExports = append(info.StarExports, StarExport{Specifier: value.NewStringFromUnits(s.Source.Units).GoString(), As: as})
			case s.IsDefault:
				info.Exports = append(info.Exports, ExportBinding{ExportedName: "default", LocalName: DefaultLocalName})
			case s.Declaration != nil:
				for _, name := range exportedDeclNames(s.Declaration) {
					info.Exports = append(info.Exports, ExportBinding{ExportedName: name, LocalName: name})
				}
			default:
				for _, spec := range s.Specifiers {
					if s.Source != nil {
						info.ReExports = append(info.ReExports, ReExport{Specifier: value.NewStringFromUnits(s.Source.Units).GoString(), ImportedName: spec.Local.Text, ExportedName: spec.Exported.Text})
					} else {
						info.Exports = append(info.Exports, ExportBinding{ExportedName: spec.Exported.Text, LocalName: spec.Local.Text})
					}
				}
			}
		}
	}

	c := NewCompiler("<module>", source)
	c.block.Strict = true
	c.hoistVarsAndFunctions(prog.Body, true)
	c.hoistTopLevelLexicalDecls(prog.Body)
	c.compileStatements(prog.Body)
	c.emit(OpHalt, 0, 0, 0, 0)
	c.block.RegistersNeeded = c.maxReg
	info.Code = c.block
	return info, c.errs
}

// exportedDeclNames lists the binding names `export <declaration>`
// introduces: every declared pattern name for a var/let/const statement, or
// the single declared identifier for a function/class declaration.
func exportedDeclNames(decl ast.Statement) []string {
	switch d := decl.(type) {
	case *ast.VariableDeclaration:
		var names []string
		for _, dd := range d.Declarations {
			names = append(names, patternNames(dd.Target)...)
		}
		return names
	case *ast.FunctionDeclaration:
		if d.Id != nil {
			return []string{d.Id.Text}
		}
	case *ast.ClassDeclaration:
		if d.Id != nil {
			return []string{d.Id.Text}
		}
	}
	return nil
}

// hoistTopLevelLexicalDecls pre-declares every let/const/class binding
// directly at script or module top level, mirroring hoistLexicalDecls'
// per-block pass. Top-level function declarations are deliberately not
// handled here: hoistVarsAndFunctions already hoists and binds them as
// var-like (no TDZ), and handling them again here would compile each body
// twice.
func (c *Compiler) hoistTopLevelLexicalDecls(body []ast.Statement) {
	for _, s := range body {
		switch d := s.(type) {
		case *ast.VariableDeclaration:
			if d.Kind == ast.DeclVar {
				continue
			}
			op := OpDeclareLet
			if d.Kind == ast.DeclConst {
				op = OpDeclareConst
			}
			for _, decl := range d.Declarations {
				for _, name := range patternNames(decl.Target) {
					c.emit(op, 0, c.nameIdx(name), 0, d.Pos().StartLine)
				}
			}
		case *ast.ClassDeclaration:
			if d.Id != nil {
				c.emit(OpDeclareLet, 0, c.nameIdx(d.Id.Text), 0, d.Pos().StartLine)
			}
		case *ast.ExportDeclaration:
			if d.Declaration != nil {
				c.hoistTopLevelLexicalDecls([]ast.Statement{d.Declaration})
			} else if d.IsDefault {
				c.emit(OpDeclareLet, 0, c.nameIdx(DefaultLocalName), 0, d.Pos().StartLine)
			}
		}
	}
}

// compileExportDeclaration compiles the three forms that emit bytecode
// (declaration export, default export of an expression, default export of
// a named function/class declaration); a re-export list or `export *` emits
// nothing here since it introduces no local binding — the module linker
// wires those directly against the source module's environment.
func (c *Compiler) compileExportDeclaration(s *ast.ExportDeclaration, line int) {
	switch {
	case s.Declaration != nil:
		c.compileStatement(s.Declaration)
	case s.IsDefault:
		switch d := s.Default.(type) {
		case *ast.FunctionDeclaration:
			mark := c.regMark()
			fn := c.allocReg()
			c.compileFunctionFromDecl(d, fn, line)
			c.bindPattern(&ast.Identifier{Token: s.Token, Text: DefaultLocalName}, fn, bindLexical, line)
			c.regRelease(mark)
		case *ast.ClassDeclaration:
			mark := c.regMark()
			cls := c.allocReg()
			c.compileClassExpr(d.Id, d.SuperClass, d.Body, cls, line)
			c.bindPattern(&ast.Identifier{Token: s.Token, Text: DefaultLocalName}, cls, bindLexical, line)
			c.regRelease(mark)
		case ast.Expression:
			mark := c.regMark()
			v := c.allocReg()
			c.compileExprInto(d, v)
			c.bindPattern(&ast.Identifier{Token: s.Token, Text: DefaultLocalName}, v, bindLexical, line)
			c.regRelease(mark)
		}
	}
}
