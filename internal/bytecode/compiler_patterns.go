package bytecode

import (
	"github.com/ecmago/ecma/internal/ast"
)

// bindKind selects which environment operation bindPattern emits for a
// simple identifier target: a fresh declaration (var/let/const, each
// with different mutability/TDZ semantics) or a plain assignment to an
// existing binding.
type bindKind int

const (
	bindVar bindKind = iota
	bindLexical
	bindAssign
)

// isDestructuringPattern reports whether pat requires element-by-element
// binding rather than a single SetVar/SetProp.
func isDestructuringPattern(pat ast.Pattern) bool {
	switch pat.(type) {
	case *ast.ArrayPattern, *ast.ObjectPattern, *ast.ArrayLiteral, *ast.ObjectLiteral, *ast.AssignmentPattern:
		return true
	}
	return false
}

// bindPattern binds register src into pat, recursing through array and
// object destructuring. kind controls whether a leaf Identifier target
// is declared fresh or assigned to an existing binding.
func (c *Compiler) bindPattern(pat ast.Pattern, src int32, kind bindKind, line int) {
	switch p := pat.(type) {
	case *ast.Identifier:
		switch kind {
		case bindVar:
			c.emit(OpSetVar, src, c.nameIdx(p.Text), 0, line)
		case bindLexical:
			c.emit(OpInitVar, src, c.nameIdx(p.Text), 0, line)
		default:
			c.emit(OpSetVar, src, c.nameIdx(p.Text), 0, line)
		}

	case *ast.MemberExpression:
		c.storeInto(p, src, line)

	case *ast.AssignmentPattern:
		mark := c.regMark()
		resolved := c.allocReg()
		c.emit(OpMove, resolved, src, 0, line)
		undef := c.allocReg()
		c.emit(OpLoadUndefined, undef, 0, 0, line)
		isUndef := c.allocReg()
		c.emit(OpStrictEq, isUndef, resolved, undef, line)
		skip := c.emit(OpJumpIfFalse, 0, isUndef, 0, line)
		c.compileExprInto(p.Default, resolved)
		c.patchJump(skip, c.here())
		c.bindPattern(p.Target, resolved, kind, line)
		c.regRelease(mark)

	case *ast.ArrayPattern:
		c.bindArrayPattern(p, src, kind, line)

	case *ast.ObjectPattern:
		c.bindObjectPattern(p, src, kind, line)

	case *ast.RestElement:
		c.bindPattern(p.Argument, src, kind, line)

	default:
		c.errorf(line, "compiler: unsupported binding target %T", pat)
	}
}

func (c *Compiler) bindArrayPattern(p *ast.ArrayPattern, src int32, kind bindKind, line int) {
	mark := c.regMark()
	iter := c.allocReg()
	c.emit(OpGetIterator, iter, src, 0, line)
	for _, el := range p.Elements {
		if rest, ok := el.(*ast.RestElement); ok {
			restArr := c.allocReg()
			c.emit(OpNewArray, restArr, 0, 0, line)
			idx := int32(0)
			loopStart := c.here()
			resObj := c.allocReg()
			done := c.allocReg()
			c.emit(OpIteratorNext, iter, resObj, done, line)
			endJump := c.emit(OpJumpIfTrue, 0, done, 0, line)
			v := c.allocReg()
			c.emit(OpIteratorValue, v, resObj, 0, line)
			c.emit(OpAppendElement, restArr, idx, v, line)
			idx++
			c.emit(OpJump, loopStart, 0, 0, line)
			c.patchJump(endJump, c.here())
			c.bindPattern(rest.Argument, restArr, kind, line)
			break
		}
		resObj := c.allocReg()
		done := c.allocReg()
		c.emit(OpIteratorNext, iter, resObj, done, line)
		skipDone := c.emit(OpJumpIfTrue, 0, done, 0, line)
		v := c.allocReg()
		c.emit(OpIteratorValue, v, resObj, 0, line)
		jend := c.emit(OpJump, 0, 0, 0, line)
		c.patchJump(skipDone, c.here())
		undefv := c.allocReg()
		c.emit(OpLoadUndefined, undefv, 0, 0, line)
		c.emit(OpMove, v, undefv, 0, line)
		c.patchJump(jend, c.here())
		if el != nil {
			c.bindPattern(el, v, kind, line)
		}
	}
	c.regRelease(mark)
}

func (c *Compiler) bindObjectPattern(p *ast.ObjectPattern, src int32, kind bindKind, line int) {
	seen := make([]string, 0, len(p.Properties))
	for _, prop := range p.Properties {
		mark := c.regMark()
		v := c.allocReg()
		if prop.Computed {
			key := c.compileExpr(prop.Key)
			c.emit(OpGetIndex, v, src, key, line)
		} else {
			name := propKeyName(prop.Key)
			seen = append(seen, name)
			c.emit(OpGetProp, v, src, c.nameIdx(name), line)
		}
		c.bindPattern(prop.Value, v, kind, line)
		c.regRelease(mark)
	}
	if p.Rest != nil {
		mark := c.regMark()
		restObj := c.allocReg()
		c.emit(OpNewObject, restObj, 0, 0, line)
		c.emit(OpCopyOwnProps, restObj, 0, src, line)
		for _, name := range seen {
			tmp := c.allocReg()
			c.emit(OpDeleteProp, tmp, restObj, c.nameIdx(name), line)
		}
		c.bindPattern(p.Rest.Argument, restObj, kind, line)
		c.regRelease(mark)
	}
}
