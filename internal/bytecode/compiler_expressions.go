package bytecode

import (
	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/value"
)

// compileExpr compiles e into a fresh register and returns it.
func (c *Compiler) compileExpr(e ast.Expression) int32 {
	dst := c.allocReg()
	c.compileExprInto(e, dst)
	return dst
}

// compileExprInto compiles e so its result ends up in dst, the caller's
// choice of destination register (avoids an extra OpMove for the very
// common case of assignment and argument-passing positions).
func (c *Compiler) compileExprInto(e ast.Expression, dst int32) {
	line := e.Pos().StartLine
	switch n := e.(type) {
	case *ast.NumericLiteral:
		c.emit(OpLoadConst, dst, c.constIdx(numKey(n.Value), value.Number(n.Value)), 0, line)
	case *ast.StringLiteral:
		s := value.NewStringFromUnits(n.Units)
		c.emit(OpLoadConst, dst, c.constIdx("s:"+s.GoString(), value.StringValue(s)), 0, line)
	case *ast.BooleanLiteral:
		if n.Value {
			c.emit(OpLoadTrue, dst, 0, 0, line)
		} else {
			c.emit(OpLoadFalse, dst, 0, 0, line)
		}
	case *ast.NullLiteral:
		c.emit(OpLoadNull, dst, 0, 0, line)
	case *ast.BigIntLiteral:
		b, _ := value.NewBigIntFromString(n.Raw)
		c.emit(OpLoadConst, dst, c.constIdx("bi:"+n.Raw, value.BigIntValue(b)), 0, line)
	case *ast.RegExpLiteral:
		c.compileRegExp(n, dst, line)
	case *ast.Identifier:
		c.emit(OpGetVar, dst, c.nameIdx(n.Text), 0, line)
	case *ast.ThisExpression:
		c.emit(OpLoadThis, dst, 0, 0, line)
	case *ast.SuperExpression:
		// Bare `super` only appears as the callee of a call or the
		// object of a member expression, both handled specially by
		// their parent node; reaching here is a parser-level error we
		// tolerate by loading undefined.
		c.emit(OpLoadUndefined, dst, 0, 0, line)
	case *ast.ArrayLiteral:
		c.compileArrayLiteral(n, dst, line)
	case *ast.ObjectLiteral:
		c.compileObjectLiteral(n, dst, line)
	case *ast.TemplateLiteral:
		c.compileTemplateLiteral(n, dst, line)
	case *ast.TaggedTemplateExpression:
		c.compileTaggedTemplate(n, dst, line)
	case *ast.FunctionExpression:
		c.compileFunctionExpr(n, dst, line)
	case *ast.ArrowFunctionExpression:
		c.compileArrowExpr(n, dst, line)
	case *ast.ClassExpression:
		c.compileClassExpr(n.Id, n.SuperClass, n.Body, dst, line)
	case *ast.BinaryExpression:
		c.compileBinaryExpr(n, dst, line)
	case *ast.LogicalExpression:
		c.compileLogicalExpr(n, dst, line)
	case *ast.UnaryExpression:
		c.compileUnaryExpr(n, dst, line)
	case *ast.UpdateExpression:
		c.compileUpdateExpr(n, dst, line)
	case *ast.ConditionalExpression:
		c.compileConditionalExpr(n, dst, line)
	case *ast.AssignmentExpression:
		c.compileAssignmentExpr(n, dst, line)
	case *ast.SequenceExpression:
		for i, sub := range n.Expressions {
			if i == len(n.Expressions)-1 {
				c.compileExprInto(sub, dst)
			} else {
				mark := c.regMark()
				c.compileExpr(sub)
				c.regRelease(mark)
			}
		}
	case *ast.MemberExpression:
		c.compileMemberGet(n, dst, line)
	case *ast.CallExpression:
		c.compileCallExpr(n, dst, line)
	case *ast.NewExpression:
		c.compileNewExpr(n, dst, line)
	case *ast.YieldExpression:
		c.compileYieldExpr(n, dst, line)
	case *ast.AwaitExpression:
		mark := c.regMark()
		arg := c.compileExpr(n.Argument)
		c.emit(OpMove, dst, arg, 0, line)
		c.emit(OpAwait, dst, 0, 0, line)
		c.regRelease(mark)
	case *ast.SpreadElement:
		// Only reachable when a spread sits somewhere compileExpr is
		// called directly on it (a caller bug); real spread positions
		// (array/call/new) are special-cased by their parent node.
		c.compileExprInto(n.Argument, dst)
	default:
		c.errorf(line, "compiler: unhandled expression %T", e)
		c.emit(OpLoadUndefined, dst, 0, 0, line)
	}
}

func numKey(f float64) any { return f }

func (c *Compiler) compileRegExp(n *ast.RegExpLiteral, dst int32, line int) {
	src := value.StringValue(value.NewStringFromGo(n.Pattern))
	flags := value.StringValue(value.NewStringFromGo(n.Flags))
	srcReg := c.allocReg()
	c.emit(OpLoadConst, srcReg, c.constIdx("re-src:"+n.Pattern+"/"+n.Flags, src), 0, line)
	c.emit(OpLoadConst, dst, c.constIdx("re-flags:"+n.Pattern+"/"+n.Flags, flags), 0, line)
	// OpMakeRegExp reads the pattern from register A (src) and the
	// flags from register B (here reusing dst before overwriting it),
	// storing the compiled RegExp object back into A.
	c.emit(OpMakeRegExp, srcReg, dst, 0, line)
	c.emit(OpMove, dst, srcReg, 0, line)
	c.freeReg(srcReg)
}

func (c *Compiler) compileArrayLiteral(n *ast.ArrayLiteral, dst int32, line int) {
	c.emit(OpNewArray, dst, 0, 0, line)
	idx := int32(0)
	for _, el := range n.Elements {
		if el == nil {
			idx++
			continue
		}
		if sp, ok := el.(*ast.SpreadElement); ok {
			mark := c.regMark()
			src := c.compileExpr(sp.Argument)
			c.emit(OpSpreadInto, dst, 0, src, line)
			c.regRelease(mark)
			continue
		}
		mark := c.regMark()
		v := c.compileExpr(el)
		c.emit(OpAppendElement, dst, idx, v, line)
		c.regRelease(mark)
		idx++
	}
}

func (c *Compiler) compileObjectLiteral(n *ast.ObjectLiteral, dst int32, line int) {
	c.emit(OpNewObject, dst, 0, 0, line)
	for _, p := range n.Properties {
		if p.Spread {
			mark := c.regMark()
			src := c.compileExpr(p.Value)
			c.emit(OpCopyOwnProps, dst, 0, src, line)
			c.regRelease(mark)
			continue
		}
		mark := c.regMark()
		switch p.Kind {
		case ast.PropertyGet, ast.PropertySet:
			fn := p.Value.(*ast.FunctionExpression)
			v := c.allocReg()
			c.compileFunctionExpr(fn, v, line)
			if p.Computed {
				key := c.compileExpr(p.Key)
				op := OpDefineGetter
				if p.Kind == ast.PropertySet {
					op = OpDefineSetter
				}
				_ = key
				c.emit(op, dst, c.keyNameOrZero(p.Key), v, line)
			} else {
				op := OpDefineGetter
				if p.Kind == ast.PropertySet {
					op = OpDefineSetter
				}
				c.emit(op, dst, c.nameIdx(propKeyName(p.Key)), v, line)
			}
		case ast.PropertyMethod:
			fn := p.Value.(*ast.FunctionExpression)
			v := c.allocReg()
			c.compileFunctionExpr(fn, v, line)
			c.defineProp(dst, p, v, line)
		default:
			v := c.compileExpr(p.Value)
			c.defineProp(dst, p, v, line)
		}
		c.regRelease(mark)
	}
}

func (c *Compiler) keyNameOrZero(key ast.Expression) int32 {
	if id, ok := key.(*ast.Identifier); ok {
		return c.nameIdx(id.Text)
	}
	return 0
}

func propKeyName(key ast.Expression) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Text
	case *ast.StringLiteral:
		return value.NewStringFromUnits(k.Units).GoString()
	case *ast.NumericLiteral:
		return value.Number(k.Value).DebugString()
	}
	return ""
}

func (c *Compiler) defineProp(objReg int32, p ast.ObjectProperty, valReg int32, line int) {
	if p.Computed {
		key := c.compileExpr(p.Key)
		c.emit(OpDefineComputedProp, objReg, key, valReg, line)
		return
	}
	c.emit(OpDefineDataProp, objReg, c.nameIdx(propKeyName(p.Key)), valReg, line)
}

func (c *Compiler) compileTemplateLiteral(n *ast.TemplateLiteral, dst int32, line int) {
	mark := c.regMark()
	count := int32(1 + 2*len(n.Expressions))
	first := c.allocRun(count)
	c.emit(OpLoadConst, first, c.constRaw(value.StringValue(value.NewStringFromUnits(n.Quasis[0]))), 0, line)
	for i, expr := range n.Expressions {
		c.compileExprInto(expr, first+1+int32(2*i))
		q := first + 2 + int32(2*i)
		c.emit(OpLoadConst, q, c.constRaw(value.StringValue(value.NewStringFromUnits(n.Quasis[i+1]))), 0, line)
	}
	c.emit(OpConcatTemplate, dst, first, count, line)
	c.regRelease(mark)
}

func (c *Compiler) compileTaggedTemplate(n *ast.TaggedTemplateExpression, dst int32, line int) {
	// Tagged templates pass the strings array (cooked quasis, which
	// also carries a `.raw` property the VM attaches) followed by each
	// substitution as ordinary call arguments.
	mark := c.regMark()
	tag := c.compileExpr(n.Tag)
	stringsArr := c.allocReg()
	c.emit(OpNewArray, stringsArr, 0, 0, line)
	for i, q := range n.Quasi.Quasis {
		v := c.allocReg()
		c.emit(OpLoadConst, v, c.constRaw(value.StringValue(value.NewStringFromUnits(q))), 0, line)
		c.emit(OpAppendElement, stringsArr, int32(i), v, line)
		c.freeReg(v)
	}
	argc := int32(1 + len(n.Quasi.Expressions))
	run := c.allocRun(1 + argc) // this slot + (strings array + substitutions)
	c.emit(OpLoadUndefined, run, 0, 0, line)
	c.emit(OpMove, run+1, stringsArr, 0, line)
	for i, sub := range n.Quasi.Expressions {
		c.compileExprInto(sub, run+2+int32(i))
	}
	c.emit(OpMove, dst, tag, 0, line)
	c.emit(OpCall, dst, run, argc, line)
	c.regRelease(mark)
}

func (c *Compiler) compileBinaryExpr(n *ast.BinaryExpression, dst int32, line int) {
	mark := c.regMark()
	l := c.compileExpr(n.Left)
	r := c.compileExpr(n.Right)
	op, ok := binOpFor(n.Operator)
	if !ok {
		c.errorf(line, "compiler: unknown binary operator %q", n.Operator)
		op = OpAdd
	}
	c.emit(op, dst, l, r, line)
	c.regRelease(mark)
}

func binOpFor(op string) (OpCode, bool) {
	switch op {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*":
		return OpMul, true
	case "/":
		return OpDiv, true
	case "%":
		return OpMod, true
	case "**":
		return OpExp, true
	case "&":
		return OpBitAnd, true
	case "|":
		return OpBitOr, true
	case "^":
		return OpBitXor, true
	case "<<":
		return OpShl, true
	case ">>":
		return OpShr, true
	case ">>>":
		return OpUShr, true
	case "==":
		return OpEq, true
	case "!=":
		return OpNotEq, true
	case "===":
		return OpStrictEq, true
	case "!==":
		return OpStrictNotEq, true
	case "<":
		return OpLess, true
	case "<=":
		return OpLessEq, true
	case ">":
		return OpGreater, true
	case ">=":
		return OpGreaterEq, true
	case "instanceof":
		return OpInstanceOf, true
	case "in":
		return OpIn, true
	}
	return OpNop, false
}

func (c *Compiler) compileLogicalExpr(n *ast.LogicalExpression, dst int32, line int) {
	c.compileExprInto(n.Left, dst)
	var jmp int
	switch n.Operator {
	case "&&":
		jmp = c.emit(OpJumpIfFalse, 0, dst, 0, line)
	case "||":
		jmp = c.emit(OpJumpIfTrue, 0, dst, 0, line)
	case "??":
		jmp = c.emit(OpJumpIfNotNullish, 0, dst, 0, line)
	}
	c.compileExprInto(n.Right, dst)
	c.patchJump(jmp, c.here())
}

func (c *Compiler) compileUnaryExpr(n *ast.UnaryExpression, dst int32, line int) {
	switch n.Operator {
	case "delete":
		c.compileDelete(n.Argument, dst, line)
		return
	case "typeof":
		if id, ok := n.Argument.(*ast.Identifier); ok {
			c.emit(OpTypeofVar, dst, c.nameIdx(id.Text), 0, line)
			return
		}
	case "void":
		mark := c.regMark()
		c.compileExpr(n.Argument)
		c.regRelease(mark)
		c.emit(OpLoadUndefined, dst, 0, 0, line)
		return
	}
	mark := c.regMark()
	v := c.compileExpr(n.Argument)
	switch n.Operator {
	case "-":
		c.emit(OpNeg, dst, v, 0, line)
	case "+":
		c.emit(OpPos, dst, v, 0, line)
	case "!":
		c.emit(OpNot, dst, v, 0, line)
	case "~":
		c.emit(OpBitNot, dst, v, 0, line)
	case "typeof":
		c.emit(OpTypeof, dst, v, 0, line)
	default:
		c.errorf(line, "compiler: unknown unary operator %q", n.Operator)
	}
	c.regRelease(mark)
}

func (c *Compiler) compileDelete(target ast.Expression, dst int32, line int) {
	m, ok := target.(*ast.MemberExpression)
	if !ok {
		if id, ok := target.(*ast.Identifier); ok {
			c.emit(OpDeleteVar, dst, c.nameIdx(id.Text), 0, line)
			return
		}
		c.emit(OpLoadTrue, dst, 0, 0, line)
		return
	}
	mark := c.regMark()
	obj := c.compileExpr(m.Object)
	if m.Computed {
		key := c.compileExpr(m.Property)
		c.emit(OpDeleteIndex, obj, key, dst, line)
	} else {
		c.emit(OpDeleteProp, dst, obj, c.nameIdx(m.Property.(*ast.Identifier).Text), line)
	}
	c.regRelease(mark)
}

func (c *Compiler) compileUpdateExpr(n *ast.UpdateExpression, dst int32, line int) {
	delta := value.Number(1)
	if n.Operator == "--" {
		delta = value.Number(-1)
	}
	old := c.allocReg()
	c.compileExprInto(n.Argument, old)
	oneReg := c.allocReg()
	c.emit(OpLoadConst, oneReg, c.constIdx(numKey(delta.AsFloat64()), delta), 0, line)
	newVal := c.allocReg()
	c.emit(OpAdd, newVal, old, oneReg, line)
	c.storeInto(n.Argument, newVal, line)
	if n.Prefix {
		c.emit(OpMove, dst, newVal, 0, line)
	} else {
		c.emit(OpMove, dst, old, 0, line)
	}
	c.freeReg(old)
	c.freeReg(oneReg)
	c.freeReg(newVal)
}

func (c *Compiler) compileConditionalExpr(n *ast.ConditionalExpression, dst int32, line int) {
	mark := c.regMark()
	test := c.compileExpr(n.Test)
	jf := c.emit(OpJumpIfFalse, 0, test, 0, line)
	c.regRelease(mark)
	c.compileExprInto(n.Consequent, dst)
	jend := c.emit(OpJump, 0, 0, 0, line)
	c.patchJump(jf, c.here())
	c.compileExprInto(n.Alternate, dst)
	c.patchJump(jend, c.here())
}

// compileAssignmentExpr handles `=`, compound assignment, and
// destructuring assignment (Target is a pattern reparsed from an
// array/object literal).
func (c *Compiler) compileAssignmentExpr(n *ast.AssignmentExpression, dst int32, line int) {
	if n.Operator == "=" {
		if pat, ok := n.Target.(ast.Pattern); ok {
			if isDestructuringPattern(pat) {
				mark := c.regMark()
				v := c.compileExpr(n.Value)
				c.bindPattern(pat, v, bindAssign, line)
				c.emit(OpMove, dst, v, 0, line)
				c.regRelease(mark)
				return
			}
		}
		c.compileExprInto(n.Value, dst)
		c.storeInto(n.Target.(ast.Expression), dst, line)
		return
	}
	// Compound assignment: `target op= value` reads target, applies
	// the corresponding binary op, writes back.
	baseOp := n.Operator[:len(n.Operator)-1]
	mark := c.regMark()
	cur := c.allocReg()
	c.compileExprInto(n.Target.(ast.Expression), cur)
	if baseOp == "&&" || baseOp == "||" || baseOp == "??" {
		var jmp int
		switch baseOp {
		case "&&":
			jmp = c.emit(OpJumpIfFalse, 0, cur, 0, line)
		case "||":
			jmp = c.emit(OpJumpIfTrue, 0, cur, 0, line)
		case "??":
			jmp = c.emit(OpJumpIfNotNullish, 0, cur, 0, line)
		}
		c.compileExprInto(n.Value, cur)
		c.storeInto(n.Target.(ast.Expression), cur, line)
		c.patchJump(jmp, c.here())
		c.emit(OpMove, dst, cur, 0, line)
		c.regRelease(mark)
		return
	}
	rhs := c.compileExpr(n.Value)
	op, _ := binOpFor(baseOp)
	c.emit(op, cur, cur, rhs, line)
	c.storeInto(n.Target.(ast.Expression), cur, line)
	c.emit(OpMove, dst, cur, 0, line)
	c.regRelease(mark)
}

// storeInto assigns register v into the simple (non-destructuring)
// assignment target target.
func (c *Compiler) storeInto(target ast.Expression, v int32, line int) {
	switch t := target.(type) {
	case *ast.Identifier:
		c.emit(OpSetVar, v, c.nameIdx(t.Text), 0, line)
	case *ast.MemberExpression:
		mark := c.regMark()
		obj := c.compileExpr(t.Object)
		if t.Computed {
			key := c.compileExpr(t.Property)
			c.emit(OpSetIndex, obj, key, v, line)
		} else {
			c.emit(OpSetProp, c.nameIdx(t.Property.(*ast.Identifier).Text), obj, v, line)
		}
		c.regRelease(mark)
	default:
		c.errorf(line, "compiler: invalid assignment target %T", target)
	}
}

func (c *Compiler) compileMemberGet(n *ast.MemberExpression, dst int32, line int) {
	if _, ok := n.Object.(*ast.SuperExpression); ok {
		if n.Computed {
			c.errorf(line, "compiler: computed super property access not supported")
			c.emit(OpLoadUndefined, dst, 0, 0, line)
			return
		}
		c.emit(OpLoadThis, dst, 0, 0, line)
		c.emit(OpGetSuperProp, dst, c.nameIdx(n.Property.(*ast.Identifier).Text), 0, line)
		return
	}
	mark := c.regMark()
	obj := c.compileExpr(n.Object)
	if n.Optional {
		skip := c.emit(OpJumpIfNullish, 0, obj, 0, line)
		c.memberRead(n, obj, dst, line)
		end := c.emit(OpJump, 0, 0, 0, line)
		c.patchJump(skip, c.here())
		c.emit(OpLoadUndefined, dst, 0, 0, line)
		c.patchJump(end, c.here())
		c.regRelease(mark)
		return
	}
	c.memberRead(n, obj, dst, line)
	c.regRelease(mark)
}

func (c *Compiler) memberRead(n *ast.MemberExpression, obj, dst int32, line int) {
	if n.Computed {
		key := c.compileExpr(n.Property)
		c.emit(OpGetIndex, dst, obj, key, line)
		return
	}
	c.emit(OpGetProp, dst, obj, c.nameIdx(n.Property.(*ast.Identifier).Text), line)
}

func (c *Compiler) compileCallExpr(n *ast.CallExpression, dst int32, line int) {
	mark := c.regMark()
	if m, ok := n.Callee.(*ast.MemberExpression); ok {
		if _, isSuper := m.Object.(*ast.SuperExpression); !isSuper {
			obj := c.compileExpr(m.Object)
			callee := c.allocReg()
			c.memberRead(m, obj, callee, line)
			c.compileCallWithThis(n, callee, func(thisSlot int32) { c.emit(OpMove, thisSlot, obj, 0, line) }, dst, line)
			c.regRelease(mark)
			return
		}
	}
	if _, ok := n.Callee.(*ast.SuperExpression); ok {
		c.compileSuperCall(n, dst, line)
		c.regRelease(mark)
		return
	}
	callee := c.compileExpr(n.Callee)
	c.compileCallWithThis(n, callee, func(thisSlot int32) { c.emit(OpLoadUndefined, thisSlot, 0, 0, line) }, dst, line)
	c.regRelease(mark)
}

// compileCallWithThis emits a full call given an already-computed
// callee register, a thunk that fills the reserved this-slot, and the
// argument list. The this register and every argument register are
// allocated as one contiguous run so the VM can address them as
// (base, count) instead of an explicit index list.
func (c *Compiler) compileCallWithThis(n *ast.CallExpression, callee int32, fillThis func(int32), dst int32, line int) {
	if hasSpread(n.Arguments) {
		thisSlot := c.allocReg()
		fillThis(thisSlot)
		argsArr := c.compileSpreadArgs(n.Arguments, line)
		c.emit(OpMove, dst, callee, 0, line)
		c.emit(OpCallSpread, dst, thisSlot, argsArr, line)
		return
	}
	run := c.allocRun(int32(1 + len(n.Arguments)))
	fillThis(run)
	for i, a := range n.Arguments {
		c.compileExprInto(a, run+1+int32(i))
	}
	c.emit(OpMove, dst, callee, 0, line)
	c.emit(OpCall, dst, run, int32(len(n.Arguments)), line)
}

func hasSpread(args []ast.Expression) bool {
	for _, a := range args {
		if _, ok := a.(*ast.SpreadElement); ok {
			return true
		}
	}
	return false
}

func (c *Compiler) compileSpreadArgs(args []ast.Expression, line int) int32 {
	arr := c.allocReg()
	c.emit(OpNewArray, arr, 0, 0, line)
	idx := int32(0)
	for _, a := range args {
		if sp, ok := a.(*ast.SpreadElement); ok {
			mark := c.regMark()
			src := c.compileExpr(sp.Argument)
			c.emit(OpSpreadInto, arr, 0, src, line)
			c.regRelease(mark)
			continue
		}
		mark := c.regMark()
		v := c.compileExpr(a)
		c.emit(OpAppendElement, arr, idx, v, line)
		c.regRelease(mark)
		idx++
	}
	return arr
}

func (c *Compiler) compileSuperCall(n *ast.CallExpression, dst int32, line int) {
	ctor := c.allocReg()
	c.emit(OpLoadSuperConstructor, ctor, 0, 0, line)
	if hasSpread(n.Arguments) {
		argsArr := c.compileSpreadArgs(n.Arguments, line)
		nt := c.allocReg()
		c.emit(OpLoadNewTarget, nt, 0, 0, line)
		c.emit(OpMove, dst, ctor, 0, line)
		c.emit(OpSuperCallSpread, dst, nt, argsArr, line)
	} else {
		run := c.allocRun(int32(1 + len(n.Arguments)))
		c.emit(OpLoadNewTarget, run, 0, 0, line)
		for i, a := range n.Arguments {
			c.compileExprInto(a, run+1+int32(i))
		}
		c.emit(OpMove, dst, ctor, 0, line)
		c.emit(OpSuperCall, dst, run, int32(len(n.Arguments)), line)
	}
	c.emit(OpBindThis, dst, 0, 0, line)
}

func (c *Compiler) compileNewExpr(n *ast.NewExpression, dst int32, line int) {
	mark := c.regMark()
	callee := c.compileExpr(n.Callee)
	if hasSpread(n.Arguments) {
		argsArr := c.compileSpreadArgs(n.Arguments, line)
		c.emit(OpMove, dst, callee, 0, line)
		c.emit(OpNewSpread, dst, 0, argsArr, line)
	} else {
		run := c.allocRun(int32(len(n.Arguments)))
		for i, a := range n.Arguments {
			c.compileExprInto(a, run+int32(i))
		}
		c.emit(OpMove, dst, callee, 0, line)
		c.emit(OpNew, dst, run, int32(len(n.Arguments)), line)
	}
	c.regRelease(mark)
}

func (c *Compiler) compileYieldExpr(n *ast.YieldExpression, dst int32, line int) {
	if n.Argument == nil {
		c.emit(OpLoadUndefined, dst, 0, 0, line)
	} else {
		c.compileExprInto(n.Argument, dst)
	}
	if n.Delegate {
		c.emit(OpYieldStar, dst, 0, 0, line)
	} else {
		c.emit(OpYield, dst, 0, 0, line)
	}
}
