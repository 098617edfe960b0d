package bytecode

import (
	"github.com/ecmago/ecma/internal/ast"
)

func (c *Compiler) compileStatements(stmts []ast.Statement) {
	for _, s := range stmts {
		c.compileStatement(s)
	}
}

// hoistVarsAndFunctions walks a function or script body collecting every
// `var`-declared name (descending into nested blocks, if/for/while/try/
// switch/labeled/with statements, but never into a nested function,
// arrow, or class body) and emits one OpDeclareVar per unique name.
// Top-level function declarations are then compiled and bound in source
// order, after all var names are declared, matching the two-pass nature
// of hoisting: a var and a function declaration sharing a name end up
// bound to the function.
func (c *Compiler) hoistVarsAndFunctions(body []ast.Statement, topLevel bool) {
	seen := make(map[string]bool)
	var walkVars func(stmts []ast.Statement)
	var walkStmt func(s ast.Statement)
	walkStmt = func(s ast.Statement) {
		switch st := s.(type) {
		case *ast.VariableDeclaration:
			if st.Kind != ast.DeclVar {
				return
			}
			for _, d := range st.Declarations {
				for _, name := range patternNames(d.Target) {
					if !seen[name] {
						seen[name] = true
						c.emit(OpDeclareVar, 0, c.nameIdx(name), 0, st.Pos().StartLine)
					}
				}
			}
		case *ast.FunctionDeclaration:
			if st.Id != nil && !seen[st.Id.Text] {
				seen[st.Id.Text] = true
				c.emit(OpDeclareVar, 0, c.nameIdx(st.Id.Text), 0, st.Pos().StartLine)
			}
		case *ast.BlockStatement:
			walkVars(st.Body)
		case *ast.IfStatement:
			walkStmt(st.Consequent)
			if st.Alternate != nil {
				walkStmt(st.Alternate)
			}
		case *ast.ForStatement:
			if decl, ok := st.Init.(*ast.VariableDeclaration); ok {
				walkStmt(decl)
			}
			walkStmt(st.Body)
		case *ast.ForInStatement:
			if decl, ok := st.Left.(*ast.VariableDeclaration); ok && decl.Kind == ast.DeclVar {
				walkStmt(decl)
			}
			walkStmt(st.Body)
		case *ast.ForOfStatement:
			if decl, ok := st.Left.(*ast.VariableDeclaration); ok && decl.Kind == ast.DeclVar {
				walkStmt(decl)
			}
			walkStmt(st.Body)
		case *ast.WhileStatement:
			walkStmt(st.Body)
		case *ast.DoWhileStatement:
			walkStmt(st.Body)
		case *ast.SwitchStatement:
			for _, cs := range st.Cases {
				walkVars(cs.Consequent)
			}
		case *ast.TryStatement:
			walkVars(st.Block.Body)
			if st.Handler != nil {
				walkVars(st.Handler.Body.Body)
			}
			if st.Finalizer != nil {
				walkVars(st.Finalizer.Body)
			}
		case *ast.LabeledStatement:
			walkStmt(st.Body)
		case *ast.WithStatement:
			walkStmt(st.Body)
		case *ast.ExportDeclaration:
			if st.Declaration != nil {
				walkStmt(st.Declaration)
			}
		}
	}
	walkVars = func(stmts []ast.Statement) {
		for _, s := range stmts {
			walkStmt(s)
		}
	}
	walkVars(body)

	if !topLevel {
		return
	}
	for _, s := range body {
		target := s
		if ed, ok := s.(*ast.ExportDeclaration); ok && ed.Declaration != nil {
			target = ed.Declaration
		}
		if fd, ok := target.(*ast.FunctionDeclaration); ok && fd.Id != nil {
			mark := c.regMark()
			fn := c.allocReg()
			c.compileFunctionFromDecl(fd, fn, fd.Pos().StartLine)
			c.emit(OpSetVar, fn, c.nameIdx(fd.Id.Text), 0, fd.Pos().StartLine)
			c.regRelease(mark)
		}
	}
}

func (c *Compiler) compileStatement(stmt ast.Statement) {
	line := stmt.Pos().StartLine
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		mark := c.regMark()
		if s.Expression != nil {
			c.compileExpr(s.Expression)
		}
		c.regRelease(mark)
	case *ast.BlockStatement:
		c.compileBlock(s)
	case *ast.VariableDeclaration:
		c.compileVarDecl(s, line)
	case *ast.FunctionDeclaration:
		// Already hoisted and initialized by hoistVarsAndFunctions;
		// nothing to do at the statement's source position.
	case *ast.ClassDeclaration:
		c.compileClassDeclaration(s, line)
	case *ast.IfStatement:
		c.compileIf(s, line)
	case *ast.WhileStatement:
		c.compileWhile(s, "", line)
	case *ast.DoWhileStatement:
		c.compileDoWhile(s, "", line)
	case *ast.ForStatement:
		c.compileFor(s, "", line)
	case *ast.ForInStatement:
		c.compileForIn(s, "", line)
	case *ast.ForOfStatement:
		c.compileForOf(s, "", line)
	case *ast.SwitchStatement:
		c.compileSwitch(s, "", line)
	case *ast.BreakStatement:
		c.compileBreak(s, line)
	case *ast.ContinueStatement:
		c.compileContinue(s, line)
	case *ast.ReturnStatement:
		mark := c.regMark()
		r := c.allocReg()
		if s.Argument != nil {
			c.compileExprInto(s.Argument, r)
		} else {
			c.emit(OpLoadUndefined, r, 0, 0, line)
		}
		c.emit(OpReturn, r, 0, 0, line)
		c.regRelease(mark)
	case *ast.ThrowStatement:
		mark := c.regMark()
		v := c.compileExpr(s.Argument)
		c.emit(OpThrow, v, 0, 0, line)
		c.regRelease(mark)
	case *ast.TryStatement:
		c.compileTry(s, line)
	case *ast.LabeledStatement:
		c.compileLabeled(s, line)
	case *ast.WithStatement:
		mark := c.regMark()
		obj := c.compileExpr(s.Object)
		c.emit(OpPushWith, obj, 0, 0, line)
		c.regRelease(mark)
		c.compileStatement(s.Body)
		c.emit(OpPopEnv, 0, 0, 0, line)
	case *ast.DebuggerStatement, *ast.EmptyStatement:
		// no-op
	case *ast.ImportDeclaration:
		// Bindings are wired directly into the module environment by the
		// module linker before the body ever runs; nothing to emit.
	case *ast.ExportDeclaration:
		c.compileExportDeclaration(s, line)
	default:
		c.errorf(line, "compiler: unhandled statement %T", s)
	}
}

func (c *Compiler) compileBlock(b *ast.BlockStatement) {
	c.emit(OpPushBlockEnv, 0, 0, 0, b.Pos().StartLine)
	c.hoistLexicalDecls(b.Body)
	c.compileStatements(b.Body)
	c.emit(OpPopEnv, 0, 0, 0, b.Pos().StartLine)
}

// hoistLexicalDecls declares (uninitialized) every let/const/class
// binding and block-scoped function directly inside body, run once at
// block entry so forward references correctly observe the temporal
// dead zone rather than falling through to an outer binding.
func (c *Compiler) hoistLexicalDecls(body []ast.Statement) {
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
		case *ast.FunctionDeclaration:
			if d.Id != nil {
				line := d.Pos().StartLine
				c.emit(OpDeclareLet, 0, c.nameIdx(d.Id.Text), 0, line)
				mark := c.regMark()
				fn := c.allocReg()
				c.compileFunctionFromDecl(d, fn, line)
				c.emit(OpInitVar, fn, c.nameIdx(d.Id.Text), 0, line)
				c.regRelease(mark)
			}
		}
	}
}

// patternNames collects every identifier bound by pat, for hoisting and
// for-in/for-of left-hand-side name discovery.
func patternNames(pat ast.Pattern) []string {
	switch p := pat.(type) {
	case *ast.Identifier:
		return []string{p.Text}
	case *ast.ArrayPattern:
		var names []string
		for _, e := range p.Elements {
			if e != nil {
				names = append(names, patternNames(e)...)
			}
		}
		return names
	case *ast.ObjectPattern:
		var names []string
		for _, prop := range p.Properties {
			names = append(names, patternNames(prop.Value)...)
		}
		if p.Rest != nil {
			names = append(names, patternNames(p.Rest.Argument)...)
		}
		return names
	case *ast.RestElement:
		return patternNames(p.Argument)
	case *ast.AssignmentPattern:
		return patternNames(p.Target)
	}
	return nil
}

func (c *Compiler) compileVarDecl(d *ast.VariableDeclaration, line int) {
	kind := bindVar
	if d.Kind != ast.DeclVar {
		kind = bindLexical
	}
	for _, decl := range d.Declarations {
		mark := c.regMark()
		if decl.Init == nil {
			if d.Kind == ast.DeclVar {
				c.regRelease(mark)
				continue
			}
			v := c.allocReg()
			c.emit(OpLoadUndefined, v, 0, 0, line)
			c.bindPattern(decl.Target, v, kind, line)
			c.regRelease(mark)
			continue
		}
		v := c.allocReg()
		c.compileExprInto(decl.Init, v)
		c.bindPattern(decl.Target, v, kind, line)
		c.regRelease(mark)
	}
}

func (c *Compiler) compileIf(s *ast.IfStatement, line int) {
	mark := c.regMark()
	test := c.compileExpr(s.Test)
	jf := c.emit(OpJumpIfFalse, 0, test, 0, line)
	c.regRelease(mark)
	c.compileStatement(s.Consequent)
	if s.Alternate == nil {
		c.patchJump(jf, c.here())
		return
	}
	jend := c.emit(OpJump, 0, 0, 0, line)
	c.patchJump(jf, c.here())
	c.compileStatement(s.Alternate)
	c.patchJump(jend, c.here())
}

func (c *Compiler) pushLoop(label string, isSwitch bool) *loopCtx {
	lc := &loopCtx{label: label, isSwitch: isSwitch, continueTarget: -1}
	c.loops = append(c.loops, lc)
	if label != "" {
		c.labels[label] = lc
	}
	return lc
}

func (c *Compiler) popLoop(lc *loopCtx, breakTarget int32) {
	for _, ip := range lc.breaks {
		c.patchJump(ip, breakTarget)
	}
	c.loops = c.loops[:len(c.loops)-1]
	if lc.label != "" {
		delete(c.labels, lc.label)
	}
}

func (c *Compiler) compileWhile(s *ast.WhileStatement, label string, line int) {
	lc := c.pushLoop(label, false)
	start := c.here()
	lc.continueTarget = int(start)
	mark := c.regMark()
	test := c.compileExpr(s.Test)
	jf := c.emit(OpJumpIfFalse, 0, test, 0, line)
	c.regRelease(mark)
	c.compileStatement(s.Body)
	c.emit(OpJump, start, 0, 0, line)
	c.patchJump(jf, c.here())
	for _, ip := range lc.continues {
		c.patchJump(ip, start)
	}
	c.popLoop(lc, c.here())
}

func (c *Compiler) compileDoWhile(s *ast.DoWhileStatement, label string, line int) {
	lc := c.pushLoop(label, false)
	start := c.here()
	c.compileStatement(s.Body)
	contTarget := c.here()
	lc.continueTarget = int(contTarget)
	for _, ip := range lc.continues {
		c.patchJump(ip, contTarget)
	}
	mark := c.regMark()
	test := c.compileExpr(s.Test)
	c.emit(OpJumpIfTrue, start, test, 0, line)
	c.regRelease(mark)
	c.popLoop(lc, c.here())
}

func (c *Compiler) compileFor(s *ast.ForStatement, label string, line int) {
	c.emit(OpPushBlockEnv, 0, 0, 0, line)
	if decl, ok := s.Init.(*ast.VariableDeclaration); ok {
		if decl.Kind != ast.DeclVar {
			c.hoistLexicalDecls([]ast.Statement{decl})
		}
		c.compileVarDecl(decl, line)
	} else if expr, ok := s.Init.(ast.Expression); ok {
		mark := c.regMark()
		c.compileExpr(expr)
		c.regRelease(mark)
	}

	lc := c.pushLoop(label, false)
	start := c.here()
	var jf int = -1
	if s.Test != nil {
		mark := c.regMark()
		test := c.compileExpr(s.Test)
		jf = c.emit(OpJumpIfFalse, 0, test, 0, line)
		c.regRelease(mark)
	}
	c.compileStatement(s.Body)
	contTarget := c.here()
	lc.continueTarget = int(contTarget)
	for _, ip := range lc.continues {
		c.patchJump(ip, contTarget)
	}
	if s.Update != nil {
		mark := c.regMark()
		c.compileExpr(s.Update)
		c.regRelease(mark)
	}
	c.emit(OpJump, start, 0, 0, line)
	end := c.here()
	if jf >= 0 {
		c.patchJump(jf, end)
	}
	c.popLoop(lc, end)
	c.emit(OpPopEnv, 0, 0, 0, line)
}

func (c *Compiler) compileForIn(s *ast.ForInStatement, label string, line int) {
	mark := c.regMark()
	right := c.compileExpr(s.Right)
	keysIter := c.allocReg()
	c.emit(OpForInIterator, keysIter, right, 0, line)
	c.regRelease(mark)

	lc := c.pushLoop(label, false)
	start := c.here()
	lc.continueTarget = int(start)
	resObj := c.allocReg()
	done := c.allocReg()
	c.emit(OpIteratorNext, keysIter, resObj, done, line)
	jend := c.emit(OpJumpIfTrue, 0, done, 0, line)
	v := c.allocReg()
	c.emit(OpIteratorValue, v, resObj, 0, line)
	c.emit(OpPushBlockEnv, 0, 0, 0, line)
	c.bindForTarget(s.Left, v, line)
	c.compileStatement(s.Body)
	c.emit(OpPopEnv, 0, 0, 0, line)
	for _, ip := range lc.continues {
		c.patchJump(ip, c.here())
	}
	c.emit(OpJump, start, 0, 0, line)
	c.patchJump(jend, c.here())
	c.popLoop(lc, c.here())
}

func (c *Compiler) compileForOf(s *ast.ForOfStatement, label string, line int) {
	mark := c.regMark()
	right := c.compileExpr(s.Right)
	iter := c.allocReg()
	if s.IsAwait {
		c.emit(OpGetAsyncIterator, iter, right, 0, line)
	} else {
		c.emit(OpGetIterator, iter, right, 0, line)
	}
	c.regRelease(mark)

	lc := c.pushLoop(label, false)
	start := c.here()
	lc.continueTarget = int(start)
	resObj := c.allocReg()
	done := c.allocReg()
	c.emit(OpIteratorNext, iter, resObj, done, line)
	if s.IsAwait {
		c.emit(OpAwait, resObj, 0, 0, line)
	}
	jend := c.emit(OpJumpIfTrue, 0, done, 0, line)
	v := c.allocReg()
	c.emit(OpIteratorValue, v, resObj, 0, line)
	c.emit(OpPushBlockEnv, 0, 0, 0, line)
	c.bindForTarget(s.Left, v, line)
	c.compileStatement(s.Body)
	c.emit(OpPopEnv, 0, 0, 0, line)
	for _, ip := range lc.continues {
		c.patchJump(ip, c.here())
	}
	c.emit(OpJump, start, 0, 0, line)
	c.popLoop(lc, c.here())
	c.emit(OpIteratorClose, iter, 0, 0, line)
	c.patchJump(jend, c.here())
}

// bindForTarget binds one for-in/for-of iteration value to the loop's
// left-hand side, which is either a fresh per-iteration declaration or
// an existing assignment target.
func (c *Compiler) bindForTarget(left ast.Node, v int32, line int) {
	if decl, ok := left.(*ast.VariableDeclaration); ok {
		kind := bindVar
		if decl.Kind != ast.DeclVar {
			kind = bindLexical
			c.hoistLexicalDecls([]ast.Statement{decl})
		}
		c.bindPattern(decl.Declarations[0].Target, v, kind, line)
		return
	}
	c.bindPattern(left.(ast.Pattern), v, bindAssign, line)
}

func (c *Compiler) compileSwitch(s *ast.SwitchStatement, label string, line int) {
	mark := c.regMark()
	disc := c.compileExpr(s.Discriminant)
	c.emit(OpPushBlockEnv, 0, 0, 0, line)

	type arm struct {
		jumpIfMatch int
		body        []ast.Statement
	}
	var arms []arm
	defaultIdx := -1
	for _, cs := range s.Cases {
		if cs.Test == nil {
			defaultIdx = len(arms)
			arms = append(arms, arm{jumpIfMatch: -1, body: cs.Consequent})
			continue
		}
		t := c.compileExpr(cs.Test)
		eq := c.allocReg()
		c.emit(OpStrictEq, eq, disc, t, line)
		j := c.emit(OpJumpIfTrue, 0, eq, 0, line)
		arms = append(arms, arm{jumpIfMatch: j, body: cs.Consequent})
	}
	c.regRelease(mark)

	afterTests := c.here()
	if defaultIdx >= 0 {
		c.emit(OpJump, afterTests+1, 0, 0, line) // will be patched below once default body offset known
	} else {
		// no default: if nothing matched, skip straight to the end
	}
	endJump := -1
	if defaultIdx < 0 {
		endJump = c.emit(OpJump, 0, 0, 0, line)
	}

	lc := c.pushLoop(label, true)
	bodyStarts := make([]int32, len(arms))
	for i, a := range arms {
		bodyStarts[i] = c.here()
		if a.jumpIfMatch >= 0 {
			c.patchJump(a.jumpIfMatch, bodyStarts[i])
		}
		c.compileStatements(a.body)
	}
	end := c.here()
	if endJump >= 0 {
		c.patchJump(endJump, end)
	}
	if defaultIdx >= 0 {
		c.patchJump(afterTests, bodyStarts[defaultIdx])
	}
	c.popLoop(lc, end)
	c.emit(OpPopEnv, 0, 0, 0, line)
}

func (c *Compiler) compileBreak(s *ast.BreakStatement, line int) {
	var lc *loopCtx
	if s.Label != nil {
		lc = c.labels[s.Label.Text]
	} else if len(c.loops) > 0 {
		lc = c.loops[len(c.loops)-1]
	}
	if lc == nil {
		c.errorf(line, "compiler: break outside loop or switch")
		return
	}
	j := c.emit(OpJump, 0, 0, 0, line)
	lc.breaks = append(lc.breaks, j)
}

func (c *Compiler) compileContinue(s *ast.ContinueStatement, line int) {
	var lc *loopCtx
	if s.Label != nil {
		lc = c.labels[s.Label.Text]
	} else {
		for i := len(c.loops) - 1; i >= 0; i-- {
			if !c.loops[i].isSwitch {
				lc = c.loops[i]
				break
			}
		}
	}
	if lc == nil || lc.isSwitch {
		c.errorf(line, "compiler: continue outside loop")
		return
	}
	if lc.continueTarget >= 0 {
		c.emit(OpJump, int32(lc.continueTarget), 0, 0, line)
		return
	}
	j := c.emit(OpJump, 0, 0, 0, line)
	lc.continues = append(lc.continues, j)
}

func (c *Compiler) compileLabeled(s *ast.LabeledStatement, line int) {
	switch body := s.Body.(type) {
	case *ast.WhileStatement:
		c.compileWhile(body, s.Label.Text, line)
	case *ast.DoWhileStatement:
		c.compileDoWhile(body, s.Label.Text, line)
	case *ast.ForStatement:
		c.compileFor(body, s.Label.Text, line)
	case *ast.ForInStatement:
		c.compileForIn(body, s.Label.Text, line)
	case *ast.ForOfStatement:
		c.compileForOf(body, s.Label.Text, line)
	case *ast.SwitchStatement:
		c.compileSwitch(body, s.Label.Text, line)
	default:
		// A label on a non-iteration statement only matters to break;
		// model it as a single-iteration loop arm so compileBreak's
		// label lookup still resolves here.
		lc := c.pushLoop(s.Label.Text, true)
		c.compileStatement(s.Body)
		c.popLoop(lc, c.here())
	}
}

func (c *Compiler) compileTry(s *ast.TryStatement, line int) {
	catchIP := int32(-1)
	finallyIP := int32(-1)
	handlerIdx := c.emit(OpPushHandler, 0, 0, 0, line)

	c.compileBlock(s.Block)
	afterTry := c.emit(OpJump, 0, 0, 0, line)

	if s.Handler != nil {
		catchIP = c.here()
		c.emit(OpPopHandler, 0, 0, 0, line)
		c.emit(OpPushBlockEnv, 0, 0, 0, line)
		exc := c.allocReg()
		c.emit(OpGetException, exc, 0, 0, line)
		if s.Handler.Param != nil {
			c.hoistLexicalDecls([]ast.Statement{&ast.VariableDeclaration{
				Kind:         ast.DeclLet,
				Declarations: []ast.VariableDeclarator{{Target: s.Handler.Param}},
			}})
			c.bindPattern(s.Handler.Param, exc, bindLexical, line)
		}
		c.freeReg(exc)
		c.hoistLexicalDecls(s.Handler.Body.Body)
		c.compileStatements(s.Handler.Body.Body)
		c.emit(OpPopEnv, 0, 0, 0, line)
	}
	c.patchJump(afterTry, c.here())
	if s.Handler == nil {
		c.emit(OpPopHandler, 0, 0, 0, line)
	}

	if s.Finalizer != nil {
		finallyIP = c.here()
		c.emit(OpFinallyEnter, 0, 0, 0, line)
		c.compileBlock(s.Finalizer)
		c.emit(OpFinallyExit, 0, 0, 0, line)
	}

	c.block.Instructions[handlerIdx].A = catchIP
	c.block.Instructions[handlerIdx].B = finallyIP
	if s.Finalizer != nil {
		// A finally-only try (no catch) still needs the handler to
		// route an exception to the finally block before re-raising;
		// reuse catchIP's slot for that when there is no user catch.
		if s.Handler == nil {
			c.block.Instructions[handlerIdx].A = finallyIP
		}
	}
}
