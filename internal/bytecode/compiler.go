package bytecode

import (
	"fmt"

	"github.com/ecmago/ecma/internal/ast"
	"github.com/ecmago/ecma/internal/value"
)

// Compiler lowers one function body (or the top-level script/module body)
// into a CodeBlock. Nested functions get their own child Compiler sharing
// the same errors list, chained through enclosing so inner compilers can
// ask an outer one about its lexical context (e.g. whether `super` is
// available).
type Compiler struct {
	enclosing *Compiler

	block *CodeBlock

	// register allocator: a simple watermark plus a free-list of
	// registers released by freeReg/regRelease. Registers are not
	// reused across statements within a block beyond what the
	// free-list naturally offers, trading some register pressure for a
	// compiler that never has to prove a temporary's lifetime ends
	// before reusing its slot.
	nextReg int
	freeRegs []int32
	maxReg   int

	constIndex map[any]int32
	nameIndex  map[string]int32
	privIndex  map[string]int32

	loops   []*loopCtx
	labels  map[string]*loopCtx

	inDerivedCtor bool
	inClassMethod bool
	inStaticBlock bool

	errs []error
}

// loopCtx tracks the jump-fixup lists for one enclosing iteration or
// switch statement, so break/continue can patch their target once the
// loop's end (or continue-point) is known.
type loopCtx struct {
	label        string
	breaks       []int // indices into Instructions needing A patched to loop end
	continues    []int // indices into Instructions needing A patched to continue point
	isSwitch     bool  // switch accepts break but not continue
	continueTarget int // valid once known; -1 until then
}

// NewCompiler creates a root compiler for a script or module body.
func NewCompiler(name, source string) *Compiler {
	return &Compiler{
		block: &CodeBlock{
			Name:   name,
			Source: source,
		},
		constIndex: make(map[any]int32),
		nameIndex:  make(map[string]int32),
		privIndex:  make(map[string]int32),
		labels:     make(map[string]*loopCtx),
	}
}

func (c *Compiler) child(name string) *Compiler {
	ch := NewCompiler(name, c.block.Source)
	ch.enclosing = c
	return ch
}

// CompileScript compiles a top-level program into its CodeBlock. Strict
// mode is determined by the caller (a leading "use strict" directive, or
// a module body which is always strict).
func CompileScript(prog *ast.Program, strict bool, source string) (*CodeBlock, []error) {
	c := NewCompiler("<script>", source)
	c.block.Strict = strict || prog.HasUseStrict
	c.hoistVarsAndFunctions(prog.Body, true)
	c.hoistTopLevelLexicalDecls(prog.Body)
	c.compileStatements(prog.Body)
	c.emit(OpHalt, 0, 0, 0, 0)
	c.block.RegistersNeeded = c.maxReg
	return c.block, c.errs
}

func (c *Compiler) errorf(line int, format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf("%s:%d: %s", c.block.Source, line, fmt.Sprintf(format, args...)))
}

// ---- register allocation ----

func (c *Compiler) allocReg() int32 {
	if n := len(c.freeRegs); n > 0 {
		r := c.freeRegs[n-1]
		c.freeRegs = c.freeRegs[:n-1]
		return r
	}
	r := int32(c.nextReg)
	c.nextReg++
	if c.nextReg > c.maxReg {
		c.maxReg = c.nextReg
	}
	return r
}

// allocRun reserves n consecutive fresh registers, bypassing the
// free-list so the block is guaranteed contiguous. Used for a call's
// this+arguments run, which OpCall/OpNew address as a single base
// register plus a count rather than a list of indices.
func (c *Compiler) allocRun(n int32) int32 {
	base := int32(c.nextReg)
	c.nextReg += int(n)
	if c.nextReg > c.maxReg {
		c.maxReg = c.nextReg
	}
	return base
}

func (c *Compiler) freeReg(r int32) {
	c.freeRegs = append(c.freeRegs, r)
}

// regMark captures the allocator's watermark; regRelease(mark) releases
// every register allocated at or above mark, restoring the allocator to
// how it looked when mark was captured. Used
// after compiling a sub-expression whose temporaries are all dead once
// their result has been consumed.
func (c *Compiler) regMark() int {
	return c.nextReg
}

func (c *Compiler) regRelease(mark int) {
	c.nextReg = mark
	// Drop any free-list entries that pointed above the restored
	// watermark; they no longer denote live-but-free slots.
	kept := c.freeRegs[:0]
	for _, r := range c.freeRegs {
		if int(r) < mark {
			kept = append(kept, r)
		}
	}
	c.freeRegs = kept
}

// ---- constant pool / name table ----

func (c *Compiler) constIdx(key any, v value.Value) int32 {
	if idx, ok := c.constIndex[key]; ok {
		return idx
	}
	idx := int32(len(c.block.Constants))
	c.block.Constants = append(c.block.Constants, v)
	c.constIndex[key] = idx
	return idx
}

// constRaw appends v as a new constant pool entry without deduplication,
// for values that are structurally unique by construction (each
// template-literal quasi, each tagged-template string) where a dedup
// lookup would either never hit or risk colliding distinct pieces under
// the same map key.
func (c *Compiler) constRaw(v value.Value) int32 {
	idx := int32(len(c.block.Constants))
	c.block.Constants = append(c.block.Constants, v)
	return idx
}

func (c *Compiler) nameIdx(name string) int32 {
	if idx, ok := c.nameIndex[name]; ok {
		return idx
	}
	idx := int32(len(c.block.Names))
	c.block.Names = append(c.block.Names, name)
	c.nameIndex[name] = idx
	return idx
}

func (c *Compiler) privateIdx(name string) int32 {
	if idx, ok := c.privIndex[name]; ok {
		return idx
	}
	idx := int32(len(c.block.PrivateNames))
	c.block.PrivateNames = append(c.block.PrivateNames, name)
	c.privIndex[name] = idx
	return idx
}

// ---- instruction emission ----

func (c *Compiler) emit(op OpCode, a, b, cc int32, line int) int {
	c.block.Instructions = append(c.block.Instructions, Instruction{Op: op, A: a, B: b, C: cc})
	c.block.SourceLines = append(c.block.SourceLines, line)
	return len(c.block.Instructions) - 1
}

func (c *Compiler) here() int32 {
	return int32(len(c.block.Instructions))
}

func (c *Compiler) patchJump(ip int, target int32) {
	c.block.Instructions[ip].A = target
}
