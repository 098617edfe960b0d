package bytecode

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/value"
)

// Instruction is one register-machine instruction. A/B/C are interpreted
// per-opcode (see opcode.go); unused fields are left zero. Three operand
// slots cover every opcode this compiler emits without a variable-width
// encoding, at the cost of a fixed 16 bytes per instruction — traded
// deliberately for a format simple enough to hand-write and hand-check
// without a disassembler round-trip test.
type Instruction struct {
	Op      OpCode
	A, B, C int32
}

// ParamInfo describes one declared parameter slot for arguments-object
// construction and arity reporting.
type ParamInfo struct {
	Name        string
	HasDefault  bool
	IsRest      bool
	IsSimple    bool // no default, no pattern, no rest
}

// CodeBlock is the compiled form of one function body or one top-level
// script/module body. It is immutable once Compile returns; the VM never
// mutates a CodeBlock, only the CallFrame that runs it.
type CodeBlock struct {
	Name   string
	Source string // file name or "<eval>", for stack traces

	Instructions []Instruction
	Constants    []value.Value
	// Names holds the interned set of identifier/property-name strings
	// referenced by OpGetVar/OpSetVar/OpGetProp and friends; B operands
	// into this table double as the compiler's BindingLocator, since
	// internal/environment resolves every binding kind (local, closure,
	// global, `with`-introduced) the same way: by name, walking the
	// environment chain.
	Names []string
	// PrivateNames holds private field/method names in declaration
	// order, indexed by OpGetPrivate/OpSetPrivate/OpHasPrivate operands.
	PrivateNames []string

	RegistersNeeded int
	Params          []ParamInfo
	HasRestParam    bool

	Strict        bool
	Constructable bool
	IsArrow       bool
	IsGenerator   bool
	IsAsync       bool
	IsClassMethod bool
	IsDerivedCtor bool

	// SourceLines is parallel to Instructions, giving the source line
	// of each instruction for error stack traces and the disassembler.
	SourceLines []int

	InnerFunctions []*CodeBlock
}

// Span returns the best-effort source span for instruction ip, used when
// building a stack trace entry; column information isn't tracked at the
// instruction level so only the line is meaningful.
func (cb *CodeBlock) Span(ip int) errors.Span {
	if ip >= 0 && ip < len(cb.SourceLines) {
		line := cb.SourceLines[ip]
		return errors.Span{StartLine: line, EndLine: line}
	}
	return errors.Span{}
}
