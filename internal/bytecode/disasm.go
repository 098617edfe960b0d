package bytecode

import (
	"fmt"
	"io"
)

// Disassembler prints a human-readable rendering of a CodeBlock, for
// debugging and for the `ecma disasm` subcommand.
type Disassembler struct {
	writer io.Writer
	block  *CodeBlock
}

// NewDisassembler creates a disassembler for block, writing to w.
func NewDisassembler(block *CodeBlock, w io.Writer) *Disassembler {
	return &Disassembler{writer: w, block: block}
}

// Disassemble prints the full block: header, constant pool, name table,
// instruction stream, then recurses into every nested function.
func (d *Disassembler) Disassemble() {
	b := d.block
	fmt.Fprintf(d.writer, "== %s ==\n", blockLabel(b))
	fmt.Fprintf(d.writer, "registers: %d, params: %d, instructions: %d\n",
		b.RegistersNeeded, len(b.Params), len(b.Instructions))

	if len(b.Constants) > 0 {
		fmt.Fprintf(d.writer, "constants:\n")
		for i, v := range b.Constants {
			fmt.Fprintf(d.writer, "  [%04d] %s\n", i, v.DebugString())
		}
	}
	if len(b.Names) > 0 {
		fmt.Fprintf(d.writer, "names:\n")
		for i, n := range b.Names {
			fmt.Fprintf(d.writer, "  [%04d] %s\n", i, n)
		}
	}
	if len(b.PrivateNames) > 0 {
		fmt.Fprintf(d.writer, "private names:\n")
		for i, n := range b.PrivateNames {
			fmt.Fprintf(d.writer, "  [%04d] #%s\n", i, n)
		}
	}

	fmt.Fprintf(d.writer, "code:\n")
	for ip := range b.Instructions {
		d.DisassembleInstruction(ip)
	}
	fmt.Fprintln(d.writer)

	for i, inner := range b.InnerFunctions {
		fmt.Fprintf(d.writer, "-- inner function [%d] --\n", i)
		NewDisassembler(inner, d.writer).Disassemble()
	}
}

func blockLabel(b *CodeBlock) string {
	if b.Name == "" {
		return "<anonymous>"
	}
	return b.Name
}

// DisassembleInstruction prints the single instruction at ip.
func (d *Disassembler) DisassembleInstruction(ip int) {
	b := d.block
	if ip < 0 || ip >= len(b.Instructions) {
		fmt.Fprintf(d.writer, "invalid offset: %d\n", ip)
		return
	}
	inst := b.Instructions[ip]
	d.printHeader(ip)

	fmt.Fprintf(d.writer, "%-16s", inst.Op.String())
	switch inst.Op {
	case OpLoadConst:
		fmt.Fprintf(d.writer, " r%d, const[%d] ; %s", inst.A, inst.B, constAt(b, inst.B))
	case OpGetVar, OpSetVar, OpInitVar, OpDeleteVar, OpTypeofVar:
		fmt.Fprintf(d.writer, " r%d, %s", inst.A, nameAt(b, inst.B))
	case OpDeclareVar, OpDeclareLet, OpDeclareConst:
		fmt.Fprintf(d.writer, " %s", nameAt(b, inst.B))
	case OpGetProp, OpDeleteProp:
		fmt.Fprintf(d.writer, " r%d, r%d, %s", inst.A, inst.B, nameAt(b, inst.C))
	case OpDefineDataProp, OpDefineGetter, OpDefineSetter, OpDefineField:
		fmt.Fprintf(d.writer, " r%d, %s, r%d", inst.A, nameAt(b, inst.B), inst.C)
	case OpSetProp:
		fmt.Fprintf(d.writer, " %s, r%d, r%d", nameAt(b, inst.A), inst.B, inst.C)
	case OpGetSuperProp:
		fmt.Fprintf(d.writer, " r%d, %s", inst.A, nameAt(b, inst.B))
	case OpSetSuperProp:
		fmt.Fprintf(d.writer, " %s, r%d", nameAt(b, inst.A), inst.B)
	case OpGetPrivate, OpSetPrivate:
		fmt.Fprintf(d.writer, " r%d, #%s, r%d", inst.A, privAt(b, inst.B), inst.C)
	case OpHasPrivate:
		fmt.Fprintf(d.writer, " r%d, #%s, r%d", inst.A, privAt(b, inst.A), inst.B)
	case OpJump:
		fmt.Fprintf(d.writer, " -> %04d", inst.A)
	case OpJumpIfFalse, OpJumpIfTrue, OpJumpIfNullish, OpJumpIfNotNullish:
		fmt.Fprintf(d.writer, " r%d -> %04d", inst.B, inst.A)
	case OpMakeClosure:
		fmt.Fprintf(d.writer, " r%d, fn[%d]", inst.A, inst.B)
	case OpDefineClass:
		fmt.Fprintf(d.writer, " r%d, fn[%d], r%d", inst.A, inst.B, inst.C)
	case OpCall, OpSuperCall:
		fmt.Fprintf(d.writer, " r%d, r%d, argc=%d", inst.A, inst.B, inst.C)
	case OpCallSpread, OpNewSpread, OpSuperCallSpread:
		fmt.Fprintf(d.writer, " r%d, r%d, args=r%d", inst.A, inst.B, inst.C)
	case OpNew:
		fmt.Fprintf(d.writer, " r%d, base=r%d, argc=%d", inst.A, inst.B, inst.C)
	case OpPushHandler:
		fmt.Fprintf(d.writer, " catch=%04d, finally=%04d", inst.A, inst.B)
	case OpAppendElement:
		fmt.Fprintf(d.writer, " r%d[%d] = r%d", inst.A, inst.B, inst.C)
	case OpNop, OpHalt, OpPopEnv, OpPushBlockEnv, OpPopHandler, OpFinallyEnter, OpFinallyExit:
		// no operands
	default:
		fmt.Fprintf(d.writer, " r%d, r%d, r%d", inst.A, inst.B, inst.C)
	}
	fmt.Fprintln(d.writer)
}

func (d *Disassembler) printHeader(ip int) {
	b := d.block
	line := 0
	if ip < len(b.SourceLines) {
		line = b.SourceLines[ip]
	}
	if ip > 0 && ip < len(b.SourceLines) && b.SourceLines[ip-1] == line {
		fmt.Fprintf(d.writer, "%04d    | ", ip)
	} else {
		fmt.Fprintf(d.writer, "%04d %4d ", ip, line)
	}
}

func constAt(b *CodeBlock, i int32) string {
	if int(i) < 0 || int(i) >= len(b.Constants) {
		return "?"
	}
	return b.Constants[i].DebugString()
}

func nameAt(b *CodeBlock, i int32) string {
	if int(i) < 0 || int(i) >= len(b.Names) {
		return "?"
	}
	return b.Names[i]
}

func privAt(b *CodeBlock, i int32) string {
	if int(i) < 0 || int(i) >= len(b.PrivateNames) {
		return "?"
	}
	return b.PrivateNames[i]
}
