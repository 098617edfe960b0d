package vm

import (
	"github.com/ecmago/ecma/internal/bytecode"
	"github.com/ecmago/ecma/internal/environment"
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// completionKind tags what a finally block is resuming. Only Normal and
// Throw ever actually occur: the compiler emits bare OpJump/OpReturn for
// break/continue/return, with no intervening finally-routing instruction
// when such a jump escapes a try block, so a Return/Break/Continue
// completion kind would never be produced by anything this VM executes.
type completionKind uint8

const (
	completionNormal completionKind = iota
	completionThrow
)

// completion is the pending-unwind state OpFinallyExit resumes. err is
// only meaningful when kind is completionThrow.
type completion struct {
	kind completionKind
	err  *errors.JsError
}

// tryHandler is one pushed OpPushHandler frame. env snapshots the
// environment chain as it stood when the handler was pushed, so a throw
// originating from inside a nested block (which may have pushed its own
// lexical environment) restores the chain to what the catch/finally body
// expects rather than leaving stale block scopes active.
//
// catchIP == finallyIP signals a try with a finally clause but no catch
// (compileTry reuses the catch slot for the finally target in that
// case): tryHandle must route that case through pendingCompletion rather
// than pendingExc, or the exception would be silently dropped once
// OpFinallyExit observes a spurious Normal completion.
type tryHandler struct {
	catchIP   int32
	finallyIP int32
	env       environment.Record
}

// Frame is one activation record: a CodeBlock plus its register file,
// running environment, try-handler stack, and (for generator/async
// frames) the coroutine suspending it.
type Frame struct {
	vm    *VM
	block *bytecode.CodeBlock
	regs  []value.Value
	env   environment.Record

	fn        *object.Object
	newTarget *object.Object

	ip int

	handlers []tryHandler

	pendingExc        value.Value
	pendingCompletion completion

	args []value.Value // actual arguments, for OpMakeArguments/OpMakeRest

	coro *coroutine // non-nil only for generator/async-function frames
}

func newFrame(vm *VM, block *bytecode.CodeBlock, env environment.Record, fn, newTarget *object.Object, args []value.Value) *Frame {
	return &Frame{
		vm:        vm,
		block:     block,
		regs:      make([]value.Value, block.RegistersNeeded),
		env:       env,
		fn:        fn,
		newTarget: newTarget,
		args:      args,
	}
}

// reg reads register i, treating an out-of-range index as undefined
// rather than panicking: RegistersNeeded is a lower bound computed at
// compile time, not a hard cap.
func (f *Frame) reg(i int32) value.Value {
	if int(i) < 0 || int(i) >= len(f.regs) {
		return value.Undefined()
	}
	return f.regs[i]
}

func (f *Frame) setReg(i int32, v value.Value) {
	idx := int(i)
	if idx < 0 {
		return
	}
	if idx >= len(f.regs) {
		grown := make([]value.Value, idx+1)
		copy(grown, f.regs)
		f.regs = grown
	}
	f.regs[idx] = v
}

// argAt returns the actual argument at i, or undefined past the end.
func (f *Frame) argAt(i int) value.Value {
	if i < 0 || i >= len(f.args) {
		return value.Undefined()
	}
	return f.args[i]
}

// tryHandle pops the innermost handler and redirects the frame to its
// catch or finally target, per the convention documented on tryHandler.
// Returns false if no handler remains, in which case the caller must
// unwind the frame entirely.
func (f *Frame) tryHandle(ferr *errors.JsError) bool {
	if len(f.handlers) == 0 {
		return false
	}
	h := f.handlers[len(f.handlers)-1]
	f.handlers = f.handlers[:len(f.handlers)-1]
	f.env = h.env

	if h.catchIP == h.finallyIP {
		f.pendingCompletion = completion{kind: completionThrow, err: ferr}
		f.ip = int(h.finallyIP)
		return true
	}
	f.pendingExc = errorToValue(f.vm, ferr)
	f.ip = int(h.catchIP)
	return true
}
