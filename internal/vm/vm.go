// Package vm is the bytecode execution engine: the opcode-dispatch loop,
// call-frame handling, exception unwinding, iterator/generator/async
// suspension, and the microtask queue. It is the only package that
// actually runs a CodeBlock; internal/bytecode only compiles one.
//
// internal/vm deliberately does not import internal/realm: a Realm needs
// to drive the VM (evaluating top-level scripts, registering natives that
// call back into user code), so the dependency runs realm -> vm, never
// the other way. Everything the VM needs from a realm — the intrinsic
// prototypes, the interner, the global environment — arrives through the
// Intrinsics struct a caller builds once at startup and passes to New.
package vm

import (
	"sync/atomic"

	"github.com/ecmago/ecma/internal/bytecode"
	"github.com/ecmago/ecma/internal/environment"
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// Intrinsics bundles the realm-provided state the VM needs to execute
// bytecode: prototypes for objects the VM itself constructs (closures,
// arrays, arguments objects, promises, generators) plus the interner and
// top-level environment. internal/realm populates one of these at
// startup and hands it to New; the VM never mutates it except to reach
// into GlobalEnv for var/function-declaration instructions.
type Intrinsics struct {
	ObjectProto      *object.Object
	FunctionProto    *object.Object
	ArrayProto       *object.Object
	ErrorProto       *object.Object
	NativeErrorProtos map[errors.NativeKind]*object.Object
	PromiseProto     *object.Object
	GeneratorProto   *object.Object
	RegExpProto      *object.Object
	Interner         *value.Interner
	GlobalEnv        *environment.Global
}

// maxCallDepth bounds recursive [[Call]]/[[Construct]] nesting; exceeding
// it raises a stack-overflow JsError rather than crashing the host Go
// stack. 4000 mirrors a typical V8-class engine's default in frame units
// rather than bytes, since a frame here is a Go call plus a heap Frame,
// not a fixed-size native stack slot.
const maxCallDepth = 4000

// VM holds the interpreter's cross-call state: the realm's intrinsics,
// the cooperative interrupt flag, the microtask queue, and the current
// recursive call depth. A VM is realm-scoped: one Realm owns exactly one
// VM for its lifetime.
type VM struct {
	Intr *Intrinsics

	interrupted int32 // atomic; set by RequestInterrupt, consumed by checkInterrupt

	microtasks []func()

	callDepth int
}

// New creates a VM bound to intr. intr must be fully populated (every
// prototype non-nil) before any script is run against it.
func New(intr *Intrinsics) *VM {
	return &VM{Intr: intr}
}

// RequestInterrupt asks the VM to abort at its next loop-start or
// function-entry check point. Safe to call from another goroutine (e.g.
// a host-side watchdog timer), the same pattern robertkrimen/otto uses
// for its Interrupt channel: a cooperative flag the running interpreter
// polls, not preemption.
func (vm *VM) RequestInterrupt() { atomic.StoreInt32(&vm.interrupted, 1) }

// ClearInterrupt resets the flag without raising anything; used after a
// successful eval to prepare for the next one.
func (vm *VM) ClearInterrupt() { atomic.StoreInt32(&vm.interrupted, 0) }

// checkInterrupt consumes a pending interrupt request, returning an
// Interrupted JsError if one was set. Checked at every loop-start
// (OpJump backward) and at every function entry.
func (vm *VM) checkInterrupt() *errors.JsError {
	if atomic.CompareAndSwapInt32(&vm.interrupted, 1, 0) {
		return errors.NewNative(errors.KindInterrupted, "script execution interrupted")
	}
	return nil
}

// EnqueueMicrotask appends fn to the job queue. Promise reactions and
// async-function resumptions go through this, never a direct call, so
// ordering stays FIFO per the microtask-queue model.
func (vm *VM) EnqueueMicrotask(fn func()) {
	vm.microtasks = append(vm.microtasks, fn)
}

// RunJobs drains the microtask queue to completion, including jobs
// enqueued by jobs that ran earlier in the same drain. Stops early (jobs
// remaining) if an interrupt is requested mid-drain.
func (vm *VM) RunJobs() {
	for len(vm.microtasks) > 0 {
		if atomic.LoadInt32(&vm.interrupted) != 0 {
			return
		}
		job := vm.microtasks[0]
		vm.microtasks = vm.microtasks[1:]
		job()
	}
}

// RunScript executes a top-level script or module CodeBlock against env
// (normally Intr.GlobalEnv, or a fresh Module environment for a module
// body) and returns its completion value. It does not drain the
// microtask queue; callers that want run-to-quiescence semantics should
// call RunJobs afterward (this mirrors the embedder API's
// eval-then-run_jobs two-step).
func (vm *VM) RunScript(cb *bytecode.CodeBlock, env environment.Record) (value.Value, *errors.JsError) {
	f := newFrame(vm, cb, env, nil, nil, nil)
	return vm.runFrame(f)
}
