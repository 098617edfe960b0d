package vm

import (
	"github.com/ecmago/ecma/internal/bytecode"
	"github.com/ecmago/ecma/internal/environment"
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// coroMsgKind tags a message a suspended generator/async frame sends out
// to whatever is driving it (a generator's next()/return()/throw() caller,
// or the async-function resumption loop).
type coroMsgKind uint8

const (
	coroYield coroMsgKind = iota
	coroAwait
	coroDone
	coroThrow
)

type coroOut struct {
	kind  coroMsgKind
	value value.Value
	err   *errors.JsError
}

// resumeKind tags how a suspended frame should be resumed: with a value
// (next), with a thrown exception (throw), or with an early completion
// (return, from generator.return()).
type resumeKind uint8

const (
	resumeNext resumeKind = iota
	resumeThrow
	resumeReturn
)

type resumeMsg struct {
	kind  resumeKind
	value value.Value
	err   *errors.JsError
}

// coroutine is the channel pair connecting a generator/async frame,
// running on its own goroutine, to whatever drives it. Only one side
// ever sends at a time: the frame blocks on coro.in immediately after
// sending on coro.out, and the driver blocks on coro.out immediately
// after sending on coro.in, so the two goroutines never race.
type coroutine struct {
	out chan coroOut
	in  chan resumeMsg
}

// suspend implements the shared suspension point for both OpYield and
// OpAwait: hand v out to the driver and block until it resumes us.
func (f *Frame) suspend(kind coroMsgKind, v value.Value) resumeMsg {
	f.coro.out <- coroOut{kind: kind, value: v}
	return <-f.coro.in
}

// generatorData is the coroutine-handle payload attached to a generator
// instance's Data field: the instance itself carries next/return/throw
// as own properties (attachGeneratorMethods) rather than going through a
// shared GeneratorProto, since internal/vm cannot see internal/realm's
// intrinsic wiring and the instance-property approach is self-contained.
type generatorData struct {
	coro    *coroutine
	runBody func()
	started bool
	done    bool
}

// startCoroutine implements the generator/async half of invoke: generator
// bodies run on a dedicated goroutine, suspended between next() calls;
// async bodies start immediately and drive themselves to completion via
// the microtask queue, settling the promise they return.
func (vm *VM) startCoroutine(fnObj *object.Object, cb *bytecode.CodeBlock, fnEnv environment.Record, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
	coro := &coroutine{out: make(chan coroOut), in: make(chan resumeMsg)}
	frame := newFrame(vm, cb, fnEnv, fnObj, newTarget, args)
	frame.coro = coro

	runBody := func() {
		v, err := vm.runFrame(frame)
		if err != nil {
			coro.out <- coroOut{kind: coroThrow, err: err}
			return
		}
		coro.out <- coroOut{kind: coroDone, value: v}
	}

	if cb.IsAsync {
		go runBody()
		p := object.NewPromise(vm.Intr.PromiseProto)
		vm.pumpAsync(coro, p)
		return value.ObjectValue(p), nil
	}

	gen := object.New(vm.Intr.GeneratorProto)
	gen.SetClassName(generatorClassName(cb))
	gd := &generatorData{coro: coro, runBody: runBody}
	vm.attachGeneratorMethods(gen, gd)
	return value.ObjectValue(gen), nil
}

func generatorClassName(cb *bytecode.CodeBlock) string {
	if cb.IsAsync {
		return "AsyncGenerator"
	}
	return "Generator"
}

// pumpAsync reads the next message an async frame's coroutine produces
// and reacts: settle the outer promise on completion, or await the
// yielded-out value (wrapping it in a promise if necessary) and resume
// the frame once that settles, scheduled as a microtask so async
// resumption never runs synchronously inside a promise-reaction callback.
func (vm *VM) pumpAsync(coro *coroutine, p *object.Object) {
	msg := <-coro.out
	switch msg.kind {
	case coroDone:
		vm.ResolvePromise(p, msg.value)
	case coroThrow:
		vm.RejectPromise(p, errorToValue(vm, msg.err))
	case coroAwait, coroYield:
		awaited := vm.promiseResolve(msg.value)
		vm.promiseThenCallback(awaited,
			func(v value.Value) {
				coro.in <- resumeMsg{kind: resumeNext, value: v}
				vm.pumpAsync(coro, p)
			},
			func(reason value.Value) {
				coro.in <- resumeMsg{kind: resumeThrow, err: throwValue(reason)}
				vm.pumpAsync(coro, p)
			},
		)
	}
}

// generatorNext drives gd's coroutine one step: starting it lazily on
// the first call, otherwise resuming it with kind/v/err, and translating
// the coroutine's response into an IteratorResult (or a thrown error).
func (vm *VM) generatorNext(gd *generatorData, kind resumeKind, v value.Value, err *errors.JsError) (value.Value, *errors.JsError) {
	if gd.done {
		if kind == resumeThrow {
			return value.Undefined(), err
		}
		return vm.makeIterResult(v, true), nil
	}
	if !gd.started {
		gd.started = true
		go gd.runBody()
	} else {
		gd.coro.in <- resumeMsg{kind: kind, value: v, err: err}
	}
	msg := <-gd.coro.out
	switch msg.kind {
	case coroYield:
		return vm.makeIterResult(msg.value, false), nil
	case coroDone:
		gd.done = true
		return vm.makeIterResult(msg.value, true), nil
	case coroThrow:
		gd.done = true
		return value.Undefined(), msg.err
	case coroAwait:
		// for-await inside a generator body that isn't itself async: no
		// async-generator driver exists, so the awaited value is handed
		// straight back in as the resume value. Correct only when the
		// awaited value is already a non-thenable, settled value.
		return vm.generatorNext(gd, resumeNext, msg.value, nil)
	}
	return value.Undefined(), nil
}

func (vm *VM) attachGeneratorMethods(gen *object.Object, gd *generatorData) {
	interner := vm.Intr.Interner
	nextFn := object.NewNativeFunction(vm.Intr.FunctionProto, "next", 1, false,
		func(this value.Value, args []value.Value, nt *object.Object) (value.Value, *errors.JsError) {
			return vm.generatorNext(gd, resumeNext, firstArg(args), nil)
		})
	throwFn := object.NewNativeFunction(vm.Intr.FunctionProto, "throw", 1, false,
		func(this value.Value, args []value.Value, nt *object.Object) (value.Value, *errors.JsError) {
			if !gd.started || gd.done {
				gd.done = true
				return value.Undefined(), throwValue(firstArg(args))
			}
			return vm.generatorNext(gd, resumeThrow, value.Undefined(), throwValue(firstArg(args)))
		})
	returnFn := object.NewNativeFunction(vm.Intr.FunctionProto, "return", 1, false,
		func(this value.Value, args []value.Value, nt *object.Object) (value.Value, *errors.JsError) {
			if !gd.started || gd.done {
				gd.done = true
				return vm.makeIterResult(firstArg(args), true), nil
			}
			return vm.generatorNext(gd, resumeReturn, firstArg(args), nil)
		})
	iterFn := object.NewNativeFunction(vm.Intr.FunctionProto, "[Symbol.iterator]", 0, false,
		func(this value.Value, args []value.Value, nt *object.Object) (value.Value, *errors.JsError) {
			return this, nil
		})
	gen.DefineDataProperty(object.StringKey(interner.InternGo("next")), value.ObjectValue(nextFn), true, false, true)
	gen.DefineDataProperty(object.StringKey(interner.InternGo("throw")), value.ObjectValue(throwFn), true, false, true)
	gen.DefineDataProperty(object.StringKey(interner.InternGo("return")), value.ObjectValue(returnFn), true, false, true)
	gen.DefineDataProperty(object.SymbolKey(value.SymIterator()), value.ObjectValue(iterFn), true, false, true)
}

func firstArg(args []value.Value) value.Value {
	if len(args) == 0 {
		return value.Undefined()
	}
	return args[0]
}

// --- Promise reaction scheduling. Lives here, not in internal/object,
// because settling a promise must enqueue continuation work on the VM's
// microtask queue; internal/object's PromiseData is just the passive
// state record. ---

// promiseResolve returns v itself if it is already a promise object,
// otherwise a fresh promise resolved to v (used by await and
// Promise.resolve).
func (vm *VM) promiseResolve(v value.Value) *object.Object {
	if v.IsObject() {
		if o, ok := v.AsObject().(*object.Object); ok && object.PromiseStateOf(o) != nil {
			return o
		}
	}
	p := object.NewPromise(vm.Intr.PromiseProto)
	vm.ResolvePromise(p, v)
	return p
}

// ResolvePromise implements the Promise Resolve Thenable Job dispatch:
// adopts another promise's eventual state, chains through a generic
// thenable's `then`, or fulfills immediately for anything else.
func (vm *VM) ResolvePromise(p *object.Object, v value.Value) {
	if v.IsObject() {
		if inner, ok := v.AsObject().(*object.Object); ok {
			if object.PromiseStateOf(inner) != nil {
				vm.promiseThen(inner, nil, nil, p)
				return
			}
			thenVal, err := inner.GetStr(vm.Intr.Interner, "then")
			if err != nil {
				vm.RejectPromise(p, errorToValue(vm, err))
				return
			}
			if thenFn, ok := thenVal.AsObject().(*object.Object); ok && thenVal.IsObject() && thenFn.IsCallable() {
				resolveFn := vm.nativeCallbackOnce(func(args []value.Value) { vm.ResolvePromise(p, firstArg(args)) })
				rejectFn := vm.nativeCallbackOnce(func(args []value.Value) { vm.RejectPromise(p, firstArg(args)) })
				vm.EnqueueMicrotask(func() {
					_, cerr := thenFn.Call(v, []value.Value{resolveFn, rejectFn})
					if cerr != nil {
						vm.RejectPromise(p, errorToValue(vm, cerr))
					}
				})
				return
			}
		}
	}
	vm.fulfillPromise(p, v)
}

func (vm *VM) RejectPromise(p *object.Object, reason value.Value) {
	pd := object.PromiseStateOf(p)
	if pd == nil || pd.State != object.PromisePending {
		return
	}
	pd.State = object.PromiseRejected
	pd.Result = reason
	reactions := pd.Reactions
	pd.Reactions = nil
	for _, r := range reactions {
		vm.enqueueReaction(r, false, reason)
	}
}

func (vm *VM) fulfillPromise(p *object.Object, v value.Value) {
	pd := object.PromiseStateOf(p)
	if pd == nil || pd.State != object.PromisePending {
		return
	}
	pd.State = object.PromiseFulfilled
	pd.Result = v
	reactions := pd.Reactions
	pd.Reactions = nil
	for _, r := range reactions {
		vm.enqueueReaction(r, true, v)
	}
}

// PromiseThen implements Promise.prototype.then's reaction registration,
// returning the derived promise. Exported for internal/realm's Promise
// built-in to call.
func (vm *VM) PromiseThen(p *object.Object, onFulfilled, onRejected *object.Object) *object.Object {
	derived := object.NewPromise(vm.Intr.PromiseProto)
	vm.promiseThen(p, onFulfilled, onRejected, derived)
	return derived
}

func (vm *VM) promiseThen(p *object.Object, onFulfilled, onRejected *object.Object, result *object.Object) {
	pd := object.PromiseStateOf(p)
	if pd == nil {
		return
	}
	reaction := object.PromiseReaction{OnFulfilled: onFulfilled, OnRejected: onRejected, Result: result}
	switch pd.State {
	case object.PromisePending:
		pd.Reactions = append(pd.Reactions, reaction)
	case object.PromiseFulfilled:
		pd.Handled = true
		vm.enqueueReaction(reaction, true, pd.Result)
	case object.PromiseRejected:
		pd.Handled = true
		vm.enqueueReaction(reaction, false, pd.Result)
	}
}

func (vm *VM) enqueueReaction(r object.PromiseReaction, fulfilled bool, v value.Value) {
	vm.EnqueueMicrotask(func() {
		var handler *object.Object
		if fulfilled {
			handler = r.OnFulfilled
		} else {
			handler = r.OnRejected
		}
		if handler == nil {
			if r.Result == nil {
				return
			}
			if fulfilled {
				vm.ResolvePromise(r.Result, v)
			} else {
				vm.RejectPromise(r.Result, v)
			}
			return
		}
		res, err := handler.Call(value.Undefined(), []value.Value{v})
		if r.Result == nil {
			return
		}
		if err != nil {
			vm.RejectPromise(r.Result, errorToValue(vm, err))
			return
		}
		vm.ResolvePromise(r.Result, res)
	})
}

// promiseThenCallback registers two Go closures as a promise's reaction
// directly, without allocating a derived JS promise: used internally by
// the await/async driver, which only needs the continuation to run, not
// a chainable result.
func (vm *VM) promiseThenCallback(p *object.Object, onFulfilled, onRejected func(value.Value)) {
	fulfillFn := object.NewNativeFunction(vm.Intr.FunctionProto, "", 1, false,
		func(this value.Value, args []value.Value, nt *object.Object) (value.Value, *errors.JsError) {
			onFulfilled(firstArg(args))
			return value.Undefined(), nil
		})
	rejectFn := object.NewNativeFunction(vm.Intr.FunctionProto, "", 1, false,
		func(this value.Value, args []value.Value, nt *object.Object) (value.Value, *errors.JsError) {
			onRejected(firstArg(args))
			return value.Undefined(), nil
		})
	vm.promiseThen(p, fulfillFn, rejectFn, nil)
}

func (vm *VM) nativeCallbackOnce(fn func(args []value.Value)) value.Value {
	called := false
	nf := object.NewNativeFunction(vm.Intr.FunctionProto, "", 1, false,
		func(this value.Value, args []value.Value, nt *object.Object) (value.Value, *errors.JsError) {
			if called {
				return value.Undefined(), nil
			}
			called = true
			fn(args)
			return value.Undefined(), nil
		})
	return value.ObjectValue(nf)
}
