package vm

import (
	"strconv"

	"github.com/ecmago/ecma/internal/bytecode"
	"github.com/ecmago/ecma/internal/environment"
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// argSlotName mirrors internal/bytecode's compiler-private helper of the
// same name: the synthetic "%argN" binding a function prologue reads via
// a plain OpGetVar before destructuring it into the real parameter
// binding. Kept in sync with bytecode.bindParams's naming scheme.
func argSlotName(i int) string {
	return "%arg" + strconv.Itoa(i)
}

// bindParams pre-populates env with one "%argN" binding per actual (or
// declared, whichever is more) parameter slot, so the CodeBlock's own
// prologue instructions (emitted by bytecode.bindParams) can read them
// through the ordinary environment-chain GetVar path.
func bindParams(env environment.Record, cb *bytecode.CodeBlock, args []value.Value) {
	n := len(cb.Params)
	if len(args) > n {
		n = len(args)
	}
	for i := 0; i < n; i++ {
		name := argSlotName(i)
		env.CreateMutableBinding(name, false)
		v := value.Undefined()
		if i < len(args) {
			v = args[i]
		}
		env.InitializeBinding(name, v)
	}
}

// callValue implements the [[Call]] half of the spec's call protocol:
// resolve the callee, require it be callable, dispatch.
func (vm *VM) callValue(calleeV, thisV value.Value, args []value.Value) (value.Value, *errors.JsError) {
	o, ok := calleeV.AsObject().(*object.Object)
	if !calleeV.IsObject() || !ok || !o.IsCallable() {
		return value.Undefined(), errors.NewNativef(errors.KindTypeError, "%s is not a function", calleeV.DebugString())
	}
	return o.Call(thisV, args)
}

// constructValue implements [[Construct]] for OpNew/OpSuperCall.
func (vm *VM) constructValue(calleeV value.Value, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
	o, ok := calleeV.AsObject().(*object.Object)
	if !calleeV.IsObject() || !ok || !o.IsConstructor() {
		return value.Undefined(), errors.NewNativef(errors.KindTypeError, "%s is not a constructor", calleeV.DebugString())
	}
	if newTarget == nil {
		newTarget = o
	}
	return o.Construct(args, newTarget)
}

// makeClosure builds the function object for OpMakeClosure: an Ordinary
// function object (object.NewOrdinaryFunction) whose Call/Construct
// closures recurse into vm.invoke/vm.construct, capturing cb and the
// defining environment.
func (vm *VM) makeClosure(cb *bytecode.CodeBlock, capturedEnv environment.Record) *object.Object {
	thisMode := object.ThisStrict
	switch {
	case cb.IsArrow:
		thisMode = object.ThisLexical
	case !cb.Strict:
		thisMode = object.ThisGlobal
	}

	length := 0
	for _, p := range cb.Params {
		if !p.IsSimple {
			break
		}
		length++
	}

	var fnObj *object.Object
	callFn := func(this value.Value, args []value.Value) (value.Value, *errors.JsError) {
		return vm.invoke(fnObj, cb, capturedEnv, this, args, nil)
	}
	var constructFn object.ConstructFn
	if cb.Constructable {
		constructFn = func(args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
			return vm.construct(fnObj, cb, capturedEnv, args, newTarget)
		}
	}
	fnObj = object.NewOrdinaryFunction(vm.Intr.FunctionProto, cb.Name, length, thisMode, callFn, constructFn)
	if cb.IsDerivedCtor {
		object.MarkDerivedConstructor(fnObj)
	}
	if cb.Constructable && !cb.IsArrow {
		proto := object.New(vm.Intr.ObjectProto)
		proto.DefineDataProperty(object.StringKey(value.StrConstructor), value.ObjectValue(fnObj), true, false, true)
		fnObj.DefineDataProperty(object.StringKey(value.StrPrototype), value.ObjectValue(proto), true, false, false)
	}
	return fnObj
}

// invoke runs fn's body for an ordinary (possibly generator/async) call.
// It resolves the this-binding status per §4.4's this-binding rules,
// binds parameters, and (for generator/async bodies) hands off to the
// coroutine machinery instead of running the frame inline.
func (vm *VM) invoke(fnObj *object.Object, cb *bytecode.CodeBlock, capturedEnv environment.Record, this value.Value, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
	if err := vm.checkInterrupt(); err != nil {
		return value.Undefined(), err
	}
	vm.callDepth++
	defer func() { vm.callDepth-- }()
	if vm.callDepth > maxCallDepth {
		return value.Undefined(), errors.NewNative(errors.KindStackOverflow, "call stack size exceeded")
	}

	thisMode := object.FunctionThisMode(fnObj)
	thisStatus := environment.ThisInitialized
	if thisMode == object.ThisLexical {
		thisStatus = environment.ThisLexical
	} else if cb.IsDerivedCtor {
		thisStatus = environment.ThisUninitialized
	}

	// A `this` bound right here starts Uninitialized in the record, since
	// BindThisValue refuses to rebind an already-initialized `this`.
	envStatus := thisStatus
	if thisStatus == environment.ThisInitialized {
		envStatus = environment.ThisUninitialized
	}
	fnEnv := environment.NewFunctionEnv(capturedEnv, fnObj, envStatus, newTarget)
	if thisStatus == environment.ThisInitialized {
		bound := this
		if thisMode == object.ThisGlobal && this.IsNullish() {
			bound = vm.Intr.GlobalEnv.GetThisBinding()
		}
		_ = fnEnv.BindThisValue(bound)
	}
	bindParams(fnEnv, cb, args)

	if cb.IsGenerator || cb.IsAsync {
		return vm.startCoroutine(fnObj, cb, fnEnv, args, newTarget)
	}

	frame := newFrame(vm, cb, fnEnv, fnObj, newTarget, args)
	return vm.runFrame(frame)
}

// construct runs fn as a constructor: base classes allocate `this` up
// front (prototype resolved via GetPrototypeFromConstructor); derived
// classes leave `this` uninitialized until the compiled body's
// super(...) call (OpSuperCall) binds it. If the body returns a
// non-object, the allocated `this` is returned instead, per
// OrdinaryCreateFromConstructor's completion rule.
func (vm *VM) construct(fnObj *object.Object, cb *bytecode.CodeBlock, capturedEnv environment.Record, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
	if !cb.Constructable {
		return value.Undefined(), errors.NewNativef(errors.KindTypeError, "%s is not a constructor", object.FunctionName(fnObj))
	}
	if cb.IsDerivedCtor {
		result, err := vm.invoke(fnObj, cb, capturedEnv, value.Undefined(), args, newTarget)
		if err != nil {
			return value.Undefined(), err
		}
		if result.IsObject() {
			return result, nil
		}
		return result, nil
	}

	proto := object.GetPrototypeFromConstructor(newTarget, vm.Intr.Interner, vm.Intr.ObjectProto)
	thisObj := object.New(proto)
	thisVal := value.ObjectValue(thisObj)
	result, err := vm.invoke(fnObj, cb, capturedEnv, thisVal, args, newTarget)
	if err != nil {
		return value.Undefined(), err
	}
	if result.IsObject() {
		return result, nil
	}
	return thisVal, nil
}

// buildArguments constructs the frame's `arguments` object per
// OpMakeArguments: mapped (proxying back to the %argN bindings) for
// sloppy-mode functions with an all-simple parameter list, unmapped
// otherwise.
func (vm *VM) buildArguments(f *Frame) value.Value {
	cb := f.block
	simple := !cb.HasRestParam
	for _, p := range cb.Params {
		if !p.IsSimple {
			simple = false
			break
		}
	}
	if cb.Strict || cb.IsArrow || !simple {
		o := object.NewUnmappedArguments(vm.Intr.ObjectProto, f.args, nil)
		return value.ObjectValue(o)
	}
	mapGet := func(i int) value.Value {
		v, err := f.env.GetBindingValue(argSlotName(i), false)
		if err != nil {
			return value.Undefined()
		}
		return v
	}
	mapSet := func(i int, v value.Value) {
		_ = f.env.SetMutableBinding(argSlotName(i), v, false)
	}
	o := object.NewMappedArguments(vm.Intr.ObjectProto, f.args, len(cb.Params), mapGet, mapSet, nil)
	return value.ObjectValue(o)
}
