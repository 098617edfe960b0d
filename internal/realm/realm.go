// Package realm wires the lexer/parser/bytecode/vm pipeline into a single
// embeddable engine instance: it owns the intrinsic prototypes, the
// global object and its environment, the module loader and link table,
// and the native-class registration surface (ClassBuilder). This is the
// "Context" the embedder API talks to; internal/vm never imports this
// package (see internal/vm's package doc), so everything a running
// script needs from here arrives pre-baked through a *vm.Intrinsics.
package realm

import (
	"fmt"

	"github.com/ecmago/ecma/internal/bytecode"
	"github.com/ecmago/ecma/internal/environment"
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/parser"
	"github.com/ecmago/ecma/internal/value"
	"github.com/ecmago/ecma/internal/vm"
)

// Realm is one engine instance: a single-threaded, single-global
// execution context. Concurrent use from multiple goroutines is
// undefined, matching the scheduling model's single-owner-thread design.
type Realm struct {
	VM       *vm.VM
	Intr     *vm.Intrinsics
	Interner *value.Interner

	// GlobalObj is the object backing globalThis and var/function-scoped
	// top-level bindings; Intr.GlobalEnv wraps it with the lexical
	// record for let/const/class.
	GlobalObj *object.Object

	// Locale is the BCP 47 tag host code-points like Date formatting
	// would consult. Full Intl/ICU is out of scope; this is the one
	// piece of locale plumbing kept so an embedder can still set it.
	Locale string

	loader  ModuleLoader
	modules map[string]*linkedModule
}

// New creates a fresh Realm with a default set of intrinsic prototypes
// (Object/Function/Array/Error-hierarchy/Promise/Generator/RegExp) and a
// global environment, but no user-visible built-ins beyond those the
// language itself requires (e.g. no console — that's internal/builtins'
// job, wired in through RegisterGlobalProperty).
func New() *Realm {
	interner := value.NewInterner()

	objectProto := object.New(nil)
	functionProto := newBareFunctionProto(objectProto)
	arrayProto := object.NewArray(objectProto, nil)
	errorProto := newErrorProto(objectProto, functionProto, interner, "Error")

	nativeProtos := make(map[errors.NativeKind]*object.Object, 7)
	for _, kind := range []errors.NativeKind{
		errors.KindTypeError, errors.KindRangeError, errors.KindReferenceError,
		errors.KindSyntaxError, errors.KindURIError, errors.KindEvalError,
		errors.KindAggregateError,
	} {
		nativeProtos[kind] = newErrorProto(errorProto, functionProto, interner, kind.String())
	}

	promiseProto := object.New(objectProto)
	promiseProto.SetClassName("Promise")
	generatorProto := object.New(objectProto)
	generatorProto.SetClassName("Generator")
	regexpProto := object.New(objectProto)
	regexpProto.SetClassName("RegExp")

	globalObj := object.New(objectProto)
	globalObj.SetClassName("global")

	globalEnv := environment.NewGlobal(globalObj, interner, value.ObjectValue(globalObj))

	intr := &vm.Intrinsics{
		ObjectProto:       objectProto,
		FunctionProto:     functionProto,
		ArrayProto:        arrayProto,
		ErrorProto:        errorProto,
		NativeErrorProtos: nativeProtos,
		PromiseProto:      promiseProto,
		GeneratorProto:    generatorProto,
		RegExpProto:       regexpProto,
		Interner:          interner,
		GlobalEnv:         globalEnv,
	}

	r := &Realm{
		VM:        vm.New(intr),
		Intr:      intr,
		Interner:  interner,
		GlobalObj: globalObj,
		Locale:    "en-US",
		modules:   make(map[string]*linkedModule),
	}
	r.registerGlobalThis()
	r.registerErrorConstructors()
	return r
}

// newBareFunctionProto builds Function.prototype itself: a callable
// object (calling it returns undefined, per the spec default) with no
// named properties of its own beyond what NewNativeFunction gives every
// function instance.
func newBareFunctionProto(objectProto *object.Object) *object.Object {
	return object.NewNativeFunction(objectProto, "", 0, false, func(this value.Value, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
		return value.Undefined(), nil
	})
}

// newErrorProto builds one prototype in the Error hierarchy: its own
// "name"/"message" and a toString behaving the way Error.prototype's
// does (name + ": " + message, or just name if message is empty).
func newErrorProto(parentProto, functionProto *object.Object, interner *value.Interner, name string) *object.Object {
	p := object.New(parentProto)
	p.SetClassName("Error")
	p.DefineDataProperty(object.StringKey(interner.InternGo("name")), value.StringValue(value.NewStringFromGo(name)), true, false, true)
	p.DefineDataProperty(object.StringKey(interner.InternGo("message")), value.StringValue(value.NewStringFromGo("")), true, false, true)
	toString := object.NewNativeFunction(functionProto, "toString", 0, false, func(this value.Value, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
		o, ok := this.AsObject().(*object.Object)
		if !ok {
			return value.Undefined(), errors.NewNativef(errors.KindTypeError, "Error.prototype.toString called on non-object")
		}
		nameV, _ := o.GetStr(interner, "name")
		msgV, _ := o.GetStr(interner, "message")
		n := "Error"
		if nameV.IsString() {
			n = nameV.AsString().GoString()
		}
		m := ""
		if msgV.IsString() {
			m = msgV.AsString().GoString()
		}
		if m == "" {
			return value.StringValue(value.NewStringFromGo(n)), nil
		}
		return value.StringValue(value.NewStringFromGo(n + ": " + m)), nil
	})
	p.DefineDataProperty(object.StringKey(interner.InternGo("toString")), value.ObjectValue(toString), true, false, true)
	return p
}

func (r *Realm) registerGlobalThis() {
	r.GlobalObj.DefineDataProperty(object.StringKey(r.Interner.InternGo("globalThis")), value.ObjectValue(r.GlobalObj), true, false, true)
}

// registerErrorConstructors installs Error and the native-error
// subclasses as ordinary globals, so `throw new TypeError(...)` and
// `err instanceof RangeError` work without every script needing the
// embedder to register them by hand.
func (r *Realm) registerErrorConstructors() {
	r.defineErrorCtor("Error", r.Intr.ErrorProto)
	for kind, proto := range r.Intr.NativeErrorProtos {
		r.defineErrorCtor(kind.String(), proto)
	}
}

func (r *Realm) defineErrorCtor(name string, proto *object.Object) {
	interner := r.Interner
	ctor := object.NewNativeFunction(r.Intr.FunctionProto, name, 1, true, func(this value.Value, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
		targetProto := object.GetPrototypeFromConstructor(newTarget, interner, proto)
		o := object.New(targetProto)
		o.SetClassName("Error")
		if len(args) > 0 && !args[0].IsUndefined() {
			o.DefineDataProperty(object.StringKey(interner.InternGo("message")), value.StringValue(toDebugString(args[0])), true, false, true)
		}
		return value.ObjectValue(o), nil
	})
	ctor.DefineDataProperty(object.StringKey(interner.InternGo("prototype")), value.ObjectValue(proto), false, false, false)
	proto.DefineDataProperty(object.StringKey(interner.InternGo("constructor")), value.ObjectValue(ctor), true, false, true)
	r.GlobalObj.DefineDataProperty(object.StringKey(interner.InternGo(name)), value.ObjectValue(ctor), true, false, true)
}

// toDebugString coerces a constructor argument to a JS string the cheap
// way: strings pass through, everything else uses DebugString. A full
// ToString (calling a user-defined toString/valueOf) belongs to
// internal/builtins' abstract-operations layer, out of scope for the
// engine-internal Error constructors.
func toDebugString(v value.Value) *value.JSString {
	if v.IsString() {
		return v.AsString()
	}
	return value.NewStringFromGo(v.DebugString())
}

// RegisterGlobalProperty installs name as an own property of the global
// object with the given attributes, mirroring
// Context::register_global_property(name, value, attrs).
func (r *Realm) RegisterGlobalProperty(name string, v value.Value, writable, enumerable, configurable bool) {
	r.GlobalObj.DefineDataProperty(object.StringKey(r.Interner.InternGo(name)), v, writable, enumerable, configurable)
}

// Eval parses and runs source as a Script, returning its completion
// value. Unhandled user-level throws and parse errors both surface as
// *errors.JsError so callers have one error type to check, matching
// eval's documented Result<Value, JsError> signature.
func (r *Realm) Eval(source string) (value.Value, *errors.JsError) {
	p := parser.New(source)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return value.Undefined(), errors.NewNative(errors.KindSyntaxError, formatParseError(errs[0], "<eval>"))
	}
	cb, compileErrs := bytecode.CompileScript(prog, false, source)
	if len(compileErrs) > 0 {
		return value.Undefined(), errors.NewNativef(errors.KindSyntaxError, "%s", compileErrs[0].Error())
	}
	r.VM.ClearInterrupt()
	return r.VM.RunScript(cb, r.Intr.GlobalEnv)
}

// RunJobs drains the microtask queue, as Context::run_jobs does.
func (r *Realm) RunJobs() {
	r.VM.RunJobs()
}

// formatParseError is a small helper kept separate from Eval/EvalModule
// so both can render the same "file:line:col: message" shape the CLI's
// disassembler/debug tooling also expects.
func formatParseError(err *errors.CompilerError, file string) string {
	return fmt.Sprintf("%s:%d:%d: %s", file, err.Span.StartLine, err.Span.StartCol, err.Message)
}
