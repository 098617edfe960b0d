package object

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/value"
)

// ThisMode tags a function's `this` binding behavior: Lexical (arrow
// functions inherit `this`), Strict (kept as-is), Global (undefined/null
// replaced by the realm's global object).
type ThisMode uint8

const (
	ThisStrict ThisMode = iota
	ThisGlobal
	ThisLexical
)

// NativeFn is a Go-implemented function body, used both for engine
// built-ins and for embedder-registered native functions/classes.
type NativeFn func(this value.Value, args []value.Value, newTarget *Object) (value.Value, *errors.JsError)

// FunctionData is the [[Data]] payload for function objects. The actual
// call/construct behavior lives in the
// object's InternalMethods.Call/Construct, set by the constructor below —
// this package stays ignorant of internal/bytecode.CodeBlock so that
// internal/bytecode can depend on internal/object without a cycle back.
type FunctionData struct {
	Name          string
	Length        int
	Constructable bool
	ThisMode      ThisMode
	HomeObject    *Object // used by super.x / super()
	IsDerivedCtor bool
}

// NewNativeFunction builds a callable (and, if constructable, constructible)
// function object wrapping a Go closure.
func NewNativeFunction(funcProto *Object, name string, length int, constructable bool, fn NativeFn) *Object {
	o := New(funcProto)
	o.SetDataKind(DataFunction)
	o.SetClassName("Function")
	fd := &FunctionData{Name: name, Length: length, Constructable: constructable, ThisMode: ThisStrict}
	o.Data = fd

	m := OrdinaryMethods
	m.Call = func(self *Object, this value.Value, args []value.Value) (value.Value, *errors.JsError) {
		return fn(this, args, nil)
	}
	if constructable {
		m.Construct = func(self *Object, args []value.Value, newTarget *Object) (value.Value, *errors.JsError) {
			return fn(value.Undefined(), args, newTarget)
		}
	}
	o.SetMethods(&m)
	return o
}

// CallFn/ConstructFn are the hook types the bytecode VM supplies when it
// wires up a user-defined (Ordinary) function object: a closure over the
// function's CodeBlock and captured environment.
type CallFn func(this value.Value, args []value.Value) (value.Value, *errors.JsError)
type ConstructFn func(args []value.Value, newTarget *Object) (value.Value, *errors.JsError)

// NewOrdinaryFunction builds a user-defined function object. call/construct
// are provided by internal/vm, which closes over the function's CodeBlock,
// captured environment, and the Realm needed to run it.
func NewOrdinaryFunction(funcProto *Object, name string, length int, thisMode ThisMode, call CallFn, construct ConstructFn) *Object {
	o := New(funcProto)
	o.SetDataKind(DataFunction)
	o.SetClassName("Function")
	fd := &FunctionData{Name: name, Length: length, Constructable: construct != nil, ThisMode: thisMode}
	o.Data = fd

	m := OrdinaryMethods
	m.Call = func(self *Object, this value.Value, args []value.Value) (value.Value, *errors.JsError) {
		return call(this, args)
	}
	if construct != nil {
		m.Construct = func(self *Object, args []value.Value, newTarget *Object) (value.Value, *errors.JsError) {
			return construct(args, newTarget)
		}
	}
	o.SetMethods(&m)
	return o
}

// FunctionName/FunctionLength/HomeObject/SetHomeObject are accessors used
// by the VM's super-call/bind-this opcodes and by Function.prototype.name.
func FunctionName(o *Object) string {
	if fd, ok := o.Data.(*FunctionData); ok {
		return fd.Name
	}
	return ""
}

func FunctionLength(o *Object) int {
	if fd, ok := o.Data.(*FunctionData); ok {
		return fd.Length
	}
	return 0
}

func FunctionThisMode(o *Object) ThisMode {
	if fd, ok := o.Data.(*FunctionData); ok {
		return fd.ThisMode
	}
	return ThisStrict
}

func HomeObject(o *Object) *Object {
	if fd, ok := o.Data.(*FunctionData); ok {
		return fd.HomeObject
	}
	return nil
}

func SetHomeObject(o *Object, home *Object) {
	if fd, ok := o.Data.(*FunctionData); ok {
		fd.HomeObject = home
	}
}

func MarkDerivedConstructor(o *Object) {
	if fd, ok := o.Data.(*FunctionData); ok {
		fd.IsDerivedCtor = true
	}
}

func IsDerivedConstructor(o *Object) bool {
	if fd, ok := o.Data.(*FunctionData); ok {
		return fd.IsDerivedCtor
	}
	return false
}

// GetPrototypeFromConstructor resolves the prototype a Construct call
// should use: read newTarget.prototype, falling back to fallbackProto
// (the intrinsic default) if it isn't an object.
func GetPrototypeFromConstructor(newTarget *Object, interner *value.Interner, fallbackProto *Object) *Object {
	if newTarget == nil {
		return fallbackProto
	}
	protoVal, err := newTarget.GetStr(interner, "prototype")
	if err != nil || !protoVal.IsObject() {
		return fallbackProto
	}
	if po, ok := protoVal.AsObject().(*Object); ok {
		return po
	}
	return fallbackProto
}
