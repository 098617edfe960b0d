package vm

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// jsValueBox adapts a value.Value to errors.JsValue so an arbitrary
// thrown JS value (not just a native error) can travel inside a
// *errors.JsError's Opaque field through Go's error-returning call
// chain.
type jsValueBox struct{ v value.Value }

func (b jsValueBox) DebugString() string { return b.v.DebugString() }

// throwValue converts a JS-level thrown value (OpThrow's operand) into
// the *errors.JsError the VM's call chain propagates internally.
func throwValue(v value.Value) *errors.JsError {
	return errors.NewOpaque(jsValueBox{v})
}

// errorToValue converts a propagating *errors.JsError back into the JS
// value a catch clause observes. An opaque (user-thrown) error unwraps
// to the original value; a native/host error is materialized as an
// Error-hierarchy object so `catch (e) { e.message }` works the same way
// for both `throw new TypeError(...)` and an engine-raised TypeError.
func errorToValue(vm *VM, err *errors.JsError) value.Value {
	if err == nil {
		return value.Undefined()
	}
	if !err.IsNative() {
		if box, ok := err.Opaque.(jsValueBox); ok {
			return box.v
		}
		if err.Opaque != nil {
			return value.StringValue(value.NewStringFromGo(err.Opaque.DebugString()))
		}
		return value.Undefined()
	}

	proto := vm.Intr.NativeErrorProtos[err.Kind]
	if proto == nil {
		proto = vm.Intr.ErrorProto
	}
	errObj := object.New(proto)
	errObj.SetClassName("Error")
	interner := vm.Intr.Interner
	errObj.DefineDataProperty(object.StringKey(interner.InternGo("message")), value.StringValue(value.NewStringFromGo(err.Message)), true, false, true)
	errObj.DefineDataProperty(object.StringKey(interner.InternGo("name")), value.StringValue(value.NewStringFromGo(err.Kind.String())), true, false, true)
	errObj.DefineDataProperty(object.StringKey(value.StrStack), value.StringValue(value.NewStringFromGo(formatStack(err))), true, false, true)
	return value.ObjectValue(errObj)
}

func formatStack(err *errors.JsError) string {
	s := err.Error()
	for _, entry := range err.Stack {
		s += "\n    at " + entry.FunctionName + " (" + entry.SourceFile + ":" + entry.Span.String() + ")"
	}
	return s
}
