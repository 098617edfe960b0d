// Package environment implements lexical environment records: the chain
// of binding scopes (declarative, function, object, global, module) that
// backs identifier resolution, `this`, and closures.
package environment

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// Record is satisfied by every environment record kind; the bytecode VM
// resolves names through it. The parser does not use environments.
type Record interface {
	HasBinding(name string) bool
	CreateMutableBinding(name string, deletable bool)
	CreateImmutableBinding(name string, strict bool)
	InitializeBinding(name string, v value.Value)
	SetMutableBinding(name string, v value.Value, strict bool) *errors.JsError
	GetBindingValue(name string, strict bool) (value.Value, *errors.JsError)
	DeleteBinding(name string) bool
	HasThisBinding() bool
	HasSuperBinding() bool
	WithBaseObject() *object.Object
	Outer() Record
}

// binding is one name's storage slot: value, mutability, and whether it
// has been initialized yet (uninitialized let/const/class bindings sit in
// the temporal dead zone and raise ReferenceError on read/write).
type binding struct {
	value       value.Value
	mutable     bool
	initialized bool
	deletable   bool
	strict      bool
}

func tdzError(name string) *errors.JsError {
	return errors.NewNativef(errors.KindReferenceError, "Cannot access '%s' before initialization", name)
}

func notDefinedError(name string) *errors.JsError {
	return errors.NewNativef(errors.KindReferenceError, "%s is not defined", name)
}

func assignToConstError(name string) *errors.JsError {
	return errors.NewNativef(errors.KindTypeError, "Assignment to constant variable.")
}

// ResolveBinding walks the environment chain outward from env looking for
// name, returning the Record that owns it (or nil if unresolved — the VM
// then raises ReferenceError at the use site with source position info
// the environment layer doesn't have).
func ResolveBinding(env Record, name string) Record {
	for e := env; e != nil; e = e.Outer() {
		if e.HasBinding(name) {
			return e
		}
	}
	return nil
}

// GetThisEnvironment walks outward to the nearest Record that has its own
// `this` binding (a FunctionEnvironment not in lexical-this mode, or a
// GlobalEnvironment); arrow functions skip their own environment because
// they never have HasThisBinding() == true.
func GetThisEnvironment(env Record) Record {
	for e := env; e != nil; e = e.Outer() {
		if e.HasThisBinding() {
			return e
		}
	}
	return nil
}
