package environment

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// ThisBindingStatus tracks whether a function environment's `this` has
// been bound yet: arrow functions are Lexical forever (HasThisBinding
// reports false so lookups skip to the enclosing scope); derived
// constructors start Uninitialized until their super() call runs.
type ThisBindingStatus uint8

const (
	ThisLexical ThisBindingStatus = iota
	ThisUninitialized
	ThisInitialized
)

// FunctionEnv is a function call's top-level scope: a declarative
// binding table plus the function-specific state (`this`, new.target,
// the home object for `super`) that a plain block scope doesn't carry.
type FunctionEnv struct {
	Declarative
	thisStatus  ThisBindingStatus
	thisValue   value.Value
	functionObj *object.Object
	newTarget   *object.Object
	homeObject  *object.Object
}

// NewFunctionEnv creates the call environment for invoking fn. status
// should be ThisLexical for arrow functions (this is never bound here;
// GetThisEnvironment skips past it), or ThisUninitialized for every
// other function, whose `this` BindThisValue then sets (for a derived
// class constructor, once super() runs; for any other call, at once).
// A record created as ThisInitialized can never have `this` bound.
func NewFunctionEnv(outer Record, fn *object.Object, status ThisBindingStatus, newTarget *object.Object) *FunctionEnv {
	return &FunctionEnv{
		Declarative: Declarative{bindings: make(map[string]*binding, 8), outer: outer},
		thisStatus:  status,
		functionObj: fn,
		newTarget:   newTarget,
		homeObject:  object.HomeObject(fn),
	}
}

// BindThisValue sets `this` for a non-arrow call (ordinary functions bind
// it once, at call setup; derived constructors bind it once super()
// returns). Rebinding an already-initialized `this` is a ReferenceError.
func (e *FunctionEnv) BindThisValue(v value.Value) *errors.JsError {
	if e.thisStatus == ThisInitialized {
		return errors.NewNativef(errors.KindReferenceError, "Super constructor may only be called once")
	}
	e.thisValue = v
	e.thisStatus = ThisInitialized
	return nil
}

func (e *FunctionEnv) GetThisBinding() (value.Value, *errors.JsError) {
	if e.thisStatus == ThisUninitialized {
		return value.Undefined(), errors.NewNativef(errors.KindReferenceError, "Must call super constructor before accessing 'this'")
	}
	return e.thisValue, nil
}

func (e *FunctionEnv) HasThisBinding() bool { return e.thisStatus != ThisLexical }

func (e *FunctionEnv) HasSuperBinding() bool {
	return e.thisStatus != ThisLexical && e.homeObject != nil
}

// GetSuperBase returns the [[Prototype]] of this function's home object,
// the object `super.x` resolves properties against.
func (e *FunctionEnv) GetSuperBase() *object.Object {
	if e.homeObject == nil {
		return nil
	}
	return e.homeObject.Prototype()
}

func (e *FunctionEnv) NewTarget() *object.Object { return e.newTarget }
func (e *FunctionEnv) FunctionObject() *object.Object { return e.functionObj }
