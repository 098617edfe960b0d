package environment

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// Global combines the two record kinds a top-level script scope needs:
// an object environment record backed by the global object (var/function
// declarations, so they become enumerable globalThis properties) and a
// declarative record layered on top for let/const/class bindings, which
// must NOT become properties of the global object.
type Global struct {
	objectRecord *ObjectEnv
	declRecord   *Declarative
	thisValue    value.Value
	varNames     map[string]bool
}

// NewGlobal creates the realm's outermost environment. globalObj backs
// var/function bindings; globalThisVal is what `this` resolves to at top
// level (ordinarily globalObj itself, wrapped as a Value).
func NewGlobal(globalObj *object.Object, interner *value.Interner, globalThisVal value.Value) *Global {
	return &Global{
		objectRecord: NewObjectEnv(globalObj, interner, false, nil),
		declRecord:   NewDeclarative(nil),
		thisValue:    globalThisVal,
		varNames:     make(map[string]bool),
	}
}

func (e *Global) Outer() Record { return nil }

func (e *Global) HasBinding(name string) bool {
	return e.declRecord.HasBinding(name) || e.objectRecord.HasBinding(name)
}

// HasLexicalDeclaration reports whether name was declared let/const/class
// at the top level (whether the declarative half of the global record
// holds it). The VM does not call it.
func (e *Global) HasLexicalDeclaration(name string) bool {
	return e.declRecord.HasBinding(name)
}

func (e *Global) HasVarDeclaration(name string) bool { return e.varNames[name] }

func (e *Global) CreateMutableBinding(name string, deletable bool) {
	e.objectRecord.CreateMutableBinding(name, deletable)
	e.varNames[name] = true
}

func (e *Global) CreateImmutableBinding(name string, strict bool) {
	e.declRecord.CreateImmutableBinding(name, strict)
}

// CreateLexicalBinding registers a let/const/class binding at top level
// (uninitialized, in the TDZ until InitializeBinding runs).
func (e *Global) CreateLexicalBinding(name string, mutable bool) {
	if mutable {
		e.declRecord.bindings[name] = &binding{mutable: true}
	} else {
		e.declRecord.bindings[name] = &binding{mutable: false, strict: true}
	}
}

func (e *Global) InitializeBinding(name string, v value.Value) {
	if e.declRecord.HasBinding(name) {
		e.declRecord.InitializeBinding(name, v)
		return
	}
	e.objectRecord.InitializeBinding(name, v)
}

func (e *Global) SetMutableBinding(name string, v value.Value, strict bool) *errors.JsError {
	if e.declRecord.HasBinding(name) {
		return e.declRecord.SetMutableBinding(name, v, strict)
	}
	return e.objectRecord.SetMutableBinding(name, v, strict)
}

func (e *Global) GetBindingValue(name string, strict bool) (value.Value, *errors.JsError) {
	if e.declRecord.HasBinding(name) {
		return e.declRecord.GetBindingValue(name, strict)
	}
	return e.objectRecord.GetBindingValue(name, strict)
}

func (e *Global) DeleteBinding(name string) bool {
	if e.declRecord.HasBinding(name) {
		return false // lexical bindings are never deletable
	}
	if e.objectRecord.DeleteBinding(name) {
		delete(e.varNames, name)
		return true
	}
	return false
}

func (e *Global) HasThisBinding() bool { return true }
func (e *Global) HasSuperBinding() bool { return false }
func (e *Global) WithBaseObject() *object.Object { return nil }

func (e *Global) GetThisBinding() value.Value { return e.thisValue }

// GlobalObject returns the backing object for var/function bindings.
func (e *Global) GlobalObject() *object.Object { return e.objectRecord.bindingObject }
