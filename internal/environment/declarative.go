package environment

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// Declarative is a plain lexical scope: function bodies, blocks, catch
// clauses, and for-loop per-iteration scopes all use one of these. Each
// holds its own binding table and an outer pointer; it has no `this` or
// base object of its own.
type Declarative struct {
	bindings map[string]*binding
	outer    Record
}

// NewDeclarative creates an empty declarative environment enclosed by
// outer (nil for none).
func NewDeclarative(outer Record) *Declarative {
	return &Declarative{bindings: make(map[string]*binding, 4), outer: outer}
}

func (e *Declarative) Outer() Record { return e.outer }

func (e *Declarative) HasBinding(name string) bool {
	_, ok := e.bindings[name]
	return ok
}

func (e *Declarative) CreateMutableBinding(name string, deletable bool) {
	e.bindings[name] = &binding{mutable: true, deletable: deletable}
}

func (e *Declarative) CreateImmutableBinding(name string, strict bool) {
	e.bindings[name] = &binding{mutable: false, strict: strict}
}

func (e *Declarative) InitializeBinding(name string, v value.Value) {
	b := e.bindings[name]
	b.value = v
	b.initialized = true
}

func (e *Declarative) SetMutableBinding(name string, v value.Value, strict bool) *errors.JsError {
	b, ok := e.bindings[name]
	if !ok {
		if strict {
			return notDefinedError(name)
		}
		e.bindings[name] = &binding{value: v, mutable: true, initialized: true, deletable: true}
		return nil
	}
	if !b.initialized {
		return tdzError(name)
	}
	if !b.mutable {
		if strict || b.strict {
			return assignToConstError(name)
		}
		return nil
	}
	b.value = v
	return nil
}

func (e *Declarative) GetBindingValue(name string, strict bool) (value.Value, *errors.JsError) {
	b, ok := e.bindings[name]
	if !ok {
		return value.Undefined(), notDefinedError(name)
	}
	if !b.initialized {
		return value.Undefined(), tdzError(name)
	}
	return b.value, nil
}

func (e *Declarative) DeleteBinding(name string) bool {
	b, ok := e.bindings[name]
	if !ok {
		return true
	}
	if !b.deletable {
		return false
	}
	delete(e.bindings, name)
	return true
}

func (e *Declarative) HasThisBinding() bool          { return false }
func (e *Declarative) HasSuperBinding() bool          { return false }
func (e *Declarative) WithBaseObject() *object.Object { return nil }
