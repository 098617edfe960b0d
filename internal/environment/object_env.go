package environment

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// ObjectEnv is an object environment record: bindings are properties of
// a backing object rather than a private table. Used for the global var
// scope (backed by the global object) and for `with` statement bodies.
type ObjectEnv struct {
	bindingObject *object.Object
	interner      *value.Interner
	withStatement bool // true only for `with`: enables the @@unscopables filter
	outer         Record
}

// NewObjectEnv wraps obj as an environment record. withStatement should be
// true only for the environment introduced by a `with (obj) { ... }` body.
func NewObjectEnv(obj *object.Object, interner *value.Interner, withStatement bool, outer Record) *ObjectEnv {
	return &ObjectEnv{bindingObject: obj, interner: interner, withStatement: withStatement, outer: outer}
}

func (e *ObjectEnv) Outer() Record { return e.outer }

func (e *ObjectEnv) key(name string) object.PropKey {
	return object.StringKey(e.interner.InternGo(name))
}

func (e *ObjectEnv) HasBinding(name string) bool {
	k := e.key(name)
	if !e.bindingObject.HasProperty(k) {
		return false
	}
	if !e.withStatement {
		return true
	}
	return !e.unscopable(name)
}

// unscopable reports whether name is listed truthy in the binding
// object's @@unscopables, which `with` consults to skip bindings that
// would otherwise shadow an outer lexical declaration.
func (e *ObjectEnv) unscopable(name string) bool {
	unscopablesVal, err := e.bindingObject.Get(object.SymbolKey(value.SymUnscopables()), value.ObjectValue(e.bindingObject))
	if err != nil || !unscopablesVal.IsObject() {
		return false
	}
	uo, ok := unscopablesVal.AsObject().(*object.Object)
	if !ok {
		return false
	}
	blocked, err := uo.Get(e.key(name), unscopablesVal)
	if err != nil {
		return false
	}
	return toBooleanLoose(blocked)
}

func toBooleanLoose(v value.Value) bool {
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return false
	case value.KindBoolean:
		return v.AsBool()
	case value.KindNumber, value.KindInt32:
		f := v.AsFloat64()
		return f != 0 && f == f
	case value.KindString:
		return v.AsString().Len() > 0
	default:
		return true
	}
}

func (e *ObjectEnv) CreateMutableBinding(name string, deletable bool) {
	e.bindingObject.DefineDataProperty(e.key(name), value.Undefined(), true, true, deletable)
}

func (e *ObjectEnv) CreateImmutableBinding(name string, strict bool) {
	e.bindingObject.DefineDataProperty(e.key(name), value.Undefined(), false, true, false)
}

func (e *ObjectEnv) InitializeBinding(name string, v value.Value) {
	_, _ = e.bindingObject.Set(e.key(name), v, value.ObjectValue(e.bindingObject))
}

func (e *ObjectEnv) SetMutableBinding(name string, v value.Value, strict bool) *errors.JsError {
	k := e.key(name)
	if !e.HasBinding(name) && strict {
		return notDefinedError(name)
	}
	ok, err := e.bindingObject.Set(k, v, value.ObjectValue(e.bindingObject))
	if err != nil {
		return err
	}
	if !ok && strict {
		return errors.NewNativef(errors.KindTypeError, "Cannot assign to read only property '%s'", name)
	}
	return nil
}

func (e *ObjectEnv) GetBindingValue(name string, strict bool) (value.Value, *errors.JsError) {
	if !e.HasBinding(name) {
		if strict {
			return value.Undefined(), notDefinedError(name)
		}
		return value.Undefined(), nil
	}
	return e.bindingObject.Get(e.key(name), value.ObjectValue(e.bindingObject))
}

func (e *ObjectEnv) DeleteBinding(name string) bool {
	ok, _ := e.bindingObject.Delete(e.key(name))
	return ok
}

func (e *ObjectEnv) HasThisBinding() bool { return false }
func (e *ObjectEnv) HasSuperBinding() bool { return false }
func (e *ObjectEnv) WithBaseObject() *object.Object {
	if e.withStatement {
		return e.bindingObject
	}
	return nil
}
