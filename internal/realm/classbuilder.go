package realm

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// NativeClass is the protocol an embedder (or internal/builtins)
// implements to register a host-backed class: Name/Length give the
// constructor's name and arity, Init registers prototype/static members
// through a ClassBuilder, and DataConstructor produces the Go value
// stored as the new instance's [[Data]].
type NativeClass interface {
	Name() string
	Length() int
	Init(b *ClassBuilder)
	DataConstructor(newTarget *object.Object, args []value.Value) (any, *errors.JsError)
}

// objectConstructing is implemented by a NativeClass that also needs to
// add own properties to the instance object itself (beyond what its
// [[Data]] payload holds) once DataConstructor has produced it.
type objectConstructing interface {
	ObjectConstructor(instance *object.Object, args []value.Value) *errors.JsError
}

// NativeMethodFn is a prototype or static method body; `this` is already
// resolved by the time it runs (it is the receiver for prototype
// methods, the constructor object for static ones).
type NativeMethodFn func(this value.Value, args []value.Value) (value.Value, *errors.JsError)

// ClassBuilder accumulates prototype and static members for one
// NativeClass registration. A fresh ClassBuilder is handed to Init; the
// realm that created it already holds the prototype and constructor
// objects Init's calls mutate in place.
type ClassBuilder struct {
	realm *Realm
	proto *object.Object
	ctor  *object.Object
}

func (b *ClassBuilder) key(name string) object.PropKey {
	return object.StringKey(b.realm.Interner.InternGo(name))
}

// Method installs an instance method on the prototype.
func (b *ClassBuilder) Method(name string, length int, fn NativeMethodFn) {
	m := object.NewNativeFunction(b.realm.Intr.FunctionProto, name, length, false, func(this value.Value, args []value.Value, _ *object.Object) (value.Value, *errors.JsError) {
		return fn(this, args)
	})
	b.proto.DefineDataProperty(b.key(name), value.ObjectValue(m), true, false, true)
}

// Accessor installs a prototype accessor property. Either get or set may
// be nil to omit that half.
func (b *ClassBuilder) Accessor(name string, get, set NativeMethodFn) {
	var getObj, setObj *object.Object
	if get != nil {
		getObj = object.NewNativeFunction(b.realm.Intr.FunctionProto, "get "+name, 0, false, func(this value.Value, args []value.Value, _ *object.Object) (value.Value, *errors.JsError) {
			return get(this, args)
		})
	}
	if set != nil {
		setObj = object.NewNativeFunction(b.realm.Intr.FunctionProto, "set "+name, 1, false, func(this value.Value, args []value.Value, _ *object.Object) (value.Value, *errors.JsError) {
			return set(this, args)
		})
	}
	_, _ = b.proto.DefineOwnProperty(b.key(name), object.AccessorProperty(getObj, setObj, false, true))
}

// Property installs a plain data property on the prototype (for shared
// constants; per-instance state belongs in [[Data]] instead).
func (b *ClassBuilder) Property(name string, v value.Value, writable bool) {
	b.proto.DefineDataProperty(b.key(name), v, writable, false, true)
}

// StaticMethod installs a method on the constructor function itself.
func (b *ClassBuilder) StaticMethod(name string, length int, fn NativeMethodFn) {
	m := object.NewNativeFunction(b.realm.Intr.FunctionProto, name, length, false, func(this value.Value, args []value.Value, _ *object.Object) (value.Value, *errors.JsError) {
		return fn(this, args)
	})
	b.ctor.DefineDataProperty(b.key(name), value.ObjectValue(m), true, false, true)
}

// StaticProperty installs a data property directly on the constructor.
func (b *ClassBuilder) StaticProperty(name string, v value.Value) {
	b.ctor.DefineDataProperty(b.key(name), v, true, false, true)
}

// RegisterGlobalClass registers a native class as a global constructor,
// mirroring Context::register_global_class<T: Class>(). Go has no
// analogue to a type-parameterized registration that also names the
// class, so the NativeClass value itself carries Name/Length.
func (r *Realm) RegisterGlobalClass(nc NativeClass) *object.Object {
	proto := object.New(r.Intr.ObjectProto)
	proto.SetClassName(nc.Name())

	name := nc.Name()
	ctor := object.NewNativeFunction(r.Intr.FunctionProto, name, nc.Length(), true, func(this value.Value, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
		if newTarget == nil {
			return value.Undefined(), errors.NewNativef(errors.KindTypeError, "Class constructor %s cannot be invoked without 'new'", name)
		}
		targetProto := object.GetPrototypeFromConstructor(newTarget, r.Interner, proto)
		data, err := nc.DataConstructor(newTarget, args)
		if err != nil {
			return value.Undefined(), err
		}
		o := object.New(targetProto)
		o.SetClassName(name)
		o.SetDataKind(object.DataNativeWrapper)
		o.Data = data
		if oc, ok := nc.(objectConstructing); ok {
			if err := oc.ObjectConstructor(o, args); err != nil {
				return value.Undefined(), err
			}
		}
		return value.ObjectValue(o), nil
	})

	b := &ClassBuilder{realm: r, proto: proto, ctor: ctor}
	nc.Init(b)

	ctor.DefineDataProperty(object.StringKey(r.Interner.InternGo("prototype")), value.ObjectValue(proto), false, false, false)
	proto.DefineDataProperty(object.StringKey(r.Interner.InternGo("constructor")), value.ObjectValue(ctor), true, false, true)
	r.RegisterGlobalProperty(name, value.ObjectValue(ctor), true, false, true)
	return ctor
}
