package object

import (
	"fmt"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/gc"
	"github.com/ecmago/ecma/internal/value"
)

// DataKind tags the object's [[Data]] payload.
type DataKind uint8

const (
	DataOrdinary DataKind = iota
	DataArray
	DataFunction
	DataArguments
	DataTypedArray
	DataMap
	DataSet
	DataRegExp
	DataDate
	DataModuleNamespace
	DataNativeWrapper
)

func (k DataKind) String() string {
	switch k {
	case DataArray:
		return "Array"
	case DataFunction:
		return "Function"
	case DataArguments:
		return "Arguments"
	case DataTypedArray:
		return "TypedArray"
	case DataMap:
		return "Map"
	case DataSet:
		return "Set"
	case DataRegExp:
		return "RegExp"
	case DataDate:
		return "Date"
	case DataModuleNamespace:
		return "Module"
	case DataNativeWrapper:
		return "Native"
	default:
		return "Object"
	}
}

// InternalMethods is the object's internal-methods vtable: one
// function-pointer table per object, indexed implicitly by which table
// the object's Data kind selected at construction time, rather than by
// virtual inheritance.
type InternalMethods struct {
	GetPrototypeOf    func(o *Object) *Object
	SetPrototypeOf    func(o *Object, proto *Object) bool
	IsExtensible      func(o *Object) bool
	PreventExtensions func(o *Object) bool
	GetOwnProperty    func(o *Object, key PropKey) (*PropertyDescriptor, bool)
	DefineOwnProperty func(o *Object, key PropKey, desc PropertyDescriptor) (bool, *errors.JsError)
	HasProperty       func(o *Object, key PropKey) bool
	Get               func(o *Object, key PropKey, receiver value.Value) (value.Value, *errors.JsError)
	Set               func(o *Object, key PropKey, v value.Value, receiver value.Value) (bool, *errors.JsError)
	Delete            func(o *Object, key PropKey) (bool, *errors.JsError)
	OwnPropertyKeys   func(o *Object) []PropKey
	Call              func(o *Object, this value.Value, args []value.Value) (value.Value, *errors.JsError)
	Construct         func(o *Object, args []value.Value, newTarget *Object) (value.Value, *errors.JsError)
}

// Object is the universal heap object representation: optional
// [[Prototype]], extensible flag, [[Data]] tag, shape-backed property
// store for string/symbol keys, a dense element part for integer-indexed
// access, and the internal-methods vtable.
type Object struct {
	gc.Base

	proto      *Object
	extensible bool

	dataKind DataKind
	Data     any // kind-specific payload: *FunctionData, *ArrayData, ...

	shape *Shape
	slots []PropertyDescriptor // parallel to shape.Keys()

	elements []value.Value // dense integer-indexed storage
	elemLen  int

	methods *InternalMethods

	className string // debug/[[Class]] tag
}

// New creates an ordinary object with the given prototype (nil means
// null prototype).
func New(proto *Object) *Object {
	return &Object{
		proto:      proto,
		extensible: true,
		shape:      RootShape(),
		methods:    &OrdinaryMethods,
		className:  "Object",
	}
}

// Trace implements gc.Traceable: visits the prototype, every property
// value/accessor, and every element.
func (o *Object) Trace(visit func(gc.Traceable)) {
	if o.proto != nil {
		visit(o.proto)
	}
	for _, d := range o.slots {
		if d.IsAccessor {
			if d.Get != nil {
				visit(d.Get)
			}
			if d.Set != nil {
				visit(d.Set)
			}
		} else if d.Value.IsObject() {
			if ho, ok := d.Value.AsObject().(gc.Traceable); ok {
				visit(ho)
			}
		}
	}
	for _, v := range o.elements[:o.elemLen] {
		if v.IsObject() {
			if ho, ok := v.AsObject().(gc.Traceable); ok {
				visit(ho)
			}
		}
	}
	if tr, ok := o.Data.(interface{ Trace(func(gc.Traceable)) }); ok {
		tr.Trace(visit)
	}
}

// TypeOfTag satisfies value.HeapObject: functions report "function",
// everything else "object".
func (o *Object) TypeOfTag() string {
	if o.dataKind == DataFunction {
		return "function"
	}
	return "object"
}

func (o *Object) DebugString() string {
	return fmt.Sprintf("[object %s]", o.className)
}

// DataKind/SetClassName/ClassName accessors used by specialized
// constructors in array.go, function.go, etc.
func (o *Object) DataKind() DataKind     { return o.dataKind }
func (o *Object) SetDataKind(k DataKind) { o.dataKind = k }
func (o *Object) ClassName() string      { return o.className }
func (o *Object) SetClassName(n string)  { o.className = n }
func (o *Object) SetMethods(m *InternalMethods) { o.methods = m }
func (o *Object) Methods() *InternalMethods     { return o.methods }

func (o *Object) Prototype() *Object { return o.methods.GetPrototypeOf(o) }
func (o *Object) IsExtensible() bool { return o.methods.IsExtensible(o) }

// Get/Set/Has/Delete/DefineOwnProperty/OwnPropertyKeys/Call/Construct are
// thin forwarders onto the vtable, giving call sites a uniform Object API
// regardless of which kind the receiver is.
func (o *Object) Get(key PropKey, receiver value.Value) (value.Value, *errors.JsError) {
	return o.methods.Get(o, key, receiver)
}
func (o *Object) Set(key PropKey, v value.Value, receiver value.Value) (bool, *errors.JsError) {
	return o.methods.Set(o, key, v, receiver)
}
func (o *Object) HasProperty(key PropKey) bool { return o.methods.HasProperty(o, key) }
func (o *Object) Delete(key PropKey) (bool, *errors.JsError) { return o.methods.Delete(o, key) }
func (o *Object) DefineOwnProperty(key PropKey, d PropertyDescriptor) (bool, *errors.JsError) {
	return o.methods.DefineOwnProperty(o, key, d)
}
func (o *Object) GetOwnProperty(key PropKey) (*PropertyDescriptor, bool) {
	return o.methods.GetOwnProperty(o, key)
}
func (o *Object) OwnPropertyKeys() []PropKey { return o.methods.OwnPropertyKeys(o) }

func (o *Object) IsCallable() bool    { return o.methods.Call != nil }
func (o *Object) IsConstructor() bool { return o.methods.Construct != nil }

func (o *Object) Call(this value.Value, args []value.Value) (value.Value, *errors.JsError) {
	if o.methods.Call == nil {
		return value.Undefined(), errors.NewNativef(errors.KindTypeError, "%s is not a function", o.className)
	}
	return o.methods.Call(o, this, args)
}

func (o *Object) Construct(args []value.Value, newTarget *Object) (value.Value, *errors.JsError) {
	if o.methods.Construct == nil {
		return value.Undefined(), errors.NewNativef(errors.KindTypeError, "%s is not a constructor", o.className)
	}
	return o.methods.Construct(o, args, newTarget)
}

// --- convenience helpers for string-keyed access, used pervasively by the
// VM and the built-in glue layer ---

func (o *Object) GetStr(interner *value.Interner, name string) (value.Value, *errors.JsError) {
	return o.Get(StringKey(interner.InternGo(name)), value.ObjectValue(o))
}

func (o *Object) SetStr(interner *value.Interner, name string, v value.Value) (bool, *errors.JsError) {
	return o.Set(StringKey(interner.InternGo(name)), v, value.ObjectValue(o))
}

// DefineDataProperty is a convenience wrapper used during object/class
// initialization (installing methods, registering natives) where the
// ValidateAndApplyPropertyDescriptor invariant checks are unnecessary
// because the object is still being constructed.
func (o *Object) DefineDataProperty(key PropKey, v value.Value, writable, enumerable, configurable bool) {
	_, _ = o.DefineOwnProperty(key, DataProperty(v, writable, enumerable, configurable))
}

// Elements / dense array part accessors, used by the Array exotic object
// (array.go) and by typed arrays (typedarray.go).
func (o *Object) rawElementGet(i int) (value.Value, bool) {
	if i < 0 || i >= o.elemLen {
		return value.Value{}, false
	}
	return o.elements[i], true
}

func (o *Object) rawElementSet(i int, v value.Value) {
	if i >= len(o.elements) {
		grown := make([]value.Value, i+1)
		copy(grown, o.elements)
		o.elements = grown
	}
	o.elements[i] = v
	if i+1 > o.elemLen {
		o.elemLen = i + 1
	}
}

func (o *Object) rawElementDelete(i int) {
	if i >= 0 && i < o.elemLen {
		o.elements[i] = value.Undefined()
	}
}

func (o *Object) rawElementLen() int { return o.elemLen }

func (o *Object) rawElementTruncate(n int) {
	if n < o.elemLen {
		for i := n; i < o.elemLen && i < len(o.elements); i++ {
			o.elements[i] = value.Value{}
		}
	}
	o.elemLen = n
}
