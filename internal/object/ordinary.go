package object

import (
	"strconv"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/value"
)

// OrdinaryMethods is the default internal-methods table. Specialized kinds
// (array.go, function.go, arguments.go, ...) copy this table and replace
// only the entries they need to override.
var OrdinaryMethods InternalMethods

func init() {
	OrdinaryMethods = InternalMethods{
		GetPrototypeOf:    ordinaryGetPrototypeOf,
		SetPrototypeOf:    ordinarySetPrototypeOf,
		IsExtensible:      ordinaryIsExtensible,
		PreventExtensions: ordinaryPreventExtensions,
		GetOwnProperty:    ordinaryGetOwnProperty,
		DefineOwnProperty: ordinaryDefineOwnProperty,
		HasProperty:       ordinaryHasProperty,
		Get:               ordinaryGet,
		Set:               ordinarySet,
		Delete:             ordinaryDelete,
		OwnPropertyKeys:   ordinaryOwnPropertyKeys,
	}
}

func ordinaryGetPrototypeOf(o *Object) *Object { return o.proto }

func ordinarySetPrototypeOf(o *Object, proto *Object) bool {
	if proto == o.proto {
		return true
	}
	if !o.extensible {
		return false
	}
	// Reject cycles: [[Prototype]] chains must stay acyclic, so a change
	// that would introduce one is refused.
	for p := proto; p != nil; p = p.proto {
		if p == o {
			return false
		}
	}
	o.proto = proto
	return true
}

func ordinaryIsExtensible(o *Object) bool { return o.extensible }

func ordinaryPreventExtensions(o *Object) bool {
	o.extensible = false
	return true
}

// asArrayIndex reports whether key is a canonical array index string
// ("0".."4294967294"), returning it if so. Such keys live in the dense
// element part, not the shape, and never participate in shape
// transitions.
func asArrayIndex(key PropKey) (int, bool) {
	if key.IsSymbol() {
		return 0, false
	}
	s := key.String().GoString()
	if s == "" {
		return 0, false
	}
	if s == "0" {
		return 0, true
	}
	if s[0] == '0' {
		return 0, false // "01" etc. is not canonical
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n >= 4294967295 {
		return 0, false
	}
	return int(n), true
}

func ordinaryGetOwnProperty(o *Object, key PropKey) (*PropertyDescriptor, bool) {
	if idx, ok := asArrayIndex(key); ok {
		v, present := o.rawElementGet(idx)
		if !present {
			return nil, false
		}
		d := DataProperty(v, true, true, true)
		return &d, true
	}
	i, ok := o.shape.SlotIndex(key)
	if !ok || i >= len(o.slots) {
		return nil, false
	}
	d := o.slots[i]
	return &d, true
}

func ordinaryDefineOwnProperty(o *Object, key PropKey, desc PropertyDescriptor) (bool, *errors.JsError) {
	if idx, ok := asArrayIndex(key); ok {
		o.rawElementSet(idx, desc.Value)
		if arr, isArr := o.Data.(*ArrayData); isArr && idx+1 > arr.Length {
			arr.Length = idx + 1
		}
		return true, nil
	}

	existingIdx, has := o.shape.SlotIndex(key)
	if !has {
		if !o.extensible {
			return false, nil
		}
		o.shape = o.shape.Transition(key)
		o.slots = append(o.slots, desc)
		return true, nil
	}

	existing := o.slots[existingIdx]
	if !existing.Configurable {
		// Non-configurable: only a writable:true -> false data transition
		// is permitted.
		if existing.IsAccessor != desc.IsAccessor {
			return false, nil
		}
		if !existing.IsAccessor && existing.Writable && !desc.Writable {
			existing.Writable = false
			existing.Value = desc.Value
			o.slots[existingIdx] = existing
			return true, nil
		}
		if !existing.IsAccessor && !existing.Writable {
			return false, nil
		}
	}
	// Attribute changes that don't fit the existing shape's assumptions
	// (kind flip while non-configurable was already rejected above) take
	// the dictionary path so future additions don't pollute the shared
	// transition tree.
	if existing.IsAccessor != desc.IsAccessor && !o.shape.IsDictionary() {
		o.shape = o.shape.ToDictionary()
	}
	o.slots[existingIdx] = desc
	return true, nil
}

func ordinaryHasProperty(o *Object, key PropKey) bool {
	if _, ok := o.GetOwnProperty(key); ok {
		return true
	}
	if o.proto != nil {
		return o.proto.HasProperty(key)
	}
	return false
}

// ordinaryGet implements [[Get]]: walk own property then the prototype
// chain; accessor getters run with `this = receiver`.
func ordinaryGet(o *Object, key PropKey, receiver value.Value) (value.Value, *errors.JsError) {
	d, ok := o.GetOwnProperty(key)
	if !ok {
		if o.proto != nil {
			return o.proto.Get(key, receiver)
		}
		return value.Undefined(), nil
	}
	if d.IsAccessor {
		if d.Get == nil {
			return value.Undefined(), nil
		}
		return d.Get.Call(receiver, nil)
	}
	return d.Value, nil
}

func ordinarySet(o *Object, key PropKey, v value.Value, receiver value.Value) (bool, *errors.JsError) {
	d, ok := o.GetOwnProperty(key)
	if !ok {
		if o.proto != nil {
			return o.proto.Set(key, v, receiver)
		}
		d = nil
	}
	if d != nil {
		if d.IsAccessor {
			if d.Set == nil {
				return false, nil
			}
			_, err := d.Set.Call(receiver, []value.Value{v})
			return err == nil, err
		}
		if !d.Writable {
			return false, nil
		}
	}
	// Create-on-receiver semantics: if receiver differs from o (e.g. a
	// Set called through the prototype chain), define the data property
	// on the receiver instead of on o.
	target := o
	if receiver.IsObject() {
		if ro, ok := receiver.AsObject().(*Object); ok {
			target = ro
		}
	}
	ok2, err := target.DefineOwnProperty(key, DataProperty(v, true, true, true))
	return ok2, err
}

func ordinaryDelete(o *Object, key PropKey) (bool, *errors.JsError) {
	if idx, ok := asArrayIndex(key); ok {
		o.rawElementDelete(idx)
		return true, nil
	}
	d, ok := o.GetOwnProperty(key)
	if !ok {
		return true, nil
	}
	if !d.Configurable {
		return false, nil
	}
	i, _ := o.shape.SlotIndex(key)
	if !o.shape.IsDictionary() {
		o.shape = o.shape.ToDictionary()
	}
	o.slots = append(o.slots[:i], o.slots[i+1:]...)
	o.shape.removeKeyAt(i)
	return true, nil
}

// removeKeyAt drops the key at index i from a dictionary shape's key
// list in place; only valid for shapes already marked dictionary, which
// own their key slice exclusively (never shared via Transition).
func (s *Shape) removeKeyAt(i int) {
	s.keys = append(s.keys[:i], s.keys[i+1:]...)
}

func ordinaryOwnPropertyKeys(o *Object) []PropKey {
	keys := make([]PropKey, 0, len(o.shape.Keys())+o.elemLen)
	for i := 0; i < o.elemLen; i++ {
		if _, ok := o.rawElementGet(i); ok {
			keys = append(keys, StringKey(value.NewStringFromGo(strconv.Itoa(i))))
		}
	}
	// String keys before symbol keys, each in insertion order, matching
	// [[OwnPropertyKeys]]'s ordering rule.
	var syms []PropKey
	for _, k := range o.shape.Keys() {
		if k.IsSymbol() {
			syms = append(syms, k)
		} else {
			keys = append(keys, k)
		}
	}
	keys = append(keys, syms...)
	return keys
}
