package object

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/value"
)

// ArrayData is the [[Data]] payload for array exotic objects. Length is
// kept monotonically consistent with the dense element part by
// arrayDefineOwnProperty below.
type ArrayData struct {
	Length int
}

// NewArray creates an array exotic object with the given prototype.
// arrayProto should be the realm's Array.prototype.
func NewArray(arrayProto *Object, elems []value.Value) *Object {
	o := New(arrayProto)
	o.SetDataKind(DataArray)
	o.SetClassName("Array")
	o.Data = &ArrayData{Length: len(elems)}
	m := OrdinaryMethods
	m.DefineOwnProperty = arrayDefineOwnProperty
	m.GetOwnProperty = arrayGetOwnProperty
	o.SetMethods(&m)
	for i, v := range elems {
		o.rawElementSet(i, v)
	}
	return o
}

func arrayGetOwnProperty(o *Object, key PropKey) (*PropertyDescriptor, bool) {
	if !key.IsSymbol() && key.String().GoString() == "length" {
		d := DataProperty(value.Number(float64(o.Data.(*ArrayData).Length)), true, false, false)
		return &d, true
	}
	return ordinaryGetOwnProperty(o, key)
}

// arrayDefineOwnProperty implements the array exotic [[DefineOwnProperty]]:
// writing "length" truncates/grows the dense part; writing past the
// current length grows length to match. Integer-indexed access on arrays
// uses the dense store and updates length monotonically.
func arrayDefineOwnProperty(o *Object, key PropKey, desc PropertyDescriptor) (bool, *errors.JsError) {
	ad := o.Data.(*ArrayData)
	if !key.IsSymbol() && key.String().GoString() == "length" {
		if desc.IsAccessor {
			return false, nil
		}
		n := int(desc.Value.AsFloat64())
		if n < ad.Length {
			o.rawElementTruncate(n)
		}
		ad.Length = n
		return true, nil
	}
	if idx, ok := asArrayIndex(key); ok {
		ok2, err := ordinaryDefineOwnProperty(o, key, desc)
		if ok2 && idx+1 > ad.Length {
			ad.Length = idx + 1
		}
		return ok2, err
	}
	return ordinaryDefineOwnProperty(o, key, desc)
}

// ArrayLength returns the array's current [[Length]].
func ArrayLength(o *Object) int {
	if ad, ok := o.Data.(*ArrayData); ok {
		return ad.Length
	}
	return 0
}

// ArrayGetIndex/ArrayPush are convenience helpers for the VM's
// iteration/spread opcodes.
func ArrayGetIndex(o *Object, i int) value.Value {
	v, ok := o.rawElementGet(i)
	if !ok {
		return value.Undefined()
	}
	return v
}

func ArrayPush(o *Object, v value.Value) {
	ad := o.Data.(*ArrayData)
	o.rawElementSet(ad.Length, v)
	ad.Length++
}
