package object

import (
	"strconv"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/value"
)

// argumentsData tags which arguments object flavor this is and, for the
// mapped flavor, how numbered properties link back to the function's
// parameter bindings.
type argumentsData struct {
	mapped bool
	// mapGet/mapSet read/write the corresponding parameter binding in the
	// owning function environment; provided by the VM's call protocol
	// (internal/vm), which is the only place that knows the environment.
	mapGet func(paramIndex int) value.Value
	mapSet func(paramIndex int, v value.Value)
	// unmapped -> paramIndex translation: severed once a mapped index is
	// deleted. Deleting a mapped property severs the link but preserves
	// the stored value.
	linked []bool
}

// NewUnmappedArguments builds the strict/arrow/non-simple-params flavor:
// an ordinary object with numeric own properties and "length", plus a
// "callee" accessor that throws when calleeThrower is non-nil. No
// @@iterator property is defined on it.
func NewUnmappedArguments(objectProto *Object, args []value.Value, calleeThrower *Object) *Object {
	o := New(objectProto)
	o.SetClassName("Arguments")
	o.SetDataKind(DataArguments)
	o.Data = &argumentsData{mapped: false}
	for i, v := range args {
		o.DefineDataProperty(StringKey(value.NewStringFromGo(strconv.Itoa(i))), v, true, true, true)
	}
	o.DefineDataProperty(StringKey(value.StrLength), value.Number(float64(len(args))), true, false, true)
	if calleeThrower != nil {
		o.DefineOwnProperty(StringKey(value.StrCallee), AccessorProperty(calleeThrower, calleeThrower, false, false))
	}
	return o
}

// NewMappedArguments builds the sloppy-mode simple-parameter-list flavor,
// whose first paramCount numeric properties (those with a passed
// argument) proxy to the function environment's parameter bindings via
// get/set.
func NewMappedArguments(objectProto *Object, args []value.Value, paramCount int, mapGet func(int) value.Value, mapSet func(int, value.Value), calleeVal *Object) *Object {
	o := New(objectProto)
	o.SetClassName("Arguments")
	o.SetDataKind(DataArguments)
	ad := &argumentsData{mapped: true, mapGet: mapGet, mapSet: mapSet, linked: make([]bool, paramCount)}
	o.Data = ad
	for i := range ad.linked {
		if i < len(args) {
			ad.linked[i] = true
		}
	}

	m := OrdinaryMethods
	m.Get = func(self *Object, key PropKey, receiver value.Value) (value.Value, *errors.JsError) {
		if idx, ok := mappedIndex(self, key); ok {
			return ad.mapGet(idx), nil
		}
		return ordinaryGet(self, key, receiver)
	}
	m.Set = func(self *Object, key PropKey, v value.Value, receiver value.Value) (bool, *errors.JsError) {
		if idx, ok := mappedIndex(self, key); ok {
			ad.mapSet(idx, v)
		}
		return ordinarySet(self, key, v, receiver)
	}
	m.Delete = func(self *Object, key PropKey) (bool, *errors.JsError) {
		if idx, ok := mappedIndex(self, key); ok {
			ad.linked[idx] = false
		}
		return ordinaryDelete(self, key)
	}
	o.SetMethods(&m)

	for i, v := range args {
		o.DefineDataProperty(StringKey(value.NewStringFromGo(strconv.Itoa(i))), v, true, true, true)
	}
	o.DefineDataProperty(StringKey(value.StrLength), value.Number(float64(len(args))), true, false, true)
	if calleeVal != nil {
		o.DefineDataProperty(StringKey(value.StrCallee), value.ObjectValue(calleeVal), true, false, true)
	}
	return o
}

func mappedIndex(o *Object, key PropKey) (int, bool) {
	ad, ok := o.Data.(*argumentsData)
	if !ok || !ad.mapped || key.IsSymbol() {
		return 0, false
	}
	n, err := strconv.Atoi(key.String().GoString())
	if err != nil || n < 0 || n >= len(ad.linked) || !ad.linked[n] {
		return 0, false
	}
	return n, true
}
