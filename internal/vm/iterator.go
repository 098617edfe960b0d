package vm

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// nativeIterator wraps a Go closure as a JS iterator object exposing a
// callable "next" (and, if closeFn is given, "return"), so the engine's
// own internal enumerations (for-in) can be driven by the exact same
// OpIteratorNext/OpIteratorValue/OpIteratorClose opcodes user-level
// [Symbol.iterator]() results are, rather than needing a second,
// parallel iteration protocol inside the VM.
func (vm *VM) nativeIterator(nextFn func() (value.Value, bool, *errors.JsError), closeFn func()) *object.Object {
	o := object.New(vm.Intr.ObjectProto)
	o.SetClassName("Iterator")
	next := object.NewNativeFunction(vm.Intr.FunctionProto, "next", 0, false,
		func(this value.Value, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
			v, done, err := nextFn()
			if err != nil {
				return value.Undefined(), err
			}
			return vm.makeIterResult(v, done), nil
		})
	o.DefineDataProperty(object.StringKey(value.NewStringFromGo("next")), value.ObjectValue(next), true, false, true)
	if closeFn != nil {
		ret := object.NewNativeFunction(vm.Intr.FunctionProto, "return", 0, false,
			func(this value.Value, args []value.Value, newTarget *object.Object) (value.Value, *errors.JsError) {
				closeFn()
				return vm.makeIterResult(value.Undefined(), true), nil
			})
		o.DefineDataProperty(object.StringKey(value.NewStringFromGo("return")), value.ObjectValue(ret), true, false, true)
	}
	return o
}

func (vm *VM) makeIterResult(v value.Value, done bool) value.Value {
	o := object.New(vm.Intr.ObjectProto)
	o.DefineDataProperty(object.StringKey(value.StrValue), v, true, true, true)
	o.DefineDataProperty(object.StringKey(value.StrDone), value.Bool(done), true, true, true)
	return value.ObjectValue(o)
}

// getIterator implements GetIterator: look up @@iterator (or
// @@asyncIterator) on v and call it, requiring the result be an object.
func (vm *VM) getIterator(v value.Value, async bool) (*object.Object, *errors.JsError) {
	if !v.IsObject() && !v.IsString() {
		return nil, errors.NewNativef(errors.KindTypeError, "%s is not iterable", v.TypeOf())
	}
	sym := value.SymIterator()
	if async {
		sym = value.SymAsyncIterator()
	}
	var method value.Value
	var err *errors.JsError
	if v.IsObject() {
		o := v.AsObject().(*object.Object)
		method, err = o.Get(object.SymbolKey(sym), v)
	} else {
		return nil, errors.NewNativef(errors.KindTypeError, "string iteration requires the realm's String.prototype[Symbol.iterator]")
	}
	if err != nil {
		return nil, err
	}
	fn, ok := method.AsObject().(*object.Object)
	if !method.IsObject() || !ok || !fn.IsCallable() {
		return nil, errors.NewNativef(errors.KindTypeError, "value is not iterable")
	}
	res, err := fn.Call(v, nil)
	if err != nil {
		return nil, err
	}
	iter, ok := res.AsObject().(*object.Object)
	if !res.IsObject() || !ok {
		return nil, errors.NewNativef(errors.KindTypeError, "Result of the Symbol.iterator method is not an object")
	}
	return iter, nil
}

// iteratorNext calls iter.next(arg...), returning the raw IteratorResult
// object plus its `.value`/`.done` already split out for convenience.
func (vm *VM) iteratorNext(iter *object.Object, arg value.Value, hasArg bool) (value.Value, bool, *errors.JsError) {
	next, err := iter.GetStr(vm.Intr.Interner, "next")
	if err != nil {
		return value.Undefined(), false, err
	}
	fn, ok := next.AsObject().(*object.Object)
	if !next.IsObject() || !ok || !fn.IsCallable() {
		return value.Undefined(), false, errors.NewNativef(errors.KindTypeError, "iterator.next is not a function")
	}
	var args []value.Value
	if hasArg {
		args = []value.Value{arg}
	}
	res, err := fn.Call(value.ObjectValue(iter), args)
	if err != nil {
		return value.Undefined(), false, err
	}
	resObj, ok := res.AsObject().(*object.Object)
	if !res.IsObject() || !ok {
		return value.Undefined(), false, errors.NewNativef(errors.KindTypeError, "Iterator result is not an object")
	}
	doneVal, err := resObj.GetStr(vm.Intr.Interner, "done")
	if err != nil {
		return value.Undefined(), false, err
	}
	val, err := resObj.GetStr(vm.Intr.Interner, "value")
	if err != nil {
		return value.Undefined(), false, err
	}
	return val, toBoolean(doneVal), nil
}

// iteratorClose calls iter.return() if present, per the "loop body left
// early" cleanup rule. A non-callable or absent return is ignored, as is
// its result.
func (vm *VM) iteratorClose(iter *object.Object) {
	ret, err := iter.GetStr(vm.Intr.Interner, "return")
	if err != nil || !ret.IsObject() {
		return
	}
	fn, ok := ret.AsObject().(*object.Object)
	if !ok || !fn.IsCallable() {
		return
	}
	_, _ = fn.Call(value.ObjectValue(iter), nil)
}

// forInIterator builds the for-in key enumerator: own and inherited
// enumerable string keys, each visited at most once even if the
// underlying shape changes mid-iteration (snapshotting the key list per
// object visited, rather than re-walking on every step).
func (vm *VM) forInIterator(v value.Value) *object.Object {
	if !v.IsObject() {
		return vm.nativeIterator(func() (value.Value, bool, *errors.JsError) { return value.Undefined(), true, nil }, nil)
	}
	seen := make(map[string]bool)
	var pending []string
	cur, _ := v.AsObject().(*object.Object)

	var advance func() (value.Value, bool, *errors.JsError)
	advance = func() (value.Value, bool, *errors.JsError) {
		for {
			for len(pending) == 0 {
				if cur == nil {
					return value.Undefined(), true, nil
				}
				for _, k := range cur.OwnPropertyKeys() {
					if k.IsSymbol() || seen[k.String().GoString()] {
						continue
					}
					if d, ok := cur.GetOwnProperty(k); ok && d.Enumerable {
						pending = append(pending, k.String().GoString())
					}
					seen[k.String().GoString()] = true
				}
				cur = cur.Prototype()
			}
			name := pending[0]
			pending = pending[1:]
			return value.StringValue(value.NewStringFromGo(name)), false, nil
		}
	}
	return vm.nativeIterator(advance, nil)
}
