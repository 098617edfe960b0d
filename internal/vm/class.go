package vm

import (
	"github.com/ecmago/ecma/internal/environment"
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// defineClass implements OpDefineClass: build the constructor closure
// from the compiled constructor CodeBlock, then wire up prototype-chain
// inheritance from parent when this is a derived class. Method/accessor
// installation onto the constructor and its .prototype is compiled as
// ordinary OpDefineGetter/OpDefineSetter/OpDefineDataProp/OpMakeClosure
// instructions immediately following OpDefineClass in the enclosing
// scope (see bytecode.compileClassExpr), not handled here.
func (f *Frame) defineClass(innerIdx int32, parent *object.Object, hasParent bool) (value.Value, *errors.JsError) {
	inner := f.block.InnerFunctions[innerIdx]
	ctor := f.vm.makeClosure(inner, f.env)

	if hasParent {
		if parent == nil || !parent.IsConstructor() {
			return value.Undefined(), errors.NewNativef(errors.KindTypeError, "Class extends value is not a constructor")
		}
		ctor.Methods().SetPrototypeOf(ctor, parent)

		protoVal, err := ctor.GetStr(f.vm.Intr.Interner, "prototype")
		if err != nil {
			return value.Undefined(), err
		}
		parentProtoVal, err := parent.GetStr(f.vm.Intr.Interner, "prototype")
		if err != nil {
			return value.Undefined(), err
		}
		if proto, ok := protoVal.AsObject().(*object.Object); ok {
			if parentProto, ok := parentProtoVal.AsObject().(*object.Object); ok {
				proto.Methods().SetPrototypeOf(proto, parentProto)
			}
			object.SetHomeObject(ctor, proto)
		}
	}
	return value.ObjectValue(ctor), nil
}

// loadSuperConstructor resolves the active class's parent constructor
// for `super(...)`: the [[Prototype]] of the running constructor
// function object itself (set by defineClass above).
func loadSuperConstructor(f *Frame) value.Value {
	if f.fn == nil {
		return value.Undefined()
	}
	proto := f.fn.Prototype()
	if proto == nil {
		return value.Undefined()
	}
	return value.ObjectValue(proto)
}

// bindThis implements OpBindThis: bind the frame's uninitialized `this`
// (a derived constructor, once super(...) has returned) to v.
func bindThis(f *Frame, v value.Value) *errors.JsError {
	thisEnv := environment.GetThisEnvironment(f.env)
	fe, ok := thisEnv.(interface {
		BindThisValue(value.Value) *errors.JsError
	})
	if !ok {
		return errors.NewNativef(errors.KindReferenceError, "'this' is not bindable here")
	}
	return fe.BindThisValue(v)
}

// loadThisValue implements OpLoadThis: resolve the frame's `this`
// through GetThisEnvironment. Environment record kinds disagree on
// whether GetThisBinding can fail (FunctionEnv can, for an
// uninitialized derived-constructor `this`; Global and Module cannot),
// so both shapes are handled here via a structural type switch rather
// than widening the shared Record interface for one method only a
// function environment can actually fail.
func loadThisValue(env environment.Record) (value.Value, *errors.JsError) {
	thisEnv := environment.GetThisEnvironment(env)
	if thisEnv == nil {
		return value.Undefined(), nil
	}
	switch e := thisEnv.(type) {
	case interface {
		GetThisBinding() (value.Value, *errors.JsError)
	}:
		return e.GetThisBinding()
	case interface{ GetThisBinding() value.Value }:
		return e.GetThisBinding(), nil
	}
	return value.Undefined(), nil
}

// superBase resolves the object `super.x` / `super.x = v` operate
// against: the home object's [[Prototype]]. Only a FunctionEnv (or a
// block scope nested inside one) carries a home object.
func superBase(env environment.Record) *object.Object {
	thisEnv := environment.GetThisEnvironment(env)
	if se, ok := thisEnv.(interface{ GetSuperBase() *object.Object }); ok {
		return se.GetSuperBase()
	}
	return nil
}
