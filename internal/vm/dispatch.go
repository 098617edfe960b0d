package vm

import (
	"math"
	"math/big"
	"strconv"

	"github.com/ecmago/ecma/internal/bytecode"
	"github.com/ecmago/ecma/internal/environment"
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// runFrame is the VM's main loop: fetch-decode-execute over f.block's
// instruction stream until a halt (OpReturn/OpHalt/falling off the end)
// or an unhandled exception unwinds the frame entirely. A backward jump
// (loop head) is the cooperative interrupt check point besides function
// entry, mirroring robertkrimen/otto's polling model rather than true
// preemption.
func (vm *VM) runFrame(f *Frame) (value.Value, *errors.JsError) {
	if err := vm.checkInterrupt(); err != nil {
		return value.Undefined(), err
	}
	for {
		if f.ip < 0 || f.ip >= len(f.block.Instructions) {
			return value.Undefined(), nil
		}
		inst := f.block.Instructions[f.ip]
		prevIP := f.ip
		f.ip++

		halt, retVal, ferr := f.step(inst)
		if ferr != nil {
			if f.tryHandle(ferr) {
				continue
			}
			return value.Undefined(), ferr
		}
		if halt {
			return retVal, nil
		}
		if f.ip <= prevIP {
			if err := vm.checkInterrupt(); err != nil {
				if f.tryHandle(err) {
					continue
				}
				return value.Undefined(), err
			}
		}
	}
}

// step executes a single instruction, returning (halt, returnValue, err).
// halt means the frame is done (OpReturn/OpHalt); err means an exception
// is propagating and the caller must consult f.tryHandle before giving
// up on the frame.
func (f *Frame) step(inst bytecode.Instruction) (bool, value.Value, *errors.JsError) {
	vm := f.vm
	switch inst.Op {

	// ---- constants and literals ----
	case bytecode.OpLoadConst:
		f.setReg(inst.A, f.block.Constants[inst.B])
	case bytecode.OpLoadUndefined:
		f.setReg(inst.A, value.Undefined())
	case bytecode.OpLoadNull:
		f.setReg(inst.A, value.Null())
	case bytecode.OpLoadTrue:
		f.setReg(inst.A, value.Bool(true))
	case bytecode.OpLoadFalse:
		f.setReg(inst.A, value.Bool(false))
	case bytecode.OpMove:
		f.setReg(inst.A, f.reg(inst.B))

	// ---- bindings ----
	case bytecode.OpGetVar:
		name := f.block.Names[inst.B]
		rec := environment.ResolveBinding(f.env, name)
		if rec == nil {
			return false, value.Value{}, errors.NewNativef(errors.KindReferenceError, "%s is not defined", name)
		}
		v, err := rec.GetBindingValue(name, f.block.Strict)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpSetVar:
		name := f.block.Names[inst.B]
		v := f.reg(inst.A)
		rec := environment.ResolveBinding(f.env, name)
		if rec == nil {
			if f.block.Strict {
				return false, value.Value{}, errors.NewNativef(errors.KindReferenceError, "%s is not defined", name)
			}
			vm.Intr.GlobalEnv.CreateMutableBinding(name, true)
			vm.Intr.GlobalEnv.InitializeBinding(name, v)
			break
		}
		if err := rec.SetMutableBinding(name, v, f.block.Strict); err != nil {
			return false, value.Value{}, err
		}
	case bytecode.OpInitVar:
		name := f.block.Names[inst.B]
		rec := environment.ResolveBinding(f.env, name)
		if rec == nil {
			return false, value.Value{}, errors.NewNativef(errors.KindReferenceError, "%s is not defined", name)
		}
		rec.InitializeBinding(name, f.reg(inst.A))
	case bytecode.OpDeclareVar:
		name := f.block.Names[inst.B]
		root := varScopeRoot(f.env)
		if !root.HasBinding(name) {
			root.CreateMutableBinding(name, false)
			root.InitializeBinding(name, value.Undefined())
		}
	case bytecode.OpDeclareLet:
		name := f.block.Names[inst.B]
		if g, ok := f.env.(*environment.Global); ok {
			// Global.CreateMutableBinding always targets the var/object
			// record; top-level let must land in the lexical record
			// instead, never as a globalThis property.
			g.CreateLexicalBinding(name, true)
		} else {
			f.env.CreateMutableBinding(name, false)
		}
	case bytecode.OpDeclareConst:
		f.env.CreateImmutableBinding(f.block.Names[inst.B], f.block.Strict)
	case bytecode.OpDeleteVar:
		name := f.block.Names[inst.B]
		rec := environment.ResolveBinding(f.env, name)
		if rec == nil {
			f.setReg(inst.A, value.Bool(true))
		} else {
			f.setReg(inst.A, value.Bool(rec.DeleteBinding(name)))
		}
	case bytecode.OpTypeofVar:
		name := f.block.Names[inst.B]
		rec := environment.ResolveBinding(f.env, name)
		if rec == nil {
			f.setReg(inst.A, value.StringValue(value.NewStringFromGo("undefined")))
			break
		}
		v, err := rec.GetBindingValue(name, false)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.StringValue(value.NewStringFromGo(v.TypeOf())))
	case bytecode.OpPushWith:
		obj := f.reg(inst.A)
		if !obj.IsObject() {
			return false, value.Value{}, errors.NewNativef(errors.KindTypeError, "Cannot convert %s to object for 'with'", obj.TypeOf())
		}
		o, _ := obj.AsObject().(*object.Object)
		f.env = environment.NewObjectEnv(o, vm.Intr.Interner, true, f.env)
	case bytecode.OpPopEnv:
		f.env = f.env.Outer()
	case bytecode.OpPushBlockEnv:
		f.env = environment.NewDeclarative(f.env)

	// ---- object/array construction and access ----
	case bytecode.OpNewObject:
		f.setReg(inst.A, value.ObjectValue(object.New(vm.Intr.ObjectProto)))
	case bytecode.OpNewArray:
		f.setReg(inst.A, value.ObjectValue(object.NewArray(vm.Intr.ArrayProto, nil)))
	case bytecode.OpGetProp:
		name := f.block.Names[inst.C]
		v, err := vm.getProperty(f.reg(inst.B), object.StringKey(value.NewStringFromGo(name)))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpSetProp:
		name := f.block.Names[inst.A]
		if err := vm.setProperty(f.reg(inst.B), object.StringKey(value.NewStringFromGo(name)), f.reg(inst.C)); err != nil {
			return false, value.Value{}, err
		}
	case bytecode.OpGetIndex:
		key, err := toPropertyKeyValue(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		v, err := vm.getProperty(f.reg(inst.B), key)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpSetIndex:
		key, err := toPropertyKeyValue(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		if err := vm.setProperty(f.reg(inst.A), key, f.reg(inst.C)); err != nil {
			return false, value.Value{}, err
		}
	case bytecode.OpDeleteProp:
		name := f.block.Names[inst.C]
		o, ok := f.reg(inst.B).AsObject().(*object.Object)
		if !ok {
			f.setReg(inst.A, value.Bool(true))
			break
		}
		ok2, err := o.Delete(object.StringKey(value.NewStringFromGo(name)))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Bool(ok2))
	case bytecode.OpDeleteIndex:
		o, ok := f.reg(inst.A).AsObject().(*object.Object)
		if !ok {
			f.setReg(inst.C, value.Bool(true))
			break
		}
		key, err := toPropertyKeyValue(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		ok2, err := o.Delete(key)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.C, value.Bool(ok2))
	case bytecode.OpDefineDataProp:
		o := f.reg(inst.A).AsObject().(*object.Object)
		name := f.block.Names[inst.B]
		o.DefineDataProperty(object.StringKey(value.NewStringFromGo(name)), f.reg(inst.C), true, true, true)
	case bytecode.OpDefineComputedProp:
		o := f.reg(inst.A).AsObject().(*object.Object)
		key, err := toPropertyKeyValue(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		o.DefineDataProperty(key, f.reg(inst.C), true, true, true)
	case bytecode.OpDefineGetter, bytecode.OpDefineSetter:
		o := f.reg(inst.A).AsObject().(*object.Object)
		key := object.StringKey(value.NewStringFromGo(f.block.Names[inst.B]))
		fn, _ := f.reg(inst.C).AsObject().(*object.Object)
		existing, _ := o.GetOwnProperty(key)
		var get, set *object.Object
		if existing != nil && existing.IsAccessor {
			get, set = existing.Get, existing.Set
		}
		if inst.Op == bytecode.OpDefineGetter {
			get = fn
		} else {
			set = fn
		}
		o.DefineOwnProperty(key, object.AccessorProperty(get, set, true, true))
	case bytecode.OpAppendElement:
		arr := f.reg(inst.A).AsObject().(*object.Object)
		arr.DefineOwnProperty(object.StringKey(value.NewStringFromGo(strconv.Itoa(int(inst.B)))), object.DataProperty(f.reg(inst.C), true, true, true))
	case bytecode.OpSpreadInto:
		arr := f.reg(inst.A).AsObject().(*object.Object)
		iter, err := vm.getIterator(f.reg(inst.C), false)
		if err != nil {
			return false, value.Value{}, err
		}
		for {
			v, done, err := vm.iteratorNext(iter, value.Value{}, false)
			if err != nil {
				return false, value.Value{}, err
			}
			if done {
				break
			}
			object.ArrayPush(arr, v)
		}
	case bytecode.OpCopyOwnProps:
		dst := f.reg(inst.A).AsObject().(*object.Object)
		src := f.reg(inst.C)
		if src.IsObject() {
			srcObj := src.AsObject().(*object.Object)
			for _, k := range srcObj.OwnPropertyKeys() {
				d, ok := srcObj.GetOwnProperty(k)
				if !ok || !d.Enumerable {
					continue
				}
				v, err := srcObj.Get(k, src)
				if err != nil {
					return false, value.Value{}, err
				}
				dst.DefineDataProperty(k, v, true, true, true)
			}
		}
	case bytecode.OpGetSuperProp:
		base := superBase(f.env)
		if base == nil {
			return false, value.Value{}, errors.NewNativef(errors.KindReferenceError, "'super' keyword is only valid inside a class")
		}
		this, err := loadThisValue(f.env)
		if err != nil {
			return false, value.Value{}, err
		}
		key := object.StringKey(value.NewStringFromGo(f.block.Names[inst.B]))
		v, err := base.Get(key, this)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpSetSuperProp:
		base := superBase(f.env)
		if base == nil {
			return false, value.Value{}, errors.NewNativef(errors.KindReferenceError, "'super' keyword is only valid inside a class")
		}
		this, err := loadThisValue(f.env)
		if err != nil {
			return false, value.Value{}, err
		}
		key := object.StringKey(value.NewStringFromGo(f.block.Names[inst.A]))
		if _, err := base.Set(key, f.reg(inst.B), this); err != nil {
			return false, value.Value{}, err
		}

	// ---- arithmetic, comparison, logical ----
	case bytecode.OpAdd:
		v, err := add(f.reg(inst.B), f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpSub:
		v, err := numericBinOp(f.reg(inst.B), f.reg(inst.C), "-", func(x, y float64) float64 { return x - y })
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpMul:
		v, err := numericBinOp(f.reg(inst.B), f.reg(inst.C), "*", func(x, y float64) float64 { return x * y })
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpDiv:
		v, err := numericBinOp(f.reg(inst.B), f.reg(inst.C), "/", func(x, y float64) float64 { return x / y })
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpMod:
		v, err := numericBinOp(f.reg(inst.B), f.reg(inst.C), "%", math.Mod)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpExp:
		v, err := numericBinOp(f.reg(inst.B), f.reg(inst.C), "**", math.Pow)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpBitAnd:
		a, err := toInt32(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		b, err := toInt32(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Int32(a&b))
	case bytecode.OpBitOr:
		a, err := toInt32(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		b, err := toInt32(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Int32(a|b))
	case bytecode.OpBitXor:
		a, err := toInt32(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		b, err := toInt32(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Int32(a^b))
	case bytecode.OpShl:
		a, err := toInt32(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		s, err := toUint32(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Int32(a<<(s&31)))
	case bytecode.OpShr:
		a, err := toInt32(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		s, err := toUint32(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Int32(a>>(s&31)))
	case bytecode.OpUShr:
		a, err := toUint32(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		b, err := toUint32(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, numToValue(float64(a>>(b&31))))
	case bytecode.OpNeg:
		v := f.reg(inst.B)
		if v.IsBigInt() {
			f.setReg(inst.A, value.BigIntValue(&value.BigInt{V: new(big.Int).Neg(v.AsBigInt().V)}))
			break
		}
		n, err := toNumber(v)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, numToValue(-n))
	case bytecode.OpPos:
		n, err := toNumber(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, numToValue(n))
	case bytecode.OpBitNot:
		i, err := toInt32(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Int32(^i))
	case bytecode.OpNot:
		f.setReg(inst.A, value.Bool(!toBoolean(f.reg(inst.B))))
	case bytecode.OpEq:
		b, err := looseEquals(f.reg(inst.B), f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Bool(b))
	case bytecode.OpNotEq:
		b, err := looseEquals(f.reg(inst.B), f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Bool(!b))
	case bytecode.OpStrictEq:
		f.setReg(inst.A, value.Bool(value.StrictEquals(f.reg(inst.B), f.reg(inst.C))))
	case bytecode.OpStrictNotEq:
		f.setReg(inst.A, value.Bool(!value.StrictEquals(f.reg(inst.B), f.reg(inst.C))))
	case bytecode.OpLess:
		r, err := lessThan(f.reg(inst.B), f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Bool(r.defined && r.b))
	case bytecode.OpGreater:
		r, err := lessThan(f.reg(inst.C), f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Bool(r.defined && r.b))
	case bytecode.OpLessEq:
		r, err := lessThan(f.reg(inst.C), f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Bool(r.defined && !r.b))
	case bytecode.OpGreaterEq:
		r, err := lessThan(f.reg(inst.B), f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Bool(r.defined && !r.b))
	case bytecode.OpInstanceOf:
		b, err := instanceOf(vm, f.reg(inst.B), f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.Bool(b))
	case bytecode.OpIn:
		key, err := toPropertyKeyValue(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		o, ok := f.reg(inst.C).AsObject().(*object.Object)
		if !ok {
			return false, value.Value{}, errors.NewNativef(errors.KindTypeError, "Cannot use 'in' operator on a non-object")
		}
		f.setReg(inst.A, value.Bool(o.HasProperty(key)))
	case bytecode.OpTypeof:
		f.setReg(inst.A, value.StringValue(value.NewStringFromGo(f.reg(inst.B).TypeOf())))

	// ---- control flow ----
	case bytecode.OpJump:
		f.ip = int(inst.A)
	case bytecode.OpJumpIfFalse:
		if !toBoolean(f.reg(inst.B)) {
			f.ip = int(inst.A)
		}
	case bytecode.OpJumpIfTrue:
		if toBoolean(f.reg(inst.B)) {
			f.ip = int(inst.A)
		}
	case bytecode.OpJumpIfNullish:
		if f.reg(inst.B).IsNullish() {
			f.ip = int(inst.A)
		}
	case bytecode.OpJumpIfNotNullish:
		if !f.reg(inst.B).IsNullish() {
			f.ip = int(inst.A)
		}

	// ---- functions, calls, this ----
	case bytecode.OpMakeClosure:
		cb := f.block.InnerFunctions[inst.B]
		fn := vm.makeClosure(cb, f.env)
		f.setReg(inst.A, value.ObjectValue(fn))
	case bytecode.OpCall:
		v, err := vm.callValue(f.reg(inst.A), f.reg(inst.B), collectRun(f, inst.B+1, inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpCallSpread:
		args, err := arrayToSlice(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		v, err := vm.callValue(f.reg(inst.A), f.reg(inst.B), args)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpNew:
		v, err := vm.constructValue(f.reg(inst.A), collectRun(f, inst.B, inst.C), nil)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpNewSpread:
		args, err := arrayToSlice(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		v, err := vm.constructValue(f.reg(inst.A), args, nil)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpSuperCall:
		v, err := f.doSuperCall(inst.A, inst.B, collectRun(f, inst.B+1, inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpSuperCallSpread:
		args, err := arrayToSlice(f.reg(inst.C))
		if err != nil {
			return false, value.Value{}, err
		}
		v, err := f.doSuperCall(inst.A, inst.B, args)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpReturn:
		return true, f.reg(inst.A), nil
	case bytecode.OpLoadThis:
		v, err := loadThisValue(f.env)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpLoadNewTarget:
		if f.newTarget == nil {
			f.setReg(inst.A, value.Undefined())
		} else {
			f.setReg(inst.A, value.ObjectValue(f.newTarget))
		}
	case bytecode.OpLoadSuperConstructor:
		f.setReg(inst.A, loadSuperConstructor(f))
	case bytecode.OpBindThis:
		if err := bindThis(f, f.reg(inst.A)); err != nil {
			return false, value.Value{}, err
		}
	case bytecode.OpMakeArguments:
		f.setReg(inst.A, vm.buildArguments(f))
	case bytecode.OpMakeRest:
		rest := object.NewArray(vm.Intr.ArrayProto, nil)
		for i := int(inst.B); i < len(f.args); i++ {
			object.ArrayPush(rest, f.args[i])
		}
		f.setReg(inst.A, value.ObjectValue(rest))

	// ---- exceptions ----
	case bytecode.OpThrow:
		return false, value.Value{}, throwValue(f.reg(inst.A))
	case bytecode.OpPushHandler:
		f.handlers = append(f.handlers, tryHandler{catchIP: inst.A, finallyIP: inst.B, env: f.env})
	case bytecode.OpPopHandler:
		if len(f.handlers) > 0 {
			f.handlers = f.handlers[:len(f.handlers)-1]
		}
	case bytecode.OpGetException:
		f.setReg(inst.A, f.pendingExc)
		f.pendingExc = value.Value{}
	case bytecode.OpFinallyEnter:
		f.pendingCompletion = completion{kind: completionNormal}
	case bytecode.OpFinallyExit:
		if f.pendingCompletion.kind == completionThrow {
			err := f.pendingCompletion.err
			f.pendingCompletion = completion{}
			return false, value.Value{}, err
		}
		f.pendingCompletion = completion{}

	// ---- iteration protocol ----
	case bytecode.OpGetIterator:
		iter, err := vm.getIterator(f.reg(inst.B), false)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.ObjectValue(iter))
	case bytecode.OpGetAsyncIterator:
		iter, err := vm.getIterator(f.reg(inst.B), true)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, value.ObjectValue(iter))
	case bytecode.OpForInIterator:
		f.setReg(inst.A, value.ObjectValue(vm.forInIterator(f.reg(inst.B))))
	case bytecode.OpIteratorNext:
		iter, ok := f.reg(inst.A).AsObject().(*object.Object)
		if !ok {
			return false, value.Value{}, errors.NewNativef(errors.KindTypeError, "not an iterator")
		}
		v, done, err := vm.iteratorNext(iter, value.Value{}, false)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.B, vm.makeIterResult(v, done))
		f.setReg(inst.C, value.Bool(done))
	case bytecode.OpIteratorValue:
		res, ok := f.reg(inst.B).AsObject().(*object.Object)
		if !ok {
			f.setReg(inst.A, value.Undefined())
			break
		}
		v, err := res.GetStr(vm.Intr.Interner, "value")
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpIteratorClose:
		if iter, ok := f.reg(inst.A).AsObject().(*object.Object); ok {
			vm.iteratorClose(iter)
		}

	// ---- generators and async ----
	case bytecode.OpYield:
		if f.coro == nil {
			return false, value.Value{}, errors.NewNativef(errors.KindSyntaxError, "yield used outside a generator")
		}
		resume := f.suspend(coroYield, f.reg(inst.A))
		switch resume.kind {
		case resumeThrow:
			return false, value.Value{}, resume.err
		case resumeReturn:
			return true, resume.value, nil
		default:
			f.setReg(inst.A, resume.value)
		}
	case bytecode.OpYieldStar:
		v, err := f.yieldStar(inst.A)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpAwait:
		if f.coro == nil {
			return false, value.Value{}, errors.NewNativef(errors.KindSyntaxError, "await used outside an async function")
		}
		resume := f.suspend(coroAwait, f.reg(inst.A))
		switch resume.kind {
		case resumeThrow:
			return false, value.Value{}, resume.err
		case resumeReturn:
			return true, resume.value, nil
		default:
			f.setReg(inst.A, resume.value)
		}

	// ---- classes ----
	case bytecode.OpDefineField:
		o := f.reg(inst.A).AsObject().(*object.Object)
		o.DefineDataProperty(object.StringKey(value.NewStringFromGo(f.block.Names[inst.B])), f.reg(inst.C), true, true, true)
	case bytecode.OpDefineClass:
		var parent *object.Object
		hasParent := inst.C >= 0
		if hasParent {
			parent, _ = f.reg(inst.C).AsObject().(*object.Object)
		}
		v, err := f.defineClass(inst.B, parent, hasParent)
		if err != nil {
			return false, value.Value{}, err
		}
		f.setReg(inst.A, v)
	case bytecode.OpGetPrivate:
		o, ok := f.reg(inst.A).AsObject().(*object.Object)
		if !ok {
			return false, value.Value{}, errors.NewNativef(errors.KindTypeError, "Cannot read private member from a non-object")
		}
		name := f.block.PrivateNames[inst.B]
		key := privateKey(name)
		d, ok := o.GetOwnProperty(key)
		if !ok {
			return false, value.Value{}, errors.NewNativef(errors.KindTypeError, "Cannot read private member #%s from an object whose class did not declare it", name)
		}
		if d.IsAccessor {
			if d.Get == nil {
				return false, value.Value{}, errors.NewNativef(errors.KindTypeError, "'#%s' was defined without a getter", name)
			}
			v, err := d.Get.Call(f.reg(inst.A), nil)
			if err != nil {
				return false, value.Value{}, err
			}
			f.setReg(inst.A, v)
		} else {
			f.setReg(inst.A, d.Value)
		}
	case bytecode.OpSetPrivate:
		o, ok := f.reg(inst.A).AsObject().(*object.Object)
		if !ok {
			return false, value.Value{}, errors.NewNativef(errors.KindTypeError, "Cannot write private member to a non-object")
		}
		name := f.block.PrivateNames[inst.B]
		key := privateKey(name)
		val := f.reg(inst.C)
		if d, ok := o.GetOwnProperty(key); ok && d.IsAccessor {
			if d.Set == nil {
				return false, value.Value{}, errors.NewNativef(errors.KindTypeError, "'#%s' was defined without a setter", name)
			}
			if _, err := d.Set.Call(f.reg(inst.A), []value.Value{val}); err != nil {
				return false, value.Value{}, err
			}
			break
		}
		o.DefineDataProperty(key, val, true, false, false)
	case bytecode.OpHasPrivate:
		o, ok := f.reg(inst.B).AsObject().(*object.Object)
		if !ok {
			f.setReg(inst.A, value.Bool(false))
			break
		}
		name := f.block.PrivateNames[inst.A]
		_, has := o.GetOwnProperty(privateKey(name))
		f.setReg(inst.A, value.Bool(has))

	// ---- misc ----
	case bytecode.OpMakeRegExp:
		source, err := toStringValue(f.reg(inst.A))
		if err != nil {
			return false, value.Value{}, err
		}
		flags, err := toStringValue(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		re, compileErr := object.NewRegExp(vm.Intr.RegExpProto, source, flags)
		if compileErr != nil {
			return false, value.Value{}, errors.NewNativef(errors.KindSyntaxError, "Invalid regular expression: %s", compileErr.Error())
		}
		f.setReg(inst.A, value.ObjectValue(re))
	case bytecode.OpToPropertyKey:
		key, err := toPropertyKeyValue(f.reg(inst.B))
		if err != nil {
			return false, value.Value{}, err
		}
		if key.IsSymbol() {
			f.setReg(inst.A, value.SymbolValue(key.Symbol()))
		} else {
			f.setReg(inst.A, value.StringValue(key.String()))
		}
	case bytecode.OpConcatTemplate:
		var sb []byte
		for i := int32(0); i < inst.C; i++ {
			s, err := toStringValue(f.reg(inst.B + i))
			if err != nil {
				return false, value.Value{}, err
			}
			sb = append(sb, s...)
		}
		f.setReg(inst.A, value.StringValue(value.NewStringFromGo(string(sb))))
	case bytecode.OpNop:
		// no-op
	case bytecode.OpHalt:
		return true, value.Undefined(), nil

	default:
		return false, value.Value{}, errors.NewNativef(errors.KindTypeError, "unimplemented opcode %s", inst.Op)
	}
	return false, value.Value{}, nil
}

// varScopeRoot walks outward to the nearest var-scope: a function's own
// environment (including arrow functions, which still get their own var
// scope despite lexical `this`) or the global/module top level. var and
// function declarations hoist here, skipping intervening block scopes.
func varScopeRoot(env environment.Record) environment.Record {
	for e := env; e != nil; e = e.Outer() {
		switch e.(type) {
		case interface{ FunctionObject() *object.Object }:
			return e
		case interface{ GlobalObject() *object.Object }:
			return e
		}
		if _, ok := e.(*environment.Module); ok {
			return e
		}
	}
	return env
}

func privateKey(name string) object.PropKey {
	return object.StringKey(value.NewStringFromGo("#" + name))
}

// getProperty implements property read for OpGetProp/OpGetIndex,
// including the string "length"/numeric-index special case (no
// String.prototype-backed wrapper object exists in this engine, so
// indexing and length are handled directly rather than through ToObject
// boxing).
func (vm *VM) getProperty(receiver value.Value, key object.PropKey) (value.Value, *errors.JsError) {
	if receiver.IsObject() {
		o, ok := receiver.AsObject().(*object.Object)
		if !ok {
			return value.Undefined(), nil
		}
		return o.Get(key, receiver)
	}
	if receiver.IsString() {
		s := receiver.AsString()
		if !key.IsSymbol() {
			name := key.String().GoString()
			if name == "length" {
				return value.Number(float64(s.Len())), nil
			}
			if idx, cerr := strconv.Atoi(name); cerr == nil && idx >= 0 && idx < s.Len() {
				return value.StringValue(value.NewStringFromUnits(s.Units()[idx : idx+1])), nil
			}
		}
		return value.Undefined(), nil
	}
	if receiver.IsNullish() {
		desc := "undefined"
		if receiver.IsNull() {
			desc = "null"
		}
		return value.Value{}, errors.NewNativef(errors.KindTypeError, "Cannot read properties of %s (reading '%s')", desc, key.DebugString())
	}
	return value.Undefined(), nil
}

func (vm *VM) setProperty(receiver value.Value, key object.PropKey, v value.Value) *errors.JsError {
	if receiver.IsNullish() {
		return errors.NewNativef(errors.KindTypeError, "Cannot set properties of %s", receiver.TypeOf())
	}
	if !receiver.IsObject() {
		return nil // ToObject on a primitive + [[Set]] is a silent no-op
	}
	o, ok := receiver.AsObject().(*object.Object)
	if !ok {
		return nil
	}
	_, err := o.Set(key, v, receiver)
	return err
}

func collectRun(f *Frame, start, count int32) []value.Value {
	if count <= 0 {
		return nil
	}
	args := make([]value.Value, count)
	for i := int32(0); i < count; i++ {
		args[i] = f.reg(start + i)
	}
	return args
}

func arrayToSlice(v value.Value) ([]value.Value, *errors.JsError) {
	o, ok := v.AsObject().(*object.Object)
	if !v.IsObject() || !ok {
		return nil, errors.NewNativef(errors.KindTypeError, "spread argument list is not an array")
	}
	n := object.ArrayLength(o)
	out := make([]value.Value, n)
	for i := 0; i < n; i++ {
		out[i] = object.ArrayGetIndex(o, i)
	}
	return out, nil
}

// doSuperCall implements OpSuperCall/OpSuperCallSpread: construct the
// parent class (already loaded into register A by OpLoadSuperConstructor)
// with explicit newTarget, then bind this.
func (f *Frame) doSuperCall(ctorReg, newTargetReg int32, args []value.Value) (value.Value, *errors.JsError) {
	nt, _ := f.reg(newTargetReg).AsObject().(*object.Object)
	if nt == nil {
		nt = f.newTarget
	}
	return f.vm.constructValue(f.reg(ctorReg), args, nt)
}

// yieldStar implements OpYieldStar: delegate to register A's iterator,
// re-yielding each produced value and forwarding the caller's sent
// values/exceptions into the delegate, per the `yield*` protocol.
func (f *Frame) yieldStar(reg int32) (value.Value, *errors.JsError) {
	if f.coro == nil {
		return value.Value{}, errors.NewNativef(errors.KindSyntaxError, "yield used outside a generator")
	}
	vm := f.vm
	iter, err := vm.getIterator(f.reg(reg), false)
	if err != nil {
		return value.Value{}, err
	}
	hasArg := false
	var sent value.Value
	for {
		v, done, err := vm.iteratorNext(iter, sent, hasArg)
		if err != nil {
			return value.Value{}, err
		}
		if done {
			return v, nil
		}
		resume := f.suspend(coroYield, v)
		switch resume.kind {
		case resumeThrow:
			vm.iteratorClose(iter)
			return value.Value{}, resume.err
		case resumeReturn:
			vm.iteratorClose(iter)
			return resume.value, nil
		default:
			sent, hasArg = resume.value, true
		}
	}
}

