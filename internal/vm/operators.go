package vm

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// toBoolean implements the ToBoolean abstract operation.
func toBoolean(v value.Value) bool {
	switch v.Kind() {
	case value.KindUndefined, value.KindNull:
		return false
	case value.KindBoolean:
		return v.AsBool()
	case value.KindInt32:
		i, _ := v.AsInt32Fast()
		return i != 0
	case value.KindNumber:
		f := v.AsFloat64()
		return f != 0 && !math.IsNaN(f)
	case value.KindBigInt:
		return v.AsBigInt().V.Sign() != 0
	case value.KindString:
		return v.AsString().Len() > 0
	default:
		return true
	}
}

// toPrimitive implements OrdinaryToPrimitive: try @@toPrimitive, then
// valueOf/toString in the order hint demands ("string" tries toString
// first, anything else tries valueOf first).
func toPrimitive(v value.Value, hint string) (value.Value, *errors.JsError) {
	if !v.IsObject() {
		return v, nil
	}
	o, ok := v.AsObject().(*object.Object)
	if !ok {
		return v, nil
	}
	if exotic, err := o.Get(object.SymbolKey(value.SymToPrimitive()), v); err == nil && exotic.IsObject() {
		if fn, ok := exotic.AsObject().(*object.Object); ok && fn.IsCallable() {
			h := hint
			if h == "" {
				h = "default"
			}
			return fn.Call(v, []value.Value{value.StringValue(value.NewStringFromGo(h))})
		}
	}
	methods := []string{"valueOf", "toString"}
	if hint == "string" {
		methods = []string{"toString", "valueOf"}
	}
	for _, name := range methods {
		m, err := o.Get(object.StringKey(value.NewStringFromGo(name)), v)
		if err != nil {
			return value.Undefined(), err
		}
		if fn, ok := m.AsObject().(*object.Object); ok && m.IsObject() && fn.IsCallable() {
			res, err := fn.Call(v, nil)
			if err != nil {
				return value.Undefined(), err
			}
			if !res.IsObject() {
				return res, nil
			}
		}
	}
	return value.Undefined(), errors.NewNativef(errors.KindTypeError, "Cannot convert object to primitive value")
}

// toNumber implements ToNumber.
func toNumber(v value.Value) (float64, *errors.JsError) {
	switch v.Kind() {
	case value.KindUndefined:
		return math.NaN(), nil
	case value.KindNull:
		return 0, nil
	case value.KindBoolean:
		if v.AsBool() {
			return 1, nil
		}
		return 0, nil
	case value.KindInt32, value.KindNumber:
		return v.AsFloat64(), nil
	case value.KindBigInt:
		return 0, errors.NewNativef(errors.KindTypeError, "Cannot convert a BigInt value to a number")
	case value.KindString:
		return stringToNumber(v.AsString().GoString()), nil
	case value.KindObject:
		prim, err := toPrimitive(v, "number")
		if err != nil {
			return math.NaN(), err
		}
		if prim.IsObject() {
			return math.NaN(), nil
		}
		return toNumber(prim)
	}
	return math.NaN(), nil
}

func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	if t == "Infinity" || t == "+Infinity" {
		return math.Inf(1)
	}
	if t == "-Infinity" {
		return math.Inf(-1)
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		if n, err := strconv.ParseInt(t[2:], 16, 64); err == nil {
			return float64(n)
		}
		return math.NaN()
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// toStringValue implements ToString for building string concatenation
// results and property keys.
func toStringValue(v value.Value) (string, *errors.JsError) {
	switch v.Kind() {
	case value.KindUndefined:
		return "undefined", nil
	case value.KindNull:
		return "null", nil
	case value.KindBoolean:
		if v.AsBool() {
			return "true", nil
		}
		return "false", nil
	case value.KindInt32, value.KindNumber:
		return v.DebugString(), nil
	case value.KindBigInt:
		return v.AsBigInt().V.String(), nil
	case value.KindString:
		return v.AsString().GoString(), nil
	case value.KindSymbol:
		return "", errors.NewNativef(errors.KindTypeError, "Cannot convert a Symbol value to a string")
	case value.KindObject:
		prim, err := toPrimitive(v, "string")
		if err != nil {
			return "", err
		}
		if prim.IsObject() {
			return "", errors.NewNativef(errors.KindTypeError, "Cannot convert object to primitive value")
		}
		return toStringValue(prim)
	}
	return "", nil
}

// toPropertyKeyValue implements ToPropertyKey: symbols pass through,
// everything else coerces to string.
func toPropertyKeyValue(v value.Value) (object.PropKey, *errors.JsError) {
	if v.IsSymbol() {
		return object.SymbolKey(v.AsSymbol()), nil
	}
	s, err := toStringValue(v)
	if err != nil {
		return object.PropKey{}, err
	}
	return object.StringKey(value.NewStringFromGo(s)), nil
}

// isIntegralFloat reports whether f can be represented as an int32
// fast-path value without loss, used to keep small-integer arithmetic on
// the Int32 representation rather than always widening to Number.
func isIntegralFloat(f float64) (int32, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, false
	}
	return int32(f), true
}

func numToValue(f float64) value.Value {
	if i, ok := isIntegralFloat(f); ok {
		return value.Int32(i)
	}
	return value.Number(f)
}

// add implements the `+` operator: ToPrimitive both operands, then
// string-concatenate if either primitive is a string, else ToNumeric-add
// (bigint operands must match, mixed bigint/number raises TypeError).
func add(a, b value.Value) (value.Value, *errors.JsError) {
	pa, err := toPrimitive(a, "")
	if err != nil {
		return value.Value{}, err
	}
	pb, err := toPrimitive(b, "")
	if err != nil {
		return value.Value{}, err
	}
	if pa.IsString() || pb.IsString() {
		sa, err := toStringValue(pa)
		if err != nil {
			return value.Value{}, err
		}
		sb, err := toStringValue(pb)
		if err != nil {
			return value.Value{}, err
		}
		return value.StringValue(value.NewStringFromGo(sa + sb)), nil
	}
	if pa.IsBigInt() || pb.IsBigInt() {
		return bigArith(pa, pb, "+")
	}
	na, err := toNumber(pa)
	if err != nil {
		return value.Value{}, err
	}
	nb, err := toNumber(pb)
	if err != nil {
		return value.Value{}, err
	}
	return numToValue(na + nb), nil
}

func bigArith(a, b value.Value, op string) (value.Value, *errors.JsError) {
	if !a.IsBigInt() || !b.IsBigInt() {
		return value.Value{}, errors.NewNativef(errors.KindTypeError, "Cannot mix BigInt and other types, use explicit conversions")
	}
	ai, bi := a.AsBigInt().V, b.AsBigInt().V
	r := new(big.Int)
	switch op {
	case "+":
		r.Add(ai, bi)
	case "-":
		r.Sub(ai, bi)
	case "*":
		r.Mul(ai, bi)
	case "/":
		if bi.Sign() == 0 {
			return value.Value{}, errors.NewNativef(errors.KindRangeError, "Division by zero")
		}
		r.Quo(ai, bi)
	case "%":
		if bi.Sign() == 0 {
			return value.Value{}, errors.NewNativef(errors.KindRangeError, "Division by zero")
		}
		r.Rem(ai, bi)
	case "**":
		if bi.Sign() < 0 {
			return value.Value{}, errors.NewNativef(errors.KindRangeError, "Exponent must be non-negative")
		}
		r.Exp(ai, bi, nil)
	}
	return value.BigIntValue(&value.BigInt{V: r}), nil
}

// numericBinOp applies fn to the Number-coerced operands of a/b,
// handling the BigInt fast path via op for the ops that support it.
func numericBinOp(a, b value.Value, op string, fn func(x, y float64) float64) (value.Value, *errors.JsError) {
	if a.IsBigInt() || b.IsBigInt() {
		return bigArith(a, b, op)
	}
	na, err := toNumber(a)
	if err != nil {
		return value.Value{}, err
	}
	nb, err := toNumber(b)
	if err != nil {
		return value.Value{}, err
	}
	return numToValue(fn(na, nb)), nil
}

func toInt32(v value.Value) (int32, *errors.JsError) {
	n, err := toNumber(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, nil
	}
	return int32(uint32(int64(n))), nil
}

func toUint32(v value.Value) (uint32, *errors.JsError) {
	n, err := toNumber(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, nil
	}
	return uint32(int64(n)), nil
}

// lessThan implements the abstract relational comparison for `<`; the
// VM's OpLess/OpGreater/OpLessEq/OpGreaterEq all derive from this (with
// operands possibly swapped) per the spec's shared definition.
func lessThan(a, b value.Value) (boolOrUndef, *errors.JsError) {
	pa, err := toPrimitive(a, "number")
	if err != nil {
		return boolOrUndef{}, err
	}
	pb, err := toPrimitive(b, "number")
	if err != nil {
		return boolOrUndef{}, err
	}
	if pa.IsString() && pb.IsString() {
		return boolOrUndef{defined: true, b: pa.AsString().GoString() < pb.AsString().GoString()}, nil
	}
	if pa.IsBigInt() || pb.IsBigInt() {
		if pa.IsBigInt() && pb.IsBigInt() {
			return boolOrUndef{defined: true, b: pa.AsBigInt().V.Cmp(pb.AsBigInt().V) < 0}, nil
		}
	}
	na, err := toNumber(pa)
	if err != nil {
		return boolOrUndef{}, err
	}
	nb, err := toNumber(pb)
	if err != nil {
		return boolOrUndef{}, err
	}
	if math.IsNaN(na) || math.IsNaN(nb) {
		return boolOrUndef{}, nil
	}
	return boolOrUndef{defined: true, b: na < nb}, nil
}

type boolOrUndef struct {
	defined bool
	b       bool
}

// looseEquals implements the `==` abstract equality comparison.
func looseEquals(a, b value.Value) (bool, *errors.JsError) {
	if a.Kind() == b.Kind() {
		return value.StrictEquals(a, b), nil
	}
	if a.IsNullish() && b.IsNullish() {
		return true, nil
	}
	if a.IsNullish() || b.IsNullish() {
		return false, nil
	}
	if a.IsNumber() && b.IsString() {
		nb := stringToNumber(b.AsString().GoString())
		return a.AsFloat64() == nb, nil
	}
	if a.IsString() && b.IsNumber() {
		return looseEquals(b, a)
	}
	if a.IsBoolean() {
		return looseEquals(boolToNumber(a), b)
	}
	if b.IsBoolean() {
		return looseEquals(a, boolToNumber(b))
	}
	if (a.IsNumber() || a.IsString() || a.IsBigInt()) && b.IsObject() {
		pb, err := toPrimitive(b, "")
		if err != nil {
			return false, err
		}
		return looseEquals(a, pb)
	}
	if a.IsObject() && (b.IsNumber() || b.IsString() || b.IsBigInt()) {
		return looseEquals(b, a)
	}
	return false, nil
}

func boolToNumber(v value.Value) value.Value {
	if v.AsBool() {
		return value.Int32(1)
	}
	return value.Int32(0)
}

// instanceOf implements `instanceof`: walk ctor.prototype against the
// object's own [[Prototype]] chain (no Symbol.hasInstance override
// support — none of the example intrinsics install one).
func instanceOf(vm *VM, v, ctor value.Value) (bool, *errors.JsError) {
	co, ok := ctor.AsObject().(*object.Object)
	if !ctor.IsObject() || !ok || !co.IsCallable() {
		return false, errors.NewNativef(errors.KindTypeError, "Right-hand side of 'instanceof' is not callable")
	}
	if !v.IsObject() {
		return false, nil
	}
	protoVal, err := co.GetStr(vm.Intr.Interner, "prototype")
	if err != nil {
		return false, err
	}
	proto, ok := protoVal.AsObject().(*object.Object)
	if !protoVal.IsObject() || !ok {
		return false, errors.NewNativef(errors.KindTypeError, "Function has non-object prototype in instanceof check")
	}
	obj, ok := v.AsObject().(*object.Object)
	if !ok {
		return false, nil
	}
	for p := obj.Prototype(); p != nil; p = p.Prototype() {
		if p == proto {
			return true, nil
		}
	}
	return false, nil
}
