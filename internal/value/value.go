// Package value implements the engine's universal runtime datum: a tagged
// union of undefined/null/boolean/int32/number/bigint/string/symbol/object,
// plus the supporting string-interning, Symbol, and BigInt machinery.
// internal/object builds the heap object model on top of the HeapObject
// interface declared here, so this package never imports internal/object —
// keeping the dependency direction that lets both be imported from
// internal/environment and internal/bytecode without a cycle.
package value

import (
	"math"

	"github.com/ecmago/ecma/internal/gc"
)

// Kind tags which alternative of Value is populated.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindInt32
	KindNumber
	KindBigInt
	KindString
	KindSymbol
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindInt32, KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// HeapObject is the minimal surface internal/value needs from
// internal/object.Object: enough to trace it for GC and to answer
// `typeof`. internal/object.Object satisfies this interface structurally.
type HeapObject interface {
	gc.Traceable
	// TypeOfTag returns "object" or "function" per the object's [[Data]]
	// kind, so `typeof` does not need to import internal/object.
	TypeOfTag() string
	DebugString() string
}

// Value is the tagged union of runtime datum kinds. It is small and
// copied by value; object/bigint/string/symbol references inside it
// participate in GC tracing via the owning environment/register slot, not
// via Value itself tracing (Value has no Trace method — its holder does).
type Value struct {
	kind Kind
	b    bool
	i32  int32
	num  float64
	str  *JSString
	sym  *Symbol
	big  *BigInt
	obj  HeapObject
}

func Undefined() Value { return Value{kind: KindUndefined} }
func Null() Value      { return Value{kind: KindNull} }

func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Int32 constructs the fast-path integer representation. An engine could
// fuse Int32/Number into one numeric kind; this one keeps them distinct
// so small-integer arithmetic can skip float conversion.
func Int32(i int32) Value { return Value{kind: KindInt32, i32: i} }

func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

func BigIntValue(b *BigInt) Value { return Value{kind: KindBigInt, big: b} }

func StringValue(s *JSString) Value { return Value{kind: KindString, str: s} }

func SymbolValue(s *Symbol) Value { return Value{kind: KindSymbol, sym: s} }

func ObjectValue(o HeapObject) Value {
	if o == nil {
		return Null()
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind          { return v.kind }
func (v Value) IsUndefined() bool   { return v.kind == KindUndefined }
func (v Value) IsNull() bool        { return v.kind == KindNull }
func (v Value) IsNullish() bool     { return v.kind == KindUndefined || v.kind == KindNull }
func (v Value) IsBoolean() bool     { return v.kind == KindBoolean }
func (v Value) IsNumber() bool      { return v.kind == KindInt32 || v.kind == KindNumber }
func (v Value) IsBigInt() bool      { return v.kind == KindBigInt }
func (v Value) IsString() bool      { return v.kind == KindString }
func (v Value) IsSymbol() bool      { return v.kind == KindSymbol }
func (v Value) IsObject() bool      { return v.kind == KindObject }

func (v Value) AsBool() bool         { return v.b }
func (v Value) AsFloat64() float64 {
	if v.kind == KindInt32 {
		return float64(v.i32)
	}
	return v.num
}
func (v Value) AsInt32Fast() (int32, bool) {
	if v.kind == KindInt32 {
		return v.i32, true
	}
	return 0, false
}
func (v Value) AsBigInt() *BigInt  { return v.big }
func (v Value) AsString() *JSString { return v.str }
func (v Value) AsSymbol() *Symbol   { return v.sym }
func (v Value) AsObject() HeapObject { return v.obj }

// TypeOf implements the `typeof` operator.
func (v Value) TypeOf() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "object"
	case KindBoolean:
		return "boolean"
	case KindInt32, KindNumber:
		return "number"
	case KindBigInt:
		return "bigint"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindObject:
		if v.obj == nil {
			return "object"
		}
		return v.obj.TypeOfTag()
	}
	return "undefined"
}

// SameValue implements the spec's SameValue algorithm (used by `v === v`
// testable property: NaN equals itself under SameValue but not ===).
func SameValue(a, b Value) bool {
	if a.kind != b.kind {
		if a.IsNumber() && b.IsNumber() {
			// fallthrough to numeric comparison below
		} else {
			return false
		}
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindInt32, KindNumber:
		af, bf := a.AsFloat64(), b.AsFloat64()
		if math.IsNaN(af) && math.IsNaN(bf) {
			return true
		}
		if af == 0 && bf == 0 {
			return math.Signbit(af) == math.Signbit(bf)
		}
		return af == bf
	case KindBigInt:
		return a.big.Equals(b.big)
	case KindString:
		return a.str.Equals(b.str)
	case KindSymbol:
		return a.sym.Equals(b.sym)
	case KindObject:
		return a.obj == b.obj
	}
	return false
}

// StrictEquals implements `===`: like SameValue except +0 === -0 and
// NaN !== NaN.
func StrictEquals(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindInt32, KindNumber:
		return a.AsFloat64() == b.AsFloat64()
	case KindBigInt:
		return a.big.Equals(b.big)
	case KindString:
		return a.str.Equals(b.str)
	case KindSymbol:
		return a.sym.Equals(b.sym)
	case KindObject:
		return a.obj == b.obj
	}
	return false
}

// DebugString renders a value for Go-level diagnostics (errors, stack
// traces). It is not ECMAScript's ToString.
func (v Value) DebugString() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindInt32:
		return intToString(int64(v.i32))
	case KindNumber:
		return floatToString(v.num)
	case KindBigInt:
		return v.big.String()
	case KindString:
		return v.str.GoString()
	case KindSymbol:
		return v.sym.DebugString()
	case KindObject:
		if v.obj == nil {
			return "null"
		}
		return v.obj.DebugString()
	}
	return "<?>"
}
