package object

import (
	"math"
	"strconv"

	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/value"
)

// ElementKind enumerates the typed array element types. Each has a fixed
// byte width and a conversion rule applied on write (ToNumber then clamp/
// wrap) and on read (back to a Value).
type ElementKind uint8

const (
	ElemInt8 ElementKind = iota
	ElemUint8
	ElemUint8Clamped
	ElemInt16
	ElemUint16
	ElemInt32
	ElemUint32
	ElemFloat32
	ElemFloat64
	ElemBigInt64
	ElemBigUint64
)

func (k ElementKind) ByteWidth() int {
	switch k {
	case ElemInt8, ElemUint8, ElemUint8Clamped:
		return 1
	case ElemInt16, ElemUint16:
		return 2
	case ElemInt32, ElemUint32, ElemFloat32:
		return 4
	default:
		return 8
	}
}

func (k ElementKind) IsBigInt() bool { return k == ElemBigInt64 || k == ElemBigUint64 }

// TypedArrayData is the [[Data]] payload for an integer-indexed exotic
// object: a view (kind, byteOffset, length) over a shared backing
// ArrayBuffer.
type TypedArrayData struct {
	Kind       ElementKind
	Buffer     *ArrayBuffer
	ByteOffset int
	Length     int // element count
}

// ArrayBuffer is the plain backing store a typed array view reads/writes
// through; a detached buffer has Bytes == nil.
type ArrayBuffer struct {
	Bytes []byte
}

func NewArrayBuffer(byteLength int) *ArrayBuffer {
	return &ArrayBuffer{Bytes: make([]byte, byteLength)}
}

func (b *ArrayBuffer) Detached() bool { return b.Bytes == nil }

// NewTypedArray creates an integer-indexed exotic object viewing buf.
func NewTypedArray(proto *Object, kind ElementKind, buf *ArrayBuffer, byteOffset, length int) *Object {
	o := New(proto)
	o.SetClassName(typedArrayClassName(kind))
	o.SetDataKind(DataTypedArray)
	o.Data = &TypedArrayData{Kind: kind, Buffer: buf, ByteOffset: byteOffset, Length: length}

	m := OrdinaryMethods
	m.GetOwnProperty = typedArrayGetOwnProperty
	m.HasProperty = typedArrayHasProperty
	m.Get = typedArrayGet
	m.Set = typedArraySet
	m.DefineOwnProperty = typedArrayDefineOwnProperty
	m.Delete = func(self *Object, key PropKey) (bool, *errors.JsError) {
		if _, ok := typedArrayIndex(self, key); ok {
			return false, nil
		}
		return ordinaryDelete(self, key)
	}
	m.OwnPropertyKeys = func(self *Object) []PropKey {
		td := self.Data.(*TypedArrayData)
		keys := make([]PropKey, 0, td.Length)
		for i := 0; i < td.Length; i++ {
			keys = append(keys, StringKey(value.NewStringFromGo(strconv.Itoa(i))))
		}
		return append(keys, ordinaryOwnPropertyKeys(self)...)
	}
	o.SetMethods(&m)
	return o
}

func typedArrayClassName(k ElementKind) string {
	switch k {
	case ElemInt8:
		return "Int8Array"
	case ElemUint8:
		return "Uint8Array"
	case ElemUint8Clamped:
		return "Uint8ClampedArray"
	case ElemInt16:
		return "Int16Array"
	case ElemUint16:
		return "Uint16Array"
	case ElemInt32:
		return "Int32Array"
	case ElemUint32:
		return "Uint32Array"
	case ElemFloat32:
		return "Float32Array"
	case ElemFloat64:
		return "Float64Array"
	case ElemBigInt64:
		return "BigInt64Array"
	default:
		return "BigUint64Array"
	}
}

func typedArrayIndex(o *Object, key PropKey) (int, bool) {
	if key.IsSymbol() {
		return 0, false
	}
	idx, ok := asArrayIndex(key)
	if !ok {
		return 0, false
	}
	td := o.Data.(*TypedArrayData)
	if idx >= td.Length || td.Buffer.Detached() {
		return 0, false
	}
	return idx, true
}

// typedArrayReadElement decodes one element at logical index idx from the
// backing buffer, little-endian (the platform-neutral encoding used by
// DataView's default, not necessarily the host's native order).
func typedArrayReadElement(td *TypedArrayData, idx int) value.Value {
	w := td.Kind.ByteWidth()
	off := td.ByteOffset + idx*w
	b := td.Buffer.Bytes[off : off+w]
	switch td.Kind {
	case ElemInt8:
		return value.Int32(int32(int8(b[0])))
	case ElemUint8, ElemUint8Clamped:
		return value.Int32(int32(b[0]))
	case ElemInt16:
		return value.Int32(int32(int16(le16(b))))
	case ElemUint16:
		return value.Int32(int32(le16(b)))
	case ElemInt32:
		return value.Int32(int32(le32(b)))
	case ElemUint32:
		return value.Number(float64(le32(b)))
	case ElemFloat32:
		return value.Number(float64(math.Float32frombits(le32(b))))
	case ElemFloat64:
		return value.Number(math.Float64frombits(le64(b)))
	default: // BigInt64/BigUint64: read as a signed/unsigned 64-bit value.
		u := le64(b)
		if td.Kind == ElemBigInt64 {
			return value.BigIntValue(value.NewBigIntFromInt64(int64(u)))
		}
		return value.BigIntValue(value.NewBigIntFromUint64(u))
	}
}

func typedArrayWriteElement(td *TypedArrayData, idx int, v value.Value) {
	w := td.Kind.ByteWidth()
	off := td.ByteOffset + idx*w
	b := td.Buffer.Bytes[off : off+w]
	if td.Kind.IsBigInt() {
		putLE64(b, uint64(v.AsBigInt().Int64()))
		return
	}
	f := v.AsFloat64()
	switch td.Kind {
	case ElemInt8:
		b[0] = byte(int8(clampTrunc(f, -128, 127)))
	case ElemUint8:
		b[0] = byte(uint8(clampTrunc(f, 0, 255)))
	case ElemUint8Clamped:
		b[0] = byte(clampRound(f, 0, 255))
	case ElemInt16:
		putLE16(b, uint16(int16(clampTrunc(f, -32768, 32767))))
	case ElemUint16:
		putLE16(b, uint16(clampTrunc(f, 0, 65535)))
	case ElemInt32:
		putLE32(b, uint32(int32(wrapInt32(f))))
	case ElemUint32:
		putLE32(b, wrapInt32(f))
	case ElemFloat32:
		putLE32(b, math.Float32bits(float32(f)))
	case ElemFloat64:
		putLE64(b, math.Float64bits(f))
	}
}

func typedArrayGetOwnProperty(o *Object, key PropKey) (*PropertyDescriptor, bool) {
	td := o.Data.(*TypedArrayData)
	if idx, ok := typedArrayIndex(o, key); ok {
		d := DataProperty(typedArrayReadElement(td, idx), true, true, true)
		return &d, true
	}
	if _, isIdx := asArrayIndex(key); isIdx {
		return nil, false // out-of-range integer index: no property, not a fallthrough
	}
	return ordinaryGetOwnProperty(o, key)
}

func typedArrayHasProperty(o *Object, key PropKey) bool {
	if idx, ok := typedArrayIndex(o, key); ok {
		_ = idx
		return true
	}
	if _, isIdx := asArrayIndex(key); isIdx {
		return false
	}
	return ordinaryHasProperty(o, key)
}

func typedArrayGet(o *Object, key PropKey, receiver value.Value) (value.Value, *errors.JsError) {
	if idx, ok := typedArrayIndex(o, key); ok {
		return typedArrayReadElement(o.Data.(*TypedArrayData), idx), nil
	}
	if _, isIdx := asArrayIndex(key); isIdx {
		return value.Undefined(), nil
	}
	return ordinaryGet(o, key, receiver)
}

func typedArraySet(o *Object, key PropKey, v value.Value, receiver value.Value) (bool, *errors.JsError) {
	if idx, ok := typedArrayIndex(o, key); ok {
		typedArrayWriteElement(o.Data.(*TypedArrayData), idx, v)
		return true, nil
	}
	if _, isIdx := asArrayIndex(key); isIdx {
		return true, nil // silently dropped: out-of-range numeric index write is a no-op, not an error
	}
	return ordinarySet(o, key, v, receiver)
}

func typedArrayDefineOwnProperty(o *Object, key PropKey, desc PropertyDescriptor) (bool, *errors.JsError) {
	if idx, ok := typedArrayIndex(o, key); ok {
		if desc.IsAccessor {
			return false, nil
		}
		typedArrayWriteElement(o.Data.(*TypedArrayData), idx, desc.Value)
		return true, nil
	}
	if _, isIdx := asArrayIndex(key); isIdx {
		return false, nil
	}
	return ordinaryDefineOwnProperty(o, key, desc)
}

func clampTrunc(f float64, lo, hi int64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	n := int64(f)
	mod := hi - lo + 1
	n = ((n-lo)%mod + mod) % mod + lo
	return n
}

func wrapInt32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(f))
}

func clampRound(f float64, lo, hi float64) int64 {
	if math.IsNaN(f) {
		return 0
	}
	if f < lo {
		return int64(lo)
	}
	if f > hi {
		return int64(hi)
	}
	return int64(math.RoundToEven(f))
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
func le64(b []byte) uint64 {
	return uint64(le32(b[:4])) | uint64(le32(b[4:]))<<32
}
func putLE16(b []byte, v uint16) { b[0] = byte(v); b[1] = byte(v >> 8) }
func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
func putLE64(b []byte, v uint64) {
	putLE32(b[:4], uint32(v))
	putLE32(b[4:], uint32(v>>32))
}
