package value

import "math/big"

// BigInt wraps an arbitrary-precision integer, shared by reference: two
// Value{Kind: KindBigInt} pulled from the same *BigInt alias the same
// backing *big.Int, but BigInt equality (used by StrictEquals) always
// compares value, never identity.
type BigInt struct {
	V *big.Int
}

// NewBigIntFromInt64 builds a BigInt from an int64.
func NewBigIntFromInt64(n int64) *BigInt {
	return &BigInt{V: big.NewInt(n)}
}

// NewBigIntFromUint64 builds a BigInt from a uint64, used when decoding an
// unsigned 64-bit typed array element.
func NewBigIntFromUint64(n uint64) *BigInt {
	return &BigInt{V: new(big.Int).SetUint64(n)}
}

// Int64 truncates to the low 64 bits, matching the BigInt-to-TypedArray
// element conversion (which reduces modulo 2^64 rather than raising).
func (b *BigInt) Int64() int64 {
	return b.V.Int64()
}

// NewBigIntFromString parses a decimal/hex/octal/binary BigInt literal body
// (without the trailing "n" suffix the lexer strips). Reports false on
// malformed input so callers can raise SyntaxError/RangeError as
// appropriate to the call site (literal vs. BigInt(string)).
func NewBigIntFromString(s string) (*BigInt, bool) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		return nil, false
	}
	return &BigInt{V: v}, true
}

// NewBigIntFromFloat converts a float64 to BigInt per the BigInt(number)
// conversion, which requires an integral value; non-integral floats must
// raise RangeError at the call site.
func NewBigIntFromFloat(f float64) (*BigInt, bool) {
	if f != float64(int64(f)) {
		bi, acc := new(big.Float).SetFloat64(f).Int(nil)
		if acc != big.Exact {
			return nil, false
		}
		return &BigInt{V: bi}, true
	}
	return &BigInt{V: big.NewInt(int64(f))}, true
}

// Equals compares two BigInts by numeric value.
func (b *BigInt) Equals(o *BigInt) bool {
	if b == nil || o == nil {
		return b == o
	}
	return b.V.Cmp(o.V) == 0
}

func (b *BigInt) String() string { return b.V.String() + "n" }
