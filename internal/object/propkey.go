// Package object implements the ordinary and exotic object models:
// objects with a [[Prototype]], an extensible flag, a shape-backed
// property store, and the internal-methods vtable.
package object

import "github.com/ecmago/ecma/internal/value"

// PropKey is either a string or a symbol property key. Integer-indexed
// keys are handled separately by the dense array part and never
// participate in shape transitions.
type PropKey struct {
	str *value.JSString
	sym *value.Symbol
}

// StringKey builds a string-valued PropKey.
func StringKey(s *value.JSString) PropKey { return PropKey{str: s} }

// SymbolKey builds a symbol-valued PropKey.
func SymbolKey(s *value.Symbol) PropKey { return PropKey{sym: s} }

// IsSymbol reports whether this key is symbol-valued.
func (k PropKey) IsSymbol() bool { return k.sym != nil }

// String returns the underlying string key; only valid when !IsSymbol().
func (k PropKey) String() *value.JSString { return k.str }

// Symbol returns the underlying symbol key; only valid when IsSymbol().
func (k PropKey) Symbol() *value.Symbol { return k.sym }

// Equal compares two keys by content (string equality or symbol hash).
func (k PropKey) Equal(o PropKey) bool {
	if k.IsSymbol() != o.IsSymbol() {
		return false
	}
	if k.IsSymbol() {
		return k.sym.Equals(o.sym)
	}
	return k.str.Equals(o.str)
}

// comparable returns a hashable Go value usable as a map key, since
// *value.JSString pointers aren't deduplicated unless interned. We key on
// content instead of identity so two equal-but-distinct JSStrings collide
// to the same property slot, matching ECMAScript key semantics.
func (k PropKey) comparable() any {
	if k.IsSymbol() {
		return k.sym.Hash
	}
	return string(k.str.GoString())
}

func (k PropKey) DebugString() string {
	if k.IsSymbol() {
		return k.sym.DebugString()
	}
	return k.str.GoString()
}
