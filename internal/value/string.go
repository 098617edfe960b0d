package value

import (
	"strings"
	"sync"
	"unicode/utf16"
)

// JSString is a sequence of UTF-16 code units. Lone surrogates (e.g. the
// single code unit produced by lexing "\uD800") are preserved exactly
// rather than replaced, matching how the lexer/string model must round-trip
// malformed-but-legal source text.
type JSString struct {
	units []uint16
}

// NewStringFromGo builds a JSString from a Go (UTF-8) string.
func NewStringFromGo(s string) *JSString {
	return &JSString{units: utf16.Encode([]rune(s))}
}

// NewStringFromUnits builds a JSString directly from UTF-16 code units,
// preserving any lone surrogates verbatim.
func NewStringFromUnits(units []uint16) *JSString {
	cp := make([]uint16, len(units))
	copy(cp, units)
	return &JSString{units: cp}
}

// Units returns the code units backing the string. Callers must not mutate
// the returned slice.
func (s *JSString) Units() []uint16 { return s.units }

// Len returns the string length in UTF-16 code units (ECMAScript's
// `.length`), not in runes or bytes.
func (s *JSString) Len() int { return len(s.units) }

// GoString renders the string as Go UTF-8 text for host-facing output
// (console, error messages). A lone surrogate decodes to U+FFFD here: this
// conversion is for display, not for round-tripping through the engine.
func (s *JSString) GoString() string {
	return string(utf16.Decode(s.units))
}

// Equals compares two strings by code-unit value (ECMAScript string
// equality), not by the interning table.
func (s *JSString) Equals(o *JSString) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || len(s.units) != len(o.units) {
		return false
	}
	for i := range s.units {
		if s.units[i] != o.units[i] {
			return false
		}
	}
	return true
}

// internKey maps a code-unit sequence to a unique Go string usable as a map
// key, encoding every unit (including lone surrogates) independently so no
// two distinct code-unit sequences collide. This is not a standard text
// encoding; it exists purely as a hash key.
func internKey(units []uint16) string {
	var sb strings.Builder
	sb.Grow(len(units) * 2)
	for _, u := range units {
		sb.WriteByte(byte(u >> 8))
		sb.WriteByte(byte(u))
	}
	return sb.String()
}

// Interner deduplicates strings so that `===` between two interned strings
// with identical content is a pointer comparison. Static well-known strings (property names, well-known-symbol
// descriptions) are interned once at process start via Intern; user
// strings only share storage if they happen to pass through Intern too
// (e.g. identifiers, object keys) — ordinary string *values* computed at
// runtime are not forced through the interner, matching "user strings are
// heap-allocated but may share storage via reference counts" rather than
// "all strings are interned".
type Interner struct {
	mu    sync.Mutex
	table map[string]*JSString
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{table: make(map[string]*JSString, 256)}
}

// Intern returns the canonical *JSString for s's content, allocating and
// registering one on first use.
func (in *Interner) Intern(s *JSString) *JSString {
	key := internKey(s.units)
	in.mu.Lock()
	defer in.mu.Unlock()
	if existing, ok := in.table[key]; ok {
		return existing
	}
	in.table[key] = s
	return s
}

// InternGo interns a Go string directly.
func (in *Interner) InternGo(s string) *JSString {
	return in.Intern(NewStringFromGo(s))
}

// globalInterner holds process-wide static well-known strings: property
// names the engine itself references by constant (e.g. "prototype",
// "length", "constructor"), independent of any one Realm.
var globalInterner = NewInterner()

// Well-known static strings, interned once at process start.
var (
	StrPrototype    = globalInterner.InternGo("prototype")
	StrConstructor  = globalInterner.InternGo("constructor")
	StrLength       = globalInterner.InternGo("length")
	StrName         = globalInterner.InternGo("name")
	StrMessage      = globalInterner.InternGo("message")
	StrStack        = globalInterner.InternGo("stack")
	StrValue        = globalInterner.InternGo("value")
	StrDone         = globalInterner.InternGo("done")
	StrCallee       = globalInterner.InternGo("callee")
	StrUndefined    = globalInterner.InternGo("undefined")
	StrObject       = globalInterner.InternGo("object")
	StrFunction     = globalInterner.InternGo("function")
	StrNext         = globalInterner.InternGo("next")
)

// InternStatic interns a string into the process-global table. Use for
// engine-internal constants only; Realm-local user strings should use a
// Realm-scoped Interner instead so distinct realms don't leak strings into
// each other via a shared table.
func InternStatic(s string) *JSString {
	return globalInterner.InternGo(s)
}
