package value

import "sync/atomic"

// Symbol is a hash-identified, optionally-described primitive. Equality
// is by hash, not by description.
type Symbol struct {
	Hash        uint64
	Description string
	HasDesc     bool
}

// wellKnownNames lists the fixed set of well-known symbols in their
// canonical order; their Hash is their index into this slice, so every
// well-known hash is < WellKnownSymbolCount.
var wellKnownNames = []string{
	"Symbol.iterator",
	"Symbol.asyncIterator",
	"Symbol.hasInstance",
	"Symbol.isConcatSpreadable",
	"Symbol.match",
	"Symbol.matchAll",
	"Symbol.replace",
	"Symbol.search",
	"Symbol.species",
	"Symbol.split",
	"Symbol.toPrimitive",
	"Symbol.toStringTag",
	"Symbol.unscopables",
}

// WellKnownSymbolCount bounds the reserved hash range; user symbols start
// their counter past it.
const WellKnownSymbolCount = 128

var wellKnown = make([]*Symbol, len(wellKnownNames))

func init() {
	for i, name := range wellKnownNames {
		wellKnown[i] = &Symbol{Hash: uint64(i), Description: name, HasDesc: true}
	}
}

// Well-known symbol accessors, named to match the @@ notation used for
// these symbols.
func SymIterator() *Symbol           { return wellKnown[0] }
func SymAsyncIterator() *Symbol      { return wellKnown[1] }
func SymHasInstance() *Symbol        { return wellKnown[2] }
func SymIsConcatSpreadable() *Symbol { return wellKnown[3] }
func SymMatch() *Symbol              { return wellKnown[4] }
func SymMatchAll() *Symbol           { return wellKnown[5] }
func SymReplace() *Symbol            { return wellKnown[6] }
func SymSearch() *Symbol             { return wellKnown[7] }
func SymSpecies() *Symbol            { return wellKnown[8] }
func SymSplit() *Symbol              { return wellKnown[9] }
func SymToPrimitive() *Symbol        { return wellKnown[10] }
func SymToStringTag() *Symbol        { return wellKnown[11] }
func SymUnscopables() *Symbol        { return wellKnown[12] }

// userSymbolCounter is the atomic, process-global, monotonically increasing
// source of user Symbol() hashes: seeded past the reserved well-known block
// so no user symbol can ever collide with one. There is no per-Context
// reset, because symbol equality is hash/identity-based and carries no
// realm-scoped meaning to reset.
var userSymbolCounter uint64 = WellKnownSymbolCount

// NewSymbol allocates a fresh user symbol with an optional description.
// Calling NewSymbol("x") twice produces two distinct, unequal symbols.
func NewSymbol(description string, hasDescription bool) *Symbol {
	h := atomic.AddUint64(&userSymbolCounter, 1) - 1
	return &Symbol{Hash: h, Description: description, HasDesc: hasDescription}
}

// Equals compares symbols by hash.
func (s *Symbol) Equals(o *Symbol) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.Hash == o.Hash
}

// DebugString renders a Go-level debug form, e.g. "Symbol(x)".
func (s *Symbol) DebugString() string {
	if s.HasDesc {
		return "Symbol(" + s.Description + ")"
	}
	return "Symbol()"
}
