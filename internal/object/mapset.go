package object

import (
	"math"

	"github.com/ecmago/ecma/internal/gc"
	"github.com/ecmago/ecma/internal/value"
)

// mapEntry is one live Map/Set slot. A deleted entry is kept in place with
// deleted=true so live iterators walking the same backing slice don't skip
// or duplicate entries when a forEach callback deletes concurrently.
type mapEntry struct {
	key     value.Value
	val     value.Value // unused for Set
	deleted bool
}

// MapData is the [[MapData]]/[[SetData]] payload shared by Map and Set
// (the two only differ in whether Set's value half is ever read).
type MapData struct {
	entries []mapEntry
	index   map[any][]int // sameValueZero hash -> candidate entry indices
}

func newMapData() *MapData {
	return &MapData{index: make(map[any][]int)}
}

// sameValueZeroKey returns a hashable bucket key under SameValueZero
// equality (like SameValue, but +0 and -0 are equal; this is the equality
// Map/Set use, not ===).
func sameValueZeroKey(v value.Value) any {
	switch v.Kind() {
	case value.KindNumber, value.KindInt32:
		f := v.AsFloat64()
		if math.IsNaN(f) {
			return "NaN"
		}
		if f == 0 {
			return float64(0) // fold -0 into +0
		}
		return f
	case value.KindString:
		return "s:" + v.AsString().GoString()
	case value.KindBoolean:
		return v.AsBool()
	case value.KindUndefined:
		return "undefined"
	case value.KindNull:
		return "null"
	case value.KindSymbol:
		return v.AsSymbol()
	case value.KindBigInt:
		return "b:" + v.AsBigInt().String()
	case value.KindObject:
		return v.AsObject()
	}
	return nil
}

func sameValueZero(a, b value.Value) bool {
	if a.Kind() != b.Kind() {
		if a.IsNumber() && b.IsNumber() {
			// fallthrough
		} else {
			return false
		}
	}
	return sameValueZeroKey(a) == sameValueZeroKey(b)
}

func (md *MapData) find(key value.Value) int {
	bucket := sameValueZeroKey(key)
	for _, i := range md.index[bucket] {
		if !md.entries[i].deleted && sameValueZero(md.entries[i].key, key) {
			return i
		}
	}
	return -1
}

func (md *MapData) set(key, val value.Value) {
	if i := md.find(key); i >= 0 {
		md.entries[i].val = val
		return
	}
	idx := len(md.entries)
	md.entries = append(md.entries, mapEntry{key: key, val: val})
	bucket := sameValueZeroKey(key)
	md.index[bucket] = append(md.index[bucket], idx)
}

func (md *MapData) get(key value.Value) (value.Value, bool) {
	if i := md.find(key); i >= 0 {
		return md.entries[i].val, true
	}
	return value.Undefined(), false
}

func (md *MapData) delete(key value.Value) bool {
	i := md.find(key)
	if i < 0 {
		return false
	}
	md.entries[i].deleted = true
	return true
}

func (md *MapData) size() int {
	n := 0
	for _, e := range md.entries {
		if !e.deleted {
			n++
		}
	}
	return n
}

func (md *MapData) clear() {
	for i := range md.entries {
		md.entries[i].deleted = true
	}
}

// Each calls fn for every live entry in insertion order; safe against
// entries being marked deleted mid-iteration (the common forEach case)
// since it re-checks deleted on each step.
func (md *MapData) Each(fn func(key, val value.Value)) {
	for i := 0; i < len(md.entries); i++ {
		if !md.entries[i].deleted {
			fn(md.entries[i].key, md.entries[i].val)
		}
	}
}

func (md *MapData) Trace(visit func(gc.Traceable)) {
	for _, e := range md.entries {
		if e.deleted {
			continue
		}
		if e.key.IsObject() {
			if ho, ok := e.key.AsObject().(gc.Traceable); ok {
				visit(ho)
			}
		}
		if e.val.IsObject() {
			if ho, ok := e.val.AsObject().(gc.Traceable); ok {
				visit(ho)
			}
		}
	}
}

// NewMap creates a Map exotic object backed by a fresh MapData.
func NewMap(mapProto *Object) *Object {
	o := New(mapProto)
	o.SetClassName("Map")
	o.SetDataKind(DataMap)
	o.Data = newMapData()
	return o
}

// NewSet creates a Set exotic object backed by a fresh MapData (val is
// always set equal to key; see SetAdd).
func NewSet(setProto *Object) *Object {
	o := New(setProto)
	o.SetClassName("Set")
	o.SetDataKind(DataSet)
	o.Data = newMapData()
	return o
}

// MapGet/MapSet/MapDelete/MapHas/MapSize/MapClear/MapForEach and
// SetAdd/SetHas/SetDelete/SetSize/SetClear/SetForEach are the primitives
// the built-in Map.prototype/Set.prototype methods (registered in
// internal/realm) call through to.
func MapGet(o *Object, key value.Value) (value.Value, bool) { return o.Data.(*MapData).get(key) }
func MapSet(o *Object, key, val value.Value)                { o.Data.(*MapData).set(key, val) }
func MapDelete(o *Object, key value.Value) bool              { return o.Data.(*MapData).delete(key) }
func MapHas(o *Object, key value.Value) bool                 { _, ok := o.Data.(*MapData).get(key); return ok }
func MapSize(o *Object) int                                  { return o.Data.(*MapData).size() }
func MapClear(o *Object)                                     { o.Data.(*MapData).clear() }
func MapForEach(o *Object, fn func(key, val value.Value))    { o.Data.(*MapData).Each(fn) }

func SetAdd(o *Object, key value.Value)       { o.Data.(*MapData).set(key, key) }
func SetHas(o *Object, key value.Value) bool  { _, ok := o.Data.(*MapData).get(key); return ok }
func SetDelete(o *Object, key value.Value) bool { return o.Data.(*MapData).delete(key) }
func SetSize(o *Object) int                   { return o.Data.(*MapData).size() }
func SetClear(o *Object)                      { o.Data.(*MapData).clear() }
func SetForEach(o *Object, fn func(key value.Value)) {
	o.Data.(*MapData).Each(func(k, _ value.Value) { fn(k) })
}
