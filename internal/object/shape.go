package object

// Shape is an immutable node in the transition tree describing an
// ordinary object's string/symbol property layout. Objects sharing a
// Shape pointer are guaranteed to expose the same ordered key sequence.
//
// Shape transitions are deduplicated through Parent.transitions, keyed by
// the property key being added, so that two objects which add the same
// keys in the same order converge back onto a single shared Shape.
type Shape struct {
	parent      *Shape
	addedKey    PropKey
	keys        []PropKey // cumulative, in insertion order
	transitions map[any]*Shape
	dictionary  bool
}

// RootShape returns a fresh empty-property-list shape. Every ordinary
// object starts here (or at a shape descending from it).
func RootShape() *Shape {
	return &Shape{transitions: make(map[any]*Shape)}
}

// Keys returns the cumulative ordered key list for this shape.
func (s *Shape) Keys() []PropKey { return s.keys }

// IsDictionary reports whether this shape is a private, unshared node
// created after a delete or an incompatible attribute change took the
// owning object out of the transition tree.
func (s *Shape) IsDictionary() bool { return s.dictionary }

// SlotIndex returns the storage slot for key within this shape, if any.
func (s *Shape) SlotIndex(key PropKey) (int, bool) {
	for i, k := range s.keys {
		if k.Equal(key) {
			return i, true
		}
	}
	return -1, false
}

// Transition returns the (possibly newly created, possibly shared) child
// shape that adds key to s. Adding the same key that already exists in s
// just returns s unchanged — shape transitions never remove or reorder
// keys.
func (s *Shape) Transition(key PropKey) *Shape {
	if _, ok := s.SlotIndex(key); ok {
		return s
	}
	if s.dictionary {
		// Dictionary objects keep growing their own private shape rather
		// than rejoining the shared transition tree.
		child := &Shape{parent: s, addedKey: key, dictionary: true}
		child.keys = append(append([]PropKey{}, s.keys...), key)
		return child
	}
	ck := key.comparable()
	if child, ok := s.transitions[ck]; ok {
		return child
	}
	child := &Shape{parent: s, addedKey: key, transitions: make(map[any]*Shape)}
	child.keys = append(append([]PropKey{}, s.keys...), key)
	s.transitions[ck] = child
	return child
}

// ToDictionary returns a private, unshared shape with the same key set as
// s but no outgoing transitions shared with other objects; used when an
// object is switched to dictionary mode.
func (s *Shape) ToDictionary() *Shape {
	d := &Shape{dictionary: true}
	d.keys = append([]PropKey{}, s.keys...)
	return d
}
