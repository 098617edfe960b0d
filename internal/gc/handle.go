package gc

// Handle is a rooted reference to a Traceable, keeping it alive across GC
// points even when nothing else in the live object graph reaches it. No
// package outside internal/gc creates one; the embedder API in
// internal/realm does not hand these out.
type Handle struct {
	heap *Heap
	val  Traceable
}

// NewHandle roots val against h and returns a Handle. Drop must be called
// when the handle is no longer needed, or the value leaks as a permanent
// root.
func NewHandle(h *Heap, val Traceable) *Handle {
	if val != nil {
		h.AddRoot(val)
	}
	return &Handle{heap: h, val: val}
}

// Get returns the rooted value.
func (hd *Handle) Get() Traceable {
	return hd.val
}

// Set replaces the rooted value, unrooting the old one and rooting the new.
func (hd *Handle) Set(val Traceable) {
	if hd.val != nil {
		hd.heap.RemoveRoot(hd.val)
	}
	hd.val = val
	if val != nil {
		hd.heap.AddRoot(val)
	}
}

// Drop releases the root. The handle must not be used afterward.
func (hd *Handle) Drop() {
	if hd.val != nil {
		hd.heap.RemoveRoot(hd.val)
		hd.val = nil
	}
}
