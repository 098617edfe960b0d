// Package gc implements a tracing GC substrate over heap-allocated engine
// objects: rooted handles that keep values alive across suspension
// points, and weak references.
//
// Physical memory reclamation is delegated to the Go runtime's own
// allocator and collector — reimplementing a memory manager underneath Go's
// is neither idiomatic nor necessary. What this package supplies is
// reachability bookkeeping: a Traceable object graph, a root set, and a
// Mark phase whose liveness result is idempotent across repeated runs
// without intervening mutation. Tracing, rather than refcounting, is used
// because closures can capture their own defining environment, and a
// refcounted scheme can't reclaim that cycle without a separate cycle
// collector.
package gc

import "sync"

// Traceable is implemented by every heap-allocated engine object: GC
// objects, environment records, function closures. Trace must invoke visit
// for every Traceable the receiver directly references.
type Traceable interface {
	Trace(visit func(Traceable))
	// gcSetMarked/gcMarked form the mark bit, private to this package so no
	// external code can desynchronize it from the Heap that owns it.
	gcSetMarked(bool)
	gcMarked() bool
}

// Base embeds into any Traceable to provide the mark bit. Heap-allocated
// engine types embed gc.Base and implement Trace themselves.
type Base struct {
	marked bool
}

func (b *Base) gcSetMarked(v bool) { b.marked = v }
func (b *Base) gcMarked() bool     { return b.marked }

// Heap tracks every live Traceable allocated through it, plus the current
// root set (everything passed to AddRoot, which is how Handles root
// their values).
type Heap struct {
	mu      sync.Mutex
	objects []Traceable
	roots   []Traceable
	weaks   []*weakEntry
}

// NewHeap creates an empty heap.
func NewHeap() *Heap {
	return &Heap{}
}

// Register adds t to the set of objects the heap is responsible for
// tracing liveness of. No package outside internal/gc creates a Heap or
// calls Register: the engine's objects, values and environments are not
// registered with one.
func (h *Heap) Register(t Traceable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.objects = append(h.objects, t)
}

// AddRoot marks t as a GC root: reachable unconditionally, independent of
// whether any other live object references it. Its only caller is Handle;
// call frames and the Realm's global object are not registered as roots.
func (h *Heap) AddRoot(t Traceable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.roots = append(h.roots, t)
}

// RemoveRoot undoes AddRoot. O(n) in root count; root sets are expected to
// be small (live handles), not the whole heap.
func (h *Heap) RemoveRoot(t Traceable) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, r := range h.roots {
		if r == t {
			h.roots = append(h.roots[:i], h.roots[i+1:]...)
			return
		}
	}
}

// Collect runs one mark pass over the root set and reports which
// previously-registered objects are now unreachable. It does not free
// memory (Go's allocator owns that); it exists so weak references can be
// cleared and so liveness is observable for the spec's idempotence
// property. Calling Collect twice in succession with no mutation between
// the calls yields identical results.
func (h *Heap) Collect() (live, dead int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, o := range h.objects {
		o.gcSetMarked(false)
	}

	var mark func(Traceable)
	mark = func(t Traceable) {
		if t == nil || t.gcMarked() {
			return
		}
		t.gcSetMarked(true)
		t.Trace(mark)
	}
	for _, r := range h.roots {
		mark(r)
	}

	remaining := h.objects[:0]
	for _, o := range h.objects {
		if o.gcMarked() {
			remaining = append(remaining, o)
			live++
		} else {
			dead++
		}
	}
	h.objects = remaining

	h.clearDeadWeaksLocked()
	return live, dead
}

// LiveCount returns the number of objects registered as live after the most
// recent Collect (or ever-registered, before the first Collect).
func (h *Heap) LiveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.objects)
}
