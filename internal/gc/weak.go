package gc

// weakEntry backs a Weak reference: it holds target without the Heap
// treating it as a root, and is cleared the next time Collect observes
// that target did not survive tracing.
type weakEntry struct {
	target Traceable
	alive  bool
}

// Weak is a weak reference to a heap object: it does not keep the
// referent alive, and Get reports ok=false once the referent has been
// collected. Used for embedder weak-reference style hooks over Objects.
type Weak struct {
	entry *weakEntry
}

// NewWeak creates a weak reference to target, registered with h so a
// future Collect can clear it.
func NewWeak(h *Heap, target Traceable) *Weak {
	e := &weakEntry{target: target, alive: true}
	h.mu.Lock()
	h.weaks = append(h.weaks, e)
	h.mu.Unlock()
	return &Weak{entry: e}
}

// Get returns the referent and true, or (nil, false) if it has been
// collected.
func (w *Weak) Get() (Traceable, bool) {
	if !w.entry.alive {
		return nil, false
	}
	return w.entry.target, true
}

// clearDeadWeaksLocked must be called with h.mu held, after the mark phase
// of Collect has run.
func (h *Heap) clearDeadWeaksLocked() {
	remaining := h.weaks[:0]
	for _, e := range h.weaks {
		if e.alive && e.target != nil && !e.target.gcMarked() {
			e.alive = false
			e.target = nil
		}
		if e.alive {
			remaining = append(remaining, e)
		}
	}
	h.weaks = remaining
}
