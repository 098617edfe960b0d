package object

import (
	"github.com/ecmago/ecma/internal/gc"
	"github.com/ecmago/ecma/internal/value"
)

// PromiseState is the [[PromiseState]] internal slot.
type PromiseState uint8

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

// PromiseReaction is one entry of [[PromiseFulfillReactions]] /
// [[PromiseRejectReactions]]: the fulfill and reject callbacks plus the
// derived promise that must be settled once one of them has run. No
// separate resolve/reject functions are stored.
type PromiseReaction struct {
	OnFulfilled *Object
	OnRejected  *Object
	Result      *Object // the derived promise `.then()` returned
}

// PromiseData is the [[Data]] payload for Promise objects. Reactions
// accumulate while State is Pending and drain (via internal/vm's microtask
// queue) the moment Resolve/Reject settles the promise.
type PromiseData struct {
	State     PromiseState
	Result    value.Value
	Reactions []PromiseReaction
	Handled   bool
}

// NewPromise creates a pending promise with the given prototype (normally
// the realm's Promise.prototype).
func NewPromise(promiseProto *Object) *Object {
	o := New(promiseProto)
	o.SetClassName("Promise")
	o.SetDataKind(DataNativeWrapper)
	o.Data = &PromiseData{State: PromisePending}
	return o
}

// PromiseStateOf returns the Promise payload of o, or nil if o is not a
// promise built by NewPromise.
func PromiseStateOf(o *Object) *PromiseData {
	if o == nil {
		return nil
	}
	pd, ok := o.Data.(*PromiseData)
	if !ok {
		return nil
	}
	return pd
}

func (pd *PromiseData) Trace(visit func(gc.Traceable)) {
	if pd.Result.IsObject() {
		if ho, ok := pd.Result.AsObject().(gc.Traceable); ok {
			visit(ho)
		}
	}
	for _, r := range pd.Reactions {
		if r.OnFulfilled != nil {
			visit(r.OnFulfilled)
		}
		if r.OnRejected != nil {
			visit(r.OnRejected)
		}
		if r.Result != nil {
			visit(r.Result)
		}
	}
}
