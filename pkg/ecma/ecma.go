// Package ecma is the embedder-facing facade over internal/realm: a host
// program links against this package, not internal/realm directly, the
// same way the teacher's pkg/dwscript sits in front of its own
// internal/interp engine.
package ecma

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/realm"
	"github.com/ecmago/ecma/internal/value"
)

// Value is a JS value handle returned from Eval/EvalModule.
type Value = value.Value

// Error is the error surface every evaluation path returns: a JS throw
// completion, wrapping whatever value was thrown plus (for engine-raised
// errors) a stack trace.
type Error = errors.JsError

// ModuleLoader resolves and fetches source for modules reached through
// import declarations. An embedder not using modules can leave this
// unset; EvalModule on a module with no imports works without one.
type ModuleLoader = realm.ModuleLoader

// NativeClass is the protocol for registering a host-backed class via
// Context.RegisterGlobalClass.
type NativeClass = realm.NativeClass

// ClassBuilder accumulates prototype and static members during a
// NativeClass's Init call.
type ClassBuilder = realm.ClassBuilder

// NativeMethodFn is a native class method or accessor body.
type NativeMethodFn = realm.NativeMethodFn

// Context is one engine instance: a single global object, intrinsic
// prototype set, module cache and microtask queue. Create one with New
// per independent script environment; Contexts do not share state.
type Context struct {
	r *realm.Realm
}

// New creates a Context with the language's required intrinsics already
// installed (Object, Function, Array, the Error hierarchy, Promise,
// generators, RegExp) and no host-specific globals — register those with
// RegisterGlobalProperty/RegisterGlobalClass before calling Eval.
func New() *Context {
	return &Context{r: realm.New()}
}

// Eval parses and runs source as a Script and returns its completion
// value.
func (c *Context) Eval(source string) (Value, *Error) {
	return c.r.Eval(source)
}

// EvalModule parses and runs source as a Module, resolving its imports
// (if any) through the Context's registered ModuleLoader, and returns the
// entry module's completion value. Call SetModuleLoader first if source
// imports anything.
func (c *Context) EvalModule(source string) (Value, *Error) {
	return c.r.EvalModule(source)
}

// SetModuleLoader installs the loader EvalModule uses to resolve import
// specifiers to source text.
func (c *Context) SetModuleLoader(loader ModuleLoader) {
	c.r.SetModuleLoader(loader)
}

// RegisterGlobalProperty installs name as an own property of globalThis.
func (c *Context) RegisterGlobalProperty(name string, v Value, writable, enumerable, configurable bool) {
	c.r.RegisterGlobalProperty(name, v, writable, enumerable, configurable)
}

// RegisterGlobalClass registers a NativeClass as a global constructor
// function with a matching prototype.
func (c *Context) RegisterGlobalClass(nc NativeClass) {
	c.r.RegisterGlobalClass(nc)
}

// RunJobs drains the microtask queue (Promise reactions enqueued during
// Eval/EvalModule) until it's empty or an interrupt is requested.
func (c *Context) RunJobs() {
	c.r.RunJobs()
}

// Interrupt asks a running Eval/EvalModule/RunJobs call to abort at its
// next cooperative check point. Safe to call from another goroutine,
// e.g. a host-side deadline timer.
func (c *Context) Interrupt() {
	c.r.VM.RequestInterrupt()
}

// Realm exposes the underlying internal/realm.Realm, for packages (like
// internal/builtins) that register globals directly against it instead
// of going through this facade's narrower method set.
func (c *Context) Realm() *realm.Realm {
	return c.r
}
