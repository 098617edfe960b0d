package object

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/value"
)

// moduleNamespaceData holds the export-name -> live-binding-reader table
// for a Module Namespace exotic object. Readers are supplied by
// internal/realm (exportReader), which reads each binding from the owning
// module's environment record; this package only needs to know how to
// read a current value.
type moduleNamespaceData struct {
	module  any // opaque identity, used for equality / debug display
	exports map[string]func() value.Value
	names   []string // sorted export names, computed once at construction
}

// NewModuleNamespace builds a frozen namespace object for a module's
// exported bindings. A namespace is permanently non-extensible with no
// null/undefined prototype, and every internal method that could mutate
// its own properties instead reports failure, since live bindings are
// only ever written through the originating module's environment.
func NewModuleNamespace(moduleIdentity any, exports map[string]func() value.Value) *Object {
	o := New(nil)
	o.SetClassName("Module")
	o.SetDataKind(DataModuleNamespace)
	names := make([]string, 0, len(exports))
	for n := range exports {
		names = append(names, n)
	}
	sortStrings(names)
	o.Data = &moduleNamespaceData{module: moduleIdentity, exports: exports, names: names}
	o.extensible = false

	m := OrdinaryMethods
	m.GetPrototypeOf = func(*Object) *Object { return nil }
	m.SetPrototypeOf = func(_ *Object, proto *Object) bool { return proto == nil }
	m.IsExtensible = func(*Object) bool { return false }
	m.PreventExtensions = func(*Object) bool { return true }
	m.GetOwnProperty = moduleNsGetOwnProperty
	m.DefineOwnProperty = func(_ *Object, _ PropKey, _ PropertyDescriptor) (bool, *errors.JsError) { return false, nil }
	m.Delete = func(_ *Object, key PropKey) (bool, *errors.JsError) {
		nd := o.Data.(*moduleNamespaceData)
		if key.IsSymbol() {
			return true, nil
		}
		_, ok := nd.exports[key.String().GoString()]
		return !ok, nil
	}
	m.Get = moduleNsGet
	m.Set = func(_ *Object, _ PropKey, _ value.Value, _ value.Value) (bool, *errors.JsError) { return false, nil }
	m.HasProperty = func(_ *Object, key PropKey) bool {
		if key.IsSymbol() {
			return false
		}
		_, ok := o.Data.(*moduleNamespaceData).exports[key.String().GoString()]
		return ok
	}
	m.OwnPropertyKeys = func(*Object) []PropKey {
		nd := o.Data.(*moduleNamespaceData)
		keys := make([]PropKey, len(nd.names))
		for i, n := range nd.names {
			keys[i] = StringKey(value.NewStringFromGo(n))
		}
		return keys
	}
	o.SetMethods(&m)
	return o
}

func moduleNsGetOwnProperty(o *Object, key PropKey) (*PropertyDescriptor, bool) {
	if key.IsSymbol() {
		return nil, false
	}
	nd := o.Data.(*moduleNamespaceData)
	reader, ok := nd.exports[key.String().GoString()]
	if !ok {
		return nil, false
	}
	d := DataProperty(reader(), true, true, false)
	return &d, true
}

// moduleNsGet reads the live binding directly rather than through
// GetOwnProperty+Value. Readers have no error result, so no TDZ-access
// error is reported from here; the error result is always nil.
func moduleNsGet(o *Object, key PropKey, _ value.Value) (value.Value, *errors.JsError) {
	if key.IsSymbol() {
		return value.Undefined(), nil
	}
	nd := o.Data.(*moduleNamespaceData)
	reader, ok := nd.exports[key.String().GoString()]
	if !ok {
		return value.Undefined(), nil
	}
	return reader(), nil
}

func sortStrings(ss []string) {
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j-1] > ss[j]; j-- {
			ss[j-1], ss[j] = ss[j], ss[j-1]
		}
	}
}
