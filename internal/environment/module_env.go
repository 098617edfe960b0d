package environment

import (
	"github.com/ecmago/ecma/internal/errors"
	"github.com/ecmago/ecma/internal/object"
	"github.com/ecmago/ecma/internal/value"
)

// importBinding is an indirect reference: reading it reads the named
// binding in the exporting module's own environment, so a live `import`
// always observes the current value, not a snapshot taken at link time.
type importBinding struct {
	target Record
	name   string
}

// Module is a module's top-level lexical scope: an ordinary declarative
// record for the module's own let/const/var/function/class bindings,
// plus a side table of indirect import bindings resolved against other
// modules' environments.
type Module struct {
	Declarative
	imports map[string]importBinding
}

// NewModule creates an empty module environment. outer is nil for a
// module's top-level scope; modules do not nest inside another scope.
func NewModule() *Module {
	return &Module{
		Declarative: Declarative{bindings: make(map[string]*binding, 8)},
		imports:     make(map[string]importBinding),
	}
}

// CreateImportBinding registers name as an indirect binding onto
// targetName in target's environment (the exporting module).
func (e *Module) CreateImportBinding(name string, target Record, targetName string) {
	e.imports[name] = importBinding{target: target, name: targetName}
}

func (e *Module) HasBinding(name string) bool {
	if _, ok := e.imports[name]; ok {
		return true
	}
	return e.Declarative.HasBinding(name)
}

func (e *Module) GetBindingValue(name string, strict bool) (value.Value, *errors.JsError) {
	if ib, ok := e.imports[name]; ok {
		return ib.target.GetBindingValue(ib.name, true)
	}
	return e.Declarative.GetBindingValue(name, strict)
}

// SetMutableBinding on an import binding always fails: imported bindings
// are read-only from the importing module's side (only the exporting
// module's own code may assign to the underlying binding).
func (e *Module) SetMutableBinding(name string, v value.Value, strict bool) *errors.JsError {
	if _, ok := e.imports[name]; ok {
		return errors.NewNativef(errors.KindTypeError, "Assignment to constant variable.")
	}
	return e.Declarative.SetMutableBinding(name, v, strict)
}

func (e *Module) DeleteBinding(name string) bool {
	if _, ok := e.imports[name]; ok {
		return false
	}
	return e.Declarative.DeleteBinding(name)
}

func (e *Module) HasThisBinding() bool { return true }

// GetThisBinding is always undefined at a module's top level.
func (e *Module) GetThisBinding() value.Value { return value.Undefined() }

func (e *Module) HasSuperBinding() bool { return false }
func (e *Module) WithBaseObject() *object.Object { return nil }
