package object

import "github.com/ecmago/ecma/internal/value"

// PropertyDescriptor is either a data property (Value/Writable) or an
// accessor property (Get/Set), each carrying Enumerable/Configurable.
type PropertyDescriptor struct {
	IsAccessor bool

	Value    value.Value
	Writable bool

	Get *Object
	Set *Object

	Enumerable   bool
	Configurable bool
}

// DataProperty builds a writable/enumerable/configurable-as-given data
// descriptor.
func DataProperty(v value.Value, writable, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{Value: v, Writable: writable, Enumerable: enumerable, Configurable: configurable}
}

// AccessorProperty builds an accessor descriptor.
func AccessorProperty(get, set *Object, enumerable, configurable bool) PropertyDescriptor {
	return PropertyDescriptor{IsAccessor: true, Get: get, Set: set, Enumerable: enumerable, Configurable: configurable}
}

// clone returns a shallow copy, since descriptors are mutated in place by
// ValidateAndApplyPropertyDescriptor-equivalent logic.
func (d PropertyDescriptor) clone() PropertyDescriptor { return d }
