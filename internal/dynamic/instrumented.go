package dynamic

import "bytebuddy/internal/types"

// InstrumentedType accumulates the resolved structural state of the type
// under construction. Once the materializer seals it, every structural call
// is rejected: the sealed artifact graph is immutable.
type InstrumentedType struct {
	typ    types.Type
	sealed bool
}

// NewInstrumentedType starts an accumulator for the concrete type name.
func NewInstrumentedType(name string, kind types.Kind, mods types.Modifier, super string, interfaces []string) *InstrumentedType {
	return &InstrumentedType{typ: types.Type{
		Name:       name,
		Kind:       kind,
		Mods:       mods,
		Super:      super,
		Interfaces: append([]string(nil), interfaces...),
	}}
}

// WithField appends a resolved field.
func (it *InstrumentedType) WithField(f types.Field) error {
	if it.sealed {
		return &ContractViolationError{Op: "WithField"}
	}
	it.typ.Fields = append(it.typ.Fields, f)
	return nil
}

// WithMethod appends a resolved method.
func (it *InstrumentedType) WithMethod(m *types.Method) error {
	if it.sealed {
		return &ContractViolationError{Op: "WithMethod"}
	}
	it.typ.Methods = append(it.typ.Methods, m)
	return nil
}

// Annotate appends a type annotation.
func (it *InstrumentedType) Annotate(a types.Annotation) error {
	if it.sealed {
		return &ContractViolationError{Op: "Annotate"}
	}
	it.typ.Annotations = append(it.typ.Annotations, a)
	return nil
}

// Seal freezes the accumulator. Sealing is not reversible.
func (it *InstrumentedType) Seal() { it.sealed = true }

// Sealed reports whether structural changes are still accepted.
func (it *InstrumentedType) Sealed() bool { return it.sealed }

// Description returns the accumulated description.
func (it *InstrumentedType) Description() *types.Type { return &it.typ }
