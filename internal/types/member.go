package types

// Receiver is the runtime view of an instance a method body executes against.
// The dispatch engine's objects implement it; descriptions only ever hold it
// behind this interface so bodies stay independent from the runtime package.
type Receiver interface {
	TypeName() string
	Get(field string) any
	Set(field string, v any)
	Invoke(name string, args ...any) (any, error)
}

// Body is a described method implementation. A nil body marks the method
// abstract; on an interface a non-nil body is a default implementation.
type Body func(self Receiver, args []any) (any, error)

// Annotation is an attribute attached to a type, method or field.
type Annotation struct {
	Name   string
	Values map[string]string
}

// Method describes a single method of a described type.
type Method struct {
	Sig         Signature
	Mods        Modifier
	Body        Body
	Annotations []Annotation
}

// IsAbstract reports whether the method carries no implementation.
func (m *Method) IsAbstract() bool { return m.Body == nil }

// Field describes a single field of a described type.
type Field struct {
	Name        string
	Type        Ref
	Mods        Modifier
	Annotations []Annotation
}
