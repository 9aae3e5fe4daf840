package types

import "fmt"

// Kind separates classes from interfaces.
type Kind uint8

const (
	KindClass Kind = iota
	KindInterface
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is the description of a named type: its shape plus the described
// bodies its methods execute. Descriptions are not mutated after registration.
type Type struct {
	Name        string
	Kind        Kind
	Mods        Modifier
	Super       string
	Interfaces  []string
	Fields      []Field
	Methods     []*Method
	Annotations []Annotation
}

// IsInterface reports whether the description is an interface.
func (t *Type) IsInterface() bool { return t.Kind == KindInterface }

// MethodByErased finds a declared method by its erased signature.
func (t *Type) MethodByErased(erased string) *Method {
	for _, m := range t.Methods {
		if m.Sig.Erased() == erased {
			return m
		}
	}
	return nil
}

// MethodsNamed returns all declared methods with the given name.
func (t *Type) MethodsNamed(name string) []*Method {
	var out []*Method
	for _, m := range t.Methods {
		if m.Sig.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// FieldByName finds a declared field.
func (t *Type) FieldByName(name string) *Field {
	for i := range t.Fields {
		if t.Fields[i].Name == name {
			return &t.Fields[i]
		}
	}
	return nil
}
