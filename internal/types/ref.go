package types

import (
	"fmt"
	"strings"
)

// RefKind enumerates the supported shapes of a type reference.
type RefKind uint8

const (
	RefInvalid RefKind = iota
	RefNamed
	RefSelf
	RefSlice
)

func (k RefKind) String() string {
	switch k {
	case RefInvalid:
		return "invalid"
	case RefNamed:
		return "named"
	case RefSelf:
		return "self"
	case RefSlice:
		return "slice"
	default:
		return fmt.Sprintf("RefKind(%d)", k)
	}
}

// Ref is a compact reference to a described type. A RefSelf reference is a
// placeholder for "the type currently being built" and stays unresolved until
// materialization fixes the concrete name.
type Ref struct {
	Kind RefKind
	Name string // for RefNamed
	Elem *Ref   // for RefSlice
}

// Named references a concrete described or builtin type.
func Named(name string) Ref {
	return Ref{Kind: RefNamed, Name: name}
}

// Self references the type under construction.
func Self() Ref {
	return Ref{Kind: RefSelf}
}

// SliceOf references a slice of the element type.
func SliceOf(elem Ref) Ref {
	e := elem
	return Ref{Kind: RefSlice, Elem: &e}
}

// Builtin references.
func String() Ref { return Named("string") }
func Int() Ref    { return Named("int") }
func Bool() Ref   { return Named("bool") }
func Float() Ref  { return Named("float64") }
func Any() Ref    { return Named("any") }
func Void() Ref   { return Named("void") }

// ContainsSelf reports whether the reference carries the placeholder anywhere.
func (r Ref) ContainsSelf() bool {
	switch r.Kind {
	case RefSelf:
		return true
	case RefSlice:
		return r.Elem != nil && r.Elem.ContainsSelf()
	default:
		return false
	}
}

// Resolve substitutes the self placeholder with the concrete type name.
// Resolution is total and idempotent: references without placeholders are
// returned unchanged.
func (r Ref) Resolve(concrete string) Ref {
	switch r.Kind {
	case RefSelf:
		return Named(concrete)
	case RefSlice:
		if r.Elem == nil {
			return r
		}
		return SliceOf(r.Elem.Resolve(concrete))
	default:
		return r
	}
}

// Equal compares references structurally.
func (r Ref) Equal(o Ref) bool {
	if r.Kind != o.Kind || r.Name != o.Name {
		return false
	}
	if r.Kind == RefSlice {
		if (r.Elem == nil) != (o.Elem == nil) {
			return false
		}
		if r.Elem != nil {
			return r.Elem.Equal(*o.Elem)
		}
	}
	return true
}

func (r Ref) String() string {
	switch r.Kind {
	case RefNamed:
		return r.Name
	case RefSelf:
		return "<self>"
	case RefSlice:
		if r.Elem == nil {
			return "[]<invalid>"
		}
		return "[]" + r.Elem.String()
	default:
		return "<invalid>"
	}
}

// ParseRef reads the textual form used by weave plans: a bare type name,
// "self", or "[]" followed by an element form.
func ParseRef(s string) (Ref, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Ref{}, fmt.Errorf("empty type reference")
	case s == "self":
		return Self(), nil
	case strings.HasPrefix(s, "[]"):
		elem, err := ParseRef(s[2:])
		if err != nil {
			return Ref{}, err
		}
		return SliceOf(elem), nil
	default:
		return Named(s), nil
	}
}
