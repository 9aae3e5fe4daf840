package types

import "strings"

// Signature identifies a method by name, parameter types and return type.
type Signature struct {
	Name   string
	Params []Ref
	Return Ref
}

// MakeSignature builds a signature descriptor.
func MakeSignature(name string, ret Ref, params ...Ref) Signature {
	return Signature{Name: name, Params: params, Return: ret}
}

// Resolve substitutes self placeholders in every reference of the signature.
func (s Signature) Resolve(concrete string) Signature {
	out := Signature{Name: s.Name, Return: s.Return.Resolve(concrete)}
	if len(s.Params) > 0 {
		out.Params = make([]Ref, len(s.Params))
		for i, p := range s.Params {
			out.Params[i] = p.Resolve(concrete)
		}
	}
	return out
}

// ContainsSelf reports whether any reference carries the placeholder.
func (s Signature) ContainsSelf() bool {
	if s.Return.ContainsSelf() {
		return true
	}
	for _, p := range s.Params {
		if p.ContainsSelf() {
			return true
		}
	}
	return false
}

// Equal compares signatures structurally.
func (s Signature) Equal(o Signature) bool {
	if s.Name != o.Name || len(s.Params) != len(o.Params) || !s.Return.Equal(o.Return) {
		return false
	}
	for i := range s.Params {
		if !s.Params[i].Equal(o.Params[i]) {
			return false
		}
	}
	return true
}

// Erased renders the canonical string form used to match overrides and
// default-method candidates. Placeholders must be resolved first.
func (s Signature) Erased() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	b.WriteString(s.Return.String())
	return b.String()
}

func (s Signature) String() string { return s.Erased() }
