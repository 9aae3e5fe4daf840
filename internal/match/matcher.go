// Package match provides declarative predicates over resolved method
// descriptors. Matchers are pure values: combining or evaluating them never
// mutates shared state, so they are safe to reuse across builders.
package match

import (
	"strings"

	"bytebuddy/internal/types"
)

// Matcher decides whether a resolved method descriptor is selected.
type Matcher interface {
	Matches(m *types.Method) bool
}

type named string

func (n named) Matches(m *types.Method) bool { return m.Sig.Name == string(n) }

// Named selects methods by exact name.
func Named(name string) Matcher { return named(name) }

type nameSuffix string

func (s nameSuffix) Matches(m *types.Method) bool {
	return strings.HasSuffix(m.Sig.Name, string(s))
}

// NameSuffix selects methods whose name ends with the suffix.
func NameSuffix(suffix string) Matcher { return nameSuffix(suffix) }

type returns struct{ ref types.Ref }

func (r returns) Matches(m *types.Method) bool { return m.Sig.Return.Equal(r.ref) }

// Returns selects methods by return type.
func Returns(ref types.Ref) Matcher { return returns{ref} }

type takes struct{ params []types.Ref }

func (t takes) Matches(m *types.Method) bool {
	if len(m.Sig.Params) != len(t.params) {
		return false
	}
	for i, p := range t.params {
		if !m.Sig.Params[i].Equal(p) {
			return false
		}
	}
	return true
}

// Takes selects methods by exact parameter types.
func Takes(params ...types.Ref) Matcher { return takes{params} }

type hasModifier types.Modifier

func (h hasModifier) Matches(m *types.Method) bool { return m.Mods.Has(types.Modifier(h)) }

// IsPublic selects public methods.
func IsPublic() Matcher { return hasModifier(types.Public) }

// IsSynthetic selects compiler-emitted members.
func IsSynthetic() Matcher { return hasModifier(types.Synthetic) }

type isAbstract struct{}

func (isAbstract) Matches(m *types.Method) bool { return m.IsAbstract() }

// IsAbstract selects methods without an implementation.
func IsAbstract() Matcher { return isAbstract{} }

type and []Matcher

func (a and) Matches(m *types.Method) bool {
	for _, mm := range a {
		if !mm.Matches(m) {
			return false
		}
	}
	return true
}

// And selects methods matched by every operand.
func And(ms ...Matcher) Matcher { return and(ms) }

type or []Matcher

func (o or) Matches(m *types.Method) bool {
	for _, mm := range o {
		if mm.Matches(m) {
			return true
		}
	}
	return false
}

// Or selects methods matched by at least one operand.
func Or(ms ...Matcher) Matcher { return or(ms) }

type not struct{ m Matcher }

func (n not) Matches(m *types.Method) bool { return !n.m.Matches(m) }

// Not inverts a matcher.
func Not(m Matcher) Matcher { return not{m} }

type constMatcher bool

func (c constMatcher) Matches(*types.Method) bool { return bool(c) }

// Any selects every method.
func Any() Matcher { return constMatcher(true) }

// None selects no method.
func None() Matcher { return constMatcher(false) }
