package bind

import (
	"fmt"

	"bytebuddy/internal/dynamic"
	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
)

// SpecialInvocation is the outcome of locating a directly invokable body: a
// value that is either a resolved call target or explicitly invalid. An
// invalid invocation is an expected resolution outcome, not an error.
type SpecialInvocation struct {
	valid bool
	call  emit.SpecialCall
}

// ValidInvocation wraps a resolved call target.
func ValidInvocation(call emit.SpecialCall) SpecialInvocation {
	return SpecialInvocation{valid: true, call: call}
}

// InvalidInvocation is the unresolvable outcome.
func InvalidInvocation() SpecialInvocation { return SpecialInvocation{} }

// Valid reports whether the invocation resolved.
func (s SpecialInvocation) Valid() bool { return s.valid }

// Call returns the resolved target; valid only when Valid reports true.
func (s SpecialInvocation) Call() emit.SpecialCall { return s.call }

// LocateSuper resolves the original body an intercepted method replaced: the
// rebased type's own body, or the nearest supertype body on a subclass build.
func LocateSuper(t *dynamic.Target, source *types.Method) SpecialInvocation {
	m, owner, ok := t.Universe.ResolveMethod(t.Base, source.Sig.Erased())
	if !ok || m.IsAbstract() {
		return InvalidInvocation()
	}
	if ot, ok := t.Universe.Lookup(owner); !ok || ot.IsInterface() {
		return InvalidInvocation()
	}
	return ValidInvocation(emit.SpecialCall{
		Owner: owner,
		Sig:   serializeSignature(m.Sig),
		Super: true,
	})
}

// LocateDefault resolves an interface default implementation of the source
// method among the instrumented type's interfaces. Exactly one interface must
// carry a non-abstract body; zero or several resolve to invalid.
func LocateDefault(t *dynamic.Target, source *types.Method) SpecialInvocation {
	var found SpecialInvocation
	matches := 0
	for _, name := range t.Instrumented.Interfaces {
		it, ok := t.Universe.Lookup(name)
		if !ok || !it.IsInterface() {
			continue
		}
		m := it.MethodByErased(source.Sig.Erased())
		if m == nil || m.IsAbstract() {
			continue
		}
		matches++
		found = ValidInvocation(emit.SpecialCall{
			Owner: name,
			Sig:   serializeSignature(m.Sig),
		})
	}
	if matches != 1 {
		return InvalidInvocation()
	}
	return found
}

// LocateDefaultIn resolves a default implementation on one named interface.
// Naming a non-interface is an authoring error; an interface without a
// matching default body resolves to invalid.
func LocateDefaultIn(t *dynamic.Target, source *types.Method, target string) (SpecialInvocation, error) {
	it, ok := t.Universe.Lookup(target)
	if !ok {
		return InvalidInvocation(), fmt.Errorf("default call target %q is not described", target)
	}
	if !it.IsInterface() {
		return InvalidInvocation(), &NotAnInterfaceError{Name: target}
	}
	m := it.MethodByErased(source.Sig.Erased())
	if m == nil || m.IsAbstract() {
		return InvalidInvocation(), nil
	}
	return ValidInvocation(emit.SpecialCall{
		Owner: target,
		Sig:   serializeSignature(m.Sig),
	}), nil
}

func serializeSignature(s types.Signature) emit.Signature {
	out := emit.Signature{Name: s.Name, Return: s.Return.String()}
	for _, p := range s.Params {
		out.Params = append(out.Params, p.String())
	}
	return out
}
