package types

import (
	"fmt"
	"sync"
)

// Universe is the registry of described types an engine run works against.
// Registration happens up front; lookups are concurrent-safe.
type Universe struct {
	mu    sync.RWMutex
	types map[string]*Type
}

// NewUniverse creates an empty registry.
func NewUniverse() *Universe {
	return &Universe{types: make(map[string]*Type, 16)}
}

// Register adds a description. Registering a name twice is an authoring error.
func (u *Universe) Register(t *Type) error {
	if t == nil || t.Name == "" {
		return fmt.Errorf("universe: cannot register unnamed type")
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.types[t.Name]; ok {
		return fmt.Errorf("universe: type %q already registered", t.Name)
	}
	u.types[t.Name] = t
	return nil
}

// Lookup returns the description for a name.
func (u *Universe) Lookup(name string) (*Type, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	t, ok := u.types[name]
	return t, ok
}

// MustLookup panics when the name is unknown.
func (u *Universe) MustLookup(name string) *Type {
	t, ok := u.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("universe: unknown type %q", name))
	}
	return t
}

// OwnedMethod is a method paired with the describing type it was found on.
type OwnedMethod struct {
	Owner  string
	Method *Method
}

// Chain returns the description chain starting at name and walking supertypes.
// Unknown links terminate the chain silently.
func (u *Universe) Chain(name string) []*Type {
	var chain []*Type
	seen := make(map[string]bool, 4)
	for name != "" && !seen[name] {
		seen[name] = true
		t, ok := u.Lookup(name)
		if !ok {
			break
		}
		chain = append(chain, t)
		name = t.Super
	}
	return chain
}

// FlattenMethods collects the reachable method set of a type: declared
// methods first, then inherited ones not overridden (by erased signature),
// then methods contributed by directly implemented interfaces along the
// chain. Extra interface names may be appended for types still under
// construction.
func (u *Universe) FlattenMethods(name string, extraInterfaces ...string) []OwnedMethod {
	var out []OwnedMethod
	seen := make(map[string]bool, 8)
	add := func(owner string, m *Method) {
		erased := m.Sig.Erased()
		if seen[erased] {
			return
		}
		seen[erased] = true
		out = append(out, OwnedMethod{Owner: owner, Method: m})
	}
	chain := u.Chain(name)
	var interfaces []string
	for _, t := range chain {
		for _, m := range t.Methods {
			add(t.Name, m)
		}
		interfaces = append(interfaces, t.Interfaces...)
	}
	interfaces = append(interfaces, extraInterfaces...)
	for _, in := range interfaces {
		it, ok := u.Lookup(in)
		if !ok || !it.IsInterface() {
			continue
		}
		for _, m := range it.Methods {
			add(it.Name, m)
		}
	}
	return out
}

// FlattenFields collects the reachable fields of a type, subtype first.
func (u *Universe) FlattenFields(name string) []Field {
	var out []Field
	seen := make(map[string]bool, 8)
	for _, t := range u.Chain(name) {
		for _, f := range t.Fields {
			if seen[f.Name] {
				continue
			}
			seen[f.Name] = true
			out = append(out, f)
		}
	}
	return out
}

// ResolveMethod finds a method by erased signature starting at name and
// walking the supertype chain.
func (u *Universe) ResolveMethod(name, erased string) (*Method, string, bool) {
	for _, t := range u.Chain(name) {
		if m := t.MethodByErased(erased); m != nil {
			return m, t.Name, true
		}
	}
	return nil, "", false
}
