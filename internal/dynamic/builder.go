// Package dynamic implements the incremental type builder and its
// materialization into sealed, loadable artifact graphs.
//
// Builders are persistent values: every configuration call returns a new
// builder derived by structural sharing, so a builder can serve as a template
// and be extended along independent branches without aliasing surprises.
package dynamic

import (
	"fmt"

	"bytebuddy/internal/match"
	"bytebuddy/internal/types"
)

type binding struct {
	latent      match.Latent
	impl        Implementation
	annotations []types.Annotation
}

// Builder accumulates structural modifications and behavior bindings for one
// instrumented type. Zero methods mutate the receiver.
type Builder struct {
	universe    *types.Universe
	base        string
	rebase      bool
	name        string
	mods        types.Modifier
	interfaces  []string
	annotations []types.Annotation
	ignored     match.Matcher
	fields      []FieldToken
	methods     []MethodToken
	bindings    []binding
	strict      bool
}

// Rebase starts a builder that redefines an existing described type in
// place: unintercepted members keep the original bodies, and super-call
// proxies reach them.
func Rebase(u *types.Universe, name string) (*Builder, error) {
	t, ok := u.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("rebase: unknown type %q", name)
	}
	if t.IsInterface() {
		return nil, fmt.Errorf("rebase: %q is an interface", name)
	}
	return &Builder{
		universe: u,
		base:     name,
		rebase:   true,
		ignored:  match.IsSynthetic(),
	}, nil
}

// Subclass starts a builder for a fresh type extending the named class.
func Subclass(u *types.Universe, super string) (*Builder, error) {
	t, ok := u.Lookup(super)
	if !ok {
		return nil, fmt.Errorf("subclass: unknown type %q", super)
	}
	if t.IsInterface() {
		return nil, fmt.Errorf("subclass: %q is an interface; use Implement", super)
	}
	return &Builder{
		universe: u,
		base:     super,
		ignored:  match.IsSynthetic(),
	}, nil
}

// clone copies the builder; slices are copied so appends never alias a
// previously returned value.
func (b *Builder) clone() *Builder {
	nb := *b
	nb.interfaces = append([]string(nil), b.interfaces...)
	nb.annotations = append([]types.Annotation(nil), b.annotations...)
	nb.fields = append([]FieldToken(nil), b.fields...)
	nb.methods = append([]MethodToken(nil), b.methods...)
	nb.bindings = append([]binding(nil), b.bindings...)
	return &nb
}

// Name fixes the generated type's name. Without it, a rebased builder keeps
// the base name and a subclass derives one from its supertype.
func (b *Builder) Name(name string) *Builder {
	nb := b.clone()
	nb.name = name
	return nb
}

// Modifier sets the generated type's modifiers.
func (b *Builder) Modifier(mods types.Modifier) (*Builder, error) {
	if err := types.ValidateModifiers(mods, types.TypeModifiers); err != nil {
		return nil, err
	}
	nb := b.clone()
	nb.mods = mods
	return nb, nil
}

// Implement adds interfaces to the generated type. Naming a non-interface is
// an authoring error at this call.
func (b *Builder) Implement(names ...string) (*Builder, error) {
	nb := b.clone()
	for _, name := range names {
		t, ok := b.universe.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("implement: unknown type %q", name)
		}
		if !t.IsInterface() {
			return nil, fmt.Errorf("implement: %q is not an interface", name)
		}
		nb.interfaces = append(nb.interfaces, name)
	}
	return nb, nil
}

// AnnotateType attaches an annotation to the generated type.
func (b *Builder) AnnotateType(a types.Annotation) *Builder {
	nb := b.clone()
	nb.annotations = append(nb.annotations, a)
	return nb
}

// IgnoreMethods replaces the member-exclusion matcher. Excluded members are
// invisible to behavior bindings; they still dispatch to their original
// bodies.
func (b *Builder) IgnoreMethods(m match.Matcher) *Builder {
	nb := b.clone()
	nb.ignored = m
	return nb
}

// Strict makes zero-match bindings an authoring error instead of a silent
// no-op.
func (b *Builder) Strict() *Builder {
	nb := b.clone()
	nb.strict = true
	return nb
}

// DefineField records a field token. A token colliding by name with an
// already-recorded field token fails here, not at materialization.
func (b *Builder) DefineField(name string, ref types.Ref, mods types.Modifier) (*Builder, error) {
	if err := types.ValidateModifiers(mods, types.FieldModifiers); err != nil {
		return nil, err
	}
	for _, f := range b.fields {
		if f.Name == name {
			return nil, &DuplicateMemberError{Kind: "field", Name: name}
		}
	}
	nb := b.clone()
	nb.fields = append(nb.fields, FieldToken{Name: name, Type: ref, Mods: mods})
	return nb, nil
}

// DefineMethod records a method token and returns the interception target
// for it. A token colliding by signature with an already-recorded method
// token fails here.
func (b *Builder) DefineMethod(name string, ret types.Ref, params []types.Ref, mods types.Modifier) (*MethodInterception, error) {
	if err := types.ValidateModifiers(mods, types.MethodModifiers); err != nil {
		return nil, err
	}
	token := MethodToken{Sig: types.MakeSignature(name, ret, params...), Mods: mods}
	for _, m := range b.methods {
		if m.Sig.Equal(token.Sig) {
			return nil, &DuplicateMemberError{Kind: "method", Name: name, Signature: token.Sig.String()}
		}
	}
	nb := b.clone()
	nb.methods = append(nb.methods, token)
	return &MethodInterception{
		builder: nb,
		latent:  match.ForSignature(token.Sig),
	}, nil
}

// Method selects existing members for interception.
func (b *Builder) Method(m match.Matcher) *MethodInterception {
	return &MethodInterception{builder: b.clone(), latent: match.Exact(m)}
}

// MethodInterception pairs a pending member selection with the builder state
// it was created from.
type MethodInterception struct {
	builder     *Builder
	latent      match.Latent
	annotations []types.Annotation
}

// AnnotateMethod attaches an annotation to the members this interception
// ends up planning.
func (mi *MethodInterception) AnnotateMethod(a types.Annotation) *MethodInterception {
	return &MethodInterception{
		builder:     mi.builder,
		latent:      mi.latent,
		annotations: append(append([]types.Annotation(nil), mi.annotations...), a),
	}
}

// Intercept binds an implementation to the selected members and yields the
// extended builder.
func (mi *MethodInterception) Intercept(impl Implementation) *Builder {
	nb := mi.builder.clone()
	nb.bindings = append(nb.bindings, binding{
		latent:      mi.latent,
		impl:        impl,
		annotations: mi.annotations,
	})
	return nb
}

// WithoutCode keeps the selection's token without behavior: a defined method
// stays abstract.
func (mi *MethodInterception) WithoutCode() *Builder {
	return mi.builder
}
