package dynamic

import "bytebuddy/internal/types"

// FieldToken is the immutable record of a field to add. Its type reference
// may carry the self placeholder until materialization resolves it.
type FieldToken struct {
	Name        string
	Type        types.Ref
	Mods        types.Modifier
	Annotations []types.Annotation
}

// Resolve substitutes the self placeholder against the concrete type name.
func (t FieldToken) Resolve(concrete string) types.Field {
	return types.Field{
		Name:        t.Name,
		Type:        t.Type.Resolve(concrete),
		Mods:        t.Mods,
		Annotations: t.Annotations,
	}
}

// Equal compares tokens structurally; the unresolved placeholder compares as
// itself, so two self-typed tokens of the same name collide regardless of the
// eventual concrete name.
func (t FieldToken) Equal(o FieldToken) bool {
	return t.Name == o.Name && t.Mods == o.Mods && t.Type.Equal(o.Type)
}

// MethodToken is the immutable record of a method to add.
type MethodToken struct {
	Sig         types.Signature
	Mods        types.Modifier
	Annotations []types.Annotation
}

// Resolve substitutes self placeholders in the token's signature. The
// resulting method carries no body; an interception supplies behavior.
func (t MethodToken) Resolve(concrete string) *types.Method {
	return &types.Method{
		Sig:         t.Sig.Resolve(concrete),
		Mods:        t.Mods,
		Annotations: t.Annotations,
	}
}

// Equal compares tokens structurally by name, modifiers and signature.
func (t MethodToken) Equal(o MethodToken) bool {
	return t.Mods == o.Mods && t.Sig.Equal(o.Sig)
}
