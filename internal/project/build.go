package project

import (
	"fmt"

	"bytebuddy/internal/behavior"
	"bytebuddy/internal/dynamic"
	"bytebuddy/internal/match"
	"bytebuddy/internal/types"
)

// BuildUniverse registers every described type of the manifest.
func BuildUniverse(m *Manifest) (*types.Universe, error) {
	u := types.NewUniverse()
	for _, decl := range m.Universe.Types {
		t, err := buildType(decl)
		if err != nil {
			return nil, err
		}
		if err := u.Register(t); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func buildType(decl TypeDecl) (*types.Type, error) {
	var kind types.Kind
	switch decl.Kind {
	case "", "class":
		kind = types.KindClass
	case "interface":
		kind = types.KindInterface
	default:
		return nil, fmt.Errorf("type %s: unknown kind %q", decl.Name, decl.Kind)
	}
	t := &types.Type{
		Name:       decl.Name,
		Kind:       kind,
		Super:      decl.Super,
		Interfaces: decl.Interfaces,
	}
	for _, f := range decl.Fields {
		ref, err := types.ParseRef(f.Type)
		if err != nil {
			return nil, fmt.Errorf("type %s field %s: %w", decl.Name, f.Name, err)
		}
		t.Fields = append(t.Fields, types.Field{Name: f.Name, Type: ref})
	}
	for _, md := range decl.Methods {
		m, err := buildMethod(decl.Name, md)
		if err != nil {
			return nil, err
		}
		t.Methods = append(t.Methods, m)
	}
	return t, nil
}

func buildMethod(owner string, decl MethodDecl) (*types.Method, error) {
	ret := types.Void()
	if decl.Returns != "" {
		var err error
		ret, err = types.ParseRef(decl.Returns)
		if err != nil {
			return nil, fmt.Errorf("type %s method %s: %w", owner, decl.Name, err)
		}
	}
	params := make([]types.Ref, 0, len(decl.Params))
	for _, p := range decl.Params {
		ref, err := types.ParseRef(p)
		if err != nil {
			return nil, fmt.Errorf("type %s method %s: %w", owner, decl.Name, err)
		}
		params = append(params, ref)
	}
	m := &types.Method{Sig: types.MakeSignature(decl.Name, ret, params...)}
	if decl.HasBody {
		v := decl.Value
		m.Body = func(types.Receiver, []any) (any, error) { return v, nil }
	}
	return m, nil
}

// PlanBuilder turns the manifest's weave plan into a configured builder.
func PlanBuilder(m *Manifest, u *types.Universe) (*dynamic.Builder, error) {
	var b *dynamic.Builder
	var err error
	switch m.Weave.Mode {
	case "rebase":
		b, err = dynamic.Rebase(u, m.Weave.Base)
	default:
		b, err = dynamic.Subclass(u, m.Weave.Base)
	}
	if err != nil {
		return nil, err
	}
	if m.Weave.Name != "" {
		b = b.Name(m.Weave.Name)
	}
	if len(m.Weave.Implement) > 0 {
		b, err = b.Implement(m.Weave.Implement...)
		if err != nil {
			return nil, err
		}
	}
	for _, ic := range m.Weave.Intercepts {
		impl, err := interceptImpl(ic)
		if err != nil {
			return nil, err
		}
		b = b.Method(match.Named(ic.Method)).Intercept(impl)
	}
	return b, nil
}

func interceptImpl(ic Intercept) (dynamic.Implementation, error) {
	switch ic.Kind {
	case "", "fixed":
		return behavior.Value(ic.Value), nil
	case "stub":
		return behavior.Stub{}, nil
	case "script":
		return behavior.Eval(ic.Script), nil
	default:
		return nil, fmt.Errorf("intercept %s: unknown kind %q", ic.Method, ic.Kind)
	}
}
