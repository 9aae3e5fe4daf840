package dynamic

import (
	"bytes"
	"errors"
	"testing"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/match"
	"bytebuddy/internal/types"
)

type fixedImpl struct{ v any }

func (f fixedImpl) Assemble(*Target, *types.Method) (Assembled, error) {
	return Assembled{Valid: true, Instr: emit.Instruction{Op: emit.OpFixed, Value: f.v}}, nil
}

type declineImpl struct{}

func (declineImpl) Assemble(*Target, *types.Method) (Assembled, error) {
	return Invalid(), nil
}

func decodeArtifact(t *testing.T, u *Unloaded) *emit.Program {
	t.Helper()
	prog, err := emit.Decode(u.Name(), u.Bytes())
	if err != nil {
		t.Fatalf("decode %s: %v", u.Name(), err)
	}
	return prog
}

func planFor(t *testing.T, prog *emit.Program, name string) *emit.MethodPlan {
	t.Helper()
	plans := prog.PlanByName(name)
	if len(plans) != 1 {
		t.Fatalf("expected one plan for %s, got %d", name, len(plans))
	}
	return plans[0]
}

func TestMakeRebaseKeepsOriginals(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Rebase(u, "Widget")
	art, err := b.Method(match.Named("foo")).Intercept(fixedImpl{v: "bar"}).Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if art.Name() != "Widget" {
		t.Fatalf("rebase must keep the base name, got %q", art.Name())
	}
	prog := decodeArtifact(t, art)
	if plan := planFor(t, prog, "foo"); plan.Instr.Op != emit.OpFixed || plan.Instr.Value != "bar" {
		t.Fatalf("intercepted plan wrong: %+v", plan.Instr)
	}
	size := planFor(t, prog, "size")
	if size.Instr.Op != emit.OpOriginal {
		t.Fatalf("unintercepted member must keep its original body: %+v", size.Instr)
	}
	if size.Instr.Special == nil || size.Instr.Special.Owner != "Widget" || !size.Instr.Special.Super {
		t.Fatalf("original invocation wrong: %+v", size.Instr.Special)
	}
}

func TestMakeSubclassDerivesName(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Subclass(u, "Widget")
	art, err := b.Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if art.Name() != "Widget$subclass" {
		t.Fatalf("unexpected derived name %q", art.Name())
	}
	named, err := b.Name("Gadget").Make()
	if err != nil {
		t.Fatalf("make named: %v", err)
	}
	if named.Name() != "Gadget" {
		t.Fatalf("explicit name ignored: %q", named.Name())
	}
}

func TestConflictingBinding(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Rebase(u, "Widget")
	_, err := b.Method(match.Any()).Intercept(fixedImpl{v: 1}).Make()
	var conflict *ConflictingBindingError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictingBindingError, got %v", err)
	}
	if len(conflict.Members) < 2 {
		t.Fatalf("conflict must name the matched members: %+v", conflict)
	}
}

func TestZeroMatchIsSilent(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Rebase(u, "Widget")
	art, err := b.Method(match.Named("absent")).Intercept(fixedImpl{v: 1}).Make()
	if err != nil {
		t.Fatalf("zero-match make: %v", err)
	}
	prog := decodeArtifact(t, art)
	if plan := planFor(t, prog, "foo"); plan.Instr.Op != emit.OpOriginal {
		t.Fatalf("foo must keep its original body: %+v", plan.Instr)
	}
}

func TestStrictRejectsZeroMatch(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Rebase(u, "Widget")
	_, err := b.Strict().Method(match.Named("absent")).Intercept(fixedImpl{v: 1}).Make()
	var unmatched *UnmatchedBindingError
	if !errors.As(err, &unmatched) {
		t.Fatalf("expected UnmatchedBindingError, got %v", err)
	}
}

func TestFirstRegisteredBindingWins(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Rebase(u, "Widget")
	b = b.Method(match.Named("foo")).Intercept(fixedImpl{v: "first"})
	b = b.Method(match.Named("foo")).Intercept(fixedImpl{v: "second"})
	art, err := b.Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	prog := decodeArtifact(t, art)
	if plan := planFor(t, prog, "foo"); plan.Instr.Value != "first" {
		t.Fatalf("later binding displaced the first: %+v", plan.Instr)
	}
}

func TestDeclinedBindingKeepsOriginal(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Rebase(u, "Widget")
	b = b.Method(match.Named("foo")).Intercept(declineImpl{})
	b = b.Method(match.Named("foo")).Intercept(fixedImpl{v: "later"})
	art, err := b.Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	prog := decodeArtifact(t, art)
	// The declined binding leaves foo available to the next one.
	if plan := planFor(t, prog, "foo"); plan.Instr.Op != emit.OpFixed || plan.Instr.Value != "later" {
		t.Fatalf("declined member not reclaimed: %+v", plan.Instr)
	}
}

func TestMakeIsRepeatable(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Rebase(u, "Widget")
	b = b.Method(match.Named("foo")).Intercept(fixedImpl{v: "bar"})
	first, err := b.Make()
	if err != nil {
		t.Fatalf("first make: %v", err)
	}
	second, err := b.Make()
	if err != nil {
		t.Fatalf("second make: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("repeated make produced different artifacts")
	}
}

func TestSelfTypeResolvesToConcreteName(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Subclass(u, "Widget")
	b, err := b.Name("Linked").DefineField("next", types.Self(), 0)
	if err != nil {
		t.Fatalf("define field: %v", err)
	}
	mi, err := b.DefineMethod("clone", types.Self(), nil, 0)
	if err != nil {
		t.Fatalf("define method: %v", err)
	}
	art, err := mi.WithoutCode().Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	prog := decodeArtifact(t, art)
	var found bool
	for _, f := range prog.Fields {
		if f.Name == "next" {
			found = true
			if f.Type != "Linked" {
				t.Fatalf("self field not resolved: %q", f.Type)
			}
		}
	}
	if !found {
		t.Fatalf("token field missing from program")
	}
	clone := planFor(t, prog, "clone")
	if clone.Sig.Return != "Linked" {
		t.Fatalf("self return not resolved: %q", clone.Sig.Return)
	}
	if clone.Instr.Op != emit.OpAbstract {
		t.Fatalf("bodiless token must plan abstract: %+v", clone.Instr)
	}
}

func TestTokenRedefinitionKeepsOriginReachable(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Rebase(u, "Widget")
	mi, err := b.DefineMethod("foo", types.String(), nil, 0)
	if err != nil {
		t.Fatalf("define method: %v", err)
	}
	art, err := mi.WithoutCode().Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	prog := decodeArtifact(t, art)
	plan := planFor(t, prog, "foo")
	if plan.Instr.Op != emit.OpOriginal || plan.Instr.Special.Owner != "Widget" {
		t.Fatalf("redefined member lost its origin: %+v", plan.Instr)
	}
}

func TestIgnoredMembersAreInvisible(t *testing.T) {
	u := builderUniverse(t)
	b, _ := Rebase(u, "Widget")
	b = b.IgnoreMethods(match.Named("foo"))
	_, err := b.Strict().Method(match.Named("foo")).Intercept(fixedImpl{v: 1}).Make()
	var unmatched *UnmatchedBindingError
	if !errors.As(err, &unmatched) {
		t.Fatalf("ignored member must be invisible to bindings, got %v", err)
	}

	// The ignored member still dispatches to its original body.
	art, err := b.Method(match.Named("foo")).Intercept(fixedImpl{v: 1}).Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	prog := decodeArtifact(t, art)
	if plan := planFor(t, prog, "foo"); plan.Instr.Op != emit.OpOriginal {
		t.Fatalf("ignored member lost its original body: %+v", plan.Instr)
	}
}
