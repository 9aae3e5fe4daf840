package vm

import (
	"strings"
	"testing"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
)

func testUniverse(t *testing.T) *types.Universe {
	t.Helper()
	u := types.NewUniverse()
	err := u.Register(&types.Type{
		Name: "Foo",
		Methods: []*types.Method{{
			Sig:  types.MakeSignature("foo", types.String()),
			Mods: types.Public,
			Body: func(self types.Receiver, args []any) (any, error) { return "foo", nil },
		}},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return u
}

func load(t *testing.T, ns *Namespace, prog *emit.Program) *Handle {
	t.Helper()
	h, err := NewHandle(prog, ns)
	if err != nil {
		t.Fatalf("new handle: %v", err)
	}
	if err := ns.Install(h); err != nil {
		t.Fatalf("install: %v", err)
	}
	return h
}

func fooSig() emit.Signature {
	return emit.Signature{Name: "foo", Return: "string"}
}

func TestDispatchFixedAndStub(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	h := load(t, ns, &emit.Program{
		Schema: emit.SchemaVersion,
		Name:   "Gen",
		Methods: []emit.MethodPlan{
			{Sig: fooSig(), Instr: emit.Instruction{Op: emit.OpFixed, Value: "bar"}},
			{Sig: emit.Signature{Name: "count", Return: "int"}, Instr: emit.Instruction{Op: emit.OpStub}},
		},
	})
	obj := h.New()
	if v, err := obj.Invoke("foo"); err != nil || v != "bar" {
		t.Fatalf("fixed dispatch: %v %v", v, err)
	}
	if v, err := obj.Invoke("count"); err != nil || v != 0 {
		t.Fatalf("stub dispatch: %v %v", v, err)
	}
}

func TestDispatchOriginalBody(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	h := load(t, ns, &emit.Program{
		Schema: emit.SchemaVersion,
		Name:   "Foo",
		Methods: []emit.MethodPlan{{
			Sig: fooSig(),
			Instr: emit.Instruction{
				Op:      emit.OpOriginal,
				Special: &emit.SpecialCall{Owner: "Foo", Sig: fooSig(), Super: true},
			},
		}},
	})
	if v, err := h.New().Invoke("foo"); err != nil || v != "foo" {
		t.Fatalf("original dispatch: %v %v", v, err)
	}
}

func TestDispatchAbstractFails(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	h := load(t, ns, &emit.Program{
		Schema:  emit.SchemaVersion,
		Name:    "Gen",
		Methods: []emit.MethodPlan{{Sig: fooSig(), Instr: emit.Instruction{Op: emit.OpAbstract}}},
	})
	if _, err := h.New().Invoke("foo"); err == nil || !strings.Contains(err.Error(), "abstract") {
		t.Fatalf("expected abstract invocation error, got %v", err)
	}
}

func TestInvokeFallsBackToDescribedChain(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	h := load(t, ns, &emit.Program{Schema: emit.SchemaVersion, Name: "Gen", Super: "Foo"})
	if v, err := h.New().Invoke("foo"); err != nil || v != "foo" {
		t.Fatalf("inherited dispatch: %v %v", v, err)
	}
	if _, err := h.New().Invoke("foo", 1); err == nil {
		t.Fatalf("arity mismatch must not resolve")
	}
}

func TestInvokeUnknownMethod(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	h := load(t, ns, &emit.Program{Schema: emit.SchemaVersion, Name: "Gen"})
	if _, err := h.New().Invoke("nope"); err == nil {
		t.Fatalf("unknown method should fail")
	}
}

type appendingHandler struct{}

func (appendingHandler) Intercept(zuper Callable) (string, error) {
	v, err := zuper.Call()
	if err != nil {
		return "", err
	}
	return v.(string) + "bar", nil
}

type echoHandler struct{}

func (echoHandler) Intercept(self types.Receiver, arg any) (any, error) {
	return self.TypeName() + ":" + arg.(string), nil
}

func TestDelegateWithReceiverAndArgument(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	h := load(t, ns, &emit.Program{
		Schema: emit.SchemaVersion,
		Name:   "Gen",
		Slots:  []string{"Gen$delegate$0"},
		Methods: []emit.MethodPlan{{
			Sig: emit.Signature{Name: "echo", Params: []string{"string"}, Return: "string"},
			Instr: emit.Instruction{
				Op:     emit.OpDelegate,
				Slot:   "Gen$delegate$0",
				Method: "Intercept",
				Params: []emit.ParamBinding{
					{Kind: emit.BindReceiver},
					{Kind: emit.BindArgument, Index: 0},
				},
			},
		}},
	})
	if err := h.InstallDelegate("Gen$delegate$0", echoHandler{}); err != nil {
		t.Fatalf("install delegate: %v", err)
	}
	v, err := h.New().Invoke("echo", "hi")
	if err != nil || v != "Gen:hi" {
		t.Fatalf("delegate dispatch: %v %v", v, err)
	}
}

func TestDelegateRequiresInstalledSlot(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	h := load(t, ns, &emit.Program{
		Schema: emit.SchemaVersion,
		Name:   "Gen",
		Slots:  []string{"Gen$delegate$0"},
		Methods: []emit.MethodPlan{{
			Sig: fooSig(),
			Instr: emit.Instruction{
				Op: emit.OpDelegate, Slot: "Gen$delegate$0", Method: "Intercept",
			},
		}},
	})
	if _, err := h.New().Invoke("foo"); err == nil {
		t.Fatalf("missing delegate should fail")
	}
}

func TestProxyForwardsToDefaultBody(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	aux := load(t, ns, &emit.Program{
		Schema: emit.SchemaVersion,
		Name:   "Gen$auxiliary$0",
		Methods: []emit.MethodPlan{{
			Sig: emit.Signature{Name: "call", Return: "any"},
			Instr: emit.Instruction{
				Op:      emit.OpForward,
				Special: &emit.SpecialCall{Owner: "Foo", Sig: fooSig(), Super: true},
			},
		}},
	})
	primary := load(t, ns, &emit.Program{
		Schema: emit.SchemaVersion,
		Name:   "Gen",
		Slots:  []string{"Gen$delegate$0"},
		Methods: []emit.MethodPlan{{
			Sig: fooSig(),
			Instr: emit.Instruction{
				Op:     emit.OpDelegate,
				Slot:   "Gen$delegate$0",
				Method: "Intercept",
				Params: []emit.ParamBinding{{Kind: emit.BindProxy, Proxy: "Gen$auxiliary$0"}},
			},
		}},
	})
	primary.Link(map[string]*Handle{aux.Name(): aux})
	if err := primary.InstallDelegate("Gen$delegate$0", appendingHandler{}); err != nil {
		t.Fatalf("install delegate: %v", err)
	}
	v, err := primary.New().Invoke("foo")
	if err != nil || v != "foobar" {
		t.Fatalf("proxy-backed delegation: %v %v", v, err)
	}
}

func TestProxySnapshotRespectsPersistenceMarker(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	plain := load(t, ns, &emit.Program{Schema: emit.SchemaVersion, Name: "P1"})
	marked := load(t, ns, &emit.Program{Schema: emit.SchemaVersion, Name: "P2", Serializable: true})

	if _, err := NewProxy(plain, nil, nil).Snapshot(); err == nil {
		t.Fatalf("unmarked proxy must refuse snapshot")
	}
	raw, err := NewProxy(marked, nil, nil).Snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if p, err := emit.Decode("P2", raw); err != nil || !p.Serializable {
		t.Fatalf("snapshot round trip: %v", err)
	}
}

func TestDelegateSlotGuards(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	h := load(t, ns, &emit.Program{Schema: emit.SchemaVersion, Name: "Gen", Slots: []string{"s"}})
	if err := h.InstallDelegate("missing", 1); err == nil {
		t.Fatalf("unknown slot should fail")
	}
	if err := h.InstallDelegate("s", 1); err != nil {
		t.Fatalf("install: %v", err)
	}
	if err := h.InstallDelegate("s", 2); err == nil {
		t.Fatalf("re-installation should fail")
	}
}

func TestNamespaceChildFirstShadowing(t *testing.T) {
	u := testUniverse(t)
	parent := NewNamespace(nil, u)
	load(t, parent, &emit.Program{Schema: emit.SchemaVersion, Name: "Foo"})

	child := NewNamespace(parent, nil)
	shadow := load(t, child, &emit.Program{
		Schema:  emit.SchemaVersion,
		Name:    "Foo",
		Methods: []emit.MethodPlan{{Sig: fooSig(), Instr: emit.Instruction{Op: emit.OpFixed, Value: "bar"}}},
	})

	got, ok := child.Lookup("Foo")
	if !ok || got != shadow {
		t.Fatalf("child lookup should shadow parent")
	}
	fromParent, ok := parent.Lookup("Foo")
	if !ok || fromParent == shadow {
		t.Fatalf("parent namespace must stay isolated")
	}
}

func TestMarkInitializedIsExactlyOnce(t *testing.T) {
	ns := NewNamespace(nil, testUniverse(t))
	h := load(t, ns, &emit.Program{Schema: emit.SchemaVersion, Name: "Gen"})
	if err := h.MarkInitialized(); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	if err := h.MarkInitialized(); err == nil {
		t.Fatalf("second mark should fail")
	}
}
