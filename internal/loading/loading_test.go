package loading

import (
	"os"
	"path/filepath"
	"testing"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
	"bytebuddy/internal/vm"
)

func saveProgram(t *testing.T, dir, name string, value any) {
	t.Helper()
	prog := &emit.Program{
		Name: name,
		Kind: uint8(types.KindClass),
		Methods: []emit.MethodPlan{{
			Sig:   emit.Signature{Name: "answer", Return: "string"},
			Instr: emit.Instruction{Op: emit.OpFixed, Value: value},
		}},
	}
	raw, err := emit.DefaultEmitter().Emit(prog)
	if err != nil {
		t.Fatalf("emit %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+artifactExt), raw, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadDirInstallsAndLinks(t *testing.T) {
	dir := t.TempDir()
	saveProgram(t, dir, "Alpha", "a")
	saveProgram(t, dir, "Beta", "b")

	root := vm.NewNamespace(nil, types.NewUniverse())
	handles, err := LoadDir(dir, root, Wrapper{})
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("expected 2 handles, got %d", len(handles))
	}
	alpha := handles["Alpha"]
	if _, ok := alpha.Linked("Beta"); !ok {
		t.Fatalf("sibling link missing")
	}
	got, err := alpha.New().Invoke("answer")
	if err != nil || got != "a" {
		t.Fatalf("dispatch: got %v, %v", got, err)
	}
	// Wrapper keeps the parent clean.
	if _, ok := root.Lookup("Alpha"); ok {
		t.Fatalf("wrapper leaked into the parent namespace")
	}
}

func TestInjectionCollides(t *testing.T) {
	dir := t.TempDir()
	saveProgram(t, dir, "Alpha", "a")

	root := vm.NewNamespace(nil, types.NewUniverse())
	if _, err := LoadDir(dir, root, Injection{}); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if _, ok := root.Lookup("Alpha"); !ok {
		t.Fatalf("injection must install into the given namespace")
	}
	if _, err := LoadDir(dir, root, Injection{}); err == nil {
		t.Fatalf("expected name collision on second injection")
	}
}

func TestWrapperIsolatesRepeatedLoads(t *testing.T) {
	dir := t.TempDir()
	saveProgram(t, dir, "Alpha", "a")

	root := vm.NewNamespace(nil, types.NewUniverse())
	for i := 0; i < 2; i++ {
		if _, err := LoadDir(dir, root, Wrapper{}); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
}

func TestInjectionNeedsNamespace(t *testing.T) {
	if _, err := (Injection{}).Resolve(nil); err == nil {
		t.Fatalf("expected error for nil namespace")
	}
}
