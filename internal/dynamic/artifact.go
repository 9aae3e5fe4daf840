package dynamic

import (
	"fmt"
	"os"
	"path/filepath"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/vm"
)

// Unloaded is a sealed artifact graph: the emitted program bytes of one
// generated type, its auxiliary artifacts, and the initializers to run once
// the graph is loaded. An Unloaded value is immutable and safe to share.
type Unloaded struct {
	name  string
	raw   []byte
	inits []Initializer
	aux   []*Unloaded
}

// NewUnloaded wraps emitted bytes into an artifact node.
func NewUnloaded(name string, raw []byte, inits []Initializer, aux []*Unloaded) *Unloaded {
	return &Unloaded{name: name, raw: raw, inits: inits, aux: aux}
}

// Name returns the generated type's name.
func (u *Unloaded) Name() string { return u.name }

// Bytes returns the emitted program bytes.
func (u *Unloaded) Bytes() []byte { return u.raw }

// Auxiliaries returns the direct auxiliary artifacts.
func (u *Unloaded) Auxiliaries() []*Unloaded { return u.aux }

// ModuleTable flattens the artifact graph into name->bytes, auxiliaries
// included transitively.
func (u *Unloaded) ModuleTable() map[string][]byte {
	table := make(map[string][]byte)
	u.walk(func(n *Unloaded) error {
		table[n.name] = n.raw
		return nil
	})
	return table
}

// walk visits the graph post-order: auxiliaries before their dependent.
func (u *Unloaded) walk(fn func(*Unloaded) error) error {
	for _, a := range u.aux {
		if err := a.walk(fn); err != nil {
			return err
		}
	}
	return fn(u)
}

// SaveIn writes every artifact of the graph to dir as <name>.mp. Each file is
// written to a temp sibling and renamed into place, so a crashed save never
// leaves a truncated artifact behind.
func (u *Unloaded) SaveIn(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}
	return u.walk(func(n *Unloaded) error {
		path := filepath.Join(dir, n.name+".mp")
		tmp, err := os.CreateTemp(dir, n.name+".*.tmp")
		if err != nil {
			return fmt.Errorf("save %s: %w", n.name, err)
		}
		tmpName := tmp.Name()
		if _, err := tmp.Write(n.raw); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return fmt.Errorf("save %s: %w", n.name, err)
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("save %s: %w", n.name, err)
		}
		if err := os.Rename(tmpName, path); err != nil {
			os.Remove(tmpName)
			return fmt.Errorf("save %s: %w", n.name, err)
		}
		return nil
	})
}

// LoadingStrategy resolves the namespace a load installs into.
type LoadingStrategy interface {
	Resolve(parent *vm.Namespace) (*vm.Namespace, error)
}

// Loaded is the outcome of loading an artifact graph: live handles installed
// in their namespace, initializers already run.
type Loaded struct {
	Main      *vm.Handle
	Namespace *vm.Namespace
	Handles   map[string]*vm.Handle
}

// New instantiates the main artifact.
func (l *Loaded) New() *vm.Object { return l.Main.New() }

// Load installs the artifact graph into the namespace the strategy resolves,
// links the graph's handles to each other, and runs each artifact's
// initializers exactly once, auxiliaries before their dependent.
func (u *Unloaded) Load(parent *vm.Namespace, strategy LoadingStrategy) (*Loaded, error) {
	ns, err := strategy.Resolve(parent)
	if err != nil {
		return nil, err
	}

	var order []*Unloaded
	u.walk(func(n *Unloaded) error {
		order = append(order, n)
		return nil
	})

	handles := make(map[string]*vm.Handle, len(order))
	for _, n := range order {
		prog, err := emit.Decode(n.name, n.raw)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", n.name, err)
		}
		h, err := vm.NewHandle(prog, ns)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", n.name, err)
		}
		if err := ns.Install(h); err != nil {
			return nil, err
		}
		handles[n.name] = h
	}
	for _, h := range handles {
		h.Link(handles)
	}

	for _, n := range order {
		h := handles[n.name]
		for _, init := range n.inits {
			if err := init.OnLoad(h); err != nil {
				return nil, fmt.Errorf("initialize %s: %w", n.name, err)
			}
		}
		if err := h.MarkInitialized(); err != nil {
			return nil, err
		}
		for _, slot := range h.Program().Slots {
			if _, ok := h.Delegate(slot); !ok {
				return nil, fmt.Errorf("initialize %s: delegate slot %q left empty", n.name, slot)
			}
		}
	}

	return &Loaded{Main: handles[u.name], Namespace: ns, Handles: handles}, nil
}
