package vm

import (
	"fmt"
	"sync"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
)

// Handle is one loaded artifact: a decoded program bound to the namespace it
// was loaded into. Evaluated bodies are compiled once, at load time.
type Handle struct {
	prog *emit.Program
	ns   *Namespace

	linked map[string]*Handle // sibling artifacts of the same load, self included

	mu          sync.Mutex
	slots       map[string]any
	initialized bool

	evaluated map[string]evaluatedBody // erased signature -> compiled body
}

// NewHandle decodes nothing: it links a decoded program into the namespace
// and compiles any evaluated method sources. Compilation failures surface as
// load failures.
func NewHandle(prog *emit.Program, ns *Namespace) (*Handle, error) {
	if prog == nil {
		return nil, fmt.Errorf("vm: nil program")
	}
	h := &Handle{
		prog:      prog,
		ns:        ns,
		linked:    map[string]*Handle{},
		slots:     make(map[string]any, len(prog.Slots)),
		evaluated: map[string]evaluatedBody{},
	}
	h.linked[prog.Name] = h
	for i := range prog.Methods {
		plan := &prog.Methods[i]
		if plan.Instr.Op != emit.OpEvaluated {
			continue
		}
		fn, err := compileBody(plan.Instr.Source)
		if err != nil {
			return nil, fmt.Errorf("vm: %s.%s: %w", prog.Name, plan.Sig.Name, err)
		}
		h.evaluated[plan.Sig.Erased()] = fn
	}
	return h, nil
}

// Name returns the artifact name.
func (h *Handle) Name() string { return h.prog.Name }

// Program exposes the decoded program for inspection.
func (h *Handle) Program() *emit.Program { return h.prog }

// Namespace returns the namespace the handle was loaded into.
func (h *Handle) Namespace() *Namespace { return h.ns }

// Link records the sibling handles of the same load so dispatch can reach
// auxiliary artifacts by name.
func (h *Handle) Link(table map[string]*Handle) {
	for name, sibling := range table {
		h.linked[name] = sibling
	}
}

// Linked resolves a sibling artifact, falling back to the namespace.
func (h *Handle) Linked(name string) (*Handle, bool) {
	if s, ok := h.linked[name]; ok {
		return s, true
	}
	return h.ns.Lookup(name)
}

// InstallDelegate fills a delegate slot. Unknown slots and re-installation
// are contract violations by the initializer driver.
func (h *Handle) InstallDelegate(slot string, v any) error {
	if !h.prog.HasSlot(slot) {
		return fmt.Errorf("vm: %s: unknown delegate slot %q", h.Name(), slot)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.slots[slot]; ok {
		return fmt.Errorf("vm: %s: delegate slot %q already installed", h.Name(), slot)
	}
	h.slots[slot] = v
	return nil
}

// Delegate reads a delegate slot.
func (h *Handle) Delegate(slot string) (any, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.slots[slot]
	return v, ok
}

// MarkInitialized enforces the exactly-once initializer contract.
func (h *Handle) MarkInitialized() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.initialized {
		return fmt.Errorf("vm: %s: initializers already ran", h.Name())
	}
	h.initialized = true
	return nil
}

// New instantiates the loaded type with zeroed field storage.
func (h *Handle) New() *Object {
	fields := make(map[string]any, len(h.prog.Fields))
	for _, f := range h.prog.Fields {
		fields[f.Name] = zeroValue(f.Type)
	}
	return &Object{handle: h, fields: fields}
}

// resolveSpecial finds the described body a special invocation points at.
func resolveSpecial(u *types.Universe, sc *emit.SpecialCall) (types.Body, error) {
	if sc == nil {
		return nil, fmt.Errorf("vm: missing special invocation")
	}
	t, ok := u.Lookup(sc.Owner)
	if !ok {
		return nil, fmt.Errorf("vm: unknown invocation owner %q", sc.Owner)
	}
	m := t.MethodByErased(sc.Sig.Erased())
	if m == nil {
		return nil, fmt.Errorf("vm: %s has no method %s", sc.Owner, sc.Sig.Erased())
	}
	if m.IsAbstract() {
		return nil, fmt.Errorf("vm: %s.%s is abstract", sc.Owner, sc.Sig.Name)
	}
	return m.Body, nil
}

func zeroValue(typeName string) any {
	switch typeName {
	case "string":
		return ""
	case "int":
		return 0
	case "bool":
		return false
	case "float64":
		return 0.0
	case "void":
		return nil
	default:
		return nil
	}
}
