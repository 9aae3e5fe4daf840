package dynamic

import (
	"fmt"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
	"bytebuddy/internal/vm"
)

// Target is the materialization context an implementation assembles against:
// the resolved instrumented type, the universe it lives in, and the emitter
// used for auxiliary artifacts.
type Target struct {
	Universe     *types.Universe
	Instrumented *types.Type
	Base         string // described type providing original bodies
	Rebase       bool
	Emitter      emit.Emitter

	auxSeq  int
	slotSeq int
}

// NextAuxiliaryName reserves a deterministic name for an auxiliary artifact.
func (t *Target) NextAuxiliaryName() string {
	name := fmt.Sprintf("%s$auxiliary$%d", t.Instrumented.Name, t.auxSeq)
	t.auxSeq++
	return name
}

// NextSlotName reserves a deterministic delegate slot name.
func (t *Target) NextSlotName() string {
	name := fmt.Sprintf("%s$delegate$%d", t.Instrumented.Name, t.slotSeq)
	t.slotSeq++
	return name
}

// Assembled is the outcome of assembling one behavior binding against one
// matched source method. Valid=false means the binding could not be resolved
// (an expected outcome, not an error): the source method keeps its original
// behavior.
type Assembled struct {
	Valid bool
	Instr emit.Instruction
	Aux   []*Unloaded
	Slots []string
	Inits []Initializer
}

// Invalid is the no-binding outcome.
func Invalid() Assembled { return Assembled{} }

// Implementation supplies the behavior of intercepted methods. Assembling
// must be pure: the same target and source always yield the same result.
type Implementation interface {
	Assemble(t *Target, source *types.Method) (Assembled, error)
}

// Initializer is a post-load callback, invoked exactly once per artifact
// after that artifact's handle becomes available.
type Initializer interface {
	OnLoad(h *vm.Handle) error
}

// DelegateInitializer installs a live handler object into a delegate slot of
// the loaded artifact.
type DelegateInitializer struct {
	Slot  string
	Value any
}

// OnLoad implements Initializer.
func (d DelegateInitializer) OnLoad(h *vm.Handle) error {
	return h.InstallDelegate(d.Slot, d.Value)
}
