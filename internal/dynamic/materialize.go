package dynamic

import (
	"fmt"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/observ"
	"bytebuddy/internal/types"
)

// buildPhase tracks the materializer state machine. Transitions are strictly
// forward; a sealed materializer never accepts further structural changes.
type buildPhase uint8

const (
	phaseAccumulating buildPhase = iota
	phaseResolving
	phaseEmitting
	phaseSealed
)

func (p buildPhase) String() string {
	switch p {
	case phaseAccumulating:
		return "accumulating"
	case phaseResolving:
		return "resolving"
	case phaseEmitting:
		return "emitting"
	case phaseSealed:
		return "sealed"
	default:
		return "phase?"
	}
}

// member is one entry of the resolved member set bindings match against.
type member struct {
	m           *types.Method
	originOwner string // described type whose body backs the member; "" if none
	ownerIsType bool   // origin is a class body (super-call reachable)
	ignored     bool   // invisible to bindings, still planned with its original behavior
}

// Make materializes the builder's accumulated state into a sealed artifact
// graph. Make is pure with respect to the builder: the builder stays usable
// and repeated calls on the same state produce identical artifacts.
func (b *Builder) Make() (*Unloaded, error) {
	return b.MakeWith(emit.DefaultEmitter(), nil)
}

// MakeWith materializes with an explicit emitter and optional phase timer.
func (b *Builder) MakeWith(em emit.Emitter, tm *observ.Timer) (*Unloaded, error) {
	m := &materializer{b: b, em: em, tm: tm}
	return m.run()
}

type materializer struct {
	b     *Builder
	em    emit.Emitter
	tm    *observ.Timer
	phase buildPhase
}

func (m *materializer) advance(to buildPhase) error {
	if m.phase >= phaseSealed {
		return &ContractViolationError{Op: "materialize:" + to.String()}
	}
	m.phase = to
	return nil
}

func (m *materializer) run() (*Unloaded, error) {
	b := m.b

	if err := m.advance(phaseResolving); err != nil {
		return nil, err
	}
	idx := observ.BeginPhase(m.tm, "resolve")
	concrete := b.concreteName()
	baseType := b.universe.MustLookup(b.base)

	super := b.base
	var inherited []string
	if b.rebase {
		super = baseType.Super
		inherited = baseType.Interfaces
	}
	inst := NewInstrumentedType(concrete, types.KindClass, b.mods, super, append(append([]string(nil), inherited...), b.interfaces...))
	for _, a := range b.annotations {
		if err := inst.Annotate(a); err != nil {
			return nil, err
		}
	}

	// Single resolution pass: every token is resolved here, before any
	// matcher or the emitter reads its types.
	resolvedFields := make([]types.Field, len(b.fields))
	for i, tok := range b.fields {
		resolvedFields[i] = tok.Resolve(concrete)
		if err := inst.WithField(resolvedFields[i]); err != nil {
			return nil, err
		}
	}
	resolvedMethods := make([]*types.Method, len(b.methods))
	for i, tok := range b.methods {
		resolvedMethods[i] = tok.Resolve(concrete)
		if err := inst.WithMethod(resolvedMethods[i]); err != nil {
			return nil, err
		}
	}

	members := m.memberSet(resolvedMethods)
	observ.EndPhase(m.tm, idx, fmt.Sprintf("%d members", len(members)))

	idx = observ.BeginPhase(m.tm, "bind")
	target := &Target{
		Universe:     b.universe,
		Instrumented: inst.Description(),
		Base:         b.base,
		Rebase:       b.rebase,
		Emitter:      m.em,
	}

	type plannedBinding struct {
		asm         Assembled
		annotations []types.Annotation
	}
	planned := make(map[int]plannedBinding)
	var aux []*Unloaded
	var slots []string
	var inits []Initializer

	for bi, bd := range b.bindings {
		matcher := bd.latent.Manifest(concrete)
		var hits []int
		for mi := range members {
			if members[mi].ignored {
				continue
			}
			if _, taken := planned[mi]; taken {
				// First-registered binding won this member already.
				continue
			}
			if matcher.Matches(members[mi].m) {
				hits = append(hits, mi)
			}
		}
		switch {
		case len(hits) > 1:
			names := make([]string, len(hits))
			for i, mi := range hits {
				names[i] = members[mi].m.Sig.Erased()
			}
			return nil, &ConflictingBindingError{Binding: bi, Members: names}
		case len(hits) == 0:
			if b.strict {
				return nil, &UnmatchedBindingError{Binding: bi}
			}
			continue
		}
		mi := hits[0]
		asm, err := bd.impl.Assemble(target, members[mi].m)
		if err != nil {
			return nil, err
		}
		if !asm.Valid {
			// Resolution declined; the member keeps its original behavior
			// and stays available to later bindings.
			continue
		}
		planned[mi] = plannedBinding{asm: asm, annotations: bd.annotations}
		aux = append(aux, asm.Aux...)
		slots = append(slots, asm.Slots...)
		inits = append(inits, asm.Inits...)
	}
	observ.EndPhase(m.tm, idx, fmt.Sprintf("%d bindings", len(planned)))

	if err := m.advance(phaseEmitting); err != nil {
		return nil, err
	}
	idx = observ.BeginPhase(m.tm, "emit")
	prog := &emit.Program{
		Schema:      emit.SchemaVersion,
		Name:        concrete,
		Kind:        uint8(types.KindClass),
		Mods:        uint16(b.mods),
		Super:       super,
		Interfaces:  inst.Description().Interfaces,
		Annotations: annotationsToEmit(b.annotations),
		Slots:       slots,
	}
	for _, f := range b.universe.FlattenFields(b.base) {
		prog.Fields = append(prog.Fields, emit.FieldSlot{Name: f.Name, Type: f.Type.String(), Mods: uint16(f.Mods)})
	}
	for _, f := range resolvedFields {
		prog.Fields = append(prog.Fields, emit.FieldSlot{Name: f.Name, Type: f.Type.String(), Mods: uint16(f.Mods)})
	}
	for mi := range members {
		mem := members[mi]
		plan := emit.MethodPlan{
			Sig:         signatureToEmit(mem.m.Sig),
			Mods:        uint16(mem.m.Mods),
			Annotations: annotationsToEmit(mem.m.Annotations),
		}
		if pb, ok := planned[mi]; ok {
			plan.Instr = pb.asm.Instr
			plan.Annotations = append(plan.Annotations, annotationsToEmit(pb.annotations)...)
		} else if mem.originOwner != "" {
			plan.Instr = emit.Instruction{
				Op: emit.OpOriginal,
				Special: &emit.SpecialCall{
					Owner: mem.originOwner,
					Sig:   signatureToEmit(mem.m.Sig),
					Super: mem.ownerIsType,
				},
			}
		} else {
			plan.Instr = emit.Instruction{Op: emit.OpAbstract}
		}
		prog.Methods = append(prog.Methods, plan)
	}

	raw, err := m.em.Emit(prog)
	if err != nil {
		return nil, err
	}
	observ.EndPhase(m.tm, idx, fmt.Sprintf("%d bytes, %d auxiliaries", len(raw), len(aux)))

	if err := m.advance(phaseSealed); err != nil {
		return nil, err
	}
	inst.Seal()
	return NewUnloaded(concrete, raw, inits, aux), nil
}

// concreteName fixes the instrumented type's name: an explicit name wins, a
// rebase keeps the base name, a subclass derives one.
func (b *Builder) concreteName() string {
	if b.name != "" {
		return b.name
	}
	if b.rebase {
		return b.base
	}
	return b.base + "$subclass"
}

// memberSet assembles the resolved member set: described members of the base
// chain and implemented interfaces, then token methods, with token signatures
// overriding described ones and the exclusion matcher applied throughout.
func (m *materializer) memberSet(tokenMethods []*types.Method) []member {
	b := m.b
	byErased := make(map[string]int)
	var members []member

	for _, om := range b.universe.FlattenMethods(b.base, b.interfaces...) {
		origin := ""
		ownerIsType := false
		if !om.Method.IsAbstract() {
			origin = om.Owner
			if t, ok := b.universe.Lookup(om.Owner); ok {
				ownerIsType = !t.IsInterface()
			}
		}
		byErased[om.Method.Sig.Erased()] = len(members)
		members = append(members, member{
			m:           om.Method,
			originOwner: origin,
			ownerIsType: ownerIsType,
			ignored:     b.ignored != nil && b.ignored.Matches(om.Method),
		})
	}
	for _, tm := range tokenMethods {
		erased := tm.Sig.Erased()
		if i, ok := byErased[erased]; ok {
			// A token redefines a described member; the described body stays
			// reachable as the member's origin.
			members[i].m = tm
			continue
		}
		byErased[erased] = len(members)
		members = append(members, member{
			m:       tm,
			ignored: b.ignored != nil && b.ignored.Matches(tm),
		})
	}
	return members
}

func signatureToEmit(s types.Signature) emit.Signature {
	out := emit.Signature{Name: s.Name, Return: s.Return.String()}
	for _, p := range s.Params {
		out.Params = append(out.Params, p.String())
	}
	return out
}

func annotationsToEmit(in []types.Annotation) []emit.Annotation {
	var out []emit.Annotation
	for _, a := range in {
		out = append(out, emit.Annotation{Name: a.Name, Values: a.Values})
	}
	return out
}
