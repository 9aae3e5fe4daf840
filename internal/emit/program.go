// Package emit defines the serialized form of generated artifacts - dispatch
// programs - and the emitter boundary that turns resolved structural state
// into artifact bytes.
package emit

import "strings"

// Current schema version - increment when the Program format changes.
const SchemaVersion uint16 = 1

// Op selects how a planned method produces its result.
type Op uint8

const (
	OpAbstract  Op = iota // no implementation; invocation is an error
	OpOriginal            // invoke the described body named by Special
	OpFixed               // return Value
	OpStub                // return the zero value of the return type
	OpEvaluated           // run Source, compiled by the loader
	OpDelegate            // call Method on the handler in Slot with Params
	OpForward             // proxy op: forward the captured Special invocation
)

func (o Op) String() string {
	switch o {
	case OpAbstract:
		return "abstract"
	case OpOriginal:
		return "original"
	case OpFixed:
		return "fixed"
	case OpStub:
		return "stub"
	case OpEvaluated:
		return "evaluated"
	case OpDelegate:
		return "delegate"
	case OpForward:
		return "forward"
	default:
		return "op?"
	}
}

// BindKind selects how a single handler parameter is populated at dispatch.
type BindKind uint8

const (
	BindReceiver  BindKind = iota // the instance being invoked
	BindArgument                  // one positional source argument
	BindArguments                 // every source argument as a slice
	BindProxy                     // an instance of the auxiliary named in Proxy
)

// ParamBinding describes one bound handler parameter.
type ParamBinding struct {
	Kind  BindKind
	Index uint32 // for BindArgument
	Proxy string // auxiliary artifact name for BindProxy
}

// Signature is the serialized, fully resolved method signature. Type
// references appear in their canonical string form; the self placeholder
// never survives into a program.
type Signature struct {
	Name   string
	Params []string
	Return string
}

// Erased renders the same canonical form the description layer uses for
// override and default-method matching.
func (s Signature) Erased() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteByte('(')
	b.WriteString(strings.Join(s.Params, ","))
	b.WriteByte(')')
	b.WriteString(s.Return)
	return b.String()
}

// SpecialCall is a resolved, directly invokable reference to one specific
// described implementation: the rebased/super body when Super is set,
// otherwise an interface default implementation.
type SpecialCall struct {
	Owner string
	Sig   Signature
	Super bool
}

// Instruction is the behavior of one planned method.
type Instruction struct {
	Op      Op
	Value   any            `msgpack:",omitempty"` // OpFixed
	Source  string         `msgpack:",omitempty"` // OpEvaluated
	Slot    string         `msgpack:",omitempty"` // OpDelegate
	Method  string         `msgpack:",omitempty"` // OpDelegate: handler method name
	Params  []ParamBinding `msgpack:",omitempty"` // OpDelegate
	Special *SpecialCall   `msgpack:",omitempty"` // OpOriginal, OpForward
}

// Annotation mirrors a described annotation in serialized form.
type Annotation struct {
	Name   string
	Values map[string]string `msgpack:",omitempty"`
}

// MethodPlan is one planned method of a program.
type MethodPlan struct {
	Sig         Signature
	Mods        uint16
	Instr       Instruction
	Annotations []Annotation `msgpack:",omitempty"`
}

// FieldSlot is one field of the generated type.
type FieldSlot struct {
	Name string
	Type string
	Mods uint16
}

// Program is the complete serialized structural state of one artifact.
type Program struct {
	Schema       uint16
	Name         string
	Kind         uint8
	Mods         uint16
	Super        string       `msgpack:",omitempty"`
	Interfaces   []string     `msgpack:",omitempty"`
	Annotations  []Annotation `msgpack:",omitempty"`
	Fields       []FieldSlot  `msgpack:",omitempty"`
	Methods      []MethodPlan
	Slots        []string `msgpack:",omitempty"` // delegate slot names, initializer-filled
	Serializable bool     // persistence marker for auxiliary proxies
}

// PlanByName returns the planned methods with the given name.
func (p *Program) PlanByName(name string) []*MethodPlan {
	var out []*MethodPlan
	for i := range p.Methods {
		if p.Methods[i].Sig.Name == name {
			out = append(out, &p.Methods[i])
		}
	}
	return out
}

// HasSlot reports whether the program declares the delegate slot.
func (p *Program) HasSlot(name string) bool {
	for _, s := range p.Slots {
		if s == name {
			return true
		}
	}
	return false
}
