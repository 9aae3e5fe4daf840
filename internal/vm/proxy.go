package vm

import (
	"fmt"

	"bytebuddy/internal/emit"
)

// Callable is the value-returning capability a proxy parameter may declare.
type Callable interface {
	Call() (any, error)
}

// Runnable is the void capability a proxy parameter may declare.
type Runnable interface {
	Run() error
}

// Proxy is an instance of an auxiliary forwarding artifact, bound to the
// receiver and arguments of the intercepted call. It satisfies both proxy
// capabilities; which one the handler sees depends on its declared parameter.
type Proxy struct {
	handle *Handle
	recv   *Object
	args   []any
}

var (
	_ Callable = (*Proxy)(nil)
	_ Runnable = (*Proxy)(nil)
)

// NewProxy binds an auxiliary handle to one intercepted invocation.
func NewProxy(h *Handle, recv *Object, args []any) *Proxy {
	return &Proxy{handle: h, recv: recv, args: args}
}

func (p *Proxy) forwardPlan() (*emit.MethodPlan, error) {
	for i := range p.handle.prog.Methods {
		plan := &p.handle.prog.Methods[i]
		if plan.Instr.Op == emit.OpForward {
			return plan, nil
		}
	}
	return nil, fmt.Errorf("vm: %s carries no forwarding plan", p.handle.Name())
}

// Call forwards to the captured special invocation and returns its value.
func (p *Proxy) Call() (any, error) {
	plan, err := p.forwardPlan()
	if err != nil {
		return nil, err
	}
	body, err := resolveSpecial(p.handle.ns.Universe(), plan.Instr.Special)
	if err != nil {
		return nil, err
	}
	return body(p.recv, p.args)
}

// Run forwards to the captured special invocation, discarding its value.
func (p *Proxy) Run() error {
	_, err := p.Call()
	return err
}

// Serializable reports whether the proxy carries the persistence marker.
func (p *Proxy) Serializable() bool { return p.handle.prog.Serializable }

// Snapshot re-encodes the proxy's program for cross-process persistence.
// Proxies without the persistence marker refuse.
func (p *Proxy) Snapshot() ([]byte, error) {
	if !p.Serializable() {
		return nil, fmt.Errorf("vm: %s is not marked serializable", p.handle.Name())
	}
	return emit.DefaultEmitter().Emit(p.handle.prog)
}
