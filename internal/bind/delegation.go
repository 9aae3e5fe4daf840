package bind

import (
	"errors"
	"fmt"
	"reflect"

	"bytebuddy/internal/dynamic"
	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
)

type candidate struct {
	method  string
	markers []any
}

// Delegation implements intercepted methods by calling a method on a live
// handler value. Candidates are tried in registration order; the first one
// whose every parameter binds wins. A candidate whose markers cannot all be
// satisfied is skipped quietly; when no candidate binds the whole assembly
// resolves to invalid and the source method keeps its original behavior.
type Delegation struct {
	handler    any
	registry   *Registry
	candidates []candidate
}

// To starts a delegation to the handler value.
func To(handler any) *Delegation {
	return &Delegation{handler: handler, registry: NewRegistry()}
}

// WithRegistry swaps the marker registry, keeping the built-ins unless the
// registry was built without them.
func (d *Delegation) WithRegistry(r *Registry) *Delegation {
	nd := d.clone()
	nd.registry = r
	return nd
}

// Candidate adds a handler method with one marker per parameter.
func (d *Delegation) Candidate(method string, markers ...any) *Delegation {
	nd := d.clone()
	nd.candidates = append(nd.candidates, candidate{method: method, markers: markers})
	return nd
}

func (d *Delegation) clone() *Delegation {
	return &Delegation{
		handler:    d.handler,
		registry:   d.registry,
		candidates: append([]candidate(nil), d.candidates...),
	}
}

// Assemble implements dynamic.Implementation.
func (d *Delegation) Assemble(t *dynamic.Target, source *types.Method) (dynamic.Assembled, error) {
	if d.handler == nil {
		return dynamic.Invalid(), fmt.Errorf("delegation: nil handler")
	}
	hv := reflect.ValueOf(d.handler)
	var capabilityErr error
	for _, c := range d.candidates {
		m := hv.MethodByName(c.method)
		if !m.IsValid() {
			return dynamic.Invalid(), fmt.Errorf("delegation: handler %T has no method %s", d.handler, c.method)
		}
		mt := m.Type()
		if mt.NumIn() != len(c.markers) {
			return dynamic.Invalid(), fmt.Errorf("delegation: %s takes %d parameters, %d markers given",
				c.method, mt.NumIn(), len(c.markers))
		}

		params := make([]emit.ParamBinding, 0, len(c.markers))
		var aux []*dynamic.Unloaded
		bound := true
		for i, marker := range c.markers {
			b, err := d.registry.bind(BindContext{
				Target: t,
				Source: source,
				Method: c.method,
				Index:  i,
				Param:  mt.In(i),
			}, marker)
			var ipte *IncompatibleProxyTypeError
			if errors.As(err, &ipte) {
				// Fatal for this candidate only; surfaced if nothing else binds.
				capabilityErr = err
				bound = false
				break
			}
			if err != nil {
				return dynamic.Invalid(), err
			}
			if !b.Bound {
				bound = false
				break
			}
			params = append(params, b.Param)
			aux = append(aux, b.Aux...)
		}
		if !bound {
			continue
		}

		slot := t.NextSlotName()
		return dynamic.Assembled{
			Valid: true,
			Instr: emit.Instruction{
				Op:     emit.OpDelegate,
				Slot:   slot,
				Method: c.method,
				Params: params,
			},
			Aux:   aux,
			Slots: []string{slot},
			Inits: []dynamic.Initializer{dynamic.DelegateInitializer{Slot: slot, Value: d.handler}},
		}, nil
	}
	if capabilityErr != nil {
		return dynamic.Invalid(), capabilityErr
	}
	return dynamic.Invalid(), nil
}
