package vm

import (
	"fmt"
	"reflect"
	"sync"

	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
)

// Object is one instance of a loaded type.
type Object struct {
	handle *Handle

	mu     sync.Mutex
	fields map[string]any
}

var _ types.Receiver = (*Object)(nil)

// TypeName returns the loaded type's name.
func (o *Object) TypeName() string { return o.handle.Name() }

// Get reads a field; unknown fields read as nil.
func (o *Object) Get(field string) any {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fields[field]
}

// Set writes a field.
func (o *Object) Set(field string, v any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fields[field] = v
}

// Invoke dispatches a method call by name and arity.
func (o *Object) Invoke(name string, args ...any) (any, error) {
	var plan *emit.MethodPlan
	for _, p := range o.handle.prog.PlanByName(name) {
		if len(p.Sig.Params) == len(args) {
			plan = p
			break
		}
	}
	if plan == nil {
		return o.invokeInherited(name, args)
	}
	return o.dispatch(plan, args)
}

// invokeInherited walks the described supertype chain for methods the program
// does not plan.
func (o *Object) invokeInherited(name string, args []any) (any, error) {
	u := o.handle.ns.Universe()
	for _, t := range u.Chain(o.handle.prog.Super) {
		for _, m := range t.MethodsNamed(name) {
			if len(m.Sig.Params) != len(args) {
				continue
			}
			if m.IsAbstract() {
				return nil, fmt.Errorf("vm: %s.%s is abstract", t.Name, name)
			}
			return m.Body(o, args)
		}
	}
	return nil, fmt.Errorf("vm: %s has no method %s/%d", o.TypeName(), name, len(args))
}

func (o *Object) dispatch(plan *emit.MethodPlan, args []any) (any, error) {
	instr := &plan.Instr
	switch instr.Op {
	case emit.OpAbstract:
		return nil, fmt.Errorf("vm: %s.%s is abstract", o.TypeName(), plan.Sig.Name)
	case emit.OpFixed:
		return instr.Value, nil
	case emit.OpStub:
		return zeroValue(plan.Sig.Return), nil
	case emit.OpOriginal, emit.OpForward:
		body, err := resolveSpecial(o.handle.ns.Universe(), instr.Special)
		if err != nil {
			return nil, err
		}
		return body(o, args)
	case emit.OpEvaluated:
		fn, ok := o.handle.evaluated[plan.Sig.Erased()]
		if !ok {
			return nil, fmt.Errorf("vm: %s.%s: evaluated body not compiled", o.TypeName(), plan.Sig.Name)
		}
		return fn(args)
	case emit.OpDelegate:
		return o.delegate(plan, args)
	default:
		return nil, fmt.Errorf("vm: %s.%s: unsupported op %s", o.TypeName(), plan.Sig.Name, instr.Op)
	}
}

// delegate calls the handler installed in the instruction's slot, populating
// its parameters per the recorded bindings.
func (o *Object) delegate(plan *emit.MethodPlan, args []any) (any, error) {
	instr := &plan.Instr
	handler, ok := o.handle.Delegate(instr.Slot)
	if !ok {
		return nil, fmt.Errorf("vm: %s: delegate slot %q not installed", o.TypeName(), instr.Slot)
	}
	m := reflect.ValueOf(handler).MethodByName(instr.Method)
	if !m.IsValid() {
		return nil, fmt.Errorf("vm: handler in %q has no method %s", instr.Slot, instr.Method)
	}
	mt := m.Type()
	if mt.NumIn() != len(instr.Params) {
		return nil, fmt.Errorf("vm: %s: handler %s wants %d arguments, %d bound",
			o.TypeName(), instr.Method, mt.NumIn(), len(instr.Params))
	}
	in := make([]reflect.Value, mt.NumIn())
	for i, binding := range instr.Params {
		bound, err := o.bindParam(&binding, plan, args)
		if err != nil {
			return nil, err
		}
		rv, err := coerce(bound, mt.In(i))
		if err != nil {
			return nil, fmt.Errorf("vm: %s.%s parameter %d: %w", o.TypeName(), plan.Sig.Name, i, err)
		}
		in[i] = rv
	}
	return mapResults(m.Call(in))
}

func (o *Object) bindParam(b *emit.ParamBinding, plan *emit.MethodPlan, args []any) (any, error) {
	switch b.Kind {
	case emit.BindReceiver:
		return o, nil
	case emit.BindArgument:
		if int(b.Index) >= len(args) {
			return nil, fmt.Errorf("vm: bound argument %d out of range", b.Index)
		}
		return args[b.Index], nil
	case emit.BindArguments:
		return args, nil
	case emit.BindProxy:
		aux, ok := o.handle.Linked(b.Proxy)
		if !ok {
			return nil, fmt.Errorf("vm: auxiliary artifact %q not loaded", b.Proxy)
		}
		return NewProxy(aux, o, args), nil
	default:
		return nil, fmt.Errorf("vm: unsupported binding kind %d", b.Kind)
	}
}

func coerce(v any, target reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(target), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(target) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(target) {
		return rv.Convert(target), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot pass %s as %s", rv.Type(), target)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// mapResults folds a reflective call result into the engine's (value, error)
// shape: a trailing error return is split off, a sole value passes through.
func mapResults(out []reflect.Value) (any, error) {
	if len(out) == 0 {
		return nil, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(errType) {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		if len(out) == 1 {
			return nil, err
		}
		return out[0].Interface(), err
	}
	return out[0].Interface(), nil
}
