package bind

import (
	"fmt"
	"reflect"

	"bytebuddy/internal/dynamic"
	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
	"bytebuddy/internal/vm"
)

var (
	callableType = reflect.TypeOf((*vm.Callable)(nil)).Elem()
	runnableType = reflect.TypeOf((*vm.Runnable)(nil)).Elem()
)

// checkProxyParam verifies the handler parameter can hold a call proxy: the
// value-returning capability, the void capability, or an empty interface.
func checkProxyParam(method string, index int, param reflect.Type) error {
	if param == callableType || param == runnableType {
		return nil
	}
	if param.Kind() == reflect.Interface && param.NumMethod() == 0 {
		return nil
	}
	return &IncompatibleProxyTypeError{Method: method, Param: index, Type: param.String()}
}

// synthesizeProxy emits the auxiliary forwarding artifact for one resolved
// special invocation and returns it with its reserved name.
func synthesizeProxy(t *dynamic.Target, call emit.SpecialCall, serializable bool) (*dynamic.Unloaded, error) {
	name := t.NextAuxiliaryName()
	prog := &emit.Program{
		Name: name,
		Kind: uint8(types.KindClass),
		Mods: uint16(types.Synthetic),
		Methods: []emit.MethodPlan{{
			Sig:   call.Sig,
			Instr: emit.Instruction{Op: emit.OpForward, Special: &call},
		}},
		Serializable: serializable,
	}
	raw, err := t.Emitter.Emit(prog)
	if err != nil {
		return nil, fmt.Errorf("synthesize proxy %s: %w", name, err)
	}
	return dynamic.NewUnloaded(name, raw, nil, nil), nil
}
