package bind

import (
	"fmt"
	"reflect"

	"bytebuddy/internal/dynamic"
	"bytebuddy/internal/emit"
	"bytebuddy/internal/types"
)

// BindContext carries what a parameter binder may consult: the
// materialization target, the intercepted source method, and the declared
// type of the handler parameter being bound.
type BindContext struct {
	Target *dynamic.Target
	Source *types.Method
	Method string
	Index  int
	Param  reflect.Type
}

// Binding is one bound handler parameter. Bound=false means the marker could
// not be satisfied for this source method; the containing candidate is then
// excluded without error.
type Binding struct {
	Bound bool
	Param emit.ParamBinding
	Aux   []*dynamic.Unloaded
}

// Unbound is the quiet-failure outcome.
func Unbound() Binding { return Binding{} }

// ParameterBinder resolves one marker kind against an intercepted call.
type ParameterBinder interface {
	Bind(ctx BindContext, marker any) (Binding, error)
}

// Registry maps marker types to their binders. The zero registry is unusable;
// NewRegistry carries the built-in markers.
type Registry struct {
	binders map[reflect.Type]ParameterBinder
}

// NewRegistry returns a registry with every built-in marker installed.
func NewRegistry() *Registry {
	r := &Registry{binders: make(map[reflect.Type]ParameterBinder, 8)}
	r.binders[reflect.TypeOf(This{})] = thisBinder{}
	r.binders[reflect.TypeOf(Argument{})] = argumentBinder{}
	r.binders[reflect.TypeOf(AllArguments{})] = allArgumentsBinder{}
	r.binders[reflect.TypeOf(SuperCall{})] = superCallBinder{}
	r.binders[reflect.TypeOf(DefaultCall{})] = defaultCallBinder{}
	return r
}

// Register installs a binder for a custom marker type. Re-registering a
// marker is an error; the built-ins cannot be replaced.
func (r *Registry) Register(marker any, b ParameterBinder) error {
	mt := reflect.TypeOf(marker)
	if _, ok := r.binders[mt]; ok {
		return fmt.Errorf("marker %s already registered", mt)
	}
	r.binders[mt] = b
	return nil
}

func (r *Registry) bind(ctx BindContext, marker any) (Binding, error) {
	b, ok := r.binders[reflect.TypeOf(marker)]
	if !ok {
		return Unbound(), &UnknownMarkerError{Marker: fmt.Sprintf("%T", marker)}
	}
	return b.Bind(ctx, marker)
}

type thisBinder struct{}

func (thisBinder) Bind(BindContext, any) (Binding, error) {
	return Binding{Bound: true, Param: emit.ParamBinding{Kind: emit.BindReceiver}}, nil
}

type argumentBinder struct{}

func (argumentBinder) Bind(ctx BindContext, marker any) (Binding, error) {
	arg := marker.(Argument)
	idx, err := emit.ArgumentIndex(arg.Index)
	if err != nil {
		return Unbound(), err
	}
	if arg.Index >= len(ctx.Source.Sig.Params) {
		// The source method has no such argument; the candidate is excluded.
		return Unbound(), nil
	}
	return Binding{Bound: true, Param: emit.ParamBinding{Kind: emit.BindArgument, Index: idx}}, nil
}

type allArgumentsBinder struct{}

func (allArgumentsBinder) Bind(BindContext, any) (Binding, error) {
	return Binding{Bound: true, Param: emit.ParamBinding{Kind: emit.BindArguments}}, nil
}

type superCallBinder struct{}

func (superCallBinder) Bind(ctx BindContext, marker any) (Binding, error) {
	sc := marker.(SuperCall)
	if err := checkProxyParam(ctx.Method, ctx.Index, ctx.Param); err != nil {
		return Unbound(), err
	}
	invocation := LocateSuper(ctx.Target, ctx.Source)
	if !invocation.Valid() {
		return Unbound(), nil
	}
	aux, err := synthesizeProxy(ctx.Target, invocation.Call(), sc.Serializable)
	if err != nil {
		return Unbound(), err
	}
	return Binding{
		Bound: true,
		Param: emit.ParamBinding{Kind: emit.BindProxy, Proxy: aux.Name()},
		Aux:   []*dynamic.Unloaded{aux},
	}, nil
}

type defaultCallBinder struct{}

func (defaultCallBinder) Bind(ctx BindContext, marker any) (Binding, error) {
	dc := marker.(DefaultCall)
	if err := checkProxyParam(ctx.Method, ctx.Index, ctx.Param); err != nil {
		return Unbound(), err
	}
	var invocation SpecialInvocation
	if dc.Target == "" {
		invocation = LocateDefault(ctx.Target, ctx.Source)
	} else {
		var err error
		invocation, err = LocateDefaultIn(ctx.Target, ctx.Source, dc.Target)
		if err != nil {
			return Unbound(), err
		}
	}
	if !invocation.Valid() {
		return Unbound(), nil
	}
	aux, err := synthesizeProxy(ctx.Target, invocation.Call(), dc.Serializable)
	if err != nil {
		return Unbound(), err
	}
	return Binding{
		Bound: true,
		Param: emit.ParamBinding{Kind: emit.BindProxy, Proxy: aux.Name()},
		Aux:   []*dynamic.Unloaded{aux},
	}, nil
}
