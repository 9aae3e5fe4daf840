// Package bind resolves handler delegation: candidate handler methods are
// matched against intercepted source methods by binding each handler
// parameter through a marker, with call proxies synthesized as auxiliary
// artifacts where a marker asks for one.
package bind

// This binds the intercepted instance itself.
type This struct{}

// Argument binds one positional argument of the intercepted call.
type Argument struct {
	Index int
}

// AllArguments binds every argument of the intercepted call as a slice.
type AllArguments struct{}

// SuperCall binds a proxy forwarding to the original body the generated type
// replaced. On a subclass build it forwards to the supertype's body. The
// binding fails quietly when no such body exists.
type SuperCall struct {
	Serializable bool
}

// DefaultCall binds a proxy forwarding to an interface default
// implementation. With an empty Target the implementation is located
// implicitly: exactly one implemented interface must default the source
// method, otherwise the binding fails quietly. A named Target must be an
// interface; naming anything else fails assembly.
type DefaultCall struct {
	Target       string
	Serializable bool
}
