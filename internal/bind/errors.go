package bind

import "fmt"

// NotAnInterfaceError reports an explicit default-call target that names a
// described class. Unlike an unresolvable implicit lookup, naming a class is
// an authoring error and fails assembly outright.
type NotAnInterfaceError struct {
	Name string
}

func (e *NotAnInterfaceError) Error() string {
	return fmt.Sprintf("default call target %q is not an interface", e.Name)
}

// IncompatibleProxyTypeError reports a proxy marker on a handler parameter
// whose declared type can hold neither proxy capability.
type IncompatibleProxyTypeError struct {
	Method string
	Param  int
	Type   string
}

func (e *IncompatibleProxyTypeError) Error() string {
	return fmt.Sprintf("handler %s parameter %d: %s cannot hold a call proxy", e.Method, e.Param, e.Type)
}

// UnknownMarkerError reports a candidate parameter marker no binder is
// registered for.
type UnknownMarkerError struct {
	Marker string
}

func (e *UnknownMarkerError) Error() string {
	return fmt.Sprintf("no parameter binder registered for marker %s", e.Marker)
}
