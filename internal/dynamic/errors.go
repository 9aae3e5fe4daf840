package dynamic

import (
	"fmt"
	"strings"
)

// DuplicateMemberError reports a field or method token colliding with an
// already-recorded token of the same kind. Raised at the defining call, never
// deferred to materialization.
type DuplicateMemberError struct {
	Kind      string // "field" or "method"
	Name      string
	Signature string // for methods
}

func (e *DuplicateMemberError) Error() string {
	if e.Signature != "" {
		return fmt.Sprintf("duplicate %s token %s", e.Kind, e.Signature)
	}
	return fmt.Sprintf("duplicate %s token %q", e.Kind, e.Name)
}

// ConflictingBindingError reports a behavior binding whose matcher selected
// more than one member - a structural ambiguity in the authored builder.
type ConflictingBindingError struct {
	Binding int
	Members []string
}

func (e *ConflictingBindingError) Error() string {
	return fmt.Sprintf("binding %d matches %d members (%s); bindings must be unambiguous",
		e.Binding, len(e.Members), strings.Join(e.Members, ", "))
}

// UnmatchedBindingError reports a binding that matched no member. Only raised
// by builders in strict mode; the default contract treats such bindings as
// silent no-ops.
type UnmatchedBindingError struct {
	Binding int
}

func (e *UnmatchedBindingError) Error() string {
	return fmt.Sprintf("binding %d matches no member of the instrumented type", e.Binding)
}

// ContractViolationError reports structural mutation attempted after the
// materializer sealed. This is a programming error by the caller, never
// retried.
type ContractViolationError struct {
	Op string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("%s: instrumented type is sealed", e.Op)
}
