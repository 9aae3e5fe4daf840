// Package loading provides the namespace strategies artifacts load under and
// a loader for artifact directories written by SaveIn.
package loading

import (
	"fmt"

	"bytebuddy/internal/vm"
)

// Strategy resolves the namespace a load installs into.
type Strategy interface {
	Resolve(parent *vm.Namespace) (*vm.Namespace, error)
}

// Wrapper loads into a fresh child namespace. Loaded names shadow the parent
// child-first and never leak into it, so repeated loads of the same artifact
// graph cannot collide.
type Wrapper struct{}

// Resolve implements the strategy.
func (Wrapper) Resolve(parent *vm.Namespace) (*vm.Namespace, error) {
	return vm.NewNamespace(parent, nil), nil
}

// Injection loads directly into the given namespace: loaded names become
// visible to everything sharing it, and a name collision fails the load.
type Injection struct{}

// Resolve implements the strategy.
func (Injection) Resolve(parent *vm.Namespace) (*vm.Namespace, error) {
	if parent == nil {
		return nil, fmt.Errorf("loading: injection needs an existing namespace")
	}
	return parent, nil
}
