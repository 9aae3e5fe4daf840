// Package vm executes loaded artifacts: it turns decoded dispatch programs
// into handles and instances whose method calls run described bodies, fixed
// values, evaluated snippets or handler delegations.
package vm

import (
	"fmt"
	"sync"

	"bytebuddy/internal/types"
)

// Namespace is a child-first table of loaded handles over a shared type
// universe. A fresh child namespace shadows its parent the way an isolating
// loader does; installing into an existing namespace is the injection path.
type Namespace struct {
	parent   *Namespace
	universe *types.Universe

	mu      sync.RWMutex
	handles map[string]*Handle
}

// NewNamespace creates a namespace. A nil universe inherits the parent's.
func NewNamespace(parent *Namespace, u *types.Universe) *Namespace {
	if u == nil && parent != nil {
		u = parent.universe
	}
	if u == nil {
		u = types.NewUniverse()
	}
	return &Namespace{
		parent:   parent,
		universe: u,
		handles:  make(map[string]*Handle, 8),
	}
}

// Universe returns the described-type registry backing this namespace.
func (ns *Namespace) Universe() *types.Universe { return ns.universe }

// Install registers a loaded handle. Installing a name that already exists in
// this namespace (not a parent) is an error.
func (ns *Namespace) Install(h *Handle) error {
	if h == nil {
		return fmt.Errorf("namespace: nil handle")
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()
	if _, ok := ns.handles[h.Name()]; ok {
		return fmt.Errorf("namespace: %q already loaded", h.Name())
	}
	ns.handles[h.Name()] = h
	return nil
}

// Lookup finds a handle child-first: this namespace shadows its parents.
func (ns *Namespace) Lookup(name string) (*Handle, bool) {
	ns.mu.RLock()
	h, ok := ns.handles[name]
	ns.mu.RUnlock()
	if ok {
		return h, true
	}
	if ns.parent != nil {
		return ns.parent.Lookup(name)
	}
	return nil, false
}

// Names returns the handle names installed directly in this namespace.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	out := make([]string, 0, len(ns.handles))
	for name := range ns.handles {
		out = append(out, name)
	}
	return out
}
