package inject

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Function is a helper callable from expression predicates.
type Function func(args ...any) (any, error)

// FunctionRegistry holds the helpers exposed to expression predicates.
//
// Names are trimmed and lowercased, so "HasTag" and "hastag" are the same
// helper and expressions call it as hastag(...). Names that collide with
// the predicate environment (node, active, id, component, attrs, call) are
// rejected, because a helper would otherwise shadow component data.
//
// A registry may be shared between goroutines. Predicates snapshot it at
// compile time through WithPredicateFunctions.
type FunctionRegistry struct {
	mu      sync.RWMutex
	helpers map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{helpers: map[string]Function{}}
}

func functionKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds fn under name. Registering a name twice fails.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := functionKey(name)
	switch {
	case key == "":
		return fmt.Errorf("inject: helper name must not be empty")
	case fn == nil:
		return fmt.Errorf("inject: helper %q is nil", key)
	}
	if _, reserved := reservedEnvNames[key]; reserved {
		return fmt.Errorf("inject: helper %q shadows a predicate variable", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.helpers[key]; taken {
		return fmt.Errorf("inject: helper %q already registered", key)
	}
	if r.helpers == nil {
		r.helpers = map[string]Function{}
	}
	r.helpers[key] = fn
	return nil
}

// Clone snapshots the registry.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{helpers: maps.Clone(r.helpers)}
}

// Call runs the helper registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("inject: no helpers registered")
	}
	key := functionKey(name)
	r.mu.RLock()
	fn, ok := r.helpers[key]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("inject: unknown helper %q", key)
	}
	return fn(args...)
}

// Names lists the helper names in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.helpers))
}
