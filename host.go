package inject

// Node is the host tree contract consumed by the resolver and the broadcaster.
// Implementations own traversal, activation state and component storage;
// this package only observes them. Enumeration order must be stable across
// repeated calls while the tree is not mutated.
type Node interface {
	Name() string
	ActiveInHierarchy() bool
	// Components returns the components attached to this node only.
	Components() []any
	// ComponentsInSubtree returns the components of this node followed by
	// those of its descendants in depth-first pre-order. Inactive subtrees
	// are skipped unless includeInactive is set.
	ComponentsInSubtree(includeInactive bool) []any
	// ComponentsInAncestors returns the components of this node followed by
	// those of its parent, grandparent and so on.
	ComponentsInAncestors() []any
}

// Attached is implemented by components that know the node hosting them.
type Attached interface {
	Node() Node
}

// Attributed exposes component data to expression predicates.
type Attributed interface {
	Attributes() map[string]any
}

type identifiedNode interface {
	ID() string
}

// ComponentsInSubtree returns every component of type T under n, n included.
func ComponentsInSubtree[T any](n Node, includeInactive bool) []T {
	if n == nil {
		return nil
	}
	return filterComponents[T](n.ComponentsInSubtree(includeInactive))
}

// ComponentInAncestors returns the nearest component of type T on n or its
// ancestors.
func ComponentInAncestors[T any](n Node) (T, bool) {
	var zero T
	if n == nil {
		return zero, false
	}
	for _, component := range n.ComponentsInAncestors() {
		if typed, ok := component.(T); ok {
			return typed, true
		}
	}
	return zero, false
}

// ComponentsOn returns the components of type T attached directly to n.
func ComponentsOn[T any](n Node) []T {
	if n == nil {
		return nil
	}
	return filterComponents[T](n.Components())
}

func filterComponents[T any](components []any) []T {
	if len(components) == 0 {
		return nil
	}
	out := make([]T, 0, len(components))
	for _, component := range components {
		if typed, ok := component.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

func nodeName(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.Name()
}

func nodeID(n Node) string {
	if identified, ok := n.(identifiedNode); ok {
		return identified.ID()
	}
	return ""
}
