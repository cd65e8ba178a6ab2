// Package tree is an in-memory node tree satisfying inject.Node. It stands
// in for a real host in tests and examples, and doubles as a reference for
// the enumeration order the resolver expects from a host.
package tree

import "github.com/google/uuid"

// Node is one point of the tree. A node is active by default; it is active
// in the hierarchy only when it and all of its ancestors are active.
type Node struct {
	id         uuid.UUID
	name       string
	active     bool
	parent     *Node
	children   []*Node
	components []any
}

// New constructs an active, detached node.
func New(name string) *Node {
	return &Node{
		id:     uuid.New(),
		name:   name,
		active: true,
	}
}

// ID returns the node's random UUID as a string.
func (n *Node) ID() string {
	return n.id.String()
}

func (n *Node) Name() string {
	return n.name
}

// SetActive toggles the node's own activation flag.
func (n *Node) SetActive(active bool) *Node {
	n.active = active
	return n
}

// ActiveSelf reports the node's own flag, ignoring ancestors.
func (n *Node) ActiveSelf() bool {
	return n.active
}

func (n *Node) ActiveInHierarchy() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.active {
			return false
		}
	}
	return true
}

// Add appends children, detaching them from any previous parent.
func (n *Node) Add(children ...*Node) *Node {
	for _, child := range children {
		if child == nil || child == n {
			continue
		}
		if child.parent != nil {
			child.parent.remove(child)
		}
		child.parent = n
		n.children = append(n.children, child)
	}
	return n
}

// Attach appends components to the node.
func (n *Node) Attach(components ...any) *Node {
	for _, component := range components {
		if component != nil {
			n.components = append(n.components, component)
		}
	}
	return n
}

// Detach removes component from the node and reports whether it was there.
func (n *Node) Detach(component any) bool {
	for i, existing := range n.components {
		if existing == component {
			n.components = append(n.components[:i:i], n.components[i+1:]...)
			return true
		}
	}
	return false
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Find returns the first descendant (or n itself) named name, depth-first.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(true, func(cur *Node) bool {
		if cur.name == name {
			found = cur
			return false
		}
		return true
	})
	return found
}

// Walk visits n and its descendants depth-first, pre-order. Inactive
// subtrees are skipped unless includeInactive is set. Returning false from
// visit stops the walk.
func (n *Node) Walk(includeInactive bool, visit func(*Node) bool) {
	n.walk(includeInactive, visit)
}

func (n *Node) walk(includeInactive bool, visit func(*Node) bool) bool {
	if !includeInactive && !n.active {
		return true
	}
	if !visit(n) {
		return false
	}
	for _, child := range n.children {
		if !child.walk(includeInactive, visit) {
			return false
		}
	}
	return true
}

func (n *Node) Components() []any {
	return append([]any(nil), n.components...)
}

func (n *Node) ComponentsInSubtree(includeInactive bool) []any {
	if !includeInactive && !n.ActiveInHierarchy() {
		return nil
	}
	var out []any
	n.Walk(includeInactive, func(cur *Node) bool {
		out = append(out, cur.components...)
		return true
	})
	return out
}

func (n *Node) ComponentsInAncestors() []any {
	var out []any
	for cur := n; cur != nil; cur = cur.parent {
		out = append(out, cur.components...)
	}
	return out
}

func (n *Node) remove(child *Node) {
	for i, existing := range n.children {
		if existing == child {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			return
		}
	}
}
