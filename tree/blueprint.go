package tree

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKind reports a blueprint component without a registered factory.
var ErrUnknownKind = errors.New("tree: unknown component kind")

// Blueprint describes a node tree declaratively:
//
//	name: car
//	components:
//	  - kind: engine
//	children:
//	  - name: left-wheel
//	    active: false
//	    components:
//	      - kind: wheel
//	        args: {side: left}
type Blueprint struct {
	Name       string          `yaml:"name"`
	Active     *bool           `yaml:"active,omitempty"`
	Components []ComponentSpec `yaml:"components,omitempty"`
	Children   []Blueprint     `yaml:"children,omitempty"`
}

// ComponentSpec names a component kind and its constructor arguments.
type ComponentSpec struct {
	Kind string         `yaml:"kind"`
	Args map[string]any `yaml:"args,omitempty"`
}

// Factory builds the component for spec on node. The node is already part
// of the tree, so factories may keep a reference to it.
type Factory func(node *Node, args map[string]any) (any, error)

// ParseBlueprint decodes a YAML blueprint.
func ParseBlueprint(data []byte) (Blueprint, error) {
	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return Blueprint{}, fmt.Errorf("tree: parse blueprint: %w", err)
	}
	if bp.Name == "" {
		return Blueprint{}, fmt.Errorf("tree: blueprint root must be named")
	}
	return bp, nil
}

// Build instantiates bp. Components are created parent first, in declaration
// order, which is also the order ComponentsInSubtree reports them.
func Build(bp Blueprint, factories map[string]Factory) (*Node, error) {
	return build(bp, nil, factories)
}

func build(bp Blueprint, parent *Node, factories map[string]Factory) (*Node, error) {
	node := New(bp.Name)
	if bp.Active != nil {
		node.SetActive(*bp.Active)
	}
	if parent != nil {
		parent.Add(node)
	}
	for _, spec := range bp.Components {
		factory, ok := factories[spec.Kind]
		if !ok || factory == nil {
			return nil, fmt.Errorf("%w: %q on node %q", ErrUnknownKind, spec.Kind, bp.Name)
		}
		component, err := factory(node, spec.Args)
		if err != nil {
			return nil, fmt.Errorf("tree: build %q on node %q: %w", spec.Kind, bp.Name, err)
		}
		node.Attach(component)
	}
	for _, child := range bp.Children {
		if _, err := build(child, node, factories); err != nil {
			return nil, err
		}
	}
	return node, nil
}
