package inject

// FindResolver returns the nearest Resolver attached to n or one of its
// ancestors.
func FindResolver(n Node) (*Resolver, error) {
	resolver, ok := ComponentInAncestors[*Resolver](n)
	if !ok || resolver == nil {
		return nil, &ResolutionError{
			Kind:      ErrComponentNotFound,
			Component: typeName[*Resolver](),
			Node:      nodeName(n),
		}
	}
	return resolver, nil
}

// ResolverBinding gives a component access to the resolver serving its part
// of the tree. Embed it and call Bind from the component's setup hook.
type ResolverBinding struct {
	resolver *Resolver
}

// Bind locates the nearest resolver from n upwards. A resolver already bound
// is kept.
func (b *ResolverBinding) Bind(n Node) error {
	if b.resolver != nil {
		return nil
	}
	resolver, err := FindResolver(n)
	if err != nil {
		return err
	}
	b.resolver = resolver
	return nil
}

// Resolver returns the bound resolver, or nil before Bind succeeds.
func (b *ResolverBinding) Resolver() *Resolver {
	if b == nil {
		return nil
	}
	return b.resolver
}
