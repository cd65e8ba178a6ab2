package inject

import "time"

// Resolver answers typed, optionally filtered component queries against the
// subtree of one node and memoizes the results per (type, predicate) pair.
// Cached entries are never invalidated when the tree changes; callers that
// mutate the tree after resolving should pass UseCache(false).
//
// A Resolver is owned by its node and is not safe for concurrent use.
type Resolver struct {
	root   Node
	name   string
	cache  resolutionCache
	logger ResolveLogger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithResolveLogger attaches a logger invoked once per resolve call.
func WithResolveLogger(logger ResolveLogger) ResolverOption {
	return func(r *Resolver) {
		if logger == nil {
			r.logger = noopLogger{}
			return
		}
		r.logger = logger
	}
}

// WithResolverName overrides the node name reported in errors and logs.
func WithResolverName(name string) ResolverOption {
	return func(r *Resolver) {
		r.name = name
	}
}

// NewResolver constructs a Resolver over the subtree rooted at root.
func NewResolver(root Node, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		root:   root,
		name:   nodeName(root),
		cache:  resolutionCache{},
		logger: noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Root returns the node whose subtree the resolver queries.
func (r *Resolver) Root() Node {
	if r == nil {
		return nil
	}
	return r.root
}

// Len returns the number of cached entries.
func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.cache)
}

// ResolveAll returns every component of type T in the resolver's subtree that
// satisfies pred, in host enumeration order. pred may be nil.
func ResolveAll[T any](r *Resolver, pred *Predicate[T], opts ...ResolveOption) ([]T, error) {
	return resolve(r, pred, PolicyNone, opts)
}

// ResolveWithPolicy is ResolveAll followed by validation against policy.
func ResolveWithPolicy[T any](r *Resolver, pred *Predicate[T], policy ValidationPolicy, opts ...ResolveOption) ([]T, error) {
	return resolve(r, pred, policy, opts)
}

// ResolveExactlyOne returns the single matching component. It fails with
// ErrComponentNotFound on no match and ErrExcessComponents on several.
func ResolveExactlyOne[T any](r *Resolver, pred *Predicate[T], opts ...ResolveOption) (T, error) {
	var zero T
	found, err := resolve(r, pred, PolicyAll, opts)
	if err != nil {
		return zero, err
	}
	return found[0], nil
}

// ResolveOrDefault returns the matching component if there is one. Absence
// is not an error; more than one match fails with ErrExcessComponents.
func ResolveOrDefault[T any](r *Resolver, pred *Predicate[T], opts ...ResolveOption) (T, bool, error) {
	var zero T
	found, err := resolve(r, pred, ForbidMultiple, opts)
	if err != nil {
		return zero, false, err
	}
	if len(found) == 0 {
		return zero, false, nil
	}
	return found[0], true, nil
}

// Exists reports whether at least one component matches.
func Exists[T any](r *Resolver, pred *Predicate[T], opts ...ResolveOption) (bool, error) {
	found, err := resolve(r, pred, PolicyNone, opts)
	if err != nil {
		return false, err
	}
	return len(found) > 0, nil
}

// ExistsWithResult reports whether a component matches and returns the first
// match from the same traversal.
func ExistsWithResult[T any](r *Resolver, pred *Predicate[T], opts ...ResolveOption) (T, bool, error) {
	var zero T
	found, err := resolve(r, pred, PolicyNone, opts)
	if err != nil {
		return zero, false, err
	}
	if len(found) == 0 {
		return zero, false, nil
	}
	return found[0], true, nil
}

func resolve[T any](r *Resolver, pred *Predicate[T], policy ValidationPolicy, opts []ResolveOption) ([]T, error) {
	if r == nil {
		r = NewResolver(nil)
	}
	cfg := applyResolveOptions(opts)
	key := keyFor(pred)
	event := ResolveLogEvent{
		Component: typeName[T](),
		Predicate: pred.String(),
		Node:      r.name,
		Policy:    policy,
	}
	start := time.Now()

	found, hit, stored, err := lookupTyped(r, key, pred, cfg)
	if err == nil {
		if verr := Validate(len(found), policy); verr != nil {
			err = &ResolutionError{
				Kind:      verr,
				Component: event.Component,
				Predicate: event.Predicate,
				Node:      r.name,
				Count:     len(found),
			}
		}
	}

	event.CacheHit = hit
	event.Stored = stored
	event.Count = len(found)
	event.Duration = time.Since(start)
	event.Err = err
	r.logger.LogResolution(event)

	if err != nil {
		return nil, err
	}
	return found, nil
}

func lookupTyped[T any](r *Resolver, key cacheKey, pred *Predicate[T], cfg resolveConfig) ([]T, bool, bool, error) {
	if cfg.useCache {
		if cached, ok := cacheLookup[T](r.cache, key); ok {
			return cloneSlice(cached), true, false, nil
		}
	}

	components := ComponentsInSubtree[T](r.root, cfg.includeInactive)
	filtered, err := filterPredicate(components, pred)
	if err != nil {
		return nil, false, false, wrapPredicateError("func", pred.String(), typeName[T](), err)
	}

	stored := false
	if cfg.cacheResult {
		stored = cacheStore(r.cache, key, filtered)
	}
	return filtered, false, stored, nil
}
