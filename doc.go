// Package inject resolves typed components within a node tree and
// broadcasts dependency bundles from a provider node to its descendants.
//
// The host tree is external: anything satisfying Node can be queried. The
// package adds two cooperating pieces on top of it.
//
// Resolver caches typed subtree queries per (type, predicate) pair:
//
//	r := inject.NewResolver(root)
//	left := inject.NewPredicate(func(w *Wheel) bool { return w.Side == "left" })
//	wheels, err := inject.ResolveAll(r, left)
//	engine, err := inject.ResolveExactlyOne[*Engine](r, nil)
//
// Predicate identity is pointer identity: reuse a predicate to hit the
// cache. IDPredicates and the expression compilers (ExprPredicate,
// CELPredicate, JSPredicate with a ProgramCache) hand out stable pointers.
// Cached entries are never invalidated when the tree changes.
//
// Broadcaster delivers a provider to every descendant Consumer of the
// bundle types it offers, then notifies every consumer that all deliveries
// are done:
//
//	b := inject.NewBroadcaster(carNode, inject.WithBundles(inject.Bundle[Vehicle](car)))
//	err := b.Activate() // wire to the host's enable callback; runs once
//
// Consumers usually embed *Dependent[T], which enforces single delivery and
// runs callbacks queued with ExecuteOnInitialize once the bundle arrives.
//
// Everything runs synchronously on the caller's goroutine. Resolver,
// Broadcaster and Dependent are not safe for concurrent use.
package inject
