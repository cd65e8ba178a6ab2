//go:build !js_eval

package inject

// JSPredicate requires the js_eval build tag; without it every call fails
// with ErrEngineUnavailable.
func JSPredicate[T any](expression string, _ ...PredicateOption) (*Predicate[T], error) {
	return nil, wrapPredicateError("js", expression, "", ErrEngineUnavailable)
}

func jsPredicatesAvailable() bool {
	return false
}
