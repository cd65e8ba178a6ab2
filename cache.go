package inject

import "reflect"

// cacheKey pairs the requested component type with the identity of the
// predicate pointer used to filter it.
type cacheKey struct {
	component reflect.Type
	predicate any
}

func keyFor[T any](pred *Predicate[T]) cacheKey {
	key := cacheKey{component: reflect.TypeFor[T]()}
	if pred != nil {
		key.predicate = pred
	}
	return key
}

// resolutionCache stores []T entries type-erased. Entries are written once
// per key and never invalidated.
type resolutionCache map[cacheKey]any

func cacheLookup[T any](c resolutionCache, key cacheKey) ([]T, bool) {
	if c == nil {
		return nil, false
	}
	entry, ok := c[key]
	if !ok {
		return nil, false
	}
	typed, ok := entry.([]T)
	if !ok {
		return nil, false
	}
	return typed, true
}

func cacheStore[T any](c resolutionCache, key cacheKey, components []T) bool {
	if c == nil {
		return false
	}
	if _, exists := c[key]; exists {
		return false
	}
	c[key] = cloneSlice(components)
	return true
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}
