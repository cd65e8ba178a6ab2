package inject

import "fmt"

// Predicate is an opaque filter over components of type T. Resolver caches
// key on the predicate pointer, so reuse one *Predicate to get cache hits;
// two predicates built from identical functions are distinct keys.
type Predicate[T any] struct {
	label string
	match func(T) (bool, error)
}

// NewPredicate wraps fn as a reusable predicate.
func NewPredicate[T any](fn func(T) bool) *Predicate[T] {
	if fn == nil {
		return nil
	}
	return &Predicate[T]{
		label: fmt.Sprintf("func(%s)", typeName[T]()),
		match: func(component T) (bool, error) {
			return fn(component), nil
		},
	}
}

// NewLabeledPredicate wraps fn and reports label in logs and errors.
func NewLabeledPredicate[T any](label string, fn func(T) bool) *Predicate[T] {
	p := NewPredicate(fn)
	if p != nil && label != "" {
		p.label = label
	}
	return p
}

func newFalliblePredicate[T any](label string, fn func(T) (bool, error)) *Predicate[T] {
	return &Predicate[T]{label: label, match: fn}
}

// Match applies the predicate. A nil predicate matches everything.
func (p *Predicate[T]) Match(component T) (bool, error) {
	if p == nil || p.match == nil {
		return true, nil
	}
	return p.match(component)
}

// String returns the predicate label.
func (p *Predicate[T]) String() string {
	if p == nil {
		return ""
	}
	return p.label
}

func filterPredicate[T any](components []T, pred *Predicate[T]) ([]T, error) {
	if pred == nil {
		return components, nil
	}
	out := make([]T, 0, len(components))
	for _, component := range components {
		ok, err := pred.Match(component)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, component)
		}
	}
	return out, nil
}
