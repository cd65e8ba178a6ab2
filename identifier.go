package inject

import "fmt"

// Identifier tags a node with an opaque id so predicates can select
// components by id instead of by structure.
type Identifier[TId comparable] struct {
	id TId
}

// NewIdentifier constructs an Identifier carrying id.
func NewIdentifier[TId comparable](id TId) *Identifier[TId] {
	return &Identifier[TId]{id: id}
}

// ID returns the tag value.
func (i *Identifier[TId]) ID() TId {
	var zero TId
	if i == nil {
		return zero
	}
	return i.id
}

// HasID reports whether the tag equals id.
func (i *Identifier[TId]) HasID(id TId) bool {
	return i != nil && i.id == id
}

// IDValue returns the tag value untyped, for expression environments.
func (i *Identifier[TId]) IDValue() any {
	if i == nil {
		return nil
	}
	return i.id
}

type idValuer interface {
	IDValue() any
}

// ByIDPredicate reports whether the node hosting component carries an
// Identifier[TId] equal to id.
func ByIDPredicate[T Attached, TId comparable](component T, id TId) bool {
	node := component.Node()
	if node == nil {
		return false
	}
	for _, tag := range ComponentsOn[*Identifier[TId]](node) {
		if tag.HasID(id) {
			return true
		}
	}
	return false
}

// IDPredicates memoizes one predicate per id so that repeated lookups by the
// same id share a cache key.
type IDPredicates[T Attached, TId comparable] struct {
	predicates map[TId]*Predicate[T]
}

// NewIDPredicates constructs an empty memo.
func NewIDPredicates[T Attached, TId comparable]() *IDPredicates[T, TId] {
	return &IDPredicates[T, TId]{predicates: map[TId]*Predicate[T]{}}
}

// For returns the predicate selecting components tagged with id, building it
// on first use.
func (p *IDPredicates[T, TId]) For(id TId) *Predicate[T] {
	if p.predicates == nil {
		p.predicates = map[TId]*Predicate[T]{}
	}
	if pred, ok := p.predicates[id]; ok {
		return pred
	}
	pred := NewLabeledPredicate(fmt.Sprintf("id=%v", id), func(component T) bool {
		return ByIDPredicate(component, id)
	})
	p.predicates[id] = pred
	return pred
}

func nodeIDValue(n Node) any {
	if n == nil {
		return nil
	}
	for _, component := range n.Components() {
		if tag, ok := component.(idValuer); ok {
			return tag.IDValue()
		}
	}
	return nil
}
