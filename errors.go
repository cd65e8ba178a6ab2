package inject

import (
	"errors"
	"fmt"
)

var (
	// ErrComponentNotFound reports an empty result under a policy requiring
	// at least one match.
	ErrComponentNotFound = errors.New("inject: component not found")
	// ErrExcessComponents reports more than one match under a policy
	// forbidding multiples.
	ErrExcessComponents = errors.New("inject: excess components found")
	// ErrAlreadyDelivered reports a second delivery to the same consumer.
	ErrAlreadyDelivered = errors.New("inject: dependencies already delivered")
	// ErrEngineUnavailable reports an expression engine missing from the build.
	ErrEngineUnavailable = errors.New("inject: expression engine unavailable")
)

// ResolutionError captures the resolve call that failed validation.
type ResolutionError struct {
	Kind      error
	Component string
	Predicate string
	Node      string
	Count     int
}

func (e *ResolutionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	switch {
	case errors.Is(e.Kind, ErrComponentNotFound):
		return fmt.Sprintf("%v: no component of type %s under node %q (predicate=%s); check the predicate and make sure the component exists",
			e.Kind, e.Component, e.Node, describePredicate(e.Predicate))
	case errors.Is(e.Kind, ErrExcessComponents):
		return fmt.Sprintf("%v: %d components of type %s under node %q (predicate=%s); check the predicate",
			e.Kind, e.Count, e.Component, e.Node, describePredicate(e.Predicate))
	default:
		return fmt.Sprintf("%v: component %s under node %q", e.Kind, e.Component, e.Node)
	}
}

func (e *ResolutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Kind
}

// PredicateError reports a predicate that could not be compiled or evaluated.
type PredicateError struct {
	Engine    string
	Expr      string
	Component string
	Err       error
}

func (e *PredicateError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Component == "" {
		return fmt.Sprintf("inject: %s predicate %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
	}
	return fmt.Sprintf("inject: %s predicate %s component=%s: %v", e.Engine, describeExpression(e.Expr), e.Component, e.Err)
}

func (e *PredicateError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BroadcastError wraps a consumer failure that aborted a broadcast.
type BroadcastError struct {
	Phase    BroadcastPhase
	Bundle   string
	Consumer string
	Err      error
}

func (e *BroadcastError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("inject: broadcast %s of %s to %s: %v", e.Phase, e.Bundle, e.Consumer, e.Err)
}

func (e *BroadcastError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describePredicate(label string) string {
	if label == "" {
		return "<none>"
	}
	return label
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapPredicateError(engine, expr, component string, err error) error {
	if err == nil {
		return nil
	}
	var predErr *PredicateError
	if errors.As(err, &predErr) {
		if predErr.Engine == "" {
			predErr.Engine = engine
		}
		if predErr.Expr == "" {
			predErr.Expr = expr
		}
		if predErr.Component == "" {
			predErr.Component = component
		}
		return predErr
	}
	return &PredicateError{
		Engine:    engine,
		Expr:      expr,
		Component: component,
		Err:       err,
	}
}
