package inject

import "fmt"

// Consumer receives a dependency bundle of type T from a Broadcaster. Deliver
// is called at most once; NotifyAllInitialized follows once every consumer
// discovered by the same broadcast has received its bundle.
type Consumer[T any] interface {
	Deliver(root Node, bundle T) error
	NotifyAllInitialized() error
}

// DeliverFunc consumes a delivered bundle.
type DeliverFunc[T any] func(bundle T) error

// DependentOption configures a Dependent.
type DependentOption func(*dependentConfig)

type dependentConfig struct {
	onAllInitialized func() error
}

// OnAllInitialized sets the hook run by NotifyAllInitialized.
func OnAllInitialized(fn func() error) DependentOption {
	return func(cfg *dependentConfig) {
		cfg.onAllInitialized = fn
	}
}

// Dependent implements Consumer[T] as a one-shot state machine. Embed a
// *Dependent[T] in a component to make it a consumer:
//
//	type Wheel struct {
//		*inject.Dependent[Vehicle]
//	}
//
//	w := &Wheel{}
//	w.Dependent = inject.NewDependent(w.attach)
//
// Actions registered with ExecuteOnInitialize before delivery run in
// registration order right after the bundle is consumed.
type Dependent[T any] struct {
	root        Node
	initialized bool
	pending     []func()
	onDeliver   DeliverFunc[T]
	cfg         dependentConfig
}

// NewDependent constructs an uninitialized Dependent. onDeliver may be nil
// when the component only needs the initialization signal.
func NewDependent[T any](onDeliver DeliverFunc[T], opts ...DependentOption) *Dependent[T] {
	cfg := dependentConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Dependent[T]{
		onDeliver: onDeliver,
		cfg:       cfg,
	}
}

// Deliver stores root, consumes bundle and then drains the pending actions.
// A second call fails with ErrAlreadyDelivered. If consumption fails the
// dependent stays uninitialized and the pending actions are kept.
func (d *Dependent[T]) Deliver(root Node, bundle T) error {
	if d.initialized {
		return fmt.Errorf("%w: %s to node %q", ErrAlreadyDelivered, typeName[T](), nodeName(root))
	}
	if d.onDeliver != nil {
		if err := d.onDeliver(bundle); err != nil {
			return err
		}
	}
	d.root = root
	d.initialized = true

	pending := d.pending
	d.pending = nil
	for _, action := range pending {
		action()
	}
	return nil
}

// NotifyAllInitialized runs the OnAllInitialized hook, if any.
func (d *Dependent[T]) NotifyAllInitialized() error {
	if d.cfg.onAllInitialized == nil {
		return nil
	}
	return d.cfg.onAllInitialized()
}

// ExecuteOnInitialize runs action now if the bundle was delivered, otherwise
// queues it until delivery.
func (d *Dependent[T]) ExecuteOnInitialize(action func()) {
	if action == nil {
		return
	}
	if d.initialized {
		action()
		return
	}
	d.pending = append(d.pending, action)
}

// IsInitialized reports whether the bundle was delivered.
func (d *Dependent[T]) IsInitialized() bool {
	return d != nil && d.initialized
}

// Root returns the provider node of a successful delivery, or nil.
func (d *Dependent[T]) Root() Node {
	if d == nil {
		return nil
	}
	return d.root
}

// Pending returns the number of queued actions.
func (d *Dependent[T]) Pending() int {
	if d == nil {
		return 0
	}
	return len(d.pending)
}
