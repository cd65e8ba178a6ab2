package inject

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-inject/pkg/activity"
)

// Broadcaster delivers the bundles offered by a provider node to every
// descendant consumer exactly once. Delivery runs in two phases: every
// consumer receives its bundle through Deliver, then every consumer is told
// through NotifyAllInitialized that its siblings are initialized too.
//
// Activate is meant to be wired to the host's enable/activation callback and
// may be called any number of times; only the first call broadcasts.
type Broadcaster struct {
	root      Node
	resolver  *Resolver
	offerings []Offering
	cfg       broadcastConfig
	emitter   *activity.Emitter

	hasBroadcast bool
	closed       bool
	recipients   []recipient
}

// BroadcastOption configures a Broadcaster.
type BroadcastOption func(*broadcastConfig)

type broadcastConfig struct {
	offerings      []Offering
	resolver       *Resolver
	skipCompletion bool
	logger         BroadcastLogger
	hooks          activity.Hooks
	activity       activity.Config
	activitySet    bool
}

// WithBundles registers the bundle types the provider offers, in delivery
// order.
func WithBundles(offerings ...Offering) BroadcastOption {
	return func(cfg *broadcastConfig) {
		for _, offering := range offerings {
			if offering.discover != nil {
				cfg.offerings = append(cfg.offerings, offering)
			}
		}
	}
}

// WithResolver reuses an existing resolver for consumer discovery. It must
// be rooted at the provider node.
func WithResolver(r *Resolver) BroadcastOption {
	return func(cfg *broadcastConfig) {
		cfg.resolver = r
	}
}

// WithoutCompletionPhase skips NotifyAllInitialized.
func WithoutCompletionPhase() BroadcastOption {
	return func(cfg *broadcastConfig) {
		cfg.skipCompletion = true
	}
}

// WithBroadcastLogger attaches a logger invoked once per phase and bundle.
func WithBroadcastLogger(logger BroadcastLogger) BroadcastOption {
	return func(cfg *broadcastConfig) {
		cfg.logger = logger
	}
}

// WithActivityHooks publishes broadcast outcomes to hooks. Emission is
// enabled unless WithActivityConfig says otherwise.
func WithActivityHooks(hooks activity.Hooks) BroadcastOption {
	return func(cfg *broadcastConfig) {
		cfg.hooks = append(activity.Hooks(nil), hooks...)
	}
}

// WithActivityConfig overrides the activity emission settings.
func WithActivityConfig(config activity.Config) BroadcastOption {
	return func(cfg *broadcastConfig) {
		cfg.activity = config
		cfg.activitySet = true
	}
}

// NewBroadcaster constructs a broadcaster for the provider hosted on root.
func NewBroadcaster(root Node, opts ...BroadcastOption) *Broadcaster {
	cfg := broadcastConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = noopLogger{}
	}
	resolver := cfg.resolver
	if resolver == nil {
		resolver = NewResolver(root)
	}
	activityCfg := cfg.activity
	if !cfg.activitySet {
		activityCfg = activity.Config{Enabled: true}
	}
	return &Broadcaster{
		root:      root,
		resolver:  resolver,
		offerings: cfg.offerings,
		cfg:       cfg,
		emitter:   activity.NewEmitter(cfg.hooks, activityCfg),
	}
}

// Root returns the provider node.
func (b *Broadcaster) Root() Node {
	return b.root
}

// HasBroadcast reports whether Activate already ran a broadcast.
func (b *Broadcaster) HasBroadcast() bool {
	return b.hasBroadcast
}

// Consumers returns the number of deliveries planned by the broadcast.
func (b *Broadcaster) Consumers() int {
	return len(b.recipients)
}

// Activate discovers consumers and broadcasts every offered bundle. Calls
// after the first, or after Shutdown, do nothing. A consumer error aborts
// the remaining deliveries and is returned as *BroadcastError; the
// broadcast is not retried by later calls.
func (b *Broadcaster) Activate() error {
	if b.hasBroadcast || b.closed {
		return nil
	}
	b.hasBroadcast = true

	counts := make(map[string]int, len(b.offerings))
	for _, offering := range b.offerings {
		start := time.Now()
		found, err := offering.discover(b.resolver, b.root)
		b.log(PhaseDiscover, offering.bundle, len(found), start, err)
		if err != nil {
			return b.fail(&BroadcastError{Phase: PhaseDiscover, Bundle: offering.bundle, Consumer: "-", Err: err}, counts)
		}
		counts[offering.bundle] = len(found)
		b.recipients = append(b.recipients, found...)
	}

	if err := b.runPhase(PhaseDeliver, func(r recipient) error { return r.deliver() }); err != nil {
		return b.fail(err, counts)
	}
	phases := 1
	if !b.cfg.skipCompletion {
		if err := b.runPhase(PhaseInitialized, func(r recipient) error { return r.notify() }); err != nil {
			return b.fail(err, counts)
		}
		phases = 2
	}

	for _, offering := range b.offerings {
		b.emit(activity.BuildBroadcastEvent(activity.BroadcastEventInput{
			ActorID:   nodeID(b.root),
			Node:      nodeName(b.root),
			Bundle:    offering.bundle,
			Consumers: counts[offering.bundle],
			Phases:    phases,
		}))
	}
	return nil
}

// Shutdown releases the discovered consumers. Later Activate calls are
// no-ops.
func (b *Broadcaster) Shutdown() {
	b.closed = true
	b.recipients = nil
}

func (b *Broadcaster) runPhase(phase BroadcastPhase, step func(recipient) error) error {
	start := time.Now()
	done := 0
	for _, r := range b.recipients {
		if err := step(r); err != nil {
			b.log(phase, r.bundle, done, start, err)
			return &BroadcastError{Phase: phase, Bundle: r.bundle, Consumer: r.consumer, Err: err}
		}
		done++
	}
	for _, offering := range b.offerings {
		b.log(phase, offering.bundle, b.countFor(offering.bundle), start, nil)
	}
	return nil
}

func (b *Broadcaster) countFor(bundle string) int {
	count := 0
	for _, r := range b.recipients {
		if r.bundle == bundle {
			count++
		}
	}
	return count
}

func (b *Broadcaster) fail(err error, counts map[string]int) error {
	input := activity.BroadcastEventInput{
		ActorID: nodeID(b.root),
		Node:    nodeName(b.root),
		Err:     err,
	}
	var be *BroadcastError
	if errors.As(err, &be) {
		input.Bundle = be.Bundle
		input.Consumers = counts[be.Bundle]
	}
	b.emit(activity.BuildBroadcastFailedEvent(input))
	return err
}

func (b *Broadcaster) emit(event activity.Event) {
	if !b.emitter.Enabled() {
		return
	}
	start := time.Now()
	if err := b.emitter.Emit(context.Background(), event); err != nil {
		b.log(PhaseActivity, event.ObjectID, 0, start, err)
	}
}

func (b *Broadcaster) log(phase BroadcastPhase, bundle string, consumers int, start time.Time, err error) {
	b.cfg.logger.LogBroadcast(BroadcastLogEvent{
		Node:      nodeName(b.root),
		Phase:     phase,
		Bundle:    bundle,
		Consumers: consumers,
		Duration:  time.Since(start),
		Err:       err,
	})
}
