package inject

import (
	"errors"
	"testing"

	"github.com/goliatone/go-inject/pkg/activity"
	"github.com/goliatone/go-inject/tree"
	"github.com/google/go-cmp/cmp"
)

func TestBroadcastDeliversThenNotifiesInDiscoveryOrder(t *testing.T) {
	g := newGarage()
	b := NewBroadcaster(g.root, WithBundles(Bundle[Vehicle](g.car)))

	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}

	want := []string{
		"deliver:front-left", "deliver:front-right", "deliver:spare",
		"init:front-left", "init:front-right", "init:spare",
	}
	if diff := cmp.Diff(want, g.events); diff != "" {
		t.Fatalf("unexpected broadcast order (-want +got):\n%s", diff)
	}
	for name, w := range g.wheels {
		if !w.IsInitialized() {
			t.Fatalf("wheel %s not initialized", name)
		}
		if w.vehicle != Vehicle(g.car) {
			t.Fatalf("wheel %s received %v", name, w.vehicle)
		}
		if w.Root() != Node(g.root) {
			t.Fatalf("wheel %s has root %v", name, w.Root())
		}
	}
	if b.Consumers() != 3 || !b.HasBroadcast() {
		t.Fatalf("expected 3 consumers after broadcast, got %d", b.Consumers())
	}
}

func TestBroadcastRunsOnce(t *testing.T) {
	g := newGarage()
	b := NewBroadcaster(g.root, WithBundles(Bundle[Vehicle](g.car)))

	for i := 0; i < 3; i++ {
		if err := b.Activate(); err != nil {
			t.Fatalf("activate %d: %v", i, err)
		}
	}
	if len(g.events) != 6 {
		t.Fatalf("expected one broadcast (6 events), got %d: %v", len(g.events), g.events)
	}
}

func TestBroadcastAfterShutdownIsNoop(t *testing.T) {
	g := newGarage()
	b := NewBroadcaster(g.root, WithBundles(Bundle[Vehicle](g.car)))
	b.Shutdown()

	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(g.events) != 0 || b.HasBroadcast() {
		t.Fatalf("expected no broadcast after shutdown, got %v", g.events)
	}
}

func TestBroadcastMultipleBundlesRunPhasesAcrossAll(t *testing.T) {
	g := newGarage()
	newFrame(g.root.Find("front-left"), &g.events)

	b := NewBroadcaster(g.root, WithBundles(Bundle[Vehicle](g.car), Bundle[Chassis](g.car)))
	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}

	want := []string{
		"deliver:front-left", "deliver:front-right", "deliver:spare",
		"deliver-chassis:front-left",
		"init:front-left", "init:front-right", "init:spare",
		"init-chassis:front-left",
	}
	if diff := cmp.Diff(want, g.events); diff != "" {
		t.Fatalf("unexpected broadcast order (-want +got):\n%s", diff)
	}
	if b.Consumers() != 4 {
		t.Fatalf("expected 4 deliveries, got %d", b.Consumers())
	}
}

func TestBroadcastConsumerErrorAbortsRemainingDeliveries(t *testing.T) {
	g := newGarage()
	g.wheels["front-right"].failDeliver = errFlatTire
	capture := &activity.CaptureHook{}
	b := NewBroadcaster(g.root,
		WithBundles(Bundle[Vehicle](g.car)),
		WithActivityHooks(activity.Hooks{capture}),
	)

	err := b.Activate()
	if !errors.Is(err, errFlatTire) {
		t.Fatalf("expected errFlatTire, got %v", err)
	}
	var broadcastErr *BroadcastError
	if !errors.As(err, &broadcastErr) {
		t.Fatalf("expected *BroadcastError, got %T", err)
	}
	if broadcastErr.Phase != PhaseDeliver || broadcastErr.Bundle != "inject.Vehicle" || broadcastErr.Consumer != "*inject.wheel" {
		t.Fatalf("unexpected error context: %+v", broadcastErr)
	}

	want := []string{"deliver:front-left", "deliver:front-right"}
	if diff := cmp.Diff(want, g.events); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
	if g.wheels["spare"].IsInitialized() {
		t.Fatalf("spare must not receive the bundle")
	}

	if err := b.Activate(); err != nil {
		t.Fatalf("a failed broadcast must not be retried, got %v", err)
	}
	if diff := cmp.Diff([]string{activity.VerbBroadcastFailed}, capture.Verbs()); diff != "" {
		t.Fatalf("unexpected activity (-want +got):\n%s", diff)
	}
	if capture.Events[0].Metadata["error"] == nil {
		t.Fatalf("expected the error in metadata: %+v", capture.Events[0].Metadata)
	}
}

func TestBroadcastNotifyErrorIsReported(t *testing.T) {
	g := newGarage()
	g.wheels["front-left"].failInit = errFlatTire
	b := NewBroadcaster(g.root, WithBundles(Bundle[Vehicle](g.car)))

	err := b.Activate()
	var broadcastErr *BroadcastError
	if !errors.As(err, &broadcastErr) || broadcastErr.Phase != PhaseInitialized {
		t.Fatalf("expected an initialized-phase error, got %v", err)
	}
	if !g.wheels["spare"].IsInitialized() {
		t.Fatalf("deliveries complete before notification")
	}
}

func TestBroadcastWithoutCompletionPhase(t *testing.T) {
	g := newGarage()
	capture := &activity.CaptureHook{}
	b := NewBroadcaster(g.root,
		WithBundles(Bundle[Vehicle](g.car)),
		WithoutCompletionPhase(),
		WithActivityHooks(activity.Hooks{capture}),
	)

	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	want := []string{"deliver:front-left", "deliver:front-right", "deliver:spare"}
	if diff := cmp.Diff(want, g.events); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
	if len(capture.Events) != 1 || capture.Events[0].Metadata["phases"] != 1 {
		t.Fatalf("expected a single-phase broadcast event, got %+v", capture.Events)
	}
}

func TestBroadcastEmitsActivity(t *testing.T) {
	g := newGarage()
	capture := &activity.CaptureHook{}
	b := NewBroadcaster(g.root,
		WithBundles(Bundle[Vehicle](g.car)),
		WithActivityHooks(activity.Hooks{capture}),
	)
	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if len(capture.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(capture.Events))
	}
	event := capture.Events[0]
	if event.Verb != activity.VerbBroadcast || event.ObjectID != "inject.Vehicle" || event.Channel != activity.DefaultChannel {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.ActorID != g.root.ID() || event.Node != "car" {
		t.Fatalf("unexpected actor: %+v", event)
	}
	want := map[string]any{"consumers": 3, "phases": 2}
	if diff := cmp.Diff(want, event.Metadata); diff != "" {
		t.Fatalf("unexpected metadata (-want +got):\n%s", diff)
	}
}

func TestBroadcastActivityCanBeDisabled(t *testing.T) {
	g := newGarage()
	capture := &activity.CaptureHook{}
	b := NewBroadcaster(g.root,
		WithBundles(Bundle[Vehicle](g.car)),
		WithActivityHooks(activity.Hooks{capture}),
		WithActivityConfig(activity.Config{Enabled: false}),
	)
	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events, got %d", len(capture.Events))
	}
}

func TestBroadcastActivityErrorsAreLoggedNotReturned(t *testing.T) {
	g := newGarage()
	capture := &activity.CaptureHook{Err: errors.New("sink down")}
	var logged []BroadcastLogEvent
	b := NewBroadcaster(g.root,
		WithBundles(Bundle[Vehicle](g.car)),
		WithActivityHooks(activity.Hooks{capture}),
		WithBroadcastLogger(BroadcastLoggerFunc(func(event BroadcastLogEvent) {
			logged = append(logged, event)
		})),
	)
	if err := b.Activate(); err != nil {
		t.Fatalf("activity failures must not fail the broadcast: %v", err)
	}

	phases := make([]BroadcastPhase, 0, len(logged))
	for _, event := range logged {
		phases = append(phases, event.Phase)
	}
	want := []BroadcastPhase{PhaseDiscover, PhaseDeliver, PhaseInitialized, PhaseActivity}
	if diff := cmp.Diff(want, phases); diff != "" {
		t.Fatalf("unexpected log phases (-want +got):\n%s", diff)
	}
	if logged[0].Consumers != 3 || logged[0].Node != "car" {
		t.Fatalf("unexpected discover event: %+v", logged[0])
	}
	if logged[3].Err == nil {
		t.Fatalf("expected the activity error to be logged")
	}
}

func TestBroadcastSharesResolver(t *testing.T) {
	g := newGarage()
	r := NewResolver(g.root)
	b := NewBroadcaster(g.root, WithResolver(r), WithBundles(Bundle[Vehicle](g.car)))
	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("discovery must not populate the cache, got %d entries", r.Len())
	}
	if g.root.subtreeCalls != 1 {
		t.Fatalf("expected discovery through the shared resolver, got %d walks", g.root.subtreeCalls)
	}
}

func TestBroadcastDiscoveryIgnoresWarmedResolver(t *testing.T) {
	g := newGarage()
	r := NewResolver(g.root)
	active, err := ResolveAll[Consumer[Vehicle]](r, nil, IncludeInactive(false))
	if err != nil {
		t.Fatalf("warm resolver: %v", err)
	}
	if len(active) != 2 || r.Len() != 1 {
		t.Fatalf("expected a cached entry with 2 active consumers, got %d", len(active))
	}

	b := NewBroadcaster(g.root, WithResolver(r), WithBundles(Bundle[Vehicle](g.car)))
	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if b.Consumers() != 3 {
		t.Fatalf("expected every consumer to be discovered, got %d", b.Consumers())
	}
	if !g.wheels["spare"].IsInitialized() {
		t.Fatalf("spare on the inactive branch must receive the bundle")
	}
	want := []string{
		"deliver:front-left", "deliver:front-right", "deliver:spare",
		"init:front-left", "init:front-right", "init:spare",
	}
	if diff := cmp.Diff(want, g.events); diff != "" {
		t.Fatalf("unexpected broadcast order (-want +got):\n%s", diff)
	}
}

func TestBroadcastSeesConsumersAddedAfterWarmup(t *testing.T) {
	g := newGarage()
	r := NewResolver(g.root)
	if _, err := ResolveAll[Consumer[Vehicle]](r, nil); err != nil {
		t.Fatalf("warm resolver: %v", err)
	}
	rear := tree.New("rear")
	g.root.Add(rear)
	late := newWheel(rear, "right", &g.events)

	b := NewBroadcaster(g.root, WithResolver(r), WithBundles(Bundle[Vehicle](g.car)))
	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !late.IsInitialized() || b.Consumers() != 4 {
		t.Fatalf("expected the late wheel among 4 consumers, got %d", b.Consumers())
	}
}

func TestBroadcastWithoutConsumers(t *testing.T) {
	root := tree.New("lonely")
	b := NewBroadcaster(root, WithBundles(Bundle[Vehicle](&car{})))
	if err := b.Activate(); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if b.Consumers() != 0 || !b.HasBroadcast() {
		t.Fatalf("expected an empty broadcast")
	}
}
