package inject

import "time"

// ResolveLogEvent describes one resolve call.
type ResolveLogEvent struct {
	Component string
	Predicate string
	Node      string
	Policy    ValidationPolicy
	CacheHit  bool
	Stored    bool
	Count     int
	Duration  time.Duration
	Err       error
}

// ResolveLogger records resolve calls.
type ResolveLogger interface {
	LogResolution(ResolveLogEvent)
}

// ResolveLoggerFunc adapts a function to ResolveLogger.
type ResolveLoggerFunc func(ResolveLogEvent)

// LogResolution implements ResolveLogger.
func (f ResolveLoggerFunc) LogResolution(event ResolveLogEvent) {
	if f != nil {
		f(event)
	}
}

// BroadcastPhase names a step of the broadcast protocol.
type BroadcastPhase string

const (
	PhaseDiscover    BroadcastPhase = "discover"
	PhaseDeliver     BroadcastPhase = "deliver"
	PhaseInitialized BroadcastPhase = "initialized"
	PhaseActivity    BroadcastPhase = "activity"
)

// BroadcastLogEvent describes one broadcast phase for one bundle type.
type BroadcastLogEvent struct {
	Node      string
	Phase     BroadcastPhase
	Bundle    string
	Consumers int
	Duration  time.Duration
	Err       error
}

// BroadcastLogger records broadcast phases.
type BroadcastLogger interface {
	LogBroadcast(BroadcastLogEvent)
}

// BroadcastLoggerFunc adapts a function to BroadcastLogger.
type BroadcastLoggerFunc func(BroadcastLogEvent)

// LogBroadcast implements BroadcastLogger.
func (f BroadcastLoggerFunc) LogBroadcast(event BroadcastLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) LogResolution(ResolveLogEvent) {}
func (noopLogger) LogBroadcast(BroadcastLogEvent) {}
