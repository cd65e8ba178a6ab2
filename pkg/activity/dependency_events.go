package activity

import "strings"

const (
	// VerbBroadcast marks a completed broadcast of one bundle type.
	VerbBroadcast = "dependencies.broadcast"
	// VerbBroadcastFailed marks a broadcast aborted by a consumer.
	VerbBroadcastFailed = "dependencies.broadcast_failed"

	// ObjectTypeBundle is the object type of broadcast events.
	ObjectTypeBundle = "dependency_bundle"
)

// BroadcastEventInput describes the outcome of broadcasting one bundle type.
type BroadcastEventInput struct {
	ActorID   string
	Node      string
	Bundle    string
	Consumers int
	Phases    int
	Channel   string
	Err       error
	Metadata  map[string]any
}

// BuildBroadcastEvent constructs the event for a completed broadcast.
func BuildBroadcastEvent(input BroadcastEventInput) Event {
	return buildBundleEvent(VerbBroadcast, input)
}

// BuildBroadcastFailedEvent constructs the event for an aborted broadcast.
func BuildBroadcastFailedEvent(input BroadcastEventInput) Event {
	return buildBundleEvent(VerbBroadcastFailed, input)
}

func buildBundleEvent(verb string, input BroadcastEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata["consumers"] = input.Consumers
	if input.Phases > 0 {
		metadata["phases"] = input.Phases
	}
	if input.Err != nil {
		metadata["error"] = input.Err.Error()
	}

	objectID := strings.TrimSpace(input.Bundle)
	if objectID == "" {
		objectID = ObjectTypeBundle
	}
	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		Node:       strings.TrimSpace(input.Node),
		ObjectType: ObjectTypeBundle,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
	}
}
