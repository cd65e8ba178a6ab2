package usersink_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-inject/pkg/activity"
	"github.com/goliatone/go-inject/pkg/activity/usersink"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsBroadcastEvent(t *testing.T) {
	sink := &recordingSink{}
	tenant := uuid.New()
	hook := usersink.Hook{Sink: sink, TenantID: tenant}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actor := uuid.New()
	event := activity.BuildBroadcastEvent(activity.BroadcastEventInput{
		ActorID:   actor.String(),
		Node:      "car",
		Bundle:    "main.Vehicle",
		Consumers: 4,
		Phases:    2,
		Channel:   "dependencies",
	})
	event.OccurredAt = now

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actor {
		t.Fatalf("expected actor %s got %s", actor, record.ActorID)
	}
	if record.TenantID != tenant {
		t.Fatalf("expected tenant %s got %s", tenant, record.TenantID)
	}
	if record.Verb != activity.VerbBroadcast || record.ObjectType != activity.ObjectTypeBundle || record.ObjectID != "main.Vehicle" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "dependencies" {
		t.Fatalf("expected channel dependencies got %q", record.Channel)
	}
	if !record.OccurredAt.Equal(now) {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["consumers"] != 4 || record.Data["node"] != "car" {
		t.Fatalf("unexpected data: %+v", record.Data)
	}
}

func TestHookNotifyNonUUIDActor(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       activity.VerbBroadcast,
		ActorID:    "car-node",
		ObjectType: activity.ObjectTypeBundle,
		ObjectID:   "main.Vehicle",
	})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if sink.records[0].ActorID != uuid.Nil {
		t.Fatalf("expected nil actor, got %s", sink.records[0].ActorID)
	}
	if sink.records[0].OccurredAt.IsZero() {
		t.Fatalf("expected occurred_at to be defaulted")
	}
}

func TestHookNotifySkipsIncompleteEvents(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}

func TestHookNotifyPropagatesSinkError(t *testing.T) {
	boom := errors.New("sink offline")
	hook := usersink.Hook{Sink: &recordingSink{err: boom}}

	err := hook.Notify(context.Background(), activity.BuildBroadcastFailedEvent(activity.BroadcastEventInput{Bundle: "main.Vehicle"}))
	if !errors.Is(err, boom) {
		t.Fatalf("expected sink error, got %v", err)
	}
}
