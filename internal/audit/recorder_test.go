package audit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/audit"
	"github.com/google/uuid"
)

func TestRecord_NewestFirst(t *testing.T) {
	tick := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	recorder := audit.NewInMemoryRecorder(audit.WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}))
	itemID := uuid.New()

	first, err := recorder.Record(context.Background(), audit.Entry{
		ItemID:        itemID,
		ItemType:      catalog.ItemTypeSong,
		Actor:         "ops@melodia",
		PreviousState: "published",
		NewState:      "blocked",
	})
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	second, err := recorder.Record(context.Background(), audit.Entry{
		ItemID:        itemID,
		ItemType:      catalog.ItemTypeSong,
		Actor:         "ops@melodia",
		PreviousState: "blocked",
		NewState:      "published",
	})
	if err != nil {
		t.Fatalf("second record: %v", err)
	}

	events, err := recorder.List(context.Background(), itemID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != second.ID || events[1].ID != first.ID {
		t.Fatal("events must read back most recent first")
	}
	if !events[0].RecordedAt.After(events[1].RecordedAt) {
		t.Fatal("timestamps must advance per event")
	}
}

func TestRecord_FreshIdentityPerEvent(t *testing.T) {
	recorder := audit.NewInMemoryRecorder()
	itemID := uuid.New()

	a, _ := recorder.Record(context.Background(), audit.Entry{ItemID: itemID, ItemType: catalog.ItemTypeSong, Actor: "a", PreviousState: "blocked", NewState: "published"})
	b, _ := recorder.Record(context.Background(), audit.Entry{ItemID: itemID, ItemType: catalog.ItemTypeSong, Actor: "a", PreviousState: "published", NewState: "blocked"})
	if a.ID == b.ID {
		t.Fatal("each event must carry a fresh id")
	}
}

func TestList_EmptyAndIsolated(t *testing.T) {
	recorder := audit.NewInMemoryRecorder()

	events, err := recorder.List(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected empty log, got %d events", len(events))
	}

	itemID := uuid.New()
	if _, err := recorder.Record(context.Background(), audit.Entry{ItemID: itemID, ItemType: catalog.ItemTypeCollection, Actor: "a", PreviousState: "published", NewState: "blocked"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	events, _ = recorder.List(context.Background(), itemID)
	events[0].NewState = "tampered"
	events, _ = recorder.List(context.Background(), itemID)
	if events[0].NewState != "blocked" {
		t.Fatal("listed events must be copies, not live log pointers")
	}
}

func TestRecord_PropagatesFailures(t *testing.T) {
	recorder := audit.NewInMemoryRecorder()
	boom := errors.New("boom")
	recorder.Fail(boom)
	if _, err := recorder.Record(context.Background(), audit.Entry{ItemID: uuid.New(), ItemType: catalog.ItemTypeSong, Actor: "a", PreviousState: "published", NewState: "blocked"}); !errors.Is(err, boom) {
		t.Fatalf("expected configured failure, got %v", err)
	}
}
