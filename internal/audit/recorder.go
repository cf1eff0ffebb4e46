package audit

import (
	"context"
	"sync"
	"time"

	"github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/google/uuid"
)

// Entry captures the facts of a successful transition before the recorder
// stamps identity and time onto them.
type Entry struct {
	ItemID        uuid.UUID
	ItemType      catalog.ItemType
	Actor         string
	PreviousState string
	NewState      string
	Reason        *string
	ScheduledAt   *time.Time
}

// Recorder persists state change events. Implementations are constructed once
// at startup and shared; per-item logs are append-only and read back
// most-recent-first.
type Recorder interface {
	Record(ctx context.Context, entry Entry) (*catalog.StateChangeEvent, error)
	List(ctx context.Context, itemID uuid.UUID) ([]*catalog.StateChangeEvent, error)
}

// InMemoryRecorder accumulates events per item in memory. The mutex guards
// the prepend so concurrent appends cannot corrupt ordering.
type InMemoryRecorder struct {
	mu     sync.Mutex
	events map[uuid.UUID][]*catalog.StateChangeEvent
	now    func() time.Time
	id     func() uuid.UUID
	err    error
}

// Option configures the in-memory recorder.
type Option func(*InMemoryRecorder)

// WithClock overrides the clock used to stamp events.
func WithClock(clock func() time.Time) Option {
	return func(r *InMemoryRecorder) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithIDGenerator overrides the event ID generator.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(r *InMemoryRecorder) {
		if generator != nil {
			r.id = generator
		}
	}
}

// NewInMemoryRecorder constructs an empty recorder.
func NewInMemoryRecorder(opts ...Option) *InMemoryRecorder {
	r := &InMemoryRecorder{
		events: make(map[uuid.UUID][]*catalog.StateChangeEvent),
		now:    time.Now,
		id:     uuid.New,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record stamps a fresh event from the entry and prepends it to the item's
// log so readers see newest first.
func (r *InMemoryRecorder) Record(_ context.Context, entry Entry) (*catalog.StateChangeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	event := &catalog.StateChangeEvent{
		ID:            r.id(),
		ItemID:        entry.ItemID,
		ItemType:      entry.ItemType,
		RecordedAt:    r.now(),
		Actor:         entry.Actor,
		PreviousState: entry.PreviousState,
		NewState:      entry.NewState,
		Reason:        cloneStringPtr(entry.Reason),
		ScheduledAt:   cloneTimePtr(entry.ScheduledAt),
	}

	log := r.events[entry.ItemID]
	r.events[entry.ItemID] = append([]*catalog.StateChangeEvent{event}, log...)

	copied := *event
	return &copied, nil
}

// List returns the item's events, most recent first. The slice and its
// events are copies so callers cannot mutate the log.
func (r *InMemoryRecorder) List(_ context.Context, itemID uuid.UUID) ([]*catalog.StateChangeEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log := r.events[itemID]
	out := make([]*catalog.StateChangeEvent, len(log))
	for i, event := range log {
		copied := *event
		out[i] = &copied
	}
	return out, nil
}

// Fail configures the recorder to return the supplied error on subsequent
// Record calls. Test hook.
func (r *InMemoryRecorder) Fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
