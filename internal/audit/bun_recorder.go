package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunRecorder persists state change events through bun. Ordering is enforced
// at read time by recorded_at, with the event id as a tie breaker so two
// events stamped in the same instant keep a stable order.
type BunRecorder struct {
	db     *bun.DB
	logger interfaces.Logger
	now    func() time.Time
	id     func() uuid.UUID
}

// BunOption configures the bun recorder.
type BunOption func(*BunRecorder)

// WithBunClock overrides the clock used to stamp events.
func WithBunClock(clock func() time.Time) BunOption {
	return func(r *BunRecorder) {
		if clock != nil {
			r.now = clock
		}
	}
}

// WithBunLogger attaches a logger for recorded transitions and insert failures.
func WithBunLogger(logger interfaces.Logger) BunOption {
	return func(r *BunRecorder) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewBunRecorder constructs a recorder backed by the supplied database.
func NewBunRecorder(db *bun.DB, opts ...BunOption) *BunRecorder {
	r := &BunRecorder{
		db:  db,
		now: time.Now,
		id:  uuid.New,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Record inserts a fresh event row. Events are never updated or deleted.
func (r *BunRecorder) Record(ctx context.Context, entry Entry) (*catalog.StateChangeEvent, error) {
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

	if _, err := r.db.NewInsert().Model(event).Exec(ctx); err != nil {
		if r.logger != nil {
			r.logger.WithContext(ctx).Error("state change insert failed",
				"item_id", event.ItemID,
				"item_type", event.ItemType,
				"cause", err,
			)
		}
		return nil, fmt.Errorf("audit: record event: %w", err)
	}
	if r.logger != nil {
		r.logger.WithContext(ctx).Debug("state change recorded",
			"item_id", event.ItemID,
			"item_type", event.ItemType,
			"from", event.PreviousState,
			"to", event.NewState,
			"actor", event.Actor,
		)
	}
	return event, nil
}

// List returns the item's events most recent first.
func (r *BunRecorder) List(ctx context.Context, itemID uuid.UUID) ([]*catalog.StateChangeEvent, error) {
	var events []*catalog.StateChangeEvent
	err := r.db.NewSelect().
		Model(&events).
		Where("item_id = ?", itemID).
		Order("recorded_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	return events, nil
}
