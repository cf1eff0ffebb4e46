package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ItemType identifies the kind of catalog item a lifecycle action targets.
type ItemType string

const (
	ItemTypeSong       ItemType = "song"
	ItemTypeCollection ItemType = "collection"
)

// IsValid reports whether the item type is a known value.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeSong, ItemTypeCollection:
		return true
	}
	return false
}

// Song is the canonical record for a catalog track.
type Song struct {
	bun.BaseModel `bun:"table:songs,alias:s"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Title          string     `bun:"title,notnull" json:"title"`
	Artist         string     `bun:"artist,notnull" json:"artist"`
	Slug           string     `bun:"slug,notnull" json:"slug"`
	State          string     `bun:"state,notnull,default:'published'" json:"state"`
	PreviousState  *string    `bun:"previous_state" json:"previous_state,omitempty"`
	ScheduledAt    *time.Time `bun:"scheduled_at,nullzero" json:"scheduled_at,omitempty"`
	PublishedAt    *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	BlockReason    *string    `bun:"block_reason" json:"block_reason,omitempty"`
	CreatedBy      uuid.UUID  `bun:"created_by,notnull,type:uuid" json:"created_by"`
	UpdatedBy      uuid.UUID  `bun:"updated_by,notnull,type:uuid" json:"updated_by"`
	DeletedAt      *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	EffectiveState string     `bun:"-" json:"effective_state"`
}

// Collection groups songs into a curated set that shares one lifecycle state.
type Collection struct {
	bun.BaseModel `bun:"table:collections,alias:col"`

	ID             uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Title          string     `bun:"title,notnull" json:"title"`
	Curator        *string    `bun:"curator" json:"curator,omitempty"`
	Slug           string     `bun:"slug,notnull" json:"slug"`
	SongCount      int        `bun:"song_count,notnull,default:0" json:"song_count"`
	State          string     `bun:"state,notnull,default:'published'" json:"state"`
	PreviousState  *string    `bun:"previous_state" json:"previous_state,omitempty"`
	ScheduledAt    *time.Time `bun:"scheduled_at,nullzero" json:"scheduled_at,omitempty"`
	PublishedAt    *time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	BlockReason    *string    `bun:"block_reason" json:"block_reason,omitempty"`
	CreatedBy      uuid.UUID  `bun:"created_by,notnull,type:uuid" json:"created_by"`
	UpdatedBy      uuid.UUID  `bun:"updated_by,notnull,type:uuid" json:"updated_by"`
	DeletedAt      *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	EffectiveState string     `bun:"-" json:"effective_state"`
}

// StateChangeEvent records one successful lifecycle transition. Events are
// immutable after creation and read back most-recent-first per item.
type StateChangeEvent struct {
	bun.BaseModel `bun:"table:state_change_events,alias:sce"`

	ID            uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	ItemID        uuid.UUID  `bun:"item_id,notnull,type:uuid" json:"item_id"`
	ItemType      ItemType   `bun:"item_type,notnull" json:"item_type"`
	RecordedAt    time.Time  `bun:"recorded_at,notnull" json:"recorded_at"`
	Actor         string     `bun:"actor,notnull" json:"actor"`
	PreviousState string     `bun:"previous_state,notnull" json:"previous_state"`
	NewState      string     `bun:"new_state,notnull" json:"new_state"`
	Reason        *string    `bun:"reason" json:"reason,omitempty"`
	ScheduledAt   *time.Time `bun:"scheduled_at,nullzero" json:"scheduled_at,omitempty"`
}

// Item is the lifecycle projection shared by songs and collections; state
// change operations return it so callers need not switch on the item type.
type Item struct {
	ID             uuid.UUID  `json:"id"`
	Type           ItemType   `json:"type"`
	Slug           string     `json:"slug"`
	State          string     `json:"state"`
	EffectiveState string     `json:"effective_state"`
	PreviousState  *string    `json:"previous_state,omitempty"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	BlockReason    *string    `json:"block_reason,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
