package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service exposes catalog lifecycle use cases. Reads return full records;
// state changes return the shared Item projection.
type Service interface {
	CreateSong(ctx context.Context, req CreateSongRequest) (*Song, error)
	GetSong(ctx context.Context, id uuid.UUID) (*Song, error)
	ListSongs(ctx context.Context) ([]*Song, error)
	CreateCollection(ctx context.Context, req CreateCollectionRequest) (*Collection, error)
	GetCollection(ctx context.Context, id uuid.UUID) (*Collection, error)
	ListCollections(ctx context.Context) ([]*Collection, error)
	ChangeState(ctx context.Context, req ChangeStateRequest) (*Item, error)
	History(ctx context.Context, itemID uuid.UUID) ([]*StateChangeEvent, error)
	Destinations(ctx context.Context, itemID uuid.UUID, itemType ItemType) ([]string, error)
}

// ChangeStateRequest captures a proposed lifecycle transition. NewState
// accepts both internal and gateway wire representations. ScheduledDate
// accepts RFC 3339 instants and the datetime-local form format.
type ChangeStateRequest struct {
	ItemID        uuid.UUID
	ItemType      ItemType
	NewState      string
	Reason        string
	ScheduledDate string
	Actor         string
}

// CreateSongRequest captures the information required to register a track.
type CreateSongRequest struct {
	Title       string
	Artist      string
	Slug        string
	State       string
	ScheduledAt *time.Time
	CreatedBy   uuid.UUID
}

// CreateCollectionRequest captures the information required to register a
// curated set.
type CreateCollectionRequest struct {
	Title     string
	Curator   *string
	Slug      string
	State     string
	SongCount int
	CreatedBy uuid.UUID
}
