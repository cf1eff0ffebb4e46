package catalog

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SongRepository abstracts storage operations for song records.
type SongRepository interface {
	Create(ctx context.Context, record *Song) (*Song, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Song, error)
	GetBySlug(ctx context.Context, slug string) (*Song, error)
	List(ctx context.Context) ([]*Song, error)
	Update(ctx context.Context, record *Song) (*Song, error)
}

// CollectionRepository abstracts storage operations for collection records.
type CollectionRepository interface {
	Create(ctx context.Context, record *Collection) (*Collection, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Collection, error)
	GetBySlug(ctx context.Context, slug string) (*Collection, error)
	List(ctx context.Context) ([]*Collection, error)
	Update(ctx context.Context, record *Collection) (*Collection, error)
}

func NewSongRepository(db *bun.DB) repository.Repository[*Song] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Song]{
		NewRecord: func() *Song { return &Song{} },
		GetID: func(s *Song) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Song, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(s *Song) string {
			return s.Slug
		},
	})
}

func NewCollectionRepository(db *bun.DB) repository.Repository[*Collection] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Collection]{
		NewRecord: func() *Collection { return &Collection{} },
		GetID: func(c *Collection) uuid.UUID {
			return c.ID
		},
		SetID: func(c *Collection, id uuid.UUID) {
			c.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(c *Collection) string {
			return c.Slug
		},
	})
}
