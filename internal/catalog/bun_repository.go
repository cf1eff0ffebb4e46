package catalog

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunSongRepository struct {
	repo repository.Repository[*Song]
}

func NewBunSongRepository(db *bun.DB) *BunSongRepository {
	return NewBunSongRepositoryWithCache(db, nil, nil)
}

// NewBunSongRepositoryWithCache constructs a SongRepository with optional caching.
func NewBunSongRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunSongRepository {
	base := NewSongRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunSongRepository{repo: wrapped}
}

func (r *BunSongRepository) Create(ctx context.Context, record *Song) (*Song, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunSongRepository) GetByID(ctx context.Context, id uuid.UUID) (*Song, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "song", id.String())
	}
	return result, nil
}

func (r *BunSongRepository) GetBySlug(ctx context.Context, slug string) (*Song, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "song", slug)
	}
	return result, nil
}

func (r *BunSongRepository) List(ctx context.Context) ([]*Song, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunSongRepository) Update(ctx context.Context, record *Song) (*Song, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "song", record.ID.String())
	}
	return updated, nil
}

type BunCollectionRepository struct {
	repo repository.Repository[*Collection]
}

func NewBunCollectionRepository(db *bun.DB) *BunCollectionRepository {
	return NewBunCollectionRepositoryWithCache(db, nil, nil)
}

// NewBunCollectionRepositoryWithCache constructs a CollectionRepository with optional caching.
func NewBunCollectionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunCollectionRepository {
	base := NewCollectionRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunCollectionRepository{repo: wrapped}
}

func (r *BunCollectionRepository) Create(ctx context.Context, record *Collection) (*Collection, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunCollectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*Collection, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "collection", id.String())
	}
	return result, nil
}

func (r *BunCollectionRepository) GetBySlug(ctx context.Context, slug string) (*Collection, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, "collection", slug)
	}
	return result, nil
}

func (r *BunCollectionRepository) List(ctx context.Context) ([]*Collection, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunCollectionRepository) Update(ctx context.Context, record *Collection) (*Collection, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "collection", record.ID.String())
	}
	return updated, nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{
			Resource: resource,
			Key:      key,
		}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
