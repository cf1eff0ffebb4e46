package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemorySongRepository is an in-memory implementation for scaffolding and tests.
type MemorySongRepository struct {
	mu        sync.RWMutex
	songs     map[uuid.UUID]*Song
	slugIndex map[string]uuid.UUID
}

// NewMemorySongRepository creates an empty in-memory song repository.
func NewMemorySongRepository() *MemorySongRepository {
	return &MemorySongRepository{
		songs:     make(map[uuid.UUID]*Song),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied song.
func (m *MemorySongRepository) Create(_ context.Context, record *Song) (*Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneSong(record)
	m.songs[copied.ID] = copied
	m.slugIndex[strings.ToLower(copied.Slug)] = copied.ID
	return cloneSong(copied), nil
}

// GetByID retrieves a song by identifier.
func (m *MemorySongRepository) GetByID(_ context.Context, id uuid.UUID) (*Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.songs[id]
	if !ok {
		return nil, &NotFoundError{Resource: "song", Key: id.String()}
	}
	return cloneSong(rec), nil
}

// GetBySlug retrieves a song by slug, returning NotFoundError when absent.
func (m *MemorySongRepository) GetBySlug(_ context.Context, slug string) (*Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[strings.ToLower(slug)]
	if !ok {
		return nil, &NotFoundError{Resource: "song", Key: slug}
	}
	return cloneSong(m.songs[id]), nil
}

// List returns all songs.
func (m *MemorySongRepository) List(_ context.Context) ([]*Song, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Song, 0, len(m.songs))
	for _, rec := range m.songs {
		out = append(out, cloneSong(rec))
	}
	return out, nil
}

// Update replaces the stored song, returning NotFoundError when absent.
func (m *MemorySongRepository) Update(_ context.Context, record *Song) (*Song, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.songs[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "song", Key: record.ID.String()}
	}
	delete(m.slugIndex, strings.ToLower(existing.Slug))
	copied := cloneSong(record)
	m.songs[copied.ID] = copied
	m.slugIndex[strings.ToLower(copied.Slug)] = copied.ID
	return cloneSong(copied), nil
}

func cloneSong(src *Song) *Song {
	if src == nil {
		return nil
	}
	copied := *src
	copied.PreviousState = cloneStringPtr(src.PreviousState)
	copied.ScheduledAt = cloneTimePtr(src.ScheduledAt)
	copied.PublishedAt = cloneTimePtr(src.PublishedAt)
	copied.BlockReason = cloneStringPtr(src.BlockReason)
	copied.DeletedAt = cloneTimePtr(src.DeletedAt)
	return &copied
}

// MemoryCollectionRepository stores collections in-memory.
type MemoryCollectionRepository struct {
	mu          sync.RWMutex
	collections map[uuid.UUID]*Collection
	slugIndex   map[string]uuid.UUID
}

// NewMemoryCollectionRepository creates an empty in-memory collection repository.
func NewMemoryCollectionRepository() *MemoryCollectionRepository {
	return &MemoryCollectionRepository{
		collections: make(map[uuid.UUID]*Collection),
		slugIndex:   make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied collection.
func (m *MemoryCollectionRepository) Create(_ context.Context, record *Collection) (*Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := cloneCollection(record)
	m.collections[copied.ID] = copied
	m.slugIndex[strings.ToLower(copied.Slug)] = copied.ID
	return cloneCollection(copied), nil
}

// GetByID retrieves a collection by identifier.
func (m *MemoryCollectionRepository) GetByID(_ context.Context, id uuid.UUID) (*Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.collections[id]
	if !ok {
		return nil, &NotFoundError{Resource: "collection", Key: id.String()}
	}
	return cloneCollection(rec), nil
}

// GetBySlug retrieves a collection by slug, returning NotFoundError when absent.
func (m *MemoryCollectionRepository) GetBySlug(_ context.Context, slug string) (*Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[strings.ToLower(slug)]
	if !ok {
		return nil, &NotFoundError{Resource: "collection", Key: slug}
	}
	return cloneCollection(m.collections[id]), nil
}

// List returns all collections.
func (m *MemoryCollectionRepository) List(_ context.Context) ([]*Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Collection, 0, len(m.collections))
	for _, rec := range m.collections {
		out = append(out, cloneCollection(rec))
	}
	return out, nil
}

// Update replaces the stored collection, returning NotFoundError when absent.
func (m *MemoryCollectionRepository) Update(_ context.Context, record *Collection) (*Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.collections[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "collection", Key: record.ID.String()}
	}
	delete(m.slugIndex, strings.ToLower(existing.Slug))
	copied := cloneCollection(record)
	m.collections[copied.ID] = copied
	m.slugIndex[strings.ToLower(copied.Slug)] = copied.ID
	return cloneCollection(copied), nil
}

func cloneCollection(src *Collection) *Collection {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Curator = cloneStringPtr(src.Curator)
	copied.PreviousState = cloneStringPtr(src.PreviousState)
	copied.ScheduledAt = cloneTimePtr(src.ScheduledAt)
	copied.PublishedAt = cloneTimePtr(src.PublishedAt)
	copied.BlockReason = cloneStringPtr(src.BlockReason)
	copied.DeletedAt = cloneTimePtr(src.DeletedAt)
	return &copied
}
