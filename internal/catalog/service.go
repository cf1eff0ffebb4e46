package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MelodiApp/melodia-backoffice-sub000/internal/audit"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/datetime"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/domain"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/identity"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/lifecycle"
	melodiascheduler "github.com/MelodiApp/melodia-backoffice-sub000/internal/scheduler"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	"github.com/google/uuid"
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithValidator overrides the transition validator. The default validator
// shares the service clock so schedule-date checks agree with record stamps.
func WithValidator(validator *lifecycle.Validator) ServiceOption {
	return func(s *service) {
		if validator != nil {
			s.validator = validator
		}
	}
}

// WithAuditRecorder overrides the recorder used to log state changes.
func WithAuditRecorder(recorder audit.Recorder) ServiceOption {
	return func(s *service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

// WithScheduler overrides the scheduler used to register publish jobs.
func WithScheduler(scheduler interfaces.Scheduler) ServiceOption {
	return func(s *service) {
		if scheduler != nil {
			s.scheduler = scheduler
		}
	}
}

// WithSchedulingEnabled toggles scheduling-related workflows.
func WithSchedulingEnabled(enabled bool) ServiceOption {
	return func(s *service) {
		s.schedulingEnabled = enabled
	}
}

// WithLogger attaches a logger for transition diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// service implements Service.
type service struct {
	songs             SongRepository
	collections       CollectionRepository
	recorder          audit.Recorder
	validator         *lifecycle.Validator
	scheduler         interfaces.Scheduler
	schedulingEnabled bool
	now               func() time.Time
	logger            interfaces.Logger
}

// NewService constructs a catalog service with the required dependencies.
func NewService(songs SongRepository, collections CollectionRepository, recorder audit.Recorder, opts ...ServiceOption) Service {
	s := &service{
		songs:             songs,
		collections:       collections,
		recorder:          recorder,
		now:               time.Now,
		scheduler:         melodiascheduler.NewNoOp(),
		schedulingEnabled: true,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.validator == nil {
		s.validator = lifecycle.New(lifecycle.WithClock(func() time.Time { return s.now() }))
	}
	if s.recorder == nil {
		s.recorder = audit.NewInMemoryRecorder(audit.WithClock(func() time.Time { return s.now() }))
	}

	return s
}

// CreateSong registers a track. Identifiers are derived deterministically
// from the slug so repeated imports of the same track converge on one record.
func (s *service) CreateSong(ctx context.Context, req CreateSongRequest) (*Song, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug, err := s.resolveSlug(req.Slug, title)
	if err != nil {
		return nil, err
	}

	if existing, err := s.songs.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	state := domain.Normalize(req.State)
	if req.State == "" {
		state = domain.StatePublished
	}
	if !state.IsValid() {
		return nil, ErrStateUnknown
	}
	now := s.now()
	if state == domain.StateScheduled {
		if req.ScheduledAt == nil {
			return nil, lifecycle.ErrScheduleDateRequired
		}
		if !req.ScheduledAt.After(now) {
			return nil, lifecycle.ErrScheduleDateNotFuture
		}
	}
	record := &Song{
		ID:          identity.SongUUID(slug),
		Title:       title,
		Artist:      strings.TrimSpace(req.Artist),
		Slug:        slug,
		State:       string(state),
		ScheduledAt: cloneTimePtr(req.ScheduledAt),
		CreatedBy:   req.CreatedBy,
		UpdatedBy:   req.CreatedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if state == domain.StatePublished {
		record.PublishedAt = &now
	}

	created, err := s.songs.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	if state == domain.StateScheduled && s.schedulingEnabled {
		if err := s.enqueuePublish(ctx, created.ID, ItemTypeSong, *created.ScheduledAt, ""); err != nil {
			return nil, err
		}
	}

	return s.decorateSong(created), nil
}

// GetSong retrieves a track by identifier.
func (s *service) GetSong(ctx context.Context, id uuid.UUID) (*Song, error) {
	record, err := s.songs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorateSong(record), nil
}

// ListSongs returns every track with its effective state resolved.
func (s *service) ListSongs(ctx context.Context) ([]*Song, error) {
	records, err := s.songs.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		s.decorateSong(record)
	}
	return records, nil
}

// CreateCollection registers a curated set.
func (s *service) CreateCollection(ctx context.Context, req CreateCollectionRequest) (*Collection, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug, err := s.resolveSlug(req.Slug, title)
	if err != nil {
		return nil, err
	}

	if existing, err := s.collections.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, ErrSlugExists
	} else if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	state := domain.Normalize(req.State)
	if req.State == "" {
		state = domain.StatePublished
	}
	if !state.IsValid() {
		return nil, ErrStateUnknown
	}
	// Collections carry no schedule date at creation time, so they cannot be
	// born scheduled; the transition path handles scheduling them later.
	if state == domain.StateScheduled {
		return nil, lifecycle.ErrScheduleDateRequired
	}

	now := s.now()
	record := &Collection{
		ID:        identity.CollectionUUID(slug),
		Title:     title,
		Curator:   cloneStringPtr(req.Curator),
		Slug:      slug,
		SongCount: req.SongCount,
		State:     string(state),
		CreatedBy: req.CreatedBy,
		UpdatedBy: req.CreatedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if state == domain.StatePublished {
		record.PublishedAt = &now
	}

	created, err := s.collections.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return s.decorateCollection(created), nil
}

// GetCollection retrieves a curated set by identifier.
func (s *service) GetCollection(ctx context.Context, id uuid.UUID) (*Collection, error) {
	record, err := s.collections.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decorateCollection(record), nil
}

// ListCollections returns every curated set with its effective state resolved.
func (s *service) ListCollections(ctx context.Context) ([]*Collection, error) {
	records, err := s.collections.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		s.decorateCollection(record)
	}
	return records, nil
}

// ChangeState applies a lifecycle transition to a song or collection. The
// transition is validated before any mutation; the audit event is recorded
// only after the repository accepted the update.
func (s *service) ChangeState(ctx context.Context, req ChangeStateRequest) (*Item, error) {
	if req.ItemID == uuid.Nil {
		return nil, ErrItemIDRequired
	}
	if !req.ItemType.IsValid() {
		return nil, ErrItemTypeInvalid
	}
	actor := strings.TrimSpace(req.Actor)
	if actor == "" {
		return nil, ErrActorRequired
	}

	target, ok := domain.FromWire(req.NewState)
	if !ok {
		return nil, ErrStateUnknown
	}

	switch req.ItemType {
	case ItemTypeSong:
		return s.changeSongState(ctx, req, target, actor)
	case ItemTypeCollection:
		return s.changeCollectionState(ctx, req, target, actor)
	}
	return nil, ErrItemTypeInvalid
}

func (s *service) changeSongState(ctx context.Context, req ChangeStateRequest, target domain.State, actor string) (*Item, error) {
	record, err := s.songs.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	current := domain.State(record.State)
	if verdict := s.validator.ValidateTransition(current, target, lifecycle.TransitionData{
		Reason:        req.Reason,
		ScheduledDate: req.ScheduledDate,
	}); !verdict.Valid {
		s.logRejection(ctx, ItemTypeSong, record.ID, current, target, verdict.Err)
		return nil, verdict.Err
	}
	if target == domain.StateScheduled && !s.schedulingEnabled {
		return nil, ErrSchedulingDisabled
	}

	now := s.now()
	previous := record.State
	record.PreviousState = &previous
	record.State = string(target)
	record.UpdatedAt = now
	record.UpdatedBy = identity.ActorUUID(actor)

	switch target {
	case domain.StateScheduled:
		at, err := datetime.ParseInstant(req.ScheduledDate)
		if err != nil {
			return nil, lifecycle.ErrScheduleDateNotFuture
		}
		record.ScheduledAt = &at
		record.BlockReason = nil
	case domain.StatePublished:
		record.PublishedAt = &now
		record.ScheduledAt = nil
		record.BlockReason = nil
	case domain.StateBlocked:
		reason := strings.TrimSpace(req.Reason)
		record.BlockReason = &reason
		record.ScheduledAt = nil
	}

	updated, err := s.songs.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if err := s.syncPublishJob(ctx, updated.ID, ItemTypeSong, target, updated.ScheduledAt, actor); err != nil {
		return nil, err
	}
	if err := s.recordTransition(ctx, updated.ID, ItemTypeSong, actor, previous, target, req, updated.ScheduledAt); err != nil {
		return nil, err
	}

	return songItem(s.decorateSong(updated)), nil
}

func (s *service) changeCollectionState(ctx context.Context, req ChangeStateRequest, target domain.State, actor string) (*Item, error) {
	record, err := s.collections.GetByID(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	current := domain.State(record.State)
	if verdict := s.validator.ValidateTransition(current, target, lifecycle.TransitionData{
		Reason:        req.Reason,
		ScheduledDate: req.ScheduledDate,
	}); !verdict.Valid {
		s.logRejection(ctx, ItemTypeCollection, record.ID, current, target, verdict.Err)
		return nil, verdict.Err
	}
	if target == domain.StateScheduled && !s.schedulingEnabled {
		return nil, ErrSchedulingDisabled
	}

	now := s.now()
	previous := record.State
	record.PreviousState = &previous
	record.State = string(target)
	record.UpdatedAt = now
	record.UpdatedBy = identity.ActorUUID(actor)

	switch target {
	case domain.StateScheduled:
		at, err := datetime.ParseInstant(req.ScheduledDate)
		if err != nil {
			return nil, lifecycle.ErrScheduleDateNotFuture
		}
		record.ScheduledAt = &at
		record.BlockReason = nil
	case domain.StatePublished:
		record.PublishedAt = &now
		record.ScheduledAt = nil
		record.BlockReason = nil
	case domain.StateBlocked:
		reason := strings.TrimSpace(req.Reason)
		record.BlockReason = &reason
		record.ScheduledAt = nil
	}

	updated, err := s.collections.Update(ctx, record)
	if err != nil {
		return nil, err
	}

	if err := s.syncPublishJob(ctx, updated.ID, ItemTypeCollection, target, updated.ScheduledAt, actor); err != nil {
		return nil, err
	}
	if err := s.recordTransition(ctx, updated.ID, ItemTypeCollection, actor, previous, target, req, updated.ScheduledAt); err != nil {
		return nil, err
	}

	return collectionItem(s.decorateCollection(updated)), nil
}

// History returns the item's state change events, most recent first.
func (s *service) History(ctx context.Context, itemID uuid.UUID) ([]*StateChangeEvent, error) {
	if itemID == uuid.Nil {
		return nil, ErrItemIDRequired
	}
	return s.recorder.List(ctx, itemID)
}

// Destinations lists the target states offered for an item in gateway wire
// form. Published items can only be blocked; blocked items can only be
// restored to their previous state (published when none is recorded); any
// other state offers every transition the rule table allows.
func (s *service) Destinations(ctx context.Context, itemID uuid.UUID, itemType ItemType) ([]string, error) {
	if itemID == uuid.Nil {
		return nil, ErrItemIDRequired
	}
	if !itemType.IsValid() {
		return nil, ErrItemTypeInvalid
	}

	var current domain.State
	var previous *string
	switch itemType {
	case ItemTypeSong:
		record, err := s.songs.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		current = domain.State(record.State)
		previous = record.PreviousState
	case ItemTypeCollection:
		record, err := s.collections.GetByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		current = domain.State(record.State)
		previous = record.PreviousState
	}

	var states []domain.State
	switch current {
	case domain.StatePublished:
		states = []domain.State{domain.StateBlocked}
	case domain.StateBlocked:
		restore := domain.StatePublished
		if previous != nil {
			if prior := domain.Normalize(*previous); prior.IsValid() && prior != domain.StateBlocked {
				restore = prior
			}
		}
		states = []domain.State{restore}
	default:
		states = s.validator.Destinations(current)
	}

	out := make([]string, 0, len(states))
	for _, state := range states {
		out = append(out, domain.ToWire(state))
	}
	return out, nil
}

func (s *service) resolveSlug(raw, title string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		normalized, err := NormalizeSlug(title)
		if err != nil || normalized == "" {
			return "", ErrSlugRequired
		}
		return normalized, nil
	}
	if !IsValidSlug(candidate) {
		return "", ErrSlugInvalid
	}
	return candidate, nil
}

func (s *service) syncPublishJob(ctx context.Context, id uuid.UUID, itemType ItemType, target domain.State, scheduledAt *time.Time, actor string) error {
	if s.scheduler == nil {
		return nil
	}
	key := melodiascheduler.SongPublishJobKey(id)
	if itemType == ItemTypeCollection {
		key = melodiascheduler.CollectionPublishJobKey(id)
	}

	if target == domain.StateScheduled && scheduledAt != nil {
		return s.enqueuePublish(ctx, id, itemType, *scheduledAt, actor)
	}
	if err := s.scheduler.CancelByKey(ctx, key); err != nil && !errors.Is(err, interfaces.ErrJobNotFound) {
		return err
	}
	return nil
}

func (s *service) enqueuePublish(ctx context.Context, id uuid.UUID, itemType ItemType, runAt time.Time, actor string) error {
	key := melodiascheduler.SongPublishJobKey(id)
	jobType := melodiascheduler.JobTypeSongPublish
	payloadKey := "song_id"
	if itemType == ItemTypeCollection {
		key = melodiascheduler.CollectionPublishJobKey(id)
		jobType = melodiascheduler.JobTypeCollectionPublish
		payloadKey = "collection_id"
	}

	payload := map[string]any{payloadKey: id.String()}
	if actor != "" {
		payload["actor"] = actor
	}
	if _, err := s.scheduler.Enqueue(ctx, interfaces.JobSpec{
		Key:     key,
		Type:    jobType,
		RunAt:   runAt,
		Payload: payload,
	}); err != nil {
		return err
	}
	return nil
}

func (s *service) recordTransition(ctx context.Context, id uuid.UUID, itemType ItemType, actor, previous string, target domain.State, req ChangeStateRequest, scheduledAt *time.Time) error {
	entry := audit.Entry{
		ItemID:        id,
		ItemType:      itemType,
		Actor:         actor,
		PreviousState: previous,
		NewState:      string(target),
	}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		entry.Reason = &reason
	}
	if target == domain.StateScheduled {
		entry.ScheduledAt = cloneTimePtr(scheduledAt)
	}

	if _, err := s.recorder.Record(ctx, entry); err != nil {
		return fmt.Errorf("catalog: record state change: %w", err)
	}
	return nil
}

func (s *service) logRejection(ctx context.Context, itemType ItemType, id uuid.UUID, from, to domain.State, cause error) {
	if s.logger == nil {
		return
	}
	s.logger.WithContext(ctx).Debug("transition rejected",
		"item_type", string(itemType),
		"item_id", id.String(),
		"from", string(from),
		"to", string(to),
		"cause", cause,
	)
}

func (s *service) decorateSong(record *Song) *Song {
	if record == nil {
		return nil
	}
	record.EffectiveState = string(domain.EffectiveState(domain.State(record.State)))
	return record
}

func (s *service) decorateCollection(record *Collection) *Collection {
	if record == nil {
		return nil
	}
	record.EffectiveState = string(domain.EffectiveState(domain.State(record.State)))
	return record
}

func songItem(record *Song) *Item {
	return &Item{
		ID:             record.ID,
		Type:           ItemTypeSong,
		Slug:           record.Slug,
		State:          record.State,
		EffectiveState: record.EffectiveState,
		PreviousState:  cloneStringPtr(record.PreviousState),
		ScheduledAt:    cloneTimePtr(record.ScheduledAt),
		PublishedAt:    cloneTimePtr(record.PublishedAt),
		BlockReason:    cloneStringPtr(record.BlockReason),
		UpdatedAt:      record.UpdatedAt,
	}
}

func collectionItem(record *Collection) *Item {
	return &Item{
		ID:             record.ID,
		Type:           ItemTypeCollection,
		Slug:           record.Slug,
		State:          record.State,
		EffectiveState: record.EffectiveState,
		PreviousState:  cloneStringPtr(record.PreviousState),
		ScheduledAt:    cloneTimePtr(record.ScheduledAt),
		PublishedAt:    cloneTimePtr(record.PublishedAt),
		BlockReason:    cloneStringPtr(record.BlockReason),
		UpdatedAt:      record.UpdatedAt,
	}
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
