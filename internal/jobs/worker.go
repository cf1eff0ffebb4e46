package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/audit"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/domain"
	melodiascheduler "github.com/MelodiApp/melodia-backoffice-sub000/internal/scheduler"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	"github.com/google/uuid"
)

// systemActor is stamped on audit events when a job carries no actor.
const systemActor = "scheduler"

type SongRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Song, error)
	Update(ctx context.Context, record *catalog.Song) (*catalog.Song, error)
}

type CollectionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.Collection, error)
	Update(ctx context.Context, record *catalog.Collection) (*catalog.Collection, error)
}

// Worker drains due publish jobs and promotes scheduled catalog items to
// published. Stale jobs whose item has since moved on are completed without
// touching the record.
type Worker struct {
	scheduler   interfaces.Scheduler
	songs       SongRepository
	collections CollectionRepository
	audit       audit.Recorder
	logger      interfaces.Logger
	now         func() time.Time
	batchSize   int
}

type Option func(*Worker)

func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(w *Worker) {
		w.audit = recorder
	}
}

func WithClock(clock func() time.Time) Option {
	return func(w *Worker) {
		if clock != nil {
			w.now = clock
		}
	}
}

func WithBatchSize(size int) Option {
	return func(w *Worker) {
		if size > 0 {
			w.batchSize = size
		}
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func NewWorker(scheduler interfaces.Scheduler, songs SongRepository, collections CollectionRepository, opts ...Option) *Worker {
	w := &Worker{
		scheduler:   scheduler,
		songs:       songs,
		collections: collections,
		now:         time.Now,
		batchSize:   50,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process drains one batch of due jobs. Failed jobs are marked for retry and
// do not abort the batch.
func (w *Worker) Process(ctx context.Context) error {
	if w.scheduler == nil {
		return errors.New("jobs: scheduler is nil")
	}
	deadline := w.now()
	jobs, err := w.scheduler.ListDue(ctx, deadline, w.batchSize)
	if err != nil {
		return err
	}
	for _, job := range jobs {
		if job == nil {
			continue
		}
		if err := w.handleJob(ctx, job, deadline); err != nil {
			w.logFailure(ctx, job, err)
			if markErr := w.scheduler.MarkFailed(ctx, job.ID, err); markErr != nil {
				w.logBookkeeping(ctx, job, "mark failed", markErr)
			}
			continue
		}
		if err := w.scheduler.MarkDone(ctx, job.ID); err != nil {
			w.logBookkeeping(ctx, job, "mark done", err)
		}
	}
	return nil
}

func (w *Worker) handleJob(ctx context.Context, job *interfaces.Job, now time.Time) error {
	switch job.Type {
	case melodiascheduler.JobTypeSongPublish:
		return w.processSongPublish(ctx, job, now)
	case melodiascheduler.JobTypeCollectionPublish:
		return w.processCollectionPublish(ctx, job, now)
	default:
		return nil
	}
}

func (w *Worker) processSongPublish(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.songs == nil {
		return errors.New("jobs: song repository is nil")
	}
	id, actor, err := parseJobIdentifiers(job.Payload, "song_id")
	if err != nil {
		return err
	}
	record, err := w.songs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.ShouldAutoPublishAt(domain.State(record.State), record.ScheduledAt, now) {
		return nil
	}

	previous := record.State
	record.PreviousState = &previous
	record.State = string(domain.StatePublished)
	publishedAt := job.RunAt
	if publishedAt.IsZero() {
		publishedAt = now
	}
	record.PublishedAt = &publishedAt
	record.ScheduledAt = nil
	record.UpdatedAt = now

	if _, err := w.songs.Update(ctx, record); err != nil {
		return err
	}
	w.recordTransition(ctx, id, catalog.ItemTypeSong, actor, previous)
	return nil
}

func (w *Worker) processCollectionPublish(ctx context.Context, job *interfaces.Job, now time.Time) error {
	if w.collections == nil {
		return errors.New("jobs: collection repository is nil")
	}
	id, actor, err := parseJobIdentifiers(job.Payload, "collection_id")
	if err != nil {
		return err
	}
	record, err := w.collections.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.ShouldAutoPublishAt(domain.State(record.State), record.ScheduledAt, now) {
		return nil
	}

	previous := record.State
	record.PreviousState = &previous
	record.State = string(domain.StatePublished)
	publishedAt := job.RunAt
	if publishedAt.IsZero() {
		publishedAt = now
	}
	record.PublishedAt = &publishedAt
	record.ScheduledAt = nil
	record.UpdatedAt = now

	if _, err := w.collections.Update(ctx, record); err != nil {
		return err
	}
	w.recordTransition(ctx, id, catalog.ItemTypeCollection, actor, previous)
	return nil
}

func (w *Worker) recordTransition(ctx context.Context, id uuid.UUID, itemType catalog.ItemType, actor, previous string) {
	if w.audit == nil {
		return
	}
	_, _ = w.audit.Record(ctx, audit.Entry{
		ItemID:        id,
		ItemType:      itemType,
		Actor:         actor,
		PreviousState: previous,
		NewState:      string(domain.StatePublished),
	})
}

func (w *Worker) logFailure(ctx context.Context, job *interfaces.Job, cause error) {
	if w.logger == nil {
		return
	}
	w.logger.WithContext(ctx).Warn("publish job failed",
		"job_id", job.ID,
		"job_type", job.Type,
		"attempt", job.Attempt,
		"cause", cause,
	)
}

func (w *Worker) logBookkeeping(ctx context.Context, job *interfaces.Job, action string, cause error) {
	if w.logger == nil {
		return
	}
	w.logger.WithContext(ctx).Warn("scheduler bookkeeping failed",
		"action", action,
		"job_id", job.ID,
		"job_type", job.Type,
		"cause", cause,
	)
}

func parseJobIdentifiers(payload map[string]any, key string) (uuid.UUID, string, error) {
	if payload == nil {
		return uuid.Nil, "", fmt.Errorf("jobs: missing payload")
	}
	rawID, ok := payload[key]
	if !ok {
		return uuid.Nil, "", fmt.Errorf("jobs: payload missing %s", key)
	}
	idStr, ok := rawID.(string)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("jobs: invalid %s payload", key)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, "", err
	}
	actor := systemActor
	if rawActor, ok := payload["actor"]; ok {
		if str, ok := rawActor.(string); ok && str != "" {
			actor = str
		}
	}
	return id, actor, nil
}
