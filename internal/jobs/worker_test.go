package jobs_test

import (
	"context"
	"testing"
	"time"

	melodiacatalog "github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/audit"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/jobs"
	melodiascheduler "github.com/MelodiApp/melodia-backoffice-sub000/internal/scheduler"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	"github.com/google/uuid"
)

func seedScheduledSong(t *testing.T, songs *catalog.MemorySongRepository, runAt time.Time) *melodiacatalog.Song {
	t.Helper()
	song := &melodiacatalog.Song{
		ID:          uuid.New(),
		Title:       "Queued",
		Artist:      "Test",
		Slug:        "queued-" + uuid.NewString()[:8],
		State:       "scheduled",
		ScheduledAt: &runAt,
	}
	created, err := songs.Create(context.Background(), song)
	if err != nil {
		t.Fatalf("seed song: %v", err)
	}
	return created
}

func enqueuePublish(t *testing.T, sched interfaces.Scheduler, song *melodiacatalog.Song, runAt time.Time) *interfaces.Job {
	t.Helper()
	job, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Key:     melodiascheduler.SongPublishJobKey(song.ID),
		Type:    melodiascheduler.JobTypeSongPublish,
		RunAt:   runAt,
		Payload: map[string]any{"song_id": song.ID.String()},
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	return job
}

func TestProcess_PublishesDueSong(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	songs := catalog.NewMemorySongRepository()
	recorder := audit.NewInMemoryRecorder(audit.WithClock(clock))
	sched := melodiascheduler.NewInMemory(melodiascheduler.WithClock(clock))

	runAt := now.Add(-time.Minute)
	song := seedScheduledSong(t, songs, runAt)
	job := enqueuePublish(t, sched, song, runAt)

	worker := jobs.NewWorker(sched, songs, catalog.NewMemoryCollectionRepository(),
		jobs.WithClock(clock),
		jobs.WithAuditRecorder(recorder),
	)
	if err := worker.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	updated, err := songs.GetByID(context.Background(), song.ID)
	if err != nil {
		t.Fatalf("get song: %v", err)
	}
	if updated.State != "published" {
		t.Fatalf("expected published, got %q", updated.State)
	}
	if updated.ScheduledAt != nil {
		t.Fatal("expected schedule cleared")
	}
	if updated.PublishedAt == nil || !updated.PublishedAt.Equal(runAt) {
		t.Fatalf("expected published_at %v, got %v", runAt, updated.PublishedAt)
	}
	if updated.PreviousState == nil || *updated.PreviousState != "scheduled" {
		t.Fatalf("expected previous state scheduled, got %v", updated.PreviousState)
	}

	stored, err := sched.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status != interfaces.JobStatusCompleted {
		t.Fatalf("expected completed job, got %q", stored.Status)
	}

	events, _ := recorder.List(context.Background(), song.ID)
	if len(events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(events))
	}
	if events[0].Actor != "scheduler" {
		t.Fatalf("expected system actor, got %q", events[0].Actor)
	}
	if events[0].PreviousState != "scheduled" || events[0].NewState != "published" {
		t.Fatalf("unexpected audit event %+v", events[0])
	}
}

func TestProcess_SkipsFutureJobs(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	songs := catalog.NewMemorySongRepository()
	sched := melodiascheduler.NewInMemory(melodiascheduler.WithClock(clock))

	runAt := now.Add(time.Hour)
	song := seedScheduledSong(t, songs, runAt)
	enqueuePublish(t, sched, song, runAt)

	worker := jobs.NewWorker(sched, songs, catalog.NewMemoryCollectionRepository(), jobs.WithClock(clock))
	if err := worker.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	updated, _ := songs.GetByID(context.Background(), song.ID)
	if updated.State != "scheduled" {
		t.Fatalf("expected song untouched, got %q", updated.State)
	}
}

func TestProcess_StaleJobLeavesRecordAlone(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	songs := catalog.NewMemorySongRepository()
	recorder := audit.NewInMemoryRecorder(audit.WithClock(clock))
	sched := melodiascheduler.NewInMemory(melodiascheduler.WithClock(clock))

	runAt := now.Add(-time.Minute)
	song := seedScheduledSong(t, songs, runAt)
	job := enqueuePublish(t, sched, song, runAt)

	// The item was blocked after the job was enqueued.
	song.State = "blocked"
	reason := "rights dispute"
	song.BlockReason = &reason
	song.ScheduledAt = nil
	if _, err := songs.Update(context.Background(), song); err != nil {
		t.Fatalf("update song: %v", err)
	}

	worker := jobs.NewWorker(sched, songs, catalog.NewMemoryCollectionRepository(),
		jobs.WithClock(clock),
		jobs.WithAuditRecorder(recorder),
	)
	if err := worker.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	updated, _ := songs.GetByID(context.Background(), song.ID)
	if updated.State != "blocked" {
		t.Fatalf("expected blocked to win over stale job, got %q", updated.State)
	}

	stored, err := sched.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Status != interfaces.JobStatusCompleted {
		t.Fatalf("expected stale job completed, got %q", stored.Status)
	}

	events, _ := recorder.List(context.Background(), song.ID)
	if len(events) != 0 {
		t.Fatalf("expected no audit events, got %d", len(events))
	}
}

type markDoneFailingScheduler struct {
	interfaces.Scheduler
	markDoneErr error
}

func (s *markDoneFailingScheduler) MarkDone(context.Context, string) error {
	return s.markDoneErr
}

type warnCapture struct {
	warnings *[]string
}

func newWarnCapture() warnCapture {
	return warnCapture{warnings: &[]string{}}
}

func (l warnCapture) Trace(string, ...any) {}
func (l warnCapture) Debug(string, ...any) {}
func (l warnCapture) Info(string, ...any)  {}
func (l warnCapture) Error(string, ...any) {}
func (l warnCapture) Fatal(string, ...any) {}

func (l warnCapture) Warn(msg string, _ ...any) {
	*l.warnings = append(*l.warnings, msg)
}

func (l warnCapture) WithContext(context.Context) interfaces.Logger { return l }

func TestProcess_LogsBookkeepingFailures(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	songs := catalog.NewMemorySongRepository()
	inner := melodiascheduler.NewInMemory(melodiascheduler.WithClock(clock))
	sched := &markDoneFailingScheduler{
		Scheduler:   inner,
		markDoneErr: context.DeadlineExceeded,
	}

	runAt := now.Add(-time.Minute)
	song := seedScheduledSong(t, songs, runAt)
	enqueuePublish(t, inner, song, runAt)

	logger := newWarnCapture()
	worker := jobs.NewWorker(sched, songs, catalog.NewMemoryCollectionRepository(),
		jobs.WithClock(clock),
		jobs.WithLogger(logger),
	)
	if err := worker.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	// The publish itself still lands even when bookkeeping fails.
	updated, _ := songs.GetByID(context.Background(), song.ID)
	if updated.State != "published" {
		t.Fatalf("expected published, got %q", updated.State)
	}

	var logged bool
	for _, msg := range *logger.warnings {
		if msg == "scheduler bookkeeping failed" {
			logged = true
		}
	}
	if !logged {
		t.Fatalf("expected a bookkeeping warning, got %v", *logger.warnings)
	}
}

func TestProcess_BadPayloadMarksJobFailed(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	songs := catalog.NewMemorySongRepository()
	sched := melodiascheduler.NewInMemory(melodiascheduler.WithClock(clock))

	job, err := sched.Enqueue(context.Background(), interfaces.JobSpec{
		Key:   "song:broken:publish",
		Type:  melodiascheduler.JobTypeSongPublish,
		RunAt: now.Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	worker := jobs.NewWorker(sched, songs, catalog.NewMemoryCollectionRepository(), jobs.WithClock(clock))
	if err := worker.Process(context.Background()); err != nil {
		t.Fatalf("process: %v", err)
	}

	stored, err := sched.Get(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("get job: %v", err)
	}
	if stored.Attempt != 1 {
		t.Fatalf("expected one failed attempt, got %d", stored.Attempt)
	}
	if stored.Status != interfaces.JobStatusPending {
		t.Fatalf("expected retryable job, got %q", stored.Status)
	}
}
