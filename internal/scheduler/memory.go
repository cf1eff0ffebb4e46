package scheduler

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	"github.com/google/uuid"
)

const defaultRetryBudget = 3

// NewInMemory creates a scheduler backed by process memory. It keeps at most
// one pending job per item key and retains superseded and finished jobs so
// their terminal status stays observable.
func NewInMemory(opts ...Option) interfaces.Scheduler {
	mem := &memoryScheduler{
		now:         time.Now,
		nextID:      func() string { return uuid.NewString() },
		byID:        make(map[string]*interfaces.Job),
		pendingKeys: make(map[string]string),
		retryBudget: defaultRetryBudget,
	}
	for _, opt := range opts {
		opt(mem)
	}
	return mem
}

// Option customises the in-memory scheduler.
type Option func(*memoryScheduler)

// WithClock overrides the internal clock, used mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *memoryScheduler) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the ID generator used when enqueuing jobs.
func WithIDGenerator(generator func() string) Option {
	return func(s *memoryScheduler) {
		if generator != nil {
			s.nextID = generator
		}
	}
}

// WithDefaultMaxAttempts overrides the retry budget applied when a job spec
// leaves MaxAttempts unset.
func WithDefaultMaxAttempts(limit int) Option {
	return func(s *memoryScheduler) {
		if limit > 0 {
			s.retryBudget = limit
		}
	}
}

type memoryScheduler struct {
	mu          sync.Mutex
	now         func() time.Time
	nextID      func() string
	retryBudget int

	byID map[string]*interfaces.Job
	// pendingKeys maps an item key to the ID of its single pending job.
	pendingKeys map[string]string
}

func (s *memoryScheduler) Enqueue(_ context.Context, spec interfaces.JobSpec) (*interfaces.Job, error) {
	if spec.RunAt.IsZero() {
		return nil, errors.New("scheduler: run_at is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if spec.Key != "" {
		s.supersedeLocked(spec.Key, now)
	}

	job := &interfaces.Job{
		JobSpec: interfaces.JobSpec{
			Key:         spec.Key,
			Type:        spec.Type,
			RunAt:       spec.RunAt,
			Payload:     clonePayload(spec.Payload),
			MaxAttempts: spec.MaxAttempts,
		},
		ID:        s.nextID(),
		Status:    interfaces.JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if job.MaxAttempts == 0 {
		job.MaxAttempts = s.retryBudget
	}

	s.byID[job.ID] = job
	if job.Key != "" {
		s.pendingKeys[job.Key] = job.ID
	}
	return cloneJob(job), nil
}

// supersedeLocked cancels the pending job for key, keeping its record around
// so callers holding the old ID still see a terminal status.
func (s *memoryScheduler) supersedeLocked(key string, now time.Time) {
	id, ok := s.pendingKeys[key]
	if !ok {
		return
	}
	if job := s.byID[id]; job != nil {
		job.Status = interfaces.JobStatusCanceled
		job.UpdatedAt = now
	}
	delete(s.pendingKeys, key)
}

func (s *memoryScheduler) CancelByKey(_ context.Context, key string) error {
	if key == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.pendingKeys[key]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job := s.byID[id]
	if job == nil {
		return interfaces.ErrJobNotFound
	}
	job.Status = interfaces.JobStatusCanceled
	job.UpdatedAt = s.now()
	delete(s.pendingKeys, key)
	return nil
}

func (s *memoryScheduler) Get(_ context.Context, id string) (*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (s *memoryScheduler) GetByKey(_ context.Context, key string) (*interfaces.Job, error) {
	if key == "" {
		return nil, interfaces.ErrJobNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.pendingKeys[key]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	job, ok := s.byID[id]
	if !ok {
		return nil, interfaces.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (s *memoryScheduler) ListDue(_ context.Context, until time.Time, limit int) ([]*interfaces.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = len(s.byID)
	}
	due := make([]*interfaces.Job, 0, len(s.byID))
	for _, job := range s.byID {
		if job.Status != interfaces.JobStatusPending || job.RunAt.After(until) {
			continue
		}
		due = append(due, cloneJob(job))
	}
	slices.SortStableFunc(due, func(a, b *interfaces.Job) int {
		if c := a.RunAt.Compare(b.RunAt); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (s *memoryScheduler) MarkDone(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Status = interfaces.JobStatusCompleted
	job.UpdatedAt = s.now()
	if job.Key != "" && s.pendingKeys[job.Key] == id {
		delete(s.pendingKeys, job.Key)
	}
	return nil
}

func (s *memoryScheduler) MarkFailed(_ context.Context, id string, failure error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.byID[id]
	if !ok {
		return interfaces.ErrJobNotFound
	}
	job.Attempt++
	job.UpdatedAt = s.now()
	job.LastError = ""
	if failure != nil {
		job.LastError = failure.Error()
	}
	if job.MaxAttempts > 0 && job.Attempt >= job.MaxAttempts {
		job.Status = interfaces.JobStatusFailed
		if job.Key != "" && s.pendingKeys[job.Key] == id {
			delete(s.pendingKeys, job.Key)
		}
	} else {
		job.Status = interfaces.JobStatusPending
	}
	return nil
}

func cloneJob(job *interfaces.Job) *interfaces.Job {
	if job == nil {
		return nil
	}
	clone := *job
	if job.Payload != nil {
		clone.Payload = maps.Clone(job.Payload)
	}
	return &clone
}

func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	return maps.Clone(payload)
}
