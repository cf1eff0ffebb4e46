package backoffice

import (
	"context"
	"time"

	melodiacatalog "github.com/MelodiApp/melodia-backoffice-sub000/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/audit"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/commands"
	catalogcmd "github.com/MelodiApp/melodia-backoffice-sub000/internal/commands/catalog"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/jobs"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/lifecycle"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/logging"
	"github.com/MelodiApp/melodia-backoffice-sub000/internal/logging/gologger"
	melodiascheduler "github.com/MelodiApp/melodia-backoffice-sub000/internal/scheduler"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/interfaces"
	"github.com/MelodiApp/melodia-backoffice-sub000/pkg/storage"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
)

// CatalogService exports the catalog service contract for consumers of the backoffice package.
type CatalogService = melodiacatalog.Service

// ChangeStateRequest exports the transition request payload.
type ChangeStateRequest = melodiacatalog.ChangeStateRequest

// AuditRecorder exports the state change recorder contract.
type AuditRecorder = audit.Recorder

// TransitionValidator exports the lifecycle validator.
type TransitionValidator = lifecycle.Validator

// TransitionRule exports one row of the lifecycle rule table.
type TransitionRule = lifecycle.Rule

// NewTransitionValidator constructs a standalone transition validator.
func NewTransitionValidator(opts ...lifecycle.Option) *TransitionValidator {
	return lifecycle.New(opts...)
}

// TransitionRules returns the ordered lifecycle rule table.
func TransitionRules() []TransitionRule {
	return lifecycle.Rules()
}

// Module represents the top level backoffice runtime façade.
type Module struct {
	cfg       Config
	provider  interfaces.LoggerProvider
	scheduler interfaces.Scheduler
	recorder  audit.Recorder
	service   melodiacatalog.Service
	worker    *jobs.Worker
}

// Option customises module wiring.
type Option func(*moduleDeps)

type moduleDeps struct {
	db        *bun.DB
	provider  interfaces.LoggerProvider
	scheduler interfaces.Scheduler
	recorder  audit.Recorder
	clock     func() time.Time
}

// WithDB binds the module to a bun database; repositories and the audit log
// persist there instead of in memory.
func WithDB(db *bun.DB) Option {
	return func(d *moduleDeps) {
		d.db = db
	}
}

// WithLoggerProvider overrides the logger provider derived from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(d *moduleDeps) {
		if provider != nil {
			d.provider = provider
		}
	}
}

// WithScheduler overrides the in-memory scheduler.
func WithScheduler(scheduler interfaces.Scheduler) Option {
	return func(d *moduleDeps) {
		if scheduler != nil {
			d.scheduler = scheduler
		}
	}
}

// WithAuditRecorder overrides the audit recorder.
func WithAuditRecorder(recorder audit.Recorder) Option {
	return func(d *moduleDeps) {
		if recorder != nil {
			d.recorder = recorder
		}
	}
}

// WithClock overrides the clock shared by the service, validator, and worker.
func WithClock(clock func() time.Time) Option {
	return func(d *moduleDeps) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// New constructs a backoffice module using the provided configuration and optional overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	deps := &moduleDeps{clock: time.Now}
	for _, opt := range opts {
		opt(deps)
	}

	if deps.provider == nil && cfg.Features.Logger {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		deps.provider = provider
	}

	if deps.db == nil && cfg.Storage.DSN != "" {
		db, err := storage.Open(storage.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN})
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(context.Background(), db); err != nil {
			return nil, err
		}
		deps.db = db
	}

	if deps.scheduler == nil {
		schedOpts := []melodiascheduler.Option{melodiascheduler.WithClock(deps.clock)}
		if cfg.Scheduler.MaxAttempts > 0 {
			schedOpts = append(schedOpts, melodiascheduler.WithDefaultMaxAttempts(cfg.Scheduler.MaxAttempts))
		}
		deps.scheduler = melodiascheduler.NewInMemory(schedOpts...)
	}

	var songs catalog.SongRepository
	var collections catalog.CollectionRepository
	if deps.db != nil {
		cacheService, keySerializer := buildRepositoryCache(cfg.Cache)
		songs = catalog.NewBunSongRepositoryWithCache(deps.db, cacheService, keySerializer)
		collections = catalog.NewBunCollectionRepositoryWithCache(deps.db, cacheService, keySerializer)
		if deps.recorder == nil {
			deps.recorder = audit.NewBunRecorder(deps.db,
				audit.WithBunClock(deps.clock),
				audit.WithBunLogger(logging.AuditLogger(deps.provider)),
			)
		}
	} else {
		songs = catalog.NewMemorySongRepository()
		collections = catalog.NewMemoryCollectionRepository()
	}
	if deps.recorder == nil {
		deps.recorder = audit.NewInMemoryRecorder(audit.WithClock(deps.clock))
	}

	service := catalog.NewService(songs, collections, deps.recorder,
		catalog.WithClock(deps.clock),
		catalog.WithScheduler(deps.scheduler),
		catalog.WithSchedulingEnabled(cfg.Features.Scheduling),
		catalog.WithLogger(logging.CatalogLogger(deps.provider)),
	)

	workerOpts := []jobs.Option{
		jobs.WithClock(deps.clock),
		jobs.WithAuditRecorder(deps.recorder),
		jobs.WithLogger(logging.SchedulerLogger(deps.provider)),
	}
	if cfg.Scheduler.BatchSize > 0 {
		workerOpts = append(workerOpts, jobs.WithBatchSize(cfg.Scheduler.BatchSize))
	}
	worker := jobs.NewWorker(deps.scheduler, songs, collections, workerOpts...)

	return &Module{
		cfg:       cfg,
		provider:  deps.provider,
		scheduler: deps.scheduler,
		recorder:  deps.recorder,
		service:   service,
		worker:    worker,
	}, nil
}

// buildRepositoryCache constructs the read-through repository cache when the
// feature is enabled. A construction failure degrades to uncached repositories
// rather than blocking startup.
func buildRepositoryCache(cfg CacheConfig) (repocache.CacheService, repocache.KeySerializer) {
	if !cfg.Enabled {
		return nil, nil
	}
	serviceCfg := repocache.DefaultConfig()
	if cfg.DefaultTTL > 0 {
		serviceCfg.TTL = cfg.DefaultTTL
	}
	service, err := repocache.NewCacheService(serviceCfg)
	if err != nil {
		return nil, nil
	}
	return service, repocache.NewDefaultKeySerializer()
}

// Catalog returns the configured catalog service.
func (m *Module) Catalog() CatalogService {
	return m.service
}

// Scheduler returns the scheduler used for publish automation.
func (m *Module) Scheduler() interfaces.Scheduler {
	return m.scheduler
}

// Audit returns the state change recorder.
func (m *Module) Audit() AuditRecorder {
	return m.recorder
}

// Worker returns the publish worker draining due jobs.
func (m *Module) Worker() *jobs.Worker {
	return m.worker
}

// ProcessDue drains one batch of due publish jobs.
func (m *Module) ProcessDue(ctx context.Context) error {
	return m.worker.Process(ctx)
}

// ChangeStateCommand re-exports the catalog command message for host dispatchers.
type ChangeStateCommand = catalogcmd.ChangeStateCommand

// ScheduleItemCommand re-exports the scheduling command message.
type ScheduleItemCommand = catalogcmd.ScheduleItemCommand

// PublishDueCommand re-exports the worker drain command message.
type PublishDueCommand = catalogcmd.PublishDueCommand

// CommandHandlers groups the go-command handlers the module exposes so hosts
// can register them with their own dispatcher or cron runner.
type CommandHandlers struct {
	ChangeState  *catalogcmd.ChangeStateHandler
	ScheduleItem *catalogcmd.ScheduleItemHandler
	PublishDue   *catalogcmd.PublishDueHandler

	// PublishDueSpec carries the configured cron expression for PublishDue;
	// empty when the deployment does not schedule periodic drains.
	PublishDueSpec string
}

// Commands builds the command handler set. It fails when the command surface
// is disabled in configuration.
func (m *Module) Commands() (*CommandHandlers, error) {
	if !m.cfg.Commands.Enabled {
		return nil, ErrCommandsDisabled
	}
	gates := catalogcmd.FeatureGates{
		SchedulingEnabled: func() bool { return m.cfg.Features.Scheduling },
	}
	logger := commands.CommandLogger(m.provider, "catalog")
	return &CommandHandlers{
		ChangeState:    catalogcmd.NewChangeStateHandler(m.service, logger, gates),
		ScheduleItem:   catalogcmd.NewScheduleItemHandler(m.service, logger, gates),
		PublishDue:     catalogcmd.NewPublishDueHandler(m.worker, logger),
		PublishDueSpec: m.cfg.Commands.PublishDueCron,
	}, nil
}

// LoggerProvider exposes the provider backing module loggers, nil when logging is disabled.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	if m == nil {
		return nil
	}
	return m.provider
}
