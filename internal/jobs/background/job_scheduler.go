package background

import (
	"context"
	"fmt"
	"sync"
	"time"

	"adsyclub/internal/config"
	"adsyclub/internal/jobs"
	"adsyclub/internal/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	ExpirationSweepJob = "subscription-expiration-sweep"
	ProductSyncJob     = "product-activation-sync"
)

// Sweeper runs one expiration sweep.
type Sweeper interface {
	Run(ctx context.Context) (*jobs.SweepSummary, error)
}

// JobScheduler runs the daily maintenance jobs. Times are interpreted in UTC.
type JobScheduler struct {
	scheduler   gocron.Scheduler
	sweeper     Sweeper
	productSync services.ProductSyncService
	jobs        map[string]gocron.Job
	mu          sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(cfg config.JobsConfig, sweeper Sweeper, productSync services.ProductSyncService, clock clockwork.Clock) (*JobScheduler, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	scheduler, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLocation(time.UTC),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:   scheduler,
		sweeper:     sweeper,
		productSync: productSync,
		jobs:        make(map[string]gocron.Job),
	}

	if err := js.registerJobs(cfg); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Info().Int("jobs", len(js.jobs)).Msg("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Info().Msg("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// NextRun returns the next scheduled run of the named job.
func (js *JobScheduler) NextRun(name string) (time.Time, error) {
	js.mu.RLock()
	job, ok := js.jobs[name]
	js.mu.RUnlock()
	if !ok {
		return time.Time{}, fmt.Errorf("job %q is not registered", name)
	}
	return job.NextRun()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs(cfg config.JobsConfig) error {
	if err := js.addDaily(ExpirationSweepJob, cfg.SweepAt, js.runSweep); err != nil {
		return err
	}
	if err := js.addDaily(ProductSyncJob, cfg.SyncAt, js.runProductSync); err != nil {
		return err
	}
	log.Info().Int("jobs", len(js.jobs)).Msg("Registered background jobs")
	return nil
}

func (js *JobScheduler) addDaily(name, at string, task func(context.Context)) error {
	hour, minute, err := config.ParseClock(at)
	if err != nil {
		return fmt.Errorf("invalid schedule for %s: %w", name, err)
	}

	job, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(task, context.Background()),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s job: %w", name, err)
	}

	js.mu.Lock()
	js.jobs[name] = job
	js.mu.Unlock()
	return nil
}

func (js *JobScheduler) runSweep(ctx context.Context) {
	summary, err := js.sweeper.Run(ctx)
	if err != nil {
		log.Error().Err(err).Str("job", ExpirationSweepJob).Msg("Scheduled sweep failed")
		return
	}
	log.Info().Str("job", ExpirationSweepJob).Msg(summary.Message)
}

func (js *JobScheduler) runProductSync(ctx context.Context) {
	result, err := js.productSync.SyncWithSubscriptionStatus(ctx, nil, false)
	if err != nil {
		log.Error().Err(err).Str("job", ProductSyncJob).Msg("Scheduled product sync failed")
		return
	}
	log.Info().Str("job", ProductSyncJob).Msg(result.Message)
}
