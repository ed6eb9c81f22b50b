package jobs

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"farmshare-backend/internal/config"
	"farmshare-backend/internal/logger"
	"farmshare-backend/internal/service"
)

// ErrUnknownJob is returned by RunJob for a name JobNames does not list
var ErrUnknownJob = errors.New("unknown job")

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	clock    service.Clock
	timeout  time.Duration
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Rental service.RentalService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config, clock service.Clock) *JobRunner {
	if clock == nil {
		clock = service.SystemClock
	}
	return &JobRunner{
		services: services,
		config:   cfg,
		clock:    clock,
		timeout:  5 * time.Minute,
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and a deadline
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
			err = fmt.Errorf("job %s panicked: %v", jobName, r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jr.timeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", time.Since(start))
		return err
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
	return nil
}

// jobs lists the jobs that can be run by name
func (jr *JobRunner) jobs() map[string]func() error {
	return map[string]func() error{
		"expire-stale-requests": jr.ExpireStaleRentalRequests,
	}
}

// JobNames returns the names accepted by RunJob
func (jr *JobRunner) JobNames() []string {
	var names []string
	for name := range jr.jobs() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunJob runs a single job by name (for manual execution)
func (jr *JobRunner) RunJob(name string) error {
	job, ok := jr.jobs()[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	return job()
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() error {
	return jr.ExpireStaleRentalRequests()
}
