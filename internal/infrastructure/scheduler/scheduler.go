// Package scheduler runs recurring background jobs on fixed intervals.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSchedulerNotRunning is returned when a job is triggered on a stopped scheduler
var ErrSchedulerNotRunning = errors.New("scheduler is not running")

// Job is a unit of recurring background work
type Job interface {
	// Name identifies the job in logs and manual triggers
	Name() string
	// Run executes one pass of the job
	Run(ctx context.Context) error
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Enabled    bool
	JobTimeout time.Duration
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled:    true,
		JobTimeout: 10 * time.Minute,
	}
}

type registeredJob struct {
	job      Job
	interval time.Duration
}

// Scheduler runs registered jobs on their own intervals. Each job gets one
// goroutine; a slow job never delays the others.
type Scheduler struct {
	config SchedulerConfig
	logger *zap.Logger

	mu        sync.Mutex
	jobs      map[string]registeredJob
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning bool
	runCtx    context.Context
}

// NewScheduler creates a new scheduler instance
func NewScheduler(config SchedulerConfig, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		config: config,
		logger: logger,
		jobs:   make(map[string]registeredJob),
	}
}

// Register adds a job to run on the given interval. Must be called before Start.
func (s *Scheduler) Register(job Job, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name()] = registeredJob{job: job, interval: interval}
}

// Start launches one loop per registered job
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.runCtx = ctx

	for _, reg := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(ctx, reg)
	}
	count := len(s.jobs)
	s.mu.Unlock()

	s.logger.Info("scheduler started", zap.Int("jobs", count))
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
		return ctx.Err()
	}
}

// RunNow triggers a registered job immediately, outside its interval.
// Used by the console "run sweep now" style actions.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	reg, ok := s.jobs[name]
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown job %q", name)
	}
	s.execute(ctx, reg.job)
	return nil
}

func (s *Scheduler) runLoop(ctx context.Context, reg registeredJob) {
	defer s.wg.Done()

	ticker := time.NewTicker(reg.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.execute(ctx, reg.job)
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, job Job) {
	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panicked",
				zap.String("job", job.Name()),
				zap.Any("panic", r),
			)
		}
	}()

	start := time.Now()
	if err := job.Run(jobCtx); err != nil {
		s.logger.Error("job failed",
			zap.String("job", job.Name()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("job completed",
		zap.String("job", job.Name()),
		zap.Duration("elapsed", time.Since(start)),
	)
}
