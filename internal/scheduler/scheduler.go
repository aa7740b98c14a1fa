// Package scheduler runs background maintenance jobs on fixed intervals.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stwalsh4118/landregistry/internal/logger"
	"github.com/stwalsh4118/landregistry/internal/metrics"
)

// Job is one unit of recurring work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

type entry struct {
	job      Job
	interval time.Duration
}

// Scheduler runs each registered job once at start and then on every tick of
// its interval. A failed run is logged and counted; the job keeps its schedule.
type Scheduler struct {
	log      *logger.Logger
	metrics  *metrics.Metrics
	stop     chan struct{}
	entries  []entry
	stopOnce sync.Once
}

// New creates an empty Scheduler. m may be nil.
func New(log *logger.Logger, m *metrics.Metrics) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		log:     log.WithComponent("scheduler"),
		metrics: m,
		stop:    make(chan struct{}),
	}
}

// Register adds job to run every interval. A non-positive interval disables it.
func (s *Scheduler) Register(job Job, interval time.Duration) {
	if interval <= 0 {
		s.log.Info("Job disabled", map[string]interface{}{"job": job.Name()})
		return
	}
	s.entries = append(s.entries, entry{job: job, interval: interval})
}

// Jobs returns the names of the enabled jobs in registration order.
func (s *Scheduler) Jobs() []string {
	names := make([]string, 0, len(s.entries))
	for _, e := range s.entries {
		names = append(names, e.job.Name())
	}
	return names
}

// Start blocks until ctx is cancelled or Stop is called, then waits for
// in-flight runs to return.
func (s *Scheduler) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for _, e := range s.entries {
		g.Go(func() error {
			s.loop(ctx, e)
			return nil
		})
	}

	s.log.Info("Scheduler started", map[string]interface{}{"jobs": s.Jobs()})

	select {
	case <-ctx.Done():
	case <-s.stop:
		cancel()
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("scheduler stopped with error: %w", err)
	}
	s.log.Info("Scheduler stopped", nil)
	return nil
}

// Stop asks a running Start to return. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *Scheduler) loop(ctx context.Context, e entry) {
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	s.runJob(ctx, e.job)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runJob(ctx, e.job)
		}
	}
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	start := time.Now()
	err := job.Run(ctx)
	fields := map[string]interface{}{
		"job":         job.Name(),
		"duration_ms": time.Since(start).Milliseconds(),
	}

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		s.metrics.IncrementJobRun(job.Name(), metrics.JobFailure)
		s.log.Error("Job run failed", err, fields)
		return
	}
	s.metrics.IncrementJobRun(job.Name(), metrics.JobSuccess)
	s.log.Debug("Job run completed", fields)
}
