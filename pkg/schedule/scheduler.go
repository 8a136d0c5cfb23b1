package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// Job is one periodic sweep. Run returns an error only when the whole run
// failed; partial failures are the job's own business and end up in its report.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Scheduler drives registered jobs on independent tickers. Runs of the same
// job do not overlap (the next tick waits for the previous run), but there is
// no cross-process guard: two scheduler instances would run sweeps twice.
type Scheduler struct {
	clock  clockwork.Clock
	logger *logrus.Entry
	jobs   []Job
	m      *schedulerMetrics
}

func NewScheduler(clock clockwork.Clock, logger *logrus.Entry) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Scheduler{
		clock:  clock,
		logger: logger.WithField("component", "scheduler"),
		m:      getSchedulerMetrics(),
	}
}

func (s *Scheduler) Register(job Job) error {
	if job.Name == "" {
		return fmt.Errorf("scheduler: job name is required")
	}
	if job.Every <= 0 {
		return fmt.Errorf("scheduler: job %q needs a positive interval", job.Name)
	}
	if job.Run == nil {
		return fmt.Errorf("scheduler: job %q has no run function", job.Name)
	}
	s.jobs = append(s.jobs, job)
	return nil
}

// Start blocks until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	var wg sync.WaitGroup
	for _, job := range s.jobs {
		wg.Add(1)
		go func(job Job) {
			defer wg.Done()
			s.runJob(ctx, job)
		}(job)
	}
	wg.Wait()
}

func (s *Scheduler) runJob(ctx context.Context, job Job) {
	ticker := s.clock.NewTicker(job.Every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}
		s.RunNow(ctx, job)
	}
}

// RunNow executes one job run with panic isolation and metrics.
func (s *Scheduler) RunNow(ctx context.Context, job Job) {
	start := s.clock.Now()
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job %s panicked: %v", job.Name, r)
			}
		}()
		return job.Run(ctx)
	}()
	elapsed := s.clock.Since(start)

	result := "success"
	if err != nil {
		result = "failure"
		s.logger.WithError(err).WithField("job", job.Name).Error("sweep run failed")
	}
	s.m.runsTotal.WithLabelValues(job.Name, result).Inc()
	s.m.runDuration.WithLabelValues(job.Name).Observe(elapsed.Seconds())
}
