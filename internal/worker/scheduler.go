package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/issuesync/common/id"
	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/internal/queue"
)

type SchedulerConfig struct {
	Interval     time.Duration
	LookbackDays int
}

// Scheduler enqueues a project sync followed by an issue sync on every tick,
// so project names are refreshed before the issue pass creates placeholders.
type Scheduler struct {
	producer queue.Producer
	cfg      SchedulerConfig
	newID    func() int64
	now      func() time.Time

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewScheduler(producer queue.Producer, cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	return &Scheduler{
		producer:  producer,
		cfg:       cfg,
		newID:     id.New,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run enqueues immediately, then once per interval. Blocks until Stop() is
// called or ctx is done.
func (s *Scheduler) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "issuesync.worker.scheduler",
	})

	defer close(s.stoppedCh)

	slog.InfoContext(ctx, "scheduler started",
		"interval", s.cfg.Interval,
		"lookback_days", s.cfg.LookbackDays)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		if err := s.EnqueueOnce(ctx); err != nil {
			slog.ErrorContext(ctx, "scheduling sync failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "scheduler stopping")
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}

// EnqueueOnce enqueues one project sync and one issue sync.
func (s *Scheduler) EnqueueOnce(ctx context.Context) error {
	if err := s.producer.Enqueue(ctx, queue.Task{
		TaskType: queue.TaskTypeProjectSync,
		RunID:    s.newID(),
	}); err != nil {
		return fmt.Errorf("enqueueing project sync: %w", err)
	}

	since := s.now().UTC().AddDate(0, 0, -s.cfg.LookbackDays)
	if err := s.producer.Enqueue(ctx, queue.Task{
		TaskType: queue.TaskTypeIssueSync,
		RunID:    s.newID(),
		Since:    &since,
	}); err != nil {
		return fmt.Errorf("enqueueing issue sync: %w", err)
	}
	return nil
}
