package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/queue"
	"basegraph.app/issuesync/internal/store"
)

type ReclaimerConfig struct {
	// Consumer is the group member that takes over claimed tasks.
	Consumer string
	// MinIdle is how long a task must sit unacked before it is inspected.
	MinIdle   time.Duration
	Interval  time.Duration
	BatchSize int64
	// RunTimeout is how long a run may stay running before its task is
	// considered abandoned by a dead worker.
	RunTimeout time.Duration
}

// Reclaimer finds sync tasks left unacked and settles them against the
// sync_run log. A run that is still in progress is left alone, a finished
// run only needs its ack, and a run that never started or was abandoned is
// executed again.
type Reclaimer struct {
	queue   PendingQueue
	runs    RunLookup
	process queue.MessageProcessor
	cfg     ReclaimerConfig
	now     func() time.Time

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewReclaimer(q PendingQueue, runs RunLookup, process queue.MessageProcessor, cfg ReclaimerConfig) *Reclaimer {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 10
	}
	return &Reclaimer{
		queue:     q,
		runs:      runs,
		process:   process,
		cfg:       cfg,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run checks for stale tasks every interval until ctx ends or Stop is called.
func (r *Reclaimer) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "issuesync.worker.reclaimer",
	})

	defer close(r.stoppedCh)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "reclaimer started",
		"interval", r.cfg.Interval,
		"min_idle", r.cfg.MinIdle,
		"run_timeout", r.cfg.RunTimeout)

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopCh:
			slog.InfoContext(ctx, "reclaimer stopping")
			return
		case <-ticker.C:
			if err := r.ReclaimOnce(ctx); err != nil {
				slog.ErrorContext(ctx, "reclaim cycle error", "error", err)
			}
		}
	}
}

func (r *Reclaimer) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// ReclaimOnce settles one batch of stale tasks.
func (r *Reclaimer) ReclaimOnce(ctx context.Context) error {
	pending, err := r.queue.Pending(ctx, r.cfg.MinIdle, r.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("listing pending tasks: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "found stale pending tasks", "count", len(pending))

	for _, p := range pending {
		if err := r.reclaim(ctx, p); err != nil {
			slog.ErrorContext(ctx, "failed to reclaim task",
				"error", err,
				"message_id", p.ID,
				"original_consumer", p.Consumer,
				"idle_time", p.Idle)
		}
	}
	return nil
}

func (r *Reclaimer) reclaim(ctx context.Context, p queue.PendingEntry) error {
	msgID := p.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{MessageID: &msgID})

	msg, ok, err := r.queue.Claim(ctx, p.ID, r.cfg.Consumer, r.cfg.MinIdle)
	if err != nil {
		return err
	}
	if !ok {
		slog.DebugContext(ctx, "task already settled by another consumer")
		return nil
	}

	taskType := string(msg.TaskType)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SyncRunID: logger.Ptr(msg.RunID),
		TaskType:  &taskType,
	})

	run, err := r.runs.GetByID(ctx, msg.RunID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		slog.InfoContext(ctx, "reclaimed task never started, running it",
			"deliveries", p.Deliveries)
		return r.rerun(ctx, msg)
	case err != nil:
		return fmt.Errorf("looking up sync run: %w", err)
	}

	switch run.Status {
	case model.SyncRunStatusSucceeded:
		slog.InfoContext(ctx, "reclaimed task already succeeded, acking")
		return r.queue.Ack(ctx, msg)
	case model.SyncRunStatusFailed:
		reason := "sync run failed"
		if run.Error != nil {
			reason = *run.Error
		}
		slog.WarnContext(ctx, "reclaimed task already failed, sending to DLQ")
		return r.queue.SendDLQ(ctx, msg, reason)
	}

	// The worker cancels a run at RunTimeout and then records it; one more
	// interval covers that write.
	running := r.now().Sub(run.StartedAt)
	if r.cfg.RunTimeout > 0 && running >= r.cfg.RunTimeout+r.cfg.Interval {
		slog.WarnContext(ctx, "sync run abandoned, running it again",
			"running_for", running)
		return r.rerun(ctx, msg)
	}

	slog.DebugContext(ctx, "sync run still in progress, leaving task pending",
		"running_for", running)
	return nil
}

func (r *Reclaimer) rerun(ctx context.Context, msg queue.Message) error {
	start := time.Now()
	if err := r.process(ctx, msg); err != nil {
		return fmt.Errorf("processing reclaimed task: %w", err)
	}
	slog.InfoContext(ctx, "reclaimed task processed",
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
