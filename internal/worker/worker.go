package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/internal/queue"
	"basegraph.app/issuesync/internal/service"
)

type Config struct {
	// MaxAttempts bounds redeliveries of a task whose run never started.
	MaxAttempts int
	// ErrorBackoff is how long Run waits after a failed read.
	ErrorBackoff time.Duration
	// RunTimeout cancels a sync that runs longer. Zero disables the limit.
	RunTimeout time.Duration
}

// Worker drains sync tasks from the stream and hands them to the SyncRunner.
type Worker struct {
	consumer Consumer
	runner   service.SyncRunner
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, runner service.SyncRunner, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:  consumer,
		runner:    runner,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "issuesync.worker",
	})

	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-ctx.Done():
				case <-w.stopCh:
				case <-time.After(w.cfg.ErrorBackoff):
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		_ = w.HandleMessage(ctx, msg)
	}

	return nil
}

// HandleMessage processes msg and routes a failure to requeue or the DLQ.
// It is shared with the reclaimer.
func (w *Worker) HandleMessage(ctx context.Context, msg queue.Message) error {
	if err := w.processMessageSafe(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "message processing failed",
			"error", err,
			"message_id", msg.ID,
			"run_id", msg.RunID)
		w.handleFailedMessage(ctx, msg, err)
		return err
	}
	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing",
				"panic", r,
				"message_id", msg.ID,
				"run_id", msg.RunID)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.ProcessMessage(ctx, msg)
}

// ProcessMessage runs the sync described by msg and acks it on success.
func (w *Worker) ProcessMessage(ctx context.Context, msg queue.Message) error {
	taskType := string(msg.TaskType)
	msgID := msg.ID
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SyncRunID: logger.Ptr(msg.RunID),
		TaskType:  &taskType,
		MessageID: &msgID,
	})

	kind, err := msg.TaskType.SyncKind()
	if err != nil {
		return fmt.Errorf("%w: %w", service.ErrUnknownSyncKind, err)
	}

	slog.InfoContext(ctx, "processing sync task", "attempt", msg.Attempt)

	runCtx := ctx
	if w.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, w.cfg.RunTimeout)
		defer cancel()
	}

	start := time.Now()
	count, err := w.runner.Run(runCtx, service.SyncRequest{
		RunID:   msg.RunID,
		Kind:    kind,
		Since:   msg.Since,
		Attempt: int32(msg.Attempt),
		TraceID: msg.TraceID,
	})
	if err != nil {
		return err
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The run is recorded; a redelivery only repeats idempotent upserts.
		slog.WarnContext(ctx, "failed to ACK message",
			"error", err,
			"message_id", msg.ID)
	}

	slog.InfoContext(ctx, "sync task completed",
		"synced", count,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if reason := deadLetterReason(err); reason != "" || msg.Attempt >= w.cfg.MaxAttempts {
		if reason == "" {
			reason = "attempts exhausted"
		}
		slog.ErrorContext(ctx, "sending task to DLQ",
			"message_id", msg.ID,
			"run_id", msg.RunID,
			"attempts", msg.Attempt,
			"reason", reason)
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing failed message",
		"message_id", msg.ID,
		"run_id", msg.RunID,
		"attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", requeueErr)
	}
}

// deadLetterReason returns why err must not be redelivered, or "" when the
// failure happened before the run was recorded and another attempt may
// succeed. A run that started and failed is final.
func deadLetterReason(err error) string {
	switch {
	case errors.Is(err, service.ErrSyncRunFailed):
		return "run failed"
	case errors.Is(err, service.ErrUnknownSyncKind), errors.Is(err, service.ErrMissingWatermark):
		return "malformed task"
	default:
		return ""
	}
}
