package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/queue"
	"basegraph.app/issuesync/internal/store"
	"go.opentelemetry.io/otel/trace"
)

var ErrSyncRunNotFound = errors.New("sync run not found")

// SyncDispatcher enqueues sync runs for the worker and reports on them.
type SyncDispatcher interface {
	EnqueueIssueSync(ctx context.Context, since time.Time) (int64, error)
	EnqueueProjectSync(ctx context.Context) (int64, error)
	// GetRun returns ErrSyncRunNotFound until a worker has picked the run up.
	GetRun(ctx context.Context, id int64) (*model.SyncRun, error)
}

type syncDispatcher struct {
	producer queue.Producer
	runs     store.SyncRunStore
	newID    func() int64
}

func NewSyncDispatcher(producer queue.Producer, runs store.SyncRunStore, newID func() int64) SyncDispatcher {
	return &syncDispatcher{producer: producer, runs: runs, newID: newID}
}

func (d *syncDispatcher) EnqueueIssueSync(ctx context.Context, since time.Time) (int64, error) {
	since = since.UTC()
	return d.enqueue(ctx, queue.Task{TaskType: queue.TaskTypeIssueSync, Since: &since})
}

func (d *syncDispatcher) EnqueueProjectSync(ctx context.Context) (int64, error) {
	return d.enqueue(ctx, queue.Task{TaskType: queue.TaskTypeProjectSync})
}

func (d *syncDispatcher) enqueue(ctx context.Context, task queue.Task) (int64, error) {
	task.RunID = d.newID()
	task.Attempt = 1
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		traceID := sc.TraceID().String()
		task.TraceID = &traceID
	}

	if err := d.producer.Enqueue(ctx, task); err != nil {
		return 0, fmt.Errorf("enqueueing %s: %w", task.TaskType, err)
	}

	slog.InfoContext(ctx, "sync run enqueued",
		"run_id", task.RunID,
		"task_type", task.TaskType)
	return task.RunID, nil
}

func (d *syncDispatcher) GetRun(ctx context.Context, id int64) (*model.SyncRun, error) {
	run, err := d.runs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrSyncRunNotFound
		}
		return nil, fmt.Errorf("getting sync run %d: %w", id, err)
	}
	return run, nil
}
