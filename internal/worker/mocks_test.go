package worker

import (
	"context"
	"sync"
	"time"

	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/queue"
	"basegraph.app/issuesync/internal/service"
	"basegraph.app/issuesync/internal/store"
)

type mockConsumer struct {
	mu       sync.Mutex
	readFn   func(ctx context.Context) ([]queue.Message, error)
	acked    []string
	requeued []string
	dlq      []string
	reasons  []string
}

func (m *mockConsumer) Read(ctx context.Context) ([]queue.Message, error) {
	if m.readFn != nil {
		return m.readFn(ctx)
	}
	return nil, nil
}

func (m *mockConsumer) Ack(_ context.Context, msg queue.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, msg.ID)
	return nil
}

func (m *mockConsumer) Requeue(_ context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requeued = append(m.requeued, msg.ID)
	m.reasons = append(m.reasons, errMsg)
	return nil
}

func (m *mockConsumer) SendDLQ(_ context.Context, msg queue.Message, errMsg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dlq = append(m.dlq, msg.ID)
	m.reasons = append(m.reasons, errMsg)
	return nil
}

type mockRunner struct {
	runFn    func(ctx context.Context, req service.SyncRequest) (int, error)
	requests []service.SyncRequest
}

func (m *mockRunner) Run(ctx context.Context, req service.SyncRequest) (int, error) {
	m.requests = append(m.requests, req)
	if m.runFn != nil {
		return m.runFn(ctx, req)
	}
	return 0, nil
}

type mockProducer struct {
	enqueueFn func(ctx context.Context, task queue.Task) error
	tasks     []queue.Task
}

func (m *mockProducer) Enqueue(ctx context.Context, task queue.Task) error {
	if m.enqueueFn != nil {
		if err := m.enqueueFn(ctx, task); err != nil {
			return err
		}
	}
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}

type mockPendingQueue struct {
	pendingFn func(ctx context.Context, minIdle time.Duration, count int64) ([]queue.PendingEntry, error)
	claimFn   func(ctx context.Context, id, consumer string, minIdle time.Duration) (queue.Message, bool, error)
	acked     []string
	dlq       []string
	reasons   []string
}

func (m *mockPendingQueue) Pending(ctx context.Context, minIdle time.Duration, count int64) ([]queue.PendingEntry, error) {
	if m.pendingFn != nil {
		return m.pendingFn(ctx, minIdle, count)
	}
	return nil, nil
}

func (m *mockPendingQueue) Claim(ctx context.Context, id, consumer string, minIdle time.Duration) (queue.Message, bool, error) {
	if m.claimFn != nil {
		return m.claimFn(ctx, id, consumer, minIdle)
	}
	return queue.Message{}, false, nil
}

func (m *mockPendingQueue) Ack(_ context.Context, msg queue.Message) error {
	m.acked = append(m.acked, msg.ID)
	return nil
}

func (m *mockPendingQueue) SendDLQ(_ context.Context, msg queue.Message, errMsg string) error {
	m.dlq = append(m.dlq, msg.ID)
	m.reasons = append(m.reasons, errMsg)
	return nil
}

type mockRunLookup struct {
	getByIDFn func(ctx context.Context, id int64) (*model.SyncRun, error)
}

func (m *mockRunLookup) GetByID(ctx context.Context, id int64) (*model.SyncRun, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}
