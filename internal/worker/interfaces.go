package worker

import (
	"context"
	"time"

	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/queue"
)

// Consumer abstracts the message queue for testability.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// PendingQueue exposes the unacked tasks of the consumer group.
type PendingQueue interface {
	Pending(ctx context.Context, minIdle time.Duration, count int64) ([]queue.PendingEntry, error)
	Claim(ctx context.Context, id, consumer string, minIdle time.Duration) (queue.Message, bool, error)
	Ack(ctx context.Context, msg queue.Message) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

// RunLookup reads the recorded state of a sync run.
type RunLookup interface {
	GetByID(ctx context.Context, id int64) (*model.SyncRun, error)
}
