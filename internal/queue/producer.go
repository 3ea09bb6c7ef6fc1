package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, task Task) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, task Task) error {
	if _, err := task.TaskType.SyncKind(); err != nil {
		return err
	}
	if task.TaskType == TaskTypeIssueSync && task.Since == nil {
		return fmt.Errorf("enqueue %s: missing since", task.TaskType)
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: taskValues(task),
	}).Err(); err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued sync task",
		"task_type", task.TaskType,
		"run_id", task.RunID,
		"attempt", max(task.Attempt, 1))
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

func taskValues(task Task) map[string]any {
	attempt := task.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"task_type": string(task.TaskType),
		"run_id":    task.RunID,
		"attempt":   attempt,
	}
	if task.Since != nil {
		fields["since"] = task.Since.UTC().Format(time.RFC3339)
	}
	if task.TraceID != nil && *task.TraceID != "" {
		fields["trace_id"] = *task.TraceID
	}
	return fields
}
