package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/internal/model"
	"basegraph.app/issuesync/internal/store"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrUnknownSyncKind  = errors.New("unknown sync kind")
	ErrMissingWatermark = errors.New("issue sync requires a watermark")

	// ErrSyncRunFailed wraps a sync that started and was recorded as failed.
	// Such a run is final; only a fresh invocation syncs again.
	ErrSyncRunFailed = errors.New("sync run failed")
)

// SyncRequest describes one recorded sync run. Since is required for issue
// syncs and ignored for project syncs.
type SyncRequest struct {
	RunID   int64
	Kind    model.SyncKind
	Since   *time.Time
	Attempt int32
	// TraceID is the hex trace id of the request that enqueued the run.
	TraceID string
}

// SyncRunner executes a sync and records its outcome in sync_run.
type SyncRunner interface {
	Run(ctx context.Context, req SyncRequest) (int, error)
}

type syncRunner struct {
	runs     store.SyncRunStore
	issues   IssueSyncService
	projects ProjectSyncService
}

func NewSyncRunner(runs store.SyncRunStore, issues IssueSyncService, projects ProjectSyncService) SyncRunner {
	return &syncRunner{runs: runs, issues: issues, projects: projects}
}

func (r *syncRunner) Run(ctx context.Context, req SyncRequest) (int, error) {
	switch req.Kind {
	case model.SyncKindIssues:
		if req.Since == nil {
			return 0, ErrMissingWatermark
		}
	case model.SyncKindProjects:
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSyncKind, req.Kind)
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		SyncRunID: logger.Ptr(req.RunID),
		Component: "issuesync.service.sync_runner",
	})
	sc := logger.StartRunSpan(ctx, req.TraceID, req.RunID, string(req.Kind))
	defer sc.End()
	ctx = sc.Context()

	attempt := req.Attempt
	if attempt < 1 {
		attempt = 1
	}
	if _, err := r.runs.Start(ctx, model.SyncRun{
		ID:        req.RunID,
		Kind:      req.Kind,
		Watermark: req.Since,
		Attempt:   attempt,
	}); err != nil {
		sc.Fail(err)
		return 0, fmt.Errorf("recording sync run start: %w", err)
	}

	var (
		count  int
		runErr error
	)
	if req.Kind == model.SyncKindIssues {
		count, runErr = r.issues.Sync(ctx, *req.Since)
	} else {
		count, runErr = r.projects.Sync(ctx)
	}

	status := model.SyncRunStatusSucceeded
	var errMsg *string
	if runErr != nil {
		status = model.SyncRunStatusFailed
		errMsg = logger.Ptr(logger.Truncate(runErr.Error(), 2000))
	}
	// A cancelled or timed out run still records its outcome.
	if err := r.runs.Finish(context.WithoutCancel(ctx), req.RunID, status, int32(count), errMsg); err != nil {
		slog.WarnContext(ctx, "failed to record sync run outcome",
			"status", status,
			"error", err)
	}

	sc.SetAttributes(attribute.Int("sync.count", count))
	if runErr != nil {
		sc.Fail(runErr)
		return 0, fmt.Errorf("%w: %w", ErrSyncRunFailed, runErr)
	}
	return count, nil
}
