package service

import (
	"context"
	"log/slog"
	"time"

	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/internal/service/issue_tracker"
	"go.opentelemetry.io/otel/attribute"
)

// IssueSyncService replicates issues updated since a watermark.
type IssueSyncService interface {
	// Sync returns the number of issues persisted. On failure no count is
	// returned; pages committed before the failure stay committed.
	Sync(ctx context.Context, since time.Time) (int, error)
}

type issueSyncService struct {
	registry  ProjectKeyRegistry
	source    issue_tracker.IssueSource
	persister IssuePersister
}

func NewIssueSyncService(
	registry ProjectKeyRegistry,
	source issue_tracker.IssueSource,
	persister IssuePersister,
) IssueSyncService {
	return &issueSyncService{
		registry:  registry,
		source:    source,
		persister: persister,
	}
}

func (s *issueSyncService) Sync(ctx context.Context, since time.Time) (int, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "issuesync.service.issue_sync"})
	sc := logger.StartSpan(ctx, "sync.issues")
	defer sc.End()
	ctx = sc.Context()

	start := time.Now()

	keys, err := s.registry.ProjectKeys(ctx)
	if err != nil {
		sc.Fail(err)
		return 0, syncFailure(ErrProjectKeyFetchFailed, err)
	}
	if len(keys) == 0 {
		slog.InfoContext(ctx, "no tracked projects, skipping issue sync")
		return 0, nil
	}

	slog.InfoContext(ctx, "issue sync started",
		"projects", len(keys),
		"since", since.UTC().Format(time.RFC3339))

	total, pages := 0, 0
	for batch, err := range s.source.FetchIssues(ctx, keys, since) {
		if err != nil {
			sc.Fail(err)
			return 0, syncFailure(ErrIssueFetchFailed, err)
		}
		pages++
		if len(batch) == 0 {
			continue
		}

		if _, err := s.persister.PersistBatch(ctx, batch); err != nil {
			sc.Fail(err)
			return 0, syncFailure(ErrIssuePersistFailed, err)
		}
		total += len(batch)

		slog.DebugContext(ctx, "persisted issue batch",
			"page", pages,
			"batch_size", len(batch),
			"total", total)
	}

	sc.SetAttributes(
		attribute.Int("sync.pages", pages),
		attribute.Int("sync.issues", total),
	)
	slog.InfoContext(ctx, "issue sync completed",
		"synced", total,
		"pages", pages,
		"duration_ms", time.Since(start).Milliseconds())

	return total, nil
}
