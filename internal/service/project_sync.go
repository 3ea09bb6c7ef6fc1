package service

import (
	"context"
	"fmt"
	"log/slog"

	"basegraph.app/issuesync/common/logger"
	"basegraph.app/issuesync/internal/service/issue_tracker"
)

// ProjectSyncService refreshes every Jira project, filling in the names of
// placeholder rows created during issue syncs.
type ProjectSyncService interface {
	Sync(ctx context.Context) (int, error)
}

type projectSyncService struct {
	source   issue_tracker.ProjectSource
	txRunner TxRunner
}

func NewProjectSyncService(source issue_tracker.ProjectSource, txRunner TxRunner) ProjectSyncService {
	return &projectSyncService{source: source, txRunner: txRunner}
}

func (s *projectSyncService) Sync(ctx context.Context) (int, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "issuesync.service.project_sync"})
	sc := logger.StartSpan(ctx, "sync.projects")
	defer sc.End()
	ctx = sc.Context()

	projects, err := s.source.FetchProjects(ctx)
	if err != nil {
		sc.Fail(err)
		return 0, syncFailure(ErrProjectFetchFailed, err)
	}
	if len(projects) == 0 {
		slog.InfoContext(ctx, "jira returned no projects")
		return 0, nil
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		for _, p := range projects {
			if err := stores.Projects().Upsert(ctx, p); err != nil {
				return fmt.Errorf("upserting project %s: %w", p.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		sc.Fail(err)
		return 0, syncFailure(ErrProjectPersistFailed, err)
	}

	slog.InfoContext(ctx, "project sync completed", "synced", len(projects))
	return len(projects), nil
}
