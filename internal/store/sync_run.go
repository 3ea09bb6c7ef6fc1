package store

import (
	"context"
	"errors"
	"time"

	"basegraph.app/issuesync/core/db/sqlc"
	"basegraph.app/issuesync/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type syncRunStore struct {
	queries *sqlc.Queries
}

func newSyncRunStore(queries *sqlc.Queries) SyncRunStore {
	return &syncRunStore{queries: queries}
}

// Start records a run as running. Restarting an existing id resets its
// outcome, which is what a requeued task needs.
func (s *syncRunStore) Start(ctx context.Context, run model.SyncRun) (*model.SyncRun, error) {
	var watermark pgtype.Timestamptz
	if run.Watermark != nil {
		watermark = timestamptz(*run.Watermark)
	}

	row, err := s.queries.StartSyncRun(ctx, sqlc.StartSyncRunParams{
		ID:        run.ID,
		Kind:      string(run.Kind),
		Watermark: watermark,
		Attempt:   run.Attempt,
	})
	if err != nil {
		return nil, err
	}
	return toSyncRunModel(row), nil
}

func (s *syncRunStore) Finish(ctx context.Context, id int64, status model.SyncRunStatus, syncedCount int32, errMsg *string) error {
	return s.queries.FinishSyncRun(ctx, sqlc.FinishSyncRunParams{
		ID:          id,
		Status:      string(status),
		SyncedCount: syncedCount,
		Error:       errMsg,
	})
}

func (s *syncRunStore) GetByID(ctx context.Context, id int64) (*model.SyncRun, error) {
	row, err := s.queries.GetSyncRun(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toSyncRunModel(row), nil
}

func toSyncRunModel(row sqlc.SyncRun) *model.SyncRun {
	var watermark, finishedAt *time.Time
	if row.Watermark.Valid {
		t := row.Watermark.Time
		watermark = &t
	}
	if row.FinishedAt.Valid {
		t := row.FinishedAt.Time
		finishedAt = &t
	}
	return &model.SyncRun{
		ID:          row.ID,
		Kind:        model.SyncKind(row.Kind),
		Watermark:   watermark,
		Status:      model.SyncRunStatus(row.Status),
		Attempt:     row.Attempt,
		SyncedCount: row.SyncedCount,
		Error:       row.Error,
		StartedAt:   row.StartedAt.Time,
		FinishedAt:  finishedAt,
	}
}
