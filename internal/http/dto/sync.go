package dto

import (
	"time"

	"basegraph.app/issuesync/common/id"
	"basegraph.app/issuesync/internal/model"
)

type TriggerIssueSyncRequest struct {
	// Days overrides the configured lookback window.
	Days *int `json:"days,omitempty" binding:"omitempty,min=0,max=3650"`
}

type SyncEnqueuedResponse struct {
	RunID      int64      `json:"run_id,string"`
	Kind       string     `json:"kind"`
	Since      *time.Time `json:"since,omitempty"`
	EnqueuedAt time.Time  `json:"enqueued_at"`
}

func NewSyncEnqueuedResponse(runID int64, kind model.SyncKind, since *time.Time) SyncEnqueuedResponse {
	return SyncEnqueuedResponse{
		RunID:      runID,
		Kind:       string(kind),
		Since:      since,
		EnqueuedAt: id.Time(runID),
	}
}

type SyncRunResponse struct {
	ID          int64      `json:"id,string"`
	Kind        string     `json:"kind"`
	Status      string     `json:"status"`
	Watermark   *time.Time `json:"watermark,omitempty"`
	Attempt     int32      `json:"attempt"`
	SyncedCount int32      `json:"synced_count"`
	Error       *string    `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

func ToSyncRunResponse(run *model.SyncRun) *SyncRunResponse {
	return &SyncRunResponse{
		ID:          run.ID,
		Kind:        string(run.Kind),
		Status:      string(run.Status),
		Watermark:   run.Watermark,
		Attempt:     run.Attempt,
		SyncedCount: run.SyncedCount,
		Error:       run.Error,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
	}
}
