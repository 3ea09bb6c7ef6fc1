package model

import "time"

type SyncKind string

const (
	SyncKindIssues   SyncKind = "issues"
	SyncKindProjects SyncKind = "projects"
)

type SyncRunStatus string

const (
	SyncRunStatusRunning   SyncRunStatus = "running"
	SyncRunStatusSucceeded SyncRunStatus = "succeeded"
	SyncRunStatusFailed    SyncRunStatus = "failed"
)

type SyncRun struct {
	ID          int64         `json:"id"`
	Kind        SyncKind      `json:"kind"`
	Watermark   *time.Time    `json:"watermark,omitempty"`
	Status      SyncRunStatus `json:"status"`
	Attempt     int32         `json:"attempt"`
	SyncedCount int32         `json:"synced_count"`
	Error       *string       `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	FinishedAt  *time.Time    `json:"finished_at,omitempty"`
}
