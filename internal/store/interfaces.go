package store

import (
	"context"
	"errors"

	"basegraph.app/issuesync/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ProjectStore defines the contract for Jira project data access
type ProjectStore interface {
	ListKeys(ctx context.Context) ([]string, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	// UpsertPlaceholder registers a project known only from an issue key.
	// An existing row keeps its name; only the key is refreshed.
	UpsertPlaceholder(ctx context.Context, id int64, key string) error
	Upsert(ctx context.Context, project model.Project) error
}

// IssueStore defines the contract for Jira issue data access
type IssueStore interface {
	GetByID(ctx context.Context, id int64) (*model.Issue, error)
	// Upsert inserts the issue or overwrites every column except created_at.
	Upsert(ctx context.Context, issue model.Issue) error
	Count(ctx context.Context) (int64, error)
}

// SyncRunStore records the outcome of queued sync runs
type SyncRunStore interface {
	Start(ctx context.Context, run model.SyncRun) (*model.SyncRun, error)
	Finish(ctx context.Context, id int64, status model.SyncRunStatus, syncedCount int32, errMsg *string) error
	GetByID(ctx context.Context, id int64) (*model.SyncRun, error)
}
