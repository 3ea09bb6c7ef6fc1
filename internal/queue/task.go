package queue

import (
	"fmt"
	"time"

	"basegraph.app/issuesync/internal/model"
)

type TaskType string

const (
	TaskTypeIssueSync   TaskType = "issue_sync"
	TaskTypeProjectSync TaskType = "project_sync"
)

// SyncKind maps a task type onto the sync it triggers.
func (t TaskType) SyncKind() (model.SyncKind, error) {
	switch t {
	case TaskTypeIssueSync:
		return model.SyncKindIssues, nil
	case TaskTypeProjectSync:
		return model.SyncKindProjects, nil
	default:
		return "", fmt.Errorf("unknown task_type %q", t)
	}
}

// Task is a sync request on its way into the stream. Since is the
// watermark for issue syncs and must be nil for project syncs.
type Task struct {
	TaskType TaskType
	RunID    int64
	Since    *time.Time
	TraceID  *string
	Attempt  int
}
