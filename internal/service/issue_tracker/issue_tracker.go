package issue_tracker

import (
	"context"
	"iter"
	"time"

	"basegraph.app/issuesync/internal/model"
)

// IssueSource streams issues updated since a watermark, one page per item.
// The sequence is single-use. An error item is always the last item.
type IssueSource interface {
	FetchIssues(ctx context.Context, projectKeys []string, since time.Time) iter.Seq2[[]model.Issue, error]
}

// ProjectSource lists every project visible to the configured account.
type ProjectSource interface {
	FetchProjects(ctx context.Context) ([]model.Project, error)
}
