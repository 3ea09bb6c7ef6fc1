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

type issueStore struct {
	queries *sqlc.Queries
}

func newIssueStore(queries *sqlc.Queries) IssueStore {
	return &issueStore{queries: queries}
}

func (s *issueStore) GetByID(ctx context.Context, id int64) (*model.Issue, error) {
	row, err := s.queries.GetJiraIssue(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toIssueModel(row), nil
}

func (s *issueStore) Upsert(ctx context.Context, issue model.Issue) error {
	return s.queries.UpsertJiraIssue(ctx, sqlc.UpsertJiraIssueParams{
		ID:          issue.ID,
		ProjectID:   issue.ProjectID,
		Key:         issue.Key,
		Summary:     issue.Summary,
		Description: issue.Description,
		IssueType:   sqlc.JiraIssueType(issue.Type),
		Priority:    sqlc.JiraIssuePriority(issue.Priority),
		CreatedAt:   timestamptz(issue.CreatedAt),
		UpdatedAt:   timestamptz(issue.UpdatedAt),
	})
}

func (s *issueStore) Count(ctx context.Context) (int64, error) {
	return s.queries.CountJiraIssues(ctx)
}

func toIssueModel(row sqlc.JiraIssue) *model.Issue {
	return &model.Issue{
		ID:          row.ID,
		ProjectID:   row.ProjectID,
		Key:         row.Key,
		Summary:     row.Summary,
		Description: row.Description,
		Type:        model.IssueType(row.IssueType),
		Priority:    model.IssuePriority(row.Priority),
		CreatedAt:   row.CreatedAt.Time.UTC(),
		UpdatedAt:   row.UpdatedAt.Time.UTC(),
	}
}

func timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}
