package store

import (
	"context"
	"errors"

	"basegraph.app/issuesync/core/db/sqlc"
	"basegraph.app/issuesync/internal/model"
	"github.com/jackc/pgx/v5"
)

type projectStore struct {
	queries *sqlc.Queries
}

func newProjectStore(queries *sqlc.Queries) ProjectStore {
	return &projectStore{queries: queries}
}

func (s *projectStore) ListKeys(ctx context.Context) ([]string, error) {
	keys, err := s.queries.ListJiraProjectKeys(ctx)
	if err != nil {
		return nil, err
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}

func (s *projectStore) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	row, err := s.queries.GetJiraProject(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toProjectModel(row), nil
}

func (s *projectStore) UpsertPlaceholder(ctx context.Context, id int64, key string) error {
	return s.queries.UpsertJiraProjectPlaceholder(ctx, sqlc.UpsertJiraProjectPlaceholderParams{
		ID:  id,
		Key: key,
	})
}

func (s *projectStore) Upsert(ctx context.Context, project model.Project) error {
	return s.queries.UpsertJiraProject(ctx, sqlc.UpsertJiraProjectParams{
		ID:   project.ID,
		Key:  project.Key,
		Name: project.Name,
	})
}

func toProjectModel(row sqlc.JiraProject) *model.Project {
	return &model.Project{
		ID:        row.ID,
		Key:       row.Key,
		Name:      row.Name,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
