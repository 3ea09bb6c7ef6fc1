package service

import (
	"context"
	"fmt"

	"basegraph.app/issuesync/internal/store"
)

// ProjectKeyRegistry supplies the project keys that scope an issue sync.
type ProjectKeyRegistry interface {
	ProjectKeys(ctx context.Context) ([]string, error)
}

type storeProjectKeyRegistry struct {
	projects store.ProjectStore
}

// NewProjectKeyRegistry tracks every project already present in the store.
func NewProjectKeyRegistry(projects store.ProjectStore) ProjectKeyRegistry {
	return &storeProjectKeyRegistry{projects: projects}
}

func (r *storeProjectKeyRegistry) ProjectKeys(ctx context.Context) ([]string, error) {
	keys, err := r.projects.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing project keys: %w", err)
	}
	return keys, nil
}
